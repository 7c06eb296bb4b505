package media

import (
	"context"
	"encoding/json"
	"os/exec"

	"github.com/itchyny/gojq"
	"github.com/pkg/errors"
)

// metadataQuery picks the video fields out of exiftool's JSON array.
const metadataQuery = `.[0] | {
	frameRate: .VideoFrameRate,
	width: .ImageWidth,
	height: .ImageHeight,
	fileSize: .FileSize
}`

// CommandFunc builds the process for a tool invocation.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Exiftool extracts metadata with the exiftool binary.
type Exiftool struct {
	binary  string
	command CommandFunc
	query   *gojq.Code
}

var _ Extractor = (*Exiftool)(nil)

func NewExiftool(binary string, command CommandFunc) (*Exiftool, error) {
	if command == nil {
		command = exec.CommandContext
	}
	parsed, err := gojq.Parse(metadataQuery)
	if err != nil {
		return nil, errors.Wrap(err, "parse metadata query")
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, errors.Wrap(err, "compile metadata query")
	}
	return &Exiftool{binary: binary, command: command, query: code}, nil
}

// Args returns the exiftool arguments for path. -n keeps values numeric.
func Args(path string) []string {
	return []string{"-json", "-n", "-ImageWidth", "-ImageHeight", "-VideoFrameRate", "-FileSize", path}
}

func (e *Exiftool) Extract(ctx context.Context, path string) (Metadata, error) {
	out, err := e.command(ctx, e.binary, Args(path)...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Metadata{}, errors.Wrapf(err, "exiftool %s: %s", path, exitErr.Stderr)
		}
		return Metadata{}, errors.Wrapf(err, "exiftool %s", path)
	}
	return e.parse(ctx, out)
}

func (e *Exiftool) parse(ctx context.Context, out []byte) (Metadata, error) {
	var doc interface{}
	if err := json.Unmarshal(out, &doc); err != nil {
		return Metadata{}, errors.Wrap(err, "unmarshal exiftool output")
	}

	iter := e.query.RunWithContext(ctx, doc)
	v, ok := iter.Next()
	if !ok {
		return Metadata{}, errors.New("exiftool output is empty")
	}
	if err, ok := v.(error); ok {
		return Metadata{}, errors.Wrap(err, "query exiftool output")
	}
	fields, ok := v.(map[string]interface{})
	if !ok {
		return Metadata{}, errors.Errorf("unexpected exiftool output %v", v)
	}

	var m Metadata
	var missing []string
	number := func(key string) float64 {
		switch n := fields[key].(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
		missing = append(missing, key)
		return 0
	}
	m.FrameRate = number("frameRate")
	m.Width = int(number("width"))
	m.Height = int(number("height"))
	m.FileSize = uint64(number("fileSize"))
	if len(missing) > 0 {
		return Metadata{}, errors.Errorf("exiftool output has no %v", missing)
	}
	return m, nil
}
