// Package logging sets up the station's console and device log sinks.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/teknique/fatest/pkg/util"
)

const (
	FieldRunID        = "run_id"
	FieldSerialNumber = "serial_number"
	FieldStage        = "stage"
)

// FileName is the device log name for a station and product, e.g.
// "rpi4_zeus_device_log".
func FileName(hostname, shortTitle string) string {
	return fmt.Sprintf("%s_%s_device_log", hostname, shortTitle)
}

// Options configures New.
type Options struct {
	Fs      afero.Fs
	Console io.Writer
	// Path is the device log file. Records are appended to it at info level and above.
	Path string
}

// New returns a logger that writes everything to the console and mirrors
// info and above to the device log file. Close the returned closer when done.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(console)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := opts.Fs.MkdirAll(dir, 0755); err != nil {
			return nil, nil, errors.Wrapf(err, "create log dir %s", dir)
		}
	}
	f, err := opts.Fs.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open device log %s", opts.Path)
	}
	log.AddHook(NewFileHook(util.NewStripANSIWriter(f), logrus.InfoLevel))

	return log, f, nil
}

// FileHook writes entries at or above a level to w with the station formatter.
type FileHook struct {
	w         io.Writer
	levels    []logrus.Level
	formatter logrus.Formatter
}

func NewFileHook(w io.Writer, level logrus.Level) *FileHook {
	levels := []logrus.Level{}
	for _, l := range logrus.AllLevels {
		if l <= level {
			levels = append(levels, l)
		}
	}
	return &FileHook{w: w, levels: levels, formatter: &StationFormatter{}}
}

func (h *FileHook) Levels() []logrus.Level {
	return h.levels
}

func (h *FileHook) Fire(entry *logrus.Entry) error {
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.w.Write(b)
	return err
}

// StationFormatter renders "<time> <LEVEL>: <serial number> - <message>" with
// any other fields appended as key=value.
type StationFormatter struct{}

func (f *StationFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	serial, _ := entry.Data[FieldSerialNumber].(string)
	fmt.Fprintf(b, "%s %s: %s - %s",
		entry.Time.Format("2006-01-02 15:04:05,000"),
		levelName(entry.Level),
		serial,
		entry.Message,
	)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == FieldSerialNumber {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelName(l logrus.Level) string {
	switch l {
	case logrus.WarnLevel:
		return "WARNING"
	case logrus.PanicLevel, logrus.FatalLevel:
		return "CRITICAL"
	}
	return strings.ToUpper(l.String())
}

// Discard returns a logger that drops everything, for callers that were not given one.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
