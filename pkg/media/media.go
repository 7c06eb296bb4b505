// Package media extracts container metadata from recordings.
package media

import (
	"context"
	"fmt"

	"code.cloudfoundry.org/bytefmt"
)

// Metadata describes the video track of a recording.
type Metadata struct {
	FrameRate float64
	Width     int
	Height    int
	FileSize  uint64
}

func (m Metadata) String() string {
	return fmt.Sprintf("%dx%d @ %g fps.  %s", m.Width, m.Height, m.FrameRate, bytefmt.ByteSize(m.FileSize))
}

// Extractor reads the metadata of a recording on the station.
type Extractor interface {
	Extract(ctx context.Context, path string) (Metadata, error)
}
