// Package capture records the DUT's RTSP stream on the station and analyses recordings.
package capture

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrTimeout is returned when a capture does not reach the awaited state in time.
	ErrTimeout = errors.New("timed out waiting for capture")
	// ErrExitedEarly is returned when the capture process exits before it started recording.
	ErrExitedEarly = errors.New("capture process exited early")
)

// Spec describes a single recording.
type Spec struct {
	Duration  time.Duration
	Output    string
	ExtraArgs []string
}

// BlackDetectParams are the thresholds handed to the black frame filter.
type BlackDetectParams struct {
	// MinDuration is the shortest black run, in seconds, that is reported.
	MinDuration float64
	// PixelThreshold is the luminance below which a pixel counts as black.
	PixelThreshold float64
	// PictureThreshold is the share of black pixels that makes a frame black.
	PictureThreshold float64
}

// Recorder runs one capture at a time.
type Recorder interface {
	Start(ctx context.Context, url string, spec Spec) error
	// WaitForStart blocks until the capture is recording.
	WaitForStart(ctx context.Context, timeout time.Duration) error
	// WaitForTermination blocks until the capture finishes on its own and
	// reports whether it finished cleanly.
	WaitForTermination(ctx context.Context, timeout time.Duration) error
	// Stop ends the current capture if it is still running.
	Stop() error
	// DetectBlackSegments returns the total seconds of black video in the
	// first window of the recording.
	DetectBlackSegments(ctx context.Context, output string, window time.Duration, params BlackDetectParams) (float64, error)
}
