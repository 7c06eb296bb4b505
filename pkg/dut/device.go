package dut

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoAddress is returned when the DUT never reports an IPv4 address.
	ErrNoAddress = errors.New("device has no address")
	// ErrStreamActive is returned when a stream is opened while another is still running.
	ErrStreamActive = errors.New("a stream is already active on the device")
	// ErrCommandTimeout is returned when the console does not complete a command in time.
	ErrCommandTimeout = errors.New("timed out waiting for command to complete")
)

// Resolution is a frame size in pixels.
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Device is the station's control surface over a single DUT.
type Device interface {
	// PowerCycle removes power for the configured off period and restores it.
	PowerCycle(ctx context.Context) error
	// PowerOff cuts power to the device.
	PowerOff(ctx context.Context) error
	// FlashFirmware installs the given firmware version.
	FlashFirmware(ctx context.Context, version string) error
	// EnsureReady blocks until the device console answers commands.
	EnsureReady(ctx context.Context) error
	SerialNumber(ctx context.Context) (string, error)
	DeviceTreeModel(ctx context.Context) (string, error)
	// RunCommand runs a shell command on the device and returns its output.
	RunCommand(ctx context.Context, command string) (string, error)
	SetIndicator(ctx context.Context, id int, on bool) error
	// WaitForAddress polls for an IPv4 address. It returns an empty address and
	// ErrNoAddress when none appears within the timeout.
	WaitForAddress(ctx context.Context, timeout time.Duration) (string, error)
	MaxResolution(ctx context.Context) (Resolution, error)
	// CurrentTemperature returns the SoC temperature in degrees Celsius.
	CurrentTemperature(ctx context.Context) (float64, error)
	// OpenStream starts the streaming pipeline in the background. Only one
	// stream may be open at a time.
	OpenStream(ctx context.Context, pipeline string) (StreamHandle, error)
}

// StreamHandle is an active streaming pipeline on the device.
type StreamHandle interface {
	Close(ctx context.Context) error
}

// WithStream opens a stream, runs fn and always closes the stream again,
// whichever way fn returns.
func WithStream(ctx context.Context, d Device, pipeline string, fn func(StreamHandle) error) (err error) {
	stream, err := d.OpenStream(ctx, pipeline)
	if err != nil {
		return errors.Wrap(err, "open stream")
	}
	defer func() {
		closeErr := stream.Close(ctx)
		if closeErr == nil {
			return
		}
		if err == nil {
			err = errors.Wrap(closeErr, "close stream")
		}
	}()
	return fn(stream)
}
