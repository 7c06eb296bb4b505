package cli

import (
	"github.com/pkg/errors"
)

// ErrRejected is returned when the device under test failed at least one check
var ErrRejected = errors.New("device rejected")

// ErrBusScanFailed is returned when a bus stayed below its expected device count
var ErrBusScanFailed = errors.New("bus scan failed")
