package acceptance

import (
	"context"
	"time"

	"k8s.io/utils/clock"

	"github.com/teknique/fatest/pkg/busscan"
	"github.com/teknique/fatest/pkg/config"
)

// CheckFunc runs one attempt of a presence check and returns how many
// devices it found.
type CheckFunc func() (int, error)

// RetryCheck runs check up to attempts times, sleeping delay between attempts,
// until it finds at least min devices. It returns whether the check passed,
// how many attempts were made and the count from the last attempt that ran.
// An attempt that errors counts as failed; the error is only returned when no
// attempt ran at all.
func RetryCheck(clk clock.Clock, attempts int, delay time.Duration, min int, check CheckFunc) (bool, int, int, error) {
	var (
		found   int
		ran     bool
		lastErr error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		n, err := check()
		if err != nil {
			lastErr = err
		} else {
			ran = true
			found = n
			if n >= min {
				return true, attempt, n, nil
			}
		}
		if attempt < attempts {
			clk.Sleep(delay)
		}
	}
	if !ran {
		return false, attempts, 0, lastErr
	}
	return false, attempts, found, nil
}

// BusResult is the outcome of the retrying presence check on one bus.
type BusResult struct {
	Expectation busscan.Expectation
	Passed      bool
	Attempts    int
	Found       int
	Err         error
}

// CommandFunc runs a shell command on the device.
type CommandFunc func(ctx context.Context, command string) (string, error)

// CheckBuses runs RetryCheck on every configured bus, each with its own
// attempt budget. All buses are checked even after one fails.
func CheckBuses(ctx context.Context, clk clock.Clock, scan config.BusScanConfig, run CommandFunc) []BusResult {
	var results []BusResult
	for _, e := range busscan.FromConfig(scan.Buses) {
		e := e
		passed, attempts, found, err := RetryCheck(clk, scan.Attempts, scan.Delay, e.MinDevices, func() (int, error) {
			out, err := run(ctx, e.Command())
			if err != nil {
				return 0, err
			}
			return busscan.Occupied(out, e.GridCells), nil
		})
		results = append(results, BusResult{Expectation: e, Passed: passed, Attempts: attempts, Found: found, Err: err})
	}
	return results
}
