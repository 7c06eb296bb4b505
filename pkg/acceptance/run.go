package acceptance

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teknique/fatest/pkg/logging"
)

type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StageResult is the outcome of one stage or sub-stage, for the report.
type StageResult struct {
	Name   string
	Status Status
	Detail string
}

// TestRun accumulates the outcome of one acceptance pass over a DUT.
type TestRun struct {
	ID           string
	SerialNumber string
	StartedAt    time.Time
	// Failures holds one reason per failed check, in the order they failed.
	Failures []string
	Results  []StageResult
	// Log carries run_id and, once known, serial_number.
	Log *logrus.Entry
}

func NewTestRun(id string, startedAt time.Time, log logrus.FieldLogger) *TestRun {
	return &TestRun{
		ID:        id,
		StartedAt: startedAt,
		Log:       log.WithField(logging.FieldRunID, id),
	}
}

// SetSerialNumber records the DUT identity and adds it to every later log entry.
func (r *TestRun) SetSerialNumber(serial string) {
	r.SerialNumber = serial
	r.Log = r.Log.WithField(logging.FieldSerialNumber, serial)
}

// Fail records a failure reason.
func (r *TestRun) Fail(reason string) {
	r.Failures = append(r.Failures, reason)
}

func (r *TestRun) Record(name string, status Status, detail string) {
	r.Results = append(r.Results, StageResult{Name: name, Status: status, Detail: detail})
}

func (r *TestRun) insert(at int, result StageResult) {
	r.Results = append(r.Results, StageResult{})
	copy(r.Results[at+1:], r.Results[at:])
	r.Results[at] = result
}

// Accepted reports whether no check failed.
func (r *TestRun) Accepted() bool {
	return len(r.Failures) == 0
}

// DeviceID is the serial number, or the run id when the DUT never identified itself.
func (r *TestRun) DeviceID() string {
	if r.SerialNumber != "" {
		return r.SerialNumber
	}
	return r.ID
}

func (r *TestRun) failedSince(n int) []string {
	return r.Failures[n:]
}
