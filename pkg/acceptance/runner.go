// Package acceptance drives the factory acceptance test of a single DUT.
package acceptance

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/teknique/fatest/pkg/capture"
	"github.com/teknique/fatest/pkg/config"
	"github.com/teknique/fatest/pkg/dut"
	"github.com/teknique/fatest/pkg/instrument"
	"github.com/teknique/fatest/pkg/logging"
	"github.com/teknique/fatest/pkg/media"
	"github.com/teknique/fatest/pkg/operator"
)

// Failure reasons, as they appear in the verdict.
const (
	ReasonPowerCycle          = "power cycle"
	ReasonFirmware            = "firmware upgrade"
	ReasonIdentify            = "device identification"
	ReasonLED                 = "led"
	ReasonBusScan             = "i2c readings"
	ReasonPowerReadings       = "power readings"
	ReasonRecording           = "recording"
	ReasonGettingIP           = "Getting IP"
	ReasonPrecheckStart       = "pre-check start"
	ReasonPrecheckTermination = "pre-check termination"
	ReasonMainStart           = "main capture start"
	ReasonMainTermination     = "main capture termination"
	ReasonStreamingPower      = "excess power draw"
	ReasonNoSamples           = "no instrumentation samples"
	ReasonFrameRate           = "FPS and resolution check"
	ReasonBlackScreen         = "black screen detection"
)

// Stage names.
const (
	StagePowerCycle = "power-cycle"
	StageFirmware   = "firmware-flash"
	StageIdentify   = "identify"
	StageLED        = "led-check"
	StageBusScan    = "bus-scan"
	StageSmoke      = "instrumentation-smoke"
	StageStreaming  = "streaming"
)

// Options are the station collaborators a Runner drives.
type Options struct {
	Config    config.Config
	Device    dut.Device
	Meter     instrument.Meter
	Sampler   instrument.Sampler
	Recorder  capture.Recorder
	Extractor media.Extractor
	Operator  operator.Operator
	Clock     clock.Clock
	Log       logrus.FieldLogger
	// Out receives the human readable report. Defaults to stdout.
	Out io.Writer
	// RunID identifies the run before the serial number is known. Generated when empty.
	RunID string
}

// Runner executes the fixed acceptance sequence.
type Runner struct {
	cfg       config.Config
	device    dut.Device
	meter     instrument.Meter
	sampler   instrument.Sampler
	recorder  capture.Recorder
	extractor media.Extractor
	operator  operator.Operator
	clock     clock.Clock
	log       logrus.FieldLogger
	out       io.Writer
	runID     string
}

func NewRunner(opts Options) *Runner {
	r := &Runner{
		cfg:       opts.Config,
		device:    opts.Device,
		meter:     opts.Meter,
		sampler:   opts.Sampler,
		recorder:  opts.Recorder,
		extractor: opts.Extractor,
		operator:  opts.Operator,
		clock:     opts.Clock,
		log:       opts.Log,
		out:       opts.Out,
		runID:     opts.RunID,
	}
	if r.clock == nil {
		r.clock = clock.RealClock{}
	}
	if r.log == nil {
		r.log = logging.Discard()
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.runID == "" {
		r.runID = uuid.New().String()
	}
	return r
}

// stageFunc records expected check failures on the run itself and returns
// an error only for unexpected ones.
type stageFunc func(ctx context.Context, run *TestRun, log *logrus.Entry) error

// Run executes every stage in order, reports the verdict and powers the
// DUT off. A failing stage never stops the stages after it.
func (r *Runner) Run(ctx context.Context) *TestRun {
	run := NewTestRun(r.runID, r.clock.Now(), r.log)
	defer r.teardown(ctx, run)

	run.Log.Infof("Starting tests for %s!\n\n\n", r.cfg.Title)

	r.stage(ctx, run, StagePowerCycle, ReasonPowerCycle, r.powerCycle)
	r.stage(ctx, run, StageFirmware, ReasonFirmware, r.flashFirmware)
	r.stage(ctx, run, StageIdentify, ReasonIdentify, r.identify)
	r.stage(ctx, run, StageLED, ReasonLED, r.checkLEDs)
	r.stage(ctx, run, StageBusScan, ReasonBusScan, r.scanBuses)
	r.stage(ctx, run, StageSmoke, ReasonPowerReadings, r.smokeCheck)
	r.stage(ctx, run, StageStreaming, ReasonRecording, r.streaming)

	r.report(ctx, run)
	return run
}

// stage runs fn inside an isolating boundary. Errors and panics are logged
// with their stack and recorded as reason, unless fn already recorded it.
func (r *Runner) stage(ctx context.Context, run *TestRun, name, reason string, fn stageFunc) {
	log := run.Log.WithField(logging.FieldStage, name)
	failures := len(run.Failures)
	at := len(run.Results)

	err := isolate(func() error {
		return fn(ctx, run, log)
	})

	result := StageResult{Name: name, Status: StatusPassed}
	if err != nil {
		// the serial number may have been set by fn
		run.Log.WithField(logging.FieldStage, name).Errorf("%s ran into an unexpected error: %+v", name, err)
		if !contains(run.failedSince(failures), reason) {
			run.Fail(reason)
		}
		result.Detail = firstLine(err.Error())
	}
	if failed := run.failedSince(failures); len(failed) > 0 {
		result.Status = StatusFailed
		if result.Detail == "" {
			result.Detail = strings.Join(failed, ", ")
		}
	}
	run.insert(at, result)
}

func isolate(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("panic: %v\n%s", p, debug.Stack())
		}
	}()
	return fn()
}

// teardown powers the DUT off whatever the verdict, then holds the station
// until the operator has swapped units.
func (r *Runner) teardown(ctx context.Context, run *TestRun) {
	if err := r.device.PowerOff(ctx); err != nil {
		run.Log.Errorf("Failed to power off the device: %+v", err)
	}
	if !r.cfg.PauseAtEnd {
		return
	}
	if err := r.operator.Pause("Press Enter to continue..."); err != nil {
		run.Log.Debugf("Pause: %v", err)
	}
}

func firstLine(s string) string {
	return strings.SplitN(s, "\n", 2)[0]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
