package acceptance

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/teknique/fatest/pkg/capture"
	"github.com/teknique/fatest/pkg/dut"
	"github.com/teknique/fatest/pkg/templates"
)

// Streaming sub-stage names.
const (
	SubStagePrecheck    = "streaming: pre-check capture"
	SubStageMain        = "streaming: main capture"
	SubStagePower       = "streaming: power"
	SubStageRecording   = "streaming: fps and resolution"
	SubStageBlackScreen = "streaming: black screen"
)

// captureOutcome tracks how far the captures got so the analysis only looks
// at what was actually recorded.
type captureOutcome struct {
	precheckStarted bool
	mainStarted     bool
	polled          bool
	stats           PollStats
}

// streaming validates live video: it starts the pipeline on the DUT, records
// a short pre-check and the main capture against it while sampling power,
// then checks the recordings.
func (r *Runner) streaming(ctx context.Context, run *TestRun, log *logrus.Entry) error {
	cfg := r.cfg.Streaming
	log.Infof("5th test is to check the streaming for %s.", cfg.Duration)

	address, err := r.device.WaitForAddress(ctx, cfg.AddressTimeout)
	if err != nil || address == "" {
		log.Infof("Device failed to get a valid IP: %v", err)
		run.Fail(ReasonGettingIP)
		skip(run, "no IP address", SubStagePrecheck, SubStageMain, SubStagePower, SubStageRecording, SubStageBlackScreen)
		return nil
	}

	res, err := r.device.MaxResolution(ctx)
	if err != nil {
		return errors.Wrap(err, "query max resolution")
	}
	pipeline, err := templates.Execute("pipeline", cfg.Pipeline, res)
	if err != nil {
		return errors.Wrap(err, "render pipeline")
	}
	url, err := templates.Execute("url", cfg.URL, struct{ Address string }{address})
	if err != nil {
		return errors.Wrap(err, "render stream url")
	}

	prefix := fmt.Sprintf("%s_%s", r.cfg.ShortTitle, run.DeviceID())
	precheck := capture.Spec{
		Duration:  cfg.PrecheckDuration,
		Output:    filepath.Join(r.cfg.ArtifactsDir, prefix+"_blackdetect.mp4"),
		ExtraArgs: cfg.ExtraArgs,
	}
	main := capture.Spec{
		Duration:  cfg.Duration + cfg.Slack,
		Output:    filepath.Join(r.cfg.ArtifactsDir, prefix+".mp4"),
		ExtraArgs: cfg.ExtraArgs,
	}

	var outcome captureOutcome
	err = dut.WithStream(ctx, r.device, pipeline, func(dut.StreamHandle) error {
		return r.captures(ctx, run, log, url, precheck, main, &outcome)
	})
	if err != nil {
		return err
	}
	log.Info("Stream ended.")

	if !outcome.precheckStarted {
		skip(run, "pre-check capture did not start", SubStagePower, SubStageRecording, SubStageBlackScreen)
		return nil
	}

	if outcome.polled {
		r.evaluatePower(run, log, outcome.stats)
	} else {
		skip(run, "main capture did not start", SubStagePower)
	}
	if outcome.mainStarted {
		r.checkRecording(ctx, run, log, main.Output, res)
	} else {
		skip(run, "main capture did not start", SubStageRecording)
	}
	return r.checkBlackScreen(ctx, run, log, precheck.Output)
}

// captures runs the pre-check and main captures while the stream is open.
func (r *Runner) captures(ctx context.Context, run *TestRun, log *logrus.Entry, url string, precheck, main capture.Spec, outcome *captureOutcome) error {
	cfg := r.cfg.Streaming
	d := precheck.Duration

	if err := r.recorder.Start(ctx, url, precheck); err != nil {
		return errors.Wrap(err, "start pre-check capture")
	}
	if err := r.recorder.WaitForStart(ctx, 2*d); err != nil {
		log.Errorf("Pre-check capture did not start: %v", err)
		run.Fail(ReasonPrecheckStart)
		run.Record(SubStagePrecheck, StatusFailed, err.Error())
		r.stopRecorder(log)
		skip(run, "pre-check capture did not start", SubStageMain)
		return nil
	}
	outcome.precheckStarted = true
	r.clock.Sleep(d)
	if err := r.recorder.WaitForTermination(ctx, 2*d); err != nil {
		log.Errorf("Pre-check capture did not terminate cleanly: %v", err)
		run.Fail(ReasonPrecheckTermination)
		run.Record(SubStagePrecheck, StatusFailed, err.Error())
		r.stopRecorder(log)
	} else {
		run.Record(SubStagePrecheck, StatusPassed, "")
	}

	log.Infof("Preparing video stream at %s", url)
	if err := r.recorder.Start(ctx, url, main); err != nil {
		return errors.Wrap(err, "start main capture")
	}
	if err := r.recorder.WaitForStart(ctx, cfg.Slack); err != nil {
		log.Errorf("Main capture did not start: %v", err)
		run.Fail(ReasonMainStart)
		run.Record(SubStageMain, StatusFailed, err.Error())
		r.stopRecorder(log)
		return nil
	}
	outcome.mainStarted = true
	log.Info("Stream started.")

	// no spinner here, the poller logs every sample to the console
	log.Infof("Streaming for %s", cfg.Duration)
	poller := &Poller{
		Sampler:     r.sampler,
		Clock:       r.clock,
		MinInterval: cfg.MinSampleInterval,
		Log:         log,
	}
	outcome.stats = poller.Poll(ctx, cfg.Duration)
	outcome.polled = true

	if err := r.recorder.WaitForTermination(ctx, cfg.Slack); err != nil {
		log.Errorf("Main capture did not terminate cleanly: %v", err)
		run.Fail(ReasonMainTermination)
		run.Record(SubStageMain, StatusFailed, err.Error())
		r.stopRecorder(log)
		return nil
	}
	run.Record(SubStageMain, StatusPassed, "")
	return nil
}

func (r *Runner) stopRecorder(log *logrus.Entry) {
	if err := r.recorder.Stop(); err != nil {
		log.Warnf("Failed to stop capture: %v", err)
	}
}

// evaluatePower fails the run when the average streaming power is over the
// limit. A hot device is only a warning since repeated testing heats it up.
func (r *Runner) evaluatePower(run *TestRun, log *logrus.Entry, stats PollStats) {
	cfg := r.cfg.Streaming

	if stats.Samples == 0 {
		detail := fmt.Sprintf("nothing measured, %d sample errors", stats.Errors)
		log.Errorf("DUT Power during streaming -> UNKNOWN: %s\n\n", detail)
		run.Fail(ReasonNoSamples)
		run.Record(SubStagePower, StatusFailed, detail)
		return
	}

	log.Infof("Max temperature: %gC", stats.MaxTemperature)
	log.Infof("Avg temperature: %gC", stats.AvgTemperature)
	log.Infof("Min temperature: %gC", stats.MinTemperature)
	log.Infof("Avg DC Power (Watts): %g", stats.AvgPower)

	detail := fmt.Sprintf("avg %gW over %d samples", stats.AvgPower, stats.Samples)
	if stats.AvgPower > cfg.MaxPower {
		log.Infof("DUT Power during streaming -> FAILED.\n\n")
		run.Fail(ReasonStreamingPower)
		run.Record(SubStagePower, StatusFailed, fmt.Sprintf("%s, limit %gW", detail, cfg.MaxPower))
	} else {
		log.Infof("DUT Power during streaming -> PASSED.\n\n")
		run.Record(SubStagePower, StatusPassed, detail)
	}

	if stats.MaxTemperature > cfg.TemperatureWarning {
		log.Warnf("Temperature is quite high after streaming (over %g degC).\n\n", cfg.TemperatureWarning)
	}
}

// checkRecording compares the main recording against the requested stream.
func (r *Runner) checkRecording(ctx context.Context, run *TestRun, log *logrus.Entry, output string, res dut.Resolution) {
	md, err := r.extractor.Extract(ctx, output)
	if err != nil {
		log.Errorf("Failed to read metadata of %s: %+v", output, err)
		run.Fail(ReasonFrameRate)
		run.Record(SubStageRecording, StatusFailed, err.Error())
		return
	}
	log.Infof("Record info: %s", md)

	detail := fmt.Sprintf("%dx%d @ %g fps", md.Width, md.Height, md.FrameRate)
	if md.FrameRate <= r.cfg.Streaming.MinFrameRate || md.Width != res.Width || md.Height != res.Height {
		log.Info("FPS & resolution test -> failed.\n\n")
		run.Fail(ReasonFrameRate)
		run.Record(SubStageRecording, StatusFailed, fmt.Sprintf("%s, expected %s above %g fps", detail, res, r.cfg.Streaming.MinFrameRate))
		return
	}
	log.Info("FPS & resolution test -> passed.\n\n")
	run.Record(SubStageRecording, StatusPassed, detail)
}

// checkBlackScreen looks for black video in the pre-check recording, which
// catches units that still have the lens cover on.
func (r *Runner) checkBlackScreen(ctx context.Context, run *TestRun, log *logrus.Entry, output string) error {
	bd := r.cfg.Streaming.BlackDetect
	params := capture.BlackDetectParams{
		MinDuration:      bd.MinDuration,
		PixelThreshold:   bd.PixelThreshold,
		PictureThreshold: bd.PictureThreshold,
	}
	seconds, err := r.recorder.DetectBlackSegments(ctx, output, 2*r.cfg.Streaming.PrecheckDuration, params)
	if err != nil {
		run.Record(SubStageBlackScreen, StatusFailed, err.Error())
		return errors.Wrap(err, "detect black segments")
	}

	detail := fmt.Sprintf("%gs of black video", seconds)
	if seconds >= bd.MaxDuration {
		log.Info("black screen detection test -> fail. Make sure lens cover is taken off and retry.\n\n")
		run.Fail(ReasonBlackScreen)
		run.Record(SubStageBlackScreen, StatusFailed, detail)
		return nil
	}
	log.Info("black screen detection test -> passed.\n\n")
	run.Record(SubStageBlackScreen, StatusPassed, detail)
	return nil
}

func skip(run *TestRun, detail string, names ...string) {
	for _, name := range names {
		run.Record(name, StatusSkipped, detail)
	}
}
