package acceptance

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func (r *Runner) powerCycle(ctx context.Context, run *TestRun, log *logrus.Entry) error {
	log.Infof("Power cycling the device (off for %s)", r.cfg.Device.PowerOffPeriod)
	return r.device.PowerCycle(ctx)
}

// flashFirmware records a firmware failure when flashing fails or the
// device comes back with the wrong device tree.
func (r *Runner) flashFirmware(ctx context.Context, run *TestRun, log *logrus.Entry) error {
	fw := r.cfg.Firmware
	log.Info("1st test is to check if the device can be flashed.")
	log.Infof("Updating firmware to version %s...", fw.Version)

	if err := r.flashAndVerify(ctx, log); err != nil {
		log.Errorf("Firmware test result -> FAILED: %+v\n\n", err)
		run.Fail(ReasonFirmware)
		return nil
	}
	log.Info("Firmware test result -> PASSED.\n\n")
	return nil
}

func (r *Runner) flashAndVerify(ctx context.Context, log *logrus.Entry) error {
	fw := r.cfg.Firmware

	stop := r.operator.Progress(fmt.Sprintf("Flashing firmware %s", fw.Version))
	err := r.device.FlashFirmware(ctx, fw.Version)
	stop()
	if err != nil {
		return errors.Wrap(err, "flash firmware")
	}

	if err := r.device.EnsureReady(ctx); err != nil {
		return errors.Wrap(err, "wait for device after flashing")
	}
	model, err := r.device.DeviceTreeModel(ctx)
	if err != nil {
		return errors.Wrap(err, "read device tree model")
	}
	if strings.TrimSpace(model) != fw.ExpectedModel {
		return errors.Errorf("device tree model is %q, expected %q", model, fw.ExpectedModel)
	}
	log.Debugf("Device tree model %q", model)
	return nil
}

func (r *Runner) identify(ctx context.Context, run *TestRun, log *logrus.Entry) error {
	if err := r.device.EnsureReady(ctx); err != nil {
		return errors.Wrap(err, "wait for device")
	}
	serial, err := r.device.SerialNumber(ctx)
	if err != nil {
		return errors.Wrap(err, "read serial number")
	}
	run.SetSerialNumber(serial)
	run.Log.Infof("HELLO from %s!", serial)
	return nil
}

// checkLEDs turns every indicator off, then lights them one by one and asks
// the operator to confirm each.
func (r *Runner) checkLEDs(ctx context.Context, run *TestRun, log *logrus.Entry) error {
	log.Info("\n\n\n2nd test is to check if the leds are working.")
	for _, led := range r.cfg.LEDs {
		if err := r.device.SetIndicator(ctx, led.ID, false); err != nil {
			return errors.Wrapf(err, "turn off %s led", led.Name)
		}
	}

	var failed []string
	for _, led := range r.cfg.LEDs {
		if err := r.device.SetIndicator(ctx, led.ID, true); err != nil {
			return errors.Wrapf(err, "turn on %s led", led.Name)
		}
		on, err := r.operator.Confirm(fmt.Sprintf("Is the %s led on?", led.Name))
		if err != nil {
			return errors.Wrapf(err, "ask about %s led", led.Name)
		}
		log.Infof("%s led on: %t", led.Name, on)
		if !on {
			failed = append(failed, led.Name)
		}
		if err := r.device.SetIndicator(ctx, led.ID, false); err != nil {
			return errors.Wrapf(err, "turn off %s led", led.Name)
		}
	}

	if len(failed) > 0 {
		log.Infof("LED test result -> FAILED (%s)\n\n", strings.Join(failed, ", "))
		run.Fail(ReasonLED)
	} else {
		log.Info("LED test result -> PASSED\n\n")
	}
	log.Info("\n\nFinished interactive tests.  Time to assemble another unit.\n\n")
	return nil
}

// scanBuses checks every bus, each with its own retry budget, and records a
// single failure if any bus stayed below its expected device count.
func (r *Runner) scanBuses(ctx context.Context, run *TestRun, log *logrus.Entry) error {
	log.Info("3rd test is to check if the device detects i2c.")
	results := CheckBuses(ctx, r.clock, r.cfg.BusScan, func(ctx context.Context, command string) (string, error) {
		out, err := r.device.RunCommand(ctx, command)
		log.Info(out)
		if err != nil {
			log.Warnf("%s: %v", command, err)
		}
		return out, err
	})

	ok := true
	for _, res := range results {
		e := res.Expectation
		if res.Err != nil {
			log.Errorf("Bus %d could not be scanned: %v", e.Bus, res.Err)
		}
		log.Infof("Bus %d: found %d of %d expected devices after %d attempt(s)", e.Bus, res.Found, e.MinDevices, res.Attempts)
		if !res.Passed {
			ok = false
		}
	}

	if !ok {
		log.Info("I2c test result -> FAILED.\n\n")
		run.Fail(ReasonBusScan)
		return nil
	}
	log.Info("I2c test result -> PASSED.\n\n")
	return nil
}

func (r *Runner) smokeCheck(ctx context.Context, run *TestRun, log *logrus.Entry) error {
	log.Info("4th test is a simple check for current/voltage/power.")
	for i := 0; i < r.cfg.Instrument.IdleSamples; i++ {
		reading, err := r.meter.Read(ctx)
		if err != nil {
			return errors.Wrap(err, "read instrumentation")
		}
		log.Infof("IDLE %s", reading)
	}
	log.Info("Power test result -> PASSED\n\n")
	return nil
}
