package dut

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/teknique/fatest/pkg/templates"
)

// Flasher installs a firmware image on the DUT.
type Flasher interface {
	Flash(ctx context.Context, version string) error
}

// BootMode puts the DUT into USB boot mode ahead of flashing.
type BootMode interface {
	Enter(ctx context.Context) error
}

// Prompter blocks until the operator acknowledges a message.
type Prompter interface {
	Pause(message string) error
}

const bootModeInstructions = "Please set the device to AmbaUSB mode by holding the amba button " +
	"(the one closer to the usb cable) then pressing the other boot button then releasing the amba button."

// FlashData is the data the flash command template is rendered with.
type FlashData struct {
	Version  string
	Released bool
	Yocto    bool
}

// CommandFlasher flashes by running a templated host command once the
// device is in boot mode.
type CommandFlasher struct {
	template string
	released bool
	yocto    bool
	bootMode BootMode
	run      HostRunner
	log      logrus.FieldLogger
}

var _ Flasher = (*CommandFlasher)(nil)

func NewCommandFlasher(template string, released, yocto bool, bootMode BootMode, run HostRunner, log logrus.FieldLogger) *CommandFlasher {
	if run == nil {
		run = ShellRunner
	}
	return &CommandFlasher{
		template: template,
		released: released,
		yocto:    yocto,
		bootMode: bootMode,
		run:      run,
		log:      log,
	}
}

func (f *CommandFlasher) Flash(ctx context.Context, version string) error {
	command, err := templates.Execute("flash_command", f.template, FlashData{
		Version:  version,
		Released: f.released,
		Yocto:    f.yocto,
	})
	if err != nil {
		return errors.Wrap(err, "render flash command")
	}

	if err := f.bootMode.Enter(ctx); err != nil {
		return errors.Wrap(err, "enter boot mode")
	}

	f.log.Infof("Flashing firmware %s", version)
	out, err := f.run(ctx, command)
	if err != nil {
		return errors.Wrap(err, "flash")
	}
	f.log.Debug(strings.TrimSpace(out))
	return nil
}

// detector reports whether the device currently enumerates in boot mode.
type detector struct {
	command string
	run     HostRunner
}

func (d detector) inBootMode(ctx context.Context) bool {
	_, err := d.run(ctx, d.command)
	return err == nil
}

// ManualBootMode asks the operator to press the boot buttons until the
// device shows up in boot mode.
type ManualBootMode struct {
	detector
	prompter Prompter
	timeout  time.Duration
	clock    clock.Clock
	log      logrus.FieldLogger
}

var _ BootMode = (*ManualBootMode)(nil)

func NewManualBootMode(detectCommand string, prompter Prompter, timeout time.Duration, run HostRunner, clk clock.Clock, log logrus.FieldLogger) *ManualBootMode {
	if run == nil {
		run = ShellRunner
	}
	return &ManualBootMode{
		detector: detector{command: detectCommand, run: run},
		prompter: prompter,
		timeout:  timeout,
		clock:    clk,
		log:      log,
	}
}

func (m *ManualBootMode) Enter(ctx context.Context) error {
	deadline := m.clock.Now().Add(m.timeout)
	for !m.inBootMode(ctx) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if m.clock.Now().After(deadline) {
			return errors.Errorf("device not in boot mode after %s", m.timeout)
		}
		m.log.Info("\n\n\n" + bootModeInstructions)
		if err := m.prompter.Pause("Press Enter once the device is in AmbaUSB mode..."); err != nil {
			return errors.Wrap(err, "wait for operator")
		}
	}
	return nil
}

// CommandBootMode enters boot mode with a host command, for boards with the
// boot straps wired to the station.
type CommandBootMode struct {
	detector
	enterCommand string
	timeout      time.Duration
	interval     time.Duration
	clock        clock.Clock
}

var _ BootMode = (*CommandBootMode)(nil)

func NewCommandBootMode(enterCommand, detectCommand string, timeout time.Duration, run HostRunner, clk clock.Clock) *CommandBootMode {
	if run == nil {
		run = ShellRunner
	}
	return &CommandBootMode{
		detector:     detector{command: detectCommand, run: run},
		enterCommand: enterCommand,
		timeout:      timeout,
		interval:     time.Second,
		clock:        clk,
	}
}

func (c *CommandBootMode) Enter(ctx context.Context) error {
	if _, err := c.run(ctx, c.enterCommand); err != nil {
		return errors.Wrap(err, "run boot mode command")
	}
	deadline := c.clock.Now().Add(c.timeout)
	for !c.inBootMode(ctx) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !c.clock.Now().Before(deadline) {
			return errors.Errorf("device not in boot mode after %s", c.timeout)
		}
		c.clock.Sleep(c.interval)
	}
	return nil
}
