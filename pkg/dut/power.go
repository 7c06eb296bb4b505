package dut

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// HostRunner runs a command on the station host and returns its combined output.
type HostRunner func(ctx context.Context, command string) (string, error)

// ShellRunner runs the command with sh -c.
func ShellRunner(ctx context.Context, command string) (string, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", command).CombinedOutput()
	if err != nil {
		return string(out), errors.Wrapf(err, "%s: %s", command, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// PowerSwitch controls the DUT's supply.
type PowerSwitch interface {
	On(ctx context.Context) error
	Off(ctx context.Context) error
}

// CommandSwitch switches power by running host commands, for example a relay
// or GPIO helper script.
type CommandSwitch struct {
	onCommand  string
	offCommand string
	run        HostRunner
}

var _ PowerSwitch = (*CommandSwitch)(nil)

func NewCommandSwitch(onCommand, offCommand string, run HostRunner) *CommandSwitch {
	if run == nil {
		run = ShellRunner
	}
	return &CommandSwitch{onCommand: onCommand, offCommand: offCommand, run: run}
}

func (s *CommandSwitch) On(ctx context.Context) error {
	return s.exec(ctx, "on", s.onCommand)
}

func (s *CommandSwitch) Off(ctx context.Context) error {
	return s.exec(ctx, "off", s.offCommand)
}

func (s *CommandSwitch) exec(ctx context.Context, state, command string) error {
	if command == "" {
		return errors.Errorf("no power %s command configured", state)
	}
	if _, err := s.run(ctx, command); err != nil {
		return errors.Wrapf(err, "power %s", state)
	}
	return nil
}
