package dut

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCommandSwitch(t *testing.T) {
	req := require.New(t)

	var ran []string
	run := func(_ context.Context, command string) (string, error) {
		ran = append(ran, command)
		if command == "relay 1 fail" {
			return "", errors.New("exit status 1")
		}
		return "", nil
	}

	s := NewCommandSwitch("relay 1 on", "relay 1 off", run)
	req.NoError(s.Off(context.Background()))
	req.NoError(s.On(context.Background()))
	req.Equal([]string{"relay 1 off", "relay 1 on"}, ran)

	s = NewCommandSwitch("relay 1 fail", "", run)
	req.EqualError(s.On(context.Background()), "power on: exit status 1")
	req.EqualError(s.Off(context.Background()), "no power off command configured")
}

func TestShellRunner(t *testing.T) {
	req := require.New(t)

	out, err := ShellRunner(context.Background(), "echo hello")
	req.NoError(err)
	req.Equal("hello\n", out)

	_, err = ShellRunner(context.Background(), "echo nope >&2; exit 3")
	req.Error(err)
	req.Contains(err.Error(), "nope")
}
