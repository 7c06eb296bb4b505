package dut

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/teknique/fatest/pkg/config"
)

type fakeCommander struct {
	mu       sync.Mutex
	commands []string
	respond  func(command string) (string, error)
	readyErr error
}

func (f *fakeCommander) Run(_ context.Context, command string) (string, error) {
	f.mu.Lock()
	f.commands = append(f.commands, command)
	f.mu.Unlock()
	return f.respond(command)
}

func (f *fakeCommander) WaitReady(context.Context, time.Duration) error {
	return f.readyErr
}

func (f *fakeCommander) ran(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []string
	for _, c := range f.commands {
		if strings.HasPrefix(c, prefix) {
			matched = append(matched, c)
		}
	}
	return matched
}

type fakeSwitch struct {
	events []string
	clock  *clocktesting.FakeClock
}

func (s *fakeSwitch) On(context.Context) error {
	s.events = append(s.events, "on@"+s.clock.Now().Format("15:04:05"))
	return nil
}

func (s *fakeSwitch) Off(context.Context) error {
	s.events = append(s.events, "off@"+s.clock.Now().Format("15:04:05"))
	return nil
}

var boardEpoch = time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC)

func newTestBoard(commander *fakeCommander) (*Board, *clocktesting.FakeClock) {
	clk := clocktesting.NewFakeClock(boardEpoch)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewBoard(BoardOptions{
		Console: commander,
		Power:   &fakeSwitch{clock: clk},
		Config:  config.Defaults().Device,
		Clock:   clk,
		Log:     log,
	}), clk
}

func TestBoardPowerCycle(t *testing.T) {
	req := require.New(t)

	b, clk := newTestBoard(&fakeCommander{})
	req.NoError(b.PowerCycle(context.Background()))
	req.Equal([]string{"off@00:00:00", "on@00:00:03"}, b.power.(*fakeSwitch).events)
	req.Equal(boardEpoch.Add(3*time.Second), clk.Now())
}

func TestBoardWaitForAddress(t *testing.T) {
	tests := []struct {
		name    string
		outputs []string
		want    string
		wantErr error
	}{
		{
			name:    "address on first poll",
			outputs: []string{"2: eth0    inet 172.16.3.157/24 brd 172.16.3.255 scope global eth0"},
			want:    "172.16.3.157",
		},
		{
			name:    "address after link comes up",
			outputs: []string{"", "", "2: eth0    inet 10.0.0.12/8 scope global eth0"},
			want:    "10.0.0.12",
		},
		{
			name:    "never",
			wantErr: ErrNoAddress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			calls := 0
			commander := &fakeCommander{respond: func(command string) (string, error) {
				req.Equal("ip -4 -o addr show eth0", command)
				defer func() { calls++ }()
				if calls < len(tt.outputs) {
					return tt.outputs[calls], nil
				}
				return "", nil
			}}
			b, _ := newTestBoard(commander)

			got, err := b.WaitForAddress(context.Background(), 10*time.Second)
			if tt.wantErr != nil {
				req.True(errors.Is(err, tt.wantErr))
				req.Empty(got)
				req.Equal(11, calls)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, got)
		})
	}
}

func TestBoardReadings(t *testing.T) {
	req := require.New(t)

	commander := &fakeCommander{respond: func(command string) (string, error) {
		switch {
		case strings.Contains(command, "serial-number"):
			return "ZEUS0000LF12\n", nil
		case strings.Contains(command, "/model"):
			return "Oclea CV25 Zeus", nil
		case strings.Contains(command, "thermal_zone0"):
			return "51305\n", nil
		case strings.Contains(command, "max-resolution"):
			return "3840x2160", nil
		}
		return "", errors.Errorf("unexpected %s", command)
	}}
	b, _ := newTestBoard(commander)
	ctx := context.Background()

	serial, err := b.SerialNumber(ctx)
	req.NoError(err)
	req.Equal("ZEUS0000LF12", serial)

	model, err := b.DeviceTreeModel(ctx)
	req.NoError(err)
	req.Equal("Oclea CV25 Zeus", model)

	temp, err := b.CurrentTemperature(ctx)
	req.NoError(err)
	req.InDelta(51.305, temp, 1e-9)

	res, err := b.MaxResolution(ctx)
	req.NoError(err)
	req.Equal(Resolution{Width: 3840, Height: 2160}, res)
	req.Equal("3840x2160", res.String())
}

func TestBoardSetIndicator(t *testing.T) {
	req := require.New(t)

	commander := &fakeCommander{respond: func(string) (string, error) { return "", nil }}
	b, _ := newTestBoard(commander)

	req.NoError(b.SetIndicator(context.Background(), 2, true))
	req.NoError(b.SetIndicator(context.Background(), 0, false))
	req.Equal([]string{
		"echo 1 > /sys/class/leds/led2/brightness",
		"echo 0 > /sys/class/leds/led0/brightness",
	}, commander.ran("echo"))
}

func TestBoardStream(t *testing.T) {
	req := require.New(t)

	readyAfter := 2
	commander := &fakeCommander{respond: func(command string) (string, error) {
		switch {
		case strings.HasPrefix(command, "nohup "):
			return "[1] 4242\n4242", nil
		case strings.HasPrefix(command, "grep -q"):
			if readyAfter > 0 {
				readyAfter--
				return "", &ExitError{Command: command, Code: 1}
			}
			return "", nil
		case command == "kill 4242":
			return "", nil
		}
		return "", errors.Errorf("unexpected %s", command)
	}}
	b, _ := newTestBoard(commander)
	ctx := context.Background()

	stream, err := b.OpenStream(ctx, "oclea_rtsp_example -s -w 1920 -h 1080")
	req.NoError(err)
	req.Equal([]string{
		"nohup oclea_rtsp_example -s -w 1920 -h 1080 > /mnt/media/1711584000_temp_streaming_log 2>&1 < /dev/null & echo $!",
	}, commander.ran("nohup"))
	req.Len(commander.ran("grep -q 'stream ready at' /mnt/media/1711584000_temp_streaming_log"), 3)

	_, err = b.OpenStream(ctx, "oclea_rtsp_example")
	req.True(errors.Is(err, ErrStreamActive))

	req.NoError(stream.Close(ctx))
	req.Len(commander.ran("kill 4242"), 1)

	// closing twice is a no-op
	req.NoError(stream.Close(ctx))
	req.Len(commander.ran("kill 4242"), 1)
}

func TestBoardStreamNeverReady(t *testing.T) {
	req := require.New(t)

	commander := &fakeCommander{respond: func(command string) (string, error) {
		switch {
		case strings.HasPrefix(command, "nohup "):
			return "77", nil
		case strings.HasPrefix(command, "grep -q"):
			return "", &ExitError{Command: command, Code: 1}
		case strings.HasPrefix(command, "cat "):
			return "WARNING: no real random source present!", nil
		}
		return "", nil
	}}
	b, _ := newTestBoard(commander)

	_, err := b.OpenStream(context.Background(), "oclea_rtsp_example")
	req.Error(err)
	req.Contains(err.Error(), "no real random source")
	req.Len(commander.ran("kill 77"), 1)

	// the failed stream does not block the next one
	commander.respond = func(command string) (string, error) {
		if strings.HasPrefix(command, "nohup ") {
			return "78", nil
		}
		return "", nil
	}
	stream, err := b.OpenStream(context.Background(), "oclea_rtsp_example")
	req.NoError(err)
	req.NoError(stream.Close(context.Background()))
}

func TestBoardStreamAlreadyExited(t *testing.T) {
	req := require.New(t)

	commander := &fakeCommander{respond: func(command string) (string, error) {
		switch {
		case strings.HasPrefix(command, "nohup "):
			return "91", nil
		case command == "kill 91":
			return "sh: can't kill pid 91: No such process", &ExitError{Command: command, Code: 1}
		}
		return "", nil
	}}
	b, _ := newTestBoard(commander)

	stream, err := b.OpenStream(context.Background(), "oclea_rtsp_example")
	req.NoError(err)
	req.NoError(stream.Close(context.Background()))
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		out     string
		want    Resolution
		wantErr bool
	}{
		{out: "1920x1080\n", want: Resolution{1920, 1080}},
		{out: "max: 3840 x 2160", want: Resolution{3840, 2160}},
		{out: "unknown sensor", wantErr: true},
		{out: "0x0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			req := require.New(t)
			got, err := parseResolution(tt.out)
			if tt.wantErr {
				req.Error(err)
				return
			}
			req.NoError(err)
			req.Equal(tt.want, got)
		})
	}
}
