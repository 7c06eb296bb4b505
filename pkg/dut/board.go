package dut

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/teknique/fatest/pkg/config"
	"github.com/teknique/fatest/pkg/templates"
)

var (
	inetRE       = regexp.MustCompile(`inet (\d{1,3}(?:\.\d{1,3}){3})/`)
	resolutionRE = regexp.MustCompile(`(\d+)\s*x\s*(\d+)`)
)

// Commander runs shell commands on the device.
type Commander interface {
	Run(ctx context.Context, command string) (string, error)
	WaitReady(ctx context.Context, timeout time.Duration) error
}

// BoardOptions wires a Board to its transports.
type BoardOptions struct {
	Console Commander
	Power   PowerSwitch
	Flasher Flasher
	Config  config.DeviceConfig
	Clock   clock.Clock
	Log     logrus.FieldLogger
	// PollInterval spaces address and stream readiness polls. Defaults to one second.
	PollInterval time.Duration
}

// Board is a Device reached over its serial console with host-side power
// and flashing.
type Board struct {
	console  Commander
	power    PowerSwitch
	flasher  Flasher
	cfg      config.DeviceConfig
	clock    clock.Clock
	log      logrus.FieldLogger
	interval time.Duration

	mu     sync.Mutex
	stream *boardStream
}

var _ Device = (*Board)(nil)

func NewBoard(opts BoardOptions) *Board {
	b := &Board{
		console:  opts.Console,
		power:    opts.Power,
		flasher:  opts.Flasher,
		cfg:      opts.Config,
		clock:    opts.Clock,
		log:      opts.Log,
		interval: opts.PollInterval,
	}
	if b.clock == nil {
		b.clock = clock.RealClock{}
	}
	if b.log == nil {
		b.log = logrus.StandardLogger()
	}
	if b.interval <= 0 {
		b.interval = time.Second
	}
	return b
}

func (b *Board) PowerCycle(ctx context.Context) error {
	if err := b.power.Off(ctx); err != nil {
		return err
	}
	b.clock.Sleep(b.cfg.PowerOffPeriod)
	return b.power.On(ctx)
}

func (b *Board) PowerOff(ctx context.Context) error {
	return b.power.Off(ctx)
}

func (b *Board) FlashFirmware(ctx context.Context, version string) error {
	return b.flasher.Flash(ctx, version)
}

func (b *Board) EnsureReady(ctx context.Context) error {
	return b.console.WaitReady(ctx, b.cfg.BootTimeout)
}

func (b *Board) SerialNumber(ctx context.Context) (string, error) {
	out, err := b.console.Run(ctx, b.cfg.SerialNumberCommand)
	if err != nil {
		return "", errors.Wrap(err, "read serial number")
	}
	serial := strings.TrimSpace(out)
	if serial == "" {
		return "", errors.New("device reported an empty serial number")
	}
	return serial, nil
}

func (b *Board) DeviceTreeModel(ctx context.Context) (string, error) {
	out, err := b.console.Run(ctx, b.cfg.ModelCommand)
	if err != nil {
		return "", errors.Wrap(err, "read device tree model")
	}
	return strings.TrimSpace(out), nil
}

func (b *Board) RunCommand(ctx context.Context, command string) (string, error) {
	return b.console.Run(ctx, command)
}

// LEDData is the data the LED command template is rendered with.
type LEDData struct {
	ID         int
	State      string
	Brightness int
}

func (b *Board) SetIndicator(ctx context.Context, id int, on bool) error {
	data := LEDData{ID: id, State: "off"}
	if on {
		data.State = "on"
		data.Brightness = 1
	}
	command, err := templates.Execute("led_command", b.cfg.LEDCommand, data)
	if err != nil {
		return errors.Wrap(err, "render led command")
	}
	if _, err := b.console.Run(ctx, command); err != nil {
		return errors.Wrapf(err, "set led %d %s", id, data.State)
	}
	return nil
}

func (b *Board) WaitForAddress(ctx context.Context, timeout time.Duration) (string, error) {
	command := fmt.Sprintf("ip -4 -o addr show %s", b.cfg.Interface)
	deadline := b.clock.Now().Add(timeout)
	for {
		out, err := b.console.Run(ctx, command)
		if err != nil {
			b.log.Debugf("no address on %s yet: %v", b.cfg.Interface, err)
		} else if m := inetRE.FindStringSubmatch(out); m != nil {
			return m[1], nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !b.clock.Now().Before(deadline) {
			return "", errors.Wrapf(ErrNoAddress, "%s after %s", b.cfg.Interface, timeout)
		}
		b.clock.Sleep(b.interval)
	}
}

func (b *Board) MaxResolution(ctx context.Context) (Resolution, error) {
	out, err := b.console.Run(ctx, b.cfg.ResolutionCommand)
	if err != nil {
		return Resolution{}, errors.Wrap(err, "query max resolution")
	}
	return parseResolution(out)
}

func parseResolution(out string) (Resolution, error) {
	m := resolutionRE.FindStringSubmatch(out)
	if m == nil {
		return Resolution{}, errors.Errorf("no resolution in %q", strings.TrimSpace(out))
	}
	width, _ := strconv.Atoi(m[1])
	height, _ := strconv.Atoi(m[2])
	if width == 0 || height == 0 {
		return Resolution{}, errors.Errorf("invalid resolution %dx%d", width, height)
	}
	return Resolution{Width: width, Height: height}, nil
}

func (b *Board) CurrentTemperature(ctx context.Context) (float64, error) {
	out, err := b.console.Run(ctx, b.cfg.TemperatureCommand)
	if err != nil {
		return 0, errors.Wrap(err, "read temperature")
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse temperature %q", strings.TrimSpace(out))
	}
	return milli / 1000, nil
}

func (b *Board) OpenStream(ctx context.Context, pipeline string) (StreamHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stream != nil {
		return nil, ErrStreamActive
	}

	logPath := fmt.Sprintf("%s/%d_temp_streaming_log", strings.TrimSuffix(b.cfg.StreamLogDir, "/"), b.clock.Now().Unix())
	out, err := b.console.Run(ctx, fmt.Sprintf("nohup %s > %s 2>&1 < /dev/null & echo $!", pipeline, logPath))
	if err != nil {
		return nil, errors.Wrap(err, "start pipeline")
	}
	pid, err := strconv.Atoi(lastLine(out))
	if err != nil {
		return nil, errors.Wrapf(err, "parse pipeline pid from %q", out)
	}

	stream := &boardStream{board: b, pid: pid, logPath: logPath}
	if err := b.waitForStream(ctx, logPath); err != nil {
		if _, killErr := b.console.Run(ctx, fmt.Sprintf("kill %d", pid)); killErr != nil {
			b.log.Warnf("Failed to stop pipeline %d: %v", pid, killErr)
		}
		return nil, err
	}
	b.log.Infof("Streaming pipeline %d started, logging to %s", pid, logPath)
	b.stream = stream
	return stream, nil
}

func (b *Board) waitForStream(ctx context.Context, logPath string) error {
	check := fmt.Sprintf("grep -q %s %s", shellQuote(b.cfg.StreamReadyKeyword), logPath)
	deadline := b.clock.Now().Add(b.cfg.StreamReadyTimeout)
	for {
		if _, err := b.console.Run(ctx, check); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !b.clock.Now().Before(deadline) {
			contents, _ := b.console.Run(ctx, "cat "+logPath)
			return errors.Errorf("timed out waiting for %q in %s, contents: %s", b.cfg.StreamReadyKeyword, logPath, contents)
		}
		b.clock.Sleep(b.interval)
	}
}

type boardStream struct {
	board   *Board
	pid     int
	logPath string
}

func (s *boardStream) Close(ctx context.Context) error {
	b := s.board
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stream != s {
		return nil
	}
	b.stream = nil

	if _, err := b.console.Run(ctx, fmt.Sprintf("kill %d", s.pid)); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			b.log.Warnf("Pipeline %d had already exited", s.pid)
			return nil
		}
		return errors.Wrapf(err, "stop pipeline %d", s.pid)
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
