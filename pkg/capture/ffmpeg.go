package capture

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// StartKeyword is printed by ffmpeg once it has opened the input and begins writing.
const StartKeyword = "Press [q] to stop"

var blackDurationRE = regexp.MustCompile(`black_duration:\s*([0-9.]+)`)

// CommandFunc builds the process for a tool invocation.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// FFmpeg records with the ffmpeg binary.
type FFmpeg struct {
	binary       string
	command      CommandFunc
	log          logrus.FieldLogger
	pollInterval time.Duration
	stopTimeout  time.Duration

	mu   sync.Mutex
	proc *process
}

var _ Recorder = (*FFmpeg)(nil)

type process struct {
	cmd     *exec.Cmd
	spec    Spec
	console *syncBuffer
	done    chan struct{}
	err     error
}

func (p *process) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func NewFFmpeg(binary string, command CommandFunc, log logrus.FieldLogger) *FFmpeg {
	if command == nil {
		command = exec.CommandContext
	}
	return &FFmpeg{
		binary:       binary,
		command:      command,
		log:          log,
		pollInterval: 100 * time.Millisecond,
		stopTimeout:  5 * time.Second,
	}
}

// RecordArgs returns the ffmpeg arguments for recording url according to spec.
func RecordArgs(url string, spec Spec) []string {
	args := []string{
		"-nostdin", "-y",
		"-rtsp_transport", "tcp",
		"-i", url,
		"-t", formatSeconds(spec.Duration),
		"-c", "copy",
	}
	args = append(args, spec.ExtraArgs...)
	return append(args, spec.Output)
}

func (f *FFmpeg) Start(ctx context.Context, url string, spec Spec) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.proc != nil && !f.proc.exited() {
		return errors.Errorf("capture of %s is still running", f.proc.spec.Output)
	}

	console := &syncBuffer{}
	cmd := f.command(ctx, f.binary, RecordArgs(url, spec)...)
	cmd.Stdout = console
	cmd.Stderr = console
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "start %s", f.binary)
	}
	f.log.Infof("Recording %s from %s for %s", spec.Output, url, spec.Duration)

	p := &process{cmd: cmd, spec: spec, console: console, done: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	f.proc = p
	return nil
}

func (f *FFmpeg) current() (*process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.proc == nil {
		return nil, errors.New("no capture started")
	}
	return f.proc, nil
}

func (f *FFmpeg) WaitForStart(ctx context.Context, timeout time.Duration) error {
	p, err := f.current()
	if err != nil {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		if strings.Contains(p.console.String(), StartKeyword) {
			return nil
		}
		select {
		case <-p.done:
			if strings.Contains(p.console.String(), StartKeyword) {
				return nil
			}
			return errors.Wrapf(ErrExitedEarly, "%s (%v): %s", p.spec.Output, p.err, tail(p.console.String()))
		case <-timer.C:
			return errors.Wrapf(ErrTimeout, "%q not seen for %s after %s", StartKeyword, p.spec.Output, timeout)
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *FFmpeg) WaitForTermination(ctx context.Context, timeout time.Duration) error {
	p, err := f.current()
	if err != nil {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		if p.err != nil {
			return errors.Wrapf(p.err, "%s did not finish cleanly: %s", p.spec.Output, tail(p.console.String()))
		}
		f.log.Debugf("Capture %s finished", p.spec.Output)
		return nil
	case <-timer.C:
		return errors.Wrapf(ErrTimeout, "%s still running after %s", p.spec.Output, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FFmpeg) Stop() error {
	f.mu.Lock()
	p := f.proc
	f.mu.Unlock()

	if p == nil || p.exited() {
		return nil
	}

	// an interrupt lets ffmpeg finalize the container
	if err := p.cmd.Process.Signal(os.Interrupt); err != nil && !p.exited() {
		f.log.Debugf("Interrupt %s: %v", p.spec.Output, err)
	}
	select {
	case <-p.done:
		return nil
	case <-time.After(f.stopTimeout):
	}

	if err := p.cmd.Process.Kill(); err != nil && !p.exited() {
		return errors.Wrapf(err, "kill capture of %s", p.spec.Output)
	}
	<-p.done
	return nil
}

// BlackDetectArgs returns the ffmpeg arguments that run the blackdetect filter
// over the first window of a recording.
func BlackDetectArgs(output string, window time.Duration, params BlackDetectParams) []string {
	filter := fmt.Sprintf("blackdetect=d=%s:pix_th=%s:pic_th=%s",
		formatFloat(params.MinDuration), formatFloat(params.PixelThreshold), formatFloat(params.PictureThreshold))
	return []string{
		"-nostdin", "-hide_banner",
		"-i", output,
		"-t", formatSeconds(window),
		"-vf", filter,
		"-an", "-f", "null", "-",
	}
}

func (f *FFmpeg) DetectBlackSegments(ctx context.Context, output string, window time.Duration, params BlackDetectParams) (float64, error) {
	cmd := f.command(ctx, f.binary, BlackDetectArgs(output, window, params)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, errors.Wrapf(err, "blackdetect %s: %s", output, tail(string(out)))
	}
	return ParseBlackDuration(string(out))
}

// ParseBlackDuration sums every black_duration reported by the blackdetect filter.
func ParseBlackDuration(log string) (float64, error) {
	total := 0.0
	for _, m := range blackDurationRE.FindAllStringSubmatch(log, -1) {
		d, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, errors.Wrapf(err, "parse black_duration %q", m[1])
		}
		total += d
	}
	return total, nil
}

func formatSeconds(d time.Duration) string {
	return formatFloat(d.Seconds())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// tail keeps the last lines of a console log for error messages.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 10 {
		lines = lines[len(lines)-10:]
	}
	return strings.Join(lines, "\n")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
