package dut

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

const donePrefix = "__FAT_DONE_"

// anyDoneRE matches the completion line of any command, including ones that
// timed out earlier and finished late.
var anyDoneRE = regexp.MustCompile(donePrefix + `\d+_\d+`)

// ExitError is returned when a console command finishes with a non-zero status.
type ExitError struct {
	Command string
	Code    int
	Output  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
}

// Console runs shell commands over the DUT's serial console.
type Console struct {
	port    io.ReadWriteCloser
	timeout time.Duration
	log     logrus.FieldLogger

	mu     sync.Mutex
	seq    int
	dataCh chan string
	done   chan struct{}
	closed bool
}

// OpenConsole opens the serial port at 8N1 and starts reading from it.
func OpenConsole(portName string, baudRate int, timeout time.Duration, log logrus.FieldLogger) (*Console, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "open serial port %s", portName)
	}
	return NewConsole(port, timeout, log), nil
}

// NewConsole wraps an already open port. Every command waits at most timeout.
func NewConsole(port io.ReadWriteCloser, timeout time.Duration, log logrus.FieldLogger) *Console {
	c := &Console{
		port:    port,
		timeout: timeout,
		log:     log,
		dataCh:  make(chan string, 64),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Run sends the command and returns everything it printed. Commands are
// serialized; output left over from earlier commands or boot messages is discarded.
func (c *Console) Run(ctx context.Context, command string) (string, error) {
	return c.RunWithTimeout(ctx, command, c.timeout)
}

// RunWithTimeout is Run with an explicit completion timeout.
func (c *Console) RunWithTimeout(ctx context.Context, command string, timeout time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", io.ErrClosedPipe
	}
	c.drain()

	c.seq++
	marker := fmt.Sprintf("%s%d_", donePrefix, c.seq)
	line := fmt.Sprintf("%s; printf '%%s%%d\\n' '%s' $?\n", command, marker)
	if _, err := c.port.Write([]byte(line)); err != nil {
		return "", errors.Wrap(err, "write command")
	}
	c.log.Debugf("console: %s", command)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var received strings.Builder
	for {
		select {
		case chunk, ok := <-c.dataCh:
			if !ok {
				return "", errors.Wrap(io.ErrUnexpectedEOF, "console closed")
			}
			received.WriteString(chunk)
			output, code, complete := parseCompletion(received.String(), marker)
			if !complete {
				continue
			}
			if code != 0 {
				return output, &ExitError{Command: command, Code: code, Output: output}
			}
			return output, nil
		case <-timer.C:
			return "", errors.Wrapf(ErrCommandTimeout, "%s after %s", command, timeout)
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// WaitReady sends no-op commands until the console answers or the timeout expires.
func (c *Console) WaitReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	attempt := c.timeout
	if attempt > 5*time.Second {
		attempt = 5 * time.Second
	}
	for {
		_, err := c.RunWithTimeout(ctx, "true", attempt)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if time.Now().After(deadline) {
			return errors.Wrapf(err, "console not ready after %s", timeout)
		}
		c.log.Debugf("console not ready yet: %v", err)
	}
}

// Close stops the read loop and closes the port.
func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	return c.port.Close()
}

func (c *Console) drain() {
	for {
		select {
		case _, ok := <-c.dataCh:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (c *Console) readLoop() {
	defer close(c.dataCh)

	buf := make([]byte, 1024)
	for {
		n, err := c.port.Read(buf)
		if n > 0 {
			select {
			case c.dataCh <- string(buf[:n]):
			case <-c.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// parseCompletion splits the raw console transcript into the command output
// and exit status once the command's own completion marker has arrived.
// Markers of other commands are dropped from the output.
func parseCompletion(raw, marker string) (string, int, bool) {
	raw = strings.ReplaceAll(raw, "\r", "")
	// the echoed command shows the marker quoted, which this does not match
	doneRE := regexp.MustCompile(regexp.QuoteMeta(marker) + `(\d+)`)
	loc := doneRE.FindStringSubmatchIndex(raw)
	if loc == nil {
		return "", 0, false
	}
	// the marker must be terminated so a partially received status is not parsed
	if !strings.Contains(raw[loc[1]:], "\n") {
		return "", 0, false
	}
	code, err := strconv.Atoi(raw[loc[2]:loc[3]])
	if err != nil {
		return "", 0, false
	}

	body := raw[:loc[0]]
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		// drop the echoed command line
		if strings.Contains(line, "'"+marker+"'") {
			out = out[:0]
			continue
		}
		if anyDoneRE.MatchString(line) {
			continue
		}
		out = append(out, line)
	}
	return strings.Trim(strings.Join(out, "\n"), "\n"), code, true
}
