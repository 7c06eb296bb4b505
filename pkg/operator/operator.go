// Package operator talks to the person running the station.
package operator

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/pkg/errors"
)

// Operator asks questions and shows progress while the DUT is tested.
type Operator interface {
	// Confirm asks a yes/no question until it gets an answer.
	Confirm(question string) (bool, error)
	// Pause waits for the operator to press Enter.
	Pause(message string) error
	// Progress shows message while a long step runs. Calling stop clears it.
	Progress(message string) (stop func())
}

// LineReader is satisfied by *readline.Instance.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

// Terminal is an Operator on the station's console.
type Terminal struct {
	rl         LineReader
	out        io.Writer
	isTerminal bool
}

var _ Operator = (*Terminal)(nil)

func NewTerminal(rl LineReader, out io.Writer, isTerminal bool) *Terminal {
	return &Terminal{rl: rl, out: out, isTerminal: isTerminal}
}

func (t *Terminal) Confirm(question string) (bool, error) {
	t.rl.SetPrompt(question + " [yn] ")
	for {
		line, err := t.rl.Readline()
		if err != nil {
			return false, errors.Wrap(err, "read answer")
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func (t *Terminal) Pause(message string) error {
	t.rl.SetPrompt(message + " ")
	if _, err := t.rl.Readline(); err != nil {
		return errors.Wrap(err, "wait for enter")
	}
	return nil
}

func (t *Terminal) Progress(message string) func() {
	if !t.isTerminal {
		fmt.Fprintln(t.out, message)
		return func() {}
	}
	sp := spinner.New(
		spinner.CharSets[9],
		100*time.Millisecond,
		spinner.WithWriter(t.out),
		spinner.WithColor("reset"),
		spinner.WithSuffix(" "+message),
		spinner.WithFinalMSG(fmt.Sprintf("✔ %s\n", message)),
	)
	sp.Start()
	return sp.Stop
}
