package acceptance

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/teknique/fatest/pkg/logging"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			Padding(0, 2)
)

// report prints the per-stage results and the verdict. An accepted DUT has
// its temporary on-device state cleared; a rejected one is left as is for
// inspection.
func (r *Runner) report(ctx context.Context, run *TestRun) {
	log := run.Log.WithField(logging.FieldStage, "report")

	log.Info("\n\n\n")
	log.Info("Here is the end of the tests.  Time to connect another device")
	log.Infof("Mark the device with its serial number: %s.", MarkingID(run.SerialNumber))

	WriteReport(r.out, run)

	if !run.Accepted() {
		log.Error("\n\n#################################################")
		log.Error("# Detected a failure.  Please set device aside. #")
		log.Error("#################################################")
		log.Error("\n")
		log.Errorf("%s failed on: [%s]", run.DeviceID(), strings.Join(run.Failures, ", "))
		return
	}

	if _, err := r.device.RunCommand(ctx, r.cfg.CleanupCommand); err != nil {
		log.Warnf("Failed to clean up the device: %v", err)
	}
}

// MarkingID is what the operator writes on an accepted or rejected unit:
// the last five characters of its serial number.
func MarkingID(serial string) string {
	if serial == "" {
		return "unknown"
	}
	if len(serial) <= 5 {
		return serial
	}
	return serial[len(serial)-5:]
}

// WriteReport prints every stage result followed by the verdict banner.
func WriteReport(w io.Writer, run *TestRun) {
	fmt.Fprintln(w)
	for _, result := range run.Results {
		line := fmt.Sprintf("%s %s", statusTag(result.Status), result.Name)
		if result.Detail != "" {
			line += ": " + result.Detail
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderVerdict(run))
}

func statusTag(s Status) string {
	switch s {
	case StatusPassed:
		return passStyle.Render("[PASS]")
	case StatusFailed:
		return failStyle.Render("[FAIL]")
	default:
		return skipStyle.Render("[SKIP]")
	}
}

// RenderVerdict returns the boxed ACCEPTED or REJECTED banner for the run.
func RenderVerdict(run *TestRun) string {
	var body string
	style := bannerStyle
	if run.Accepted() {
		style = style.BorderForeground(lipgloss.Color("2")).Foreground(lipgloss.Color("2"))
		body = fmt.Sprintf("ACCEPTED  %s\nmark: %s", run.DeviceID(), MarkingID(run.SerialNumber))
	} else {
		style = style.BorderForeground(lipgloss.Color("1")).Foreground(lipgloss.Color("1"))
		lines := []string{
			fmt.Sprintf("REJECTED  %s", run.DeviceID()),
			fmt.Sprintf("mark: %s", MarkingID(run.SerialNumber)),
			"Detected a failure. Please set the device aside.",
			"",
		}
		for _, reason := range run.Failures {
			lines = append(lines, "- "+reason)
		}
		body = strings.Join(lines, "\n")
	}
	return style.Render(body)
}
