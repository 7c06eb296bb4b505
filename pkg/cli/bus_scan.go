package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/teknique/fatest/pkg/acceptance"
	"github.com/teknique/fatest/pkg/config"
	"k8s.io/utils/clock"
)

var busScanFlags = map[string]string{
	"serial-port": "device.serial_port",
	"baud-rate":   "device.baud_rate",
	"attempts":    "bus_scan.attempts",
}

// commandRunner is the part of the device the bus scan needs.
type commandRunner interface {
	RunCommand(ctx context.Context, command string) (string, error)
}

func newBusScanCmd(cli CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bus-scan",
		Short:        "Scans the DUT i2c buses and prints the devices found on each",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindConfigFlags(cli.GetViper(), cmd.Flags(), busScanFlags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := cli.GetViper()

			cfg, err := config.Load(v, cli.GetFS(), v.GetString("config"))
			if err != nil {
				return err
			}
			if err := cfg.RequireDevice(); err != nil {
				return err
			}

			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())

			st, err := openStation(cfg, nil, log)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.board.EnsureReady(cmd.Context()); err != nil {
				return err
			}
			if !scanBuses(cmd.Context(), cmd.OutOrStdout(), st.board, cfg.BusScan, clock.RealClock{}) {
				return ErrBusScanFailed
			}
			return nil
		},
	}

	cmd.Flags().String("serial-port", "", "serial device of the DUT console, e.g. /dev/ttyUSB0")
	cmd.Flags().Int("baud-rate", 0, "DUT console baud rate")
	cmd.Flags().Int("attempts", 0, "scan attempts per bus")

	return cmd
}

// scanBuses runs the retrying presence check on every configured bus and
// prints one result line per bus. It reports whether every bus passed.
func scanBuses(ctx context.Context, w io.Writer, d commandRunner, scan config.BusScanConfig, clk clock.Clock) bool {
	ok := true
	for _, res := range acceptance.CheckBuses(ctx, clk, scan, d.RunCommand) {
		printBusResult(w, res)
		if !res.Passed {
			ok = false
		}
	}
	return ok
}

func printBusResult(w io.Writer, res acceptance.BusResult) {
	e := res.Expectation
	switch {
	case res.Err != nil:
		fmt.Fprintln(w, OutputFailRed(), fmt.Sprintf("bus %d: %v", e.Bus, res.Err))
	case res.Passed && res.Attempts > 1:
		fmt.Fprintln(w, OutputWarnYellow(), fmt.Sprintf("bus %d: %d devices, expected at least %d (attempt %d)", e.Bus, res.Found, e.MinDevices, res.Attempts))
	case res.Passed:
		fmt.Fprintln(w, OutputPassGreen(), fmt.Sprintf("bus %d: %d devices, expected at least %d", e.Bus, res.Found, e.MinDevices))
	default:
		fmt.Fprintln(w, OutputFailRed(), fmt.Sprintf("bus %d: %d devices, expected at least %d", e.Bus, res.Found, e.MinDevices))
	}
}
