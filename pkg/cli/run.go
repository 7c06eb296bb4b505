package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/teknique/fatest/pkg/acceptance"
	"github.com/teknique/fatest/pkg/config"
	"github.com/teknique/fatest/pkg/logging"
	"github.com/teknique/fatest/pkg/operator"
)

// runFlags maps run flags to their config keys.
var runFlags = map[string]string{
	"serial-port":      "device.serial_port",
	"baud-rate":        "device.baud_rate",
	"firmware-version": "firmware.version",
	"log-dir":          "log_dir",
	"artifacts-dir":    "artifacts_dir",
	"pause-at-end":     "pause_at_end",
}

func newRunCmd(cli CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Runs the acceptance test against the connected device",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindConfigFlags(cli.GetViper(), cmd.Flags(), runFlags)
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

			logPath, err := deviceLogPath(cfg)
			if err != nil {
				return err
			}
			log, closer, err := logging.New(logging.Options{
				Fs:      cli.GetFS(),
				Console: cmd.ErrOrStderr(),
				Path:    logPath,
			})
			if err != nil {
				return errors.Wrap(err, "set up logging")
			}
			defer closer.Close()

			isTerminal := isatty.IsTerminal(os.Stderr.Fd())
			op := operator.NewTerminal(cli.GetReadline(), cmd.ErrOrStderr(), isTerminal)

			st, err := openStation(cfg, op, log)
			if err != nil {
				return err
			}
			defer st.Close()

			run := acceptance.NewRunner(acceptance.Options{
				Config:    cfg,
				Device:    st.board,
				Meter:     st.meter,
				Sampler:   st.sampler,
				Recorder:  st.recorder,
				Extractor: st.extractor,
				Operator:  op,
				Log:       log,
				Out:       cmd.OutOrStdout(),
			}).Run(cmd.Context())

			if !run.Accepted() {
				return ErrRejected
			}
			return nil
		},
	}

	cmd.Flags().String("serial-port", "", "serial device of the DUT console, e.g. /dev/ttyUSB0")
	cmd.Flags().Int("baud-rate", 0, "DUT console baud rate")
	cmd.Flags().String("firmware-version", "", "firmware version to flash")
	cmd.Flags().String("log-dir", "", "directory of the device log")
	cmd.Flags().String("artifacts-dir", "", "directory for the recordings")
	cmd.Flags().Bool("pause-at-end", true, "wait for Enter after powering the device off")

	return cmd
}

// bindConfigFlags binds the flags and then each mapped flag to its
// config key, so that a flag given on the command line overrides the config
// file and environment.
func bindConfigFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	for name, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return errors.Wrapf(err, "bind flag %s", name)
		}
	}
	return nil
}
