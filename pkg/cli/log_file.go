package cli

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/teknique/fatest/pkg/config"
	"github.com/teknique/fatest/pkg/host"
	"github.com/teknique/fatest/pkg/logging"
)

func newLogFileCmd(cli CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log-file",
		Short: "Prints the path of this station's device log",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.GetViper().BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := cli.GetViper()
			cfg, err := config.Load(v, cli.GetFS(), v.GetString("config"))
			if err != nil {
				return err
			}
			path, err := deviceLogPath(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	return cmd
}

func deviceLogPath(cfg config.Config) (string, error) {
	hostname, err := host.GetHostname()
	if err != nil {
		return "", errors.Wrap(err, "get hostname")
	}
	return filepath.Join(cfg.LogDir, logging.FileName(hostname, cfg.ShortTitle)), nil
}
