package cli

import (
	"github.com/spf13/cobra"
)

const rootCmdLong = `Runs the factory acceptance test against a device connected to this
station: power cycle, firmware flash, LED and bus checks, power readings and
a live streaming capture, ending in an ACCEPTED or REJECTED verdict.`

// NewFatCmd creates the CLI for the factory acceptance test station
func NewFatCmd(cli CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fatest",
		Short: "Factory acceptance test station for camera boards",
		Long:  rootCmdLong,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.GetViper().BindPFlags(cmd.PersistentFlags())
		},
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.GetViper().BindPFlags(cmd.Flags())
		},
	}

	cmd.PersistentFlags().String("config", "", "station config file (default ./fatest.yaml if present)")
	cmd.MarkPersistentFlagFilename("config", "yaml", "yml")

	AddCommands(cmd, cli)

	return cmd
}
