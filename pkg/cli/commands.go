package cli

import (
	"github.com/spf13/cobra"
)

// AddCommands adds run/bus-scan/config/log-file/version commands to the cobra object
func AddCommands(cmd *cobra.Command, cli CLI) {
	cmd.AddCommand(NewVersionCmd(cli))
	cmd.AddCommand(newRunCmd(cli))
	cmd.AddCommand(newBusScanCmd(cli))
	cmd.AddCommand(newConfigCmd(cli))
	cmd.AddCommand(newLogFileCmd(cli))
}
