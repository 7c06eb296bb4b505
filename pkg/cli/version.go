package cli

import (
	"github.com/spf13/cobra"
	"github.com/teknique/fatest/pkg/version"
)

func NewVersionCmd(_ CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current version and exit",
		Long:  `Print the current version and exit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			version.Fprint(cmd.OutOrStdout())
			return nil
		},
	}
	return cmd
}
