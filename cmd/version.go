package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mm %s (%s) built %s\n", appVersion, appCommit, appDate)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", core.PlatformString(cmd.Context()))
	},
}
