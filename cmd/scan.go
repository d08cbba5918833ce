package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/scan"
)

var (
	scanJSON     bool
	scanMaxItems int
	scanWarnings bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Report disk usage of known hotspots",
	Long:  "Measure caches, developer tool caches, Library subtrees, Docker and Cursor state under your home directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		eng, err := newEngine()
		if err != nil {
			return err
		}
		report, err := eng.Scan(ctx)
		if err != nil {
			return err
		}

		if scanJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		scan.PrintReport(cmd.OutOrStdout(), report, scan.PrintOptions{
			Styler:       stdoutStyler(),
			MaxItems:     scanMaxItems,
			ShowWarnings: scanWarnings || debug,
		})
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output the report as JSON")
	scanCmd.Flags().IntVar(&scanMaxItems, "max-items", 10, "Entries listed per category (0 lists all)")
	scanCmd.Flags().BoolVar(&scanWarnings, "warnings", false, "List measurements that failed")
}

// signalContext cancels on Ctrl-C so an in-flight du or command is killed.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
