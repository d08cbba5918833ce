package cmd

import (
	"encoding/json"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/status"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

var (
	statusRefresh int
	statusJSON    bool
	statusWatch   bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show home volume usage",
	Long:  "Show how full the volume holding your home directory is, with platform and memory details.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		if statusWatch && ui.IsInteractive() {
			model := status.NewStatusModel(s.Home, time.Duration(statusRefresh)*time.Second)
			_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()

		metrics, err := status.Collect(ctx, s.Home)
		if err != nil {
			return err
		}
		if statusJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(metrics)
		}
		status.PrintMetrics(cmd.OutOrStdout(), metrics, stdoutStyler())
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusRefresh, "refresh", 2, "Refresh interval in seconds for --watch")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output metrics as JSON")
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Keep refreshing in a live view")
}
