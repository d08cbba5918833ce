package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/clean"
	"github.com/lakshaymaurya-felt/macmole/internal/engine"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

// maintenanceTask maps a subcommand name to its engine operation.
type maintenanceTask struct {
	name  string
	short string
	run   func(*engine.Engine, context.Context) clean.Result
}

var maintenanceTasks = []maintenanceTask{
	{"npm", "Clear the npm cache (npm cache clean --force)", (*engine.Engine).CleanPackageCache},
	{"docker", "Remove unused Docker images, containers and volumes", (*engine.Engine).PruneContainerEngine},
	{"simulators", "Delete unavailable iOS simulators", (*engine.Engine).PruneSimulatorRuntimes},
	{"editor-backup", "Delete Cursor's state.vscdb.backup", (*engine.Engine).DeleteEditorBackup},
}

var maintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Run a tool-specific cleanup",
	Long:  "Reclaim space through the owning tool: npm, Docker, Xcode simulators or the Cursor editor.",
}

func init() {
	maintainCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would run without running it")

	for _, task := range maintenanceTasks {
		maintainCmd.AddCommand(newMaintenanceCmd(task))
	}
}

func newMaintenanceCmd(task maintenanceTask) *cobra.Command {
	return &cobra.Command{
		Use:   task.name,
		Short: task.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			eng, err := newEngine()
			if err != nil {
				return err
			}

			res := task.run(eng, ctx)
			st := stdoutStyler()
			if res.OK {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", st.Success(ui.IconCheck), res.Message)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", st.Error(ui.IconCross), st.Error(res.Message))
			}
			return resultError(res)
		},
	}
}
