package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/clean"
	"github.com/lakshaymaurya-felt/macmole/internal/scan"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

var (
	cleanInteractive bool
	cleanJSON        bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [paths...]",
	Short: "Delete paths inside your home directory",
	Long: `Permanently delete the given files or directories. Paths may be absolute
or relative to your home directory; anything that resolves outside it is
refused. With --interactive (or no paths on a terminal) a scan runs first
and you pick what to delete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cleanInteractive || (len(args) == 0 && ui.IsInteractive()) {
			return runInteractiveClean(cmd)
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()

		eng, err := newEngine()
		if err != nil {
			return err
		}
		batch, err := eng.DeletePaths(ctx, args)
		if err != nil {
			return err
		}
		if cleanJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(batch)
		}
		return printResults(cmd.OutOrStdout(), batch.Results)
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the cleanup plan without deleting")
	cleanCmd.Flags().BoolVarP(&cleanInteractive, "interactive", "i", false, "Scan first and pick entries to delete")
	cleanCmd.Flags().BoolVar(&cleanJSON, "json", false, "Output results as JSON")
}

// runInteractiveClean scans behind a spinner, lets the user pick entries and
// deletes the confirmed selection.
func runInteractiveClean(cmd *cobra.Command) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	eng, err := newEngine()
	if err != nil {
		return err
	}

	picker := ui.NewPickerModel(func() ([]ui.PickerItem, error) {
		report, err := eng.Scan(ctx)
		if err != nil {
			return nil, err
		}
		return pickerItems(report, eng.Catalog().EditorBackupPath(eng.Home())), nil
	})

	final, err := tea.NewProgram(picker, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	m, ok := final.(ui.PickerModel)
	if !ok {
		return nil
	}
	if m.Err() != nil {
		return m.Err()
	}
	if !m.Confirmed() {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
		return nil
	}

	batch, err := eng.DeletePaths(ctx, m.Selected())
	if err != nil {
		return err
	}
	return printResults(cmd.OutOrStdout(), batch.Results)
}

// pickerItems lists the entries that are safe to delete one by one: the
// children of ~/Library/Caches and the editor's state backup file. Tool
// caches, Library subtrees and Docker data are reclaimed through `maintain`.
func pickerItems(r *scan.Report, editorBackup string) []ui.PickerItem {
	var items []ui.PickerItem
	add := func(sec *scan.Section, e scan.Entry) {
		items = append(items, ui.PickerItem{
			Group: scan.SectionTitle(sec.Category),
			Name:  e.Name,
			Path:  e.Path,
			Size:  e.SizeFormatted,
		})
	}
	for _, e := range r.Caches.Items {
		add(&r.Caches, e)
	}
	for _, e := range r.EditorState.Items {
		if e.Path == editorBackup {
			add(&r.EditorState, e)
		}
	}
	return items
}

// printResults writes one line per result and fails if any did.
func printResults(w io.Writer, results []clean.Result) error {
	st := stdoutStyler()
	failed, deleted := 0, 0
	for _, r := range results {
		target := r.Path
		if r.OK {
			deleted += r.DeletedCount
			fmt.Fprintf(w, "  %s %s  %s\n", st.Success(ui.IconCheck), target, st.Dim(r.Message))
			continue
		}
		failed++
		fmt.Fprintf(w, "  %s %s\n", st.Error(ui.IconCross), st.Error(r.Message))
	}
	fmt.Fprintf(w, "\n  %d removed, %d failed\n", deleted, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", failed, len(results))
	}
	return nil
}

// resultError turns a failed single result into a command error.
func resultError(r clean.Result) error {
	if r.OK {
		return nil
	}
	return errors.New(r.Message)
}
