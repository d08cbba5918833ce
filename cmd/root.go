package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/macmole/internal/config"
	"github.com/lakshaymaurya-felt/macmole/internal/engine"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

var (
	// Global flags
	debug      bool
	dryRun     bool
	configPath string
	homeDir    string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "mm",
	Short: "Find and reclaim disk space in your home directory",
	Long: `macmole - find and reclaim disk space on macOS.

Scans the usual hotspots under your home directory (caches, developer
tool caches, Library subtrees, Docker and Cursor state), reports their
sizes and deletes what you pick. Nothing outside your home directory is
ever touched.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		runDefault(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/macmole/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Home directory to scan and clean (default: current user's)")

	// Register all subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(maintainCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging() {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadSettings reads the config and applies command-line overrides.
func loadSettings() (*config.Settings, error) {
	s, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if homeDir != "" {
		s.Home = homeDir
	}
	if dryRun {
		s.DryRun = true
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// newEngine builds the engine every subcommand runs against.
func newEngine(opts ...engine.Option) (*engine.Engine, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	opts = append([]engine.Option{engine.WithLogger(slog.Default())}, opts...)
	return engine.New(s, opts...)
}

func stdoutStyler() ui.Styler {
	return ui.Styler{Enabled: ui.ColorEnabled(os.Stdout)}
}

// runDefault opens the picker on a terminal and prints help otherwise.
func runDefault(cmd *cobra.Command) {
	if !ui.IsInteractive() {
		_ = cmd.Help()
		return
	}
	if err := runInteractiveClean(cmd); err != nil {
		fmt.Fprintln(os.Stderr, stdoutStyler().Error(ui.IconCross+" "+err.Error()))
		os.Exit(1)
	}
}
