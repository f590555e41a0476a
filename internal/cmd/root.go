package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/gridscroll/internal/config"
	"github.com/charmbracelet/gridscroll/internal/log"
	"github.com/charmbracelet/gridscroll/internal/tui/exp/gridview"
	"github.com/charmbracelet/gridscroll/internal/version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("watch", "w", false, "Reload the grid when a config file changes")
}

var rootCmd = &cobra.Command{
	Use:   "gridscroll",
	Short: "Browse a lazily laid out scrolling grid",
	Long: `Gridscroll lays out a large grid of generated items in the terminal,
building and measuring only the lines around the viewport.`,
	Example: `
# Open the grid viewer
gridscroll

# Run with debug logging
gridscroll -d

# Reload the grid when the config changes
gridscroll --watch

# Run in a given working directory
gridscroll -c /path/to/project
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer log.RecoverPanic("main", nil)

		model, err := gridview.New(cfg)
		if err != nil {
			return err
		}
		program := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
			tea.WithMouseCellMotion(),
		)

		watch, _ := cmd.Flags().GetBool("watch")
		if watch {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				defer log.RecoverPanic("watcher", nil)
				if err := gridview.WatchConfig(ctx, cfg, program.Send); err != nil {
					slog.Error("Config watcher stopped", "error", err)
				}
			}()
		}

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// setup loads the config and starts logging. Console commands log to stderr,
// the viewer logs to a file in the data directory.
func setup(cmd *cobra.Command, console bool) (*config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cwd, debug)
	if err != nil {
		return nil, err
	}
	debug = cfg.Options.Debug || cfg.Options.LogLevel == "debug"

	if console {
		log.SetupConsole(os.Stderr, debug)
		return cfg, nil
	}

	logsDir := filepath.Join(cfg.Options.DataDirectory, "logs")
	if err := os.MkdirAll(logsDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	log.Setup(filepath.Join(logsDir, "gridscroll.log"), debug)
	slog.Info("Config loaded", "files", cfg.Files(), "cwd", cwd)
	return cfg, nil
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
