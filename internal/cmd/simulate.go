package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/gridscroll/internal/sim"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Lay out the grid without a terminal UI",
	Long: heredoc.Doc(`
		Run a scripted session against the configured grid and print the
		visible range and item rects after every layout pass.

		A script is a YAML or JSON document with a viewport and a list of
		steps. Each step sets one of scroll, jump, edge, count, invalidate,
		resize or idle. Without a script a few pages are scrolled and both
		ends are visited.
	`),
	Example: heredoc.Doc(`
		# Scroll through the default grid
		gridscroll simulate

		# Play a script and print JSON
		gridscroll simulate --script session.yaml --format json

		# Use a wider viewport
		gridscroll simulate --width 120 --height 40
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd, true)
		if err != nil {
			return err
		}
		scriptFile, _ := cmd.Flags().GetString("script")
		format, _ := cmd.Flags().GetString("format")
		width, _ := cmd.Flags().GetFloat64("width")
		height, _ := cmd.Flags().GetFloat64("height")

		script := sim.DefaultScript(width, height)
		if scriptFile != "" {
			f, err := os.Open(scriptFile)
			if err != nil {
				return fmt.Errorf("failed to open script: %w", err)
			}
			defer f.Close()
			if script, err = sim.LoadScript(f); err != nil {
				return err
			}
		}

		opts, err := cfg.GridOptions()
		if err != nil {
			return err
		}
		runner := sim.NewRunner(opts, sim.NewTiles(cfg.Demo))
		frames, err := runner.Run(cmd.Context(), script)
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		return sim.Write(cmd.OutOrStdout(), frames, format)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringP("script", "s", "", "Script file to play (YAML or JSON)")
	simulateCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
	simulateCmd.Flags().Float64("width", 80, "Viewport width when no script is given")
	simulateCmd.Flags().Float64("height", 24, "Viewport height when no script is given")
}
