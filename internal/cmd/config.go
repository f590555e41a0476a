package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/gridscroll/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration",
	Long:  `Create a project config, set fields of the data config and list the merged files`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config field",
	Long: `Set a field of the data config. The key is a dotted path and the
value is parsed as JSON, falling back to a plain string.`,
	Example: `
# Use three columns
gridscroll config set grid.columns_template "1fr 1fr 1fr"

# Keep two lines cached around the viewport
gridscroll config set grid.cached_count 2
  `,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd, true)
		if err != nil {
			return err
		}
		if err := cfg.SetConfigField(args[0], parseValue(args[1])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s in %s\n", args[0], cfg.DataConfigPath())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project config",
	Long:  `Write gridscroll.json in the working directory with the current grid and demo settings`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd, true)
		if err != nil {
			return err
		}
		path, err := config.InitProject(cfg.WorkingDir(), cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

var configFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the config files in merge order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd, true)
		if err != nil {
			return err
		}
		if len(cfg.Files()) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No config files found")
			return nil
		}
		for _, f := range cfg.Files() {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configFilesCmd)
}

func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
