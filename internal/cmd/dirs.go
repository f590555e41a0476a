package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/gridscroll/internal/config"
	"github.com/spf13/cobra"
)

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Print directories used by Gridscroll",
	Long: `Print the directories where Gridscroll reads its configuration and
writes the fields set with "gridscroll config set".`,
	Example: `
# Print all directories
gridscroll dirs

# Print only the config directory
gridscroll dirs --config

# Print only the data directory
gridscroll dirs --data
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		configOnly, _ := cmd.Flags().GetBool("config")
		dataOnly, _ := cmd.Flags().GetBool("data")

		if configOnly && dataOnly {
			return fmt.Errorf("cannot specify both --config and --data flags")
		}

		configDir := filepath.Dir(config.GlobalConfig())
		dataDir := filepath.Dir(config.GlobalConfigData())

		if configOnly {
			fmt.Fprintln(cmd.OutOrStdout(), configDir)
			return nil
		}

		if dataOnly {
			fmt.Fprintln(cmd.OutOrStdout(), dataDir)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Config directory: %s\n", configDir)
		fmt.Fprintf(cmd.OutOrStdout(), "Data directory:   %s\n", dataDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dirsCmd)
	dirsCmd.Flags().Bool("config", false, "Print only the config directory")
	dirsCmd.Flags().Bool("data", false, "Print only the data directory")
}
