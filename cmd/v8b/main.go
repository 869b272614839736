package main

import (
	"github.com/spf13/cobra"

	v8b "github.com/mgenware/v8-builder"
)

var rootCmd = &cobra.Command{
	Use:   "v8b",
	Short: "Build V8 as a static library",
	Long: `v8b fetches and compiles the V8 JavaScript engine as a static library
by driving git, depot_tools, gn and ninja.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", v8b.DefaultConfigFileName, "Path to the yaml config file.")
	rootCmd.PersistentFlags().String("work-dir", "", "Directory holding depot_tools and the v8 checkout.")
}

// loadConfig reads the config file and applies persistent flag
// overrides.
func loadConfig(cmd *cobra.Command) (*v8b.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := v8b.LoadConfig(path, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	if workDir, _ := cmd.Flags().GetString("work-dir"); workDir != "" {
		cfg.WorkDir = workDir
	}
	return cfg, nil
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
