package main

import (
	"github.com/spf13/cobra"

	v8b "github.com/mgenware/v8-builder"
)

var distCmd = &cobra.Command{
	Use:   "dist",
	Short: "Copy the built library and headers to an install directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		installDir, _ := cmd.Flags().GetString("out")
		if installDir == "" {
			installDir = cfg.InstallDir
		}
		debug, _ := cmd.Flags().GetBool("debug")
		cpus, _ := cmd.Flags().GetStringSlice("arch")

		t := v8b.CreateDefaultTunnel()
		return v8b.RunDist(t, &v8b.DistOptions{
			Root:       cfg.ResolveWorkDir(),
			InstallDir: installDir,
			Debug:      debug,
			CPUs:       cpus,
		})
	},
}

func init() {
	rootCmd.AddCommand(distCmd)
	distCmd.Flags().String("out", "", "Install directory for the library and headers.")
	distCmd.Flags().Bool("debug", false, "Pick the debug build output.")
	distCmd.Flags().StringSlice("arch", nil, "Target CPU(s) to install. Defaults to $TARGET_CPU or the host.")
}
