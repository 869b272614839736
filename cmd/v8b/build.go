package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	v8b "github.com/mgenware/v8-builder"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile v8_monolith with gn and ninja",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		debug, _ := cmd.Flags().GetBool("debug")
		cpus, _ := cmd.Flags().GetStringSlice("arch")
		skipClang, _ := cmd.Flags().GetBool("skip-clang")
		sysroot, _ := cmd.Flags().GetBool("sysroot")
		gnArgs, _ := cmd.Flags().GetStringArray("gn-arg")

		sccache, err := resolveSccacheFlag(cmd, cfg)
		if err != nil {
			return err
		}

		// Config args first so CLI args can override them.
		extra := append(v8b.SortedGNArgs(cfg.GNArgs), gnArgs...)

		t := v8b.CreateDefaultTunnel()
		return v8b.RunBuild(t, &v8b.BuildOptions{
			Root:        cfg.ResolveWorkDir(),
			Debug:       debug,
			CPUs:        cpus,
			SkipClang:   skipClang,
			Sysroot:     sysroot,
			ExtraGNArgs: extra,
			Sccache:     sccache,
		})
	},
}

// resolveSccacheFlag turns --sccache=auto|on|off plus the config into
// the tri-state used by the build.
func resolveSccacheFlag(cmd *cobra.Command, cfg *v8b.Config) (*bool, error) {
	mode, _ := cmd.Flags().GetString("sccache")
	switch mode {
	case "auto":
		return cfg.Sccache, nil
	case "on":
		v := true
		return &v, nil
	case "off":
		v := false
		return &v, nil
	default:
		return nil, eris.Errorf("invalid --sccache value %q, expected auto, on or off", mode)
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().Bool("debug", false, "Build debug version (not supported on Windows).")
	buildCmd.Flags().StringSlice("arch", nil, "Target CPU(s): x64, arm64. Defaults to $TARGET_CPU or the host.")
	buildCmd.Flags().Bool("skip-clang", false, "Do not download Chromium's clang.")
	buildCmd.Flags().Bool("sysroot", false, "Install the Debian sysroot before building (Linux only).")
	buildCmd.Flags().StringArray("gn-arg", nil, "Extra GN arg as key=value, repeatable.")
	buildCmd.Flags().String("sccache", "auto", "Use sccache: auto, on or off.")
}
