package main

import (
	"fmt"

	"github.com/spf13/cobra"

	v8b "github.com/mgenware/v8-builder"
	"github.com/mgenware/v8-builder/io2"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the detected build environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		targetOS, err := v8b.DetectTargetOS()
		if err != nil {
			return err
		}
		cpus, err := v8b.ResolveTargetCPUs(nil)
		if err != nil {
			return err
		}
		cpu := cpus[0]

		root := io2.ResolvePath(cfg.ResolveWorkDir())
		v8Dir := v8b.GetV8Dir(root)
		depot := v8b.NewDepotTools(v8b.GetDepotToolsDir(root), targetOS)
		outDir := v8b.GetOutDir(v8Dir, targetOS, cpu, v8b.BuildRelease)

		fmt.Printf("target_os:    %s\n", targetOS)
		fmt.Printf("target_cpu:   %s\n", cpu)
		fmt.Printf("version:      %s\n", orNone(cfg.ResolveVersion()))
		fmt.Printf("work_dir:     %s\n", root)
		fmt.Printf("depot_tools:  %s (present: %v)\n", depot.Dir, depot.Exists())
		fmt.Printf("v8:           %s (present: %v)\n", v8Dir, io2.DirectoryExists(v8Dir))
		fmt.Printf("gn:           %s\n", depot.Cmd("gn"))
		fmt.Printf("ninja:        %s\n", depot.Cmd("ninja"))
		fmt.Printf("out_dir:      %s\n", outDir)
		fmt.Printf("library:      %s\n", v8b.GetMonolithLibPath(outDir, targetOS))
		fmt.Printf("headers:      %s\n", v8b.GetIncludeDir(v8Dir))
		fmt.Printf("sccache:      %s\n", orNone(v8b.FindSccache()))

		if depot.Exists() {
			t := v8b.CreateDefaultTunnel()
			ctx := v8b.NewBuildContext(t, root, targetOS, cpu, false)
			fmt.Printf("gn version:    %s\n", ctx.ToolVersion("gn"))
			fmt.Printf("ninja version: %s\n", ctx.ToolVersion("ninja"))
		}
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(envCmd)
}
