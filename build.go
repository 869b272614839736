package v8b

import (
	"fmt"

	"github.com/mgenware/j9/v3"
	"github.com/rotisserie/eris"

	"github.com/mgenware/v8-builder/io2"
)

type BuildOptions struct {
	Root  string
	Debug bool
	// Raw --arch values; empty falls back to TARGET_CPU, then the host.
	CPUs []string

	// Skip the Chromium clang download and build with the default
	// toolchain.
	SkipClang bool
	// Install the Debian sysroot before building (Linux only).
	Sysroot bool

	// Extra key=value GN args, applied after the monolith defaults.
	ExtraGNArgs []string
	// nil probes PATH, true requires sccache, false disables it.
	Sccache *bool
}

// RunBuild compiles v8_monolith for every requested CPU in turn.
func RunBuild(t *j9.Tunnel, opt *BuildOptions) error {
	targetOS, err := DetectTargetOS()
	if err != nil {
		return err
	}
	cpus, err := ResolveTargetCPUs(opt.CPUs)
	if err != nil {
		return err
	}

	root := io2.ResolvePath(opt.Root)
	if !io2.DirectoryExists(GetV8Dir(root)) {
		return eris.New("v8 directory not found, run `v8b clone` first")
	}

	for _, cpu := range cpus {
		ctx := NewBuildContext(t, root, targetOS, cpu, opt.Debug)
		if err := buildOne(ctx, opt); err != nil {
			return err
		}
	}
	return nil
}

func buildOne(ctx *BuildContext, opt *BuildOptions) error {
	PrintTask(fmt.Sprintf("Building V8 for %s-%s (%s)...", ctx.OS, ctx.CPU, ctx.Type))

	settings := &BuildSettings{
		OS:        ctx.OS,
		CPU:       ctx.CPU,
		Type:      ctx.Type,
		ExtraArgs: opt.ExtraGNArgs,
	}

	if !opt.SkipClang {
		clangBase := io2.ResolvePath(ctx.DownloadClang())
		PrintSubtask("using clang at: " + clangBase)
		settings.ClangBasePath = clangBase
	}

	if ctx.OS == OSLinux {
		if hostCPU, err := DetectTargetCPU(); err == nil && hostCPU != ctx.CPU {
			PrintSubtask(fmt.Sprintf("cross-compiling from %s to %s", hostCPU, ctx.CPU))
		}
		if opt.Sysroot {
			ctx.InstallSysroot()
		}
	}

	wrapper, err := resolveSccache(opt.Sccache)
	if err != nil {
		return err
	}
	settings.CCWrapper = wrapper

	ctx.RunGNGen(MonolithGNArgs(settings))
	ctx.RunNinja()
	PrintTask("Build complete")
	ctx.ReportArtifacts()
	return nil
}

func resolveSccache(mode *bool) (string, error) {
	if mode != nil && !*mode {
		return "", nil
	}
	path := FindSccache()
	if path != "" {
		PrintSubtask("using sccache: " + path)
		return path, nil
	}
	if mode != nil {
		return "", eris.New("sccache requested but not found on PATH")
	}
	PrintSubtask("sccache not found, building without compilation cache")
	return "", nil
}
