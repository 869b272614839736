package v8b

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mgenware/j9/v3"

	"github.com/mgenware/v8-builder/io2"
)

// BuildContext holds everything needed for one gn/ninja run of a single
// os/cpu/build-type combination.
type BuildContext struct {
	Tunnel *j9.Tunnel
	Depot  *DepotTools

	// Absolute work dir containing depot_tools and the v8 checkout.
	Root  string
	V8Dir string

	OS   OSEnum
	CPU  ArchEnum
	Type BuildTypeEnum

	// OutDirName is relative to V8Dir, e.g. out.gn/linux-x64-release.
	OutDirName string
	OutDir     string

	stringCache map[string]string
}

func NewBuildContext(t *j9.Tunnel, root string, os OSEnum, cpu ArchEnum, debug bool) *BuildContext {
	buildType := BuildRelease
	if debug {
		// The Windows toolchain configuration only supports release.
		if os == OSWin {
			PrintError("debug builds not supported on Windows, using release")
		} else {
			buildType = BuildDebug
		}
	}

	v8Dir := GetV8Dir(root)
	return &BuildContext{
		Tunnel:     t,
		Depot:      NewDepotTools(GetDepotToolsDir(root), os),
		Root:       root,
		V8Dir:      v8Dir,
		OS:         os,
		CPU:        cpu,
		Type:       buildType,
		OutDirName: GetOutDirName(os, cpu, buildType),
		OutDir:     GetOutDir(v8Dir, os, cpu, buildType),
	}
}

func (ctx *BuildContext) LibPath() string {
	return GetMonolithLibPath(ctx.OutDir, ctx.OS)
}

func clangBinPath(clangBase string) string {
	return filepath.Join(clangBase, "Release+Asserts", "bin", "clang")
}

// DownloadClang fetches Chromium's clang into third_party/llvm-build
// and returns its absolute base path. Using Chromium's own toolchain
// avoids Xcode SDK issues on macOS and keeps builds reproducible.
func (ctx *BuildContext) DownloadClang() string {
	clangBase := GetClangBaseDir(ctx.Root)
	if io2.FileExists(clangBinPath(clangBase)) {
		PrintSubtask("clang already exists: " + clangBase)
		return clangBase
	}

	PrintTask("Downloading Chromium's clang...")
	script := filepath.Join(ctx.V8Dir, "tools", "clang", "scripts", "update.py")
	// The script expects to run from the v8 dir.
	ctx.Tunnel.CD(ctx.V8Dir)
	ctx.Tunnel.Spawn(&j9.SpawnOpt{
		Name: "python3",
		Args: []string{script, "--output-dir", clangBase},
	})

	if !io2.FileExists(clangBinPath(clangBase)) {
		PrintError("clang binary not found at " + clangBinPath(clangBase))
		PrintError("the clang download may have failed, the build may use system clang instead")
	}
	return clangBase
}

// InstallSysroot installs the Debian sysroot used for cross-compiling
// on Linux. Skipped when already present.
func (ctx *BuildContext) InstallSysroot() {
	sysrootDir := GetSysrootDir(ctx.V8Dir, ctx.CPU)
	if io2.DirectoryExists(sysrootDir) {
		PrintSubtask("sysroot already exists: " + sysrootDir)
		return
	}

	PrintTask("Installing sysroot for " + GetSysrootArch(ctx.CPU) + "...")
	script := filepath.Join(ctx.V8Dir, "build", "linux", "sysroot_scripts", "install-sysroot.py")
	ctx.Tunnel.CD(ctx.V8Dir)
	ctx.Tunnel.Spawn(&j9.SpawnOpt{
		Name: "python3",
		Args: []string{script, "--arch=" + GetSysrootArch(ctx.CPU)},
	})
}

// FindSccache returns the sccache path, or empty when not on PATH.
func FindSccache() string {
	path, err := exec.LookPath("sccache")
	if err != nil {
		return ""
	}
	return path
}

func (ctx *BuildContext) RunGNGen(args *GNArgs) {
	PrintTask("Running gn gen...")
	ctx.Tunnel.CD(ctx.V8Dir)
	ctx.Tunnel.Spawn(&j9.SpawnOpt{
		Name: ctx.Depot.Cmd("gn"),
		Args: []string{"gen", ctx.OutDirName, "--args=" + args.String()},
		Env:  ctx.Depot.Env(),
	})
}

func (ctx *BuildContext) RunNinja() {
	PrintTask("Building with ninja...")
	ctx.Tunnel.CD(ctx.V8Dir)
	ctx.Tunnel.Spawn(&j9.SpawnOpt{
		Name: ctx.Depot.Cmd("ninja"),
		Args: []string{"-C", ctx.OutDirName, MonolithTarget},
		Env:  ctx.Depot.Env(),
	})
}

// ReportArtifacts prints the resulting library path, its size and the
// header location.
func (ctx *BuildContext) ReportArtifacts() {
	libPath := ctx.LibPath()
	size, err := io2.FileSize(libPath)
	if err != nil {
		PrintError("expected library not found at " + libPath)
		PrintError("check the output directory for the built library")
	} else {
		PrintSubtask(fmt.Sprintf("static library: %s (%.1f MB)", libPath, float64(size)/(1024*1024)))
	}
	PrintSubtask("headers location: " + GetIncludeDir(ctx.V8Dir))
}

// ShellCmd runs a shell command and returns its trimmed output.
func (ctx *BuildContext) ShellCmd(cmd string) string {
	output := ctx.Tunnel.Shell(&j9.ShellOpt{Cmd: cmd})
	return strings.TrimSpace(string(output))
}

// ToolVersion reports the version of a depot_tools command, e.g. gn or
// ninja. The wrapper is invoked by absolute path so depot_tools does
// not need to be on PATH. Results are cached per context.
func (ctx *BuildContext) ToolVersion(name string) string {
	return ctx.cacheString("ver-"+name, func() string {
		bin := ctx.Depot.Cmd(name)
		if ctx.OS != OSWin {
			bin = filepath.Join(ctx.Depot.Dir, name)
		}
		return ctx.ShellCmd(bin + " --version")
	})
}

type cacheStringFunc func() string

func (ctx *BuildContext) cacheString(key string, fn cacheStringFunc) string {
	if ctx.stringCache == nil {
		ctx.stringCache = map[string]string{}
	}
	key = string(ctx.OS) + "_" + string(ctx.CPU) + "_" + key
	if val, ok := ctx.stringCache[key]; ok {
		return val
	}
	val := fn()
	ctx.stringCache[key] = val
	return val
}
