package v8b

import (
	"path/filepath"
	"strings"
)

// Ninja target producing a single static library containing all of V8.
const MonolithTarget = "v8_monolith"

const DefaultDepotToolsGitURL = "https://chromium.googlesource.com/chromium/tools/depot_tools.git"
const DefaultDepotToolsBundleURL = "https://storage.googleapis.com/chrome-infra/depot_tools.zip"

type OSEnum string

const (
	OSLinux OSEnum = "linux"
	OSMac   OSEnum = "mac"
	OSWin   OSEnum = "win"
)

var SupportedOSes = map[OSEnum]bool{
	OSLinux: true,
	OSMac:   true,
	OSWin:   true,
}

type ArchEnum string

const (
	ArchX64   ArchEnum = "x64"
	ArchArm64 ArchEnum = "arm64"
)

var SupportedArchs = map[ArchEnum]bool{
	ArchX64:   true,
	ArchArm64: true,
}

type BuildTypeEnum string

const (
	BuildDebug   BuildTypeEnum = "debug"
	BuildRelease BuildTypeEnum = "release"
)

// Sysroot packages use Debian arch names.
var sysrootArchs = map[ArchEnum]string{
	ArchX64:   "amd64",
	ArchArm64: "arm64",
}

func GetSysrootArch(arch ArchEnum) string {
	if s, ok := sysrootArchs[arch]; ok {
		return s
	}
	return string(arch)
}

func GetDepotToolsDir(root string) string {
	return filepath.Join(root, "depot_tools")
}

func GetV8Dir(root string) string {
	return filepath.Join(root, "v8")
}

func GetClangBaseDir(root string) string {
	return filepath.Join(root, "third_party", "llvm-build")
}

// GetOutDirName returns the gn out directory relative to the v8 dir.
// GN and ninja take it with forward slashes on all platforms.
func GetOutDirName(os OSEnum, arch ArchEnum, buildType BuildTypeEnum) string {
	return "out.gn/" + strings.Join([]string{string(os), string(arch), string(buildType)}, "-")
}

func GetOutDir(v8Dir string, os OSEnum, arch ArchEnum, buildType BuildTypeEnum) string {
	return filepath.Join(v8Dir, filepath.FromSlash(GetOutDirName(os, arch, buildType)))
}

func GetMonolithLibFileName(os OSEnum) string {
	if os == OSWin {
		return "v8_monolith.lib"
	}
	return "libv8_monolith.a"
}

func GetMonolithLibPath(outDir string, os OSEnum) string {
	return filepath.Join(outDir, "obj", GetMonolithLibFileName(os))
}

func GetIncludeDir(v8Dir string) string {
	return filepath.Join(v8Dir, "include")
}

func GetSysrootDir(v8Dir string, arch ArchEnum) string {
	return filepath.Join(v8Dir, "build", "linux", "debian_bullseye_"+GetSysrootArch(arch)+"-sysroot")
}

func GetBuildGNPath(v8Dir string) string {
	return filepath.Join(v8Dir, "build", "config", "compiler", "BUILD.gn")
}
