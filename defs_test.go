package v8b

import (
	"path/filepath"
	"testing"
)

func TestGetOutDirName(t *testing.T) {
	tests := []struct {
		os   OSEnum
		arch ArchEnum
		bt   BuildTypeEnum
		want string
	}{
		{OSLinux, ArchX64, BuildRelease, "out.gn/linux-x64-release"},
		{OSMac, ArchArm64, BuildDebug, "out.gn/mac-arm64-debug"},
		{OSWin, ArchX64, BuildRelease, "out.gn/win-x64-release"},
	}
	for _, tt := range tests {
		if got := GetOutDirName(tt.os, tt.arch, tt.bt); got != tt.want {
			t.Errorf("GetOutDirName(%s, %s, %s) = %s, want %s", tt.os, tt.arch, tt.bt, got, tt.want)
		}
	}
}

func TestGetMonolithLibFileName(t *testing.T) {
	if got := GetMonolithLibFileName(OSWin); got != "v8_monolith.lib" {
		t.Errorf("win: got %s", got)
	}
	if got := GetMonolithLibFileName(OSLinux); got != "libv8_monolith.a" {
		t.Errorf("linux: got %s", got)
	}
	if got := GetMonolithLibFileName(OSMac); got != "libv8_monolith.a" {
		t.Errorf("mac: got %s", got)
	}
}

func TestGetSysrootArch(t *testing.T) {
	if got := GetSysrootArch(ArchX64); got != "amd64" {
		t.Errorf("x64: got %s", got)
	}
	if got := GetSysrootArch(ArchArm64); got != "arm64" {
		t.Errorf("arm64: got %s", got)
	}
}

func TestGetMonolithLibPath(t *testing.T) {
	got := GetMonolithLibPath(filepath.Join("v8", "out"), OSLinux)
	want := filepath.Join("v8", "out", "obj", "libv8_monolith.a")
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestGetSysrootDir(t *testing.T) {
	got := GetSysrootDir("v8", ArchX64)
	want := filepath.Join("v8", "build", "linux", "debian_bullseye_amd64-sysroot")
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
