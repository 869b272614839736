package v8b

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgenware/j9/v3"
	"github.com/rotisserie/eris"

	"github.com/mgenware/v8-builder/io2"
)

type DistOptions struct {
	Root       string
	InstallDir string
	Debug      bool
	// Raw --arch values, same resolution rules as for the build.
	CPUs []string
}

// RunDist copies the built static library and the V8 headers into the
// install directory. Libraries land in lib/<os>-<cpu>-<type>/, headers
// in include/. Ninja emits thin archives on some hosts; those are
// converted to self-contained archives on the way out.
func RunDist(t *j9.Tunnel, opt *DistOptions) error {
	if opt.InstallDir == "" {
		return eris.New("install directory not set, use --out or the config file")
	}

	targetOS, err := DetectTargetOS()
	if err != nil {
		return err
	}
	cpus, err := ResolveTargetCPUs(opt.CPUs)
	if err != nil {
		return err
	}

	root := io2.ResolvePath(opt.Root)
	installDir := io2.ResolvePath(opt.InstallDir)

	for _, cpu := range cpus {
		ctx := NewBuildContext(t, root, targetOS, cpu, opt.Debug)
		if err := distOne(ctx, installDir); err != nil {
			return err
		}
	}

	PrintTask("Copying headers...")
	includeDest := filepath.Join(installDir, "include")
	if err := io2.CopyDir(GetIncludeDir(GetV8Dir(root)), includeDest); err != nil {
		return eris.Wrapf(err, "failed to copy headers to %s", includeDest)
	}
	PrintSubtask("headers installed to " + includeDest)
	return nil
}

func distOne(ctx *BuildContext, installDir string) error {
	libPath := ctx.LibPath()
	if !io2.FileExists(libPath) {
		return eris.Errorf("library not found at %s, run `v8b build` first", libPath)
	}

	destDir := filepath.Join(installDir, "lib", string(ctx.OS)+"-"+string(ctx.CPU)+"-"+string(ctx.Type))
	destLib := filepath.Join(destDir, GetMonolithLibFileName(ctx.OS))
	io2.Mkdirp(destDir)

	thin, err := IsThinArchive(libPath)
	if err != nil {
		return err
	}

	PrintTask("Installing " + GetMonolithLibFileName(ctx.OS) + " for " + string(ctx.CPU) + "...")
	if thin {
		PrintSubtask("thin archive detected, repacking")
		if err := RepackThinArchive(ctx.Tunnel, libPath, destLib); err != nil {
			return err
		}
	} else if err := io2.CopyFile(libPath, destLib); err != nil {
		return eris.Wrapf(err, "failed to copy %s", libPath)
	}

	size, err := io2.FileSize(destLib)
	if err != nil {
		return eris.Wrapf(err, "failed to stat %s", destLib)
	}
	PrintSubtask(formatLibLine(destLib, size))
	return nil
}

var thinArchiveMagic = []byte("!<thin>\n")

// IsThinArchive reports whether the file starts with the thin archive
// magic. Thin archives reference object files instead of containing
// them, so they cannot be distributed as-is.
func IsThinArchive(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, eris.Wrapf(err, "could not open %s", path)
	}
	defer f.Close()

	magic := make([]byte, len(thinArchiveMagic))
	n, err := f.Read(magic)
	if err != nil || n < len(magic) {
		return false, nil
	}
	return bytes.Equal(magic, thinArchiveMagic), nil
}

// RepackThinArchive writes a self-contained copy of the thin archive at
// src to dst using an ar MRI script. addlib pulls every member into the
// new archive by content. MRI scripts have no quoting syntax, so
// neither path may contain whitespace.
func RepackThinArchive(t *j9.Tunnel, src, dst string) error {
	if strings.ContainsAny(src+dst, " \t") {
		return eris.Errorf("cannot repack %s: ar MRI scripts do not support paths with whitespace", src)
	}
	script, err := os.CreateTemp("", "v8b_mri")
	if err != nil {
		return eris.Wrap(err, "failed to create MRI script file")
	}
	defer os.Remove(script.Name())

	mri := "create " + dst + "\naddlib " + src + "\nsave\nend\n"
	if _, err := script.WriteString(mri); err != nil {
		script.Close()
		return eris.Wrap(err, "failed to write MRI script")
	}
	if err := script.Close(); err != nil {
		return eris.Wrap(err, "failed to write MRI script")
	}

	t.Shell(&j9.ShellOpt{Cmd: "ar -M < '" + script.Name() + "'"})
	if !io2.FileExists(dst) {
		return eris.Errorf("ar did not produce %s", dst)
	}
	return nil
}

func formatLibLine(path string, size int64) string {
	return fmt.Sprintf("%s (%.1f MB)", path, float64(size)/(1024*1024))
}
