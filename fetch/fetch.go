// Package fetch downloads and unpacks toolchain archives, such as the
// depot_tools bundle used when git is not available.
package fetch

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/ulikunitz/xz"
)

type Spec struct {
	URL  string
	Dest string
	// Optional sha256 of the archive; empty skips verification.
	Sha256 string
	// Leading path elements to drop from every archive entry.
	Strip int
	// Files to mark executable after extraction, relative to Dest.
	// Needed for .zip archives, which carry no permissions.
	MarkExec []string
}

var client = &http.Client{
	Timeout: time.Minute * 30,
}

// FetchAndExtract downloads spec.URL into a temp file, verifies its
// checksum when one is given and unpacks it into spec.Dest.
func FetchAndExtract(spec *Spec) error {
	arPath, err := download(spec)
	if err != nil {
		return err
	}
	defer os.Remove(arPath)

	if err := extract(arPath, spec); err != nil {
		return err
	}

	if runtime.GOOS != "windows" {
		for _, rel := range spec.MarkExec {
			binPath := filepath.Join(spec.Dest, rel)
			fi, err := os.Stat(binPath)
			if os.IsNotExist(err) {
				continue
			}
			if err != nil {
				return eris.Wrapf(err, "failed to read permissions for %s", binPath)
			}
			if err := os.Chmod(binPath, fi.Mode()|0700); err != nil {
				return eris.Wrapf(err, "failed to mark %s as executable", binPath)
			}
		}
	}
	return nil
}

func newProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}
	return progressbar.DefaultBytes(length, desc)
}

func download(spec *Spec) (string, error) {
	arHandle, err := os.CreateTemp("", "v8b_dl")
	if err != nil {
		return "", eris.Wrap(err, "failed to create download temp file")
	}
	defer arHandle.Close()

	resp, err := client.Get(spec.URL)
	if err != nil {
		os.Remove(arHandle.Name())
		return "", eris.Wrapf(err, "failed to start download for %s", spec.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		os.Remove(arHandle.Name())
		return "", eris.Errorf("download of %s failed with status %s", spec.URL, resp.Status)
	}

	hash := sha256.New()
	bar := newProgressBar(resp.ContentLength, "     download")
	if _, err := io.Copy(io.MultiWriter(arHandle, hash, bar), resp.Body); err != nil {
		os.Remove(arHandle.Name())
		return "", eris.Wrapf(err, "failed during download of %s", spec.URL)
	}
	bar.Finish()

	if spec.Sha256 != "" {
		digest := hex.EncodeToString(hash.Sum(nil))
		if digest != spec.Sha256 {
			os.Remove(arHandle.Name())
			return "", eris.Errorf("checksum mismatch for %s: got %s", spec.URL, digest)
		}
	}
	return arHandle.Name(), nil
}

func extract(arPath string, spec *Spec) error {
	f, err := os.Open(arPath)
	if err != nil {
		return eris.Wrapf(err, "failed to open archive %s", arPath)
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(spec.URL, ".zip"):
		return extractZip(f, spec)
	case strings.HasSuffix(spec.URL, ".tar.gz"), strings.HasSuffix(spec.URL, ".tgz"):
		reader, err := gzip.NewReader(f)
		if err != nil {
			return eris.Wrap(err, "failed to open gzip stream")
		}
		defer reader.Close()
		return extractTar(reader, spec)
	case strings.HasSuffix(spec.URL, ".tar.xz"):
		reader, err := xz.NewReader(f)
		if err != nil {
			return eris.Wrap(err, "failed to open xz stream")
		}
		return extractTar(reader, spec)
	default:
		return eris.Errorf("archive format of %s not supported", spec.URL)
	}
}

// entryDest strips spec.Strip path elements and resolves the entry
// inside spec.Dest. Entries above the destination are rejected.
func entryDest(name string, spec *Spec) (string, error) {
	parts := strings.Split(filepath.Clean(filepath.FromSlash(name)), string(filepath.Separator))
	if len(parts) <= spec.Strip {
		return "", nil
	}
	rel := strings.Join(parts[spec.Strip:], string(filepath.Separator))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", eris.Errorf("archive entry %s escapes destination", name)
	}
	return filepath.Join(spec.Dest, rel), nil
}

func writeEntry(r io.Reader, dest string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return eris.Wrapf(err, "failed to create directory %s", filepath.Dir(dest))
	}
	handle, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return eris.Wrapf(err, "failed to create file %s", dest)
	}
	defer handle.Close()

	if _, err := io.Copy(handle, r); err != nil {
		return eris.Wrapf(err, "failed to write extracted file %s", dest)
	}
	return handle.Close()
}

func extractZip(f *os.File, spec *Spec) error {
	stat, err := f.Stat()
	if err != nil {
		return err
	}
	archive, err := zip.NewReader(f, stat.Size())
	if err != nil {
		return eris.Wrap(err, "failed to open zip archive")
	}

	for _, item := range archive.File {
		if strings.HasSuffix(item.Name, "/") {
			continue
		}
		dest, err := entryDest(item.Name, spec)
		if err != nil {
			return err
		}
		if dest == "" {
			continue
		}

		itemHandle, err := item.Open()
		if err != nil {
			return eris.Wrapf(err, "failed to open archive entry %s", item.Name)
		}
		err = writeEntry(itemHandle, dest, 0644)
		itemHandle.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extractTar(r io.Reader, spec *Spec) error {
	archive := tar.NewReader(r)
	for {
		item, err := archive.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return eris.Wrap(err, "failed to read archive entry")
		}

		fi := item.FileInfo()
		if fi.IsDir() {
			continue
		}
		dest, err := entryDest(item.Name, spec)
		if err != nil {
			return err
		}
		if dest == "" {
			continue
		}

		if item.Typeflag == tar.TypeSymlink {
			if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				return eris.Wrapf(err, "failed to create directory %s", filepath.Dir(dest))
			}
			os.Remove(dest)
			if err := os.Symlink(item.Linkname, dest); err != nil {
				return eris.Wrapf(err, "failed to create symlink %s pointing to %s", dest, item.Linkname)
			}
			continue
		}

		if err := writeEntry(archive, dest, fi.Mode()); err != nil {
			return err
		}
	}
}
