package fetch

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeArchiveFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func buildTarGz(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range entries {
		hdr := &tar.Header{
			Name: name,
			Mode: 0644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractTarGz(t *testing.T) {
	data := buildTarGz(t, map[string]string{
		"root/bin/gn":     "gn binary",
		"root/README.txt": "readme",
	})
	arPath := writeArchiveFile(t, "dt.tar.gz", data)

	dest := t.TempDir()
	spec := &Spec{URL: "https://example.com/dt.tar.gz", Dest: dest, Strip: 1}
	if err := extract(arPath, spec); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "bin", "gn"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "gn binary" {
		t.Errorf("got %q", string(got))
	}
	if _, err := os.Stat(filepath.Join(dest, "README.txt")); err != nil {
		t.Errorf("README.txt not extracted: %v", err)
	}
}

func TestExtractZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("fetch")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("#!/bin/sh\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	arPath := writeArchiveFile(t, "dt.zip", buf.Bytes())

	dest := t.TempDir()
	spec := &Spec{URL: "https://example.com/dt.zip", Dest: dest}
	if err := extract(arPath, spec); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "fetch"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "#!/bin/sh\n" {
		t.Errorf("got %q", string(got))
	}
}

func TestExtractUnknownFormat(t *testing.T) {
	arPath := writeArchiveFile(t, "dt.rar", []byte("data"))
	spec := &Spec{URL: "https://example.com/dt.rar", Dest: t.TempDir()}
	if err := extract(arPath, spec); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestDownload(t *testing.T) {
	payload := []byte("bundle bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	digest := sha256.Sum256(payload)
	spec := &Spec{
		URL:    srv.URL + "/dt.zip",
		Sha256: hex.EncodeToString(digest[:]),
	}
	path, err := download(spec)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(path)

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q", got)
	}
}

func TestDownloadChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tampered bytes"))
	}))
	defer srv.Close()

	spec := &Spec{
		URL:    srv.URL + "/dt.zip",
		Sha256: strings.Repeat("ab", 32),
	}
	if _, err := download(spec); err == nil {
		t.Fatal("expected checksum mismatch error")
	} else if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDownloadSkipsChecksumWhenUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bundle bytes"))
	}))
	defer srv.Close()

	path, err := download(&Spec{URL: srv.URL + "/dt.zip"})
	if err != nil {
		t.Fatal(err)
	}
	os.Remove(path)
}

func TestDownloadBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := download(&Spec{URL: srv.URL + "/dt.zip"}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestEntryDest(t *testing.T) {
	spec := &Spec{Dest: filepath.Join("out"), Strip: 1}

	dest, err := entryDest("root/bin/gn", spec)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("out", "bin", "gn"); dest != want {
		t.Errorf("got %s, want %s", dest, want)
	}

	// Fully stripped entries are skipped.
	dest, err = entryDest("root", spec)
	if err != nil {
		t.Fatal(err)
	}
	if dest != "" {
		t.Errorf("got %s, want empty", dest)
	}
}

func TestEntryDestRejectsEscape(t *testing.T) {
	spec := &Spec{Dest: "out"}
	if _, err := entryDest("../evil", spec); err == nil {
		t.Error("expected error for escaping entry")
	}
}
