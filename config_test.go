package v8b

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v8build.yml")
	content := `version: 14.2.231.17
workDir: /srv/v8
installDir: dist
sccache: false
depotToolsBundleSha256: a8b58f85c9fb767acf9b4f6d4fca81bd78581d01bbada354af58d6f224e866de
gnArgs:
  v8_enable_i18n_support: "true"
  symbol_level: "2"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Version != "14.2.231.17" {
		t.Errorf("version: got %s", cfg.Version)
	}
	if cfg.WorkDir != "/srv/v8" {
		t.Errorf("workDir: got %s", cfg.WorkDir)
	}
	if cfg.InstallDir != "dist" {
		t.Errorf("installDir: got %s", cfg.InstallDir)
	}
	if cfg.Sccache == nil || *cfg.Sccache {
		t.Errorf("sccache: got %v", cfg.Sccache)
	}
	if len(cfg.GNArgs) != 2 || cfg.GNArgs["symbol_level"] != "2" {
		t.Errorf("gnArgs: got %v", cfg.GNArgs)
	}
	if cfg.DepotToolsBundleSha256 != "a8b58f85c9fb767acf9b4f6d4fca81bd78581d01bbada354af58d6f224e866de" {
		t.Errorf("bundle sha: got %s", cfg.DepotToolsBundleSha256)
	}
}

func TestLoadConfigMissingDefault(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), DefaultConfigFileName), false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Version != "" || cfg.Sccache != nil {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"), true); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("version: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path, true); err == nil {
		t.Error("expected parse error")
	}
}

func TestResolveVersion(t *testing.T) {
	t.Setenv("V8_VERSION", "13.0.245.1")
	cfg := &Config{}
	if got := cfg.ResolveVersion(); got != "13.0.245.1" {
		t.Errorf("env fallback: got %s", got)
	}

	cfg.Version = "14.2.231.17"
	if got := cfg.ResolveVersion(); got != "14.2.231.17" {
		t.Errorf("config wins: got %s", got)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.ResolveWorkDir(); got != "." {
		t.Errorf("workDir: got %s", got)
	}
	if got := cfg.ResolveDepotToolsGitURL(); got != DefaultDepotToolsGitURL {
		t.Errorf("gitURL: got %s", got)
	}
	if got := cfg.ResolveDepotToolsBundleURL(); got != DefaultDepotToolsBundleURL {
		t.Errorf("bundleURL: got %s", got)
	}
}
