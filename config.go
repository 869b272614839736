package v8b

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFileName = "v8build.yml"

// Config is the optional project file. Flags and environment variables
// override whatever is set here.
type Config struct {
	// V8 version tag to check out, e.g. 14.2.231.17.
	Version string `yaml:"version,omitempty"`
	// Directory holding depot_tools and the v8 checkout. Defaults to the
	// current directory.
	WorkDir string `yaml:"workDir,omitempty"`
	// Destination for `v8b dist`.
	InstallDir string `yaml:"installDir,omitempty"`
	// Extra GN args appended after the monolith defaults. Values are raw
	// GN expressions, so strings need their own quotes.
	GNArgs map[string]string `yaml:"gnArgs,omitempty"`
	// Force sccache on/off instead of probing PATH.
	Sccache *bool `yaml:"sccache,omitempty"`
	// Override the depot_tools sources.
	DepotToolsGitURL    string `yaml:"depotToolsGitURL,omitempty"`
	DepotToolsBundleURL string `yaml:"depotToolsBundleURL,omitempty"`
	// Optional sha256 of the bundle; empty skips verification since the
	// bundle at the default URL is rebuilt continuously.
	DepotToolsBundleSha256 string `yaml:"depotToolsBundleSha256,omitempty"`
}

// LoadConfig reads the yaml config at path. A missing file is only an
// error when the path was set explicitly; the default path just yields
// an empty config.
func LoadConfig(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, eris.Wrapf(err, "could not read config file %s", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrapf(err, "failed to parse %s", path)
	}
	return &cfg, nil
}

// ResolveVersion returns the version from the config, falling back to
// the V8_VERSION environment variable.
func (c *Config) ResolveVersion() string {
	if c.Version != "" {
		return c.Version
	}
	return os.Getenv("V8_VERSION")
}

func (c *Config) ResolveWorkDir() string {
	if c.WorkDir != "" {
		return c.WorkDir
	}
	return "."
}

func (c *Config) ResolveDepotToolsGitURL() string {
	if c.DepotToolsGitURL != "" {
		return c.DepotToolsGitURL
	}
	return DefaultDepotToolsGitURL
}

func (c *Config) ResolveDepotToolsBundleURL() string {
	if c.DepotToolsBundleURL != "" {
		return c.DepotToolsBundleURL
	}
	return DefaultDepotToolsBundleURL
}
