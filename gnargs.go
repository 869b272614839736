package v8b

import (
	"sort"
	"strconv"
	"strings"
)

// GNArgs collects GN build arguments in insertion order and renders them
// as the single space-separated string passed to `gn gen --args=`.
type GNArgs struct {
	items []string
}

func (a *GNArgs) Bool(key string, val bool) {
	a.items = append(a.items, key+"="+strconv.FormatBool(val))
}

func (a *GNArgs) Int(key string, val int) {
	a.items = append(a.items, key+"="+strconv.Itoa(val))
}

// Str renders a GN string value. GN strings are always double-quoted.
func (a *GNArgs) Str(key string, val string) {
	a.items = append(a.items, key+`="`+val+`"`)
}

// Raw appends a pre-formed key=value token.
func (a *GNArgs) Raw(kv string) {
	a.items = append(a.items, kv)
}

func (a *GNArgs) List() []string {
	return a.items
}

func (a *GNArgs) String() string {
	return strings.Join(a.items, " ")
}

// BuildSettings is the resolved configuration for one gn/ninja run.
type BuildSettings struct {
	OS   OSEnum
	CPU  ArchEnum
	Type BuildTypeEnum

	// Absolute path of the downloaded Chromium clang, empty to use the
	// default toolchain.
	ClangBasePath string
	// Compiler launcher such as sccache, empty to compile directly.
	CCWrapper string
	// Extra key=value args from config or CLI, applied last so they can
	// override the monolith defaults.
	ExtraArgs []string
}

func (s *BuildSettings) IsDebug() bool {
	return s.Type == BuildDebug
}

// MonolithGNArgs produces the GN argument set for a static embeddable
// V8 library.
func MonolithGNArgs(s *BuildSettings) *GNArgs {
	a := &GNArgs{}
	a.Bool("is_debug", s.IsDebug())
	a.Str("target_cpu", string(s.CPU))
	a.Str("v8_target_cpu", string(s.CPU))
	a.Bool("is_component_build", false)
	a.Bool("v8_monolithic", true)
	a.Bool("v8_use_external_startup_data", false)
	a.Bool("treat_warnings_as_errors", false)
	a.Bool("v8_enable_sandbox", false)
	a.Bool("v8_enable_pointer_compression", false)
	a.Bool("v8_enable_i18n_support", false)
	a.Bool("v8_enable_temporal_support", false)
	a.Bool("enable_rust", false)
	a.Bool("clang_use_chrome_plugins", false)
	if s.IsDebug() {
		a.Int("symbol_level", 1)
	} else {
		a.Int("symbol_level", 0)
	}
	a.Bool("v8_enable_webassembly", true)
	a.Bool("is_clang", true)
	a.Bool("use_custom_libcxx", false)

	if s.ClangBasePath != "" {
		a.Str("clang_base_path", s.ClangBasePath)
	}

	if s.OS == OSLinux {
		// The Debian sysroot ships a libstdc++ too old for C++20; rely on
		// the toolchain's own headers instead.
		a.Bool("use_sysroot", false)
	}

	if s.CCWrapper != "" {
		a.Str("cc_wrapper", s.CCWrapper)
	}

	for _, kv := range s.ExtraArgs {
		a.Raw(kv)
	}
	return a
}

// SortedGNArgs turns a config-file arg map into deterministic key=value
// tokens. Values are taken verbatim, so string values must include their
// own quotes.
func SortedGNArgs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, k+"="+m[k])
	}
	return args
}
