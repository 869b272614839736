package v8b

import (
	"os"
	"strings"

	"github.com/mgenware/j9/v3"
	"github.com/rotisserie/eris"

	"github.com/mgenware/v8-builder/fetch"
	"github.com/mgenware/v8-builder/io2"
)

type CheckoutOptions struct {
	Root    string
	Version string

	GitURL       string
	BundleURL    string
	BundleSha256 string
	// Download the depot_tools bundle instead of cloning it with git.
	UseBundle bool
}

// RunCheckout brings the work dir to a buildable state: depot_tools,
// the v8 source tree at the requested version, synced dependencies and
// the compiler BUILD.gn patch applied.
func RunCheckout(t *j9.Tunnel, opt *CheckoutOptions) error {
	if opt.Version == "" {
		return eris.New("v8 version not set, use --version, the config file, or V8_VERSION")
	}

	root := io2.ResolvePath(opt.Root)
	hostOS, err := DetectTargetOS()
	if err != nil {
		return err
	}
	depot := NewDepotTools(GetDepotToolsDir(root), hostOS)

	if depot.Exists() {
		PrintSubtask("depot_tools already exists, skipping clone")
	} else if opt.UseBundle {
		PrintTask("Downloading depot_tools bundle...")
		err := fetch.FetchAndExtract(&fetch.Spec{
			URL:    opt.bundleURL(),
			Dest:   depot.Dir,
			Sha256: opt.BundleSha256,
			// The zip carries no permissions, the wrappers need them back.
			MarkExec: []string{"fetch", "gclient", "gn", "ninja", "cipd"},
		})
		if err != nil {
			return err
		}
	} else {
		PrintTask("Cloning depot_tools...")
		t.Spawn(&j9.SpawnOpt{
			Name: "git",
			Args: []string{"clone", opt.gitURL(), depot.Dir},
		})
	}

	v8Dir := GetV8Dir(root)
	if io2.DirectoryExists(v8Dir) {
		PrintSubtask("v8 already exists, skipping fetch")
	} else {
		PrintTask("Fetching V8...")
		t.CD(root)
		t.Spawn(&j9.SpawnOpt{
			Name: depot.Cmd("fetch"),
			Args: []string{"v8"},
			Env:  depot.Env(),
		})
	}

	PrintTask("Checking out V8 version " + opt.Version + "...")
	t.CD(v8Dir)
	t.Spawn(&j9.SpawnOpt{
		Name: "git",
		Args: []string{"checkout", opt.Version},
	})

	PrintTask("Syncing dependencies...")
	t.Spawn(&j9.SpawnOpt{
		Name: depot.Cmd("gclient"),
		Args: []string{"sync", "-D"},
		Env:  depot.Env(),
	})

	if err := PatchCrelFlag(v8Dir); err != nil {
		return err
	}

	PrintTask("V8 checkout complete")
	return nil
}

func (opt *CheckoutOptions) gitURL() string {
	if opt.GitURL != "" {
		return opt.GitURL
	}
	return DefaultDepotToolsGitURL
}

func (opt *CheckoutOptions) bundleURL() string {
	if opt.BundleURL != "" {
		return opt.BundleURL
	}
	return DefaultDepotToolsBundleURL
}

// The assembler flag V8 adds here breaks linking with older toolchains,
// so it is stripped from the checkout after every sync.
const crelFlagLine = `      cflags += [ "-Wa,--crel,--allow-experimental-crel" ]` + "\n"

// PatchCrelFlag removes the --allow-experimental-crel assembler flag
// from v8/build/config/compiler/BUILD.gn. A missing file or an already
// patched checkout is not an error.
func PatchCrelFlag(v8Dir string) error {
	buildGN := GetBuildGNPath(v8Dir)
	if !io2.FileExists(buildGN) {
		PrintError(buildGN + " not found, skipping crel patch")
		return nil
	}

	data, err := os.ReadFile(buildGN)
	if err != nil {
		return eris.Wrapf(err, "could not read %s", buildGN)
	}

	patched := strings.ReplaceAll(string(data), crelFlagLine, "")
	if patched == string(data) {
		PrintSubtask("crel flag not found or already removed")
		return nil
	}

	if err := os.WriteFile(buildGN, []byte(patched), 0644); err != nil {
		return eris.Wrapf(err, "could not write %s", buildGN)
	}
	PrintSubtask("patched BUILD.gn to remove crel flag")
	return nil
}
