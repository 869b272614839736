package v8b

import (
	"os"
	"path/filepath"

	"github.com/mgenware/v8-builder/io2"
)

// DepotTools resolves the depot_tools wrapper commands and the
// environment they need. On Windows the .bat wrappers are invoked by
// absolute path and the bundled toolchain download is disabled in favor
// of the locally installed Visual Studio.
type DepotTools struct {
	Dir string
	OS  OSEnum
}

func NewDepotTools(dir string, os OSEnum) *DepotTools {
	return &DepotTools{Dir: dir, OS: os}
}

func (d *DepotTools) Exists() bool {
	return io2.DirectoryExists(d.Dir) && !io2.IsDirEmpty(d.Dir)
}

// Cmd returns the invocation name for a depot_tools command such as
// fetch, gclient, gn or ninja.
func (d *DepotTools) Cmd(name string) string {
	if d.OS == OSWin {
		return filepath.Join(d.Dir, name+".bat")
	}
	return name
}

func (d *DepotTools) pathListSeparator() string {
	if d.OS == OSWin {
		return ";"
	}
	return ":"
}

// PathEnv is the PATH value with depot_tools prepended.
func (d *DepotTools) PathEnv(base string) string {
	return d.Dir + d.pathListSeparator() + base
}

// Env returns the environment additions for running depot_tools
// commands.
func (d *DepotTools) Env() []string {
	env := []string{"PATH=" + d.PathEnv(os.Getenv("PATH"))}
	if d.OS == OSWin {
		env = append(env, "DEPOT_TOOLS_WIN_TOOLCHAIN=0")
	}
	return env
}
