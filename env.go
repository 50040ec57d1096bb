package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultBinDir is the conventional global binary directory used for
// symlinks on unix platforms.
const defaultBinDir = "/usr/local/bin"

// Env holds the executable search path as an explicit value that gets
// threaded through provisioning operations, instead of every helper
// reading and mutating the process environment behind the caller's back.
//
// An Env constructed via [System] stays in sync with the process
// environment: every mutation is written back to PATH so subprocesses
// spawned later observe the updated search path.
type Env struct {
	paths  []string
	binDir string
	sync   bool
}

type EnvOption func(e *Env)

// WithBinDir overrides the global binary directory where symlinks to
// installed executables are created.
func WithBinDir(dir string) EnvOption {
	return func(e *Env) {
		e.binDir = dir
	}
}

// System returns an Env seeded from the process PATH.
// Mutations are mirrored back into the process environment.
func System(opts ...EnvOption) *Env {
	env := Env{
		paths:  filepath.SplitList(os.Getenv("PATH")),
		binDir: defaultBinDir,
		sync:   true,
	}

	for _, opt := range opts {
		opt(&env)
	}

	return &env
}

// NewEnv returns a detached Env containing only the given directories.
// It never touches the process environment, which makes it suitable for
// tests and dry runs.
func NewEnv(paths []string, opts ...EnvOption) *Env {
	env := Env{
		paths:  append([]string(nil), paths...),
		binDir: defaultBinDir,
	}

	for _, opt := range opts {
		opt(&env)
	}

	return &env
}

// Paths returns a copy of the current search path entries, in order.
func (e *Env) Paths() []string {
	return append([]string(nil), e.paths...)
}

// Which searches the path entries for an executable with the given name
// and returns its location. The platform executable suffix is applied
// automatically. Absence is a normal result, not an error.
func (e *Env) Which(name string) (string, bool) {
	filename := name + exeSuffix()

	for _, dir := range e.paths {
		candidate := filepath.Join(strings.Trim(dir, `"`), filename)

		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}

		if !IsWindows() && info.Mode()&0o111 == 0 {
			continue
		}

		return candidate, true
	}

	return "", false
}

// Installed returns true if an executable with the given name is found
// on the search path, reporting the location when it is.
func (e *Env) Installed(name string) bool {
	path, ok := e.Which(name)
	if ok {
		LogDetail(fmt.Sprintf("%s is installed in %s", name, path))
	}
	return ok
}

func exeSuffix() string {
	if IsWindows() {
		return ".exe"
	}
	return ""
}
