package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type PathOption func(c *pathconf)

type pathconf struct {
	linkname string
	isdir    bool
}

// AsDirectory marks the path passed to [Env.AddToPath] as a directory
// that should be prepended to the search path, rather than an
// executable whose parent directory gets appended.
func AsDirectory() PathOption {
	return func(c *pathconf) {
		c.isdir = true
	}
}

// WithLinkName overrides the name of the symlink created in the global
// binary directory; by default the executable's own base name is used.
func WithLinkName(name string) PathOption {
	return func(c *pathconf) {
		c.linkname = name
	}
}

// AddToPath registers a freshly installed tool on the search path.
//
// Directories are inserted at the front of the path so they win over
// preexisting entries; executables get their parent directory appended
// at the end. On Windows the updated path is additionally persisted
// machine-wide. On unix platforms an executable is also symlinked into
// the global binary directory, which is created first if absent, so the
// tool stays invocable in shells that don't inherit this environment.
func (e *Env) AddToPath(ctx context.Context, path string, opts ...PathOption) error {
	var conf pathconf
	for _, opt := range opts {
		opt(&conf)
	}

	dir := path
	if !conf.isdir {
		dir = filepath.Dir(path)
	}

	LogStep(fmt.Sprintf("adding %s to PATH", dir))

	if conf.isdir {
		e.paths = append([]string{dir}, e.paths...)
	} else {
		e.paths = append(e.paths, dir)
	}

	joined := strings.Join(e.paths, string(os.PathListSeparator))

	if e.sync {
		if err := os.Setenv("PATH", joined); err != nil {
			return fmt.Errorf("failed to update PATH: %w", err)
		}
	}

	if IsWindows() {
		// setx /m persists the machine-wide value so it survives the
		// provisioning run; it requires an elevated shell
		if err := Run(ctx, "setx", WithArgs("/m", "PATH", joined), WithoutNoise()); err != nil {
			return fmt.Errorf("failed to persist PATH: %w", err)
		}
	}

	if IsWindows() || conf.isdir {
		return nil
	}

	// /usr/local/bin may not exist on a pristine OS X machine
	if err := os.MkdirAll(e.binDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", e.binDir, err)
	}

	linkname := conf.linkname
	if linkname == "" {
		linkname = filepath.Base(path)
	}

	return e.CreateSymlink(path, filepath.Join(e.binDir, linkname))
}

// CreateSymlink creates a symlink pointing at target, unless something
// already exists at linkname, in which case the conflict is reported
// and the filesystem is left untouched.
func (e *Env) CreateSymlink(target, linkname string) error {
	if _, err := os.Lstat(linkname); err == nil {
		LogDetail(fmt.Sprintf("file already exists: %s", linkname))
		return nil
	}

	LogDetail(fmt.Sprintf("creating a symlink from %s to %s", linkname, target))

	if err := os.Symlink(target, linkname); err != nil {
		return fmt.Errorf("failed to create symlink %s: %w", linkname, err)
	}

	return nil
}
