package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aexvir/bootstrap"
)

const f90cacheVersion = "0.96"

// F90cache downloads, builds and installs f90cache, a compiler cache
// for Fortran. The source archive is extracted into a scratch
// directory where a configure + make sequence is run; the scratch
// directory is removed on every exit path, including a failing build.
// A no-op when f90cache is already installed.
func F90cache(ctx context.Context, env *bootstrap.Env, opts ...Option) error {
	conf := newconf(opts...)

	if env.Installed("f90cache") {
		return nil
	}

	scratch, err := os.MkdirTemp("", "f90cache")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	name := "f90cache-" + f90cacheVersion

	rec := Recipe{
		URL:         "http://people.irisa.fr/Edouard.Canot/f90cache/{{.Package}}",
		Template:    newTemplate("f90cache", name+".tar.bz2", f90cacheVersion),
		DownloadDir: conf.downloadDir,
		InstallDir:  scratch,
		Build: func(ctx context.Context) error {
			srcdir := filepath.Join(scratch, name)

			if err := bootstrap.Run(ctx, "sh", bootstrap.WithArgs("configure"), bootstrap.WithDir(srcdir)); err != nil {
				return err
			}

			return bootstrap.Run(ctx, "make", bootstrap.WithArgs("all", "install"), bootstrap.WithDir(srcdir))
		},
	}

	_, err = Install(ctx, env, rec)
	return err
}
