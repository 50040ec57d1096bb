package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aexvir/bootstrap"
)

// PackageFile installs an OS X .pkg file against the filesystem root.
// Setting allowUntrusted relaxes the certificate trust check, for
// packages signed with expired certificates.
func PackageFile(ctx context.Context, path string, allowUntrusted bool) error {
	bootstrap.LogStep(fmt.Sprintf("installing %s", path))

	args := []string{"installer", "-pkg", path, "-target", "/"}
	if allowUntrusted {
		args = append(args, "-allowUntrusted")
	}

	return bootstrap.Run(ctx, "sudo", bootstrap.WithArgs(args...))
}

// DiskImage mounts a .dmg file at a scratch mount point, installs the
// first .pkg found inside and unmounts it again. The mount point is
// detached and removed on every exit path, including a failing
// install.
func DiskImage(ctx context.Context, path string, allowUntrusted bool) (err error) {
	mount, err := os.MkdirTemp("", "dmg")
	if err != nil {
		return fmt.Errorf("failed to create mount point: %w", err)
	}
	defer os.RemoveAll(mount)

	if err := bootstrap.Run(ctx, "hdiutil", bootstrap.WithArgs("attach", path, "-mountpoint", mount)); err != nil {
		return err
	}

	defer func() {
		detacherr := bootstrap.Run(ctx, "hdiutil", bootstrap.WithArgs("detach", mount))
		if err == nil {
			err = detacherr
		}
	}()

	pkgs, err := filepath.Glob(filepath.Join(mount, "*pkg"))
	if err != nil || len(pkgs) == 0 {
		return fmt.Errorf("no package found in %s", path)
	}

	return PackageFile(ctx, pkgs[0], allowUntrusted)
}
