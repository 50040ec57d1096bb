package installer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aexvir/bootstrap"
)

// CopyOptionalDependencies copies every entry under
// <sourceDir>/opt/<platformName> into the system installation
// directory, preserving symlinks. Entries that already exist at the
// destination are left untouched; a missing source tree is a silent
// no-op.
func CopyOptionalDependencies(platformName, sourceDir string, opts ...Option) error {
	conf := newconf(opts...)

	source := filepath.Join(sourceDir, "opt")
	if _, err := os.Stat(source); err != nil {
		return nil
	}

	entries, err := filepath.Glob(filepath.Join(source, platformName, "*"))
	if err != nil {
		return err
	}

	for _, entry := range entries {
		dest := filepath.Join(conf.installDir, filepath.Base(entry))

		if _, err := os.Lstat(dest); err == nil {
			continue
		}

		bootstrap.LogDetail(fmt.Sprintf("copying %s to %s", entry, dest))

		if err := copyTree(entry, dest); err != nil {
			return fmt.Errorf("failed to copy %s: %w", entry, err)
		}
	}

	return nil
}

// copyTree recursively copies src to dest, recreating symlinks instead
// of following them.
func copyTree(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		linked, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(linked, dest)

	case info.IsDir():
		if err := os.MkdirAll(dest, info.Mode().Perm()); err != nil {
			return err
		}

		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dest, entry.Name())); err != nil {
				return err
			}
		}
		return nil

	default:
		return copyFile(src, dest, info.Mode().Perm())
	}
}

func copyFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
