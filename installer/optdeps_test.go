package installer

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyOptionalDependencies(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require extra privileges on windows")
	}

	setup := func(t *testing.T) (source, dest string) {
		source = t.TempDir()
		dest = t.TempDir()

		libdir := filepath.Join(source, "opt", "lucid64", "somelib")
		require.NoError(t, os.MkdirAll(filepath.Join(libdir, "lib"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(libdir, "lib", "libsome.so.1"), []byte("elf"), 0o644))
		require.NoError(t, os.Symlink("libsome.so.1", filepath.Join(libdir, "lib", "libsome.so")))

		return source, dest
	}

	t.Run("copies entries preserving symlinks", func(t *testing.T) {
		source, dest := setup(t)

		require.NoError(t, CopyOptionalDependencies("lucid64", source, WithInstallDir(dest)))

		content, err := os.ReadFile(filepath.Join(dest, "somelib", "lib", "libsome.so.1"))
		require.NoError(t, err)
		assert.Equal(t, "elf", string(content))

		target, err := os.Readlink(filepath.Join(dest, "somelib", "lib", "libsome.so"))
		require.NoError(t, err)
		assert.Equal(t, "libsome.so.1", target)
	})

	t.Run("never overwrites existing entries", func(t *testing.T) {
		source, dest := setup(t)

		require.NoError(t, os.MkdirAll(filepath.Join(dest, "somelib"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dest, "somelib", "marker"), []byte("original"), 0o644))

		require.NoError(t, CopyOptionalDependencies("lucid64", source, WithInstallDir(dest)))

		content, err := os.ReadFile(filepath.Join(dest, "somelib", "marker"))
		require.NoError(t, err)
		assert.Equal(t, "original", string(content))

		assert.NoFileExists(t, filepath.Join(dest, "somelib", "lib", "libsome.so.1"))
	})

	t.Run("missing source tree is a no-op", func(t *testing.T) {
		dest := t.TempDir()

		require.NoError(t, CopyOptionalDependencies("lucid64", t.TempDir(), WithInstallDir(dest)))

		entries, err := os.ReadDir(dest)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("other platforms are ignored", func(t *testing.T) {
		source, dest := setup(t)

		require.NoError(t, CopyOptionalDependencies("osx", source, WithInstallDir(dest)))

		entries, err := os.ReadDir(dest)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
