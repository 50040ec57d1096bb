package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"

	"golang.org/x/mod/semver"

	"github.com/aexvir/bootstrap"
)

// cmake packages are named cmake-<major.minor>.<patch>-<platform>.<ext>,
// e.g. cmake-3.10.2-Linux-x86_64.tar.gz
var cmakePackagePattern = regexp.MustCompile(`^(cmake-(\d+\.\d+)\.(\d+).*-[^.]+)\..*$`)

// releases older than this are not published under the files/v<major.minor>
// layout on cmake.org
const cmakeOldestSupported = "v2.8.0"

const cmakeDownloadURL = "https://cmake.org/files/v{{.Version}}/{{.Package}}"

// CMake downloads and installs the CMake package with the given name,
// e.g. "cmake-3.10.2-Linux-x86_64.tar.gz", and returns the location of
// the cmake executable.
//
// The install is skipped when cmake is already present on the search
// path, unless [WithoutInstalledCheck] is passed. A package name that
// doesn't match the expected naming fails before anything is
// downloaded.
func CMake(ctx context.Context, env *bootstrap.Env, pkg string, opts ...Option) (string, error) {
	conf := newconf(opts...)

	if conf.checkInstalled && env.Installed("cmake") {
		path, _ := env.Which("cmake")
		return path, nil
	}

	dir, version, patch, err := parseCMakePackage(pkg)
	if err != nil {
		return "", err
	}

	if release := "v" + version + "." + patch; semver.Compare(release, cmakeOldestSupported) < 0 {
		return "", fmt.Errorf("unsupported cmake release %s: only %s and newer are published under files/v<version>", release, cmakeOldestSupported)
	}

	template := newTemplate("cmake", pkg, version)
	template.Patch = patch

	rec := Recipe{
		URL:         cmakeDownloadURL,
		Template:    template,
		DownloadDir: conf.downloadDir,
		InstallDir:  conf.installDir,
		Locate: func(installDir string) (string, error) {
			root := filepath.Join(installDir, dir)

			// on darwin the executable lives inside the application bundle
			if runtime.GOOS == "darwin" {
				matches, err := filepath.Glob(filepath.Join(root, "CMake*.app", "Contents"))
				if err != nil || len(matches) == 0 {
					return "", fmt.Errorf("no application bundle found under %s", root)
				}
				root = matches[0]
			}

			return filepath.Join(root, "bin", "cmake"), nil
		},
		Register: true,
	}

	return Install(ctx, env, rec)
}

// parseCMakePackage splits a cmake package name into the directory the
// archive extracts to, the major.minor version and the patch component.
func parseCMakePackage(pkg string) (dir, version, patch string, err error) {
	groups := cmakePackagePattern.FindStringSubmatch(pkg)
	if groups == nil {
		return "", "", "", fmt.Errorf("invalid cmake package name: %s", pkg)
	}

	return groups[1], groups[2], groups[3], nil
}
