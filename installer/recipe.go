package installer

import (
	"context"
	"fmt"

	"github.com/aexvir/bootstrap"
	"github.com/aexvir/bootstrap/download"
)

// Recipe describes the install of a single tool: where to get it, how
// to unpack it, how to find the resulting executable and whether to
// register it on the search path. The probe → download → extract →
// build → locate → register sequence itself is implemented once by
// [Install].
type Recipe struct {
	// Command is the executable probed on the search path to decide
	// whether the tool is already installed; empty disables probing.
	Command string

	// URL points at the archive to download. It can reference the
	// fields of Template, e.g. "https://cmake.org/files/v{{.Version}}/{{.Package}}".
	URL string

	// Template carries the values URL is resolved against.
	Template Template

	// Cookie is attached to the download request, for vendors that
	// gate downloads behind a license-acceptance cookie.
	Cookie string

	// DownloadDir is where the archive is fetched into.
	DownloadDir string

	// InstallDir is where the archive gets extracted.
	InstallDir string

	// Build is an optional post-extract step, e.g. a configure + make
	// sequence for tools distributed as source.
	Build func(ctx context.Context) error

	// Locate resolves the tool's executable inside the install
	// directory after extraction. Optional for tools whose build step
	// installs the executable itself.
	Locate func(installDir string) (string, error)

	// Register adds the located executable to the search path.
	// Installs into the current directory are never registered.
	Register bool
}

// Install executes a recipe against the given environment and returns
// the location of the tool's executable, when the recipe can resolve
// one. Failures of any step propagate immediately; there is no retry
// and no rollback of already performed steps.
func Install(ctx context.Context, env *bootstrap.Env, rec Recipe) (string, error) {
	if rec.Command != "" && env.Installed(rec.Command) {
		path, _ := env.Which(rec.Command)
		return path, nil
	}

	bootstrap.LogStep(fmt.Sprintf("installing %s", rec.Template.Package))

	url, err := rec.Template.Resolve(rec.URL)
	if err != nil {
		return "", fmt.Errorf("failed to resolve URL: %w", err)
	}

	var dlopts []download.Option
	if rec.Cookie != "" {
		dlopts = append(dlopts, download.WithCookie(rec.Cookie))
	}

	file, err := download.New(rec.DownloadDir, dlopts...).Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rec.Template.Package, err)
	}
	defer file.Close()

	if err := Extract(file.Path(), rec.InstallDir); err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", rec.Template.Package, err)
	}

	if rec.Build != nil {
		if err := rec.Build(ctx); err != nil {
			return "", fmt.Errorf("failed to build %s: %w", rec.Template.Package, err)
		}
	}

	var path string
	if rec.Locate != nil {
		path, err = rec.Locate(rec.InstallDir)
		if err != nil {
			return "", fmt.Errorf("failed to locate %s executable: %w", rec.Template.Name, err)
		}
	}

	if rec.Register && path != "" && rec.InstallDir != "." {
		if err := env.AddToPath(ctx, path); err != nil {
			return "", err
		}
	}

	return path, nil
}
