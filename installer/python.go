package installer

import (
	"context"
	"fmt"
	"strings"

	"github.com/aexvir/bootstrap"
	"github.com/aexvir/bootstrap/download"
)

const getPipURL = "https://bootstrap.pypa.io/get-pip.py"

// ModuleExists reports whether the given python module can be
// imported. Absence is a normal result driving skip decisions, not an
// error.
func ModuleExists(ctx context.Context, module string) bool {
	err := bootstrap.Run(
		ctx,
		"python",
		bootstrap.WithArgs("-c", "import "+module),
		bootstrap.WithoutNoise(),
	)
	return err == nil
}

// PythonPackage installs a python package using pip, bootstrapping pip
// itself first if it is missing. The spec may pin a version, e.g.
// "twisted==15.4.0".
//
// The package is considered installed when its module is importable;
// the module probed is the package name before any version qualifier,
// unless overridden via [WithTestModule].
func PythonPackage(ctx context.Context, env *bootstrap.Env, spec string, opts ...Option) error {
	conf := newconf(opts...)

	module := conf.testModule
	if module == "" {
		module = strings.SplitN(spec, "==", 2)[0]
	}

	if ModuleExists(ctx, module) {
		return nil
	}

	if !ModuleExists(ctx, "pip") {
		if err := bootstrapPip(ctx, conf.downloadDir); err != nil {
			return err
		}
	}

	bootstrap.LogStep(fmt.Sprintf("installing %s", spec))
	return bootstrap.Run(ctx, "pip", bootstrap.WithArgs("install", spec))
}

// bootstrapPip provisions pip via the official one-off install script.
func bootstrapPip(ctx context.Context, downloadDir string) error {
	bootstrap.LogStep("bootstrapping pip")

	script, err := download.New(downloadDir).Fetch(ctx, getPipURL)
	if err != nil {
		return fmt.Errorf("failed to download get-pip.py: %w", err)
	}
	defer script.Close()

	return bootstrap.Run(ctx, "python", bootstrap.WithArgs(script.Path()))
}
