package installer

import (
	"runtime"
	"strings"
	"text/template"
)

// Template contains fields used to resolve download locations and
// archive names for a specific tool.
type Template struct {
	// GOOS is the operating system target (e.g., "linux", "darwin", "windows")
	GOOS string
	// GOARCH is the architecture target (e.g., "amd64", "arm64")
	GOARCH string

	// Name of the executable the tool provides
	Name string
	// Package is the archive file name, e.g. "cmake-3.10.2-Linux-x86_64.tar.gz"
	Package string
	// Version is the tool version; for tools published under versioned
	// directories this is the major.minor component
	Version string
	// Patch is the patch component of the version, when applicable
	Patch string
}

func newTemplate(name, pkg, version string) Template {
	return Template{
		GOOS:    runtime.GOOS,
		GOARCH:  runtime.GOARCH,
		Name:    name,
		Package: pkg,
		Version: version,
	}
}

// Resolve executes the provided format string as a template with the Template's fields.
// It returns the resolved string and any error that occurred during template parsing or execution.
func (t Template) Resolve(format string) (string, error) {
	tmpl, err := template.New("tool").Parse(format)
	if err != nil {
		return "", err
	}

	var bld strings.Builder
	if err := tmpl.Execute(&bld, t); err != nil {
		return "", err
	}

	return bld.String(), nil
}

// MustResolve executes the provided format string as a template with the Template's fields.
// Panics if the template can't be resolved correctly.
func (t Template) MustResolve(format string) string {
	resolved, err := t.Resolve(format)
	if err != nil {
		panic(err)
	}
	return resolved
}
