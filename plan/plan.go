// Package plan loads declarative provisioning plans and turns them
// into executable bootstrap tasks.
//
// A plan is a YAML document listing the tools, python packages and
// optionally the build agent a machine should end up with:
//
//	tools:
//	  - name: cmake
//	    package: cmake-3.10.2-Linux-x86_64.tar.gz
//	  - name: maven
//	  - name: f90cache
//	python:
//	  - spec: twisted==15.4.0
//	agent:
//	  name: lucid64
package plan

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/aexvir/bootstrap"
	"github.com/aexvir/bootstrap/installer"
)

// Plan describes everything a machine should get provisioned with.
type Plan struct {
	Tools  []Tool    `yaml:"tools"`
	Python []Package `yaml:"python"`
	Agent  *Agent    `yaml:"agent"`
}

// Tool is a single third-party tool install.
type Tool struct {
	Name        string `yaml:"name"`
	Package     string `yaml:"package,omitempty"`
	InstallDir  string `yaml:"install_dir,omitempty"`
	DownloadDir string `yaml:"download_dir,omitempty"`
	Force       bool   `yaml:"force,omitempty"`
}

// Package is a python package install.
type Package struct {
	Spec   string `yaml:"spec"`
	Module string `yaml:"module,omitempty"`
}

// Agent describes the buildbot agent to create on this machine.
type Agent struct {
	Name        string `yaml:"name"`
	Coordinator string `yaml:"coordinator,omitempty"`
	Dir         string `yaml:"dir,omitempty"`
	ScriptDir   string `yaml:"script_dir,omitempty"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var p Plan
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks the plan for entries that would only fail halfway
// through a provisioning run.
func (p *Plan) Validate() error {
	for _, tool := range p.Tools {
		switch tool.Name {
		case "cmake":
			if tool.Package == "" {
				return fmt.Errorf("tool cmake requires a package name")
			}
		case "maven", "f90cache":
			if tool.Package != "" {
				return fmt.Errorf("tool %s has a fixed version; package can't be overridden", tool.Name)
			}
		default:
			return fmt.Errorf("unknown tool: %q", tool.Name)
		}
	}

	for _, pkg := range p.Python {
		if pkg.Spec == "" {
			return fmt.Errorf("python package without a spec")
		}

		if _, version, pinned := strings.Cut(pkg.Spec, "=="); pinned {
			if !semver.IsValid("v" + version) {
				return fmt.Errorf("python package %s pins an invalid version", pkg.Spec)
			}
		}
	}

	if p.Agent != nil && p.Agent.Name == "" {
		return fmt.Errorf("agent requires a name")
	}

	return nil
}

// Tasks converts the plan into the ordered list of tasks that realize
// it, threading the given environment through every install.
func (p *Plan) Tasks(env *bootstrap.Env) []bootstrap.Task {
	var tasks []bootstrap.Task

	names := make([]string, 0, len(p.Tools))
	for _, tool := range p.Tools {
		names = append(names, tool.Name)
		tasks = append(tasks, toolTask(env, tool))
	}

	if len(names) > 0 {
		bootstrap.LogDetail(fmt.Sprintf("plan provisions %d tools: %s", len(names), strings.Join(names, ", ")))
	}

	for _, pkg := range p.Python {
		tasks = append(tasks, packageTask(env, pkg))
	}

	if p.Agent != nil {
		tasks = append(tasks, agentTask(env, *p.Agent))
	}

	return tasks
}

func toolTask(env *bootstrap.Env, tool Tool) bootstrap.Task {
	var opts []installer.Option
	if tool.InstallDir != "" {
		opts = append(opts, installer.WithInstallDir(tool.InstallDir))
	}
	if tool.DownloadDir != "" {
		opts = append(opts, installer.WithDownloadDir(tool.DownloadDir))
	}
	if tool.Force {
		opts = append(opts, installer.WithoutInstalledCheck())
	}

	return func(ctx context.Context) error {
		switch tool.Name {
		case "cmake":
			_, err := installer.CMake(ctx, env, tool.Package, opts...)
			return err
		case "maven":
			return installer.Maven(ctx, env, opts...)
		case "f90cache":
			return installer.F90cache(ctx, env, opts...)
		}
		return fmt.Errorf("unknown tool: %q", tool.Name)
	}
}

func packageTask(env *bootstrap.Env, pkg Package) bootstrap.Task {
	var opts []installer.Option
	if pkg.Module != "" {
		opts = append(opts, installer.WithTestModule(pkg.Module))
	}

	return func(ctx context.Context) error {
		return installer.PythonPackage(ctx, env, pkg.Spec, opts...)
	}
}

func agentTask(env *bootstrap.Env, agent Agent) bootstrap.Task {
	var opts []installer.Option
	if agent.Coordinator != "" {
		opts = append(opts, installer.WithCoordinator(agent.Coordinator))
	}
	if agent.Dir != "" {
		opts = append(opts, installer.WithAgentDir(agent.Dir))
	}
	if agent.ScriptDir != "" {
		opts = append(opts, installer.WithScriptDir(agent.ScriptDir))
	}

	return func(ctx context.Context) error {
		_, err := installer.BuildAgent(ctx, env, agent.Name, opts...)
		return err
	}
}
