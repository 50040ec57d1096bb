// Command bootstrap provisions a build machine: it installs the
// requested third-party tools, registers them on the search path and
// optionally sets up a buildbot agent.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aexvir/bootstrap"
	"github.com/aexvir/bootstrap/installer"
	"github.com/aexvir/bootstrap/plan"
)

var (
	installDir  string
	downloadDir string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bootstrap",
		Short:         "provision a build machine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if bootstrap.Init() {
				bootstrap.LogDetail("running inside a vagrant vm; working in " + bootstrap.VagrantDir)
			}
		},
	}

	root.PersistentFlags().StringVar(&installDir, "install-dir", bootstrap.OptDir(), "directory tools get installed into")
	root.PersistentFlags().StringVar(&downloadDir, "download-dir", ".", "directory archives get downloaded into")

	root.AddCommand(
		cmakeCmd(),
		mavenCmd(),
		f90cacheCmd(),
		pipCmd(),
		agentCmd(),
		pkgCmd(),
		dmgCmd(),
		optdepsCmd(),
		applyCmd(),
	)

	return root
}

func installOpts() []installer.Option {
	return []installer.Option{
		installer.WithInstallDir(installDir),
		installer.WithDownloadDir(downloadDir),
	}
}

func cmakeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "cmake <package>",
		Short: "install a cmake package, e.g. cmake-3.10.2-Linux-x86_64.tar.gz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := installOpts()
			if force {
				opts = append(opts, installer.WithoutInstalledCheck())
			}

			path, err := installer.CMake(cmd.Context(), bootstrap.System(), args[0], opts...)
			if err != nil {
				return err
			}

			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "install even when cmake is already on the path")

	return cmd
}

func mavenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maven",
		Short: "install apache maven",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return installer.Maven(cmd.Context(), bootstrap.System(), installOpts()...)
		},
	}
}

func f90cacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "f90cache",
		Short: "build and install f90cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return installer.F90cache(cmd.Context(), bootstrap.System(), installOpts()...)
		},
	}
}

func pipCmd() *cobra.Command {
	var module string

	cmd := &cobra.Command{
		Use:   "pip <spec>",
		Short: "install a python package, e.g. twisted==15.4.0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := installOpts()
			if module != "" {
				opts = append(opts, installer.WithTestModule(module))
			}

			return installer.PythonPackage(cmd.Context(), bootstrap.System(), args[0], opts...)
		},
	}

	cmd.Flags().StringVar(&module, "module", "", "module probed to decide whether the package is installed")

	return cmd
}

func agentCmd() *cobra.Command {
	var (
		coordinator string
		dir         string
		scriptDir   string
	)

	cmd := &cobra.Command{
		Use:   "agent <name>",
		Short: "create a buildbot agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := installOpts()
			opts = append(opts, installer.WithCoordinator(coordinator))
			if dir != "" {
				opts = append(opts, installer.WithAgentDir(dir))
			}
			if scriptDir != "" {
				opts = append(opts, installer.WithScriptDir(scriptDir))
			}

			path, err := installer.BuildAgent(cmd.Context(), bootstrap.System(), args[0], opts...)
			if err != nil {
				return err
			}

			if path != "" {
				fmt.Println(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&coordinator, "coordinator", "10.0.2.2", "address of the buildbot coordinator")
	cmd.Flags().StringVar(&dir, "dir", "", "directory the agent gets created in")
	cmd.Flags().StringVar(&scriptDir, "script-dir", "", "directory containing the buildbot-worker command")

	return cmd
}

func pkgCmd() *cobra.Command {
	var allowUntrusted bool

	cmd := &cobra.Command{
		Use:   "pkg <file>",
		Short: "install an OS X package file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return installer.PackageFile(cmd.Context(), args[0], allowUntrusted)
		},
	}

	cmd.Flags().BoolVar(&allowUntrusted, "allow-untrusted", false, "relax the certificate trust check")

	return cmd
}

func dmgCmd() *cobra.Command {
	var allowUntrusted bool

	cmd := &cobra.Command{
		Use:   "dmg <file>",
		Short: "install the package inside a disk image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return installer.DiskImage(cmd.Context(), args[0], allowUntrusted)
		},
	}

	cmd.Flags().BoolVar(&allowUntrusted, "allow-untrusted", false, "relax the certificate trust check")

	return cmd
}

func optdepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optdeps <platform> [source-dir]",
		Short: "copy optional dependencies into the system install directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceDir := ""
			if len(args) > 1 {
				sourceDir = args[1]
			}

			return installer.CopyOptionalDependencies(args[0], sourceDir)
		},
	}
}

func applyCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "run every step of a provisioning plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(file)
			if err != nil {
				return err
			}

			env := bootstrap.System()
			return bootstrap.New().Execute(cmd.Context(), p.Tasks(env)...)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "bootstrap.yaml", "plan file to apply")

	return cmd
}
