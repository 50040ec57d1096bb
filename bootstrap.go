// Package bootstrap provides helpers to provision a fresh build machine
// or VM: downloading and installing third-party tools, registering them
// on the executable search path and creating the symlinks needed to make
// them globally invocable.
//
// The package is a library of synchronous, run-to-completion helpers.
// State lives in an explicit [Env] value that callers thread through
// every operation instead of mutating ambient process state directly;
// mutations are mirrored into the process environment so that child
// processes inherit them.
//
// Tool-specific install routines live in the installer subpackage and
// provisioning plans can be described declaratively via the plan
// subpackage.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/fatih/color"
)

// VagrantDir is the synced folder mounted inside VMs managed by Vagrant.
const VagrantDir = "/vagrant"

// OptDir returns the conventional root installation directory for
// the current platform.
func OptDir() string {
	if IsWindows() {
		return `\Program Files`
	}
	return "/opt"
}

// IsWindows returns true if the current OS is Windows.
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// Init detects whether the process runs inside a VM managed by Vagrant
// and, if so, switches the working directory to the shared folder so
// that downloads and scratch files don't grow the VM drive.
// Returns true when running inside such a VM.
func Init() bool {
	if _, err := os.Stat(VagrantDir); err != nil {
		return false
	}

	if err := os.Chdir(VagrantDir); err != nil {
		return false
	}

	return true
}

// Task defines the basic unit of provisioning work executed by
// [Bootstrap.Execute].
type Task func(ctx context.Context) error

// Bootstrap runs provisioning tasks sequentially, with optional pre-
// and post-execution hooks where functionality common to all tasks can
// be defined.
type Bootstrap struct {
	PreExecHook  Task
	PostExecHook Task
}

// New constructs a bootstrap runner.
func New(opts ...Option) *Bootstrap {
	b := Bootstrap{
		PreExecHook:  func(_ context.Context) error { return nil },
		PostExecHook: func(_ context.Context) error { return nil },
	}

	for _, opt := range opts {
		opt(&b)
	}

	return &b
}

// Execute a list of provisioning tasks.
// Tasks run strictly in order and execution stops at the first failure,
// as later tools routinely depend on earlier ones being present.
func (b *Bootstrap) Execute(ctx context.Context, tasks ...Task) (err error) {
	start := time.Now()

	fmt.Printf("\n")

	if err := b.PreExecHook(ctx); err != nil {
		return fmt.Errorf("failed to initialize bootstrap: %w", err)
	}

	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		color.New(color.FgHiBlack).Printf("------------------------\n\n")

		if err != nil {
			color.Red(" ✘ provisioning failed after %s", elapsed)
			color.Red("   • %s", err.Error())
			fmt.Printf("\n")
			return
		}

		color.Green(" ✔ all good after %s\n\n", elapsed)
	}()

	for i := range tasks {
		if err = tasks[i](ctx); err != nil {
			return err
		}
	}

	if err = b.PostExecHook(ctx); err != nil {
		return fmt.Errorf("failed to run post exec hook: %w", err)
	}

	return nil
}

type Option func(b *Bootstrap)

// WithPreExecFunc allows specifying a task that will be run every
// execution, before the specific provisioning tasks are run.
func WithPreExecFunc(hook Task) Option {
	return func(b *Bootstrap) {
		b.PreExecHook = hook
	}
}

// WithPostExecFunc allows specifying a task that will be run every
// execution, after all provisioning tasks finished successfully.
func WithPostExecFunc(hook Task) Option {
	return func(b *Bootstrap) {
		b.PostExecHook = hook
	}
}

// LogStep logs a high level provisioning step.
func LogStep(text string) {
	fmt.Println(
		color.BlueString(" •"),
		color.New(color.Bold).Sprint(text),
	)
}

// LogDetail logs a low level detail of the current provisioning step.
func LogDetail(text string) {
	fmt.Println(
		color.New(color.FgHiBlack).Sprint("   └"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}
