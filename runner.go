package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fatih/color"
)

// TaskRunner holds the metadata for a specific command invocation.
// Every external command issued by the provisioning routines goes
// through it, so subprocess output, timing and failures are reported
// consistently.
type TaskRunner struct {
	Executable string
	Arguments  []string

	ctx      context.Context
	dir      string
	env      []string
	user     string
	okmsg    string
	errmsg   string
	quiet    bool
	allowerr bool
}

// Cmd builds a command runner for a specific executable.
func Cmd(ctx context.Context, executable string, opts ...RunnerOpt) (*TaskRunner, error) {
	r := TaskRunner{
		Executable: executable,
		ctx:        ctx,
	}

	for _, opt := range opts {
		if err := opt(&r); err != nil {
			return nil, err
		}
	}

	return &r, nil
}

// Exec runs the command, blocking until it finishes, and pretty
// printing the ok and error messages. A nonzero exit status is
// returned as an error; no retry is attempted.
func (r *TaskRunner) Exec() error {
	var err error

	start := time.Now()
	defer func() {
		if r.quiet {
			return
		}
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red(" ✘ %s\n\n", elapsed)
			return
		}
		color.Green(" ✔ %s\n\n", elapsed)
	}()

	executable, args := r.Executable, r.Arguments

	// run as a different account via sudo; windows has no equivalent
	// here, commands run as the invoking user
	if r.user != "" && !IsWindows() {
		executable = "sudo"
		args = append([]string{"-u", r.user, r.Executable}, r.Arguments...)
	}

	cmd := exec.CommandContext(r.ctx, executable, args...)
	cmd.Dir = r.dir
	cmd.Env = r.env

	if !r.quiet {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin
		logcmd(fmt.Sprint(executable, " ", strings.Join(args, " ")))
	}

	err = cmd.Run()

	if !r.allowerr && err != nil {
		if !r.quiet && r.errmsg != "" {
			color.Red(r.errmsg)
		}
		return fmt.Errorf("%s: %w", r.Executable, err)
	}

	if !r.quiet && r.okmsg != "" {
		color.Green(r.okmsg)
	}

	return nil
}

// Run is a helper function to avoid repetition while gracefully handling errors.
func Run(ctx context.Context, program string, opts ...RunnerOpt) error {
	rnr, err := Cmd(ctx, program, opts...)
	if err != nil {
		return err
	}

	return rnr.Exec()
}

// fancy-ish log of a command invocation.
func logcmd(text string) {
	fmt.Println(
		color.MagentaString(" ⌘"),
		color.New(color.Bold).Sprint(text),
	)
}

// RunnerOpt allows customizing the behavior of the command runner.
type RunnerOpt func(r *TaskRunner) error

// WithArgs command arguments.
func WithArgs(args ...string) RunnerOpt {
	return func(r *TaskRunner) error {
		r.Arguments = args
		return nil
	}
}

// WithEnv sets up environment variables for the command, on top of the
// current process environment.
func WithEnv(vars ...string) RunnerOpt {
	return func(r *TaskRunner) error {
		r.env = os.Environ()
		for _, vrb := range vars {
			items := strings.Split(vrb, "=")
			if len(items) != 2 {
				return fmt.Errorf("invalid env format; %s doesn't match NAME=value expectation", vrb)
			}
			r.env = append(r.env, vrb)
		}
		return nil
	}
}

// WithDir sets the directory where the command should be run inside.
func WithDir(dir string) RunnerOpt {
	return func(r *TaskRunner) error {
		r.dir = dir
		return nil
	}
}

// WithUser runs the command as a different system account, via sudo.
// Ignored on Windows.
func WithUser(username string) RunnerOpt {
	return func(r *TaskRunner) error {
		r.user = username
		return nil
	}
}

// WithOKMsg sets a message to be printed when the command finishes successfully.
func WithOKMsg(msg string) RunnerOpt {
	return func(r *TaskRunner) error {
		r.okmsg = msg
		return nil
	}
}

// WithErrMsg sets a message to be printed when the command fails.
func WithErrMsg(msg string) RunnerOpt {
	return func(r *TaskRunner) error {
		r.errmsg = msg
		return nil
	}
}

// WithoutNoise silences all output for the command; useful when handling that on the caller side.
func WithoutNoise() RunnerOpt {
	return func(r *TaskRunner) error {
		r.quiet = true
		return nil
	}
}
