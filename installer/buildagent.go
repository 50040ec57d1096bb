package installer

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/aexvir/bootstrap"
)

const (
	// defaultCoordinator is the host side of the default VirtualBox NAT
	// network, where the buildbot coordinator listens when provisioning
	// agents inside VMs.
	defaultCoordinator = "10.0.2.2"

	agentAccount = "buildbot"
	agentHome    = "/var/lib/buildbot"
)

// BuildAgent provisions a buildbot agent with the given name and
// returns the directory it was created in.
//
// On linux a dedicated buildbot service account is created first if
// absent, with no login shell, and the agent runs as that account;
// elsewhere the vagrant user is used. An empty string is returned
// without error when the agent directory already exists.
func BuildAgent(ctx context.Context, env *bootstrap.Env, name string, opts ...Option) (string, error) {
	conf := newconf(opts...)

	username := "vagrant"
	if runtime.GOOS == "linux" {
		username = agentAccount
		if err := ensureAgentAccount(ctx); err != nil {
			return "", err
		}
	}

	path := conf.agentDir
	if path == "" {
		account, err := user.Lookup(username)
		if err != nil {
			return "", fmt.Errorf("failed to look up %s account: %w", username, err)
		}
		path = filepath.Join(account.HomeDir, "worker")
	}

	if _, err := os.Stat(path); err == nil {
		bootstrap.LogDetail(fmt.Sprintf("agent already exists in %s", path))
		return "", nil
	}

	// 15.4.0 is the newest twisted release that still runs on the
	// python shipped with the older builder images
	if err := PythonPackage(ctx, env, "twisted==15.4.0", WithDownloadDir(conf.downloadDir)); err != nil {
		return "", err
	}

	if err := PythonPackage(ctx, env, "buildbot-worker", WithTestModule("buildbot_worker"), WithDownloadDir(conf.downloadDir)); err != nil {
		return "", err
	}

	var runopts []bootstrap.RunnerOpt

	// the credential is a placeholder; the agents are not publicly
	// accessible
	runopts = append(runopts, bootstrap.WithArgs("create-worker", path, conf.coordinator, name, "pass"))

	if !bootstrap.IsWindows() {
		runopts = append(runopts, bootstrap.WithUser(username))
	}

	command := filepath.Join(conf.scriptDir, "buildbot-worker")
	if err := bootstrap.Run(ctx, command, runopts...); err != nil {
		return "", err
	}

	return path, nil
}

// ensureAgentAccount lazily creates the buildbot system account.
func ensureAgentAccount(ctx context.Context) error {
	if _, err := user.Lookup(agentAccount); err == nil {
		return nil
	}

	bootstrap.LogStep(fmt.Sprintf("creating %s account", agentAccount))

	return bootstrap.Run(
		ctx,
		"sudo",
		bootstrap.WithArgs(
			"useradd",
			"--system",
			"--home", agentHome,
			"--create-home",
			"--shell", "/bin/false",
			agentAccount,
		),
	)
}
