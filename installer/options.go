package installer

import (
	"github.com/aexvir/bootstrap"
)

// Option allows customizing how a tool gets installed.
type Option func(c *conf)

type conf struct {
	installDir     string
	downloadDir    string
	checkInstalled bool

	testModule string

	agentDir    string
	coordinator string
	scriptDir   string
}

func newconf(opts ...Option) conf {
	c := conf{
		installDir:     bootstrap.OptDir(),
		downloadDir:    ".",
		checkInstalled: true,
		coordinator:    defaultCoordinator,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithInstallDir overrides the directory a tool gets installed into.
// The platform's conventional root installation directory is used by
// default. Installing into "." leaves the tool unregistered on the
// search path.
func WithInstallDir(dir string) Option {
	return func(c *conf) {
		c.installDir = dir
	}
}

// WithDownloadDir overrides the directory archives get downloaded
// into; the current directory is used by default.
func WithDownloadDir(dir string) Option {
	return func(c *conf) {
		c.downloadDir = dir
	}
}

// WithoutInstalledCheck forces installation even when the tool is
// already present on the search path.
func WithoutInstalledCheck() Option {
	return func(c *conf) {
		c.checkInstalled = false
	}
}

// WithTestModule overrides the python module name probed to decide
// whether a package is already installed; by default the package name
// before any version qualifier is used.
func WithTestModule(module string) Option {
	return func(c *conf) {
		c.testModule = module
	}
}

// WithAgentDir overrides the directory the build agent gets created
// in; by default the agent lives under the service account's home.
func WithAgentDir(dir string) Option {
	return func(c *conf) {
		c.agentDir = dir
	}
}

// WithCoordinator overrides the address of the coordinator the build
// agent connects to.
func WithCoordinator(address string) Option {
	return func(c *conf) {
		c.coordinator = address
	}
}

// WithScriptDir points at the directory containing the agent creation
// command, for setups where it is not on the search path.
func WithScriptDir(dir string) Option {
	return func(c *conf) {
		c.scriptDir = dir
	}
}
