package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aexvir/bootstrap"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bootstrap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("complete plan", func(t *testing.T) {
		p, err := Load(writePlan(t, `
tools:
  - name: cmake
    package: cmake-3.10.2-Linux-x86_64.tar.gz
  - name: maven
  - name: f90cache
python:
  - spec: twisted==15.4.0
  - spec: buildbot-worker
    module: buildbot_worker
agent:
  name: lucid64
  coordinator: 192.168.0.1
`))

		require.NoError(t, err)
		assert.Len(t, p.Tools, 3)
		assert.Len(t, p.Python, 2)
		require.NotNil(t, p.Agent)
		assert.Equal(t, "lucid64", p.Agent.Name)
		assert.Equal(t, "192.168.0.1", p.Agent.Coordinator)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, err := Load(writePlan(t, `
tools:
  - name: maven
    sparkles: yes
`))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("unknown tool", func(t *testing.T) {
		p := Plan{Tools: []Tool{{Name: "gradle"}}}

		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown tool")
	})

	t.Run("cmake without package", func(t *testing.T) {
		p := Plan{Tools: []Tool{{Name: "cmake"}}}

		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a package name")
	})

	t.Run("fixed version tools reject package overrides", func(t *testing.T) {
		p := Plan{Tools: []Tool{{Name: "maven", Package: "apache-maven-4.0.0-bin.tar.gz"}}}

		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fixed version")
	})

	t.Run("python package without spec", func(t *testing.T) {
		p := Plan{Python: []Package{{Module: "twisted"}}}

		assert.Error(t, p.Validate())
	})

	t.Run("invalid pinned version", func(t *testing.T) {
		p := Plan{Python: []Package{{Spec: "twisted==fifteen"}}}

		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid version")
	})

	t.Run("unpinned python package is fine", func(t *testing.T) {
		p := Plan{Python: []Package{{Spec: "buildbot-worker"}}}

		assert.NoError(t, p.Validate())
	})

	t.Run("agent without name", func(t *testing.T) {
		p := Plan{Agent: &Agent{}}

		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "agent requires a name")
	})
}

func TestTasks(t *testing.T) {
	p := Plan{
		Tools: []Tool{
			{Name: "cmake", Package: "cmake-3.10.2-Linux-x86_64.tar.gz"},
			{Name: "maven"},
		},
		Python: []Package{{Spec: "twisted==15.4.0"}},
		Agent:  &Agent{Name: "lucid64"},
	}

	tasks := p.Tasks(bootstrap.NewEnv(nil))

	// one per tool, one per package, one for the agent
	assert.Len(t, tasks, 4)
}
