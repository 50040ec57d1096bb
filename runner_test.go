package bootstrap

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("tests shell out to sh")
	}

	ctx := context.Background()

	t.Run("successful command", func(t *testing.T) {
		err := Run(ctx, "sh", WithArgs("-c", "exit 0"), WithoutNoise())
		assert.NoError(t, err)
	})

	t.Run("nonzero exit propagates as error", func(t *testing.T) {
		err := Run(ctx, "sh", WithArgs("-c", "exit 3"), WithoutNoise())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sh")
	})

	t.Run("missing executable propagates as error", func(t *testing.T) {
		err := Run(ctx, "definitely-not-a-command", WithoutNoise())
		assert.Error(t, err)
	})

	t.Run("runs inside the requested directory", func(t *testing.T) {
		dir := t.TempDir()

		err := Run(
			ctx,
			"sh",
			WithArgs("-c", `test "$(pwd)" = "$EXPECTED"`),
			WithDir(dir),
			WithEnv("EXPECTED="+dir),
			WithoutNoise(),
		)
		assert.NoError(t, err)
	})

	t.Run("environment variables reach the command", func(t *testing.T) {
		err := Run(
			ctx,
			"sh",
			WithArgs("-c", `test "$SOMEVAR" = somevalue`),
			WithEnv("SOMEVAR=somevalue"),
			WithoutNoise(),
		)
		assert.NoError(t, err)
	})
}

func TestCmd(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid env format is rejected", func(t *testing.T) {
		_, err := Cmd(ctx, "sh", WithEnv("not-a-pair"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "doesn't match NAME=value")
	})

	t.Run("arguments are recorded", func(t *testing.T) {
		rnr, err := Cmd(ctx, "sh", WithArgs("-c", "exit 0"))
		require.NoError(t, err)
		assert.Equal(t, "sh", rnr.Executable)
		assert.Equal(t, []string{"-c", "exit 0"}, rnr.Arguments)
	})
}
