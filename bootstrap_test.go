package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("runs tasks in order", func(t *testing.T) {
		var order []string

		task := func(name string) Task {
			return func(_ context.Context) error {
				order = append(order, name)
				return nil
			}
		}

		err := New().Execute(ctx, task("first"), task("second"), task("third"))

		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "third"}, order)
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		var ran int
		boom := errors.New("boom")

		err := New().Execute(
			ctx,
			func(_ context.Context) error { ran++; return nil },
			func(_ context.Context) error { return boom },
			func(_ context.Context) error { ran++; return nil },
		)

		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, ran)
	})

	t.Run("pre exec hook runs before tasks", func(t *testing.T) {
		var order []string

		b := New(
			WithPreExecFunc(func(_ context.Context) error {
				order = append(order, "pre")
				return nil
			}),
		)

		err := b.Execute(ctx, func(_ context.Context) error {
			order = append(order, "task")
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"pre", "task"}, order)
	})

	t.Run("failing pre exec hook aborts the run", func(t *testing.T) {
		var ran bool

		b := New(
			WithPreExecFunc(func(_ context.Context) error {
				return errors.New("boom")
			}),
		)

		err := b.Execute(ctx, func(_ context.Context) error {
			ran = true
			return nil
		})

		require.Error(t, err)
		assert.False(t, ran)
	})

	t.Run("post exec hook runs after tasks", func(t *testing.T) {
		var order []string

		b := New(
			WithPostExecFunc(func(_ context.Context) error {
				order = append(order, "post")
				return nil
			}),
		)

		err := b.Execute(ctx, func(_ context.Context) error {
			order = append(order, "task")
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"task", "post"}, order)
	})
}

func TestInit(t *testing.T) {
	// the vagrant folder doesn't exist on dev machines or ci
	assert.False(t, Init())
}
