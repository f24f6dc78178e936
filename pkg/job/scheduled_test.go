package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledTaskExecutor_Execute(t *testing.T) {
	t.Parallel()

	t.Run("ignores payload", func(t *testing.T) {
		t.Parallel()

		called := false
		executor := &scheduledTaskExecutor{handler: func(context.Context) error {
			called = true
			return nil
		}}

		require.NoError(t, executor.Execute(context.Background(), []byte(`{"ignored":true}`)))
		assert.True(t, called)
	})

	t.Run("handler error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("sweep failed")
		executor := &scheduledTaskExecutor{handler: func(context.Context) error { return boom }}
		require.ErrorIs(t, executor.Execute(context.Background(), nil), boom)
	})
}
