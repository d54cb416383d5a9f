package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

func TestStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.GetItem(ctx, "fm_tasks_v1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem(ctx, "fm_tasks_v1", "[]"))
	require.NoError(t, s.SetItem(ctx, "fm_tasks_v1", `[{"id":"t1"}]`))

	value, ok, err := s.GetItem(ctx, "fm_tasks_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"t1"}]`, value)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fm_tasks_v1"}, keys)

	require.NoError(t, s.RemoveItem(ctx, "fm_tasks_v1"))
	require.NoError(t, s.RemoveItem(ctx, "fm_tasks_v1"))

	_, ok, err = s.GetItem(ctx, "fm_tasks_v1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ReopenKeepsDataAndSkipsMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flymedia.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(ctx, "notifications_v1", "[]"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	value, ok, err := s.GetItem(ctx, "notifications_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}
