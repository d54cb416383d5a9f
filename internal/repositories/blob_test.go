package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBlob_SaveCreatesDirAndReplaces(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data", "nested")
	b := fileBlob{path: filepath.Join(dir, "notifications.json")}

	data, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, b.Save(ctx, []byte(`[{"id":1}]`)))
	require.NoError(t, b.Save(ctx, []byte(`[]`)))

	data, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notifications.json", entries[0].Name())
}
