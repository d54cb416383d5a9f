package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flymedia_backend/internal/localstore"
	"flymedia_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

// backends returns every notification backend that can run here.
func backends(t *testing.T) map[string]NotificationRepository {
	t.Helper()

	store, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repos := map[string]NotificationRepository{
		"file":  NewFileNotificationRepository(filepath.Join(t.TempDir(), "notifications.json")),
		"local": NewLocalNotificationRepository(store),
	}

	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		require.NoError(t, err)
		require.NoError(t, db.AutoMigrate(&models.Notification{}))
		require.NoError(t, db.Where("1 = 1").Delete(&models.Notification{}).Error)
		repos["database"] = NewGormNotificationRepository(db)
	}
	return repos
}

func TestNotificationRepository_CreateAppliesDefaults(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			before := time.Now().Add(-time.Second)

			n, err := repo.Create(ctx, models.NotificationFields{})
			require.NoError(t, err)

			assert.Equal(t, "Notification", n.Title)
			assert.Equal(t, "", n.Message)
			assert.Equal(t, "info", n.Type)
			assert.Nil(t, n.ActionURL)
			assert.False(t, n.Read)
			assert.True(t, n.CreatedAt.After(before))
		})
	}
}

func TestNotificationRepository_NewestFirstAndUniqueIDs(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			var ids []int64
			for _, title := range []string{"a", "b", "c"} {
				n, err := repo.Create(ctx, models.NotificationFields{Title: strPtr(title)})
				require.NoError(t, err)
				ids = append(ids, n.ID)
			}

			list, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, "c", list[0].Title)
			assert.Equal(t, "b", list[1].Title)
			assert.Equal(t, "a", list[2].Title)
			assert.Less(t, ids[0], ids[1])
			assert.Less(t, ids[1], ids[2])
		})
	}
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := repo.Create(ctx, models.NotificationFields{Title: strPtr("first")})
			require.NoError(t, err)
			second, err := repo.Create(ctx, models.NotificationFields{Title: strPtr("second")})
			require.NoError(t, err)

			_, err = repo.MarkRead(ctx, 42)
			assert.ErrorIs(t, err, ErrNotificationNotFound)

			updated, err := repo.MarkRead(ctx, first.ID)
			require.NoError(t, err)
			assert.True(t, updated.Read)
			assert.Equal(t, first.CreatedAt.Unix(), updated.CreatedAt.Unix())

			list, err := repo.List(ctx)
			require.NoError(t, err)
			for _, n := range list {
				assert.Equal(t, n.ID == first.ID, n.Read, "only %d should be read", first.ID)
			}
			assert.Equal(t, second.ID, list[0].ID)
		})
	}
}

func TestNotificationRepository_MarkAllReadIsIdempotent(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 3; i++ {
				_, err := repo.Create(ctx, models.NotificationFields{})
				require.NoError(t, err)
			}

			once, err := repo.MarkAllRead(ctx)
			require.NoError(t, err)
			twice, err := repo.MarkAllRead(ctx)
			require.NoError(t, err)

			require.Len(t, once, 3)
			assert.Equal(t, len(once), len(twice))
			for i := range once {
				assert.True(t, once[i].Read)
				assert.Equal(t, once[i].ID, twice[i].ID)
			}
		})
	}
}

func TestNotificationRepository_DeleteAndClear(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			n, err := repo.Create(ctx, models.NotificationFields{})
			require.NoError(t, err)
			_, err = repo.Create(ctx, models.NotificationFields{})
			require.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, 12345))
			list, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 2)

			require.NoError(t, repo.Delete(ctx, n.ID))
			list, err = repo.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)

			require.NoError(t, repo.Clear(ctx))
			list, err = repo.List(ctx)
			require.NoError(t, err)
			assert.NotNil(t, list)
			assert.Empty(t, list)
		})
	}
}

func TestFileNotificationRepository_PersistAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notifications.json")

	repo := NewFileNotificationRepository(path)
	_, err := repo.Create(ctx, models.NotificationFields{Title: strPtr("Upload done"), ActionURL: strPtr("/files")})
	require.NoError(t, err)
	_, err = repo.Create(ctx, models.NotificationFields{Message: strPtr("hello"), Type: strPtr("warning")})
	require.NoError(t, err)

	want, err := repo.List(ctx)
	require.NoError(t, err)

	got, err := NewFileNotificationRepository(path).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileNotificationRepository_CorruptOrMissingFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	list, err := NewFileNotificationRepository(filepath.Join(dir, "missing.json")).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))

	repo := NewFileNotificationRepository(corrupt)
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = repo.Create(ctx, models.NotificationFields{})
	require.NoError(t, err)
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFileNotificationRepository_UnreadablePathListsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "notifications.json")
	require.NoError(t, os.Mkdir(dir, 0o755))

	repo := NewFileNotificationRepository(dir)
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = repo.Create(ctx, models.NotificationFields{})
	assert.Error(t, err)
	_, err = repo.MarkAllRead(ctx)
	assert.Error(t, err)
}

func TestFileNotificationRepository_EmptyFileIsArray(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notifications.json")

	repo := NewFileNotificationRepository(path)
	require.NoError(t, repo.Clear(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileNotificationRepository_ConcurrentCreatesAreNotLost(t *testing.T) {
	ctx := context.Background()
	repo := NewFileNotificationRepository(filepath.Join(t.TempDir(), "notifications.json"))

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := repo.Create(ctx, models.NotificationFields{})
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, n)

	seen := make(map[int64]bool)
	for _, item := range list {
		assert.False(t, seen[item.ID], "duplicate id %d", item.ID)
		seen[item.ID] = true
	}
}

func TestNextNotificationID(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	assert.Equal(t, int64(1_700_000_000_000), nextNotificationID(0, now))
	assert.Equal(t, int64(1_700_000_000_001), nextNotificationID(1_700_000_000_000, now))
	assert.Equal(t, int64(1_800_000_000_001), nextNotificationID(1_800_000_000_000, now))
}
