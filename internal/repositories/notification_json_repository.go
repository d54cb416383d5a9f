package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"flymedia_backend/internal/localstore"
	"flymedia_backend/internal/logger"
	"flymedia_backend/internal/models"
)

// jsonNotificationRepository stores the feed as one JSON array and does a
// full read-modify-write per mutation under mu.
type jsonNotificationRepository struct {
	mu   sync.Mutex
	blob blob
	name string
	now  func() time.Time
}

// NewFileNotificationRepository keeps the feed in a JSON file at path.
func NewFileNotificationRepository(path string) NotificationRepository {
	return &jsonNotificationRepository{
		blob: fileBlob{path: path},
		name: "notifications_file",
		now:  time.Now,
	}
}

// NewLocalNotificationRepository keeps the feed in the local key-value store.
func NewLocalNotificationRepository(store *localstore.Store) NotificationRepository {
	return &jsonNotificationRepository{
		blob: localBlob{store: store, key: NotificationsKey},
		name: "notifications_local",
		now:  time.Now,
	}
}

// load never fails on bad content: a missing or unparsable collection is
// treated as empty.
func (r *jsonNotificationRepository) load(ctx context.Context) ([]models.Notification, error) {
	data, err := r.blob.Load(ctx)
	if err != nil {
		return nil, err
	}

	list := []models.Notification{}
	if len(data) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(data, &list); err != nil {
		logger.CtxWarn(ctx, "notification collection unreadable, starting empty",
			"store", r.name, "source", r.blob.String(), "error", err.Error())
		return []models.Notification{}, nil
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

func (r *jsonNotificationRepository) save(ctx context.Context, op string, list []models.Notification) error {
	start := time.Now()
	if list == nil {
		list = []models.Notification{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding notifications: %w", err)
	}
	err = r.blob.Save(ctx, data)
	logger.StoreLog(r.name, op, time.Since(start), err)
	return err
}

// List reports an unreadable collection as empty. Mutations still fail on
// the same error.
func (r *jsonNotificationRepository) List(ctx context.Context) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		logger.CtxWarn(ctx, "notification collection could not be read, listing empty",
			"store", r.name, "source", r.blob.String(), "error", err.Error())
		return []models.Notification{}, nil
	}
	return list, nil
}

func (r *jsonNotificationRepository) Create(ctx context.Context, fields models.NotificationFields) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	n := models.NewNotification(nextNotificationID(maxNotificationID(list), now), now, fields)
	list = append([]models.Notification{n}, list...)

	if err := r.save(ctx, "create", list); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *jsonNotificationRepository) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].Read = true
		if err := r.save(ctx, "mark_read", list); err != nil {
			return nil, err
		}
		updated := list[i]
		return &updated, nil
	}
	return nil, ErrNotificationNotFound
}

func (r *jsonNotificationRepository) MarkAllRead(ctx context.Context) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Read = true
	}
	if err := r.save(ctx, "mark_all_read", list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *jsonNotificationRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Notification, 0, len(list))
	for _, n := range list {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(list) {
		return nil
	}
	return r.save(ctx, "delete", kept)
}

func (r *jsonNotificationRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, "clear", []models.Notification{})
}
