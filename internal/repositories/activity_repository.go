package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flymedia_backend/internal/localstore"
	"flymedia_backend/internal/logger"
	"flymedia_backend/internal/models"
)

// Local key under which the activity feed is kept.
const ActivityKey = "activityFeed"

// ActivityRepository loads and saves the whole activity feed. Callers
// serialize their read-modify-write cycles.
type ActivityRepository interface {
	// Load returns found=false when the feed has never been saved or the
	// stored value is unreadable.
	Load(ctx context.Context) (entries []models.Activity, found bool, err error)
	Save(ctx context.Context, entries []models.Activity) error
}

type localActivityRepository struct {
	blob blob
}

func NewActivityRepository(store *localstore.Store) ActivityRepository {
	return &localActivityRepository{blob: localBlob{store: store, key: ActivityKey}}
}

func (r *localActivityRepository) Load(ctx context.Context) ([]models.Activity, bool, error) {
	data, err := r.blob.Load(ctx)
	if err != nil || len(data) == 0 {
		return nil, false, err
	}

	var entries []models.Activity
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.CtxWarn(ctx, "activity feed unreadable, ignoring stored value", "key", ActivityKey, "error", err.Error())
		return nil, false, nil
	}
	if entries == nil {
		entries = []models.Activity{}
	}
	return entries, true, nil
}

func (r *localActivityRepository) Save(ctx context.Context, entries []models.Activity) error {
	start := time.Now()
	if entries == nil {
		entries = []models.Activity{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding activity feed: %w", err)
	}
	err = r.blob.Save(ctx, data)
	logger.StoreLog("activity", "save", time.Since(start), err)
	return err
}
