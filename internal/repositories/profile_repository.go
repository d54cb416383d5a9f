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

// Local key under which the user profile is kept.
const ProfileKey = "userProfile"

type ProfileRepository interface {
	// Load returns found=false when no profile is saved or the stored value
	// is unreadable.
	Load(ctx context.Context) (profile *models.Profile, found bool, err error)
	Save(ctx context.Context, profile *models.Profile) error
	// Remove forgets the saved profile. Removing nothing is not an error.
	Remove(ctx context.Context) error
}

type localProfileRepository struct {
	store *localstore.Store
	blob  blob
}

func NewProfileRepository(store *localstore.Store) ProfileRepository {
	return &localProfileRepository{
		store: store,
		blob:  localBlob{store: store, key: ProfileKey},
	}
}

func (r *localProfileRepository) Load(ctx context.Context) (*models.Profile, bool, error) {
	data, err := r.blob.Load(ctx)
	if err != nil || len(data) == 0 {
		return nil, false, err
	}

	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		logger.CtxWarn(ctx, "profile unreadable, ignoring stored value", "key", ProfileKey, "error", err.Error())
		return nil, false, nil
	}
	return &p, true, nil
}

func (r *localProfileRepository) Save(ctx context.Context, profile *models.Profile) error {
	start := time.Now()
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	err = r.blob.Save(ctx, data)
	logger.StoreLog("profile", "save", time.Since(start), err)
	return err
}

func (r *localProfileRepository) Remove(ctx context.Context) error {
	start := time.Now()
	err := r.store.RemoveItem(ctx, ProfileKey)
	logger.StoreLog("profile", "remove", time.Since(start), err)
	return err
}
