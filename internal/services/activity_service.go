package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"flymedia_backend/internal/events"
	"flymedia_backend/internal/models"
	"flymedia_backend/internal/repositories"
	"flymedia_backend/pkg/apperrors"
)

// Oldest entries are dropped past this length.
const maxActivityEntries = 100

type ActivityService interface {
	List(ctx context.Context) ([]models.Activity, error)
	Record(ctx context.Context, kind models.ActivityType, message string) (*models.Activity, error)
}

type activityService struct {
	mu           sync.Mutex
	activityRepo repositories.ActivityRepository
	publisher    events.Publisher
	now          func() time.Time
}

func NewActivityService(activityRepo repositories.ActivityRepository, publisher events.Publisher) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

func activityStorageError(err error) error {
	return apperrors.ErrStorage(err, "activity", "Unable to access the activity feed")
}

// seedActivity is the starter feed stored on first read.
func seedActivity() []models.Activity {
	at := func(hour, min int) time.Time {
		return time.Date(2025, 10, 1, hour, min, 0, 0, time.UTC)
	}
	return []models.Activity{
		{ID: 1, Type: models.ActivityUpload, Message: "Uploaded a new file", Timestamp: at(10, 0)},
		{ID: 2, Type: models.ActivityTask, Message: "Completed a task", Timestamp: at(11, 30)},
		{ID: 3, Type: models.ActivityComment, Message: "Commented on a post", Timestamp: at(12, 15)},
		{ID: 4, Type: models.ActivityProfile, Message: "Updated profile information", Timestamp: at(13, 45)},
		{ID: 5, Type: models.ActivityProject, Message: "Joined a new project", Timestamp: at(14, 20)},
	}
}

// load must be called with mu held.
func (s *activityService) load(ctx context.Context) ([]models.Activity, error) {
	entries, found, err := s.activityRepo.Load(ctx)
	if err != nil {
		return nil, activityStorageError(err)
	}
	if found {
		return entries, nil
	}

	seeded := seedActivity()
	if err := s.activityRepo.Save(ctx, seeded); err != nil {
		return nil, activityStorageError(err)
	}
	return seeded, nil
}

func (s *activityService) List(ctx context.Context) ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *activityService) Record(ctx context.Context, kind models.ActivityType, message string) (*models.Activity, error) {
	message = strings.TrimSpace(message)
	if !kind.Valid() || message == "" {
		return nil, apperrors.NewBadRequestError("Activity needs a known type and a message")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, e := range entries {
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	entry := models.Activity{
		ID:        maxID + 1,
		Type:      kind,
		Message:   message,
		Timestamp: s.now().UTC().Truncate(time.Second),
	}
	entries = append(entries, entry)
	if len(entries) > maxActivityEntries {
		entries = entries[len(entries)-maxActivityEntries:]
	}

	if err := s.activityRepo.Save(ctx, entries); err != nil {
		return nil, activityStorageError(err)
	}
	if s.publisher != nil {
		s.publisher.Publish(events.ActivityUpdated)
	}
	return &entry, nil
}
