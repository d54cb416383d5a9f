package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"flymedia_backend/internal/events"
	"flymedia_backend/internal/logger"
	"flymedia_backend/internal/models"
	"flymedia_backend/internal/repositories"
	"flymedia_backend/internal/services/dto"
	"flymedia_backend/pkg/apperrors"
)

type ProfileService interface {
	// Get returns the saved profile, or an unsaved default one.
	Get(ctx context.Context) (*models.Profile, error)
	// Save keeps the first memberSince and announces the change in the
	// notification and activity feeds.
	Save(ctx context.Context, req *dto.UpdateProfileRequest) (*models.Profile, error)
	// Logout forgets the saved profile only.
	Logout(ctx context.Context) error
}

type profileService struct {
	mu            sync.Mutex
	profileRepo   repositories.ProfileRepository
	notifications NotificationService
	activity      ActivityService
	publisher     events.Publisher
	now           func() time.Time
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	notifications NotificationService,
	activity ActivityService,
	publisher events.Publisher,
) ProfileService {
	return &profileService{
		profileRepo:   profileRepo,
		notifications: notifications,
		activity:      activity,
		publisher:     publisher,
		now:           time.Now,
	}
}

func profileStorageError(err error) error {
	return apperrors.ErrStorage(err, "profile", "Unable to access the profile")
}

func (s *profileService) Get(ctx context.Context) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, found, err := s.profileRepo.Load(ctx)
	if err != nil {
		return nil, profileStorageError(err)
	}
	if !found {
		def := models.DefaultProfile(s.now())
		return &def, nil
	}
	return p, nil
}

func (s *profileService) Save(ctx context.Context, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, found, err := s.profileRepo.Load(ctx)
	if err != nil {
		return nil, profileStorageError(err)
	}
	if !found {
		def := models.DefaultProfile(s.now())
		current = &def
	}

	p := *current
	p.Name = strings.TrimSpace(req.Name)
	p.Email = strings.TrimSpace(req.Email)
	p.Company = strings.TrimSpace(req.Company)
	p.AvatarDataURL = req.AvatarDataURL
	if req.EmailNotifications != nil {
		p.EmailNotifications = *req.EmailNotifications
	}
	if req.PushNotifications != nil {
		p.PushNotifications = *req.PushNotifications
	}
	if p.MemberSince.IsZero() {
		p.MemberSince = s.now().UTC().Truncate(time.Millisecond)
	}

	if err := s.profileRepo.Save(ctx, &p); err != nil {
		return nil, profileStorageError(err)
	}
	logger.CtxInfo(ctx, "profile saved")
	if s.publisher != nil {
		s.publisher.Publish(events.ProfileUpdated)
	}
	s.announce(ctx)
	return &p, nil
}

// announce only logs failures; the profile is already saved.
func (s *profileService) announce(ctx context.Context) {
	if s.notifications != nil {
		title, message, kind := "Profile updated", "Your profile information was updated", string(models.ActivityProfile)
		_, err := s.notifications.Create(ctx, &dto.CreateNotificationRequest{Title: &title, Message: &message, Type: &kind})
		if err != nil {
			logger.CtxWithError(ctx, "failed to add profile notification", err)
		}
	}
	if s.activity != nil {
		if _, err := s.activity.Record(ctx, models.ActivityProfile, "Updated profile information"); err != nil {
			logger.CtxWithError(ctx, "failed to record profile activity", err)
		}
	}
}

func (s *profileService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.profileRepo.Remove(ctx); err != nil {
		return profileStorageError(err)
	}
	logger.CtxInfo(ctx, "profile removed")
	if s.publisher != nil {
		s.publisher.Publish(events.ProfileUpdated)
	}
	return nil
}
