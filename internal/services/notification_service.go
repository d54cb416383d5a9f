package services

import (
	"context"
	"errors"

	"flymedia_backend/internal/events"
	"flymedia_backend/internal/logger"
	"flymedia_backend/internal/models"
	"flymedia_backend/internal/repositories"
	"flymedia_backend/internal/services/dto"
	"flymedia_backend/pkg/apperrors"
)

type NotificationService interface {
	List(ctx context.Context) ([]models.Notification, error)
	Create(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error)
	// MarkRead returns repositories.ErrNotificationNotFound for unknown ids.
	MarkRead(ctx context.Context, id int64) (*models.Notification, error)
	MarkAllRead(ctx context.Context) ([]models.Notification, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	publisher        events.Publisher
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	publisher events.Publisher,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

func (s *notificationService) changed() {
	if s.publisher != nil {
		s.publisher.Publish(events.NotificationsUpdated)
	}
}

func storageError(err error) error {
	return apperrors.ErrStorage(err, "notification", "Unable to access notifications")
}

func (s *notificationService) List(ctx context.Context) ([]models.Notification, error) {
	list, err := s.notificationRepo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *notificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error) {
	fields := models.NotificationFields{}
	if req != nil {
		fields = models.NotificationFields{
			Title:     req.Title,
			Message:   req.Message,
			Type:      req.Type,
			ActionURL: req.ActionURL,
		}
	}

	n, err := s.notificationRepo.Create(ctx, fields)
	if err != nil {
		return nil, storageError(err)
	}

	logger.CtxInfo(ctx, "notification created", "notification_id", n.ID, "type", n.Type)
	s.changed()
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	n, err := s.notificationRepo.MarkRead(ctx, id)
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, storageError(err)
	}

	s.changed()
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) ([]models.Notification, error) {
	list, err := s.notificationRepo.MarkAllRead(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	s.changed()
	return list, nil
}

func (s *notificationService) Delete(ctx context.Context, id int64) error {
	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		return storageError(err)
	}

	s.changed()
	return nil
}

func (s *notificationService) Clear(ctx context.Context) error {
	if err := s.notificationRepo.Clear(ctx); err != nil {
		return storageError(err)
	}

	logger.CtxInfo(ctx, "notifications cleared")
	s.changed()
	return nil
}
