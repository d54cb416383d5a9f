package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flymedia_backend/internal/models"

	"gorm.io/gorm"
)

// gormNotificationRepository keeps the feed in the notifications table.
type gormNotificationRepository struct {
	db  *gorm.DB
	mu  sync.Mutex // guards id allocation
	now func() time.Time
}

func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db, now: time.Now}
}

func (r *gormNotificationRepository) List(ctx context.Context) ([]models.Notification, error) {
	list := []models.Notification{}
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return list, nil
}

func (r *gormNotificationRepository) Create(ctx context.Context, fields models.NotificationFields) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		if err := tx.Model(&models.Notification{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}

		now := r.now()
		n = models.NewNotification(nextNotificationID(maxID, now), now, fields)
		return tx.Create(&n).Error
	})
	if err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}
	return &n, nil
}

func (r *gormNotificationRepository) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&n, "id = ?", id).Error; err != nil {
			return err
		}
		n.Read = true
		return tx.Model(&n).Update("read", true).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("marking notification %d read: %w", id, err)
	}
	return &n, nil
}

func (r *gormNotificationRepository) MarkAllRead(ctx context.Context) ([]models.Notification, error) {
	list := []models.Notification{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error; err != nil {
			return err
		}
		return tx.Order("id DESC").Find(&list).Error
	})
	if err != nil {
		return nil, fmt.Errorf("marking all notifications read: %w", err)
	}
	return list, nil
}

func (r *gormNotificationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting notification %d: %w", id, err)
	}
	return nil
}

func (r *gormNotificationRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Notification{}).Error; err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	return nil
}
