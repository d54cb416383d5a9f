package repositories

import (
	"context"
	"errors"
	"time"

	"flymedia_backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Local key under which the local backend keeps the feed.
const NotificationsKey = "notifications_v1"

// NotificationRepository is the notification feed, newest first. Every
// backend rewrites or updates the whole feed on each mutation and
// serializes its own writers.
type NotificationRepository interface {
	List(ctx context.Context) ([]models.Notification, error)
	Create(ctx context.Context, fields models.NotificationFields) (*models.Notification, error)
	MarkRead(ctx context.Context, id int64) (*models.Notification, error)
	MarkAllRead(ctx context.Context) ([]models.Notification, error)
	// Delete removes id. A missing id is not an error.
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

// nextNotificationID returns the epoch millisecond of now, bumped past the
// largest id already in use.
func nextNotificationID(maxID int64, now time.Time) int64 {
	id := now.UnixMilli()
	if id <= maxID {
		id = maxID + 1
	}
	return id
}

func maxNotificationID(list []models.Notification) int64 {
	var max int64
	for _, n := range list {
		if n.ID > max {
			max = n.ID
		}
	}
	return max
}
