package models

import (
	"time"
)

// Notification is one entry of the dashboard notification feed. IDs are
// epoch milliseconds and the feed is kept newest first.
type Notification struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Title     string    `json:"title" gorm:"not null"`
	Message   string    `json:"message"`
	Type      string    `json:"type" gorm:"not null;default:'info'"`
	ActionURL *string   `json:"action_url"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
}

const (
	DefaultNotificationTitle = "Notification"
	DefaultNotificationType  = "info"
)

// NotificationFields holds the optional caller-supplied fields of a new
// notification. Nil means "use the default".
type NotificationFields struct {
	Title     *string
	Message   *string
	Type      *string
	ActionURL *string
}

// NewNotification applies the defaults to f.
func NewNotification(id int64, createdAt time.Time, f NotificationFields) Notification {
	n := Notification{
		ID:        id,
		Title:     DefaultNotificationTitle,
		Type:      DefaultNotificationType,
		CreatedAt: createdAt.UTC().Truncate(time.Millisecond),
	}
	if f.Title != nil && *f.Title != "" {
		n.Title = *f.Title
	}
	if f.Message != nil {
		n.Message = *f.Message
	}
	if f.Type != nil && *f.Type != "" {
		n.Type = *f.Type
	}
	if f.ActionURL != nil && *f.ActionURL != "" {
		url := *f.ActionURL
		n.ActionURL = &url
	}
	return n
}
