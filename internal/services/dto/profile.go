package dto

import "flymedia_backend/internal/models"

// UpdateProfileRequest replaces the saved profile. Missing notification
// switches keep their current value.
type UpdateProfileRequest struct {
	Name               string  `json:"name" validate:"is-display-name,max=100"`
	Email              string  `json:"email" validate:"required,email,max=254"`
	Company            string  `json:"company" validate:"max=200"`
	AvatarDataURL      *string `json:"avatarDataUrl" validate:"omitempty,startswith=data:image/,max=5000000"`
	EmailNotifications *bool   `json:"emailNotifications"`
	PushNotifications  *bool   `json:"pushNotifications"`
}

type CreateActivityRequest struct {
	Type    models.ActivityType `json:"type" validate:"required,is-activity-type"`
	Message string              `json:"message" validate:"notblank,max=500"`
}
