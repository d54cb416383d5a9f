package dto

// ---------------- Requests ----------------

// CreateNotificationRequest: every field is optional; missing ones get
// the feed defaults.
type CreateNotificationRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Message   *string `json:"message" validate:"omitempty,max=2000"`
	Type      *string `json:"type" validate:"omitempty,max=50"`
	ActionURL *string `json:"action_url" validate:"omitempty,max=2048"`
}
