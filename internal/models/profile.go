package models

import "time"

// Profile is the single dashboard user's account card.
type Profile struct {
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Company            string    `json:"company"`
	AvatarDataURL      *string   `json:"avatarDataUrl"`
	EmailNotifications bool      `json:"emailNotifications"`
	PushNotifications  bool      `json:"pushNotifications"`
	MemberSince        time.Time `json:"memberSince"`
}

// DefaultProfile is shown until a profile has been saved.
func DefaultProfile(now time.Time) Profile {
	return Profile{
		EmailNotifications: true,
		PushNotifications:  true,
		MemberSince:        now.UTC().Truncate(time.Millisecond),
	}
}
