package models

import "time"

type ActivityType string

const (
	ActivityUpload  ActivityType = "upload"
	ActivityTask    ActivityType = "task"
	ActivityComment ActivityType = "comment"
	ActivityProfile ActivityType = "profile"
	ActivityProject ActivityType = "project"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityUpload, ActivityTask, ActivityComment, ActivityProfile, ActivityProject:
		return true
	}
	return false
}

// Activity is one line of the "Recent Activity" feed, kept oldest first.
type Activity struct {
	ID        int64        `json:"id"`
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}
