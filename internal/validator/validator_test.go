package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskInput struct {
	Title    string  `json:"title" validate:"notblank"`
	Priority string  `json:"priority" validate:"omitempty,is-task-priority"`
	Status   string  `json:"status" validate:"omitempty,is-task-status"`
	DueDate  string  `json:"dueDate" validate:"omitempty,is-due-date"`
	Estimate float64 `json:"estimateMins" validate:"min=0"`
}

type profileInput struct {
	Name  string `json:"name" validate:"is-display-name"`
	Email string `json:"email" validate:"required,email"`
	Kind  string `json:"type" validate:"omitempty,is-activity-type"`
}

func TestValidate_ProfileRules(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(profileInput{Name: " Al ", Email: "al@flymedia.kz", Kind: "upload"}))

	err := v.Validate(profileInput{Name: " A  ", Email: "not-an-email", Kind: "meeting"})
	require.Error(t, err)
	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Must be at least 2 characters long", vErr.Errors["name"])
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Contains(t, vErr.Errors, "type")
}

func TestValidate_Valid(t *testing.T) {
	v := New()
	err := v.Validate(taskInput{Title: "Reel", Priority: "high", Status: "review", DueDate: "2026-01-02"})
	assert.NoError(t, err)
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(taskInput{Title: "   ", Priority: "urgent", Status: "done", DueDate: "tomorrow", Estimate: -1})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "This field is required", vErr.Errors["title"])
	assert.Contains(t, vErr.Errors, "priority")
	assert.Contains(t, vErr.Errors, "status")
	assert.Contains(t, vErr.Errors, "dueDate")
	assert.Contains(t, vErr.Errors, "estimateMins")
}
