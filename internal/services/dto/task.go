package dto

import "flymedia_backend/internal/models"

// ---------------- Requests ----------------

type CreateTaskRequest struct {
	Title        string              `json:"title" validate:"notblank,max=200"`
	Description  string              `json:"description" validate:"max=5000"`
	Priority     models.TaskPriority `json:"priority" validate:"omitempty,is-task-priority"`
	DueDate      *string             `json:"dueDate" validate:"omitempty,is-due-date"`
	EstimateMins *float64            `json:"estimateMins" validate:"omitempty,min=0"`
}

// UpdateTaskRequest is a partial patch. An empty dueDate clears the date.
type UpdateTaskRequest struct {
	Title        *string              `json:"title" validate:"omitempty,notblank,max=200"`
	Description  *string              `json:"description" validate:"omitempty,max=5000"`
	Priority     *models.TaskPriority `json:"priority" validate:"omitempty,is-task-priority"`
	Status       *models.TaskStatus   `json:"status" validate:"omitempty,is-task-status"`
	DueDate      *string              `json:"dueDate" validate:"omitempty,is-due-date"`
	EstimateMins *float64             `json:"estimateMins" validate:"omitempty,min=0"`
}

// TaskQuery selects the derived view of the board. "all" or an empty
// value disables a filter.
type TaskQuery struct {
	Query    string `form:"q" json:"q"`
	Priority string `form:"priority" json:"priority" validate:"omitempty,oneof=all high medium low"`
	Status   string `form:"status" json:"status" validate:"omitempty,oneof=all todo in_progress review published"`
	Sort     string `form:"sort" json:"sort" validate:"omitempty,oneof=due priority title"`
}

// ---------------- Responses ----------------

type TaskResponse struct {
	models.Task
	// Whole days until the due date, negative when overdue.
	DaysLeft *int `json:"daysLeft"`
}

type TaskListResponse struct {
	Tasks    []TaskResponse      `json:"tasks"`
	Progress models.TaskProgress `json:"progress"`
}
