package models

type TaskStatus string
type TaskPriority string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusPublished  TaskStatus = "published"

	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusTodo:       {TaskStatusInProgress, TaskStatusPublished},
	TaskStatusInProgress: {TaskStatusReview, TaskStatusPublished},
	TaskStatusReview:     {TaskStatusInProgress, TaskStatusPublished},
	TaskStatusPublished:  {TaskStatusInProgress},
}

func (s TaskStatus) Valid() bool {
	_, ok := taskTransitions[s]
	return ok
}

// CanTransition reports whether a task may move from s to next.
// Staying in the same status is always allowed.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	if s == next {
		return next.Valid()
	}
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

// Rank orders priorities high first. Unknown values sort after low.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityHigh:
		return 0
	case TaskPriorityMedium:
		return 1
	case TaskPriorityLow:
		return 2
	}
	return 3
}
