package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"flymedia_backend/internal/models"
	"flymedia_backend/internal/services/dto"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterTasks returns the tasks matching q, in their board order.
func FilterTasks(tasks []models.Task, q dto.TaskQuery) []models.Task {
	needle := strings.ToLower(strings.TrimSpace(q.Query))

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		if q.Priority != "" && q.Priority != "all" && string(t.Priority) != q.Priority {
			continue
		}
		if q.Status != "" && q.Status != "all" && string(t.Status) != q.Status {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTasks orders tasks in place. Unknown keys leave the order unchanged.
//
//	due      ascending due date, undated tasks last
//	priority high, medium, low
//	title    English collation
func SortTasks(tasks []models.Task, by string) {
	switch by {
	case "due":
		sort.SliceStable(tasks, func(i, j int) bool {
			a, aok := tasks[i].Due()
			b, bok := tasks[j].Due()
			if aok != bok {
				return aok
			}
			return aok && a.Before(b)
		})
	case "priority":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
		})
	case "title":
		col := collate.New(language.English)
		sort.SliceStable(tasks, func(i, j int) bool {
			return col.CompareString(tasks[i].Title, tasks[j].Title) < 0
		})
	}
}

// ComputeProgress counts published tasks over the whole board.
func ComputeProgress(tasks []models.Task) models.TaskProgress {
	p := models.TaskProgress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status == models.TaskStatusPublished {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.ProgressPct = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

// DaysLeft is the number of calendar days between now and the task's due
// date, or nil when the task has none.
func DaysLeft(t models.Task, now time.Time) *int {
	due, ok := t.Due()
	if !ok {
		return nil
	}
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(math.Round(dueDay.Sub(today).Hours() / 24))
	return &days
}

// seedTasks is the starter board shown before anything has been saved.
func seedTasks(now time.Time) []models.Task {
	due := func(days int) *string {
		s := now.UTC().Add(time.Duration(days) * 24 * time.Hour).Format(time.RFC3339)
		return &s
	}
	return []models.Task{
		{
			ID:           "t1",
			Title:        "Product Benefit Reel",
			Description:  "Create a 30-second reel highlighting your main product benefit.",
			Priority:     models.TaskPriorityHigh,
			Status:       models.TaskStatusTodo,
			DueDate:      due(2),
			EstimateMins: 15,
		},
		{
			ID:           "t2",
			Title:        "Client Testimonial",
			Description:  "Collect and edit a short client testimonial video.",
			Priority:     models.TaskPriorityMedium,
			Status:       models.TaskStatusInProgress,
			DueDate:      due(4),
			EstimateMins: 30,
		},
		{
			ID:           "t3",
			Title:        "Behind-the-Scenes Cut",
			Description:  "Quick BTS of the shoot day for TikTok.",
			Priority:     models.TaskPriorityLow,
			Status:       models.TaskStatusReview,
			DueDate:      due(1),
			EstimateMins: 10,
		},
		{
			ID:           "t4",
			Title:        "Industry Tip (YouTube Short)",
			Description:  "Record a 45-60s tip relevant to your niche.",
			Priority:     models.TaskPriorityMedium,
			Status:       models.TaskStatusPublished,
			DueDate:      due(-2),
			EstimateMins: 20,
		},
	}
}
