package integration_test

import (
	"net/http"
	"testing"

	"flymedia_backend/internal/config"
	"flymedia_backend/internal/models"
	"flymedia_backend/internal/services/dto"
	"flymedia_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listTasks(t *testing.T, ts *helpers.TestServer, query string) dto.TaskListResponse {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodGet, "/api/tasks"+query, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var resp dto.TaskListResponse
	helpers.DecodeJSON(t, body, &resp)
	return resp
}

func taskIDs(tasks []dto.TaskResponse) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestTask_SeededBoard(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	resp := listTasks(t, ts, "")
	assert.ElementsMatch(t, []string{"t1", "t2", "t3", "t4"}, taskIDs(resp.Tasks))
	assert.Equal(t, models.TaskProgress{Completed: 1, Total: 4, ProgressPct: 25}, resp.Progress)

	for _, task := range resp.Tasks {
		require.NotNil(t, task.DaysLeft, task.ID)
	}
}

func TestTask_EmptyBoardWithoutSeed(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t, func(cfg *config.Config) {
		cfg.Tasks.SeedDefaults = false
	})

	resp := listTasks(t, ts, "")
	assert.Empty(t, resp.Tasks)
	assert.Equal(t, 0, resp.Progress.ProgressPct)
}

func TestTask_FilterAndSort(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	resp := listTasks(t, ts, "?priority=medium&sort=title")
	assert.Equal(t, []string{"t2", "t4"}, taskIDs(resp.Tasks))
	// Progress always covers the whole board.
	assert.Equal(t, 4, resp.Progress.Total)

	resp = listTasks(t, ts, "?status=review")
	assert.Equal(t, []string{"t3"}, taskIDs(resp.Tasks))

	resp = listTasks(t, ts, "?q=TESTIMONIAL")
	assert.Equal(t, []string{"t2"}, taskIDs(resp.Tasks))

	resp = listTasks(t, ts, "?q=tiktok")
	assert.Equal(t, []string{"t3"}, taskIDs(resp.Tasks))

	resp = listTasks(t, ts, "?sort=priority")
	assert.Equal(t, []string{"t1", "t2", "t4", "t3"}, taskIDs(resp.Tasks))

	resp = listTasks(t, ts, "?sort=due")
	assert.Equal(t, []string{"t4", "t3", "t1", "t2"}, taskIDs(resp.Tasks))

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/tasks?sort=random", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestTask_Lifecycle(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t, func(cfg *config.Config) {
		cfg.Tasks.SeedDefaults = false
	})

	// 1. Blank title is rejected
	res, body := ts.SendRequest(t, http.MethodPost, "/api/tasks", map[string]string{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	// 2. Create with defaults
	res, body = ts.SendRequest(t, http.MethodPost, "/api/tasks", map[string]interface{}{
		"title":        "  Launch teaser  ",
		"dueDate":      "2030-01-15",
		"estimateMins": 25,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var task models.Task
	helpers.DecodeJSON(t, body, &task)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Launch teaser", task.Title)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2030-01-15T00:00:00Z", *task.DueDate)
	assert.Equal(t, 25.0, task.EstimateMins)

	// 3. Illegal transition todo -> review
	res, body = ts.SendRequest(t, http.MethodPatch, "/api/tasks/"+task.ID, map[string]string{"status": "review"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
	assert.Contains(t, body, "INVALID_STATUS")

	// 4. Legal transitions todo -> in_progress -> review -> published
	for _, status := range []string{"in_progress", "review", "published"} {
		res, body = ts.SendRequest(t, http.MethodPatch, "/api/tasks/"+task.ID, map[string]string{"status": status})
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		helpers.DecodeJSON(t, body, &task)
		assert.Equal(t, models.TaskStatus(status), task.Status)
	}

	res, body = ts.SendRequest(t, http.MethodGet, "/api/tasks/progress", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"completed":1,"total":1,"progressPct":100}`, body)

	// 5. Clearing the due date
	res, body = ts.SendRequest(t, http.MethodPatch, "/api/tasks/"+task.ID, map[string]string{"dueDate": ""})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	helpers.DecodeJSON(t, body, &task)
	assert.Nil(t, task.DueDate)

	// 6. Get, delete, get again
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestTask_UnknownTask(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodPatch, "/api/tasks/missing", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// Deleting an unknown id is a no-op.
	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/tasks/missing", nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestTask_InvalidPayload(t *testing.T) {
	t.Parallel()
	ts := helpers.NewTestServer(t)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/tasks", map[string]string{"title": "ok", "priority": "urgent"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/tasks", map[string]string{"title": "ok", "dueDate": "next week"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPatch, "/api/tasks/t1", map[string]string{"status": "done"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
