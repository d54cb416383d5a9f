package services

import (
	"context"
	"testing"
	"time"

	"flymedia_backend/internal/events"
	"flymedia_backend/internal/localstore"
	"flymedia_backend/internal/models"
	"flymedia_backend/internal/repositories"
	"flymedia_backend/internal/services/dto"
	"flymedia_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(t *testing.T, seed bool) (TaskService, *events.Bus, *localstore.Store) {
	t.Helper()
	store, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	bus := events.NewBus()
	return NewTaskService(repositories.NewTaskRepository(store), bus, seed), bus, store
}

func TestTaskService_SeedsOnlyWhenNothingSaved(t *testing.T) {
	ctx := context.Background()

	svc, _, _ := newTaskService(t, true)
	list, err := svc.List(ctx, dto.TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Tasks, 4)
	assert.Equal(t, 25, list.Progress.ProgressPct)

	empty, _, _ := newTaskService(t, false)
	list, err = empty.List(ctx, dto.TaskQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Tasks)
	assert.NotNil(t, list.Tasks)
}

func TestTaskService_SeedDueDatesStayFixed(t *testing.T) {
	ctx := context.Background()
	svc, bus, store := newTaskService(t, true)
	ch := bus.Subscribe(events.TasksUpdated)

	day0 := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	svc.(*taskService).now = func() time.Time { return day0 }

	first, err := svc.List(ctx, dto.TaskQuery{})
	require.NoError(t, err)

	_, ok, err := store.GetItem(ctx, repositories.TasksKey)
	require.NoError(t, err)
	assert.True(t, ok)

	svc.(*taskService).now = func() time.Time { return day0.AddDate(0, 0, 5) }
	later, err := svc.List(ctx, dto.TaskQuery{})
	require.NoError(t, err)

	byID := func(list *dto.TaskListResponse, id string) dto.TaskResponse {
		for _, task := range list.Tasks {
			if task.ID == id {
				return task
			}
		}
		t.Fatalf("task %s not listed", id)
		return dto.TaskResponse{}
	}
	a, b := byID(first, "t1"), byID(later, "t1")
	require.NotNil(t, a.DueDate)
	assert.Equal(t, "2026-10-18T12:00:00Z", *a.DueDate)
	assert.Equal(t, *a.DueDate, *b.DueDate)
	assert.Equal(t, 2, *a.DaysLeft)
	assert.Equal(t, -3, *b.DaysLeft)

	select {
	case e := <-ch:
		t.Fatalf("unexpected event %s while seeding", e.Topic)
	default:
	}
}

func TestTaskService_AddPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	svc, bus, store := newTaskService(t, true)
	ch := bus.Subscribe(events.TasksUpdated)

	estimate := -5.0
	task, err := svc.Add(ctx, &dto.CreateTaskRequest{
		Title:        "  Launch teaser  ",
		Description:  " short cut ",
		DueDate:      ptr("2026-04-01"),
		EstimateMins: &estimate,
	})
	require.NoError(t, err)
	require.NotNil(t, task)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Launch teaser", task.Title)
	assert.Equal(t, "short cut", task.Description)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Equal(t, "2026-04-01T00:00:00Z", *task.DueDate)
	assert.Equal(t, 0.0, task.EstimateMins)

	select {
	case e := <-ch:
		assert.Equal(t, events.TasksUpdated, e.Topic)
	case <-time.After(time.Second):
		t.Fatal("expected tasksUpdated")
	}

	// a fresh service over the same store sees the saved board
	reloaded := NewTaskService(repositories.NewTaskRepository(store), nil, true)
	list, err := reloaded.List(ctx, dto.TaskQuery{})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 5)
	assert.Equal(t, task.ID, list.Tasks[0].ID)
}

func TestTaskService_AddBlankTitleIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTaskService(t, false)

	task, err := svc.Add(ctx, &dto.CreateTaskRequest{Title: "   "})
	require.NoError(t, err)
	assert.Nil(t, task)

	_, ok, err := store.GetItem(ctx, repositories.TasksKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskService_UpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTaskService(t, true)

	review := models.TaskStatusReview
	_, err := svc.Update(ctx, "t1", &dto.UpdateTaskRequest{Status: &review})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)

	inProgress := models.TaskStatusInProgress
	task, err := svc.Update(ctx, "t1", &dto.UpdateTaskRequest{Status: &inProgress})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, task.Status)

	task, err = svc.Update(ctx, "t1", &dto.UpdateTaskRequest{Status: &review})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusReview, task.Status)

	published := models.TaskStatusPublished
	task, err = svc.Update(ctx, "t1", &dto.UpdateTaskRequest{Status: &published})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPublished, task.Status)

	p, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 50, p.ProgressPct)
}

func TestTaskService_UpdateMergesPatch(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTaskService(t, true)

	high := models.TaskPriorityHigh
	estimate := 45.0
	task, err := svc.Update(ctx, "t3", &dto.UpdateTaskRequest{
		Title:        ptr("BTS Cut v2"),
		Priority:     &high,
		DueDate:      ptr(""),
		EstimateMins: &estimate,
	})
	require.NoError(t, err)
	assert.Equal(t, "BTS Cut v2", task.Title)
	assert.Equal(t, "Quick BTS of the shoot day for TikTok.", task.Description)
	assert.Equal(t, models.TaskPriorityHigh, task.Priority)
	assert.Equal(t, models.TaskStatusReview, task.Status)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, 45.0, task.EstimateMins)

	got, err := svc.Get(ctx, "t3")
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestTaskService_UpdateUnknownID(t *testing.T) {
	svc, _, _ := newTaskService(t, true)
	_, err := svc.Update(context.Background(), "missing", &dto.UpdateTaskRequest{})
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTaskService(t, true)

	require.NoError(t, svc.Delete(ctx, "missing"))
	require.NoError(t, svc.Delete(ctx, "t2"))

	list, err := svc.List(ctx, dto.TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Tasks, 3)
	for _, task := range list.Tasks {
		assert.NotEqual(t, "t2", task.ID)
	}
}

func TestTaskService_ListView(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTaskService(t, true)

	list, err := svc.List(ctx, dto.TaskQuery{Sort: "due"})
	require.NoError(t, err)
	var ids []string
	for _, task := range list.Tasks {
		ids = append(ids, task.ID)
		assert.NotNil(t, task.DaysLeft)
	}
	assert.Equal(t, []string{"t4", "t3", "t1", "t2"}, ids)

	list, err = svc.List(ctx, dto.TaskQuery{Query: "testim"})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "t2", list.Tasks[0].ID)
	assert.Equal(t, 4, list.Progress.Total)
}
