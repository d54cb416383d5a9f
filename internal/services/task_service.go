package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"flymedia_backend/internal/events"
	"flymedia_backend/internal/logger"
	"flymedia_backend/internal/models"
	"flymedia_backend/internal/repositories"
	"flymedia_backend/internal/services/dto"
	"flymedia_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type TaskService interface {
	List(ctx context.Context, q dto.TaskQuery) (*dto.TaskListResponse, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	// Add returns nil without error when the title is blank.
	Add(ctx context.Context, req *dto.CreateTaskRequest) (*models.Task, error)
	Update(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	Progress(ctx context.Context) (*models.TaskProgress, error)
}

type taskService struct {
	mu           sync.Mutex
	taskRepo     repositories.TaskRepository
	publisher    events.Publisher
	seedDefaults bool
	now          func() time.Time
	newID        func() string
}

func NewTaskService(taskRepo repositories.TaskRepository, publisher events.Publisher, seedDefaults bool) TaskService {
	return &taskService{
		taskRepo:     taskRepo,
		publisher:    publisher,
		seedDefaults: seedDefaults,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

func taskStorageError(err error) error {
	return apperrors.ErrStorage(err, "task", "Unable to access tasks")
}

// load must be called with mu held.
func (s *taskService) load(ctx context.Context) ([]models.Task, error) {
	tasks, found, err := s.taskRepo.Load(ctx)
	if err != nil {
		return nil, taskStorageError(err)
	}
	if found {
		return tasks, nil
	}
	if !s.seedDefaults {
		return []models.Task{}, nil
	}

	// Seeds are stored on first read so their due dates stay fixed.
	seeded := seedTasks(s.now())
	if err := s.taskRepo.Save(ctx, seeded); err != nil {
		return nil, taskStorageError(err)
	}
	return seeded, nil
}

// save must be called with mu held.
func (s *taskService) save(ctx context.Context, tasks []models.Task) error {
	if err := s.taskRepo.Save(ctx, tasks); err != nil {
		return taskStorageError(err)
	}
	if s.publisher != nil {
		s.publisher.Publish(events.TasksUpdated)
	}
	return nil
}

func (s *taskService) List(ctx context.Context, q dto.TaskQuery) (*dto.TaskListResponse, error) {
	s.mu.Lock()
	tasks, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	view := FilterTasks(tasks, q)
	SortTasks(view, q.Sort)

	now := s.now()
	resp := &dto.TaskListResponse{
		Tasks:    make([]dto.TaskResponse, 0, len(view)),
		Progress: ComputeProgress(tasks),
	}
	for _, t := range view {
		resp.Tasks = append(resp.Tasks, dto.TaskResponse{Task: t, DaysLeft: DaysLeft(t, now)})
	}
	return resp, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, apperrors.ErrTaskNotFound
}

func (s *taskService) Add(ctx context.Context, req *dto.CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, nil
	}

	t := models.Task{
		ID:          s.newID(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Priority:    req.Priority,
		Status:      models.TaskStatusTodo,
		DueDate:     models.NormalizeDueDate(req.DueDate),
	}
	if !t.Priority.Valid() {
		t.Priority = models.TaskPriorityMedium
	}
	if req.EstimateMins != nil {
		t.EstimateMins = models.NormalizeEstimate(*req.EstimateMins)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	tasks = append([]models.Task{t}, tasks...)
	if err := s.save(ctx, tasks); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "task added", "task_id", t.ID)
	return &t, nil
}

func (s *taskService) Update(ctx context.Context, id string, req *dto.UpdateTaskRequest) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.ErrTaskNotFound
	}

	t := tasks[idx]
	if err := applyTaskPatch(&t, req); err != nil {
		return nil, err
	}
	tasks[idx] = t

	if err := s.save(ctx, tasks); err != nil {
		return nil, err
	}
	return &t, nil
}

func applyTaskPatch(t *models.Task, req *dto.UpdateTaskRequest) error {
	if req.Status != nil && *req.Status != t.Status {
		if !t.Status.CanTransition(*req.Status) {
			return apperrors.ErrInvalidStatus("task",
				fmt.Sprintf("Cannot move a task from %s to %s", t.Status, *req.Status))
		}
		t.Status = *req.Status
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return apperrors.NewBadRequestError("Title cannot be blank")
		}
		t.Title = title
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return apperrors.NewBadRequestError("Unknown priority: " + string(*req.Priority))
		}
		t.Priority = *req.Priority
	}
	if req.DueDate != nil {
		t.DueDate = models.NormalizeDueDate(req.DueDate)
	}
	if req.EstimateMins != nil {
		t.EstimateMins = models.NormalizeEstimate(*req.EstimateMins)
	}
	return nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return nil
	}
	return s.save(ctx, kept)
}

func (s *taskService) Progress(ctx context.Context) (*models.TaskProgress, error) {
	s.mu.Lock()
	tasks, err := s.load(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	p := ComputeProgress(tasks)
	return &p, nil
}
