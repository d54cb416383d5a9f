package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flymedia_backend/internal/localstore"
	"flymedia_backend/internal/logger"
	"flymedia_backend/internal/models"
)

// Local key under which the task board is kept.
const TasksKey = "fm_tasks_v1"

// TaskRepository loads and saves the whole task board. Callers serialize
// their read-modify-write cycles.
type TaskRepository interface {
	// Load returns found=false when the board has never been saved or the
	// stored value is unreadable.
	Load(ctx context.Context) (tasks []models.Task, found bool, err error)
	Save(ctx context.Context, tasks []models.Task) error
}

type localTaskRepository struct {
	blob blob
}

func NewTaskRepository(store *localstore.Store) TaskRepository {
	return &localTaskRepository{blob: localBlob{store: store, key: TasksKey}}
}

func (r *localTaskRepository) Load(ctx context.Context) ([]models.Task, bool, error) {
	data, err := r.blob.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		logger.CtxWarn(ctx, "task board unreadable, ignoring stored value", "key", TasksKey, "error", err.Error())
		return nil, false, nil
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, true, nil
}

func (r *localTaskRepository) Save(ctx context.Context, tasks []models.Task) error {
	start := time.Now()
	if tasks == nil {
		tasks = []models.Task{}
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	err = r.blob.Save(ctx, data)
	logger.StoreLog("tasks", "save", time.Since(start), err)
	return err
}
