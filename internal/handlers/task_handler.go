package handlers

import (
	"net/http"

	"flymedia_backend/internal/services"
	"flymedia_backend/internal/services/dto"
	"flymedia_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	*BaseHandler
	taskService services.TaskService
}

func NewTaskHandler(base *BaseHandler, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		BaseHandler: base,
		taskService: taskService,
	}
}

func (h *TaskHandler) RegisterRoutes(r *gin.RouterGroup) {
	tasks := r.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/progress", h.GetProgress)
		tasks.GET("/:id", h.GetTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}

// ListTasks returns the filtered, sorted view plus progress over the whole board.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var query dto.TaskQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.taskService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	task, err := h.taskService.Add(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if task == nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Title is required"))
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) GetProgress(c *gin.Context) {
	progress, err := h.taskService.Progress(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
