package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/service"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      log.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := h.taskService.Create(r.Context(), service.CreateTaskInput{
		OwnerID:     identity.SubjectID,
		OwnerEmail:  identity.Email,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		FilePayload: req.File,
		FileName:    req.FileName,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("user_id", identity.SubjectID))

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	tasks, err := h.taskService.List(r.Context(), identity.SubjectID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks))}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, taskToResponse(task))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetTask handles GET /api/tasks/{taskID} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID := chi.URLParam(r, "taskID")
	if taskID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	task, err := h.taskService.Get(r.Context(), taskID, identity.SubjectID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{taskID} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID := chi.URLParam(r, "taskID")
	if taskID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}

	changes, err := h.taskService.Update(
		r.Context(), taskID, identity.SubjectID, identity.Email, patch)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("task updated",
		slog.String("task_id", taskID),
		slog.String("user_id", identity.SubjectID),
		slog.Any("changed_fields", changes.Fields()))

	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.MessageResponse{Message: "Task updated"})
}

// DeleteTask handles DELETE /api/tasks/{taskID} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID := chi.URLParam(r, "taskID")
	if taskID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task ID is required")
		return
	}

	if err := h.taskService.Delete(r.Context(), taskID, identity.SubjectID, identity.Email); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("task deleted",
		slog.String("task_id", taskID),
		slog.String("user_id", identity.SubjectID))

	shared.RespondWithJSON(w, r, http.StatusOK,
		shared.MessageResponse{Message: "Task deleted"})
}
