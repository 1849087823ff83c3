package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventease/internal/metrics"
	"eventease/internal/middleware"
	"eventease/internal/models"
	"eventease/internal/service"
)

// TaskHandler serves the task board.
type TaskHandler struct {
	svc     *service.TaskService
	metrics *metrics.Metrics
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(svc *service.TaskService, m *metrics.Metrics) *TaskHandler {
	return &TaskHandler{svc: svc, metrics: m}
}

// Register mounts task routes behind authentication.
func (h *TaskHandler) Register(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/event/{eventId}", h.handleListForEvent)
	r.Put("/{taskId}", h.handleUpdate)
	r.Delete("/{taskId}", h.handleDelete)
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var in models.TaskInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.svc.Create(r.Context(), actorID, &in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.TasksCreated.Inc()
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) handleListForEvent(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	tasks, err := h.svc.ListForEvent(r.Context(), actorID, chi.URLParam(r, "eventId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var patch models.TaskPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.svc.Update(r.Context(), actorID, chi.URLParam(r, "taskId"), &patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	if err := h.svc.Delete(r.Context(), actorID, chi.URLParam(r, "taskId")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}
