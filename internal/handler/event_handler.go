package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventease/internal/metrics"
	"eventease/internal/middleware"
	"eventease/internal/models"
	"eventease/internal/service"
)

// EventHandler serves event CRUD and membership endpoints.
type EventHandler struct {
	svc     *service.EventService
	metrics *metrics.Metrics
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(svc *service.EventService, m *metrics.Metrics) *EventHandler {
	return &EventHandler{svc: svc, metrics: m}
}

// Register mounts event routes. The parent router applies authentication,
// so every request carries a user ID in its context.
func (h *EventHandler) Register(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Post("/{id}/join", h.handleJoin)
	r.Post("/{id}/join-request", h.handleRequestJoin)
	r.Post("/{id}/approve/{userId}", h.handleApprove)
	r.Post("/{id}/participants", h.handleAddParticipant)
	r.Delete("/{id}/participants/{userId}", h.handleRemoveParticipant)
}

func (h *EventHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var in models.CreateEventInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.Create(r.Context(), actorID, &in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.EventsCreated.Inc()
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) handleList(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	events, err := h.svc.ListForUser(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	event, err := h.svc.Get(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var patch models.EventPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.Update(r.Context(), actorID, chi.URLParam(r, "id"), &patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) handleJoin(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	result, err := h.svc.Join(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Status == service.JoinedDirectly {
		h.metrics.MembersJoined.Inc()
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *EventHandler) handleRequestJoin(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	result, err := h.svc.RequestJoin(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Status == service.JoinedDirectly {
		h.metrics.MembersJoined.Inc()
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *EventHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	event, err := h.svc.Approve(r.Context(), actorID, chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.JoinRequestsApproved.Inc()
	writeJSON(w, http.StatusOK, event)
}

type addParticipantRequest struct {
	UserEmail string      `json:"userEmail"`
	Role      models.Role `json:"role,omitempty"`
}

func (h *EventHandler) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var req addParticipantRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.AddParticipantByEmail(r.Context(), actorID, chi.URLParam(r, "id"), req.UserEmail, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.MembersJoined.Inc()
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	event, err := h.svc.RemoveParticipant(r.Context(), actorID, chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}
