package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventease/internal/metrics"
	"eventease/internal/middleware"
	"eventease/internal/models"
	"eventease/internal/service"
)

// ExpenseHandler serves the expense ledger and balance reports.
type ExpenseHandler struct {
	svc     *service.ExpenseService
	metrics *metrics.Metrics
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(svc *service.ExpenseService, m *metrics.Metrics) *ExpenseHandler {
	return &ExpenseHandler{svc: svc, metrics: m}
}

// Register mounts expense routes behind authentication.
func (h *ExpenseHandler) Register(r chi.Router) {
	r.Post("/", h.handleRecord)
	r.Get("/event/{eventId}", h.handleListForEvent)
	r.Get("/summary/{eventId}", h.handleSummary)
	r.Get("/total", h.handleTotal)
}

func (h *ExpenseHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	var in models.ExpenseInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}

	expense, err := h.svc.Record(r.Context(), actorID, &in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.ExpensesRecorded.Inc()
	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) handleListForEvent(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	expenses, err := h.svc.ListForEvent(r.Context(), actorID, chi.URLParam(r, "eventId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	summary, err := h.svc.Summarize(r.Context(), actorID, chi.URLParam(r, "eventId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

type totalResponse struct {
	TotalExpenses float64 `json:"totalExpenses"`
}

// handleTotal reports the caller's own cross-event total; the scope is
// always the authenticated user.
func (h *ExpenseHandler) handleTotal(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	total, err := h.svc.TotalForUser(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, totalResponse{TotalExpenses: total})
}
