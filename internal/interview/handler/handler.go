// Package handler exposes the interview chat over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"souzoku/internal/audit"
	"souzoku/internal/interview"
	"souzoku/internal/transport/http/shared"
	domainerrors "souzoku/pkg/domain-errors"
	"souzoku/pkg/requestcontext"
)

// Handler handles the per-case interview chat endpoint.
type Handler struct {
	logger  *slog.Logger
	manager *interview.Manager
	audit   *audit.Publisher
}

// New creates an interview Handler. The audit publisher may be nil.
func New(manager *interview.Manager, logger *slog.Logger, publisher *audit.Publisher) *Handler {
	return &Handler{logger: logger, manager: manager, audit: publisher}
}

// ChatRequest is one user message; empty starts the interview.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the next question and interview progress.
type ChatResponse struct {
	Reply     string          `json:"reply"`
	State     interview.State `json:"state"`
	Completed bool            `json:"completed"`
}

// Register registers the chat routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/cases/{caseID}/chat", h.handleChat)
	r.Delete("/cases/{caseID}/chat", h.handleReset)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := uuid.Parse(chi.URLParam(r, "caseID"))
	if err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid case id"))
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	_, existed := h.manager.Session(caseID)

	reply, state, err := h.manager.Respond(ctx, caseID, req.Message)
	if err != nil {
		h.logger.WarnContext(ctx, "interview turn failed", "case_id", caseID.String(), "error", err)
		shared.WriteError(w, err)
		return
	}

	if !existed && h.audit != nil {
		auditErr := h.audit.Emit(ctx, audit.Event{
			Action:    audit.ActionInterviewStarted,
			CaseID:    caseID,
			RequestID: requestcontext.RequestID(ctx),
		})
		if auditErr != nil {
			h.logger.WarnContext(ctx, "audit emit failed", "error", auditErr)
		}
	}

	shared.WriteJSON(w, http.StatusOK, ChatResponse{
		Reply:     reply,
		State:     state,
		Completed: state == interview.StateCompleted,
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(chi.URLParam(r, "caseID"))
	if err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid case id"))
		return
	}
	h.manager.Reset(caseID)
	w.WriteHeader(http.StatusNoContent)
}
