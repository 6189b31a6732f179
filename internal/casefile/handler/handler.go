// Package handler exposes case management over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"souzoku/internal/casefile/service"
	"souzoku/internal/familytree"
	"souzoku/internal/transport/http/shared"
	domainerrors "souzoku/pkg/domain-errors"
)

// Handler handles case CRUD, person and relationship sub-resources, and the
// family tree read endpoint.
type Handler struct {
	logger  *slog.Logger
	service *service.Service
}

// New creates a case Handler.
func New(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the case routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/cases", func(r chi.Router) {
		r.Post("/", h.handleCreateCase)
		r.Get("/", h.handleListCases)
		r.Route("/{caseID}", func(r chi.Router) {
			r.Get("/", h.handleGetCase)
			r.Patch("/", h.handleUpdateCase)
			r.Delete("/", h.handleDeleteCase)
			r.Post("/persons", h.handleAddPerson)
			r.Get("/persons", h.handleListPersons)
			r.Post("/relationships", h.handleAddRelationship)
			r.Get("/relationships", h.handleListRelationships)
			r.Get("/family-tree", h.handleFamilyTree)
		})
	})
}

func (h *Handler) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	c, decedent, err := h.service.CreateCase(ctx, req.toParams())
	if err != nil {
		h.logError(ctx, "create case failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, CreateCaseResponse{Case: c, Decedent: decedent})
}

func (h *Handler) handleListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.service.ListCases(r.Context())
	if err != nil {
		h.logError(r.Context(), "list cases failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, ListCasesResponse{Cases: cases, Total: len(cases)})
}

func (h *Handler) handleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	c, err := h.service.GetCase(r.Context(), caseID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleUpdateCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}

	var req UpdateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	c, err := h.service.UpdateCase(r.Context(), caseID, req.toParams())
	if err != nil {
		h.logError(r.Context(), "update case failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDeleteCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCase(r.Context(), caseID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}

	var req AddPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	person, err := h.service.AddPerson(r.Context(), caseID, req.toParams())
	if err != nil {
		h.logError(r.Context(), "add person failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, person)
}

func (h *Handler) handleListPersons(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	persons, err := h.service.ListPersons(r.Context(), caseID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, PersonsResponse{Persons: persons, Total: len(persons)})
}

func (h *Handler) handleAddRelationship(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}

	var req AddRelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.service.AddRelationship(r.Context(), caseID, req.toModel()); err != nil {
		h.logError(r.Context(), "add relationship failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleListRelationships(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	rels, err := h.service.ListRelationships(r.Context(), caseID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, RelationshipsResponse{Relationships: rels, Total: len(rels)})
}

func (h *Handler) handleFamilyTree(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseID(w, r)
	if !ok {
		return
	}
	persons, rels, err := h.service.FamilyTree(r.Context(), caseID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, FamilyTreeResponse{
		Persons:       persons,
		Relationships: rels,
		ASCII:         familytree.ASCII(persons, rels),
		Mermaid:       familytree.Mermaid(persons, rels),
	})
}

func (h *Handler) caseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "caseID"))
	if err != nil {
		shared.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid case id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg, "error", err)
}
