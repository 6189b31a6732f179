// Package service orchestrates case lifecycle management: CRUD for cases,
// persons, and relationships, with validation at the boundary so stores
// stay dumb.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"souzoku/internal/audit"
	"souzoku/internal/casefile/models"
	"souzoku/internal/era"
	"souzoku/internal/platform/metrics"
	domainerrors "souzoku/pkg/domain-errors"
	"souzoku/pkg/platform/sentinel"
	"souzoku/pkg/requestcontext"
)

// Store is the persistence boundary for cases. Implementations return
// sentinel errors; the service translates them into coded domain errors.
type Store interface {
	CreateCase(ctx context.Context, c *models.Case) error
	FindCase(ctx context.Context, id uuid.UUID) (*models.Case, error)
	ListCases(ctx context.Context) ([]*models.Case, error)
	UpdateCase(ctx context.Context, c *models.Case) error
	DeleteCase(ctx context.Context, id uuid.UUID) error

	CreatePerson(ctx context.Context, p *models.PersonRecord) error
	FindPerson(ctx context.Context, id uuid.UUID) (*models.PersonRecord, error)
	ListPersons(ctx context.Context, caseID uuid.UUID) ([]*models.PersonRecord, error)

	CreateRelationship(ctx context.Context, r *models.Relationship) error
	ListRelationships(ctx context.Context, caseID uuid.UUID) ([]*models.Relationship, error)
}

// Invalidator drops cached calculation results when a case changes.
type Invalidator interface {
	InvalidateCase(ctx context.Context, caseID uuid.UUID)
}

// Service manages inheritance cases.
type Service struct {
	store       Store
	logger      *slog.Logger
	metrics     *metrics.Metrics
	audit       *audit.Publisher
	invalidator Invalidator
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

func WithInvalidator(inv Invalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

// New creates a case service.
func New(store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCaseParams carries the fields of a case-creation request. The
// decedent person record is created together with the case, mirroring how
// cases are opened in practice.
type CreateCaseParams struct {
	Title        string
	Description  string
	DecedentName string
	DeathDate    string
}

// CreateCase opens a new case and its decedent record.
func (s *Service) CreateCase(ctx context.Context, params CreateCaseParams) (*models.Case, *models.PersonRecord, error) {
	if strings.TrimSpace(params.DecedentName) == "" {
		return nil, nil, domainerrors.New(domainerrors.CodeBadRequest, "decedent name is required")
	}
	if _, err := era.Parse(params.DeathDate); err != nil {
		return nil, nil, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid death date")
	}

	now := requestcontext.Now(ctx)
	c, err := models.NewCase(uuid.New(), strings.TrimSpace(params.Title), params.Description, now)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.CreateCase(ctx, c); err != nil {
		return nil, nil, wrapStoreErr(err, "case")
	}

	decedent := &models.PersonRecord{
		ID:         uuid.New(),
		CaseID:     c.ID,
		Name:       strings.TrimSpace(params.DecedentName),
		IsAlive:    false,
		IsDecedent: true,
		DeathDate:  params.DeathDate,
	}
	if err := s.store.CreatePerson(ctx, decedent); err != nil {
		return nil, nil, wrapStoreErr(err, "decedent")
	}

	if s.metrics != nil {
		s.metrics.CasesCreated.Inc()
	}
	s.emit(ctx, audit.ActionCaseCreated, c.ID, decedent.Name)
	return c, decedent, nil
}

// GetCase fetches a case by ID.
func (s *Service) GetCase(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	c, err := s.store.FindCase(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "case")
	}
	return c, nil
}

// ListCases returns all cases.
func (s *Service) ListCases(ctx context.Context) ([]*models.Case, error) {
	cases, err := s.store.ListCases(ctx)
	if err != nil {
		return nil, wrapStoreErr(err, "cases")
	}
	return cases, nil
}

// UpdateCaseParams carries the mutable case fields; nil means unchanged.
type UpdateCaseParams struct {
	Title       *string
	Description *string
	Status      *models.CaseStatus
}

// UpdateCase applies a partial update to a case.
func (s *Service) UpdateCase(ctx context.Context, id uuid.UUID, params UpdateCaseParams) (*models.Case, error) {
	c, err := s.store.FindCase(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, "case")
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, domainerrors.New(domainerrors.CodeBadRequest, "case title cannot be empty")
		}
		c.Title = title
	}
	if params.Description != nil {
		c.Description = *params.Description
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, domainerrors.New(domainerrors.CodeBadRequest, "unknown case status")
		}
		c.Status = *params.Status
	}
	c.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.UpdateCase(ctx, c); err != nil {
		return nil, wrapStoreErr(err, "case")
	}
	s.invalidate(ctx, id)
	s.emit(ctx, audit.ActionCaseUpdated, id, c.Title)
	return c, nil
}

// DeleteCase removes a case together with its persons and relationships.
func (s *Service) DeleteCase(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteCase(ctx, id); err != nil {
		return wrapStoreErr(err, "case")
	}
	s.invalidate(ctx, id)
	s.emit(ctx, audit.ActionCaseDeleted, id, "")
	return nil
}

// AddPersonParams carries the fields of a person-creation request.
type AddPersonParams struct {
	Name               string
	IsAlive            bool
	IsDecedent         bool
	DiedBeforeDivision bool
	BirthDate          string
	DeathDate          string
	Gender             string
}

// AddPerson adds a person to a case. At most one decedent may exist per
// case; date strings must parse in either calendar.
func (s *Service) AddPerson(ctx context.Context, caseID uuid.UUID, params AddPersonParams) (*models.PersonRecord, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "person name is required")
	}
	for _, d := range []string{params.BirthDate, params.DeathDate} {
		if d == "" {
			continue
		}
		if _, err := era.Parse(d); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "invalid date")
		}
	}

	if _, err := s.store.FindCase(ctx, caseID); err != nil {
		return nil, wrapStoreErr(err, "case")
	}

	if params.IsDecedent {
		persons, err := s.store.ListPersons(ctx, caseID)
		if err != nil {
			return nil, wrapStoreErr(err, "persons")
		}
		for _, p := range persons {
			if p.IsDecedent {
				return nil, domainerrors.New(domainerrors.CodeConflict, "case already has a decedent")
			}
		}
	}

	person := &models.PersonRecord{
		ID:                 uuid.New(),
		CaseID:             caseID,
		Name:               strings.TrimSpace(params.Name),
		IsAlive:            params.IsAlive,
		IsDecedent:         params.IsDecedent,
		DiedBeforeDivision: params.DiedBeforeDivision,
		BirthDate:          params.BirthDate,
		DeathDate:          params.DeathDate,
		Gender:             params.Gender,
	}
	if err := s.store.CreatePerson(ctx, person); err != nil {
		return nil, wrapStoreErr(err, "person")
	}
	s.invalidate(ctx, caseID)
	s.emit(ctx, audit.ActionPersonAdded, caseID, person.Name)
	return person, nil
}

// ListPersons returns every person of a case.
func (s *Service) ListPersons(ctx context.Context, caseID uuid.UUID) ([]*models.PersonRecord, error) {
	if _, err := s.store.FindCase(ctx, caseID); err != nil {
		return nil, wrapStoreErr(err, "case")
	}
	persons, err := s.store.ListPersons(ctx, caseID)
	if err != nil {
		return nil, wrapStoreErr(err, "persons")
	}
	return persons, nil
}

// AddRelationship records a directed edge between two persons of the case.
func (s *Service) AddRelationship(ctx context.Context, caseID uuid.UUID, rel models.Relationship) error {
	if !rel.Kind.Valid() {
		return domainerrors.New(domainerrors.CodeBadRequest, "unknown relationship kind")
	}
	if rel.Blood != "" && rel.Blood != "full" && rel.Blood != "half" {
		return domainerrors.New(domainerrors.CodeBadRequest, "blood must be full or half")
	}
	if rel.FromPersonID == rel.ToPersonID {
		return domainerrors.New(domainerrors.CodeBadRequest, "relationship endpoints must differ")
	}

	for _, id := range []uuid.UUID{rel.FromPersonID, rel.ToPersonID} {
		p, err := s.store.FindPerson(ctx, id)
		if err != nil {
			return wrapStoreErr(err, "person")
		}
		if p.CaseID != caseID {
			return domainerrors.New(domainerrors.CodeBadRequest, "person belongs to another case")
		}
	}

	rel.CaseID = caseID
	if err := s.store.CreateRelationship(ctx, &rel); err != nil {
		return wrapStoreErr(err, "relationship")
	}
	s.invalidate(ctx, caseID)
	s.emit(ctx, audit.ActionRelationshipAdded, caseID, string(rel.Kind))
	return nil
}

// ListRelationships returns every relationship of a case.
func (s *Service) ListRelationships(ctx context.Context, caseID uuid.UUID) ([]*models.Relationship, error) {
	if _, err := s.store.FindCase(ctx, caseID); err != nil {
		return nil, wrapStoreErr(err, "case")
	}
	rels, err := s.store.ListRelationships(ctx, caseID)
	if err != nil {
		return nil, wrapStoreErr(err, "relationships")
	}
	return rels, nil
}

// FamilyTree returns the persons and relationships of a case in one shot
// for visualization clients.
func (s *Service) FamilyTree(ctx context.Context, caseID uuid.UUID) ([]*models.PersonRecord, []*models.Relationship, error) {
	persons, err := s.ListPersons(ctx, caseID)
	if err != nil {
		return nil, nil, err
	}
	rels, err := s.store.ListRelationships(ctx, caseID)
	if err != nil {
		return nil, nil, wrapStoreErr(err, "relationships")
	}
	return persons, rels, nil
}

func (s *Service) invalidate(ctx context.Context, caseID uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCase(ctx, caseID)
	}
}

func (s *Service) emit(ctx context.Context, action audit.Action, caseID uuid.UUID, subject string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, audit.Event{
		Action:    action,
		CaseID:    caseID,
		Subject:   subject,
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "error", err, "action", string(action))
	}
}

func wrapStoreErr(err error, what string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return domainerrors.New(domainerrors.CodeNotFound, what+" not found")
	case errors.Is(err, sentinel.ErrConflict):
		return domainerrors.New(domainerrors.CodeConflict, what+" already exists")
	default:
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "storage failure")
	}
}
