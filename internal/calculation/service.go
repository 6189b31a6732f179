// Package calculation runs the inheritance engine against a stored case.
// It expands the relationship graph into the engine's candidate lists,
// applying the representation rules (unlimited depth for the child line,
// exactly one generation for the sibling line), and shapes the result into
// the wire response.
package calculation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"souzoku/internal/audit"
	"souzoku/internal/casefile/models"
	"souzoku/internal/era"
	"souzoku/internal/inheritance"
	"souzoku/internal/platform/metrics"
	domainerrors "souzoku/pkg/domain-errors"
	"souzoku/pkg/platform/sentinel"
	"souzoku/pkg/requestcontext"
)

// CaseReader is the slice of case storage the calculation needs.
type CaseReader interface {
	FindCase(ctx context.Context, id uuid.UUID) (*models.Case, error)
	ListPersons(ctx context.Context, caseID uuid.UUID) ([]*models.PersonRecord, error)
	ListRelationships(ctx context.Context, caseID uuid.UUID) ([]*models.Relationship, error)
}

// Cache stores computed responses keyed by case; implementations may be nil-safe no-ops.
type Cache interface {
	Get(ctx context.Context, caseID uuid.UUID) (*Response, bool)
	Set(ctx context.Context, caseID uuid.UUID, resp *Response)
	InvalidateCase(ctx context.Context, caseID uuid.UUID)
}

// Service orchestrates graph loading, expansion, and the engine run.
type Service struct {
	reader  CaseReader
	logger  *slog.Logger
	cache   Cache
	metrics *metrics.Metrics
	audit   *audit.Publisher
	tracer  trace.Tracer
}

// Option configures optional service dependencies.
type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// New creates a calculation service.
func New(reader CaseReader, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		reader: reader,
		logger: logger,
		tracer: otel.Tracer("souzoku/calculation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate determines heirs and shares for a case.
func (s *Service) Calculate(ctx context.Context, caseID uuid.UUID) (*Response, error) {
	ctx, span := s.tracer.Start(ctx, "calculation.Calculate",
		trace.WithAttributes(attribute.String("case.id", caseID.String())))
	defer span.End()

	if s.cache != nil {
		if resp, ok := s.cache.Get(ctx, caseID); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return resp, nil
		}
	}

	start := time.Now()
	resp, err := s.calculate(ctx, caseID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.CalculationFailures.Inc()
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CalculationsTotal.Inc()
		s.metrics.CalculationSeconds.Observe(time.Since(start).Seconds())
	}

	if s.cache != nil {
		s.cache.Set(ctx, caseID, resp)
	}
	s.emitAudit(ctx, caseID, resp)
	return resp, nil
}

func (s *Service) calculate(ctx context.Context, caseID uuid.UUID) (*Response, error) {
	if _, err := s.reader.FindCase(ctx, caseID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainerrors.New(domainerrors.CodeNotFound, "case not found")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load case")
	}
	persons, err := s.reader.ListPersons(ctx, caseID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load persons")
	}
	rels, err := s.reader.ListRelationships(ctx, caseID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load relationships")
	}

	input, decedent, err := buildInput(persons, rels)
	if err != nil {
		return nil, err
	}

	result := inheritance.Calculate(input)
	return buildResponse(caseID, decedent, result), nil
}

func (s *Service) emitAudit(ctx context.Context, caseID uuid.UUID, resp *Response) {
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		Action:    audit.ActionCalculationDone,
		CaseID:    caseID,
		Subject:   resp.DecedentName,
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "error", err)
	}
}

// buildInput expands the relationship graph into the engine's candidate
// lists. Predeceased, disqualified, or disinherited heirs with representatives
// are replaced by those representatives; renunciation blocks representation.
func buildInput(persons []*models.PersonRecord, rels []*models.Relationship) (inheritance.Input, *models.PersonRecord, error) {
	byID := make(map[uuid.UUID]*models.PersonRecord, len(persons))
	var decedent *models.PersonRecord
	for _, p := range persons {
		byID[p.ID] = p
		if p.IsDecedent {
			decedent = p
		}
	}
	if decedent == nil {
		return inheritance.Input{}, nil, domainerrors.New(domainerrors.CodeBadRequest, "case has no decedent")
	}

	excluded := map[uuid.UUID]models.RelationKind{}
	repsFor := map[uuid.UUID][]uuid.UUID{}
	var spouseIDs, childIDs, parentIDs, siblingIDs []uuid.UUID
	bloods := map[uuid.UUID]inheritance.BloodRelation{}
	retransfer := map[uuid.UUID][]uuid.UUID{}

	for _, r := range rels {
		switch r.Kind {
		case models.RelationSpouseOf:
			if r.ToPersonID == decedent.ID {
				spouseIDs = append(spouseIDs, r.FromPersonID)
			}
		case models.RelationChildOf:
			if r.ToPersonID == decedent.ID {
				childIDs = append(childIDs, r.FromPersonID)
			}
			if r.FromPersonID == decedent.ID {
				parentIDs = append(parentIDs, r.ToPersonID)
			}
		case models.RelationSiblingOf:
			if r.ToPersonID == decedent.ID {
				siblingIDs = append(siblingIDs, r.FromPersonID)
				if r.Blood == "half" {
					bloods[r.FromPersonID] = inheritance.BloodHalf
				} else {
					bloods[r.FromPersonID] = inheritance.BloodFull
				}
			}
		case models.RelationRepresents:
			repsFor[r.ToPersonID] = append(repsFor[r.ToPersonID], r.FromPersonID)
		case models.RelationRetransferTo:
			retransfer[r.FromPersonID] = append(retransfer[r.FromPersonID], r.ToPersonID)
		case models.RelationRenounced, models.RelationDisqualified, models.RelationDisinherited:
			excluded[r.FromPersonID] = r.Kind
		}
	}

	g := expander{byID: byID, excluded: excluded, repsFor: repsFor}

	input := inheritance.Input{
		Decedent:              toPerson(decedent),
		SiblingBloodRelations: map[uuid.UUID]inheritance.BloodRelation{},
		Substitutions:         map[uuid.UUID]inheritance.Substitution{},
		RetransferTargets:     map[uuid.UUID][]inheritance.Person{},
	}

	for _, id := range spouseIDs {
		if p := byID[id]; p != nil && g.canInherit(p) {
			input.Spouses = append(input.Spouses, toPerson(p))
		}
	}
	for _, id := range childIDs {
		g.expandChildLine(id, &input)
	}
	for _, id := range parentIDs {
		if p := byID[id]; p != nil && g.canInherit(p) {
			input.Parents = append(input.Parents, toPerson(p))
		}
	}
	for _, id := range siblingIDs {
		g.expandSiblingLine(id, bloods[id], &input)
	}

	// Exclusion lists are still passed so the engine records the mechanism
	// uniformly; expansion above already dropped the excluded persons.
	for id, kind := range excluded {
		p := byID[id]
		if p == nil {
			continue
		}
		switch kind {
		case models.RelationRenounced:
			input.Renounced = append(input.Renounced, toPerson(p))
		case models.RelationDisqualified:
			input.Disqualified = append(input.Disqualified, toPerson(p))
		case models.RelationDisinherited:
			input.Disinherited = append(input.Disinherited, toPerson(p))
		}
	}

	for heirID, targetIDs := range retransfer {
		for _, tid := range targetIDs {
			if p := byID[tid]; p != nil {
				input.RetransferTargets[heirID] = append(input.RetransferTargets[heirID], toPerson(p))
			}
		}
	}

	return input, decedent, nil
}

type expander struct {
	byID     map[uuid.UUID]*models.PersonRecord
	excluded map[uuid.UUID]models.RelationKind
	repsFor  map[uuid.UUID][]uuid.UUID
}

// canInherit reports whether the person survived the decedent and is not
// excluded. A person who died before the estate division still inherited at
// the moment of death, so DiedBeforeDivision counts as surviving.
func (g expander) canInherit(p *models.PersonRecord) bool {
	if _, ok := g.excluded[p.ID]; ok {
		return false
	}
	return p.IsAlive || p.DiedBeforeDivision
}

// representable reports whether a failed heir's line may be represented.
// Death, disqualification, and disinheritance open representation;
// renunciation does not.
func (g expander) representable(p *models.PersonRecord) bool {
	if g.excluded[p.ID] == models.RelationRenounced {
		return false
	}
	return true
}

func (g expander) expandChildLine(id uuid.UUID, input *inheritance.Input) {
	p := g.byID[id]
	if p == nil {
		return
	}
	if g.canInherit(p) {
		input.Children = append(input.Children, toPerson(p))
		return
	}
	if !g.representable(p) {
		return
	}
	for _, repID := range g.repsFor[id] {
		rep := g.byID[repID]
		if rep == nil {
			continue
		}
		if g.canInherit(rep) {
			input.Children = append(input.Children, toPerson(rep))
			input.Substitutions[rep.ID] = inheritance.Substitution{For: toPerson(p)}
			continue
		}
		// Child-line representation recurses without a depth limit.
		g.expandChildLine(repID, input)
	}
}

func (g expander) expandSiblingLine(id uuid.UUID, blood inheritance.BloodRelation, input *inheritance.Input) {
	p := g.byID[id]
	if p == nil {
		return
	}
	if blood == "" {
		blood = inheritance.BloodFull
	}
	if g.canInherit(p) {
		input.Siblings = append(input.Siblings, toPerson(p))
		input.SiblingBloodRelations[p.ID] = blood
		return
	}
	if !g.representable(p) {
		return
	}
	// Sibling-line representation stops after one generation.
	for _, repID := range g.repsFor[id] {
		rep := g.byID[repID]
		if rep == nil || !g.canInherit(rep) {
			continue
		}
		input.Siblings = append(input.Siblings, toPerson(rep))
		input.SiblingBloodRelations[rep.ID] = blood
		input.Substitutions[rep.ID] = inheritance.Substitution{For: toPerson(p)}
	}
}

func toPerson(p *models.PersonRecord) inheritance.Person {
	person := inheritance.Person{
		ID:                 p.ID,
		Name:               p.Name,
		IsAlive:            p.IsAlive,
		IsDecedent:         p.IsDecedent,
		DiedBeforeDivision: p.DiedBeforeDivision,
	}
	if d, err := era.Parse(p.BirthDate); err == nil {
		person.BirthDate = &d
	}
	if d, err := era.Parse(p.DeathDate); err == nil {
		person.DeathDate = &d
	}
	return person
}

func buildResponse(caseID uuid.UUID, decedent *models.PersonRecord, result *inheritance.Result) *Response {
	resp := &Response{
		CaseID:           caseID,
		DecedentName:     decedent.Name,
		Heirs:            make([]HeirInfo, 0, len(result.Heirs)),
		TotalHeirs:       result.TotalHeirs(),
		CalculationBasis: strings.Join(result.CalculationBasis, "、"),
	}
	for _, h := range result.Heirs {
		info := HeirInfo{
			PersonID:         h.Person.ID.String(),
			Name:             h.Person.Name,
			Relationship:     relationshipLabel(h.Rank),
			Rank:             rankNumber(h.Rank),
			ShareNumerator:   h.Share.Num().Int64(),
			ShareDenominator: h.Share.Denom().Int64(),
			SharePercentage:  h.SharePercentage(),
			IsSubstitute:     h.Substitution != inheritance.SubstitutionNone,
		}
		if h.SubstituteFor != nil {
			id := h.SubstituteFor.ID.String()
			info.SubstituteFor = &id
		}
		if h.Retransfer {
			info.IsRetransfer = true
			if h.RetransferFrom != nil {
				id := h.RetransferFrom.ID.String()
				info.RetransferFrom = &id
			}
		}
		resp.Heirs = append(resp.Heirs, info)
	}
	return resp
}

func relationshipLabel(rank inheritance.HeritageRank) string {
	switch rank {
	case inheritance.RankSpouse:
		return "配偶者"
	case inheritance.RankFirst:
		return "子"
	case inheritance.RankSecond:
		return "直系尊属"
	case inheritance.RankThird:
		return "兄弟姉妹"
	}
	return string(rank)
}

func rankNumber(rank inheritance.HeritageRank) int {
	switch rank {
	case inheritance.RankFirst:
		return 1
	case inheritance.RankSecond:
		return 2
	case inheritance.RankThird:
		return 3
	}
	return 0
}
