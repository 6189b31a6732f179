// Package models defines the persistent records of an inheritance case:
// the case itself, the persons involved, and the relationships between
// them. The inheritance engine has its own pure value types; the
// calculation service translates between the two.
package models

import (
	"time"

	"github.com/google/uuid"

	domainerrors "souzoku/pkg/domain-errors"
)

// CaseStatus tracks a case through its collection lifecycle.
type CaseStatus string

const (
	CaseStatusDraft      CaseStatus = "draft"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusCompleted  CaseStatus = "completed"
)

// Valid reports whether s is a known status.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusDraft, CaseStatusInProgress, CaseStatusCompleted:
		return true
	}
	return false
}

// Case is the aggregate root for one inheritance matter.
//
// Invariants:
//   - Title is non-empty and at most 200 characters
//   - Exactly one person record per case has IsDecedent set; the store
//     rejects a second one
//   - CreatedAt is immutable after construction
type Case struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      CaseStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewCase validates and constructs a draft case.
func NewCase(id uuid.UUID, title, description string, now time.Time) (*Case, error) {
	if title == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "case title cannot be empty")
	}
	if len([]rune(title)) > 200 {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "case title must be 200 characters or less")
	}
	return &Case{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      CaseStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PersonRecord is one person inside a case. Dates are stored as strings in
// either Japanese-calendar or western form; they are validated at the API
// boundary and never parsed by the engine.
type PersonRecord struct {
	ID         uuid.UUID `json:"id"`
	CaseID     uuid.UUID `json:"case_id"`
	Name       string    `json:"name"`
	IsAlive    bool      `json:"is_alive"`
	IsDecedent bool      `json:"is_decedent"`

	// DiedBeforeDivision marks an heir who died after the decedent but
	// before the estate division; it drives retransfer routing.
	DiedBeforeDivision bool `json:"died_before_division,omitempty"`

	BirthDate string `json:"birth_date,omitempty"`
	DeathDate string `json:"death_date,omitempty"`
	Gender    string `json:"gender,omitempty"`
}

// RelationKind is the type of a directed relationship edge.
type RelationKind string

const (
	// RelationSpouseOf links a spouse to the decedent.
	RelationSpouseOf RelationKind = "spouse_of"
	// RelationChildOf links a child (from) to a parent (to).
	RelationChildOf RelationKind = "child_of"
	// RelationSiblingOf links a sibling to the decedent; Blood qualifies it.
	RelationSiblingOf RelationKind = "sibling_of"
	// RelationRepresents links a representative (from) to the predeceased
	// heir (to) whose place they take.
	RelationRepresents RelationKind = "represents"
	// RelationRetransferTo links a deceased heir (from) to a successor (to)
	// receiving part of the already-vested share.
	RelationRetransferTo RelationKind = "retransfer_to"

	RelationRenounced    RelationKind = "renounced"
	RelationDisqualified RelationKind = "disqualified"
	RelationDisinherited RelationKind = "disinherited"
)

// Valid reports whether k is a known relationship kind.
func (k RelationKind) Valid() bool {
	switch k {
	case RelationSpouseOf, RelationChildOf, RelationSiblingOf, RelationRepresents,
		RelationRetransferTo, RelationRenounced, RelationDisqualified, RelationDisinherited:
		return true
	}
	return false
}

// Relationship is a directed edge between two persons of the same case.
// Blood is meaningful only for sibling_of edges ("full" or "half"; empty
// defaults to full).
type Relationship struct {
	CaseID       uuid.UUID    `json:"case_id"`
	FromPersonID uuid.UUID    `json:"from_person_id"`
	ToPersonID   uuid.UUID    `json:"to_person_id"`
	Kind         RelationKind `json:"kind"`
	Blood        string       `json:"blood,omitempty"`
}
