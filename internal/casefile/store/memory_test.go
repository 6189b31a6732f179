package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"souzoku/internal/casefile/models"
	"souzoku/pkg/platform/sentinel"
)

func newStoredCase(title string, createdAt time.Time) *models.Case {
	return &models.Case{
		ID:        uuid.New(),
		Title:     title,
		Status:    models.CaseStatusDraft,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemoryCaseLifecycle(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	c := newStoredCase("遺産分割の件", time.Now())

	require.NoError(t, s.CreateCase(ctx, c))
	require.ErrorIs(t, s.CreateCase(ctx, c), sentinel.ErrConflict)

	found, err := s.FindCase(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.Title, found.Title)

	found.Title = "mutated copy"
	again, err := s.FindCase(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, "遺産分割の件", again.Title, "store must not alias returned values")

	c.Status = models.CaseStatusCompleted
	require.NoError(t, s.UpdateCase(ctx, c))
	updated, err := s.FindCase(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, models.CaseStatusCompleted, updated.Status)

	require.NoError(t, s.DeleteCase(ctx, c.ID))
	_, err = s.FindCase(ctx, c.ID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	require.ErrorIs(t, s.DeleteCase(ctx, c.ID), sentinel.ErrNotFound)
}

func TestMemoryListCasesOrdersByCreation(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	newest := newStoredCase("newest", base.Add(2*time.Hour))
	oldest := newStoredCase("oldest", base)
	middle := newStoredCase("middle", base.Add(time.Hour))
	for _, c := range []*models.Case{newest, oldest, middle} {
		require.NoError(t, s.CreateCase(ctx, c))
	}

	cases, err := s.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 3)
	require.Equal(t, "oldest", cases[0].Title)
	require.Equal(t, "middle", cases[1].Title)
	require.Equal(t, "newest", cases[2].Title)
}

func TestMemoryDeleteCaseRemovesPersonsAndRelationships(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	c := newStoredCase("case", time.Now())
	require.NoError(t, s.CreateCase(ctx, c))

	decedent := &models.PersonRecord{ID: uuid.New(), CaseID: c.ID, Name: "被相続人", IsDecedent: true}
	spouse := &models.PersonRecord{ID: uuid.New(), CaseID: c.ID, Name: "配偶者", IsAlive: true}
	require.NoError(t, s.CreatePerson(ctx, decedent))
	require.NoError(t, s.CreatePerson(ctx, spouse))
	require.NoError(t, s.CreateRelationship(ctx, &models.Relationship{
		CaseID:       c.ID,
		FromPersonID: spouse.ID,
		ToPersonID:   decedent.ID,
		Kind:         models.RelationSpouseOf,
	}))

	require.NoError(t, s.DeleteCase(ctx, c.ID))

	_, err := s.FindPerson(ctx, spouse.ID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	rels, err := s.ListRelationships(ctx, c.ID)
	require.NoError(t, err)
	require.Empty(t, rels)
}

func TestMemoryDuplicateRelationshipConflicts(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	c := newStoredCase("case", time.Now())
	require.NoError(t, s.CreateCase(ctx, c))

	from, to := uuid.New(), uuid.New()
	rel := &models.Relationship{CaseID: c.ID, FromPersonID: from, ToPersonID: to, Kind: models.RelationChildOf}
	require.NoError(t, s.CreateRelationship(ctx, rel))
	require.ErrorIs(t, s.CreateRelationship(ctx, rel), sentinel.ErrConflict)

	other := &models.Relationship{CaseID: c.ID, FromPersonID: from, ToPersonID: to, Kind: models.RelationRepresents}
	require.NoError(t, s.CreateRelationship(ctx, other), "same endpoints with different kind is allowed")
}

func TestMemoryListPersonsScopedToCase(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	a := newStoredCase("a", time.Now())
	b := newStoredCase("b", time.Now())
	require.NoError(t, s.CreateCase(ctx, a))
	require.NoError(t, s.CreateCase(ctx, b))

	require.NoError(t, s.CreatePerson(ctx, &models.PersonRecord{ID: uuid.New(), CaseID: a.ID, Name: "A1"}))
	require.NoError(t, s.CreatePerson(ctx, &models.PersonRecord{ID: uuid.New(), CaseID: a.ID, Name: "A2"}))
	require.NoError(t, s.CreatePerson(ctx, &models.PersonRecord{ID: uuid.New(), CaseID: b.ID, Name: "B1"}))

	personsA, err := s.ListPersons(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, personsA, 2)

	personsB, err := s.ListPersons(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, personsB, 1)
	require.Equal(t, "B1", personsB[0].Name)
}
