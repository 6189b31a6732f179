// Package store provides the persistence implementations behind the case
// service: an in-memory store for tests and single-node use, and a
// PostgreSQL store for deployments.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"souzoku/internal/casefile/models"
	"souzoku/pkg/platform/sentinel"
)

// MemoryStore keeps cases in maps guarded by a single RWMutex. Values are
// copied on the way in and out so callers cannot alias store state.
type MemoryStore struct {
	mu        sync.RWMutex
	cases     map[uuid.UUID]models.Case
	persons   map[uuid.UUID]models.PersonRecord
	relations map[uuid.UUID][]models.Relationship
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		cases:     make(map[uuid.UUID]models.Case),
		persons:   make(map[uuid.UUID]models.PersonRecord),
		relations: make(map[uuid.UUID][]models.Relationship),
	}
}

func (s *MemoryStore) CreateCase(_ context.Context, c *models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[c.ID]; ok {
		return sentinel.ErrConflict
	}
	s.cases[c.ID] = *c
	return nil
}

func (s *MemoryStore) FindCase(_ context.Context, id uuid.UUID) (*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) ListCases(_ context.Context) ([]*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cases := make([]*models.Case, 0, len(s.cases))
	for _, c := range s.cases {
		c := c
		cases = append(cases, &c)
	}
	sort.Slice(cases, func(i, j int) bool {
		if cases[i].CreatedAt.Equal(cases[j].CreatedAt) {
			return cases[i].ID.String() < cases[j].ID.String()
		}
		return cases[i].CreatedAt.Before(cases[j].CreatedAt)
	})
	return cases, nil
}

func (s *MemoryStore) UpdateCase(_ context.Context, c *models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.cases[c.ID] = *c
	return nil
}

func (s *MemoryStore) DeleteCase(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.cases, id)
	delete(s.relations, id)
	for pid, p := range s.persons {
		if p.CaseID == id {
			delete(s.persons, pid)
		}
	}
	return nil
}

func (s *MemoryStore) CreatePerson(_ context.Context, p *models.PersonRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[p.ID]; ok {
		return sentinel.ErrConflict
	}
	s.persons[p.ID] = *p
	return nil
}

func (s *MemoryStore) FindPerson(_ context.Context, id uuid.UUID) (*models.PersonRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ListPersons(_ context.Context, caseID uuid.UUID) ([]*models.PersonRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var persons []*models.PersonRecord
	for _, p := range s.persons {
		if p.CaseID == caseID {
			p := p
			persons = append(persons, &p)
		}
	}
	sort.Slice(persons, func(i, j int) bool {
		return persons[i].ID.String() < persons[j].ID.String()
	})
	return persons, nil
}

func (s *MemoryStore) CreateRelationship(_ context.Context, r *models.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.relations[r.CaseID] {
		if existing.FromPersonID == r.FromPersonID &&
			existing.ToPersonID == r.ToPersonID &&
			existing.Kind == r.Kind {
			return sentinel.ErrConflict
		}
	}
	s.relations[r.CaseID] = append(s.relations[r.CaseID], *r)
	return nil
}

func (s *MemoryStore) ListRelationships(_ context.Context, caseID uuid.UUID) ([]*models.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rels := make([]*models.Relationship, 0, len(s.relations[caseID]))
	for _, r := range s.relations[caseID] {
		r := r
		rels = append(rels, &r)
	}
	return rels, nil
}
