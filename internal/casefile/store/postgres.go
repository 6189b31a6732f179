package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"souzoku/internal/casefile/models"
	"souzoku/pkg/platform/sentinel"
)

// PostgresStore persists cases in PostgreSQL. Schema lives in migrations/.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateCase(ctx context.Context, c *models.Case) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cases (id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Title, c.Description, string(c.Status), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindCase(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, status, created_at, updated_at
		FROM cases WHERE id = $1`, id)
	return scanCase(row)
}

func (s *PostgresStore) ListCases(ctx context.Context) ([]*models.Case, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, status, created_at, updated_at
		FROM cases ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	var cases []*models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func (s *PostgresStore) UpdateCase(ctx context.Context, c *models.Case) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cases SET title = $2, description = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		c.ID, c.Title, c.Description, string(c.Status), c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) DeleteCase(ctx context.Context, id uuid.UUID) error {
	// persons and relationships cascade via foreign keys
	res, err := s.db.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) CreatePerson(ctx context.Context, p *models.PersonRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO persons (id, case_id, name, is_alive, is_decedent,
			died_before_division, birth_date, death_date, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CaseID, p.Name, p.IsAlive, p.IsDecedent,
		p.DiedBeforeDivision, p.BirthDate, p.DeathDate, p.Gender)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindPerson(ctx context.Context, id uuid.UUID) (*models.PersonRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, case_id, name, is_alive, is_decedent,
			died_before_division, birth_date, death_date, gender
		FROM persons WHERE id = $1`, id)
	return scanPerson(row)
}

func (s *PostgresStore) ListPersons(ctx context.Context, caseID uuid.UUID) ([]*models.PersonRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, case_id, name, is_alive, is_decedent,
			died_before_division, birth_date, death_date, gender
		FROM persons WHERE case_id = $1 ORDER BY id`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var persons []*models.PersonRecord
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func (s *PostgresStore) CreateRelationship(ctx context.Context, r *models.Relationship) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO relationships (case_id, from_person_id, to_person_id, kind, blood)
		VALUES ($1, $2, $3, $4, $5)`,
		r.CaseID, r.FromPersonID, r.ToPersonID, string(r.Kind), r.Blood)
	if err != nil {
		return fmt.Errorf("insert relationship: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRelationships(ctx context.Context, caseID uuid.UUID) ([]*models.Relationship, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT case_id, from_person_id, to_person_id, kind, blood
		FROM relationships WHERE case_id = $1`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	defer rows.Close()

	var rels []*models.Relationship
	for rows.Next() {
		var r models.Relationship
		var kind string
		if err := rows.Scan(&r.CaseID, &r.FromPersonID, &r.ToPersonID, &kind, &r.Blood); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		r.Kind = models.RelationKind(kind)
		rels = append(rels, &r)
	}
	return rels, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*models.Case, error) {
	var c models.Case
	var status string
	err := row.Scan(&c.ID, &c.Title, &c.Description, &status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan case: %w", err)
	}
	c.Status = models.CaseStatus(status)
	return &c, nil
}

func scanPerson(row rowScanner) (*models.PersonRecord, error) {
	var p models.PersonRecord
	err := row.Scan(&p.ID, &p.CaseID, &p.Name, &p.IsAlive, &p.IsDecedent,
		&p.DiedBeforeDivision, &p.BirthDate, &p.DeathDate, &p.Gender)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan person: %w", err)
	}
	return &p, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
