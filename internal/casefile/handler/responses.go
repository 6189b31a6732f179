package handler

import "souzoku/internal/casefile/models"

// CreateCaseResponse returns the new case and its decedent record.
type CreateCaseResponse struct {
	Case     *models.Case         `json:"case"`
	Decedent *models.PersonRecord `json:"decedent"`
}

// ListCasesResponse wraps the case collection.
type ListCasesResponse struct {
	Cases []*models.Case `json:"cases"`
	Total int            `json:"total"`
}

// PersonsResponse wraps a case's person collection.
type PersonsResponse struct {
	Persons []*models.PersonRecord `json:"persons"`
	Total   int                    `json:"total"`
}

// RelationshipsResponse wraps a case's relationship collection.
type RelationshipsResponse struct {
	Relationships []*models.Relationship `json:"relationships"`
	Total         int                    `json:"total"`
}

// FamilyTreeResponse carries both renderings of the family tree plus the
// raw graph for clients that draw their own.
type FamilyTreeResponse struct {
	Persons       []*models.PersonRecord `json:"persons"`
	Relationships []*models.Relationship `json:"relationships"`
	ASCII         string                 `json:"ascii,omitempty"`
	Mermaid       string                 `json:"mermaid,omitempty"`
}
