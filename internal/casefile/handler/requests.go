package handler

import (
	"github.com/google/uuid"

	"souzoku/internal/casefile/models"
	"souzoku/internal/casefile/service"
)

// CreateCaseRequest opens a case together with its decedent.
type CreateCaseRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	DecedentName string `json:"decedent_name"`
	DeathDate    string `json:"death_date"`
}

func (r CreateCaseRequest) toParams() service.CreateCaseParams {
	return service.CreateCaseParams{
		Title:        r.Title,
		Description:  r.Description,
		DecedentName: r.DecedentName,
		DeathDate:    r.DeathDate,
	}
}

// UpdateCaseRequest applies a partial update; omitted fields stay unchanged.
type UpdateCaseRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (r UpdateCaseRequest) toParams() service.UpdateCaseParams {
	params := service.UpdateCaseParams{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		status := models.CaseStatus(*r.Status)
		params.Status = &status
	}
	return params
}

// AddPersonRequest adds a person to an existing case.
type AddPersonRequest struct {
	Name               string `json:"name"`
	IsAlive            bool   `json:"is_alive"`
	IsDecedent         bool   `json:"is_decedent,omitempty"`
	DiedBeforeDivision bool   `json:"died_before_division,omitempty"`
	BirthDate          string `json:"birth_date,omitempty"`
	DeathDate          string `json:"death_date,omitempty"`
	Gender             string `json:"gender,omitempty"`
}

func (r AddPersonRequest) toParams() service.AddPersonParams {
	return service.AddPersonParams{
		Name:               r.Name,
		IsAlive:            r.IsAlive,
		IsDecedent:         r.IsDecedent,
		DiedBeforeDivision: r.DiedBeforeDivision,
		BirthDate:          r.BirthDate,
		DeathDate:          r.DeathDate,
		Gender:             r.Gender,
	}
}

// AddRelationshipRequest records a directed edge between two persons.
type AddRelationshipRequest struct {
	FromPersonID uuid.UUID `json:"from_person_id"`
	ToPersonID   uuid.UUID `json:"to_person_id"`
	Kind         string    `json:"kind"`
	Blood        string    `json:"blood,omitempty"`
}

func (r AddRelationshipRequest) toModel() models.Relationship {
	return models.Relationship{
		FromPersonID: r.FromPersonID,
		ToPersonID:   r.ToPersonID,
		Kind:         models.RelationKind(r.Kind),
		Blood:        r.Blood,
	}
}
