// Package audit captures an append-only trail of case and calculation
// activity. Events flow through a Publisher into a Store; the store can be
// in-memory, or a Kafka-backed sink for downstream consumers.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action identifies what happened.
type Action string

const (
	ActionCaseCreated       Action = "case.created"
	ActionCaseUpdated       Action = "case.updated"
	ActionCaseDeleted       Action = "case.deleted"
	ActionPersonAdded       Action = "person.added"
	ActionRelationshipAdded Action = "relationship.added"
	ActionCalculationDone   Action = "calculation.completed"
	ActionInterviewStarted  Action = "interview.started"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	CaseID    uuid.UUID `json:"case_id"`
	Subject   string    `json:"subject,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Store is an append-only event sink.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]Event, error)
}
