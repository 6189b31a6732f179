package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"souzoku/internal/audit"
	"souzoku/internal/casefile/models"
	"souzoku/internal/casefile/store"
	"souzoku/pkg/testutil"
)

func newService() (*Service, *audit.InMemoryStore) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditStore := audit.NewInMemoryStore()
	svc := New(store.NewMemory(), logger, WithAudit(audit.NewPublisher(auditStore)))
	return svc, auditStore
}

func recordedActions(t *testing.T, auditStore *audit.InMemoryStore, caseID uuid.UUID) []audit.Action {
	t.Helper()
	events, err := auditStore.ListByCase(context.Background(), caseID)
	require.NoError(t, err)
	actions := make([]audit.Action, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}

func TestCaseMutationsLeaveAuditTrail(t *testing.T) {
	svc, auditStore := newService()
	ctx := context.Background()

	var caseID, decedentID, spouseID uuid.UUID

	testutil.Given(t, "an opened case", func(t *testing.T) {
		c, decedent, err := svc.CreateCase(ctx, CreateCaseParams{
			Title:        "山田家相続の件",
			DecedentName: "山田太郎",
			DeathDate:    "令和5年10月3日",
		})
		require.NoError(t, err)
		caseID, decedentID = c.ID, decedent.ID
		require.Contains(t, recordedActions(t, auditStore, caseID), audit.ActionCaseCreated)
	})

	testutil.When(t, "the title changes and the family graph grows", func(t *testing.T) {
		title := "改題"
		_, err := svc.UpdateCase(ctx, caseID, UpdateCaseParams{Title: &title})
		require.NoError(t, err)

		spouse, err := svc.AddPerson(ctx, caseID, AddPersonParams{Name: "山田花子", IsAlive: true})
		require.NoError(t, err)
		spouseID = spouse.ID

		require.NoError(t, svc.AddRelationship(ctx, caseID, models.Relationship{
			FromPersonID: spouseID,
			ToPersonID:   decedentID,
			Kind:         models.RelationSpouseOf,
		}))
	})

	testutil.Then(t, "every mutation is on the trail", func(t *testing.T) {
		actions := recordedActions(t, auditStore, caseID)
		require.Contains(t, actions, audit.ActionCaseUpdated)
		require.Contains(t, actions, audit.ActionPersonAdded)
		require.Contains(t, actions, audit.ActionRelationshipAdded)

		require.NoError(t, svc.DeleteCase(ctx, caseID))
		require.Contains(t, recordedActions(t, auditStore, caseID), audit.ActionCaseDeleted)
	})
}

func TestAuditEventsCarrySubjects(t *testing.T) {
	svc, auditStore := newService()
	ctx := context.Background()

	c, _, err := svc.CreateCase(ctx, CreateCaseParams{
		Title:        "件名",
		DecedentName: "山田太郎",
		DeathDate:    "2023-10-03",
	})
	require.NoError(t, err)

	_, err = svc.AddPerson(ctx, c.ID, AddPersonParams{Name: "山田花子", IsAlive: true})
	require.NoError(t, err)

	events, err := auditStore.ListByCase(ctx, c.ID)
	require.NoError(t, err)
	subjects := map[audit.Action]string{}
	for _, e := range events {
		subjects[e.Action] = e.Subject
	}
	require.Equal(t, "山田太郎", subjects[audit.ActionCaseCreated])
	require.Equal(t, "山田花子", subjects[audit.ActionPersonAdded])
}
