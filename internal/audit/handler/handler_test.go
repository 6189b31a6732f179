package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"souzoku/internal/audit"
	domainerrors "souzoku/pkg/domain-errors"
	"souzoku/pkg/testutil"
)

func newAuditRouter() (chi.Router, *audit.Publisher) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pub := audit.NewPublisher(audit.NewInMemoryStore())
	r := chi.NewRouter()
	New(pub, logger).Register(r)
	return r, pub
}

func TestListAuditEvents(t *testing.T) {
	router, pub := newAuditRouter()
	caseID := uuid.New()
	ctx := context.Background()
	require.NoError(t, pub.Emit(ctx, audit.Event{
		Action: audit.ActionCaseCreated, CaseID: caseID, Subject: "山田太郎",
	}))
	require.NoError(t, pub.Emit(ctx, audit.Event{
		Action: audit.ActionCalculationDone, CaseID: caseID,
	}))

	req := testutil.NewRequest(t, http.MethodGet, "/cases/"+caseID.String()+"/audit-events")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[ListResponse](t, rr)
	require.Equal(t, 2, resp.Total)
	require.Equal(t, audit.ActionCaseCreated, resp.Events[0].Action)
	require.Equal(t, "山田太郎", resp.Events[0].Subject)
	require.Equal(t, audit.ActionCalculationDone, resp.Events[1].Action)
}

func TestListAuditEventsEmptyCase(t *testing.T) {
	router, _ := newAuditRouter()

	req := testutil.NewRequest(t, http.MethodGet, "/cases/"+uuid.NewString()+"/audit-events")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[ListResponse](t, rr)
	require.Equal(t, 0, resp.Total)
	require.NotNil(t, resp.Events)
	require.Empty(t, resp.Events)
}

func TestListAuditEventsRejectsMalformedID(t *testing.T) {
	router, _ := newAuditRouter()

	req := testutil.NewRequest(t, http.MethodGet, "/cases/not-a-uuid/audit-events")
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(domainerrors.CodeBadRequest))
}
