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

	"souzoku/internal/calculation"
	"souzoku/internal/casefile/models"
	"souzoku/internal/casefile/service"
	"souzoku/internal/casefile/store"
	domainerrors "souzoku/pkg/domain-errors"
	"souzoku/pkg/testutil"
)

func newCalcRouter(t *testing.T) (chi.Router, uuid.UUID) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := store.NewMemory()
	caseService := service.New(mem, logger)
	ctx := context.Background()

	c, decedent, err := caseService.CreateCase(ctx, service.CreateCaseParams{
		Title:        "テスト",
		DecedentName: "山田太郎",
		DeathDate:    "令和5年10月3日",
	})
	require.NoError(t, err)

	spouse, err := caseService.AddPerson(ctx, c.ID, service.AddPersonParams{Name: "山田花子", IsAlive: true})
	require.NoError(t, err)
	require.NoError(t, caseService.AddRelationship(ctx, c.ID, models.Relationship{
		FromPersonID: spouse.ID,
		ToPersonID:   decedent.ID,
		Kind:         models.RelationSpouseOf,
	}))

	r := chi.NewRouter()
	New(calculation.New(mem, logger), logger).Register(r)
	return r, c.ID
}

func TestCalculatePost(t *testing.T) {
	router, caseID := newCalcRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/calculations", CalculateRequest{CaseID: caseID})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[calculation.Response](t, rr)
	require.Equal(t, caseID, resp.CaseID)
	require.Equal(t, "山田太郎", resp.DecedentName)
	require.Equal(t, 1, resp.TotalHeirs)
	require.Equal(t, "山田花子", resp.Heirs[0].Name)
	require.Equal(t, int64(1), resp.Heirs[0].ShareNumerator)
	require.Equal(t, int64(1), resp.Heirs[0].ShareDenominator)
}

func TestCalculateByPath(t *testing.T) {
	router, caseID := newCalcRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/cases/"+caseID.String()+"/calculation")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[calculation.Response](t, rr)
	require.Equal(t, 1, resp.TotalHeirs)
}

func TestCalculateRequiresCaseID(t *testing.T) {
	router, _ := newCalcRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/calculations", CalculateRequest{})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(domainerrors.CodeBadRequest))
}

func TestCalculateUnknownCase(t *testing.T) {
	router, _ := newCalcRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/calculations", CalculateRequest{CaseID: uuid.New()})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, string(domainerrors.CodeNotFound))
}

func TestCalculateByPathRejectsMalformedID(t *testing.T) {
	router, _ := newCalcRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/cases/nope/calculation")
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(domainerrors.CodeBadRequest))
}
