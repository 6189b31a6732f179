package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	domainerrors "souzoku/pkg/domain-errors"
	"souzoku/pkg/testutil"
)

func newRouter() chi.Router {
	r := chi.NewRouter()
	New(slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestConvertEraToWestern(t *testing.T) {
	router := newRouter()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/utils/convert-era-to-western", ConversionRequest{DateStr: "令和5年10月3日"})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[ConversionResponse](t, rr)
	require.Equal(t, "令和5年10月3日", resp.Original)
	require.Equal(t, "2023-10-03", resp.Converted)
	require.Equal(t, "令和", resp.EraName)
}

func TestConvertEraToWesternAcceptsAbbreviations(t *testing.T) {
	router := newRouter()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/utils/convert-era-to-western", ConversionRequest{DateStr: "R5.10.3"})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[ConversionResponse](t, rr)
	require.Equal(t, "2023-10-03", resp.Converted)
}

func TestConvertWesternToEra(t *testing.T) {
	router := newRouter()

	tests := []struct {
		name       string
		formatType string
		want       string
	}{
		{"long is the default", "", "令和5年10月3日"},
		{"short", "short", "R5.10.3"},
		{"slash", "slash", "R5/10/3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/utils/convert-western-to-era", ConversionRequest{
				DateStr:    "2023-10-03",
				FormatType: tc.formatType,
			})
			rr := testutil.DoRequest(router, req)

			testutil.AssertStatusOK(t, rr)
			resp := testutil.UnmarshalResponse[ConversionResponse](t, rr)
			require.Equal(t, tc.want, resp.Converted)
			require.Equal(t, "令和", resp.EraName)
		})
	}
}

func TestConvertWesternToEraFirstEraYear(t *testing.T) {
	router := newRouter()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/utils/convert-western-to-era", ConversionRequest{DateStr: "2019-05-01"})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[ConversionResponse](t, rr)
	require.Equal(t, "令和元年5月1日", resp.Converted)
}

func TestDetectAndConvert(t *testing.T) {
	router := newRouter()

	tests := []struct {
		name    string
		dateStr string
		want    string
	}{
		{"era input converts to western", "平成31年4月30日", "2019-04-30"},
		{"western input converts to era", "2019-04-30", "平成31年4月30日"},
		{"slash western input", "2019/4/30", "平成31年4月30日"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/utils/detect-and-convert", ConversionRequest{DateStr: tc.dateStr})
			rr := testutil.DoRequest(router, req)

			testutil.AssertStatusOK(t, rr)
			resp := testutil.UnmarshalResponse[ConversionResponse](t, rr)
			require.Equal(t, tc.want, resp.Converted)
		})
	}
}

func TestConversionRejectsBadInput(t *testing.T) {
	router := newRouter()

	tests := []struct {
		name    string
		path    string
		dateStr string
	}{
		{"unparseable date", "/utils/convert-era-to-western", "not a date"},
		{"calendar overflow", "/utils/convert-era-to-western", "令和5年2月30日"},
		{"year beyond era", "/utils/convert-era-to-western", "平成45年1月1日"},
		{"empty date_str", "/utils/detect-and-convert", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, tc.path, ConversionRequest{DateStr: tc.dateStr})
			rr := testutil.DoRequest(router, req)

			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(domainerrors.CodeBadRequest))
		})
	}
}

func TestConversionRejectsMalformedBody(t *testing.T) {
	router := newRouter()

	req := testutil.NewRequestWithBody(t, http.MethodPost, "/utils/convert-western-to-era", "{not json")
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(domainerrors.CodeBadRequest))
}
