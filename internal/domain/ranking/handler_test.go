package ranking

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(src *fakeSource) (http.Handler, *Service) {
	svc, _, _ := newTestService(src, time.Minute)
	r := chi.NewRouter()
	RegisterRoutes(r, svc)
	return r, svc
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_Trust(t *testing.T) {
	h, _ := newTestRouter(&fakeSource{logs: scenarioLogs()})

	rec := doGet(t, h, "/rankings/trust?species=dog&category=feed")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, testNow.Format(time.RFC3339), rec.Header().Get(HeaderSnapshotGeneratedAt))

	var rows []Row
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, "BrandX", rows[0].Brand)
	require.Equal(t, 100, rows[0].MaxDays)
	require.NotContains(t, rec.Body.String(), `"score"`)
}

func TestHandler_PopularityIgnoresMinLogs(t *testing.T) {
	h, _ := newTestRouter(&fakeSource{logs: scenarioLogs()})

	// min_logs inválido no importa en popularidad
	rec := doGet(t, h, "/rankings/popularity?species=all&min_logs=abc")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []Row
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Equal(t, []string{"BrandX", "BrandZ"}, brands(rows))
}

func TestHandler_BlendIncludesScore(t *testing.T) {
	h, _ := newTestRouter(&fakeSource{logs: scenarioLogs()})

	rec := doGet(t, h, "/rankings/blend?min_logs=1&limit=1&offset=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []Row
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, 2, rows[0].Rank)
	require.NotNil(t, rows[0].Score)
	require.InDelta(t, 0.3, *rows[0].Score, 1e-9)
}

func TestHandler_BadParams(t *testing.T) {
	h, _ := newTestRouter(&fakeSource{logs: scenarioLogs()})

	for _, target := range []string{
		"/rankings/trust?species=hamster",
		"/rankings/trust?category=toys",
		"/rankings/trust?limit=0",
		"/rankings/trust?limit=101",
		"/rankings/blend?offset=-1",
		"/rankings/blend?min_logs=0",
		"/rankings/popularity?limit=x",
	} {
		rec := doGet(t, h, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestHandler_DataUnavailable(t *testing.T) {
	h, _ := newTestRouter(&fakeSource{err: errors.New("timeout")})

	rec := doGet(t, h, "/rankings/trust")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Empty(t, rec.Header().Get(HeaderSnapshotGeneratedAt))
}

func TestHandler_Status(t *testing.T) {
	h, svc := newTestRouter(&fakeSource{logs: scenarioLogs()})

	rec := doGet(t, h, "/rankings/status")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ready":false,"logs_scanned":0,"aggregates":0,"skipped":0,"skip_reasons":{}}`, rec.Body.String())

	_, err := svc.Refresh(t.Context())
	require.NoError(t, err)

	rec = doGet(t, h, "/rankings/status")
	var body statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Ready)
	require.Equal(t, 3, body.LogsScanned)
	require.Equal(t, 2, body.Aggregates)
	require.NotNil(t, body.GeneratedAt)
	require.True(t, testNow.Equal(*body.GeneratedAt))
}
