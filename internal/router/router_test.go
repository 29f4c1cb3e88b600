package router_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	mem "pet-feeding-ranking/internal/adapters/storage/memory"
	"pet-feeding-ranking/internal/domain/feedinglogs"
	"pet-feeding-ranking/internal/domain/ranking"
	"pet-feeding-ranking/internal/middleware"
	"pet-feeding-ranking/internal/platform/metrics"
	"pet-feeding-ranking/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
- id: A
  species: dog
  category: feed
  brand: BrandX
  product: ProductY
  period_start: 2025-01-01
  period_end: 2025-02-10
- id: B
  species: dog
  category: feed
  brand: "brandx "
  product: ProductY
  period_start: 2025-01-10
  period_end: 2025-04-20
- id: C
  species: dog
  category: feed
  brand: BrandZ
  product: ProductW
  period_start: 2025-02-01
  period_end: 2025-02-11
- id: D
  species: cat
  category: toilet
  brand: Sand
  product: Fine
  period_start: 2025-03-01
  period_end: 2025-03-05
- id: hidden
  species: dog
  category: feed
  brand: BrandZ
  product: ProductW
  period_start: 2025-01-01
  period_end: 2025-12-01
  visibility: hidden
- id: broken
  species: dog
  category: feed
  brand: ""
  product: Nameless
  period_start: 2025-01-01
`

type testEnv struct {
	ts    *httptest.Server
	store *mem.FeedingLogsRepo
	reg   *prometheus.Registry
}

func newEnv(t *testing.T, rl *middleware.RateLimiter) testEnv {
	t.Helper()

	store := mem.NewFeedingLogsRepo()
	n, err := feedinglogs.LoadSeed(context.Background(), store, strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Equal(t, 6, n)

	reg := prometheus.NewRegistry()
	svc := ranking.NewService(store, ranking.Options{
		// sin cache: cada request ve el estado actual del store
		SnapshotMaxAge: 0,
		Metrics:        metrics.NewCollector(reg),
	})

	ts := httptest.NewServer(router.NewRouter(router.Options{
		Ranking:     svc,
		Gatherer:    reg,
		RateLimiter: rl,
	}))
	t.Cleanup(ts.Close)
	return testEnv{ts: ts, store: store, reg: reg}
}

func getRows(t *testing.T, baseURL, path string) (int, []ranking.Row, http.Header) {
	t.Helper()
	resp, err := http.Get(baseURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil, resp.Header
	}
	var rows []ranking.Row
	require.NoError(t, json.Unmarshal(body, &rows), string(body))
	return resp.StatusCode, rows, resp.Header
}

func TestHTTP_EndToEnd_Rankings(t *testing.T) {
	env := newEnv(t, nil)

	// 1) Trust: solo BrandX/ProductY corrobora con 2 logs ("brandx " se agrupa con "BrandX")
	st, rows, hdr := getRows(t, env.ts.URL, "/rankings/trust?species=dog&category=feed")
	require.Equal(t, http.StatusOK, st)
	require.Len(t, rows, 1)
	require.Equal(t, 100, rows[0].MaxDays)
	require.Equal(t, 2, rows[0].LogsCount)
	require.Equal(t, "brandx", rows[0].Brand)
	_, err := time.Parse(time.RFC3339, hdr.Get(ranking.HeaderSnapshotGeneratedAt))
	require.NoError(t, err)

	// 2) Popularidad: el log oculto de BrandZ no cuenta
	_, rows, _ = getRows(t, env.ts.URL, "/rankings/popularity?species=dog&category=feed")
	require.Len(t, rows, 2)
	require.Equal(t, 2, rows[0].Mentions)
	require.Equal(t, "BrandZ", rows[1].Brand)
	require.Equal(t, 1, rows[1].Mentions)

	// 3) Blend con score 1.0 para el líder
	_, rows, _ = getRows(t, env.ts.URL, "/rankings/blend?species=dog&category=feed")
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Score)
	require.InDelta(t, 1.0, *rows[0].Score, 1e-9)

	// 4) Sin filtros: aparece el producto de gato
	_, rows, _ = getRows(t, env.ts.URL, "/rankings/popularity")
	require.Len(t, rows, 3)

	// 5) Moderación: ocultar B hace caer a BrandX del ranking de confianza
	require.True(t, env.store.SetVisibility(context.Background(), "B", feedinglogs.VisibilityHidden))
	_, rows, _ = getRows(t, env.ts.URL, "/rankings/trust?species=dog&category=feed")
	require.Empty(t, rows)

	// 6) Status refleja el log malformado
	resp, err := http.Get(env.ts.URL + "/rankings/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	var status map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	require.Equal(t, true, status["ready"])
	require.Equal(t, float64(1), status["skipped"])
}

func TestHTTP_BadParamsAndUnavailable(t *testing.T) {
	env := newEnv(t, nil)

	st, _, _ := getRows(t, env.ts.URL, "/rankings/trust?species=fish")
	require.Equal(t, http.StatusBadRequest, st)

	st, _, _ = getRows(t, env.ts.URL, "/rankings/blend?limit=500")
	require.Equal(t, http.StatusBadRequest, st)

	env.store.FailWith(context.DeadlineExceeded)
	st, _, _ = getRows(t, env.ts.URL, "/rankings/trust")
	require.Equal(t, http.StatusServiceUnavailable, st)
}

func TestHTTP_HealthMetricsAndSwagger(t *testing.T) {
	env := newEnv(t, nil)

	resp, err := http.Get(env.ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))

	st, _, _ := getRows(t, env.ts.URL, "/rankings/trust")
	require.Equal(t, http.StatusOK, st)

	resp, err = http.Get(env.ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `ranking_queries_total{cache="miss",mode="trust"} 1`)
	require.Contains(t, string(body), `ranking_refresh_total{result="ok"} 1`)

	resp, err = http.Get(env.ts.URL + "/swagger/doc.json")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "/rankings/blend")
}

func TestHTTP_RateLimitOnlyOnRankings(t *testing.T) {
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{PerMinute: 60, Burst: 1}, nil)
	defer rl.Stop()
	env := newEnv(t, rl)

	st, _, _ := getRows(t, env.ts.URL, "/rankings/popularity")
	require.Equal(t, http.StatusOK, st)

	st, _, hdr := getRows(t, env.ts.URL, "/rankings/popularity")
	require.Equal(t, http.StatusTooManyRequests, st)
	require.NotEmpty(t, hdr.Get("Retry-After"))

	for i := 0; i < 3; i++ {
		resp, err := http.Get(env.ts.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
