package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"pet-feeding-ranking/internal/domain/feedinglogs"
	"pet-feeding-ranking/internal/platform/httpclient"

	"github.com/stretchr/testify/require"
)

func TestClient_ListVisible(t *testing.T) {
	var gotPath, gotKey, gotAuth string
	var gotQuery map[string][]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("offset") != "0" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[
			{"id":"a","species":"dog","category":"feed","brand":"BrandX","product":"ProductY",
			 "status":"completed","period_start":"2025-01-01","period_end":"2025-02-10",
			 "visibility":"visible","updated_at":"2025-02-10T08:00:00Z"},
			{"id":"b","species":"Cat","category":"snack","brand":"B","product":"P",
			 "status":"feeding","period_start":"not-a-date","period_end":null,
			 "visibility":"visible","updated_at":null}
		]`))
	}))
	defer ts.Close()

	c, err := NewClient(Config{BaseURL: ts.URL + "/rest/v1", APIKey: "k3y", Timeout: time.Second, MaxRows: 5000, PageSize: 500})
	require.NoError(t, err)

	logs, err := c.ListVisible(context.Background())
	require.NoError(t, err)

	require.Equal(t, "/rest/v1/feeding_logs", gotPath)
	require.Equal(t, "eq.visible", gotQuery["visibility"][0])
	require.Equal(t, "500", gotQuery["limit"][0])
	require.Equal(t, "id.asc", gotQuery["order"][0])
	require.Equal(t, selectColumns, gotQuery["select"][0])
	require.Equal(t, "k3y", gotKey)
	require.Equal(t, "Bearer k3y", gotAuth)

	require.Len(t, logs, 2)
	require.Equal(t, feedinglogs.SpeciesDog, logs[0].Species)
	require.Equal(t, 40, logs[0].DurationDays(time.Now()))
	require.False(t, logs[0].UpdatedAt.IsZero())

	require.Equal(t, feedinglogs.SpeciesCat, logs[1].Species)
	require.True(t, logs[1].PeriodStart.IsZero())
	require.Nil(t, logs[1].PeriodEnd)
	require.Equal(t, "period_start", feedinglogs.SkipReason(logs[1]))
}

func TestClient_ListVisible_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"JWT expired"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	c, err := NewClient(Config{BaseURL: ts.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.ListVisible(context.Background())
	var he *httpclient.HTTPError
	require.True(t, errors.As(err, &he))
	require.Equal(t, http.StatusUnauthorized, he.StatusCode)
}

func TestNewClient_RequiresConfig(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "http://x"})
	require.ErrorIs(t, err, ErrMissingConfig)

	c, err := NewClient(Config{BaseURL: "http://x", APIKey: "k"})
	require.NoError(t, err)
	require.Equal(t, DefaultMaxRows, c.maxRows)
	require.Equal(t, DefaultPageSize, c.pageSize)
}

// cappedStore sirve n filas visibles paginando con offset/limit y nunca devuelve
// más de serverCap filas por request, como un PostgREST con max-rows.
func cappedStore(t *testing.T, n, serverCap int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit > serverCap {
			limit = serverCap
		}
		rows := []map[string]any{}
		for i := offset; i < n && len(rows) < limit; i++ {
			rows = append(rows, map[string]any{
				"id": fmt.Sprintf("log-%03d", i), "species": "dog", "category": "feed",
				"brand": "B", "product": "P", "status": "completed",
				"period_start": "2025-01-01", "period_end": "2025-01-11", "visibility": "visible",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}))
	t.Cleanup(ts.Close)
	return ts, calls
}

func TestClient_ListVisible_PagesPastServerCap(t *testing.T) {
	ts, calls := cappedStore(t, 5, 3)

	c, err := NewClient(Config{BaseURL: ts.URL, APIKey: "k", MaxRows: 100, PageSize: 10})
	require.NoError(t, err)

	logs, err := c.ListVisible(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 5)
	require.Equal(t, "log-000", logs[0].ID)
	require.Equal(t, "log-004", logs[4].ID)
	// 3 + 2 + página vacía
	require.Equal(t, int32(3), calls.Load())
}

func TestClient_ListVisible_ExceedsMaxRows(t *testing.T) {
	ts, _ := cappedStore(t, 5, 3)

	c, err := NewClient(Config{BaseURL: ts.URL, APIKey: "k", MaxRows: 3})
	require.NoError(t, err)

	logs, err := c.ListVisible(context.Background())
	require.ErrorIs(t, err, ErrTooManyRows)
	require.Nil(t, logs)
}

func TestClient_ListVisible_Empty(t *testing.T) {
	ts, calls := cappedStore(t, 0, 3)

	c, err := NewClient(Config{BaseURL: ts.URL, APIKey: "k"})
	require.NoError(t, err)

	logs, err := c.ListVisible(context.Background())
	require.NoError(t, err)
	require.Empty(t, logs)
	require.Equal(t, int32(1), calls.Load())
}
