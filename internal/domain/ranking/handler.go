package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const HeaderSnapshotGeneratedAt = "X-Snapshot-Generated-At"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/rankings", func(rr chi.Router) {
		rr.Get("/trust", trustHandler(svc))
		rr.Get("/popularity", popularityHandler(svc))
		rr.Get("/blend", blendHandler(svc))

		// Diagnóstico del snapshot vigente
		rr.Get("/status", statusHandler(svc))
	})
}

type statusResponse struct {
	Ready       bool           `json:"ready"`
	GeneratedAt *time.Time     `json:"generated_at,omitempty"`
	LogsScanned int            `json:"logs_scanned"`
	Aggregates  int            `json:"aggregates"`
	Skipped     int            `json:"skipped"`
	SkipReasons map[string]int `json:"skip_reasons"`
}

// trustHandler godoc
// @Summary Ranking por confianza
// @Description Productos ordenados por la duración sostenida más larga (max_days desc, logs_count desc). Solo entran productos con al menos `min_logs` logs visibles.
// @Tags rankings
// @Produce json
// @Param species query string false "dog, cat o all (por defecto all)"
// @Param category query string false "feed, snack, supplement, toilet o all (por defecto all)"
// @Param limit query int false "Cantidad de filas (1-100). Por defecto 10"
// @Param offset query int false "Filas a saltear del orden completo. Por defecto 0"
// @Param min_logs query int false "Mínimo de logs por producto (>= 1). Por defecto 2"
// @Success 200 {array} Row
// @Header 200 {string} X-Snapshot-Generated-At "Momento del snapshot (RFC3339)"
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 429 {string} string "rate limit"
// @Failure 503 {string} string "Log Store no disponible"
// @Router /rankings/trust [get]
func trustHandler(svc *Service) http.HandlerFunc {
	return rankHandler(svc, ModeTrust)
}

// popularityHandler godoc
// @Summary Ranking por popularidad
// @Description Productos ordenados por cantidad de menciones (mentions desc, max_days desc). No aplica umbral de logs.
// @Tags rankings
// @Produce json
// @Param species query string false "dog, cat o all (por defecto all)"
// @Param category query string false "feed, snack, supplement, toilet o all (por defecto all)"
// @Param limit query int false "Cantidad de filas (1-100). Por defecto 10"
// @Param offset query int false "Filas a saltear del orden completo. Por defecto 0"
// @Success 200 {array} Row
// @Header 200 {string} X-Snapshot-Generated-At "Momento del snapshot (RFC3339)"
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 429 {string} string "rate limit"
// @Failure 503 {string} string "Log Store no disponible"
// @Router /rankings/popularity [get]
func popularityHandler(svc *Service) http.HandlerFunc {
	return rankHandler(svc, ModePopularity)
}

// blendHandler godoc
// @Summary Ranking combinado
// @Description Score = 0.5 * duración normalizada + 0.5 * menciones normalizadas, normalizado contra los máximos del conjunto filtrado. Incluye `score` en cada fila.
// @Tags rankings
// @Produce json
// @Param species query string false "dog, cat o all (por defecto all)"
// @Param category query string false "feed, snack, supplement, toilet o all (por defecto all)"
// @Param limit query int false "Cantidad de filas (1-100). Por defecto 10"
// @Param offset query int false "Filas a saltear del orden completo. Por defecto 0"
// @Param min_logs query int false "Mínimo de logs por producto (>= 1). Por defecto 2"
// @Success 200 {array} Row
// @Header 200 {string} X-Snapshot-Generated-At "Momento del snapshot (RFC3339)"
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 429 {string} string "rate limit"
// @Failure 503 {string} string "Log Store no disponible"
// @Router /rankings/blend [get]
func blendHandler(svc *Service) http.HandlerFunc {
	return rankHandler(svc, ModeBlend)
}

func rankHandler(svc *Service, mode Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r, mode)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		res, err := svc.Rank(r.Context(), mode, q)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set(HeaderSnapshotGeneratedAt, res.GeneratedAt.UTC().Format(time.RFC3339))
		writeJSON(w, http.StatusOK, res.Rows)
	}
}

// statusHandler godoc
// @Summary Estado del snapshot
// @Description Diagnóstico del snapshot en memoria: cuándo se generó, cuántos logs leyó y cuántos salteó por malformados. No lee el Log Store.
// @Tags rankings
// @Produce json
// @Success 200 {object} statusResponse
// @Router /rankings/status [get]
func statusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := svc.Status()
		out := statusResponse{
			Ready:       st.Ready,
			LogsScanned: st.LogsScanned,
			Aggregates:  st.Aggregates,
			Skipped:     st.Skipped,
			SkipReasons: st.SkipReasons,
		}
		if out.SkipReasons == nil {
			out.SkipReasons = map[string]int{}
		}
		if st.Ready {
			t := st.GeneratedAt.UTC()
			out.GeneratedAt = &t
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func parseQuery(r *http.Request, mode Mode) (Query, error) {
	v := r.URL.Query()

	sp, err := ParseSpecies(v.Get("species"))
	if err != nil {
		return Query{}, errors.New("species must be dog, cat or all")
	}
	cat, err := ParseCategory(v.Get("category"))
	if err != nil {
		return Query{}, errors.New("category must be feed, snack, supplement, toilet or all")
	}

	q := Query{Species: sp, Category: cat}

	if q.Limit, err = intParam(v.Get("limit"), "limit", 1, MaxLimit); err != nil {
		return Query{}, err
	}
	if q.Offset, err = intParam(v.Get("offset"), "offset", 0, -1); err != nil {
		return Query{}, err
	}
	// popularidad ignora min_logs
	if mode != ModePopularity {
		if q.MinLogs, err = intParam(v.Get("min_logs"), "min_logs", 1, -1); err != nil {
			return Query{}, err
		}
	}
	return q, nil
}

// intParam: vacío = 0 (el servicio aplica el default). hi < 0 = sin tope.
func intParam(raw, name string, lo, hi int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi >= 0 && n > hi) {
		if hi >= 0 {
			return 0, fmt.Errorf("%s must be an integer between %d and %d", name, lo, hi)
		}
		return 0, fmt.Errorf("%s must be an integer >= %d", name, lo)
	}
	return n, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidFilter):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrDataUnavailable):
		http.Error(w, "ranking data unavailable", http.StatusServiceUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request canceled", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
