package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pet-feeding-ranking/internal/domain/feedinglogs"
	"pet-feeding-ranking/internal/platform/logger"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultSnapshotMaxAge = 2 * time.Minute
	DefaultLoadTimeout    = 10 * time.Second
)

// Metrics es lo que el servicio reporta; platform/metrics lo implementa con Prometheus.
type Metrics interface {
	RecordRefresh(d time.Duration, logs, aggregates, skipped int)
	RecordRefreshFailure(d time.Duration)
	RecordQuery(mode string, cacheHit bool)
}

type nopMetrics struct{}

func (nopMetrics) RecordRefresh(time.Duration, int, int, int) {}
func (nopMetrics) RecordRefreshFailure(time.Duration)         {}
func (nopMetrics) RecordQuery(string, bool)                   {}

type Options struct {
	// SnapshotMaxAge: cuánto se reutiliza un snapshot antes de volver a leer el Log Store.
	// 0 = leer en cada consulta.
	SnapshotMaxAge time.Duration
	LoadTimeout    time.Duration

	Logger  logger.Logger
	Metrics Metrics
}

// Query es el contrato compartido de filtros + paginación de los tres rankings.
// Valores cero toman los defaults (limit 10, min_logs 2).
type Query struct {
	Species  feedinglogs.Species
	Category feedinglogs.Category
	Limit    int
	Offset   int
	MinLogs  int
}

type Result struct {
	Mode        Mode
	Rows        []Row
	GeneratedAt time.Time
}

// Status describe el snapshot vigente (diagnóstico, sin I/O).
type Status struct {
	Ready       bool
	GeneratedAt time.Time
	LogsScanned int
	Aggregates  int
	Skipped     int
	SkipReasons map[string]int
}

type resultKey struct {
	mode     Mode
	species  feedinglogs.Species
	category feedinglogs.Category
	limit    int
	offset   int
	minLogs  int
}

// snapshotEntry agrupa un snapshot con su cache de resultados.
// Se reemplaza entero en cada refresh; nunca se modifica el snapshot en sitio.
type snapshotEntry struct {
	snap Snapshot

	mu      sync.RWMutex
	results map[resultKey][]Row
}

func (e *snapshotEntry) lookup(k resultKey) ([]Row, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rows, ok := e.results[k]
	return rows, ok
}

func (e *snapshotEntry) store(k resultKey, rows []Row) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.results[k] = rows
}

// Service es la fachada de consultas: arma snapshots desde el Log Store y delega
// en los rankers (funciones puras).
type Service struct {
	source      feedinglogs.Source
	now         func() time.Time
	maxAge      time.Duration
	loadTimeout time.Duration
	log         logger.Logger
	metrics     Metrics

	group   singleflight.Group
	current atomic.Pointer[snapshotEntry]
}

func NewService(source feedinglogs.Source, opts Options) *Service {
	s := &Service{
		source:      source,
		now:         time.Now,
		maxAge:      opts.SnapshotMaxAge,
		loadTimeout: opts.LoadTimeout,
		log:         opts.Logger,
		metrics:     opts.Metrics,
	}
	if s.maxAge < 0 {
		s.maxAge = 0
	}
	if s.loadTimeout <= 0 {
		s.loadTimeout = DefaultLoadTimeout
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	return s
}

func (s *Service) RankByTrust(ctx context.Context, q Query) (Result, error) {
	return s.rank(ctx, ModeTrust, q)
}

func (s *Service) RankByPopularity(ctx context.Context, q Query) (Result, error) {
	return s.rank(ctx, ModePopularity, q)
}

func (s *Service) RankByBlend(ctx context.Context, q Query) (Result, error) {
	return s.rank(ctx, ModeBlend, q)
}

// Rank despacha por modo; lo usa el handler HTTP.
func (s *Service) Rank(ctx context.Context, mode Mode, q Query) (Result, error) {
	switch mode {
	case ModeTrust, ModePopularity, ModeBlend:
		return s.rank(ctx, mode, q)
	default:
		return Result{}, fmt.Errorf("%w: mode %q", ErrInvalidFilter, mode)
	}
}

func (s *Service) rank(ctx context.Context, mode Mode, q Query) (Result, error) {
	if q.Species != "" && !q.Species.Valid() {
		return Result{}, fmt.Errorf("%w: species %q", ErrInvalidFilter, q.Species)
	}
	if q.Category != "" && !q.Category.Valid() {
		return Result{}, fmt.Errorf("%w: category %q", ErrInvalidFilter, q.Category)
	}

	e, err := s.snapshot(ctx)
	if err != nil {
		return Result{}, err
	}

	key := keyFor(mode, q)
	out := Result{Mode: mode, GeneratedAt: e.snap.GeneratedAt}

	if rows, ok := e.lookup(key); ok {
		s.metrics.RecordQuery(string(mode), true)
		out.Rows = cloneRows(rows)
		return out, nil
	}

	f := Filter{Species: q.Species, Category: q.Category}
	var full []Row
	switch mode {
	case ModeTrust:
		full = trustOrder(e.snap.Aggregates, f, key.minLogs)
	case ModePopularity:
		full = popularityOrder(e.snap.Aggregates, f)
	case ModeBlend:
		full = blendOrder(e.snap.Aggregates, f, key.minLogs)
	}

	rows := page(full, key.offset, key.limit)
	// offset sin tope: solo se cachean páginas con filas
	if key.offset < len(full) {
		e.store(key, rows)
	}
	s.metrics.RecordQuery(string(mode), false)

	out.Rows = cloneRows(rows)
	return out, nil
}

func keyFor(mode Mode, q Query) resultKey {
	k := resultKey{
		mode:     mode,
		species:  q.Species,
		category: q.Category,
		limit:    normalizeLimit(q.Limit),
		offset:   q.Offset,
		minLogs:  q.MinLogs,
	}
	if k.offset < 0 {
		k.offset = 0
	}
	if k.minLogs == 0 {
		k.minLogs = DefaultMinLogs
	}
	k.minLogs = normalizeMinLogs(k.minLogs)
	if mode == ModePopularity {
		// popularidad no usa umbral
		k.minLogs = 0
	}
	return k
}

// Status no dispara lecturas.
func (s *Service) Status() Status {
	e := s.current.Load()
	if e == nil {
		return Status{}
	}
	reasons := make(map[string]int, len(e.snap.SkipReasons))
	for k, v := range e.snap.SkipReasons {
		reasons[k] = v
	}
	return Status{
		Ready:       true,
		GeneratedAt: e.snap.GeneratedAt,
		LogsScanned: e.snap.LogsScanned,
		Aggregates:  len(e.snap.Aggregates),
		Skipped:     e.snap.Skipped,
		SkipReasons: reasons,
	}
}

// Refresh fuerza un snapshot nuevo desde el Log Store.
func (s *Service) Refresh(ctx context.Context) (Status, error) {
	if _, err := s.refresh(ctx); err != nil {
		return Status{}, err
	}
	return s.Status(), nil
}

func (s *Service) snapshot(ctx context.Context) (*snapshotEntry, error) {
	if e := s.current.Load(); e != nil && s.maxAge > 0 {
		if s.now().Sub(e.snap.GeneratedAt) < s.maxAge {
			return e, nil
		}
	}
	return s.refresh(ctx)
}

// refresh colapsa lecturas concurrentes en una sola (singleflight).
// Si la lectura falla se devuelve ErrDataUnavailable aunque exista un snapshot viejo:
// el caller decide si muestra datos cacheados o un error.
func (s *Service) refresh(ctx context.Context) (*snapshotEntry, error) {
	ch := s.group.DoChan("snapshot", func() (any, error) {
		// la lectura no depende de la cancelación de un caller puntual
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return s.load(lctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshotEntry), nil
	}
}

func (s *Service) load(ctx context.Context) (*snapshotEntry, error) {
	start := time.Now()

	logs, err := s.source.ListVisible(ctx)
	if err != nil {
		d := time.Since(start)
		s.metrics.RecordRefreshFailure(d)
		s.log.Error("ranking snapshot refresh failed", map[string]any{
			"error":       err.Error(),
			"duration_ms": d.Milliseconds(),
		})
		if errors.Is(err, ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	snap := Aggregate(logs, s.now())
	e := &snapshotEntry{
		snap:    snap,
		results: make(map[resultKey][]Row),
	}
	s.current.Store(e)

	d := time.Since(start)
	s.metrics.RecordRefresh(d, snap.LogsScanned, len(snap.Aggregates), snap.Skipped)

	fields := map[string]any{
		"logs":        snap.LogsScanned,
		"aggregates":  len(snap.Aggregates),
		"skipped":     snap.Skipped,
		"duration_ms": d.Milliseconds(),
	}
	if snap.Skipped > 0 {
		fields["skip_reasons"] = snap.SkipReasons
		s.log.Warn("ranking snapshot refreshed with skipped logs", fields)
	} else {
		s.log.Info("ranking snapshot refreshed", fields)
	}

	return e, nil
}
