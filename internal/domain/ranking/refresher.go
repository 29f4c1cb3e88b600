package ranking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pet-feeding-ranking/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

const DefaultRefreshInterval = 60 * time.Second

// Refresher mantiene caliente el snapshot del Service con un intervalo fijo.
// Las consultas siguen funcionando sin él (el Service lee on-demand cuando el snapshot vence).
type Refresher struct {
	svc      *Service
	interval time.Duration
	log      logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	started bool
}

func NewRefresher(svc *Service, interval time.Duration, log logger.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	cl := cronLogger{log: log.With(map[string]any{"component": "ranking_refresher"})}

	return &Refresher{
		svc:      svc,
		interval: interval,
		log:      cl.log,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// Start hace un refresh inmediato y después agenda "@every interval".
// Un primer refresh fallido no impide arrancar: se reintenta en el próximo tick.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	id, err := r.cron.AddFunc("@every "+r.interval.String(), func() {
		_ = r.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("refresher: schedule: %w", err)
	}
	r.entryID = id

	_ = r.RunOnce(ctx)

	r.cron.Start()
	r.started = true
	r.log.Info("ranking refresher started", map[string]any{"interval": r.interval.String()})
	return nil
}

// Stop frena el scheduler y espera a que termine un refresh en curso.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return
	}
	<-r.cron.Stop().Done()
	r.cron.Remove(r.entryID)
	r.started = false
	r.log.Info("ranking refresher stopped", nil)
}

func (r *Refresher) RunOnce(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.svc.Refresh(ctx)
	return err
}

// cronLogger adapta logger.Logger a cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug("cron: "+msg, kvToFields(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	f := kvToFields(keysAndValues)
	if err != nil {
		f["error"] = err.Error()
	}
	c.log.Error("cron: "+msg, f)
}

func kvToFields(kv []any) map[string]any {
	out := make(map[string]any, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			k = fmt.Sprint(kv[i])
		}
		out[k] = kv[i+1]
	}
	return out
}
