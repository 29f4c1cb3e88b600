package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"pet-feeding-ranking/internal/domain/feedinglogs"

	"github.com/google/uuid"
)

// FeedingLogsRepo es el Log Store en memoria (modo dev y tests).
type FeedingLogsRepo struct {
	mu   sync.RWMutex
	byID map[string]feedinglogs.FeedingLog

	// failWith simula un Log Store caído.
	failWith error
}

func NewFeedingLogsRepo() *FeedingLogsRepo {
	return &FeedingLogsRepo{
		byID: make(map[string]feedinglogs.FeedingLog),
	}
}

// Create guarda el log tal cual; si no trae id se le asigna uno.
// No valida identidad: el agregador es quien decide qué saltear.
func (r *FeedingLogsRepo) Create(ctx context.Context, l feedinglogs.FeedingLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		l.ID = uuid.NewString()
	}
	// mismo default que postgres y sqlite
	if l.Visibility == "" {
		l.Visibility = feedinglogs.VisibilityVisible
	}
	if _, exists := r.byID[l.ID]; exists {
		return feedinglogs.ErrDuplicate
	}
	r.byID[l.ID] = copyLog(l)
	return nil
}

// Delete existe para simular ediciones/bajas del Log Store en tests.
func (r *FeedingLogsRepo) Delete(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// SetVisibility simula una decisión de moderación.
func (r *FeedingLogsRepo) SetVisibility(ctx context.Context, id string, v feedinglogs.Visibility) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.byID[id]
	if !ok {
		return false
	}
	l.Visibility = v
	r.byID[id] = l
	return true
}

// FailWith hace que ListVisible devuelva err (nil lo desactiva).
func (r *FeedingLogsRepo) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

// ListVisible devuelve copias ordenadas por id (orden estable en dev).
func (r *FeedingLogsRepo) ListVisible(ctx context.Context) ([]feedinglogs.FeedingLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	out := make([]feedinglogs.FeedingLog, 0, len(r.byID))
	for _, l := range r.byID {
		if !l.IsVisible() {
			continue
		}
		out = append(out, copyLog(l))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func copyLog(l feedinglogs.FeedingLog) feedinglogs.FeedingLog {
	if l.PeriodEnd != nil {
		t := *l.PeriodEnd
		l.PeriodEnd = &t
	}
	return l
}
