package feedinglogs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// seedRecord es el formato YAML del archivo de seed (SEED_FILE).
type seedRecord struct {
	ID          string `yaml:"id"`
	Species     string `yaml:"species"`
	Category    string `yaml:"category"`
	Brand       string `yaml:"brand"`
	Product     string `yaml:"product"`
	Status      string `yaml:"status"`
	PeriodStart string `yaml:"period_start"`
	PeriodEnd   string `yaml:"period_end"`
	Visibility  string `yaml:"visibility"`
	UpdatedAt   string `yaml:"updated_at"`
}

// DecodeSeed parsea una lista YAML de logs.
// No valida identidad: un seed puede traer logs malformados a propósito.
func DecodeSeed(r io.Reader) ([]FeedingLog, error) {
	var recs []seedRecord
	if err := yaml.NewDecoder(r).Decode(&recs); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("seed: parse yaml: %w", err)
	}

	out := make([]FeedingLog, 0, len(recs))
	for i, rec := range recs {
		l, err := rec.toLog()
		if err != nil {
			return nil, fmt.Errorf("seed: record %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}

// LoadSeed decodifica y escribe cada log en el store. Devuelve cuántos se crearon;
// los ids que ya existen se saltean para poder re-seedear un store persistente.
func LoadSeed(ctx context.Context, store Store, r io.Reader) (int, error) {
	logs, err := DecodeSeed(r)
	if err != nil {
		return 0, err
	}
	created := 0
	for i, l := range logs {
		if err := store.Create(ctx, l); err != nil {
			if errors.Is(err, ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("seed: create record %d: %w", i, err)
		}
		created++
	}
	return created, nil
}

func (rec seedRecord) toLog() (FeedingLog, error) {
	l := FeedingLog{
		ID:         strings.TrimSpace(rec.ID),
		Species:    Species(strings.ToLower(strings.TrimSpace(rec.Species))),
		Category:   Category(strings.ToLower(strings.TrimSpace(rec.Category))),
		Brand:      rec.Brand,
		Product:    rec.Product,
		Status:     Status(strings.ToLower(strings.TrimSpace(rec.Status))),
		Visibility: Visibility(strings.ToLower(strings.TrimSpace(rec.Visibility))),
	}

	if strings.TrimSpace(rec.PeriodStart) != "" {
		t, err := ParseDate(rec.PeriodStart)
		if err != nil {
			return FeedingLog{}, fmt.Errorf("period_start: %w", err)
		}
		l.PeriodStart = t
	}
	if strings.TrimSpace(rec.PeriodEnd) != "" {
		t, err := ParseDate(rec.PeriodEnd)
		if err != nil {
			return FeedingLog{}, fmt.Errorf("period_end: %w", err)
		}
		l.PeriodEnd = &t
	}
	if strings.TrimSpace(rec.UpdatedAt) != "" {
		t, err := ParseDate(rec.UpdatedAt)
		if err != nil {
			return FeedingLog{}, fmt.Errorf("updated_at: %w", err)
		}
		l.UpdatedAt = t
	}

	if l.Visibility == "" {
		l.Visibility = VisibilityVisible
	}
	if l.Status == "" {
		l.Status = StatusFeeding
		if l.PeriodEnd != nil {
			l.Status = StatusCompleted
		}
	}
	return l, nil
}
