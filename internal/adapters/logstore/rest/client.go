package rest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-feeding-ranking/internal/domain/feedinglogs"
	"pet-feeding-ranking/internal/platform/httpclient"
)

const (
	DefaultMaxRows  = 50000
	DefaultPageSize = 1000
	tablePath      = "/feeding_logs"
	selectColumns  = "id,species,category,brand,product,status,period_start,period_end,visibility,updated_at"
)

var (
	ErrMissingConfig = errors.New("rest log store: base url and api key are required")
	ErrTooManyRows   = errors.New("rest log store: visible logs exceed max rows")
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	MaxRows int
	// Filas pedidas por request. El servidor puede devolver menos (tope propio).
	PageSize int
}

// Client lee logs visibles de un Log Store hosteado con API estilo PostgREST.
// Es solo lectura: no implementa Create.
type Client struct {
	http     *httpclient.Client
	maxRows  int
	pageSize int
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingConfig
	}

	hc, err := httpclient.New(httpclient.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		DefaultHeaders: map[string]string{
			"apikey":        cfg.APIKey,
			"Authorization": "Bearer " + cfg.APIKey,
		},
		// 50k filas de ~300 bytes
		MaxBodyBytes: 32 << 20,
	})
	if err != nil {
		return nil, err
	}

	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > maxRows {
		pageSize = maxRows
	}
	return &Client{http: hc, maxRows: maxRows, pageSize: pageSize}, nil
}

type row struct {
	ID          string  `json:"id"`
	Species     string  `json:"species"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Product     string  `json:"product"`
	Status      string  `json:"status"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   *string `json:"period_end"`
	Visibility  string  `json:"visibility"`
	UpdatedAt   *string `json:"updated_at"`
}

// ListVisible pagina con offset hasta recibir una página vacía.
// Una página corta no alcanza como fin: el servidor puede tener su propio tope de filas.
// Si hay más de maxRows logs visibles devuelve ErrTooManyRows en vez de un snapshot parcial.
func (c *Client) ListVisible(ctx context.Context) ([]feedinglogs.FeedingLog, error) {
	var out []feedinglogs.FeedingLog

	for {
		q := url.Values{}
		q.Set("select", selectColumns)
		q.Set("visibility", "eq."+string(feedinglogs.VisibilityVisible))
		q.Set("order", "id.asc")
		q.Set("limit", strconv.Itoa(c.pageSize))
		q.Set("offset", strconv.Itoa(len(out)))

		var rows []row
		if err := c.http.GetJSON(ctx, tablePath, q, &rows); err != nil {
			return nil, fmt.Errorf("rest log store: %w", err)
		}
		if len(rows) == 0 {
			break
		}
		for _, r := range rows {
			out = append(out, r.toLog())
		}
		if len(out) > c.maxRows {
			return nil, fmt.Errorf("%w (%d)", ErrTooManyRows, c.maxRows)
		}
	}

	if out == nil {
		out = []feedinglogs.FeedingLog{}
	}
	return out, nil
}

// toLog no falla: fechas ilegibles quedan en cero y el agregador las saltea.
func (r row) toLog() feedinglogs.FeedingLog {
	l := feedinglogs.FeedingLog{
		ID:         r.ID,
		Species:    feedinglogs.Species(strings.ToLower(strings.TrimSpace(r.Species))),
		Category:   feedinglogs.Category(strings.ToLower(strings.TrimSpace(r.Category))),
		Brand:      r.Brand,
		Product:    r.Product,
		Status:     feedinglogs.Status(strings.ToLower(strings.TrimSpace(r.Status))),
		Visibility: feedinglogs.Visibility(strings.ToLower(strings.TrimSpace(r.Visibility))),
	}
	if t, err := feedinglogs.ParseDate(r.PeriodStart); err == nil {
		l.PeriodStart = t
	}
	if r.PeriodEnd != nil {
		if t, err := feedinglogs.ParseDate(*r.PeriodEnd); err == nil {
			l.PeriodEnd = &t
		}
	}
	if r.UpdatedAt != nil {
		if t, err := feedinglogs.ParseDate(*r.UpdatedAt); err == nil {
			l.UpdatedAt = t
		}
	}
	return l
}
