package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-feeding-ranking/internal/domain/feedinglogs"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS feeding_logs (
	id           TEXT PRIMARY KEY,
	species      TEXT NOT NULL,
	category     TEXT NOT NULL,
	brand        TEXT NOT NULL,
	product      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'feeding',
	period_start TEXT NOT NULL,
	period_end   TEXT,
	visibility   TEXT NOT NULL DEFAULT 'visible',
	updated_at   TEXT
);

CREATE INDEX IF NOT EXISTS idx_feeding_logs_visibility ON feeding_logs(visibility);
`

// las fechas se guardan como texto RFC3339 en UTC
const timeLayout = time.RFC3339Nano

// Open abre (o crea) la base y asegura el schema.
// Una sola conexión: sqlite serializa escrituras y ":memory:" es por conexión.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ensure schema: %w", err)
	}
	return db, nil
}

type FeedingLogsRepo struct {
	db *sql.DB
}

func NewFeedingLogsRepo(db *sql.DB) *FeedingLogsRepo {
	return &FeedingLogsRepo{db: db}
}

func (r *FeedingLogsRepo) Create(ctx context.Context, l feedinglogs.FeedingLog) error {
	if strings.TrimSpace(l.ID) == "" {
		l.ID = uuid.NewString()
	}
	if l.Visibility == "" {
		l.Visibility = feedinglogs.VisibilityVisible
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feeding_logs (
			id,
			species, category, brand, product,
			status, period_start, period_end,
			visibility, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?)
	`,
		l.ID,
		string(l.Species),
		string(l.Category),
		l.Brand,
		l.Product,
		string(l.Status),
		formatTime(l.PeriodStart),
		formatNullTime(l.PeriodEnd),
		string(l.Visibility),
		formatNullTimeValue(l.UpdatedAt),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return feedinglogs.ErrDuplicate
	}
	return err
}

func (r *FeedingLogsRepo) ListVisible(ctx context.Context) ([]feedinglogs.FeedingLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id,
			species, category, brand, product,
			status, period_start, period_end,
			visibility, updated_at
		FROM feeding_logs
		WHERE visibility = ?
		ORDER BY id ASC
	`, string(feedinglogs.VisibilityVisible))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feedinglogs.FeedingLog, 0)
	for rows.Next() {
		var l feedinglogs.FeedingLog
		var start string
		var end, updated sql.NullString
		if err := rows.Scan(
			&l.ID,
			&l.Species,
			&l.Category,
			&l.Brand,
			&l.Product,
			&l.Status,
			&start,
			&end,
			&l.Visibility,
			&updated,
		); err != nil {
			return nil, err
		}

		// una fecha ilegible deja el campo en cero; el agregador lo cuenta como salteado
		l.PeriodStart, _ = parseTime(start)
		if end.Valid {
			if t, err := parseTime(end.String); err == nil {
				l.PeriodEnd = &t
			}
		}
		if updated.Valid {
			l.UpdatedAt, _ = parseTime(updated.String)
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func formatNullTimeValue(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time")
	}
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t.UTC(), nil
	}
	// filas cargadas a mano suelen venir como YYYY-MM-DD
	return feedinglogs.ParseDate(s)
}
