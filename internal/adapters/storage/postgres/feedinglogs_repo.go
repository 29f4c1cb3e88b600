package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"pet-feeding-ranking/internal/domain/feedinglogs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// unique_violation
const pgUniqueViolation = "23505"

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
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		l.ID,
		string(l.Species),
		string(l.Category),
		l.Brand,
		l.Product,
		string(l.Status),
		l.PeriodStart.UTC(),
		toNullTime(l.PeriodEnd),
		string(l.Visibility),
		toNullTimeValue(l.UpdatedAt),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return feedinglogs.ErrDuplicate
	}
	return err
}

// ListVisible es la única lectura que hace el motor de ranking: un SELECT por refresh.
func (r *FeedingLogsRepo) ListVisible(ctx context.Context) ([]feedinglogs.FeedingLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id,
			species, category, brand, product,
			status, period_start, period_end,
			visibility, updated_at
		FROM feeding_logs
		WHERE visibility = $1
		ORDER BY id ASC
	`, string(feedinglogs.VisibilityVisible))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feedinglogs.FeedingLog, 0)
	for rows.Next() {
		var l feedinglogs.FeedingLog
		var end, updated sql.NullTime
		if err := rows.Scan(
			&l.ID,
			&l.Species,
			&l.Category,
			&l.Brand,
			&l.Product,
			&l.Status,
			&l.PeriodStart,
			&end,
			&l.Visibility,
			&updated,
		); err != nil {
			return nil, err
		}

		if end.Valid {
			t := end.Time
			l.PeriodEnd = &t
		}
		if updated.Valid {
			l.UpdatedAt = updated.Time
		}
		out = append(out, l)
	}

	return out, rows.Err()
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func toNullTimeValue(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
