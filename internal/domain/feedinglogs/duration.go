package feedinglogs

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DurationDays devuelve la duración del episodio en días calendario (UTC), nunca negativa.
//
// Reglas:
// - con PeriodEnd: end - start
// - feeding: now - start
// - paused: se congela en UpdatedAt (momento de la pausa); si no hay UpdatedAt, now - start
// - completed sin end: UpdatedAt - start, o 0 si tampoco hay UpdatedAt
func (l FeedingLog) DurationDays(now time.Time) int {
	end := l.activityEnd(now)
	if end.IsZero() {
		return 0
	}
	d := daysBetween(l.PeriodStart, end)
	if d < 0 {
		return 0
	}
	return d
}

func (l FeedingLog) activityEnd(now time.Time) time.Time {
	if l.PeriodEnd != nil {
		return *l.PeriodEnd
	}
	switch l.Status {
	case StatusFeeding:
		return now
	case StatusPaused:
		if !l.UpdatedAt.IsZero() {
			return l.UpdatedAt
		}
		return now
	case StatusCompleted:
		return l.UpdatedAt
	default:
		// status desconocido: lo tratamos como activo
		return now
	}
}

func daysBetween(from, to time.Time) int {
	a := truncateDay(from)
	b := truncateDay(to)
	return int(b.Sub(a).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate acepta YYYY-MM-DD o RFC3339 (lo que devuelven las distintas fuentes).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD or RFC3339: %q", s)
	}
	return t, nil
}

// FormatDate es el inverso de ParseDate para fechas sin hora.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
