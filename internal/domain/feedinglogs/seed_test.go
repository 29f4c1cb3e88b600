package feedinglogs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type captureStore struct {
	created []FeedingLog
	failAt  int
	seen    map[string]bool
}

func (s *captureStore) ListVisible(ctx context.Context) ([]FeedingLog, error) {
	return s.created, nil
}

func (s *captureStore) Create(ctx context.Context, l FeedingLog) error {
	if s.failAt > 0 && len(s.created)+1 == s.failAt {
		return errors.New("boom")
	}
	if l.ID != "" && s.seen[l.ID] {
		return ErrDuplicate
	}
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	s.seen[l.ID] = true
	s.created = append(s.created, l)
	return nil
}

const seedYAML = `
- id: log-a
  species: Dog
  category: feed
  brand: BrandX
  product: ProductY
  status: completed
  period_start: "2025-01-01"
  period_end: "2025-02-10"
- species: cat
  category: snack
  brand: Chuuu
  product: Tuna Stick
  period_start: "2025-03-01"
  visibility: hidden
- species: cat
  category: snack
  brand: Chuuu
  product: Tuna Stick
  status: paused
  period_start: "2025-03-01"
  updated_at: "2025-03-15T09:00:00Z"
`

func TestDecodeSeed(t *testing.T) {
	logs, err := DecodeSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, logs, 3)

	a := logs[0]
	require.Equal(t, "log-a", a.ID)
	require.Equal(t, SpeciesDog, a.Species)
	require.Equal(t, StatusCompleted, a.Status)
	require.Equal(t, VisibilityVisible, a.Visibility)
	require.NotNil(t, a.PeriodEnd)
	require.Equal(t, 40, a.DurationDays(date(2030, 1, 1)))

	// sin status ni end => feeding
	require.Equal(t, StatusFeeding, logs[1].Status)
	require.Equal(t, VisibilityHidden, logs[1].Visibility)

	require.Equal(t, StatusPaused, logs[2].Status)
	require.Equal(t, 14, logs[2].DurationDays(date(2030, 1, 1)))
}

func TestDecodeSeed_Empty(t *testing.T) {
	logs, err := DecodeSeed(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, logs)
}

func TestDecodeSeed_BadDate(t *testing.T) {
	_, err := DecodeSeed(strings.NewReader(`- species: dog
  period_start: "yesterday"
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "record 0")
}

func TestLoadSeed(t *testing.T) {
	store := &captureStore{}
	n, err := LoadSeed(context.Background(), store, strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, store.created, 3)

	failing := &captureStore{failAt: 2}
	n, err = LoadSeed(context.Background(), failing, strings.NewReader(seedYAML))
	require.Error(t, err)
	require.Equal(t, 1, n)
}

func TestLoadSeed_SkipsDuplicates(t *testing.T) {
	store := &captureStore{}
	yml := `- id: same
  species: dog
  category: feed
  brand: A
  product: B
  period_start: 2025-01-01
- id: same
  species: dog
  category: feed
  brand: A
  product: B
  period_start: 2025-01-01
`
	n, err := LoadSeed(context.Background(), store, strings.NewReader(yml))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, store.created, 1)
}
