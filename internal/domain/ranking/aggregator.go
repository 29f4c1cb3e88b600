package ranking

import (
	"sort"
	"strings"
	"time"

	"pet-feeding-ranking/internal/domain/feedinglogs"
)

type group struct {
	agg ProductAggregate
	rep feedinglogs.FeedingLog // log representativo (el más reciente)
}

// Aggregate agrupa todos los logs visibles por identidad normalizada en una sola pasada.
// Es una función pura del snapshot recibido: no filtra por especie/categoría para que
// el mismo resultado sirva a los tres rankings y a cualquier combinación de filtros.
//
// Logs no visibles se ignoran; logs malformados se saltean y se cuentan en Skipped.
func Aggregate(logs []feedinglogs.FeedingLog, now time.Time) Snapshot {
	snap := Snapshot{
		SkipReasons: map[string]int{},
		GeneratedAt: now,
	}

	groups := make(map[ProductIdentity]*group)

	for _, l := range logs {
		if !l.IsVisible() {
			continue
		}
		snap.LogsScanned++

		if err := l.Validate(); err != nil {
			snap.Skipped++
			snap.SkipReasons[feedinglogs.SkipReason(l)]++
			continue
		}

		id := ProductIdentity{
			Species:    l.Species,
			Category:   l.Category,
			BrandKey:   NormalizeKey(l.Brand),
			ProductKey: NormalizeKey(l.Product),
		}

		days := l.DurationDays(now)

		g, ok := groups[id]
		if !ok {
			g = &group{
				agg: ProductAggregate{Identity: id},
				rep: l,
			}
			groups[id] = g
		} else if moreRecent(l, g.rep) {
			g.rep = l
		}

		g.agg.LogsCount++
		if days > g.agg.MaxDurationDays {
			g.agg.MaxDurationDays = days
		}
	}

	snap.Aggregates = make([]ProductAggregate, 0, len(groups))
	for _, g := range groups {
		a := g.agg
		a.MentionsCount = a.LogsCount
		a.Brand = strings.TrimSpace(g.rep.Brand)
		a.Product = strings.TrimSpace(g.rep.Product)
		snap.Aggregates = append(snap.Aggregates, a)
	}

	// orden estable por identidad: el snapshot no depende del orden de entrada
	sort.Slice(snap.Aggregates, func(i, j int) bool {
		return identityLess(snap.Aggregates[i].Identity, snap.Aggregates[j].Identity)
	})

	return snap
}

// moreRecent decide el representativo: period_start más nuevo, después updated_at, después id.
func moreRecent(a, b feedinglogs.FeedingLog) bool {
	if !a.PeriodStart.Equal(b.PeriodStart) {
		return a.PeriodStart.After(b.PeriodStart)
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID > b.ID
}

// identityLess: marca, producto, y después categoría/especie para que el orden sea total.
func identityLess(a, b ProductIdentity) bool {
	if a.BrandKey != b.BrandKey {
		return a.BrandKey < b.BrandKey
	}
	if a.ProductKey != b.ProductKey {
		return a.ProductKey < b.ProductKey
	}
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	return a.Species < b.Species
}
