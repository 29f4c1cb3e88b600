package ranking

import "sort"

// RankByTrust ordena por la duración sostenida más larga.
// minLogs es un filtro duro: un único log larguísimo no alcanza, se pide corroboración.
// Orden: max_duration_days desc, logs_count desc, identidad asc.
func RankByTrust(aggs []ProductAggregate, f Filter, minLogs, limit int) []Row {
	return page(trustOrder(aggs, f, minLogs), 0, limit)
}

func trustOrder(aggs []ProductAggregate, f Filter, minLogs int) []Row {
	cands := candidates(aggs, f, normalizeMinLogs(minLogs))

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.MaxDurationDays != b.MaxDurationDays {
			return a.MaxDurationDays > b.MaxDurationDays
		}
		if a.LogsCount != b.LogsCount {
			return a.LogsCount > b.LogsCount
		}
		return identityLess(a.Identity, b.Identity)
	})

	return toRows(cands, nil)
}

// RankByPopularity ordena por cantidad de menciones. Sin umbral: la popularidad es el conteo.
// Orden: mentions_count desc, max_duration_days desc, identidad asc.
func RankByPopularity(aggs []ProductAggregate, f Filter, limit int) []Row {
	return page(popularityOrder(aggs, f), 0, limit)
}

func popularityOrder(aggs []ProductAggregate, f Filter) []Row {
	cands := candidates(aggs, f, 1)

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.MentionsCount != b.MentionsCount {
			return a.MentionsCount > b.MentionsCount
		}
		if a.MaxDurationDays != b.MaxDurationDays {
			return a.MaxDurationDays > b.MaxDurationDays
		}
		return identityLess(a.Identity, b.Identity)
	})

	return toRows(cands, nil)
}

// RankByBlend combina ambas señales normalizadas contra los máximos del conjunto candidato
// (después de filtros y minLogs). Si un máximo es 0, ese término vale 0 para todos.
// Orden: score desc, max_duration_days desc, mentions_count desc, identidad asc.
func RankByBlend(aggs []ProductAggregate, f Filter, minLogs, limit int) []Row {
	return page(blendOrder(aggs, f, minLogs), 0, limit)
}

func blendOrder(aggs []ProductAggregate, f Filter, minLogs int) []Row {
	cands := candidates(aggs, f, normalizeMinLogs(minLogs))

	maxDays, maxMentions := 0, 0
	for _, a := range cands {
		if a.MaxDurationDays > maxDays {
			maxDays = a.MaxDurationDays
		}
		if a.MentionsCount > maxMentions {
			maxMentions = a.MentionsCount
		}
	}

	scores := make(map[ProductIdentity]float64, len(cands))
	for _, a := range cands {
		scores[a.Identity] = BlendScore(a, maxDays, maxMentions)
	}

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		ka, kb := blendKey(a, maxDays, maxMentions), blendKey(b, maxDays, maxMentions)
		if ka != kb {
			return ka > kb
		}
		if a.MaxDurationDays != b.MaxDurationDays {
			return a.MaxDurationDays > b.MaxDurationDays
		}
		if a.MentionsCount != b.MentionsCount {
			return a.MentionsCount > b.MentionsCount
		}
		return identityLess(a.Identity, b.Identity)
	})

	return toRows(cands, scores)
}

// BlendScore = 0.5 * duración normalizada + 0.5 * menciones normalizadas, en [0, 1].
// Se calcula desde blendKey con una sola división: scores iguales dan el mismo float.
func BlendScore(a ProductAggregate, maxDays, maxMentions int) float64 {
	return float64(blendKey(a, maxDays, maxMentions)) / float64(blendScale(maxDays, maxMentions))
}

// blendKey es el score escalado a entero (score * blendScale) para que dos scores
// iguales empaten exacto y decidan los desempates. Un máximo en 0 anula su término.
func blendKey(a ProductAggregate, maxDays, maxMentions int) int64 {
	var kd, km int64
	if maxDays > 0 {
		kd = int64(a.MaxDurationDays)
		if maxMentions > 0 {
			kd *= int64(maxMentions)
		}
	}
	if maxMentions > 0 {
		km = int64(a.MentionsCount)
		if maxDays > 0 {
			km *= int64(maxDays)
		}
	}
	return kd + km
}

func blendScale(maxDays, maxMentions int) int64 {
	scale := int64(2)
	if maxDays > 0 {
		scale *= int64(maxDays)
	}
	if maxMentions > 0 {
		scale *= int64(maxMentions)
	}
	return scale
}

// candidates copia los agregados que pasan filtros; nunca se ordena el slice del snapshot.
func candidates(aggs []ProductAggregate, f Filter, minLogs int) []ProductAggregate {
	out := make([]ProductAggregate, 0, len(aggs))
	for _, a := range aggs {
		if !f.matches(a.Identity) {
			continue
		}
		if a.LogsCount < minLogs {
			continue
		}
		out = append(out, a)
	}
	return out
}

// toRows numera sobre el orden completo; Rank no cambia al paginar.
func toRows(sorted []ProductAggregate, scores map[ProductIdentity]float64) []Row {
	rows := make([]Row, 0, len(sorted))
	for i, a := range sorted {
		r := Row{
			Rank:      i + 1,
			Species:   a.Identity.Species,
			Category:  a.Identity.Category,
			Brand:     a.Brand,
			Product:   a.Product,
			MaxDays:   a.MaxDurationDays,
			LogsCount: a.LogsCount,
			Mentions:  a.MentionsCount,
		}
		if scores != nil {
			s := scores[a.Identity]
			r.Score = &s
		}
		rows = append(rows, r)
	}
	return rows
}

// page recorta [offset, offset+limit) y devuelve un slice nuevo.
func page(rows []Row, offset, limit int) []Row {
	limit = normalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []Row{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return cloneRows(rows[offset:end])
}

// cloneRows también copia Score para que nadie comparta punteros con el cache.
func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		if r.Score != nil {
			s := *r.Score
			r.Score = &s
		}
		out[i] = r
	}
	return out
}
