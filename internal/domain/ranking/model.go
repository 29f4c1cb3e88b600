package ranking

import (
	"errors"
	"strings"
	"time"

	"pet-feeding-ranking/internal/domain/feedinglogs"
)

const (
	DefaultLimit   = 10
	MaxLimit       = 100
	DefaultMinLogs = 2

	// Pesos del score combinado. Suman 1 y son iguales: blendKey ordena en enteros asumiendo eso.
	BlendWeightDuration = 0.5
	BlendWeightMentions = 0.5
)

var (
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrDataUnavailable = errors.New("data unavailable")
)

// Mode identifica cuál de los tres rankings se pidió.
type Mode string

const (
	ModeTrust      Mode = "trust"
	ModePopularity Mode = "popularity"
	ModeBlend      Mode = "blend"
)

// ProductIdentity es la clave de agrupación. Species y Category ya vienen validadas;
// BrandKey/ProductKey son las versiones normalizadas (ver NormalizeKey).
type ProductIdentity struct {
	Species    feedinglogs.Species
	Category   feedinglogs.Category
	BrandKey   string
	ProductKey string
}

// ProductAggregate es efímero: se reconstruye en cada refresh y nunca se persiste.
type ProductAggregate struct {
	Identity ProductIdentity

	// Textos para mostrar, tomados del log más reciente del grupo.
	Brand   string
	Product string

	LogsCount       int
	MaxDurationDays int
	MentionsCount   int
}

// Snapshot es el resultado de una pasada del agregador sobre el Log Store.
type Snapshot struct {
	Aggregates  []ProductAggregate
	LogsScanned int
	Skipped     int
	SkipReasons map[string]int
	GeneratedAt time.Time
}

// Filter restringe por especie/categoría. Valor vacío = todas.
type Filter struct {
	Species  feedinglogs.Species
	Category feedinglogs.Category
}

func (f Filter) matches(id ProductIdentity) bool {
	if f.Species != "" && f.Species != id.Species {
		return false
	}
	if f.Category != "" && f.Category != id.Category {
		return false
	}
	return true
}

// Row es una fila del leaderboard. Score solo viene en el ranking combinado.
type Row struct {
	Rank      int                  `json:"rank"`
	Species   feedinglogs.Species  `json:"species"`
	Category  feedinglogs.Category `json:"category"`
	Brand     string               `json:"brand"`
	Product   string               `json:"product"`
	MaxDays   int                  `json:"max_days"`
	LogsCount int                  `json:"logs_count"`
	Mentions  int                  `json:"mentions"`
	Score     *float64             `json:"score,omitempty"`
}

// ParseSpecies acepta "", "all" o una especie válida (sin importar mayúsculas).
func ParseSpecies(s string) (feedinglogs.Species, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return "", nil
	}
	sp := feedinglogs.Species(s)
	if !sp.Valid() {
		return "", ErrInvalidFilter
	}
	return sp, nil
}

// ParseCategory acepta "", "all" o una categoría válida.
func ParseCategory(s string) (feedinglogs.Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return "", nil
	}
	c := feedinglogs.Category(s)
	if !c.Valid() {
		return "", ErrInvalidFilter
	}
	return c, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func normalizeMinLogs(minLogs int) int {
	if minLogs < 1 {
		return 1
	}
	return minLogs
}
