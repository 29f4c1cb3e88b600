package feedinglogs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Species define las especies soportadas.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Category define el tipo de producto registrado en un log.
// @Enum feed, snack, supplement, toilet
type Category string

const (
	CategoryFeed       Category = "feed"
	CategorySnack      Category = "snack"
	CategorySupplement Category = "supplement"
	CategoryToilet     Category = "toilet"
)

type Status string

const (
	StatusFeeding   Status = "feeding"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Visibility la define moderación; acá solo se lee.
type Visibility string

const (
	VisibilityVisible Visibility = "visible"
	VisibilityHidden  Visibility = "hidden"
)

var (
	ErrMalformed = errors.New("malformed feeding log")
	ErrDuplicate = errors.New("feeding log already exists")
)

// FeedingLog es un episodio de alimentación: un dueño dándole un producto a una mascota
// durante un período.
type FeedingLog struct {
	ID string

	Species  Species
	Category Category
	Brand    string
	Product  string

	Status      Status
	PeriodStart time.Time
	PeriodEnd   *time.Time // nil mientras status = feeding

	Visibility Visibility

	// UpdatedAt es el último cambio de estado. Para un log pausado sin PeriodEnd
	// es la última fecha conocida de actividad.
	UpdatedAt time.Time
}

func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat:
		return true
	}
	return false
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFeed, CategorySnack, CategorySupplement, CategoryToilet:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusFeeding, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

func AllSpecies() []Species {
	return []Species{SpeciesDog, SpeciesCat}
}

func AllCategories() []Category {
	return []Category{CategoryFeed, CategorySnack, CategorySupplement, CategoryToilet}
}

func (l FeedingLog) IsVisible() bool {
	return l.Visibility == VisibilityVisible
}

// Validate revisa solo los campos que forman la identidad del producto y el inicio del período.
// El resto (status raro, fechas invertidas) se tolera en el cálculo de duración.
func (l FeedingLog) Validate() error {
	switch {
	case !l.Species.Valid():
		return fmt.Errorf("%w: species %q", ErrMalformed, l.Species)
	case !l.Category.Valid():
		return fmt.Errorf("%w: category %q", ErrMalformed, l.Category)
	case strings.TrimSpace(l.Brand) == "":
		return fmt.Errorf("%w: brand required", ErrMalformed)
	case strings.TrimSpace(l.Product) == "":
		return fmt.Errorf("%w: product required", ErrMalformed)
	case l.PeriodStart.IsZero():
		return fmt.Errorf("%w: period_start required", ErrMalformed)
	}
	return nil
}

// SkipReason devuelve una etiqueta corta para diagnósticos ("species", "brand", ...).
func SkipReason(l FeedingLog) string {
	switch {
	case !l.Species.Valid():
		return "species"
	case !l.Category.Valid():
		return "category"
	case strings.TrimSpace(l.Brand) == "":
		return "brand"
	case strings.TrimSpace(l.Product) == "":
		return "product"
	case l.PeriodStart.IsZero():
		return "period_start"
	}
	return ""
}
