package service

import (
	"errors"
	"math"
	"strings"

	"github.com/kenlim/foodvision/internal/domain"
)

// ErrEmptyReferenceTable means the caller failed to seed nutrition data.
// It is a fatal startup condition, never a per-request error.
var ErrEmptyReferenceTable = errors.New("nutrition reference table is empty")

// fallbackReference is the generic category used when no reference row
// matches a label, so the wire contract of non-null macros always holds.
var fallbackReference = domain.FoodReference{
	FoodID:          "generic_mixed_dish",
	Name:            "mixed dish",
	KcalPer100g:     150,
	ProteinGPer100g: 6.0,
	CarbsGPer100g:   18.0,
	FatGPer100g:     6.0,
}

// NutritionResolver maps a free-text food label onto a reference row.
// The second return is false when no row is close enough; callers fall
// back to FallbackReference.
type NutritionResolver interface {
	Resolve(label string) (*domain.FoodReference, bool)
}

// ReferenceTable is an immutable, insertion-ordered snapshot of the
// nutrition reference rows, built once at startup. The ordering matters:
// both the substring and similarity stages break ties by first row in
// table order. Reads are safe for concurrent use.
type ReferenceTable struct {
	rows   []domain.FoodReference
	byName map[string]int
	cutoff float64
}

// NewReferenceTable builds the resolver snapshot.
// Parameters:
//   - rows: reference rows in seed insertion order.
//   - similarityCutoff: minimum ratio for the approximate-match stage.
// Returns:
//   - *ReferenceTable: immutable lookup table.
//   - error: ErrEmptyReferenceTable when rows is empty.
func NewReferenceTable(rows []domain.FoodReference, similarityCutoff float64) (*ReferenceTable, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyReferenceTable
	}

	t := &ReferenceTable{
		rows:   make([]domain.FoodReference, len(rows)),
		byName: make(map[string]int, len(rows)),
		cutoff: similarityCutoff,
	}
	copy(t.rows, rows)
	for i, row := range t.rows {
		name := normalizeLabel(row.Name)
		if _, dup := t.byName[name]; !dup {
			t.byName[name] = i
		}
	}
	return t, nil
}

// Len returns the number of reference rows.
func (t *ReferenceTable) Len() int {
	return len(t.rows)
}

// Foods returns a copy of the reference rows in table order.
func (t *ReferenceTable) Foods() []domain.FoodReference {
	out := make([]domain.FoodReference, len(t.rows))
	copy(out, t.rows)
	return out
}

// FallbackReference returns the generic category used for unmatched labels.
func FallbackReference() domain.FoodReference {
	return fallbackReference
}

// Resolve runs the matching chain: exact, then substring in either
// direction, then similarity ratio at or above the cutoff. First stage
// to succeed wins.
func (t *ReferenceTable) Resolve(label string) (*domain.FoodReference, bool) {
	norm := normalizeLabel(label)
	if norm == "" {
		return nil, false
	}

	// 1. Exact match
	if i, ok := t.byName[norm]; ok {
		row := t.rows[i]
		return &row, true
	}

	// 2. Substring match, either direction. The score is the length of
	// the contained string; ties prefer the smallest length difference,
	// then the earliest row.
	bestIdx := -1
	bestOverlap := 0
	bestDiff := 0
	for i, row := range t.rows {
		name := normalizeLabel(row.Name)
		if !strings.Contains(name, norm) && !strings.Contains(norm, name) {
			continue
		}
		overlap := len(norm)
		if len(name) < overlap {
			overlap = len(name)
		}
		diff := len(name) - len(norm)
		if diff < 0 {
			diff = -diff
		}
		if bestIdx == -1 || overlap > bestOverlap || (overlap == bestOverlap && diff < bestDiff) {
			bestIdx, bestOverlap, bestDiff = i, overlap, diff
		}
	}
	if bestIdx != -1 {
		row := t.rows[bestIdx]
		return &row, true
	}

	// 3. Approximate match
	bestIdx = -1
	bestRatio := 0.0
	for i, row := range t.rows {
		ratio := matchRatio(norm, normalizeLabel(row.Name))
		if ratio >= t.cutoff && ratio > bestRatio {
			bestIdx, bestRatio = i, ratio
		}
	}
	if bestIdx != -1 {
		row := t.rows[bestIdx]
		return &row, true
	}

	return nil, false
}

// normalizeLabel lowercases and trims a label for matching.
func normalizeLabel(label string) string {
	return strings.TrimSpace(strings.ToLower(label))
}

// ComputeMacros scales a reference row's per-100g values to the given
// gram amount. kcal rounds half-up to a whole number; the gram fields
// round half-up to one decimal place. The arithmetic is plain float64
// so identical inputs are always bit-reproducible.
func ComputeMacros(food *domain.FoodReference, grams int) domain.Macros {
	factor := float64(grams) / 100.0
	return domain.Macros{
		Kcal:     roundHalfUp(food.KcalPer100g * factor),
		ProteinG: roundHalfUp1(food.ProteinGPer100g * factor),
		CarbsG:   roundHalfUp1(food.CarbsGPer100g * factor),
		FatG:     roundHalfUp1(food.FatGPer100g * factor),
	}
}

// roundHalfUp rounds a non-negative value half-up to an integer.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// roundHalfUp1 rounds a non-negative value half-up to one decimal place.
func roundHalfUp1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
