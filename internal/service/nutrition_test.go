package service

import (
	"errors"
	"testing"

	"github.com/kenlim/foodvision/internal/domain"
	"github.com/kenlim/foodvision/internal/repository"
)

func testReferenceTable(t *testing.T) *ReferenceTable {
	t.Helper()
	table, err := NewReferenceTable(repository.SeedFoods(), 0.55)
	if err != nil {
		t.Fatalf("failed to build reference table: %v", err)
	}
	return table
}

func TestNewReferenceTable_Empty(t *testing.T) {
	if _, err := NewReferenceTable(nil, 0.55); !errors.Is(err, ErrEmptyReferenceTable) {
		t.Errorf("expected ErrEmptyReferenceTable, got %v", err)
	}
}

func TestReferenceTable_Resolve(t *testing.T) {
	table := testReferenceTable(t)

	tests := []struct {
		name       string
		label      string
		wantFoodID string
		wantMatch  bool
	}{
		{
			name:       "exact match",
			label:      "white rice",
			wantFoodID: "white_rice",
			wantMatch:  true,
		},
		{
			name:       "exact match is case and whitespace insensitive",
			label:      "  White Rice ",
			wantFoodID: "white_rice",
			wantMatch:  true,
		},
		{
			name:       "label contained in a reference name",
			label:      "Rice",
			wantFoodID: "white_rice", // earliest of the shortest rice names
			wantMatch:  true,
		},
		{
			name:       "reference name contained in the label",
			label:      "grilled chicken breast",
			wantFoodID: "chicken_breast",
			wantMatch:  true,
		},
		{
			name:       "approximate match survives typos",
			label:      "chiken brest",
			wantFoodID: "chicken_breast",
			wantMatch:  true,
		},
		{
			name:      "garbage label has no match",
			label:     "qzxvkjw",
			wantMatch: false,
		},
		{
			name:      "empty label has no match",
			label:     "   ",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := table.Resolve(tt.label)
			if ok != tt.wantMatch {
				t.Fatalf("Resolve(%q) match = %v, want %v", tt.label, ok, tt.wantMatch)
			}
			if !tt.wantMatch {
				return
			}
			if ref.FoodID != tt.wantFoodID {
				t.Errorf("Resolve(%q) = %q, want %q", tt.label, ref.FoodID, tt.wantFoodID)
			}
		})
	}
}

func TestReferenceTable_CutoffRespected(t *testing.T) {
	table, err := NewReferenceTable(repository.SeedFoods(), 0.99)
	if err != nil {
		t.Fatalf("failed to build reference table: %v", err)
	}

	// A near miss that passes the default cutoff must fail a strict one.
	if _, ok := table.Resolve("chiken brest"); ok {
		t.Error("expected no match with cutoff 0.99")
	}
}

func TestReferenceTable_FoodsIsACopy(t *testing.T) {
	table := testReferenceTable(t)

	foods := table.Foods()
	if len(foods) != table.Len() {
		t.Fatalf("expected %d foods, got %d", table.Len(), len(foods))
	}

	foods[0].Name = "mutated"
	if again := table.Foods(); again[0].Name == "mutated" {
		t.Error("Foods() must not expose internal state")
	}
}

func TestFallbackReference(t *testing.T) {
	fb := FallbackReference()
	if fb.FoodID != "generic_mixed_dish" {
		t.Errorf("unexpected fallback id %q", fb.FoodID)
	}
	if fb.KcalPer100g <= 0 {
		t.Errorf("fallback must carry positive energy, got %v", fb.KcalPer100g)
	}
}

func TestComputeMacros(t *testing.T) {
	food := &domain.FoodReference{
		FoodID:          "test_food",
		Name:            "test food",
		KcalPer100g:     130,
		ProteinGPer100g: 2.4,
		CarbsGPer100g:   28.7,
		FatGPer100g:     0.3,
	}

	tests := []struct {
		grams       int
		wantKcal    int
		wantProtein float64
	}{
		{180, 234, 4.3}, // 130*1.8 = 234, 2.4*1.8 = 4.32 -> 4.3
		{100, 130, 2.4},
		{50, 65, 1.2},
		{0, 0, 0},
	}

	for _, tt := range tests {
		got := ComputeMacros(food, tt.grams)
		if got.Kcal != tt.wantKcal {
			t.Errorf("ComputeMacros(%dg) kcal = %d, want %d", tt.grams, got.Kcal, tt.wantKcal)
		}
		if got.ProteinG != tt.wantProtein {
			t.Errorf("ComputeMacros(%dg) protein = %v, want %v", tt.grams, got.ProteinG, tt.wantProtein)
		}
	}
}

func TestComputeMacros_RoundsHalfUp(t *testing.T) {
	food := &domain.FoodReference{
		KcalPer100g:     125,
		ProteinGPer100g: 1.25,
	}

	// 50g: 62.5 kcal rounds up to 63; 0.625g protein rounds up to 0.7.
	got := ComputeMacros(food, 50)
	if got.Kcal != 63 {
		t.Errorf("kcal = %d, want 63", got.Kcal)
	}
	if got.ProteinG != 0.7 {
		t.Errorf("protein = %v, want 0.7", got.ProteinG)
	}
}

func TestMatchRatio(t *testing.T) {
	tests := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"abcd", "abcd", 1.0, 1.0},
		{"abcd", "wxyz", 0.0, 0.0},
		{"", "", 1.0, 1.0},
		{"chiken brest", "chicken breast", 0.85, 1.0},
		{"rice", "white rice", 0.5, 0.7},
	}

	for _, tt := range tests {
		got := matchRatio(tt.a, tt.b)
		if got < tt.min || got > tt.max {
			t.Errorf("matchRatio(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
		}
	}
}
