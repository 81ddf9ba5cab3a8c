package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/kenlim/foodvision/internal/domain"
	"github.com/kenlim/foodvision/internal/logger"
	"github.com/kenlim/foodvision/internal/repository"
)

// fakeMealStore records writes and serves canned meals for range queries.
type fakeMealStore struct {
	created []*domain.Meal
	meals   []domain.Meal

	createErr error
	getErr    error
	listErr   error

	lastFrom time.Time
	lastTo   time.Time
}

func (f *fakeMealStore) Create(ctx context.Context, meal *domain.Meal) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, meal)
	return nil
}

func (f *fakeMealStore) GetByID(ctx context.Context, mealID string) (*domain.Meal, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.meals {
		if f.meals[i].MealID == mealID {
			return &f.meals[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMealStore) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Meal, error) {
	f.lastFrom, f.lastTo = from, to
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.meals, nil
}

func newTestMealService(t *testing.T, store *fakeMealStore) *MealService {
	t.Helper()
	table, err := NewReferenceTable(repository.SeedFoods(), 0.55)
	if err != nil {
		t.Fatalf("failed to build reference table: %v", err)
	}
	return NewMealService(store, table, logger.GetDefault())
}

func TestMealService_Save_MatchedLabel(t *testing.T) {
	store := &fakeMealStore{}
	svc := newTestMealService(t, store)

	// The client macros are deliberately wrong: a matched label must be
	// recomputed from the reference values, not trusted.
	resp, err := svc.Save(context.Background(), &SaveMealRequest{
		Items: []SaveMealItem{
			{
				Label:  "white rice",
				Grams:  180,
				Macros: domain.Macros{Kcal: 9999, ProteinG: 99},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Status != "saved" {
		t.Errorf("status = %q, want saved", resp.Status)
	}
	if resp.ItemCount != 1 {
		t.Errorf("item count = %d, want 1", resp.ItemCount)
	}
	if resp.TotalKcal != 234 { // 130 kcal/100g * 1.8
		t.Errorf("total kcal = %d, want 234", resp.TotalKcal)
	}
	if len(resp.UnmatchedLabels) != 0 {
		t.Errorf("unexpected unmatched labels: %v", resp.UnmatchedLabels)
	}
	if resp.MealID == "" {
		t.Error("expected a meal id")
	}

	if len(store.created) != 1 {
		t.Fatalf("expected 1 persisted meal, got %d", len(store.created))
	}
	meal := store.created[0]
	if meal.MealID != resp.MealID {
		t.Errorf("persisted meal id %q does not match response %q", meal.MealID, resp.MealID)
	}
	if len(meal.Items) != 1 {
		t.Fatalf("expected 1 persisted item, got %d", len(meal.Items))
	}

	item := meal.Items[0]
	if item.FoodID == nil || *item.FoodID != "white_rice" {
		t.Errorf("expected food_id white_rice, got %v", item.FoodID)
	}
	if item.Kcal != 234 {
		t.Errorf("item kcal = %d, want 234", item.Kcal)
	}
	if item.ProteinG != 4.9 { // 2.7 g/100g * 1.8 = 4.86 -> 4.9
		t.Errorf("item protein = %v, want 4.9", item.ProteinG)
	}
	if item.ItemID == "" || item.MealID != meal.MealID {
		t.Errorf("item not linked to meal: %+v", item)
	}
}

func TestMealService_Save_UnmatchedLabelKeepsClientMacros(t *testing.T) {
	store := &fakeMealStore{}
	svc := newTestMealService(t, store)

	resp, err := svc.Save(context.Background(), &SaveMealRequest{
		Items: []SaveMealItem{
			{
				Label:  "qzxvkjw",
				Grams:  120,
				Macros: domain.Macros{Kcal: 180, ProteinG: 7.2, CarbsG: 21.6, FatG: 7.2},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.UnmatchedLabels) != 1 || resp.UnmatchedLabels[0] != "qzxvkjw" {
		t.Errorf("unmatched labels = %v, want [qzxvkjw]", resp.UnmatchedLabels)
	}
	if resp.TotalKcal != 180 {
		t.Errorf("total kcal = %d, want client value 180", resp.TotalKcal)
	}

	item := store.created[0].Items[0]
	if item.FoodID != nil {
		t.Errorf("expected nil food_id for unmatched label, got %v", *item.FoodID)
	}
	if item.Kcal != 180 || item.ProteinG != 7.2 {
		t.Errorf("client macros not preserved: %+v", item)
	}
}

func TestMealService_Save_ExplicitTimestamp(t *testing.T) {
	store := &fakeMealStore{}
	svc := newTestMealService(t, store)

	local := time.Date(2026, 8, 27, 20, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	resp, err := svc.Save(context.Background(), &SaveMealRequest{
		Items:     []SaveMealItem{{Label: "banana", Grams: 100}},
		Timestamp: &local,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Timestamp != "2026-08-27T12:00:00Z" {
		t.Errorf("timestamp = %q, want UTC normalization", resp.Timestamp)
	}
	if !store.created[0].Timestamp.Equal(local) {
		t.Error("persisted timestamp must preserve the instant")
	}
}

func TestMealService_Save_StoreError(t *testing.T) {
	store := &fakeMealStore{createErr: errors.New("disk full")}
	svc := newTestMealService(t, store)

	_, err := svc.Save(context.Background(), &SaveMealRequest{
		Items: []SaveMealItem{{Label: "banana", Grams: 100}},
	})
	if err == nil {
		t.Fatal("expected error from failing store")
	}
}

func TestMealService_Get(t *testing.T) {
	store := &fakeMealStore{
		meals: []domain.Meal{
			{MealID: "meal-1", Timestamp: time.Date(2026, 8, 27, 8, 30, 0, 0, time.UTC)},
		},
	}
	svc := newTestMealService(t, store)

	meal, err := svc.Get(context.Background(), "meal-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meal.MealID != "meal-1" {
		t.Errorf("meal id = %q, want meal-1", meal.MealID)
	}

	_, err = svc.Get(context.Background(), "nope")
	if !errors.Is(err, ErrMealNotFound) {
		t.Errorf("missing meal error = %v, want ErrMealNotFound", err)
	}
}

func TestMealService_Get_StoreError(t *testing.T) {
	store := &fakeMealStore{getErr: errors.New("connection refused")}
	svc := newTestMealService(t, store)

	// A storage failure is not the same as a missing meal; the sentinel
	// must only cover the not-found case.
	_, err := svc.Get(context.Background(), "meal-1")
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if errors.Is(err, ErrMealNotFound) {
		t.Error("storage failure must not map to ErrMealNotFound")
	}
}

func TestMealService_TodayTotals(t *testing.T) {
	foodID := "white_rice"
	store := &fakeMealStore{
		meals: []domain.Meal{
			{
				MealID:    "meal-1",
				Timestamp: time.Date(2026, 8, 27, 8, 30, 0, 0, time.UTC),
				Items: []domain.MealItem{
					{ItemID: "a", MealID: "meal-1", FoodID: &foodID, Label: "white rice", Grams: 180, Kcal: 234, ProteinG: 4.9, CarbsG: 51.7, FatG: 0.5},
					{ItemID: "b", MealID: "meal-1", Label: "boiled egg", Grams: 55, Kcal: 85, ProteinG: 7.2, CarbsG: 0.6, FatG: 6.1},
				},
			},
			{
				MealID:    "meal-2",
				Timestamp: time.Date(2026, 8, 27, 13, 0, 0, 0, time.UTC),
				Items: []domain.MealItem{
					{ItemID: "c", MealID: "meal-2", Label: "banana", Grams: 100, Kcal: 89, ProteinG: 1.1, CarbsG: 22.8, FatG: 0.3},
				},
			},
		},
	}
	svc := newTestMealService(t, store)

	now := time.Date(2026, 8, 27, 15, 45, 0, 0, time.UTC)
	totals, err := svc.TodayTotals(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantFrom := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	if !store.lastFrom.Equal(wantFrom) {
		t.Errorf("window start = %v, want %v", store.lastFrom, wantFrom)
	}
	if !store.lastTo.Equal(wantFrom.Add(24 * time.Hour)) {
		t.Errorf("window end = %v, want %v", store.lastTo, wantFrom.Add(24*time.Hour))
	}

	if totals.MealCount != 2 {
		t.Errorf("meal count = %d, want 2", totals.MealCount)
	}
	if totals.TotalKcal != 234+85+89 {
		t.Errorf("total kcal = %d, want %d", totals.TotalKcal, 234+85+89)
	}
	if totals.TotalProteinG != 13.2 { // 4.9 + 7.2 + 1.1
		t.Errorf("total protein = %v, want 13.2", totals.TotalProteinG)
	}
	if totals.TotalCarbsG != 75.1 { // 51.7 + 0.6 + 22.8
		t.Errorf("total carbs = %v, want 75.1", totals.TotalCarbsG)
	}
	if totals.TotalFatG != 6.9 { // 0.5 + 6.1 + 0.3
		t.Errorf("total fat = %v, want 6.9", totals.TotalFatG)
	}

	if len(totals.Meals) != 2 {
		t.Fatalf("expected 2 meal summaries, got %d", len(totals.Meals))
	}
	if totals.Meals[0].MealID != "meal-1" || totals.Meals[0].TotalKcal != 319 {
		t.Errorf("unexpected first summary: %+v", totals.Meals[0])
	}
	if totals.Meals[1].ItemCount != 1 {
		t.Errorf("unexpected second summary: %+v", totals.Meals[1])
	}
}

func TestMealService_TodayTotals_Empty(t *testing.T) {
	store := &fakeMealStore{}
	svc := newTestMealService(t, store)

	totals, err := svc.TodayTotals(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.MealCount != 0 || totals.TotalKcal != 0 {
		t.Errorf("expected zero totals, got %+v", totals)
	}
	if totals.Meals == nil {
		t.Error("meals slice must be non-nil for JSON encoding")
	}
}
