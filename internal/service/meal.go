package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kenlim/foodvision/internal/domain"
	"github.com/kenlim/foodvision/internal/logger"
	"gorm.io/gorm"
)

// ErrMealNotFound means the requested meal ID does not exist; callers map
// it to a 404 instead of a storage failure.
var ErrMealNotFound = errors.New("meal not found")

// MealStore is the persistence boundary the meal service writes
// finalized records to and queries by date. Writes are append-only.
type MealStore interface {
	Create(ctx context.Context, meal *domain.Meal) error
	GetByID(ctx context.Context, mealID string) (*domain.Meal, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Meal, error)
}

// MealService persists confirmed meals and aggregates daily totals.
type MealService struct {
	meals    MealStore
	resolver NutritionResolver
	logger   *logger.Logger
}

// NewMealService creates the meal persistence service.
// Parameters:
//   - meals: meal store implementation.
//   - resolver: nutrition reference resolver.
//   - log: logger instance.
// Returns:
//   - *MealService: initialized service.
func NewMealService(meals MealStore, resolver NutritionResolver, log *logger.Logger) *MealService {
	return &MealService{
		meals:    meals,
		resolver: resolver,
		logger:   log,
	}
}

// SaveMealItem is a single confirmed item of a save request. Macros are
// the client-confirmed values from the analysis response; they are only
// stored verbatim when the label has no reference match.
type SaveMealItem struct {
	Label  string        `json:"label" binding:"required"`
	Grams  int           `json:"grams" binding:"required,gt=0"`
	Macros domain.Macros `json:"macros"`
}

// SaveMealRequest is the body of POST /meals.
type SaveMealRequest struct {
	Items     []SaveMealItem `json:"items" binding:"required,min=1,dive"`
	Timestamp *time.Time     `json:"timestamp"`
	Notes     string         `json:"notes"`
}

// SaveMealResponse summarizes the persisted meal.
type SaveMealResponse struct {
	MealID          string   `json:"meal_id"`
	Timestamp       string   `json:"timestamp"`
	ItemCount       int      `json:"item_count"`
	TotalKcal       int      `json:"total_kcal"`
	UnmatchedLabels []string `json:"unmatched_labels"`
	Status          string   `json:"status"`
}

// Save persists a confirmed meal. Each item label is re-resolved against
// the reference table and its macros recomputed from the authoritative
// per-100g values; unmatched items keep the client macros and a nil
// food_id.
// Parameters:
//   - ctx: request context.
//   - req: validated save request.
// Returns:
//   - *SaveMealResponse: persisted meal summary.
//   - error: non-nil if the write fails.
func (s *MealService) Save(ctx context.Context, req *SaveMealRequest) (*SaveMealResponse, error) {
	mealID := uuid.New().String()
	timestamp := time.Now().UTC()
	if req.Timestamp != nil {
		timestamp = req.Timestamp.UTC()
	}

	ctx = logger.SetMealID(ctx, mealID)

	meal := &domain.Meal{
		MealID:    mealID,
		Timestamp: timestamp,
		Notes:     req.Notes,
		Items:     make([]domain.MealItem, 0, len(req.Items)),
	}

	totalKcal := 0
	unmatched := []string{}

	for _, item := range req.Items {
		var foodID *string
		macros := item.Macros

		if ref, ok := s.resolver.Resolve(item.Label); ok {
			macros = ComputeMacros(ref, item.Grams)
			id := ref.FoodID
			foodID = &id
		} else {
			logger.CtxWarn(ctx, "No reference match for label=%q; keeping client macros", item.Label)
			unmatched = append(unmatched, item.Label)
		}

		totalKcal += macros.Kcal
		meal.Items = append(meal.Items, domain.MealItem{
			ItemID:   uuid.New().String(),
			MealID:   mealID,
			FoodID:   foodID,
			Label:    item.Label,
			Grams:    item.Grams,
			Kcal:     macros.Kcal,
			ProteinG: macros.ProteinG,
			CarbsG:   macros.CarbsG,
			FatG:     macros.FatG,
		})
	}

	if err := s.meals.Create(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to persist meal: %w", err)
	}

	s.logger.WithFields(logger.Fields{
		logger.FieldMealID: mealID,
		logger.FieldCount:  len(meal.Items),
	}).Infof("Meal saved: total_kcal=%d, unmatched=%d", totalKcal, len(unmatched))

	return &SaveMealResponse{
		MealID:          mealID,
		Timestamp:       timestamp.Format(time.RFC3339),
		ItemCount:       len(meal.Items),
		TotalKcal:       totalKcal,
		UnmatchedLabels: unmatched,
		Status:          "saved",
	}, nil
}

// Get retrieves a persisted meal with its items.
// Parameters:
//   - ctx: request context.
//   - mealID: identifier returned by Save.
// Returns:
//   - *domain.Meal: the stored meal.
//   - error: ErrMealNotFound for unknown ids, otherwise the query failure.
func (s *MealService) Get(ctx context.Context, mealID string) (*domain.Meal, error) {
	meal, err := s.meals.GetByID(ctx, mealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, fmt.Errorf("failed to load meal %s: %w", mealID, err)
	}
	return meal, nil
}

// TodayTotals sums the resolved macros of every meal persisted on the
// UTC calendar day containing now.
// Parameters:
//   - ctx: request context.
//   - now: reference instant; its UTC date selects the day window.
// Returns:
//   - *domain.DailyTotals: aggregated totals with per-meal summaries.
//   - error: non-nil if the query fails.
func (s *MealService) TodayTotals(ctx context.Context, now time.Time) (*domain.DailyTotals, error) {
	dayStart := now.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	meals, err := s.meals.ListByDateRange(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	totals := &domain.DailyTotals{
		MealCount: len(meals),
		Meals:     make([]domain.MealSummary, 0, len(meals)),
	}

	var protein, carbs, fat float64
	for _, meal := range meals {
		mealKcal := 0
		for _, item := range meal.Items {
			totals.TotalKcal += item.Kcal
			mealKcal += item.Kcal
			protein += item.ProteinG
			carbs += item.CarbsG
			fat += item.FatG
		}
		totals.Meals = append(totals.Meals, domain.MealSummary{
			MealID:    meal.MealID,
			Timestamp: meal.Timestamp.UTC().Format(time.RFC3339),
			ItemCount: len(meal.Items),
			TotalKcal: mealKcal,
		})
	}

	totals.TotalProteinG = roundHalfUp1(protein)
	totals.TotalCarbsG = roundHalfUp1(carbs)
	totals.TotalFatG = roundHalfUp1(fat)

	return totals, nil
}
