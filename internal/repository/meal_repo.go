package repository

import (
	"context"
	"time"

	"github.com/kenlim/foodvision/internal/domain"
	"gorm.io/gorm"
)

// MealRepository handles persisted meal data operations.
// Writes are append-only: a meal and its items are created once and
// never updated.
type MealRepository struct {
	db *gorm.DB
}

// NewMealRepository creates a new MealRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *MealRepository: repository instance bound to db.
func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{db: db}
}

// Create inserts a meal together with its items in one transaction.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - meal: meal record to persist, items included.
// Returns:
//   - error: non-nil if the insert fails.
func (r *MealRepository) Create(ctx context.Context, meal *domain.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

// GetByID retrieves a meal with its items.
func (r *MealRepository) GetByID(ctx context.Context, mealID string) (*domain.Meal, error) {
	var meal domain.Meal
	if err := r.db.WithContext(ctx).Preload("Items").First(&meal, "meal_id = ?", mealID).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// ListByDateRange returns meals with timestamps in [from, to), items
// preloaded, ordered by timestamp.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - from: inclusive lower bound.
//   - to: exclusive upper bound.
// Returns:
//   - []domain.Meal: matching meals in timestamp order.
//   - error: non-nil if the query fails.
func (r *MealRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Meal, error) {
	var meals []domain.Meal
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Order("timestamp asc").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}
