package repository

import (
	"context"

	"github.com/kenlim/foodvision/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FoodRepository handles nutrition reference table access.
type FoodRepository struct {
	db *gorm.DB
}

// NewFoodRepository creates a new FoodRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *FoodRepository: repository instance bound to db.
func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

// Count returns the number of reference rows.
func (r *FoodRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.FoodReference{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Seed inserts the given foods, skipping rows whose food_id already
// exists. Returns the number of newly inserted rows.
func (r *FoodRepository) Seed(ctx context.Context, foods []domain.FoodReference) (int, error) {
	if len(foods) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "food_id"}},
		DoNothing: true,
	}).Create(&foods)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// List returns all reference rows in seed insertion order.
// The nutrition resolver's tie-break rules depend on this ordering.
func (r *FoodRepository) List(ctx context.Context) ([]domain.FoodReference, error) {
	var foods []domain.FoodReference
	if err := r.db.WithContext(ctx).Order("sort_order asc").Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}
