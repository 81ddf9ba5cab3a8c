package domain

// FoodReference is a single row of the nutrition reference table.
// All nutrition values are per 100 grams. Rows are seeded once at process
// startup and never mutated during request processing.
type FoodReference struct {
	FoodID          string  `gorm:"type:text;primaryKey" json:"food_id"`
	Name            string  `gorm:"type:text;not null;uniqueIndex:idx_foods_name" json:"name"`
	KcalPer100g     float64 `gorm:"not null" json:"kcal_per_100g"`
	ProteinGPer100g float64 `gorm:"not null" json:"protein_g_per_100g"`
	CarbsGPer100g   float64 `gorm:"not null" json:"carbs_g_per_100g"`
	FatGPer100g     float64 `gorm:"not null" json:"fat_g_per_100g"`
	// SortOrder preserves seed insertion order; fuzzy-match tie-breaks
	// depend on it being stable across restarts.
	SortOrder int `gorm:"not null;index:idx_foods_sort" json:"-"`
}

// TableName returns the database table name for FoodReference.
func (FoodReference) TableName() string {
	return "foods"
}
