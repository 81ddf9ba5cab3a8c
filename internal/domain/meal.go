package domain

import "time"

// Meal is a user-confirmed meal persisted from an analysis result.
// Meals are append-only: created once, never mutated.
type Meal struct {
	MealID    string     `gorm:"type:text;primaryKey" json:"meal_id"`
	Timestamp time.Time  `gorm:"not null;index:idx_meals_timestamp" json:"timestamp"`
	Notes     string     `gorm:"type:text" json:"notes,omitempty"`
	Items     []MealItem `gorm:"foreignKey:MealID;references:MealID" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName returns the database table name for Meal.
func (Meal) TableName() string {
	return "meals"
}

// MealItem is one food entry of a persisted meal. FoodID is nil when the
// nutrition resolver found no reference match for the label; the stored
// macros then come from the client-confirmed analysis.
type MealItem struct {
	ItemID   string  `gorm:"type:text;primaryKey" json:"item_id"`
	MealID   string  `gorm:"type:text;not null;index:idx_meal_items_meal" json:"-"`
	FoodID   *string `gorm:"type:text" json:"food_id"`
	Label    string  `gorm:"type:text;not null" json:"label"`
	Grams    int     `gorm:"not null" json:"grams"`
	Kcal     int     `gorm:"not null" json:"kcal"`
	ProteinG float64 `gorm:"not null" json:"protein_g"`
	CarbsG   float64 `gorm:"not null" json:"carbs_g"`
	FatG     float64 `gorm:"not null" json:"fat_g"`
}

// TableName returns the database table name for MealItem.
func (MealItem) TableName() string {
	return "meal_items"
}

// MealSummary is the per-meal line of the daily totals response.
type MealSummary struct {
	MealID    string `json:"meal_id"`
	Timestamp string `json:"timestamp"`
	ItemCount int    `json:"item_count"`
	TotalKcal int    `json:"total_kcal"`
}

// DailyTotals aggregates macros across all meals of one UTC calendar day.
type DailyTotals struct {
	TotalKcal     int           `json:"total_kcal"`
	TotalProteinG float64       `json:"total_protein_g"`
	TotalCarbsG   float64       `json:"total_carbs_g"`
	TotalFatG     float64       `json:"total_fat_g"`
	MealCount     int           `json:"meal_count"`
	Meals         []MealSummary `json:"meals"`
}
