package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

// One logged meal with its food line entries
type Meal struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null"` // FK → users.id
	MealType    string `gorm:"size:16;not null"`
	Description string
	ImageURL    string

	TotalCalories int // kcal
	Protein       float64
	Carbs         float64
	Fats          float64
	Fiber         float64

	MealDate  time.Time  `gorm:"index;not null"`
	FoodItems []FoodItem `gorm:"constraint:OnDelete:CASCADE"`
}

// FoodItem is one line entry within a meal. Items are replaced wholesale
// on meal update, never merged.
type FoodItem struct {
	gorm.Model
	MealID uint `gorm:"index;not null"`

	Name     string  `gorm:"not null"`
	Quantity float64 // must be > 0
	Unit     string  `gorm:"size:16"` // e.g. "g", "piece", "cup"
	Calories int
	Protein  float64
	Carbs    float64
	Fats     float64
}
