package models

import (
	"time"

	"gorm.io/gorm"
)

// DailySummary is a cached projection of one user's meals for one calendar
// day, recomputed after every meal mutation. One row per (user, day).
// The row is never deleted once created; deleting the last meal of the day
// only zeroes its totals.
type DailySummary struct {
	gorm.Model
	UserID uint      `gorm:"not null;uniqueIndex:idx_user_day"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_user_day"` // local midnight

	TotalCalories int
	TotalProtein  float64
	TotalCarbs    float64
	TotalFats     float64
	MealsCount    int
	CalorieGoal   int // snapshot of the user's goal at recompute time
}
