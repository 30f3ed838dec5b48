package services

import (
	"context"
	"errors"
	"time"

	"github.com/samrat222/calorieTracker-BE/models"

	"gorm.io/gorm"
)

// Fallback when the user has no computed calorie goal yet.
const defaultCalorieGoal = 2000

type SummaryService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSummaryService(db *gorm.DB) *SummaryService {
	return &SummaryService{db: db, now: time.Now}
}

type mealTotals struct {
	TotalCalories int
	TotalProtein  float64
	TotalCarbs    float64
	TotalFats     float64
	MealsCount    int
}

// RecomputeDailySummary re-aggregates the user's meals for the calendar day
// of date and upserts the cached DailySummary row keyed (user, day start).
// The aggregate and the upsert run inside one transaction so a concurrent
// meal mutation cannot leave a torn row. Idempotent: with an unchanged meal
// set it always writes the same totals.
func (s *SummaryService) RecomputeDailySummary(ctx context.Context, userID uint, date time.Time) (*models.DailySummary, error) {
	start := dayStart(date)
	end := dayEnd(date)

	var out models.DailySummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t mealTotals
		if err := tx.Model(&models.Meal{}).
			Select("COALESCE(SUM(total_calories),0) AS total_calories, "+
				"COALESCE(SUM(protein),0) AS total_protein, "+
				"COALESCE(SUM(carbs),0) AS total_carbs, "+
				"COALESCE(SUM(fats),0) AS total_fats, "+
				"COUNT(*) AS meals_count").
			Where("user_id = ? AND meal_date BETWEEN ? AND ?", userID, start, end).
			Scan(&t).Error; err != nil {
			return err
		}

		goal := defaultCalorieGoal
		var user models.User
		if err := tx.Select("daily_calorie_goal").First(&user, userID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		} else if user.DailyCalorieGoal != nil && *user.DailyCalorieGoal > 0 {
			goal = *user.DailyCalorieGoal
		}

		var summary models.DailySummary
		err := tx.Where("user_id = ? AND date = ?", userID, start).First(&summary).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			summary = models.DailySummary{UserID: userID, Date: start}
		} else if err != nil {
			return err
		}

		summary.TotalCalories = t.TotalCalories
		summary.TotalProtein = t.TotalProtein
		summary.TotalCarbs = t.TotalCarbs
		summary.TotalFats = t.TotalFats
		summary.MealsCount = t.MealsCount
		summary.CalorieGoal = goal

		if err := tx.Save(&summary).Error; err != nil {
			return err
		}
		out = summary
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSummary returns the cached row for the day, or nil when none exists yet.
func (s *SummaryService) GetSummary(ctx context.Context, userID uint, date time.Time) (*models.DailySummary, error) {
	var summary models.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dayStart(date)).
		First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
