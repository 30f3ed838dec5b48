package services

import (
	"context"
	"testing"
	"time"

	"github.com/samrat222/calorieTracker-BE/models"

	"gorm.io/gorm"
)

func createMealRow(t *testing.T, db *gorm.DB, userID uint, mealType string, calories int, protein, carbs, fats float64, at time.Time) uint {
	t.Helper()
	meal := models.Meal{
		UserID:        userID,
		MealType:      mealType,
		TotalCalories: calories,
		Protein:       protein,
		Carbs:         carbs,
		Fats:          fats,
		MealDate:      at,
	}
	if err := db.Create(&meal).Error; err != nil {
		t.Fatalf("create meal: %v", err)
	}
	return meal.ID
}

func TestRecomputeDailySummaryAggregates(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, intPtr(2200))
	svc := NewSummaryService(db)
	ctx := context.Background()

	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	createMealRow(t, db, userID, models.MealTypeBreakfast, 350, 12, 40, 9, day.Add(8*time.Hour))
	createMealRow(t, db, userID, models.MealTypeLunch, 650, 30, 70, 20, day.Add(13*time.Hour))
	// next day, must not leak into the 12th
	createMealRow(t, db, userID, models.MealTypeDinner, 900, 40, 80, 30, day.AddDate(0, 0, 1).Add(19*time.Hour))

	got, err := svc.RecomputeDailySummary(ctx, userID, day)
	if err != nil {
		t.Fatalf("RecomputeDailySummary: %v", err)
	}
	if got.TotalCalories != 1000 {
		t.Errorf("TotalCalories = %d, want 1000", got.TotalCalories)
	}
	if got.TotalProtein != 42 || got.TotalCarbs != 110 || got.TotalFats != 29 {
		t.Errorf("macros = %v/%v/%v, want 42/110/29", got.TotalProtein, got.TotalCarbs, got.TotalFats)
	}
	if got.MealsCount != 2 {
		t.Errorf("MealsCount = %d, want 2", got.MealsCount)
	}
	if got.CalorieGoal != 2200 {
		t.Errorf("CalorieGoal = %d, want 2200", got.CalorieGoal)
	}
}

func TestRecomputeDailySummaryDayEdges(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, intPtr(2000))
	svc := NewSummaryService(db)

	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	// the last representable instant of the day belongs to it
	createMealRow(t, db, userID, models.MealTypeSnack, 100, 2, 10, 3,
		day.AddDate(0, 0, 1).Add(-time.Nanosecond))
	// midnight already belongs to the next day
	createMealRow(t, db, userID, models.MealTypeBreakfast, 400, 15, 40, 12,
		day.AddDate(0, 0, 1))

	got, err := svc.RecomputeDailySummary(context.Background(), userID, day)
	if err != nil {
		t.Fatalf("RecomputeDailySummary: %v", err)
	}
	if got.MealsCount != 1 || got.TotalCalories != 100 {
		t.Fatalf("summary = %d kcal / %d meals, want 100 / 1", got.TotalCalories, got.MealsCount)
	}
}

func TestRecomputeDailySummaryIdempotent(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, intPtr(2000))
	svc := NewSummaryService(db)
	ctx := context.Background()

	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	createMealRow(t, db, userID, models.MealTypeSnack, 180, 4, 22, 8, day.Add(16*time.Hour))

	first, err := svc.RecomputeDailySummary(ctx, userID, day)
	if err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	second, err := svc.RecomputeDailySummary(ctx, userID, day)
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("recompute created a new row: id %d then %d", first.ID, second.ID)
	}
	if second.TotalCalories != first.TotalCalories || second.MealsCount != first.MealsCount {
		t.Fatalf("recompute changed totals with an unchanged meal set: %+v vs %+v", first, second)
	}

	var count int64
	if err := db.Model(&models.DailySummary{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count summaries: %v", err)
	}
	if count != 1 {
		t.Fatalf("summary rows = %d, want 1", count)
	}
}

func TestRecomputeDailySummaryDefaultGoal(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, nil) // not onboarded far enough for a goal
	svc := NewSummaryService(db)

	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	createMealRow(t, db, userID, models.MealTypeLunch, 700, 30, 60, 25, day.Add(12*time.Hour))

	got, err := svc.RecomputeDailySummary(context.Background(), userID, day)
	if err != nil {
		t.Fatalf("RecomputeDailySummary: %v", err)
	}
	if got.CalorieGoal != defaultCalorieGoal {
		t.Errorf("CalorieGoal = %d, want %d", got.CalorieGoal, defaultCalorieGoal)
	}
}

func TestGetSummaryMissingDayReturnsNil(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, intPtr(2000))
	svc := NewSummaryService(db)

	got, err := svc.GetSummary(context.Background(), userID, time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if got != nil {
		t.Fatalf("GetSummary = %+v, want nil for untracked day", got)
	}
}
