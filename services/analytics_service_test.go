package services

import (
	"context"
	"testing"
	"time"

	"github.com/samrat222/calorieTracker-BE/models"

	"gorm.io/gorm"
)

// Wednesday, March 12th 2025. March has 31 days and starts on a Saturday,
// which exercises both the Monday week boundary and the trailing days the
// four fixed trend windows never cover.
var analyticsNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local)

func newAnalyticsService(t *testing.T) (*gorm.DB, *AnalyticsService) {
	t.Helper()
	db := newTestDB(t)
	svc := NewAnalyticsService(db)
	svc.now = func() time.Time { return analyticsNow }
	return db, svc
}

func seedSummary(t *testing.T, db *gorm.DB, userID uint, day time.Time, calories, mealsCount, goal int) {
	t.Helper()
	row := models.DailySummary{
		UserID:        userID,
		Date:          dayStart(day),
		TotalCalories: calories,
		TotalProtein:  float64(calories) * 0.05,
		TotalCarbs:    float64(calories) * 0.10,
		TotalFats:     float64(calories) * 0.03,
		MealsCount:    mealsCount,
		CalorieGoal:   goal,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed summary: %v", err)
	}
}

func localDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestDailyAnalyticsUntrackedDay(t *testing.T) {
	db, svc := newAnalyticsService(t)
	userID := seedUser(t, db, intPtr(2200))

	got, err := svc.Daily(context.Background(), userID, nil)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if got.Date != "2025-03-12" {
		t.Errorf("Date = %q, want 2025-03-12", got.Date)
	}
	if got.CalorieGoal != 2200 {
		t.Errorf("CalorieGoal = %d, want 2200", got.CalorieGoal)
	}
	if got.Consumed != 0 || got.MealsCount != 0 {
		t.Errorf("Consumed/MealsCount = %d/%d, want 0/0", got.Consumed, got.MealsCount)
	}
	if got.Remaining != 2200 {
		t.Errorf("Remaining = %d, want 2200", got.Remaining)
	}
	if got.PercentConsumed != 0 {
		t.Errorf("PercentConsumed = %d, want 0", got.PercentConsumed)
	}
}

func TestDailyAnalyticsZeroGoalNeverDividesByZero(t *testing.T) {
	db, svc := newAnalyticsService(t)
	userID := seedUser(t, db, nil)
	seedSummary(t, db, userID, analyticsNow, 500, 2, 0)

	got, err := svc.Daily(context.Background(), userID, nil)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if got.PercentConsumed != 0 {
		t.Errorf("PercentConsumed with zero goal = %d, want 0", got.PercentConsumed)
	}
	if got.Remaining != -500 {
		t.Errorf("Remaining = %d, want -500", got.Remaining)
	}
}

func TestDailyAnalyticsExplicitDate(t *testing.T) {
	db, svc := newAnalyticsService(t)
	userID := seedUser(t, db, intPtr(2000))
	seedSummary(t, db, userID, localDay(2025, 3, 5), 1500, 3, 2000)

	day := localDay(2025, 3, 5)
	got, err := svc.Daily(context.Background(), userID, &day)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if got.Date != "2025-03-05" {
		t.Errorf("Date = %q, want 2025-03-05", got.Date)
	}
	if got.Consumed != 1500 || got.MealsCount != 3 {
		t.Errorf("Consumed/MealsCount = %d/%d, want 1500/3", got.Consumed, got.MealsCount)
	}
	if got.PercentConsumed != 75 {
		t.Errorf("PercentConsumed = %d, want 75", got.PercentConsumed)
	}
}

func TestWeeklyAnalyticsMondayBounds(t *testing.T) {
	db, svc := newAnalyticsService(t)
	userID := seedUser(t, db, intPtr(2000))

	seedSummary(t, db, userID, localDay(2025, 3, 9), 999, 2, 2000)  // Sunday of the previous week
	seedSummary(t, db, userID, localDay(2025, 3, 10), 600, 2, 2000) // Monday
	seedSummary(t, db, userID, localDay(2025, 3, 11), 800, 3, 2000) // Tuesday

	got, err := svc.Weekly(context.Background(), userID)
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}
	if got.StartDate != "2025-03-10" || got.EndDate != "2025-03-16" {
		t.Errorf("range = %s..%s, want 2025-03-10..2025-03-16", got.StartDate, got.EndDate)
	}
	if got.DaysTracked != 2 {
		t.Errorf("DaysTracked = %d, want 2 (previous Sunday excluded)", got.DaysTracked)
	}
	if got.Totals.Calories != 1400 {
		t.Errorf("Totals.Calories = %d, want 1400", got.Totals.Calories)
	}
	if got.Totals.MealsCount != 5 {
		t.Errorf("Totals.MealsCount = %d, want 5", got.Totals.MealsCount)
	}
	if got.AverageCalories != 700 {
		t.Errorf("AverageCalories = %d, want 700", got.AverageCalories)
	}
	if len(got.DailyBreakdown) != 2 {
		t.Errorf("DailyBreakdown rows = %d, want 2", len(got.DailyBreakdown))
	}
}

func TestMonthlyAnalyticsTrendWindows(t *testing.T) {
	db, svc := newAnalyticsService(t)
	userID := seedUser(t, db, intPtr(2000))

	seedSummary(t, db, userID, localDay(2025, 3, 3), 1000, 2, 2000)
	seedSummary(t, db, userID, localDay(2025, 3, 10), 2000, 3, 2000)
	seedSummary(t, db, userID, localDay(2025, 3, 29), 3000, 1, 2000) // past the 4th window

	got, err := svc.Monthly(context.Background(), userID)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if got.StartDate != "2025-03-01" || got.EndDate != "2025-03-31" {
		t.Errorf("range = %s..%s, want 2025-03-01..2025-03-31", got.StartDate, got.EndDate)
	}
	if got.Totals.Calories != 6000 {
		t.Errorf("Totals.Calories = %d, want 6000 (trailing days still count)", got.Totals.Calories)
	}
	if got.DaysTracked != 3 {
		t.Errorf("DaysTracked = %d, want 3", got.DaysTracked)
	}
	if got.AverageCalories != 2000 {
		t.Errorf("AverageCalories = %d, want 2000", got.AverageCalories)
	}
	// 3 of 31 days
	if got.ConsistencyScore != 10 {
		t.Errorf("ConsistencyScore = %d, want 10", got.ConsistencyScore)
	}

	if len(got.WeeklyTrends) != 4 {
		t.Fatalf("WeeklyTrends = %d windows, want 4", len(got.WeeklyTrends))
	}
	wantTotals := []int{1000, 2000, 0, 0}
	wantDays := []int{1, 1, 0, 0}
	for i, tr := range got.WeeklyTrends {
		if tr.Week != i+1 {
			t.Errorf("trend %d: Week = %d, want %d", i, tr.Week, i+1)
		}
		if tr.TotalCalories != wantTotals[i] || tr.DaysTracked != wantDays[i] {
			t.Errorf("trend %d: %d kcal / %d days, want %d / %d",
				i+1, tr.TotalCalories, tr.DaysTracked, wantTotals[i], wantDays[i])
		}
	}
	if got.WeeklyTrends[0].StartDate != "2025-03-01" || got.WeeklyTrends[0].EndDate != "2025-03-07" {
		t.Errorf("window 1 = %s..%s, want 2025-03-01..2025-03-07",
			got.WeeklyTrends[0].StartDate, got.WeeklyTrends[0].EndDate)
	}
	if got.WeeklyTrends[3].EndDate != "2025-03-28" {
		t.Errorf("window 4 ends %s, want 2025-03-28", got.WeeklyTrends[3].EndDate)
	}
}

func TestOverviewConsistencyUsesThirtyDays(t *testing.T) {
	db, svc := newAnalyticsService(t)
	userID := seedUser(t, db, intPtr(2000))

	// eight tracked days early in the month plus today
	for d := 1; d <= 8; d++ {
		seedSummary(t, db, userID, localDay(2025, 3, d), 1000, 2, 2000)
	}
	seedSummary(t, db, userID, analyticsNow, 1500, 3, 2000)

	got, err := svc.Overview(context.Background(), userID)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if got.Daily == nil || got.Weekly == nil || got.Monthly == nil {
		t.Fatal("overview legs must all be present")
	}

	if got.Daily.Consumed != 1500 {
		t.Errorf("Daily.Consumed = %d, want 1500", got.Daily.Consumed)
	}
	// week of Mar 10-16 holds only today's row: 1500 of 14000
	if got.WeeklyProgressPercent != 11 {
		t.Errorf("WeeklyProgressPercent = %d, want 11", got.WeeklyProgressPercent)
	}
	// 9500 of 14000
	if got.MonthlyProgressPercent != 68 {
		t.Errorf("MonthlyProgressPercent = %d, want 68", got.MonthlyProgressPercent)
	}
	// 9 days over a fixed 30-day window...
	if got.ConsistencyScore != 30 {
		t.Errorf("overview ConsistencyScore = %d, want 30", got.ConsistencyScore)
	}
	// ...while the monthly report divides by March's true 31 days
	if got.Monthly.ConsistencyScore != 29 {
		t.Errorf("monthly ConsistencyScore = %d, want 29", got.Monthly.ConsistencyScore)
	}
}

func TestPctOfGoal(t *testing.T) {
	tests := []struct {
		consumed, goal, want int
	}{
		{0, 2000, 0},
		{1000, 2000, 50},
		{2500, 2000, 125},
		{500, 0, 0},
		{500, -10, 0},
		{1, 3, 33},
		{2, 3, 67},
	}
	for _, tt := range tests {
		if got := pctOfGoal(tt.consumed, tt.goal); got != tt.want {
			t.Errorf("pctOfGoal(%d, %d) = %d, want %d", tt.consumed, tt.goal, got, tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday", localDay(2025, 3, 12), localDay(2025, 3, 10)},
		{"monday maps to itself", localDay(2025, 3, 10), localDay(2025, 3, 10)},
		{"sunday closes the week", localDay(2025, 3, 16), localDay(2025, 3, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := startOfWeek(tt.in); !got.Equal(tt.want) {
				t.Fatalf("startOfWeek(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
