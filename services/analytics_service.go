package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/samrat222/calorieTracker-BE/models"

	"gorm.io/gorm"
)

type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db, now: time.Now}
}

type MacroTotals struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

type DailyAnalytics struct {
	Date            string      `json:"date"`
	CalorieGoal     int         `json:"calorie_goal"`
	Consumed        int         `json:"consumed"`
	Remaining       int         `json:"remaining"` // may be negative when over goal
	PercentConsumed int         `json:"percent_consumed"`
	Macros          MacroTotals `json:"macros"`
	MealsCount      int         `json:"meals_count"`
}

type PeriodTotals struct {
	Calories   int     `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fats       float64 `json:"fats"`
	MealsCount int     `json:"meals_count"`
}

type WeeklyAnalytics struct {
	StartDate        string                `json:"start_date"`
	EndDate          string                `json:"end_date"`
	DailyCalorieGoal int                   `json:"daily_calorie_goal"`
	AverageCalories  int                   `json:"average_calories"`
	Totals           PeriodTotals          `json:"totals"`
	DaysTracked      int                   `json:"days_tracked"`
	DailyBreakdown   []models.DailySummary `json:"daily_breakdown"`
}

type WeeklyTrend struct {
	Week            int    `json:"week"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	TotalCalories   int    `json:"total_calories"`
	AverageCalories int    `json:"average_calories"`
	DaysTracked     int    `json:"days_tracked"`
}

type MonthlyAnalytics struct {
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date"`
	DailyCalorieGoal int           `json:"daily_calorie_goal"`
	AverageCalories  int           `json:"average_calories"`
	Totals           PeriodTotals  `json:"totals"`
	DaysTracked      int           `json:"days_tracked"`
	ConsistencyScore int           `json:"consistency_score"` // daysTracked / days-in-month
	WeeklyTrends     []WeeklyTrend `json:"weekly_trends"`
}

type AnalyticsOverview struct {
	Daily   *DailyAnalytics   `json:"daily"`
	Weekly  *WeeklyAnalytics  `json:"weekly"`
	Monthly *MonthlyAnalytics `json:"monthly"`

	// Progress of the period's consumption against dailyGoal × 7.
	WeeklyProgressPercent  int `json:"weekly_progress_percent"`
	MonthlyProgressPercent int `json:"monthly_progress_percent"`
	// Overview consistency always divides by 30, unlike the standalone
	// monthly report which divides by the true days in the month.
	ConsistencyScore int `json:"consistency_score"`
}

// Daily reports one day against the user's calorie goal. date==nil means today.
func (s *AnalyticsService) Daily(ctx context.Context, userID uint, date *time.Time) (*DailyAnalytics, error) {
	day := s.now()
	if date != nil {
		day = *date
	}

	var summary models.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, dayStart(day)).
		First(&summary).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	goal := summary.CalorieGoal
	if errors.Is(err, gorm.ErrRecordNotFound) {
		g, err := s.calorieGoal(ctx, userID)
		if err != nil {
			return nil, err
		}
		goal = g
		summary = models.DailySummary{}
	}

	return &DailyAnalytics{
		Date:            dayStart(day).Format("2006-01-02"),
		CalorieGoal:     goal,
		Consumed:        summary.TotalCalories,
		Remaining:       goal - summary.TotalCalories,
		PercentConsumed: pctOfGoal(summary.TotalCalories, goal),
		Macros: MacroTotals{
			Protein: summary.TotalProtein,
			Carbs:   summary.TotalCarbs,
			Fats:    summary.TotalFats,
		},
		MealsCount: summary.MealsCount,
	}, nil
}

// Weekly covers Monday through Sunday of the current week.
func (s *AnalyticsService) Weekly(ctx context.Context, userID uint) (*WeeklyAnalytics, error) {
	start := startOfWeek(s.now())
	end := start.AddDate(0, 0, 6)

	rows, err := s.summariesInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	goal, err := s.calorieGoal(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := sumSummaries(rows)
	return &WeeklyAnalytics{
		StartDate:        start.Format("2006-01-02"),
		EndDate:          end.Format("2006-01-02"),
		DailyCalorieGoal: goal,
		AverageCalories:  avgCalories(totals.Calories, len(rows)),
		Totals:           totals,
		DaysTracked:      len(rows),
		DailyBreakdown:   rows,
	}, nil
}

// Monthly covers the first to last calendar day of the current month. The
// weekly trends slice the month into four fixed 7-day windows from month
// start; with a 29-31 day month the trailing days fall outside every window
// and are excluded from the trends (they still count toward the totals).
func (s *AnalyticsService) Monthly(ctx context.Context, userID uint) (*MonthlyAnalytics, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	daysInMonth := end.Day()

	rows, err := s.summariesInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	goal, err := s.calorieGoal(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := sumSummaries(rows)

	trends := make([]WeeklyTrend, 0, 4)
	for week := 0; week < 4; week++ {
		ws := start.AddDate(0, 0, week*7)
		we := ws.AddDate(0, 0, 7) // exclusive

		var wTotal, wDays int
		for _, r := range rows {
			if !r.Date.Before(ws) && r.Date.Before(we) {
				wTotal += r.TotalCalories
				wDays++
			}
		}
		trends = append(trends, WeeklyTrend{
			Week:            week + 1,
			StartDate:       ws.Format("2006-01-02"),
			EndDate:         we.AddDate(0, 0, -1).Format("2006-01-02"),
			TotalCalories:   wTotal,
			AverageCalories: avgCalories(wTotal, wDays),
			DaysTracked:     wDays,
		})
	}

	return &MonthlyAnalytics{
		StartDate:        start.Format("2006-01-02"),
		EndDate:          end.Format("2006-01-02"),
		DailyCalorieGoal: goal,
		AverageCalories:  avgCalories(totals.Calories, len(rows)),
		Totals:           totals,
		DaysTracked:      len(rows),
		ConsistencyScore: pctOfGoal(len(rows), daysInMonth),
		WeeklyTrends:     trends,
	}, nil
}

// Overview fans out to the three reports. All-or-nothing: any failing leg
// fails the whole overview, partial results are never returned.
func (s *AnalyticsService) Overview(ctx context.Context, userID uint) (*AnalyticsOverview, error) {
	daily, err := s.Daily(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	weekly, err := s.Weekly(ctx, userID)
	if err != nil {
		return nil, err
	}
	monthly, err := s.Monthly(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &AnalyticsOverview{
		Daily:                  daily,
		Weekly:                 weekly,
		Monthly:                monthly,
		WeeklyProgressPercent:  pctOfGoal(weekly.Totals.Calories, weekly.DailyCalorieGoal*7),
		MonthlyProgressPercent: pctOfGoal(monthly.Totals.Calories, monthly.DailyCalorieGoal*7),
		ConsistencyScore:       pctOfGoal(monthly.DaysTracked, 30),
	}, nil
}

// ---------- internals ----------

func (s *AnalyticsService) summariesInRange(ctx context.Context, userID uint, from, to time.Time) ([]models.DailySummary, error) {
	var rows []models.DailySummary
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (s *AnalyticsService) calorieGoal(ctx context.Context, userID uint) (int, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("daily_calorie_goal").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultCalorieGoal, nil
	}
	if err != nil {
		return 0, err
	}
	if user.DailyCalorieGoal == nil || *user.DailyCalorieGoal <= 0 {
		return defaultCalorieGoal, nil
	}
	return *user.DailyCalorieGoal, nil
}

func sumSummaries(rows []models.DailySummary) PeriodTotals {
	var t PeriodTotals
	for _, r := range rows {
		t.Calories += r.TotalCalories
		t.Protein += r.TotalProtein
		t.Carbs += r.TotalCarbs
		t.Fats += r.TotalFats
		t.MealsCount += r.MealsCount
	}
	return t
}

// pctOfGoal guards the zero-goal edge: 0 instead of NaN/Inf.
func pctOfGoal(consumed, goal int) int {
	if goal <= 0 {
		return 0
	}
	return int(math.Round(float64(consumed) / float64(goal) * 100))
}

func avgCalories(total, days int) int {
	if days <= 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(days)))
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func startOfWeek(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // Sunday closes the week, it does not start one
	}
	tt := dayStart(t)
	return tt.AddDate(0, 0, -(wd - 1)) // Monday
}
