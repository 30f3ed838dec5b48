package services

import (
	"math"
	"strings"
)

const (
	GoalLose     = "lose"
	GoalGain     = "gain"
	GoalMaintain = "maintain"
)

// The five canonical activity multipliers offered during onboarding,
// sedentary through extra active.
var activityLevels = []float64{1.2, 1.375, 1.55, 1.725, 1.9}

type HealthMetrics struct {
	BMI              *float64 `json:"bmi"`
	BMICategory      string   `json:"bmi_category"`
	BMR              *int     `json:"bmr"`
	DailyCalorieGoal *int     `json:"daily_calorie_goal"`
}

// CalculateBMI expects weight in kilograms and height in centimeters.
// Returns nil when either input is missing or non-positive.
func CalculateBMI(weightKg, heightCm float64) *float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return nil
	}
	h := heightCm / 100.0
	bmi := math.Round(weightKg/(h*h)*10) / 10
	return &bmi
}

func BMICategory(bmi *float64) string {
	switch {
	case bmi == nil || *bmi <= 0:
		return "Unknown"
	case *bmi < 18.5:
		return "Underweight"
	case *bmi < 25.0:
		return "Normal weight"
	case *bmi < 30.0:
		return "Overweight"
	default:
		return "Obese"
	}
}

// CalculateBMR applies the Harris-Benedict equations. Gender is matched
// case-insensitively against "male"/"female"; anything else yields nil.
// The result rounds to the nearest whole kcal: a 70 kg, 175 cm, 30 year
// old male computes to 1701.845 and comes back as 1702.
func CalculateBMR(weightKg, heightCm float64, ageYears int, gender string) *int {
	if weightKg <= 0 || heightCm <= 0 || ageYears <= 0 {
		return nil
	}
	var bmr float64
	switch strings.ToLower(gender) {
	case "male":
		bmr = 66.47 + 13.75*weightKg + 5.003*heightCm - 6.755*float64(ageYears)
	case "female":
		bmr = 655.1 + 9.563*weightKg + 1.850*heightCm - 4.676*float64(ageYears)
	default:
		return nil
	}
	v := int(math.Round(bmr))
	return &v
}

// IsValidActivityLevel reports whether level is one of the five canonical
// multipliers. Membership validation is the caller's responsibility before
// feeding a level into CalculateDailyCalorieGoal.
func IsValidActivityLevel(level float64) bool {
	for _, l := range activityLevels {
		if l == level {
			return true
		}
	}
	return false
}

// CalculateDailyCalorieGoal scales BMR by the activity multiplier, then
// applies the goal adjustment: -400 kcal for "lose", +500 kcal for "gain".
func CalculateDailyCalorieGoal(bmr *int, activityLevel float64, goal string) *int {
	if bmr == nil || *bmr <= 0 || activityLevel <= 0 {
		return nil
	}
	cal := int(math.Round(float64(*bmr) * activityLevel))
	switch goal {
	case GoalLose:
		cal -= 400
	case GoalGain:
		cal += 500
	}
	return &cal
}

// CalculateHealthMetrics composes the four calculators. Each result is nil
// independently: a bad gender yields nil BMR and goal but still a valid BMI.
func CalculateHealthMetrics(weightKg, heightCm float64, ageYears int, gender string, activityLevel float64, goal string) HealthMetrics {
	bmi := CalculateBMI(weightKg, heightCm)
	bmr := CalculateBMR(weightKg, heightCm, ageYears, gender)
	return HealthMetrics{
		BMI:              bmi,
		BMICategory:      BMICategory(bmi),
		BMR:              bmr,
		DailyCalorieGoal: CalculateDailyCalorieGoal(bmr, activityLevel, goal),
	}
}
