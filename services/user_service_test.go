package services

import (
	"context"
	"errors"
	"testing"

	"github.com/samrat222/calorieTracker-BE/models"
)

func TestCompleteOnboardingDerivesMetrics(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, nil)
	svc := NewUserService(db, nil)

	metrics, err := svc.CompleteOnboarding(context.Background(), userID, OnboardingInput{
		Weight:        70,
		Height:        175,
		Age:           30,
		Gender:        "male",
		ActivityLevel: 1.55,
		Goal:          GoalLose,
	})
	if err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if metrics.BMI == nil || *metrics.BMI != 22.9 {
		t.Errorf("BMI = %v, want 22.9", fmtPtr(metrics.BMI))
	}
	if metrics.BMR == nil || *metrics.BMR != 1702 {
		t.Errorf("BMR = %v, want 1702", fmtIntPtr(metrics.BMR))
	}
	if metrics.DailyCalorieGoal == nil || *metrics.DailyCalorieGoal != 2238 {
		t.Errorf("DailyCalorieGoal = %v, want 2238", fmtIntPtr(metrics.DailyCalorieGoal))
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !user.Onboarded {
		t.Error("Onboarded flag not set")
	}
	if user.DailyCalorieGoal == nil || *user.DailyCalorieGoal != 2238 {
		t.Errorf("persisted DailyCalorieGoal = %v, want 2238", fmtIntPtr(user.DailyCalorieGoal))
	}
	if user.BMI == nil || *user.BMI != 22.9 {
		t.Errorf("persisted BMI = %v, want 22.9", fmtPtr(user.BMI))
	}
}

func TestCompleteOnboardingValidation(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, nil)
	svc := NewUserService(db, nil)
	ctx := context.Background()

	valid := OnboardingInput{Weight: 70, Height: 175, Age: 30, Gender: "male", ActivityLevel: 1.55}

	tests := []struct {
		name   string
		mutate func(in *OnboardingInput)
	}{
		{"zero weight", func(in *OnboardingInput) { in.Weight = 0 }},
		{"bad gender", func(in *OnboardingInput) { in.Gender = "robot" }},
		{"off-list activity level", func(in *OnboardingInput) { in.ActivityLevel = 1.3 }},
		{"unknown goal", func(in *OnboardingInput) { in.Goal = "bulk" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if _, err := svc.CompleteOnboarding(ctx, userID, in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("CompleteOnboarding = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestUpdateProfileRecomputesDerivedMetrics(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, nil)
	svc := NewUserService(db, nil)
	ctx := context.Background()

	if _, err := svc.CompleteOnboarding(ctx, userID, OnboardingInput{
		Weight: 70, Height: 175, Age: 30, Gender: "male", ActivityLevel: 1.55, Goal: GoalLose,
	}); err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}

	weight := 80.0
	profile, err := svc.UpdateProfile(ctx, userID, ProfileInput{Weight: &weight})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if profile.BMI == nil || *profile.BMI != 26.1 {
		t.Errorf("BMI after weight change = %v, want 26.1", fmtPtr(profile.BMI))
	}
	if profile.BMICategory != "Overweight" {
		t.Errorf("BMICategory = %q, want Overweight", profile.BMICategory)
	}
	// BMR(80, 175, 30, male) = 1839, x1.55 = 2850, lose -400
	if profile.DailyCalorieGoal == nil || *profile.DailyCalorieGoal != 2450 {
		t.Errorf("DailyCalorieGoal = %v, want 2450", fmtIntPtr(profile.DailyCalorieGoal))
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, nil)
	svc := NewUserService(db, nil)
	ctx := context.Background()

	badGender := "unknown"
	if _, err := svc.UpdateProfile(ctx, userID, ProfileInput{Gender: &badGender}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("UpdateProfile bad gender = %v, want ErrInvalidInput", err)
	}
	negWeight := -2.0
	if _, err := svc.UpdateProfile(ctx, userID, ProfileInput{Weight: &negWeight}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("UpdateProfile negative weight = %v, want ErrInvalidInput", err)
	}
}

func TestGetProfileUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	if _, err := svc.GetProfile(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetProfile = %v, want ErrNotFound", err)
	}
}
