package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samrat222/calorieTracker-BE/models"
	"github.com/samrat222/calorieTracker-BE/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db       *gorm.DB
	uploader *utils.Uploader // nil when S3 is not configured
}

func NewUserService(db *gorm.DB, uploader *utils.Uploader) *UserService {
	return &UserService{db: db, uploader: uploader}
}

// ProfileInput is a patch; nil fields are left untouched. BMI and the
// daily calorie goal are derived server-side and cannot be set here.
type ProfileInput struct {
	FullName       *string  `json:"full_name"`
	Weight         *float64 `json:"weight"`
	Height         *float64 `json:"height"`
	Age            *int     `json:"age"`
	Gender         *string  `json:"gender"`
	ActivityLevel  *float64 `json:"activity_level"`
	Goal           *string  `json:"goal"`
	ProfilePicture *string  `json:"profile_picture"` // base64 data URI
}

type OnboardingInput struct {
	Weight        float64 `json:"weight" binding:"required"`
	Height        float64 `json:"height" binding:"required"`
	Age           int     `json:"age" binding:"required"`
	Gender        string  `json:"gender" binding:"required"`
	ActivityLevel float64 `json:"activity_level" binding:"required"`
	Goal          string  `json:"goal"`
}

type ProfileView struct {
	ID               uint     `json:"id"`
	PublicID         string   `json:"public_id"`
	Email            string   `json:"email"`
	FullName         string   `json:"full_name"`
	Weight           float64  `json:"weight"`
	Height           float64  `json:"height"`
	Age              int      `json:"age"`
	Gender           string   `json:"gender"`
	ActivityLevel    float64  `json:"activity_level"`
	Goal             string   `json:"goal"`
	BMI              *float64 `json:"bmi"`
	BMICategory      string   `json:"bmi_category"`
	DailyCalorieGoal *int     `json:"daily_calorie_goal"`
	ProfilePicture   string   `json:"profile_picture"`
	Onboarded        bool     `json:"onboarded"`
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*ProfileView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ProfileView{
		ID:               user.ID,
		PublicID:         user.PublicID,
		Email:            user.Email,
		FullName:         user.FullName,
		Weight:           user.Weight,
		Height:           user.Height,
		Age:              user.Age,
		Gender:           user.Gender,
		ActivityLevel:    user.ActivityLevel,
		Goal:             user.Goal,
		BMI:              user.BMI,
		BMICategory:      BMICategory(user.BMI),
		DailyCalorieGoal: user.DailyCalorieGoal,
		ProfilePicture:   user.ProfilePicture,
		Onboarded:        user.Onboarded,
	}, nil
}

// UpdateProfile patches profile fields and recomputes the derived health
// metrics from whatever body data the user has afterwards.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*ProfileView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Weight != nil {
		if *in.Weight <= 0 {
			return nil, fmt.Errorf("%w: weight must be > 0", ErrInvalidInput)
		}
		user.Weight = *in.Weight
	}
	if in.Height != nil {
		if *in.Height <= 0 {
			return nil, fmt.Errorf("%w: height must be > 0", ErrInvalidInput)
		}
		user.Height = *in.Height
	}
	if in.Age != nil {
		if *in.Age <= 0 {
			return nil, fmt.Errorf("%w: age must be > 0", ErrInvalidInput)
		}
		user.Age = *in.Age
	}
	if in.Gender != nil {
		g := strings.ToLower(*in.Gender)
		if g != "male" && g != "female" {
			return nil, fmt.Errorf("%w: gender must be male or female", ErrInvalidInput)
		}
		user.Gender = g
	}
	if in.ActivityLevel != nil {
		if !IsValidActivityLevel(*in.ActivityLevel) {
			return nil, fmt.Errorf("%w: activity_level must be one of 1.2, 1.375, 1.55, 1.725, 1.9", ErrInvalidInput)
		}
		user.ActivityLevel = *in.ActivityLevel
	}
	if in.Goal != nil {
		if !validGoal(*in.Goal) {
			return nil, fmt.Errorf("%w: goal must be lose, gain or maintain", ErrInvalidInput)
		}
		user.Goal = *in.Goal
	}
	if in.ProfilePicture != nil && *in.ProfilePicture != "" {
		if s.uploader == nil {
			return nil, fmt.Errorf("%w: image upload not configured", ErrInvalidInput)
		}
		url, err := s.uploader.UploadBase64Image(ctx, *in.ProfilePicture, "profile-pictures")
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %v", err)
		}
		user.ProfilePicture = url
	}

	s.recomputeDerived(&user)

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// CompleteOnboarding stores the onboarding body metrics, derives the
// health metrics and flips the onboarded flag.
func (s *UserService) CompleteOnboarding(ctx context.Context, userID uint, in OnboardingInput) (*HealthMetrics, error) {
	if in.Weight <= 0 || in.Height <= 0 || in.Age <= 0 {
		return nil, fmt.Errorf("%w: weight, height and age must be > 0", ErrInvalidInput)
	}
	g := strings.ToLower(in.Gender)
	if g != "male" && g != "female" {
		return nil, fmt.Errorf("%w: gender must be male or female", ErrInvalidInput)
	}
	if !IsValidActivityLevel(in.ActivityLevel) {
		return nil, fmt.Errorf("%w: activity_level must be one of 1.2, 1.375, 1.55, 1.725, 1.9", ErrInvalidInput)
	}
	goal := in.Goal
	if goal == "" {
		goal = GoalMaintain
	}
	if !validGoal(goal) {
		return nil, fmt.Errorf("%w: goal must be lose, gain or maintain", ErrInvalidInput)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	user.Weight = in.Weight
	user.Height = in.Height
	user.Age = in.Age
	user.Gender = g
	user.ActivityLevel = in.ActivityLevel
	user.Goal = goal
	user.Onboarded = true

	s.recomputeDerived(&user)

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}

	metrics := CalculateHealthMetrics(user.Weight, user.Height, user.Age, user.Gender, user.ActivityLevel, user.Goal)
	return &metrics, nil
}

func (s *UserService) recomputeDerived(user *models.User) {
	m := CalculateHealthMetrics(user.Weight, user.Height, user.Age, user.Gender, user.ActivityLevel, user.Goal)
	user.BMI = m.BMI
	user.DailyCalorieGoal = m.DailyCalorieGoal
}

func validGoal(g string) bool {
	switch g {
	case GoalLose, GoalGain, GoalMaintain:
		return true
	}
	return false
}
