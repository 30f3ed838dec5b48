package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samrat222/calorieTracker-BE/models"

	"gorm.io/gorm"
)

// Bounded wait for the meal-update transaction so a lock conflict fails
// fast instead of hanging on the row.
const mealTxTimeout = 5 * time.Second

type MealService struct {
	db        *gorm.DB
	summaries *SummaryService
	notifier  *NotificationService
	now       func() time.Time
}

func NewMealService(db *gorm.DB, summaries *SummaryService, notifier *NotificationService) *MealService {
	return &MealService{db: db, summaries: summaries, notifier: notifier, now: time.Now}
}

type FoodItemInput struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
	Unit     string  `json:"unit"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type CreateMealInput struct {
	MealType      string          `json:"meal_type" binding:"required"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url"`
	TotalCalories int             `json:"total_calories"`
	Protein       float64         `json:"protein"`
	Carbs         float64         `json:"carbs"`
	Fats          float64         `json:"fats"`
	Fiber         float64         `json:"fiber"`
	MealDate      *time.Time      `json:"meal_date"`
	FoodItems     []FoodItemInput `json:"food_items"`
}

// UpdateMealInput is a patch: nil pointer fields are left untouched.
// A non-nil FoodItems replaces ALL existing items with the given set:
// there is no partial merge, unlisted items are dropped.
type UpdateMealInput struct {
	MealType      *string          `json:"meal_type"`
	Description   *string          `json:"description"`
	ImageURL      *string          `json:"image_url"`
	TotalCalories *int             `json:"total_calories"`
	Protein       *float64         `json:"protein"`
	Carbs         *float64         `json:"carbs"`
	Fats          *float64         `json:"fats"`
	Fiber         *float64         `json:"fiber"`
	MealDate      *time.Time       `json:"meal_date"`
	FoodItems     *[]FoodItemInput `json:"food_items"`
}

func validMealType(t string) bool {
	switch t {
	case models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner, models.MealTypeSnack:
		return true
	}
	return false
}

func validateItems(items []FoodItemInput) error {
	for _, it := range items {
		if it.Name == "" || it.Quantity <= 0 {
			return fmt.Errorf("%w: food item needs a name and a quantity > 0", ErrInvalidInput)
		}
		if it.Calories < 0 {
			return fmt.Errorf("%w: food item calories must be >= 0", ErrInvalidInput)
		}
	}
	return nil
}

// CreateMeal inserts the meal and its food items as one write, recomputes
// the day's summary, then emits a MEAL_LOGGED notification. The summary
// recompute is sequential with the insert, not atomic: a crash in between
// leaves a stale summary until the next mutation for that day.
func (s *MealService) CreateMeal(ctx context.Context, userID uint, in CreateMealInput) (*models.Meal, error) {
	if !validMealType(in.MealType) {
		return nil, fmt.Errorf("%w: meal_type must be breakfast|lunch|dinner|snack", ErrInvalidInput)
	}
	if in.TotalCalories < 0 || in.Protein < 0 || in.Carbs < 0 || in.Fats < 0 || in.Fiber < 0 {
		return nil, fmt.Errorf("%w: nutrition values must be >= 0", ErrInvalidInput)
	}
	if err := validateItems(in.FoodItems); err != nil {
		return nil, err
	}

	mealDate := s.now()
	if in.MealDate != nil {
		mealDate = *in.MealDate
	}

	meal := models.Meal{
		UserID:        userID,
		MealType:      in.MealType,
		Description:   in.Description,
		ImageURL:      in.ImageURL,
		TotalCalories: in.TotalCalories,
		Protein:       in.Protein,
		Carbs:         in.Carbs,
		Fats:          in.Fats,
		Fiber:         in.Fiber,
		MealDate:      mealDate,
	}
	for _, it := range in.FoodItems {
		meal.FoodItems = append(meal.FoodItems, models.FoodItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Unit:     it.Unit,
			Calories: it.Calories,
			Protein:  it.Protein,
			Carbs:    it.Carbs,
			Fats:     it.Fats,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&meal).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransaction, err)
	}

	if _, err := s.summaries.RecomputeDailySummary(ctx, userID, meal.MealDate); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Emit(userID, models.NotificationMealLogged,
			"Meal logged",
			fmt.Sprintf("Your %s (%d kcal) was logged.", meal.MealType, meal.TotalCalories),
			map[string]string{"meal_id": fmt.Sprintf("%d", meal.ID), "meal_type": meal.MealType})
	}

	return s.reload(ctx, meal.ID)
}

// UpdateMeal patches the meal's own fields and, when the patch carries a
// food_items array, replaces all existing items with the new set. Both
// writes happen in one bounded transaction. The summary is recomputed
// against the date the meal had BEFORE the update; a changed meal_date
// leaves the new day stale until its own next mutation.
func (s *MealService) UpdateMeal(ctx context.Context, userID, mealID uint, in UpdateMealInput) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	originalDate := meal.MealDate

	if in.MealType != nil && !validMealType(*in.MealType) {
		return nil, fmt.Errorf("%w: meal_type must be breakfast|lunch|dinner|snack", ErrInvalidInput)
	}
	if in.TotalCalories != nil && *in.TotalCalories < 0 {
		return nil, fmt.Errorf("%w: total_calories must be >= 0", ErrInvalidInput)
	}
	if in.FoodItems != nil {
		if err := validateItems(*in.FoodItems); err != nil {
			return nil, err
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, mealTxTimeout)
	defer cancel()

	err := s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		if in.MealType != nil {
			meal.MealType = *in.MealType
		}
		if in.Description != nil {
			meal.Description = *in.Description
		}
		if in.ImageURL != nil {
			meal.ImageURL = *in.ImageURL
		}
		if in.TotalCalories != nil {
			meal.TotalCalories = *in.TotalCalories
		}
		if in.Protein != nil {
			meal.Protein = *in.Protein
		}
		if in.Carbs != nil {
			meal.Carbs = *in.Carbs
		}
		if in.Fats != nil {
			meal.Fats = *in.Fats
		}
		if in.Fiber != nil {
			meal.Fiber = *in.Fiber
		}
		if in.MealDate != nil {
			meal.MealDate = *in.MealDate
		}
		if err := tx.Save(&meal).Error; err != nil {
			return err
		}

		if in.FoodItems != nil {
			// full replace: drop every existing item, then recreate
			if err := tx.Unscoped().Where("meal_id = ?", meal.ID).Delete(&models.FoodItem{}).Error; err != nil {
				return err
			}
			for _, it := range *in.FoodItems {
				fi := models.FoodItem{
					MealID:   meal.ID,
					Name:     it.Name,
					Quantity: it.Quantity,
					Unit:     it.Unit,
					Calories: it.Calories,
					Protein:  it.Protein,
					Carbs:    it.Carbs,
					Fats:     it.Fats,
				}
				if err := tx.Create(&fi).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransaction, err)
	}

	if _, err := s.summaries.RecomputeDailySummary(ctx, userID, originalDate); err != nil {
		return nil, err
	}
	return s.reload(ctx, meal.ID)
}

// DeleteMeal removes the meal and cascades to its food items, then
// recomputes the day's summary. The summary row itself survives with
// zeroed totals when this was the last meal of the day.
func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID uint) error {
	var meal models.Meal
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	mealDate := meal.MealDate

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("meal_id = ?", meal.ID).Delete(&models.FoodItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&meal).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}

	_, err = s.summaries.RecomputeDailySummary(ctx, userID, mealDate)
	return err
}

func (s *MealService) GetMeal(ctx context.Context, userID, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.WithContext(ctx).
		Preload("FoodItems").
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

func (s *MealService) ListMeals(ctx context.Context, userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Preload("FoodItems").
		Where("user_id = ?", userID).
		Order("meal_date DESC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) ListMealsByDate(ctx context.Context, userID uint, date time.Time) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Preload("FoodItems").
		Where("user_id = ? AND meal_date BETWEEN ? AND ?", userID, dayStart(date), dayEnd(date)).
		Order("meal_date ASC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) reload(ctx context.Context, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.WithContext(ctx).Preload("FoodItems").First(&meal, mealID).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}
