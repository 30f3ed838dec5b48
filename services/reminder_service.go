package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/samrat222/calorieTracker-BE/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderScheduler fires meal reminders at fixed local times. Each tick
// fans out a REMINDER notification to every onboarded user who has not
// yet logged that meal type today.
type ReminderScheduler struct {
	cron     *cron.Cron
	db       *gorm.DB
	notifier *NotificationService
	now      func() time.Time
}

func NewReminderScheduler(db *gorm.DB, notifier *NotificationService) *ReminderScheduler {
	return &ReminderScheduler{cron: cron.New(), db: db, notifier: notifier, now: time.Now}
}

func reminderSpec(envName, fallback string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return fallback
}

func (r *ReminderScheduler) Start() error {
	schedules := []struct {
		mealType string
		spec     string
	}{
		{models.MealTypeBreakfast, reminderSpec("REMINDER_CRON_BREAKFAST", "0 8 * * *")},
		{models.MealTypeLunch, reminderSpec("REMINDER_CRON_LUNCH", "0 13 * * *")},
		{models.MealTypeDinner, reminderSpec("REMINDER_CRON_DINNER", "0 19 * * *")},
	}
	for _, s := range schedules {
		mealType := s.mealType
		if _, err := r.cron.AddFunc(s.spec, func() { r.remind(mealType) }); err != nil {
			return fmt.Errorf("bad reminder schedule for %s: %w", mealType, err)
		}
	}
	r.cron.Start()
	return nil
}

func (r *ReminderScheduler) Stop() {
	r.cron.Stop()
}

func (r *ReminderScheduler) remind(mealType string) {
	ctx := context.Background()

	var userIDs []uint
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("onboarded = ?", true).
		Pluck("id", &userIDs).Error; err != nil {
		log.Printf("reminder query failed: %v", err)
		return
	}

	today := r.now()
	for _, uid := range userIDs {
		var logged int64
		if err := r.db.WithContext(ctx).
			Model(&models.Meal{}).
			Where("user_id = ? AND meal_type = ? AND meal_date BETWEEN ? AND ?",
				uid, mealType, dayStart(today), dayEnd(today)).
			Count(&logged).Error; err != nil {
			log.Printf("reminder meal check failed for user %d: %v", uid, err)
			continue
		}
		if logged > 0 {
			continue
		}
		r.notifier.Emit(uid, models.NotificationReminder,
			"Meal reminder",
			fmt.Sprintf("Time to log your %s!", mealType),
			map[string]string{"meal_type": mealType})
	}
}
