package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/samrat222/calorieTracker-BE/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory sqlite database. The shared-cache
// name keeps every connection in gorm's pool on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.FoodItem{},
		&models.DailySummary{},
		&models.Notification{},
		&models.UserDevice{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, calorieGoal *int) uint {
	t.Helper()
	user := models.User{
		Email:            fmt.Sprintf("%s@example.com", strings.ToLower(strings.ReplaceAll(t.Name(), "/", "-"))),
		Password:         "x",
		FullName:         "Test User",
		DailyCalorieGoal: calorieGoal,
		Onboarded:        true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func intPtr(v int) *int { return &v }
