package main

import (
	"context"
	"log"
	"os"

	"github.com/samrat222/calorieTracker-BE/config"
	"github.com/samrat222/calorieTracker-BE/routes"
	"github.com/samrat222/calorieTracker-BE/services"
	"github.com/samrat222/calorieTracker-BE/utils"
)

func main() {
	config.LoadEnv()

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	rdb := config.InitRedis()

	awsCfg, err := config.LoadAWS(context.Background())
	if err != nil {
		log.Fatalf("aws config load failed: %v", err)
	}

	hub := services.NewRealtimeHub()
	push := services.NewPushService(db, awsCfg)
	notifier := services.NewNotificationService(db, hub, push)

	summaries := services.NewSummaryService(db)
	meals := services.NewMealService(db, summaries, notifier)
	analytics := services.NewAnalyticsService(db)

	nutrition := services.NewNutritionClient(
		os.Getenv("NUTRITION_APP_ID"),
		config.KeyPoolFromEnv("NUTRITION_APP_KEYS"),
	)
	vision := services.NewVisionService(awsCfg, nutrition, rdb)

	uploader := utils.NewUploader(awsCfg)
	users := services.NewUserService(db, uploader)

	mailer := utils.NewMailer(awsCfg)
	auth := services.NewAuthService(db, mailer, notifier)

	reminders := services.NewReminderScheduler(db, notifier)
	if err := reminders.Start(); err != nil {
		log.Fatalf("reminder scheduler failed: %v", err)
	}
	defer reminders.Stop()

	r := routes.SetupRouter(db, routes.Services{
		Auth:          auth,
		Users:         users,
		Meals:         meals,
		Analytics:     analytics,
		Notifications: notifier,
		Push:          push,
		Vision:        vision,
		Hub:           hub,
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
