package routes

import (
	"github.com/samrat222/calorieTracker-BE/controllers"
	"github.com/samrat222/calorieTracker-BE/middlewares"
	"github.com/samrat222/calorieTracker-BE/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services carries every constructed service into the router. Push and
// Vision may be nil when AWS is not configured; the controllers answer
// 503 for those paths.
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Meals         *services.MealService
	Analytics     *services.AnalyticsService
	Notifications *services.NotificationService
	Push          *services.PushService
	Vision        *services.VisionService
	Hub           *services.RealtimeHub
}

func SetupRouter(db *gorm.DB, s Services) *gin.Engine {
	r := gin.Default()

	authCtl := controllers.NewAuthController(s.Auth)
	userCtl := controllers.NewUserController(s.Users)
	mealCtl := controllers.NewMealController(s.Meals, s.Vision)
	analyticsCtl := controllers.NewAnalyticsController(s.Analytics)
	notifCtl := controllers.NewNotificationController(s.Notifications)
	deviceCtl := controllers.NewDeviceController(s.Push)
	realtimeCtl := controllers.NewRealtimeController(s.Hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		auth.POST("/verify-mfa", authCtl.VerifyMFA)
		auth.POST("/forgot-password", authCtl.ForgotPassword)
		auth.POST("/reset-password", authCtl.ResetPassword)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(db))
	{
		user := api.Group("/user")
		{
			user.GET("/profile", userCtl.GetProfile)
			user.PUT("/profile", userCtl.UpdateProfile)
			user.POST("/onboarding", userCtl.CompleteOnboarding)
		}

		meals := api.Group("/meals")
		{
			meals.POST("", mealCtl.LogMeal)
			meals.GET("", mealCtl.ListMeals)
			meals.POST("/analyze", mealCtl.AnalyzeImage)
			meals.GET("/:id", mealCtl.GetMeal)
			meals.PUT("/:id", mealCtl.UpdateMeal)
			meals.DELETE("/:id", mealCtl.DeleteMeal)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/daily", analyticsCtl.Daily)
			analytics.GET("/weekly", analyticsCtl.Weekly)
			analytics.GET("/monthly", analyticsCtl.Monthly)
			analytics.GET("/overview", analyticsCtl.Overview)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", notifCtl.List)
			notifications.POST("", notifCtl.Create)
			notifications.GET("/unread-count", notifCtl.UnreadCount)
			notifications.PATCH("/:id/read", notifCtl.MarkRead)
			notifications.POST("/read-all", notifCtl.MarkAllRead)
			notifications.DELETE("/:id", notifCtl.Delete)
		}

		api.POST("/devices", deviceCtl.Register)
		api.POST("/devices/toggle", deviceCtl.TogglePush)

		api.GET("/ws/notifications", realtimeCtl.NotificationsWS)
	}

	return r
}
