package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/samrat222/calorieTracker-BE/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// LoadEnv reads .env when present. Container deployments configure the
// environment directly, so a missing file is not an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
}

func InitDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.FoodItem{},
		&models.DailySummary{},
		&models.Notification{},
		&models.UserDevice{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}
	return db, nil
}

// InitRedis returns nil when REDIS_ADDR is unset; callers treat a nil
// client as "caching disabled".
func InitRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("redis unreachable, continuing without cache: %v", err)
		return nil
	}
	return rdb
}

func LoadAWS(ctx context.Context) (aws.Config, error) {
	region := os.Getenv("AWS_REGION")
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}
