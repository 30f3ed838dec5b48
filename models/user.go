package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	PublicID string `gorm:"type:varchar(36);uniqueIndex"` // uuid handed out to clients
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string

	// Body metrics collected during onboarding
	Weight        float64 // kg
	Height        float64 // cm
	Age           int
	Gender        string  `gorm:"size:10"` // "male" | "female"
	ActivityLevel float64 // one of the five canonical multipliers
	Goal          string  `gorm:"size:10;default:maintain"` // "lose" | "gain" | "maintain"

	// Derived fields, recomputed on every profile/onboarding write.
	// Never set directly from a client payload.
	BMI              *float64
	DailyCalorieGoal *int

	ProfilePicture string
	Onboarded      bool

	MFAEnabled    bool
	MFACode       string
	ResetToken    string
	ResetTokenExp time.Time
}
