package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationMealLogged    = "MEAL_LOGGED"
	NotificationReminder      = "REMINDER"
	NotificationLoginGreeting = "LOGIN_GREETING"
	NotificationManual        = "MANUAL"
	NotificationSystem        = "SYSTEM"
)

type Notification struct {
	gorm.Model
	UserID   uint   `gorm:"index;not null"`
	Type     string `gorm:"size:20"`
	Title    string
	Body     string `gorm:"type:text"`
	IsRead   bool   `gorm:"default:false"`
	Metadata datatypes.JSON
}
