package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/samrat222/calorieTracker-BE/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService struct {
	db   *gorm.DB
	hub  *RealtimeHub
	push *PushService
}

func NewNotificationService(db *gorm.DB, hub *RealtimeHub, push *PushService) *NotificationService {
	return &NotificationService{db: db, hub: hub, push: push}
}

// Emit persists the notification and best-effort fans it out to the
// realtime and push channels. Failures are logged, never returned;
// domain callers (meal logging, reminders, login) must not block on this.
func (n *NotificationService) Emit(userID uint, typ, title, body string, metadata map[string]string) {
	var meta datatypes.JSON
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err == nil {
			meta = datatypes.JSON(raw)
		}
	}

	rec := &models.Notification{
		UserID:   userID,
		Type:     typ,
		Title:    title,
		Body:     body,
		Metadata: meta,
	}
	if err := n.db.Create(rec).Error; err != nil {
		log.Printf("notification persist failed for user %d: %v", userID, err)
		return
	}

	if n.hub != nil {
		n.hub.Broadcast(userID, map[string]any{
			"kind":         "notification.created",
			"notification": rec,
		})
	}
	if n.push != nil {
		go n.push.PushToUser(userID, title, body, metadata)
	}
}

func (n *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	q := n.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []models.Notification
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (n *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (n *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	var rec models.Notification
	err := n.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return n.db.WithContext(ctx).Model(&rec).Update("is_read", true).Error
}

func (n *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return n.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (n *NotificationService) Delete(ctx context.Context, userID, notificationID uint) error {
	res := n.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
