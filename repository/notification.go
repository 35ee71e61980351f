package repository

import (
	"ayursutra/models"
	"context"
	"fmt"
	"time"
)

// CreateNotification stores a new outbox row.
func (r *Repository) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// PendingNotifications returns up to limit rows due for delivery, oldest
// first: pending rows last touched before before, and rows stuck in sending
// since before staleBefore.
func (r *Repository) PendingNotifications(ctx context.Context, before, staleBefore time.Time, limit int) ([]models.Notification, error) {
	var pending []models.Notification
	err := r.db.WithContext(ctx).
		Where("(status = ? AND updated_at < ?) OR (status = ? AND updated_at < ?)",
			models.NotificationPending, before, models.NotificationSending, staleBefore).
		Order("created_at").
		Limit(limit).
		Find(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("pending notifications: %w", err)
	}
	return pending, nil
}

// SaveDeliveryAttempt persists the outcome of a delivery attempt.
func (r *Repository) SaveDeliveryAttempt(ctx context.Context, n *models.Notification) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{ID: n.ID}).
		Select("status", "attempts", "last_error", "sent_at").
		Updates(n).Error
	if err != nil {
		return fmt.Errorf("save delivery attempt %s: %w", n.ID, err)
	}
	return nil
}

// ClaimNotification moves the row to sending unless another sender holds
// it. A sending row last touched before staleBefore can be reclaimed.
// It reports whether the caller now owns the row.
func (r *Repository) ClaimNotification(ctx context.Context, id string, staleBefore time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND (status = ? OR (status = ? AND updated_at < ?))",
			id, models.NotificationPending, models.NotificationSending, staleBefore).
		Updates(map[string]any{"status": models.NotificationSending, "updated_at": time.Now()})
	if res.Error != nil {
		return false, fmt.Errorf("claim notification %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}
