package repository

import (
	"github.com/hikarukin/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates a new notification
func (r *GormNotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

// FindByID finds a notification by ID with optional preloading
func (r *GormNotificationRepository) FindByID(id uint64, preload ...string) (*models.Notification, error) {
	var n models.Notification
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// FindPending finds a PENDING notification for (recipient, board, type).
// This is the de-duplication probe that keeps repeated invites and join
// requests from piling up.
func (r *GormNotificationRepository) FindPending(userID, boardID uint64, kind models.NotificationType) (*models.Notification, error) {
	var n models.Notification
	err := r.db.
		Where("user_id = ? AND board_id = ? AND type = ? AND status = ?",
			userID, boardID, kind, models.StatusPending).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByUserID lists notifications for a recipient, newest first
func (r *GormNotificationRepository) ListByUserID(userID uint64, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	query := r.db.
		Preload("Sender").
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// Update updates a notification
func (r *GormNotificationRepository) Update(n *models.Notification) error {
	return r.db.Save(n).Error
}
