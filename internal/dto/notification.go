package dto

import (
	"time"

	"github.com/hikarukin/taskboard-api/internal/models"
)

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        uint64                    `json:"id"`
	UserID    uint64                    `json:"user_id"`
	SenderID  uint64                    `json:"sender_id"`
	BoardID   *uint64                   `json:"board_id,omitempty"`
	CardID    *uint64                   `json:"card_id,omitempty"`
	Type      models.NotificationType   `json:"type"`
	Status    models.NotificationStatus `json:"status,omitempty"`
	Details   models.JSONMap            `json:"details"`
	Read      bool                      `json:"read"`
	CreatedAt time.Time                 `json:"created_at"`
	Sender    *UserDTO                  `json:"sender,omitempty"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(n models.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:        n.ID,
		UserID:    n.UserID,
		SenderID:  n.SenderID,
		BoardID:   n.BoardID,
		CardID:    n.CardID,
		Type:      n.Type,
		Status:    n.Status,
		Details:   n.Details,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}

	// Include sender if preloaded
	if n.Sender.ID != 0 {
		sender := ToUserDTO(n.Sender)
		dto.Sender = &sender
	}

	return dto
}

// NotificationListResponse represents a recipient's notifications
type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
}
