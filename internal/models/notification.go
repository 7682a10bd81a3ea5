package models

import (
	"time"
)

type NotificationType string

const (
	NotificationBoardInvitation NotificationType = "boardInvitation"
	NotificationRequestToJoin   NotificationType = "requestToJoinBoard"
	NotificationMention         NotificationType = "mention"
	NotificationAssignment      NotificationType = "assignment"
	NotificationDueSoon         NotificationType = "dueSoon"
)

type NotificationStatus string

const (
	StatusPending  NotificationStatus = "PENDING"
	StatusAccepted NotificationStatus = "ACCEPTED"
	StatusRejected NotificationStatus = "REJECTED"
)

// Notification carries both plain alerts (mention, assignment, due soon) and
// the stateful invitation/join-request records. Status is meaningful only for
// the invite/request kinds and moves PENDING -> ACCEPTED | REJECTED, both
// terminal.
type Notification struct {
	ID        uint64             `gorm:"primarykey" json:"id"`
	UserID    uint64             `gorm:"not null;index" json:"user_id"`
	SenderID  uint64             `gorm:"not null" json:"sender_id"`
	BoardID   *uint64            `gorm:"index" json:"board_id,omitempty"`
	CardID    *uint64            `gorm:"index" json:"card_id,omitempty"`
	Type      NotificationType   `gorm:"type:varchar(40);not null" json:"type"`
	Status    NotificationStatus `gorm:"type:varchar(20)" json:"status,omitempty"`
	Details   JSONMap            `gorm:"type:json" json:"details"`
	Read      bool               `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	// Relations
	User   User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// IsMembershipKind reports whether the notification participates in the
// PENDING/ACCEPTED/REJECTED lifecycle.
func (n *Notification) IsMembershipKind() bool {
	return n.Type == NotificationBoardInvitation || n.Type == NotificationRequestToJoin
}
