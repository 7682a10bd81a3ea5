package models

import (
	"time"
)

// Label is owned per-board; cards reference label ids only. A card moved or
// copied across board boundaries gets fresh labels cloned under the
// destination board rather than references into the source board.
type Label struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	BoardID   uint64    `gorm:"not null;index" json:"board_id"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Color     string    `gorm:"type:varchar(50);not null" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
