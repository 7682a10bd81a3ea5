package models

import (
	"time"
)

// Column is an ordered bucket of cards within a board. Every id in
// CardOrderIDs references a card whose ColumnID equals this column.
type Column struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	BoardID      uint64    `gorm:"not null;index" json:"board_id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	CardOrderIDs IDList    `gorm:"type:json" json:"card_order_ids"`
	IsClosed     bool      `gorm:"not null;default:false" json:"is_closed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Board Board  `gorm:"foreignKey:BoardID" json:"board,omitempty"`
	Cards []Card `gorm:"foreignKey:ColumnID" json:"cards,omitempty"`
}
