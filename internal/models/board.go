package models

import (
	"time"
)

type BoardType string

const (
	BoardTypePublic  BoardType = "public"
	BoardTypePrivate BoardType = "private"
)

// Board is the top-level collaboration container. Owner, member, and column
// order lists are embedded JSON columns, so a membership or reorder change is
// a single-row write.
//
// OwnerIDs and MemberIDs are disjoint: promoting a member moves the id from
// one list to the other.
type Board struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Title          string    `gorm:"type:varchar(255);not null" json:"title"`
	Slug           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Type           BoardType `gorm:"type:varchar(20);not null;default:'private'" json:"type"`
	OwnerIDs       IDList    `gorm:"type:json" json:"owner_ids"`
	MemberIDs      IDList    `gorm:"type:json" json:"member_ids"`
	ColumnOrderIDs IDList    `gorm:"type:json" json:"column_order_ids"`
	IsClosed       bool      `gorm:"not null;default:false" json:"is_closed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Columns []Column `gorm:"foreignKey:BoardID" json:"columns,omitempty"`
	Labels  []Label  `gorm:"foreignKey:BoardID" json:"labels,omitempty"`
}

// IsOwner reports whether userID owns the board.
func (b *Board) IsOwner(userID uint64) bool {
	return b.OwnerIDs.Contains(userID)
}

// IsMemberOrOwner reports whether userID can access the board.
func (b *Board) IsMemberOrOwner(userID uint64) bool {
	return b.OwnerIDs.Contains(userID) || b.MemberIDs.Contains(userID)
}
