package dto

import (
	"time"

	"github.com/hikarukin/taskboard-api/internal/models"
)

// ActivityDTO represents an activity record in API responses
type ActivityDTO struct {
	ID        uint64              `json:"id"`
	BoardID   uint64              `json:"board_id"`
	ColumnID  *uint64             `json:"column_id,omitempty"`
	CardID    *uint64             `json:"card_id,omitempty"`
	UserID    uint64              `json:"user_id"`
	Type      models.ActivityType `json:"type"`
	Data      models.JSONMap      `json:"data"`
	CreatedAt time.Time           `json:"created_at"`
	User      *UserDTO            `json:"user,omitempty"`
}

// ToActivityDTO converts an ActivityRecord model to ActivityDTO
func ToActivityDTO(record models.ActivityRecord) ActivityDTO {
	dto := ActivityDTO{
		ID:        record.ID,
		BoardID:   record.BoardID,
		ColumnID:  record.ColumnID,
		CardID:    record.CardID,
		UserID:    record.UserID,
		Type:      record.Type,
		Data:      record.Data,
		CreatedAt: record.CreatedAt,
	}

	// Include actor if preloaded
	if record.User.ID != 0 {
		user := ToUserDTO(record.User)
		dto.User = &user
	}

	return dto
}

// ActivityListResponse represents a paginated activity feed
type ActivityListResponse struct {
	Activities []ActivityDTO `json:"activities"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}
