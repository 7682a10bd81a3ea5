package dto

import (
	"time"

	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// LabelDTO represents a label in API responses
type LabelDTO struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

// BoardDTO represents a board in API responses
type BoardDTO struct {
	ID             uint64           `json:"id"`
	Title          string           `json:"title"`
	Slug           string           `json:"slug"`
	Type           models.BoardType `json:"type"`
	OwnerIDs       []uint64         `json:"owner_ids"`
	MemberIDs      []uint64         `json:"member_ids"`
	ColumnOrderIDs []uint64         `json:"column_order_ids"`
	IsClosed       bool             `json:"is_closed"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Labels         []LabelDTO       `json:"labels,omitempty"`
}

// ColumnDTO represents a column in API responses
type ColumnDTO struct {
	ID           uint64    `json:"id"`
	BoardID      uint64    `json:"board_id"`
	Title        string    `json:"title"`
	CardOrderIDs []uint64  `json:"card_order_ids"`
	IsClosed     bool      `json:"is_closed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BoardDetailsDTO is the full board view: the board plus its columns, cards
// and every referenced user.
type BoardDetailsDTO struct {
	Board   BoardDTO    `json:"board"`
	Columns []ColumnDTO `json:"columns"`
	Cards   []CardDTO   `json:"cards"`
	Users   []UserDTO   `json:"users"`
}

// BoardListResponse represents the boards visible to a user
type BoardListResponse struct {
	Boards []BoardDTO `json:"boards"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}

// ToLabelDTO converts a Label model to LabelDTO
func ToLabelDTO(label models.Label) LabelDTO {
	return LabelDTO{
		ID:    label.ID,
		Title: label.Title,
		Color: label.Color,
	}
}

// ToBoardDTO converts a Board model to BoardDTO
func ToBoardDTO(board models.Board) BoardDTO {
	dto := BoardDTO{
		ID:             board.ID,
		Title:          board.Title,
		Slug:           board.Slug,
		Type:           board.Type,
		OwnerIDs:       board.OwnerIDs,
		MemberIDs:      board.MemberIDs,
		ColumnOrderIDs: board.ColumnOrderIDs,
		IsClosed:       board.IsClosed,
		CreatedAt:      board.CreatedAt,
		UpdatedAt:      board.UpdatedAt,
	}

	if len(board.Labels) > 0 {
		dto.Labels = make([]LabelDTO, len(board.Labels))
		for i, label := range board.Labels {
			dto.Labels[i] = ToLabelDTO(label)
		}
	}

	return dto
}

// ToColumnDTO converts a Column model to ColumnDTO
func ToColumnDTO(column models.Column) ColumnDTO {
	return ColumnDTO{
		ID:           column.ID,
		BoardID:      column.BoardID,
		Title:        column.Title,
		CardOrderIDs: column.CardOrderIDs,
		IsClosed:     column.IsClosed,
		CreatedAt:    column.CreatedAt,
		UpdatedAt:    column.UpdatedAt,
	}
}

// ToBoardDetailsDTO converts the service-level details into the response shape
func ToBoardDetailsDTO(details *services.BoardDetails) BoardDetailsDTO {
	dto := BoardDetailsDTO{
		Board:   ToBoardDTO(*details.Board),
		Columns: make([]ColumnDTO, len(details.Columns)),
		Cards:   make([]CardDTO, len(details.Cards)),
		Users:   make([]UserDTO, len(details.Users)),
	}

	for i, column := range details.Columns {
		dto.Columns[i] = ToColumnDTO(column)
	}
	for i, card := range details.Cards {
		dto.Cards[i] = ToCardDTO(card)
	}
	for i, user := range details.Users {
		dto.Users[i] = ToUserDTO(user)
	}

	return dto
}
