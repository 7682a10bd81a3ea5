package dto

import (
	"time"

	"github.com/hikarukin/taskboard-api/internal/models"
)

// CardDTO represents a card in API responses. Embedded sub-documents keep
// their model shape since they are already pure JSON values.
type CardDTO struct {
	ID          uint64             `json:"id"`
	BoardID     uint64             `json:"board_id"`
	ColumnID    uint64             `json:"column_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Location    string             `json:"location,omitempty"`
	CoverURL    string             `json:"cover_url,omitempty"`
	MemberIDs   []uint64           `json:"member_ids"`
	LabelIDs    []uint64           `json:"label_ids"`
	Checklists  models.Checklists  `json:"checklists"`
	Attachments models.Attachments `json:"attachments"`
	Comments    []CommentDTO       `json:"comments"`
	Due         models.CardDue     `json:"due"`
	IsClosed    bool               `json:"is_closed"`
	IsCompleted bool               `json:"is_completed"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CommentDTO represents a card comment in API responses
type CommentDTO struct {
	ID        string    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCommentDTO converts a Comment sub-document to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		UserID:    comment.UserID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// ToCardDTO converts a Card model to CardDTO
func ToCardDTO(card models.Card) CardDTO {
	comments := make([]CommentDTO, len(card.Comments))
	for i, comment := range card.Comments {
		comments[i] = ToCommentDTO(comment)
	}

	return CardDTO{
		ID:          card.ID,
		BoardID:     card.BoardID,
		ColumnID:    card.ColumnID,
		Title:       card.Title,
		Description: card.Description,
		Location:    card.Location,
		CoverURL:    card.CoverURL,
		MemberIDs:   card.MemberIDs,
		LabelIDs:    card.LabelIDs,
		Checklists:  card.Checklists,
		Attachments: card.Attachments,
		Comments:    comments,
		Due:         card.Due,
		IsClosed:    card.IsClosed,
		IsCompleted: card.IsCompleted,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
}
