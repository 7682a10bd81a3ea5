package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCardNotFound          = errors.New("card not found")
	ErrCardTitleRequired     = errors.New("card title is required")
	ErrCardNotInColumn       = errors.New("card does not belong to the source column")
	ErrCommentNotFound       = errors.New("comment not found")
	ErrNotCommentAuthor      = errors.New("only the comment author can perform this action")
	ErrChecklistNotFound     = errors.New("checklist not found")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
	ErrAttachmentNotFound    = errors.New("attachment not found")
	ErrInvalidAction         = errors.New("invalid action")
	ErrAlreadyCardMember     = errors.New("user is already a member of the card")
	ErrCardMemberNotFound    = errors.New("user is not a member of the card")
)

// CardService provides business logic for cards, including the card-level
// half of the transfer engine.
type CardService struct {
	db         *gorm.DB
	cardRepo   repository.CardRepository
	columnRepo repository.ColumnRepository
	boardRepo  repository.BoardRepository
	activities *ActivityService
}

// NewCardService creates a new CardService.
func NewCardService(db *gorm.DB, cardRepo repository.CardRepository, columnRepo repository.ColumnRepository, boardRepo repository.BoardRepository, activities *ActivityService) *CardService {
	return &CardService{
		db:         db,
		cardRepo:   cardRepo,
		columnRepo: columnRepo,
		boardRepo:  boardRepo,
		activities: activities,
	}
}

// CreateCardInput represents parameters to create a new card.
type CreateCardInput struct {
	ColumnID uint64
	Title    string
	ActorID  uint64
}

// CreateCard creates a card at the end of its column's order list.
func (s *CardService) CreateCard(input CreateCardInput) (*models.Card, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrCardTitleRequired
	}

	column, board, err := s.findColumnWithBoard(input.ColumnID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(input.ActorID) {
		return nil, ErrNotBoardMember
	}

	card := &models.Card{
		BoardID:     board.ID,
		ColumnID:    column.ID,
		Title:       input.Title,
		MemberIDs:   models.IDList{},
		LabelIDs:    models.IDList{},
		Checklists:  models.Checklists{},
		Attachments: models.Attachments{},
		Comments:    models.Comments{},
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCardRepository(tx).Create(card); err != nil {
			return fmt.Errorf("failed to create card: %w", err)
		}

		column.CardOrderIDs = column.CardOrderIDs.Append(card.ID)
		if err := repository.NewColumnRepository(tx).Update(column); err != nil {
			return fmt.Errorf("failed to update column order: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID:  board.ID,
			ColumnID: &column.ID,
			CardID:   &card.ID,
			UserID:   input.ActorID,
			Type:     models.ActivityCreateCard,
			Data:     models.JSONMap{"cardTitle": card.Title, "columnTitle": column.Title},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

// GetCard loads a card the actor is allowed to see: board members always,
// anyone on public boards. Private boards report not-found to outsiders.
func (s *CardService) GetCard(cardID, actorID uint64) (*models.Card, error) {
	card, board, err := s.findCardWithBoard(cardID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) && board.Type != models.BoardTypePublic {
		return nil, ErrCardNotFound
	}
	return card, nil
}

// UpdateCardInput represents optional plain-field updates on a card.
type UpdateCardInput struct {
	Title       *string
	Description *string
	Location    *string
	CoverURL    *string
	Due         *models.CardDue
	IsClosed    *bool
	IsCompleted *bool
}

// UpdateCard updates a card's plain fields.
func (s *CardService) UpdateCard(cardID, actorID uint64, input UpdateCardInput) (*models.Card, error) {
	card, board, err := s.findCardWithBoard(cardID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	var activityKinds []models.ActivityType

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrCardTitleRequired
		}
		card.Title = *input.Title
		activityKinds = append(activityKinds, models.ActivityUpdateCard)
	}
	if input.Description != nil {
		card.Description = *input.Description
	}
	if input.Location != nil {
		card.Location = *input.Location
	}
	if input.CoverURL != nil {
		card.CoverURL = *input.CoverURL
		activityKinds = append(activityKinds, models.ActivityUpdateCardCover)
	}
	if input.Due != nil {
		card.Due = *input.Due
		activityKinds = append(activityKinds, models.ActivityUpdateCardDue)
	}
	if input.IsClosed != nil && *input.IsClosed != card.IsClosed {
		card.IsClosed = *input.IsClosed
		if card.IsClosed {
			activityKinds = append(activityKinds, models.ActivityCloseCard)
		} else {
			activityKinds = append(activityKinds, models.ActivityReopenCard)
		}
	}
	if input.IsCompleted != nil && *input.IsCompleted != card.IsCompleted {
		card.IsCompleted = *input.IsCompleted
		if card.IsCompleted {
			activityKinds = append(activityKinds, models.ActivityCompleteCard)
		} else {
			activityKinds = append(activityKinds, models.ActivityUncompleteCard)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCardRepository(tx).Update(card); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}

		activityRepo := repository.NewActivityRepository(tx)
		for _, kind := range activityKinds {
			record := &models.ActivityRecord{
				BoardID: board.ID,
				CardID:  &card.ID,
				UserID:  actorID,
				Type:    kind,
				Data:    models.JSONMap{"cardTitle": card.Title},
			}
			if err := activityRepo.Create(record); err != nil {
				return fmt.Errorf("failed to append activity: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

// DeleteCard hard-deletes a card and removes it from its column's order.
func (s *CardService) DeleteCard(cardID, actorID uint64) error {
	card, board, err := s.findCardWithBoard(cardID)
	if err != nil {
		return err
	}
	if !board.IsMemberOrOwner(actorID) {
		return ErrNotBoardMember
	}

	column, err := s.columnRepo.FindByID(card.ColumnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrColumnNotFound
		}
		return fmt.Errorf("failed to find column: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		column.CardOrderIDs = column.CardOrderIDs.Remove(card.ID)
		if err := repository.NewColumnRepository(tx).Update(column); err != nil {
			return fmt.Errorf("failed to update column order: %w", err)
		}

		if err := repository.NewCardRepository(tx).Delete(card.ID); err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: board.ID,
			UserID:  actorID,
			Type:    models.ActivityDeleteCard,
			Data:    models.JSONMap{"cardTitle": card.Title},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
}

// MoveCardInput represents a card relocation, possibly across boards.
type MoveCardInput struct {
	CardID         uint64
	SourceColumnID uint64
	DestColumnID   uint64
	Position       int
	ActorID        uint64
}

// MoveCard relocates a card. All five referenced records are loaded up
// front, so a missing destination aborts before any write. The order-list
// splices, the card rewrite, and the audit records commit atomically.
func (s *CardService) MoveCard(input MoveCardInput) (*models.Card, error) {
	card, err := s.findCard(input.CardID)
	if err != nil {
		return nil, err
	}

	srcColumn, srcBoard, err := s.findColumnWithBoard(input.SourceColumnID)
	if err != nil {
		return nil, err
	}
	if card.ColumnID != srcColumn.ID {
		return nil, ErrCardNotInColumn
	}

	dstColumn := srcColumn
	dstBoard := srcBoard
	if input.DestColumnID != input.SourceColumnID {
		dstColumn, dstBoard, err = s.findColumnWithBoard(input.DestColumnID)
		if err != nil {
			return nil, err
		}
	}

	if !srcBoard.IsMemberOrOwner(input.ActorID) || !dstBoard.IsMemberOrOwner(input.ActorID) {
		return nil, ErrNotBoardMember
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return moveCardTx(tx, input.ActorID, card, srcBoard, dstBoard, srcColumn, dstColumn, input.Position)
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

// CopyCardInput represents a card duplication.
type CopyCardInput struct {
	CardID       uint64
	DestColumnID uint64
	Position     int
	Title        string
	KeepItems    []string
	ActorID      uint64
}

// CopyCard duplicates a card into the destination column, carrying only the
// fields named in KeepItems.
func (s *CardService) CopyCard(input CopyCardInput) (*models.Card, error) {
	keep, err := NewCopyItems(input.KeepItems)
	if err != nil {
		return nil, err
	}

	card, srcBoard, err := s.findCardWithBoard(input.CardID)
	if err != nil {
		return nil, err
	}

	dstColumn, dstBoard, err := s.findColumnWithBoard(input.DestColumnID)
	if err != nil {
		return nil, err
	}

	if !srcBoard.IsMemberOrOwner(input.ActorID) || !dstBoard.IsMemberOrOwner(input.ActorID) {
		return nil, ErrNotBoardMember
	}

	var copied *models.Card
	err = s.db.Transaction(func(tx *gorm.DB) error {
		copied, err = copyCardTx(tx, input.ActorID, card, srcBoard, dstBoard, dstColumn, input.Position, input.Title, keep, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	return copied, nil
}

// AddComment appends a comment to a card and records it in the audit trail.
func (s *CardService) AddComment(cardID, actorID uint64, text string) (*models.Comment, error) {
	card, board, err := s.findCardWithBoard(cardID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	now := time.Now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    actorID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	card.Comments = append(card.Comments, comment)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCardRepository(tx).Update(card); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: board.ID,
			CardID:  &card.ID,
			UserID:  actorID,
			Type:    models.ActivityAddEditComment,
			Data: models.JSONMap{
				"cardTitle": card.Title,
				"commentId": comment.ID,
				"text":      comment.Text,
			},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// EditComment rewrites a comment's text. Author-only.
func (s *CardService) EditComment(cardID, actorID uint64, commentID, text string) (*models.Comment, error) {
	card, board, err := s.findCardWithBoard(cardID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, c := range card.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCommentNotFound
	}
	if card.Comments[idx].UserID != actorID {
		return nil, ErrNotCommentAuthor
	}

	card.Comments[idx].Text = text
	card.Comments[idx].UpdatedAt = time.Now()
	edited := card.Comments[idx]

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCardRepository(tx).Update(card); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: board.ID,
			CardID:  &card.ID,
			UserID:  actorID,
			Type:    models.ActivityAddEditComment,
			Data: models.JSONMap{
				"cardTitle": card.Title,
				"commentId": edited.ID,
				"text":      edited.Text,
				"edited":    true,
			},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &edited, nil
}

// DeleteComment removes a comment and the matching addEditComment activity
// records, the audit trail's only deletion path. Author-only.
func (s *CardService) DeleteComment(cardID, actorID uint64, commentID string) error {
	card, _, err := s.findCardWithBoard(cardID)
	if err != nil {
		return err
	}

	idx := -1
	for i, c := range card.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrCommentNotFound
	}
	if card.Comments[idx].UserID != actorID {
		return ErrNotCommentAuthor
	}

	card.Comments = append(card.Comments[:idx], card.Comments[idx+1:]...)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCardRepository(tx).Update(card); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}

		activityRepo := repository.NewActivityRepository(tx)
		records, err := activityRepo.FindCommentRecords(card.ID)
		if err != nil {
			return fmt.Errorf("failed to load comment activities: %w", err)
		}
		for _, record := range records {
			if id, ok := record.Data.String("commentId"); ok && id == commentID {
				if err := activityRepo.Delete(record.ID); err != nil {
					return fmt.Errorf("failed to delete comment activity: %w", err)
				}
			}
		}
		return nil
	})
}

func (s *CardService) findCard(cardID uint64) (*models.Card, error) {
	card, err := s.cardRepo.FindByID(cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return card, nil
}

func (s *CardService) findCardWithBoard(cardID uint64) (*models.Card, *models.Board, error) {
	card, err := s.findCard(cardID)
	if err != nil {
		return nil, nil, err
	}

	board, err := s.boardRepo.FindByID(card.BoardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBoardNotFound
		}
		return nil, nil, fmt.Errorf("failed to find board: %w", err)
	}

	return card, board, nil
}

func (s *CardService) findColumnWithBoard(columnID uint64) (*models.Column, *models.Board, error) {
	column, err := s.columnRepo.FindByID(columnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrColumnNotFound
		}
		return nil, nil, fmt.Errorf("failed to find column: %w", err)
	}

	board, err := s.boardRepo.FindByID(column.BoardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBoardNotFound
		}
		return nil, nil, fmt.Errorf("failed to find board: %w", err)
	}

	return column, board, nil
}
