package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrColumnNotFound      = errors.New("column not found")
	ErrColumnTitleRequired = errors.New("column title is required")
	ErrColumnBoardMismatch = errors.New("column does not belong to the board")
)

// ColumnService provides business logic for columns, including the
// column-level half of the transfer engine.
type ColumnService struct {
	db         *gorm.DB
	columnRepo repository.ColumnRepository
	boardRepo  repository.BoardRepository
}

// NewColumnService creates a new ColumnService.
func NewColumnService(db *gorm.DB, columnRepo repository.ColumnRepository, boardRepo repository.BoardRepository) *ColumnService {
	return &ColumnService{
		db:         db,
		columnRepo: columnRepo,
		boardRepo:  boardRepo,
	}
}

// CreateColumn creates a column and appends it to the board's column order.
func (s *ColumnService) CreateColumn(boardID, actorID uint64, title string) (*models.Column, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrColumnTitleRequired
	}

	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	column := &models.Column{
		BoardID:      boardID,
		Title:        title,
		CardOrderIDs: models.IDList{},
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewColumnRepository(tx).Create(column); err != nil {
			return fmt.Errorf("failed to create column: %w", err)
		}

		board.ColumnOrderIDs = board.ColumnOrderIDs.Append(column.ID)
		if err := repository.NewBoardRepository(tx).Update(board); err != nil {
			return fmt.Errorf("failed to update board order: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID:  boardID,
			ColumnID: &column.ID,
			UserID:   actorID,
			Type:     models.ActivityCreateColumn,
			Data:     models.JSONMap{"columnTitle": column.Title},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return column, nil
}

// RenameColumn updates a column's title.
func (s *ColumnService) RenameColumn(columnID, actorID uint64, title string) (*models.Column, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrColumnTitleRequired
	}

	column, board, err := s.findColumnWithBoard(columnID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	previous := column.Title
	column.Title = title

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewColumnRepository(tx).Update(column); err != nil {
			return fmt.Errorf("failed to update column: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID:  board.ID,
			ColumnID: &column.ID,
			UserID:   actorID,
			Type:     models.ActivityRenameColumn,
			Data:     models.JSONMap{"columnTitle": column.Title, "previousTitle": previous},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return column, nil
}

// SetColumnClosed closes or reopens a column.
func (s *ColumnService) SetColumnClosed(columnID, actorID uint64, closed bool) (*models.Column, error) {
	column, board, err := s.findColumnWithBoard(columnID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	column.IsClosed = closed

	kind := models.ActivityCloseColumn
	if !closed {
		kind = models.ActivityReopenColumn
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewColumnRepository(tx).Update(column); err != nil {
			return fmt.Errorf("failed to update column: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID:  board.ID,
			ColumnID: &column.ID,
			UserID:   actorID,
			Type:     kind,
			Data:     models.JSONMap{"columnTitle": column.Title},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return column, nil
}

// DeleteColumn hard-deletes a column with its cards and removes it from the
// board's column order.
func (s *ColumnService) DeleteColumn(columnID, actorID uint64) error {
	column, board, err := s.findColumnWithBoard(columnID)
	if err != nil {
		return err
	}
	if !board.IsMemberOrOwner(actorID) {
		return ErrNotBoardMember
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCardRepository(tx).DeleteByColumnID(columnID); err != nil {
			return fmt.Errorf("failed to delete column cards: %w", err)
		}

		if err := repository.NewColumnRepository(tx).Delete(columnID); err != nil {
			return fmt.Errorf("failed to delete column: %w", err)
		}

		board.ColumnOrderIDs = board.ColumnOrderIDs.Remove(columnID)
		if err := repository.NewBoardRepository(tx).Update(board); err != nil {
			return fmt.Errorf("failed to update board order: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: board.ID,
			UserID:  actorID,
			Type:    models.ActivityDeleteColumn,
			Data:    models.JSONMap{"columnTitle": column.Title},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
}

// ReplaceColumnOrder overwrites a board's column order with the submitted
// list. The list is trusted as-is; no permutation check against current
// children is performed.
func (s *ColumnService) ReplaceColumnOrder(boardID, actorID uint64, order []uint64) (*models.Board, error) {
	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	board.ColumnOrderIDs = models.IDList(order)
	if err := s.boardRepo.Update(board); err != nil {
		return nil, fmt.Errorf("failed to update board order: %w", err)
	}

	return board, nil
}

// ReplaceCardOrder overwrites a column's card order with the submitted list.
// Same trust-the-caller policy as ReplaceColumnOrder.
func (s *ColumnService) ReplaceCardOrder(columnID, actorID uint64, order []uint64) (*models.Column, error) {
	column, board, err := s.findColumnWithBoard(columnID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	column.CardOrderIDs = models.IDList(order)
	if err := s.columnRepo.Update(column); err != nil {
		return nil, fmt.Errorf("failed to update card order: %w", err)
	}

	return column, nil
}

// MoveColumnInput represents a column relocation, possibly across boards.
type MoveColumnInput struct {
	ColumnID    uint64
	DestBoardID uint64
	Position    int
	ActorID     uint64
}

// MoveColumn relocates a column. All reads happen before any write, so a
// missing destination aborts the whole operation untouched.
func (s *ColumnService) MoveColumn(input MoveColumnInput) (*models.Column, error) {
	column, srcBoard, err := s.findColumnWithBoard(input.ColumnID)
	if err != nil {
		return nil, err
	}

	if !srcBoard.IsMemberOrOwner(input.ActorID) {
		return nil, ErrNotBoardMember
	}

	if srcBoard.ID == input.DestBoardID {
		// Same-board relocation is a plain order-list splice.
		srcBoard.ColumnOrderIDs = srcBoard.ColumnOrderIDs.InsertAt(column.ID, input.Position)
		if err := s.boardRepo.Update(srcBoard); err != nil {
			return nil, fmt.Errorf("failed to update board order: %w", err)
		}
		return column, nil
	}

	dstBoard, err := s.findBoard(input.DestBoardID)
	if err != nil {
		return nil, err
	}
	if !dstBoard.IsMemberOrOwner(input.ActorID) {
		return nil, ErrNotBoardMember
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return moveColumnTx(tx, input.ActorID, column, srcBoard, dstBoard, input.Position)
	})
	if err != nil {
		return nil, err
	}

	return column, nil
}

// CopyColumnInput represents a column duplication.
type CopyColumnInput struct {
	ColumnID    uint64
	DestBoardID uint64
	Position    int
	ActorID     uint64
}

// CopyColumn duplicates a column with its cards. Direct column copies keep
// members and comments; board duplication passes a template set instead.
func (s *ColumnService) CopyColumn(input CopyColumnInput) (*models.Column, error) {
	column, srcBoard, err := s.findColumnWithBoard(input.ColumnID)
	if err != nil {
		return nil, err
	}

	if !srcBoard.IsMemberOrOwner(input.ActorID) {
		return nil, ErrNotBoardMember
	}

	dstBoard := srcBoard
	if input.DestBoardID != srcBoard.ID {
		dstBoard, err = s.findBoard(input.DestBoardID)
		if err != nil {
			return nil, err
		}
		if !dstBoard.IsMemberOrOwner(input.ActorID) {
			return nil, ErrNotBoardMember
		}
	}

	var copied *models.Column
	err = s.db.Transaction(func(tx *gorm.DB) error {
		copied, err = copyColumnTx(tx, input.ActorID, column, srcBoard, dstBoard, input.Position, AllCopyItems(), true)
		return err
	})
	if err != nil {
		return nil, err
	}

	return copied, nil
}

func (s *ColumnService) findBoard(boardID uint64) (*models.Board, error) {
	board, err := s.boardRepo.FindByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	return board, nil
}

func (s *ColumnService) findColumnWithBoard(columnID uint64) (*models.Column, *models.Board, error) {
	column, err := s.columnRepo.FindByID(columnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrColumnNotFound
		}
		return nil, nil, fmt.Errorf("failed to find column: %w", err)
	}

	board, err := s.findBoard(column.BoardID)
	if err != nil {
		return nil, nil, err
	}

	return column, board, nil
}
