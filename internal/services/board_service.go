package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/repository"
	"github.com/hikarukin/taskboard-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrBoardNotFound        = errors.New("board not found")
	ErrBoardTitleRequired   = errors.New("board title is required")
	ErrNotBoardOwner        = errors.New("only board owners can perform this action")
	ErrNotBoardMember       = errors.New("user is not a member of the board")
	ErrAlreadyBoardMember   = errors.New("user is already a member of the board")
	ErrCannotRemoveOwner    = errors.New("owners cannot be removed as members")
	ErrLastBoardOwner       = errors.New("a board must keep at least one owner")
	ErrLabelNotFound        = errors.New("label not found")
	ErrBoardMemberNotFound  = errors.New("user is not part of the board")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidBoardType     = errors.New("board type must be public or private")
)

// BoardService provides business logic for boards, their membership, and
// their labels.
type BoardService struct {
	db        *gorm.DB
	boardRepo repository.BoardRepository
	userRepo  repository.UserRepository
}

// NewBoardService creates a new BoardService.
func NewBoardService(db *gorm.DB, boardRepo repository.BoardRepository, userRepo repository.UserRepository) *BoardService {
	return &BoardService{
		db:        db,
		boardRepo: boardRepo,
		userRepo:  userRepo,
	}
}

// CreateBoardInput represents parameters to create a new board.
type CreateBoardInput struct {
	Title   string
	Type    models.BoardType
	ActorID uint64
}

// CreateBoard creates a board with the actor as its sole owner.
func (s *BoardService) CreateBoard(input CreateBoardInput) (*models.Board, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrBoardTitleRequired
	}
	if input.Type == "" {
		input.Type = models.BoardTypePrivate
	}
	if input.Type != models.BoardTypePublic && input.Type != models.BoardTypePrivate {
		return nil, ErrInvalidBoardType
	}

	slug, err := utils.GenerateSlug(input.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	board := &models.Board{
		Title:          input.Title,
		Slug:           slug,
		Type:           input.Type,
		OwnerIDs:       models.IDList{input.ActorID},
		MemberIDs:      models.IDList{},
		ColumnOrderIDs: models.IDList{},
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBoardRepository(tx).Create(board); err != nil {
			return fmt.Errorf("failed to create board: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: board.ID,
			UserID:  input.ActorID,
			Type:    models.ActivityCreateBoard,
			Data:    models.JSONMap{"boardTitle": board.Title},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return board, nil
}

// BoardDetails aggregates a board with its ordered columns, their cards, and
// the member users.
type BoardDetails struct {
	Board   *models.Board
	Columns []models.Column
	Cards   []models.Card
	Users   []models.User
}

// GetBoardDetails loads the full board view: board, columns and cards in
// order-list order, and every referenced user.
func (s *BoardService) GetBoardDetails(boardID uint64) (*BoardDetails, error) {
	board, err := s.boardRepo.FindByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	columns, err := repository.NewColumnRepository(s.db).FindByBoardID(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}

	cards, err := repository.NewCardRepository(s.db).FindByBoardID(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}

	users, err := s.userRepo.FindByIDs(board.OwnerIDs.Union(board.MemberIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load board users: %w", err)
	}

	return &BoardDetails{
		Board:   board,
		Columns: columnsInOrder(board.ColumnOrderIDs, columns),
		Cards:   cards,
		Users:   users,
	}, nil
}

// ListBoardsForUser returns boards the user owns or is a member of.
func (s *BoardService) ListBoardsForUser(userID uint64) ([]models.Board, error) {
	boards, err := s.boardRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// UpdateBoardInput represents optional field updates on a board.
type UpdateBoardInput struct {
	Title *string
	Type  *models.BoardType
}

// UpdateBoard updates board title/type.
func (s *BoardService) UpdateBoard(boardID, actorID uint64, input UpdateBoardInput) (*models.Board, error) {
	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, err
	}

	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	changed := models.JSONMap{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrBoardTitleRequired
		}
		changed["previousTitle"] = board.Title
		board.Title = *input.Title
	}
	if input.Type != nil {
		if *input.Type != models.BoardTypePublic && *input.Type != models.BoardTypePrivate {
			return nil, ErrInvalidBoardType
		}
		board.Type = *input.Type
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBoardRepository(tx).Update(board); err != nil {
			return fmt.Errorf("failed to update board: %w", err)
		}

		changed["boardTitle"] = board.Title
		record := &models.ActivityRecord{
			BoardID: board.ID,
			UserID:  actorID,
			Type:    models.ActivityUpdateBoard,
			Data:    changed,
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return board, nil
}

// SetBoardClosed closes or reopens a board. Owner-only.
func (s *BoardService) SetBoardClosed(boardID, actorID uint64, closed bool) (*models.Board, error) {
	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, err
	}

	if !board.IsOwner(actorID) {
		return nil, ErrNotBoardOwner
	}

	board.IsClosed = closed

	kind := models.ActivityCloseBoard
	if !closed {
		kind = models.ActivityReopenBoard
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBoardRepository(tx).Update(board); err != nil {
			return fmt.Errorf("failed to update board: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: board.ID,
			UserID:  actorID,
			Type:    kind,
			Data:    models.JSONMap{"boardTitle": board.Title},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return board, nil
}

// DeleteBoard hard-deletes a board and everything it owns. Owner-only.
func (s *BoardService) DeleteBoard(boardID, actorID uint64) error {
	board, err := s.findBoard(boardID)
	if err != nil {
		return err
	}

	if !board.IsOwner(actorID) {
		return ErrNotBoardOwner
	}

	if err := s.boardRepo.Delete(boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	return nil
}

// AddMember adds a user to the board directly, bypassing the invitation flow.
// Owner-only.
func (s *BoardService) AddMember(boardID, actorID, targetID uint64) (*models.Board, error) {
	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, err
	}

	if !board.IsOwner(actorID) {
		return nil, ErrNotBoardOwner
	}
	if board.IsMemberOrOwner(targetID) {
		return nil, ErrAlreadyBoardMember
	}

	if _, err := s.userRepo.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	board.MemberIDs = board.MemberIDs.Append(targetID)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBoardRepository(tx).Update(board); err != nil {
			return fmt.Errorf("failed to update board: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: board.ID,
			UserID:  actorID,
			Type:    models.ActivityAddBoardMember,
			Data:    models.JSONMap{"memberId": targetID},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return board, nil
}

// RemoveMember removes a member from the board. Owner-only. Owners must be
// demoted before they can be removed.
func (s *BoardService) RemoveMember(boardID, actorID, targetID uint64) (*models.Board, error) {
	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, err
	}

	if !board.IsOwner(actorID) {
		return nil, ErrNotBoardOwner
	}
	if board.OwnerIDs.Contains(targetID) {
		return nil, ErrCannotRemoveOwner
	}
	if !board.MemberIDs.Contains(targetID) {
		return nil, ErrBoardMemberNotFound
	}

	board.MemberIDs = board.MemberIDs.Remove(targetID)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBoardRepository(tx).Update(board); err != nil {
			return fmt.Errorf("failed to update board: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: board.ID,
			UserID:  actorID,
			Type:    models.ActivityRemoveBoardMember,
			Data:    models.JSONMap{"memberId": targetID},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return board, nil
}

// SetOwner promotes a member to owner or demotes an owner back to member.
// Owner-only. The owner and member lists stay disjoint: promotion moves the
// id out of members, demotion moves it back.
func (s *BoardService) SetOwner(boardID, actorID, targetID uint64, makeOwner bool) (*models.Board, error) {
	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, err
	}

	if !board.IsOwner(actorID) {
		return nil, ErrNotBoardOwner
	}

	var kind models.ActivityType
	if makeOwner {
		if board.OwnerIDs.Contains(targetID) {
			return nil, ErrAlreadyBoardMember
		}
		if !board.MemberIDs.Contains(targetID) {
			return nil, ErrBoardMemberNotFound
		}
		board.MemberIDs = board.MemberIDs.Remove(targetID)
		board.OwnerIDs = board.OwnerIDs.Append(targetID)
		kind = models.ActivityMakeBoardAdmin
	} else {
		if !board.OwnerIDs.Contains(targetID) {
			return nil, ErrBoardMemberNotFound
		}
		if len(board.OwnerIDs) == 1 {
			return nil, ErrLastBoardOwner
		}
		board.OwnerIDs = board.OwnerIDs.Remove(targetID)
		board.MemberIDs = board.MemberIDs.Append(targetID)
		kind = models.ActivityRemoveBoardAdmin
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBoardRepository(tx).Update(board); err != nil {
			return fmt.Errorf("failed to update board: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: board.ID,
			UserID:  actorID,
			Type:    kind,
			Data:    models.JSONMap{"memberId": targetID},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return board, nil
}

// CreateLabel creates a label under a board.
func (s *BoardService) CreateLabel(boardID, actorID uint64, title, color string) (*models.Label, error) {
	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	label := &models.Label{
		BoardID: boardID,
		Title:   title,
		Color:   color,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewLabelRepository(tx).Create(label); err != nil {
			return fmt.Errorf("failed to create label: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: boardID,
			UserID:  actorID,
			Type:    models.ActivityCreateLabel,
			Data:    models.JSONMap{"labelTitle": label.Title, "labelColor": label.Color},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return label, nil
}

// UpdateLabel updates a label's title/color.
func (s *BoardService) UpdateLabel(boardID, labelID, actorID uint64, title, color *string) (*models.Label, error) {
	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	labelRepo := repository.NewLabelRepository(s.db)
	label, err := labelRepo.FindByID(labelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabelNotFound
		}
		return nil, fmt.Errorf("failed to find label: %w", err)
	}
	if label.BoardID != boardID {
		return nil, ErrLabelNotFound
	}

	if title != nil {
		label.Title = *title
	}
	if color != nil {
		label.Color = *color
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewLabelRepository(tx).Update(label); err != nil {
			return fmt.Errorf("failed to update label: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: boardID,
			UserID:  actorID,
			Type:    models.ActivityUpdateLabel,
			Data:    models.JSONMap{"labelTitle": label.Title, "labelColor": label.Color},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return label, nil
}

// DeleteLabel deletes a label and pulls its id out of every card on the
// board.
func (s *BoardService) DeleteLabel(boardID, labelID, actorID uint64) error {
	board, err := s.findBoard(boardID)
	if err != nil {
		return err
	}
	if !board.IsMemberOrOwner(actorID) {
		return ErrNotBoardMember
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		labelRepo := repository.NewLabelRepository(tx)
		label, err := labelRepo.FindByID(labelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLabelNotFound
			}
			return fmt.Errorf("failed to find label: %w", err)
		}
		if label.BoardID != boardID {
			return ErrLabelNotFound
		}

		cardRepo := repository.NewCardRepository(tx)
		cards, err := cardRepo.FindByBoardID(boardID)
		if err != nil {
			return fmt.Errorf("failed to load board cards: %w", err)
		}
		for i := range cards {
			if !cards[i].LabelIDs.Contains(labelID) {
				continue
			}
			cards[i].LabelIDs = cards[i].LabelIDs.Remove(labelID)
			if err := cardRepo.Update(&cards[i]); err != nil {
				return fmt.Errorf("failed to update card labels: %w", err)
			}
		}

		if err := labelRepo.Delete(labelID); err != nil {
			return fmt.Errorf("failed to delete label: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: boardID,
			UserID:  actorID,
			Type:    models.ActivityDeleteLabel,
			Data:    models.JSONMap{"labelTitle": label.Title},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
}

// DuplicateBoard copies a board with all of its columns and cards under a new
// title. Copied cards are anonymized templates: members and comments are
// dropped, everything else carried.
func (s *BoardService) DuplicateBoard(boardID, actorID uint64, newTitle string) (*models.Board, error) {
	src, err := s.findBoard(boardID)
	if err != nil {
		return nil, err
	}
	if !src.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	if strings.TrimSpace(newTitle) == "" {
		newTitle = src.Title + " (copy)"
	}

	slug, err := utils.GenerateSlug(newTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	dst := &models.Board{
		Title:          newTitle,
		Slug:           slug,
		Type:           src.Type,
		OwnerIDs:       models.IDList{actorID},
		MemberIDs:      models.IDList{},
		ColumnOrderIDs: models.IDList{},
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		boardRepo := repository.NewBoardRepository(tx)
		if err := boardRepo.Create(dst); err != nil {
			return fmt.Errorf("failed to create board copy: %w", err)
		}

		columnRepo := repository.NewColumnRepository(tx)
		columns, err := columnRepo.FindByBoardID(src.ID)
		if err != nil {
			return fmt.Errorf("failed to load columns: %w", err)
		}

		ordered := columnsInOrder(src.ColumnOrderIDs, columns)
		for i := range ordered {
			if _, err := copyColumnTx(tx, actorID, &ordered[i], src, dst, len(dst.ColumnOrderIDs), TemplateCopyItems(), false); err != nil {
				return err
			}
		}

		record := &models.ActivityRecord{
			BoardID: dst.ID,
			UserID:  actorID,
			Type:    models.ActivityDuplicateBoard,
			Data: models.JSONMap{
				"boardTitle":    dst.Title,
				"sourceBoard":   src.Title,
				"sourceBoardId": src.ID,
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

	return dst, nil
}

func (s *BoardService) findBoard(boardID uint64) (*models.Board, error) {
	board, err := s.boardRepo.FindByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	return board, nil
}

// columnsInOrder arranges loaded columns by the board's order list.
func columnsInOrder(order models.IDList, columns []models.Column) []models.Column {
	byID := make(map[uint64]models.Column, len(columns))
	for _, c := range columns {
		byID[c.ID] = c
	}

	out := make([]models.Column, 0, len(columns))
	for _, id := range order {
		if c, ok := byID[id]; ok {
			out = append(out, c)
			delete(byID, id)
		}
	}
	for _, c := range columns {
		if _, ok := byID[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}
