package services

import (
	"errors"
	"fmt"

	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/realtime"
	"github.com/hikarukin/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("only the recipient can respond to this notification")
	ErrNotPending           = errors.New("notification is not pending")
	ErrNotMembershipKind    = errors.New("notification does not carry a membership decision")
	ErrCannotInviteSelf     = errors.New("cannot invite yourself")
)

// NotificationService owns the invitation / join-request state machine
// (PENDING -> ACCEPTED | REJECTED, both terminal) and plain alert
// notifications. New notifications are pushed to connected recipients
// through the realtime hub, best-effort.
type NotificationService struct {
	db        *gorm.DB
	notifRepo repository.NotificationRepository
	boardRepo repository.BoardRepository
	userRepo  repository.UserRepository
	hub       *realtime.Hub
}

// NewNotificationService creates a new NotificationService. hub may be nil.
func NewNotificationService(db *gorm.DB, notifRepo repository.NotificationRepository, boardRepo repository.BoardRepository, userRepo repository.UserRepository, hub *realtime.Hub) *NotificationService {
	return &NotificationService{
		db:        db,
		notifRepo: notifRepo,
		boardRepo: boardRepo,
		userRepo:  userRepo,
		hub:       hub,
	}
}

// InviteToBoard proposes board membership to invitee. Returns the
// notification and whether it was newly created: a PENDING invitation for the
// same (recipient, board, type) already existing makes this a no-op that
// hands back the existing record.
func (s *NotificationService) InviteToBoard(actorID, boardID, inviteeID uint64) (*models.Notification, bool, error) {
	if actorID == inviteeID {
		return nil, false, ErrCannotInviteSelf
	}

	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, false, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, false, ErrNotBoardMember
	}

	invitee, err := s.userRepo.FindByID(inviteeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}

	if board.IsMemberOrOwner(invitee.ID) {
		return nil, false, ErrAlreadyBoardMember
	}

	if existing, err := s.notifRepo.FindPending(invitee.ID, board.ID, models.NotificationBoardInvitation); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to check pending invitation: %w", err)
	}

	n := &models.Notification{
		UserID:   invitee.ID,
		SenderID: actorID,
		BoardID:  &board.ID,
		Type:     models.NotificationBoardInvitation,
		Status:   models.StatusPending,
		Details: models.JSONMap{
			"boardTitle": board.Title,
		},
	}
	if err := s.notifRepo.Create(n); err != nil {
		return nil, false, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.push(n)
	return n, true, nil
}

// RequestToJoin files a join request with the board's first owner as the
// recipient. Same de-duplication as invitations.
func (s *NotificationService) RequestToJoin(actorID, boardID uint64) (*models.Notification, bool, error) {
	board, err := s.findBoard(boardID)
	if err != nil {
		return nil, false, err
	}

	if board.IsMemberOrOwner(actorID) {
		return nil, false, ErrAlreadyBoardMember
	}
	if len(board.OwnerIDs) == 0 {
		return nil, false, ErrBoardNotFound
	}

	recipient := board.OwnerIDs[0]

	if existing, err := s.notifRepo.FindPending(recipient, board.ID, models.NotificationRequestToJoin); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to check pending request: %w", err)
	}

	n := &models.Notification{
		UserID:   recipient,
		SenderID: actorID,
		BoardID:  &board.ID,
		Type:     models.NotificationRequestToJoin,
		Status:   models.StatusPending,
		Details: models.JSONMap{
			"boardTitle":  board.Title,
			"requesterId": actorID,
		},
	}
	if err := s.notifRepo.Create(n); err != nil {
		return nil, false, fmt.Errorf("failed to create join request: %w", err)
	}

	s.push(n)
	return n, true, nil
}

// Respond settles a PENDING invitation or join request. Accepting credits
// board membership to the invitee (invitations) or the requester (join
// requests); if the credited user already owns or belongs to the board the
// transition fails with a conflict and both membership and status stay
// untouched.
func (s *NotificationService) Respond(actorID, notificationID uint64, accept bool) (*models.Notification, error) {
	n, err := s.notifRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	if n.UserID != actorID {
		return nil, ErrNotRecipient
	}
	if !n.IsMembershipKind() {
		return nil, ErrNotMembershipKind
	}
	if n.Status != models.StatusPending {
		return nil, ErrNotPending
	}

	if !accept {
		n.Status = models.StatusRejected
		if err := s.notifRepo.Update(n); err != nil {
			return nil, fmt.Errorf("failed to update notification: %w", err)
		}
		return n, nil
	}

	if n.BoardID == nil {
		return nil, ErrBoardNotFound
	}
	board, err := s.findBoard(*n.BoardID)
	if err != nil {
		return nil, err
	}

	credited := n.UserID
	kind := models.ActivityAcceptInvitation
	if n.Type == models.NotificationRequestToJoin {
		credited = n.SenderID
		kind = models.ActivityAcceptJoinRequest
	}

	if board.IsMemberOrOwner(credited) {
		return nil, ErrAlreadyBoardMember
	}

	board.MemberIDs = board.MemberIDs.Append(credited)
	n.Status = models.StatusAccepted

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewBoardRepository(tx).Update(board); err != nil {
			return fmt.Errorf("failed to update board: %w", err)
		}

		if err := repository.NewNotificationRepository(tx).Update(n); err != nil {
			return fmt.Errorf("failed to update notification: %w", err)
		}

		record := &models.ActivityRecord{
			BoardID: board.ID,
			UserID:  actorID,
			Type:    kind,
			Data:    models.JSONMap{"memberId": credited},
		}
		if err := repository.NewActivityRepository(tx).Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return n, nil
}

// NotifyAssignment sends a plain assignment alert to a user added to a card.
// Best-effort: callers treat a failure as non-fatal.
func (s *NotificationService) NotifyAssignment(actorID uint64, card *models.Card, targetID uint64) error {
	if actorID == targetID {
		return nil
	}

	n := &models.Notification{
		UserID:   targetID,
		SenderID: actorID,
		BoardID:  &card.BoardID,
		CardID:   &card.ID,
		Type:     models.NotificationAssignment,
		Details: models.JSONMap{
			"cardTitle": card.Title,
		},
	}
	if err := s.notifRepo.Create(n); err != nil {
		return fmt.Errorf("failed to create assignment notification: %w", err)
	}

	s.push(n)
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(userID uint64, limit int) ([]models.Notification, error) {
	notifications, err := s.notifRepo.ListByUserID(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags a notification as seen. Recipient-only.
func (s *NotificationService) MarkRead(actorID, notificationID uint64) (*models.Notification, error) {
	n, err := s.notifRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}

	if n.UserID != actorID {
		return nil, ErrNotRecipient
	}

	n.Read = true
	if err := s.notifRepo.Update(n); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}

	return n, nil
}

func (s *NotificationService) push(n *models.Notification) {
	if s.hub == nil {
		return
	}
	s.hub.PushToUser(n.UserID, realtime.Event{
		Type: "notification",
		Data: n,
	})
}

func (s *NotificationService) findBoard(boardID uint64) (*models.Board, error) {
	board, err := s.boardRepo.FindByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}
	return board, nil
}
