package repository

import (
	"github.com/hikarukin/taskboard-api/internal/models"
)

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// Create creates a new board
	Create(board *models.Board) error

	// FindByID finds a board by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Board, error)

	// FindBySlug finds a board by its slug
	FindBySlug(slug string) (*models.Board, error)

	// ListForUser lists boards the user owns or is a member of
	ListForUser(userID uint64) ([]models.Board, error)

	// Update updates a board
	Update(board *models.Board) error

	// Delete hard-deletes a board together with its columns, cards, labels,
	// notifications and activity records
	Delete(id uint64) error
}

// ColumnRepository defines the interface for column data access
type ColumnRepository interface {
	// Create creates a new column
	Create(column *models.Column) error

	// FindByID finds a column by ID
	FindByID(id uint64) (*models.Column, error)

	// FindByBoardID lists all columns of a board
	FindByBoardID(boardID uint64) ([]models.Column, error)

	// Update updates a column
	Update(column *models.Column) error

	// Delete hard-deletes a column
	Delete(id uint64) error
}

// CardRepository defines the interface for card data access
type CardRepository interface {
	// Create creates a new card
	Create(card *models.Card) error

	// FindByID finds a card by ID
	FindByID(id uint64) (*models.Card, error)

	// FindByColumnID lists all cards of a column
	FindByColumnID(columnID uint64) ([]models.Card, error)

	// FindByBoardID lists all cards of a board
	FindByBoardID(boardID uint64) ([]models.Card, error)

	// Update updates a card
	Update(card *models.Card) error

	// Delete hard-deletes a card
	Delete(id uint64) error

	// DeleteByColumnID hard-deletes every card of a column
	DeleteByColumnID(columnID uint64) error
}

// LabelRepository defines the interface for label data access
type LabelRepository interface {
	// Create creates a new label
	Create(label *models.Label) error

	// FindByID finds a label by ID
	FindByID(id uint64) (*models.Label, error)

	// FindByIDs finds labels by a set of IDs
	FindByIDs(ids []uint64) ([]models.Label, error)

	// FindByBoardID lists all labels of a board
	FindByBoardID(boardID uint64) ([]models.Label, error)

	// Update updates a label
	Update(label *models.Label) error

	// Delete hard-deletes a label
	Delete(id uint64) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a new notification
	Create(n *models.Notification) error

	// FindByID finds a notification by ID
	FindByID(id uint64, preload ...string) (*models.Notification, error)

	// FindPending finds a PENDING notification for (recipient, board, type)
	FindPending(userID, boardID uint64, kind models.NotificationType) (*models.Notification, error)

	// ListByUserID lists notifications for a recipient, newest first
	ListByUserID(userID uint64, limit int) ([]models.Notification, error)

	// Update updates a notification
	Update(n *models.Notification) error
}

// ActivityFilter holds filtering options for listing activity records
type ActivityFilter struct {
	BoardID  uint64
	CardID   *uint64
	UserID   *uint64
	Page     int
	PageSize int
}

// ActivityRepository defines the interface for the append-only audit trail
type ActivityRepository interface {
	// Create appends an activity record
	Create(record *models.ActivityRecord) error

	// List retrieves records matching the filter, newest first, with the
	// actor preloaded
	List(filter ActivityFilter) ([]models.ActivityRecord, int64, error)

	// FindCommentRecords lists addEditComment records for a card
	FindCommentRecords(cardID uint64) ([]models.ActivityRecord, error)

	// Delete removes a single record. Only used when the originating comment
	// is deleted.
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByIDs finds users by a set of IDs
	FindByIDs(ids []uint64) ([]models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error
}
