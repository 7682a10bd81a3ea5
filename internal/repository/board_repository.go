package repository

import (
	"github.com/hikarukin/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a new board
func (r *GormBoardRepository) Create(board *models.Board) error {
	return r.db.Create(board).Error
}

// FindByID finds a board by ID with optional preloading
func (r *GormBoardRepository) FindByID(id uint64, preload ...string) (*models.Board, error) {
	var board models.Board
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&board, id).Error; err != nil {
		return nil, err
	}

	return &board, nil
}

// FindBySlug finds a board by its slug
func (r *GormBoardRepository) FindBySlug(slug string) (*models.Board, error) {
	var board models.Board
	if err := r.db.Where("slug = ?", slug).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// ListForUser lists boards the user owns or is a member of. Membership lives
// inside the JSON owner/member columns, so filtering happens here rather than
// in SQL to stay portable across drivers.
func (r *GormBoardRepository) ListForUser(userID uint64) ([]models.Board, error) {
	var boards []models.Board
	if err := r.db.Order("created_at DESC").Find(&boards).Error; err != nil {
		return nil, err
	}

	accessible := make([]models.Board, 0, len(boards))
	for _, b := range boards {
		if b.IsMemberOrOwner(userID) {
			accessible = append(accessible, b)
		}
	}
	return accessible, nil
}

// Update updates a board
func (r *GormBoardRepository) Update(board *models.Board) error {
	return r.db.Save(board).Error
}

// Delete hard-deletes a board and all related data in a transaction
func (r *GormBoardRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&models.Card{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.Column{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.Label{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.ActivityRecord{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Board{}, id).Error
	})
}
