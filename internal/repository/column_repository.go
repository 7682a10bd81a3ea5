package repository

import (
	"github.com/hikarukin/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormColumnRepository is a GORM implementation of ColumnRepository
type GormColumnRepository struct {
	db *gorm.DB
}

// NewColumnRepository creates a new ColumnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &GormColumnRepository{db: db}
}

// Create creates a new column
func (r *GormColumnRepository) Create(column *models.Column) error {
	return r.db.Create(column).Error
}

// FindByID finds a column by ID
func (r *GormColumnRepository) FindByID(id uint64) (*models.Column, error) {
	var column models.Column
	if err := r.db.First(&column, id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// FindByBoardID lists all columns of a board
func (r *GormColumnRepository) FindByBoardID(boardID uint64) ([]models.Column, error) {
	var columns []models.Column
	if err := r.db.Where("board_id = ?", boardID).Find(&columns).Error; err != nil {
		return nil, err
	}
	return columns, nil
}

// Update updates a column
func (r *GormColumnRepository) Update(column *models.Column) error {
	return r.db.Save(column).Error
}

// Delete hard-deletes a column
func (r *GormColumnRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Column{}, id).Error
}
