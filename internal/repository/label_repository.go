package repository

import (
	"github.com/hikarukin/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormLabelRepository is a GORM implementation of LabelRepository
type GormLabelRepository struct {
	db *gorm.DB
}

// NewLabelRepository creates a new LabelRepository
func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &GormLabelRepository{db: db}
}

// Create creates a new label
func (r *GormLabelRepository) Create(label *models.Label) error {
	return r.db.Create(label).Error
}

// FindByID finds a label by ID
func (r *GormLabelRepository) FindByID(id uint64) (*models.Label, error) {
	var label models.Label
	if err := r.db.First(&label, id).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// FindByIDs finds labels by a set of IDs
func (r *GormLabelRepository) FindByIDs(ids []uint64) ([]models.Label, error) {
	if len(ids) == 0 {
		return []models.Label{}, nil
	}

	var labels []models.Label
	if err := r.db.Where("id IN ?", ids).Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// FindByBoardID lists all labels of a board
func (r *GormLabelRepository) FindByBoardID(boardID uint64) ([]models.Label, error) {
	var labels []models.Label
	if err := r.db.Where("board_id = ?", boardID).Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// Update updates a label
func (r *GormLabelRepository) Update(label *models.Label) error {
	return r.db.Save(label).Error
}

// Delete hard-deletes a label
func (r *GormLabelRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Label{}, id).Error
}
