package repository

import (
	"github.com/hikarukin/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormCardRepository is a GORM implementation of CardRepository
type GormCardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &GormCardRepository{db: db}
}

// Create creates a new card
func (r *GormCardRepository) Create(card *models.Card) error {
	return r.db.Create(card).Error
}

// FindByID finds a card by ID
func (r *GormCardRepository) FindByID(id uint64) (*models.Card, error) {
	var card models.Card
	if err := r.db.First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByColumnID lists all cards of a column
func (r *GormCardRepository) FindByColumnID(columnID uint64) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.Where("column_id = ?", columnID).Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// FindByBoardID lists all cards of a board
func (r *GormCardRepository) FindByBoardID(boardID uint64) ([]models.Card, error) {
	var cards []models.Card
	if err := r.db.Where("board_id = ?", boardID).Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// Update updates a card
func (r *GormCardRepository) Update(card *models.Card) error {
	return r.db.Save(card).Error
}

// Delete hard-deletes a card
func (r *GormCardRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Card{}, id).Error
}

// DeleteByColumnID hard-deletes every card of a column
func (r *GormCardRepository) DeleteByColumnID(columnID uint64) error {
	return r.db.Where("column_id = ?", columnID).Delete(&models.Card{}).Error
}
