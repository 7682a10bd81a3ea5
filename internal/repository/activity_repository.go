package repository

import (
	"github.com/hikarukin/taskboard-api/internal/database"
	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/utils"
	"gorm.io/gorm"
)

// GormActivityRepository is a GORM implementation of ActivityRepository
type GormActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

// Create appends an activity record
func (r *GormActivityRepository) Create(record *models.ActivityRecord) error {
	return r.db.Create(record).Error
}

// List retrieves records matching the filter, newest first, with the actor
// preloaded for display name/avatar
func (r *GormActivityRepository) List(filter ActivityFilter) ([]models.ActivityRecord, int64, error) {
	query := r.db.Model(&models.ActivityRecord{}).Where("board_id = ?", filter.BoardID)

	if filter.CardID != nil {
		query = query.Where("card_id = ?", *filter.CardID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC, id DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	var records []models.ActivityRecord
	if err := listQuery.Preload("User").Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// FindCommentRecords lists addEditComment records for a card. The comment id
// lives inside the JSON data payload, so matching a specific comment happens
// in the service to stay portable across drivers.
func (r *GormActivityRepository) FindCommentRecords(cardID uint64) ([]models.ActivityRecord, error) {
	var records []models.ActivityRecord
	err := r.db.
		Where("card_id = ? AND type = ?", cardID, models.ActivityAddEditComment).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes a single record
func (r *GormActivityRepository) Delete(id uint64) error {
	return r.db.Delete(&models.ActivityRecord{}, id).Error
}
