package services

import (
	"fmt"
	"log"

	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/repository"
)

// ActivityService owns the append-only audit trail. Mutating services append
// their own records inside their transactions; this service covers the query
// surface, best-effort appends for minor edits, and the log's only deletion
// path.
type ActivityService struct {
	activityRepo repository.ActivityRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
	}
}

// Append writes one record synchronously.
func (s *ActivityService) Append(record *models.ActivityRecord) error {
	if err := s.activityRepo.Create(record); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// AppendBestEffort writes one record and swallows failures. Used by minor
// edits (checklist-item toggles) where a broken audit append must not fail
// the mutation.
func (s *ActivityService) AppendBestEffort(record *models.ActivityRecord) {
	if err := s.activityRepo.Create(record); err != nil {
		log.Printf("activity append dropped: type=%s board=%d: %v", record.Type, record.BoardID, err)
	}
}

// ListBoardActivities returns a board's timeline, newest first, with the
// actor's display name and avatar joined in.
func (s *ActivityService) ListBoardActivities(boardID uint64, page, pageSize int) ([]models.ActivityRecord, int64, error) {
	records, total, err := s.activityRepo.List(repository.ActivityFilter{
		BoardID:  boardID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list board activities: %w", err)
	}
	return records, total, nil
}

// ListCardActivities returns the records of a single card, newest first.
func (s *ActivityService) ListCardActivities(boardID, cardID uint64) ([]models.ActivityRecord, error) {
	records, _, err := s.activityRepo.List(repository.ActivityFilter{
		BoardID: boardID,
		CardID:  &cardID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list card activities: %w", err)
	}
	return records, nil
}

// ListUserActivities returns one user's records within a board, newest first.
func (s *ActivityService) ListUserActivities(boardID, userID uint64, page, pageSize int) ([]models.ActivityRecord, int64, error) {
	records, total, err := s.activityRepo.List(repository.ActivityFilter{
		BoardID:  boardID,
		UserID:   &userID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list user activities: %w", err)
	}
	return records, total, nil
}
