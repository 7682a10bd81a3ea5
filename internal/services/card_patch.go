package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

// CardPatch is the sealed set of structured card updates. Each wire-level
// action discriminator maps to exactly one concrete patch type, so an
// unrecognized action dies at decode time instead of deep in the service.
type CardPatch interface {
	isCardPatch()
}

type AddChecklistPatch struct {
	Title string
}

type RemoveChecklistPatch struct {
	ChecklistID string
}

type RenameChecklistPatch struct {
	ChecklistID string
	Title       string
}

type AddChecklistItemPatch struct {
	ChecklistID string
	Title       string
}

type ToggleChecklistItemPatch struct {
	ChecklistID string
	ItemID      string
	Checked     bool
}

type AssignChecklistItemPatch struct {
	ChecklistID string
	ItemID      string
	UserIDs     []uint64
}

type AddCardMemberPatch struct {
	UserID uint64
}

type RemoveCardMemberPatch struct {
	UserID uint64
}

type AddAttachmentPatch struct {
	Name string
	URL  string
}

type RemoveAttachmentPatch struct {
	AttachmentID string
}

func (AddChecklistPatch) isCardPatch()        {}
func (RemoveChecklistPatch) isCardPatch()     {}
func (RenameChecklistPatch) isCardPatch()     {}
func (AddChecklistItemPatch) isCardPatch()    {}
func (ToggleChecklistItemPatch) isCardPatch() {}
func (AssignChecklistItemPatch) isCardPatch() {}
func (AddCardMemberPatch) isCardPatch()       {}
func (RemoveCardMemberPatch) isCardPatch()    {}
func (AddAttachmentPatch) isCardPatch()       {}
func (RemoveAttachmentPatch) isCardPatch()    {}

// ApplyCardPatch dispatches one structured update against a card. Checklist
// item toggles log their activity best-effort; every other patch commits its
// audit record with the mutation.
func (s *CardService) ApplyCardPatch(cardID, actorID uint64, patch CardPatch) (*models.Card, error) {
	card, board, err := s.findCardWithBoard(cardID)
	if err != nil {
		return nil, err
	}
	if !board.IsMemberOrOwner(actorID) {
		return nil, ErrNotBoardMember
	}

	var record *models.ActivityRecord
	bestEffort := false

	switch p := patch.(type) {
	case AddChecklistPatch:
		checklist := models.Checklist{
			ID:    uuid.NewString(),
			Title: p.Title,
			Items: []models.ChecklistItem{},
		}
		card.Checklists = append(card.Checklists, checklist)
		record = s.cardActivity(board, card, actorID, models.ActivityAddChecklist,
			models.JSONMap{"checklistTitle": p.Title})

	case RemoveChecklistPatch:
		idx, err := findChecklist(card, p.ChecklistID)
		if err != nil {
			return nil, err
		}
		removed := card.Checklists[idx]
		card.Checklists = append(card.Checklists[:idx], card.Checklists[idx+1:]...)
		record = s.cardActivity(board, card, actorID, models.ActivityRemoveChecklist,
			models.JSONMap{"checklistTitle": removed.Title})

	case RenameChecklistPatch:
		idx, err := findChecklist(card, p.ChecklistID)
		if err != nil {
			return nil, err
		}
		card.Checklists[idx].Title = p.Title

	case AddChecklistItemPatch:
		idx, err := findChecklist(card, p.ChecklistID)
		if err != nil {
			return nil, err
		}
		item := models.ChecklistItem{
			ID:         uuid.NewString(),
			Title:      p.Title,
			AssignedTo: models.IDList{},
		}
		card.Checklists[idx].Items = append(card.Checklists[idx].Items, item)

	case ToggleChecklistItemPatch:
		ci, ii, err := findChecklistItem(card, p.ChecklistID, p.ItemID)
		if err != nil {
			return nil, err
		}
		card.Checklists[ci].Items[ii].IsChecked = p.Checked

		kind := models.ActivityCheckChecklistItem
		if !p.Checked {
			kind = models.ActivityUncheckChecklistItem
		}
		record = s.cardActivity(board, card, actorID, kind,
			models.JSONMap{"itemTitle": card.Checklists[ci].Items[ii].Title})
		bestEffort = true

	case AssignChecklistItemPatch:
		ci, ii, err := findChecklistItem(card, p.ChecklistID, p.ItemID)
		if err != nil {
			return nil, err
		}
		// Only current card members can be assigned.
		card.Checklists[ci].Items[ii].AssignedTo = models.IDList(p.UserIDs).Intersect(card.MemberIDs)

	case AddCardMemberPatch:
		if !board.IsMemberOrOwner(p.UserID) {
			return nil, ErrBoardMemberNotFound
		}
		if card.MemberIDs.Contains(p.UserID) {
			return nil, ErrAlreadyCardMember
		}
		card.MemberIDs = card.MemberIDs.Append(p.UserID)
		record = s.cardActivity(board, card, actorID, models.ActivityAddCardMember,
			models.JSONMap{"memberId": p.UserID})

	case RemoveCardMemberPatch:
		if !card.MemberIDs.Contains(p.UserID) {
			return nil, ErrCardMemberNotFound
		}
		card.MemberIDs = card.MemberIDs.Remove(p.UserID)
		// Dropped members lose their checklist assignments too.
		card.Checklists = card.Checklists.FilterAssignees(card.MemberIDs)
		record = s.cardActivity(board, card, actorID, models.ActivityRemoveCardMember,
			models.JSONMap{"memberId": p.UserID})

	case AddAttachmentPatch:
		attachment := models.Attachment{
			ID:      uuid.NewString(),
			Name:    p.Name,
			URL:     p.URL,
			AddedBy: actorID,
		}
		card.Attachments = append(card.Attachments, attachment)
		record = s.cardActivity(board, card, actorID, models.ActivityAddAttachment,
			models.JSONMap{"attachmentName": p.Name})

	case RemoveAttachmentPatch:
		idx := -1
		for i, a := range card.Attachments {
			if a.ID == p.AttachmentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, ErrAttachmentNotFound
		}
		removed := card.Attachments[idx]
		card.Attachments = append(card.Attachments[:idx], card.Attachments[idx+1:]...)
		record = s.cardActivity(board, card, actorID, models.ActivityRemoveAttachment,
			models.JSONMap{"attachmentName": removed.Name})

	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidAction, patch)
	}

	if bestEffort {
		if err := s.cardRepo.Update(card); err != nil {
			return nil, fmt.Errorf("failed to update card: %w", err)
		}
		if record != nil {
			s.activities.AppendBestEffort(record)
		}
		return card, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCardRepository(tx).Update(card); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		if record != nil {
			if err := repository.NewActivityRepository(tx).Create(record); err != nil {
				return fmt.Errorf("failed to append activity: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

func (s *CardService) cardActivity(board *models.Board, card *models.Card, actorID uint64, kind models.ActivityType, data models.JSONMap) *models.ActivityRecord {
	data["cardTitle"] = card.Title
	return &models.ActivityRecord{
		BoardID: board.ID,
		CardID:  &card.ID,
		UserID:  actorID,
		Type:    kind,
		Data:    data,
	}
}

func findChecklist(card *models.Card, checklistID string) (int, error) {
	for i, c := range card.Checklists {
		if c.ID == checklistID {
			return i, nil
		}
	}
	return -1, ErrChecklistNotFound
}

func findChecklistItem(card *models.Card, checklistID, itemID string) (int, int, error) {
	ci, err := findChecklist(card, checklistID)
	if err != nil {
		return -1, -1, err
	}
	for i, item := range card.Checklists[ci].Items {
		if item.ID == itemID {
			return ci, i, nil
		}
	}
	return -1, -1, ErrChecklistItemNotFound
}
