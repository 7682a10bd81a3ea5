package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidCopyItem = errors.New("unknown copy item")
)

// CopyItems names the card fields a copy operation carries over. Everything
// not requested starts zeroed on the new card.
type CopyItems map[string]bool

const (
	CopyMembers     = "memberIds"
	CopyLabels      = "labels"
	CopyChecklists  = "checklists"
	CopyAttachments = "attachments"
	CopyComments    = "comments"
	CopyDueDate     = "dueDate"
	CopyLocation    = "location"
)

var knownCopyItems = map[string]bool{
	CopyMembers:     true,
	CopyLabels:      true,
	CopyChecklists:  true,
	CopyAttachments: true,
	CopyComments:    true,
	CopyDueDate:     true,
	CopyLocation:    true,
}

// NewCopyItems validates a caller-supplied keep list.
func NewCopyItems(items []string) (CopyItems, error) {
	set := make(CopyItems, len(items))
	for _, item := range items {
		if !knownCopyItems[item] {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCopyItem, item)
		}
		set[item] = true
	}
	return set, nil
}

// AllCopyItems keeps every field a copy can carry. Used by direct
// column-to-column copies.
func AllCopyItems() CopyItems {
	set := make(CopyItems, len(knownCopyItems))
	for item := range knownCopyItems {
		set[item] = true
	}
	return set
}

// TemplateCopyItems drops members and comments, producing an anonymized
// template. Used by whole-board duplication.
func TemplateCopyItems() CopyItems {
	set := AllCopyItems()
	delete(set, CopyMembers)
	delete(set, CopyComments)
	return set
}

// resolveTransferMembers computes the member list of a card landing on a new
// board: destination owners are always force-included, and the card's prior
// members survive only if they already belong to the destination board.
func resolveTransferMembers(cardMembers models.IDList, dst *models.Board) models.IDList {
	return dst.OwnerIDs.Union(cardMembers.Intersect(dst.MemberIDs))
}

// cloneLabelsTx creates brand-new labels (same title/color) under the
// destination board for every label the card references, and returns the
// rewritten id list in the card's original label order.
func cloneLabelsTx(tx *gorm.DB, labelIDs models.IDList, dstBoardID uint64) (models.IDList, error) {
	if len(labelIDs) == 0 {
		return models.IDList{}, nil
	}

	labelRepo := repository.NewLabelRepository(tx)
	labels, err := labelRepo.FindByIDs(labelIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}

	byID := make(map[uint64]models.Label, len(labels))
	for _, l := range labels {
		byID[l.ID] = l
	}

	rewritten := make(models.IDList, 0, len(labelIDs))
	for _, id := range labelIDs {
		src, ok := byID[id]
		if !ok {
			continue
		}
		clone := models.Label{
			BoardID: dstBoardID,
			Title:   src.Title,
			Color:   src.Color,
		}
		if err := labelRepo.Create(&clone); err != nil {
			return nil, fmt.Errorf("failed to clone label: %w", err)
		}
		rewritten = append(rewritten, clone.ID)
	}
	return rewritten, nil
}

// relocateCardTx re-resolves a card's membership, labels, and checklist
// assignees against a new board and persists it. The column reference is left
// alone; column transfers own the order-list bookkeeping.
func relocateCardTx(tx *gorm.DB, card *models.Card, dst *models.Board) error {
	members := resolveTransferMembers(card.MemberIDs, dst)

	labelIDs, err := cloneLabelsTx(tx, card.LabelIDs, dst.ID)
	if err != nil {
		return err
	}

	card.BoardID = dst.ID
	card.MemberIDs = members
	card.LabelIDs = labelIDs
	card.Checklists = card.Checklists.FilterAssignees(members)

	if err := repository.NewCardRepository(tx).Update(card); err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

// moveCardTx relocates a card between columns, possibly across boards. Order
// lists on both columns, the card itself, and the audit records all commit
// inside the caller's transaction.
func moveCardTx(tx *gorm.DB, actorID uint64, card *models.Card, srcBoard, dstBoard *models.Board, srcColumn, dstColumn *models.Column, position int) error {
	crossBoard := srcBoard.ID != dstBoard.ID

	members := card.MemberIDs
	labelIDs := card.LabelIDs
	checklists := card.Checklists
	if crossBoard {
		members = resolveTransferMembers(card.MemberIDs, dstBoard)

		var err error
		labelIDs, err = cloneLabelsTx(tx, card.LabelIDs, dstBoard.ID)
		if err != nil {
			return err
		}

		checklists = card.Checklists.FilterAssignees(members)
	}

	columnRepo := repository.NewColumnRepository(tx)
	if srcColumn.ID == dstColumn.ID {
		srcColumn.CardOrderIDs = srcColumn.CardOrderIDs.InsertAt(card.ID, position)
		if err := columnRepo.Update(srcColumn); err != nil {
			return fmt.Errorf("failed to update column order: %w", err)
		}
	} else {
		srcColumn.CardOrderIDs = srcColumn.CardOrderIDs.Remove(card.ID)
		if err := columnRepo.Update(srcColumn); err != nil {
			return fmt.Errorf("failed to update source column order: %w", err)
		}

		dstColumn.CardOrderIDs = dstColumn.CardOrderIDs.InsertAt(card.ID, position)
		if err := columnRepo.Update(dstColumn); err != nil {
			return fmt.Errorf("failed to update destination column order: %w", err)
		}
	}

	card.BoardID = dstBoard.ID
	card.ColumnID = dstColumn.ID
	card.MemberIDs = members
	card.LabelIDs = labelIDs
	card.Checklists = checklists

	if err := repository.NewCardRepository(tx).Update(card); err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}

	activityRepo := repository.NewActivityRepository(tx)
	if !crossBoard {
		record := &models.ActivityRecord{
			BoardID:  srcBoard.ID,
			ColumnID: &dstColumn.ID,
			CardID:   &card.ID,
			UserID:   actorID,
			Type:     models.ActivityMoveCard,
			Data: models.JSONMap{
				"cardTitle":      card.Title,
				"sourceColumn":   srcColumn.Title,
				"targetColumn":   dstColumn.Title,
				"sourceColumnId": srcColumn.ID,
				"targetColumnId": dstColumn.ID,
			},
		}
		if err := activityRepo.Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	}

	// Each board's timeline must independently show the transfer.
	outgoing := &models.ActivityRecord{
		BoardID:  srcBoard.ID,
		ColumnID: &srcColumn.ID,
		CardID:   &card.ID,
		UserID:   actorID,
		Type:     models.ActivityMoveCardToDifferentBoard,
		Data: models.JSONMap{
			"cardTitle":     card.Title,
			"targetBoard":   dstBoard.Title,
			"targetBoardId": dstBoard.ID,
		},
	}
	if err := activityRepo.Create(outgoing); err != nil {
		return fmt.Errorf("failed to append source board activity: %w", err)
	}

	incoming := &models.ActivityRecord{
		BoardID:  dstBoard.ID,
		ColumnID: &dstColumn.ID,
		CardID:   &card.ID,
		UserID:   actorID,
		Type:     models.ActivityCardMovedFromDifferentBoard,
		Data: models.JSONMap{
			"cardTitle":     card.Title,
			"sourceBoard":   srcBoard.Title,
			"sourceBoardId": srcBoard.ID,
		},
	}
	if err := activityRepo.Create(incoming); err != nil {
		return fmt.Errorf("failed to append destination board activity: %w", err)
	}
	return nil
}

// copyCardTx duplicates a card into the destination column. The new card
// starts with transient state zeroed; only the fields named in keep are
// carried over, with membership, label, and checklist-assignee propagation
// applied per kept item when the copy crosses board boundaries.
func copyCardTx(tx *gorm.DB, actorID uint64, src *models.Card, srcBoard, dstBoard *models.Board, dstColumn *models.Column, position int, title string, keep CopyItems, logActivity bool) (*models.Card, error) {
	crossBoard := srcBoard.ID != dstBoard.ID

	if title == "" {
		title = src.Title
	}

	newCard := &models.Card{
		BoardID:     dstBoard.ID,
		ColumnID:    dstColumn.ID,
		Title:       title,
		Description: src.Description,
		CoverURL:    src.CoverURL,
		MemberIDs:   models.IDList{},
		LabelIDs:    models.IDList{},
		Checklists:  models.Checklists{},
		Attachments: models.Attachments{},
		Comments:    models.Comments{},
	}

	if keep[CopyMembers] {
		if crossBoard {
			newCard.MemberIDs = resolveTransferMembers(src.MemberIDs, dstBoard)
		} else {
			newCard.MemberIDs = src.MemberIDs
		}
	}

	if keep[CopyLabels] {
		if crossBoard {
			labelIDs, err := cloneLabelsTx(tx, src.LabelIDs, dstBoard.ID)
			if err != nil {
				return nil, err
			}
			newCard.LabelIDs = labelIDs
		} else {
			newCard.LabelIDs = src.LabelIDs
		}
	}

	if keep[CopyChecklists] {
		newCard.Checklists = reissueChecklists(src.Checklists).FilterAssignees(newCard.MemberIDs)
	}

	if keep[CopyAttachments] {
		attachments := make(models.Attachments, len(src.Attachments))
		for i, a := range src.Attachments {
			a.ID = uuid.NewString()
			attachments[i] = a
		}
		newCard.Attachments = attachments
	}

	if keep[CopyComments] {
		comments := make(models.Comments, len(src.Comments))
		for i, c := range src.Comments {
			c.ID = uuid.NewString()
			comments[i] = c
		}
		newCard.Comments = comments
	}

	if keep[CopyDueDate] {
		newCard.Due = src.Due
	}

	if keep[CopyLocation] {
		newCard.Location = src.Location
	}

	if err := repository.NewCardRepository(tx).Create(newCard); err != nil {
		return nil, fmt.Errorf("failed to create card copy: %w", err)
	}

	dstColumn.CardOrderIDs = dstColumn.CardOrderIDs.InsertAt(newCard.ID, position)
	if err := repository.NewColumnRepository(tx).Update(dstColumn); err != nil {
		return nil, fmt.Errorf("failed to update destination column order: %w", err)
	}

	if logActivity {
		if err := appendCopyCardActivities(tx, actorID, newCard, srcBoard, dstBoard, crossBoard); err != nil {
			return nil, err
		}
	}

	return newCard, nil
}

func appendCopyCardActivities(tx *gorm.DB, actorID uint64, card *models.Card, srcBoard, dstBoard *models.Board, crossBoard bool) error {
	activityRepo := repository.NewActivityRepository(tx)

	if !crossBoard {
		record := &models.ActivityRecord{
			BoardID: srcBoard.ID,
			CardID:  &card.ID,
			UserID:  actorID,
			Type:    models.ActivityCopyCardToSameBoard,
			Data:    models.JSONMap{"cardTitle": card.Title},
		}
		if err := activityRepo.Create(record); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		return nil
	}

	outgoing := &models.ActivityRecord{
		BoardID: srcBoard.ID,
		UserID:  actorID,
		Type:    models.ActivityCopyCardToAnotherBoard,
		Data: models.JSONMap{
			"cardTitle":     card.Title,
			"targetBoard":   dstBoard.Title,
			"targetBoardId": dstBoard.ID,
		},
	}
	if err := activityRepo.Create(outgoing); err != nil {
		return fmt.Errorf("failed to append source board activity: %w", err)
	}

	incoming := &models.ActivityRecord{
		BoardID: dstBoard.ID,
		CardID:  &card.ID,
		UserID:  actorID,
		Type:    models.ActivityCopyCardFromAnotherBoard,
		Data: models.JSONMap{
			"cardTitle":     card.Title,
			"sourceBoard":   srcBoard.Title,
			"sourceBoardId": srcBoard.ID,
		},
	}
	if err := activityRepo.Create(incoming); err != nil {
		return fmt.Errorf("failed to append destination board activity: %w", err)
	}
	return nil
}

// reissueChecklists deep-copies checklists with fresh sub-document ids.
func reissueChecklists(src models.Checklists) models.Checklists {
	out := make(models.Checklists, len(src))
	for i, checklist := range src {
		checklist.ID = uuid.NewString()
		items := make([]models.ChecklistItem, len(checklist.Items))
		for j, item := range checklist.Items {
			item.ID = uuid.NewString()
			items[j] = item
		}
		checklist.Items = items
		out[i] = checklist
	}
	return out
}

// moveColumnTx relocates a column between boards: board order lists on both
// sides, the column's board reference, and then every card re-resolved
// against the destination board, card order preserved.
func moveColumnTx(tx *gorm.DB, actorID uint64, column *models.Column, srcBoard, dstBoard *models.Board, position int) error {
	boardRepo := repository.NewBoardRepository(tx)

	srcBoard.ColumnOrderIDs = srcBoard.ColumnOrderIDs.Remove(column.ID)
	if err := boardRepo.Update(srcBoard); err != nil {
		return fmt.Errorf("failed to update source board order: %w", err)
	}

	dstBoard.ColumnOrderIDs = dstBoard.ColumnOrderIDs.InsertAt(column.ID, position)
	if err := boardRepo.Update(dstBoard); err != nil {
		return fmt.Errorf("failed to update destination board order: %w", err)
	}

	column.BoardID = dstBoard.ID
	if err := repository.NewColumnRepository(tx).Update(column); err != nil {
		return fmt.Errorf("failed to update column: %w", err)
	}

	// Every card independently re-resolves membership and labels against the
	// destination board.
	cards, err := repository.NewCardRepository(tx).FindByColumnID(column.ID)
	if err != nil {
		return fmt.Errorf("failed to load column cards: %w", err)
	}
	for i := range cards {
		if err := relocateCardTx(tx, &cards[i], dstBoard); err != nil {
			return err
		}
	}

	activityRepo := repository.NewActivityRepository(tx)
	outgoing := &models.ActivityRecord{
		BoardID:  srcBoard.ID,
		ColumnID: &column.ID,
		UserID:   actorID,
		Type:     models.ActivityMoveColumnToDifferentBoard,
		Data: models.JSONMap{
			"columnTitle":   column.Title,
			"targetBoard":   dstBoard.Title,
			"targetBoardId": dstBoard.ID,
		},
	}
	if err := activityRepo.Create(outgoing); err != nil {
		return fmt.Errorf("failed to append source board activity: %w", err)
	}

	incoming := &models.ActivityRecord{
		BoardID:  dstBoard.ID,
		ColumnID: &column.ID,
		UserID:   actorID,
		Type:     models.ActivityColumnMovedFromDifferentBoard,
		Data: models.JSONMap{
			"columnTitle":   column.Title,
			"sourceBoard":   srcBoard.Title,
			"sourceBoardId": srcBoard.ID,
		},
	}
	if err := activityRepo.Create(incoming); err != nil {
		return fmt.Errorf("failed to append destination board activity: %w", err)
	}
	return nil
}

// copyColumnTx duplicates a column with its cards into the destination board.
// The keep set is caller intent: whole-board duplication passes a template
// set, a direct column copy keeps everything.
func copyColumnTx(tx *gorm.DB, actorID uint64, column *models.Column, srcBoard, dstBoard *models.Board, position int, keep CopyItems, logActivity bool) (*models.Column, error) {
	crossBoard := srcBoard.ID != dstBoard.ID

	newColumn := &models.Column{
		BoardID:      dstBoard.ID,
		Title:        column.Title,
		CardOrderIDs: models.IDList{},
	}
	if err := repository.NewColumnRepository(tx).Create(newColumn); err != nil {
		return nil, fmt.Errorf("failed to create column copy: %w", err)
	}

	dstBoard.ColumnOrderIDs = dstBoard.ColumnOrderIDs.InsertAt(newColumn.ID, position)
	if err := repository.NewBoardRepository(tx).Update(dstBoard); err != nil {
		return nil, fmt.Errorf("failed to update destination board order: %w", err)
	}

	cards, err := repository.NewCardRepository(tx).FindByColumnID(column.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load column cards: %w", err)
	}

	for _, card := range cardsInOrder(column.CardOrderIDs, cards) {
		if _, err := copyCardTx(tx, actorID, card, srcBoard, dstBoard, newColumn, len(newColumn.CardOrderIDs), card.Title, keep, false); err != nil {
			return nil, err
		}
	}

	if logActivity {
		activityRepo := repository.NewActivityRepository(tx)
		if crossBoard {
			outgoing := &models.ActivityRecord{
				BoardID:  srcBoard.ID,
				ColumnID: &column.ID,
				UserID:   actorID,
				Type:     models.ActivityCopyColumnToAnotherBoard,
				Data: models.JSONMap{
					"columnTitle":   column.Title,
					"targetBoard":   dstBoard.Title,
					"targetBoardId": dstBoard.ID,
				},
			}
			if err := activityRepo.Create(outgoing); err != nil {
				return nil, fmt.Errorf("failed to append source board activity: %w", err)
			}

			incoming := &models.ActivityRecord{
				BoardID:  dstBoard.ID,
				ColumnID: &newColumn.ID,
				UserID:   actorID,
				Type:     models.ActivityCopyColumnFromAnotherBoard,
				Data: models.JSONMap{
					"columnTitle":   column.Title,
					"sourceBoard":   srcBoard.Title,
					"sourceBoardId": srcBoard.ID,
				},
			}
			if err := activityRepo.Create(incoming); err != nil {
				return nil, fmt.Errorf("failed to append destination board activity: %w", err)
			}
		} else {
			record := &models.ActivityRecord{
				BoardID:  srcBoard.ID,
				ColumnID: &newColumn.ID,
				UserID:   actorID,
				Type:     models.ActivityCopyColumnToSameBoard,
				Data:     models.JSONMap{"columnTitle": column.Title},
			}
			if err := activityRepo.Create(record); err != nil {
				return nil, fmt.Errorf("failed to append activity: %w", err)
			}
		}
	}

	return newColumn, nil
}

// cardsInOrder arranges loaded cards by the column's order list. Cards the
// order list does not know about (should not happen) go to the end.
func cardsInOrder(order models.IDList, cards []models.Card) []*models.Card {
	byID := make(map[uint64]*models.Card, len(cards))
	for i := range cards {
		byID[cards[i].ID] = &cards[i]
	}

	out := make([]*models.Card, 0, len(cards))
	for _, id := range order {
		if card, ok := byID[id]; ok {
			out = append(out, card)
			delete(byID, id)
		}
	}
	for i := range cards {
		if _, ok := byID[cards[i].ID]; ok {
			out = append(out, &cards[i])
		}
	}
	return out
}
