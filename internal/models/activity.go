package models

import (
	"time"
)

// ActivityType enumerates every kind of audit entry the service emits. The
// set is closed: services only append values defined here.
type ActivityType string

const (
	// Board lifecycle
	ActivityCreateBoard    ActivityType = "createBoard"
	ActivityUpdateBoard    ActivityType = "updateBoardTitle"
	ActivityCloseBoard     ActivityType = "closeBoard"
	ActivityReopenBoard    ActivityType = "reopenBoard"
	ActivityDuplicateBoard ActivityType = "duplicateBoard"

	// Board membership
	ActivityAddBoardMember    ActivityType = "addBoardMember"
	ActivityRemoveBoardMember ActivityType = "removeBoardMember"
	ActivityMakeBoardAdmin    ActivityType = "makeBoardAdmin"
	ActivityRemoveBoardAdmin  ActivityType = "removeBoardAdmin"
	ActivityAcceptInvitation  ActivityType = "acceptBoardInvitation"
	ActivityAcceptJoinRequest ActivityType = "acceptRequestToJoin"

	// Labels
	ActivityCreateLabel ActivityType = "createLabel"
	ActivityUpdateLabel ActivityType = "updateLabel"
	ActivityDeleteLabel ActivityType = "deleteLabel"

	// Column lifecycle
	ActivityCreateColumn ActivityType = "createColumn"
	ActivityRenameColumn ActivityType = "renameColumn"
	ActivityCloseColumn  ActivityType = "closeColumn"
	ActivityReopenColumn ActivityType = "reopenColumn"
	ActivityDeleteColumn ActivityType = "deleteColumn"

	// Column transfer
	ActivityMoveColumnToDifferentBoard    ActivityType = "moveColumnToDifferentBoard"
	ActivityColumnMovedFromDifferentBoard ActivityType = "columnMovedFromDifferentBoard"
	ActivityCopyColumnToAnotherBoard      ActivityType = "copyColumnToAnotherBoard"
	ActivityCopyColumnFromAnotherBoard    ActivityType = "copyColumnFromAnotherBoard"
	ActivityCopyColumnToSameBoard         ActivityType = "copyColumnToSameBoard"

	// Card lifecycle
	ActivityCreateCard      ActivityType = "createCard"
	ActivityUpdateCard      ActivityType = "updateCard"
	ActivityCloseCard       ActivityType = "closeCard"
	ActivityReopenCard      ActivityType = "reopenCard"
	ActivityCompleteCard    ActivityType = "completeCard"
	ActivityUncompleteCard  ActivityType = "uncompleteCard"
	ActivityDeleteCard      ActivityType = "deleteCard"
	ActivityUpdateCardDue   ActivityType = "updateCardDueDate"
	ActivityUpdateCardCover ActivityType = "updateCardCover"

	// Card transfer
	ActivityMoveCard                    ActivityType = "moveCard"
	ActivityMoveCardToDifferentBoard    ActivityType = "moveCardToDifferentBoard"
	ActivityCardMovedFromDifferentBoard ActivityType = "cardMovedFromDifferentBoard"
	ActivityCopyCardToSameBoard         ActivityType = "copyCardToSameBoard"
	ActivityCopyCardToAnotherBoard      ActivityType = "copyCardToAnotherBoard"
	ActivityCopyCardFromAnotherBoard    ActivityType = "copyCardFromAnotherBoard"

	// Card members
	ActivityAddCardMember    ActivityType = "addCardMember"
	ActivityRemoveCardMember ActivityType = "removeCardMember"

	// Checklists
	ActivityAddChecklist         ActivityType = "addChecklist"
	ActivityRemoveChecklist      ActivityType = "removeChecklist"
	ActivityCheckChecklistItem   ActivityType = "checkChecklistItem"
	ActivityUncheckChecklistItem ActivityType = "uncheckChecklistItem"

	// Attachments
	ActivityAddAttachment    ActivityType = "addAttachment"
	ActivityRemoveAttachment ActivityType = "removeAttachment"

	// Comments
	ActivityAddEditComment ActivityType = "addEditComment"
)

// ActivityRecord is one immutable, typed audit entry. Append-only: the only
// record ever deleted is the addEditComment entry of a deleted comment.
type ActivityRecord struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	BoardID   uint64       `gorm:"not null;index" json:"board_id"`
	ColumnID  *uint64      `gorm:"index" json:"column_id,omitempty"`
	CardID    *uint64      `gorm:"index" json:"card_id,omitempty"`
	UserID    uint64       `gorm:"not null;index" json:"user_id"`
	Type      ActivityType `gorm:"type:varchar(60);not null" json:"type"`
	Data      JSONMap      `gorm:"type:json" json:"data"`
	CreatedAt time.Time    `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
