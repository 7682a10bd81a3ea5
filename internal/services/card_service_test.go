package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/hikarukin/taskboard-api/internal/database"
	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CardServiceTestSuite defines the test suite for CardService
type CardServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CardService
}

// SetupTest runs before each test
func (suite *CardServiceTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.Column{},
		&models.Card{},
		&models.Label{},
		&models.Notification{},
		&models.ActivityRecord{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	activityService := NewActivityService(repository.NewActivityRepository(suite.db))
	suite.service = NewCardService(
		suite.db,
		repository.NewCardRepository(suite.db),
		repository.NewColumnRepository(suite.db),
		repository.NewBoardRepository(suite.db),
		activityService,
	)
}

// TearDownTest runs after each test
func (suite *CardServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *CardServiceTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		DisplayName:  username,
	}
	suite.db.Create(user)
	return user
}

func (suite *CardServiceTestSuite) createTestBoard(title string, owners, members []uint64) *models.Board {
	board := &models.Board{
		Title:          title,
		Slug:           title + "-slug",
		Type:           models.BoardTypePrivate,
		OwnerIDs:       models.IDList(owners),
		MemberIDs:      models.IDList(members),
		ColumnOrderIDs: models.IDList{},
	}
	suite.db.Create(board)
	return board
}

func (suite *CardServiceTestSuite) createTestColumn(boardID uint64, title string) *models.Column {
	column := &models.Column{
		BoardID:      boardID,
		Title:        title,
		CardOrderIDs: models.IDList{},
	}
	suite.db.Create(column)

	var board models.Board
	suite.db.First(&board, boardID)
	board.ColumnOrderIDs = board.ColumnOrderIDs.Append(column.ID)
	suite.db.Save(&board)

	return column
}

func (suite *CardServiceTestSuite) createTestCard(boardID, columnID uint64, title string) *models.Card {
	card := &models.Card{
		BoardID:     boardID,
		ColumnID:    columnID,
		Title:       title,
		MemberIDs:   models.IDList{},
		LabelIDs:    models.IDList{},
		Checklists:  models.Checklists{},
		Attachments: models.Attachments{},
		Comments:    models.Comments{},
	}
	suite.db.Create(card)

	var column models.Column
	suite.db.First(&column, columnID)
	column.CardOrderIDs = column.CardOrderIDs.Append(card.ID)
	suite.db.Save(&column)

	return card
}

func (suite *CardServiceTestSuite) createTestLabel(boardID uint64, title, color string) *models.Label {
	label := &models.Label{
		BoardID: boardID,
		Title:   title,
		Color:   color,
	}
	suite.db.Create(label)
	return label
}

func (suite *CardServiceTestSuite) reloadColumn(id uint64) *models.Column {
	var column models.Column
	suite.db.First(&column, id)
	return &column
}

func (suite *CardServiceTestSuite) reloadCard(id uint64) *models.Card {
	var card models.Card
	suite.db.First(&card, id)
	return &card
}

// TestCreateCard_AppendsToColumnOrder tests that new cards land at the end of
// the column's order list with an audit record.
func (suite *CardServiceTestSuite) TestCreateCard_AppendsToColumnOrder() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", []uint64{owner.ID}, nil)
	column := suite.createTestColumn(board.ID, "To Do")
	first := suite.createTestCard(board.ID, column.ID, "First")

	card, err := suite.service.CreateCard(CreateCardInput{
		ColumnID: column.ID,
		Title:    "Second",
		ActorID:  owner.ID,
	})
	suite.Require().NoError(err)

	reloaded := suite.reloadColumn(column.ID)
	assert.Equal(suite.T(), models.IDList{first.ID, card.ID}, reloaded.CardOrderIDs)

	var count int64
	suite.db.Model(&models.ActivityRecord{}).
		Where("board_id = ? AND type = ?", board.ID, models.ActivityCreateCard).
		Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestCreateCard_NotMember tests that outsiders cannot create cards.
func (suite *CardServiceTestSuite) TestCreateCard_NotMember() {
	owner := suite.createTestUser("owner")
	outsider := suite.createTestUser("outsider")
	board := suite.createTestBoard("Board", []uint64{owner.ID}, nil)
	column := suite.createTestColumn(board.ID, "To Do")

	_, err := suite.service.CreateCard(CreateCardInput{
		ColumnID: column.ID,
		Title:    "Nope",
		ActorID:  outsider.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrNotBoardMember)
}

// TestGetCard_PrivateBoardHiddenFromOutsiders tests that cards on private
// boards read as not-found to non-members.
func (suite *CardServiceTestSuite) TestGetCard_PrivateBoardHiddenFromOutsiders() {
	owner := suite.createTestUser("owner")
	outsider := suite.createTestUser("outsider")
	board := suite.createTestBoard("Board", []uint64{owner.ID}, nil)
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Confidential card")

	_, err := suite.service.GetCard(card.ID, outsider.ID)
	assert.ErrorIs(suite.T(), err, ErrCardNotFound)

	loaded, err := suite.service.GetCard(card.ID, owner.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), card.ID, loaded.ID)
}

// TestGetCard_PublicBoardReadable tests that any authenticated user can read
// cards on a public board.
func (suite *CardServiceTestSuite) TestGetCard_PublicBoardReadable() {
	owner := suite.createTestUser("owner")
	outsider := suite.createTestUser("outsider")
	board := suite.createTestBoard("Board", []uint64{owner.ID}, nil)
	board.Type = models.BoardTypePublic
	suite.db.Save(board)
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Visible card")

	loaded, err := suite.service.GetCard(card.ID, outsider.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Visible card", loaded.Title)
}

// TestMoveCard_CrossBoardMemberResolution tests member propagation on a
// cross-board move: destination owners are force-included and prior members
// survive only when the destination already knows them.
func (suite *CardServiceTestSuite) TestMoveCard_CrossBoardMemberResolution() {
	u1 := suite.createTestUser("u1")
	u2 := suite.createTestUser("u2")
	u3 := suite.createTestUser("u3")
	u4 := suite.createTestUser("u4")

	boardA := suite.createTestBoard("Board A", []uint64{u1.ID}, []uint64{u2.ID, u3.ID})
	boardB := suite.createTestBoard("Board B", []uint64{u4.ID}, []uint64{u2.ID})
	colA := suite.createTestColumn(boardA.ID, "A1")
	colB := suite.createTestColumn(boardB.ID, "B1")

	card := suite.createTestCard(boardA.ID, colA.ID, "Card C")
	card.MemberIDs = models.IDList{u1.ID, u2.ID}
	suite.db.Save(card)

	moved, err := suite.service.MoveCard(MoveCardInput{
		CardID:         card.ID,
		SourceColumnID: colA.ID,
		DestColumnID:   colB.ID,
		Position:       0,
		ActorID:        u2.ID,
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), boardB.ID, moved.BoardID)
	assert.ElementsMatch(suite.T(), models.IDList{u4.ID, u2.ID}, moved.MemberIDs)

	assert.Equal(suite.T(), models.IDList{}, suite.reloadColumn(colA.ID).CardOrderIDs)
	assert.Equal(suite.T(), models.IDList{card.ID}, suite.reloadColumn(colB.ID).CardOrderIDs)

	// Both boards log the transfer from their own side
	var outgoing, incoming int64
	suite.db.Model(&models.ActivityRecord{}).
		Where("board_id = ? AND type = ?", boardA.ID, models.ActivityMoveCardToDifferentBoard).
		Count(&outgoing)
	suite.db.Model(&models.ActivityRecord{}).
		Where("board_id = ? AND type = ?", boardB.ID, models.ActivityCardMovedFromDifferentBoard).
		Count(&incoming)
	assert.Equal(suite.T(), int64(1), outgoing)
	assert.Equal(suite.T(), int64(1), incoming)
}

// TestMoveCard_CrossBoardClonesLabels tests that labels never leak across
// board boundaries: the destination board gets fresh label rows.
func (suite *CardServiceTestSuite) TestMoveCard_CrossBoardClonesLabels() {
	u1 := suite.createTestUser("u1")
	boardA := suite.createTestBoard("Board A", []uint64{u1.ID}, nil)
	boardB := suite.createTestBoard("Board B", []uint64{u1.ID}, nil)
	colA := suite.createTestColumn(boardA.ID, "A1")
	colB := suite.createTestColumn(boardB.ID, "B1")

	label := suite.createTestLabel(boardA.ID, "bug", "red")
	card := suite.createTestCard(boardA.ID, colA.ID, "Card")
	card.LabelIDs = models.IDList{label.ID}
	suite.db.Save(card)

	moved, err := suite.service.MoveCard(MoveCardInput{
		CardID:         card.ID,
		SourceColumnID: colA.ID,
		DestColumnID:   colB.ID,
		Position:       0,
		ActorID:        u1.ID,
	})
	suite.Require().NoError(err)

	suite.Require().Len(moved.LabelIDs, 1)
	assert.NotEqual(suite.T(), label.ID, moved.LabelIDs[0])

	var clone models.Label
	suite.Require().NoError(suite.db.First(&clone, moved.LabelIDs[0]).Error)
	assert.Equal(suite.T(), boardB.ID, clone.BoardID)
	assert.Equal(suite.T(), "bug", clone.Title)
	assert.Equal(suite.T(), "red", clone.Color)

	// Source label still belongs to the source board
	var original models.Label
	suite.Require().NoError(suite.db.First(&original, label.ID).Error)
	assert.Equal(suite.T(), boardA.ID, original.BoardID)
}

// TestMoveCard_SameColumnReorder tests that moving within a column is a pure
// order splice.
func (suite *CardServiceTestSuite) TestMoveCard_SameColumnReorder() {
	u1 := suite.createTestUser("u1")
	board := suite.createTestBoard("Board", []uint64{u1.ID}, nil)
	column := suite.createTestColumn(board.ID, "To Do")
	c1 := suite.createTestCard(board.ID, column.ID, "one")
	c2 := suite.createTestCard(board.ID, column.ID, "two")
	c3 := suite.createTestCard(board.ID, column.ID, "three")

	_, err := suite.service.MoveCard(MoveCardInput{
		CardID:         c3.ID,
		SourceColumnID: column.ID,
		DestColumnID:   column.ID,
		Position:       0,
		ActorID:        u1.ID,
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.IDList{c3.ID, c1.ID, c2.ID}, suite.reloadColumn(column.ID).CardOrderIDs)
}

// TestMoveCard_ThereAndBack tests that a move followed by the inverse move
// restores the original order lists.
func (suite *CardServiceTestSuite) TestMoveCard_ThereAndBack() {
	u1 := suite.createTestUser("u1")
	board := suite.createTestBoard("Board", []uint64{u1.ID}, nil)
	col1 := suite.createTestColumn(board.ID, "One")
	col2 := suite.createTestColumn(board.ID, "Two")
	a := suite.createTestCard(board.ID, col1.ID, "a")
	b := suite.createTestCard(board.ID, col1.ID, "b")
	c := suite.createTestCard(board.ID, col1.ID, "c")

	_, err := suite.service.MoveCard(MoveCardInput{
		CardID:         b.ID,
		SourceColumnID: col1.ID,
		DestColumnID:   col2.ID,
		Position:       0,
		ActorID:        u1.ID,
	})
	suite.Require().NoError(err)

	_, err = suite.service.MoveCard(MoveCardInput{
		CardID:         b.ID,
		SourceColumnID: col2.ID,
		DestColumnID:   col1.ID,
		Position:       1,
		ActorID:        u1.ID,
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.IDList{a.ID, b.ID, c.ID}, suite.reloadColumn(col1.ID).CardOrderIDs)
	assert.Equal(suite.T(), models.IDList{}, suite.reloadColumn(col2.ID).CardOrderIDs)
	assert.Equal(suite.T(), col1.ID, suite.reloadCard(b.ID).ColumnID)
}

// TestMoveCard_WrongSourceColumn tests that a stale source column aborts the
// move before any write.
func (suite *CardServiceTestSuite) TestMoveCard_WrongSourceColumn() {
	u1 := suite.createTestUser("u1")
	board := suite.createTestBoard("Board", []uint64{u1.ID}, nil)
	col1 := suite.createTestColumn(board.ID, "One")
	col2 := suite.createTestColumn(board.ID, "Two")
	card := suite.createTestCard(board.ID, col1.ID, "a")

	_, err := suite.service.MoveCard(MoveCardInput{
		CardID:         card.ID,
		SourceColumnID: col2.ID,
		DestColumnID:   col1.ID,
		Position:       0,
		ActorID:        u1.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrCardNotInColumn)
}

// TestCopyCard_ChecklistsOnly tests the keep-set: a copy carrying only
// checklists starts with everything else zeroed, and checklist assignees are
// filtered against the (empty) copied member list.
func (suite *CardServiceTestSuite) TestCopyCard_ChecklistsOnly() {
	u1 := suite.createTestUser("u1")
	u2 := suite.createTestUser("u2")
	board := suite.createTestBoard("Board", []uint64{u1.ID}, []uint64{u2.ID})
	column := suite.createTestColumn(board.ID, "To Do")

	card := suite.createTestCard(board.ID, column.ID, "Card C")
	card.MemberIDs = models.IDList{u1.ID, u2.ID}
	card.Checklists = models.Checklists{
		{
			ID:    "cl-1",
			Title: "Steps",
			Items: []models.ChecklistItem{
				{ID: "item-1", Title: "step one", AssignedTo: models.IDList{u1.ID}},
				{ID: "item-2", Title: "step two", IsChecked: true, AssignedTo: models.IDList{u2.ID}},
			},
		},
	}
	card.Attachments = models.Attachments{{ID: "att-1", Name: "file", URL: "http://example.com/f"}}
	card.Comments = models.Comments{{ID: "com-1", UserID: u1.ID, Text: "hello"}}
	suite.db.Save(card)

	copied, err := suite.service.CopyCard(CopyCardInput{
		CardID:       card.ID,
		DestColumnID: column.ID,
		Position:     1,
		KeepItems:    []string{CopyChecklists},
		ActorID:      u1.ID,
	})
	suite.Require().NoError(err)

	assert.Empty(suite.T(), copied.MemberIDs)
	assert.Empty(suite.T(), copied.Attachments)
	assert.Empty(suite.T(), copied.Comments)

	suite.Require().Len(copied.Checklists, 1)
	assert.NotEqual(suite.T(), "cl-1", copied.Checklists[0].ID)
	suite.Require().Len(copied.Checklists[0].Items, 2)
	for _, item := range copied.Checklists[0].Items {
		assert.Empty(suite.T(), item.AssignedTo)
	}
	// Checked state carries over
	assert.True(suite.T(), copied.Checklists[0].Items[1].IsChecked)

	assert.Equal(suite.T(), models.IDList{card.ID, copied.ID}, suite.reloadColumn(column.ID).CardOrderIDs)
}

// TestCopyCard_UnknownKeepItem tests that an unrecognized keep item is
// rejected as an invalid operation.
func (suite *CardServiceTestSuite) TestCopyCard_UnknownKeepItem() {
	u1 := suite.createTestUser("u1")
	board := suite.createTestBoard("Board", []uint64{u1.ID}, nil)
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Card")

	_, err := suite.service.CopyCard(CopyCardInput{
		CardID:       card.ID,
		DestColumnID: column.ID,
		Position:     0,
		KeepItems:    []string{"stickers"},
		ActorID:      u1.ID,
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidCopyItem)
}

// TestDeleteCard_RemovesFromOrder tests hard deletion plus order cleanup.
func (suite *CardServiceTestSuite) TestDeleteCard_RemovesFromOrder() {
	u1 := suite.createTestUser("u1")
	board := suite.createTestBoard("Board", []uint64{u1.ID}, nil)
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Card")
	keeper := suite.createTestCard(board.ID, column.ID, "Keeper")

	err := suite.service.DeleteCard(card.ID, u1.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.IDList{keeper.ID}, suite.reloadColumn(column.ID).CardOrderIDs)

	var count int64
	suite.db.Model(&models.Card{}).Where("id = ?", card.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestDeleteComment_RemovesMatchingActivityRecord tests the audit trail's
// only deletion path: dropping a comment drops its addEditComment record and
// nothing else.
func (suite *CardServiceTestSuite) TestDeleteComment_RemovesMatchingActivityRecord() {
	u1 := suite.createTestUser("u1")
	board := suite.createTestBoard("Board", []uint64{u1.ID}, nil)
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Card")

	first, err := suite.service.AddComment(card.ID, u1.ID, "first")
	suite.Require().NoError(err)
	second, err := suite.service.AddComment(card.ID, u1.ID, "second")
	suite.Require().NoError(err)

	err = suite.service.DeleteComment(card.ID, u1.ID, first.ID)
	suite.Require().NoError(err)

	reloaded := suite.reloadCard(card.ID)
	suite.Require().Len(reloaded.Comments, 1)
	assert.Equal(suite.T(), second.ID, reloaded.Comments[0].ID)

	var records []models.ActivityRecord
	suite.db.Where("card_id = ? AND type = ?", card.ID, models.ActivityAddEditComment).Find(&records)
	suite.Require().Len(records, 1)
	id, ok := records[0].Data.String("commentId")
	suite.Require().True(ok)
	assert.Equal(suite.T(), second.ID, id)
}

// TestDeleteComment_NotAuthor tests that only the author may delete.
func (suite *CardServiceTestSuite) TestDeleteComment_NotAuthor() {
	u1 := suite.createTestUser("u1")
	u2 := suite.createTestUser("u2")
	board := suite.createTestBoard("Board", []uint64{u1.ID}, []uint64{u2.ID})
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Card")

	comment, err := suite.service.AddComment(card.ID, u1.ID, "mine")
	suite.Require().NoError(err)

	err = suite.service.DeleteComment(card.ID, u2.ID, comment.ID)
	assert.ErrorIs(suite.T(), err, ErrNotCommentAuthor)
}

// TestApplyCardPatch_ToggleChecklistItem tests the checklist toggle patch and
// its fire-and-forget audit append.
func (suite *CardServiceTestSuite) TestApplyCardPatch_ToggleChecklistItem() {
	u1 := suite.createTestUser("u1")
	board := suite.createTestBoard("Board", []uint64{u1.ID}, nil)
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Card")
	card.Checklists = models.Checklists{
		{ID: "cl-1", Title: "Steps", Items: []models.ChecklistItem{{ID: "item-1", Title: "one"}}},
	}
	suite.db.Save(card)

	updated, err := suite.service.ApplyCardPatch(card.ID, u1.ID, ToggleChecklistItemPatch{
		ChecklistID: "cl-1",
		ItemID:      "item-1",
		Checked:     true,
	})
	suite.Require().NoError(err)
	assert.True(suite.T(), updated.Checklists[0].Items[0].IsChecked)

	var count int64
	suite.db.Model(&models.ActivityRecord{}).
		Where("card_id = ? AND type = ?", card.ID, models.ActivityCheckChecklistItem).
		Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestApplyCardPatch_AddMemberRejectsDuplicate tests the member patch guard.
func (suite *CardServiceTestSuite) TestApplyCardPatch_AddMemberRejectsDuplicate() {
	u1 := suite.createTestUser("u1")
	u2 := suite.createTestUser("u2")
	board := suite.createTestBoard("Board", []uint64{u1.ID}, []uint64{u2.ID})
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Card")

	updated, err := suite.service.ApplyCardPatch(card.ID, u1.ID, AddCardMemberPatch{UserID: u2.ID})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.IDList{u2.ID}, updated.MemberIDs)

	_, err = suite.service.ApplyCardPatch(card.ID, u1.ID, AddCardMemberPatch{UserID: u2.ID})
	assert.ErrorIs(suite.T(), err, ErrAlreadyCardMember)
}

// TestCardServiceTestSuite runs the test suite
func TestCardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CardServiceTestSuite))
}
