package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/hikarukin/taskboard-api/internal/database"
	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/repository"
	"github.com/hikarukin/taskboard-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CardHandlerTestSuite defines the test suite for CardHandler
type CardHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *CardHandler
}

// SetupTest runs before each test
func (suite *CardHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

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

	database.SetDB(suite.db)

	cardService := services.NewCardService(
		suite.db,
		repository.NewCardRepository(suite.db),
		repository.NewColumnRepository(suite.db),
		repository.NewBoardRepository(suite.db),
		services.NewActivityService(repository.NewActivityRepository(suite.db)),
	)
	suite.handler = NewCardHandler(cardService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *CardHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *CardHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		DisplayName:  username,
	}
	suite.db.Create(user)
	return user
}

func (suite *CardHandlerTestSuite) createTestBoard(title string, ownerID uint64) *models.Board {
	board := &models.Board{
		Title:          title,
		Slug:           title + "-slug",
		Type:           models.BoardTypePrivate,
		OwnerIDs:       models.IDList{ownerID},
		MemberIDs:      models.IDList{},
		ColumnOrderIDs: models.IDList{},
	}
	suite.db.Create(board)
	return board
}

func (suite *CardHandlerTestSuite) createTestColumn(boardID uint64, title string) *models.Column {
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

func (suite *CardHandlerTestSuite) createTestCard(boardID, columnID uint64, title string) *models.Card {
	card := &models.Card{
		BoardID:   boardID,
		ColumnID:  columnID,
		Title:     title,
		MemberIDs: models.IDList{},
		LabelIDs:  models.IDList{},
	}
	suite.db.Create(card)

	var column models.Column
	suite.db.First(&column, columnID)
	column.CardOrderIDs = column.CardOrderIDs.Append(card.ID)
	suite.db.Save(&column)

	return card
}

// Helper function to create authenticated context
func (suite *CardHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

// TestCreateCard_Success tests successful card creation
func (suite *CardHandlerTestSuite) TestCreateCard_Success() {
	user := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", user.ID)
	column := suite.createTestColumn(board.ID, "To Do")

	requestBody := map[string]interface{}{
		"column_id": column.ID,
		"title":     "New Card",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/cards", body, user.ID)

	suite.handler.CreateCard(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New Card", response["title"])
}

// TestCreateCard_MissingTitle tests creation with a missing title
func (suite *CardHandlerTestSuite) TestCreateCard_MissingTitle() {
	user := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", user.ID)
	column := suite.createTestColumn(board.ID, "To Do")

	requestBody := map[string]interface{}{
		"column_id": column.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/cards", body, user.ID)

	suite.handler.CreateCard(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateCard_NotBoardMember tests creation by a non-member
func (suite *CardHandlerTestSuite) TestCreateCard_NotBoardMember() {
	owner := suite.createTestUser("owner")
	outsider := suite.createTestUser("outsider")
	board := suite.createTestBoard("Board", owner.ID)
	column := suite.createTestColumn(board.ID, "To Do")

	requestBody := map[string]interface{}{
		"column_id": column.ID,
		"title":     "New Card",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/cards", body, outsider.ID)

	suite.handler.CreateCard(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestGetCard_PrivateBoardOutsider tests that a non-member reading a private
// board's card by id gets a 404, not the card
func (suite *CardHandlerTestSuite) TestGetCard_PrivateBoardOutsider() {
	owner := suite.createTestUser("owner")
	outsider := suite.createTestUser("outsider")
	board := suite.createTestBoard("Board", owner.ID)
	column := suite.createTestColumn(board.ID, "To Do")
	suite.createTestCard(board.ID, column.ID, "Confidential card")

	c, w := suite.createAuthContext("GET", "/api/cards/1", nil, outsider.ID)
	c.Params = gin.Params{{Key: "cardId", Value: "1"}}

	suite.handler.GetCard(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.NotContains(suite.T(), w.Body.String(), "Confidential card")
}

// TestGetCard_Member tests that a board member reads the card normally
func (suite *CardHandlerTestSuite) TestGetCard_Member() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Card")

	c, w := suite.createAuthContext("GET", "/api/cards/1", nil, owner.ID)
	c.Params = gin.Params{{Key: "cardId", Value: "1"}}

	suite.handler.GetCard(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), card.Title, response["title"])
}

// TestPatchCard_AddChecklist tests a structured card update
func (suite *CardHandlerTestSuite) TestPatchCard_AddChecklist() {
	user := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", user.ID)
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Card")

	requestBody := map[string]interface{}{
		"action": "addChecklist",
		"title":  "Steps",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/cards/1/actions", body, user.ID)
	c.Params = gin.Params{{Key: "cardId", Value: "1"}}

	suite.handler.PatchCard(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var reloaded models.Card
	suite.db.First(&reloaded, card.ID)
	suite.Require().Len(reloaded.Checklists, 1)
	assert.Equal(suite.T(), "Steps", reloaded.Checklists[0].Title)
}

// TestPatchCard_UnknownAction tests that an unrecognized action is rejected
// with the invalid-action code and leaves the card untouched
func (suite *CardHandlerTestSuite) TestPatchCard_UnknownAction() {
	user := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", user.ID)
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Card")

	requestBody := map[string]interface{}{
		"action": "explodeCard",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/cards/1/actions", body, user.ID)
	c.Params = gin.Params{{Key: "cardId", Value: "1"}}

	suite.handler.PatchCard(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "INVALID_ACTION", response["code"])

	var reloaded models.Card
	suite.db.First(&reloaded, card.ID)
	assert.Len(suite.T(), reloaded.Checklists, 0)
}

// TestPatchCard_InvalidCardID tests a non-numeric path parameter
func (suite *CardHandlerTestSuite) TestPatchCard_InvalidCardID() {
	user := suite.createTestUser("owner")

	body, _ := json.Marshal(map[string]interface{}{"action": "addChecklist", "title": "Steps"})

	c, w := suite.createAuthContext("POST", "/api/cards/abc/actions", body, user.ID)
	c.Params = gin.Params{{Key: "cardId", Value: "abc"}}

	suite.handler.PatchCard(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestMoveCard_WrongSourceColumn tests a move with a stale source column
func (suite *CardHandlerTestSuite) TestMoveCard_WrongSourceColumn() {
	user := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", user.ID)
	col1 := suite.createTestColumn(board.ID, "To Do")
	col2 := suite.createTestColumn(board.ID, "Doing")
	suite.createTestCard(board.ID, col1.ID, "Card")

	requestBody := map[string]interface{}{
		"source_column_id": col2.ID,
		"dest_column_id":   col2.ID,
		"position":         0,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/cards/1/move", body, user.ID)
	c.Params = gin.Params{{Key: "cardId", Value: "1"}}

	suite.handler.MoveCard(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestDeleteComment_NotAuthor tests comment deletion by another user
func (suite *CardHandlerTestSuite) TestDeleteComment_NotAuthor() {
	author := suite.createTestUser("author")
	other := suite.createTestUser("other")
	board := suite.createTestBoard("Board", author.ID)
	board.MemberIDs = models.IDList{other.ID}
	suite.db.Save(board)
	column := suite.createTestColumn(board.ID, "To Do")
	card := suite.createTestCard(board.ID, column.ID, "Card")

	card.Comments = models.Comments{{ID: "com-1", UserID: author.ID, Text: "mine"}}
	suite.db.Save(card)

	c, w := suite.createAuthContext("DELETE", "/api/cards/1/comments/com-1", nil, other.ID)
	c.Params = gin.Params{{Key: "cardId", Value: "1"}, {Key: "commentId", Value: "com-1"}}

	suite.handler.DeleteComment(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestSuite runs the test suite
func TestCardHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CardHandlerTestSuite))
}
