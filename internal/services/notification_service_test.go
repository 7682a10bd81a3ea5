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

// NotificationServiceTestSuite defines the test suite for NotificationService
type NotificationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *NotificationService
}

// SetupTest runs before each test
func (suite *NotificationServiceTestSuite) SetupTest() {
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

	// Hub deliberately nil: persistence must not depend on connected clients
	suite.service = NewNotificationService(
		suite.db,
		repository.NewNotificationRepository(suite.db),
		repository.NewBoardRepository(suite.db),
		repository.NewUserRepository(suite.db),
		nil,
	)
}

// TearDownTest runs after each test
func (suite *NotificationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *NotificationServiceTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		DisplayName:  username,
	}
	suite.db.Create(user)
	return user
}

func (suite *NotificationServiceTestSuite) createTestBoard(title string, owners, members []uint64) *models.Board {
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

func (suite *NotificationServiceTestSuite) reloadBoard(id uint64) *models.Board {
	var board models.Board
	suite.db.First(&board, id)
	return &board
}

// TestInvite_DedupWhilePending tests that a second invitation for the same
// recipient and board returns the existing PENDING record instead of
// inserting a new one, and that a settled record unblocks a fresh invite.
func (suite *NotificationServiceTestSuite) TestInvite_DedupWhilePending() {
	owner := suite.createTestUser("owner")
	invitee := suite.createTestUser("invitee")
	board := suite.createTestBoard("b1", []uint64{owner.ID}, nil)

	first, created, err := suite.service.InviteToBoard(owner.ID, board.ID, invitee.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), created)
	assert.Equal(suite.T(), models.StatusPending, first.Status)

	second, created, err := suite.service.InviteToBoard(owner.ID, board.ID, invitee.ID)
	suite.Require().NoError(err)
	assert.False(suite.T(), created)
	assert.Equal(suite.T(), first.ID, second.ID)

	var count int64
	suite.db.Model(&models.Notification{}).
		Where("user_id = ? AND board_id = ?", invitee.ID, board.ID).
		Count(&count)
	assert.Equal(suite.T(), int64(1), count)

	// A rejected invitation no longer blocks a new one
	_, err = suite.service.Respond(invitee.ID, first.ID, false)
	suite.Require().NoError(err)

	third, created, err := suite.service.InviteToBoard(owner.ID, board.ID, invitee.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), created)
	assert.NotEqual(suite.T(), first.ID, third.ID)
	assert.Equal(suite.T(), models.StatusPending, third.Status)
}

// TestInvite_ExistingMember tests that members cannot be re-invited.
func (suite *NotificationServiceTestSuite) TestInvite_ExistingMember() {
	owner := suite.createTestUser("owner")
	member := suite.createTestUser("member")
	board := suite.createTestBoard("b1", []uint64{owner.ID}, []uint64{member.ID})

	_, _, err := suite.service.InviteToBoard(owner.ID, board.ID, member.ID)
	assert.ErrorIs(suite.T(), err, ErrAlreadyBoardMember)
}

// TestRespond_AcceptInvitation tests the happy path: accept adds the invitee
// to the member list, marks the record ACCEPTED, and appends an activity.
func (suite *NotificationServiceTestSuite) TestRespond_AcceptInvitation() {
	owner := suite.createTestUser("owner")
	invitee := suite.createTestUser("invitee")
	board := suite.createTestBoard("b1", []uint64{owner.ID}, nil)

	n, _, err := suite.service.InviteToBoard(owner.ID, board.ID, invitee.ID)
	suite.Require().NoError(err)

	accepted, err := suite.service.Respond(invitee.ID, n.ID, true)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.StatusAccepted, accepted.Status)

	reloaded := suite.reloadBoard(board.ID)
	assert.True(suite.T(), reloaded.MemberIDs.Contains(invitee.ID))

	var count int64
	suite.db.Model(&models.ActivityRecord{}).
		Where("board_id = ? AND type = ?", board.ID, models.ActivityAcceptInvitation).
		Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestRespond_AcceptWhenAlreadyMember tests that accepting an invitation for
// a user who joined in the meantime conflicts and leaves membership and
// status untouched.
func (suite *NotificationServiceTestSuite) TestRespond_AcceptWhenAlreadyMember() {
	owner := suite.createTestUser("owner")
	invitee := suite.createTestUser("invitee")
	board := suite.createTestBoard("b1", []uint64{owner.ID}, nil)

	n, _, err := suite.service.InviteToBoard(owner.ID, board.ID, invitee.ID)
	suite.Require().NoError(err)

	// The invitee joins through another path before responding
	board = suite.reloadBoard(board.ID)
	board.MemberIDs = board.MemberIDs.Append(invitee.ID)
	suite.db.Save(board)

	_, err = suite.service.Respond(invitee.ID, n.ID, true)
	assert.ErrorIs(suite.T(), err, ErrAlreadyBoardMember)

	var record models.Notification
	suite.db.First(&record, n.ID)
	assert.Equal(suite.T(), models.StatusPending, record.Status)

	reloaded := suite.reloadBoard(board.ID)
	assert.Equal(suite.T(), models.IDList{invitee.ID}, reloaded.MemberIDs)
}

// TestRespond_NotRecipient tests that only the recipient can settle a record.
func (suite *NotificationServiceTestSuite) TestRespond_NotRecipient() {
	owner := suite.createTestUser("owner")
	invitee := suite.createTestUser("invitee")
	stranger := suite.createTestUser("stranger")
	board := suite.createTestBoard("b1", []uint64{owner.ID}, nil)

	n, _, err := suite.service.InviteToBoard(owner.ID, board.ID, invitee.ID)
	suite.Require().NoError(err)

	_, err = suite.service.Respond(stranger.ID, n.ID, true)
	assert.ErrorIs(suite.T(), err, ErrNotRecipient)
}

// TestRespond_AlreadySettled tests that ACCEPTED and REJECTED are terminal.
func (suite *NotificationServiceTestSuite) TestRespond_AlreadySettled() {
	owner := suite.createTestUser("owner")
	invitee := suite.createTestUser("invitee")
	board := suite.createTestBoard("b1", []uint64{owner.ID}, nil)

	n, _, err := suite.service.InviteToBoard(owner.ID, board.ID, invitee.ID)
	suite.Require().NoError(err)

	_, err = suite.service.Respond(invitee.ID, n.ID, false)
	suite.Require().NoError(err)

	_, err = suite.service.Respond(invitee.ID, n.ID, true)
	assert.ErrorIs(suite.T(), err, ErrNotPending)
}

// TestRequestToJoin_CreditsRequesterOnAccept tests that join requests go to
// the first owner and accepting credits the requester, not the recipient.
func (suite *NotificationServiceTestSuite) TestRequestToJoin_CreditsRequesterOnAccept() {
	owner := suite.createTestUser("owner")
	requester := suite.createTestUser("requester")
	board := suite.createTestBoard("b1", []uint64{owner.ID}, nil)

	n, created, err := suite.service.RequestToJoin(requester.ID, board.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), created)
	assert.Equal(suite.T(), owner.ID, n.UserID)
	assert.Equal(suite.T(), requester.ID, n.SenderID)

	accepted, err := suite.service.Respond(owner.ID, n.ID, true)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.StatusAccepted, accepted.Status)

	reloaded := suite.reloadBoard(board.ID)
	assert.True(suite.T(), reloaded.MemberIDs.Contains(requester.ID))
	assert.False(suite.T(), reloaded.MemberIDs.Contains(owner.ID))
}

// TestMarkRead_RecipientOnly tests read flagging and its recipient guard.
func (suite *NotificationServiceTestSuite) TestMarkRead_RecipientOnly() {
	owner := suite.createTestUser("owner")
	invitee := suite.createTestUser("invitee")
	stranger := suite.createTestUser("stranger")
	board := suite.createTestBoard("b1", []uint64{owner.ID}, nil)

	n, _, err := suite.service.InviteToBoard(owner.ID, board.ID, invitee.ID)
	suite.Require().NoError(err)

	read, err := suite.service.MarkRead(invitee.ID, n.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), read.Read)

	_, err = suite.service.MarkRead(stranger.ID, n.ID)
	assert.ErrorIs(suite.T(), err, ErrNotRecipient)
}

// TestNotificationServiceTestSuite runs the test suite
func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
