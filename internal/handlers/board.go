package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hikarukin/taskboard-api/internal/dto"
	apierrors "github.com/hikarukin/taskboard-api/internal/errors"
	"github.com/hikarukin/taskboard-api/internal/middleware"
	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/services"
)

// BoardHandler coordinates board-related HTTP handlers.
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// CreateBoard creates a board owned by the authenticated user.
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type CreateBoardRequest struct {
		Title string           `json:"title" binding:"required,max=255"`
		Type  models.BoardType `json:"type" binding:"omitempty,oneof=public private"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.CreateBoard(services.CreateBoardInput{
		Title:   req.Title,
		Type:    req.Type,
		ActorID: userID,
	})
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board))
}

// ListBoards returns the boards the authenticated user belongs to.
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	boards, err := h.boardService.ListBoardsForUser(userID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	resp := dto.BoardListResponse{Boards: make([]dto.BoardDTO, len(boards))}
	for i, board := range boards {
		resp.Boards[i] = dto.ToBoardDTO(board)
	}

	c.JSON(http.StatusOK, resp)
}

// GetBoard returns the full board view.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	details, err := h.boardService.GetBoardDetails(boardID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDetailsDTO(details))
}

// UpdateBoard changes board title or type.
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	type UpdateBoardRequest struct {
		Title *string           `json:"title" binding:"omitempty,max=255"`
		Type  *models.BoardType `json:"type" binding:"omitempty,oneof=public private"`
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.UpdateBoard(boardID, userID, services.UpdateBoardInput{
		Title: req.Title,
		Type:  req.Type,
	})
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// SetBoardClosed closes or reopens a board.
func (h *BoardHandler) SetBoardClosed(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	type SetClosedRequest struct {
		IsClosed *bool `json:"is_closed" binding:"required"`
	}

	var req SetClosedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.SetBoardClosed(boardID, userID, *req.IsClosed)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// DeleteBoard removes a board and everything it contains.
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(boardID, userID); err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Board deleted successfully",
	})
}

// DuplicateBoard creates a template copy of a board.
func (h *BoardHandler) DuplicateBoard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	type DuplicateBoardRequest struct {
		Title string `json:"title" binding:"required,max=255"`
	}

	var req DuplicateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.DuplicateBoard(boardID, userID, req.Title)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board))
}

// AddMember adds a user to the board directly. Owner-only; the invitation
// flow is the non-privileged path.
func (h *BoardHandler) AddMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.AddMember(boardID, userID, req.UserID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// RemoveMember drops a member from the board.
func (h *BoardHandler) RemoveMember(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	board, err := h.boardService.RemoveMember(boardID, userID, targetID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// SetOwner promotes a member to owner or demotes an owner to member.
func (h *BoardHandler) SetOwner(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type SetOwnerRequest struct {
		IsOwner *bool `json:"is_owner" binding:"required"`
	}

	var req SetOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.SetOwner(boardID, userID, targetID, *req.IsOwner)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// CreateLabel adds a label to the board.
func (h *BoardHandler) CreateLabel(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	type CreateLabelRequest struct {
		Title string `json:"title" binding:"max=255"`
		Color string `json:"color" binding:"required,max=50"`
	}

	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	label, err := h.boardService.CreateLabel(boardID, userID, req.Title, req.Color)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLabelDTO(*label))
}

// UpdateLabel changes a label's title or color.
func (h *BoardHandler) UpdateLabel(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	labelID, err := strconv.ParseUint(c.Param("labelId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid label ID")
		return
	}

	type UpdateLabelRequest struct {
		Title *string `json:"title" binding:"omitempty,max=255"`
		Color *string `json:"color" binding:"omitempty,max=50"`
	}

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	label, err := h.boardService.UpdateLabel(boardID, labelID, userID, req.Title, req.Color)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLabelDTO(*label))
}

// DeleteLabel removes a label from the board and from every card holding it.
func (h *BoardHandler) DeleteLabel(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	labelID, err := strconv.ParseUint(c.Param("labelId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid label ID")
		return
	}

	if err := h.boardService.DeleteLabel(boardID, labelID, userID); err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Label deleted successfully",
	})
}

func boardIDParam(c *gin.Context) (uint64, bool) {
	boardID, err := strconv.ParseUint(c.Param("boardId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid board ID")
		return 0, false
	}
	return boardID, true
}

func respondBoardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBoardNotFound),
		errors.Is(err, services.ErrLabelNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrBoardMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotBoardOwner),
		errors.Is(err, services.ErrNotBoardMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyBoardMember),
		errors.Is(err, services.ErrLastBoardOwner),
		errors.Is(err, services.ErrCannotRemoveOwner):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrBoardTitleRequired),
		errors.Is(err, services.ErrInvalidBoardType):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
