package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hikarukin/taskboard-api/internal/dto"
	apierrors "github.com/hikarukin/taskboard-api/internal/errors"
	"github.com/hikarukin/taskboard-api/internal/middleware"
	"github.com/hikarukin/taskboard-api/internal/services"
)

// ColumnHandler coordinates column-related HTTP handlers.
type ColumnHandler struct {
	columnService *services.ColumnService
}

// NewColumnHandler creates a new ColumnHandler.
func NewColumnHandler(columnService *services.ColumnService) *ColumnHandler {
	return &ColumnHandler{
		columnService: columnService,
	}
}

// CreateColumn appends a new column to a board.
func (h *ColumnHandler) CreateColumn(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	type CreateColumnRequest struct {
		Title string `json:"title" binding:"required,max=255"`
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.columnService.CreateColumn(boardID, userID, req.Title)
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToColumnDTO(*column))
}

// RenameColumn changes a column's title.
func (h *ColumnHandler) RenameColumn(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	columnID, ok := columnIDParam(c)
	if !ok {
		return
	}

	type RenameColumnRequest struct {
		Title string `json:"title" binding:"required,max=255"`
	}

	var req RenameColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.columnService.RenameColumn(columnID, userID, req.Title)
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToColumnDTO(*column))
}

// SetColumnClosed closes or reopens a column.
func (h *ColumnHandler) SetColumnClosed(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	columnID, ok := columnIDParam(c)
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

	column, err := h.columnService.SetColumnClosed(columnID, userID, *req.IsClosed)
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToColumnDTO(*column))
}

// DeleteColumn removes a column and its cards.
func (h *ColumnHandler) DeleteColumn(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	columnID, ok := columnIDParam(c)
	if !ok {
		return
	}

	if err := h.columnService.DeleteColumn(columnID, userID); err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Column deleted successfully",
	})
}

// ReplaceColumnOrder rewrites a board's column ordering.
func (h *ColumnHandler) ReplaceColumnOrder(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	type ReplaceOrderRequest struct {
		Order []uint64 `json:"order" binding:"required"`
	}

	var req ReplaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.columnService.ReplaceColumnOrder(boardID, userID, req.Order)
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// ReplaceCardOrder rewrites a column's card ordering.
func (h *ColumnHandler) ReplaceCardOrder(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	columnID, ok := columnIDParam(c)
	if !ok {
		return
	}

	type ReplaceOrderRequest struct {
		Order []uint64 `json:"order" binding:"required"`
	}

	var req ReplaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.columnService.ReplaceCardOrder(columnID, userID, req.Order)
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToColumnDTO(*column))
}

// MoveColumn relocates a column, possibly across boards.
func (h *ColumnHandler) MoveColumn(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	columnID, ok := columnIDParam(c)
	if !ok {
		return
	}

	type MoveColumnRequest struct {
		DestBoardID uint64 `json:"dest_board_id" binding:"required"`
		Position    *int   `json:"position" binding:"required"`
	}

	var req MoveColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.columnService.MoveColumn(services.MoveColumnInput{
		ColumnID:    columnID,
		DestBoardID: req.DestBoardID,
		Position:    *req.Position,
		ActorID:     userID,
	})
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToColumnDTO(*column))
}

// CopyColumn duplicates a column with its cards.
func (h *ColumnHandler) CopyColumn(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	columnID, ok := columnIDParam(c)
	if !ok {
		return
	}

	type CopyColumnRequest struct {
		DestBoardID uint64 `json:"dest_board_id" binding:"required"`
		Position    *int   `json:"position" binding:"required"`
	}

	var req CopyColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.columnService.CopyColumn(services.CopyColumnInput{
		ColumnID:    columnID,
		DestBoardID: req.DestBoardID,
		Position:    *req.Position,
		ActorID:     userID,
	})
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToColumnDTO(*column))
}

func columnIDParam(c *gin.Context) (uint64, bool) {
	columnID, err := strconv.ParseUint(c.Param("columnId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid column ID")
		return 0, false
	}
	return columnID, true
}

func respondColumnError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrColumnNotFound),
		errors.Is(err, services.ErrBoardNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotBoardMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrColumnTitleRequired),
		errors.Is(err, services.ErrColumnBoardMismatch):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
