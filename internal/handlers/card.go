package handlers

import (
	"encoding/json"
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

// CardHandler coordinates card-related HTTP handlers.
type CardHandler struct {
	cardService *services.CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService *services.CardService) *CardHandler {
	return &CardHandler{
		cardService: cardService,
	}
}

// CreateCard creates a card at the end of a column.
func (h *CardHandler) CreateCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	type CreateCardRequest struct {
		ColumnID uint64 `json:"column_id" binding:"required"`
		Title    string `json:"title" binding:"required,max=255"`
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.cardService.CreateCard(services.CreateCardInput{
		ColumnID: req.ColumnID,
		Title:    req.Title,
		ActorID:  userID,
	})
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCardDTO(*card))
}

// GetCard returns a single card.
func (h *CardHandler) GetCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cardID, ok := cardIDParam(c)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(cardID, userID)
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCardDTO(*card))
}

// UpdateCard updates a card's plain fields.
func (h *CardHandler) UpdateCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cardID, ok := cardIDParam(c)
	if !ok {
		return
	}

	type UpdateCardRequest struct {
		Title       *string         `json:"title" binding:"omitempty,max=255"`
		Description *string         `json:"description"`
		Location    *string         `json:"location" binding:"omitempty,max=255"`
		CoverURL    *string         `json:"cover_url" binding:"omitempty,max=512"`
		Due         *models.CardDue `json:"due"`
		IsClosed    *bool           `json:"is_closed"`
		IsCompleted *bool           `json:"is_completed"`
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.cardService.UpdateCard(cardID, userID, services.UpdateCardInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		CoverURL:    req.CoverURL,
		Due:         req.Due,
		IsClosed:    req.IsClosed,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCardDTO(*card))
}

// DeleteCard removes a card.
func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cardID, ok := cardIDParam(c)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(cardID, userID); err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Card deleted successfully",
	})
}

// MoveCard relocates a card within or across columns and boards.
func (h *CardHandler) MoveCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cardID, ok := cardIDParam(c)
	if !ok {
		return
	}

	type MoveCardRequest struct {
		SourceColumnID uint64 `json:"source_column_id" binding:"required"`
		DestColumnID   uint64 `json:"dest_column_id" binding:"required"`
		Position       *int   `json:"position" binding:"required"`
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.cardService.MoveCard(services.MoveCardInput{
		CardID:         cardID,
		SourceColumnID: req.SourceColumnID,
		DestColumnID:   req.DestColumnID,
		Position:       *req.Position,
		ActorID:        userID,
	})
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCardDTO(*card))
}

// CopyCard duplicates a card, carrying only the requested items.
func (h *CardHandler) CopyCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cardID, ok := cardIDParam(c)
	if !ok {
		return
	}

	type CopyCardRequest struct {
		DestColumnID uint64   `json:"dest_column_id" binding:"required"`
		Position     *int     `json:"position" binding:"required"`
		Title        string   `json:"title" binding:"omitempty,max=255"`
		KeepItems    []string `json:"keep_items"`
	}

	var req CopyCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	card, err := h.cardService.CopyCard(services.CopyCardInput{
		CardID:       cardID,
		DestColumnID: req.DestColumnID,
		Position:     *req.Position,
		Title:        req.Title,
		KeepItems:    req.KeepItems,
		ActorID:      userID,
	})
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCardDTO(*card))
}

// PatchCard applies one structured card update, discriminated by "action".
func (h *CardHandler) PatchCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cardID, ok := cardIDParam(c)
	if !ok {
		return
	}

	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	patch, err := decodeCardPatch(raw)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAction) {
			apierrors.InvalidAction(c, err.Error())
		} else {
			apierrors.BadRequest(c, "Invalid request body")
		}
		return
	}

	card, err := h.cardService.ApplyCardPatch(cardID, userID, patch)
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCardDTO(*card))
}

// AddComment appends a comment to a card.
func (h *CardHandler) AddComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cardID, ok := cardIDParam(c)
	if !ok {
		return
	}

	type AddCommentRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.cardService.AddComment(cardID, userID, req.Text)
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// EditComment rewrites a comment's text. Author-only.
func (h *CardHandler) EditComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cardID, ok := cardIDParam(c)
	if !ok {
		return
	}
	commentID := c.Param("commentId")

	type EditCommentRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req EditCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.cardService.EditComment(cardID, userID, commentID, req.Text)
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment and its audit record. Author-only.
func (h *CardHandler) DeleteComment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	cardID, ok := cardIDParam(c)
	if !ok {
		return
	}
	commentID := c.Param("commentId")

	if err := h.cardService.DeleteComment(cardID, userID, commentID); err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}

// decodeCardPatch turns an action-discriminated JSON body into the matching
// patch value. Unknown actions map to the invalid-action error.
func decodeCardPatch(raw json.RawMessage) (services.CardPatch, error) {
	var body struct {
		Action       string   `json:"action"`
		Title        string   `json:"title"`
		ChecklistID  string   `json:"checklist_id"`
		ItemID       string   `json:"item_id"`
		Checked      *bool    `json:"checked"`
		UserID       uint64   `json:"user_id"`
		UserIDs      []uint64 `json:"user_ids"`
		Name         string   `json:"name"`
		URL          string   `json:"url"`
		AttachmentID string   `json:"attachment_id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}

	switch body.Action {
	case "addChecklist":
		return services.AddChecklistPatch{Title: body.Title}, nil
	case "removeChecklist":
		return services.RemoveChecklistPatch{ChecklistID: body.ChecklistID}, nil
	case "renameChecklist":
		return services.RenameChecklistPatch{ChecklistID: body.ChecklistID, Title: body.Title}, nil
	case "addChecklistItem":
		return services.AddChecklistItemPatch{ChecklistID: body.ChecklistID, Title: body.Title}, nil
	case "toggleChecklistItem":
		checked := body.Checked != nil && *body.Checked
		return services.ToggleChecklistItemPatch{ChecklistID: body.ChecklistID, ItemID: body.ItemID, Checked: checked}, nil
	case "assignChecklistItem":
		return services.AssignChecklistItemPatch{ChecklistID: body.ChecklistID, ItemID: body.ItemID, UserIDs: body.UserIDs}, nil
	case "addCardMember":
		return services.AddCardMemberPatch{UserID: body.UserID}, nil
	case "removeCardMember":
		return services.RemoveCardMemberPatch{UserID: body.UserID}, nil
	case "addAttachment":
		return services.AddAttachmentPatch{Name: body.Name, URL: body.URL}, nil
	case "removeAttachment":
		return services.RemoveAttachmentPatch{AttachmentID: body.AttachmentID}, nil
	default:
		return nil, services.ErrInvalidAction
	}
}

func cardIDParam(c *gin.Context) (uint64, bool) {
	cardID, err := strconv.ParseUint(c.Param("cardId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid card ID")
		return 0, false
	}
	return cardID, true
}

func respondCardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCardNotFound),
		errors.Is(err, services.ErrColumnNotFound),
		errors.Is(err, services.ErrBoardNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrChecklistNotFound),
		errors.Is(err, services.ErrChecklistItemNotFound),
		errors.Is(err, services.ErrAttachmentNotFound),
		errors.Is(err, services.ErrLabelNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotBoardMember),
		errors.Is(err, services.ErrNotCommentAuthor):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyCardMember),
		errors.Is(err, services.ErrCardMemberNotFound):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrInvalidCopyItem):
		apierrors.InvalidAction(c, err.Error())
	case errors.Is(err, services.ErrCardTitleRequired),
		errors.Is(err, services.ErrCardNotInColumn):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
