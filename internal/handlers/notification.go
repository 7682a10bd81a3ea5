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

// NotificationHandler coordinates notification and membership-request HTTP
// handlers.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// InviteToBoard sends a board invitation to another user.
func (h *NotificationHandler) InviteToBoard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	type InviteRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	notification, created, err := h.notificationService.InviteToBoard(userID, boardID, req.UserID)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToNotificationDTO(*notification))
}

// RequestToJoin files a join request with the board's first owner.
func (h *NotificationHandler) RequestToJoin(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	notification, created, err := h.notificationService.RequestToJoin(userID, boardID)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, dto.ToNotificationDTO(*notification))
}

// Respond accepts or rejects a pending invitation or join request.
func (h *NotificationHandler) Respond(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	notificationID, ok := notificationIDParam(c)
	if !ok {
		return
	}

	type RespondRequest struct {
		Accept *bool `json:"accept" binding:"required"`
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	notification, err := h.notificationService.Respond(userID, notificationID, *req.Accept)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationDTO(*notification))
}

// ListNotifications returns the authenticated user's notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	notifications, err := h.notificationService.ListForUser(userID, limit)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	resp := dto.NotificationListResponse{
		Notifications: make([]dto.NotificationDTO, len(notifications)),
	}
	for i, n := range notifications {
		resp.Notifications[i] = dto.ToNotificationDTO(n)
	}

	c.JSON(http.StatusOK, resp)
}

// MarkRead flags a notification as seen.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	notificationID, ok := notificationIDParam(c)
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(userID, notificationID)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationDTO(*notification))
}

func notificationIDParam(c *gin.Context) (uint64, bool) {
	notificationID, err := strconv.ParseUint(c.Param("notificationId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid notification ID")
		return 0, false
	}
	return notificationID, true
}

func respondNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrBoardNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotRecipient),
		errors.Is(err, services.ErrNotBoardMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotPending),
		errors.Is(err, services.ErrAlreadyBoardMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotMembershipKind),
		errors.Is(err, services.ErrCannotInviteSelf):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
