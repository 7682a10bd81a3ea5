package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hikarukin/taskboard-api/internal/dto"
	apierrors "github.com/hikarukin/taskboard-api/internal/errors"
	"github.com/hikarukin/taskboard-api/internal/models"
	"github.com/hikarukin/taskboard-api/internal/services"
	"github.com/hikarukin/taskboard-api/internal/utils"
)

// ActivityHandler serves the read side of the audit log.
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// ListBoardActivities returns a board's activity feed, newest first.
func (h *ActivityHandler) ListBoardActivities(c *gin.Context) {
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := strconv.ParseUint(userIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user ID")
			return
		}

		records, _, err := h.activityService.ListUserActivities(boardID, userID, params.Page, params.Limit)
		if err != nil {
			apierrors.InternalError(c, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, toActivityListResponse(records, params.Page, params.Limit))
		return
	}

	records, _, err := h.activityService.ListBoardActivities(boardID, params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, toActivityListResponse(records, params.Page, params.Limit))
}

// ListCardActivities returns one card's activity entries.
func (h *ActivityHandler) ListCardActivities(c *gin.Context) {
	boardID, ok := boardIDParam(c)
	if !ok {
		return
	}

	cardID, err := strconv.ParseUint(c.Param("cardId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid card ID")
		return
	}

	records, err := h.activityService.ListCardActivities(boardID, cardID)
	if err != nil {
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, toActivityListResponse(records, 1, len(records)))
}

func toActivityListResponse(records []models.ActivityRecord, page, pageSize int) dto.ActivityListResponse {
	resp := dto.ActivityListResponse{
		Activities: make([]dto.ActivityDTO, len(records)),
		Page:       page,
		PageSize:   pageSize,
	}
	for i, record := range records {
		resp.Activities[i] = dto.ToActivityDTO(record)
	}
	return resp
}
