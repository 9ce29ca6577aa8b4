package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/httpresp"
	"github.com/marmushop/booking-api/internal/middleware"
	"github.com/marmushop/booking-api/internal/models"
)

type FeedbackHandler struct {
	db *gorm.DB
}

func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{db: db}
}

// --------- Requests ---------

type CreateFeedbackRequest struct {
	Stars   int    `json:"stars" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ======================================================
// LIST (public)
// ======================================================

// List serves the public testimonial wall, newest first.
func (h *FeedbackHandler) List(c *gin.Context) {
	var rows []models.Feedback
	if err := h.db.Order("created_at DESC").Limit(50).Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not load feedback.")
		return
	}

	data := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		data = append(data, gin.H{
			"id":         row.ID,
			"username":   row.Username,
			"stars":      row.Stars,
			"message":    row.Message,
			"reply":      row.Reply,
			"created_at": row.CreatedAt,
		})
	}

	httpresp.List(c, data)
}

// ======================================================
// CREATE (authenticated)
// ======================================================

func (h *FeedbackHandler) Create(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uint)
	username := c.MustGet(middleware.ContextUsername).(string)

	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Stars and message are required.")
		return
	}

	if req.Stars < 1 || req.Stars > 5 {
		httperr.BadRequest(c, "invalid_stars", "Stars must be between 1 and 5.")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		httperr.BadRequest(c, "empty_message", "Message cannot be empty.")
		return
	}

	feedback := models.Feedback{
		AccountID: accountID,
		Username:  username,
		Stars:     req.Stars,
		Message:   message,
	}

	if err := h.db.Create(&feedback).Error; err != nil {
		httperr.Internal(c, "failed_to_create", "Could not save feedback.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Thank you for your feedback!",
		"id":      feedback.ID,
	})
}
