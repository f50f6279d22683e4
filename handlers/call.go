package handlers

import (
	"net/http"
	"strconv"

	"termino-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CallHandler struct {
	DB *gorm.DB
}

// ListCalls shows the voice-agent call history next to the reservations it
// produced.
func (h *CallHandler) ListCalls(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := h.DB.Model(&models.CallLog{}).Where("tenant_id = ?", tenantID)
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if outcome := c.Query("outcome"); outcome != "" {
		query = query.Where("outcome = ?", outcome)
	}

	var total int64
	query.Count(&total)

	var calls []models.CallLog
	if err := query.Preload("Reservation").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&calls).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch call logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"calls": calls,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
