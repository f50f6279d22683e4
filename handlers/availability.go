package handlers

import (
	"log"
	"net/http"

	"termino-backend/dtos"
	"termino-backend/models"
	"termino-backend/scheduling"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AvailabilityHandler struct {
	DB *gorm.DB
}

// CheckAvailability serves POST /api/check-availability for the
// workflow-automation integration. The tenant was already resolved from the
// x-api-key header by the middleware. Even on internal errors the response
// keeps availability=false and an empty alternatives list so the caller's
// contract stays stable.
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	var req dtos.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dtos.CheckAvailabilityResponse{
			Availability: false,
			Alternatives: []string{},
			Error:        "date and time are required",
		})
		return
	}

	tenant := c.MustGet("tenant").(*models.Tenant)

	date, err := scheduling.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.CheckAvailabilityResponse{
			Availability:  false,
			Alternatives:  []string{},
			RequestedDate: req.Date,
			RequestedTime: req.Time,
			Error:         "invalid date format, expected YYYY-MM-DD or DD.MM.YYYY",
		})
		return
	}
	dateStr := date.Format("2006-01-02")

	cfg := scheduling.TenantConfig(*tenant)
	duration := req.Duration
	if duration <= 0 {
		duration = cfg.DefaultDurationMinutes
	}

	requested, err := scheduling.NewInterval(date, req.Time, duration)
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.CheckAvailabilityResponse{
			Availability:  false,
			Alternatives:  []string{},
			RequestedDate: dateStr,
			RequestedTime: req.Time,
			Error:         "invalid time format, expected HH:MM",
		})
		return
	}

	var hours []models.OpeningHours
	if err := h.DB.Where("tenant_id = ?", tenant.ID).Find(&hours).Error; err != nil {
		log.Printf("check-availability: failed to load opening hours for tenant %s: %v", tenant.ID, err)
		c.JSON(http.StatusInternalServerError, dtos.CheckAvailabilityResponse{
			Availability:  false,
			Alternatives:  []string{},
			RequestedDate: dateStr,
			RequestedTime: req.Time,
			Error:         "internal error",
		})
		return
	}
	week := models.MergeOpeningHours(hours)
	day := week[int(date.Weekday())]

	reservations, err := loadDayReservations(h.DB, tenant.ID, dateStr, nil)
	if err != nil {
		log.Printf("check-availability: failed to load reservations for tenant %s: %v", tenant.ID, err)
		c.JSON(http.StatusInternalServerError, dtos.CheckAvailabilityResponse{
			Availability:  false,
			Alternatives:  []string{},
			RequestedDate: dateStr,
			RequestedTime: req.Time,
			Error:         "internal error",
		})
		return
	}
	intervals := scheduling.CollectIntervals(reservations)

	available := scheduling.WithinHours(requested, date, day) && scheduling.IsAvailable(requested, intervals)

	alternatives := []string{}
	if !available {
		alternatives = append(alternatives, scheduling.Alternatives(date, day, intervals, duration, cfg)...)
	}

	c.JSON(http.StatusOK, dtos.CheckAvailabilityResponse{
		Availability:  available,
		Alternatives:  alternatives,
		RequestedDate: dateStr,
		RequestedTime: req.Time,
	})
}
