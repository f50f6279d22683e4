package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"termino-backend/models"
	"termino-backend/scheduling"
	"termino-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationHandler struct {
	DB *gorm.DB
}

func (h *ReservationHandler) ListReservations(c *gin.Context) {
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

	query := h.DB.Model(&models.Reservation{}).Where("tenant_id = ?", tenantID)

	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if staffID := c.Query("staff_member_id"); staffID != "" {
		query = query.Where("staff_member_id = ?", staffID)
	}

	var total int64
	query.Count(&total)

	var reservations []models.Reservation
	if err := query.Preload("StaffMember").Preload("Contact").
		Order("date ASC, start_time ASC").Offset(offset).Limit(limit).
		Find(&reservations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": reservations,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var reservation models.Reservation
	if err := h.DB.Preload("StaffMember").Preload("Contact").
		Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).
		First(&reservation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// CreateReservation books from the portal. It runs the same availability
// re-check as the integrations; there is no force flag to skip it.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	tID := tenantID.(uuid.UUID)

	var req struct {
		Date            string     `json:"date" binding:"required"`
		StartTime       string     `json:"start_time" binding:"required"`
		DurationMinutes int        `json:"duration_minutes"`
		StaffMemberID   *uuid.UUID `json:"staff_member_id"`
		CustomerName    string     `json:"customer_name"`
		CustomerPhone   string     `json:"customer_phone"`
		CustomerEmail   string     `json:"customer_email"`
		Notes           string     `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var tenant models.Tenant
	if err := h.DB.Where("id = ?", tID).First(&tenant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}

	date, err := scheduling.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD or DD.MM.YYYY"})
		return
	}
	dateStr := date.Format("2006-01-02")

	cfg := scheduling.TenantConfig(tenant)
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = cfg.DefaultDurationMinutes
	}

	requested, err := scheduling.NewInterval(date, req.StartTime, duration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_time format, expected HH:MM"})
		return
	}

	if req.StaffMemberID != nil {
		ok, err := h.staffCanTake(tID, *req.StaffMemberID, date, requested)
		if err != nil {
			log.Printf("reservation: staff availability check failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check staff availability"})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Staff member is not available at this time"})
			return
		}
	}

	reservation, conflict, err := bookReservation(h.DB, tenant, bookingParams{
		Date:            dateStr,
		StartTime:       req.StartTime,
		DurationMinutes: duration,
		StaffMemberID:   req.StaffMemberID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Notes:           req.Notes,
		Source:          "portal",
	})
	if err != nil {
		log.Printf("reservation: booking failed for tenant %s: %v", tID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}
	if conflict != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":        fmt.Sprintf("The slot %s %s is already taken", dateStr, req.StartTime),
			"alternatives": conflict.Alternatives,
		})
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// staffCanTake verifies the staff member exists for this tenant, is active
// and is on shift with no blocking exception for the whole interval.
func (h *ReservationHandler) staffCanTake(tenantID, staffID uuid.UUID, date time.Time, requested scheduling.Interval) (bool, error) {
	var staff models.StaffMember
	if err := h.DB.Where("id = ? AND tenant_id = ?", staffID, tenantID).First(&staff).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	if !staff.IsActive {
		return false, nil
	}

	var shifts []models.StaffShift
	if err := h.DB.Where("staff_member_id = ?", staff.ID).Find(&shifts).Error; err != nil {
		return false, err
	}

	var exceptions []models.ShiftException
	if err := h.DB.Where("staff_member_id = ? AND exception_date = ?", staff.ID, date.Format("2006-01-02")).
		Find(&exceptions).Error; err != nil {
		return false, err
	}

	return scheduling.StaffCanTake(scheduling.ShiftFor(shifts, requested.Start), exceptions, requested), nil
}

func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var reservation models.Reservation
	if err := h.DB.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&reservation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	var req struct {
		CustomerName  *string    `json:"customer_name"`
		CustomerPhone *string    `json:"customer_phone"`
		CustomerEmail *string    `json:"customer_email"`
		Notes         *string    `json:"notes"`
		StaffMemberID *uuid.UUID `json:"staff_member_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	updates := map[string]interface{}{}
	if req.CustomerName != nil {
		updates["customer_name"] = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		updates["customer_phone"] = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		updates["customer_email"] = *req.CustomerEmail
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.StaffMemberID != nil {
		updates["staff_member_id"] = *req.StaffMemberID
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&reservation).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reservation"})
			return
		}
	}

	h.DB.Preload("StaffMember").Preload("Contact").First(&reservation, reservation.ID)
	c.JSON(http.StatusOK, reservation)
}

// UpdateStatus moves a reservation through the status state machine.
// Invalid transitions are rejected, not silently applied.
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var reservation models.Reservation
	if err := h.DB.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&reservation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	newStatus := models.ReservationStatus(req.Status)
	if !models.IsValidStatusTransition(reservation.Status, newStatus) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Cannot change status from %s to %s", reservation.Status, newStatus),
		})
		return
	}

	if err := h.DB.Model(&reservation).Update("status", newStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	if newStatus == models.ReservationStatusCancelled && reservation.CustomerEmail != "" {
		var tenant models.Tenant
		if err := h.DB.Where("id = ?", reservation.TenantID).First(&tenant).Error; err == nil {
			utils.SendCancellationNotice(reservation.CustomerEmail, reservation.CustomerName, tenant.Name, reservation.Date, reservation.StartTime)
		}
	}

	reservation.Status = newStatus
	c.JSON(http.StatusOK, reservation)
}

// CancelReservation is a convenience shortcut for the cancelled transition.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var reservation models.Reservation
	if err := h.DB.Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&reservation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	if !models.IsValidStatusTransition(reservation.Status, models.ReservationStatusCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Cannot cancel a %s reservation", reservation.Status),
		})
		return
	}

	if err := h.DB.Model(&reservation).Update("status", models.ReservationStatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel reservation"})
		return
	}

	if reservation.CustomerEmail != "" {
		var tenant models.Tenant
		if err := h.DB.Where("id = ?", reservation.TenantID).First(&tenant).Error; err == nil {
			utils.SendCancellationNotice(reservation.CustomerEmail, reservation.CustomerName, tenant.Name, reservation.Date, reservation.StartTime)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled"})
}
