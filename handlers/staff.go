package handlers

import (
	"fmt"
	"net/http"

	"termino-backend/models"
	"termino-backend/scheduling"
	"termino-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StaffHandler struct {
	DB *gorm.DB
}

// tenantStaff loads a staff member and verifies it belongs to the caller's
// tenant. Cross-tenant IDs look like missing rows, never like forbidden ones.
func (h *StaffHandler) tenantStaff(c *gin.Context, id string) (*models.StaffMember, bool) {
	tenantID, _ := c.Get("tenant_id")

	var staff models.StaffMember
	if err := h.DB.Where("id = ? AND tenant_id = ?", id, tenantID).First(&staff).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff member not found"})
		return nil, false
	}
	return &staff, true
}

func (h *StaffHandler) ListStaff(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	query := h.DB.Where("tenant_id = ?", tenantID)
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var staff []models.StaffMember
	if err := query.Order("sort_order ASC, created_at ASC").Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch staff"})
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) CreateStaff(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	tID := tenantID.(uuid.UUID)

	var req struct {
		Name      string `json:"name" binding:"required"`
		Color     string `json:"color"`
		SortOrder int    `json:"sort_order"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	staff := models.StaffMember{
		TenantID:  tID,
		Name:      req.Name,
		Color:     req.Color,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}

	if err := h.DB.Create(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create staff member"})
		return
	}

	c.JSON(http.StatusCreated, staff)
}

func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	staff, ok := h.tenantStaff(c, c.Param("id"))
	if !ok {
		return
	}

	var req struct {
		Name      *string `json:"name"`
		Color     *string `json:"color"`
		IsActive  *bool   `json:"is_active"`
		SortOrder *int    `json:"sort_order"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) > 0 {
		if err := h.DB.Model(staff).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update staff member"})
			return
		}
	}

	h.DB.First(staff, staff.ID)
	c.JSON(http.StatusOK, staff)
}

// DeactivateStaff sets the soft flag instead of deleting, so past
// reservations keep a valid staff reference.
func (h *StaffHandler) DeactivateStaff(c *gin.Context) {
	staff, ok := h.tenantStaff(c, c.Param("id"))
	if !ok {
		return
	}

	if err := h.DB.Model(staff).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate staff member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff member deactivated"})
}

func (h *StaffHandler) GetShifts(c *gin.Context) {
	staff, ok := h.tenantStaff(c, c.Param("id"))
	if !ok {
		return
	}

	var shifts []models.StaffShift
	if err := h.DB.Where("staff_member_id = ?", staff.ID).Order("day_of_week").Find(&shifts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shifts"})
		return
	}

	c.JSON(http.StatusOK, shifts)
}

type shiftInput struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	IsWorking bool   `json:"is_working"`
}

func validateShiftInput(s shiftInput) error {
	if !utils.ValidDayOfWeek(s.DayOfWeek) {
		return fmt.Errorf("Invalid day_of_week: %d", s.DayOfWeek)
	}
	if s.IsWorking && s.EndTime <= s.StartTime {
		return fmt.Errorf("End time (%s) must be after start time (%s) for day %d", s.EndTime, s.StartTime, s.DayOfWeek)
	}
	return nil
}

// UpsertShift writes one recurring rule. At most one row exists per
// (staff_member_id, day_of_week); the conflict clause keeps writes
// idempotent.
func (h *StaffHandler) UpsertShift(c *gin.Context) {
	staff, ok := h.tenantStaff(c, c.Param("id"))
	if !ok {
		return
	}

	var req shiftInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if err := validateShiftInput(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift := models.StaffShift{
		StaffMemberID: staff.ID,
		DayOfWeek:     req.DayOfWeek,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		IsWorking:     req.IsWorking,
	}
	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "staff_member_id"}, {Name: "day_of_week"}},
		DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "is_working", "updated_at"}),
	}).Create(&shift).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save shift"})
		return
	}

	var saved models.StaffShift
	h.DB.Where("staff_member_id = ? AND day_of_week = ?", staff.ID, req.DayOfWeek).First(&saved)
	c.JSON(http.StatusOK, saved)
}

// BulkUpsertShifts replaces a whole week of recurring rules in one
// transaction, so a partial write can never leave a half-updated schedule.
func (h *StaffHandler) BulkUpsertShifts(c *gin.Context) {
	staff, ok := h.tenantStaff(c, c.Param("id"))
	if !ok {
		return
	}

	var req []shiftInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	for _, s := range req {
		if err := validateShiftInput(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for _, s := range req {
			shift := models.StaffShift{
				StaffMemberID: staff.ID,
				DayOfWeek:     s.DayOfWeek,
				StartTime:     s.StartTime,
				EndTime:       s.EndTime,
				IsWorking:     s.IsWorking,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "staff_member_id"}, {Name: "day_of_week"}},
				DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "is_working", "updated_at"}),
			}).Create(&shift).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save shifts"})
		return
	}

	var shifts []models.StaffShift
	h.DB.Where("staff_member_id = ?", staff.ID).Order("day_of_week").Find(&shifts)
	c.JSON(http.StatusOK, shifts)
}

func (h *StaffHandler) ListExceptions(c *gin.Context) {
	staff, ok := h.tenantStaff(c, c.Param("id"))
	if !ok {
		return
	}

	query := h.DB.Where("staff_member_id = ?", staff.ID)
	if date := c.Query("date"); date != "" {
		query = query.Where("exception_date = ?", date)
	}

	var exceptions []models.ShiftException
	if err := query.Order("exception_date ASC, start_time ASC").Find(&exceptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exceptions"})
		return
	}

	c.JSON(http.StatusOK, exceptions)
}

func (h *StaffHandler) CreateException(c *gin.Context) {
	staff, ok := h.tenantStaff(c, c.Param("id"))
	if !ok {
		return
	}

	var req struct {
		ExceptionDate string `json:"exception_date" binding:"required"`
		StartTime     string `json:"start_time" binding:"required"`
		EndTime       string `json:"end_time" binding:"required"`
		Reason        string `json:"reason"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	date, err := scheduling.ParseDate(req.ExceptionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exception_date, expected YYYY-MM-DD"})
		return
	}
	if req.EndTime <= req.StartTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
		return
	}

	exception := models.ShiftException{
		StaffMemberID: staff.ID,
		ExceptionDate: date.Format("2006-01-02"),
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Reason:        req.Reason,
	}

	if err := h.DB.Create(&exception).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exception"})
		return
	}

	c.JSON(http.StatusCreated, exception)
}

func (h *StaffHandler) DeleteException(c *gin.Context) {
	staff, ok := h.tenantStaff(c, c.Param("id"))
	if !ok {
		return
	}

	result := h.DB.Where("id = ? AND staff_member_id = ?", c.Param("exceptionId"), staff.ID).Delete(&models.ShiftException{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete exception"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exception not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exception deleted"})
}

// GetAvailability answers "can this staff member take an appointment at
// date/time": the recurring shift must cover the instant and no exception
// may block it.
func (h *StaffHandler) GetAvailability(c *gin.Context) {
	staff, ok := h.tenantStaff(c, c.Param("id"))
	if !ok {
		return
	}

	dateParam := c.Query("date")
	timeParam := c.Query("time")
	if dateParam == "" || timeParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and time query parameters are required"})
		return
	}

	date, err := scheduling.ParseDate(dateParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}
	at, err := scheduling.ClockOnDate(date, timeParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format"})
		return
	}

	var shifts []models.StaffShift
	if err := h.DB.Where("staff_member_id = ?", staff.ID).Find(&shifts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shifts"})
		return
	}

	var exceptions []models.ShiftException
	if err := h.DB.Where("staff_member_id = ? AND exception_date = ?", staff.ID, date.Format("2006-01-02")).
		Find(&exceptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exceptions"})
		return
	}

	available := staff.IsActive && scheduling.StaffAvailable(scheduling.ShiftFor(shifts, date), exceptions, at)

	c.JSON(http.StatusOK, gin.H{
		"staff_member_id": staff.ID,
		"date":            date.Format("2006-01-02"),
		"time":            timeParam,
		"available":       available,
	})
}
