package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"termino-backend/models"
	"termino-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TenantHandler struct {
	DB *gorm.DB
}

func (h *TenantHandler) GetMyTenant(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var tenant models.Tenant
	if err := h.DB.Preload("OpeningHours").Preload("Staff").
		Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}

	c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) UpdateMyTenant(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var tenant models.Tenant
	if err := h.DB.Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}

	var req struct {
		Name                   *string `json:"name"`
		Address                *string `json:"address"`
		City                   *string `json:"city"`
		Phone                  *string `json:"phone"`
		Email                  *string `json:"email"`
		DefaultDurationMinutes *int    `json:"default_duration_minutes"`
		SlotGranularityMinutes *int    `json:"slot_granularity_minutes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.DefaultDurationMinutes != nil && *req.DefaultDurationMinutes < 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "default_duration_minutes must be at least 5"})
		return
	}
	if req.SlotGranularityMinutes != nil && *req.SlotGranularityMinutes < 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot_granularity_minutes must be at least 5"})
		return
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Address != nil {
		tenant.Address = *req.Address
	}
	if req.City != nil {
		tenant.City = *req.City
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}
	if req.Email != nil {
		tenant.Email = *req.Email
	}
	if req.DefaultDurationMinutes != nil {
		tenant.DefaultDurationMinutes = *req.DefaultDurationMinutes
	}
	if req.SlotGranularityMinutes != nil {
		tenant.SlotGranularityMinutes = *req.SlotGranularityMinutes
	}

	if err := h.DB.Save(&tenant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tenant"})
		return
	}

	h.DB.Preload("OpeningHours").First(&tenant, tenant.ID)
	c.JSON(http.StatusOK, tenant)
}

// GetOpeningHours always returns seven days; weekdays the tenant never
// configured come back with the defaults.
func (h *TenantHandler) GetOpeningHours(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var hours []models.OpeningHours
	if err := h.DB.Where("tenant_id = ?", tenantID).Order("day_of_week").Find(&hours).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch opening hours"})
		return
	}

	week := models.MergeOpeningHours(hours)
	c.JSON(http.StatusOK, week[:])
}

func (h *TenantHandler) UpdateOpeningHours(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	tID := tenantID.(uuid.UUID)

	var req []struct {
		DayOfWeek int    `json:"day_of_week"`
		OpenTime  string `json:"open_time" binding:"required"`
		CloseTime string `json:"close_time" binding:"required"`
		IsClosed  bool   `json:"is_closed"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	for _, day := range req {
		if !utils.ValidDayOfWeek(day.DayOfWeek) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid day_of_week: %d", day.DayOfWeek)})
			return
		}
		if !day.IsClosed && day.CloseTime <= day.OpenTime {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Close time (%s) must be after open time (%s) for day %d", day.CloseTime, day.OpenTime, day.DayOfWeek),
			})
			return
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		for _, day := range req {
			row := models.OpeningHours{
				TenantID:  tID,
				DayOfWeek: day.DayOfWeek,
				OpenTime:  day.OpenTime,
				CloseTime: day.CloseTime,
				IsClosed:  day.IsClosed,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "day_of_week"}},
				DoUpdates: clause.AssignmentColumns([]string{"open_time", "close_time", "is_closed", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update opening hours"})
		return
	}

	var hours []models.OpeningHours
	h.DB.Where("tenant_id = ?", tID).Order("day_of_week").Find(&hours)
	week := models.MergeOpeningHours(hours)
	c.JSON(http.StatusOK, week[:])
}

func (h *TenantHandler) GetApiKeys(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")

	var keys []models.ApiKey
	if err := h.DB.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&keys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch API keys"})
		return
	}

	c.JSON(http.StatusOK, keys)
}

// RotateApiKey deactivates the tenant's current keys and issues a fresh one.
// Integrations must switch to the new key; the old ones stop resolving
// immediately.
func (h *TenantHandler) RotateApiKey(c *gin.Context) {
	tenantID, _ := c.Get("tenant_id")
	tID := tenantID.(uuid.UUID)

	var created models.ApiKey
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ApiKey{}).Where("tenant_id = ?", tID).Update("is_active", false).Error; err != nil {
			return err
		}
		created = models.ApiKey{
			TenantID: tID,
			Key:      randomKey(24),
			Label:    "rotated",
			IsActive: true,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate API key"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *TenantHandler) ListTenants(c *gin.Context) {
	var tenants []models.Tenant
	if err := h.DB.Preload("Owner").Find(&tenants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tenants"})
		return
	}

	// Batch query: reservation counts for all tenants in one GROUP BY.
	type reservationCountResult struct {
		TenantID         uuid.UUID `gorm:"column:tenant_id"`
		ReservationCount int64     `gorm:"column:reservation_count"`
	}
	var counts []reservationCountResult
	h.DB.Model(&models.Reservation{}).
		Select("tenant_id, count(*) as reservation_count").
		Group("tenant_id").
		Find(&counts)

	countMap := make(map[uuid.UUID]int64)
	for _, r := range counts {
		countMap[r.TenantID] = r.ReservationCount
	}

	type TenantWithStats struct {
		models.Tenant
		ReservationCount int64 `json:"reservation_count"`
	}

	var result []TenantWithStats
	for _, t := range tenants {
		result = append(result, TenantWithStats{
			Tenant:           t,
			ReservationCount: countMap[t.ID],
		})
	}

	c.JSON(http.StatusOK, result)
}

// CreateTenant provisions a business account: the owner user, the tenant row,
// seven default opening-hours rows and an integration API key, all in one
// transaction.
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		Slug          string `json:"slug" binding:"required"`
		OwnerEmail    string `json:"owner_email" binding:"required,email"`
		OwnerName     string `json:"owner_name"`
		OwnerPassword string `json:"owner_password" binding:"required,min=8"`
		Address       string `json:"address"`
		City          string `json:"city"`
		Phone         string `json:"phone"`
		Email         string `json:"email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	tx := h.DB.Begin()

	// Create or reuse the owner user, including soft-deleted accounts so the
	// unique email constraint cannot fire.
	var owner models.User
	if err := tx.Unscoped().Where("email = ?", req.OwnerEmail).First(&owner).Error; err != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.OwnerPassword), bcrypt.DefaultCost)
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		owner = models.User{
			ID:       uuid.New(),
			Email:    req.OwnerEmail,
			Password: string(hashedPassword),
			Name:     req.OwnerName,
			Role:     "owner",
		}

		if err := tx.Create(&owner).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create owner user"})
			return
		}
	} else if owner.DeletedAt.Valid {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.OwnerPassword), bcrypt.DefaultCost)
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if err := tx.Unscoped().Model(&owner).Updates(map[string]interface{}{
			"deleted_at": nil,
			"role":       "owner",
			"name":       req.OwnerName,
			"password":   string(hashedPassword),
		}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore owner user"})
			return
		}
	}

	tenant := models.Tenant{
		Name:                   req.Name,
		Slug:                   req.Slug,
		OwnerID:                owner.ID,
		Address:                req.Address,
		City:                   req.City,
		Phone:                  req.Phone,
		Email:                  req.Email,
		DefaultDurationMinutes: 60,
		SlotGranularityMinutes: 60,
		IsActive:               true,
	}

	if err := tx.Create(&tenant).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tenant: " + err.Error()})
		return
	}

	tx.Model(&owner).Update("tenant_id", tenant.ID)

	for day := 0; day <= 6; day++ {
		hours := models.OpeningHours{
			TenantID:  tenant.ID,
			DayOfWeek: day,
			OpenTime:  "09:00",
			CloseTime: "18:00",
			IsClosed:  day == 0,
		}
		tx.Create(&hours)
	}

	apiKey := models.ApiKey{
		TenantID: tenant.ID,
		Key:      randomKey(24),
		Label:    "default",
		IsActive: true,
	}
	tx.Create(&apiKey)

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize tenant creation"})
		return
	}

	h.DB.Preload("Owner").Preload("OpeningHours").First(&tenant, tenant.ID)
	c.JSON(http.StatusCreated, gin.H{
		"tenant":  tenant,
		"api_key": apiKey.Key,
	})
}

func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	id := c.Param("id")

	var tenant models.Tenant
	if err := h.DB.Where("id = ?", id).First(&tenant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&tenant).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tenant"})
			return
		}
	}

	h.DB.Where("id = ?", id).First(&tenant)
	c.JSON(http.StatusOK, tenant)
}

func randomKey(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to read random bytes: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
