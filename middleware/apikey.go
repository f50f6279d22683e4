package middleware

import (
	"net/http"
	"time"

	"termino-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApiKeyMiddleware authenticates the integration endpoints. The x-api-key
// header (or an api_key JSON field handled by the voice-agent handler) is
// mapped to an active tenant before any other work happens; a bad key never
// touches reservation data.
func ApiKeyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("x-api-key")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			c.Abort()
			return
		}

		tenant, err := ResolveApiKey(db, key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		c.Set("tenant", tenant)
		c.Set("tenant_id", tenant.ID)
		c.Next()
	}
}

// ResolveApiKey maps an API key to its active tenant and stamps last_used_at.
func ResolveApiKey(db *gorm.DB, key string) (*models.Tenant, error) {
	var apiKey models.ApiKey
	if err := db.Where("key = ? AND is_active = ?", key, true).First(&apiKey).Error; err != nil {
		return nil, err
	}

	var tenant models.Tenant
	if err := db.Where("id = ? AND is_active = ?", apiKey.TenantID, true).First(&tenant).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	db.Model(&apiKey).Update("last_used_at", &now)

	return &tenant, nil
}
