package database

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"termino-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=termino port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tenant{},
		&models.OpeningHours{},
		&models.StaffMember{},
		&models.StaffShift{},
		&models.ShiftException{},
		&models.Contact{},
		&models.Reservation{},
		&models.CallLog{},
		&models.ApiKey{},
	); err != nil {
		return err
	}

	// Older rows from before duration_minutes became mandatory carry 0.
	// The conflict check derives a missing end_time from the row's own
	// duration, so those rows must be backfilled with the historic default.
	if err := backfillReservationDurations(db); err != nil {
		return err
	}

	return nil
}

func backfillReservationDurations(db *gorm.DB) error {
	if err := db.Exec(`
		UPDATE reservations
		SET duration_minutes = 60
		WHERE duration_minutes IS NULL OR duration_minutes <= 0;
	`).Error; err != nil {
		return fmt.Errorf("failed to backfill reservation durations: %w", err)
	}
	return nil
}

func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@termino.app"
	}
	if adminPassword == "" {
		adminPassword = generateSecret(12)
		log.Printf("ADMIN_PASSWORD not set, generated one-time password: %s", adminPassword)
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
		Name:     "Admin User",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin created: %s", adminEmail)
	return nil
}

// CreateDefaultTenant seeds a demo tenant owned by the admin user, with seven
// opening-hours rows (Sunday closed) and one integration API key, so a fresh
// install can serve the voice agent immediately.
func CreateDefaultTenant(db *gorm.DB) error {
	var count int64
	db.Model(&models.Tenant{}).Count(&count)
	if count > 0 {
		return nil
	}

	var admin models.User
	if err := db.Where("role = ?", "admin").First(&admin).Error; err != nil {
		return fmt.Errorf("no admin user to own the default tenant: %w", err)
	}

	tenant := models.Tenant{
		Name:                   "Termino Demo",
		Slug:                   "termino-demo",
		OwnerID:                admin.ID,
		DefaultDurationMinutes: 60,
		SlotGranularityMinutes: 60,
		IsActive:               true,
	}
	if err := db.Create(&tenant).Error; err != nil {
		return err
	}

	for day := 0; day <= 6; day++ {
		hours := models.OpeningHours{
			TenantID:  tenant.ID,
			DayOfWeek: day,
			OpenTime:  "09:00",
			CloseTime: "18:00",
			IsClosed:  day == 0,
		}
		if err := db.Create(&hours).Error; err != nil {
			return err
		}
	}

	apiKey := models.ApiKey{
		TenantID: tenant.ID,
		Key:      os.Getenv("DEFAULT_API_KEY"),
		Label:    "default",
		IsActive: true,
	}
	if apiKey.Key == "" {
		apiKey.Key = generateSecret(24)
	}
	if err := db.Create(&apiKey).Error; err != nil {
		return err
	}

	log.Printf("Default tenant created: %s (api key: %s)", tenant.Name, apiKey.Key)
	return nil
}

func generateSecret(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to read random bytes: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
