package handlers

import (
	"time"

	"termino-backend/models"
	"termino-backend/scheduling"
	"termino-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// bookingLocks serializes booking writes per (tenant, date). The lock is held
// only across the final re-check-and-insert, so two concurrent requests for
// the same slot cannot both pass the availability check.
var bookingLocks = scheduling.NewLockTable()

type bookingParams struct {
	Date            string // YYYY-MM-DD, already normalized
	StartTime       string // HH:MM
	DurationMinutes int    // 0 means tenant default
	StaffMemberID   *uuid.UUID
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	Notes           string
	Source          string
}

// bookingConflict is returned when the requested slot is taken. Alternatives
// are recomputed under the lock so the caller can present them without a
// second round trip.
type bookingConflict struct {
	Alternatives []string
}

// bookReservation runs the write-time availability re-check and insert.
// Exactly one of the three results is non-zero: the created reservation, a
// conflict, or a store error. A store error is never reported as a conflict.
func bookReservation(db *gorm.DB, tenant models.Tenant, params bookingParams) (*models.Reservation, *bookingConflict, error) {
	cfg := scheduling.TenantConfig(tenant)
	if params.DurationMinutes <= 0 {
		params.DurationMinutes = cfg.DefaultDurationMinutes
	}

	date, err := scheduling.ParseDate(params.Date)
	if err != nil {
		return nil, nil, err
	}
	requested, err := scheduling.NewInterval(date, params.StartTime, params.DurationMinutes)
	if err != nil {
		return nil, nil, err
	}

	var hours []models.OpeningHours
	if err := db.Where("tenant_id = ?", tenant.ID).Find(&hours).Error; err != nil {
		return nil, nil, err
	}
	week := models.MergeOpeningHours(hours)
	day := week[int(date.Weekday())]

	unlock := bookingLocks.Lock(scheduling.BookingKey(tenant.ID, params.Date))
	defer unlock()

	var created *models.Reservation
	var conflict *bookingConflict

	err = db.Transaction(func(tx *gorm.DB) error {
		existing, err := loadDayReservations(tx, tenant.ID, params.Date, params.StaffMemberID)
		if err != nil {
			return err
		}
		intervals := scheduling.CollectIntervals(existing)

		if !scheduling.WithinHours(requested, date, day) || !scheduling.IsAvailable(requested, intervals) {
			conflict = &bookingConflict{
				Alternatives: scheduling.Alternatives(date, day, intervals, params.DurationMinutes, cfg),
			}
			return nil
		}

		contactID, err := findOrCreateContact(tx, tenant.ID, params)
		if err != nil {
			return err
		}

		endTime := requested.End.Format("15:04")
		reservation := models.Reservation{
			TenantID:        tenant.ID,
			Date:            params.Date,
			StartTime:       params.StartTime,
			EndTime:         &endTime,
			DurationMinutes: params.DurationMinutes,
			Status:          models.ReservationStatusConfirmed,
			StaffMemberID:   params.StaffMemberID,
			ContactID:       contactID,
			CustomerName:    params.CustomerName,
			CustomerPhone:   params.CustomerPhone,
			CustomerEmail:   params.CustomerEmail,
			Notes:           params.Notes,
			Source:          params.Source,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}
		created = &reservation
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if conflict != nil {
		return nil, conflict, nil
	}

	if created.CustomerEmail != "" {
		utils.SendReservationConfirmation(created.CustomerEmail, created.CustomerName, tenant.Name, created.Date, created.StartTime)
	}
	return created, nil, nil
}

// loadDayReservations fetches the non-cancelled reservations a new booking
// has to be checked against. A booking with no staff assignment blocks the
// whole day, so an unassigned request sees every row; a staff-scoped request
// sees that staff member's rows plus the unassigned ones.
func loadDayReservations(tx *gorm.DB, tenantID uuid.UUID, date string, staffMemberID *uuid.UUID) ([]models.Reservation, error) {
	query := tx.Where("tenant_id = ? AND date = ? AND status <> ?", tenantID, date, models.ReservationStatusCancelled)
	if staffMemberID != nil {
		query = query.Where("staff_member_id IS NULL OR staff_member_id = ?", *staffMemberID)
	}

	var reservations []models.Reservation
	if err := query.Order("start_time ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// findOrCreateContact links the booking to the tenant's contact history,
// keyed by phone number.
func findOrCreateContact(tx *gorm.DB, tenantID uuid.UUID, params bookingParams) (*uuid.UUID, error) {
	if params.CustomerPhone == "" {
		return nil, nil
	}

	var contact models.Contact
	err := tx.Where("tenant_id = ? AND phone = ?", tenantID, params.CustomerPhone).First(&contact).Error
	if err == nil {
		// Refresh the name/email if the caller supplied newer details.
		updates := map[string]interface{}{}
		if params.CustomerName != "" && contact.Name == "" {
			updates["name"] = params.CustomerName
		}
		if params.CustomerEmail != "" && contact.Email == "" {
			updates["email"] = params.CustomerEmail
		}
		if len(updates) > 0 {
			updates["updated_at"] = time.Now()
			tx.Model(&contact).Updates(updates)
		}
		return &contact.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	contact = models.Contact{
		TenantID: tenantID,
		Name:     params.CustomerName,
		Phone:    params.CustomerPhone,
		Email:    params.CustomerEmail,
	}
	if err := tx.Create(&contact).Error; err != nil {
		return nil, err
	}
	return &contact.ID, nil
}
