package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"termino-backend/dtos"
	"termino-backend/middleware"
	"termino-backend/models"
	"termino-backend/scheduling"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoiceAgentHandler struct {
	DB *gorm.DB
}

// Calendar serves POST /api/voice-agent-calendar. One endpoint, three
// actions, because the voice platform can only register a single tool URL.
// Responses carry German natural-language messages the agent reads out
// verbatim, alongside the structured fields.
func (h *VoiceAgentHandler) Calendar(c *gin.Context) {
	var req dtos.VoiceAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dtos.VoiceAgentResponse{
			Success: false,
			Message: "Ungültige Anfrage. Bitte Aktion, Datum und Uhrzeit angeben.",
		})
		return
	}

	tenant, ok := h.resolveTenant(c, req.ApiKey)
	if !ok {
		return
	}

	switch req.Action {
	case "check_availability":
		h.checkAvailability(c, tenant, req)
	case "get_available_slots":
		h.getAvailableSlots(c, tenant, req)
	case "book_appointment":
		h.bookAppointment(c, tenant, req)
	}
}

// resolveTenant accepts the API key from the x-api-key header or the api_key
// body field. Auth failures never touch reservation data.
func (h *VoiceAgentHandler) resolveTenant(c *gin.Context, bodyKey string) (models.Tenant, bool) {
	if t, exists := c.Get("tenant"); exists {
		return *t.(*models.Tenant), true
	}

	key := c.GetHeader("x-api-key")
	if key == "" {
		key = bodyKey
	}
	if key == "" {
		c.JSON(http.StatusUnauthorized, dtos.VoiceAgentResponse{
			Success: false,
			Message: "Authentifizierung fehlgeschlagen.",
		})
		return models.Tenant{}, false
	}

	tenant, err := middleware.ResolveApiKey(h.DB, key)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dtos.VoiceAgentResponse{
			Success: false,
			Message: "Authentifizierung fehlgeschlagen.",
		})
		return models.Tenant{}, false
	}
	return *tenant, true
}

func (h *VoiceAgentHandler) checkAvailability(c *gin.Context, tenant models.Tenant, req dtos.VoiceAgentRequest) {
	if req.Date == "" || req.Time == "" {
		c.JSON(http.StatusBadRequest, dtos.VoiceAgentResponse{
			Success: false,
			Message: "Bitte nennen Sie Datum und Uhrzeit für die Terminprüfung.",
		})
		return
	}

	date, err := scheduling.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.VoiceAgentResponse{
			Success: false,
			Message: fmt.Sprintf("Das Datum %s konnte ich leider nicht verstehen.", req.Date),
		})
		return
	}
	dateStr := date.Format("2006-01-02")
	spokenDate := date.Format("02.01.2006")

	cfg := scheduling.TenantConfig(tenant)
	duration := req.Duration
	if duration <= 0 {
		duration = cfg.DefaultDurationMinutes
	}

	requested, err := scheduling.NewInterval(date, req.Time, duration)
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.VoiceAgentResponse{
			Success: false,
			Message: fmt.Sprintf("Die Uhrzeit %s konnte ich leider nicht verstehen.", req.Time),
		})
		return
	}

	day, intervals, err := h.loadDay(tenant, date, dateStr)
	if err != nil {
		h.recordCall(tenant.ID, req, "error", nil)
		h.internalError(c, tenant.ID, err)
		return
	}

	available := scheduling.WithinHours(requested, date, day) && scheduling.IsAvailable(requested, intervals)

	resp := dtos.VoiceAgentResponse{
		Success:   true,
		Available: &available,
		Date:      dateStr,
	}
	if available {
		resp.Message = fmt.Sprintf("Ja, der Termin am %s um %s Uhr ist verfügbar.", spokenDate, req.Time)
		h.recordCall(tenant.ID, req, "available", nil)
	} else {
		resp.Message = fmt.Sprintf("Der Termin am %s um %s Uhr ist leider nicht verfügbar.", spokenDate, req.Time)
		resp.AlternativeSlots = scheduling.Alternatives(date, day, intervals, duration, cfg)
		if resp.AlternativeSlots == nil {
			resp.AlternativeSlots = []string{}
		}
		resp.AlternativeMessage = alternativeMessage(resp.AlternativeSlots, spokenDate)
		h.recordCall(tenant.ID, req, "unavailable", nil)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VoiceAgentHandler) getAvailableSlots(c *gin.Context, tenant models.Tenant, req dtos.VoiceAgentRequest) {
	if req.Date == "" {
		c.JSON(http.StatusBadRequest, dtos.VoiceAgentResponse{
			Success: false,
			Message: "Bitte nennen Sie ein Datum für die Terminsuche.",
		})
		return
	}

	date, err := scheduling.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.VoiceAgentResponse{
			Success: false,
			Message: fmt.Sprintf("Das Datum %s konnte ich leider nicht verstehen.", req.Date),
		})
		return
	}
	dateStr := date.Format("2006-01-02")
	spokenDate := date.Format("02.01.2006")

	cfg := scheduling.TenantConfig(tenant)

	day, intervals, err := h.loadDay(tenant, date, dateStr)
	if err != nil {
		h.recordCall(tenant.ID, req, "error", nil)
		h.internalError(c, tenant.ID, err)
		return
	}

	if day.IsClosed {
		h.recordCall(tenant.ID, req, "unavailable", nil)
		c.JSON(http.StatusOK, dtos.VoiceAgentResponse{
			Success:        true,
			Date:           dateStr,
			AvailableSlots: []string{},
			Message:        fmt.Sprintf("Am %s ist leider geschlossen.", spokenDate),
		})
		return
	}

	slots := scheduling.FreeSlots(date, day, intervals, cfg.DefaultDurationMinutes, cfg)
	if slots == nil {
		slots = []string{}
	}

	var message string
	if len(slots) == 0 {
		message = fmt.Sprintf("Am %s sind leider keine Termine mehr frei.", spokenDate)
		h.recordCall(tenant.ID, req, "unavailable", nil)
	} else {
		message = fmt.Sprintf("Am %s sind folgende Termine frei: %s Uhr.", spokenDate, strings.Join(slots, ", "))
		h.recordCall(tenant.ID, req, "available", nil)
	}

	c.JSON(http.StatusOK, dtos.VoiceAgentResponse{
		Success:        true,
		Date:           dateStr,
		AvailableSlots: slots,
		Message:        message,
	})
}

func (h *VoiceAgentHandler) bookAppointment(c *gin.Context, tenant models.Tenant, req dtos.VoiceAgentRequest) {
	if req.Date == "" || req.Time == "" {
		c.JSON(http.StatusBadRequest, dtos.VoiceAgentResponse{
			Success: false,
			Message: "Bitte nennen Sie Datum und Uhrzeit für die Buchung.",
		})
		return
	}

	date, err := scheduling.ParseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.VoiceAgentResponse{
			Success: false,
			Message: fmt.Sprintf("Das Datum %s konnte ich leider nicht verstehen.", req.Date),
		})
		return
	}
	dateStr := date.Format("2006-01-02")
	spokenDate := date.Format("02.01.2006")

	cfg := scheduling.TenantConfig(tenant)
	duration := req.Duration
	if duration <= 0 {
		duration = cfg.DefaultDurationMinutes
	}
	if _, err := scheduling.NewInterval(date, req.Time, duration); err != nil {
		c.JSON(http.StatusBadRequest, dtos.VoiceAgentResponse{
			Success: false,
			Message: fmt.Sprintf("Die Uhrzeit %s konnte ich leider nicht verstehen.", req.Time),
		})
		return
	}

	reservation, conflict, err := bookReservation(h.DB, tenant, bookingParams{
		Date:            dateStr,
		StartTime:       req.Time,
		DurationMinutes: duration,
		CustomerName:    req.Name,
		CustomerPhone:   req.Phone,
		CustomerEmail:   req.Email,
		Notes:           req.Notes,
		Source:          "voice_ai",
	})
	if err != nil {
		h.recordCall(tenant.ID, req, "error", nil)
		h.internalError(c, tenant.ID, err)
		return
	}

	if conflict != nil {
		available := false
		alternatives := conflict.Alternatives
		if alternatives == nil {
			alternatives = []string{}
		}
		h.recordCall(tenant.ID, req, "conflict", nil)
		c.JSON(http.StatusConflict, dtos.VoiceAgentResponse{
			Success:            false,
			Available:          &available,
			Date:               dateStr,
			Message:            fmt.Sprintf("Der Termin am %s um %s Uhr ist leider bereits vergeben.", spokenDate, req.Time),
			AlternativeSlots:   alternatives,
			AlternativeMessage: alternativeMessage(alternatives, spokenDate),
		})
		return
	}

	h.recordCall(tenant.ID, req, "booked", &reservation.ID)
	c.JSON(http.StatusOK, dtos.VoiceAgentResponse{
		Success:     true,
		Date:        dateStr,
		Message:     fmt.Sprintf("Ihr Termin am %s um %s Uhr wurde erfolgreich gebucht.", spokenDate, req.Time),
		Appointment: reservation,
	})
}

// loadDay fetches the merged opening hours for the weekday and the occupied
// intervals of the date.
func (h *VoiceAgentHandler) loadDay(tenant models.Tenant, date time.Time, dateStr string) (models.OpeningHours, []scheduling.Interval, error) {
	var hours []models.OpeningHours
	if err := h.DB.Where("tenant_id = ?", tenant.ID).Find(&hours).Error; err != nil {
		return models.OpeningHours{}, nil, err
	}
	week := models.MergeOpeningHours(hours)
	day := week[int(date.Weekday())]

	reservations, err := loadDayReservations(h.DB, tenant.ID, dateStr, nil)
	if err != nil {
		return models.OpeningHours{}, nil, err
	}
	return day, scheduling.CollectIntervals(reservations), nil
}

func alternativeMessage(alternatives []string, spokenDate string) string {
	if len(alternatives) == 0 {
		return fmt.Sprintf("Am %s sind leider keine Termine mehr frei.", spokenDate)
	}
	return fmt.Sprintf("Ich kann Ihnen folgende Alternativen anbieten: %s Uhr.", strings.Join(alternatives, ", "))
}

// recordCall writes the call log row. Best-effort: a logging failure never
// fails the caller's request.
func (h *VoiceAgentHandler) recordCall(tenantID uuid.UUID, req dtos.VoiceAgentRequest, outcome string, reservationID *uuid.UUID) {
	entry := models.CallLog{
		TenantID:      tenantID,
		CallerPhone:   req.Phone,
		Action:        req.Action,
		Outcome:       outcome,
		ReservationID: reservationID,
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		log.Printf("voice-agent: failed to record call log for tenant %s: %v", tenantID, err)
	}
}

func (h *VoiceAgentHandler) internalError(c *gin.Context, tenantID uuid.UUID, err error) {
	log.Printf("voice-agent: internal error for tenant %s: %v", tenantID, err)
	c.JSON(http.StatusInternalServerError, dtos.VoiceAgentResponse{
		Success: false,
		Message: "Es ist ein technischer Fehler aufgetreten. Bitte versuchen Sie es später erneut.",
	})
}
