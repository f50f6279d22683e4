package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"termino-backend/models"
)

func TestCheckAvailabilityRequiresApiKey(t *testing.T) {
	db := freshDB()
	r := setupAvailabilityRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/check-availability", map[string]string{
		"date": "2025-03-11", "time": "10:00",
	}))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckAvailabilityRejectsInvalidKey(t *testing.T) {
	db := freshDB()
	r := setupAvailabilityRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, apiKeyRequest("POST", "/api/check-availability", map[string]string{
		"date": "2025-03-11", "time": "10:00",
	}, "no-such-key"))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckAvailabilityMissingFields(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Salon Beta")
	key := seedApiKey(db, tenant.ID)
	r := setupAvailabilityRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, apiKeyRequest("POST", "/api/check-availability", map[string]string{
		"date": "2025-03-11",
	}, key.Key))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	body := parseResponse(w)
	if body["availability"] != false {
		t.Error("error responses must keep availability=false")
	}
	if body["alternatives"] == nil {
		t.Error("error responses must keep an alternatives array")
	}
}

func TestCheckAvailabilityInvalidDate(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Salon Beta")
	key := seedApiKey(db, tenant.ID)
	r := setupAvailabilityRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, apiKeyRequest("POST", "/api/check-availability", map[string]string{
		"date": "11/03/2025", "time": "10:00",
	}, key.Key))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckAvailabilityFreeDay(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Salon Beta")
	key := seedApiKey(db, tenant.ID)
	seedOpeningHours(db, tenant.ID)
	r := setupAvailabilityRouter(db)

	// 2025-03-11 is a Tuesday
	w := httptest.NewRecorder()
	r.ServeHTTP(w, apiKeyRequest("POST", "/api/check-availability", map[string]string{
		"date": "2025-03-11", "time": "10:00",
	}, key.Key))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := parseResponse(w)
	if body["availability"] != true {
		t.Errorf("expected availability true, got %v", body["availability"])
	}
	if body["requested_date"] != "2025-03-11" {
		t.Errorf("expected normalized requested_date, got %v", body["requested_date"])
	}
}

func TestCheckAvailabilityAcceptsGermanDateFormat(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Salon Beta")
	key := seedApiKey(db, tenant.ID)
	seedOpeningHours(db, tenant.ID)
	r := setupAvailabilityRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, apiKeyRequest("POST", "/api/check-availability", map[string]string{
		"date": "11.03.2025", "time": "10:00",
	}, key.Key))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := parseResponse(w)
	if body["requested_date"] != "2025-03-11" {
		t.Errorf("expected requested_date normalized to 2025-03-11, got %v", body["requested_date"])
	}
}

func TestCheckAvailabilityConflictReturnsAlternatives(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Salon Beta")
	key := seedApiKey(db, tenant.ID)
	hours := seedOpeningHours(db, tenant.ID)
	// Monday stays open late so the evening booking lies inside hours.
	db.Model(&hours[1]).Update("close_time", "22:00")

	// Existing reservation Monday 19:00-20:30 (90 min)
	seedReservation(db, tenant.ID, "2025-03-10", "19:00", 90, models.ReservationStatusConfirmed)

	r := setupAvailabilityRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, apiKeyRequest("POST", "/api/check-availability", map[string]string{
		"date": "2025-03-10", "time": "19:00",
	}, key.Key))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := parseResponse(w)
	if body["availability"] != false {
		t.Fatalf("expected availability false, got %v", body["availability"])
	}

	alternatives, ok := body["alternatives"].([]interface{})
	if !ok || len(alternatives) == 0 {
		t.Fatalf("expected alternatives, got %v", body["alternatives"])
	}
	if len(alternatives) > 5 {
		t.Errorf("alternatives must be capped at 5, got %d", len(alternatives))
	}
	prev := ""
	for _, a := range alternatives {
		slot := a.(string)
		if slot == "19:00" || slot == "20:00" {
			t.Errorf("alternative %s overlaps the existing 19:00-20:30 booking", slot)
		}
		if prev != "" && slot <= prev {
			t.Errorf("alternatives not ascending: %s after %s", slot, prev)
		}
		prev = slot
	}
	if alternatives[0] != "09:00" {
		t.Errorf("expected first alternative 09:00, got %v", alternatives[0])
	}
}

func TestCheckAvailabilityCancelledDoesNotBlock(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Salon Beta")
	key := seedApiKey(db, tenant.ID)
	hours := seedOpeningHours(db, tenant.ID)
	db.Model(&hours[1]).Update("close_time", "22:00")

	seedReservation(db, tenant.ID, "2025-03-10", "19:00", 60, models.ReservationStatusCancelled)

	r := setupAvailabilityRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, apiKeyRequest("POST", "/api/check-availability", map[string]string{
		"date": "2025-03-10", "time": "19:00",
	}, key.Key))

	body := parseResponse(w)
	if body["availability"] != true {
		t.Errorf("cancelled reservations must not block, got %v", body["availability"])
	}
}

func TestCheckAvailabilityClosedDay(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Salon Beta")
	key := seedApiKey(db, tenant.ID)
	seedOpeningHours(db, tenant.ID)
	r := setupAvailabilityRouter(db)

	// 2025-03-09 is a Sunday, closed by default
	w := httptest.NewRecorder()
	r.ServeHTTP(w, apiKeyRequest("POST", "/api/check-availability", map[string]string{
		"date": "2025-03-09", "time": "10:00",
	}, key.Key))

	body := parseResponse(w)
	if body["availability"] != false {
		t.Errorf("expected closed day to be unavailable, got %v", body["availability"])
	}
}

func TestCheckAvailabilityIdempotent(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Salon Beta")
	key := seedApiKey(db, tenant.ID)
	hours := seedOpeningHours(db, tenant.ID)
	db.Model(&hours[1]).Update("close_time", "22:00")
	seedReservation(db, tenant.ID, "2025-03-10", "19:00", 90, models.ReservationStatusConfirmed)

	r := setupAvailabilityRouter(db)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, apiKeyRequest("POST", "/api/check-availability", map[string]string{
		"date": "2025-03-10", "time": "19:00",
	}, key.Key))

	second := httptest.NewRecorder()
	r.ServeHTTP(second, apiKeyRequest("POST", "/api/check-availability", map[string]string{
		"date": "2025-03-10", "time": "19:00",
	}, key.Key))

	if first.Body.String() != second.Body.String() {
		t.Errorf("identical checks must return identical results:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}
