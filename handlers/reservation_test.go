package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"termino-backend/models"
)

func TestCreateReservationPortal(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	seedOpeningHours(db, tenant.ID)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/portal/reservations", map[string]interface{}{
		"date": "2025-03-11", "start_time": "10:00",
		"customer_name": "Anna Schmidt", "customer_phone": "+49333",
	}, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := parseResponse(w)
	if body["status"] != "confirmed" {
		t.Errorf("expected status confirmed, got %v", body["status"])
	}
	if body["source"] != "portal" {
		t.Errorf("expected source portal, got %v", body["source"])
	}
	if body["end_time"] != "11:00" {
		t.Errorf("expected derived end_time 11:00, got %v", body["end_time"])
	}
}

func TestCreateReservationConflict(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	seedOpeningHours(db, tenant.ID)
	seedReservation(db, tenant.ID, "2025-03-11", "10:00", 60, models.ReservationStatusConfirmed)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/portal/reservations", map[string]interface{}{
		"date": "2025-03-11", "start_time": "10:30",
	}, token))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping 10:30, got %d: %s", w.Code, w.Body.String())
	}
	body := parseResponse(w)
	alternatives, _ := body["alternatives"].([]interface{})
	if len(alternatives) == 0 {
		t.Error("conflict response must carry alternatives")
	}
}

func TestCreateReservationCancelledSlotRebookable(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	seedOpeningHours(db, tenant.ID)
	seedReservation(db, tenant.ID, "2025-03-11", "10:00", 60, models.ReservationStatusCancelled)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/portal/reservations", map[string]interface{}{
		"date": "2025-03-11", "start_time": "10:00",
	}, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("a cancelled slot must be rebookable, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateReservationStaffNotOnShift(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	seedOpeningHours(db, tenant.ID)
	staff := seedStaff(db, tenant.ID, "Alice")
	// Alice works Mondays only
	seedShift(db, staff.ID, 1, "09:00", "17:00")
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	// 2025-03-11 is a Tuesday
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/portal/reservations", map[string]interface{}{
		"date": "2025-03-11", "start_time": "10:00", "staff_member_id": staff.ID.String(),
	}, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for off-shift staff, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateReservationStaffBlockedByException(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	seedOpeningHours(db, tenant.ID)
	staff := seedStaff(db, tenant.ID, "Alice")
	seedShift(db, staff.ID, 1, "09:00", "17:00")
	seedException(db, staff.ID, "2025-03-10", "13:00", "14:00")
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	// Monday inside the exception window
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/portal/reservations", map[string]interface{}{
		"date": "2025-03-10", "start_time": "13:00", "staff_member_id": staff.ID.String(),
	}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 inside exception window, got %d: %s", w.Code, w.Body.String())
	}

	// Same Monday outside the exception window
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/portal/reservations", map[string]interface{}{
		"date": "2025-03-10", "start_time": "10:00", "staff_member_id": staff.ID.String(),
	}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 outside exception window, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListReservationsFilters(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	seedOpeningHours(db, tenant.ID)
	seedReservation(db, tenant.ID, "2025-03-10", "09:00", 60, models.ReservationStatusConfirmed)
	seedReservation(db, tenant.ID, "2025-03-11", "10:00", 60, models.ReservationStatusConfirmed)
	seedReservation(db, tenant.ID, "2025-03-11", "12:00", 60, models.ReservationStatusCancelled)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/portal/reservations?date=2025-03-11", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := parseResponse(w)
	if body["total"].(float64) != 2 {
		t.Errorf("expected 2 reservations on 2025-03-11, got %v", body["total"])
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/portal/reservations?status=cancelled", nil, token))
	body = parseResponse(w)
	if body["total"].(float64) != 1 {
		t.Errorf("expected 1 cancelled reservation, got %v", body["total"])
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/portal/reservations?from=2025-03-11&to=2025-03-12", nil, token))
	body = parseResponse(w)
	if body["total"].(float64) != 2 {
		t.Errorf("expected 2 reservations in range, got %v", body["total"])
	}
}

func TestListReservationsScopedToTenant(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	other := seedTenant(db, "Praxis Epsilon")
	seedReservation(db, other.ID, "2025-03-11", "10:00", 60, models.ReservationStatusConfirmed)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/portal/reservations", nil, token))
	body := parseResponse(w)
	if body["total"].(float64) != 0 {
		t.Errorf("other tenants' reservations must not be visible, got %v", body["total"])
	}
}

func TestUpdateStatusValidTransition(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	res := seedReservation(db, tenant.ID, "2025-03-11", "10:00", 60, models.ReservationStatusConfirmed)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("PUT", "/api/portal/reservations/"+res.ID.String()+"/status",
		map[string]string{"status": "completed"}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.Reservation
	db.First(&reloaded, "id = ?", res.ID)
	if reloaded.Status != models.ReservationStatusCompleted {
		t.Errorf("expected completed, got %s", reloaded.Status)
	}
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	res := seedReservation(db, tenant.ID, "2025-03-11", "10:00", 60, models.ReservationStatusCancelled)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	// Cancelled is terminal
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("PUT", "/api/portal/reservations/"+res.ID.String()+"/status",
		map[string]string{"status": "confirmed"}, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for cancelled->confirmed, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.Reservation
	db.First(&reloaded, "id = ?", res.ID)
	if reloaded.Status != models.ReservationStatusCancelled {
		t.Errorf("status must stay cancelled, got %s", reloaded.Status)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	res := seedReservation(db, tenant.ID, "2025-03-11", "10:00", 60, models.ReservationStatusConfirmed)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("PUT", "/api/portal/reservations/"+res.ID.String()+"/status",
		map[string]string{"status": "archived"}, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCancelReservation(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	res := seedReservation(db, tenant.ID, "2025-03-11", "10:00", 60, models.ReservationStatusConfirmed)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("DELETE", "/api/portal/reservations/"+res.ID.String(), nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.Reservation
	db.First(&reloaded, "id = ?", res.ID)
	if reloaded.Status != models.ReservationStatusCancelled {
		t.Errorf("expected cancelled, got %s", reloaded.Status)
	}

	// Cancelling twice is rejected
	w = httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("DELETE", "/api/portal/reservations/"+res.ID.String(), nil, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on double cancel, got %d", w.Code)
	}
}

func TestUpdateReservationDetails(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	staff := seedStaff(db, tenant.ID, "Alice")
	res := seedReservation(db, tenant.ID, "2025-03-11", "10:00", 60, models.ReservationStatusConfirmed)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("PUT", "/api/portal/reservations/"+res.ID.String(), map[string]interface{}{
		"customer_name": "Neuer Name", "staff_member_id": staff.ID.String(),
	}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var reloaded models.Reservation
	db.First(&reloaded, "id = ?", res.ID)
	if reloaded.CustomerName != "Neuer Name" {
		t.Errorf("expected updated name, got %q", reloaded.CustomerName)
	}
	if reloaded.StaffMemberID == nil || *reloaded.StaffMemberID != staff.ID {
		t.Error("expected staff assignment to be updated")
	}
}

func TestGetReservationCrossTenant(t *testing.T) {
	db := freshDB()
	tenant := seedTenant(db, "Praxis Delta")
	other := seedTenant(db, "Praxis Epsilon")
	res := seedReservation(db, other.ID, "2025-03-11", "10:00", 60, models.ReservationStatusConfirmed)
	_, token := seedOwnerWithToken(db, tenant)
	r := setupPortalRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/portal/reservations/"+res.ID.String(), nil, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant reads must 404, got %d", w.Code)
	}
}
