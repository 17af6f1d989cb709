package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/opencampus/campus-core/internal/occupancy"
)

// res is a shorthand reservation constructor for 2026-05-12 UTC.
func res(room string, startHour, startMin, endHour, endMin int) occupancy.Reservation {
	day := func(h, m int) time.Time {
		return time.Date(2026, 5, 12, h, m, 0, 0, time.UTC)
	}
	return occupancy.Reservation{RoomCode: room, Start: day(startHour, startMin), End: day(endHour, endMin)}
}

// atParam formats the ?at= query value for 2026-05-12 UTC.
func atParam(hour, min int) string {
	at := time.Date(2026, 5, 12, hour, min, 0, 0, time.UTC)
	return url.QueryEscape(at.Format(time.RFC3339))
}

func TestFreeRooms(t *testing.T) {
	srv, repo := testServer(t)
	repo.reservations = []occupancy.Reservation{
		res("MW-1001", 8, 0, 10, 0),
		res("MW-1001", 11, 0, 12, 0),
		res("MW-2001", 10, 0, 12, 0),
	}

	// At 10:30, MW-1001 is in its gap, MW-2001 is occupied, and MI-0101
	// has no reservations at all.
	resp := get(t, srv, "/api/v1/rooms/free?at="+atParam(10, 30), http.StatusOK)
	free := resp["free"].([]any)
	if len(free) != 2 {
		t.Fatalf("free count = %d, want 2 (%v)", len(free), free)
	}

	first := free[0].(map[string]any)
	if first["room_code"] != "MI-0101" {
		t.Errorf("free[0] = %v, want MI-0101", first["room_code"])
	}
	second := free[1].(map[string]any)
	if second["room_code"] != "MW-1001" {
		t.Errorf("free[1] = %v, want MW-1001", second["room_code"])
	}

	// MW-1001's window is the 10:00-11:00 gap.
	if got := second["free_from"].(string); got != "2026-05-12T10:00:00Z" {
		t.Errorf("free_from = %v, want 2026-05-12T10:00:00Z", got)
	}
	if got := second["free_until"].(string); got != "2026-05-12T11:00:00Z" {
		t.Errorf("free_until = %v, want 2026-05-12T11:00:00Z", got)
	}
}

func TestFreeRoomsInvalidAt(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/free?at=yesterday", nil)
	w := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid at status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestFreeRoomsReportsInvalidIntervals(t *testing.T) {
	srv, repo := testServer(t)
	repo.reservations = []occupancy.Reservation{
		res("MW-1001", 12, 0, 10, 0), // end before start
	}

	resp := get(t, srv, "/api/v1/rooms/free?at="+atParam(10, 30), http.StatusOK)
	warnings := resp["warnings"].([]any)
	if len(warnings) != 1 {
		t.Errorf("warnings count = %d, want 1", len(warnings))
	}
}

func TestBuildingOccupancy(t *testing.T) {
	srv, repo := testServer(t)
	repo.reservations = []occupancy.Reservation{
		res("MW-1001", 10, 0, 12, 0),
	}

	resp := get(t, srv, "/api/v1/buildings/MW/occupancy?at="+atParam(10, 30), http.StatusOK)
	occ := resp["occupancy"].(map[string]any)
	if occ["total"] != float64(2) {
		t.Errorf("total = %v, want 2", occ["total"])
	}
	if occ["free"] != float64(1) {
		t.Errorf("free = %v, want 1", occ["free"])
	}

	get(t, srv, "/api/v1/buildings/XX/occupancy", http.StatusNotFound)
}

func TestOccupancyOverview(t *testing.T) {
	srv, repo := testServer(t)
	repo.reservations = []occupancy.Reservation{
		res("MW-1001", 10, 0, 12, 0),
		res("MI-0101", 10, 0, 12, 0),
	}

	resp := get(t, srv, "/api/v1/occupancy?at="+atParam(10, 30), http.StatusOK)
	buildings := resp["buildings"].([]any)
	if len(buildings) != 2 {
		t.Fatalf("buildings count = %d, want 2", len(buildings))
	}

	// Sorted by building code: MI first, fully occupied.
	mi := buildings[0].(map[string]any)
	if mi["building_code"] != "MI" || mi["free"] != float64(0) || mi["total"] != float64(1) {
		t.Errorf("MI rollup = %v, want free 0 of 1", mi)
	}
	mw := buildings[1].(map[string]any)
	if mw["building_code"] != "MW" || mw["free"] != float64(1) || mw["total"] != float64(2) {
		t.Errorf("MW rollup = %v, want free 1 of 2", mw)
	}
}

func TestIngestReservations(t *testing.T) {
	srv, repo := testServer(t)

	body := []byte(`[
		{"room_code": "MW-1001", "start": "2026-05-12T10:00:00Z", "end": "2026-05-12T12:00:00Z", "capacity": 40}
	]`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/reservations", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ingest status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	if len(repo.reservations) != 1 {
		t.Fatalf("stored reservations = %d, want 1", len(repo.reservations))
	}
	if repo.reservations[0].Capacity == nil || *repo.reservations[0].Capacity != 40 {
		t.Errorf("capacity = %v, want 40", repo.reservations[0].Capacity)
	}
}
