package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/campus-core/internal/occupancy"
)

// parseAt reads the optional ?at= query parameter (RFC 3339). Absent
// means "now".
func parseAt(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

// dayWindow resolves the campus day boundaries for the given instant.
func (s *Server) dayWindow(at time.Time) (time.Time, time.Time, error) {
	return occupancy.DayWindow(at, s.cfg.Campus.Hours.Open, s.cfg.Campus.Hours.Close, s.location)
}

// dayReservations loads the reservations overlapping one day window.
// Without a repository (tests, memory-only setups) the feed is empty.
func (s *Server) dayReservations(r *http.Request, dayStart, dayEnd time.Time) ([]occupancy.Reservation, error) {
	if s.reservationRepo == nil {
		return nil, nil
	}
	return s.reservationRepo.ListOverlapping(r.Context(), dayStart, dayEnd)
}

// handleFreeRooms returns the rooms free at the query instant with their
// free windows.
//
// When facility data is available the query runs over every indexed
// room, so rooms the reservation feed never mentions are reported free
// for the whole day. Without a snapshot it falls back to the rooms
// mentioned in the reservation feed.
func (s *Server) handleFreeRooms(w http.ResponseWriter, r *http.Request) {
	at, err := parseAt(r)
	if err != nil {
		writeBadRequest(w, "invalid at parameter: "+err.Error())
		return
	}
	dayStart, dayEnd, err := s.dayWindow(at)
	if err != nil {
		writeInternalError(w, "resolving day window: "+err.Error())
		return
	}

	reservations, err := s.dayReservations(r, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("loading reservations", "error", err)
		writeInternalError(w, "failed to load reservations")
		return
	}

	var free []occupancy.Availability
	var warnings []occupancy.InvalidIntervalWarning
	if idx := s.snapshots.Index(); idx != nil {
		codes := make([]string, 0, len(idx.Rooms()))
		for _, room := range idx.Rooms() {
			codes = append(codes, room.Code)
		}
		free, warnings = occupancy.FreeRoomsAmong(codes, reservations, at, dayStart, dayEnd)
	} else {
		free, warnings = occupancy.FreeRooms(reservations, at, dayStart, dayEnd)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"at":        at,
		"day_start": dayStart,
		"day_end":   dayEnd,
		"free":      free,
		"warnings":  intervalWarningStrings(warnings),
	})
}

// handleBuildingOccupancy returns the free/total rollup for one building
// at the query instant, plus the free member rooms.
func (s *Server) handleBuildingOccupancy(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.index(w)
	if !ok {
		return
	}

	code := chi.URLParam(r, "code")
	members := idx.ByBuildingCode(code)
	if len(members) == 0 {
		writeNotFound(w, "building not found: "+code)
		return
	}

	at, err := parseAt(r)
	if err != nil {
		writeBadRequest(w, "invalid at parameter: "+err.Error())
		return
	}
	dayStart, dayEnd, err := s.dayWindow(at)
	if err != nil {
		writeInternalError(w, "resolving day window: "+err.Error())
		return
	}

	reservations, err := s.dayReservations(r, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("loading reservations", "error", err)
		writeInternalError(w, "failed to load reservations")
		return
	}

	codes := make([]string, 0, len(members))
	for _, room := range members {
		codes = append(codes, room.Code)
	}
	free, warnings := occupancy.FreeRoomsAmong(codes, reservations, at, dayStart, dayEnd)
	occ := occupancy.ForBuilding(code, codes, free)

	if s.trend != nil {
		s.trend.RecordBuildingOccupancy([]occupancy.BuildingOccupancy{occ}, at)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"at":        at,
		"occupancy": occ,
		"free":      free,
		"warnings":  intervalWarningStrings(warnings),
	})
}

// handleOccupancyOverview returns the free/total rollup for every
// building in the index at the query instant.
func (s *Server) handleOccupancyOverview(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.index(w)
	if !ok {
		return
	}

	at, err := parseAt(r)
	if err != nil {
		writeBadRequest(w, "invalid at parameter: "+err.Error())
		return
	}
	dayStart, dayEnd, err := s.dayWindow(at)
	if err != nil {
		writeInternalError(w, "resolving day window: "+err.Error())
		return
	}

	reservations, err := s.dayReservations(r, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("loading reservations", "error", err)
		writeInternalError(w, "failed to load reservations")
		return
	}

	occupancies := make([]occupancy.BuildingOccupancy, 0, len(idx.BuildingCodes()))
	for _, code := range idx.BuildingCodes() {
		members := idx.ByBuildingCode(code)
		codes := make([]string, 0, len(members))
		for _, room := range members {
			codes = append(codes, room.Code)
		}
		free, _ := occupancy.FreeRoomsAmong(codes, reservations, at, dayStart, dayEnd)
		occupancies = append(occupancies, occupancy.ForBuilding(code, codes, free))
	}

	if s.trend != nil {
		s.trend.RecordBuildingOccupancy(occupancies, at)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"at":        at,
		"buildings": occupancies,
	})
}

// handleIngestReservations replaces the reservation feed.
func (s *Server) handleIngestReservations(w http.ResponseWriter, r *http.Request) {
	var reservations []occupancy.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservations); err != nil {
		writeBadRequest(w, "invalid reservation payload: "+err.Error())
		return
	}

	if s.reservationRepo == nil {
		writeInternalError(w, "reservation storage not configured")
		return
	}
	if err := s.reservationRepo.ReplaceAll(r.Context(), reservations); err != nil {
		s.logger.Error("persisting reservations", "error", err)
		writeInternalError(w, "failed to persist reservations")
		return
	}

	s.logger.Info("reservation feed replaced", "reservations", len(reservations))
	writeJSON(w, http.StatusOK, map[string]any{"ingested": len(reservations)})
}

// intervalWarningStrings renders invalid-interval warnings for the
// response.
func intervalWarningStrings(warnings []occupancy.InvalidIntervalWarning) []string {
	out := make([]string, 0, len(warnings))
	for _, warn := range warnings {
		out = append(out, warn.String())
	}
	return out
}
