package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/campus-core/internal/campus"
)

// knownBuildingCodes returns the building codes to derive buildings for:
// the configured list when present, otherwise every code in the index.
func (s *Server) knownBuildingCodes(idx *campus.RoomIndex) []string {
	if len(s.cfg.Campus.Buildings) > 0 {
		return s.cfg.Campus.Buildings
	}
	return idx.BuildingCodes()
}

// index returns the current snapshot, or writes a conflict response and
// reports false when no facility data has been ingested yet.
func (s *Server) index(w http.ResponseWriter) (*campus.RoomIndex, bool) {
	idx := s.snapshots.Index()
	if idx == nil {
		writeConflict(w, campus.ErrNoSnapshot.Error())
		return nil, false
	}
	return idx, true
}

// handleListBuildings returns all derived buildings plus warnings for
// known codes that have no facility data.
func (s *Server) handleListBuildings(w http.ResponseWriter, _ *http.Request) {
	idx, ok := s.index(w)
	if !ok {
		return
	}

	buildings, warnings := s.snapshots.Buildings(s.knownBuildingCodes(idx))
	writeJSON(w, http.StatusOK, map[string]any{
		"buildings": buildings,
		"warnings":  warningStrings(warnings),
	})
}

// handleGetBuilding returns one derived building by code.
func (s *Server) handleGetBuilding(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.index(w)
	if !ok {
		return
	}

	code := chi.URLParam(r, "code")
	buildings, _ := s.snapshots.Buildings(s.knownBuildingCodes(idx))
	for _, b := range buildings {
		if b.Code == code {
			writeJSON(w, http.StatusOK, b)
			return
		}
	}
	writeNotFound(w, "building not found: "+code)
}

// handleListBuildingRooms returns the member rooms of one building in
// ingestion order.
func (s *Server) handleListBuildingRooms(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.index(w)
	if !ok {
		return
	}

	code := chi.URLParam(r, "code")
	rooms := idx.ByBuildingCode(code)
	if len(rooms) == 0 {
		writeNotFound(w, "building not found: "+code)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// handleListRooms returns all rooms, optionally filtered by building
// and normalized floor.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.index(w)
	if !ok {
		return
	}

	building := r.URL.Query().Get("building")
	floor := r.URL.Query().Get("floor")

	rooms := idx.Rooms()
	filtered := rooms[:0]
	for _, room := range rooms {
		if building != "" && room.BuildingCode != building {
			continue
		}
		if floor != "" && room.Floor != floor {
			continue
		}
		filtered = append(filtered, room)
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": filtered})
}

// handleGetRoom returns one room by code.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.index(w)
	if !ok {
		return
	}

	code := chi.URLParam(r, "code")
	room, ok := idx.ByRoomCode(code)
	if !ok {
		writeNotFound(w, "room not found: "+code)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// handleListFloors returns the distinct normalized floor labels in
// display order.
func (s *Server) handleListFloors(w http.ResponseWriter, _ *http.Request) {
	idx, ok := s.index(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"floors": idx.Floors()})
}

// handleIngestFacility replaces the facility feed: records are persisted
// and a new room index snapshot is swapped in.
func (s *Server) handleIngestFacility(w http.ResponseWriter, r *http.Request) {
	var records []campus.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeBadRequest(w, "invalid facility payload: "+err.Error())
		return
	}

	if s.facilityRepo != nil {
		if err := s.facilityRepo.ReplaceAll(r.Context(), records); err != nil {
			s.logger.Error("persisting facility records", "error", err)
			writeInternalError(w, "failed to persist facility records")
			return
		}
	}

	idx := s.snapshots.Swap(records, s.floors)
	s.logger.Info("facility feed replaced",
		"records", len(records),
		"rooms", len(idx.Rooms()),
		"buildings", len(idx.BuildingCodes()),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"ingested": len(records),
		"rooms":    len(idx.Rooms()),
		"floors":   idx.Floors(),
	})
}

// warningStrings renders missing-building warnings for the response.
func warningStrings(warnings []campus.MissingBuildingWarning) []string {
	out := make([]string, 0, len(warnings))
	for _, warn := range warnings {
		out = append(out, warn.String())
	}
	return out
}
