package campus

import (
	"sort"

	"github.com/google/uuid"

	"github.com/opencampus/campus-core/internal/geo"
)

// minOutlineVertices is the smallest vertex count that qualifies a record
// as a room with real geometry.
const minOutlineVertices = 3

// RoomIndex is an immutable snapshot of all rooms built from one facility
// ingestion. Lookups are keyed by room code and by building code.
//
// Each index carries a unique snapshot ID so derived results (buildings,
// rollups) can be memoized on snapshot identity instead of being
// recomputed per query.
type RoomIndex struct {
	id         string
	rooms      []Room
	byRoom     map[string]int
	byBuilding map[string][]int
	floors     []string
}

// BuildIndex constructs a RoomIndex from raw facility records.
//
// Records without at least three outline vertices are skipped. Duplicate
// room codes are resolved last-seen-wins, with the room keeping its
// original ingestion position. Floors are normalized through the given
// normalizer and the distinct set is sorted per its ordering.
func BuildIndex(records []RawRecord, floors *FloorNormalizer) *RoomIndex {
	idx := &RoomIndex{
		id:         uuid.NewString(),
		byRoom:     make(map[string]int),
		byBuilding: make(map[string][]int),
	}

	for _, rec := range records {
		if len(rec.Vertices) < minOutlineVertices {
			continue
		}
		centroid, err := geo.Centroid(rec.Vertices)
		if err != nil {
			continue
		}

		room := Room{
			Code:         rec.RoomCode,
			BuildingCode: rec.BuildingCode,
			RawFloor:     rec.Floor,
			Floor:        floors.Normalize(rec.Floor),
			Outline:      rec.Vertices,
			Centroid:     centroid,
			FunctionDE:   rec.FunctionDE,
			FunctionEN:   rec.FunctionEN,
			CampusID:     rec.CampusID,
		}

		if pos, ok := idx.byRoom[room.Code]; ok {
			// Last-seen record wins; keep the original position so
			// building membership order stays ingestion-ordered.
			prev := idx.rooms[pos]
			idx.rooms[pos] = room
			if prev.BuildingCode != room.BuildingCode {
				idx.removeMember(prev.BuildingCode, pos)
				idx.byBuilding[room.BuildingCode] = append(idx.byBuilding[room.BuildingCode], pos)
			}
			continue
		}

		pos := len(idx.rooms)
		idx.rooms = append(idx.rooms, room)
		idx.byRoom[room.Code] = pos
		idx.byBuilding[room.BuildingCode] = append(idx.byBuilding[room.BuildingCode], pos)
	}

	idx.floors = collectFloors(idx.rooms, floors)
	return idx
}

// removeMember drops one room position from a building's member list.
func (idx *RoomIndex) removeMember(buildingCode string, pos int) {
	members := idx.byBuilding[buildingCode]
	for i, p := range members {
		if p == pos {
			members = append(members[:i], members[i+1:]...)
			if len(members) == 0 {
				delete(idx.byBuilding, buildingCode)
			} else {
				idx.byBuilding[buildingCode] = members
			}
			return
		}
	}
}

// collectFloors returns the distinct normalized floors of all rooms,
// sorted per the normalizer's label ordering.
func collectFloors(rooms []Room, floors *FloorNormalizer) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rooms {
		if !seen[r.Floor] {
			seen[r.Floor] = true
			out = append(out, r.Floor)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return floors.Compare(out[i], out[j]) < 0
	})
	return out
}

// ID returns the unique snapshot identifier of this index.
func (idx *RoomIndex) ID() string {
	return idx.id
}

// ByRoomCode returns the room with the given code.
func (idx *RoomIndex) ByRoomCode(code string) (Room, bool) {
	pos, ok := idx.byRoom[code]
	if !ok {
		return Room{}, false
	}
	return idx.rooms[pos], true
}

// ByBuildingCode returns the member rooms of a building in ingestion
// order. The result is a copy; callers can modify it freely.
func (idx *RoomIndex) ByBuildingCode(code string) []Room {
	positions := idx.byBuilding[code]
	if len(positions) == 0 {
		return nil
	}
	out := make([]Room, 0, len(positions))
	for _, pos := range positions {
		out = append(out, idx.rooms[pos])
	}
	return out
}

// Rooms returns all rooms in ingestion order.
func (idx *RoomIndex) Rooms() []Room {
	out := make([]Room, len(idx.rooms))
	copy(out, idx.rooms)
	return out
}

// Floors returns the distinct normalized floor labels of all rooms,
// sorted per the floor normalizer's ordering.
func (idx *RoomIndex) Floors() []string {
	out := make([]string, len(idx.floors))
	copy(out, idx.floors)
	return out
}

// BuildingCodes returns the distinct building codes present in the index,
// sorted lexically for deterministic output.
func (idx *RoomIndex) BuildingCodes() []string {
	out := make([]string, 0, len(idx.byBuilding))
	for code := range idx.byBuilding {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
