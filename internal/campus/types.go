package campus

import "github.com/opencampus/campus-core/internal/geo"

// RawRecord is a facility record as delivered by the upstream data source.
//
// Facility exports routinely contain entries without geometry (corridors,
// technical metadata, points of interest); those are skipped during index
// construction rather than rejected.
type RawRecord struct {
	RoomCode     string      `json:"room_code"`
	BuildingCode string      `json:"building_code"`
	Floor        string      `json:"floor"`
	Vertices     geo.Polygon `json:"vertices"`
	FunctionDE   string      `json:"function_de,omitempty"`
	FunctionEN   string      `json:"function_en,omitempty"`
	CampusID     string      `json:"campus_id,omitempty"`
}

// Room is a facility room after ingestion: floor label normalized,
// centroid computed and cached. Rooms are immutable once built; new
// facility data replaces the whole index.
type Room struct {
	Code         string      `json:"code"`
	BuildingCode string      `json:"building_code"`
	RawFloor     string      `json:"raw_floor"`
	Floor        string      `json:"floor"`
	Outline      geo.Polygon `json:"outline"`
	Centroid     geo.Point   `json:"centroid"`
	FunctionDE   string      `json:"function_de,omitempty"`
	FunctionEN   string      `json:"function_en,omitempty"`
	CampusID     string      `json:"campus_id,omitempty"`
}

// Building is derived entirely from the member rooms of one building
// code. It is recomputed whenever the room index is rebuilt.
type Building struct {
	Code       string    `json:"code"`
	RoomCodes  []string  `json:"room_codes"`
	FloorCount int       `json:"floor_count"`
	Centroid   geo.Point `json:"centroid"`
	CampusID   string    `json:"campus_id,omitempty"`
}

// MissingBuildingWarning reports a known building code that had no member
// rooms in the index. Absent buildings are expected when facility data is
// partial, so this is surfaced alongside results rather than as an error.
type MissingBuildingWarning struct {
	BuildingCode string `json:"building_code"`
}

func (w MissingBuildingWarning) String() string {
	return "building " + w.BuildingCode + " has no rooms in facility data"
}
