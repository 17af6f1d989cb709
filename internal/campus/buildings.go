package campus

import "github.com/opencampus/campus-core/internal/geo"

// DeriveBuildings computes one Building per known building code from the
// member rooms in the index.
//
// Codes with zero member rooms are skipped and reported as warnings, not
// failures: facility data is routinely partial and must not abort the
// whole derivation. Floor count is the number of distinct normalized
// floors among members; the centroid is the combined centroid of all
// member room outlines.
func DeriveBuildings(idx *RoomIndex, knownCodes []string) ([]Building, []MissingBuildingWarning) {
	var buildings []Building
	var warnings []MissingBuildingWarning

	for _, code := range knownCodes {
		rooms := idx.ByBuildingCode(code)
		if len(rooms) == 0 {
			warnings = append(warnings, MissingBuildingWarning{BuildingCode: code})
			continue
		}

		floors := make(map[string]bool)
		roomCodes := make([]string, 0, len(rooms))
		outlines := make([]geo.Polygon, 0, len(rooms))
		for _, r := range rooms {
			floors[r.Floor] = true
			roomCodes = append(roomCodes, r.Code)
			outlines = append(outlines, r.Outline)
		}

		centroid, err := geo.CentroidOfAll(outlines)
		if err != nil {
			// Indexed rooms always carry geometry, so this only fires
			// on a malformed index. Treat like a missing building.
			warnings = append(warnings, MissingBuildingWarning{BuildingCode: code})
			continue
		}

		buildings = append(buildings, Building{
			Code:       code,
			RoomCodes:  roomCodes,
			FloorCount: len(floors),
			Centroid:   centroid,
			CampusID:   rooms[0].CampusID,
		})
	}

	return buildings, warnings
}
