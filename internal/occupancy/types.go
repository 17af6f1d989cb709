package occupancy

import "time"

// Reservation is a time-bounded booking of one room. It is a plain value:
// reservations carry no identity, may overlap, and arrive unsorted.
type Reservation struct {
	RoomCode string    `json:"room_code"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Capacity *int      `json:"capacity,omitempty"`
}

// Availability describes the free window around a query instant for one
// room. FreeFrom and FreeUntil are the boundaries of the gap containing
// the instant, bounded by the nearest enclosing reservation or by the
// day-boundary window supplied with the query.
type Availability struct {
	RoomCode  string    `json:"room_code"`
	FreeFrom  time.Time `json:"free_from"`
	FreeUntil time.Time `json:"free_until"`
	Capacity  *int      `json:"capacity,omitempty"`
}

// BuildingOccupancy is the free/total rollup for one building at a query
// instant.
type BuildingOccupancy struct {
	BuildingCode string `json:"building_code"`
	Total        int    `json:"total"`
	Free         int    `json:"free"`
}

// InvalidIntervalWarning reports a reservation with end <= start. The
// reservation is skipped; the query continues with the remaining data.
type InvalidIntervalWarning struct {
	Reservation Reservation `json:"reservation"`
}

func (w InvalidIntervalWarning) String() string {
	return "reservation for " + w.Reservation.RoomCode + " has end at or before start"
}
