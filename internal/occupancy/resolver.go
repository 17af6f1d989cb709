package occupancy

import (
	"fmt"
	"sort"
	"time"
)

// FreeRooms computes the availability of every room mentioned in the
// reservation data at the given instant.
//
// A room is excluded when a reservation strictly contains `at`. Otherwise
// its free window is the gap around `at`: bounded below by the end of the
// latest reservation ending at or before `at` (or dayStart), and above by
// the start of the earliest reservation starting at or after `at` (or
// dayEnd). Rooms whose reservations all fall outside the query day are
// free for the whole [dayStart, dayEnd] window.
//
// Reservations with end <= start are skipped and reported as warnings.
// Results are sorted by room code for deterministic output.
func FreeRooms(reservations []Reservation, at, dayStart, dayEnd time.Time) ([]Availability, []InvalidIntervalWarning) {
	universe := make([]string, 0, len(reservations))
	seen := make(map[string]bool)
	for _, res := range reservations {
		if !seen[res.RoomCode] {
			seen[res.RoomCode] = true
			universe = append(universe, res.RoomCode)
		}
	}
	return FreeRoomsAmong(universe, reservations, at, dayStart, dayEnd)
}

// FreeRoomsAmong is FreeRooms over an explicit room universe. Rooms in
// the universe with no reservation data at all are free for the entire
// day window; callers that know a building's member list use this to
// include rooms the reservation feed never mentions.
func FreeRoomsAmong(roomCodes []string, reservations []Reservation, at, dayStart, dayEnd time.Time) ([]Availability, []InvalidIntervalWarning) {
	var warnings []InvalidIntervalWarning

	byRoom := make(map[string][]Reservation)
	capacities := make(map[string]*int)
	for _, res := range reservations {
		if !res.End.After(res.Start) {
			warnings = append(warnings, InvalidIntervalWarning{Reservation: res})
			continue
		}
		if capacities[res.RoomCode] == nil && res.Capacity != nil {
			capacities[res.RoomCode] = res.Capacity
		}
		// Only reservations touching the query day shape the gap walk.
		if res.End.After(dayStart) && res.Start.Before(dayEnd) {
			byRoom[res.RoomCode] = append(byRoom[res.RoomCode], res)
		}
	}

	rooms := make(map[string]bool, len(roomCodes))
	var availabilities []Availability
	for _, code := range roomCodes {
		if rooms[code] {
			continue
		}
		rooms[code] = true

		avail, free := resolveRoom(code, byRoom[code], at, dayStart, dayEnd)
		if !free {
			continue
		}
		avail.Capacity = capacities[code]
		availabilities = append(availabilities, avail)
	}

	sort.Slice(availabilities, func(i, j int) bool {
		return availabilities[i].RoomCode < availabilities[j].RoomCode
	})
	return availabilities, warnings
}

// resolveRoom walks one room's day reservations to find the gap that
// contains the query instant. The second return is false when the room
// is occupied at that instant.
func resolveRoom(code string, dayReservations []Reservation, at, dayStart, dayEnd time.Time) (Availability, bool) {
	freeFrom := dayStart
	freeUntil := dayEnd

	sorted := make([]Reservation, len(dayReservations))
	copy(sorted, dayReservations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	for _, res := range sorted {
		if res.Start.Before(at) && res.End.After(at) {
			// Strictly inside a reservation: not free.
			return Availability{}, false
		}
		if !res.End.After(at) && res.End.After(freeFrom) {
			freeFrom = res.End
		}
		if !res.Start.Before(at) && res.Start.Before(freeUntil) {
			freeUntil = res.Start
		}
	}

	return Availability{RoomCode: code, FreeFrom: freeFrom, FreeUntil: freeUntil}, true
}

// ForBuilding computes the free/total rollup for one building from the
// availabilities of a query. Total is the member room count; free counts
// the members present in the availability set.
func ForBuilding(buildingCode string, memberRoomCodes []string, availabilities []Availability) BuildingOccupancy {
	free := make(map[string]bool, len(availabilities))
	for _, a := range availabilities {
		free[a.RoomCode] = true
	}

	occ := BuildingOccupancy{BuildingCode: buildingCode, Total: len(memberRoomCodes)}
	for _, code := range memberRoomCodes {
		if free[code] {
			occ.Free++
		}
	}
	return occ
}

// DayWindow converts configured campus opening hours ("HH:MM" strings)
// into the concrete day-boundary instants for the day containing `at`.
func DayWindow(at time.Time, open, close string, loc *time.Location) (time.Time, time.Time, error) {
	openT, err := time.Parse("15:04", open)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing opening time %q: %w", open, err)
	}
	closeT, err := time.Parse("15:04", close)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing closing time %q: %w", close, err)
	}

	day := at.In(loc)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), openT.Hour(), openT.Minute(), 0, 0, loc)
	dayEnd := time.Date(day.Year(), day.Month(), day.Day(), closeT.Hour(), closeT.Minute(), 0, 0, loc)
	if !dayEnd.After(dayStart) {
		return time.Time{}, time.Time{}, fmt.Errorf("day window %s-%s is empty", open, close)
	}
	return dayStart, dayEnd, nil
}
