// Package occupancy resolves room availability from reservation data.
//
// Given a query instant and the reservations of a day, it computes which
// rooms are free, the gap boundaries around the query instant, and
// building-level free/total rollups. All computations are pure functions
// over value inputs; malformed reservations are skipped and reported as
// warnings so a single bad upstream record never aborts a bulk query.
package occupancy
