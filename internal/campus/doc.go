// Package campus provides the spatial model for Campus Core.
//
// It turns flat facility data into a queryable hierarchy: raw facility
// records are normalized (floor labels), enriched (centroids), and indexed
// into an immutable RoomIndex snapshot. Buildings are derived entities,
// computed from their member rooms and never stored independently.
//
// The package also provides a Repository interface with a SQLite
// implementation for persisting raw facility records, and a SnapshotStore
// that atomically swaps in a freshly built index when facility data
// changes.
//
// # Thread Safety
//
// A built RoomIndex is immutable and safe to share. SnapshotStore and
// FloorNormalizer guard their mutable state internally.
package campus
