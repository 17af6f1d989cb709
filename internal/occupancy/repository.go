package occupancy

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines persistence for reservation records.
//
// Like facility data, reservations arrive as bulk feeds from an upstream
// booking system and are replaced wholesale.
type Repository interface {
	ReplaceAll(ctx context.Context, reservations []Reservation) error
	ListOverlapping(ctx context.Context, from, to time.Time) ([]Reservation, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed reservation repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ReplaceAll replaces all stored reservations with the given set.
// Timestamps are stored as RFC 3339 UTC strings so lexical comparison
// in SQL matches chronological order.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, reservations []Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting reservation transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM reservations"); err != nil {
		return fmt.Errorf("clearing reservations: %w", err)
	}

	const query = `INSERT INTO reservations (position, room_code, start_at, end_at, capacity)
		VALUES (?, ?, ?, ?, ?)`
	for i, res := range reservations {
		if _, err := tx.ExecContext(ctx, query,
			i, res.RoomCode,
			res.Start.UTC().Format(time.RFC3339),
			res.End.UTC().Format(time.RFC3339),
			nullInt(res.Capacity)); err != nil {
			return fmt.Errorf("inserting reservation for %s: %w", res.RoomCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reservations: %w", err)
	}
	return nil
}

// ListOverlapping returns reservations overlapping the [from, to) window
// in ingestion order.
func (r *SQLiteRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]Reservation, error) {
	const query = `SELECT room_code, start_at, end_at, capacity
		FROM reservations
		WHERE end_at > ? AND start_at < ?
		ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("querying reservations: %w", err)
	}
	defer rows.Close()

	var reservations []Reservation
	for rows.Next() {
		var res Reservation
		var start, end string
		var capacity sql.NullInt64
		if err := rows.Scan(&res.RoomCode, &start, &end, &capacity); err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		res.Start = parseTime(start)
		res.End = parseTime(end)
		if capacity.Valid {
			c := int(capacity.Int64)
			res.Capacity = &c
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservations: %w", err)
	}
	return reservations, nil
}

// nullInt converts a *int to sql.NullInt64 for nullable columns.
func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// parseTime parses an RFC 3339 timestamp stored by this repository.
// Zero time is returned for unparseable values, which cannot happen for
// rows written through ReplaceAll.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
