package campus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/opencampus/campus-core/internal/geo"
)

// Repository defines persistence for raw facility records.
//
// Facility data arrives as a complete export; ReplaceAll swaps the stored
// set in one transaction so a subsequent ListRecords always sees a full,
// consistent ingestion.
type Repository interface {
	ReplaceAll(ctx context.Context, records []RawRecord) error
	ListRecords(ctx context.Context) ([]RawRecord, error)
	CountRecords(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed facility repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ReplaceAll replaces the stored facility records with the given set.
// Ingestion order is preserved via an explicit position column; it
// defines which record wins when room codes are duplicated.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, records []RawRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting facility transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM facility_records"); err != nil {
		return fmt.Errorf("clearing facility records: %w", err)
	}

	const query = `INSERT INTO facility_records
		(position, room_code, building_code, floor, vertices, function_de, function_en, campus_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i, rec := range records {
		vertices, err := json.Marshal(rec.Vertices)
		if err != nil {
			return fmt.Errorf("encoding vertices for %s: %w", rec.RoomCode, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			i, rec.RoomCode, rec.BuildingCode, rec.Floor,
			string(vertices), rec.FunctionDE, rec.FunctionEN, rec.CampusID); err != nil {
			return fmt.Errorf("inserting facility record %s: %w", rec.RoomCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing facility records: %w", err)
	}
	return nil
}

// ListRecords returns all stored facility records in ingestion order.
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]RawRecord, error) {
	const query = `SELECT room_code, building_code, floor, vertices,
		function_de, function_en, campus_id
		FROM facility_records ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying facility records: %w", err)
	}
	defer rows.Close()

	var records []RawRecord
	for rows.Next() {
		var rec RawRecord
		var vertices string
		if err := rows.Scan(&rec.RoomCode, &rec.BuildingCode, &rec.Floor,
			&vertices, &rec.FunctionDE, &rec.FunctionEN, &rec.CampusID); err != nil {
			return nil, fmt.Errorf("scanning facility record: %w", err)
		}
		rec.Vertices = parseVertices(vertices)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating facility records: %w", err)
	}
	return records, nil
}

// CountRecords returns the number of stored facility records.
func (r *SQLiteRepository) CountRecords(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM facility_records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting facility records: %w", err)
	}
	return count, nil
}

// parseVertices deserializes a JSON vertex array. Malformed geometry
// yields an empty polygon, which the index builder then skips.
func parseVertices(s string) geo.Polygon {
	if s == "" {
		return nil
	}
	var p geo.Polygon
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil
	}
	return p
}
