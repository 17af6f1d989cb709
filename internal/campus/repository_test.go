package campus

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the facility schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE facility_records (
			position INTEGER PRIMARY KEY,
			room_code TEXT NOT NULL,
			building_code TEXT NOT NULL,
			floor TEXT NOT NULL DEFAULT '',
			vertices TEXT NOT NULL DEFAULT '[]',
			function_de TEXT NOT NULL DEFAULT '',
			function_en TEXT NOT NULL DEFAULT '',
			campus_id TEXT NOT NULL DEFAULT ''
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestReplaceAllAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	records := testRecords()
	if err := repo.ReplaceAll(ctx, records); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := repo.ListRecords(ctx)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i].RoomCode != records[i].RoomCode {
			t.Errorf("record %d: got %q, want %q (ingestion order must survive)",
				i, got[i].RoomCode, records[i].RoomCode)
		}
		if !reflect.DeepEqual(got[i].Vertices, records[i].Vertices) {
			t.Errorf("record %d: vertices round-trip mismatch", i)
		}
	}
}

func TestReplaceAllReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testRecords()); err != nil {
		t.Fatalf("first ReplaceAll: %v", err)
	}
	replacement := []RawRecord{
		{RoomCode: "CH-0001", BuildingCode: "CH", Floor: "0", Vertices: squareAt(3, 3)},
	}
	if err := repo.ReplaceAll(ctx, replacement); err != nil {
		t.Fatalf("second ReplaceAll: %v", err)
	}

	count, err := repo.CountRecords(ctx)
	if err != nil {
		t.Fatalf("CountRecords: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 record after replacement, got %d", count)
	}
}
