package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opencampus/campus-core/internal/schedule"
)

func seedSchedule(srv *Server) {
	at := func(day, hour, min int) time.Time {
		return time.Date(2026, 5, day, hour, min, 0, 0, time.UTC)
	}
	srv.schedule.Replace(
		[]schedule.Lecture{
			{Name: "Analysis", Rooms: []string{"MW-1001"}, Start: at(12, 10, 0), End: at(12, 12, 0)},
			{Name: "Databases", Rooms: []string{"MI-0101"}, Start: at(12, 14, 0), End: at(12, 16, 0)},
			{Name: "Mechanics", Start: at(13, 9, 0), End: at(13, 11, 0)},
		},
		[]schedule.Exam{
			{Name: "Statics", Room: "MW-2001", Seat: "14", Date: at(12, 14, 0)},
		},
		[]schedule.Calendar{
			{TitleDE: "Sprechstunde", Start: at(12, 9, 0)},
		},
	)
}

func TestScheduleDays(t *testing.T) {
	srv, _ := testServer(t)
	seedSchedule(srv)

	resp := get(t, srv, "/api/v1/schedule/days?at="+atParam(8, 0), http.StatusOK)
	days := resp["days"].([]any)
	if len(days) != 2 {
		t.Fatalf("days count = %d, want 2", len(days))
	}

	today := days[0].(map[string]any)
	entries := today["entries"].([]any)
	if len(entries) != 4 {
		t.Fatalf("today entries = %d, want 4", len(entries))
	}

	// 09:00 calendar, 10:00 lecture, then at 14:00 the exam sorts before
	// the lecture.
	wantTitles := []string{"Sprechstunde", "Analysis", "Statics", "Databases"}
	for i, want := range wantTitles {
		entry := entries[i].(map[string]any)
		if entry["title"] != want {
			t.Errorf("entries[%d] = %v, want %v", i, entry["title"], want)
		}
	}
}

func TestScheduleDaysDropsPast(t *testing.T) {
	srv, _ := testServer(t)
	seedSchedule(srv)

	// Querying from the 13th hides the 12th entirely.
	resp := get(t, srv, "/api/v1/schedule/days?at=2026-05-13T08:00:00Z", http.StatusOK)
	days := resp["days"].([]any)
	if len(days) != 1 {
		t.Fatalf("days count = %d, want 1", len(days))
	}
}

func TestScheduleNowOngoing(t *testing.T) {
	srv, _ := testServer(t)
	seedSchedule(srv)

	resp := get(t, srv, "/api/v1/schedule/now?at="+atParam(11, 0), http.StatusOK)
	current := resp["current"].([]any)
	if len(current) != 1 {
		t.Fatalf("current count = %d, want 1", len(current))
	}

	entry := current[0].(map[string]any)
	lecture := entry["lecture"].(map[string]any)
	if lecture["name"] != "Analysis" {
		t.Errorf("current lecture = %v, want Analysis", lecture["name"])
	}
	if entry["progress"] != 0.5 {
		t.Errorf("progress = %v, want 0.5", entry["progress"])
	}
	if entry["remaining_minutes"] != float64(60) {
		t.Errorf("remaining_minutes = %v, want 60", entry["remaining_minutes"])
	}

	next := resp["next"].(map[string]any)
	if next["name"] != "Databases" {
		t.Errorf("next lecture = %v, want Databases", next["name"])
	}
}

func TestScheduleNowUpcoming(t *testing.T) {
	srv, _ := testServer(t)
	seedSchedule(srv)

	resp := get(t, srv, "/api/v1/schedule/now?at="+atParam(8, 0), http.StatusOK)
	current := resp["current"].([]any)
	if len(current) != 0 {
		t.Errorf("current count = %d, want 0", len(current))
	}

	next := resp["next"].(map[string]any)
	if next["name"] != "Analysis" {
		t.Errorf("next lecture = %v, want Analysis", next["name"])
	}
}

func TestScheduleNowEmpty(t *testing.T) {
	srv, _ := testServer(t)

	resp := get(t, srv, "/api/v1/schedule/now?at="+atParam(8, 0), http.StatusOK)
	if len(resp["current"].([]any)) != 0 {
		t.Errorf("current = %v, want empty", resp["current"])
	}
	if resp["next"] != nil {
		t.Errorf("next = %v, want nil", resp["next"])
	}
}

func TestIngestSchedule(t *testing.T) {
	srv, _ := testServer(t)

	body := []byte(`{
		"lectures": [{"name": "Analysis", "start": "2026-05-12T10:00:00Z", "end": "2026-05-12T12:00:00Z"}],
		"exams": [{"name": "Statics", "date": "2026-05-12T14:00:00Z"}],
		"calendar": []
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/schedule", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ingest status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}

	lectures, exams, _ := srv.schedule.Sources()
	if len(lectures) != 1 || len(exams) != 1 {
		t.Errorf("stored feed = %d lectures, %d exams, want 1 each", len(lectures), len(exams))
	}
}
