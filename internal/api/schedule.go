package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/opencampus/campus-core/internal/schedule"
)

// schedulePayload is the ingestion body for the schedule feed.
type schedulePayload struct {
	Lectures []schedule.Lecture  `json:"lectures"`
	Exams    []schedule.Exam     `json:"exams"`
	Calendar []schedule.Calendar `json:"calendar"`
}

// ongoingLecture is a current lecture with its progress annotation.
type ongoingLecture struct {
	Lecture          schedule.Lecture `json:"lecture"`
	Progress         float64          `json:"progress"`
	RemainingMinutes int              `json:"remaining_minutes"`
}

// handleScheduleDays returns the merged schedule grouped by day, today
// and later, in campus-local time.
func (s *Server) handleScheduleDays(w http.ResponseWriter, r *http.Request) {
	now, err := parseAt(r)
	if err != nil {
		writeBadRequest(w, "invalid at parameter: "+err.Error())
		return
	}
	now = now.In(s.location)

	lectures, exams, calendar := s.schedule.Sources()
	days := s.aggregator.GroupByDay(lectures, exams, calendar, now)

	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

// handleScheduleNow answers "what is happening right now": all ongoing
// lectures with progress, or the nearest upcoming one.
func (s *Server) handleScheduleNow(w http.ResponseWriter, r *http.Request) {
	now, err := parseAt(r)
	if err != nil {
		writeBadRequest(w, "invalid at parameter: "+err.Error())
		return
	}
	now = now.In(s.location)

	sel := schedule.CurrentOrNext(s.schedule.Lectures(), now)

	current := make([]ongoingLecture, 0, len(sel.Current))
	for _, l := range sel.Current {
		current = append(current, ongoingLecture{
			Lecture:          l,
			Progress:         schedule.Progress(l.Start, l.End, now),
			RemainingMinutes: int(schedule.Remaining(l.End, now) / time.Minute),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"at":      now,
		"current": current,
		"next":    sel.Next,
	})
}

// handleIngestSchedule replaces the schedule feed.
func (s *Server) handleIngestSchedule(w http.ResponseWriter, r *http.Request) {
	var payload schedulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid schedule payload: "+err.Error())
		return
	}

	s.schedule.Replace(payload.Lectures, payload.Exams, payload.Calendar)

	s.logger.Info("schedule feed replaced",
		"lectures", len(payload.Lectures),
		"exams", len(payload.Exams),
		"calendar", len(payload.Calendar),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"lectures": len(payload.Lectures),
		"exams":    len(payload.Exams),
		"calendar": len(payload.Calendar),
	})
}
