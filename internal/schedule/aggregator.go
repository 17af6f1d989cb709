package schedule

import (
	"sort"
	"time"
)

// DefaultExamDuration is used when no exam duration is configured.
const DefaultExamDuration = 2 * time.Hour

// Aggregator merges schedule sources into grouped, ordered views.
//
// It holds only configuration, no per-query state, and is safe to use
// from multiple goroutines.
type Aggregator struct {
	examDuration time.Duration
}

// NewAggregator creates an aggregator. A non-positive exam duration
// falls back to DefaultExamDuration.
func NewAggregator(examDuration time.Duration) *Aggregator {
	if examDuration <= 0 {
		examDuration = DefaultExamDuration
	}
	return &Aggregator{examDuration: examDuration}
}

// GroupByDay merges lectures, exams, and calendar entries into per-day
// views, restricted to days at or after the day containing now.
//
// Within a day entries sort ascending by start. When start instants are
// exactly equal the tie-break chain applies: entries without an end
// instant first, then exams before other variants, and remaining ties
// keep their input order.
func (a *Aggregator) GroupByDay(lectures []Lecture, exams []Exam, cals []Calendar, now time.Time) []Day {
	loc := now.Location()
	entries := a.merge(lectures, exams, cals)

	today := dateOf(now, loc)
	byDate := make(map[time.Time][]Entry)
	for _, e := range entries {
		date := dateOf(e.Start, loc)
		if date.Before(today) {
			continue
		}
		byDate[date] = append(byDate[date], e)
	}

	days := make([]Day, 0, len(byDate))
	for date, dayEntries := range byDate {
		sortEntries(dayEntries)
		days = append(days, Day{Date: date, Entries: dayEntries})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// merge flattens all sources into entries, tagging each with its input
// position so the later stable sort cannot reorder equivalent items.
func (a *Aggregator) merge(lectures []Lecture, exams []Exam, cals []Calendar) []Entry {
	entries := make([]Entry, 0, len(lectures)+len(exams)+len(cals))

	for _, l := range lectures {
		end := l.End
		entries = append(entries, Entry{
			Kind:  KindLecture,
			Title: l.Name,
			Start: l.Start,
			End:   &end,
			Rooms: l.Rooms,
			seq:   len(entries),
		})
	}
	for _, e := range exams {
		end := e.Date.Add(a.examDuration)
		var rooms []string
		if e.Room != "" {
			rooms = []string{e.Room}
		}
		entries = append(entries, Entry{
			Kind:  KindExam,
			Title: e.Name,
			Start: e.Date,
			End:   &end,
			Rooms: rooms,
			Seat:  e.Seat,
			seq:   len(entries),
		})
	}
	for _, c := range cals {
		title := c.TitleDE
		if title == "" {
			title = c.TitleEN
		}
		entries = append(entries, Entry{
			Kind:   KindCalendar,
			Title:  title,
			Start:  c.Start,
			End:    c.End,
			AllDay: c.AllDay,
			seq:    len(entries),
		})
	}
	return entries
}

// sortEntries orders one day's entries per the tie-break chain.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		// Single-instant entries surface before spans.
		if (a.End == nil) != (b.End == nil) {
			return a.End == nil
		}
		// Exams surface before lectures and calendar items.
		if (a.Kind == KindExam) != (b.Kind == KindExam) {
			return a.Kind == KindExam
		}
		// Stable sort preserves input order for the rest.
		return a.seq < b.seq
	})
}

// OngoingOrNext returns all lectures containing now, or, if none is
// ongoing, a single-element slice with the chronologically nearest future
// lecture. Lectures that already ended are ignored. The result is empty
// when nothing is ongoing or upcoming.
//
// Returning every ongoing lecture is deliberate: users can have genuinely
// overlapping entries, and silently picking one would hide the rest.
func OngoingOrNext(lectures []Lecture, now time.Time) []Lecture {
	var ongoing []Lecture
	var next *Lecture
	for i := range lectures {
		l := lectures[i]
		if !l.End.After(now) {
			continue
		}
		if !l.Start.After(now) {
			ongoing = append(ongoing, l)
			continue
		}
		if next == nil || l.Start.Before(next.Start) {
			next = &lectures[i]
		}
	}

	if len(ongoing) > 0 {
		return ongoing
	}
	if next != nil {
		return []Lecture{*next}
	}
	return nil
}

// CurrentOrNext resolves the full selection: current lectures plus the
// next same-day lecture when something is ongoing.
func CurrentOrNext(lectures []Lecture, now time.Time) CurrentOrNextSelection {
	selected := OngoingOrNext(lectures, now)
	if len(selected) == 0 {
		return CurrentOrNextSelection{}
	}

	// A single future lecture means nothing is ongoing right now.
	if len(selected) == 1 && selected[0].Start.After(now) {
		next := selected[0]
		return CurrentOrNextSelection{Next: &next}
	}

	sel := CurrentOrNextSelection{Current: selected}
	loc := now.Location()
	today := dateOf(now, loc)
	var next *Lecture
	for i := range lectures {
		l := lectures[i]
		if !l.Start.After(now) || !dateOf(l.Start, loc).Equal(today) {
			continue
		}
		if next == nil || l.Start.Before(next.Start) {
			next = &lectures[i]
		}
	}
	if next != nil {
		n := *next
		sel.Next = &n
	}
	return sel
}

// Progress reports how far an ongoing event has advanced, clamped to
// [0, 1]. Callers only invoke it for entries where start <= now < end.
func Progress(start, end, now time.Time) float64 {
	total := end.Sub(start)
	if total <= 0 {
		return 1
	}
	p := 1 - float64(end.Sub(now))/float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Remaining returns the time left until end, never negative.
func Remaining(end, now time.Time) time.Duration {
	if d := end.Sub(now); d > 0 {
		return d
	}
	return 0
}

// dateOf truncates an instant to its calendar date in the given location.
func dateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
