package schedule

import "time"

// Kind identifies the source variant of a schedule entry.
type Kind string

const (
	KindLecture  Kind = "lecture"
	KindExam     Kind = "exam"
	KindCalendar Kind = "calendar"
)

// Lecture is a teaching event with a known start and end.
type Lecture struct {
	Name  string    `json:"name"`
	Rooms []string  `json:"rooms,omitempty"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Exam is a registered exam. Upstream data carries only the date instant;
// the displayed end is computed from the configured default duration.
type Exam struct {
	Name string    `json:"name"`
	Room string    `json:"room,omitempty"`
	Seat string    `json:"seat,omitempty"`
	Date time.Time `json:"date"`
}

// Calendar is a personal calendar entry, possibly bilingual and possibly
// open-ended (no end instant) or all-day.
type Calendar struct {
	TitleDE string     `json:"title_de"`
	TitleEN string     `json:"title_en,omitempty"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"`
	AllDay  bool       `json:"all_day"`
}

// Entry is the merged, display-ready form of one schedule item. Every
// variant exposes a comparable start instant; End is nil for open-ended
// calendar items.
type Entry struct {
	Kind   Kind       `json:"kind"`
	Title  string     `json:"title"`
	Start  time.Time  `json:"start"`
	End    *time.Time `json:"end,omitempty"`
	Rooms  []string   `json:"rooms,omitempty"`
	Seat   string     `json:"seat,omitempty"`
	AllDay bool       `json:"all_day,omitempty"`

	// seq preserves input order for the stable tie-break.
	seq int
}

// Day is one calendar date with its ordered entries.
type Day struct {
	Date    time.Time `json:"date"`
	Entries []Entry   `json:"entries"`
}

// CurrentOrNextSelection is the "what is happening now" answer: all
// currently ongoing lectures, or the nearest future one when nothing is
// ongoing; Next is the following same-day lecture when something is
// ongoing.
type CurrentOrNextSelection struct {
	Current []Lecture `json:"current,omitempty"`
	Next    *Lecture  `json:"next,omitempty"`
}
