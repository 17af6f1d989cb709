package schedule

import "sync"

// Store holds the latest schedule feed delivered by the upstream
// fetchers. Feeds are replaced wholesale, mirroring how the facility
// snapshot works: readers always see one complete, consistent feed.
type Store struct {
	mu       sync.RWMutex
	lectures []Lecture
	exams    []Exam
	calendar []Calendar
}

// NewStore creates an empty schedule store.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a complete new schedule feed.
func (s *Store) Replace(lectures []Lecture, exams []Exam, calendar []Calendar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lectures = lectures
	s.exams = exams
	s.calendar = calendar
}

// Sources returns copies of the current feed.
func (s *Store) Sources() (lectures []Lecture, exams []Exam, calendar []Calendar) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lectures = make([]Lecture, len(s.lectures))
	copy(lectures, s.lectures)
	exams = make([]Exam, len(s.exams))
	copy(exams, s.exams)
	calendar = make([]Calendar, len(s.calendar))
	copy(calendar, s.calendar)
	return lectures, exams, calendar
}

// Lectures returns a copy of the current lecture feed.
func (s *Store) Lectures() []Lecture {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Lecture, len(s.lectures))
	copy(out, s.lectures)
	return out
}
