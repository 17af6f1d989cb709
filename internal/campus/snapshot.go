package campus

import (
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Derived-building cache settings. Entries are keyed by snapshot ID, so
// they become unreachable as soon as a new index is swapped in; the TTL
// just bounds how long stale entries linger.
const (
	derivedTTL     = 30 * time.Minute
	derivedCleanup = time.Hour
)

// derivedBuildings is the memoized result of DeriveBuildings for one
// snapshot and one known-building set.
type derivedBuildings struct {
	buildings []Building
	warnings  []MissingBuildingWarning
}

// SnapshotStore holds the current RoomIndex snapshot and hands out
// derived buildings memoized per snapshot identity.
//
// Facility data is replaced wholesale: Swap installs a complete new
// index, readers always see a consistent snapshot, and no fine-grained
// locking of index contents is ever needed.
type SnapshotStore struct {
	mu      sync.RWMutex
	current *RoomIndex
	derived *gocache.Cache
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		derived: gocache.New(derivedTTL, derivedCleanup),
	}
}

// Swap builds a new index from the given records and installs it as the
// current snapshot, dropping memoized results of previous snapshots.
func (s *SnapshotStore) Swap(records []RawRecord, floors *FloorNormalizer) *RoomIndex {
	idx := BuildIndex(records, floors)

	s.mu.Lock()
	s.current = idx
	s.mu.Unlock()

	s.derived.Flush()
	return idx
}

// Index returns the current snapshot, or nil if no facility data has been
// ingested yet.
func (s *SnapshotStore) Index() *RoomIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Buildings derives the buildings for the given known codes from the
// current snapshot. Results are memoized on snapshot identity, so
// repeated queries against the same snapshot do not recompute.
func (s *SnapshotStore) Buildings(knownCodes []string) ([]Building, []MissingBuildingWarning) {
	idx := s.Index()
	if idx == nil {
		return nil, nil
	}

	key := idx.ID() + "|" + strings.Join(knownCodes, ",")
	if cached, ok := s.derived.Get(key); ok {
		d := cached.(derivedBuildings)
		return d.buildings, d.warnings
	}

	buildings, warnings := DeriveBuildings(idx, knownCodes)
	s.derived.Set(key, derivedBuildings{buildings: buildings, warnings: warnings}, gocache.DefaultExpiration)
	return buildings, warnings
}
