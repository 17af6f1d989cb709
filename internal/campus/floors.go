package campus

import "sync"

// FloorNormalizer canonicalizes raw floor labels and remembers the order
// in which distinct canonical labels were first observed.
//
// The substitution table and the seeded default ordering come from
// configuration. Labels discovered at ingestion time that are not part of
// the seeded set are appended after the defaults in order of first
// appearance, which keeps floor-picker ordering stable even for buildings
// whose labels were never configured.
type FloorNormalizer struct {
	mu   sync.Mutex
	subs map[string]string
	pos  map[string]int
	seen []string
}

// NewFloorNormalizer creates a normalizer with the given substitution
// table and seeded default label ordering.
func NewFloorNormalizer(substitutions map[string]string, defaultOrder []string) *FloorNormalizer {
	n := &FloorNormalizer{
		subs: make(map[string]string, len(substitutions)),
		pos:  make(map[string]int, len(defaultOrder)),
	}
	for raw, canonical := range substitutions {
		n.subs[raw] = canonical
	}
	for _, label := range defaultOrder {
		n.observe(label)
	}
	return n
}

// Normalize returns the canonical form of a raw floor label.
// Labels absent from the substitution table pass through unchanged.
// The resulting canonical label is recorded if not seen before.
func (n *FloorNormalizer) Normalize(raw string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	canonical := raw
	if s, ok := n.subs[raw]; ok {
		canonical = s
	}
	n.observe(canonical)
	return canonical
}

// Compare orders two canonical labels by their position in the observed
// ordering. It returns a negative value if a sorts before b, zero if they
// are equal, and a positive value otherwise. Labels not yet observed are
// recorded on the spot, placing them after all known labels in encounter
// order.
func (n *FloorNormalizer) Compare(a, b string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.observe(a) - n.observe(b)
}

// Labels returns a copy of all canonical labels observed so far, in order.
func (n *FloorNormalizer) Labels() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]string, len(n.seen))
	copy(out, n.seen)
	return out
}

// observe records a canonical label if new and returns its position.
// Callers must hold the mutex.
func (n *FloorNormalizer) observe(label string) int {
	if p, ok := n.pos[label]; ok {
		return p
	}
	p := len(n.seen)
	n.pos[label] = p
	n.seen = append(n.seen, label)
	return p
}
