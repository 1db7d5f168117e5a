package identity

// Backend is the narrow persistence contract the store needs. The
// settings service implements it; tests supply an in-memory fake.
// All writes are whole-collection replacements.
type Backend interface {
	// Presets returns the raw persisted preset list in insertion order.
	Presets() []Preset

	// SetPresets replaces the persisted preset list wholesale.
	SetPresets(presets []Preset) error

	// Recents returns the raw persisted recent identities, most recent
	// first.
	Recents() []Identity

	// SetRecents replaces the persisted recent list wholesale.
	SetRecents(recents []Identity) error

	// MaxRecents returns the configured cap for the recent list.
	MaxRecents() int
}

// Store reads and writes presets and recently used identities through a
// Backend, enforcing validation and the recent-list dedup invariant.
type Store struct {
	backend Backend
}

// NewStore returns a Store over the given backend.
func NewStore(b Backend) *Store {
	return &Store{backend: b}
}

// ListPresets returns the persisted presets in insertion order. Entries
// failing identity validation are dropped silently, never surfaced.
func (s *Store) ListPresets() []Preset {
	var out []Preset
	for _, p := range s.backend.Presets() {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// SavePresets replaces the persisted preset list. No implicit dedup: the
// editing workflow is responsible for rejecting key collisions before
// calling this. Callers that build the new list from ListPresets (the
// editing workflow does) also discard any invalid raw entries the read
// filtered out; a save after a hand-edit that broke an entry loses that
// entry.
func (s *Store) SavePresets(presets []Preset) error {
	return s.backend.SetPresets(presets)
}

// ListRecents returns the remembered identities, most recent first.
// Invalid entries are dropped on read.
func (s *Store) ListRecents() []Identity {
	var out []Identity
	for _, id := range s.backend.Recents() {
		if id.Valid() {
			out = append(out, id)
		}
	}
	return out
}

// SaveRecents normalizes and validates each entry, removes duplicate
// comparison keys keeping the first occurrence, truncates to the
// configured maximum (floor of 1), and writes the result.
func (s *Store) SaveRecents(recents []Identity) error {
	max := s.backend.MaxRecents()
	if max < 1 {
		max = 1
	}

	seen := make(map[string]bool, len(recents))
	out := make([]Identity, 0, len(recents))
	for _, id := range recents {
		n := id.Normalized()
		if !n.Valid() || seen[n.Key()] {
			continue
		}
		seen[n.Key()] = true
		out = append(out, n)
		if len(out) == max {
			break
		}
	}

	return s.backend.SetRecents(out)
}

// Remember records id as the most recently used identity, displacing any
// prior entry with the same comparison key. Called once per successful
// identity application.
func (s *Store) Remember(id Identity) error {
	return s.SaveRecents(append([]Identity{id}, s.ListRecents()...))
}
