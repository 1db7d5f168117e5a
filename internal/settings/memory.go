package settings

import (
	"sync"

	"github.com/steveyegge/gitwarden/internal/identity"
)

// Memory is an in-memory settings service for tests and dry runs. It
// mirrors FileService semantics (whole-collection replacement writes)
// without touching disk.
type Memory struct {
	mu  sync.Mutex
	doc Document
}

// NewMemory returns an in-memory service seeded with doc. A nil doc
// starts from an empty document (all defaults).
func NewMemory(doc *Document) *Memory {
	m := &Memory{}
	if doc != nil {
		m.doc = *doc
	}
	return m
}

// Policy returns the current resolved policy.
func (m *Memory) Policy() Policy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.policy()
}

// Presets returns the raw preset list.
func (m *Memory) Presets() []identity.Preset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Identities
}

// SetPresets replaces the preset list.
func (m *Memory) SetPresets(presets []identity.Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Identities = presets
	return nil
}

// Recents returns the raw recent identities.
func (m *Memory) Recents() []identity.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.RecentIdentities
}

// SetRecents replaces the recent identity list.
func (m *Memory) SetRecents(recents []identity.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.RecentIdentities = recents
	return nil
}

// MaxRecents returns the configured recent-list cap.
func (m *Memory) MaxRecents() int {
	return m.Policy().MaxRecentIdentities
}

// IgnoreRepository adds path to the permanent ignore list.
func (m *Memory) IgnoreRepository(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.doc.IgnoredRepositories {
		if existing == path {
			return nil
		}
	}
	m.doc.IgnoredRepositories = append(m.doc.IgnoredRepositories, path)
	return nil
}

// UnignoreRepository removes path from the permanent ignore list.
func (m *Memory) UnignoreRepository(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.doc.IgnoredRepositories[:0]
	for _, existing := range m.doc.IgnoredRepositories {
		if existing != path {
			out = append(out, existing)
		}
	}
	m.doc.IgnoredRepositories = out
	return nil
}

// SetEnabled flips the global enabled bit.
func (m *Memory) SetEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Enabled = boolPtr(enabled)
	return nil
}

var _ Service = (*Memory)(nil)
var _ identity.Backend = (*Memory)(nil)
