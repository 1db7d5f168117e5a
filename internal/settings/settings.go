// Package settings persists gitwarden policy and identity collections as a
// single JSON document, and exposes them through a narrow service contract
// so the rest of the tool never touches the file directly.
package settings

import (
	"time"

	"github.com/steveyegge/gitwarden/internal/identity"
)

// DefaultMaxRecents is the default cap on the recently-used identity list.
const DefaultMaxRecents = 8

// Policy is the resolved process-wide configuration, defaults applied.
type Policy struct {
	// Enabled gates all checking. When false every pass is a no-op.
	Enabled bool

	// AutoApplyBestMatch applies the best-matching preset without
	// prompting when a repository fails policy.
	AutoApplyBestMatch bool

	// BlockUntilConfigured re-queues unresolved repositories until the
	// user configures, skips, or ignores each one.
	BlockUntilConfigured bool

	// StatusBarEnabled controls the summary line after a pass.
	StatusBarEnabled bool

	// CheckInterval drives periodic re-checks. Zero disables the timer,
	// leaving only explicit triggers.
	CheckInterval time.Duration

	// AllowedDomains restricts acceptable email domains. Empty allows
	// all. Matching is case-insensitive.
	AllowedDomains []string

	// IgnoredRepositories lists absolute repository paths permanently
	// excluded from checking. Exact string match.
	IgnoredRepositories []string

	// MaxRecentIdentities caps the recent list. Floor of 1.
	MaxRecentIdentities int
}

// DefaultPolicy returns the policy with every field at its default.
func DefaultPolicy() Policy {
	return Policy{
		Enabled:             true,
		AutoApplyBestMatch:  true,
		StatusBarEnabled:    true,
		MaxRecentIdentities: DefaultMaxRecents,
	}
}

// Ignored reports whether repoPath is on the permanent ignore list.
func (p Policy) Ignored(repoPath string) bool {
	for _, ignored := range p.IgnoredRepositories {
		if ignored == repoPath {
			return true
		}
	}
	return false
}

// Service is the settings access contract. The file-backed implementation
// is used in production; tests swap in the in-memory one. It also
// satisfies identity.Backend.
type Service interface {
	// Policy returns the current resolved policy. Re-read on every call
	// so external edits take effect without a restart.
	Policy() Policy

	// Presets returns the raw persisted preset list in insertion order.
	Presets() []identity.Preset

	// SetPresets replaces the persisted preset list wholesale.
	SetPresets(presets []identity.Preset) error

	// Recents returns the raw persisted recent identities.
	Recents() []identity.Identity

	// SetRecents replaces the persisted recent list wholesale.
	SetRecents(recents []identity.Identity) error

	// MaxRecents returns the configured recent-list cap.
	MaxRecents() int

	// IgnoreRepository adds an absolute path to the permanent ignore
	// list. Adding a path twice is a no-op.
	IgnoreRepository(path string) error

	// UnignoreRepository removes a path from the permanent ignore list.
	UnignoreRepository(path string) error

	// SetEnabled flips the global enabled bit.
	SetEnabled(enabled bool) error
}
