package settings

import (
	"time"

	"github.com/steveyegge/gitwarden/internal/identity"
)

// Document is the on-disk shape of the settings file. Scalar policy
// fields are pointers so an absent key falls back to its default rather
// than the zero value (enabled, for one, defaults to true).
type Document struct {
	Identities           []identity.Preset   `json:"identities,omitempty"`
	RecentIdentities     []identity.Identity `json:"recentIdentities,omitempty"`
	IgnoredRepositories  []string            `json:"ignoredRepositories,omitempty"`
	Enabled              *bool               `json:"enabled,omitempty"`
	StatusBarEnabled     *bool               `json:"statusBarEnabled,omitempty"`
	BlockUntilConfigured *bool               `json:"blockUntilConfigured,omitempty"`
	AutoApplyBestMatch   *bool               `json:"autoApplyBestMatch,omitempty"`
	CheckIntervalMs      *int                `json:"checkIntervalMs,omitempty"`
	AllowedDomains       []string            `json:"allowedDomains,omitempty"`
	MaxRecentIdentities  *int                `json:"maxRecentIdentities,omitempty"`
}

// policy resolves the document into a Policy, applying defaults for
// absent fields.
func (d *Document) policy() Policy {
	p := DefaultPolicy()
	if d == nil {
		return p
	}
	if d.Enabled != nil {
		p.Enabled = *d.Enabled
	}
	if d.StatusBarEnabled != nil {
		p.StatusBarEnabled = *d.StatusBarEnabled
	}
	if d.BlockUntilConfigured != nil {
		p.BlockUntilConfigured = *d.BlockUntilConfigured
	}
	if d.AutoApplyBestMatch != nil {
		p.AutoApplyBestMatch = *d.AutoApplyBestMatch
	}
	if d.CheckIntervalMs != nil && *d.CheckIntervalMs > 0 {
		p.CheckInterval = time.Duration(*d.CheckIntervalMs) * time.Millisecond
	}
	if d.MaxRecentIdentities != nil {
		p.MaxRecentIdentities = *d.MaxRecentIdentities
	}
	p.AllowedDomains = append([]string(nil), d.AllowedDomains...)
	p.IgnoredRepositories = append([]string(nil), d.IgnoredRepositories...)
	return p
}

func boolPtr(b bool) *bool { return &b }
