// Package identity defines commit identities, reusable presets, and the
// store of presets and recently used identities.
package identity

// Identity is a git commit identity: the two mandatory fields written to
// a repository's local configuration before the user commits.
type Identity struct {
	// Name is the value for user.name.
	Name string `json:"name"`

	// Email is the value for user.email.
	Email string `json:"email"`
}

// Preset is a user-authored, reusable identity with optional auto-match
// hints and auxiliary configuration options.
type Preset struct {
	Identity

	// Label is an optional display name for pick lists.
	Label string `json:"label,omitempty"`

	// Match holds case-insensitive substring patterns tested against a
	// repository's fingerprint (path, folder name, remote URLs).
	Match []string `json:"match,omitempty"`

	// Options maps extra git config keys (dot-path form, e.g.
	// "user.signingkey") to string values, applied alongside the identity.
	Options map[string]string `json:"options,omitempty"`
}

// DisplayName returns the preset's label, or "Name <email>" when no label
// is set.
func (p Preset) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.String()
}

// Clone returns a deep copy of the preset. Match and Options are copied so
// callers can mutate the clone without aliasing the original.
func (p Preset) Clone() Preset {
	out := p
	if p.Match != nil {
		out.Match = append([]string(nil), p.Match...)
	}
	if p.Options != nil {
		out.Options = make(map[string]string, len(p.Options))
		for k, v := range p.Options {
			out.Options[k] = v
		}
	}
	return out
}
