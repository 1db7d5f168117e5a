// Package status classifies a repository's current commit identity
// against policy: missing fields, disallowed email domain, ignored.
package status

import (
	"strings"

	"github.com/steveyegge/gitwarden/internal/gitcfg"
	"github.com/steveyegge/gitwarden/internal/identity"
	"github.com/steveyegge/gitwarden/internal/settings"
)

// Field names reported in Status.Missing.
const (
	FieldName  = "name"
	FieldEmail = "email"
)

// Status is the derived, never-persisted classification of one
// repository. Always recomputed from live configuration.
type Status struct {
	// RepoPath is the repository's absolute path.
	RepoPath string

	// Identity is the current local user.name / user.email pair, empty
	// fields included.
	Identity identity.Identity

	// Missing lists absent identity fields, name before email.
	Missing []string

	// ValidDomain reports whether the email's domain passes the
	// allowed-domains policy. True when the allow-list is empty or the
	// email is empty (no identity yet is a missing-field problem, not a
	// domain violation).
	ValidDomain bool

	// Ignored reports permanent ignore-list membership.
	Ignored bool
}

// OK reports whether the repository satisfies policy: nothing missing and
// the domain is acceptable.
func (s Status) OK() bool {
	return len(s.Missing) == 0 && s.ValidDomain
}

// Resolver computes repository status from live git configuration and
// the current policy.
type Resolver struct {
	git      gitcfg.Client
	settings settings.Service
}

// NewResolver returns a Resolver over the given git client and settings.
func NewResolver(git gitcfg.Client, svc settings.Service) *Resolver {
	return &Resolver{git: git, settings: svc}
}

// Resolve classifies the repository at repoPath. Read failures degrade
// to empty values, so a broken repository surfaces as missing fields
// rather than an error.
func (r *Resolver) Resolve(repoPath string) Status {
	policy := r.settings.Policy()

	id := identity.Identity{
		Name:  r.git.ConfigGet(repoPath, "user.name"),
		Email: r.git.ConfigGet(repoPath, "user.email"),
	}

	s := Status{
		RepoPath:    repoPath,
		Identity:    id,
		ValidDomain: DomainAllowed(id.Email, policy.AllowedDomains),
		Ignored:     policy.Ignored(repoPath),
	}
	if strings.TrimSpace(id.Name) == "" {
		s.Missing = append(s.Missing, FieldName)
	}
	if strings.TrimSpace(id.Email) == "" {
		s.Missing = append(s.Missing, FieldEmail)
	}
	return s
}

// DomainAllowed reports whether an email's domain passes the allow-list.
// An empty list allows everything; an empty email is not a domain
// violation. With a non-empty list, an email whose '@' is absent, first,
// or last is not allowed.
func DomainAllowed(email string, allowed []string) bool {
	if len(allowed) == 0 || email == "" {
		return true
	}

	domain, ok := identity.EmailDomain(email)
	if !ok {
		return false
	}
	for _, d := range allowed {
		if strings.EqualFold(domain, d) {
			return true
		}
	}
	return false
}
