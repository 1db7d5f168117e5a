package identity

import (
	"fmt"
	"regexp"
	"strings"
)

// emailPattern is deliberately loose: one local part, one domain with at
// least one dot. Full RFC 5322 validation buys nothing here since git
// itself accepts any string.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Normalized returns the identity with leading/trailing whitespace removed
// from both fields.
func (id Identity) Normalized() Identity {
	return Identity{
		Name:  strings.TrimSpace(id.Name),
		Email: strings.TrimSpace(id.Email),
	}
}

// Valid reports whether the identity has a non-empty name and a
// plausible local@domain.tld email after trimming.
func (id Identity) Valid() bool {
	n := id.Normalized()
	return n.Name != "" && emailPattern.MatchString(n.Email)
}

// Key returns the canonical comparison key for deduplication: the name is
// compared case-sensitively, the email case-insensitively.
func (id Identity) Key() string {
	n := id.Normalized()
	return n.Name + "::" + strings.ToLower(n.Email)
}

// Equal reports whether two identities share the same comparison key.
func (id Identity) Equal(other Identity) bool {
	return id.Key() == other.Key()
}

// String renders the identity in the conventional "Name <email>" form.
func (id Identity) String() string {
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}

// EmailDomain returns the domain portion of an email address: the text
// after the last '@', provided the '@' is present and neither the first
// nor the last character. ok is false otherwise.
func EmailDomain(email string) (domain string, ok bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	return email[at+1:], true
}

// ValidOptionKey reports whether key is an acceptable auxiliary config
// key: a dot-delimited token with at least a section and a name, no empty
// segments, no whitespace.
func ValidOptionKey(key string) bool {
	if strings.ContainsAny(key, " \t\n") {
		return false
	}
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
