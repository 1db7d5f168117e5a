package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// OverrideFileName is the optional per-workspace policy file.
const OverrideFileName = ".gitwarden.toml"

// Override holds workspace-level policy overrides. The file is read-only
// input: gitwarden never writes it, so a team can commit one to pin the
// allowed domains for everything under a workspace root.
type Override struct {
	AllowedDomains       []string `toml:"allowed_domains"`
	AutoApplyBestMatch   *bool    `toml:"auto_apply_best_match"`
	BlockUntilConfigured *bool    `toml:"block_until_configured"`
	IgnoredRepositories  []string `toml:"ignored_repositories"`
}

// LoadOverride reads .gitwarden.toml from the workspace root. Returns
// (nil, nil) when the file does not exist.
func LoadOverride(root string) (*Override, error) {
	path := filepath.Join(root, OverrideFileName)
	data, err := os.ReadFile(path) //nolint:gosec // G304: path from the user's workspace root
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var o Override
	if err := toml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &o, nil
}

// apply layers the override onto a resolved policy. Domain lists replace;
// ignored repositories merge. Relative ignore paths are resolved against
// the workspace root.
func (o *Override) apply(p Policy, root string) Policy {
	if o == nil {
		return p
	}
	if len(o.AllowedDomains) > 0 {
		p.AllowedDomains = append([]string(nil), o.AllowedDomains...)
	}
	if o.AutoApplyBestMatch != nil {
		p.AutoApplyBestMatch = *o.AutoApplyBestMatch
	}
	if o.BlockUntilConfigured != nil {
		p.BlockUntilConfigured = *o.BlockUntilConfigured
	}
	for _, ignored := range o.IgnoredRepositories {
		if !filepath.IsAbs(ignored) {
			ignored = filepath.Join(root, ignored)
		}
		p.IgnoredRepositories = append(p.IgnoredRepositories, ignored)
	}
	return p
}

// overridden decorates a Service with a workspace override applied to
// every Policy read.
type overridden struct {
	Service
	override *Override
	root     string
}

// WithOverride returns s with o layered onto its policy. A nil override
// returns s unchanged.
func WithOverride(s Service, o *Override, root string) Service {
	if o == nil {
		return s
	}
	return &overridden{Service: s, override: o, root: root}
}

func (s *overridden) Policy() Policy {
	return s.override.apply(s.Service.Policy(), s.root)
}
