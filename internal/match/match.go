// Package match scores identity presets against repository fingerprints
// and selects the best candidate for auto-apply.
package match

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/steveyegge/gitwarden/internal/gitcfg"
	"github.com/steveyegge/gitwarden/internal/identity"
)

// fold case-folds s for caseless comparison. A fresh Caser per call:
// Casers are stateful and must not be shared.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Fingerprint builds the case-folded text a preset's match patterns are
// tested against: the repository's absolute path, its final path segment,
// and every distinct remote URL, newline-joined.
func Fingerprint(repoPath string, remotes []string) string {
	parts := make([]string, 0, 2+len(remotes))
	parts = append(parts, repoPath, filepath.Base(repoPath))

	seen := make(map[string]bool, len(remotes))
	for _, url := range remotes {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		parts = append(parts, url)
	}

	return fold(strings.Join(parts, "\n"))
}

// Best selects the winning preset for a fingerprint.
//
// A preset's score is the length of its longest matching pattern
// (case-folded, trimmed, empty patterns discarded; a pattern matches if
// it is a substring of the fingerprint). The strictly greatest score
// wins; on a tie the first preset in configured order wins. When nothing
// matches and exactly one preset is configured overall, that preset is
// returned as the fallback default regardless of its patterns.
func Best(presets []identity.Preset, fingerprint string) (identity.Preset, bool) {
	best := -1
	bestScore := 0
	for i, p := range presets {
		score := score(p, fingerprint)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best >= 0 {
		return presets[best], true
	}

	// Sole-preset fallback: with exactly one preset configured it is the
	// default even without a pattern match.
	if len(presets) == 1 {
		return presets[0], true
	}

	return identity.Preset{}, false
}

// score returns the length of the preset's longest matching pattern, or 0
// when no pattern matches. Presets with no usable patterns score 0.
func score(p identity.Preset, fingerprint string) int {
	longest := 0
	for _, pattern := range p.Match {
		pattern = fold(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if strings.Contains(fingerprint, pattern) && len(pattern) > longest {
			longest = len(pattern)
		}
	}
	return longest
}

// Engine resolves best matches for live repositories.
type Engine struct {
	git   gitcfg.Client
	store *identity.Store
}

// NewEngine returns a match engine over the given git client and store.
func NewEngine(git gitcfg.Client, store *identity.Store) *Engine {
	return &Engine{git: git, store: store}
}

// FindBest returns the best-matching configured preset for the
// repository at repoPath, or ok=false when no preset qualifies.
func (e *Engine) FindBest(repoPath string) (identity.Preset, bool) {
	return Best(e.store.ListPresets(), Fingerprint(repoPath, e.git.Remotes(repoPath)))
}
