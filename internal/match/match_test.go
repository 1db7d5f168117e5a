package match

import (
	"testing"

	"github.com/steveyegge/gitwarden/internal/identity"
)

func preset(name, email string, patterns ...string) identity.Preset {
	return identity.Preset{
		Identity: identity.Identity{Name: name, Email: email},
		Match:    patterns,
	}
}

func TestFingerprint(t *testing.T) {
	fp := Fingerprint("/Repos/Widget", []string{
		"git@GitHub.com:My-Org/widget.git",
		"git@GitHub.com:My-Org/widget.git", // duplicate dropped
		"https://mirror.example.com/widget",
	})

	want := "/repos/widget\nwidget\ngit@github.com:my-org/widget.git\nhttps://mirror.example.com/widget"
	if fp != want {
		t.Errorf("Fingerprint = %q, want %q", fp, want)
	}
}

func TestBest_LongestPatternWins(t *testing.T) {
	presets := []identity.Preset{
		preset("Work Short", "a@company.com", "work"),
		preset("Work Long", "b@company.com", "github.com/my-org"),
	}
	fp := Fingerprint("/home/jane/work/widget", []string{"https://github.com/my-org/widget"})

	got, ok := Best(presets, fp)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Name != "Work Long" {
		t.Errorf("winner = %q, want Work Long (longer pattern)", got.Name)
	}
}

func TestBest_TieGoesToFirst(t *testing.T) {
	presets := []identity.Preset{
		preset("First", "a@company.com", "my-org"),
		preset("Second", "b@company.com", "widget"), // same length, also matches
	}
	fp := Fingerprint("/repos/my-org/widget", nil)

	got, ok := Best(presets, fp)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Name != "First" {
		t.Errorf("winner = %q, want First (stable tie-break)", got.Name)
	}
}

func TestBest_CaseInsensitive(t *testing.T) {
	presets := []identity.Preset{preset("Work", "a@company.com", "MY-ORG")}
	fp := Fingerprint("/repos/other", []string{"git@github.com:my-org/widget.git"})

	if _, ok := Best(presets, fp); !ok {
		t.Error("pattern matching should be case-insensitive")
	}
}

func TestBest_SolePresetFallback(t *testing.T) {
	// One preset configured, no pattern match: fallback default.
	only := []identity.Preset{preset("Only", "a@company.com", "nomatch")}
	got, ok := Best(only, Fingerprint("/repos/widget", nil))
	if !ok || got.Name != "Only" {
		t.Errorf("sole preset should be the fallback, got (%v, %v)", got.Name, ok)
	}

	// Even a pattern-less sole preset is the fallback.
	bare := []identity.Preset{preset("Bare", "a@company.com")}
	if _, ok := Best(bare, Fingerprint("/repos/widget", nil)); !ok {
		t.Error("pattern-less sole preset should be the fallback")
	}
}

func TestBest_NoMatchMultiplePresets(t *testing.T) {
	presets := []identity.Preset{
		preset("A", "a@company.com", "nomatch"),
		preset("B", "b@company.com", "alsono"),
	}
	if _, ok := Best(presets, Fingerprint("/repos/widget", nil)); ok {
		t.Error("no match with two presets should return none")
	}
}

func TestBest_PatternlessExcludedFromScoring(t *testing.T) {
	presets := []identity.Preset{
		preset("Bare", "a@company.com"),
		preset("Patterned", "b@company.com", "widget"),
	}
	got, ok := Best(presets, Fingerprint("/repos/widget", nil))
	if !ok || got.Name != "Patterned" {
		t.Errorf("winner = (%v, %v), want Patterned", got.Name, ok)
	}
}

func TestBest_BlankPatternsDiscarded(t *testing.T) {
	presets := []identity.Preset{
		preset("Blanky", "a@company.com", "", "   "),
		preset("Other", "b@company.com", "zzz"),
	}
	// Blank patterns must not match everything; with two presets and no
	// real match there is no winner.
	if got, ok := Best(presets, Fingerprint("/repos/widget", nil)); ok {
		t.Errorf("winner = %q, want none", got.Name)
	}
}

func TestBest_Empty(t *testing.T) {
	if _, ok := Best(nil, "anything"); ok {
		t.Error("no presets should return none")
	}
}
