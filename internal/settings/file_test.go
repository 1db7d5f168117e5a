package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/steveyegge/gitwarden/internal/identity"
)

func testService(t *testing.T) *FileService {
	t.Helper()
	return NewFileService(filepath.Join(t.TempDir(), "gitwarden", FileName))
}

func TestFileService_Defaults(t *testing.T) {
	s := testService(t)

	p := s.Policy()
	if !p.Enabled {
		t.Error("Enabled should default to true")
	}
	if !p.AutoApplyBestMatch {
		t.Error("AutoApplyBestMatch should default to true")
	}
	if p.BlockUntilConfigured {
		t.Error("BlockUntilConfigured should default to false")
	}
	if !p.StatusBarEnabled {
		t.Error("StatusBarEnabled should default to true")
	}
	if p.CheckInterval != 0 {
		t.Errorf("CheckInterval = %v, want 0", p.CheckInterval)
	}
	if len(p.AllowedDomains) != 0 {
		t.Errorf("AllowedDomains = %v, want empty", p.AllowedDomains)
	}
	if p.MaxRecentIdentities != DefaultMaxRecents {
		t.Errorf("MaxRecentIdentities = %d, want %d", p.MaxRecentIdentities, DefaultMaxRecents)
	}
}

func TestFileService_RoundTrip(t *testing.T) {
	s := testService(t)

	presets := []identity.Preset{
		{
			Identity: identity.Identity{Name: "Jane Dev", Email: "jane@company.com"},
			Label:    "Work",
			Match:    []string{"github.com/my-org"},
			Options:  map[string]string{"user.signingkey": "ABC123"},
		},
	}
	if err := s.SetPresets(presets); err != nil {
		t.Fatalf("SetPresets: %v", err)
	}

	recents := []identity.Identity{{Name: "Jane Dev", Email: "jane@company.com"}}
	if err := s.SetRecents(recents); err != nil {
		t.Fatalf("SetRecents: %v", err)
	}

	// A fresh service over the same file sees the same data.
	s2 := NewFileService(s.Path())
	if diff := cmp.Diff(presets, s2.Presets()); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(recents, s2.Recents()); diff != "" {
		t.Errorf("recents mismatch (-want +got):\n%s", diff)
	}
}

func TestFileService_HuJSONTolerated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	// Hand-edited settings with comments and a trailing comma.
	raw := `{
		// identity presets
		"identities": [
			{"name": "Jane Dev", "email": "jane@company.com"},
		],
		"allowedDomains": ["company.com"],
		"checkIntervalMs": 30000,
		"enabled": false,
	}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileService(path)
	p := s.Policy()
	if p.Enabled {
		t.Error("Enabled should be false")
	}
	if p.CheckInterval != 30*time.Second {
		t.Errorf("CheckInterval = %v, want 30s", p.CheckInterval)
	}
	if len(p.AllowedDomains) != 1 || p.AllowedDomains[0] != "company.com" {
		t.Errorf("AllowedDomains = %v", p.AllowedDomains)
	}
	if got := s.Presets(); len(got) != 1 || got[0].Name != "Jane Dev" {
		t.Errorf("presets = %v", got)
	}
}

func TestFileService_CorruptFileDegradesToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileService(path)
	if !s.Policy().Enabled {
		t.Error("corrupt settings should fall back to defaults")
	}
	if got := s.Presets(); len(got) != 0 {
		t.Errorf("presets = %v, want empty", got)
	}
}

func TestFileService_IgnoreList(t *testing.T) {
	s := testService(t)

	if err := s.IgnoreRepository("/repos/vendored"); err != nil {
		t.Fatalf("IgnoreRepository: %v", err)
	}
	// Second add is a no-op, not a duplicate.
	if err := s.IgnoreRepository("/repos/vendored"); err != nil {
		t.Fatalf("IgnoreRepository again: %v", err)
	}

	p := s.Policy()
	if len(p.IgnoredRepositories) != 1 {
		t.Fatalf("ignored = %v, want one entry", p.IgnoredRepositories)
	}
	if !p.Ignored("/repos/vendored") {
		t.Error("path should be ignored")
	}
	if p.Ignored("/repos/other") {
		t.Error("other path should not be ignored")
	}

	if err := s.UnignoreRepository("/repos/vendored"); err != nil {
		t.Fatalf("UnignoreRepository: %v", err)
	}
	if s.Policy().Ignored("/repos/vendored") {
		t.Error("path should no longer be ignored")
	}
}

func TestFileService_SetEnabled(t *testing.T) {
	s := testService(t)

	if err := s.SetEnabled(false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if s.Policy().Enabled {
		t.Error("Enabled should be false after SetEnabled(false)")
	}
	if err := s.SetEnabled(true); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if !s.Policy().Enabled {
		t.Error("Enabled should be true after SetEnabled(true)")
	}
}
