package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverride_Missing(t *testing.T) {
	o, err := LoadOverride(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOverride: %v", err)
	}
	if o != nil {
		t.Errorf("override = %+v, want nil", o)
	}
}

func TestWithOverride(t *testing.T) {
	root := t.TempDir()
	raw := `
allowed_domains = ["company.com", "corp.io"]
auto_apply_best_match = false
ignored_repositories = ["vendored", "/abs/skip-me"]
`
	if err := os.WriteFile(filepath.Join(root, OverrideFileName), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := LoadOverride(root)
	if err != nil {
		t.Fatalf("LoadOverride: %v", err)
	}
	if o == nil {
		t.Fatal("override should not be nil")
	}

	base := NewMemory(&Document{
		IgnoredRepositories: []string{"/repos/old"},
	})
	svc := WithOverride(base, o, root)

	p := svc.Policy()
	if len(p.AllowedDomains) != 2 || p.AllowedDomains[0] != "company.com" {
		t.Errorf("AllowedDomains = %v", p.AllowedDomains)
	}
	if p.AutoApplyBestMatch {
		t.Error("AutoApplyBestMatch should be overridden to false")
	}
	if p.BlockUntilConfigured {
		t.Error("BlockUntilConfigured untouched by this override, want default false")
	}

	// Base ignores persist, relative override entries resolve to the root.
	if !p.Ignored("/repos/old") {
		t.Error("base ignore entry lost")
	}
	if !p.Ignored(filepath.Join(root, "vendored")) {
		t.Error("relative ignore entry not resolved against root")
	}
	if !p.Ignored("/abs/skip-me") {
		t.Error("absolute ignore entry lost")
	}
}

func TestWithOverride_Nil(t *testing.T) {
	base := NewMemory(nil)
	if got := WithOverride(base, nil, "/w"); got != base {
		t.Error("nil override should return the service unchanged")
	}
}
