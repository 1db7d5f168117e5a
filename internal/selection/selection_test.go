package selection

import (
	"errors"
	"testing"

	"github.com/steveyegge/gitwarden/internal/identity"
	"github.com/steveyegge/gitwarden/internal/settings"
)

func testStore(t *testing.T, doc *settings.Document) *identity.Store {
	t.Helper()
	return identity.NewStore(settings.NewMemory(doc))
}

func jane() identity.Preset {
	return identity.Preset{
		Identity: identity.Identity{Name: "Jane Dev", Email: "jane@company.com"},
		Label:    "Work",
		Options:  map[string]string{"user.signingkey": "ABC123"},
	}
}

func TestWorkflow_Candidates(t *testing.T) {
	store := testStore(t, &settings.Document{
		Identities:       []identity.Preset{jane()},
		RecentIdentities: []identity.Identity{{Name: "Bob", Email: "bob@home.net"}},
	})
	w := New(store, identity.Identity{})

	got := w.Candidates()
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Kind != KindPreset || got[0].Display() != "Work" {
		t.Errorf("candidate[0] = %v %q", got[0].Kind, got[0].Display())
	}
	if got[1].Kind != KindRecent || got[1].Display() != "Bob <bob@home.net>" {
		t.Errorf("candidate[1] = %v %q", got[1].Kind, got[1].Display())
	}
}

func TestWorkflow_ChoosePresetCarriesOptions(t *testing.T) {
	store := testStore(t, &settings.Document{Identities: []identity.Preset{jane()}})
	w := New(store, identity.Identity{})

	res, err := w.Apply(Choose{Candidate: w.Candidates()[0]})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res == nil || res.Canceled {
		t.Fatal("expected a terminal selection")
	}
	if res.Identity.Name != "Jane Dev" {
		t.Errorf("identity = %v", res.Identity)
	}
	if res.Options["user.signingkey"] != "ABC123" {
		t.Errorf("options = %v", res.Options)
	}
}

func TestWorkflow_CustomHasNoOptions(t *testing.T) {
	w := New(testStore(t, nil), identity.Identity{})

	res, err := w.Apply(Custom{Identity: identity.Identity{Name: " Ad Hoc ", Email: "adhoc@x.io "}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Identity.Name != "Ad Hoc" || res.Identity.Email != "adhoc@x.io" {
		t.Errorf("identity not normalized: %v", res.Identity)
	}
	if len(res.Options) != 0 {
		t.Errorf("custom entry must not carry options, got %v", res.Options)
	}

	if _, err := w.Apply(Custom{Identity: identity.Identity{Name: "", Email: "x@y.com"}}); !errors.Is(err, ErrInvalidIdentity) {
		t.Errorf("invalid custom entry: err = %v, want ErrInvalidIdentity", err)
	}
}

func TestWorkflow_CreateRejectsDuplicates(t *testing.T) {
	store := testStore(t, &settings.Document{
		Identities:       []identity.Preset{jane()},
		RecentIdentities: []identity.Identity{{Name: "Bob", Email: "bob@home.net"}},
	})
	w := New(store, identity.Identity{})

	// Collides with an existing preset (email compare is case-insensitive).
	dup := identity.Preset{Identity: identity.Identity{Name: "Jane Dev", Email: "JANE@company.com"}}
	if _, err := w.Apply(Create{Preset: dup}); !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("err = %v, want ErrDuplicateIdentity", err)
	}

	// Collides with a recent.
	dupRecent := identity.Preset{Identity: identity.Identity{Name: "Bob", Email: "bob@home.net"}}
	if _, err := w.Apply(Create{Preset: dupRecent}); !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("err = %v, want ErrDuplicateIdentity", err)
	}

	// Nothing was saved.
	if got := store.ListPresets(); len(got) != 1 {
		t.Errorf("presets = %d entries, want 1", len(got))
	}
}

func TestWorkflow_CreateSavesAndSelects(t *testing.T) {
	store := testStore(t, nil)
	w := New(store, identity.Identity{})

	p := identity.Preset{
		Identity: identity.Identity{Name: "OSS", Email: "oss@home.net"},
		Match:    []string{"github.com/oss"},
	}
	res, err := w.Apply(Create{Preset: p})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res == nil || res.Identity.Name != "OSS" {
		t.Fatalf("result = %+v", res)
	}
	if got := store.ListPresets(); len(got) != 1 || got[0].Match[0] != "github.com/oss" {
		t.Errorf("preset not persisted: %v", got)
	}
}

func TestWorkflow_CreateValidatesOptions(t *testing.T) {
	w := New(testStore(t, nil), identity.Identity{})

	p := identity.Preset{
		Identity: identity.Identity{Name: "X", Email: "x@y.com"},
		Options:  map[string]string{"badkey": "v"},
	}
	if _, err := w.Apply(Create{Preset: p}); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("err = %v, want ErrInvalidOption", err)
	}

	p.Options = map[string]string{"user.signingkey": ""}
	if _, err := w.Apply(Create{Preset: p}); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("empty value: err = %v, want ErrInvalidOption", err)
	}
}

func TestWorkflow_EditKeepsOwnKey(t *testing.T) {
	// The preset was applied before, so its identity also sits in recents.
	store := testStore(t, &settings.Document{
		Identities:       []identity.Preset{jane()},
		RecentIdentities: []identity.Identity{jane().Identity},
	})
	w := New(store, identity.Identity{})

	// Relabeling without changing the identity must not trip the dup check.
	edited := jane()
	edited.Label = "Day Job"
	res, err := w.Apply(Edit{Index: 0, Preset: edited})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res != nil {
		t.Fatal("edit should keep the session open")
	}
	if got := store.ListPresets(); got[0].Label != "Day Job" {
		t.Errorf("label = %q, want Day Job", got[0].Label)
	}
}

func TestWorkflow_EditRejectsCollision(t *testing.T) {
	other := identity.Preset{Identity: identity.Identity{Name: "Bob", Email: "bob@home.net"}}
	store := testStore(t, &settings.Document{Identities: []identity.Preset{jane(), other}})
	w := New(store, identity.Identity{})

	stolen := other
	stolen.Identity = jane().Identity
	if _, err := w.Apply(Edit{Index: 1, Preset: stolen}); !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("err = %v, want ErrDuplicateIdentity", err)
	}
}

func TestWorkflow_DeleteRecomputesCandidates(t *testing.T) {
	store := testStore(t, &settings.Document{
		Identities:       []identity.Preset{jane()},
		RecentIdentities: []identity.Identity{{Name: "Bob", Email: "bob@home.net"}},
	})
	w := New(store, identity.Identity{})

	if res, err := w.Apply(Delete{Index: 0}); err != nil || res != nil {
		t.Fatalf("Delete: res=%v err=%v", res, err)
	}
	if res, err := w.Apply(DeleteRecent{Index: 0}); err != nil || res != nil {
		t.Fatalf("DeleteRecent: res=%v err=%v", res, err)
	}
	if got := w.Candidates(); len(got) != 0 {
		t.Errorf("candidates = %v, want empty after deletions", got)
	}
}

func TestWorkflow_Cancel(t *testing.T) {
	w := New(testStore(t, nil), identity.Identity{Name: "Jane", Email: "jane@company.com"})

	res, err := w.Apply(Cancel{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.Canceled {
		t.Error("result should be canceled")
	}
}
