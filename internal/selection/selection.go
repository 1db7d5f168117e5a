// Package selection is the identity selection and preset editing
// workflow, expressed as a pure state machine over the identity store.
// The interactive surface (internal/ui) drives it by translating
// keystrokes into Actions; tests drive it with scripted actions.
package selection

import (
	"errors"
	"fmt"

	"github.com/steveyegge/gitwarden/internal/identity"
)

// ErrDuplicateIdentity rejects a created or edited preset/recent whose
// comparison key collides with an existing one. The workflow stays open
// so the user can retry or abandon.
var ErrDuplicateIdentity = errors.New("an identity with this name and email already exists")

// ErrInvalidIdentity rejects input that fails identity validation.
var ErrInvalidIdentity = errors.New("identity needs a name and a valid email")

// ErrInvalidOption rejects an auxiliary option with a malformed key or
// empty value.
var ErrInvalidOption = errors.New("option keys must be dot-delimited (e.g. user.signingkey) with non-empty values")

// CandidateKind distinguishes entries in the pick list.
type CandidateKind int

const (
	// KindPreset is a configured preset.
	KindPreset CandidateKind = iota

	// KindRecent is a remembered past identity.
	KindRecent
)

// Candidate is one selectable entry. Index is the position within its
// own collection (presets or recents), which actions use to address it.
type Candidate struct {
	Kind   CandidateKind
	Index  int
	Preset identity.Preset
}

// Display returns the candidate's pick-list label.
func (c Candidate) Display() string {
	return c.Preset.DisplayName()
}

// Result is a terminal workflow outcome.
type Result struct {
	// Canceled means the user backed out; nothing was selected.
	Canceled bool

	// Identity is the selected identity when not canceled.
	Identity identity.Identity

	// Options are auxiliary config options carried by a chosen or newly
	// created preset. Recents and custom entries never carry options.
	Options map[string]string
}

// Action is one user step in the workflow.
type Action interface{ isAction() }

// Choose selects a candidate from the current list.
type Choose struct{ Candidate Candidate }

// Custom submits a freshly entered identity (no options).
type Custom struct{ Identity identity.Identity }

// Create adds a new preset to the store and selects it.
type Create struct{ Preset identity.Preset }

// Edit replaces the preset at Index with the given value.
type Edit struct {
	Index  int
	Preset identity.Preset
}

// Delete removes the preset at Index.
type Delete struct{ Index int }

// DeleteRecent removes the recent identity at Index.
type DeleteRecent struct{ Index int }

// Cancel abandons the workflow.
type Cancel struct{}

func (Choose) isAction()       {}
func (Custom) isAction()       {}
func (Create) isAction()       {}
func (Edit) isAction()         {}
func (Delete) isAction()       {}
func (DeleteRecent) isAction() {}
func (Cancel) isAction()       {}

// Workflow drives one selection session for a repository.
type Workflow struct {
	store   *identity.Store
	current identity.Identity
}

// New starts a workflow with the repository's current identity
// pre-filled as the default for custom entry.
func New(store *identity.Store, current identity.Identity) *Workflow {
	return &Workflow{store: store, current: current}
}

// Current returns the pre-filled identity the workflow started with.
func (w *Workflow) Current() identity.Identity { return w.current }

// Candidates returns the current pick list: presets in configured order,
// then recents most-recent-first. Recomputed after every mutation so the
// list never shows stale entries.
func (w *Workflow) Candidates() []Candidate {
	var out []Candidate
	for i, p := range w.store.ListPresets() {
		out = append(out, Candidate{Kind: KindPreset, Index: i, Preset: p})
	}
	for i, r := range w.store.ListRecents() {
		out = append(out, Candidate{
			Kind:   KindRecent,
			Index:  i,
			Preset: identity.Preset{Identity: r},
		})
	}
	return out
}

// Apply advances the workflow by one action. A non-nil Result ends the
// session. A nil Result with nil error means the store was mutated and
// the caller should recompute candidates and redisplay. Validation
// failures return an error and leave the session open.
func (w *Workflow) Apply(action Action) (*Result, error) {
	switch a := action.(type) {
	case Cancel:
		return &Result{Canceled: true}, nil

	case Choose:
		return &Result{
			Identity: a.Candidate.Preset.Identity,
			Options:  a.Candidate.Preset.Options,
		}, nil

	case Custom:
		id := a.Identity.Normalized()
		if !id.Valid() {
			return nil, ErrInvalidIdentity
		}
		return &Result{Identity: id}, nil

	case Create:
		preset, err := w.checkPreset(a.Preset, -1)
		if err != nil {
			return nil, err
		}
		if err := w.store.SavePresets(append(w.store.ListPresets(), preset)); err != nil {
			return nil, err
		}
		// A newly created preset is also the active selection.
		return &Result{Identity: preset.Identity, Options: preset.Options}, nil

	case Edit:
		presets := w.store.ListPresets()
		if a.Index < 0 || a.Index >= len(presets) {
			return nil, fmt.Errorf("no preset at position %d", a.Index)
		}
		preset, err := w.checkPreset(a.Preset, a.Index)
		if err != nil {
			return nil, err
		}
		presets[a.Index] = preset
		return nil, w.store.SavePresets(presets)

	case Delete:
		presets := w.store.ListPresets()
		if a.Index < 0 || a.Index >= len(presets) {
			return nil, fmt.Errorf("no preset at position %d", a.Index)
		}
		return nil, w.store.SavePresets(append(presets[:a.Index], presets[a.Index+1:]...))

	case DeleteRecent:
		recents := w.store.ListRecents()
		if a.Index < 0 || a.Index >= len(recents) {
			return nil, fmt.Errorf("no recent identity at position %d", a.Index)
		}
		return nil, w.store.SaveRecents(append(recents[:a.Index], recents[a.Index+1:]...))

	default:
		return nil, fmt.Errorf("unknown action %T", action)
	}
}

// checkPreset validates a created or edited preset and enforces the
// duplicate-key rule against every other preset and recent. selfIndex is
// the preset's own position for edits (-1 for creates) so a preset can
// keep its own key.
func (w *Workflow) checkPreset(p identity.Preset, selfIndex int) (identity.Preset, error) {
	p.Identity = p.Identity.Normalized()
	if !p.Identity.Valid() {
		return identity.Preset{}, ErrInvalidIdentity
	}
	for key, value := range p.Options {
		if !identity.ValidOptionKey(key) || value == "" {
			return identity.Preset{}, fmt.Errorf("%w: %q", ErrInvalidOption, key)
		}
	}

	key := p.Key()
	presets := w.store.ListPresets()
	for i, existing := range presets {
		if i != selfIndex && existing.Key() == key {
			return identity.Preset{}, ErrDuplicateIdentity
		}
	}

	// An edit that keeps its own key may legitimately coincide with a
	// recent recorded when this preset was last applied.
	keyUnchanged := selfIndex >= 0 && selfIndex < len(presets) && presets[selfIndex].Key() == key
	if !keyUnchanged {
		for _, recent := range w.store.ListRecents() {
			if recent.Key() == key {
				return identity.Preset{}, ErrDuplicateIdentity
			}
		}
	}
	return p, nil
}
