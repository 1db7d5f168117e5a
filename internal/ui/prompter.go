// Package ui is the terminal implementation of the interactive prompt
// capability: the violation menu and the identity selection workflow,
// built on bubbletea.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/steveyegge/gitwarden/internal/identity"
	"github.com/steveyegge/gitwarden/internal/resolve"
	"github.com/steveyegge/gitwarden/internal/selection"
	"github.com/steveyegge/gitwarden/internal/style"
)

// ErrNotInteractive means stdin is not a terminal, so no prompt can run.
var ErrNotInteractive = errors.New("not an interactive terminal")

// Terminal implements resolve.Prompter on an interactive terminal.
type Terminal struct{}

// NewTerminal returns a terminal prompter, or ErrNotInteractive when
// stdin is not a TTY. Callers fall back to a non-interactive pass.
func NewTerminal() (*Terminal, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNotInteractive
	}
	return &Terminal{}, nil
}

// ResolveViolation presents the four remediation choices for a policy
// violation.
func (t *Terminal) ResolveViolation(ctx context.Context, v resolve.Violation) (resolve.PromptAction, error) {
	items := []pickItem{
		{Label: "Configure now"},
		{Label: "Decide later", Hint: "move on to other repositories"},
		{Label: "Skip for this session", Hint: "until gw exits"},
		{Label: "Ignore this repository", Hint: "permanently"},
	}
	m := newPicker(
		fmt.Sprintf("Commit identity problem in %s", v.Status.RepoPath),
		v.Detail,
		items,
		nil,
	)

	final, err := runProgram(ctx, m)
	if err != nil {
		return resolve.ActionDismiss, err
	}
	picked := final.(pickerModel)
	if picked.canceled {
		return resolve.ActionDismiss, nil
	}
	switch picked.choice {
	case 0:
		return resolve.ActionConfigure, nil
	case 1:
		return resolve.ActionDefer, nil
	case 2:
		return resolve.ActionSkipSession, nil
	case 3:
		return resolve.ActionIgnore, nil
	default:
		return resolve.ActionDismiss, nil
	}
}

// SelectIdentity drives the selection workflow until it reaches a
// terminal result, looping through pick lists and forms. Duplicate or
// invalid input keeps the session open with a warning.
func (t *Terminal) SelectIdentity(ctx context.Context, repoPath string, w *selection.Workflow) (selection.Result, error) {
	for {
		action, err := t.pickAction(ctx, repoPath, w)
		if err != nil {
			return selection.Result{}, err
		}
		if action == nil {
			// A form was cancelled: back to the pick list.
			continue
		}

		res, err := w.Apply(action)
		if err != nil {
			if errors.Is(err, selection.ErrDuplicateIdentity) ||
				errors.Is(err, selection.ErrInvalidIdentity) ||
				errors.Is(err, selection.ErrInvalidOption) {
				fmt.Println(style.WarningPrefix, err)
				continue
			}
			return selection.Result{}, err
		}
		if res != nil {
			return *res, nil
		}
		// nil result: the store was mutated, redisplay with fresh
		// candidates.
	}
}

// pickAction shows the candidate list plus the custom/create rows and
// translates the user's choice into a workflow action. A nil action with
// nil error means redisplay.
func (t *Terminal) pickAction(ctx context.Context, repoPath string, w *selection.Workflow) (selection.Action, error) {
	cands := w.Candidates()

	items := make([]pickItem, 0, len(cands)+2)
	for _, c := range cands {
		hint := style.Email.Render(c.Preset.Email)
		if c.Kind == selection.KindRecent {
			hint += " (recent)"
		}
		items = append(items, pickItem{Label: c.Display(), Hint: hint})
	}
	customIdx := len(items)
	items = append(items, pickItem{Label: "Enter a custom identity…"})
	createIdx := len(items)
	items = append(items, pickItem{Label: "Create a new preset…"})

	m := newPicker(
		fmt.Sprintf("Select identity for %s", repoPath),
		"",
		items,
		map[string]string{"e": "edit", "d": "delete"},
	)

	final, err := runProgram(ctx, m)
	if err != nil {
		return nil, err
	}
	picked := final.(pickerModel)

	switch {
	case picked.canceled:
		return selection.Cancel{}, nil

	case picked.extra == "edit":
		if picked.choice >= len(cands) || cands[picked.choice].Kind != selection.KindPreset {
			fmt.Println(style.WarningPrefix, "only presets can be edited")
			return nil, nil
		}
		return t.editForm(ctx, cands[picked.choice])

	case picked.extra == "delete":
		if picked.choice >= len(cands) {
			return nil, nil
		}
		c := cands[picked.choice]
		if c.Kind == selection.KindRecent {
			return selection.DeleteRecent{Index: c.Index}, nil
		}
		return selection.Delete{Index: c.Index}, nil

	case picked.choice == customIdx:
		return t.customForm(ctx, w.Current())

	case picked.choice == createIdx:
		return t.createForm(ctx)

	case picked.choice >= 0 && picked.choice < len(cands):
		return selection.Choose{Candidate: cands[picked.choice]}, nil

	default:
		return selection.Cancel{}, nil
	}
}

// customForm collects a one-off identity, pre-filled with the
// repository's current values.
func (t *Terminal) customForm(ctx context.Context, current identity.Identity) (selection.Action, error) {
	m := newForm("Custom identity", []formField{
		{Label: "Name", Placeholder: "Jane Dev", Value: current.Name},
		{Label: "Email", Placeholder: "jane@company.com", Value: current.Email},
	})
	final, err := runProgram(ctx, m)
	if err != nil {
		return nil, err
	}
	form := final.(formModel)
	if form.canceled {
		return nil, nil
	}
	vals := form.values()
	return selection.Custom{Identity: identity.Identity{Name: vals[0], Email: vals[1]}}, nil
}

// createForm collects a new preset.
func (t *Terminal) createForm(ctx context.Context) (selection.Action, error) {
	preset, ok, err := t.presetForm(ctx, "New preset", identity.Preset{})
	if err != nil || !ok {
		return nil, err
	}
	return selection.Create{Preset: preset}, nil
}

// editForm collects changes to an existing preset.
func (t *Terminal) editForm(ctx context.Context, c selection.Candidate) (selection.Action, error) {
	preset, ok, err := t.presetForm(ctx, "Edit preset", c.Preset)
	if err != nil || !ok {
		return nil, err
	}
	return selection.Edit{Index: c.Index, Preset: preset}, nil
}

// presetForm runs the five-field preset form. ok is false on cancel.
func (t *Terminal) presetForm(ctx context.Context, title string, seed identity.Preset) (identity.Preset, bool, error) {
	m := newForm(title, []formField{
		{Label: "Name", Placeholder: "Jane Dev", Value: seed.Name},
		{Label: "Email", Placeholder: "jane@company.com", Value: seed.Email},
		{Label: "Label (optional)", Placeholder: "Work", Value: seed.Label},
		{Label: "Match patterns (comma-separated, optional)", Placeholder: "github.com/my-org", Value: strings.Join(seed.Match, ", ")},
		{Label: "Options (key=value, comma-separated, optional)", Placeholder: "user.signingkey=ABC123", Value: formatOptions(seed.Options)},
	})
	final, err := runProgram(ctx, m)
	if err != nil {
		return identity.Preset{}, false, err
	}
	form := final.(formModel)
	if form.canceled {
		return identity.Preset{}, false, nil
	}

	vals := form.values()
	preset := identity.Preset{
		Identity: identity.Identity{Name: vals[0], Email: vals[1]},
		Label:    vals[2],
		Match:    splitList(vals[3]),
		Options:  parseOptions(vals[4]),
	}
	return preset, true, nil
}

// runProgram runs a bubbletea model to completion under ctx.
func runProgram(ctx context.Context, m tea.Model) (tea.Model, error) {
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return final, nil
}

// splitList splits a comma-separated field, dropping empties.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseOptions parses "key=value, key=value" into a map. Malformed
// pairs are kept with empty values so the workflow's option validation
// rejects them with a useful message.
func parseOptions(s string) map[string]string {
	pairs := splitList(s)
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, _ := strings.Cut(pair, "=")
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}

// formatOptions renders an options map for form pre-fill.
func formatOptions(options map[string]string) string {
	if len(options) == 0 {
		return ""
	}
	parts := make([]string, 0, len(options))
	for k, v := range options {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
