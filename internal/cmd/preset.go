package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitwarden/internal/identity"
	"github.com/steveyegge/gitwarden/internal/selection"
	"github.com/steveyegge/gitwarden/internal/style"
)

var presetCmd = &cobra.Command{
	Use:     "preset",
	GroupID: GroupConfig,
	Short:   "Manage identity presets",
	Long: `Manage the configured identity presets.

A preset is a reusable identity with optional match patterns (substrings
tested against a repository's path and remote URLs) and extra git config
options applied alongside it.

Examples:
  gw preset list
  gw preset add --name "Jane Dev" --email jane@company.com --match my-org
  gw preset edit 1 --label Work
  gw preset remove 2`,
	RunE: requireSubcommand,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all presets",
	RunE:  runPresetList,
}

var presetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new preset",
	Long: `Add a new identity preset. Rejected if a preset or recent identity
with the same name and email already exists.`,
	RunE: runPresetAdd,
}

var presetEditCmd = &cobra.Command{
	Use:   "edit <number>",
	Short: "Edit a preset by its list number",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetEdit,
}

var presetRemoveCmd = &cobra.Command{
	Use:   "remove <number>",
	Short: "Remove a preset by its list number",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetRemove,
}

var (
	presetName    string
	presetEmail   string
	presetLabel   string
	presetMatch   []string
	presetOptions []string
)

func init() {
	rootCmd.AddCommand(presetCmd)
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetAddCmd)
	presetCmd.AddCommand(presetEditCmd)
	presetCmd.AddCommand(presetRemoveCmd)

	for _, c := range []*cobra.Command{presetAddCmd, presetEditCmd} {
		c.Flags().StringVar(&presetName, "name", "", "Identity name (user.name)")
		c.Flags().StringVar(&presetEmail, "email", "", "Identity email (user.email)")
		c.Flags().StringVar(&presetLabel, "label", "", "Display label")
		c.Flags().StringArrayVar(&presetMatch, "match", nil, "Match pattern (repeatable)")
		c.Flags().StringArrayVar(&presetOptions, "option", nil, "Extra config option as key=value (repeatable)")
	}
}

func runPresetList(cmd *cobra.Command, args []string) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}

	presets := store.ListPresets()
	if len(presets) == 0 {
		fmt.Println("No presets configured. Run 'gw preset add' to create one.")
		return nil
	}

	for i, p := range presets {
		fmt.Printf("%2d. %s %s\n", i+1,
			style.Bold.Render(p.DisplayName()),
			style.Email.Render("<"+p.Email+">"))
		if len(p.Match) > 0 {
			fmt.Printf("    %s %v\n", style.Dim.Render("match:"), p.Match)
		}
		for k, v := range p.Options {
			fmt.Printf("    %s %s=%s\n", style.Dim.Render("option:"), k, v)
		}
	}
	return nil
}

func runPresetAdd(cmd *cobra.Command, args []string) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}

	options, err := parseOptionFlags(presetOptions)
	if err != nil {
		return err
	}
	preset := identity.Preset{
		Identity: identity.Identity{Name: presetName, Email: presetEmail},
		Label:    presetLabel,
		Match:    presetMatch,
		Options:  options,
	}

	// The selection workflow owns validation and duplicate-key rules.
	w := selection.New(store, identity.Identity{})
	if _, err := w.Apply(selection.Create{Preset: preset}); err != nil {
		return err
	}

	fmt.Printf("%s Added preset %s\n", style.SuccessPrefix, preset.DisplayName())
	return nil
}

func runPresetEdit(cmd *cobra.Command, args []string) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}
	index, preset, err := presetAt(store, args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("name") {
		preset.Name = presetName
	}
	if cmd.Flags().Changed("email") {
		preset.Email = presetEmail
	}
	if cmd.Flags().Changed("label") {
		preset.Label = presetLabel
	}
	if cmd.Flags().Changed("match") {
		preset.Match = presetMatch
	}
	if cmd.Flags().Changed("option") {
		options, err := parseOptionFlags(presetOptions)
		if err != nil {
			return err
		}
		preset.Options = options
	}

	w := selection.New(store, identity.Identity{})
	if _, err := w.Apply(selection.Edit{Index: index, Preset: preset}); err != nil {
		return err
	}

	fmt.Printf("%s Updated preset %s\n", style.SuccessPrefix, preset.DisplayName())
	return nil
}

func runPresetRemove(cmd *cobra.Command, args []string) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}
	index, preset, err := presetAt(store, args[0])
	if err != nil {
		return err
	}

	w := selection.New(store, identity.Identity{})
	if _, err := w.Apply(selection.Delete{Index: index}); err != nil {
		return err
	}

	fmt.Printf("%s Removed preset %s\n", style.SuccessPrefix, preset.DisplayName())
	return nil
}

// presetAt resolves a 1-based list number from 'gw preset list'.
func presetAt(store *identity.Store, arg string) (int, identity.Preset, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, identity.Preset{}, fmt.Errorf("expected a preset number from 'gw preset list', got %q", arg)
	}
	presets := store.ListPresets()
	if n < 1 || n > len(presets) {
		return 0, identity.Preset{}, fmt.Errorf("no preset %d (have %d)", n, len(presets))
	}
	return n - 1, presets[n-1].Clone(), nil
}

// parseOptionFlags parses repeated key=value flags.
func parseOptionFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("option %q is not key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}
