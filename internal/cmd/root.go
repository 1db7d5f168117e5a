// Package cmd implements the gw command tree.
package cmd

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/steveyegge/gitwarden/internal/gitcfg"
	"github.com/steveyegge/gitwarden/internal/identity"
	"github.com/steveyegge/gitwarden/internal/resolve"
	"github.com/steveyegge/gitwarden/internal/settings"
	"github.com/steveyegge/gitwarden/internal/ui"
	"github.com/steveyegge/gitwarden/internal/workspace"
)

// Command group IDs for help output.
const (
	GroupWorkflow = "workflow"
	GroupConfig   = "config"
)

// Version is stamped at build time.
var Version = "dev"

var (
	flagSettings  string
	flagWorkspace []string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "gw",
	Short: "Keep per-repository git commit identities correct",
	Long: `gitwarden checks every git repository in your workspace for a correct
commit identity (user.name and user.email) before you commit with the
wrong one.

Configure identity presets with match patterns and gw applies the right
preset to each repository automatically, prompts when it cannot decide,
and remembers recently used identities.

Examples:
  gw check                  # sweep the workspace once
  gw status                 # show every repository's identity
  gw configure ./myrepo     # pick an identity for one repository
  gw preset add --name "Jane Dev" --email jane@company.com --match my-org`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupWorkflow, Title: "Checking:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration:"},
	)

	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Settings file path (default ~/.config/gitwarden/settings.json)")
	rootCmd.PersistentFlags().StringSliceVarP(&flagWorkspace, "workspace", "w", []string{"."}, "Workspace root(s) to scan for repositories")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// requireSubcommand is the RunE for parent commands.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// newLogger builds the process logger honoring --verbose.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// loadService opens the settings service, layering a workspace
// .gitwarden.toml override from the first workspace root when present.
func loadService() (settings.Service, error) {
	path := flagSettings
	if path == "" {
		var err error
		path, err = settings.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	var svc settings.Service = settings.NewFileService(path)
	if len(flagWorkspace) > 0 {
		override, err := settings.LoadOverride(flagWorkspace[0])
		if err != nil {
			return nil, err
		}
		svc = settings.WithOverride(svc, override, flagWorkspace[0])
	}
	return svc, nil
}

// newOrchestrator wires the orchestrator. With interactive set, a
// terminal prompter is attached when stdin is a TTY; otherwise the
// orchestrator runs without prompts.
func newOrchestrator(interactive bool) (*resolve.Orchestrator, settings.Service, error) {
	svc, err := loadService()
	if err != nil {
		return nil, nil, err
	}

	var prompter resolve.Prompter
	if interactive {
		terminal, err := ui.NewTerminal()
		if err == nil {
			prompter = terminal
		} else if !errors.Is(err, ui.ErrNotInteractive) {
			return nil, nil, err
		}
	}

	return resolve.New(gitcfg.New(), svc, prompter, newLogger()), svc, nil
}

// newStore opens the identity store over the settings service.
func newStore() (*identity.Store, settings.Service, error) {
	svc, err := loadService()
	if err != nil {
		return nil, nil, err
	}
	return identity.NewStore(svc), svc, nil
}

// resolveRepos returns the repositories to process: explicit arguments
// as-is (made absolute), otherwise workspace discovery.
func resolveRepos(args []string) ([]string, error) {
	if len(args) > 0 {
		return workspace.Absolute(args)
	}

	repos, err := workspace.Discover(flagWorkspace)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("no git repositories found under %v", flagWorkspace)
	}
	return repos, nil
}
