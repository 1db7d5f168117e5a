package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitwarden/internal/resolve"
	"github.com/steveyegge/gitwarden/internal/style"
	"github.com/steveyegge/gitwarden/internal/workspace"
)

var configureCmd = &cobra.Command{
	Use:     "configure [repository]",
	GroupID: GroupWorkflow,
	Short:   "Pick an identity for a repository",
	Long: `Run the identity selection workflow for a repository regardless of
its current status. The repository's current identity is pre-filled.
Defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	repos, err := workspace.Absolute([]string{target})
	if err != nil {
		return err
	}
	repo := repos[0]

	orch, _, err := newOrchestrator(true)
	if err != nil {
		return err
	}

	outcome, err := orch.Configure(cmd.Context(), repo)
	if err != nil {
		return err
	}

	switch outcome {
	case resolve.OutcomeConfigured:
		fmt.Printf("%s Configured %s\n", style.SuccessPrefix, repo)
	case resolve.OutcomeOK:
		fmt.Printf("%s %s unchanged\n", style.SuccessPrefix, repo)
	case resolve.OutcomeDisabled:
		fmt.Println(style.Dim.Render("Checking is disabled. Run 'gw enable' first."))
	default:
		fmt.Printf("%s %s not configured\n", style.WarningPrefix, repo)
	}
	return nil
}
