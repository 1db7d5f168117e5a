package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitwarden/internal/resolve"
	"github.com/steveyegge/gitwarden/internal/style"
)

var checkCmd = &cobra.Command{
	Use:     "check [repository...]",
	GroupID: GroupWorkflow,
	Short:   "Check and fix repository identities",
	Long: `Run one resolution pass over the workspace (or the given
repositories): repositories that already satisfy policy are left alone,
the best-matching preset is applied automatically where enabled, and
anything else prompts for a decision.

Examples:
  gw check                      # sweep the workspace
  gw check ./myrepo             # check one repository
  gw check --non-interactive    # report violations without prompting
  gw check --watch              # keep checking on the configured interval`,
	RunE: runCheck,
}

var (
	checkNonInteractive bool
	checkWatch          bool
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkNonInteractive, "non-interactive", false, "Never prompt; report unresolved repositories instead")
	checkCmd.Flags().BoolVar(&checkWatch, "watch", false, "Keep running, re-checking on the configured interval")
}

func runCheck(cmd *cobra.Command, args []string) error {
	orch, svc, err := newOrchestrator(!checkNonInteractive)
	if err != nil {
		return err
	}

	repos, err := resolveRepos(args)
	if err != nil {
		return err
	}

	pass, err := orch.Run(cmd.Context(), repos)
	if err != nil {
		return err
	}
	printPass(pass, svc.Policy().StatusBarEnabled)

	if !checkWatch {
		return nil
	}
	if svc.Policy().CheckInterval <= 0 {
		return fmt.Errorf("--watch needs checkIntervalMs > 0 in settings")
	}

	watcher := resolve.NewWatcher(orch, func() ([]string, error) {
		return resolveRepos(args)
	})
	watcher.OnPass = func(p *resolve.PassResult) {
		printPass(p, svc.Policy().StatusBarEnabled)
	}
	return watcher.Run(cmd.Context())
}

// printPass reports per-repository outcomes and an optional summary.
func printPass(pass *resolve.PassResult, summary bool) {
	for _, r := range pass.Results {
		switch r.Outcome {
		case resolve.OutcomeOK:
			fmt.Printf("%s %s\n", style.SuccessPrefix, r.RepoPath)
		case resolve.OutcomeApplied:
			fmt.Printf("%s %s %s\n", style.SuccessPrefix, r.RepoPath,
				style.Dim.Render("applied "+r.Applied.String()))
		case resolve.OutcomeConfigured:
			fmt.Printf("%s %s %s\n", style.SuccessPrefix, r.RepoPath,
				style.Dim.Render("configured"))
		case resolve.OutcomeSkipped:
			fmt.Printf("%s %s %s\n", style.ArrowPrefix, r.RepoPath,
				style.Dim.Render("skipped for this session"))
		case resolve.OutcomeIgnored:
			fmt.Printf("%s %s %s\n", style.ArrowPrefix, r.RepoPath,
				style.Dim.Render("ignored"))
		case resolve.OutcomeUnresolved:
			fmt.Printf("%s %s %s\n", style.WarningPrefix, r.RepoPath,
				style.Warning.Render(resolve.Describe(r.Status)))
		case resolve.OutcomeDisabled:
			fmt.Printf("%s %s\n", style.Dim.Render("-"), style.Dim.Render(r.RepoPath+" (checking disabled)"))
		}
	}

	if summary {
		counts := pass.Counts()
		fmt.Println(style.Dim.Render(fmt.Sprintf(
			"%d repositories: %d ok, %d applied, %d configured, %d unresolved",
			len(pass.Results),
			counts[resolve.OutcomeOK],
			counts[resolve.OutcomeApplied],
			counts[resolve.OutcomeConfigured],
			counts[resolve.OutcomeUnresolved],
		)))
	}
}
