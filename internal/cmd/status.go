package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitwarden/internal/gitcfg"
	"github.com/steveyegge/gitwarden/internal/resolve"
	"github.com/steveyegge/gitwarden/internal/status"
	"github.com/steveyegge/gitwarden/internal/style"
)

var statusCmd = &cobra.Command{
	Use:     "status [repository...]",
	GroupID: GroupWorkflow,
	Short:   "Show each repository's identity status",
	Long: `Show the current commit identity of every repository in the
workspace and whether it satisfies policy. Read-only: never writes
configuration and never prompts.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, err := loadService()
	if err != nil {
		return err
	}
	resolver := status.NewResolver(gitcfg.New(), svc)

	repos, err := resolveRepos(args)
	if err != nil {
		return err
	}

	for _, repo := range repos {
		st := resolver.Resolve(repo)
		switch {
		case st.Ignored:
			fmt.Printf("%s %s %s\n", style.Dim.Render("-"), repo, style.Dim.Render("(ignored)"))
		case st.OK():
			fmt.Printf("%s %s %s %s\n", style.SuccessPrefix, repo,
				style.Bold.Render(st.Identity.Name),
				style.Email.Render("<"+st.Identity.Email+">"))
		default:
			fmt.Printf("%s %s %s\n", style.WarningPrefix, repo,
				style.Warning.Render(resolve.Describe(st)))
		}
	}
	return nil
}
