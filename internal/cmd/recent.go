package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitwarden/internal/style"
)

var recentCmd = &cobra.Command{
	Use:     "recent",
	GroupID: GroupConfig,
	Short:   "Manage recently used identities",
	RunE:    requireSubcommand,
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recently used identities, most recent first",
	RunE:  runRecentList,
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recently used identities",
	RunE:  runRecentClear,
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.AddCommand(recentListCmd)
	recentCmd.AddCommand(recentClearCmd)
}

func runRecentList(cmd *cobra.Command, args []string) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}

	recents := store.ListRecents()
	if len(recents) == 0 {
		fmt.Println("No recent identities.")
		return nil
	}

	for i, id := range recents {
		fmt.Printf("%2d. %s %s\n", i+1,
			style.Bold.Render(id.Name),
			style.Email.Render("<"+id.Email+">"))
	}
	return nil
}

func runRecentClear(cmd *cobra.Command, args []string) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}
	if err := store.SaveRecents(nil); err != nil {
		return err
	}
	fmt.Printf("%s Cleared recent identities\n", style.SuccessPrefix)
	return nil
}
