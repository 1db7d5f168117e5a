package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitwarden/internal/style"
	"github.com/steveyegge/gitwarden/internal/workspace"
)

var ignoreCmd = &cobra.Command{
	Use:     "ignore",
	GroupID: GroupConfig,
	Short:   "Manage permanently ignored repositories",
	Long: `Manage the permanent ignore list. Ignored repositories are never
checked and never prompt. Paths are matched exactly.`,
	RunE: requireSubcommand,
}

var ignoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show ignored repositories",
	RunE:  runIgnoreList,
}

var ignoreAddCmd = &cobra.Command{
	Use:   "add <repository>",
	Short: "Permanently ignore a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runIgnoreAdd,
}

var ignoreRemoveCmd = &cobra.Command{
	Use:   "remove <repository>",
	Short: "Stop ignoring a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runIgnoreRemove,
}

func init() {
	rootCmd.AddCommand(ignoreCmd)
	ignoreCmd.AddCommand(ignoreListCmd)
	ignoreCmd.AddCommand(ignoreAddCmd)
	ignoreCmd.AddCommand(ignoreRemoveCmd)
}

func runIgnoreList(cmd *cobra.Command, args []string) error {
	svc, err := loadService()
	if err != nil {
		return err
	}

	ignored := svc.Policy().IgnoredRepositories
	if len(ignored) == 0 {
		fmt.Println("No ignored repositories.")
		return nil
	}
	for _, path := range ignored {
		fmt.Println(path)
	}
	return nil
}

func runIgnoreAdd(cmd *cobra.Command, args []string) error {
	svc, err := loadService()
	if err != nil {
		return err
	}
	paths, err := workspace.Absolute(args)
	if err != nil {
		return err
	}
	if err := svc.IgnoreRepository(paths[0]); err != nil {
		return err
	}
	fmt.Printf("%s Ignoring %s\n", style.SuccessPrefix, paths[0])
	return nil
}

func runIgnoreRemove(cmd *cobra.Command, args []string) error {
	svc, err := loadService()
	if err != nil {
		return err
	}
	paths, err := workspace.Absolute(args)
	if err != nil {
		return err
	}
	if err := svc.UnignoreRepository(paths[0]); err != nil {
		return err
	}
	fmt.Printf("%s No longer ignoring %s\n", style.SuccessPrefix, paths[0])
	return nil
}
