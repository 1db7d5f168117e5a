package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitwarden/internal/style"
)

var enableCmd = &cobra.Command{
	Use:     "enable",
	GroupID: GroupConfig,
	Short:   "Enable identity checking",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(true)
	},
}

var disableCmd = &cobra.Command{
	Use:     "disable",
	GroupID: GroupConfig,
	Short:   "Disable identity checking",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(false)
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func setEnabled(enabled bool) error {
	svc, err := loadService()
	if err != nil {
		return err
	}
	if err := svc.SetEnabled(enabled); err != nil {
		return err
	}
	if enabled {
		fmt.Printf("%s Identity checking enabled\n", style.SuccessPrefix)
	} else {
		fmt.Printf("%s Identity checking disabled\n", style.ArrowPrefix)
	}
	return nil
}
