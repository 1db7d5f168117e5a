// Command gw keeps per-repository git commit identities correct across a
// workspace.
package main

import (
	"fmt"
	"os"

	"github.com/steveyegge/gitwarden/internal/cmd"
	"github.com/steveyegge/gitwarden/internal/style"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.ErrorPrefix, err)
		os.Exit(1)
	}
}
