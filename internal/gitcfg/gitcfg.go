// Package gitcfg shells out to git for the few operations gitwarden
// needs: local config reads/writes and remote URL listing. Everything is
// behind the Client interface so the resolution engine can run against a
// fake in tests.
package gitcfg

import (
	"fmt"
	"os/exec"
	"strings"
)

// Client is the version-control capability contract. Read methods never
// fail: absence and command errors both degrade to empty results.
type Client interface {
	// IsRepo reports whether path is inside a git working tree.
	IsRepo(path string) bool

	// ConfigGet returns the local-scope value for key, or "" when the
	// key is absent or the read fails.
	ConfigGet(path, key string) string

	// ConfigSet writes a local-scope config value. One external call per
	// key; not atomic across keys.
	ConfigSet(path, key, value string) error

	// Remotes returns the distinct remote URLs, empty on failure.
	Remotes(path string) []string
}

// CLI runs the git binary. The zero value is ready to use.
type CLI struct{}

// New returns a Client backed by the git binary on PATH.
func New() *CLI {
	return &CLI{}
}

// IsRepo reports whether path is inside a git working tree.
func (c *CLI) IsRepo(path string) bool {
	cmd := exec.Command("git", "-C", path, "rev-parse", "--is-inside-work-tree")
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// ConfigGet reads a local config value for the repository at path.
func (c *CLI) ConfigGet(path, key string) string {
	cmd := exec.Command("git", "-C", path, "config", "--local", "--get", key)
	out, err := cmd.Output()
	if err != nil {
		// Missing key and missing repository look the same to callers.
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ConfigSet writes a local config value for the repository at path.
func (c *CLI) ConfigSet(path, key, value string) error {
	cmd := exec.Command("git", "-C", path, "config", "--local", key, value)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git config %s: %w: %s", key, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Remotes returns the distinct remote URLs for the repository at path,
// in the order git reports them.
func (c *CLI) Remotes(path string) []string {
	cmd := exec.Command("git", "-C", path, "remote", "-v")
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var urls []string
	for _, line := range strings.Split(string(out), "\n") {
		// Lines look like "origin\tgit@github.com:org/repo.git (fetch)".
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		url := fields[1]
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
	}
	return urls
}

var _ Client = (*CLI)(nil)
