// Package workspace discovers git repositories under one or more roots.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxDepth bounds how deep Discover descends below each root. Nested
// checkouts deeper than this are not the common case and walking a big
// monorepo tree is not free.
const MaxDepth = 6

// Discover walks each root and returns the absolute paths of git
// repositories found, sorted and deduplicated. A `.git` entry of either
// kind counts (a file covers worktrees and submodule checkouts), and the
// walk does not descend into a repository once found. Roots that do not
// exist are skipped, not errors.
func Discover(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var repos []string

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", root, err)
		}
		if _, err := os.Stat(abs); err != nil {
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable directories are skipped, not fatal.
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if depth(abs, path) > MaxDepth {
				return fs.SkipDir
			}

			if _, statErr := os.Stat(filepath.Join(path, ".git")); statErr == nil {
				if !seen[path] {
					seen[path] = true
					repos = append(repos, path)
				}
				return fs.SkipDir
			}

			// Hidden directories are never repositories we care about.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") && path != abs {
				return fs.SkipDir
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", abs, err)
		}
	}

	sort.Strings(repos)
	return repos, nil
}

// Absolute resolves each path to its absolute form, preserving order.
func Absolute(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

// depth counts path separators between root and path.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
