package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

// mkRepo creates dir with a .git marker. kind is "dir" (normal clone) or
// "file" (worktree / submodule checkout).
func mkRepo(t *testing.T, dir, kind string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	gitPath := filepath.Join(dir, ".git")
	switch kind {
	case "dir":
		if err := os.Mkdir(gitPath, 0o755); err != nil {
			t.Fatal(err)
		}
	case "file":
		if err := os.WriteFile(gitPath, []byte("gitdir: /elsewhere\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, "alpha"), "dir")
	mkRepo(t, filepath.Join(root, "nested", "beta"), "dir")
	mkRepo(t, filepath.Join(root, "worktrees", "gamma"), "file")

	// A repo inside a repo must not be reported: the walk stops at alpha.
	mkRepo(t, filepath.Join(root, "alpha", "vendor", "inner"), "dir")

	// Plain directories without .git are not repositories.
	if err := os.MkdirAll(filepath.Join(root, "notes"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Discover([]string{root})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{
		filepath.Join(root, "alpha"),
		filepath.Join(root, "nested", "beta"),
		filepath.Join(root, "worktrees", "gamma"),
	}
	if len(got) != len(want) {
		t.Fatalf("Discover = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("repo[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDiscover_MissingRootSkipped(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, "alpha"), "dir")

	got, err := Discover([]string{filepath.Join(root, "does-not-exist"), root})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Discover = %v, want one repo", got)
	}
}

func TestDiscover_RootIsRepo(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, root, "dir")

	got, err := Discover([]string{root})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 1 || got[0] != root {
		t.Errorf("Discover = %v, want [%s]", got, root)
	}
}

func TestDiscover_DepthBounded(t *testing.T) {
	root := t.TempDir()
	deep := root
	for i := 0; i < MaxDepth+2; i++ {
		deep = filepath.Join(deep, "d")
	}
	mkRepo(t, deep, "dir")

	got, err := Discover([]string{root})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Discover = %v, want none beyond depth bound", got)
	}
}
