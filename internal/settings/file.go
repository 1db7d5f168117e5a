package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/steveyegge/gitwarden/internal/identity"
)

// FileName is the settings file name under the config directory.
const FileName = "settings.json"

// DefaultPath returns the standard settings path:
// $XDG_CONFIG_HOME/gitwarden/settings.json if set, otherwise
// ~/.config/gitwarden/settings.json.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitwarden", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gitwarden", FileName), nil
}

// FileService is the file-backed settings service. Every read re-loads
// the document from disk so edits made by other processes (or by hand)
// take effect immediately. Mutations hold a file lock across the
// read-modify-write; writes replace the whole document atomically, last
// writer wins.
type FileService struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFileService returns a settings service backed by the file at path.
// The file need not exist yet; it is created on first write.
func NewFileService(path string) *FileService {
	return &FileService{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the backing file path.
func (s *FileService) Path() string { return s.path }

// load reads and parses the settings document. A missing file yields an
// empty document. The file is parsed as HuJSON so hand-edited settings
// may carry comments and trailing commas.
func (s *FileService) load() *Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return &Document{}
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		// Unparseable settings degrade to defaults rather than blocking
		// the check pass.
		return &Document{}
	}

	var doc Document
	if err := json.Unmarshal(std, &doc); err != nil {
		return &Document{}
	}
	return &doc
}

// save writes the document, creating the config directory if needed. The
// write goes through a temp file and rename so readers never observe a
// torn document.
func (s *FileService) save(doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// mutate runs fn over the current document under both the in-process
// mutex and the cross-process file lock, then persists the result.
func (s *FileService) mutate(fn func(*Document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking settings: %w", err)
	}
	defer s.lock.Unlock() //nolint:errcheck // unlock failure leaves a stale lock file, nothing actionable

	doc := s.load()
	fn(doc)
	return s.save(doc)
}

// Policy returns the current resolved policy.
func (s *FileService) Policy() Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().policy()
}

// Presets returns the raw persisted preset list.
func (s *FileService) Presets() []identity.Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Identities
}

// SetPresets replaces the persisted preset list.
func (s *FileService) SetPresets(presets []identity.Preset) error {
	return s.mutate(func(doc *Document) {
		doc.Identities = presets
	})
}

// Recents returns the raw persisted recent identities.
func (s *FileService) Recents() []identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().RecentIdentities
}

// SetRecents replaces the persisted recent identity list.
func (s *FileService) SetRecents(recents []identity.Identity) error {
	return s.mutate(func(doc *Document) {
		doc.RecentIdentities = recents
	})
}

// MaxRecents returns the configured recent-list cap.
func (s *FileService) MaxRecents() int {
	return s.Policy().MaxRecentIdentities
}

// IgnoreRepository adds path to the permanent ignore list.
func (s *FileService) IgnoreRepository(path string) error {
	return s.mutate(func(doc *Document) {
		for _, existing := range doc.IgnoredRepositories {
			if existing == path {
				return
			}
		}
		doc.IgnoredRepositories = append(doc.IgnoredRepositories, path)
	})
}

// UnignoreRepository removes path from the permanent ignore list.
func (s *FileService) UnignoreRepository(path string) error {
	return s.mutate(func(doc *Document) {
		out := doc.IgnoredRepositories[:0]
		for _, existing := range doc.IgnoredRepositories {
			if existing != path {
				out = append(out, existing)
			}
		}
		doc.IgnoredRepositories = out
	})
}

// SetEnabled flips the global enabled bit.
func (s *FileService) SetEnabled(enabled bool) error {
	return s.mutate(func(doc *Document) {
		doc.Enabled = boolPtr(enabled)
	})
}

var _ Service = (*FileService)(nil)
var _ identity.Backend = (*FileService)(nil)
