package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/linanwx/nagochat/logger"
)

const (
	sessionsDir     = "sessions"
	sessionFileName = "session.yaml"
	defaultKey      = "main"
)

// ErrSessionNotFound is returned when no file exists for a key.
var ErrSessionNotFound = errors.New("session not found")

// Manager loads and stores sessions under <workspace>/sessions and caches
// them in memory.
type Manager struct {
	root string

	mu    sync.Mutex
	cache map[string]*Session
}

// NewManager creates the sessions directory if needed.
func NewManager(workspace string) (*Manager, error) {
	root := filepath.Join(workspace, sessionsDir)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &Manager{root: root, cache: make(map[string]*Session)}, nil
}

// PathForKey maps a key to its file. ":" separates nested directories;
// anything outside [A-Za-z0-9._-] is dropped and empty keys become "main".
func (m *Manager) PathForKey(key string) string {
	parts := keyParts(key)
	return filepath.Join(append(append([]string{m.root}, parts...), sessionFileName)...)
}

func keyParts(key string) []string {
	var parts []string
	for _, raw := range strings.Split(key, ":") {
		if p := sanitizePart(raw); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return []string{defaultKey}
	}
	return parts
}

func sanitizePart(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), ".")
	return out
}

// Get returns the cached session for key, loading or creating it.
func (m *Manager) Get(key string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.cache[key]; ok {
		return s, nil
	}
	s, err := m.read(key)
	if errors.Is(err, ErrSessionNotFound) {
		now := time.Now()
		s = &Session{Key: key, CreatedAt: now, UpdatedAt: now}
	} else if err != nil {
		return nil, err
	}
	m.cache[key] = s
	return s, nil
}

// Load returns the stored session for key, from cache when present.
func (m *Manager) Load(key string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.cache[key]; ok {
		return s, nil
	}
	s, err := m.read(key)
	if err != nil {
		return nil, err
	}
	m.cache[key] = s
	return s, nil
}

// Reload reads key from disk, replacing any cached copy.
func (m *Manager) Reload(key string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.read(key)
	if err != nil {
		return nil, err
	}
	m.cache[key] = s
	return s, nil
}

// Peek reads the stored copy of key without touching the cache. Readers on
// other goroutines use it so they never share a session a thread is writing.
func (m *Manager) Peek(key string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read(key)
}

// must be called with mu held
func (m *Manager) read(key string) (*Session, error) {
	path := m.PathForKey(key)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", key, err)
	}
	s := &Session{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", key, err)
	}
	if s.Key == "" {
		s.Key = key
	}
	return s, nil
}

// Save writes s to disk atomically and caches it.
func (m *Manager) Save(s *Session) error {
	if s == nil {
		return errors.New("nil session")
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.Key, err)
	}
	path := m.PathForKey(s.Key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", s.Key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace session %s: %w", s.Key, err)
	}

	m.mu.Lock()
	m.cache[s.Key] = s
	m.mu.Unlock()
	logger.Debug("session saved", "key", s.Key, "messages", len(s.Messages))
	return nil
}

// List returns every stored session, most recently updated first.
// Unreadable files are skipped with a warning.
func (m *Manager) List() ([]*Session, error) {
	var out []*Session
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != sessionFileName {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skip unreadable session", "path", path, "err", err)
			return nil
		}
		s := &Session{}
		if err := yaml.Unmarshal(data, s); err != nil {
			logger.Warn("skip malformed session", "path", path, "err", err)
			return nil
		}
		if s.Key == "" {
			rel, _ := filepath.Rel(m.root, filepath.Dir(path))
			s.Key = strings.ReplaceAll(filepath.ToSlash(rel), "/", ":")
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
