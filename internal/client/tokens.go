// ABOUTME: Admin token storage for the API client
// ABOUTME: In-memory store for servers and tests, TOML credentials file for the CLI

package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// TokenStore holds the admin bearer token between requests.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// MemoryTokenStore keeps the token in process memory.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore returns an empty store, optionally seeded with token.
func NewMemoryTokenStore(token ...string) *MemoryTokenStore {
	m := &MemoryTokenStore{}
	if len(token) > 0 {
		m.token = token[0]
	}
	return m
}

func (m *MemoryTokenStore) Token() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryTokenStore) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokenStore) ClearToken() error {
	return m.SetToken("")
}

// Credentials is the on-disk form of a saved login.
type Credentials struct {
	BaseURL string    `toml:"base_url"`
	Token   string    `toml:"token"`
	SavedAt time.Time `toml:"saved_at"`
}

// FileTokenStore persists the token in a TOML file readable only by the owner.
// A token saved for a different gateway URL is ignored.
type FileTokenStore struct {
	mu      sync.Mutex
	path    string
	baseURL string
}

// NewFileTokenStore returns a store backed by path for the gateway at baseURL.
func NewFileTokenStore(path, baseURL string) *FileTokenStore {
	return &FileTokenStore{path: path, baseURL: baseURL}
}

// DefaultCredentialsPath returns $XDG_CONFIG_HOME/confhub/credentials.toml,
// falling back to ~/.config/confhub/credentials.toml.
func DefaultCredentialsPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "confhub", "credentials.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "confhub", "credentials.toml"), nil
}

// LoadCredentials reads a credentials file. A missing file yields empty
// credentials and no error.
func LoadCredentials(path string) (*Credentials, error) {
	var creds Credentials
	if _, err := toml.DecodeFile(path, &creds); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	return &creds, nil
}

func (f *FileTokenStore) Token() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	creds, err := LoadCredentials(f.path)
	if err != nil {
		return "", err
	}
	if f.baseURL != "" && creds.BaseURL != "" && creds.BaseURL != f.baseURL {
		return "", nil
	}
	return creds.Token, nil
}

func (f *FileTokenStore) SetToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("creating credentials file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting credentials permissions: %w", err)
	}

	creds := Credentials{BaseURL: f.baseURL, Token: token, SavedAt: time.Now().UTC().Truncate(time.Second)}
	if err := toml.NewEncoder(tmp).Encode(creds); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

func (f *FileTokenStore) ClearToken() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credentials: %w", err)
	}
	return nil
}
