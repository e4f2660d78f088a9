package tokenstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

// TokenKey is the key the bearer token is persisted under
const TokenKey = "token"

// ErrNotFound is returned by Load when no token is persisted
var ErrNotFound = errors.New("token not found")

// Store defines the token storage operations.
// This allows us to mock the keyring in tests.
type Store interface {
	Save(token string) error
	Load() (string, error)
	Delete() error
}

// Keyring persists the bearer token in the OS keychain/credential manager
type Keyring struct {
	service string
}

// NewKeyring returns a keyring-backed store for the given service name
func NewKeyring(service string) *Keyring {
	return &Keyring{service: service}
}

// Save persists the token securely in the OS keychain/credential manager
func (k *Keyring) Save(token string) error {
	if err := keyring.Set(k.service, TokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Load retrieves the token from the OS keychain/credential manager
func (k *Keyring) Load() (string, error) {
	token, err := keyring.Get(k.service, TokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// Delete removes the token from the OS keychain/credential manager
func (k *Keyring) Delete() error {
	if err := keyring.Delete(k.service, TokenKey); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// Memory keeps the token for the lifetime of the process
type Memory struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = true
	return nil
}

func (m *Memory) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", ErrNotFound
	}
	return m.token, nil
}

func (m *Memory) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}

// Lookup returns the stored token, or "" when none is persisted
func Lookup(s Store) (string, error) {
	token, err := s.Load()
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}
