// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for discovery-bridge.
// It is the host-persisted secret store for the long-lived refresh credential and the
// non-secret auth display state. Short-lived access tokens are never written here.
//
// Storage goes through the 99designs/keyring library: macOS Keychain, Windows
// Credential Manager, Secret Service, KWallet or pass.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ErrNotFound is returned when a requested secret is not stored.
var ErrNotFound = errors.New("secret not found")

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "discovery-bridge"

// Keys used for storing secrets in the OS keychain.
const (
	KeyRefreshToken = "auth_refresh_token"
	KeyAuthState    = "auth_state"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewManagerWithRing(ring), nil
}

// NewManagerWithRing wraps an already opened keyring.
// Tests pass keyring.NewArrayKeyring(nil).
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}

	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// pass is the fallback when the Keychain is unavailable (brew install pass)
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
		KWalletAppID:    ServiceName,
		KWalletFolder:   ServiceName,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

func (m *Manager) set(key string, value []byte) error {
	return m.ring.Set(keyring.Item{Key: key, Data: value})
}

func (m *Manager) get(key string) ([]byte, error) {
	it, err := m.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return it.Data, nil
}

// remove ignores a missing key.
func (m *Manager) remove(key string) error {
	err := m.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}

// SaveRefreshToken stores the refresh credential.
// This method is thread-safe.
func (m *Manager) SaveRefreshToken(token string) error {
	if token == "" {
		return errors.New("empty refresh token")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(KeyRefreshToken, []byte(token))
}

// LoadRefreshToken retrieves the refresh credential. A missing credential
// yields an empty string and no error.
// This method is thread-safe.
func (m *Manager) LoadRefreshToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.get(KeyRefreshToken)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearAuth removes the refresh credential and auth state.
// This method is thread-safe.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return errors.Join(m.remove(KeyRefreshToken), m.remove(KeyAuthState))
}

// SaveAuthState stores serialized auth state in the keychain.
// This method is thread-safe.
func (m *Manager) SaveAuthState(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(KeyAuthState, data)
}

// LoadAuthState retrieves serialized auth state. Missing state yields nil.
// This method is thread-safe.
func (m *Manager) LoadAuthState() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.get(KeyAuthState)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return data, err
}
