// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package connection

import (
	"errors"
	"os"
	"path/filepath"

	"discoverybridge/cli/internal/xdg"
)

const fileName = "connection.json"

// Store persists serialized connection data in a directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore returns a Store in the XDG config directory.
func DefaultStore() (*Store, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir), nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, fileName)
}

// Load returns the stored connection data verbatim. A missing file yields
// an empty string and no error.
func (s *Store) Load() (string, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(b), nil
}

// Save writes connection data with 0600 permissions.
func (s *Store) Save(d Data) error {
	encoded, err := Encode(d)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path(), []byte(encoded), 0o600)
}

// Clear removes stored connection data.
func (s *Store) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
