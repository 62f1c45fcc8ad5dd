// Copyright (C) 2025 Ariel Frischer
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"

	"github.com/propdash/propdash-cli/internal/listing"
)

const (
	snapshotVersion = 1
	appName         = "propdash"
	snapshotFile    = "listings.json"
)

// Snapshot is the last listing set fetched from a backend
type Snapshot struct {
	Listings []listing.ViewModel `json:"listings"`
	SavedAt  time.Time           `json:"savedAt"`
	Version  int                 `json:"version"`
}

// SnapshotStore persists one Snapshot per backend host
type SnapshotStore struct {
	mu   sync.RWMutex
	path string
}

// NewSnapshotStore stores snapshots for apiURL under the XDG cache directory
func NewSnapshotStore(apiURL string) (*SnapshotStore, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		base = xdg.CacheHome
	}
	return NewSnapshotStoreAt(filepath.Join(base, appName, hostKey(apiURL), snapshotFile))
}

// NewSnapshotStoreAt stores the snapshot at path
func NewSnapshotStoreAt(path string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &SnapshotStore{path: path}, nil
}

func (s *SnapshotStore) Path() string {
	return s.path
}

// Save implements dashboard.SnapshotWriter
func (s *SnapshotStore) Save(listings []listing.ViewModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSONAtomic(s.path, Snapshot{
		Listings: listings,
		SavedAt:  time.Now(),
		Version:  snapshotVersion,
	})
}

// Load returns the stored snapshot, or nil when there is none.
// Unreadable or outdated snapshots are removed and treated as missing.
func (s *SnapshotStore) Load() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap Snapshot
	if err := readJSON(s.path, &snap); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		_ = os.Remove(s.path)
		return nil, nil
	}

	if snap.Version != snapshotVersion {
		_ = os.Remove(s.path)
		return nil, nil
	}

	return &snap, nil
}

// Clear removes the stored snapshot
func (s *SnapshotStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// hostKey turns an API URL into a directory name
func hostKey(apiURL string) string {
	host := apiURL
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(host)
	if host == "" {
		return "default"
	}
	return host
}

// writeJSONAtomic writes data to a temp file and renames it over filePath
func writeJSONAtomic(filePath string, data interface{}) error {
	tempPath := filePath + ".tmp"

	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(data); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

func readJSON(filePath string, dst interface{}) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}
