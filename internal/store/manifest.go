package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// Volume terminal status values recorded in the manifest. Errors are stored
// as "error: <message>".
const (
	StatusDone        = "done"
	StatusErrorPrefix = "error: "
)

// VolumeStatus is one manifest entry.
type VolumeStatus struct {
	Count  int    `json:"count"`
	Status string `json:"status"`
	TS     int64  `json:"ts"`
}

// Manifest is the run-wide status ledger, one entry per volume. It is an
// operational log, not the resume source of truth (checkpoints are).
type Manifest struct {
	Collection string                  `json:"collection"`
	Volumes    map[string]VolumeStatus `json:"volumes"`
}

// ManifestStore reads and wholesale-rewrites a manifest file. All updates
// must come from a single goroutine; the store does no locking itself.
type ManifestStore struct {
	path string
}

// NewManifestStore points at the manifest file location.
func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{path: path}
}

// Load reads the manifest, or initializes an empty one if the file does not
// exist yet.
func (s *ManifestStore) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Manifest{Volumes: make(map[string]VolumeStatus)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", s.path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", s.path, err)
	}
	if m.Volumes == nil {
		m.Volumes = make(map[string]VolumeStatus)
	}
	return &m, nil
}

// Save rewrites the manifest file in full.
func (s *ManifestStore) Save(m *Manifest) error {
	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write manifest %s: %w", s.path, err)
	}
	return nil
}
