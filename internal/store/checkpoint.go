// Package store persists the pipeline's durable artifacts: per-volume
// checkpoints, the run manifest, the streaming append log, and the
// consolidated dataset files.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/johannesgottschalk/hadithAnalyzer/internal/scrape"
)

// CheckpointStore writes one JSON array of records per (collection, volume).
// A checkpoint's existence on disk is the resume marker for its volume.
type CheckpointStore struct {
	dir string
}

// NewCheckpointStore ensures the checkpoint directory exists.
func NewCheckpointStore(dir string) (*CheckpointStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create checkpoint dir %s: %w", dir, err)
	}
	return &CheckpointStore{dir: dir}, nil
}

// Path returns the deterministic checkpoint location for a volume.
func (s *CheckpointStore) Path(collection string, volume int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_volume_%d.json", collection, volume))
}

// Exists reports whether the volume already has a checkpoint.
func (s *CheckpointStore) Exists(collection string, volume int) bool {
	_, err := os.Stat(s.Path(collection, volume))
	return err == nil
}

// Write persists the volume's records, overwriting any previous checkpoint.
// A nil slice writes an empty array, never null.
func (s *CheckpointStore) Write(collection string, volume int, records []scrape.Record) error {
	if records == nil {
		records = []scrape.Record{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	path := s.Path(collection, volume)
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", path, err)
	}
	return nil
}

// Read loads one volume's checkpointed records.
func (s *CheckpointStore) Read(collection string, volume int) ([]scrape.Record, error) {
	path := s.Path(collection, volume)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint %s: %w", path, err)
	}
	var records []scrape.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", path, err)
	}
	return records, nil
}

// LoadRange collects the records of every existing checkpoint in
// [start, end], in volume order. Missing checkpoints are skipped.
func (s *CheckpointStore) LoadRange(collection string, start, end int) ([]scrape.Record, error) {
	var out []scrape.Record
	for v := start; v <= end; v++ {
		if !s.Exists(collection, v) {
			continue
		}
		records, err := s.Read(collection, v)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}
