package store

import (
	"fmt"
	"strconv"
	"time"
)

// Ledger adapts a ManifestStore to incremental per-volume status updates.
// Every update rewrites the manifest so progress survives a crash mid-run.
// All methods must be called from a single goroutine.
type Ledger struct {
	store    *ManifestStore
	manifest *Manifest
	now      func() time.Time
}

// NewLedger wraps the manifest store.
func NewLedger(store *ManifestStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Init loads the existing manifest (or starts a fresh one) and stamps the
// collection name.
func (l *Ledger) Init(collection string) error {
	m, err := l.store.Load()
	if err != nil {
		return err
	}
	m.Collection = collection
	l.manifest = m
	return l.store.Save(m)
}

// SetDone records a successful volume and persists immediately.
func (l *Ledger) SetDone(volume, count int) error {
	return l.set(volume, VolumeStatus{
		Count:  count,
		Status: StatusDone,
		TS:     l.now().Unix(),
	})
}

// SetError records a failed volume and persists immediately.
func (l *Ledger) SetError(volume, count int, msg string) error {
	return l.set(volume, VolumeStatus{
		Count:  count,
		Status: StatusErrorPrefix + msg,
		TS:     l.now().Unix(),
	})
}

func (l *Ledger) set(volume int, status VolumeStatus) error {
	if l.manifest == nil {
		return fmt.Errorf("ledger not initialized")
	}
	l.manifest.Volumes[strconv.Itoa(volume)] = status
	return l.store.Save(l.manifest)
}
