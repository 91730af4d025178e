package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reviewguard/internal/providers"
	"reviewguard/internal/storage/interfaces"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// snapshot is the on-disk layout of a FileStore.
type snapshot struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

const snapshotVersion = 1

// FileStore serves reads and writes from memory and snapshots the whole key
// space to a zstd-compressed JSON file on Persist.
type FileStore struct {
	mu         sync.RWMutex
	path       string
	data       map[string][]byte
	dirty      bool
	gen        uint64 // bumped by every write
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileStore(path string, compressor interfaces.CompressorInterface, logger providers.Logger) *FileStore {
	return &FileStore{
		path:       path,
		data:       make(map[string][]byte),
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	val, ok := f.data[key]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}
	cp := make([]byte, len(value))
	copy(cp, value)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = cp
	f.dirty = true
	f.gen++
	return nil
}

func (f *FileStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		delete(f.data, key)
		f.dirty = true
		f.gen++
	}
	return nil
}

func (f *FileStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0)
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Persist writes the snapshot atomically (tmp file, fsync, rename). It is a
// no-op when nothing changed since the last successful write. Writes that
// land while the snapshot is on its way to disk keep the store dirty.
func (f *FileStore) Persist() error {
	f.mu.RLock()
	if !f.dirty {
		f.mu.RUnlock()
		return nil
	}
	snap := snapshot{Version: snapshotVersion, Entries: make(map[string]json.RawMessage, len(f.data))}
	for k, v := range f.data {
		snap.Entries[k] = v
	}
	snapGen := f.gen
	f.mu.RUnlock()

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, f.path); err != nil {
		return err
	}

	f.mu.Lock()
	if f.gen == snapGen {
		f.dirty = false
	}
	f.mu.Unlock()
	return nil
}

// Restore replaces the in-memory state with the snapshot on disk. A missing
// file is an empty store; an unreadable one is reported and leaves the
// store empty.
func (f *FileStore) Restore() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", f.path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(decompressed, &snap); err != nil {
		return fmt.Errorf("parse %s: %w", f.path, err)
	}
	if snap.Version != snapshotVersion {
		f.logger.Warnf(providers.TypeStore, "Snapshot %s has version %d, expected %d", f.path, snap.Version, snapshotVersion)
	}

	restored := make(map[string][]byte, len(snap.Entries))
	for k, v := range snap.Entries {
		restored[k] = []byte(v)
	}

	f.mu.Lock()
	f.data = restored
	f.dirty = false
	f.mu.Unlock()

	f.logger.Infof(providers.TypeStore, "Restored %d keys from %s", len(restored), f.path)
	return nil
}

func (f *FileStore) Close() {
	f.compressor.Close()
}
