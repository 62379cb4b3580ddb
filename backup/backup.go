/*
Copyright (C) 2026  Zewos Contributors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package backup implements the canonical, single-source-of-truth map of
// live key -> Object, plus its snapshot serialization pipeline: CBOR (core
// deterministic mode, standing in for the spec's "bincode-equivalent"
// canonical codec) for the object map, zstd for compression, JSON for the
// metadata/config sidecars.
package backup

import (
	"sync"
	"time"

	"github.com/oblivisheee/zewos/object"
)

// DefaultCompressionLevel is used whenever BackupConfig.CompressionLevel
// is unset.
const DefaultCompressionLevel = 3

// Config mirrors the spec's BackupConfig sidecar.
type Config struct {
	CompressionLevel *int `json:"compression_level,omitempty"`
}

// Level returns the effective compression level, applying the default.
func (c Config) Level() int {
	if c.CompressionLevel == nil {
		return DefaultCompressionLevel
	}
	return *c.CompressionLevel
}

// Metadata mirrors the spec's BackupMetadata sidecar.
type Metadata struct {
	CreationDate     int64 `json:"creation_date"`  // unix micros
	LastModified     int64 `json:"last_modified"`  // unix micros
	ObjectCount      int   `json:"object_count"`
	TotalSize        int   `json:"total_size"`
	CompressionLevel *int  `json:"compression_level,omitempty"`
}

// Backup is the canonical in-memory map of live (key -> Object). It is the
// single source of truth; the cache is only ever a derived accelerator.
type Backup struct {
	mu          sync.RWMutex
	objects     map[string]*object.Object
	metadata    Metadata
	config      Config
	contentHash [32]byte
}

func nowMicros() int64 { return time.Now().UnixMicro() }

// New constructs an empty Backup with fresh timestamps and
// content_hash = SHA3-256("").
func New(config Config) *Backup {
	now := nowMicros()
	b := &Backup{
		objects: make(map[string]*object.Object),
		metadata: Metadata{
			CreationDate:     now,
			LastModified:     now,
			CompressionLevel: config.CompressionLevel,
		},
		config: config,
	}
	b.recomputeHashLocked()
	return b
}

// Insert unconditionally puts object under key, returning the replaced
// Object if the key already existed. Per spec.md §4.3/§9.1 the corrected
// accounting is applied: when replacing, the old object's size is
// subtracted before the new size is added, so TotalSize never drifts.
func (b *Backup) Insert(key []byte, obj *object.Object) *object.Object {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := string(key)
	prev, existed := b.objects[k]
	b.objects[k] = obj

	if existed {
		b.metadata.TotalSize -= prev.Size()
	} else {
		b.metadata.ObjectCount++
	}
	b.metadata.TotalSize += obj.Size()
	b.metadata.LastModified = nowMicros()
	b.recomputeHashLocked()

	if existed {
		return prev
	}
	return nil
}

// Remove deletes key if present, returning the removed Object.
func (b *Backup) Remove(key []byte) *object.Object {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := string(key)
	obj, ok := b.objects[k]
	if !ok {
		return nil
	}
	delete(b.objects, k)
	b.metadata.ObjectCount--
	b.metadata.TotalSize -= obj.Size()
	b.metadata.LastModified = nowMicros()
	b.recomputeHashLocked()
	return obj
}

// Get is a non-mutating lookup.
func (b *Backup) Get(key []byte) (*object.Object, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.objects[string(key)]
	return obj, ok
}

// Len returns the number of live keys.
func (b *Backup) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}

// Keys returns every live key. Order is unspecified.
func (b *Backup) Keys() [][]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([][]byte, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, []byte(k))
	}
	return keys
}

// Metadata returns a copy of the current aggregate metadata.
func (b *Backup) Metadata() Metadata {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metadata
}

// Config returns the backup's sidecar configuration.
func (b *Backup) Config() Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// ContentHash returns the current SHA3-256 integrity tag over the
// canonical encoding of the object map. It is a drift-detection tag
// within a process, not a cross-process Merkle root (spec.md §4.3).
func (b *Backup) ContentHash() [32]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.contentHash
}

// Update adopts other's state wholesale, used by bulk reload (e.g. after
// deserializing a freshly loaded snapshot).
func (b *Backup) Update(other *Backup) {
	other.mu.RLock()
	objects := make(map[string]*object.Object, len(other.objects))
	for k, v := range other.objects {
		objects[k] = v
	}
	metadata := other.metadata
	config := other.config
	hash := other.contentHash
	other.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects = objects
	b.metadata = metadata
	b.config = config
	b.contentHash = hash
}

// ForEach calls fn for every (key, object) pair under a read lock. fn must
// not call back into the Backup.
func (b *Backup) ForEach(fn func(key []byte, obj *object.Object)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for k, v := range b.objects {
		fn([]byte(k), v)
	}
}

func (b *Backup) recomputeHashLocked() {
	b.contentHash = contentHashOf(b.objects)
}
