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

// Package index composes backup.Backup and cache.Cache into a
// read-through, write-through facade. Backup is always the source of
// truth; the cache only ever accelerates reads.
//
// Write paths (Insert, Remove) update Backup before Cache and release
// Backup's lock before taking cacheMu. SyncCache and DeserializeBackup
// take the other order: they hold cacheMu while Backup's read lock is
// taken inside Cache.LoadFromBackup. No path holds Backup's lock while
// waiting for cacheMu, so the two orders do not deadlock.
// Backup already serializes its own writers internally; Index adds one
// more lock, cacheMu, solely to make SyncCache/DeserializeBackup atomic
// with respect to individual cache Get/Insert/Remove calls (which the
// Cache type already makes safe to run concurrently with each other).
package index

import (
	"fmt"
	"sync"

	"github.com/google/btree"

	"github.com/oblivisheee/zewos/backup"
	"github.com/oblivisheee/zewos/cache"
	"github.com/oblivisheee/zewos/object"
	"github.com/oblivisheee/zewos/zewoserr"
)

// Index is the facade the Store binds to on-disk blobs. Alongside
// Backup+Cache it keeps a btree.BTreeG of live keys purely for ordered
// iteration (GetAllKeysSorted) — Backup's own map stays the unordered
// source of truth; the tree is a derived, best-effort index maintained
// under keysMu, mirroring the teacher's pattern of a BTreeG sitting
// alongside a shard's primary map for ordered traversal.
type Index struct {
	backup  *backup.Backup
	cache   *cache.Cache
	cacheMu sync.RWMutex

	keysMu sync.RWMutex
	keys   *btree.BTreeG[string]
}

func keyLess(a, b string) bool { return a < b }

// New constructs an Index with a fresh, empty Backup and Cache.
func New(backupConfig backup.Config, cacheConfig cache.Config) *Index {
	return &Index{
		backup: backup.New(backupConfig),
		cache:  cache.New(cacheConfig),
		keys:   btree.NewG(32, keyLess),
	}
}

// Insert wraps value in an Object, writes it to Backup, then populates
// Cache. A Cache populate failure is returned as an error; the Backup
// write has already been applied by then. Returns the previous value's
// bytes, if the key already existed.
func (idx *Index) Insert(key, value []byte) ([]byte, error) {
	obj, err := object.New(value)
	if err != nil {
		return nil, fmt.Errorf("index.Insert: %w", err)
	}

	// Backup before Cache, always.
	prev := idx.backup.Insert(key, obj)

	idx.keysMu.Lock()
	idx.keys.ReplaceOrInsert(string(key))
	idx.keysMu.Unlock()

	idx.cacheMu.RLock()
	cacheErr := idx.cache.Insert(key, obj)
	idx.cacheMu.RUnlock()
	if cacheErr != nil {
		return nil, fmt.Errorf("index.Insert: cache populate: %w", cacheErr)
	}

	if prev != nil {
		return prev.ToBytes(), nil
	}
	return nil, nil
}

// Get reads Cache first; on miss it reads Backup and best-effort populates
// Cache (a populate failure here is swallowed — the Backup hit still
// returns, per spec.md §7).
func (idx *Index) Get(key []byte) ([]byte, error) {
	value, _, err := idx.GetWithStats(key)
	return value, err
}

// GetWithStats is Get plus a cacheHit flag, so callers that care about
// hit-rate telemetry (store.Store's metrics wiring) don't need a second,
// racy lookup.
func (idx *Index) GetWithStats(key []byte) (value []byte, cacheHit bool, err error) {
	idx.cacheMu.RLock()
	obj, hit := idx.cache.Get(key)
	idx.cacheMu.RUnlock()
	if hit {
		return obj.ToBytes(), true, nil
	}

	obj, hit = idx.backup.Get(key)
	if !hit {
		return nil, false, zewoserr.New("index.Get", zewoserr.KeyNotFound, nil)
	}

	idx.cacheMu.RLock()
	_ = idx.cache.Insert(key, obj) // best-effort; failure is swallowed
	idx.cacheMu.RUnlock()

	return obj.ToBytes(), false, nil
}

// UpdateCacheConfig atomically replaces the Cache's configuration — used
// by Store to apply a caller-supplied CacheConfig after loading a
// snapshot (DeserializeBackup always seeds with a default-configured
// Cache).
func (idx *Index) UpdateCacheConfig(cfg cache.Config) {
	idx.cacheMu.Lock()
	defer idx.cacheMu.Unlock()
	idx.cache.UpdateConfig(cfg)
}

// Remove deletes key from Backup then Cache, returning the previous
// value's bytes if it existed.
func (idx *Index) Remove(key []byte) ([]byte, bool) {
	prev := idx.backup.Remove(key)

	idx.keysMu.Lock()
	idx.keys.Delete(string(key))
	idx.keysMu.Unlock()

	idx.cacheMu.RLock()
	idx.cache.Remove(key)
	idx.cacheMu.RUnlock()

	if prev == nil {
		return nil, false
	}
	return prev.ToBytes(), true
}

// SerializeBackup delegates to Backup.Serialize, optionally overriding the
// configured compression level.
func (idx *Index) SerializeBackup(levelOverride *int) (objectsBlob, metadataBlob, configBlob []byte, err error) {
	return idx.backup.Serialize(levelOverride)
}

// DeserializeBackup constructs a fresh Index from the three blobs: a fresh
// Backup (per backup.Deserialize) and a fresh, default-configured Cache
// seeded from it.
func DeserializeBackup(metadataBlob, objectsBlob, configBlob []byte) (*Index, error) {
	b, err := backup.Deserialize(metadataBlob, objectsBlob, configBlob)
	if err != nil {
		return nil, err
	}
	idx := &Index{
		backup: b,
		cache:  cache.New(cache.Config{}),
		keys:   btree.NewG(32, keyLess),
	}
	idx.cacheMu.Lock()
	idx.cache.LoadFromBackup(b)
	idx.cacheMu.Unlock()

	idx.keysMu.Lock()
	b.ForEach(func(key []byte, _ *object.Object) {
		idx.keys.ReplaceOrInsert(string(key))
	})
	idx.keysMu.Unlock()

	return idx, nil
}

// SyncCache atomically clears and reseeds the Cache from the current
// Backup contents, under both the cacheMu write lock and Backup's own
// read lock (taken internally by ForEach/LoadFromBackup).
func (idx *Index) SyncCache() {
	idx.cacheMu.Lock()
	defer idx.cacheMu.Unlock()
	idx.cache.LoadFromBackup(idx.backup)
}

// ClearCache empties the Cache without touching Backup.
func (idx *Index) ClearCache() {
	idx.cacheMu.Lock()
	defer idx.cacheMu.Unlock()
	idx.cache.Clear()
}

// EvictExpiredCache removes TTL-expired Cache entries.
func (idx *Index) EvictExpiredCache() int {
	idx.cacheMu.RLock()
	defer idx.cacheMu.RUnlock()
	return idx.cache.EvictExpired()
}

// Len returns the number of live keys, as tracked by Backup (the source of
// truth).
func (idx *Index) Len() int { return idx.backup.Len() }

// IsEmpty reports whether Backup holds no keys.
func (idx *Index) IsEmpty() bool { return idx.backup.Len() == 0 }

// ContainsKey reports whether key is live in Backup.
func (idx *Index) ContainsKey(key []byte) bool {
	_, ok := idx.backup.Get(key)
	return ok
}

// GetAllKeys returns every live key, order unspecified.
func (idx *Index) GetAllKeys() [][]byte { return idx.backup.Keys() }

// GetAllKeysSorted returns every live key in ascending lexical order, via
// the btree-backed key index — a cheaper alternative to sorting
// GetAllKeys's output whenever a caller (e.g. zewosctl ls) wants stable
// output.
func (idx *Index) GetAllKeysSorted() [][]byte {
	idx.keysMu.RLock()
	defer idx.keysMu.RUnlock()
	out := make([][]byte, 0, idx.keys.Len())
	idx.keys.Ascend(func(k string) bool {
		out = append(out, []byte(k))
		return true
	})
	return out
}

// GetObjectCount returns Backup's tracked object count.
func (idx *Index) GetObjectCount() int { return idx.backup.Metadata().ObjectCount }

// GetTotalSize returns Backup's tracked aggregate payload size.
func (idx *Index) GetTotalSize() int { return idx.backup.Metadata().TotalSize }

// GetMetadata returns a copy of Backup's aggregate metadata.
func (idx *Index) GetMetadata() backup.Metadata { return idx.backup.Metadata() }
