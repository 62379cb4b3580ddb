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

// Package cache implements the bounded, TTL-aware lookup accelerator that
// sits in front of backup.Backup. It holds independent clones of Objects
// and is never the source of truth: on any disagreement with the backup,
// the backup wins.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/oblivisheee/zewos/backup"
	"github.com/oblivisheee/zewos/object"
	"github.com/oblivisheee/zewos/zewoserr"
)

// Strategy selects the eviction policy.
type Strategy int

const (
	LRU Strategy = iota
	FIFO
)

func (s Strategy) String() string {
	if s == FIFO {
		return "FIFO"
	}
	return "LRU"
}

const (
	// DefaultMaxSize matches the spec's 2^30 entry-count default. It caps
	// entry count, not byte total, despite the value's byte-ish look
	// (spec.md §9.2) — this is the corrected, intentional semantics.
	DefaultMaxSize = 1 << 30
	// DefaultTTL is 300 seconds.
	DefaultTTL = 300 * time.Second
)

// Config mirrors the spec's CacheConfig.
type Config struct {
	MaxSize  int
	TTL      time.Duration
	Strategy Strategy
}

// WithDefaults fills zero-valued fields with the spec defaults.
func (c Config) WithDefaults() Config {
	if c.MaxSize == 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	return c
}

type entry struct {
	key          string
	obj          *object.Object
	lastAccessed time.Time
	elem         *list.Element // only populated/used under Strategy==LRU
}

// Cache is a bounded, concurrency-safe key -> Object accelerator with LRU
// or FIFO eviction and TTL-based expiry.
type Cache struct {
	mu      sync.RWMutex
	config  Config
	entries map[string]*entry
	order   *list.List // LRU only: front = most recently used
}

// New constructs an empty Cache from config, applying spec defaults for
// any zero fields.
func New(config Config) *Cache {
	config = config.WithDefaults()
	return &Cache{
		config:  config,
		entries: make(map[string]*entry),
		order:   list.New(),
	}
}

// Get returns the cached Object for key, touching last_accessed to now on
// hit — required for LRU recency tracking.
func (c *Cache) Get(key []byte) (*object.Object, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[string(key)]
	if !ok {
		return nil, false
	}
	e.lastAccessed = time.Now()
	if c.config.Strategy == LRU {
		c.order.MoveToFront(e.elem)
	}
	return e.obj, true
}

// Insert stores a clone of obj under key, evicting one entry first (per
// the configured Strategy) if the cache is already at MaxSize and key is
// new.
func (c *Cache) Insert(key []byte, obj *object.Object) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := string(key)
	clone := obj.Clone()
	now := time.Now()

	if e, ok := c.entries[k]; ok {
		e.obj = clone
		e.lastAccessed = now
		if c.config.Strategy == LRU {
			c.order.MoveToFront(e.elem)
		}
		return nil
	}

	if len(c.entries) >= c.config.MaxSize {
		if !c.evictOneLocked() {
			return zewoserr.New("cache.Insert", zewoserr.CacheInsertionError, nil)
		}
	}

	e := &entry{key: k, obj: clone, lastAccessed: now}
	if c.config.Strategy == LRU {
		e.elem = c.order.PushFront(e)
	}
	c.entries[k] = e
	return nil
}

// Remove deletes key, returning the removed Object if present.
func (c *Cache) Remove(key []byte) (*object.Object, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := string(key)
	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	c.removeEntryLocked(e)
	return e.obj, true
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.order = list.New()
}

// EvictExpired removes every entry whose last_accessed is older than TTL,
// and no others.
func (c *Cache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	removed := 0
	for _, e := range c.entries {
		if now.Sub(e.lastAccessed) > c.config.TTL {
			c.removeEntryLocked(e)
			removed++
		}
	}
	return removed
}

// LoadFromBackup clears the cache and reseeds it from every (key, object)
// pair in b. Eviction may occur during seeding if MaxSize < |b|.
func (c *Cache) LoadFromBackup(b *backup.Backup) {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.order = list.New()
	c.mu.Unlock()

	b.ForEach(func(key []byte, obj *object.Object) {
		// best-effort: a seeding insertion can only fail via
		// CacheInsertionError, which needs an eviction from an empty
		// cache; with MaxSize >= 1 seeding evicts from a non-empty cache.
		_ = c.Insert(key, obj)
	})
}

// ContainsKey reports whether key is present (and not yet TTL-expired by a
// pending EvictExpired pass).
func (c *Cache) ContainsKey(key []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[string(key)]
	return ok
}

// Size returns the current entry count.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// IsEmpty reports whether the cache holds no entries.
func (c *Cache) IsEmpty() bool { return c.Size() == 0 }

// UpdateConfig replaces the cache's configuration. It does not retroactively
// evict to satisfy a shrunk MaxSize; the next Insert will evict as needed.
func (c *Cache) UpdateConfig(config Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config = config.WithDefaults()
}

// evictOneLocked evicts exactly one entry per the configured strategy.
// Callers must hold c.mu. Returns false only if the cache was unexpectedly
// empty (CacheInsertionError territory — should not happen under the
// invariant that eviction is only attempted when len >= MaxSize > 0).
func (c *Cache) evictOneLocked() bool {
	if len(c.entries) == 0 {
		return false
	}
	switch c.config.Strategy {
	case LRU:
		back := c.order.Back()
		if back == nil {
			return false
		}
		e := back.Value.(*entry)
		c.removeEntryLocked(e)
		return true
	default: // FIFO: the reference (and this port) evicts an arbitrary
		// entry, not the oldest-inserted one — see spec.md §9.3. A true
		// FIFO needs an insertion-order queue; this contract only
		// guarantees *some* entry is evicted.
		for k, e := range c.entries {
			delete(c.entries, k)
			_ = e
			return true
		}
		return false
	}
}

func (c *Cache) removeEntryLocked(e *entry) {
	delete(c.entries, e.key)
	if c.config.Strategy == LRU && e.elem != nil {
		c.order.Remove(e.elem)
	}
}
