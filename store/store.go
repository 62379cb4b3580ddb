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

// Package store is the top-level handle: it binds an index.Index to
// on-disk blobs via blob.FileIO, triggers save-on-mutate, and wires the
// ambient logging/metrics/tracing stack around every API call.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/oblivisheee/zewos/blob"
	"github.com/oblivisheee/zewos/cache"
	"github.com/oblivisheee/zewos/fingerprint"
	"github.com/oblivisheee/zewos/index"
	"github.com/oblivisheee/zewos/metrics"
	"github.com/oblivisheee/zewos/zewoserr"
	"github.com/oblivisheee/zewos/zewoslog"
)

var tracer = otel.Tracer("zewos.store")

// Store is the embeddable top-level handle. Every successful Insert/Remove
// is durably persisted before the call returns; Get and the other
// read/introspection operations never persist (spec.md §4.6).
type Store struct {
	idx *index.Index
	dir *blob.Directory
	io  blob.IO
	log *blob.SessionLog

	opts    Options
	logger  *slog.Logger
	metrics *metrics.Recorder

	cacheCfgMu    sync.RWMutex
	cacheCfg      cache.Config
	configWatcher *fsnotify.Watcher
	closeWatch    chan struct{}
	closeOnce     sync.Once
}

func newStore(dir *blob.Directory, io blob.IO, idx *index.Index, log *blob.SessionLog, opts Options) *Store {
	enableTracing()
	return &Store{
		idx:        idx,
		dir:        dir,
		io:         io,
		log:        log,
		opts:       opts,
		logger:     zewoslog.New(slog.LevelInfo, nil),
		metrics:    metrics.New(opts.Registerer),
		cacheCfg:   opts.CacheConfig,
		closeWatch: make(chan struct{}),
	}
}

// Init opens origin, delegating to Load if <origin>/.zewos already
// exists. Otherwise it creates a fresh Index, writes the directory tree
// with restrictive permissions, and persists an initial empty snapshot.
func Init(origin string, opts Options) (*Store, error) {
	if blob.Exists(origin) {
		return Load(origin, opts)
	}

	fileCfg, err := LoadConfig(origin)
	if err != nil {
		return nil, err
	}
	opts = fileCfg.ApplyTo(opts).WithDefaults()

	dir, err := blob.Open(origin)
	if err != nil {
		return nil, err
	}
	fileIO := blob.NewFileIO(dir, fingerprint.Get)
	idx := index.New(opts.BackupConfig, opts.CacheConfig)

	var log *blob.SessionLog
	if opts.loggingEnabled() {
		log, err = blob.OpenSessionLog(dir)
		if err != nil {
			return nil, err
		}
	}

	s := newStore(dir, fileIO, idx, log, opts)
	if err := s.Save(); err != nil {
		return nil, fmt.Errorf("store.Init: initial save: %w", err)
	}
	if opts.WatchConfig {
		s.watchConfig()
	}
	return s, nil
}

// Load reads the three named blobs from <dir>/.zewos, decrypts and
// deserializes them into a fresh Index, and returns a bound Store.
func Load(dir string, opts Options) (*Store, error) {
	fileCfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	opts = fileCfg.ApplyTo(opts).WithDefaults()

	directory, err := blob.Open(dir)
	if err != nil {
		return nil, err
	}
	fileIO := blob.NewFileIO(directory, fingerprint.Get)

	objectsBlob, err := fileIO.Read(blob.ObjectsBlob)
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}
	metadataBlob, err := fileIO.Read(blob.MetadataBlob)
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}
	configBlob, err := fileIO.Read(blob.ConfigBlob)
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}

	idx, err := index.DeserializeBackup(metadataBlob, objectsBlob, configBlob)
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}
	idx.UpdateCacheConfig(opts.CacheConfig)

	var log *blob.SessionLog
	if opts.loggingEnabled() {
		log, err = blob.OpenSessionLog(directory)
		if err != nil {
			return nil, err
		}
	}

	s := newStore(directory, fileIO, idx, log, opts)
	if opts.WatchConfig {
		s.watchConfig()
	}
	return s, nil
}

// saveCompressionLevel is fixed at the spec's mandated level=3 for every
// auto-save, independent of whatever compression_level the backup's own
// config carries (spec.md §4.6).
const saveCompressionLevel = 3

// Save serializes the current Backup under a consistent read-locked
// snapshot and AEAD-encrypts and writes the three named blobs
// concurrently. Callers are not coalesced: each call takes its own fresh
// snapshot after its caller's mutation was applied (Backup's RWMutex
// orders that snapshot against concurrent writers), so every caller's own
// already-applied mutation is in the snapshot it persists before Insert/Remove
// reports success (spec.md §4.6). Coalescing concurrent saves into one
// shared write would let a second caller's mutation be silently absent
// from the snapshot a first, in-flight caller wrote.
func (s *Store) Save() error {
	ctx, span := tracer.Start(context.Background(), "zewos.store.save")
	defer span.End()
	start := time.Now()

	level := saveCompressionLevel
	objectsBlob, metadataBlob, configBlob, err := s.idx.SerializeBackup(&level)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.ObserveOperation("save", "error")
		return fmt.Errorf("store.Save: serialize: %w", err)
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return s.io.Write(blob.ObjectsBlob, objectsBlob) })
	g.Go(func() error { return s.io.Write(blob.MetadataBlob, metadataBlob) })
	g.Go(func() error { return s.io.Write(blob.ConfigBlob, configBlob) })
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.ObserveOperation("save", "error")
		return fmt.Errorf("store.Save: write: %w", err)
	}

	s.metrics.ObserveSaveDuration(time.Since(start))
	s.metrics.ObserveOperation("save", "ok")
	return nil
}

// Insert delegates to Index.Insert then immediately persists the new
// state to disk before returning, per the auto-save contract.
func (s *Store) Insert(key, value []byte) ([]byte, error) {
	_, span := tracer.Start(context.Background(), "zewos.store.insert", trace.WithAttributes(attribute.Int("value_size", len(value))))
	defer span.End()

	prev, err := s.idx.Insert(key, value)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveOperation("insert", "error")
		s.logCall("insert", key, "error")
		return nil, err
	}
	if err := s.Save(); err != nil {
		span.RecordError(err)
		s.metrics.ObserveOperation("insert", "error")
		s.logCall("insert", key, "error")
		return nil, err
	}
	s.metrics.ObserveOperation("insert", "ok")
	s.logCall("insert", key, "ok")
	return prev, nil
}

// Remove delegates to Index.Remove then immediately persists.
func (s *Store) Remove(key []byte) ([]byte, bool, error) {
	_, span := tracer.Start(context.Background(), "zewos.store.remove")
	defer span.End()

	prev, existed := s.idx.Remove(key)
	if err := s.Save(); err != nil {
		span.RecordError(err)
		s.metrics.ObserveOperation("remove", "error")
		s.logCall("remove", key, "error")
		return nil, existed, err
	}
	s.metrics.ObserveOperation("remove", "ok")
	s.logCall("remove", key, "ok")
	return prev, existed, nil
}

// Get is read-only: no save is triggered.
func (s *Store) Get(key []byte) ([]byte, error) {
	value, hit, err := s.idx.GetWithStats(key)
	s.metrics.ObserveCacheLookup(hit)
	if err != nil {
		status := "miss"
		if _, ok := zewoserr.Of(err); ok {
			status = "not_found"
		}
		s.metrics.ObserveOperation("get", status)
		s.logCall("get", key, status)
		return nil, err
	}
	s.metrics.ObserveOperation("get", "ok")
	s.logCall("get", key, "ok")
	return value, nil
}

// ContainsKey, Len, IsEmpty, GetAllKeys are read-only introspection: no
// save is triggered.
func (s *Store) ContainsKey(key []byte) bool { return s.idx.ContainsKey(key) }
func (s *Store) Len() int                    { return s.idx.Len() }
func (s *Store) IsEmpty() bool               { return s.idx.IsEmpty() }
func (s *Store) GetAllKeys() [][]byte        { return s.idx.GetAllKeys() }
func (s *Store) GetAllKeysSorted() [][]byte  { return s.idx.GetAllKeysSorted() }
func (s *Store) GetObjectCount() int         { return s.idx.GetObjectCount() }
func (s *Store) GetTotalSize() int           { return s.idx.GetTotalSize() }

// EvictExpiredCache removes TTL-expired cache entries, recording the
// count against the cache_evictions metric.
func (s *Store) EvictExpiredCache() int {
	n := s.idx.EvictExpiredCache()
	s.metrics.ObserveCacheEvictions(s.cacheConfigSnapshot().Strategy.String(), n)
	return n
}

func (s *Store) cacheConfigSnapshot() cache.Config {
	s.cacheCfgMu.RLock()
	defer s.cacheCfgMu.RUnlock()
	return s.cacheCfg
}

func (s *Store) logCall(op string, key []byte, status string) {
	if s.log == nil {
		return
	}
	s.log.Record(op, fmt.Sprintf("%x", key), status)
}

// Close stops the config watcher (if armed) and flushes the session log.
// It does not fail if either was never started.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeWatch)
		if s.configWatcher != nil {
			s.configWatcher.Close()
		}
		if s.log != nil {
			err = s.log.Close()
		}
	})
	return err
}
