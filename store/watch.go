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

package store

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchConfig watches <origin>/zewos.yaml for writes and live-applies
// changed cache_config fields (max_size, ttl, eviction_strategy) to the
// running Index. It never touches BackupConfig or Logging at runtime —
// those only take effect at Init/Load time. Only armed when
// Options.WatchConfig is true.
func (s *Store) watchConfig() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Warn("config watch disabled: fsnotify unavailable", "error", err)
		return
	}
	if err := watcher.Add(s.dir.Origin); err != nil {
		s.logger.Warn("config watch disabled: cannot watch origin dir", "error", err)
		watcher.Close()
		return
	}
	s.configWatcher = watcher

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != ConfigFileName {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				s.reloadCacheConfig()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("config watch error", "error", err)
			case <-s.closeWatch:
				return
			}
		}
	}()
}

func (s *Store) reloadCacheConfig() {
	fc, err := LoadConfig(s.dir.Origin)
	if err != nil {
		s.logger.Warn("config reload failed", "error", err)
		return
	}
	if fc.CacheConfig == nil {
		return
	}
	current := s.cacheConfigSnapshot()
	merged := fc.ApplyTo(Options{}).CacheConfig
	if fc.CacheConfig.MaxSize == nil {
		merged.MaxSize = current.MaxSize
	}
	if fc.CacheConfig.TTLSeconds == nil {
		merged.TTL = current.TTL
	}
	if fc.CacheConfig.EvictionStrategy == nil {
		merged.Strategy = current.Strategy
	}
	s.idx.UpdateCacheConfig(merged)
	s.cacheCfgMu.Lock()
	s.cacheCfg = merged
	s.cacheCfgMu.Unlock()
	s.logger.Info("cache config reloaded", "max_size", merged.MaxSize, "ttl", merged.TTL, "strategy", merged.Strategy.String())
}

