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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oblivisheee/zewos/cache"
)

// ConfigFileName is the optional configuration file Store.Init/Load looks
// for in the origin directory.
const ConfigFileName = "zewos.yaml"

// FileConfig mirrors the recognized options from spec.md §6. Every field
// is optional; a missing zewos.yaml is not an error.
type FileConfig struct {
	Logging      *bool             `yaml:"logging"`
	BackupConfig *FileBackupConfig `yaml:"backup_config"`
	CacheConfig  *FileCacheConfig  `yaml:"cache_config"`
}

type FileBackupConfig struct {
	CompressionLevel *int `yaml:"compression_level"`
}

type FileCacheConfig struct {
	MaxSize          *int    `yaml:"max_size"`
	TTLSeconds       *int    `yaml:"ttl"`
	EvictionStrategy *string `yaml:"eviction_strategy"`
}

// LoadConfig reads <dir>/zewos.yaml, if present. A missing file returns a
// zero-value FileConfig and a nil error.
func LoadConfig(dir string) (*FileConfig, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &FileConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.LoadConfig: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("store.LoadConfig: parse %s: %w", path, err)
	}
	return &fc, nil
}

// ApplyTo merges fc's fields into opts field-by-field, never overwriting a
// value the caller already set explicitly in opts. Zero values in opts
// (MaxSize 0, TTL 0, Strategy LRU) count as unset.
func (fc *FileConfig) ApplyTo(opts Options) Options {
	if fc == nil {
		return opts
	}
	if opts.Logging == nil && fc.Logging != nil {
		opts.Logging = fc.Logging
	}
	if fc.BackupConfig != nil && opts.BackupConfig.CompressionLevel == nil {
		opts.BackupConfig.CompressionLevel = fc.BackupConfig.CompressionLevel
	}
	if fc.CacheConfig != nil {
		if opts.CacheConfig.MaxSize == 0 && fc.CacheConfig.MaxSize != nil {
			opts.CacheConfig.MaxSize = *fc.CacheConfig.MaxSize
		}
		if opts.CacheConfig.TTL == 0 && fc.CacheConfig.TTLSeconds != nil {
			opts.CacheConfig.TTL = time.Duration(*fc.CacheConfig.TTLSeconds) * time.Second
		}
		if opts.CacheConfig.Strategy == cache.LRU && fc.CacheConfig.EvictionStrategy != nil {
			switch *fc.CacheConfig.EvictionStrategy {
			case "FIFO", "fifo":
				opts.CacheConfig.Strategy = cache.FIFO
			case "LRU", "lru":
				opts.CacheConfig.Strategy = cache.LRU
			}
		}
	}
	return opts
}
