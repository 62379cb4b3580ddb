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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oblivisheee/zewos/backup"
	"github.com/oblivisheee/zewos/cache"
)

// Options configures Store.Init/Load. WithDefaults fills in Logging and
// CacheConfig; BackupConfig's compression level falls back to its default
// when read (backup.Config.Level). Registerer and WatchConfig stay as given.
type Options struct {
	// Logging enables the plaintext session log sink. Default true.
	Logging *bool

	BackupConfig backup.Config
	CacheConfig  cache.Config

	// Registerer receives Prometheus metrics. A nil Registerer disables
	// metrics registration (Store still runs, just unobserved).
	Registerer prometheus.Registerer

	// WatchConfig enables hot-reloading zewos.yaml's cache_config fields
	// via fsnotify. Default false: most embedders do not expect their
	// store to change behavior out from under them without an explicit
	// opt-in.
	WatchConfig bool
}

func boolPtr(b bool) *bool { return &b }

// WithDefaults returns a copy of o with every unset field defaulted.
func (o Options) WithDefaults() Options {
	if o.Logging == nil {
		o.Logging = boolPtr(true)
	}
	o.CacheConfig = o.CacheConfig.WithDefaults()
	return o
}

func (o Options) loggingEnabled() bool {
	return o.Logging == nil || *o.Logging
}
