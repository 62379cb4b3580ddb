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
	"sync"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var tracingOnce sync.Once

// enableTracing installs a minimal in-process OpenTelemetry
// TracerProvider (no exporter registered) as the global provider, so
// Store's spans are actually recorded and sampled rather than silently
// turned into no-ops by the default global no-op tracer. Embedders that
// want spans exported just register their own exporter-backed provider
// before calling Init/Load; SetTracerProvider is idempotent-safe to call
// again afterwards from application code.
func enableTracing() {
	tracingOnce.Do(func() {
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
	})
}
