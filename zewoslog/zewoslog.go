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

// Package zewoslog is a thin wrapper over log/slog that fans writes out
// to stderr and, optionally, a second io.Writer (e.g. a file) — the
// ambient logging layer store.Store is built on.
package zewoslog

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// New builds a *slog.Logger writing text-formatted records to stderr, and
// additionally JSON-formatted records to extra (commonly a rotated log
// file) when extra is non-nil.
func New(level slog.Level, extra io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	stderrHandler := slog.NewTextHandler(os.Stderr, opts)
	if extra == nil {
		return slog.New(stderrHandler)
	}
	return slog.New(fanOutHandler{
		handlers: []slog.Handler{stderrHandler, slog.NewJSONHandler(extra, opts)},
	})
}

// fanOutHandler implements slog.Handler by delegating every call to each
// wrapped handler in turn.
type fanOutHandler struct {
	handlers []slog.Handler
}

func (f fanOutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanOutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanOutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return fanOutHandler{handlers: next}
}

func (f fanOutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return fanOutHandler{handlers: next}
}
