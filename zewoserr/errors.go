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

// Package zewoserr defines the closed error taxonomy shared across every
// zewos storage package. Every error the core surfaces carries one of the
// Kind values below; no package should return a bare errors.New that isn't
// wrapped in an Error with a Kind.
package zewoserr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a storage error. The set is closed: it
// matches the taxonomy the storage core is specified to surface, nothing
// more.
type Kind uint8

const (
	KeyNotFound Kind = iota
	InvalidData
	InvalidName
	InvalidSize
	CompressionError
	DecompressionError
	SerializationError
	IOError
	CacheInsertionError
	AEADError
)

func (k Kind) String() string {
	switch k {
	case KeyNotFound:
		return "KeyNotFound"
	case InvalidData:
		return "InvalidData"
	case InvalidName:
		return "InvalidName"
	case InvalidSize:
		return "InvalidSize"
	case CompressionError:
		return "CompressionError"
	case DecompressionError:
		return "DecompressionError"
	case SerializationError:
		return "SerializationError"
	case IOError:
		return "IOError"
	case CacheInsertionError:
		return "CacheInsertionError"
	case AEADError:
		return "AEADError"
	default:
		return "Unknown"
	}
}

// Error is the typed error value every zewos package returns. Op names the
// operation that failed (e.g. "backup.insert"), Kind classifies the
// failure, and Err (optional) wraps the underlying cause.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("zewos: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("zewos: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, zewoserr.New("", zewoserr.KeyNotFound, nil)) or, more
// idiomatically, use the Kind helpers below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error for op/kind, optionally wrapping cause.
func New(op string, kind Kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Err: cause}
}

// Sentinel values for use with errors.Is when no extra wrapping context is
// needed.
var (
	ErrKeyNotFound         = &Error{Op: "", Kind: KeyNotFound}
	ErrInvalidData         = &Error{Op: "", Kind: InvalidData}
	ErrInvalidName         = &Error{Op: "", Kind: InvalidName}
	ErrInvalidSize         = &Error{Op: "", Kind: InvalidSize}
	ErrCompressionError    = &Error{Op: "", Kind: CompressionError}
	ErrDecompressionError  = &Error{Op: "", Kind: DecompressionError}
	ErrSerializationError  = &Error{Op: "", Kind: SerializationError}
	ErrIOError             = &Error{Op: "", Kind: IOError}
	ErrCacheInsertionError = &Error{Op: "", Kind: CacheInsertionError}
	ErrAEADError           = &Error{Op: "", Kind: AEADError}
)

// Of reports the Kind of err if it is (or wraps) a *Error, and ok=false
// otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
