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

// Package object wraps opaque byte payloads with the small amount of
// metadata the storage core needs for introspection. Objects are owned
// exclusively by backup.Backup; the cache only ever holds cheap clones.
package object

import (
	"fmt"
	"time"

	"github.com/oblivisheee/zewos/zewoserr"
)

// Metadata describes an Object: its display name and its timestamps. Size
// is tracked alongside rather than recomputed, since Data is immutable
// after construction.
type Metadata struct {
	Name        string `cbor:"name" json:"name"`
	Size        int    `cbor:"size" json:"size"`
	CreatedAt   int64  `cbor:"created_at" json:"created_at"`     // unix micros
	LastUpdated int64  `cbor:"last_updated" json:"last_updated"` // unix micros
}

// Object is an opaque payload plus Metadata. Once constructed, Data never
// changes; the only mutation allowed is Rename.
type Object struct {
	Data     []byte   `cbor:"data" json:"data"`
	Metadata Metadata `cbor:"metadata" json:"metadata"`
}

func nowMicros() int64 { return time.Now().UnixMicro() }

// New constructs an Object wrapping data. data must be non-empty; the
// returned Object's Metadata.Name defaults to "Object_<unix-seconds>".
func New(data []byte) (*Object, error) {
	if len(data) == 0 {
		return nil, zewoserr.New("object.New", zewoserr.InvalidData, nil)
	}
	now := nowMicros()
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Object{
		Data: buf,
		Metadata: Metadata{
			Name:        fmt.Sprintf("Object_%d", now/1_000_000),
			Size:        len(buf),
			CreatedAt:   now,
			LastUpdated: now,
		},
	}, nil
}

// Rename sets the Object's display name, refreshing LastUpdated. name must
// be non-empty.
func (o *Object) Rename(name string) error {
	if name == "" {
		return zewoserr.New("object.Rename", zewoserr.InvalidName, nil)
	}
	o.Metadata.Name = name
	o.Metadata.LastUpdated = nowMicros()
	return nil
}

// Size returns the length of the wrapped payload.
func (o *Object) Size() int { return o.Metadata.Size }

// Name returns the Object's display name.
func (o *Object) Name() string { return o.Metadata.Name }

// CreatedAt returns the construction timestamp (unix micros).
func (o *Object) CreatedAt() int64 { return o.Metadata.CreatedAt }

// LastUpdated returns the most recent metadata-mutation timestamp (unix
// micros).
func (o *Object) LastUpdated() int64 { return o.Metadata.LastUpdated }

// ToBytes returns a defensive copy of the wrapped payload.
func (o *Object) ToBytes() []byte {
	out := make([]byte, len(o.Data))
	copy(out, o.Data)
	return out
}

// Clone returns a deep copy of o, suitable for handing to the cache without
// sharing backing arrays with the backup's copy.
func (o *Object) Clone() *Object {
	return &Object{
		Data:     o.ToBytes(),
		Metadata: o.Metadata,
	}
}
