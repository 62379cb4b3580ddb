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

// Package blob is the on-disk side of the storage core: it owns the
// .zewos directory layout, file permissions, AEAD-wrapped named blob
// read/write, and the plaintext session log. The storage core (store,
// index, backup, cache) only ever talks to the small Reader/Writer
// interface in fileio.go; everything here is the external collaborator
// the rest of the spec treats as an interface.
package blob

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oblivisheee/zewos/zewoserr"
)

// DirName is the on-disk root zewos creates inside a caller-supplied
// origin directory.
const DirName = ".zewos"

const (
	dirPerm  os.FileMode = 0o700
	filePerm os.FileMode = 0o600
)

// Directory represents an opened (or freshly created) .zewos directory
// tree: <origin>/.zewos/{objects,logs}.
type Directory struct {
	Origin  string // caller-supplied parent directory
	Root    string // <Origin>/.zewos
	Objects string // <Root>/objects
	Logs    string // <Root>/logs
}

// Exists reports whether <origin>/.zewos is already present, which Store
// uses to decide between init-fresh and load-existing.
func Exists(origin string) bool {
	info, err := os.Stat(filepath.Join(origin, DirName))
	return err == nil && info.IsDir()
}

// Open creates (if absent) or opens <origin>/.zewos with owner-only
// permissions on every directory in the tree.
func Open(origin string) (*Directory, error) {
	root := filepath.Join(origin, DirName)
	d := &Directory{
		Origin:  origin,
		Root:    root,
		Objects: filepath.Join(root, "objects"),
		Logs:    filepath.Join(root, "logs"),
	}
	for _, dir := range []string{d.Root, d.Objects, d.Logs} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, zewoserr.New("blob.Open", zewoserr.IOError, fmt.Errorf("mkdir %s: %w", dir, err))
		}
		// MkdirAll does not change the mode of a directory that already
		// existed; enforce owner-only explicitly.
		if err := os.Chmod(dir, dirPerm); err != nil {
			return nil, zewoserr.New("blob.Open", zewoserr.IOError, fmt.Errorf("chmod %s: %w", dir, err))
		}
	}
	return d, nil
}

// Path resolves a blob name to its absolute on-disk path, rooted at
// objects/ for the compressed object map and at Root for the JSON
// sidecars.
func (d *Directory) Path(name string) string {
	switch name {
	case ObjectsBlob:
		return filepath.Join(d.Objects, "objects.bin")
	default:
		return filepath.Join(d.Root, name)
	}
}
