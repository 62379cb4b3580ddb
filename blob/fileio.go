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

package blob

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oblivisheee/zewos/crypt"
	"github.com/oblivisheee/zewos/zewoserr"
)

// Named blobs within .zewos/, per spec §6.
const (
	ObjectsBlob  = "objects.bin" // compressed, bincode/cbor-encoded map
	MetadataBlob = "metadata.zewos"
	ConfigBlob   = "config.zewos"
)

// IO is the interface the storage core consumes: named blob read/write,
// with AEAD encryption applied transparently. store.Store depends only on
// this interface so a test double can stand in for the filesystem.
type IO interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// FileIO is the default IO implementation: AES-GCM-256-wrapped files under
// a Directory, keyed per spec.md §6 by HKDF(ikm=path bytes, info=host
// fingerprint). Writes are atomic via write-to-tempfile-then-rename, the
// spec-sanctioned improvement over naive in-place overwrite (spec.md §9.5).
type FileIO struct {
	dir         *Directory
	fingerprint func() ([32]byte, error)
}

// NewFileIO builds a FileIO rooted at dir, deriving AEAD keys from
// fingerprintFn (normally fingerprint.Get).
func NewFileIO(dir *Directory, fingerprintFn func() ([32]byte, error)) *FileIO {
	return &FileIO{dir: dir, fingerprint: fingerprintFn}
}

func (f *FileIO) keyFor(path string) (*[32]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zewoserr.New("blob.keyFor", zewoserr.IOError, err)
	}
	fp, err := f.fingerprint()
	if err != nil {
		return nil, zewoserr.New("blob.keyFor", zewoserr.AEADError, err)
	}
	return crypt.DeriveKey([]byte(abs), fp[:])
}

// Read loads, decrypts, and returns the plaintext contents of the named
// blob.
func (f *FileIO) Read(name string) ([]byte, error) {
	path := f.dir.Path(name)
	frame, err := os.ReadFile(path)
	if err != nil {
		return nil, zewoserr.New("blob.Read", zewoserr.IOError, fmt.Errorf("%s: %w", path, err))
	}
	key, err := f.keyFor(path)
	if err != nil {
		return nil, err
	}
	plaintext, err := crypt.Open(key, frame)
	if err != nil {
		return nil, fmt.Errorf("blob.Read %s: %w", path, err)
	}
	return plaintext, nil
}

// Write encrypts data and atomically replaces the named blob on disk.
func (f *FileIO) Write(name string, data []byte) error {
	path := f.dir.Path(name)
	key, err := f.keyFor(path)
	if err != nil {
		return err
	}
	frame, err := crypt.Seal(key, data)
	if err != nil {
		return fmt.Errorf("blob.Write %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return zewoserr.New("blob.Write", zewoserr.IOError, fmt.Errorf("mkdir: %w", err))
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, frame, filePerm); err != nil {
		return zewoserr.New("blob.Write", zewoserr.IOError, fmt.Errorf("write tempfile: %w", err))
	}
	if err := os.Rename(tmp, path); err != nil {
		return zewoserr.New("blob.Write", zewoserr.IOError, fmt.Errorf("rename: %w", err))
	}
	return os.Chmod(path, filePerm)
}
