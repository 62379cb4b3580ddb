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

package backup

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"

	"github.com/oblivisheee/zewos/compression"
	"github.com/oblivisheee/zewos/object"
	"github.com/oblivisheee/zewos/zewoserr"
)

// canonicalMode is fxamacker/cbor's core deterministic encoding mode: map
// keys are sorted by their encoded bytes, producing the same output for
// the same logical map every time it's encoded within a process. This is
// the module's "bincode-equivalent canonical encoding" (spec.md §4.3).
var canonicalMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("backup: invalid canonical cbor options: %v", err))
	}
	return mode
}()

func contentHashOf(objects map[string]*object.Object) [32]byte {
	// An empty map hashes as SHA3-256 of empty input.
	if len(objects) == 0 {
		return sha3.Sum256(nil)
	}
	encoded, err := canonicalMode.Marshal(objects)
	if err != nil {
		// Objects only ever contain []byte + primitive metadata, which is
		// always CBOR-encodable; a failure here would indicate memory
		// corruption, not a recoverable condition.
		panic(fmt.Sprintf("backup: canonical encode of content hash failed: %v", err))
	}
	return sha3.Sum256(encoded)
}

// Serialize produces the three blobs that make up a snapshot: the
// compressed+canonically-encoded object map, and the JSON-encoded
// metadata and config sidecars. The compression level may be overridden
// per-call (Index.SerializeBackup's optional override); a nil override
// uses the backup's configured level.
func (b *Backup) Serialize(levelOverride *int) (objectsBlob, metadataBlob, configBlob []byte, err error) {
	b.mu.RLock()
	objects := make(map[string]*object.Object, len(b.objects))
	for k, v := range b.objects {
		objects[k] = v
	}
	metadata := b.metadata
	config := b.config
	b.mu.RUnlock()

	level := config.Level()
	if levelOverride != nil {
		level = *levelOverride
	}

	encoded, err := canonicalMode.Marshal(objects)
	if err != nil {
		return nil, nil, nil, zewoserr.New("backup.Serialize", zewoserr.SerializationError, err)
	}
	objectsBlob, err = compression.Compress(encoded, level)
	if err != nil {
		return nil, nil, nil, zewoserr.New("backup.Serialize", zewoserr.CompressionError, err)
	}

	metadata.CompressionLevel = &level
	metadataBlob, err = json.Marshal(metadata)
	if err != nil {
		return nil, nil, nil, zewoserr.New("backup.Serialize", zewoserr.SerializationError, err)
	}

	effectiveConfig := config
	effectiveConfig.CompressionLevel = &level
	configBlob, err = json.Marshal(effectiveConfig)
	if err != nil {
		return nil, nil, nil, zewoserr.New("backup.Serialize", zewoserr.SerializationError, err)
	}

	return objectsBlob, metadataBlob, configBlob, nil
}

// Deserialize reconstructs a Backup from the three blobs Serialize
// produces. JSON- and CBOR-decode errors surface as SerializationError
// (the wrapped cause names which), decompression errors as
// DecompressionError.
func Deserialize(metadataBlob, objectsBlob, configBlob []byte) (*Backup, error) {
	var metadata Metadata
	if err := json.Unmarshal(metadataBlob, &metadata); err != nil {
		return nil, zewoserr.New("backup.Deserialize", zewoserr.SerializationError, fmt.Errorf("metadata json: %w", err))
	}
	var config Config
	if err := json.Unmarshal(configBlob, &config); err != nil {
		return nil, zewoserr.New("backup.Deserialize", zewoserr.SerializationError, fmt.Errorf("config json: %w", err))
	}

	encoded, err := compression.Decompress(objectsBlob)
	if err != nil {
		return nil, zewoserr.New("backup.Deserialize", zewoserr.DecompressionError, err)
	}

	objects := make(map[string]*object.Object)
	if err := cbor.Unmarshal(encoded, &objects); err != nil {
		return nil, zewoserr.New("backup.Deserialize", zewoserr.SerializationError, fmt.Errorf("cbor decode: %w", err))
	}

	b := &Backup{
		objects:  objects,
		metadata: metadata,
		config:   config,
	}
	b.recomputeHashLocked()
	return b, nil
}
