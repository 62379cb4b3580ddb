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

// Package compression wraps klauspost/compress's zstd codec behind the
// level-based compress/decompress pair the backup snapshot pipeline needs.
// Frames are self-delimited zstd frames; decompress does not need the
// original length.
package compression

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/oblivisheee/zewos/zewoserr"
)

// MinLevel and MaxLevel bound the accepted compression level. zstd's own
// levels top out around 22 for the reference encoder; levels outside the
// same range are rejected, so callers porting constants from the spec need
// no translation.
const (
	MinLevel = 1
	MaxLevel = 22
)

// levelFor maps a 1..22 spec-level onto zstd's own EncoderLevel scale,
// since zstd.EncoderLevelFromZstd expects the same numbering.
func levelFor(level int) zstd.EncoderLevel {
	return zstd.EncoderLevelFromZstd(level)
}

// Compress compresses data at the given level (1..22) using zstd, without
// a dictionary.
func Compress(data []byte, level int) ([]byte, error) {
	return CompressWithDict(data, level, nil)
}

// CompressWithDict is Compress with an explicit dictionary. It exists to
// satisfy the spec's optional dictionary variant; the default pipeline
// never passes one. dict may be arbitrary bytes: it is used as raw
// content under dictionary ID 1. A nil/empty dict compresses without one.
func CompressWithDict(data []byte, level int, dict []byte) ([]byte, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, zewoserr.New("compression.Compress", zewoserr.CompressionError,
			fmt.Errorf("level %d out of range [%d,%d]", level, MinLevel, MaxLevel))
	}
	opts := []zstd.EOption{zstd.WithEncoderLevel(levelFor(level))}
	if len(dict) > 0 {
		opts = append(opts, zstd.WithEncoderDictRaw(1, dict))
	}
	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, zewoserr.New("compression.Compress", zewoserr.CompressionError, err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

// Decompress reverses Compress. The frame is self-delimited so no level or
// original-length hint is required.
func Decompress(data []byte) ([]byte, error) {
	return DecompressWithDict(data, nil)
}

// DecompressWithDict is Decompress with an explicit dictionary, mirroring
// CompressWithDict.
func DecompressWithDict(data []byte, dict []byte) ([]byte, error) {
	opts := []zstd.DOption{}
	if len(dict) > 0 {
		opts = append(opts, zstd.WithDecoderDictRaw(1, dict))
	}
	dec, err := zstd.NewReader(nil, opts...)
	if err != nil {
		return nil, zewoserr.New("compression.Decompress", zewoserr.DecompressionError, err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, zewoserr.New("compression.Decompress", zewoserr.DecompressionError, err)
	}
	return out, nil
}
