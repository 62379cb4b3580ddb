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

// Package crypt implements the two cryptographic primitives the blob layer
// depends on: an HKDF-SHA3-256 key derivation function and an AES-GCM-256
// AEAD. Frames are nonce(12) || ciphertext || tag, nonces drawn fresh per
// call from crypto/rand.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	"github.com/oblivisheee/zewos/zewoserr"
)

const (
	keySize   = 32
	nonceSize = 12
)

// DeriveKey derives a 32-byte AES-256 key via HKDF-SHA3-256 with salt=nil,
// ikm=ikm, info=info. Per the spec, ikm is the blob's absolute path bytes
// and info is the host fingerprint.
func DeriveKey(ikm, info []byte) (*[32]byte, error) {
	r := hkdf.New(sha3.New256, ikm, nil, info)
	var key [keySize]byte
	if _, err := io.ReadFull(r, key[:]); err != nil {
		return nil, zewoserr.New("crypt.DeriveKey", zewoserr.AEADError, fmt.Errorf("hkdf expand: %w", err))
	}
	return &key, nil
}

// Seal encrypts plaintext under key, returning nonce || ciphertext || tag.
func Seal(key *[32]byte, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, zewoserr.New("crypt.Seal", zewoserr.AEADError, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, zewoserr.New("crypt.Seal", zewoserr.AEADError, err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, zewoserr.New("crypt.Seal", zewoserr.AEADError, fmt.Errorf("rng: %w", err))
	}
	out := gcm.Seal(nonce, nonce, plaintext, nil)
	return out, nil
}

// Open decrypts a frame produced by Seal. Returns AEADError on any tag
// mismatch, truncated frame, or wrong key — the caller cannot distinguish
// tampering from a host/path mismatch, by design (spec §6).
func Open(key *[32]byte, frame []byte) ([]byte, error) {
	if len(frame) < nonceSize {
		return nil, zewoserr.New("crypt.Open", zewoserr.AEADError, fmt.Errorf("frame too short: %d bytes", len(frame)))
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, zewoserr.New("crypt.Open", zewoserr.AEADError, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, zewoserr.New("crypt.Open", zewoserr.AEADError, err)
	}
	nonce, ciphertext := frame[:nonceSize], frame[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, zewoserr.New("crypt.Open", zewoserr.AEADError, err)
	}
	return plaintext, nil
}
