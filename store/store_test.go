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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oblivisheee/zewos/blob"
	"github.com/oblivisheee/zewos/cache"
	"github.com/oblivisheee/zewos/zewoserr"
)

// Scenario 1: init, insert returns nil previous, get round-trips, len is 1.
func TestScenarioInsertThenGet(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir, Options{})
	require.NoError(t, err)
	defer s.Close()

	prev, err := s.Insert([]byte("k1"), []byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.Nil(t, prev)

	got, err := s.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, got)
	assert.Equal(t, 1, s.Len())
}

// Scenario 2: inserting a duplicate key returns the previous value.
func TestScenarioInsertDuplicateReturnsPrevious(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir, Options{})
	require.NoError(t, err)
	defer s.Close()

	prev, err := s.Insert([]byte("k"), []byte("a"))
	require.NoError(t, err)
	assert.Nil(t, prev)

	prev, err = s.Insert([]byte("k"), []byte("bb"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), prev)

	got, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bb"), got)
	assert.Equal(t, 1, s.Len())
}

// Scenario 3: after insert and a fresh Load of the same origin, the value
// survives the round trip.
func TestScenarioLoadAfterClose(t *testing.T) {
	dir := t.TempDir()
	s1, err := Init(dir, Options{})
	require.NoError(t, err)

	_, err = s1.Insert([]byte("k1"), []byte("v1"))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Load(dir, Options{})
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}

// Scenario 4: a TTL-expired cache entry is evicted by EvictExpiredCache,
// but the key is still retrievable afterwards via a Backup hit.
func TestScenarioTTLExpiryFallsBackToBackup(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir, Options{
		CacheConfig: cache.Config{TTL: 10 * time.Millisecond},
	})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Insert([]byte("x"), []byte("y"))
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	evicted := s.EvictExpiredCache()
	assert.Equal(t, 1, evicted)

	got, err := s.Get([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), got)
}

// Scenario 5: with a 2-entry LRU cache, inserting three distinct keys
// leaves exactly two entries cached, but all three remain retrievable
// through Get (which repopulates the cache on a Backup hit).
func TestScenarioLRUBoundedCacheAllKeysStillRetrievable(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir, Options{
		CacheConfig: cache.Config{MaxSize: 2, Strategy: cache.LRU},
	})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Insert([]byte("k1"), []byte("v1"))
	require.NoError(t, err)
	_, err = s.Insert([]byte("k2"), []byte("v2"))
	require.NoError(t, err)
	_, err = s.Insert([]byte("k3"), []byte("v3"))
	require.NoError(t, err)

	for k, v := range map[string]string{"k1": "v1", "k2": "v2", "k3": "v3"} {
		got, err := s.Get([]byte(k))
		require.NoError(t, err)
		assert.Equal(t, []byte(v), got)
	}
}

// Scenario 6: tampering with an on-disk blob (standing in for moving
// .zewos/ to a different host) makes Load fail with AEADError.
func TestScenarioTamperedBlobFailsToLoad(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir, Options{})
	require.NoError(t, err)
	_, err = s.Insert([]byte("k"), []byte("v"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	metaPath := filepath.Join(dir, blob.DirName, blob.MetadataBlob)
	frame, err := os.ReadFile(metaPath)
	require.NoError(t, err)
	frame[len(frame)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(metaPath, frame, 0o600))

	_, err = Load(dir, Options{})
	require.Error(t, err)
	kind, ok := zewoserr.Of(err)
	require.True(t, ok)
	assert.Equal(t, zewoserr.AEADError, kind)
}

// Boundary: an empty-value insert fails with InvalidData and never
// reaches the persisted snapshot.
func TestEmptyValueInsertFails(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir, Options{})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Insert([]byte("k"), nil)
	require.Error(t, err)
	kind, ok := zewoserr.Of(err)
	require.True(t, ok)
	assert.Equal(t, zewoserr.InvalidData, kind)
	assert.Equal(t, 0, s.Len())
}

// Remove deletes the key and Get subsequently reports KeyNotFound.
func TestRemoveThenGetIsKeyNotFound(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir, Options{})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Insert([]byte("k"), []byte("v"))
	require.NoError(t, err)

	prev, existed, err := s.Remove([]byte("k"))
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, []byte("v"), prev)

	assert.False(t, s.ContainsKey([]byte("k")))
	_, err = s.Get([]byte("k"))
	require.Error(t, err)
	kind, ok := zewoserr.Of(err)
	require.True(t, ok)
	assert.Equal(t, zewoserr.KeyNotFound, kind)
}

func TestGetAllKeysAndIntrospection(t *testing.T) {
	dir := t.TempDir()
	s, err := Init(dir, Options{})
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.IsEmpty())

	_, err = s.Insert([]byte("a"), []byte("1"))
	require.NoError(t, err)
	_, err = s.Insert([]byte("b"), []byte("22"))
	require.NoError(t, err)

	assert.False(t, s.IsEmpty())
	assert.Equal(t, 2, s.GetObjectCount())
	assert.Equal(t, 3, s.GetTotalSize())

	keys := s.GetAllKeys()
	assert.Len(t, keys, 2)
}

func TestInitIsIdempotentAndDelegatesToLoad(t *testing.T) {
	dir := t.TempDir()
	s1, err := Init(dir, Options{})
	require.NoError(t, err)
	_, err = s1.Insert([]byte("k"), []byte("v"))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Init(dir, Options{})
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
