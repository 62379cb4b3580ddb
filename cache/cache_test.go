package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oblivisheee/zewos/backup"
	"github.com/oblivisheee/zewos/object"
)

func mustObject(t *testing.T, data string) *object.Object {
	t.Helper()
	obj, err := object.New([]byte(data))
	require.NoError(t, err)
	return obj
}

func TestInsertGetRemove(t *testing.T) {
	c := New(Config{})
	obj := mustObject(t, "v1")
	require.NoError(t, c.Insert([]byte("k"), obj))

	got, ok := c.Get([]byte("k"))
	require.True(t, ok)
	assert.Equal(t, "v1", string(got.ToBytes()))
	assert.True(t, c.ContainsKey([]byte("k")))

	removed, ok := c.Remove([]byte("k"))
	require.True(t, ok)
	assert.Equal(t, "v1", string(removed.ToBytes()))
	assert.False(t, c.ContainsKey([]byte("k")))
}

func TestInsertClonesObject(t *testing.T) {
	c := New(Config{})
	obj := mustObject(t, "v1")
	require.NoError(t, c.Insert([]byte("k"), obj))
	obj.Data[0] = 'X'
	got, _ := c.Get([]byte("k"))
	assert.Equal(t, "v1", string(got.ToBytes()), "cache must hold an independent clone")
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(Config{MaxSize: 2, Strategy: LRU})
	require.NoError(t, c.Insert([]byte("a"), mustObject(t, "1")))
	require.NoError(t, c.Insert([]byte("b"), mustObject(t, "2")))
	// touch a so it becomes most-recently-used; b is now LRU
	_, _ = c.Get([]byte("a"))
	require.NoError(t, c.Insert([]byte("c"), mustObject(t, "3")))

	assert.Equal(t, 2, c.Size())
	assert.True(t, c.ContainsKey([]byte("a")))
	assert.True(t, c.ContainsKey([]byte("c")))
	assert.False(t, c.ContainsKey([]byte("b")))
}

func TestSizeNeverExceedsMaxSize(t *testing.T) {
	c := New(Config{MaxSize: 3, Strategy: LRU})
	for i := 0; i < 10; i++ {
		key := []byte{byte(i)}
		require.NoError(t, c.Insert(key, mustObject(t, "v")))
		assert.LessOrEqual(t, c.Size(), 3)
	}
}

func TestFIFOEvictsExactlyOne(t *testing.T) {
	c := New(Config{MaxSize: 2, Strategy: FIFO})
	require.NoError(t, c.Insert([]byte("a"), mustObject(t, "1")))
	require.NoError(t, c.Insert([]byte("b"), mustObject(t, "2")))
	require.NoError(t, c.Insert([]byte("c"), mustObject(t, "3")))
	assert.Equal(t, 2, c.Size())
}

func TestEvictExpiredRemovesOnlyStaleEntries(t *testing.T) {
	c := New(Config{TTL: 10 * time.Millisecond})
	require.NoError(t, c.Insert([]byte("stale"), mustObject(t, "v")))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, c.Insert([]byte("fresh"), mustObject(t, "v")))

	removed := c.EvictExpired()
	assert.Equal(t, 1, removed)
	assert.False(t, c.ContainsKey([]byte("stale")))
	assert.True(t, c.ContainsKey([]byte("fresh")))
}

func TestLoadFromBackupReseeds(t *testing.T) {
	b := backup.New(backup.Config{})
	obj1, err := object.New([]byte("v1"))
	require.NoError(t, err)
	obj2, err := object.New([]byte("v2"))
	require.NoError(t, err)
	b.Insert([]byte("k1"), obj1)
	b.Insert([]byte("k2"), obj2)

	c := New(Config{})
	c.LoadFromBackup(b)
	assert.Equal(t, 2, c.Size())
	assert.True(t, c.ContainsKey([]byte("k1")))
	assert.True(t, c.ContainsKey([]byte("k2")))
}

func TestLoadFromBackupEvictsWhenOverCapacity(t *testing.T) {
	b := backup.New(backup.Config{})
	for i := 0; i < 5; i++ {
		obj, err := object.New([]byte("v"))
		require.NoError(t, err)
		b.Insert([]byte{byte(i)}, obj)
	}
	c := New(Config{MaxSize: 2, Strategy: LRU})
	c.LoadFromBackup(b)
	assert.Equal(t, 2, c.Size())
}

func TestClear(t *testing.T) {
	c := New(Config{})
	require.NoError(t, c.Insert([]byte("k"), mustObject(t, "v")))
	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestUpdateConfig(t *testing.T) {
	c := New(Config{MaxSize: 1, Strategy: LRU})
	require.NoError(t, c.Insert([]byte("a"), mustObject(t, "1")))
	c.UpdateConfig(Config{MaxSize: 5, Strategy: LRU})
	require.NoError(t, c.Insert([]byte("b"), mustObject(t, "2")))
	assert.Equal(t, 2, c.Size())
}
