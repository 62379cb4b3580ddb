package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("hello world"),
		make([]byte, 1<<20),
	}
	for _, data := range cases {
		compressed, err := Compress(data, 3)
		require.NoError(t, err)
		got, err := Decompress(compressed)
		require.NoError(t, err)
		// nil and an empty, non-nil slice both mean "zero bytes" here; the
		// zstd round trip is not required to preserve nilness.
		assert.True(t, bytes.Equal(data, got))
	}
}

func TestRoundTripAllLevels(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly, many times over")
	for level := MinLevel; level <= MaxLevel; level += 3 {
		compressed, err := Compress(data, level)
		require.NoError(t, err)
		got, err := Decompress(compressed)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestCompressRejectsOutOfRangeLevel(t *testing.T) {
	_, err := Compress([]byte("x"), 0)
	require.Error(t, err)
	_, err = Compress([]byte("x"), 23)
	require.Error(t, err)
}

func TestDecompressRejectsGarbage(t *testing.T) {
	_, err := Decompress([]byte("not a zstd frame"))
	require.Error(t, err)
}

func TestDictionaryRoundTrip(t *testing.T) {
	dict := []byte("common-prefix-material-used-as-dictionary-content-for-testing")
	data := []byte("common-prefix-material payload that shares structure with the dict")
	compressed, err := CompressWithDict(data, 5, dict)
	require.NoError(t, err)
	got, err := DecompressWithDict(compressed, dict)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
