package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	k1, err := DeriveKey([]byte("/tmp/store/.zewos/metadata.zewos"), []byte("host-fingerprint"))
	require.NoError(t, err)
	k2, err := DeriveKey([]byte("/tmp/store/.zewos/metadata.zewos"), []byte("host-fingerprint"))
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestDeriveKeyVariesWithPath(t *testing.T) {
	k1, err := DeriveKey([]byte("path/a"), []byte("fp"))
	require.NoError(t, err)
	k2, err := DeriveKey([]byte("path/b"), []byte("fp"))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestSealOpenRoundTrip(t *testing.T) {
	key, err := DeriveKey([]byte("ikm"), []byte("info"))
	require.NoError(t, err)
	plaintext := []byte("the quick brown fox")
	frame, err := Seal(key, plaintext)
	require.NoError(t, err)
	got, err := Open(key, frame)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestOpenFailsOnWrongKey(t *testing.T) {
	key1, err := DeriveKey([]byte("ikm1"), []byte("info"))
	require.NoError(t, err)
	key2, err := DeriveKey([]byte("ikm2"), []byte("info"))
	require.NoError(t, err)
	frame, err := Seal(key1, []byte("secret"))
	require.NoError(t, err)
	_, err = Open(key2, frame)
	require.Error(t, err)
}

func TestOpenFailsOnTamperedFrame(t *testing.T) {
	key, err := DeriveKey([]byte("ikm"), []byte("info"))
	require.NoError(t, err)
	frame, err := Seal(key, []byte("secret"))
	require.NoError(t, err)
	frame[len(frame)-1] ^= 0xFF
	_, err = Open(key, frame)
	require.Error(t, err)
}

func TestSealProducesFreshNonces(t *testing.T) {
	key, err := DeriveKey([]byte("ikm"), []byte("info"))
	require.NoError(t, err)
	f1, err := Seal(key, []byte("same plaintext"))
	require.NoError(t, err)
	f2, err := Seal(key, []byte("same plaintext"))
	require.NoError(t, err)
	assert.NotEqual(t, f1[:12], f2[:12])
}
