package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oblivisheee/zewos/zewoserr"
)

func TestNewRejectsEmptyData(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	kind, ok := zewoserr.Of(err)
	require.True(t, ok)
	assert.Equal(t, zewoserr.InvalidData, kind)
}

func TestNewSetsSizeAndDefaultName(t *testing.T) {
	obj, err := New([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, obj.Size())
	assert.Contains(t, obj.Name(), "Object_")
	assert.Equal(t, obj.CreatedAt(), obj.LastUpdated())
}

func TestRenameRejectsEmpty(t *testing.T) {
	obj, err := New([]byte("x"))
	require.NoError(t, err)
	err = obj.Rename("")
	require.Error(t, err)
	kind, _ := zewoserr.Of(err)
	assert.Equal(t, zewoserr.InvalidName, kind)
}

func TestRenameUpdatesTimestamp(t *testing.T) {
	obj, err := New([]byte("x"))
	require.NoError(t, err)
	before := obj.LastUpdated()
	require.NoError(t, obj.Rename("new-name"))
	assert.Equal(t, "new-name", obj.Name())
	assert.GreaterOrEqual(t, obj.LastUpdated(), before)
}

func TestToBytesIsACopy(t *testing.T) {
	obj, err := New([]byte("abc"))
	require.NoError(t, err)
	b := obj.ToBytes()
	b[0] = 'z'
	assert.Equal(t, byte('a'), obj.ToBytes()[0])
}

func TestCloneIsIndependent(t *testing.T) {
	obj, err := New([]byte("abc"))
	require.NoError(t, err)
	clone := obj.Clone()
	clone.Data[0] = 'z'
	assert.Equal(t, byte('a'), obj.Data[0])
}
