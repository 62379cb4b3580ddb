package blob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedFingerprint() ([32]byte, error) {
	return [32]byte{1, 2, 3, 4}, nil
}

func TestOpenCreatesOwnerOnlyTree(t *testing.T) {
	tmp := t.TempDir()
	require.False(t, Exists(tmp))

	dir, err := Open(tmp)
	require.NoError(t, err)
	require.True(t, Exists(tmp))

	for _, path := range []string{dir.Root, dir.Objects, dir.Logs} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}
}

func TestFileIOWriteReadRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	dir, err := Open(tmp)
	require.NoError(t, err)
	io := NewFileIO(dir, fixedFingerprint)

	require.NoError(t, io.Write(MetadataBlob, []byte(`{"object_count":0}`)))
	got, err := io.Read(MetadataBlob)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"object_count":0}`), got)

	info, err := os.Stat(dir.Path(MetadataBlob))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileIOFileContentsAreEncrypted(t *testing.T) {
	tmp := t.TempDir()
	dir, err := Open(tmp)
	require.NoError(t, err)
	io := NewFileIO(dir, fixedFingerprint)

	plaintext := []byte("super secret payload")
	require.NoError(t, io.Write(ConfigBlob, plaintext))

	raw, err := os.ReadFile(dir.Path(ConfigBlob))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super secret")
}

func TestFileIODifferentHostFailsToDecrypt(t *testing.T) {
	tmp := t.TempDir()
	dir, err := Open(tmp)
	require.NoError(t, err)
	ioA := NewFileIO(dir, fixedFingerprint)
	require.NoError(t, ioA.Write(MetadataBlob, []byte("data")))

	otherHost := func() ([32]byte, error) { return [32]byte{9, 9, 9}, nil }
	ioB := NewFileIO(dir, otherHost)
	_, err = ioB.Read(MetadataBlob)
	require.Error(t, err)
}

func TestFileIORelocatedDirFailsToDecrypt(t *testing.T) {
	tmp1 := t.TempDir()
	dir1, err := Open(tmp1)
	require.NoError(t, err)
	io1 := NewFileIO(dir1, fixedFingerprint)
	require.NoError(t, io1.Write(MetadataBlob, []byte("data")))

	tmp2 := t.TempDir()
	require.NoError(t, os.Rename(filepath.Join(tmp1, DirName), filepath.Join(tmp2, DirName)))
	dir2 := &Directory{
		Origin:  tmp2,
		Root:    filepath.Join(tmp2, DirName),
		Objects: filepath.Join(tmp2, DirName, "objects"),
		Logs:    filepath.Join(tmp2, DirName, "logs"),
	}
	io2 := NewFileIO(dir2, fixedFingerprint)
	_, err = io2.Read(MetadataBlob)
	require.Error(t, err, "path is part of the key derivation, so a relocated tree must fail to decrypt")
}

func TestSessionLogRecordsLines(t *testing.T) {
	tmp := t.TempDir()
	dir, err := Open(tmp)
	require.NoError(t, err)
	sl, err := OpenSessionLog(dir)
	require.NoError(t, err)
	assert.True(t, sl.Record("insert", "k1", "ok"))
	require.NoError(t, sl.Close())

	entries, err := os.ReadDir(dir.Logs)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(dir.Logs, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"op":"insert"`)
}
