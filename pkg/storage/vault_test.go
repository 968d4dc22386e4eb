package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := NewVault(t.TempDir())
	require.NoError(t, err)
	return v
}

func TestNewVaultCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	_, err := NewVault(root)
	require.NoError(t, err)

	for _, dir := range []string{DirTemplates, DirWorking, DirCompleted} {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestEnsureDirectoriesIdempotent(t *testing.T) {
	v := newTestVault(t)
	require.NoError(t, v.EnsureDirectories())
	require.NoError(t, v.EnsureDirectories())
}

func TestWriteAtomicRoundTrip(t *testing.T) {
	v := newTestVault(t)
	content := []byte("# Record\nbody\n")

	path, err := v.WriteAtomic(DirCompleted, "record.md", content)
	require.NoError(t, err)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, onDisk)

	// No temp files survive a successful commit.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), tempPrefix)
	}
}

func TestWriteAtomicOverwrites(t *testing.T) {
	v := newTestVault(t)

	_, err := v.WriteAtomic(DirTemplates, "t.md", []byte("v1"))
	require.NoError(t, err)
	path, err := v.WriteAtomic(DirTemplates, "t.md", []byte("v2"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestHashFileRoundTrip(t *testing.T) {
	v := newTestVault(t)
	content := []byte("inspection evidence")

	path, err := v.WriteAtomic(DirCompleted, "sealed.md", content)
	require.NoError(t, err)

	fromDisk, err := v.HashFile(path)
	require.NoError(t, err)
	assert.Len(t, fromDisk, 64)
	assert.Equal(t, HashBytes(content), fromDisk)

	// One flipped byte changes the digest.
	mutated := append([]byte(nil), content...)
	mutated[0] ^= 0x01
	require.NoError(t, os.WriteFile(path, mutated, 0o644))

	afterMutation, err := v.HashFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, fromDisk, afterMutation)
}

func TestListSkipsTempFilesAndDirs(t *testing.T) {
	v := newTestVault(t)

	_, err := v.WriteAtomic(DirCompleted, "b.md", []byte("b"))
	require.NoError(t, err)
	_, err = v.WriteAtomic(DirCompleted, "a.md", []byte("a"))
	require.NoError(t, err)

	dir := filepath.Join(v.Root(), DirCompleted)
	require.NoError(t, os.WriteFile(filepath.Join(dir, tempPrefix+"orphan"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	names, err := v.List(DirCompleted)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md"}, names)
}

func TestDeleteMissingFileIsNoop(t *testing.T) {
	v := newTestVault(t)
	assert.NoError(t, v.Delete(DirWorking, "never-existed.md"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "Soil_Check_A", SanitizeFileName(" Soil Check A "))
	assert.Equal(t, "..etcpasswd", SanitizeFileName("../etc/passwd"))
	assert.Equal(t, "name", SanitizeFileName("na\\me:"))
}
