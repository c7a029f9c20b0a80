package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlockVision/internal/atlas"
	"BlockVision/internal/meshing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache", "blockvision.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMeshSaveLoad(t *testing.T) {
	s := openTemp(t)
	node := meshing.Placeholder("minecraft:stone")

	require.NoError(t, s.SaveMesh("fp1", "minecraft:stone", "plains", node))
	got, err := s.LoadMesh("fp1", "minecraft:stone", "plains")
	require.NoError(t, err)
	assert.Equal(t, node.VertexCount(), got.VertexCount())
	assert.True(t, got.Placeholder)

	// Substitui sem duplicar
	require.NoError(t, s.SaveMesh("fp1", "minecraft:stone", "plains", node))
	var count int64
	s.DB.Model(&MeshRecord{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = s.LoadMesh("fp1", "minecraft:stone", "desert")
	assert.True(t, IsNotFound(err))
}

func TestAtlasLayoutSaveLoad(t *testing.T) {
	s := openTemp(t)
	l := atlas.Pack([]atlas.Entry{{Path: "block/a", Width: 16, Height: 16}}, 64)
	require.NoError(t, s.SaveAtlasLayout("fp1", l))

	got, err := s.LoadAtlasLayout("fp1", 64)
	require.NoError(t, err)
	assert.Equal(t, l.Placements, got.Placements)

	_, err = s.LoadAtlasLayout("fp1", 128)
	assert.True(t, IsNotFound(err))
}

func TestPurge(t *testing.T) {
	s := openTemp(t)
	node := meshing.Placeholder("x")
	require.NoError(t, s.SaveMesh("old", "minecraft:x", "plains", node))
	require.NoError(t, s.SaveMesh("new", "minecraft:x", "plains", node))
	require.NoError(t, s.SaveMesh("new+atlas64", "minecraft:x", "plains", node))
	require.NoError(t, s.SaveAtlasLayout("old", atlas.Pack(nil, 16)))

	removed, err := s.Purge("new")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = s.LoadMesh("old", "minecraft:x", "plains")
	assert.True(t, IsNotFound(err))
	_, err = s.LoadMesh("new", "minecraft:x", "plains")
	assert.NoError(t, err)
	_, err = s.LoadMesh("new+atlas64", "minecraft:x", "plains")
	assert.NoError(t, err, "chaves derivadas do conjunto atual ficam")
}

func TestMeta(t *testing.T) {
	s := openTemp(t)
	v, ok := s.Meta("FormatVersion")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, s.SetMeta("Fingerprint", "abc"))
	v, _ = s.Meta("Fingerprint")
	assert.Equal(t, "abc", v)
}
