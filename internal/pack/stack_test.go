package pack

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackPriority(t *testing.T) {
	high := NewMemSource("hd", map[string][]byte{
		"models/block/stone.json": []byte(`{"hd":true}`),
	})
	low := NewMemSource("vanilla", map[string][]byte{
		"models/block/stone.json": []byte(`{"hd":false}`),
		"models/block/dirt.json":  []byte(`{}`),
	})
	s := NewStack(high, low)

	got, ok := s.GetString("models/block/stone.json")
	require.True(t, ok)
	assert.Equal(t, `{"hd":true}`, got)

	_, ok = s.GetString("models/block/dirt.json")
	assert.True(t, ok, "fallback para o pack de menor prioridade")

	_, ok = s.GetBytes("models/block/nada.json")
	assert.False(t, ok)
}

func TestStackList(t *testing.T) {
	a := NewMemSource("a", map[string][]byte{
		"textures/block/stone.png": {1},
		"textures/item/apple.png":  {1},
	})
	b := NewMemSource("b", map[string][]byte{
		"textures/block/stone.png": {2},
		"textures/block/dirt.png":  {2},
	})
	s := NewStack(a, b)
	assert.Equal(t, []string{"textures/block/dirt.png", "textures/block/stone.png"}, s.List("textures/block/"))
}

func TestFingerprintDependsOnOrder(t *testing.T) {
	a := NewMemSource("a", nil)
	b := NewMemSource("b", nil)
	assert.NotEqual(t, NewStack(a, b).Fingerprint(), NewStack(b, a).Fingerprint())
	assert.Equal(t, NewStack(a, b).Fingerprint(), NewStack(a, b).Fingerprint())
}

func TestFingerprintDependsOnContent(t *testing.T) {
	mem := NewMemSource("a", map[string][]byte{"blockstates/stone.json": []byte(`{}`)})
	before := NewStack(mem).Fingerprint()
	mem.Put("blockstates/stone.json", []byte(`{"variants":{}}`))
	assert.NotEqual(t, before, NewStack(mem).Fingerprint())

	root := t.TempDir()
	file := filepath.Join(root, "blockstates", "stone.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0644))
	first := OpenDirs([]string{root}).Fingerprint()
	assert.Equal(t, first, OpenDirs([]string{root}).Fingerprint(), "reabrir sem edição mantém a chave")

	require.NoError(t, os.WriteFile(file, []byte(`{"variants":{}}`), 0644))
	assert.NotEqual(t, first, OpenDirs([]string{root}).Fingerprint(), "pack editado e recarregado muda a chave")
}

func TestDirSource(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "assets", "minecraft", "blockstates")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stone.json"), []byte(`{}`), 0644))

	src, err := NewDirSource(root)
	require.NoError(t, err)

	data, err := src.ReadFile("blockstates/stone.json")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	_, err = src.ReadFile("blockstates/dirt.json")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err := src.List("blockstates")
	require.NoError(t, err)
	assert.Equal(t, []string{"blockstates/stone.json"}, names)

	names, err = src.List("models")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestZipSource(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "pack.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("assets/minecraft/models/block/cube.json")
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"elements":[]}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	s := OpenDirs([]string{zipPath, filepath.Join(t.TempDir(), "nao_existe")})
	require.Len(t, s.Sources(), 1)
	got, ok := s.GetString("models/block/cube.json")
	require.True(t, ok)
	assert.Equal(t, `{"elements":[]}`, got)

	assert.NotEmpty(t, s.Sources()[0].(*ZipSource).Version())
	assert.NoError(t, s.Close())
	_, ok = s.GetString("models/block/cube.json")
	assert.False(t, ok, "zip fechado não é mais lido")
}
