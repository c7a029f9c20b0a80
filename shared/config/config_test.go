package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nao_existe.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("pack_dirs:\n  - packs/hd\n  - packs/vanilla\natlas_size: 2048\nmax_parent_depth: 0\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"packs/hd", "packs/vanilla"}, cfg.PackDirs)
	assert.Equal(t, 2048, cfg.AtlasSize)
	// Zero volta para o padrão
	assert.Equal(t, 5, cfg.MaxParentDepth)
}

func TestSaveLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.DefaultBiome = "swamp"
	cfg.CacheDB = "cache.db"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "swamp", loaded.DefaultBiome)
	assert.Equal(t, "cache.db", loaded.CacheDB)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}
