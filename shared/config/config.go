package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config armazena as configurações do BlockVision.
type Config struct {
	// Resource packs, do mais prioritário para o menos prioritário
	PackDirs []string `json:"pack_dirs" yaml:"pack_dirs"`

	// Atlas
	AtlasSize         int      `json:"atlas_size" yaml:"atlas_size"`
	UseAtlas          bool     `json:"use_atlas" yaml:"use_atlas"`
	DecodeConcurrency int      `json:"decode_concurrency" yaml:"decode_concurrency"` // Imagens decodificadas ao mesmo tempo
	AnimatedTextures  []string `json:"animated_textures" yaml:"animated_textures"`   // Nunca remapeadas para o atlas

	// Resolução de modelos
	MaxParentDepth  int    `json:"max_parent_depth" yaml:"max_parent_depth"`
	MaxTextureDepth int    `json:"max_texture_depth" yaml:"max_texture_depth"`
	DefaultBiome    string `json:"default_biome" yaml:"default_biome"`

	// Meshing
	MesherThreads int `json:"mesher_threads" yaml:"mesher_threads"`

	// Cache persistente (SQLite). Vazio desativa.
	CacheDB string `json:"cache_db" yaml:"cache_db"`

	// Rede
	ServerAddr string `json:"server_addr" yaml:"server_addr"` // Usado pelo servidor
	ServerURL  string `json:"server_url" yaml:"server_url"`   // Usado pelo cliente

	// Visualizador
	WindowWidth  int32  `json:"window_width" yaml:"window_width"`
	WindowHeight int32  `json:"window_height" yaml:"window_height"`
	WindowTitle  string `json:"window_title" yaml:"window_title"`
	TargetFPS    int32  `json:"target_fps" yaml:"target_fps"`

	// Debug
	LogFile string `json:"log_file" yaml:"log_file"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		PackDirs: []string{"packs/default"},

		AtlasSize:         1024,
		UseAtlas:          true,
		DecodeConcurrency: 32,
		AnimatedTextures: []string{
			"block/water_still", "block/water_flow",
			"block/lava_still", "block/lava_flow",
			"block/fire_0", "block/fire_1",
			"block/nether_portal",
		},

		MaxParentDepth:  5,
		MaxTextureDepth: 5,
		DefaultBiome:    "plains",

		MesherThreads: 4,

		CacheDB: "",

		ServerAddr: ":8080",
		ServerURL:  "ws://127.0.0.1:8080/ws",

		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "BlockVision",
		TargetFPS:    60,
	}
}

// DefaultPath retorna o caminho padrão do arquivo de configuração (ao lado do executável).
func DefaultPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execPath), "config.json")
}

// isYAML decide o formato pelo sufixo do arquivo.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load carrega as configurações de um arquivo JSON ou YAML.
// Se o arquivo não existir, retorna as configurações padrão.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("falha ao ler %s: %w", path, err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao parsear %s: %w", path, err)
	}

	cfg.Validate()
	return cfg, nil
}

// Validate restaura os padrões para valores ausentes ou inválidos.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.AtlasSize <= 0 {
		c.AtlasSize = def.AtlasSize
	}
	if c.DecodeConcurrency <= 0 {
		c.DecodeConcurrency = def.DecodeConcurrency
	}
	if c.MaxParentDepth <= 0 {
		c.MaxParentDepth = def.MaxParentDepth
	}
	if c.MaxTextureDepth <= 0 {
		c.MaxTextureDepth = def.MaxTextureDepth
	}
	if c.MesherThreads <= 0 {
		c.MesherThreads = def.MesherThreads
	}
	if c.DefaultBiome == "" {
		c.DefaultBiome = def.DefaultBiome
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		c.WindowWidth, c.WindowHeight = def.WindowWidth, def.WindowHeight
	}
	if c.TargetFPS <= 0 {
		c.TargetFPS = def.TargetFPS
	}
}

// Save salva as configurações no formato indicado pelo sufixo do caminho.
func (c *Config) Save(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
