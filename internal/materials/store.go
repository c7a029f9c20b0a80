package materials

import (
	"image/color"
	"log"
	"strings"
	"sync"
)

// Store é a fábrica padrão: guarda um material por chave e calcula a cor de bioma.
type Store struct {
	mu        sync.RWMutex
	materials map[string]*Material
	warned    map[string]bool
}

// NewStore cria uma fábrica vazia.
func NewStore() *Store {
	return &Store{
		materials: make(map[string]*Material),
		warned:    make(map[string]bool),
	}
}

// Material retorna o material da chave, criando-o na primeira vez.
// Chaves iguais com flags diferentes geram materiais distintos.
func (s *Store) Material(key Key, flags Flags) *Material {
	id := key.String() + flags.suffix()

	s.mu.RLock()
	m, ok := s.materials[id]
	s.mu.RUnlock()
	if ok {
		return m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.materials[id]; ok {
		return m
	}
	m = s.build(key, flags)
	s.materials[id] = m
	return m
}

func (f Flags) suffix() string {
	var b strings.Builder
	if f.UseAtlas {
		b.WriteString("|atlas")
	}
	if f.Tint {
		b.WriteString("|tint")
	}
	if f.IsLiquid {
		b.WriteString("|liquid")
	}
	return b.String()
}

func (s *Store) build(key Key, flags Flags) *Material {
	m := &Material{
		Texture:    key.Texture,
		Tint:       White,
		DepthWrite: true,
		UseAtlas:   flags.UseAtlas,
		Liquid:     flags.IsLiquid,
	}
	if flags.Tint {
		m.Tint = s.tintFor(key)
	}
	if flags.IsLiquid {
		m.Transparent = true
		m.DepthWrite = false
		m.RenderOrder = 1
		if strings.Contains(key.Texture, "water") {
			m.Tint.A = 180
		}
	}
	return m
}

// tintFor escolhe entre grama, folhagem e água pelo nome da textura.
func (s *Store) tintFor(key Key) color.RGBA {
	biome, ok := LookupBiome(key.Biome)
	if !ok && key.Biome != "" && !s.warned[key.Biome] {
		s.warned[key.Biome] = true
		log.Printf("[Materials] Bioma desconhecido %q, usando plains", key.Biome)
	}
	if c, ok := fixedFoliage[key.Texture]; ok {
		return c
	}
	switch {
	case strings.Contains(key.Texture, "water"):
		return biome.Water
	case strings.Contains(key.Texture, "leaves"), strings.Contains(key.Texture, "vine"):
		return biome.Foliage
	default:
		return biome.Grass
	}
}

// Len retorna quantos materiais estão em cache.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.materials)
}

// Clear descarta todos os materiais (troca de packs).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials = make(map[string]*Material)
}

var _ Factory = (*Store)(nil)
