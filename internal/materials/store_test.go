package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"BlockVision/shared/util"
)

func TestKeyString(t *testing.T) {
	k := Key{
		Texture:   "block/grass_block_top",
		Direction: util.DirUp,
		TintIndex: 0,
		CullFace:  util.DirUp,
		Block:     "minecraft:grass_block",
		Props:     "snowy=false",
		Biome:     "plains",
	}
	assert.Equal(t, "block/grass_block_top|up|0|up|minecraft:grass_block|snowy=false|plains", k.String())
}

func TestStoreCachesPerKey(t *testing.T) {
	s := NewStore()
	k := Key{Texture: "block/stone", Direction: util.DirNorth, TintIndex: -1}
	a := s.Material(k, Flags{})
	b := s.Material(k, Flags{})
	assert.Same(t, a, b)

	k.Direction = util.DirSouth
	c := s.Material(k, Flags{})
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, s.Len())

	// Com atlas os UVs mudam: material próprio
	d := s.Material(k, Flags{UseAtlas: true})
	assert.NotSame(t, c, d)
	assert.True(t, d.UseAtlas)
	assert.Equal(t, 3, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestStoreFlagsSplitCache(t *testing.T) {
	s := NewStore()
	plains, _ := LookupBiome("plains")
	k := Key{Texture: "block/grass_block_top", Biome: "plains", TintIndex: 0}

	plain := s.Material(k, Flags{})
	tinted := s.Material(k, Flags{Tint: true})
	assert.Equal(t, White, plain.Tint)
	assert.Equal(t, plains.Grass, tinted.Tint, "o primeiro pedido não decide o tint dos seguintes")

	w := Key{Texture: "block/water_still", Biome: "plains", TintIndex: 0}
	solid := s.Material(w, Flags{Tint: true})
	liquid := s.Material(w, Flags{Tint: true, IsLiquid: true})
	assert.False(t, solid.Transparent)
	assert.True(t, liquid.Transparent)
	assert.Equal(t, 4, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestStoreTint(t *testing.T) {
	s := NewStore()
	plains, _ := LookupBiome("plains")
	swamp, _ := LookupBiome("swamp")

	tests := []struct {
		name    string
		texture string
		biome   string
		tint    bool
		want    interface{}
	}{
		{"sem tint", "block/grass_block_top", "plains", false, White},
		{"grama", "block/grass_block_top", "plains", true, plains.Grass},
		{"grama pantano", "block/grass_block_top", "swamp", true, swamp.Grass},
		{"folhas", "block/oak_leaves", "plains", true, plains.Foliage},
		{"folhas fixas", "block/birch_leaves", "swamp", true, fixedFoliage["block/birch_leaves"]},
		{"bioma desconhecido", "block/grass", "nowhere", true, plains.Grass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := s.Material(Key{Texture: tt.texture, Biome: tt.biome, TintIndex: 0}, Flags{Tint: tt.tint})
			assert.Equal(t, tt.want, m.Tint)
		})
	}
}

func TestStoreLiquid(t *testing.T) {
	s := NewStore()
	water := s.Material(Key{Texture: "block/water_still", TintIndex: 0, Biome: "plains"}, Flags{Tint: true, IsLiquid: true})
	assert.True(t, water.Transparent)
	assert.False(t, water.DepthWrite)
	assert.Equal(t, 1, water.RenderOrder)
	assert.Equal(t, uint8(180), water.Tint.A)

	stone := s.Material(Key{Texture: "block/stone", TintIndex: -1}, Flags{UseAtlas: true})
	assert.False(t, stone.Transparent)
	assert.True(t, stone.DepthWrite)
	assert.True(t, stone.UseAtlas)
}

func TestPlaceholderMaterial(t *testing.T) {
	m := PlaceholderMaterial()
	assert.True(t, m.Wireframe)
	assert.Equal(t, Magenta, m.Tint)
}
