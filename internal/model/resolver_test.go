package model

import (
	"context"
	"testing"

	"BlockVision/internal/pack"
	"BlockVision/shared/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(files map[string]string) *Resolver {
	raw := make(map[string][]byte, len(files))
	for k, v := range files {
		raw[k] = []byte(v)
	}
	return NewResolver(pack.NewStack(pack.NewMemSource("test", raw)), Options{})
}

const cubeColumn = `{
  "parent": "block/cube",
  "textures": {"particle": "#side", "down": "#end", "up": "#end", "north": "#side",
               "east": "#side", "south": "#side", "west": "#side"}
}`

const cube = `{
  "parent": "block/block",
  "elements": [{
    "from": [0, 0, 0], "to": [16, 16, 16],
    "faces": {
      "down":  {"texture": "#down", "cullface": "down"},
      "up":    {"texture": "#up", "cullface": "up"},
      "north": {"texture": "#north", "cullface": "north"},
      "south": {"texture": "#south", "cullface": "south"},
      "west":  {"texture": "#west", "cullface": "west"},
      "east":  {"texture": "#east", "cullface": "east"}
    }
  }]
}`

func TestParentMerge(t *testing.T) {
	r := newTestResolver(map[string]string{
		"models/block/child.json":  `{"parent": "minecraft:block/parent", "textures": {"top": "A"}}`,
		"models/block/parent.json": `{"textures": {"top": "B", "side": "C"}, "elements": [{"from": [0,0,0], "to": [16,16,16], "faces": {"up": {"texture": "#top"}}}]}`,
	})
	m := r.Resolve(context.Background(), "block/child")

	assert.Equal(t, map[string]string{"top": "A", "side": "C"}, m.Textures)
	require.Len(t, m.Elements, 1)
	assert.Empty(t, m.Parent)
	assert.Equal(t, "A", m.Elements[0].Faces[util.DirUp].Texture)
}

func TestChildElementsWin(t *testing.T) {
	r := newTestResolver(map[string]string{
		"models/block/child.json":  `{"parent": "block/parent", "elements": [{"from": [0,0,0], "to": [8,8,8], "faces": {}}]}`,
		"models/block/parent.json": `{"elements": [{"from": [0,0,0], "to": [16,16,16], "faces": {}}]}`,
	})
	m := r.Resolve(context.Background(), "child")
	require.Len(t, m.Elements, 1)
	assert.Equal(t, [3]float64{8, 8, 8}, m.Elements[0].To)
}

func TestOakLogColumn(t *testing.T) {
	r := newTestResolver(map[string]string{
		"models/block/oak_log.json":     `{"parent": "minecraft:block/cube_column", "textures": {"end": "minecraft:block/oak_log_top", "side": "minecraft:block/oak_log"}}`,
		"models/block/cube_column.json": cubeColumn,
		"models/block/cube.json":        cube,
		"models/block/block.json":       `{"display": {}}`,
	})
	m := r.Resolve(context.Background(), "minecraft:block/oak_log")
	require.Len(t, m.Elements, 1)
	faces := m.Elements[0].Faces
	assert.Equal(t, "block/oak_log_top", faces[util.DirUp].Texture)
	assert.Equal(t, "block/oak_log_top", faces[util.DirDown].Texture)
	for _, d := range []util.Direction{util.DirNorth, util.DirSouth, util.DirEast, util.DirWest} {
		assert.Equal(t, "block/oak_log", faces[d].Texture, d.String())
	}
	assert.Equal(t, util.DirUp, faces[util.DirUp].CullFace)
	assert.Equal(t, "block/oak_log", m.Textures["particle"])
}

func TestMissingParentKeepsResolvedPart(t *testing.T) {
	r := newTestResolver(map[string]string{
		"models/block/orphan.json": `{"parent": "block/gone", "textures": {"all": "block/stone"},
			"elements": [{"from": [0,0,0], "to": [16,16,16], "faces": {"up": {"texture": "#all"}}}]}`,
	})
	m := r.Resolve(context.Background(), "block/orphan")
	require.Len(t, m.Elements, 1)
	assert.Equal(t, "block/stone", m.Elements[0].Faces[util.DirUp].Texture)
	assert.Empty(t, m.Parent)
}

func TestParentCycleStops(t *testing.T) {
	r := newTestResolver(map[string]string{
		"models/block/a.json": `{"parent": "block/b", "textures": {"x": "block/a"}}`,
		"models/block/b.json": `{"parent": "block/a", "textures": {"y": "block/b"}}`,
	})
	m := r.Resolve(context.Background(), "block/a")
	assert.Equal(t, map[string]string{"x": "block/a", "y": "block/b"}, m.Textures)
	assert.Empty(t, m.Elements)
}

func TestParentDepthLimit(t *testing.T) {
	files := map[string]string{
		"models/block/m0.json": `{"parent": "block/m1"}`,
		"models/block/m1.json": `{"parent": "block/m2"}`,
		"models/block/m2.json": `{"parent": "block/m3"}`,
		"models/block/m3.json": `{"parent": "block/m4"}`,
		"models/block/m4.json": `{"parent": "block/m5"}`,
		"models/block/m5.json": `{"parent": "block/m6", "textures": {"five": "block/five"}}`,
		"models/block/m6.json": `{"textures": {"six": "block/six"}}`,
	}
	m := newTestResolver(files).Resolve(context.Background(), "block/m0")
	assert.Contains(t, m.Textures, "five")
	assert.NotContains(t, m.Textures, "six", "sexto salto excede o limite padrão")

	deep := NewResolver(newTestResolver(files).src, Options{MaxParentDepth: 10})
	assert.Contains(t, deep.Resolve(context.Background(), "block/m0").Textures, "six")
}

func TestMissingAndMalformedModel(t *testing.T) {
	r := newTestResolver(map[string]string{"models/block/bad.json": `{"elements": [`})
	for _, p := range []string{"block/nothing", "block/bad"} {
		m := r.Resolve(context.Background(), p)
		require.NotNil(t, m)
		assert.Empty(t, m.Elements)
	}
}

func TestResolveCachesResult(t *testing.T) {
	r := newTestResolver(map[string]string{"models/block/cube.json": cube})
	a := r.Resolve(context.Background(), "block/cube")
	b := r.Resolve(context.Background(), "minecraft:block/cube")
	assert.Same(t, a, b)

	r.InvalidateCache()
	c := r.Resolve(context.Background(), "block/cube")
	assert.NotSame(t, a, c)
}

func TestNoUnresolvedReferences(t *testing.T) {
	r := newTestResolver(map[string]string{"models/block/cube.json": cube})
	m := r.Resolve(context.Background(), "block/cube")
	for _, e := range m.Elements {
		for _, f := range e.Faces {
			assert.Equal(t, MissingTexture, f.Texture)
		}
	}
}
