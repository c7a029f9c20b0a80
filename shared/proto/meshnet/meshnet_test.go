package meshnet

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlockVision/internal/atlas"
	"BlockVision/internal/materials"
	"BlockVision/internal/meshing"
	"BlockVision/internal/model"
	"BlockVision/shared/util"
)

func sampleNode() *meshing.Node {
	b := meshing.NewBuilder(materials.NewStore(), nil, false)
	e := model.Element{From: [3]float64{0, 0, 0}, To: [3]float64{16, 8, 16}, Faces: map[util.Direction]model.Face{
		util.DirUp:    {Texture: "block/grass_block_top", TintIndex: 0, CullFace: util.DirUp},
		util.DirNorth: {Texture: "block/dirt", TintIndex: -1},
	}}
	base := b.BuildModel(&model.Model{Elements: []model.Element{e}},
		meshing.BlockContext{Block: "minecraft:grass_slab", Props: "type=bottom", Biome: "swamp", Waterlogged: true}, meshing.Options{})
	base.Children[0].Transform = mgl32.HomogRotate3DY(mgl32.DegToRad(-90))
	return base
}

func TestNodeRoundTrip(t *testing.T) {
	orig := sampleNode()
	got, err := DecodeNode(EncodeNode(orig))
	require.NoError(t, err)

	assert.Equal(t, orig.Name, got.Name)
	assert.Equal(t, orig.VertexCount(), got.VertexCount())
	assert.Equal(t, orig.IndexCount(), got.IndexCount())
	assert.Equal(t, orig.HasWater(), got.HasWater())
	require.Len(t, got.Children, 2)
	assert.Equal(t, orig.Children[0].Transform, got.Children[0].Transform)
	assert.Equal(t, mgl32.Ident4(), got.Transform)

	om, gm := orig.Children[0].Meshes[0], got.Children[0].Meshes[0]
	assert.Equal(t, om.Key, gm.Key)
	assert.Equal(t, om.Geometry, gm.Geometry)
	assert.Equal(t, *om.Material, *gm.Material)
	assert.Equal(t, -1, got.Children[0].Meshes[1].Key.TintIndex)

	omin, omax, _ := orig.Bounds()
	gmin, gmax, _ := got.Bounds()
	assert.Equal(t, omin, gmin)
	assert.Equal(t, omax, gmax)
}

func TestPlaceholderRoundTrip(t *testing.T) {
	got, err := DecodeNode(EncodeNode(meshing.Placeholder("minecraft:nada")))
	require.NoError(t, err)
	assert.True(t, got.Placeholder)
	assert.True(t, got.Meshes[0].Material.Wireframe)
	assert.Equal(t, materials.Magenta, got.Meshes[0].Material.Tint)
}

func TestDecodeRejectsInconsistentGeometry(t *testing.T) {
	valid := meshing.Placeholder("minecraft:nada")
	require.NoError(t, valid.Meshes[0].Geometry.Validate())

	tests := []struct {
		name   string
		mutate func(g *meshing.GeometryData)
	}{
		{"posições truncadas", func(g *meshing.GeometryData) { g.Vertices = g.Vertices[:len(g.Vertices)-1] }},
		{"normais faltando", func(g *meshing.GeometryData) { g.Normals = g.Normals[:3] }},
		{"uvs faltando", func(g *meshing.GeometryData) { g.UVs = g.UVs[:2] }},
		{"índice fora da malha", func(g *meshing.GeometryData) { g.Indices[0] = uint32(g.VertexCount()) }},
		{"triângulo incompleto", func(g *meshing.GeometryData) { g.Indices = g.Indices[:len(g.Indices)-1] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := meshing.Placeholder("minecraft:nada")
			tt.mutate(&n.Meshes[0].Geometry)
			_, err := DecodeNode(EncodeNode(n))
			assert.ErrorIs(t, err, meshing.ErrBadGeometry)
		})
	}
}

func TestMeshMessages(t *testing.T) {
	req := MeshRequest{ID: 7, Block: "minecraft:oak_log[axis=x]", Biome: "forest"}
	var gotReq MeshRequest
	require.NoError(t, gotReq.Unmarshal(req.Marshal()))
	assert.Equal(t, req, gotReq)

	reply := MeshReply{ID: 7, Block: req.Block, Biome: req.Biome, Node: sampleNode()}
	var gotReply MeshReply
	require.NoError(t, gotReply.Unmarshal(reply.Marshal()))
	assert.Equal(t, uint32(7), gotReply.ID)
	require.NotNil(t, gotReply.Node)
	assert.Equal(t, reply.Node.IndexCount(), gotReply.Node.IndexCount())

	errReply := MeshReply{ID: 8, Error: "falhou"}
	var gotErr MeshReply
	require.NoError(t, gotErr.Unmarshal(errReply.Marshal()))
	assert.Nil(t, gotErr.Node)
	assert.Equal(t, "falhou", gotErr.Error)
}

func TestLayoutRoundTrip(t *testing.T) {
	l := atlas.Pack([]atlas.Entry{{Path: "block/a", Width: 16, Height: 16}, {Path: "block/b", Width: 32, Height: 16}, {Path: "block/big", Width: 128, Height: 128}}, 64)
	got, err := DecodeLayout(EncodeLayout(l))
	require.NoError(t, err)
	assert.Equal(t, l.Size, got.Size)
	assert.Equal(t, l.Strategy, got.Strategy)
	assert.Equal(t, l.Placements, got.Placements)
	assert.Equal(t, l.Order, got.Order)
	assert.Equal(t, l.Dropped, got.Dropped)
	assert.InDelta(t, l.Efficiency(), got.Efficiency(), 1e-9)
}
