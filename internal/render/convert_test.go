package render

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlockVision/internal/materials"
	"BlockVision/internal/meshing"
)

func TestToMatrixKeepsTranslation(t *testing.T) {
	m := toMatrix(mgl32.Translate3D(1, 2, 3))
	assert.Equal(t, float32(1), m.M12)
	assert.Equal(t, float32(2), m.M13)
	assert.Equal(t, float32(3), m.M14)
	assert.Equal(t, float32(1), m.M15)
}

func TestToIndices16(t *testing.T) {
	idx, ok := toIndices16([]uint32{0, 1, 2, 65535})
	require.True(t, ok)
	assert.Equal(t, []uint16{0, 1, 2, 65535}, idx)

	_, ok = toIndices16([]uint32{70000})
	assert.False(t, ok)
}

func TestToColor(t *testing.T) {
	c := toColor(color.RGBA{R: 1, G: 2, B: 3, A: 4})
	assert.Equal(t, uint8(1), c.R)
	assert.Equal(t, uint8(4), c.A)
}

func TestFlattenDrawOrder(t *testing.T) {
	solid := &materials.Material{DepthWrite: true}
	water := &materials.Material{Transparent: true, RenderOrder: 1}

	base := meshing.NewNode("fence")
	base.Meshes = []meshing.Mesh{{Material: solid}}
	wnode := meshing.NewNode("fence#water")
	wnode.IsWater = true
	wnode.Meshes = []meshing.Mesh{{Material: water}}

	root := meshing.NewNode("root")
	root.AddChild(wnode)
	root.AddChild(base)
	root.Children[1].Transform = mgl32.Translate3D(0, 1, 0)

	items := flatten(root)
	require.Len(t, items, 2)
	assert.Same(t, solid, items[0].mesh.Material)
	assert.Equal(t, float32(1), items[0].world[13])
	assert.True(t, items[1].water)
}

func TestOrbitCameraFrame(t *testing.T) {
	c := &OrbitCamera{MinZoom: 1, MaxZoom: 20}
	c.Frame(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})
	assert.Equal(t, mgl32.Vec3{}, c.Target)
	assert.InDelta(t, 3.4641, c.TargetZoom, 1e-3)
	// Com ângulos zero a câmera fica em +Z
	assert.InDelta(t, c.TargetZoom, c.Position()[2], 1e-4)
}
