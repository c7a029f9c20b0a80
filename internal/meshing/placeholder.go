package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"BlockVision/internal/materials"
	"BlockVision/shared/util"
)

var placeholderMaterial = materials.PlaceholderMaterial()

// Placeholder cria o cubo aramado magenta que marca um bloco sem geometria.
func Placeholder(name string) *Node {
	buf := GetMeshBuffer()
	defer PutMeshBuffer(buf)

	size := mgl32.Vec3{1, 1, 1}
	uvs := faceUVs([4]float64{0, 0, 16, 16}, 0)
	for _, dir := range util.AllDirections {
		p := placeFace(dir, size)
		buf.AddQuad(p.quad(), uvs, p.normal())
	}

	node := NewNode(name)
	node.Placeholder = true
	node.Meshes = []Mesh{{
		Key:      materials.Key{Block: name, TintIndex: -1},
		Geometry: buf.Geometry.Clone(),
		Material: placeholderMaterial,
	}}
	return node
}
