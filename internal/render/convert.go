package render

import (
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"BlockVision/internal/meshing"
)

// toMatrix converte uma matriz mgl32 (coluna-maior) para o layout do raylib.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M4: m[4], M8: m[8], M12: m[12],
		M1: m[1], M5: m[5], M9: m[9], M13: m[13],
		M2: m[2], M6: m[6], M10: m[10], M14: m[14],
		M3: m[3], M7: m[7], M11: m[11], M15: m[15],
	}
}

func toColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// toIndices16 converte índices para o formato do raylib (unsigned short).
// Retorna false se algum índice não cabe.
func toIndices16(idx []uint32) ([]uint16, bool) {
	out := make([]uint16, len(idx))
	for i, v := range idx {
		if v > 0xFFFF {
			return nil, false
		}
		out[i] = uint16(v)
	}
	return out, true
}

// drawItem é uma malha já achatada na transformação de mundo.
type drawItem struct {
	mesh  meshing.Mesh
	world mgl32.Mat4
	water bool
}

// flatten percorre a árvore e devolve as malhas na ordem de desenho:
// opacas primeiro, depois por RenderOrder (água por último).
func flatten(root *meshing.Node) []drawItem {
	var items []drawItem
	root.Walk(func(n *meshing.Node, world mgl32.Mat4) {
		for _, m := range n.Meshes {
			items = append(items, drawItem{mesh: m, world: world, water: n.IsWater})
		}
	})
	sort.SliceStable(items, func(i, j int) bool {
		return drawRank(items[i]) < drawRank(items[j])
	})
	return items
}

func drawRank(it drawItem) int {
	m := it.mesh.Material
	if m == nil {
		return 0
	}
	rank := m.RenderOrder * 2
	if m.Transparent {
		rank++
	}
	return rank
}
