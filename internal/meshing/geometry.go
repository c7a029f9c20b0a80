package meshing

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// GeometryData contém os buffers indexados de uma malha.
type GeometryData struct {
	Vertices []float32 // xyz
	Normals  []float32 // xyz
	UVs      []float32 // uv
	Indices  []uint32
}

// ErrBadGeometry indica buffers de tamanhos incompatíveis ou índices fora da malha.
var ErrBadGeometry = errors.New("geometria inconsistente")

// Validate confere que os buffers descrevem a mesma quantidade de vértices
// e que todo índice aponta para um vértice existente.
func (g GeometryData) Validate() error {
	if len(g.Vertices)%3 != 0 {
		return fmt.Errorf("%w: %d floats de posição", ErrBadGeometry, len(g.Vertices))
	}
	n := uint32(len(g.Vertices) / 3)
	if len(g.Normals) != len(g.Vertices) {
		return fmt.Errorf("%w: %d normais para %d vértices", ErrBadGeometry, len(g.Normals)/3, n)
	}
	if len(g.UVs) != int(n)*2 {
		return fmt.Errorf("%w: %d UVs para %d vértices", ErrBadGeometry, len(g.UVs)/2, n)
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d índices não formam triângulos", ErrBadGeometry, len(g.Indices))
	}
	for _, idx := range g.Indices {
		if idx >= n {
			return fmt.Errorf("%w: índice %d com %d vértices", ErrBadGeometry, idx, n)
		}
	}
	return nil
}

// VertexCount retorna o número de vértices.
func (g GeometryData) VertexCount() int {
	return len(g.Vertices) / 3
}

// IndexCount retorna o número de índices.
func (g GeometryData) IndexCount() int {
	return len(g.Indices)
}

// Position retorna o vértice i.
func (g GeometryData) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{g.Vertices[i*3], g.Vertices[i*3+1], g.Vertices[i*3+2]}
}

// UV retorna a coordenada de textura do vértice i.
func (g GeometryData) UV(i int) [2]float32 {
	return [2]float32{g.UVs[i*2], g.UVs[i*2+1]}
}

// Clone cria uma cópia profunda dos dados para evitar corrupção de memória.
func (g GeometryData) Clone() GeometryData {
	clone := GeometryData{}
	if len(g.Vertices) > 0 {
		clone.Vertices = append([]float32(nil), g.Vertices...)
	}
	if len(g.Normals) > 0 {
		clone.Normals = append([]float32(nil), g.Normals...)
	}
	if len(g.UVs) > 0 {
		clone.UVs = append([]float32(nil), g.UVs...)
	}
	if len(g.Indices) > 0 {
		clone.Indices = append([]uint32(nil), g.Indices...)
	}
	return clone
}

// vertexKey é a identidade quantizada usada para fundir vértices iguais.
type vertexKey struct {
	px, py, pz int32
	nx, ny, nz int32
	u, v       int32
}

func quantize(f float32, scale float64) int32 {
	return int32(math.Round(float64(f) * scale))
}

func makeVertexKey(p, n mgl32.Vec3, uv [2]float32) vertexKey {
	return vertexKey{
		px: quantize(p[0], 1e4), py: quantize(p[1], 1e4), pz: quantize(p[2], 1e4),
		nx: quantize(n[0], 1e3), ny: quantize(n[1], 1e3), nz: quantize(n[2], 1e3),
		u: quantize(uv[0], 1e5), v: quantize(uv[1], 1e5),
	}
}

// Pool global para reciclar MeshBuffers e evitar alocação excessiva.
var meshBufferPool = sync.Pool{
	New: func() interface{} {
		return &MeshBuffer{
			Geometry: GeometryData{
				Vertices: make([]float32, 0, 256),
				Normals:  make([]float32, 0, 256),
				UVs:      make([]float32, 0, 128),
				Indices:  make([]uint32, 0, 256),
			},
			index: make(map[vertexKey]uint32),
		}
	},
}

// GetMeshBuffer aloca ou recicla um buffer vazio.
func GetMeshBuffer() *MeshBuffer {
	return meshBufferPool.Get().(*MeshBuffer)
}

// PutMeshBuffer zera o buffer e devolve a memória para o pool.
// Quem ainda precisar da geometria deve cloná-la antes.
func PutMeshBuffer(b *MeshBuffer) {
	if b == nil {
		return
	}
	b.Geometry.Vertices = b.Geometry.Vertices[:0]
	b.Geometry.Normals = b.Geometry.Normals[:0]
	b.Geometry.UVs = b.Geometry.UVs[:0]
	b.Geometry.Indices = b.Geometry.Indices[:0]
	clear(b.index)
	meshBufferPool.Put(b)
}

// MeshBuffer acumula quads num buffer indexado, fundindo vértices repetidos.
type MeshBuffer struct {
	Geometry GeometryData
	index    map[vertexKey]uint32
}

func (b *MeshBuffer) addVertex(p, n mgl32.Vec3, uv [2]float32) uint32 {
	key := makeVertexKey(p, n, uv)
	if idx, ok := b.index[key]; ok {
		return idx
	}
	idx := uint32(len(b.Geometry.Vertices) / 3)
	b.Geometry.Vertices = append(b.Geometry.Vertices, p[0], p[1], p[2])
	b.Geometry.Normals = append(b.Geometry.Normals, n[0], n[1], n[2])
	b.Geometry.UVs = append(b.Geometry.UVs, uv[0], uv[1])
	b.index[key] = idx
	return idx
}

// AddQuad adiciona um quad com cantos na ordem TL, TR, BL, BR (vistos de frente).
func (b *MeshBuffer) AddQuad(v [4]mgl32.Vec3, uv [4][2]float32, n mgl32.Vec3) {
	tl := b.addVertex(v[0], n, uv[0])
	tr := b.addVertex(v[1], n, uv[1])
	bl := b.addVertex(v[2], n, uv[2])
	br := b.addVertex(v[3], n, uv[3])

	// Triângulo 1 (TL, BL, TR) e triângulo 2 (TR, BL, BR), ambos anti-horários
	b.Geometry.Indices = append(b.Geometry.Indices, tl, bl, tr, tr, bl, br)
}

// Empty indica se nada foi adicionado.
func (b *MeshBuffer) Empty() bool {
	return len(b.Geometry.Indices) == 0
}
