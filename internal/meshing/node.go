package meshing

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"BlockVision/internal/materials"
)

// Mesh é um grupo de faces que compartilha o mesmo material.
type Mesh struct {
	Key      materials.Key
	Geometry GeometryData
	Material *materials.Material
}

// Node é um nó de cena: malhas próprias, filhos e uma transformação local.
type Node struct {
	Name        string
	Transform   mgl32.Mat4
	Meshes      []Mesh
	Children    []*Node
	IsWater     bool // Volume de água de um bloco waterlogged
	Placeholder bool // Cubo aramado de bloco sem geometria
}

// NewNode cria um nó com transformação identidade.
func NewNode(name string) *Node {
	return &Node{Name: name, Transform: mgl32.Ident4()}
}

// AddChild anexa um filho.
func (n *Node) AddChild(c *Node) {
	n.Children = append(n.Children, c)
}

// Walk visita o nó e seus descendentes com a transformação acumulada.
func (n *Node) Walk(fn func(node *Node, world mgl32.Mat4)) {
	n.walk(mgl32.Ident4(), fn)
}

func (n *Node) walk(parent mgl32.Mat4, fn func(*Node, mgl32.Mat4)) {
	world := parent.Mul4(n.Transform)
	fn(n, world)
	for _, c := range n.Children {
		c.walk(world, fn)
	}
}

// VertexCount soma os vértices de toda a árvore.
func (n *Node) VertexCount() int {
	total := 0
	n.Walk(func(node *Node, _ mgl32.Mat4) {
		for _, m := range node.Meshes {
			total += m.Geometry.VertexCount()
		}
	})
	return total
}

// IndexCount soma os índices de toda a árvore.
func (n *Node) IndexCount() int {
	total := 0
	n.Walk(func(node *Node, _ mgl32.Mat4) {
		for _, m := range node.Meshes {
			total += m.Geometry.IndexCount()
		}
	})
	return total
}

// MeshCount conta as malhas de toda a árvore.
func (n *Node) MeshCount() int {
	total := 0
	n.Walk(func(node *Node, _ mgl32.Mat4) {
		total += len(node.Meshes)
	})
	return total
}

// HasWater indica se algum nó da árvore é o volume de água.
func (n *Node) HasWater() bool {
	found := false
	n.Walk(func(node *Node, _ mgl32.Mat4) {
		found = found || node.IsWater
	})
	return found
}

// Bounds retorna a caixa envolvente em espaço do nó raiz.
func (n *Node) Bounds() (min, max mgl32.Vec3, ok bool) {
	inf := float32(math.Inf(1))
	min = mgl32.Vec3{inf, inf, inf}
	max = mgl32.Vec3{-inf, -inf, -inf}
	n.Walk(func(node *Node, world mgl32.Mat4) {
		for _, m := range node.Meshes {
			for i := 0; i < m.Geometry.VertexCount(); i++ {
				p := mgl32.TransformCoordinate(m.Geometry.Position(i), world)
				for a := 0; a < 3; a++ {
					if p[a] < min[a] {
						min[a] = p[a]
					}
					if p[a] > max[a] {
						max[a] = p[a]
					}
				}
				ok = true
			}
		}
	})
	return min, max, ok
}

// Clone realiza uma cópia profunda da árvore. Materiais são compartilhados.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Name:        n.Name,
		Transform:   n.Transform,
		IsWater:     n.IsWater,
		Placeholder: n.Placeholder,
	}
	if len(n.Meshes) > 0 {
		c.Meshes = make([]Mesh, len(n.Meshes))
		for i, m := range n.Meshes {
			c.Meshes[i] = Mesh{Key: m.Key, Geometry: m.Geometry.Clone(), Material: m.Material}
		}
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}
