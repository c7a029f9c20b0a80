package meshing

import "BlockVision/internal/materials"

type group struct {
	key   materials.Key
	flags materials.Flags
	buf   *MeshBuffer
}

// groupSet junta faces pela chave de material, preservando a ordem de criação.
type groupSet struct {
	order  []string
	groups map[string]*group
}

func newGroupSet() *groupSet {
	return &groupSet{groups: make(map[string]*group)}
}

func (gs *groupSet) get(key materials.Key, flags materials.Flags) *MeshBuffer {
	id := key.String()
	if g, ok := gs.groups[id]; ok {
		return g.buf
	}
	g := &group{key: key, flags: flags, buf: GetMeshBuffer()}
	gs.groups[id] = g
	gs.order = append(gs.order, id)
	return g.buf
}

// finish copia cada grupo para uma Mesh, aplica o atlas e devolve os buffers ao pool.
func (gs *groupSet) finish(b *Builder, ctx BlockContext) []Mesh {
	meshes := make([]Mesh, 0, len(gs.order))
	for _, id := range gs.order {
		g := gs.groups[id]
		if g.buf.Empty() {
			PutMeshBuffer(g.buf)
			continue
		}
		geom := g.buf.Geometry.Clone()
		PutMeshBuffer(g.buf)

		if r, ok := b.atlasRect(g.key, g.flags.IsLiquid); ok {
			remapUVs(&geom, r)
			g.flags.UseAtlas = true
		}
		var mat *materials.Material
		if b.Materials != nil {
			mat = b.Materials.Material(g.key, g.flags)
		}
		meshes = append(meshes, Mesh{Key: g.key, Geometry: geom, Material: mat})
	}
	return meshes
}
