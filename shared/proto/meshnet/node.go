package meshnet

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"BlockVision/internal/materials"
	"BlockVision/internal/meshing"
	"BlockVision/shared/pkg/protowire"
	"BlockVision/shared/util"
)

// EncodeNode serializa uma árvore de nós. Também é o formato do cache em SQLite.
func EncodeNode(n *meshing.Node) []byte {
	e := protowire.NewEncoder()
	e.EncodeString(1, n.Name)
	if n.Transform != mgl32.Ident4() {
		e.EncodePackedFloat32(2, n.Transform[:])
	}
	for _, m := range n.Meshes {
		e.EncodeSubmessage(3, encodeMesh(m))
	}
	for _, c := range n.Children {
		e.EncodeSubmessage(4, EncodeNode(c))
	}
	e.EncodeBool(5, n.IsWater)
	e.EncodeBool(6, n.Placeholder)
	return e.Bytes()
}

// DecodeNode lê uma árvore gravada por EncodeNode.
func DecodeNode(data []byte) (*meshing.Node, error) {
	n := meshing.NewNode("")
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch fieldNum {
		case 1:
			if n.Name, err = d.ReadString(); err != nil {
				return nil, err
			}
		case 2:
			v, err := d.ReadPackedFloat32()
			if err != nil {
				return nil, err
			}
			if len(v) != 16 {
				return nil, fmt.Errorf("meshnet: matriz com %d valores", len(v))
			}
			copy(n.Transform[:], v)
		case 3:
			sub, err := d.ReadBytes()
			if err != nil {
				return nil, err
			}
			m, err := decodeMesh(sub)
			if err != nil {
				return nil, err
			}
			n.Meshes = append(n.Meshes, m)
		case 4:
			sub, err := d.ReadBytes()
			if err != nil {
				return nil, err
			}
			c, err := DecodeNode(sub)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		case 5:
			if n.IsWater, err = d.ReadBool(); err != nil {
				return nil, err
			}
		case 6:
			if n.Placeholder, err = d.ReadBool(); err != nil {
				return nil, err
			}
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

func encodeMesh(m meshing.Mesh) []byte {
	e := protowire.NewEncoder()
	e.EncodeSubmessage(1, encodeKey(m.Key))
	e.EncodePackedFloat32(2, m.Geometry.Vertices)
	e.EncodePackedFloat32(3, m.Geometry.Normals)
	e.EncodePackedFloat32(4, m.Geometry.UVs)
	e.EncodePackedUvarint(5, m.Geometry.Indices)
	if m.Material != nil {
		e.EncodeSubmessage(6, encodeMaterial(m.Material))
	}
	return e.Bytes()
}

func decodeMesh(data []byte) (meshing.Mesh, error) {
	var m meshing.Mesh
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return m, err
		}
		switch fieldNum {
		case 1:
			sub, err := d.ReadBytes()
			if err != nil {
				return m, err
			}
			if m.Key, err = decodeKey(sub); err != nil {
				return m, err
			}
		case 2:
			if m.Geometry.Vertices, err = d.ReadPackedFloat32(); err != nil {
				return m, err
			}
		case 3:
			if m.Geometry.Normals, err = d.ReadPackedFloat32(); err != nil {
				return m, err
			}
		case 4:
			if m.Geometry.UVs, err = d.ReadPackedFloat32(); err != nil {
				return m, err
			}
		case 5:
			if m.Geometry.Indices, err = d.ReadPackedUvarint(); err != nil {
				return m, err
			}
		case 6:
			sub, err := d.ReadBytes()
			if err != nil {
				return m, err
			}
			if m.Material, err = decodeMaterial(sub); err != nil {
				return m, err
			}
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return m, err
			}
		}
	}
	if err := m.Geometry.Validate(); err != nil {
		return m, err
	}
	return m, nil
}

func encodeKey(k materials.Key) []byte {
	e := protowire.NewEncoder()
	e.EncodeString(1, k.Texture)
	e.EncodeVarint(2, int64(k.Direction))
	e.EncodeVarint(3, int64(k.TintIndex))
	e.EncodeVarint(4, int64(k.CullFace))
	e.EncodeString(5, k.Block)
	e.EncodeString(6, k.Props)
	e.EncodeString(7, k.Biome)
	return e.Bytes()
}

func decodeKey(data []byte) (materials.Key, error) {
	var k materials.Key
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return k, err
		}
		switch fieldNum {
		case 1:
			if k.Texture, err = d.ReadString(); err != nil {
				return k, err
			}
		case 2, 3, 4:
			v, err := d.ReadVarint()
			if err != nil {
				return k, err
			}
			switch fieldNum {
			case 2:
				k.Direction = util.Direction(v)
			case 3:
				k.TintIndex = int(v)
			case 4:
				k.CullFace = util.Direction(v)
			}
		case 5:
			if k.Block, err = d.ReadString(); err != nil {
				return k, err
			}
		case 6:
			if k.Props, err = d.ReadString(); err != nil {
				return k, err
			}
		case 7:
			if k.Biome, err = d.ReadString(); err != nil {
				return k, err
			}
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return k, err
			}
		}
	}
	return k, nil
}

func packRGBA(c color.RGBA) int64 {
	return int64(c.R)<<24 | int64(c.G)<<16 | int64(c.B)<<8 | int64(c.A)
}

func unpackRGBA(v int64) color.RGBA {
	return color.RGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

func encodeMaterial(m *materials.Material) []byte {
	e := protowire.NewEncoder()
	e.EncodeString(1, m.Texture)
	e.EncodeVarint(2, packRGBA(m.Tint))
	e.EncodeBool(3, m.Transparent)
	e.EncodeBool(4, m.DepthWrite)
	e.EncodeVarint(5, int64(m.RenderOrder))
	e.EncodeBool(6, m.Wireframe)
	e.EncodeBool(7, m.UseAtlas)
	e.EncodeBool(8, m.Liquid)
	return e.Bytes()
}

func decodeMaterial(data []byte) (*materials.Material, error) {
	m := &materials.Material{}
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch fieldNum {
		case 1:
			if m.Texture, err = d.ReadString(); err != nil {
				return nil, err
			}
		case 2:
			v, err := d.ReadVarint()
			if err != nil {
				return nil, err
			}
			m.Tint = unpackRGBA(v)
		case 5:
			v, err := d.ReadVarint()
			if err != nil {
				return nil, err
			}
			m.RenderOrder = int(v)
		case 3, 4, 6, 7, 8:
			b, err := d.ReadBool()
			if err != nil {
				return nil, err
			}
			switch fieldNum {
			case 3:
				m.Transparent = b
			case 4:
				m.DepthWrite = b
			case 6:
				m.Wireframe = b
			case 7:
				m.UseAtlas = b
			case 8:
				m.Liquid = b
			}
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
