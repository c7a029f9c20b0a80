// Package meshing transforma modelos resolvidos em geometria indexada,
// agrupada por material, pronta para ser enviada à GPU.
package meshing

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"BlockVision/internal/atlas"
	"BlockVision/internal/materials"
	"BlockVision/internal/model"
	"BlockVision/shared/util"
)

// BlockContext traz do bloco o que o gerador precisa para tint, líquidos e waterlogging.
type BlockContext struct {
	Block       string // ns:nome
	Props       string // Propriedades ordenadas
	Biome       string
	Liquid      util.LiquidKind
	Waterlogged bool
}

// Options vêm da variante do blockstate. X e Y só entram na conta de UV;
// a rotação geométrica da parte é aplicada por quem chama.
type Options struct {
	UVLock bool
	X, Y   float64
}

// Builder gera nós de cena a partir de modelos resolvidos.
type Builder struct {
	Materials materials.Factory
	Animated  map[string]bool // Texturas nunca remapeadas para o atlas
	UseAtlas  bool

	// LiquidModel fornece o modelo do volume de água de blocos waterlogged.
	LiquidModel func(kind util.LiquidKind) *model.Model

	atlasMu sync.RWMutex
	atlas   atlas.UVProvider
}

// NewBuilder cria um gerador com a fábrica de materiais e a lista de texturas animadas.
func NewBuilder(factory materials.Factory, animated []string, useAtlas bool) *Builder {
	b := &Builder{
		Materials: factory,
		Animated:  make(map[string]bool, len(animated)),
		UseAtlas:  useAtlas,
	}
	for _, t := range animated {
		b.Animated[util.StripNamespace(t)] = true
	}
	return b
}

// SetAtlas publica (ou remove, com nil) o atlas usado no remapeamento de UV.
func (b *Builder) SetAtlas(a atlas.UVProvider) {
	b.atlasMu.Lock()
	defer b.atlasMu.Unlock()
	b.atlas = a
}

func (b *Builder) currentAtlas() atlas.UVProvider {
	b.atlasMu.RLock()
	defer b.atlasMu.RUnlock()
	return b.atlas
}

func (b *Builder) liquidModel(kind util.LiquidKind) *model.Model {
	if b.LiquidModel != nil {
		if m := b.LiquidModel(kind); m != nil {
			return m
		}
	}
	return model.SyntheticLiquid(kind, 0)
}

// BuildModel gera o nó de um modelo. Com ctx.Waterlogged o resultado é
// um composto com o volume de água como filho.
func (b *Builder) BuildModel(m *model.Model, ctx BlockContext, opts Options) *Node {
	name := ctx.Block
	if name == "" {
		name = "model"
	}
	node := b.buildGeometry(m, ctx, opts, name)
	if ctx.Waterlogged && ctx.Liquid == util.LiquidNone {
		return b.Waterlog(node, ctx)
	}
	return node
}

// Waterlog agrupa o nó base com um volume de água, desenhado depois dele.
func (b *Builder) Waterlog(base *Node, ctx BlockContext) *Node {
	root := NewNode(base.Name)
	root.AddChild(base)

	wctx := ctx
	wctx.Liquid = util.LiquidWater
	wctx.Waterlogged = false
	water := b.buildGeometry(b.liquidModel(util.LiquidWater), wctx, Options{}, base.Name+"#water")
	water.IsWater = true
	root.AddChild(water)
	return root
}

func (b *Builder) buildGeometry(m *model.Model, ctx BlockContext, opts Options, name string) *Node {
	if m == nil || len(m.Elements) == 0 {
		log.Printf("[Meshing] %s sem elementos, usando placeholder", name)
		return Placeholder(name)
	}

	gs := newGroupSet()
	for i := range m.Elements {
		if err := b.addElement(gs, &m.Elements[i], ctx, opts); err != nil {
			log.Printf("[Meshing] Elemento %d de %s ignorado: %v", i, name, err)
		}
	}

	node := NewNode(name)
	node.Meshes = gs.finish(b, ctx)
	if len(node.Meshes) == 0 {
		log.Printf("[Meshing] %s não gerou faces, usando placeholder", name)
		return Placeholder(name)
	}
	return node
}

var half = mgl32.Vec3{0.5, 0.5, 0.5}

func vec(a [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(a[0]), float32(a[1]), float32(a[2])}
}

// addElement gera as faces de um elemento. Pânicos viram erro para que um
// elemento ruim não derrube o modelo inteiro.
func (b *Builder) addElement(gs *groupSet, e *model.Element, ctx BlockContext, opts Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pânico: %v", r)
		}
	}()
	if err := e.Validate(); err != nil {
		return err
	}

	from, to := vec(e.From), vec(e.To)
	// Água parada fica abaixo do topo do bloco
	if ctx.Liquid == util.LiquidWater && to[1] == 16 {
		to[1] = 14
	}
	from = from.Mul(1.0 / 16).Sub(half)
	to = to.Mul(1.0 / 16).Sub(half)
	size := to.Sub(from)
	center := from.Add(to).Mul(0.5)

	var rot *elementRotation
	if e.Rotation != nil {
		rot = &elementRotation{
			origin:  vec(e.Rotation.Origin).Mul(1.0 / 16).Sub(half),
			axis:    e.Rotation.Axis,
			angle:   float32(e.Rotation.Angle),
			rescale: e.Rotation.Rescale,
		}
	}
	xf := elementTransform(center, rot)
	normalRot := rot.matrix()

	for _, dir := range util.AllDirections {
		face, ok := e.Faces[dir]
		if !ok {
			continue
		}
		p := placeFace(dir, size)
		corners := p.quad()
		for i := range corners {
			corners[i] = mgl32.TransformCoordinate(corners[i], xf)
		}
		n := mgl32.TransformNormal(p.normal(), normalRot).Normalize()

		rect := [4]float64{0, 0, 16, 16}
		if face.UV != nil {
			rect = *face.UV
		}
		uvs := faceUVs(rect, uvRotation(dir, face.Rotation, opts))

		texture := face.Texture
		if ctx.Liquid != util.LiquidNone {
			texture = ctx.Liquid.TextureFor(dir)
		}

		key := materials.Key{
			Texture:   texture,
			Direction: dir,
			TintIndex: face.TintIndex,
			CullFace:  face.CullFace,
			Block:     ctx.Block,
			Props:     ctx.Props,
			Biome:     ctx.Biome,
		}
		flags := materials.Flags{
			Tint:      face.Tinted(),
			IsLiquid:  ctx.Liquid != util.LiquidNone,
			Direction: dir,
		}
		gs.get(key, flags).AddQuad(corners, uvs, n)
	}
	return nil
}

// remapUVs leva UVs locais para a região da textura no atlas (V da região invertido).
func remapUVs(g *GeometryData, r atlas.UVRect) {
	base := 1 - r.V - r.Height
	for i := 0; i+1 < len(g.UVs); i += 2 {
		g.UVs[i] = r.U + g.UVs[i]*r.Width
		g.UVs[i+1] = base + g.UVs[i+1]*r.Height
	}
}

func (b *Builder) atlasRect(key materials.Key, liquid bool) (atlas.UVRect, bool) {
	if !b.UseAtlas || liquid || b.Animated[key.Texture] {
		return atlas.UVRect{}, false
	}
	a := b.currentAtlas()
	if a == nil {
		return atlas.UVRect{}, false
	}
	return a.GetUV(key.Texture)
}
