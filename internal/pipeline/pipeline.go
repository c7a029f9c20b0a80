// Package pipeline liga as etapas: pack -> blockstate -> modelo -> malha,
// com atlas, caches e invalidação na troca de packs.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"BlockVision/internal/atlas"
	"BlockVision/internal/blockstate"
	"BlockVision/internal/materials"
	"BlockVision/internal/meshing"
	"BlockVision/internal/model"
	"BlockVision/internal/pack"
	"BlockVision/internal/store"
	"BlockVision/shared/config"
	"BlockVision/shared/util"
)

// Option configura o Pipeline.
type Option func(*Pipeline)

// WithStore ativa o cache persistente (segundo nível).
func WithStore(s *store.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithRandom ativa a escolha ponderada de variantes.
func WithRandom(rng *rand.Rand) Option {
	return func(p *Pipeline) { p.rng = rng }
}

// Pipeline é a fachada usada pelos binários.
type Pipeline struct {
	cfg *config.Config

	mu     sync.RWMutex
	gen    uint64 // Incrementado a cada invalidação (packs ou atlas)
	stack  *pack.Stack
	loader *blockstate.PackLoader
	states *blockstate.Resolver
	models *model.Resolver
	atlas  *atlas.Atlas

	mats    *materials.Store
	builder *meshing.Builder
	results *meshing.ResultStore
	store   *store.Store
	rng     *rand.Rand

	meshGroup  singleflight.Group
	atlasGroup singleflight.Group

	hooksMu sync.Mutex
	hooks   []func()
}

// binding é a visão consistente do pipeline em uma geração.
type binding struct {
	gen    uint64
	stack  *pack.Stack
	states *blockstate.Resolver
	models *model.Resolver
	atlas  *atlas.Atlas
}

// New cria o pipeline sobre o conjunto de packs.
func New(cfg *config.Config, stack *pack.Stack, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	p := &Pipeline{
		cfg:     cfg,
		mats:    materials.NewStore(),
		results: meshing.NewResultStore(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.builder = meshing.NewBuilder(p.mats, cfg.AnimatedTextures, cfg.UseAtlas)
	p.builder.LiquidModel = func(kind util.LiquidKind) *model.Model {
		return p.current().models.Resolve(context.Background(), blockstate.LiquidVariant(kind, 0).Model)
	}
	p.bind(stack)
	return p
}

// bind cria os resolvedores para o stack. Chamado com mu travado (ou na construção).
func (p *Pipeline) bind(stack *pack.Stack) {
	var stateOpts []blockstate.Option
	if p.rng != nil {
		stateOpts = append(stateOpts, blockstate.WithRandom(p.rng))
	}
	p.stack = stack
	p.loader = blockstate.NewPackLoader(stack)
	p.states = blockstate.NewResolver(p.loader, stateOpts...)
	p.models = model.NewResolver(stack, model.Options{
		MaxParentDepth:  p.cfg.MaxParentDepth,
		MaxTextureDepth: p.cfg.MaxTextureDepth,
	})
}

func (p *Pipeline) current() binding {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return binding{gen: p.gen, stack: p.stack, states: p.states, models: p.models, atlas: p.atlas}
}

// Stack retorna o conjunto de packs ativo.
func (p *Pipeline) Stack() *pack.Stack {
	return p.current().stack
}

// Config retorna a configuração usada.
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// OnInvalidate registra uma função chamada sempre que os packs mudam.
func (p *Pipeline) OnInvalidate(fn func()) {
	p.hooksMu.Lock()
	defer p.hooksMu.Unlock()
	p.hooks = append(p.hooks, fn)
}

// SetPacks troca o conjunto de packs e invalida todos os caches.
// O conjunto anterior é fechado.
func (p *Pipeline) SetPacks(stack *pack.Stack) {
	p.mu.Lock()
	oldStack, oldLoader, oldModels := p.stack, p.loader, p.models
	p.bind(stack)
	p.atlas = nil
	p.builder.SetAtlas(nil)
	p.gen++
	p.results.Clear()
	p.mu.Unlock()

	oldLoader.InvalidateCache()
	oldModels.InvalidateCache()
	p.mats.Clear()
	if p.store != nil {
		if _, err := p.store.Purge(stack.Fingerprint()); err != nil {
			log.Printf("[Pipeline] Falha ao limpar cache persistente: %v", err)
		}
	}
	if oldStack != nil && oldStack != stack {
		if err := oldStack.Close(); err != nil {
			log.Printf("[Pipeline] Falha ao fechar packs antigos: %v", err)
		}
	}

	p.hooksMu.Lock()
	hooks := append([]func(){}, p.hooks...)
	p.hooksMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	log.Printf("[Pipeline] Packs trocados (%d fontes), caches invalidados", len(stack.Sources()))
}

// PartRotation é a rotação do blockstate aplicada à parte inteira: X primeiro, depois Y.
func PartRotation(x, y float64) mgl32.Mat4 {
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(float32(-y)))
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(float32(-x)))
	return ry.Mul4(rx)
}

func cacheKey(gen uint64, k meshing.ResultKey) string {
	return fmt.Sprintf("%d|%s|%s", gen, k.Block, k.Biome)
}

// GetBlockMesh retorna a malha do bloco no bioma. Chamadas simultâneas para a
// mesma chave compartilham um único build. O resultado pode ser alterado por quem chama.
// Cancelar ctx só interrompe a espera de quem chamou; o build compartilhado continua.
func (p *Pipeline) GetBlockMesh(ctx context.Context, blockString, biome string) (*meshing.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if biome == "" {
		biome = p.cfg.DefaultBiome
	}
	key := meshing.ResultKey{Block: blockString, Biome: biome}
	if n, ok := p.results.Get(key); ok {
		return n, nil
	}

	b := p.current()
	buildCtx := context.WithoutCancel(ctx)
	ch := p.meshGroup.DoChan(cacheKey(b.gen, key), func() (interface{}, error) {
		if n, ok := p.results.Get(key); ok {
			return n, nil
		}
		fp := meshFingerprint(b)
		if n := p.loadPersisted(fp, key); n != nil {
			p.commit(b.gen, key, n)
			return n, nil
		}
		n, err := p.build(buildCtx, b, blockString, biome)
		if err != nil {
			return nil, err
		}
		if p.commit(b.gen, key, n) {
			p.persist(fp, key, n)
		}
		return n, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*meshing.Node).Clone(), nil
	}
}

// commit guarda a malha no cache em memória se nenhuma invalidação aconteceu
// desde o início do build. Retorna false quando a malha já está obsoleta.
func (p *Pipeline) commit(gen uint64, key meshing.ResultKey, n *meshing.Node) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.gen != gen {
		log.Printf("[Pipeline] Malha de %s descartada: caches invalidados durante o build", key.Block)
		return false
	}
	p.results.Store(key, n)
	return true
}

// meshFingerprint separa no cache persistente as malhas geradas com UVs do atlas.
func meshFingerprint(b binding) string {
	fp := b.stack.Fingerprint()
	if b.atlas != nil {
		fp += fmt.Sprintf("+atlas%d", b.atlas.Layout.Size)
	}
	return fp
}

func (p *Pipeline) loadPersisted(fp string, key meshing.ResultKey) *meshing.Node {
	if p.store == nil {
		return nil
	}
	n, err := p.store.LoadMesh(fp, key.Block, key.Biome)
	if err != nil {
		if !store.IsNotFound(err) {
			log.Printf("[Pipeline] Cache persistente ilegível para %s: %v", key.Block, err)
		}
		return nil
	}
	return n
}

func (p *Pipeline) persist(fp string, key meshing.ResultKey, n *meshing.Node) {
	if p.store == nil {
		return
	}
	p.store.SaveMesh(fp, key.Block, key.Biome, n)
}

// build resolve e gera a malha sem passar pelos caches de malha.
func (p *Pipeline) build(ctx context.Context, bind binding, blockString, biome string) (*meshing.Node, error) {
	b, err := blockstate.ParseBlock(blockString)
	if err != nil {
		log.Printf("[Pipeline] Bloco inválido %q: %v", blockString, err)
		return meshing.Placeholder(blockString), nil
	}

	variants := bind.states.Resolve(ctx, b)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		log.Printf("[Pipeline] Nenhum modelo para %s, usando placeholder", b)
		return meshing.Placeholder(b.String()), nil
	}

	bctx := meshing.BlockContext{
		Block:  b.ID(),
		Props:  b.PropsString(),
		Biome:  biome,
		Liquid: b.Liquid(),
	}

	parts := make([]*meshing.Node, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		g.Go(func() error {
			m := bind.models.Resolve(gctx, v.Model)
			part := p.builder.BuildModel(m, bctx, meshing.Options{UVLock: v.UVLock, X: v.X, Y: v.Y})
			part.Name = model.NormalizePath(v.Model)
			part.Transform = PartRotation(v.X, v.Y)
			parts[i] = part
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	root := meshing.NewNode(b.String())
	for _, part := range parts {
		root.AddChild(part)
	}
	if b.Waterlogged() && b.Liquid() == util.LiquidNone {
		root = p.builder.Waterlog(root, bctx)
	}
	return root, nil
}

// Atlas retorna o atlas atual (nil antes de BuildAtlas).
func (p *Pipeline) Atlas() *atlas.Atlas {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.atlas
}

// BuildAtlas empacota as texturas de bloco do conjunto de packs e publica o atlas
// para o gerador de malhas. Malhas já prontas são descartadas, pois os UVs mudam.
// Com cache persistente, um layout salvo para o mesmo conjunto e tamanho é reaproveitado.
func (p *Pipeline) BuildAtlas(ctx context.Context) (*atlas.Atlas, error) {
	v, err, _ := p.atlasGroup.Do("atlas", func() (interface{}, error) {
		stack := p.Stack()
		fp := stack.Fingerprint()
		paths := atlas.CollectBlockTextures(stack)
		textures, err := atlas.LoadTextures(ctx, stack, paths, p.cfg.DecodeConcurrency)
		if err != nil {
			return nil, err
		}

		var a *atlas.Atlas
		if layout := p.cachedLayout(fp, textures); layout != nil {
			log.Printf("[Pipeline] Layout do atlas lido do cache persistente")
			a = atlas.AssembleLayout(textures, layout)
		} else {
			a = atlas.Assemble(textures, p.cfg.AtlasSize)
			if p.store != nil {
				if err := p.store.SaveAtlasLayout(fp, a.Layout); err != nil {
					log.Printf("[Pipeline] Falha ao salvar layout do atlas: %v", err)
				}
			}
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.stack != stack {
			// Packs trocados durante a montagem
			return a, nil
		}
		p.atlas = a
		p.builder.SetAtlas(a)
		p.gen++
		p.results.Clear()
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*atlas.Atlas), nil
}

// cachedLayout retorna o layout salvo se ele ainda descreve as texturas carregadas.
func (p *Pipeline) cachedLayout(fp string, textures []atlas.Texture) *atlas.Layout {
	if p.store == nil {
		return nil
	}
	layout, err := p.store.LoadAtlasLayout(fp, p.cfg.AtlasSize)
	if err != nil {
		if !store.IsNotFound(err) {
			log.Printf("[Pipeline] Layout do atlas ilegível no cache: %v", err)
		}
		return nil
	}
	if !layout.Fits(textures) {
		return nil
	}
	return layout
}

// Stats resume o estado dos caches.
type Stats struct {
	Meshes    int
	Materials int
	HasAtlas  bool
}

// Stats retorna contadores dos caches.
func (p *Pipeline) Stats() Stats {
	return Stats{Meshes: p.results.Len(), Materials: p.mats.Len(), HasAtlas: p.Atlas() != nil}
}
