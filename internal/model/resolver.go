package model

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"BlockVision/internal/pack"
	"BlockVision/shared/util"

	"golang.org/x/sync/singleflight"
)

// ErrCycle indica uma cadeia de parents que volta a um modelo já visitado.
var ErrCycle = errors.New("model: ciclo na cadeia de parents")

// Options controla os limites da resolução.
type Options struct {
	MaxParentDepth  int // Saltos de parent (padrão 5)
	MaxTextureDepth int // Saltos de "#chave" (padrão 5)
}

func (o Options) withDefaults() Options {
	if o.MaxParentDepth <= 0 {
		o.MaxParentDepth = 5
	}
	if o.MaxTextureDepth <= 0 {
		o.MaxTextureDepth = 5
	}
	return o
}

// Resolver carrega modelos e achata a herança. Resultados ficam em cache por caminho
// e devem ser tratados como somente leitura.
type Resolver struct {
	src  pack.Accessor
	opts Options

	mu    sync.RWMutex
	cache map[string]*Model
	group singleflight.Group
}

// NewResolver cria um resolvedor sobre o acessor de recursos.
func NewResolver(src pack.Accessor, opts Options) *Resolver {
	return &Resolver{src: src, opts: opts.withDefaults(), cache: make(map[string]*Model)}
}

// NormalizePath remove o namespace e assume "block/" quando não há diretório.
func NormalizePath(path string) string {
	path = util.StripNamespace(strings.TrimSpace(path))
	if !strings.Contains(path, "/") {
		path = "block/" + path
	}
	return path
}

// Resolve retorna o modelo achatado. Nunca falha: modelos ausentes ou inválidos
// viram um modelo sem elementos (o mesher desenha o placeholder).
func (r *Resolver) Resolve(ctx context.Context, path string) *Model {
	path = NormalizePath(path)

	r.mu.RLock()
	m, ok := r.cache[path]
	r.mu.RUnlock()
	if ok {
		return m
	}
	if ctx.Err() != nil {
		return &Model{Textures: map[string]string{}}
	}

	v, _, _ := r.group.Do(path, func() (interface{}, error) {
		m := r.resolve(path)
		r.mu.Lock()
		r.cache[path] = m
		r.mu.Unlock()
		return m, nil
	})
	return v.(*Model)
}

// InvalidateCache descarta todos os modelos resolvidos.
func (r *Resolver) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*Model)
}

func (r *Resolver) resolve(path string) *Model {
	var m *Model
	if kind, level, specific := liquidPath(path); kind != util.LiquidNone {
		m = r.resolveLiquid(path, kind, level, specific)
	} else {
		var err error
		m, err = r.resolveInherited(path)
		if err != nil {
			log.Printf("[Model] %v", err)
		}
	}
	if m.Textures == nil {
		m.Textures = make(map[string]string)
	}
	m.Parent = ""
	resolveFaceTextures(m, r.opts.MaxTextureDepth)
	return m
}

// load lê e decodifica models/<path>.json. JSON inválido é tratado como ausente.
func (r *Resolver) load(path string) (*Model, bool) {
	data, ok := r.src.GetBytes("models/" + path + ".json")
	if !ok {
		return nil, false
	}
	m, err := Parse(data)
	if err != nil {
		log.Printf("[Model] JSON inválido em models/%s.json: %v", path, err)
		return nil, false
	}
	return m, true
}

func (r *Resolver) resolveLiquid(path string, kind util.LiquidKind, level int, specific bool) *Model {
	m := SyntheticLiquid(kind, level)
	file, ok := r.load(path)
	if !ok {
		return m
	}
	for k, v := range file.Textures {
		m.Textures[k] = v
	}
	if !specific && file.HasElements() {
		m.Elements = file.Elements
	}
	return m
}

// resolveInherited sobe a cadeia de parents mesclando texturas (filho vence)
// e herdando elementos do ancestral mais próximo que os declara.
// Em caso de erro retorna o que foi resolvido até o ponto da falha.
func (r *Resolver) resolveInherited(path string) (*Model, error) {
	m, ok := r.load(path)
	if !ok {
		return &Model{}, fmt.Errorf("modelo não encontrado: %s", path)
	}
	if m.Textures == nil {
		m.Textures = make(map[string]string)
	}

	visited := map[string]bool{path: true}
	parent := m.Parent
	for depth := 0; parent != ""; depth++ {
		if depth >= r.opts.MaxParentDepth {
			return m, fmt.Errorf("cadeia de parents de %s excede %d saltos, truncada em %s", path, r.opts.MaxParentDepth, parent)
		}
		parentPath := NormalizePath(parent)
		if strings.HasPrefix(parentPath, "builtin/") {
			break
		}
		if visited[parentPath] {
			return m, fmt.Errorf("%w: %s -> %s", ErrCycle, path, parentPath)
		}
		visited[parentPath] = true

		p, ok := r.load(parentPath)
		if !ok {
			return m, fmt.Errorf("parent %s de %s não encontrado", parentPath, path)
		}
		for k, v := range p.Textures {
			if _, exists := m.Textures[k]; !exists {
				m.Textures[k] = v
			}
		}
		if !m.HasElements() && p.HasElements() {
			m.Elements = p.Elements
			m.hasElements = true
		}
		if m.AmbientOcclusion == nil {
			m.AmbientOcclusion = p.AmbientOcclusion
		}
		parent = p.Parent
	}
	return m, nil
}
