package blockstate

import (
	"context"
	"fmt"
	"log"
	"sync"

	"BlockVision/internal/pack"
	"BlockVision/shared/util"

	"golang.org/x/sync/singleflight"
)

// PackLoader lê definições de "blockstates/<nome>.json" e as mantém em cache.
// Definições ausentes ou mal formadas também ficam em cache (como nil).
type PackLoader struct {
	src pack.Accessor

	mu    sync.RWMutex
	cache map[string]*Definition
	group singleflight.Group
}

// NewPackLoader cria um loader sobre o acessor de recursos.
func NewPackLoader(src pack.Accessor) *PackLoader {
	return &PackLoader{src: src, cache: make(map[string]*Definition)}
}

// LoadDefinition implementa DefinitionLoader. Leituras concorrentes do mesmo nome
// são unificadas em uma única leitura.
func (l *PackLoader) LoadDefinition(ctx context.Context, name string) (*Definition, error) {
	name = util.StripNamespace(name)

	l.mu.RLock()
	def, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return def, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := l.group.Do(name, func() (interface{}, error) {
		def := l.read(name)
		l.mu.Lock()
		l.cache[name] = def
		l.mu.Unlock()
		return def, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Definition), nil
}

func (l *PackLoader) read(name string) *Definition {
	path := fmt.Sprintf("blockstates/%s.json", name)
	data, ok := l.src.GetBytes(path)
	if !ok {
		log.Printf("[Blockstate] Definição não encontrada: %s", path)
		return nil
	}
	def, err := ParseDefinition(data)
	if err != nil {
		log.Printf("[Blockstate] JSON inválido em %s: %v", path, err)
		return nil
	}
	return def
}

// InvalidateCache descarta todas as definições em cache.
func (l *PackLoader) InvalidateCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*Definition)
}
