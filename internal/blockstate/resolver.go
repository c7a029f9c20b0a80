package blockstate

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"BlockVision/shared/util"
)

// Variant é a saída do resolvedor: um modelo com a rotação do blockstate.
// A geometria ainda não foi resolvida.
type Variant struct {
	Model  string
	X, Y   float64
	UVLock bool
}

// DefinitionLoader busca a definição de blockstate pelo nome do bloco (sem namespace).
// Retorna nil quando a definição não existe.
type DefinitionLoader interface {
	LoadDefinition(ctx context.Context, name string) (*Definition, error)
}

// Resolver transforma um bloco + propriedades na lista ordenada de modelos.
type Resolver struct {
	loader DefinitionLoader

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configura o Resolver.
type Option func(*Resolver)

// WithRandom ativa a escolha ponderada em listas de variantes usando o gerador dado.
// Sem ele, o primeiro item da lista é sempre escolhido (determinístico, cacheável).
func WithRandom(rng *rand.Rand) Option {
	return func(r *Resolver) { r.rng = rng }
}

// NewResolver cria um resolvedor sobre o loader de definições.
func NewResolver(loader DefinitionLoader, opts ...Option) *Resolver {
	r := &Resolver{loader: loader}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve retorna os modelos do bloco: um por variante casada, ou um por regra multipart
// que casar, na ordem de declaração. Definição ausente ou vazia resulta em lista vazia.
func (r *Resolver) Resolve(ctx context.Context, b Block) []Variant {
	if liquid := b.Liquid(); liquid != util.LiquidNone {
		return []Variant{LiquidVariant(liquid, b.Level())}
	}

	def, err := r.loader.LoadDefinition(ctx, b.Name)
	if err != nil || def.Empty() {
		if err != nil {
			log.Printf("[Blockstate] Definição indisponível para %s: %v", b.ID(), err)
		}
		return nil
	}

	var out []Variant
	if len(def.Variants) > 0 {
		if refs, ok := r.matchVariant(def, b); ok {
			if ref, ok := r.pick(refs); ok {
				out = append(out, toVariant(ref))
			}
		}
	}
	for i := range def.Multipart {
		rule := &def.Multipart[i]
		if rule.When != nil && !rule.When.Matches(b) {
			continue
		}
		if ref, ok := r.pick(rule.Apply); ok {
			out = append(out, toVariant(ref))
		}
	}
	return out
}

// LiquidVariant monta a variante sintética de água/lava a partir do nível.
func LiquidVariant(kind util.LiquidKind, level int) Variant {
	path := "block/" + kind.String()
	if level > 0 {
		path += "_level_" + strconv.Itoa(level)
	}
	return Variant{Model: path}
}

func toVariant(ref ModelRef) Variant {
	return Variant{Model: ref.Model, X: ref.X, Y: ref.Y, UVLock: ref.UVLock}
}

// VariantKey monta a chave de variante do bloco restrita às propriedades relevantes.
func VariantKey(def *Definition, b Block) string {
	relevant := make(map[string]bool)
	for _, key := range def.VariantOrder {
		for name := range decodeKey(key) {
			relevant[name] = true
		}
	}
	return joinSorted(b.Properties, relevant)
}

// matchVariant aplica a sequência de fallbacks sobre as chaves de variante.
func (r *Resolver) matchVariant(def *Definition, b Block) (ModelRefList, bool) {
	// 1-2. Casamento exato com a chave normalizada
	key := VariantKey(def, b)
	if refs, ok := def.Variants[key]; ok {
		return refs, true
	}

	// 3. Chave vazia (coringa)
	if refs, ok := def.Variants[""]; ok {
		return refs, true
	}

	// 4. Melhor casamento parcial sem conflitos; empate fica com o primeiro
	bestKey, bestScore := "", -1
	for _, candidate := range def.VariantOrder {
		score, conflict := 0, false
		for name, value := range decodeKey(candidate) {
			actual, ok := b.Get(name)
			if !ok {
				continue
			}
			if actual != value {
				conflict = true
				break
			}
			score++
		}
		if !conflict && score > bestScore {
			bestKey, bestScore = candidate, score
		}
	}
	if bestScore >= 0 {
		return def.Variants[bestKey], true
	}

	// 5. Propriedade única do próprio bloco
	for _, p := range b.Properties {
		if refs, ok := def.Variants[p.Name+"="+p.Value]; ok {
			return refs, true
		}
	}

	// 6. Primeira variante definida
	if len(def.VariantOrder) > 0 {
		return def.Variants[def.VariantOrder[0]], true
	}
	return nil, false
}

// decodeKey separa "a=1,b=2" em mapa. Segmentos sem "=" são ignorados.
func decodeKey(key string) map[string]string {
	out := make(map[string]string)
	if key == "" {
		return out
	}
	for _, part := range strings.Split(key, ",") {
		if k, v, ok := strings.Cut(part, "="); ok {
			out[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return out
}

// pick escolhe o modelo de uma lista ponderada.
func (r *Resolver) pick(refs ModelRefList) (ModelRef, bool) {
	if len(refs) == 0 {
		return ModelRef{}, false
	}
	if r.rng == nil || len(refs) == 1 {
		return refs[0], true
	}

	total := 0
	for _, ref := range refs {
		total += weightOf(ref)
	}
	r.rngMu.Lock()
	n := r.rng.Intn(total)
	r.rngMu.Unlock()
	for _, ref := range refs {
		n -= weightOf(ref)
		if n < 0 {
			return ref, true
		}
	}
	return refs[len(refs)-1], true
}

func weightOf(ref ModelRef) int {
	if ref.Weight <= 0 {
		return 1
	}
	return ref.Weight
}
