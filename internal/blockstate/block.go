package blockstate

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"BlockVision/shared/util"
)

// ErrInvalidBlock indica uma string de bloco mal formada.
var ErrInvalidBlock = errors.New("blockstate: bloco inválido")

// DefaultNamespace é usado quando a string do bloco não traz "ns:".
const DefaultNamespace = "minecraft"

// Property é um par nome=valor de um bloco.
type Property struct {
	Name  string
	Value string
}

// Block identifica um bloco com suas propriedades, na ordem em que foram informadas.
// Imutável depois de criado.
type Block struct {
	Namespace  string
	Name       string
	Properties []Property

	liquid util.LiquidKind
}

// NewBlock cria um bloco a partir de um mapa de propriedades (ordenadas por nome).
func NewBlock(namespace, name string, props map[string]string) Block {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	b := Block{Namespace: namespace, Name: name, liquid: util.ClassifyLiquid(name)}
	for k, v := range props {
		b.Properties = append(b.Properties, Property{Name: k, Value: v})
	}
	sort.Slice(b.Properties, func(i, j int) bool { return b.Properties[i].Name < b.Properties[j].Name })
	return b
}

// ParseBlock interpreta "ns:name[prop=val,...]".
// Propriedades repetidas mantêm a posição da primeira ocorrência e o valor da última.
func ParseBlock(s string) (Block, error) {
	s = strings.TrimSpace(s)
	id, propPart := s, ""
	if i := strings.IndexByte(s, '['); i >= 0 {
		if !strings.HasSuffix(s, "]") {
			return Block{}, fmt.Errorf("%w: %q sem ']'", ErrInvalidBlock, s)
		}
		id, propPart = s[:i], s[i+1:len(s)-1]
	}

	ns, name := DefaultNamespace, id
	if i := strings.IndexByte(id, ':'); i >= 0 {
		ns, name = id[:i], id[i+1:]
	}
	ns, name = strings.TrimSpace(ns), strings.TrimSpace(name)
	if name == "" || ns == "" {
		return Block{}, fmt.Errorf("%w: %q", ErrInvalidBlock, s)
	}

	b := Block{Namespace: ns, Name: name, liquid: util.ClassifyLiquid(name)}
	if strings.TrimSpace(propPart) == "" {
		return b, nil
	}

	index := make(map[string]int)
	for _, pair := range strings.Split(propPart, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" {
			return Block{}, fmt.Errorf("%w: propriedade %q em %q", ErrInvalidBlock, pair, s)
		}
		if i, seen := index[k]; seen {
			b.Properties[i].Value = v
			continue
		}
		index[k] = len(b.Properties)
		b.Properties = append(b.Properties, Property{Name: k, Value: v})
	}
	return b, nil
}

// ID retorna "ns:name".
func (b Block) ID() string {
	return b.Namespace + ":" + b.Name
}

// Get retorna o valor de uma propriedade.
func (b Block) Get(name string) (string, bool) {
	for _, p := range b.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// PropsString serializa as propriedades ordenadas por nome ("a=1,b=2").
func (b Block) PropsString() string {
	return joinSorted(b.Properties, nil)
}

// String retorna a forma canônica "ns:name[props ordenadas]".
func (b Block) String() string {
	if len(b.Properties) == 0 {
		return b.ID()
	}
	return b.ID() + "[" + b.PropsString() + "]"
}

// Equal compara identidade ignorando a ordem das propriedades.
func (b Block) Equal(o Block) bool {
	return b.ID() == o.ID() && b.PropsString() == o.PropsString()
}

// Liquid retorna a classificação de líquido, feita na criação do bloco.
func (b Block) Liquid() util.LiquidKind {
	return b.liquid
}

// Waterlogged indica se o bloco tem volume de água secundário.
func (b Block) Waterlogged() bool {
	v, _ := b.Get("waterlogged")
	return v == "true"
}

// Level retorna a propriedade "level" (0 se ausente ou inválida).
func (b Block) Level() int {
	v, ok := b.Get("level")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// joinSorted monta "k=v" ordenado por nome. Se filter não for nil,
// apenas propriedades presentes nele entram.
func joinSorted(props []Property, filter map[string]bool) string {
	parts := make([]string, 0, len(props))
	for _, p := range props {
		if filter != nil && !filter[p.Name] {
			continue
		}
		parts = append(parts, p.Name+"="+p.Value)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
