// Package atlas empacota texturas em uma única imagem e fornece os
// retângulos UV de cada uma.
package atlas

import (
	"errors"
	"log"
	"sort"
)

// ErrNoFit indica que uma textura não coube no atlas.
var ErrNoFit = errors.New("atlas: textura não cabe no atlas")

// Entry é um pedido de empacotamento.
type Entry struct {
	Path          string
	Width, Height int
}

func (e Entry) area() int      { return e.Width * e.Height }
func (e Entry) perimeter() int { return 2 * (e.Width + e.Height) }
func (e Entry) maxSide() int {
	if e.Width > e.Height {
		return e.Width
	}
	return e.Height
}

// PackedTexture é a posição de uma textura dentro do atlas, em pixels.
type PackedTexture struct {
	Path          string
	Width, Height int
	X, Y          int
}

// UVRect é uma região normalizada [0,1] do atlas.
type UVRect struct {
	U, V          float32
	Width, Height float32
}

// node é um nó da árvore guilhotina. Livre, aceita qualquer pedido que caiba;
// usado, tem "right" (resto da largura na mesma faixa) e "down" (largura toda, abaixo).
type node struct {
	x, y, w, h  int
	used        bool
	right, down *node
}

func (n *node) find(w, h int) *node {
	if n.used {
		if r := n.right.find(w, h); r != nil {
			return r
		}
		return n.down.find(w, h)
	}
	if w <= n.w && h <= n.h {
		return n
	}
	return nil
}

func (n *node) split(w, h int) {
	n.used = true
	n.down = &node{x: n.x, y: n.y + h, w: n.w, h: n.h - h}
	n.right = &node{x: n.x + w, y: n.y, w: n.w - w, h: h}
}

// Strategy define uma ordem de inserção.
type Strategy struct {
	Name string
	Less func(a, b Entry) bool
}

// Strategies são as cinco ordens testadas; a de maior aproveitamento vence.
var Strategies = []Strategy{
	{"max_side", func(a, b Entry) bool {
		if a.maxSide() != b.maxSide() {
			return a.maxSide() > b.maxSide()
		}
		return a.area() > b.area()
	}},
	{"area", func(a, b Entry) bool { return a.area() > b.area() }},
	{"height", func(a, b Entry) bool {
		if a.Height != b.Height {
			return a.Height > b.Height
		}
		return a.Width > b.Width
	}},
	{"width", func(a, b Entry) bool {
		if a.Width != b.Width {
			return a.Width > b.Width
		}
		return a.Height > b.Height
	}},
	{"perimeter", func(a, b Entry) bool { return a.perimeter() > b.perimeter() }},
}

// Layout é o resultado de um empacotamento.
type Layout struct {
	Size       int
	Strategy   string
	Placements map[string]PackedTexture
	Order      []string // Ordem de inserção das texturas colocadas
	Dropped    []string
	placedArea int
}

// NewLayout remonta um layout já calculado (por exemplo, lido do cache).
func NewLayout(size int, strategy string, placed []PackedTexture, dropped []string) *Layout {
	l := &Layout{Size: size, Strategy: strategy, Placements: make(map[string]PackedTexture, len(placed)), Dropped: dropped}
	for _, p := range placed {
		l.Placements[p.Path] = p
		l.Order = append(l.Order, p.Path)
		l.placedArea += p.Width * p.Height
	}
	return l
}

// Placed retorna as texturas colocadas na ordem de inserção.
func (l *Layout) Placed() []PackedTexture {
	out := make([]PackedTexture, 0, len(l.Order))
	for _, p := range l.Order {
		out = append(out, l.Placements[p])
	}
	return out
}

// Efficiency retorna a porcentagem da área do atlas ocupada.
func (l *Layout) Efficiency() float64 {
	if l.Size <= 0 {
		return 0
	}
	return float64(l.placedArea) / float64(l.Size*l.Size) * 100
}

// UV converte a posição em pixels de uma textura em retângulo normalizado.
func (l *Layout) UV(path string) (UVRect, bool) {
	p, ok := l.Placements[path]
	if !ok {
		return UVRect{}, false
	}
	s := float32(l.Size)
	return UVRect{
		U:      float32(p.X) / s,
		V:      float32(p.Y) / s,
		Width:  float32(p.Width) / s,
		Height: float32(p.Height) / s,
	}, true
}

// packWith empacota as entradas na ordem da estratégia.
func packWith(entries []Entry, size int, s Strategy) *Layout {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return s.Less(sorted[i], sorted[j]) })

	root := &node{w: size, h: size}
	l := &Layout{Size: size, Strategy: s.Name, Placements: make(map[string]PackedTexture, len(entries))}
	for _, e := range sorted {
		if e.Width <= 0 || e.Height <= 0 {
			l.Dropped = append(l.Dropped, e.Path)
			continue
		}
		n := root.find(e.Width, e.Height)
		if n == nil {
			l.Dropped = append(l.Dropped, e.Path)
			continue
		}
		n.split(e.Width, e.Height)
		l.Placements[e.Path] = PackedTexture{Path: e.Path, Width: e.Width, Height: e.Height, X: n.x, Y: n.y}
		l.Order = append(l.Order, e.Path)
		l.placedArea += e.area()
	}
	return l
}

// Pack testa todas as estratégias e retorna o layout de maior aproveitamento.
// Empates ficam com a estratégia listada primeiro. Texturas que não couberem são descartadas.
func Pack(entries []Entry, size int) *Layout {
	// Ordem de entrada determinística para que os desempates sejam estáveis
	input := append([]Entry(nil), entries...)
	sort.SliceStable(input, func(i, j int) bool { return input[i].Path < input[j].Path })

	var best *Layout
	for _, s := range Strategies {
		l := packWith(input, size, s)
		if best == nil || l.placedArea > best.placedArea {
			best = l
		}
	}
	if best == nil {
		return &Layout{Size: size, Placements: map[string]PackedTexture{}}
	}
	for _, p := range best.Dropped {
		log.Printf("[Atlas] %v: %s (atlas %dx%d)", ErrNoFit, p, size, size)
	}
	return best
}
