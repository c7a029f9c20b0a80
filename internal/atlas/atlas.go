package atlas

import (
	"context"
	"image"
	"log"

	"BlockVision/internal/pack"
)

// UVProvider fornece a região do atlas de uma textura.
type UVProvider interface {
	GetUV(path string) (UVRect, bool)
}

// Atlas é o layout empacotado, a imagem montada e os metadados de animação.
type Atlas struct {
	Layout *Layout
	Image  *image.RGBA
	Frames map[string]Animation
}

// GetUV retorna o retângulo normalizado da textura no atlas.
func (a *Atlas) GetUV(path string) (UVRect, bool) {
	if a == nil || a.Layout == nil {
		return UVRect{}, false
	}
	return a.Layout.UV(path)
}

// Contains indica se a textura foi colocada no atlas.
func (a *Atlas) Contains(path string) bool {
	_, ok := a.GetUV(path)
	return ok
}

// Assemble empacota texturas já decodificadas e monta a imagem.
func Assemble(textures []Texture, size int) *Atlas {
	entries := make([]Entry, 0, len(textures))
	for _, t := range textures {
		b := t.Image.Bounds()
		entries = append(entries, Entry{Path: t.Path, Width: b.Dx(), Height: b.Dy()})
	}
	return AssembleLayout(textures, Pack(entries, size))
}

// AssembleLayout monta a imagem sobre um layout já calculado, sem empacotar de novo.
func AssembleLayout(textures []Texture, layout *Layout) *Atlas {
	images := make(map[string]image.Image, len(textures))
	frames := make(map[string]Animation)
	for _, t := range textures {
		images[t.Path] = t.Image
		if t.Animation != nil {
			frames[t.Path] = *t.Animation
		}
	}

	a := &Atlas{Layout: layout, Image: BuildCanvas(layout, images), Frames: frames}
	log.Printf("[Atlas] %d texturas em %dx%d (estratégia %s, %.1f%% ocupado, %d descartadas)",
		len(layout.Placements), layout.Size, layout.Size, layout.Strategy, layout.Efficiency(), len(layout.Dropped))
	return a
}

// Fits indica se o layout descreve exatamente estas texturas: cada uma colocada
// com o mesmo tamanho ou descartada, e nenhuma a mais.
func (l *Layout) Fits(textures []Texture) bool {
	if l == nil || len(l.Placements)+len(l.Dropped) != len(textures) {
		return false
	}
	dropped := make(map[string]bool, len(l.Dropped))
	for _, d := range l.Dropped {
		dropped[d] = true
	}
	for _, t := range textures {
		b := t.Image.Bounds()
		if p, ok := l.Placements[t.Path]; ok {
			if p.Width != b.Dx() || p.Height != b.Dy() {
				return false
			}
		} else if !dropped[t.Path] {
			return false
		}
	}
	return true
}

// Build carrega as texturas do pack e monta o atlas.
func Build(ctx context.Context, src pack.Accessor, paths []string, size, concurrency int) (*Atlas, error) {
	textures, err := LoadTextures(ctx, src, paths, concurrency)
	if err != nil {
		return nil, err
	}
	return Assemble(textures, size), nil
}

var _ UVProvider = (*Atlas)(nil)
