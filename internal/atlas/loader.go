package atlas

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"BlockVision/internal/pack"
)

// Animation guarda o necessário para localizar quadros de uma textura animada.
// Só o quadro 0 vai para o atlas.
type Animation struct {
	FrameCount  int
	FrameWidth  int
	FrameHeight int
	FrameTime   int // Em ticks; 1 quando o .mcmeta não informa
}

// FrameOffset retorna o deslocamento vertical (em pixels) do quadro na tira original.
func (a Animation) FrameOffset(frame int) int {
	if a.FrameCount <= 0 {
		return 0
	}
	return (frame % a.FrameCount) * a.FrameHeight
}

// Texture é uma textura decodificada pronta para empacotar.
type Texture struct {
	Path      string
	Image     image.Image
	Animation *Animation
}

type mcmeta struct {
	Animation *struct {
		FrameTime int `json:"frametime"`
		Width     int `json:"width"`
		Height    int `json:"height"`
	} `json:"animation"`
}

// TexturePath converte "textures/block/x.png" em "block/x".
func TexturePath(file string) string {
	return strings.TrimSuffix(strings.TrimPrefix(file, "textures/"), ".png")
}

// CollectBlockTextures lista as texturas de bloco disponíveis no stack.
func CollectBlockTextures(stack *pack.Stack) []string {
	var out []string
	for _, f := range stack.List("textures/block/") {
		if strings.HasSuffix(f, ".png") {
			out = append(out, TexturePath(f))
		}
	}
	return out
}

// LoadTextures decodifica as texturas em paralelo, no máximo concurrency por vez.
// Falhas individuais são logadas e a textura é omitida. A ordem de saída segue paths.
func LoadTextures(ctx context.Context, src pack.Accessor, paths []string, concurrency int) ([]Texture, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]*Texture, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tex, err := loadTexture(src, p)
			if err != nil {
				log.Printf("[Atlas] Ignorando textura %s: %v", p, err)
				return nil
			}
			results[i] = tex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Texture, 0, len(paths))
	for _, t := range results {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func loadTexture(src pack.Accessor, path string) (*Texture, error) {
	file := "textures/" + path + ".png"
	data, ok := src.GetBytes(file)
	if !ok {
		return nil, pack.ErrNotFound
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	tex := &Texture{Path: path, Image: img}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var meta mcmeta
	hasMeta := false
	if raw, ok := src.GetBytes(file + ".mcmeta"); ok {
		if err := json.Unmarshal(raw, &meta); err != nil {
			log.Printf("[Atlas] .mcmeta inválido para %s: %v", path, err)
		} else {
			hasMeta = meta.Animation != nil
		}
	}

	// Tira vertical de quadros: altura múltipla da largura ou .mcmeta presente
	if w > 0 && (hasMeta || (h > w && h%w == 0)) {
		fw, fh := w, w
		frameTime := 1
		if hasMeta {
			if meta.Animation.Width > 0 {
				fw = meta.Animation.Width
			}
			if meta.Animation.Height > 0 {
				fh = meta.Animation.Height
			}
			if meta.Animation.FrameTime > 0 {
				frameTime = meta.Animation.FrameTime
			}
		}
		if fh > h {
			fh = h
		}
		if fw > w {
			fw = w
		}
		tex.Animation = &Animation{FrameCount: h / fh, FrameWidth: fw, FrameHeight: fh, FrameTime: frameTime}
		tex.Image = subImage(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+fw, b.Min.Y+fh))
	}
	return tex, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	return img
}
