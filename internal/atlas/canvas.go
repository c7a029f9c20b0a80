package atlas

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// BuildCanvas desenha cada textura colocada na sua posição do layout.
// Usa vizinho mais próximo para não suavizar pixel art.
func BuildCanvas(l *Layout, images map[string]image.Image) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, l.Size, l.Size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	for _, path := range l.Order {
		img, ok := images[path]
		if !ok {
			continue
		}
		p := l.Placements[path]
		dst := image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
		draw.NearestNeighbor.Scale(canvas, dst, img, img.Bounds(), draw.Src, nil)
	}
	return canvas
}
