package materials

import "image/color"

// Material é o estado de renderização de um grupo de faces.
// A criação de recursos de GPU fica com quem consome (internal/render).
type Material struct {
	Texture     string
	Tint        color.RGBA // Branco quando a face não é tingida
	Transparent bool
	DepthWrite  bool
	RenderOrder int // Maior desenha depois
	Wireframe   bool
	UseAtlas    bool
	Liquid      bool
}

// Factory cria (ou reaproveita) o material de uma chave.
type Factory interface {
	Material(key Key, flags Flags) *Material
}

// Cores fixas
var (
	White   = color.RGBA{255, 255, 255, 255}
	Magenta = color.RGBA{255, 0, 255, 255}
)

// PlaceholderMaterial é o material aramado usado quando um bloco não tem geometria.
func PlaceholderMaterial() *Material {
	return &Material{Texture: "", Tint: Magenta, DepthWrite: true, Wireframe: true}
}
