package render

import (
	"fmt"
	"image"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"BlockVision/internal/meshing"
	"BlockVision/shared/config"
)

// Viewer abre uma janela e mostra um único bloco até ser fechada.
type Viewer struct {
	cfg      *config.Config
	renderer *Renderer
	camera   *OrbitCamera
	node     *meshing.Node
	grid     bool
}

// NewViewer prepara o visualizador. A janela só é aberta em Run.
func NewViewer(cfg *config.Config, textures TextureFunc) *Viewer {
	return &Viewer{
		cfg:      cfg,
		renderer: NewRenderer(textures),
		camera:   NewOrbitCamera(),
		grid:     true,
	}
}

// Run abre a janela, envia o atlas (opcional) e o nó, e roda o loop.
// Deve ser chamado na thread principal (runtime.LockOSThread).
func (v *Viewer) Run(node *meshing.Node, atlasImg image.Image) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(v.cfg.WindowWidth, v.cfg.WindowHeight, v.cfg.WindowTitle)
	defer rl.CloseWindow()
	rl.SetTargetFPS(v.cfg.TargetFPS)

	v.renderer.SetAtlas(atlasImg)
	v.show(node)
	defer v.renderer.Unload()

	log.Printf("[Viewer] Janela aberta (%dx%d)", v.cfg.WindowWidth, v.cfg.WindowHeight)
	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		v.camera.HandleInput(dt)
		v.camera.Update(dt)
		if rl.IsKeyPressed(rl.KeyG) {
			v.grid = !v.grid
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(40, 44, 52, 255))
		rl.BeginMode3D(v.camera.RLCamera)
		if v.grid {
			rl.DrawGrid(8, 0.5)
		}
		v.renderer.Draw()
		rl.EndMode3D()
		v.drawHUD()
		rl.EndDrawing()
	}
}

func (v *Viewer) show(node *meshing.Node) {
	v.node = node
	v.renderer.Upload(node)
	if min, max, ok := node.Bounds(); ok {
		v.camera.Frame(min, max)
	}
}

func (v *Viewer) drawHUD() {
	if v.node == nil {
		return
	}
	lines := []string{
		v.node.Name,
		fmt.Sprintf("malhas: %d  vértices: %d  índices: %d", v.node.MeshCount(), v.node.VertexCount(), v.node.IndexCount()),
		"mouse: orbitar  scroll: zoom  G: grade",
	}
	if v.node.Placeholder {
		lines = append(lines, "placeholder")
	}
	for i, l := range lines {
		rl.DrawText(l, 10, int32(10+i*20), 18, rl.RayWhite)
	}
	rl.DrawFPS(v.cfg.WindowWidth-90, 10)
}
