// Package render envia os nós de malha para a GPU via raylib e desenha
// o visualizador de blocos.
package render

/*
#include <stdlib.h>
*/
import "C"

import (
	"image"
	"log"
	"sync"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"BlockVision/internal/meshing"
)

// TextureFunc carrega a imagem de uma textura individual ("block/stone").
type TextureFunc func(path string) image.Image

// gpuMesh é uma malha enviada para a GPU com o estado de material necessário no desenho.
type gpuMesh struct {
	model       rl.Model
	tint        rl.Color
	transparent bool
	depthWrite  bool
	wireframe   bool
}

// Renderer guarda os modelos enviados e as texturas carregadas.
type Renderer struct {
	mu       sync.RWMutex
	meshes   []gpuMesh
	textures map[string]rl.Texture2D
	atlas    rl.Texture2D
	hasAtlas bool

	// Textures carrega texturas fora do atlas. Pode ser nil.
	Textures TextureFunc
}

// NewRenderer cria um renderizador vazio. Exige janela aberta para Upload.
func NewRenderer(textures TextureFunc) *Renderer {
	return &Renderer{
		textures: make(map[string]rl.Texture2D),
		Textures: textures,
	}
}

// SetAtlas envia a imagem do atlas como textura.
func (r *Renderer) SetAtlas(img image.Image) {
	if img == nil || !rl.IsWindowReady() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasAtlas {
		rl.UnloadTexture(r.atlas)
	}
	r.atlas = loadTexture(img)
	r.hasAtlas = r.atlas.ID != 0
	log.Printf("[Renderer] Atlas enviado: %dx%d", r.atlas.Width, r.atlas.Height)
}

func loadTexture(img image.Image) rl.Texture2D {
	rimg := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(rimg)
	rl.UnloadImage(rimg)
	if tex.ID != 0 {
		// Pixel art: sem filtragem
		rl.SetTextureFilter(tex, rl.FilterPoint)
		rl.SetTextureWrap(tex, rl.WrapClamp)
	}
	return tex
}

// texture devolve a textura do material, carregando sob demanda. Com r.mu travado.
func (r *Renderer) texture(path string, useAtlas bool) (rl.Texture2D, bool) {
	if useAtlas && r.hasAtlas {
		return r.atlas, true
	}
	if tex, ok := r.textures[path]; ok {
		return tex, tex.ID != 0
	}
	var tex rl.Texture2D
	if r.Textures != nil {
		if img := r.Textures(path); img != nil {
			tex = loadTexture(img)
		}
	}
	if tex.ID == 0 {
		log.Printf("[Renderer] FALHA ao carregar textura: %s", path)
	}
	r.textures[path] = tex
	return tex, tex.ID != 0
}

// Upload substitui o conteúdo atual pelo nó dado.
func (r *Renderer) Upload(root *meshing.Node) {
	if root == nil || !rl.IsWindowReady() {
		return
	}
	r.Clear()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range flatten(root) {
		g := it.mesh.Geometry
		if g.VertexCount() == 0 {
			continue
		}
		mesh, ok := r.geometryToMesh(g)
		if !ok {
			log.Printf("[Renderer] Malha %s com índices demais, ignorada", it.mesh.Key)
			continue
		}
		rl.UploadMesh(&mesh, false)
		model := rl.LoadModelFromMesh(mesh)
		model.Transform = toMatrix(it.world)

		gm := gpuMesh{model: model, tint: rl.White, depthWrite: true}
		if mat := it.mesh.Material; mat != nil {
			gm.tint = toColor(mat.Tint)
			gm.transparent = mat.Transparent
			gm.depthWrite = mat.DepthWrite
			gm.wireframe = mat.Wireframe
			if model.MaterialCount > 0 && mat.Texture != "" {
				if tex, ok := r.texture(mat.Texture, mat.UseAtlas); ok {
					materials := unsafe.Slice(model.Materials, model.MaterialCount)
					rl.SetMaterialTexture(&materials[0], rl.MapDiffuse, tex)
				}
			}
		}
		r.meshes = append(r.meshes, gm)
	}
	log.Printf("[Renderer] %s enviado: %d malhas, %d vértices", root.Name, len(r.meshes), root.VertexCount())
}

func (r *Renderer) geometryToMesh(data meshing.GeometryData) (rl.Mesh, bool) {
	var mesh rl.Mesh
	idx, ok := toIndices16(data.Indices)
	if !ok {
		return mesh, false
	}
	mesh.VertexCount = int32(data.VertexCount())
	mesh.TriangleCount = int32(len(idx) / 3)

	if len(data.Vertices) > 0 {
		mesh.Vertices = (*float32)(copyToC(unsafe.Pointer(&data.Vertices[0]), len(data.Vertices)*4))
	}
	if len(data.Normals) > 0 {
		mesh.Normals = (*float32)(copyToC(unsafe.Pointer(&data.Normals[0]), len(data.Normals)*4))
	}
	if len(data.UVs) > 0 {
		mesh.Texcoords = (*float32)(copyToC(unsafe.Pointer(&data.UVs[0]), len(data.UVs)*4))
	}
	if len(idx) > 0 {
		mesh.Indices = (*uint16)(copyToC(unsafe.Pointer(&idx[0]), len(idx)*2))
	}
	return mesh, true
}

// copyToC copia um buffer Go para memória C, que o raylib libera no UnloadModel.
func copyToC(data unsafe.Pointer, size int) unsafe.Pointer {
	if size <= 0 || data == nil {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	copy(unsafe.Slice((*byte)(ptr), size), unsafe.Slice((*byte)(data), size))
	return ptr
}

// Draw desenha as malhas: opacas primeiro, depois as transparentes com blend.
func (r *Renderer) Draw() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.meshes {
		if !m.transparent {
			r.drawMesh(m)
		}
	}

	rl.BeginBlendMode(rl.BlendAlpha)
	for _, m := range r.meshes {
		if !m.transparent {
			continue
		}
		if !m.depthWrite {
			rl.DisableDepthMask()
		}
		r.drawMesh(m)
		if !m.depthWrite {
			rl.EnableDepthMask()
		}
	}
	rl.EndBlendMode()
}

func (r *Renderer) drawMesh(m gpuMesh) {
	if m.wireframe {
		rl.DrawModelWires(m.model, rl.Vector3{}, 1.0, m.tint)
		return
	}
	rl.DrawModel(m.model, rl.Vector3{}, 1.0, m.tint)
}

// MeshCount retorna quantas malhas estão na GPU.
func (r *Renderer) MeshCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.meshes)
}

// Clear libera os modelos enviados. Texturas continuam em cache.
func (r *Renderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.meshes {
		rl.UnloadModel(m.model)
	}
	r.meshes = nil
}

// Unload libera tudo, inclusive texturas e atlas.
func (r *Renderer) Unload() {
	r.Clear()
	r.mu.Lock()
	defer r.mu.Unlock()
	for path, tex := range r.textures {
		if tex.ID != 0 {
			rl.UnloadTexture(tex)
		}
		delete(r.textures, path)
	}
	if r.hasAtlas {
		rl.UnloadTexture(r.atlas)
		r.hasAtlas = false
	}
}
