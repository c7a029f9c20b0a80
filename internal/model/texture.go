package model

import (
	"strings"

	"BlockVision/shared/util"
)

// ResolveTexture segue indireções "#chave" na tabela de texturas até chegar em um caminho literal.
// Referência vazia, "#missing", chave desconhecida ou mais de maxDepth saltos resultam em MissingTexture.
func ResolveTexture(ref string, textures map[string]string, maxDepth int) string {
	if ref == "" || ref == "#missing" {
		return MissingTexture
	}
	cur := ref
	for i := 0; i < maxDepth && strings.HasPrefix(cur, "#"); i++ {
		next, ok := textures[cur[1:]]
		if !ok {
			return MissingTexture
		}
		cur = next
	}
	if cur == "" || strings.HasPrefix(cur, "#") {
		return MissingTexture
	}
	return util.StripNamespace(cur)
}

// resolveFaceTextures aplica ResolveTexture a todas as faces e à textura de partícula.
func resolveFaceTextures(m *Model, maxDepth int) {
	for i := range m.Elements {
		faces := m.Elements[i].Faces
		for dir, face := range faces {
			face.Texture = ResolveTexture(face.Texture, m.Textures, maxDepth)
			faces[dir] = face
		}
	}
	if p, ok := m.Textures["particle"]; ok {
		m.Textures["particle"] = ResolveTexture(p, m.Textures, maxDepth)
	}
}
