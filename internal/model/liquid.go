package model

import (
	"strconv"
	"strings"

	"BlockVision/shared/util"
)

// liquidPath reconhece "block/water", "block/lava" e as variantes "_level_<n>".
// Retorna o tipo, o nível e se o caminho é específico de nível.
func liquidPath(path string) (kind util.LiquidKind, level int, levelSpecific bool) {
	var rest string
	switch {
	case strings.HasPrefix(path, "block/water"):
		kind, rest = util.LiquidWater, path[len("block/water"):]
	case strings.HasPrefix(path, "block/lava"):
		kind, rest = util.LiquidLava, path[len("block/lava"):]
	default:
		return util.LiquidNone, 0, false
	}
	if rest == "" {
		return kind, 0, false
	}
	n, ok := strings.CutPrefix(rest, "_level_")
	if !ok {
		// "block/water_cauldron" e afins são modelos normais
		return util.LiquidNone, 0, false
	}
	lvl, err := strconv.Atoi(n)
	if err != nil || lvl < 0 {
		return util.LiquidNone, 0, false
	}
	return kind, lvl, true
}

// LiquidHeight retorna a altura (0-16) da superfície do líquido no nível dado.
// Níveis 1 a 7 seguem 16-2*nível. Água parada (nível 0) fica em 14 para casar
// com o visual do jogo e lava parada ocupa o bloco todo.
// Níveis 8 a 15 são líquido em queda: ocupam o bloco todo, pois 16-2*nível
// daria altura zero ou negativa.
func LiquidHeight(kind util.LiquidKind, level int) float64 {
	switch {
	case level == 0 && kind == util.LiquidWater:
		return 14
	case level == 0, level >= 8:
		return 16
	}
	return float64(16 - 2*level)
}

// SyntheticLiquid monta o cuboide de água/lava com still no topo/base e flow nas laterais.
func SyntheticLiquid(kind util.LiquidKind, level int) *Model {
	height := LiquidHeight(kind, level)
	faces := make(map[util.Direction]Face, 6)
	for _, dir := range util.AllDirections {
		tex := "#flow"
		if dir.IsVertical() {
			tex = "#still"
		}
		faces[dir] = Face{Texture: tex, CullFace: dir, TintIndex: -1}
	}
	if kind == util.LiquidWater {
		for dir, f := range faces {
			f.TintIndex = 0
			faces[dir] = f
		}
	}
	return &Model{
		Textures: map[string]string{
			"particle": kind.StillTexture(),
			"still":    kind.StillTexture(),
			"flow":     kind.FlowTexture(),
		},
		Elements: []Element{{
			From:  [3]float64{0, 0, 0},
			To:    [3]float64{16, height, 16},
			Faces: faces,
		}},
		hasElements: true,
	}
}
