// Package materials agrupa faces por estado de renderização e cria os
// materiais correspondentes (cor de bioma, transparência de líquidos).
package materials

import (
	"strconv"
	"strings"

	"BlockVision/shared/util"
)

// Key identifica um grupo de faces que pode ser fundido num único buffer.
type Key struct {
	Texture   string
	Direction util.Direction
	TintIndex int
	CullFace  util.Direction
	Block     string // ns:nome
	Props     string // Propriedades ordenadas "k=v,k=v"
	Biome     string
}

// String serializa a chave de forma estável.
func (k Key) String() string {
	var sb strings.Builder
	sb.WriteString(k.Texture)
	sb.WriteByte('|')
	sb.WriteString(k.Direction.String())
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(k.TintIndex))
	sb.WriteByte('|')
	sb.WriteString(k.CullFace.String())
	sb.WriteByte('|')
	sb.WriteString(k.Block)
	sb.WriteByte('|')
	sb.WriteString(k.Props)
	sb.WriteByte('|')
	sb.WriteString(k.Biome)
	return sb.String()
}

// Flags são as dicas que o gerador de malha passa para a fábrica.
type Flags struct {
	Tint      bool
	IsLiquid  bool
	Direction util.Direction
	UseAtlas  bool
}
