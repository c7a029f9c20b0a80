package util

// LiquidKind classifica um bloco como água, lava ou nenhum líquido.
type LiquidKind uint8

const (
	LiquidNone LiquidKind = iota
	LiquidWater
	LiquidLava
)

// ClassifyLiquid identifica líquidos pelo nome do bloco (sem namespace).
func ClassifyLiquid(name string) LiquidKind {
	switch name {
	case "water", "flowing_water":
		return LiquidWater
	case "lava", "flowing_lava":
		return LiquidLava
	}
	return LiquidNone
}

// String retorna o nome base do líquido ("water", "lava").
func (k LiquidKind) String() string {
	switch k {
	case LiquidWater:
		return "water"
	case LiquidLava:
		return "lava"
	}
	return "none"
}

// StillTexture retorna a textura parada (topo e base).
func (k LiquidKind) StillTexture() string {
	if k == LiquidNone {
		return ""
	}
	return "block/" + k.String() + "_still"
}

// FlowTexture retorna a textura de fluxo (laterais).
func (k LiquidKind) FlowTexture() string {
	if k == LiquidNone {
		return ""
	}
	return "block/" + k.String() + "_flow"
}

// TextureFor escolhe still/flow conforme a direção da face.
func (k LiquidKind) TextureFor(dir Direction) string {
	if dir.IsVertical() {
		return k.StillTexture()
	}
	return k.FlowTexture()
}
