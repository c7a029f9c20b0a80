package materials

import "image/color"

// BiomeColors são as cores de grama, folhagem e água de um bioma.
type BiomeColors struct {
	Grass   color.RGBA
	Foliage color.RGBA
	Water   color.RGBA
}

func hex(v uint32) color.RGBA {
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}

// Valores padrão dos colormaps do jogo para temperatura/umidade de cada bioma.
var biomeTable = map[string]BiomeColors{
	"plains":           {hex(0x91BD59), hex(0x77AB2F), hex(0x3F76E4)},
	"sunflower_plains": {hex(0x91BD59), hex(0x77AB2F), hex(0x3F76E4)},
	"forest":           {hex(0x79C05A), hex(0x59AE30), hex(0x3F76E4)},
	"flower_forest":    {hex(0x79C05A), hex(0x59AE30), hex(0x3F76E4)},
	"birch_forest":     {hex(0x88BB67), hex(0x6BA941), hex(0x3F76E4)},
	"dark_forest":      {hex(0x507A32), hex(0x59AE30), hex(0x3F76E4)},
	"taiga":            {hex(0x86B783), hex(0x68A464), hex(0x3F76E4)},
	"snowy_taiga":      {hex(0x80B497), hex(0x60A17B), hex(0x3D57D6)},
	"snowy_plains":     {hex(0x80B497), hex(0x60A17B), hex(0x3F76E4)},
	"jungle":           {hex(0x59C93C), hex(0x30BB0B), hex(0x3F76E4)},
	"swamp":            {hex(0x6A7039), hex(0x6A7039), hex(0x617B64)},
	"desert":           {hex(0xBFB755), hex(0xAEA42A), hex(0x3F76E4)},
	"savanna":          {hex(0xBFB755), hex(0xAEA42A), hex(0x3F76E4)},
	"badlands":         {hex(0x90814D), hex(0x9E814D), hex(0x3F76E4)},
	"ocean":            {hex(0x8EB971), hex(0x71A74D), hex(0x3F76E4)},
	"warm_ocean":       {hex(0x8EB971), hex(0x71A74D), hex(0x43D5EE)},
	"cold_ocean":       {hex(0x8EB971), hex(0x71A74D), hex(0x3D57D6)},
	"frozen_ocean":     {hex(0x80B497), hex(0x60A17B), hex(0x3938C9)},
	"mangrove_swamp":   {hex(0x6A7039), hex(0x8DB127), hex(0x3A7A6A)},
}

// Folhas com cor fixa, independente do bioma.
var fixedFoliage = map[string]color.RGBA{
	"block/birch_leaves":  hex(0x80A755),
	"block/spruce_leaves": hex(0x619961),
	"block/lily_pad":      hex(0x208030),
}

// LookupBiome retorna as cores do bioma. Biomas desconhecidos usam "plains".
func LookupBiome(name string) (BiomeColors, bool) {
	c, ok := biomeTable[name]
	if !ok {
		return biomeTable["plains"], false
	}
	return c, true
}
