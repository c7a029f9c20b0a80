// Package model resolve modelos de bloco: herança por "parent", indireções
// de textura "#chave" e os modelos sintéticos de água e lava.
package model

import (
	"encoding/json"
	"fmt"

	"BlockVision/shared/util"
)

// MissingTexture é a textura usada quando uma referência não pode ser resolvida.
const MissingTexture = "block/missing_texture"

// ElementRotation é a rotação opcional de um elemento (origem em espaço 0-16).
type ElementRotation struct {
	Origin  [3]float64 `json:"origin"`
	Axis    string     `json:"axis"`
	Angle   float64    `json:"angle"`
	Rescale bool       `json:"rescale,omitempty"`
}

// Face é uma das seis faces de um elemento.
type Face struct {
	Texture   string
	CullFace  util.Direction // DirNone quando ausente
	Rotation  float64
	TintIndex int         // -1 quando ausente
	UV        *[4]float64 // nil usa [0,0,16,16]
}

type faceJSON struct {
	Texture   string         `json:"texture"`
	CullFace  util.Direction `json:"cullface,omitempty"`
	Rotation  float64        `json:"rotation,omitempty"`
	TintIndex *int           `json:"tintindex,omitempty"`
	UV        *[4]float64    `json:"uv,omitempty"`
}

func (f *Face) UnmarshalJSON(data []byte) error {
	var raw faceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Face{Texture: raw.Texture, CullFace: raw.CullFace, Rotation: raw.Rotation, TintIndex: -1, UV: raw.UV}
	if raw.TintIndex != nil {
		f.TintIndex = *raw.TintIndex
	}
	return nil
}

func (f Face) MarshalJSON() ([]byte, error) {
	raw := faceJSON{Texture: f.Texture, CullFace: f.CullFace, Rotation: f.Rotation, UV: f.UV}
	if f.TintIndex >= 0 {
		ti := f.TintIndex
		raw.TintIndex = &ti
	}
	return json.Marshal(raw)
}

// Tinted indica se a face recebe cor de bioma.
func (f Face) Tinted() bool {
	return f.TintIndex >= 0
}

// Element é um cuboide do modelo em espaço 0-16.
type Element struct {
	From     [3]float64              `json:"from"`
	To       [3]float64              `json:"to"`
	Rotation *ElementRotation        `json:"rotation,omitempty"`
	Faces    map[util.Direction]Face `json:"faces"`
	Shade    *bool                   `json:"shade,omitempty"`
}

// Validate verifica se o elemento tem dimensões utilizáveis.
func (e *Element) Validate() error {
	for i := 0; i < 3; i++ {
		if e.To[i] < e.From[i] {
			return fmt.Errorf("elemento invertido no eixo %d: from=%v to=%v", i, e.From, e.To)
		}
	}
	if e.Rotation != nil {
		switch e.Rotation.Axis {
		case "x", "y", "z":
		default:
			return fmt.Errorf("eixo de rotação inválido: %q", e.Rotation.Axis)
		}
	}
	return nil
}

// Model é um modelo de bloco. Depois de resolvido não tem Parent
// e nenhuma face aponta para "#chave".
type Model struct {
	Parent           string            `json:"parent,omitempty"`
	Textures         map[string]string `json:"textures,omitempty"`
	Elements         []Element         `json:"elements,omitempty"`
	AmbientOcclusion *bool             `json:"ambientocclusion,omitempty"`

	// hasElements distingue "elements": [] (presente, vazio) de ausente
	hasElements bool
}

func (m *Model) UnmarshalJSON(data []byte) error {
	var raw struct {
		Parent           string            `json:"parent"`
		Textures         map[string]string `json:"textures"`
		Elements         *[]Element        `json:"elements"`
		AmbientOcclusion *bool             `json:"ambientocclusion"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Model{Parent: raw.Parent, Textures: raw.Textures, AmbientOcclusion: raw.AmbientOcclusion}
	if raw.Elements != nil {
		m.Elements = *raw.Elements
		m.hasElements = true
	}
	return nil
}

// HasElements indica se o documento declarou "elements".
func (m *Model) HasElements() bool {
	return m.hasElements || len(m.Elements) > 0
}

// Parse decodifica um modelo JSON.
func Parse(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Clone cria uma cópia profunda do modelo.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	c := &Model{Parent: m.Parent, AmbientOcclusion: m.AmbientOcclusion, hasElements: m.hasElements}
	if m.Textures != nil {
		c.Textures = make(map[string]string, len(m.Textures))
		for k, v := range m.Textures {
			c.Textures[k] = v
		}
	}
	if m.Elements != nil {
		c.Elements = make([]Element, len(m.Elements))
		for i, e := range m.Elements {
			ne := e
			if e.Rotation != nil {
				r := *e.Rotation
				ne.Rotation = &r
			}
			ne.Faces = make(map[util.Direction]Face, len(e.Faces))
			for d, f := range e.Faces {
				if f.UV != nil {
					uv := *f.UV
					f.UV = &uv
				}
				ne.Faces[d] = f
			}
			c.Elements[i] = ne
		}
	}
	return c
}
