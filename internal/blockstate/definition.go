package blockstate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ModelRef aponta para um modelo com a rotação aplicada pelo blockstate.
type ModelRef struct {
	Model  string  `json:"model"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	UVLock bool    `json:"uvlock,omitempty"`
	Weight int     `json:"weight,omitempty"`
}

// ModelRefList aceita tanto um objeto único quanto uma lista ponderada.
type ModelRefList []ModelRef

func (l *ModelRefList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []ModelRef
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	var single ModelRef
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = ModelRefList{single}
	return nil
}

// Condition é o "when" de uma regra multipart.
// Props é um AND de todas as entradas; cada valor pode ser "a|b|c".
// OR/AND aninham outras condições.
type Condition struct {
	Props map[string]string
	OR    []Condition
	AND   []Condition
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		switch k {
		case "OR":
			if err := json.Unmarshal(v, &c.OR); err != nil {
				return fmt.Errorf("condição OR: %w", err)
			}
		case "AND":
			if err := json.Unmarshal(v, &c.AND); err != nil {
				return fmt.Errorf("condição AND: %w", err)
			}
		default:
			if c.Props == nil {
				c.Props = make(map[string]string)
			}
			c.Props[k] = rawScalar(v)
		}
	}
	return nil
}

// rawScalar aceita "true", true ou 3 como valor de propriedade.
func rawScalar(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(v))
}

// Matches verifica a condição contra as propriedades do bloco.
func (c *Condition) Matches(b Block) bool {
	if len(c.OR) > 0 {
		for i := range c.OR {
			if c.OR[i].Matches(b) {
				return true
			}
		}
		return false
	}
	for i := range c.AND {
		if !c.AND[i].Matches(b) {
			return false
		}
	}
	for name, expected := range c.Props {
		actual, ok := b.Get(name)
		if !ok {
			return false
		}
		if actual == expected {
			continue
		}
		found := false
		for _, alt := range strings.Split(expected, "|") {
			if actual == alt {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Rule é uma regra multipart.
type Rule struct {
	When  *Condition   `json:"when,omitempty"`
	Apply ModelRefList `json:"apply"`
}

// Definition é o conteúdo de blockstates/<nome>.json.
// VariantOrder guarda a ordem das chaves no arquivo, usada nos fallbacks.
type Definition struct {
	Variants     map[string]ModelRefList
	VariantOrder []string
	Multipart    []Rule
}

// Empty indica uma definição sem variants nem multipart.
func (d *Definition) Empty() bool {
	return d == nil || (len(d.Variants) == 0 && len(d.Multipart) == 0)
}

func (d *Definition) UnmarshalJSON(data []byte) error {
	var raw struct {
		Variants  json.RawMessage `json:"variants"`
		Multipart []Rule          `json:"multipart"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Multipart = raw.Multipart
	if len(raw.Variants) == 0 || string(raw.Variants) == "null" {
		return nil
	}

	order, err := objectKeys(raw.Variants)
	if err != nil {
		return fmt.Errorf("variants: %w", err)
	}
	if err := json.Unmarshal(raw.Variants, &d.Variants); err != nil {
		return fmt.Errorf("variants: %w", err)
	}
	d.VariantOrder = order
	return nil
}

// objectKeys lê as chaves de um objeto JSON na ordem do documento.
// Chaves repetidas aparecem uma única vez, na primeira posição.
func objectKeys(data json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("esperado objeto, encontrado %v", tok)
	}
	seen := make(map[string]bool)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("chave inválida %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// ParseDefinition decodifica um blockstate JSON.
func ParseDefinition(data []byte) (*Definition, error) {
	var d Definition
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
