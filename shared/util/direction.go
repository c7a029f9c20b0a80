package util

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Direction representa uma das seis faces de um cubo.
// Resolvida uma única vez na leitura do JSON, nunca re-derivada de strings.
type Direction uint8

const (
	DirNone Direction = iota
	DirDown
	DirUp
	DirNorth
	DirSouth
	DirWest
	DirEast
)

// AllDirections lista as seis direções na ordem canônica de geração de faces.
var AllDirections = [6]Direction{DirDown, DirUp, DirNorth, DirSouth, DirWest, DirEast}

var directionNames = [...]string{
	DirNone:  "",
	DirDown:  "down",
	DirUp:    "up",
	DirNorth: "north",
	DirSouth: "south",
	DirWest:  "west",
	DirEast:  "east",
}

// ParseDirection converte o nome usado nos modelos ("up", "north"...) para Direction.
// "bottom" é aceito como sinônimo antigo de "down".
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down", "bottom":
		return DirDown, true
	case "up":
		return DirUp, true
	case "north":
		return DirNorth, true
	case "south":
		return DirSouth, true
	case "west":
		return DirWest, true
	case "east":
		return DirEast, true
	}
	return DirNone, false
}

// String retorna o nome da direção no formato dos modelos.
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// MarshalText permite usar Direction como chave de mapa em JSON.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText aceita o nome da direção. String vazia vira DirNone.
func (d *Direction) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = DirNone
		return nil
	}
	dir, ok := ParseDirection(string(b))
	if !ok {
		return fmt.Errorf("direção desconhecida: %q", string(b))
	}
	*d = dir
	return nil
}

// Opposite retorna a direção oposta.
func (d Direction) Opposite() Direction {
	switch d {
	case DirDown:
		return DirUp
	case DirUp:
		return DirDown
	case DirNorth:
		return DirSouth
	case DirSouth:
		return DirNorth
	case DirWest:
		return DirEast
	case DirEast:
		return DirWest
	}
	return DirNone
}

// IsVertical indica se a face é topo ou base.
func (d Direction) IsVertical() bool {
	return d == DirUp || d == DirDown
}

// Normal retorna o vetor normal unitário da face.
// Convenção: norte = -Z, leste = +X, cima = +Y.
func (d Direction) Normal() mgl32.Vec3 {
	switch d {
	case DirDown:
		return mgl32.Vec3{0, -1, 0}
	case DirUp:
		return mgl32.Vec3{0, 1, 0}
	case DirNorth:
		return mgl32.Vec3{0, 0, -1}
	case DirSouth:
		return mgl32.Vec3{0, 0, 1}
	case DirWest:
		return mgl32.Vec3{-1, 0, 0}
	case DirEast:
		return mgl32.Vec3{1, 0, 0}
	}
	return mgl32.Vec3{}
}
