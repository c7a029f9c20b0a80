package util

import (
	"math"
	"strings"
)

// Lerp realiza interpolação linear entre dois floats.
func Lerp(start, end, amount float32) float32 {
	return start + amount*(end-start)
}

// SnapRightAngle arredonda um ângulo em graus para o múltiplo de 90 mais próximo, em [0, 360).
func SnapRightAngle(deg float64) int {
	snapped := int(math.Round(deg/90.0)) * 90
	snapped %= 360
	if snapped < 0 {
		snapped += 360
	}
	return snapped
}

// StripNamespace remove o prefixo "ns:" de um caminho de recurso.
func StripNamespace(path string) string {
	if i := strings.IndexByte(path, ':'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Abs retorna o valor absoluto de um int.
func Abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
