package meshing

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"BlockVision/shared/util"
)

// Plano base: quad no plano XY virado para +Z, cantos TL, TR, BL, BR.
var (
	planeCorners = [4][2]float32{{-0.5, 0.5}, {0.5, 0.5}, {-0.5, -0.5}, {0.5, -0.5}}
	planeUVs     = [4][2]float32{{0, 1}, {1, 1}, {0, 0}, {1, 0}}
	// Ordem dos cantos percorrendo o quad no sentido horário (TL, TR, BR, BL)
	clockwise = [4]int{0, 1, 3, 2}
)

// facePlacement descreve como o plano base vira uma face do elemento.
type facePlacement struct {
	rotation mgl32.Mat4
	offset   mgl32.Vec3
	width    float32
	height   float32
}

// placeFace usa sempre a mesma tabela: topo/base giram em X, laterais giram em Y.
func placeFace(dir util.Direction, size mgl32.Vec3) facePlacement {
	sx, sy, sz := size[0], size[1], size[2]
	switch dir {
	case util.DirUp:
		return facePlacement{mgl32.HomogRotate3DX(-math.Pi / 2), mgl32.Vec3{0, sy / 2, 0}, sx, sz}
	case util.DirDown:
		return facePlacement{mgl32.HomogRotate3DX(math.Pi / 2), mgl32.Vec3{0, -sy / 2, 0}, sx, sz}
	case util.DirNorth:
		return facePlacement{mgl32.HomogRotate3DY(math.Pi), mgl32.Vec3{0, 0, -sz / 2}, sx, sy}
	case util.DirSouth:
		return facePlacement{mgl32.Ident4(), mgl32.Vec3{0, 0, sz / 2}, sx, sy}
	case util.DirWest:
		return facePlacement{mgl32.HomogRotate3DY(-math.Pi / 2), mgl32.Vec3{-sx / 2, 0, 0}, sz, sy}
	case util.DirEast:
		return facePlacement{mgl32.HomogRotate3DY(math.Pi / 2), mgl32.Vec3{sx / 2, 0, 0}, sz, sy}
	}
	return facePlacement{rotation: mgl32.Ident4()}
}

// quad calcula os quatro cantos da face em espaço local do elemento (centrado).
func (p facePlacement) quad() [4]mgl32.Vec3 {
	m := mgl32.Translate3D(p.offset[0], p.offset[1], p.offset[2]).Mul4(p.rotation)
	var out [4]mgl32.Vec3
	for i, c := range planeCorners {
		out[i] = mgl32.TransformCoordinate(mgl32.Vec3{c[0] * p.width, c[1] * p.height, 0}, m)
	}
	return out
}

// normal retorna a normal da face já girada.
func (p facePlacement) normal() mgl32.Vec3 {
	return mgl32.TransformNormal(mgl32.Vec3{0, 0, 1}, p.rotation)
}

// faceUVs converte o retângulo em pixels (0-16) para [0,1] com V invertido
// e aplica a rotação de textura em passos de 90 graus.
func faceUVs(rect [4]float64, rotation int) [4][2]float32 {
	u0, v0 := float32(rect[0]), float32(rect[1])
	u1, v1 := float32(rect[2]), float32(rect[3])

	var uvs [4][2]float32
	for i, base := range planeUVs {
		u := util.Lerp(u0, u1, base[0]) / 16
		v := 1 - util.Lerp(v0, v1, 1-base[1])/16
		uvs[i] = [2]float32{u, v}
	}

	steps := (rotation / 90) % 4
	if steps == 0 {
		return uvs
	}
	var rotated [4][2]float32
	for i := 0; i < 4; i++ {
		rotated[clockwise[(i+steps)%4]] = uvs[clockwise[i]]
	}
	return rotated
}

// uvRotation soma a rotação da face com a contribuição do blockstate
// (quando uvlock está desligado) e arredonda para 90 graus.
func uvRotation(dir util.Direction, faceRotation float64, opts Options) int {
	total := faceRotation
	if !opts.UVLock {
		switch dir {
		case util.DirUp:
			total += opts.Y
		case util.DirDown:
			total -= opts.Y
		case util.DirNorth, util.DirEast:
			total += opts.X
		case util.DirSouth, util.DirWest:
			total -= opts.X
		}
	}
	return util.SnapRightAngle(total)
}

// elementTransform gira o elemento em torno da origem (relativa ao centro do
// elemento), com reescala opcional, e só então o posiciona no bloco.
func elementTransform(center mgl32.Vec3, rot *elementRotation) mgl32.Mat4 {
	place := mgl32.Translate3D(center[0], center[1], center[2])
	if rot == nil {
		return place
	}
	o := rot.origin.Sub(center)
	toOrigin := mgl32.Translate3D(o[0], o[1], o[2])
	back := mgl32.Translate3D(-o[0], -o[1], -o[2])

	rad := mgl32.DegToRad(rot.angle)
	var r, scale mgl32.Mat4
	s := float32(1)
	if rot.rescale {
		if c := float32(math.Cos(float64(rad))); math.Abs(float64(c)) > 1e-6 {
			s = 1 / c
		}
	}
	switch rot.axis {
	case "x":
		r = mgl32.HomogRotate3DX(rad)
		scale = mgl32.Scale3D(1, s, s)
	case "y":
		r = mgl32.HomogRotate3DY(rad)
		scale = mgl32.Scale3D(s, 1, s)
	default:
		r = mgl32.HomogRotate3DZ(rad)
		scale = mgl32.Scale3D(s, s, 1)
	}
	return place.Mul4(toOrigin).Mul4(r).Mul4(scale).Mul4(back)
}

// elementRotation é a rotação já convertida para o espaço centrado.
type elementRotation struct {
	origin  mgl32.Vec3
	axis    string
	angle   float32
	rescale bool
}

// matrix isola a parte de rotação para girar normais.
func (r *elementRotation) matrix() mgl32.Mat4 {
	if r == nil {
		return mgl32.Ident4()
	}
	rad := mgl32.DegToRad(r.angle)
	switch r.axis {
	case "x":
		return mgl32.HomogRotate3DX(rad)
	case "y":
		return mgl32.HomogRotate3DY(rad)
	}
	return mgl32.HomogRotate3DZ(rad)
}
