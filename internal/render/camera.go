package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"BlockVision/shared/util"
)

// OrbitCamera gira em volta de um alvo fixo, com zoom e rotação suavizados.
type OrbitCamera struct {
	RLCamera rl.Camera3D

	MinZoom      float32
	MaxZoom      float32
	RotateSpeed  float32
	ZoomSpeed    float32
	SmoothFactor float32 // 0.0 a 1.0 (menor é mais suave)

	Target mgl32.Vec3

	TargetZoom   float32
	TargetAngleY float32 // Azimute (radianos)
	TargetAngleX float32 // Elevação (radianos, negativo olha de cima)

	currentZoom   float32
	currentAngleY float32
	currentAngleX float32
}

// NewOrbitCamera cria a câmera olhando para a origem em ângulo isométrico.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		MinZoom:      1.0,
		MaxZoom:      20.0,
		RotateSpeed:  2.0,
		ZoomSpeed:    0.5,
		SmoothFactor: 0.2,
		TargetZoom:   3.0,
		TargetAngleY: 45.0 * rl.Deg2rad,
		TargetAngleX: -30.0 * rl.Deg2rad,
	}
	c.currentZoom, c.currentAngleY, c.currentAngleX = c.TargetZoom, c.TargetAngleY, c.TargetAngleX
	c.RLCamera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}
	c.apply()
	return c
}

// Frame ajusta alvo e zoom para enquadrar a caixa dada.
func (c *OrbitCamera) Frame(min, max mgl32.Vec3) {
	c.Target = min.Add(max).Mul(0.5)
	size := max.Sub(min).Len()
	c.TargetZoom = mgl32.Clamp(size*2, c.MinZoom, c.MaxZoom)
	c.currentZoom = c.TargetZoom
	c.apply()
}

// Update interpola o estado atual em direção ao alvo. Chamado a cada frame.
func (c *OrbitCamera) Update(dt float32) {
	factor := c.SmoothFactor * 60.0 * dt // Normaliza para 60 FPS
	if factor > 1.0 {
		factor = 1.0
	}
	c.currentZoom = util.Lerp(c.currentZoom, c.TargetZoom, factor)
	c.currentAngleY = util.Lerp(c.currentAngleY, c.TargetAngleY, factor)
	c.currentAngleX = util.Lerp(c.currentAngleX, c.TargetAngleX, factor)
	c.apply()
}

// Position calcula a posição da câmera a partir dos ângulos e do zoom atuais.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cosX := float32(math.Cos(float64(c.currentAngleX)))
	sinX := float32(math.Sin(float64(c.currentAngleX)))
	cosY := float32(math.Cos(float64(c.currentAngleY)))
	sinY := float32(math.Sin(float64(c.currentAngleY)))
	offset := mgl32.Vec3{cosX * sinY, -sinX, cosX * cosY}.Mul(c.currentZoom)
	return c.Target.Add(offset)
}

func (c *OrbitCamera) apply() {
	p := c.Position()
	c.RLCamera.Position = rl.Vector3{X: p[0], Y: p[1], Z: p[2]}
	c.RLCamera.Target = rl.Vector3{X: c.Target[0], Y: c.Target[1], Z: c.Target[2]}
}

// HandleInput trata scroll (zoom), botão esquerdo (órbita) e setas.
func (c *OrbitCamera) HandleInput(dt float32) {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.TargetZoom = mgl32.Clamp(c.TargetZoom-wheel*c.ZoomSpeed, c.MinZoom, c.MaxZoom)
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		c.TargetAngleY -= delta.X * c.RotateSpeed * 0.005
		c.TargetAngleX -= delta.Y * c.RotateSpeed * 0.005
	}
	step := c.RotateSpeed * dt
	if rl.IsKeyDown(rl.KeyLeft) {
		c.TargetAngleY -= step
	}
	if rl.IsKeyDown(rl.KeyRight) {
		c.TargetAngleY += step
	}
	if rl.IsKeyDown(rl.KeyUp) {
		c.TargetAngleX -= step
	}
	if rl.IsKeyDown(rl.KeyDown) {
		c.TargetAngleX += step
	}
	c.clampElevation()
}

// clampElevation mantém a câmera entre -89 e +89 graus para não virar.
func (c *OrbitCamera) clampElevation() {
	const limit = 89.0 * rl.Deg2rad
	c.TargetAngleX = mgl32.Clamp(c.TargetAngleX, -limit, limit)
}
