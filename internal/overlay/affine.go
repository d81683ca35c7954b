package overlay

import (
	"math"

	"github.com/dudu/glasscam/internal/geometry"
)

// Affine is a 2x3 transform in canvas order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that leaves points unchanged
var Identity = Affine{A: 1, D: 1}

func Translation(tx, ty float64) Affine {
	return Affine{A: 1, D: 1, E: tx, F: ty}
}

// Rotation rotates clockwise on screen (y grows downward) for positive angles
func Rotation(rad float64) Affine {
	sin, cos := math.Sincos(rad)
	return Affine{A: cos, B: sin, C: -sin, D: cos}
}

func Scaling(sx, sy float64) Affine {
	return Affine{A: sx, D: sy}
}

// Mul returns m∘n, the transform that applies n first and then m
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply maps a point
func (m Affine) Apply(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Det is the determinant of the linear part
func (m Affine) Det() float64 {
	return m.A*m.D - m.B*m.C
}
