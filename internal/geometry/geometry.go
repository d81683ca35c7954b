package geometry

import "math"

// Point represents a 2D point in frame pixel coordinates
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Angle returns the orientation of the segment a->b.
// The y term is a.Y-b.Y while the x term is b.X-a.X, so a level pair gives 0
// and the renderer rotates by the negated value.
func Angle(a, b Point) float64 {
	return math.Atan2(a.Y-b.Y, b.X-a.X)
}

// Midpoint returns the point halfway between a and b
func Midpoint(a, b Point) Point {
	return Point{
		X: (a.X + b.X) / 2,
		Y: (a.Y + b.Y) / 2,
	}
}
