package game

import "math"

// Body is the collision capability of an entity: a circle in the XY plane.
// Trigger bodies report overlaps but are never pushed.
type Body struct {
	Pos     Vec3
	Radius  float64
	Trigger bool
}

// Overlaps reports whether the two circles interpenetrate. Touching is not overlap.
func Overlaps(a, b *Body) bool {
	total := a.Radius + b.Radius
	return b.Pos.Sub(a.Pos).SqrMagnitude() < total*total
}

// ResolveOverlap tests a against b and, when both are solid, pushes them apart
// along the line between their centres. Each body moves by the overlap scaled
// by the other body's share of the combined radius, so a small body yields more
// than a large one. Returns false when the circles do not overlap.
func ResolveOverlap(a, b *Body) bool {
	delta := b.Pos.Sub(a.Pos)
	delta.Z = 0
	sqr := delta.SqrMagnitude()

	total := a.Radius + b.Radius
	if sqr >= total*total {
		return false
	}
	if a.Trigger || b.Trigger {
		return true
	}

	dist := math.Sqrt(sqr)
	normal := Vec3{X: 1}
	if dist > 0 {
		normal = delta.Div(dist)
	}

	// Negative: how far the circles are inside each other.
	overlap := dist - total
	aShift := overlap * b.Radius / total
	bShift := overlap - aShift

	a.Pos = a.Pos.Add(normal.Mul(aShift))
	b.Pos = b.Pos.Add(normal.Mul(-bShift))
	return true
}
