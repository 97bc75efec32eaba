package game

import (
	"math"
	"math/rand"
)

// Vec2 is a 2D point, used for normalised screen coordinates.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a world-space position. Z is only used as a render depth hint.
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Mul(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}
func (a Vec3) Div(s float64) Vec3 {
	return Vec3{a.X / s, a.Y / s, a.Z / s}
}

// SqrMagnitude is the squared length. Cheaper than Magnitude for comparisons.
func (a Vec3) SqrMagnitude() float64 { return a.X*a.X + a.Y*a.Y + a.Z*a.Z }
func (a Vec3) Magnitude() float64    { return math.Sqrt(a.SqrMagnitude()) }

// IsZero reports whether all components are exactly zero.
func (a Vec3) IsZero() bool { return a.X == 0 && a.Y == 0 && a.Z == 0 }

// Normalize returns the unit vector. The zero vector is returned unchanged.
func (a Vec3) Normalize() Vec3 {
	m := a.Magnitude()
	if m == 0 {
		return a
	}
	return a.Div(m)
}

// Heading is the planar angle of the vector in radians.
func (a Vec3) Heading() float64 { return math.Atan2(a.Y, a.X) }

// FromAngle returns the planar unit vector pointing along angle.
func FromAngle(angle float64) Vec3 {
	return Vec3{X: math.Cos(angle), Y: math.Sin(angle)}
}

// LerpVec3 interpolates component-wise without clamping t.
func LerpVec3(a, b Vec3, t float64) Vec3 {
	return Vec3{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.Z, b.Z, t)}
}

func Lerp(a, b, t float64) float64 {
	return (b-a)*t + a
}

func LerpClamped(a, b, t float64) float64 {
	return Lerp(a, b, Clamp(t, 0, 1))
}

func InverseLerp(a, b, v float64) float64 {
	return (v - a) / (b - a)
}

// Remap maps v from the range [a1,b1] onto [a2,b2].
func Remap(a1, b1, a2, b2, v float64) float64 {
	return Lerp(a2, b2, InverseLerp(a1, b1, v))
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AngleBetween returns the shortest signed rotation from a to b, wrapped to (-π, π].
func AngleBetween(a, b float64) float64 {
	d := math.Mod(b-a+math.Pi, 2*math.Pi)
	if d <= 0 {
		d += 2 * math.Pi
	}
	return d - math.Pi
}

func FloorToNearest(x, n float64) float64 { return n * math.Floor(x/n) }
func CeilToNearest(x, n float64) float64  { return n * math.Ceil(x/n) }

// randRange returns a uniform float in [lo, hi).
func randRange(rng *rand.Rand, lo, hi float64) float64 {
	return Lerp(lo, hi, rng.Float64())
}

// randIntInclusive returns a uniform int in [lo, hi].
func randIntInclusive(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// --- Easing ---

// Curve maps normalised time [0,1] onto normalised progress.
type Curve func(t float64) float64

func Linear(t float64) float64 { return t }

func EaseOutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func EaseOutBounce(t float64) float64 {
	const n1 = 7.5625
	const d1 = 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

func EaseInBounce(t float64) float64 {
	return 1 - EaseOutBounce(1-t)
}

// Rect is an axis-aligned world rectangle.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Contains reports whether p lies strictly inside r.
func (r Rect) Contains(p Vec3) bool {
	return p.X > r.MinX && p.X < r.MaxX && p.Y > r.MinY && p.Y < r.MaxY
}

// Expand grows r by dx on the left and right and dy on the top and bottom.
func (r Rect) Expand(dx, dy float64) Rect {
	return Rect{MinX: r.MinX - dx, MinY: r.MinY - dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}
