package game

// Camera is an orthographic view centred on Position. Size is the half-height
// of the visible region in world units.
type Camera struct {
	Position Vec3
	Size     float64
	Aspect   float64
}

func NewCamera(aspect, size float64) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{Size: size, Aspect: aspect}
}

// SetAspect updates width/height after a host resize.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// HalfExtents returns the half-width and half-height of the visible region.
func (c *Camera) HalfExtents() (float64, float64) {
	return c.Size * c.Aspect, c.Size
}

// VisibleRect is what the player can currently see.
func (c *Camera) VisibleRect() Rect {
	hw, hh := c.HalfExtents()
	return Rect{
		MinX: c.Position.X - hw,
		MinY: c.Position.Y - hh,
		MaxX: c.Position.X + hw,
		MaxY: c.Position.Y + hh,
	}
}

// ActiveRect is the visible region grown by one full width and height on
// every side. Transient entities outside it are discarded.
func (c *Camera) ActiveRect() Rect {
	v := c.VisibleRect()
	return v.Expand(v.Width(), v.Height())
}

// ScreenToWorld maps normalised device coordinates (-1..1, +Y up) to world space.
func (c *Camera) ScreenToWorld(ndc Vec2) Vec3 {
	hw, hh := c.HalfExtents()
	return Vec3{X: c.Position.X + ndc.X*hw, Y: c.Position.Y + ndc.Y*hh}
}

// WorldToScreen is the inverse of ScreenToWorld.
func (c *Camera) WorldToScreen(p Vec3) Vec2 {
	hw, hh := c.HalfExtents()
	return Vec2{X: (p.X - c.Position.X) / hw, Y: (p.Y - c.Position.Y) / hh}
}

// Follow eases the camera toward target with exponential decay.
func (c *Camera) Follow(target Vec3, rate, dt float64) {
	t := Clamp(rate*dt, 0, 1)
	c.Position = LerpVec3(c.Position, target, t)
}
