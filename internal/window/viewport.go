package window

import "github.com/Garsondee/tank-arena/internal/game"

// viewport maps between world units and window pixels for the camera.
type viewport struct {
	cam  *game.Camera
	w, h float64
}

// pixelsPerUnit is constant across both axes because the camera aspect
// tracks the window aspect.
func (vp viewport) pixelsPerUnit() float64 {
	if vp.cam.Size <= 0 {
		return 1
	}
	return vp.h / (2 * vp.cam.Size)
}

// toPixel maps a world point to window pixels, +Y down.
func (vp viewport) toPixel(p game.Vec3) (float64, float64) {
	ndc := vp.cam.WorldToScreen(p)
	return (ndc.X + 1) / 2 * vp.w, (1 - ndc.Y) / 2 * vp.h
}

// toNDC maps window pixels to normalised device coordinates, +Y up.
func (vp viewport) toNDC(px, py float64) game.Vec2 {
	if vp.w <= 0 || vp.h <= 0 {
		return game.Vec2{}
	}
	return game.Vec2{X: px/vp.w*2 - 1, Y: 1 - py/vp.h*2}
}

// onScreen reports whether a quad of the given size at p can touch the window.
func (vp viewport) onScreen(p, size game.Vec3) bool {
	x, y := vp.toPixel(p)
	r := (size.X + size.Y) * vp.pixelsPerUnit()
	return x+r >= 0 && y+r >= 0 && x-r <= vp.w && y-r <= vp.h
}
