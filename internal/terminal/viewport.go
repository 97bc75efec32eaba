package terminal

import "github.com/Garsondee/tank-arena/internal/game"

// cellAspect is the height of a terminal cell in units of its width.
const cellAspect = 2.0

// viewport maps between world units and terminal cells.
type viewport struct {
	cam        *game.Camera
	cols, rows int
}

// cameraAspect is the world aspect that fills cols x rows cells.
func (vp viewport) cameraAspect() float64 {
	if vp.rows <= 0 {
		return 1
	}
	return float64(vp.cols) / (float64(vp.rows) * cellAspect)
}

func (vp viewport) toCell(p game.Vec3) (int, int) {
	ndc := vp.cam.WorldToScreen(p)
	x := (ndc.X + 1) / 2 * float64(vp.cols)
	y := (1 - ndc.Y) / 2 * float64(vp.rows)
	return floorInt(x), floorInt(y)
}

// toNDC maps the centre of a cell to normalised device coordinates.
func (vp viewport) toNDC(cx, cy int) game.Vec2 {
	if vp.cols <= 0 || vp.rows <= 0 {
		return game.Vec2{}
	}
	x := (float64(cx) + 0.5) / float64(vp.cols)
	y := (float64(cy) + 0.5) / float64(vp.rows)
	return game.Vec2{X: x*2 - 1, Y: 1 - y*2}
}

// cellsPerUnit returns how many columns and rows one world unit spans.
func (vp viewport) cellsPerUnit() (float64, float64) {
	hw, hh := vp.cam.HalfExtents()
	if hw <= 0 || hh <= 0 {
		return 0, 0
	}
	return float64(vp.cols) / (2 * hw), float64(vp.rows) / (2 * hh)
}

func (vp viewport) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < vp.cols && y < vp.rows
}

func floorInt(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}
