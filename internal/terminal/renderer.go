package terminal

import (
	"image/color"
	"math"
	"sort"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/gdamore/tcell/v2"
)

// minVisibleAlpha hides nearly faded particles.
const minVisibleAlpha = 48

// turretGlyphs are indexed by the rotation octant, starting at +X and
// turning counter-clockwise.
var turretGlyphs = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

type quad struct {
	mat   game.Material
	pos   game.Vec3
	rot   float64
	size  game.Vec3
	layer game.Layer
}

// cellRenderer is the game.Renderer for a terminal frame.
type cellRenderer struct {
	quads []quad
}

var _ game.Renderer = (*cellRenderer)(nil)

func (r *cellRenderer) DrawQuad(m game.Material, pos game.Vec3, rotation float64, size game.Vec3, layer game.Layer) {
	r.quads = append(r.quads, quad{mat: m, pos: pos, rot: rotation, size: size, layer: layer})
}

func (r *cellRenderer) reset() {
	r.quads = r.quads[:0]
}

// flush writes queued quads to the screen in layer order, later layers
// overwriting earlier ones.
func (r *cellRenderer) flush(scr tcell.Screen, vp viewport) {
	sort.SliceStable(r.quads, func(i, j int) bool {
		return r.quads[i].layer < r.quads[j].layer
	})
	for _, q := range r.quads {
		if q.mat.Color.A < minVisibleAlpha {
			continue
		}
		style := tcell.StyleDefault.Foreground(rgb(q.mat.Color))
		switch q.mat.Texture {
		case game.TextureTankBase:
			fillFootprint(scr, vp, q, '█', style)
		default:
			x, y := vp.toCell(q.pos)
			if vp.inBounds(x, y) {
				scr.SetContent(x, y, glyphFor(q), nil, style)
			}
		}
	}
}

func fillFootprint(scr tcell.Screen, vp viewport, q quad, ch rune, style tcell.Style) {
	cx, cy := vp.cellsPerUnit()
	x0, y0 := vp.toCell(q.pos)
	hw := int(q.size.X * cx / 2)
	hh := int(q.size.Y * cy / 2)
	for y := y0 - hh; y <= y0+hh; y++ {
		for x := x0 - hw; x <= x0+hw; x++ {
			if vp.inBounds(x, y) {
				scr.SetContent(x, y, ch, nil, style)
			}
		}
	}
}

func glyphFor(q quad) rune {
	switch q.mat.Texture {
	case game.TextureTankTop:
		return turretGlyph(q.rot)
	case game.TextureCircle:
		if q.size.X >= 0.3 {
			return '●'
		}
		return '•'
	case game.TextureSquare:
		return '▪'
	case game.TextureCrosshair:
		return '+'
	case game.TextureGrid:
		return '·'
	default:
		return '?'
	}
}

func turretGlyph(rot float64) rune {
	octant := int(math.Round(rot/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return turretGlyphs[octant]
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
