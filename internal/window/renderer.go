package window

import (
	"image/color"
	"sort"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

type quad struct {
	mat   game.Material
	pos   game.Vec3
	rot   float64
	size  game.Vec3
	layer game.Layer
}

// quadBatch is the game.Renderer for one frame. Quads are queued during
// Simulation.Render and drawn in layer order by flush.
type quadBatch struct {
	quads []quad
}

var _ game.Renderer = (*quadBatch)(nil)

func (b *quadBatch) DrawQuad(m game.Material, pos game.Vec3, rotation float64, size game.Vec3, layer game.Layer) {
	b.quads = append(b.quads, quad{mat: m, pos: pos, rot: rotation, size: size, layer: layer})
}

func (b *quadBatch) reset() {
	b.quads = b.quads[:0]
}

// sort orders by layer, then depth. Equal keys keep submission order.
func (b *quadBatch) sort() {
	sort.SliceStable(b.quads, func(i, j int) bool {
		qi, qj := b.quads[i], b.quads[j]
		if qi.layer != qj.layer {
			return qi.layer < qj.layer
		}
		return qi.pos.Z < qj.pos.Z
	})
}

// flush draws every queued quad onto dst. Quads with an unknown texture or
// entirely off screen are skipped.
func (b *quadBatch) flush(dst *ebiten.Image, textures map[string]*ebiten.Image, vp viewport) {
	b.sort()
	ppu := vp.pixelsPerUnit()
	for _, q := range b.quads {
		img, ok := textures[q.mat.Texture]
		if !ok || !vp.onScreen(q.pos, q.size) {
			continue
		}
		tw := float64(img.Bounds().Dx())
		th := float64(img.Bounds().Dy())
		x, y := vp.toPixel(q.pos)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-tw/2, -th/2)
		op.GeoM.Scale(q.size.X*ppu/tw, q.size.Y*ppu/th)
		// World rotation is counter-clockwise with +Y up; screen Y points down.
		op.GeoM.Rotate(-q.rot)
		op.GeoM.Translate(x, y)
		op.ColorScale = tint(q.mat.Color)
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(img, op)
	}
}

// tint converts a straight-alpha colour into ebiten's premultiplied scale.
func tint(c color.RGBA) ebiten.ColorScale {
	var cs ebiten.ColorScale
	a := float32(c.A) / 255
	cs.Scale(float32(c.R)/255*a, float32(c.G)/255*a, float32(c.B)/255*a, a)
	return cs
}
