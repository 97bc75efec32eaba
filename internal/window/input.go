package window

import (
	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

// keyBindings maps the key names the simulation polls to physical keys.
var keyBindings = map[string][]ebiten.Key{
	"w": {ebiten.KeyW, ebiten.KeyArrowUp},
	"a": {ebiten.KeyA, ebiten.KeyArrowLeft},
	"s": {ebiten.KeyS, ebiten.KeyArrowDown},
	"d": {ebiten.KeyD, ebiten.KeyArrowRight},
}

var mouseBindings = map[int]ebiten.MouseButton{
	game.MouseLeft:  ebiten.MouseButtonLeft,
	game.MouseRight: ebiten.MouseButtonRight,
}

// ebitenInput is the game.Input for the desktop window.
type ebitenInput struct {
	vp *viewport
}

var _ game.Input = (*ebitenInput)(nil)

func (in *ebitenInput) Key(name string) bool {
	for _, k := range keyBindings[name] {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func (in *ebitenInput) MouseButton(id int) bool {
	b, ok := mouseBindings[id]
	return ok && ebiten.IsMouseButtonPressed(b)
}

func (in *ebitenInput) MouseWorldPosition() game.Vec3 {
	x, y := ebiten.CursorPosition()
	return in.vp.cam.ScreenToWorld(in.vp.toNDC(float64(x), float64(y)))
}
