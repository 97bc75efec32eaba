package terminal

import (
	"time"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/gdamore/tcell/v2"
)

// keyHold is how long a key counts as held after its last press event.
// Terminals report presses and autorepeat but never releases.
const keyHold = 300 * time.Millisecond

var runeBindings = map[rune]string{
	'w': "w", 'W': "w",
	'a': "a", 'A': "a",
	's': "s", 'S': "s",
	'd': "d", 'D': "d",
}

var arrowBindings = map[tcell.Key]string{
	tcell.KeyUp:    "w",
	tcell.KeyLeft:  "a",
	tcell.KeyDown:  "s",
	tcell.KeyRight: "d",
}

// termInput is the game.Input fed by tcell events. It is only touched from
// the host loop goroutine.
type termInput struct {
	vp      *viewport
	now     func() time.Time
	pressed map[string]time.Time

	mouseX, mouseY int
	buttons        tcell.ButtonMask
}

var _ game.Input = (*termInput)(nil)

func newTermInput(vp *viewport) *termInput {
	return &termInput{vp: vp, now: time.Now, pressed: make(map[string]time.Time)}
}

// press records a movement key and reports whether it was one.
func (in *termInput) press(key tcell.Key, r rune) bool {
	name, ok := arrowBindings[key]
	if !ok && key == tcell.KeyRune {
		name, ok = runeBindings[r]
	}
	if ok {
		in.pressed[name] = in.now()
	}
	return ok
}

func (in *termInput) setMouse(x, y int, buttons tcell.ButtonMask) {
	in.mouseX, in.mouseY = x, y
	in.buttons = buttons
}

func (in *termInput) Key(name string) bool {
	t, ok := in.pressed[name]
	return ok && in.now().Sub(t) < keyHold
}

func (in *termInput) MouseButton(id int) bool {
	switch id {
	case game.MouseLeft:
		return in.buttons&tcell.Button1 != 0
	case game.MouseRight:
		return in.buttons&tcell.Button2 != 0
	}
	return false
}

func (in *termInput) MouseWorldPosition() game.Vec3 {
	return in.vp.cam.ScreenToWorld(in.vp.toNDC(in.mouseX, in.mouseY))
}
