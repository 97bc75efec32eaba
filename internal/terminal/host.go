// Package terminal hosts the simulation on a tcell screen.
package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

const commitTimeout = 2 * time.Second

// SessionRecorder persists finished sessions.
type SessionRecorder interface {
	Commit(ctx context.Context, r game.SessionReport) error
}

// Options configure a Host.
type Options struct {
	TickRate int
	Recorder SessionRecorder // optional
	Log      zerolog.Logger
}

var (
	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	accentStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	dangerStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// Host drives a Simulation from a tcell event loop.
type Host struct {
	screen   tcell.Screen
	sim      *game.Simulation
	renderer cellRenderer
	input    *termInput
	vp       viewport
	recorder SessionRecorder
	log      zerolog.Logger
	tickRate int
}

// New binds sim to an initialised screen.
func New(screen tcell.Screen, sim *game.Simulation, opts Options) *Host {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	h := &Host{
		screen:   screen,
		sim:      sim,
		recorder: opts.Recorder,
		log:      opts.Log,
		tickRate: opts.TickRate,
	}
	h.vp.cam = sim.Camera()
	h.resize()
	h.input = newTermInput(&h.vp)
	sim.SetInput(h.input)
	return h
}

func (h *Host) resize() {
	cols, rows := h.screen.Size()
	h.vp.cols, h.vp.rows = cols, rows
	h.sim.Camera().SetAspect(h.vp.cameraAspect())
}

// Run ticks and draws until ctx is done or the player quits.
func (h *Host) Run(ctx context.Context) error {
	h.screen.EnableMouse()
	h.screen.HideCursor()

	ticker := time.NewTicker(time.Second / time.Duration(h.tickRate))
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	dt := 1 / float64(h.tickRate)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			if !h.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			h.step(dt)
			h.draw()
		}
	}
}

func (h *Host) step(dt float64) {
	h.sim.Tick(dt)
	for _, ev := range h.sim.DrainEvents() {
		switch ev.Kind {
		case game.EventSessionFinished:
			h.log.Info().Int("score", ev.Score).Bool("newHighscore", ev.NewHighscore).Msg("Session finished")
			h.commit(ev.Report)
		case game.EventLevelUp:
			h.log.Info().Int("level", ev.Level).Msg("Level up")
		}
	}
}

func (h *Host) commit(r game.SessionReport) {
	if h.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()
	if err := h.recorder.Commit(ctx, r); err != nil {
		h.log.Warn().Err(err).Msg("Highscore not saved")
	}
}

// handleEvent returns false when the player asked to quit.
func (h *Host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return h.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		h.input.setMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		h.screen.Sync()
		h.resize()
	}
	return true
}

// handleKey returns false for the quit keys.
func (h *Host) handleKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC {
		return false
	}
	if h.input.press(key, r) || key != tcell.KeyRune {
		return true
	}
	h.handleCommand(r)
	return true
}

func (h *Host) handleCommand(r rune) {
	switch h.sim.State() {
	case game.StateLevelingUp:
		if r == '1' || r == '2' {
			if err := h.sim.ChooseUpgrade(int(r - '1')); err != nil {
				h.log.Debug().Err(err).Msg("Upgrade choice ignored")
			}
		}
	case game.StateFinished:
		if r == 'r' || r == 'R' {
			h.sim.Restart()
		}
	}
}

func (h *Host) draw() {
	h.screen.Clear()
	h.renderer.reset()
	h.sim.Render(&h.renderer)
	h.renderer.flush(h.screen, h.vp)
	h.drawHUD()
	h.screen.Show()
}

func (h *Host) drawHUD() {
	x := 0
	for _, b := range h.sim.Bars() {
		x = drawString(h.screen, x, 0, fmt.Sprintf("%s %s  ", b.Text(), meter(b.Percent(), 10)), hudStyle)
	}
	keeper := h.sim.ScoreKeeper()
	drawString(h.screen, x, 0, fmt.Sprintf("Score %d  Best %d  Level %d", keeper.Score(), keeper.Highscore(), h.sim.Level()), accentStyle)

	entries := h.sim.Feed().Last(3)
	for i, e := range entries {
		drawString(h.screen, 0, h.vp.rows-len(entries)+i, fmt.Sprintf("%s %s", e.Label, e.Message), dimStyle)
	}

	mid := h.vp.rows / 2
	switch h.sim.State() {
	case game.StateWaitingToStart:
		drawCentred(h.screen, h.vp.cols, mid+2, "WASD to move, mouse to aim and fire, Esc to quit", dimStyle)
	case game.StateLevelingUp:
		offers, ok := h.sim.Offers()
		if !ok {
			return
		}
		drawCentred(h.screen, h.vp.cols, mid-3, "LEVEL UP - press 1 or 2", accentStyle)
		for i, o := range offers {
			msgs := o.Messages(h.sim.Stats())
			drawCentred(h.screen, h.vp.cols, mid-1+i*2, fmt.Sprintf("[%d] %s, %s", i+1, msgs[0], msgs[1]), hudStyle)
		}
	case game.StateFinished:
		drawCentred(h.screen, h.vp.cols, mid-2, "DESTROYED", dangerStyle)
		drawCentred(h.screen, h.vp.cols, mid, fmt.Sprintf("Score %d  Highscore %d", keeper.Score(), keeper.Highscore()), hudStyle)
		if keeper.IsNewHighscore() {
			drawCentred(h.screen, h.vp.cols, mid+1, "New highscore!", accentStyle)
		}
		grade := game.GradeSession(h.sim.Report())
		drawCentred(h.screen, h.vp.cols, mid+2, fmt.Sprintf("Grade %s (%.0f)", grade.Grade, grade.Score), hudStyle)
		drawCentred(h.screen, h.vp.cols, mid+4, "R restart   Esc quit", dimStyle)
	}
}

// meter renders a fill fraction as a fixed-width bar.
func meter(pct float64, width int) string {
	filled := int(game.Clamp(pct, 0, 1)*float64(width) + 0.5)
	buf := make([]rune, width+2)
	buf[0], buf[width+1] = '[', ']'
	for i := 0; i < width; i++ {
		buf[i+1] = '·'
		if i < filled {
			buf[i+1] = '#'
		}
	}
	return string(buf)
}

// drawString writes s from (x, y) and returns the column after it.
func drawString(scr tcell.Screen, x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		scr.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func drawCentred(scr tcell.Screen, cols, y int, s string, style tcell.Style) {
	drawString(scr, (cols-len([]rune(s)))/2, y, s, style)
}
