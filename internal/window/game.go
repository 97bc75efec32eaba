// Package window hosts the simulation in a desktop window.
package window

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
)

// reportIntervalTicks is how often the arena reporter samples (~1s at 60 TPS).
const reportIntervalTicks = 60

// commitTimeout bounds the score store write on session end.
const commitTimeout = 2 * time.Second

var backgroundColor = color.RGBA{R: 18, G: 24, B: 18, A: 255}

// SessionRecorder persists finished sessions.
type SessionRecorder interface {
	Commit(ctx context.Context, r game.SessionReport) error
}

// Options configure a Game.
type Options struct {
	TickRate int
	Width    int
	Height   int
	Recorder SessionRecorder // optional
	Log      zerolog.Logger
}

// Game implements ebiten.Game around a Simulation.
type Game struct {
	sim      *game.Simulation
	input    *ebitenInput
	batch    quadBatch
	textures map[string]*ebiten.Image
	vp       viewport
	hudBuf   *ebiten.Image
	reporter *game.Reporter
	recorder SessionRecorder
	log      zerolog.Logger

	width  int
	height int
	dt     float64

	showDebug bool
	status    string // transient end-screen message
}

// New wires the simulation to ebiten input and rendering.
func New(sim *game.Simulation, opts Options) *Game {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	g := &Game{
		sim:      sim,
		textures: buildTextures(int(game.GridTileSize)),
		reporter: game.NewReporter(0),
		recorder: opts.Recorder,
		log:      opts.Log,
		dt:       1 / float64(opts.TickRate),
	}
	g.resize(opts.Width, opts.Height)
	g.input = &ebitenInput{vp: &g.vp}
	sim.SetInput(g.input)
	return g
}

func (g *Game) resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if w == g.width && h == g.height && g.hudBuf != nil {
		return
	}
	g.width, g.height = w, h
	g.vp = viewport{cam: g.sim.Camera(), w: float64(w), h: float64(h)}
	g.sim.Camera().SetAspect(float64(w) / float64(h))
	if g.hudBuf != nil {
		g.hudBuf.Deallocate()
	}
	g.hudBuf = ebiten.NewImage(w/hudScale+1, h/hudScale+1)
}

func (g *Game) Update() error {
	// Modal input first so a choice lands before the tick that resumes play.
	g.handleInput()

	g.sim.Tick(g.dt)
	g.handleEvents(g.sim.DrainEvents())

	if g.sim.TickCount()%reportIntervalTicks == 0 {
		g.reporter.Collect(g.sim)
	}
	return nil
}

// handleInput processes edge-triggered host keys.
func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.showDebug = !g.showDebug
	}

	switch g.sim.State() {
	case game.StateLevelingUp:
		choice := -1
		switch {
		case inpututil.IsKeyJustPressed(ebiten.Key1), inpututil.IsKeyJustPressed(ebiten.KeyNumpad1):
			choice = 0
		case inpututil.IsKeyJustPressed(ebiten.Key2), inpututil.IsKeyJustPressed(ebiten.KeyNumpad2):
			choice = 1
		case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
			x, y := ebiten.CursorPosition()
			choice = offerAt(x, y, g.hudBuf.Bounds().Dx(), g.hudBuf.Bounds().Dy())
		}
		if choice >= 0 {
			if err := g.sim.ChooseUpgrade(choice); err != nil {
				g.log.Debug().Err(err).Int("choice", choice).Msg("Upgrade choice ignored")
			}
		}
	case game.StateFinished:
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			g.sim.Restart()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyC) {
			g.copyReport()
		}
	}
}

func (g *Game) handleEvents(events []game.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case game.EventLevelUp:
			g.log.Info().Int("level", ev.Level).Msg("Level up")
		case game.EventSessionFinished:
			g.log.Info().
				Int("score", ev.Score).
				Int("highscore", ev.Highscore).
				Bool("newHighscore", ev.NewHighscore).
				Msg("Session finished")
			if g.sim.State() == game.StateFinished {
				g.reporter.Collect(g.sim)
			}
			g.commit(ev.Report)
		case game.EventSessionRestarted:
			g.status = ""
			g.reporter = game.NewReporter(0)
			g.log.Info().Msg("Session restarted")
		}
	}
}

func (g *Game) commit(r game.SessionReport) {
	if g.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()
	if err := g.recorder.Commit(ctx, r); err != nil {
		g.status = "highscore not saved"
	}
}

func (g *Game) copyReport() {
	report := formatSessionReport(g.sim.Report(), g.sim.ScoreKeeper().Highscore(), g.reporter.WindowSummary())
	if err := clipboard.WriteAll(report); err != nil {
		g.log.Warn().Err(err).Msg("Clipboard unavailable")
		g.status = "clipboard unavailable"
		return
	}
	g.status = "report copied"
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	g.batch.reset()
	g.sim.Render(&g.batch)
	g.batch.flush(screen, g.textures, g.vp)

	g.drawHUD(screen)

	if g.showDebug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS %.0f  FPS %.0f  entities %d  scale %.2f",
			ebiten.ActualTPS(), ebiten.ActualFPS(), len(g.sim.Entities()), g.sim.TimeScale()),
			4, g.height-16)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.resize(outsideWidth, outsideHeight)
	return g.width, g.height
}
