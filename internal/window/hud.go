package window

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// hudScale is the integer upscale applied to the HUD buffer.
const hudScale = 2

const (
	lineH      = 14 // basicfont line height at 1x
	barW       = 120
	barH       = 12
	panelW     = 150
	panelH     = 56
	panelGap   = 16
	feedLines  = 6
	hudPadding = 6
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

var (
	panelFill   = color.RGBA{R: 6, G: 10, B: 6, A: 210}
	panelBorder = color.RGBA{R: 60, G: 100, B: 60, A: 180}
	textColor   = color.RGBA{R: 230, G: 230, B: 220, A: 255}
	dimText     = color.RGBA{R: 150, G: 160, B: 150, A: 255}
	enemyText   = color.RGBA{R: 230, G: 120, B: 110, A: 255}
	playerText  = color.RGBA{R: 120, G: 190, B: 240, A: 255}
	highlight   = color.RGBA{R: 250, G: 210, B: 80, A: 255}
)

func drawText(dst *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, hudFace, op)
}

func drawPanel(dst *ebiten.Image, r image.Rectangle) {
	x, y := float32(r.Min.X), float32(r.Min.Y)
	w, h := float32(r.Dx()), float32(r.Dy())
	vector.FillRect(dst, x, y, w, h, panelFill, false)
	vector.StrokeRect(dst, x, y, w, h, 1, panelBorder, false)
}

// offerPanels lays out the upgrade choices centred in a HUD buffer of the
// given size.
func offerPanels(bufW, bufH int) [2]image.Rectangle {
	total := 2*panelW + panelGap
	x0 := (bufW - total) / 2
	y0 := (bufH - panelH) / 2
	return [2]image.Rectangle{
		image.Rect(x0, y0, x0+panelW, y0+panelH),
		image.Rect(x0+panelW+panelGap, y0, x0+total, y0+panelH),
	}
}

// offerAt returns the offer panel under a screen-space point, or -1.
func offerAt(screenX, screenY, bufW, bufH int) int {
	p := image.Pt(screenX/hudScale, screenY/hudScale)
	for i, r := range offerPanels(bufW, bufH) {
		if p.In(r) {
			return i
		}
	}
	return -1
}

// drawHUD renders bars, score, feed and the modal screens into hudBuf, then
// blits it at hudScale.
func (g *Game) drawHUD(screen *ebiten.Image) {
	buf := g.hudBuf
	buf.Clear()
	bw, bh := buf.Bounds().Dx(), buf.Bounds().Dy()

	y := float64(hudPadding)
	for _, b := range g.sim.Bars() {
		drawBar(buf, b, hudPadding, y)
		y += barH + 4
	}
	keeper := g.sim.ScoreKeeper()
	drawText(buf, fmt.Sprintf("Score %d  Best %d  Level %d", keeper.Score(), keeper.Highscore(), g.sim.Level()),
		hudPadding, y, textColor)

	g.drawFeed(buf, bw)

	switch g.sim.State() {
	case game.StateWaitingToStart:
		drawCentred(buf, "WASD to move, mouse to aim, click to fire", bw, bh/2+40, dimText)
	case game.StateLevelingUp:
		g.drawOffers(buf, bw, bh)
	case game.StateFinished:
		g.drawEndScreen(buf, bw, bh)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(hudScale, hudScale)
	screen.DrawImage(buf, op)
}

func drawBar(dst *ebiten.Image, b *game.Bar, x, y float64) {
	fx, fy := float32(x), float32(y)
	vector.FillRect(dst, fx, fy, barW, barH, b.Background, false)
	vector.FillRect(dst, fx, fy, float32(barW*game.Clamp(b.Percent(), 0, 1)), barH, b.Foreground, false)
	vector.StrokeRect(dst, fx, fy, barW, barH, 1, panelBorder, false)
	drawText(dst, b.Text(), x+barW+6, y-1, textColor)
}

func (g *Game) drawFeed(dst *ebiten.Image, bufW int) {
	entries := g.sim.Feed().Last(feedLines)
	x := float64(bufW - 170)
	for i, e := range entries {
		c := enemyText
		if e.Team == game.TeamPlayer {
			c = playerText
		}
		drawText(dst, fmt.Sprintf("%s %s", e.Label, e.Message), x, float64(hudPadding+i*lineH), c)
	}
}

func (g *Game) drawOffers(dst *ebiten.Image, bufW, bufH int) {
	offers, ok := g.sim.Offers()
	if !ok {
		return
	}
	panels := offerPanels(bufW, bufH)
	drawCentred(dst, "LEVEL UP - choose an upgrade", bufW, panels[0].Min.Y-lineH-4, highlight)
	for i, r := range panels {
		drawPanel(dst, r)
		drawText(dst, fmt.Sprintf("[%d]", i+1), float64(r.Min.X+4), float64(r.Min.Y+4), highlight)
		for j, msg := range offers[i].Messages(g.sim.Stats()) {
			drawText(dst, msg, float64(r.Min.X+4), float64(r.Min.Y+4+(j+1)*lineH), textColor)
		}
	}
}

func (g *Game) drawEndScreen(dst *ebiten.Image, bufW, bufH int) {
	keeper := g.sim.ScoreKeeper()
	lines := []string{
		"DESTROYED",
		fmt.Sprintf("Score %d", keeper.Score()),
		fmt.Sprintf("Highscore %d", keeper.Highscore()),
		"Grade " + game.GradeSession(g.sim.Report()).Grade,
	}
	if keeper.IsNewHighscore() {
		lines = append(lines, "New highscore!")
	}
	lines = append(lines, "", "R restart   C copy report")
	if g.status != "" {
		lines = append(lines, g.status)
	}
	top := bufH/2 - len(lines)*lineH/2
	for i, l := range lines {
		c := textColor
		if i == 0 {
			c = enemyText
		}
		drawCentred(dst, l, bufW, top+i*lineH, c)
	}
}

func drawCentred(dst *ebiten.Image, s string, bufW, y int, c color.Color) {
	w, _ := text.Measure(s, hudFace, lineH)
	drawText(dst, s, (float64(bufW)-w)/2, float64(y), c)
}

// formatSessionReport renders a finished session for the clipboard.
func formatSessionReport(r game.SessionReport, highscore int, window *game.WindowReport) string {
	var sb strings.Builder
	sb.WriteString("Tank Arena session\n")
	fmt.Fprintf(&sb, "Outcome:      %s\n", r.Outcome())
	fmt.Fprintf(&sb, "Score:        %d (best %d)\n", r.Score, highscore)
	fmt.Fprintf(&sb, "Level:        %d\n", r.Level)
	fmt.Fprintf(&sb, "Kills:        %d\n", r.Kills)
	fmt.Fprintf(&sb, "Shots/Hits:   %d/%d (%.0f%%)\n", r.Shots, r.Hits, r.Accuracy()*100)
	fmt.Fprintf(&sb, "Damage taken: %d\n", r.DamageTaken)
	fmt.Fprintf(&sb, "Survived:     %.1fs\n", r.SurvivedSeconds)
	sb.WriteString("\n")
	sb.WriteString(game.GradeSession(r).Format())
	sb.WriteString("\n")
	sb.WriteString(window.Format())
	return sb.String()
}
