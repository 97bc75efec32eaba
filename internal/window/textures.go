package window

import (
	"image/color"

	"github.com/Garsondee/tank-arena/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// texSize is the pixel size of the procedural textures. Quads scale them
// to world size, so this only sets sharpness.
const texSize = 64

// gridCellPx is the pixel size of one world unit inside the grid texture.
const gridCellPx = 16

var (
	white     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	trackGrey = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	treadGrey = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	hullShade = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// buildTextures draws every texture the simulation references. Textures
// are white or grey so the material colour tints them.
func buildTextures(tileUnits int) map[string]*ebiten.Image {
	return map[string]*ebiten.Image{
		game.TextureCircle:    circleTexture(),
		game.TextureSquare:    squareTexture(),
		game.TextureTankBase:  tankBaseTexture(),
		game.TextureTankTop:   tankTopTexture(),
		game.TextureCrosshair: crosshairTexture(),
		game.TextureGrid:      gridTexture(tileUnits),
	}
}

func circleTexture() *ebiten.Image {
	img := ebiten.NewImage(texSize, texSize)
	vector.FillCircle(img, texSize/2, texSize/2, texSize/2, white, true)
	return img
}

func squareTexture() *ebiten.Image {
	img := ebiten.NewImage(texSize, texSize)
	img.Fill(white)
	return img
}

// tankBaseTexture is a hull between two tracks, facing +X.
func tankBaseTexture() *ebiten.Image {
	img := ebiten.NewImage(texSize, texSize)
	const track = 14
	vector.FillRect(img, 0, 2, texSize, track, trackGrey, false)
	vector.FillRect(img, 0, texSize-2-track, texSize, track, trackGrey, false)
	for x := float32(2); x < texSize; x += 8 {
		vector.StrokeLine(img, x, 2, x, 2+track, 2, treadGrey, false)
		vector.StrokeLine(img, x, texSize-2-track, x, texSize-2, 2, treadGrey, false)
	}
	vector.FillRect(img, 6, track, texSize-12, texSize-2*track, white, false)
	vector.FillRect(img, texSize-14, track+4, 6, texSize-2*track-8, hullShade, false)
	return img
}

// tankTopTexture is a round turret with a barrel along +X.
func tankTopTexture() *ebiten.Image {
	img := ebiten.NewImage(texSize, texSize)
	vector.FillRect(img, texSize/2, texSize/2-4, texSize/2, 8, hullShade, false)
	vector.FillCircle(img, texSize/2, texSize/2, 15, white, true)
	vector.StrokeCircle(img, texSize/2, texSize/2, 15, 2, hullShade, true)
	return img
}

func crosshairTexture() *ebiten.Image {
	img := ebiten.NewImage(texSize, texSize)
	c := float32(texSize / 2)
	vector.StrokeCircle(img, c, c, c-6, 3, white, true)
	vector.StrokeLine(img, c, 0, c, c-10, 3, white, false)
	vector.StrokeLine(img, c, c+10, c, texSize, 3, white, false)
	vector.StrokeLine(img, 0, c, c-10, c, 3, white, false)
	vector.StrokeLine(img, c+10, c, texSize, c, 3, white, false)
	return img
}

// gridTexture covers one background tile: faint lines every world unit and
// a brighter border.
func gridTexture(tileUnits int) *ebiten.Image {
	if tileUnits <= 0 {
		tileUnits = 1
	}
	n := tileUnits * gridCellPx
	img := ebiten.NewImage(n, n)
	minor := color.RGBA{R: 38, G: 46, B: 38, A: 255}
	major := color.RGBA{R: 60, G: 74, B: 60, A: 255}
	for i := 1; i < tileUnits; i++ {
		p := float32(i * gridCellPx)
		vector.StrokeLine(img, p, 0, p, float32(n), 1, minor, false)
		vector.StrokeLine(img, 0, p, float32(n), p, 1, minor, false)
	}
	vector.StrokeRect(img, 0, 0, float32(n), float32(n), 2, major, false)
	return img
}
