package game

import (
	"image/color"
	"time"
)

// Layer orders quads; the renderer sorts by layer then depth.
type Layer int

const (
	LayerBackground Layer = iota
	LayerDebris
	LayerTankBase
	LayerTankTop
	LayerBullet
	LayerEffect
	LayerCursor
)

// Texture names understood by every host.
const (
	TextureCircle    = "circle"
	TextureSquare    = "square"
	TextureTankBase  = "tank_base"
	TextureTankTop   = "tank_top"
	TextureCrosshair = "crosshair"
	TextureGrid      = "grid"
)

// GridTileSize is the world size of one TextureGrid quad.
const GridTileSize = tileSize

// Material is a tinted texture reference.
type Material struct {
	Texture string
	Color   color.RGBA
}

// Renderer queues textured quads. Batching and sorting belong to the host.
type Renderer interface {
	DrawQuad(m Material, pos Vec3, rotation float64, size Vec3, layer Layer)
}

// Mouse button ids passed to Input.MouseButton.
const (
	MouseLeft = iota
	MouseRight
)

// Input is polled once per tick.
type Input interface {
	Key(name string) bool
	MouseButton(id int) bool
	MouseWorldPosition() Vec3
}

// AudioOptions tune a single playback.
type AudioOptions struct {
	Volume float64 // linear gain, 1 = unchanged
	Loop   bool
	Delay  time.Duration
}

// AssetManager plays sounds. Failures are the implementation's problem.
type AssetManager interface {
	PlayAudio(name string, opts AudioOptions)
}

// Sound names played by the simulation.
const (
	SoundShoot    = "shoot"
	SoundHit      = "hit"
	SoundExplode  = "explode"
	SoundLevelUp  = "levelup"
	SoundSelect   = "select"
	SoundGameOver = "gameover"
	SoundMusic    = "music"
)

// ScoreKeeper tracks the session score and the persisted high score.
type ScoreKeeper interface {
	IncreaseScore(points int)
	Score() int
	Highscore() int
	IsNewHighscore() bool
	Reset()
}

type nopRenderer struct{}

func (nopRenderer) DrawQuad(Material, Vec3, float64, Vec3, Layer) {}

type nopInput struct{}

func (nopInput) Key(string) bool          { return false }
func (nopInput) MouseButton(int) bool     { return false }
func (nopInput) MouseWorldPosition() Vec3 { return Vec3{} }

type nopAssets struct{}

func (nopAssets) PlayAudio(string, AudioOptions) {}

// MemoryScore is a ScoreKeeper without persistence.
type MemoryScore struct {
	score     int
	highscore int
	newHigh   bool
}

// NewMemoryScore starts from a known high score.
func NewMemoryScore(highscore int) *MemoryScore {
	return &MemoryScore{highscore: highscore}
}

func (m *MemoryScore) IncreaseScore(points int) {
	m.score += points
	if m.score > m.highscore {
		m.highscore = m.score
		m.newHigh = true
	}
}

func (m *MemoryScore) Score() int           { return m.score }
func (m *MemoryScore) Highscore() int       { return m.highscore }
func (m *MemoryScore) IsNewHighscore() bool { return m.newHigh }

func (m *MemoryScore) Reset() {
	m.score = 0
	m.newHigh = false
}
