package game

import (
	"fmt"
	"math"
	"math/rand"
)

// harnessDT is the fixed step used by the headless harness (60 TPS).
const harnessDT = 1.0 / 60.0

// TestSim is a headless simulation harness used by tests and the headless
// report. It drives a Simulation with scripted or autopilot input, a
// recording asset manager and structured logging.
type TestSim struct {
	Sim       *Simulation
	SimLog    *SimLog
	Input     *ScriptedInput
	Assets    *RecordingAssets
	Score     *MemoryScore
	Autopilot *Autopilot
	DT        float64

	rng          *rand.Rand
	stats        *StatTable
	aspect       float64
	noSpawner    bool
	autopilot    bool
	playerPos    *Vec3
	enemies      []Vec3
	spawnRetries int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // seed, stats, camera, verbose: applied before the simulation exists
	simOptEntity                      // place tanks: applied after construction
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithStat overrides a stat's starting value. Restarts keep the override.
func WithStat(key string, value int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		if s, ok := ts.stats.Get(key); ok {
			s.Start = value
			s.SetValue(value)
		}
	}}
}

// WithCameraAspect sets the view aspect ratio (width / height).
func WithCameraAspect(aspect float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.aspect = aspect
	}}
}

// WithSpawnRetries overrides how many spawn points are tried per tick.
func WithSpawnRetries(n int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.spawnRetries = n
	}}
}

// WithoutSpawner disables the enemy top-up so tests control the population.
func WithoutSpawner() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.noSpawner = true
	}}
}

// WithAutopilot drives the player with the Autopilot instead of scripted input.
func WithAutopilot() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.autopilot = true
	}}
}

// WithPlayerAt moves the player tank to (x, y).
func WithPlayerAt(x, y float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		p := Vec3{X: x, Y: y}
		ts.playerPos = &p
		ts.Sim.player.Body.Pos = p
		ts.Sim.camera.Position = p
	}}
}

// WithEnemyAt spawns an enemy tank at (x, y).
func WithEnemyAt(x, y float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.enemies = append(ts.enemies, Vec3{X: x, Y: y})
		ts.Sim.SpawnEnemy(Vec3{X: x, Y: y})
	}}
}

// NewTestSim constructs a TestSim from the given options in two ordered passes:
//  1. Infrastructure (seed, stats, camera, verbose)
//  2. Build the Simulation
//  3. Entities
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		SimLog:       NewSimLog(false),
		Input:        NewScriptedInput(),
		Assets:       &RecordingAssets{},
		Score:        NewMemoryScore(0),
		DT:           harnessDT,
		rng:          rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
		stats:        DefaultStats(),
		aspect:       16.0 / 9.0,
		spawnRetries: defaultSpawnRetries,
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}

	simOpts := []Option{
		WithRNG(ts.rng),
		WithStats(ts.stats),
		WithCamera(ts.aspect, defaultCamSize),
		WithInput(ts.Input),
		WithAssets(ts.Assets),
		WithScore(ts.Score),
		WithSimLog(ts.SimLog),
		WithSpawning(!ts.noSpawner),
		WithSpawnTuning(ts.spawnRetries, defaultSpawnPerLevel, defaultSpawnBase),
	}
	ts.Sim = NewSimulation(simOpts...)
	if ts.autopilot {
		ts.Autopilot = NewAutopilot(ts.Sim)
		ts.Sim.SetInput(ts.Autopilot)
	}

	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ts)
		}
	}
	return ts
}

// Start presses a movement key for one tick to leave the waiting state,
// then snaps the time scale to full speed so tests see exact dt.
func (ts *TestSim) Start() {
	if ts.Sim.State() != StateWaitingToStart {
		return
	}
	in := ts.Sim.input
	ts.Sim.SetInput(startInput{})
	ts.Sim.Tick(ts.DT)
	ts.Sim.SetInput(in)
	ts.Sim.timeScale.Set(1)
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.Sim.TickCount()
		}
	}
	return -1
}

// runOneTick mirrors a host frame: tick, then react to the queued events.
func (ts *TestSim) runOneTick() {
	ts.Sim.Tick(ts.DT)
	if ts.Autopilot != nil {
		ts.Autopilot.Step(ts.DT)
	}

	tick := ts.Sim.TickCount()
	for _, e := range ts.Sim.Entities() {
		if e.Tank == nil {
			continue
		}
		ts.SimLog.AddVerbose(tick, e.Label(), e.Team().String(), "move", "position",
			fmt.Sprintf("(%.2f,%.2f)", e.Body.Pos.X, e.Body.Pos.Y), 0)
	}
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Sim.TickCount()
}

// Enemies returns the live enemy tanks.
func (ts *TestSim) Enemies() []*Entity {
	var out []*Entity
	for _, e := range ts.Sim.Entities() {
		if e.Kind == KindEnemy {
			out = append(out, e)
		}
	}
	return out
}

// SimSnapshot captures a lightweight state summary.
type SimSnapshot struct {
	Tick     int
	Entities []EntitySnapshot
}

// EntitySnapshot is a lightweight copy of an entity's state at a tick.
type EntitySnapshot struct {
	ID     EntityID
	Label  string
	Kind   EntityKind
	X, Y   float64
	Health int
}

// Snapshot returns the current state of every live entity with a body.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{Tick: ts.Sim.TickCount()}
	for _, e := range ts.Sim.Entities() {
		if e.Body == nil {
			continue
		}
		es := EntitySnapshot{ID: e.ID, Label: e.Label(), Kind: e.Kind, X: e.Body.Pos.X, Y: e.Body.Pos.Y}
		if e.Tank != nil {
			es.Health = e.Tank.Health
		}
		snap.Entities = append(snap.Entities, es)
	}
	return snap
}

// --- Input and assets for headless runs ---

type startInput struct{}

func (startInput) Key(name string) bool     { return name == "w" }
func (startInput) MouseButton(int) bool     { return false }
func (startInput) MouseWorldPosition() Vec3 { return Vec3{} }

// ScriptedInput is an Input whose state tests set directly.
type ScriptedInput struct {
	Keys    map[string]bool
	Buttons map[int]bool
	Mouse   Vec3
}

func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{Keys: map[string]bool{}, Buttons: map[int]bool{}}
}

func (si *ScriptedInput) Key(name string) bool      { return si.Keys[name] }
func (si *ScriptedInput) MouseButton(id int) bool   { return si.Buttons[id] }
func (si *ScriptedInput) MouseWorldPosition() Vec3  { return si.Mouse }
func (si *ScriptedInput) Press(name string)         { si.Keys[name] = true }
func (si *ScriptedInput) Release(name string)       { delete(si.Keys, name) }
func (si *ScriptedInput) SetButton(id int, on bool) { si.Buttons[id] = on }

// RecordingAssets remembers every sound request.
type RecordingAssets struct {
	Played []string
}

func (ra *RecordingAssets) PlayAudio(name string, _ AudioOptions) {
	ra.Played = append(ra.Played, name)
}

// Count returns how many times name was played.
func (ra *RecordingAssets) Count(name string) int {
	n := 0
	for _, p := range ra.Played {
		if p == name {
			n++
		}
	}
	return n
}

// --- Autopilot ---

const (
	autopilotTurnRate = 0.8  // rad/s around the strafing circle
	autopilotDeadZone = 0.35 // axis magnitude below which a key stays up
)

// Autopilot plays the player tank: it strafes in a circle, aims at the
// nearest enemy, fires whenever one exists and takes the first upgrade offer.
type Autopilot struct {
	sim   *Simulation
	phase float64
}

func NewAutopilot(sim *Simulation) *Autopilot {
	return &Autopilot{sim: sim}
}

// Step advances the strafing phase and answers any open offer. A refused
// choice is logged as upgrade/stuck so a wedged run shows in the SimLog.
func (a *Autopilot) Step(dt float64) {
	a.phase += autopilotTurnRate * dt
	if a.sim.State() != StateLevelingUp {
		return
	}
	if err := a.sim.ChooseUpgrade(0); err != nil {
		a.sim.record("P", TeamPlayer.String(), "upgrade", "stuck", err.Error(), 0)
	}
}

func (a *Autopilot) Key(name string) bool {
	dx, dy := math.Cos(a.phase), math.Sin(a.phase)
	switch name {
	case "d":
		return dx > autopilotDeadZone
	case "a":
		return dx < -autopilotDeadZone
	case "w":
		return dy > autopilotDeadZone || a.sim.State() == StateWaitingToStart
	case "s":
		return dy < -autopilotDeadZone
	}
	return false
}

func (a *Autopilot) MouseButton(id int) bool {
	if id != MouseLeft {
		return false
	}
	_, ok := a.nearestEnemy()
	return ok
}

func (a *Autopilot) MouseWorldPosition() Vec3 {
	if e, ok := a.nearestEnemy(); ok {
		return e.Body.Pos
	}
	if p := a.sim.Player(); p != nil {
		return p.Body.Pos.Add(Vec3{X: 1})
	}
	return Vec3{}
}

func (a *Autopilot) nearestEnemy() (*Entity, bool) {
	p := a.sim.Player()
	if p == nil {
		return nil, false
	}
	var best *Entity
	bestD := math.MaxFloat64
	for _, e := range a.sim.Entities() {
		if e.Kind != KindEnemy {
			continue
		}
		if d := e.Body.Pos.Sub(p.Body.Pos).SqrMagnitude(); d < bestD {
			best, bestD = e, d
		}
	}
	return best, best != nil
}
