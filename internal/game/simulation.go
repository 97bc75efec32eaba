package game

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// --- Simulation constants ---

const (
	cameraFollowRate = 5.0 // 1/s, exponential follow toward the player
	defaultCamSize   = 3.0 // half-height of the view in world units
	tileSize         = 7.0

	startEase  = 0.4 // seconds from frozen to full speed when play begins
	levelEase  = 0.5 // seconds to slow to a stop for an upgrade choice
	resumeEase = 0.5
	finishEase = 1.0

	moveSpeedUnit   = 0.5 // world units/s per point of move speed
	bulletSpeedUnit = 1.5
	enemySpeedUnit  = 0.4
	playerFireScale = 2.5 // seconds of delay at fire rate 1
	enemyFireScale  = 4.0

	xpPerKill   = 1
	xpStartMax  = 3
	xpGrowth    = 2
	musicVolume = 0.4
)

// SessionState is the session-level phase of the simulation.
type SessionState int

const (
	StateWaitingToStart SessionState = iota
	StateRunning
	StateLevelingUp
	StateFinished
	StateRestarting
)

func (s SessionState) String() string {
	switch s {
	case StateWaitingToStart:
		return "waiting"
	case StateRunning:
		return "running"
	case StateLevelingUp:
		return "leveling_up"
	case StateFinished:
		return "finished"
	case StateRestarting:
		return "restarting"
	default:
		return "unknown"
	}
}

// Simulation owns every entity, the stat table, the bars and the camera.
// It is single-threaded: hosts call Tick and Render from one goroutine.
type Simulation struct {
	rng    *rand.Rand
	log    zerolog.Logger
	input  Input
	assets AssetManager
	score  ScoreKeeper

	entities map[EntityID]*Entity
	order    []EntityID
	nextID   EntityID
	player   *Entity

	camera    *Camera
	stats     *StatTable
	bars      map[string]*Bar
	barOrder  []string
	upgrades  *UpgradeGenerator
	spawner   *Spawner
	timeScale *TimeScale

	state        SessionState
	clock        float64 // unscaled seconds
	tick         int
	level        int
	pendingLevel int
	offers       *[offersPerUpgrade]Offer
	musicStarted bool
	announced    bool // EventSessionFinished sent for the current session
	spawnEnabled bool

	events []Event
	simLog *SimLog
	feed   *FeedLog
	report *SessionReport
}

// Option configures a Simulation at construction.
type Option func(*Simulation)

// WithRNG sets the source of every random choice, for reproducible runs.
func WithRNG(rng *rand.Rand) Option {
	return func(s *Simulation) { s.rng = rng }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

func WithInput(in Input) Option {
	return func(s *Simulation) { s.input = in }
}

func WithAssets(a AssetManager) Option {
	return func(s *Simulation) { s.assets = a }
}

func WithScore(k ScoreKeeper) Option {
	return func(s *Simulation) { s.score = k }
}

// WithStats replaces the default stat pool.
func WithStats(t *StatTable) Option {
	return func(s *Simulation) { s.stats = t }
}

// WithCamera sets the view aspect ratio and half-height.
func WithCamera(aspect, size float64) Option {
	return func(s *Simulation) { s.camera = NewCamera(aspect, size) }
}

// WithSpawnTuning overrides the spawn retry budget and population formula.
func WithSpawnTuning(retries, perLevel, base int) Option {
	return func(s *Simulation) {
		s.spawner.Retries = retries
		s.spawner.PerLevel = perLevel
		s.spawner.Base = base
	}
}

// WithSpawning turns the enemy top-up on or off.
func WithSpawning(enabled bool) Option {
	return func(s *Simulation) { s.spawnEnabled = enabled }
}

// WithSimLog records structured events for headless runs.
func WithSimLog(l *SimLog) Option {
	return func(s *Simulation) { s.simLog = l }
}

// NewSimulation builds a simulation with a player tank waiting for first input.
func NewSimulation(opts ...Option) *Simulation {
	s := &Simulation{
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- gameplay randomness
		log:          zerolog.Nop(),
		input:        nopInput{},
		assets:       nopAssets{},
		score:        NewMemoryScore(0),
		camera:       NewCamera(16.0/9.0, defaultCamSize),
		stats:        DefaultStats(),
		timeScale:    NewTimeScale(0),
		spawnEnabled: true,
		feed:         NewFeedLog(),
		report:       &SessionReport{},
	}
	s.spawner = NewSpawner(nil)
	for _, o := range opts {
		o(s)
	}
	s.spawner.rng = s.rng
	s.upgrades = NewUpgradeGenerator(s.stats, s.rng)
	s.defineBar(NewBar(BarHealth, s.stats.Value(StatMaxHealth), s.stats.Value(StatMaxHealth), 0,
		color.RGBA{R: 60, G: 20, B: 20, A: 255}, color.RGBA{R: 220, G: 60, B: 60, A: 255}))
	s.defineBar(NewBar(BarExperience, xpStartMax, 0, xpGrowth,
		color.RGBA{R: 20, G: 30, B: 60, A: 255}, color.RGBA{R: 80, G: 140, B: 255, A: 255}))
	s.beginSession()
	return s
}

func (s *Simulation) defineBar(b *Bar) {
	if s.bars == nil {
		s.bars = make(map[string]*Bar)
	}
	if _, ok := s.bars[b.Name]; !ok {
		s.barOrder = append(s.barOrder, b.Name)
	}
	s.bars[b.Name] = b
}

// --- Accessors ---

func (s *Simulation) State() SessionState  { return s.state }
func (s *Simulation) Camera() *Camera      { return s.camera }
func (s *Simulation) Stats() *StatTable    { return s.stats }
func (s *Simulation) Level() int           { return s.level }
func (s *Simulation) Clock() float64       { return s.clock }
func (s *Simulation) TickCount() int       { return s.tick }
func (s *Simulation) TimeScale() float64   { return s.timeScale.Value() }
func (s *Simulation) Feed() *FeedLog       { return s.feed }
func (s *Simulation) Report() SessionReport { return *s.report }
func (s *Simulation) ScoreKeeper() ScoreKeeper {
	return s.score
}

// SetInput swaps the input source, e.g. when a host attaches after construction.
func (s *Simulation) SetInput(in Input) { s.input = in }

// Bar returns the named bar.
func (s *Simulation) Bar(name string) (*Bar, bool) {
	b, ok := s.bars[name]
	return b, ok
}

// Bars returns bars in definition order.
func (s *Simulation) Bars() []*Bar {
	out := make([]*Bar, 0, len(s.barOrder))
	for _, n := range s.barOrder {
		out = append(out, s.bars[n])
	}
	return out
}

// Player returns the player entity, or nil once it has been removed.
func (s *Simulation) Player() *Entity {
	if s.player == nil || s.player.removed {
		return nil
	}
	return s.player
}

// Entity looks up a live entity by handle.
func (s *Simulation) Entity(id EntityID) (*Entity, bool) {
	e, ok := s.entities[id]
	if !ok || e.removed {
		return nil, false
	}
	return e, true
}

// Entities returns live entities in creation order.
func (s *Simulation) Entities() []*Entity {
	out := make([]*Entity, 0, len(s.order))
	for _, id := range s.order {
		if e := s.entities[id]; !e.removed {
			out = append(out, e)
		}
	}
	return out
}

// EnemyCount is the number of live enemy tanks.
func (s *Simulation) EnemyCount() int {
	n := 0
	for _, id := range s.order {
		if e := s.entities[id]; e.Kind == KindEnemy && !e.removed {
			n++
		}
	}
	return n
}

// Offers returns the open upgrade offers, if any.
func (s *Simulation) Offers() ([offersPerUpgrade]Offer, bool) {
	if s.offers == nil {
		return [offersPerUpgrade]Offer{}, false
	}
	return *s.offers, true
}

// --- Entity management ---

func (s *Simulation) add(e *Entity) *Entity {
	s.nextID++
	e.ID = s.nextID
	s.entities[e.ID] = e
	s.order = append(s.order, e.ID)
	return e
}

// Remove marks an entity for removal. It stops updating and colliding
// immediately and leaves the arena at the end of the tick.
func (s *Simulation) Remove(id EntityID) {
	if e, ok := s.entities[id]; ok {
		e.removed = true
	}
}

func (s *Simulation) compact() {
	kept := s.order[:0]
	for _, id := range s.order {
		if s.entities[id].removed {
			delete(s.entities, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

func (s *Simulation) newTank(kind EntityKind, team Team, pos Vec3, ctrl controller) *Entity {
	body := &Body{Pos: pos, Radius: tankRadius}
	t := &Tank{
		Team:          team,
		RotationSpeed: tankRotationSpeed,
		body:          body,
		ctrl:          ctrl,
	}
	return s.add(&Entity{Kind: kind, Body: body, Tank: t})
}

// SpawnPlayer creates the player tank from the current stats.
func (s *Simulation) SpawnPlayer(pos Vec3) *Entity {
	e := s.newTank(KindPlayer, TeamPlayer, pos, playerControl{})
	e.Tank.hullColor, e.Tank.turretColor = playerHullColor, playerTurretColor
	s.applyPlayerStats(e.Tank)
	e.Tank.Health = e.Tank.MaxHealth
	s.player = e
	return e
}

// SpawnEnemy creates an enemy tank from the current enemy stats.
func (s *Simulation) SpawnEnemy(pos Vec3) *Entity {
	e := s.newTank(KindEnemy, TeamEnemy, pos, enemyControl{followRange: enemyFollowRange})
	t := e.Tank
	t.hullColor, t.turretColor = enemyHullColor, enemyTurretColor
	t.MaxHealth = max(1, s.stats.Value(StatEnemyHealth))
	t.Health = t.MaxHealth
	t.MoveSpeed = float64(s.stats.Value(StatEnemySpeed)) * enemySpeedUnit
	t.ShootDelay = fireDelay(s.stats.Value(StatEnemyFireRate), enemyFireScale)
	t.ShootCooldown = t.ShootDelay
	t.BulletSpeed = 5 * bulletSpeedUnit
	t.BulletDamage = max(1, s.stats.Value(StatEnemyDamage))
	t.BulletPenetration = 1
	t.BodyRotation = randRange(s.rng, -math.Pi, math.Pi)
	s.record(e.Label(), TeamEnemy.String(), "spawn", "enemy", fmt.Sprintf("(%.2f,%.2f)", pos.X, pos.Y), 0)
	return e
}

// SpawnBullet fires a projectile for team.
func (s *Simulation) SpawnBullet(team Team, pos Vec3, direction, speed float64, damage, penetration int) *Entity {
	c := enemyBulletColor
	if team == TeamPlayer {
		c = playerBulletColor
	}
	damage = max(1, damage)
	body := &Body{Pos: pos, Radius: bulletRadius(damage), Trigger: true}
	b := &Bullet{
		Team:        team,
		Damage:      damage,
		Penetration: max(1, penetration),
		Direction:   direction,
		Speed:       speed,
		Lifespan:    bulletLifespan,
		body:        body,
		hits:        make(map[EntityID]struct{}),
		color:       c,
	}
	return s.add(&Entity{Kind: KindBullet, Body: body, Bullet: b})
}

// SpawnParticle adds a visual effect.
func (s *Simulation) SpawnParticle(p *Particle) *Entity {
	p.sample()
	return s.add(&Entity{Kind: KindParticle, Particle: p})
}

func (s *Simulation) spawnDebris(pos Vec3, rotation float64, c color.RGBA, texture string) {
	offset := FromAngle(randRange(s.rng, -math.Pi, math.Pi)).Mul(randRange(s.rng, debrisMinOffset, debrisMaxOffset))
	size := Vec3{X: tankSize, Y: tankSize, Z: 1}
	dark := color.RGBA{R: c.R / 3, G: c.G / 3, B: c.B / 3, A: 255}
	if c == (color.RGBA{}) {
		dark = debrisColor
	}
	s.SpawnParticle(&Particle{
		Material:  Material{Texture: texture, Color: dark},
		Layer:     LayerDebris,
		StartPos:  pos,
		EndPos:    pos.Add(offset),
		StartRot:  rotation,
		EndRot:    rotation + randRange(s.rng, -math.Pi, math.Pi),
		StartSize: size,
		EndSize:   size.Mul(0.8),
		Curve:     EaseOutExpo,
		Motion:    debrisMotion,
		Lifespan:  debrisLifespan,
	})
}

func (s *Simulation) spawnMuzzleFlash(pos Vec3, rotation float64) {
	size := Vec3{X: 0.15, Y: 0.15, Z: 1}
	s.SpawnParticle(&Particle{
		Material:  Material{Texture: TextureCircle, Color: flashColor},
		Layer:     LayerEffect,
		StartPos:  pos,
		EndPos:    pos.Add(FromAngle(rotation).Mul(0.05)),
		StartRot:  rotation,
		EndRot:    rotation,
		StartSize: size,
		EndSize:   Vec3{Z: 1},
		Curve:     Linear,
		Motion:    flashLifespan,
		Lifespan:  flashLifespan,
	})
}

// fireDelay converts a fire rate stat into seconds between shots.
func fireDelay(rate int, scale float64) float64 {
	return scale / float64(max(1, rate))
}

// applyPlayerStats pushes the stat table onto the player tank. Raising max
// health heals by the same amount.
func (s *Simulation) applyPlayerStats(t *Tank) {
	st := s.stats
	t.MoveSpeed = float64(st.Value(StatMoveSpeed)) * moveSpeedUnit
	t.BulletSpeed = float64(st.Value(StatBulletSpeed)) * bulletSpeedUnit
	t.ShootDelay = fireDelay(st.Value(StatFireRate), playerFireScale)
	t.BulletDamage = max(1, st.Value(StatBulletDamage))
	t.BulletPenetration = max(1, st.Value(StatBulletPenetration))

	newMax := max(1, st.Value(StatMaxHealth))
	if t.MaxHealth > 0 && newMax > t.MaxHealth {
		t.Health += newMax - t.MaxHealth
	}
	t.MaxHealth = newMax
	t.Health = min(t.Health, t.MaxHealth)
}

// --- Tick ---

// Tick advances the simulation by dt seconds of wall time:
// start gating, enemy top-up, entity updates at dt*timeScale, pairwise
// collisions, camera follow, then removal of dead entities.
func (s *Simulation) Tick(dt float64) {
	s.tick++
	s.clock += dt
	scale := s.timeScale.Sample(s.clock)

	s.checkStart()
	s.topUpEnemies()

	scaled := dt * scale
	n := len(s.order)
	for i := 0; i < n; i++ {
		e := s.entities[s.order[i]]
		if e.removed {
			continue
		}
		e.logic().update(s, e, scaled)
	}

	s.resolveCollisions()

	if p := s.Player(); p != nil {
		s.camera.Follow(p.Body.Pos, cameraFollowRate, dt)
	}

	s.compact()
	if s.state == StateRunning || s.state == StateLevelingUp {
		s.report.Ticks++
		s.report.SurvivedSeconds += scaled
	}
}

// resolveCollisions tests every unordered pair of live bodies. Entities
// removed earlier in the pass are skipped for the rest of it.
func (s *Simulation) resolveCollisions() {
	live := make([]*Entity, 0, len(s.order))
	for _, id := range s.order {
		if e := s.entities[id]; e.Body != nil && !e.removed {
			live = append(live, e)
		}
	}
	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			a, b := live[i], live[j]
			if a.removed || b.removed {
				continue
			}
			s.testAndResolve(a, b)
		}
	}
}

// testAndResolve separates overlapping solid bodies and notifies both sides.
func (s *Simulation) testAndResolve(a, b *Entity) bool {
	if !ResolveOverlap(a.Body, b.Body) {
		return false
	}
	a.logic().onCollision(s, a, b)
	b.logic().onCollision(s, b, a)
	return true
}

func (s *Simulation) checkStart() {
	if s.state != StateWaitingToStart {
		return
	}
	in := s.input
	if !(in.Key("w") || in.Key("a") || in.Key("s") || in.Key("d") || in.MouseButton(MouseLeft)) {
		return
	}
	s.state = StateRunning
	s.timeScale.TransitionTo(s.clock, 1, startEase, nil)
	if !s.musicStarted {
		s.musicStarted = true
		s.assets.PlayAudio(SoundMusic, AudioOptions{Volume: musicVolume, Loop: true})
	}
	s.emit(Event{Kind: EventSessionStarted})
	s.record("--", "--", "session", "start", "", 0)
	s.log.Debug().Int("tick", s.tick).Msg("session started")
}

func (s *Simulation) topUpEnemies() {
	if !s.spawnEnabled || s.state != StateRunning {
		return
	}
	if s.EnemyCount() >= s.spawner.Target(s.stats.Value(StatEnemyCount)) {
		return
	}
	p, ok := s.spawner.FindSpawnPoint(s.camera)
	if !ok {
		s.record("--", "--", "spawn", "skip", "no off-screen point", 0)
		s.log.Debug().Int("tick", s.tick).Int("retries", s.spawner.Retries).Msg("spawn skipped")
		return
	}
	s.SpawnEnemy(p)
}

// --- Combat hooks ---

func (s *Simulation) shotFired(e *Entity) {
	vol := 0.5
	if e.Kind == KindPlayer {
		vol = 1
		s.report.Shots++
	}
	s.assets.PlayAudio(SoundShoot, AudioOptions{Volume: vol})
}

func (s *Simulation) tankDamaged(e *Entity, amount int) {
	if amount <= 0 {
		return
	}
	s.assets.PlayAudio(SoundHit, AudioOptions{Volume: 1})
	s.record(e.Label(), e.Team().String(), "combat", "damage", fmt.Sprintf("%d", e.Tank.Health), float64(amount))
	switch e.Kind {
	case KindPlayer:
		s.report.DamageTaken += amount
		if b, ok := s.bars[BarHealth]; ok {
			b.Set(e.Tank.Health, e.Tank.MaxHealth)
			s.emitBar(BarHealth)
		}
	case KindEnemy:
		s.report.Hits++
	}
}

func (s *Simulation) tankDestroyed(e *Entity) {
	s.assets.PlayAudio(SoundExplode, AudioOptions{Volume: 1})
	s.record(e.Label(), e.Team().String(), "combat", "destroyed", "", 0)
	switch e.Kind {
	case KindPlayer:
		s.feed.Add(s.tick, e.Label(), TeamPlayer, "destroyed")
		s.finish()
	case KindEnemy:
		s.report.Kills++
		s.feed.Add(s.tick, e.Label(), TeamEnemy, "destroyed")
		s.score.IncreaseScore(e.Tank.MaxHealth)
		s.report.Score = s.score.Score()
		s.emit(Event{Kind: EventScoreChanged, Score: s.score.Score(), Highscore: s.score.Highscore(), NewHighscore: s.score.IsNewHighscore()})
		s.addExperience(xpPerKill)
	}
}

// --- Progression ---

func (s *Simulation) addExperience(n int) {
	b, ok := s.bars[BarExperience]
	if !ok {
		return
	}
	ups := b.Add(n)
	s.emitBar(BarExperience)
	if ups == 0 {
		return
	}
	s.level += ups
	s.report.Level = s.level
	s.emit(Event{Kind: EventLevelUp, Level: s.level})
	s.feed.Add(s.tick, "P", TeamPlayer, fmt.Sprintf("reached level %d", s.level))
	s.record("P", TeamPlayer.String(), "progress", "level_up", fmt.Sprintf("%d", s.level), float64(s.level))
	s.log.Debug().Int("level", s.level).Msg("level up")
	s.pendingLevel += ups
	s.beginLevelUp()
}

// beginLevelUp opens an upgrade offer and slows time to a stop. Only one
// offer is open at a time; further level-ups wait their turn.
func (s *Simulation) beginLevelUp() {
	if s.state != StateRunning || s.pendingLevel == 0 {
		return
	}
	offers, err := s.upgrades.Generate()
	if err != nil {
		s.pendingLevel = 0
		s.log.Warn().Err(err).Msg("no upgrade offer")
		return
	}
	s.pendingLevel--
	s.state = StateLevelingUp
	s.offers = &offers
	s.timeScale.TransitionTo(s.clock, 0, levelEase, nil)
	s.assets.PlayAudio(SoundLevelUp, AudioOptions{Volume: 1})

	ev := Event{Kind: EventUpgradeOffered, Offers: offers, Level: s.level}
	for i, o := range offers {
		ev.Messages[i] = o.Messages(s.stats)
	}
	s.emit(ev)
	s.record("P", TeamPlayer.String(), "upgrade", "offer",
		fmt.Sprintf("%v | %v", ev.Messages[0], ev.Messages[1]), 0)
	s.log.Debug().Strs("a", ev.Messages[0][:]).Strs("b", ev.Messages[1][:]).Msg("upgrade offered")
}

// ChooseUpgrade applies offer i, closes the offer and eases time back to
// full speed.
func (s *Simulation) ChooseUpgrade(i int) error {
	if s.state != StateLevelingUp || s.offers == nil {
		return ErrNoOffer
	}
	if i < 0 || i >= offersPerUpgrade {
		return fmt.Errorf("choose %d: %w", i, ErrOfferIndex)
	}
	chosen := s.offers[i]
	if err := s.stats.Apply(chosen.Changes[:]...); err != nil {
		return fmt.Errorf("choose %d: %w", i, err)
	}
	s.offers = nil

	for _, c := range chosen.Changes {
		s.emitStat(c.Key)
	}
	if p := s.Player(); p != nil {
		s.applyPlayerStats(p.Tank)
		if b, ok := s.bars[BarHealth]; ok {
			b.Set(p.Tank.Health, p.Tank.MaxHealth)
			s.emitBar(BarHealth)
		}
	}
	msgs := chosen.Messages(s.stats)
	s.feed.Add(s.tick, "P", TeamPlayer, msgs[0]+", "+msgs[1])
	s.emit(Event{Kind: EventUpgradeChosen, Choice: i, Offers: [offersPerUpgrade]Offer{chosen}})
	s.record("P", TeamPlayer.String(), "upgrade", "chosen", msgs[0]+", "+msgs[1], float64(i))
	s.assets.PlayAudio(SoundSelect, AudioOptions{Volume: 1})

	s.resume()
	return nil
}

// resume is the continuation run when an offer closes.
func (s *Simulation) resume() {
	s.state = StateRunning
	s.timeScale.TransitionTo(s.clock, 1, resumeEase, nil)
	s.beginLevelUp()
}

// --- Session ---

// finish ends the session once: time slows to a stop and the end screen
// event fires when it has.
func (s *Simulation) finish() {
	if s.state == StateFinished || s.state == StateRestarting {
		return
	}
	s.state = StateFinished
	s.offers = nil
	s.pendingLevel = 0
	s.report.Finished = true
	s.report.Score = s.score.Score()
	s.assets.PlayAudio(SoundGameOver, AudioOptions{Volume: 1})
	s.record("--", "--", "session", "finish", fmt.Sprintf("score=%d", s.score.Score()), float64(s.score.Score()))
	s.log.Debug().Int("score", s.score.Score()).Int("level", s.level).Msg("session finished")

	s.timeScale.TransitionTo(s.clock, 0, finishEase, s.announceFinish)
}

// announceFinish emits EventSessionFinished once per finished session. The
// event carries a copy of the report so hosts can persist it after a restart.
func (s *Simulation) announceFinish() {
	if s.announced || s.state != StateFinished {
		return
	}
	s.announced = true
	s.emit(Event{
		Kind:         EventSessionFinished,
		Score:        s.score.Score(),
		Highscore:    s.score.Highscore(),
		NewHighscore: s.score.IsNewHighscore(),
		Level:        s.level,
		Report:       *s.report,
	})
}

// Restart discards the session and sets up a fresh one waiting for input.
// A session restarted before its slowdown finished is announced first.
func (s *Simulation) Restart() {
	s.announceFinish()
	s.state = StateRestarting
	s.log.Debug().Int("tick", s.tick).Msg("session restarting")
	s.stats.Reset()
	for _, b := range s.bars {
		b.Reset()
	}
	s.score.Reset()
	s.feed.Clear()
	s.beginSession()
	for _, k := range s.stats.Keys() {
		s.emitStat(k)
	}
	s.emit(Event{Kind: EventSessionRestarted, Highscore: s.score.Highscore()})
}

func (s *Simulation) beginSession() {
	s.entities = make(map[EntityID]*Entity)
	s.order = nil
	s.player = nil
	s.offers = nil
	s.pendingLevel = 0
	s.level = 0
	s.report = &SessionReport{}
	s.announced = false
	s.camera.Position = Vec3{}
	s.timeScale.Set(0)

	if b, ok := s.bars[BarHealth]; ok {
		b.Set(s.stats.Value(StatMaxHealth), s.stats.Value(StatMaxHealth))
	}
	s.SpawnPlayer(Vec3{})
	s.state = StateWaitingToStart
	for _, n := range s.barOrder {
		s.emitBar(n)
	}
}

func (s *Simulation) record(label, team, category, key, value string, num float64) {
	if s.simLog == nil {
		return
	}
	s.simLog.Add(s.tick, label, team, category, key, value, num)
}

// --- Render ---

// Render queues the background grid, every live entity and the crosshair.
func (s *Simulation) Render(r Renderer) {
	s.renderBackground(r)
	for _, id := range s.order {
		if e := s.entities[id]; !e.removed {
			e.logic().render(s, e, r)
		}
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	r.DrawQuad(Material{Texture: TextureCrosshair, Color: white}, s.input.MouseWorldPosition(), 0,
		Vec3{X: 0.2, Y: 0.2, Z: 1}, LayerCursor)
}

func (s *Simulation) renderBackground(r Renderer) {
	v := s.camera.VisibleRect()
	startX := FloorToNearest(v.MinX, tileSize) + tileSize/2
	startY := FloorToNearest(v.MinY, tileSize) + tileSize/2
	endX := CeilToNearest(v.MaxX, tileSize) - tileSize/2
	endY := CeilToNearest(v.MaxY, tileSize) - tileSize/2

	m := Material{Texture: TextureGrid, Color: color.RGBA{R: 255, G: 255, B: 255, A: 255}}
	size := Vec3{X: tileSize, Y: tileSize, Z: 1}
	for x := startX; x <= endX; x += tileSize {
		for y := startY; y <= endY; y += tileSize {
			r.DrawQuad(m, Vec3{X: x, Y: y}, 0, size, LayerBackground)
		}
	}
}
