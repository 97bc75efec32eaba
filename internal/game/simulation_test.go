package game

import (
	"errors"
	"strings"
	"testing"
)

// runCollecting ticks n times and returns every event drained along the way.
func runCollecting(ts *TestSim, n int) []Event {
	var out []Event
	for i := 0; i < n; i++ {
		ts.RunTicks(1)
		out = append(out, ts.Sim.DrainEvents()...)
	}
	return out
}

func countKind(events []Event, k EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// killEnemy spawns an enemy and destroys it outright.
func killEnemy(s *Simulation) {
	e := s.SpawnEnemy(Vec3{X: 20})
	e.Tank.TakeDamage(s, e, e.Tank.MaxHealth)
}

// --- Session gating ---

func TestSimulation_WaitsForInput(t *testing.T) {
	ts := NewTestSim(WithoutSpawner(), WithEnemyAt(2, 0))
	e := ts.Enemies()[0]
	before := e.Body.Pos

	ts.RunTicks(60)
	if ts.Sim.State() != StateWaitingToStart {
		t.Fatalf("expected waiting, got %s", ts.Sim.State())
	}
	if ts.Sim.TimeScale() != 0 {
		t.Fatalf("expected frozen time, got %.2f", ts.Sim.TimeScale())
	}
	if e.Body.Pos != before {
		t.Fatal("entities should not move before the session starts")
	}
}

func TestSimulation_StartEasesIn(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Input.Press("d")
	events := runCollecting(ts, 1)
	if ts.Sim.State() != StateRunning {
		t.Fatalf("expected running, got %s", ts.Sim.State())
	}
	if countKind(events, EventSessionStarted) != 1 {
		t.Fatal("expected a session started event")
	}

	ts.RunTicks(int(startEase*60) + 2)
	if ts.Sim.TimeScale() != 1 {
		t.Fatalf("expected full speed after the ease, got %.2f", ts.Sim.TimeScale())
	}
	if n := ts.Assets.Count(SoundMusic); n != 1 {
		t.Fatalf("expected music once, got %d", n)
	}
	if ts.Sim.Player().Body.Pos.X <= 0 {
		t.Fatal("player should have moved right")
	}
}

// --- Death and finish ---

func TestSimulation_PlayerDeathFinishesOnce(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Start()
	p := ts.Sim.Player()
	if p.Tank.Health != 6 {
		t.Fatalf("expected health 6, got %d", p.Tank.Health)
	}
	for i := 0; i < 6; i++ {
		ts.Sim.SpawnBullet(TeamEnemy, p.Body.Pos, 0, 0, 1, 1)
	}
	events := runCollecting(ts, 1)

	if p.Tank.Health != 0 {
		t.Fatalf("expected health 0, got %d", p.Tank.Health)
	}
	if ts.Sim.State() != StateFinished {
		t.Fatalf("expected finished, got %s", ts.Sim.State())
	}
	if ts.Sim.Player() != nil {
		t.Fatal("player should be removed")
	}

	// More hits after death change nothing.
	ts.Sim.SpawnBullet(TeamEnemy, p.Body.Pos, 0, 0, 1, 1)
	events = append(events, runCollecting(ts, 120)...)

	if n := ts.Assets.Count(SoundGameOver); n != 1 {
		t.Fatalf("expected game over sound once, got %d", n)
	}
	if n := countKind(events, EventSessionFinished); n != 1 {
		t.Fatalf("expected one finished event, got %d", n)
	}
	if ts.Sim.TimeScale() != 0 {
		t.Fatalf("expected time to stop, got %.2f", ts.Sim.TimeScale())
	}
	if !ts.Sim.Report().Finished || ts.Sim.Report().Outcome() != OutcomeDestroyed {
		t.Fatal("report should record the loss")
	}
}

func TestSimulation_FinishedEventWaitsForSlowdown(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Start()
	p := ts.Sim.Player()
	p.Tank.TakeDamage(ts.Sim, p, 99)

	events := runCollecting(ts, int(finishEase*60)-5)
	if countKind(events, EventSessionFinished) != 0 {
		t.Fatal("finished event fired before time stopped")
	}
	events = runCollecting(ts, 10)
	if countKind(events, EventSessionFinished) != 1 {
		t.Fatal("expected finished event once time stopped")
	}
}

func TestSimulation_RestartBeforeSlowdownStillAnnounces(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Start()
	killEnemy(ts.Sim)
	p := ts.Sim.Player()
	p.Tank.TakeDamage(ts.Sim, p, 99)

	events := runCollecting(ts, 10)
	ts.Sim.Restart()
	events = append(events, ts.Sim.DrainEvents()...)
	events = append(events, runCollecting(ts, 300)...)

	if n := countKind(events, EventSessionFinished); n != 1 {
		t.Fatalf("expected one finished event across death and restart, got %d", n)
	}
	var finished Event
	for _, e := range events {
		if e.Kind == EventSessionFinished {
			finished = e
		}
	}
	if !finished.Report.Finished || finished.Report.Kills != 1 {
		t.Fatalf("expected the event to carry the finished report, got %+v", finished.Report)
	}
	if ts.Sim.Report().Finished {
		t.Fatal("restart should start a fresh report")
	}
}

func TestSimulation_RestartAfterAnnounceDoesNotRepeat(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Start()
	p := ts.Sim.Player()
	p.Tank.TakeDamage(ts.Sim, p, 99)

	events := runCollecting(ts, int(finishEase*60)+10)
	ts.Sim.Restart()
	events = append(events, ts.Sim.DrainEvents()...)
	if n := countKind(events, EventSessionFinished); n != 1 {
		t.Fatalf("expected one finished event, got %d", n)
	}
}

func TestSimulation_HealthBarTracksDamage(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Start()
	p := ts.Sim.Player()
	ts.Sim.SpawnBullet(TeamEnemy, p.Body.Pos, 0, 0, 2, 1)
	ts.RunTicks(1)

	b, _ := ts.Sim.Bar(BarHealth)
	if b.Value != 4 || b.Max != 6 {
		t.Fatalf("expected health bar 4/6, got %d/%d", b.Value, b.Max)
	}
	if ts.Sim.Report().DamageTaken != 2 {
		t.Fatalf("expected 2 damage taken, got %d", ts.Sim.Report().DamageTaken)
	}
}

// --- Progression ---

func TestSimulation_LevelUpOpensOffer(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Start()
	for i := 0; i < xpStartMax; i++ {
		killEnemy(ts.Sim)
	}
	events := ts.Sim.DrainEvents()

	if ts.Sim.State() != StateLevelingUp {
		t.Fatalf("expected leveling up, got %s", ts.Sim.State())
	}
	if ts.Sim.Level() != 1 {
		t.Fatalf("expected level 1, got %d", ts.Sim.Level())
	}
	if countKind(events, EventUpgradeOffered) != 1 {
		t.Fatal("expected one upgrade offer event")
	}
	if _, ok := ts.Sim.Offers(); !ok {
		t.Fatal("expected open offers")
	}
	ts.RunTicks(int(levelEase*60) + 2)
	if ts.Sim.TimeScale() != 0 {
		t.Fatalf("expected time stopped while choosing, got %.2f", ts.Sim.TimeScale())
	}
}

func TestSimulation_ChooseUpgrade(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Start()
	if err := ts.Sim.ChooseUpgrade(0); !errors.Is(err, ErrNoOffer) {
		t.Fatalf("expected ErrNoOffer, got %v", err)
	}
	for i := 0; i < xpStartMax; i++ {
		killEnemy(ts.Sim)
	}
	if err := ts.Sim.ChooseUpgrade(2); !errors.Is(err, ErrOfferIndex) {
		t.Fatalf("expected ErrOfferIndex, got %v", err)
	}

	offers, _ := ts.Sim.Offers()
	want := map[string]int{}
	for _, c := range offers[1].Changes {
		want[c.Key] = ts.Sim.Stats().Value(c.Key) + c.Delta
	}
	if err := ts.Sim.ChooseUpgrade(1); err != nil {
		t.Fatalf("choose: %v", err)
	}
	for k, v := range want {
		if got := ts.Sim.Stats().Value(k); got != v {
			t.Fatalf("stat %s: expected %d, got %d", k, v, got)
		}
	}
	if ts.Sim.State() != StateRunning {
		t.Fatalf("expected running after choice, got %s", ts.Sim.State())
	}
	if err := ts.Sim.ChooseUpgrade(0); !errors.Is(err, ErrNoOffer) {
		t.Fatalf("expected ErrNoOffer after choosing, got %v", err)
	}
	ts.RunTicks(int(resumeEase*60) + 2)
	if ts.Sim.TimeScale() != 1 {
		t.Fatalf("expected full speed after resume, got %.2f", ts.Sim.TimeScale())
	}
}

func TestSimulation_QueuedLevelUps(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Start()
	ts.Sim.addExperience(xpStartMax + xpStartMax + xpGrowth)
	if ts.Sim.Level() != 2 {
		t.Fatalf("expected level 2, got %d", ts.Sim.Level())
	}
	if err := ts.Sim.ChooseUpgrade(0); err != nil {
		t.Fatalf("first choice: %v", err)
	}
	if ts.Sim.State() != StateLevelingUp {
		t.Fatalf("expected second offer, got %s", ts.Sim.State())
	}
	if err := ts.Sim.ChooseUpgrade(0); err != nil {
		t.Fatalf("second choice: %v", err)
	}
	if ts.Sim.State() != StateRunning {
		t.Fatalf("expected running, got %s", ts.Sim.State())
	}
}

func TestSimulation_MaxHealthUpgradeHeals(t *testing.T) {
	s := newQuietSim(t)
	p := s.Player()
	p.Tank.Health = 3
	if err := s.stats.Apply(StatChange{Key: StatMaxHealth, Delta: 2}); err != nil {
		t.Fatal(err)
	}
	s.applyPlayerStats(p.Tank)
	if p.Tank.MaxHealth != 8 || p.Tank.Health != 5 {
		t.Fatalf("expected 5/8, got %d/%d", p.Tank.Health, p.Tank.MaxHealth)
	}
}

// --- Arena bookkeeping ---

func TestSimulation_RemovedLeaveAtEndOfTick(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Start()
	b := ts.Sim.SpawnBullet(TeamPlayer, Vec3{X: 1}, 0, 0, 1, 1)
	ts.Sim.Remove(b.ID)
	if _, ok := ts.Sim.Entity(b.ID); ok {
		t.Fatal("removed entity should not be looked up")
	}
	if _, ok := ts.Sim.entities[b.ID]; !ok {
		t.Fatal("removed entity should stay in the arena until the tick ends")
	}
	ts.RunTicks(1)
	if _, ok := ts.Sim.entities[b.ID]; ok {
		t.Fatal("removed entity should be compacted")
	}
}

func TestSimulation_SpawnedMidTickWaits(t *testing.T) {
	ts := NewTestSim(WithoutSpawner())
	ts.Start()
	p := ts.Sim.Player()
	ts.Input.SetButton(MouseLeft, true)
	ts.Input.Mouse = Vec3{X: 5}
	ts.RunTicks(1)

	var bullet *Entity
	for _, e := range ts.Sim.Entities() {
		if e.Kind == KindBullet {
			bullet = e
		}
	}
	if bullet == nil {
		t.Fatal("expected a bullet")
	}
	muzzle := p.Body.Pos.Add(Vec3{X: muzzleOffset})
	if d := bullet.Body.Pos.Sub(muzzle).Magnitude(); d > 1e-9 {
		t.Fatalf("bullet should not move on the tick it spawned, off by %.4f", d)
	}
}

func TestSimulation_TanksPushApart(t *testing.T) {
	ts := NewTestSim(WithoutSpawner(), WithEnemyAt(0.1, 0))
	ts.Start()
	ts.RunTicks(1)
	e := ts.Enemies()[0]
	d := e.Body.Pos.Sub(ts.Sim.Player().Body.Pos).Magnitude()
	if d < 2*tankRadius-1e-6 {
		t.Fatalf("expected tanks separated by %.2f, got %.4f", 2*tankRadius, d)
	}
}

func TestSimulation_CameraFollowsPlayer(t *testing.T) {
	ts := NewTestSim(WithoutSpawner(), WithPlayerAt(3, 0))
	ts.Sim.camera.Position = Vec3{}
	ts.RunTicks(1)
	x := ts.Sim.Camera().Position.X
	if x <= 0 || x >= 3 {
		t.Fatalf("expected camera between 0 and 3, got %.3f", x)
	}
}

func TestSimulation_Restart(t *testing.T) {
	ts := NewTestSim(WithoutSpawner(), WithStat(StatEnemyHealth, 1))
	ts.Start()
	for i := 0; i < xpStartMax; i++ {
		killEnemy(ts.Sim)
	}
	if err := ts.Sim.ChooseUpgrade(0); err != nil {
		t.Fatal(err)
	}
	ts.Sim.SpawnEnemy(Vec3{X: 9})
	ts.Sim.Restart()
	events := ts.Sim.DrainEvents()

	if ts.Sim.State() != StateWaitingToStart {
		t.Fatalf("expected waiting, got %s", ts.Sim.State())
	}
	if n := len(ts.Sim.Entities()); n != 1 {
		t.Fatalf("expected only the player, got %d entities", n)
	}
	if ts.Sim.Level() != 0 || ts.Score.Score() != 0 {
		t.Fatalf("expected level 0 score 0, got %d %d", ts.Sim.Level(), ts.Score.Score())
	}
	// Three kills of one-health enemies.
	if ts.Score.Highscore() != 3 {
		t.Fatalf("expected highscore 3 kept, got %d", ts.Score.Highscore())
	}
	if ts.Sim.Stats().Value(StatEnemyHealth) != 1 {
		t.Fatalf("expected overridden start value 1, got %d", ts.Sim.Stats().Value(StatEnemyHealth))
	}
	if countKind(events, EventSessionRestarted) != 1 {
		t.Fatal("expected a restart event")
	}
	xp, _ := ts.Sim.Bar(BarExperience)
	if xp.Value != 0 || xp.Max != xpStartMax {
		t.Fatalf("expected experience 0/%d, got %d/%d", xpStartMax, xp.Value, xp.Max)
	}
}

// --- Render ---

type layerCounter map[Layer]int

func (lc layerCounter) DrawQuad(_ Material, _ Vec3, _ float64, _ Vec3, l Layer) { lc[l]++ }

func TestSimulation_RenderLayers(t *testing.T) {
	ts := NewTestSim(WithoutSpawner(), WithEnemyAt(1, 1))
	lc := layerCounter{}
	ts.Sim.Render(lc)

	if lc[LayerBackground] == 0 {
		t.Fatal("expected background tiles")
	}
	if lc[LayerTankBase] != 2 || lc[LayerTankTop] != 2 {
		t.Fatalf("expected 2 hulls and 2 turrets, got %d %d", lc[LayerTankBase], lc[LayerTankTop])
	}
	if lc[LayerCursor] != 1 {
		t.Fatalf("expected one crosshair, got %d", lc[LayerCursor])
	}
	ts.Sim.Render(nopRenderer{})
}

// --- Autopilot ---

func TestAutopilot_PlaysASession(t *testing.T) {
	ts := NewTestSim(WithSeed(3), WithAutopilot())
	ts.RunUntil(func(ts *TestSim) bool { return ts.Sim.State() == StateFinished }, 60*90)

	r := ts.Sim.Report()
	if r.Shots == 0 {
		t.Fatal("autopilot should have fired")
	}
	if ts.Sim.State() == StateLevelingUp {
		t.Fatal("autopilot should answer every offer")
	}
	if ts.Assets.Count(SoundGameOver) > 1 {
		t.Fatal("game over should play at most once")
	}
	t.Log(ts.SimLog.Summary(ts.Sim))
}

func TestAutopilot_SameSeedSameArena(t *testing.T) {
	run := func() SimSnapshot {
		ts := NewTestSim(WithSeed(11), WithAutopilot())
		ts.RunTicks(400)
		return ts.Snapshot()
	}
	a, b := run(), run()
	if a.Tick != b.Tick || len(a.Entities) != len(b.Entities) {
		t.Fatalf("expected matching arenas, got %d entities at T=%d vs %d at T=%d",
			len(a.Entities), a.Tick, len(b.Entities), b.Tick)
	}
	for i := range a.Entities {
		if a.Entities[i] != b.Entities[i] {
			t.Fatalf("entity %d diverged: %+v vs %+v", i, a.Entities[i], b.Entities[i])
		}
	}
	if len(a.Entities) == 0 {
		t.Fatal("expected a populated arena")
	}
}

func TestAutopilot_LogsRefusedChoice(t *testing.T) {
	ts := NewTestSim(WithoutSpawner(), WithAutopilot())
	ts.Start()
	ts.Sim.state = StateLevelingUp
	ts.Sim.offers = nil

	ts.Autopilot.Step(ts.DT)
	e, ok := ts.SimLog.Last(LogQuery{Category: "upgrade", Key: "stuck"})
	if !ok {
		t.Fatal("expected the refused choice to be logged")
	}
	if !strings.Contains(e.Value, ErrNoOffer.Error()) {
		t.Fatalf("expected %q in %q", ErrNoOffer.Error(), e.Value)
	}
}
