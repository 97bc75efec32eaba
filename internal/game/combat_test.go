package game

import (
	"math"
	"math/rand"
	"testing"
)

// newQuietSim returns a simulation with no spawner, already running at full speed.
func newQuietSim(t *testing.T) *Simulation {
	t.Helper()
	s := NewSimulation(WithRNG(rand.New(rand.NewSource(7))), WithSpawning(false)) // #nosec G404 -- test
	s.state = StateRunning
	s.timeScale.Set(1)
	return s
}

// --- Bullet ---

func TestRegisterHit_SameTeamRejected(t *testing.T) {
	s := newQuietSim(t)
	player := s.Player()
	b := s.SpawnBullet(TeamPlayer, Vec3{}, 0, 1, 1, 2)

	if b.Bullet.RegisterHit(s, b, player) {
		t.Fatal("bullet should not hit its own team")
	}
	if b.Bullet.Penetration != 2 {
		t.Fatalf("expected penetration 2, got %d", b.Bullet.Penetration)
	}
}

func TestRegisterHit_Idempotent(t *testing.T) {
	s := newQuietSim(t)
	enemy := s.SpawnEnemy(Vec3{X: 5})
	b := s.SpawnBullet(TeamPlayer, Vec3{}, 0, 1, 1, 3)

	if !b.Bullet.RegisterHit(s, b, enemy) {
		t.Fatal("first hit should register")
	}
	if b.Bullet.RegisterHit(s, b, enemy) {
		t.Fatal("second hit on the same target should be rejected")
	}
	if b.Bullet.Penetration != 2 {
		t.Fatalf("expected penetration 2, got %d", b.Bullet.Penetration)
	}
	if b.Bullet.HitCount() != 1 {
		t.Fatalf("expected 1 hit, got %d", b.Bullet.HitCount())
	}
}

func TestRegisterHit_LastPenetrationRemoves(t *testing.T) {
	s := newQuietSim(t)
	enemy := s.SpawnEnemy(Vec3{X: 5})
	b := s.SpawnBullet(TeamPlayer, Vec3{}, 0, 1, 1, 1)

	b.Bullet.RegisterHit(s, b, enemy)
	if !b.Removed() {
		t.Fatal("bullet with no penetration left should be removed")
	}
}

func TestBullet_PenetrationStopsAtThirdTarget(t *testing.T) {
	s := newQuietSim(t)
	s.Player().Body.Pos = Vec3{X: 50}

	var targets []*Entity
	for i := 0; i < 3; i++ {
		a := float64(i) * 2 * math.Pi / 3
		targets = append(targets, s.SpawnEnemy(FromAngle(a).Mul(0.9)))
	}
	b := s.SpawnBullet(TeamPlayer, Vec3{}, 0, 0, 1, 2)
	b.Body.Radius = 1

	s.resolveCollisions()

	for i, tgt := range targets {
		want := tgt.Tank.MaxHealth - 1
		if i == 2 {
			want = tgt.Tank.MaxHealth
		}
		if tgt.Tank.Health != want {
			t.Fatalf("target %d: expected health %d, got %d", i, want, tgt.Tank.Health)
		}
	}
	if !b.Removed() {
		t.Fatal("bullet should be removed after spending its penetration")
	}
}

func TestBullet_ExpiresAfterLifespan(t *testing.T) {
	s := newQuietSim(t)
	b := s.SpawnBullet(TeamEnemy, Vec3{}, 0, 0, 1, 1)
	b.Bullet.update(s, b, bulletLifespan+0.01)
	if !b.Removed() {
		t.Fatal("bullet should expire")
	}
}

func TestBullet_LeavesActiveRegion(t *testing.T) {
	s := newQuietSim(t)
	far := s.camera.ActiveRect().MaxX + 1
	b := s.SpawnBullet(TeamEnemy, Vec3{X: far}, 0, 0, 1, 1)
	b.Bullet.update(s, b, 0.01)
	if !b.Removed() {
		t.Fatal("bullet outside the active region should be removed")
	}
}

// --- Tank ---

func TestTakeDamage_FloorsAtZero(t *testing.T) {
	s := newQuietSim(t)
	e := s.SpawnEnemy(Vec3{X: 5})
	e.Tank.Health = 2
	e.Tank.TakeDamage(s, e, 10)
	if e.Tank.Health != 0 {
		t.Fatalf("expected health 0, got %d", e.Tank.Health)
	}
}

func TestTakeDamage_LogsAppliedAmount(t *testing.T) {
	ts := NewTestSim(WithoutSpawner(), WithEnemyAt(5, 0))
	e := ts.Enemies()[0]
	e.Tank.Health = 2
	e.Tank.TakeDamage(ts.Sim, e, 10)

	last, ok := ts.SimLog.Last(LogQuery{Category: "combat", Key: "damage", Label: e.Label()})
	if !ok {
		t.Fatal("expected a damage entry")
	}
	if last.NumVal != 2 || last.Value != "0" {
		t.Fatalf("expected 2 damage applied leaving 0, got %.0f leaving %s", last.NumVal, last.Value)
	}
}

func TestTakeDamage_DeathFiresOnce(t *testing.T) {
	s := newQuietSim(t)
	assets := &RecordingAssets{}
	s.assets = assets
	e := s.SpawnEnemy(Vec3{X: 5})

	e.Tank.TakeDamage(s, e, e.Tank.MaxHealth)
	e.Tank.TakeDamage(s, e, 5)
	e.Tank.TakeDamage(s, e, 5)

	if n := assets.Count(SoundExplode); n != 1 {
		t.Fatalf("expected 1 explosion, got %d", n)
	}
	if s.report.Kills != 1 {
		t.Fatalf("expected 1 kill, got %d", s.report.Kills)
	}
	if !e.Tank.Dead() || !e.Removed() {
		t.Fatal("tank should be dead and removed")
	}
}

func TestTankDeath_SpawnsDebris(t *testing.T) {
	s := newQuietSim(t)
	e := s.SpawnEnemy(Vec3{X: 5})
	e.Tank.TakeDamage(s, e, e.Tank.MaxHealth)

	debris := 0
	for _, ent := range s.Entities() {
		if ent.Kind == KindParticle && ent.Particle.Layer == LayerDebris {
			debris++
		}
	}
	if debris != 2 {
		t.Fatalf("expected 2 debris particles, got %d", debris)
	}
}

func TestKill_AwardsEnemyMaxHealth(t *testing.T) {
	s := newQuietSim(t)
	e := s.SpawnEnemy(Vec3{X: 5})
	e.Tank.TakeDamage(s, e, 99)
	if got := s.score.Score(); got != e.Tank.MaxHealth {
		t.Fatalf("expected score %d, got %d", e.Tank.MaxHealth, got)
	}
}

func TestTankMove_TurnsShortWayAtLimitedRate(t *testing.T) {
	s := newQuietSim(t)
	tk := s.Player().Tank
	tk.BodyRotation = 0

	tk.Move(Vec3{Y: -1}, 0.1)
	want := -tk.RotationSpeed * 0.1
	if math.Abs(tk.BodyRotation-want) > 1e-9 {
		t.Fatalf("expected rotation %.3f, got %.3f", want, tk.BodyRotation)
	}

	tk.Move(Vec3{Y: -1}, 10)
	if math.Abs(tk.BodyRotation-(-math.Pi/2)) > 1e-9 {
		t.Fatalf("expected rotation to settle at -pi/2, got %.3f", tk.BodyRotation)
	}
}

func TestTankMove_ZeroDirectionIsNoop(t *testing.T) {
	s := newQuietSim(t)
	tk := s.Player().Tank
	before := tk.body.Pos
	tk.Move(Vec3{}, 1)
	if tk.body.Pos != before {
		t.Fatal("zero direction should not move the tank")
	}
}

func TestAttemptShoot_RespectsCooldown(t *testing.T) {
	s := newQuietSim(t)
	p := s.Player()
	if !p.Tank.AttemptShoot(s, p) {
		t.Fatal("first shot should fire")
	}
	if p.Tank.AttemptShoot(s, p) {
		t.Fatal("second shot should wait for the cooldown")
	}
	p.Tank.update(s, p, p.Tank.ShootDelay)
	if !p.Tank.AttemptShoot(s, p) {
		t.Fatal("shot should fire once the cooldown elapsed")
	}
}

func TestEnemy_HoldsFollowRange(t *testing.T) {
	ts := NewTestSim(WithoutSpawner(), WithEnemyAt(4, 0))
	ts.Start()
	e := ts.Enemies()[0]
	ts.RunTicks(300)

	d := e.Body.Pos.Sub(ts.Sim.Player().Body.Pos).Magnitude()
	if math.Abs(d-enemyFollowRange) > 0.2 {
		t.Fatalf("expected enemy near %.1f from player, got %.2f", enemyFollowRange, d)
	}
}
