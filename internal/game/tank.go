package game

import (
	"image/color"
	"math"
)

// --- Tank constants ---

const (
	tankRadius        = 0.25
	tankSize          = 0.55 // quad edge length for hull and turret
	tankRotationSpeed = 5.0  // rad/s the hull may turn toward its heading
	muzzleOffset      = 0.32 // distance from centre to where shots appear
	bulletLifespan    = 3.0  // seconds

	debrisMinOffset = 0.3
	debrisMaxOffset = 0.8
	debrisMotion    = 0.6
	debrisLifespan  = 1.5
	flashLifespan   = 0.1

	enemyFollowRange = 2.0 // enemies hold this far from the player
	enemyShootRange  = 6.0
)

var (
	playerHullColor   = color.RGBA{R: 76, G: 175, B: 80, A: 255}
	playerTurretColor = color.RGBA{R: 56, G: 142, B: 60, A: 255}
	enemyHullColor    = color.RGBA{R: 200, G: 70, B: 60, A: 255}
	enemyTurretColor  = color.RGBA{R: 160, G: 50, B: 45, A: 255}
	debrisColor       = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	flashColor        = color.RGBA{R: 255, G: 230, B: 150, A: 255}
)

// controller decides what a tank does each tick: the player reads input,
// enemies chase the player.
type controller interface {
	control(sim *Simulation, e *Entity, t *Tank, dt float64)
}

// Tank is the shared state of player and enemy tanks.
type Tank struct {
	Team Team

	BodyRotation   float64
	TurretRotation float64
	RotationSpeed  float64

	Health    int
	MaxHealth int
	MoveSpeed float64

	ShootCooldown float64
	ShootDelay    float64

	BulletSpeed       float64
	BulletDamage      int
	BulletPenetration int

	body *Body
	ctrl controller
	dead bool

	hullColor   color.RGBA
	turretColor color.RGBA
}

// Dead reports whether the tank has been destroyed.
func (t *Tank) Dead() bool { return t.dead }

func (t *Tank) update(sim *Simulation, e *Entity, dt float64) {
	t.ShootCooldown = math.Max(0, t.ShootCooldown-dt)
	if t.ctrl != nil {
		t.ctrl.control(sim, e, t, dt)
	}
}

// Move drives the tank along direction and turns the hull toward it, never
// faster than RotationSpeed and always the short way round.
func (t *Tank) Move(direction Vec3, dt float64) {
	direction.Z = 0
	if direction.IsZero() {
		return
	}
	dir := direction.Normalize()
	t.body.Pos = t.body.Pos.Add(dir.Mul(t.MoveSpeed * dt))

	total := AngleBetween(t.BodyRotation, dir.Heading())
	step := math.Copysign(t.RotationSpeed*dt, total)
	if math.Abs(step) > math.Abs(total) {
		step = total
	}
	t.BodyRotation += step
}

// FaceTowards points the turret at target immediately.
func (t *Tank) FaceTowards(target Vec3) {
	d := target.Sub(t.body.Pos)
	t.TurretRotation = math.Atan2(d.Y, d.X)
}

// AttemptShoot fires a bullet from the muzzle when the cooldown has elapsed.
func (t *Tank) AttemptShoot(sim *Simulation, e *Entity) bool {
	if t.ShootCooldown > 0 {
		return false
	}
	t.ShootCooldown = t.ShootDelay

	muzzle := t.body.Pos.Add(FromAngle(t.TurretRotation).Mul(muzzleOffset))
	sim.SpawnBullet(t.Team, muzzle, t.TurretRotation, t.BulletSpeed, t.BulletDamage, t.BulletPenetration)
	sim.spawnMuzzleFlash(muzzle, t.TurretRotation)
	sim.shotFired(e)
	return true
}

func (t *Tank) onCollision(sim *Simulation, e, other *Entity) {
	if other.Bullet == nil {
		return
	}
	if !other.Bullet.RegisterHit(sim, other, e) {
		return
	}
	t.TakeDamage(sim, e, other.Bullet.Damage)
}

// TakeDamage lowers health, never below zero. Death fires only on the hit
// that crosses from alive to zero.
func (t *Tank) TakeDamage(sim *Simulation, e *Entity, damage int) {
	before := t.Health
	t.Health = max(0, t.Health-damage)
	sim.tankDamaged(e, before-t.Health)
	if before > 0 && t.Health == 0 {
		t.die(sim, e)
	}
}

func (t *Tank) die(sim *Simulation, e *Entity) {
	if t.dead {
		return
	}
	t.dead = true
	sim.Remove(e.ID)
	sim.spawnDebris(t.body.Pos, t.BodyRotation, t.hullColor, TextureTankBase)
	sim.spawnDebris(t.body.Pos, t.TurretRotation, t.turretColor, TextureTankTop)
	sim.tankDestroyed(e)
}

func (t *Tank) render(_ *Simulation, e *Entity, r Renderer) {
	size := Vec3{X: tankSize, Y: tankSize, Z: 1}
	r.DrawQuad(Material{Texture: TextureTankBase, Color: t.hullColor}, t.body.Pos, t.BodyRotation, size, LayerTankBase)
	r.DrawQuad(Material{Texture: TextureTankTop, Color: t.turretColor}, t.body.Pos, t.TurretRotation, size, LayerTankTop)
}

// --- Controllers ---

// playerControl steers with WASD, aims at the mouse and fires on left click.
type playerControl struct{}

func (playerControl) control(sim *Simulation, e *Entity, t *Tank, dt float64) {
	in := sim.input
	var dir Vec3
	if in.Key("a") {
		dir.X--
	}
	if in.Key("d") {
		dir.X++
	}
	if in.Key("s") {
		dir.Y--
	}
	if in.Key("w") {
		dir.Y++
	}
	t.Move(dir, dt)
	t.FaceTowards(in.MouseWorldPosition())

	if dt > 0 && in.MouseButton(MouseLeft) {
		t.AttemptShoot(sim, e)
	}
}

// enemyControl closes to a fixed range around the player and keeps firing.
type enemyControl struct {
	followRange float64
}

func (c enemyControl) control(sim *Simulation, e *Entity, t *Tank, dt float64) {
	player := sim.Player()
	if player == nil || player.Tank.dead {
		return
	}
	target := player.Body.Pos

	away := t.body.Pos.Sub(target).Normalize()
	hold := target.Add(away.Mul(c.followRange))
	dir := hold.Sub(t.body.Pos)
	step := t.MoveSpeed * dt
	if dir.SqrMagnitude() >= step*step {
		t.Move(dir, dt)
	}

	t.FaceTowards(target)
	if dt > 0 && target.Sub(t.body.Pos).SqrMagnitude() <= enemyShootRange*enemyShootRange {
		t.AttemptShoot(sim, e)
	}
}
