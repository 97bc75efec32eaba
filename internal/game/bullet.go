package game

import "image/color"

var (
	playerBulletColor = color.RGBA{R: 90, G: 205, B: 90, A: 255}
	enemyBulletColor  = color.RGBA{R: 205, G: 205, B: 205, A: 255}
)

// bulletRadius grows slightly with damage so heavier shots read bigger.
func bulletRadius(damage int) float64 {
	return 0.05 + float64(damage)*0.005
}

// Bullet is a trigger projectile. It can damage up to Penetration distinct
// targets and never the same target twice.
type Bullet struct {
	Team        Team
	Damage      int
	Penetration int
	Direction   float64 // radians
	Speed       float64
	Lifespan    float64 // seconds left

	body  *Body
	hits  map[EntityID]struct{}
	color color.RGBA
}

// RegisterHit credits a hit on target. It returns false for friendly targets
// and for targets this bullet already hit; otherwise it spends one point of
// penetration, removing the bullet when none is left.
func (b *Bullet) RegisterHit(sim *Simulation, self, target *Entity) bool {
	if target.Team() == b.Team {
		return false
	}
	if _, seen := b.hits[target.ID]; seen {
		return false
	}
	b.hits[target.ID] = struct{}{}
	b.Penetration--
	if b.Penetration <= 0 {
		sim.Remove(self.ID)
	}
	return true
}

// HitCount is how many distinct targets this bullet has damaged.
func (b *Bullet) HitCount() int { return len(b.hits) }

func (b *Bullet) update(sim *Simulation, e *Entity, dt float64) {
	b.body.Pos = b.body.Pos.Add(FromAngle(b.Direction).Mul(b.Speed * dt))
	b.Lifespan -= dt
	if b.Lifespan <= 0 || !sim.camera.ActiveRect().Contains(b.body.Pos) {
		sim.Remove(e.ID)
	}
}

// Damage is applied by the tank side once RegisterHit succeeds.
func (b *Bullet) onCollision(*Simulation, *Entity, *Entity) {}

func (b *Bullet) render(_ *Simulation, _ *Entity, r Renderer) {
	d := b.body.Radius * 2
	r.DrawQuad(Material{Texture: TextureSquare, Color: b.color}, b.body.Pos, b.Direction, Vec3{X: d, Y: d, Z: 1}, LayerBullet)
}
