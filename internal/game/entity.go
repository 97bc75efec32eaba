package game

import "fmt"

// EntityID is a stable handle into the simulation's entity arena.
type EntityID int

// Team tags tanks and bullets so shots never hurt their own side.
type Team int

const (
	TeamNone Team = iota
	TeamPlayer
	TeamEnemy
)

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	default:
		return "none"
	}
}

// EntityKind is the variant tag of an Entity.
type EntityKind int

const (
	KindPlayer EntityKind = iota
	KindEnemy
	KindBullet
	KindParticle
)

func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindBullet:
		return "bullet"
	case KindParticle:
		return "particle"
	default:
		return "unknown"
	}
}

// behavior is the per-variant logic an Entity dispatches to.
type behavior interface {
	update(sim *Simulation, e *Entity, dt float64)
	onCollision(sim *Simulation, e, other *Entity)
	render(sim *Simulation, e *Entity, r Renderer)
}

// Entity is a record in the simulation arena. Exactly one of Tank, Bullet and
// Particle is set, matching Kind. Body is nil for entities that never collide.
type Entity struct {
	ID   EntityID
	Kind EntityKind
	Body *Body

	Tank     *Tank
	Bullet   *Bullet
	Particle *Particle

	removed bool
}

// Team returns the side the entity fights for, or TeamNone.
func (e *Entity) Team() Team {
	switch {
	case e.Tank != nil:
		return e.Tank.Team
	case e.Bullet != nil:
		return e.Bullet.Team
	default:
		return TeamNone
	}
}

// Position returns the entity's world position.
func (e *Entity) Position() Vec3 {
	if e.Body != nil {
		return e.Body.Pos
	}
	if e.Particle != nil {
		return e.Particle.pos
	}
	return Vec3{}
}

// Removed reports whether removal has been requested for this entity.
func (e *Entity) Removed() bool { return e.removed }

// Label is a short identifier used in logs, e.g. "E12".
func (e *Entity) Label() string {
	switch e.Kind {
	case KindPlayer:
		return "P"
	case KindEnemy:
		return fmt.Sprintf("E%d", e.ID)
	case KindBullet:
		return fmt.Sprintf("b%d", e.ID)
	default:
		return fmt.Sprintf("p%d", e.ID)
	}
}

func (e *Entity) logic() behavior {
	switch {
	case e.Tank != nil:
		return e.Tank
	case e.Bullet != nil:
		return e.Bullet
	case e.Particle != nil:
		return e.Particle
	default:
		return nil
	}
}
