package game

// Particle is a visual-only effect. It moves for Motion seconds along its
// curve, then holds still and fades until Lifespan is reached.
type Particle struct {
	Material Material
	Layer    Layer

	StartPos, EndPos   Vec3
	StartRot, EndRot   float64
	StartSize, EndSize Vec3
	Curve              Curve
	Motion             float64
	Lifespan           float64

	elapsed float64
	pos     Vec3
	rot     float64
	size    Vec3
}

func (p *Particle) progress() float64 {
	if p.Motion <= 0 {
		return 1
	}
	return Clamp(p.elapsed/p.Motion, 0, 1)
}

// Alpha is 1 while moving and falls linearly to 0 over the remaining lifespan.
func (p *Particle) Alpha() float64 {
	fade := p.Lifespan - p.Motion
	if fade <= 0 || p.elapsed <= p.Motion {
		return 1
	}
	return 1 - Clamp((p.elapsed-p.Motion)/fade, 0, 1)
}

func (p *Particle) sample() {
	curve := p.Curve
	if curve == nil {
		curve = Linear
	}
	k := curve(p.progress())
	p.pos = LerpVec3(p.StartPos, p.EndPos, k)
	p.rot = Lerp(p.StartRot, p.EndRot, k)
	p.size = LerpVec3(p.StartSize, p.EndSize, k)
}

func (p *Particle) update(sim *Simulation, e *Entity, dt float64) {
	p.elapsed += dt
	p.sample()
	if p.elapsed >= p.Lifespan {
		sim.Remove(e.ID)
	}
}

func (p *Particle) onCollision(*Simulation, *Entity, *Entity) {}

func (p *Particle) render(_ *Simulation, _ *Entity, r Renderer) {
	m := p.Material
	m.Color.A = uint8(float64(m.Color.A) * p.Alpha())
	r.DrawQuad(m, p.pos, p.rot, p.size, p.Layer)
}
