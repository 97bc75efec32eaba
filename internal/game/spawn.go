package game

import "math/rand"

// Default spawn tuning. The population formula was tuned by playtesting.
const (
	defaultSpawnRetries  = 10
	defaultSpawnPerLevel = 3
	defaultSpawnBase     = 1
)

// Spawner keeps enemies topped up and places them out of the player's view.
type Spawner struct {
	Retries  int
	PerLevel int
	Base     int

	rng *rand.Rand
}

func NewSpawner(rng *rand.Rand) *Spawner {
	return &Spawner{
		Retries:  defaultSpawnRetries,
		PerLevel: defaultSpawnPerLevel,
		Base:     defaultSpawnBase,
		rng:      rng,
	}
}

// Target is the enemy population to maintain for the enemy count stat.
func (sp *Spawner) Target(enemyCount int) int {
	return enemyCount*sp.PerLevel + sp.Base
}

// FindSpawnPoint samples the camera's active region and accepts the first
// point outside the visible region. ok is false when every attempt landed
// on screen.
func (sp *Spawner) FindSpawnPoint(cam *Camera) (p Vec3, ok bool) {
	active := cam.ActiveRect()
	visible := cam.VisibleRect()
	for i := 0; i < sp.Retries; i++ {
		p = Vec3{
			X: randRange(sp.rng, active.MinX, active.MaxX),
			Y: randRange(sp.rng, active.MinY, active.MaxY),
		}
		if !visible.Contains(p) {
			return p, true
		}
	}
	return Vec3{}, false
}
