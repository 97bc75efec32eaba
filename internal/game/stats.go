package game

import (
	"fmt"
	"image/color"
)

// --- Stat ---

// Stat is a named integer attribute the upgrade system trades between.
// Positive stats help the player; the rest make enemies tougher.
type Stat struct {
	Key      string
	Name     string
	Positive bool
	Start    int
	Color    color.RGBA

	value int
}

// NewStat creates a stat at its starting value.
func NewStat(key, name string, positive bool, start int, c color.RGBA) *Stat {
	return &Stat{Key: key, Name: name, Positive: positive, Start: start, Color: c, value: start}
}

func (s *Stat) Value() int { return s.value }

// SetValue stores v, floored at 0.
func (s *Stat) SetValue(v int) {
	if v < 0 {
		v = 0
	}
	s.value = v
}

func (s *Stat) Reset() { s.value = s.Start }

// ChangeMessage formats a delta for the offer UI, e.g. "+2 Player Move Speed".
func (s *Stat) ChangeMessage(delta int) string {
	if delta < 0 {
		return fmt.Sprintf("%d %s", delta, s.Name)
	}
	return fmt.Sprintf("+%d %s", delta, s.Name)
}

// Stat keys used by the simulation.
const (
	StatMoveSpeed         = "moveSpeed"
	StatBulletSpeed       = "bulletSpeed"
	StatFireRate          = "fireRate"
	StatBulletDamage      = "bulletDamage"
	StatBulletPenetration = "bulletPenetration"
	StatMaxHealth         = "maxHealth"

	StatEnemyCount    = "enemyCount"
	StatEnemyHealth   = "enemyHealth"
	StatEnemyDamage   = "enemyDamage"
	StatEnemySpeed    = "enemySpeed"
	StatEnemyFireRate = "enemyFireRate"
)

// StatTable holds stats in definition order so sampling is reproducible
// for a given seed.
type StatTable struct {
	order []string
	stats map[string]*Stat
}

func NewStatTable() *StatTable {
	return &StatTable{stats: make(map[string]*Stat)}
}

// DefaultStats returns the standard pool: six player stats and five enemy stats.
func DefaultStats() *StatTable {
	t := NewStatTable()
	good := color.RGBA{R: 132, G: 255, B: 87, A: 255}
	bad := color.RGBA{R: 255, G: 87, B: 87, A: 255}
	t.Define(NewStat(StatMoveSpeed, "Move Speed", true, 5, good))
	t.Define(NewStat(StatBulletSpeed, "Bullet Speed", true, 5, good))
	t.Define(NewStat(StatFireRate, "Fire Rate", true, 5, good))
	t.Define(NewStat(StatBulletDamage, "Bullet Damage", true, 2, good))
	t.Define(NewStat(StatBulletPenetration, "Bullet Penetration", true, 1, good))
	t.Define(NewStat(StatMaxHealth, "Max Health", true, 6, good))
	t.Define(NewStat(StatEnemyCount, "Enemy Count", false, 1, bad))
	t.Define(NewStat(StatEnemyHealth, "Enemy Health", false, 3, bad))
	t.Define(NewStat(StatEnemyDamage, "Enemy Damage", false, 1, bad))
	t.Define(NewStat(StatEnemySpeed, "Enemy Speed", false, 3, bad))
	t.Define(NewStat(StatEnemyFireRate, "Enemy Fire Rate", false, 2, bad))
	return t
}

// Define adds s, replacing any stat with the same key in place.
func (t *StatTable) Define(s *Stat) {
	if _, ok := t.stats[s.Key]; !ok {
		t.order = append(t.order, s.Key)
	}
	t.stats[s.Key] = s
}

func (t *StatTable) Get(key string) (*Stat, bool) {
	s, ok := t.stats[key]
	return s, ok
}

// Value returns the current value of key, or 0 when it is not defined.
func (t *StatTable) Value(key string) int {
	if s, ok := t.stats[key]; ok {
		return s.value
	}
	return 0
}

func (t *StatTable) Len() int { return len(t.order) }

// Keys returns stat keys in definition order.
func (t *StatTable) Keys() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// All returns stats in definition order.
func (t *StatTable) All() []*Stat {
	out := make([]*Stat, len(t.order))
	for i, k := range t.order {
		out[i] = t.stats[k]
	}
	return out
}

// Apply adds each delta to its stat. Either every change lands or none does.
func (t *StatTable) Apply(changes ...StatChange) error {
	for _, c := range changes {
		if _, ok := t.stats[c.Key]; !ok {
			return fmt.Errorf("apply %q: %w", c.Key, ErrUnknownStat)
		}
	}
	for _, c := range changes {
		s := t.stats[c.Key]
		s.SetValue(s.value + c.Delta)
	}
	return nil
}

func (t *StatTable) Reset() {
	for _, s := range t.stats {
		s.Reset()
	}
}

// --- Bar ---

// Bar is a value with a maximum, shown as a filled strip in the HUD.
type Bar struct {
	Name       string
	StartMax   int
	Start      int
	Growth     int // added to Max on every overflow
	Background color.RGBA
	Foreground color.RGBA

	Max   int
	Value int
}

// NewBar creates a bar at its starting value and maximum.
func NewBar(name string, startMax, start, growth int, bg, fg color.RGBA) *Bar {
	return &Bar{
		Name:       name,
		StartMax:   startMax,
		Start:      start,
		Growth:     growth,
		Background: bg,
		Foreground: fg,
		Max:        startMax,
		Value:      start,
	}
}

// Add increases the value and returns how many times it overflowed Max.
// Each overflow keeps the remainder and grows Max by Growth.
func (b *Bar) Add(n int) int {
	b.Value += n
	overflows := 0
	for b.Max > 0 && b.Value >= b.Max {
		b.Value -= b.Max
		b.Max += b.Growth
		overflows++
	}
	return overflows
}

// Set replaces value and maximum.
func (b *Bar) Set(value, max int) {
	b.Value = value
	b.Max = max
}

// Percent is the fill fraction, 0 when the bar has no maximum.
func (b *Bar) Percent() float64 {
	if b.Max == 0 {
		return 0
	}
	return float64(b.Value) / float64(b.Max)
}

func (b *Bar) Text() string {
	return fmt.Sprintf("%s %d/%d", b.Name, b.Value, b.Max)
}

func (b *Bar) Reset() {
	b.Max = b.StartMax
	b.Value = b.Start
}

// Bar keys.
const (
	BarHealth     = "health"
	BarExperience = "experience"
)
