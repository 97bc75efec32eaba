package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	ErrStatPoolTooSmall = errors.New("stat pool needs at least two stats")
	ErrNoTradeablePair  = errors.New("stat pool has no detrimental stat to trade against")
	ErrNoExchange       = errors.New("no valid exchange found")
	ErrNoOffer          = errors.New("no upgrade offer is open")
	ErrOfferIndex       = errors.New("offer index out of range")
	ErrUnknownStat      = errors.New("unknown stat")
)

const (
	exchangePercent  = 0.3 // share of the losing stat's headroom given up per trade
	mixedIncrease    = 2   // both stats rise by this when a player stat is paid for with an enemy stat
	maxExchangeDraws = 10000
	offersPerUpgrade = 2
	changesPerOffer  = 2
)

// StatChange is one signed delta in an exchange.
type StatChange struct {
	Key   string
	Delta int
}

// Offer is one upgrade choice: two stats moving in opposite interest.
type Offer struct {
	Changes [changesPerOffer]StatChange
}

// Messages renders each change for display.
func (o Offer) Messages(t *StatTable) [changesPerOffer]string {
	var out [changesPerOffer]string
	for i, c := range o.Changes {
		if s, ok := t.Get(c.Key); ok {
			out[i] = s.ChangeMessage(c.Delta)
		} else {
			out[i] = fmt.Sprintf("%+d %s", c.Delta, c.Key)
		}
	}
	return out
}

// sameStats reports whether two offers touch the same two stats in any order.
func (o Offer) sameStats(other Offer) bool {
	a0, a1 := o.Changes[0].Key, o.Changes[1].Key
	b0, b1 := other.Changes[0].Key, other.Changes[1].Key
	return (a0 == b0 && a1 == b1) || (a0 == b1 && a1 == b0)
}

func (o Offer) hasZeroDelta() bool {
	return o.Changes[0].Delta == 0 || o.Changes[1].Delta == 0
}

// UpgradeGenerator draws stat exchanges from a stat table.
type UpgradeGenerator struct {
	stats *StatTable
	rng   *rand.Rand
}

func NewUpgradeGenerator(stats *StatTable, rng *rand.Rand) *UpgradeGenerator {
	return &UpgradeGenerator{stats: stats, rng: rng}
}

// Generate returns two distinct offers, each with two nonzero deltas.
// Candidates are drawn and rejected until a valid pair is found.
func (g *UpgradeGenerator) Generate() ([offersPerUpgrade]Offer, error) {
	var out [offersPerUpgrade]Offer
	if g.stats.Len() < 2 {
		return out, ErrStatPoolTooSmall
	}
	hasDetrimental := false
	for _, s := range g.stats.All() {
		if !s.Positive {
			hasDetrimental = true
			break
		}
	}
	if !hasDetrimental {
		return out, ErrNoTradeablePair
	}

	for draw := 0; draw < maxExchangeDraws; draw++ {
		first := g.randomExchange()
		second := g.randomExchange()
		if first.hasZeroDelta() || second.hasZeroDelta() {
			continue
		}
		if first.sameStats(second) {
			continue
		}
		out[0], out[1] = first, second
		return out, nil
	}
	return out, fmt.Errorf("after %d draws: %w", maxExchangeDraws, ErrNoExchange)
}

// samplePair picks two distinct stats in random order, redrawing while both
// are player stats.
func (g *UpgradeGenerator) samplePair() (*Stat, *Stat) {
	all := g.stats.All()
	for {
		i := g.rng.Intn(len(all))
		j := g.rng.Intn(len(all) - 1)
		if j >= i {
			j++
		}
		a, b := all[i], all[j]
		if !(a.Positive && b.Positive) {
			return a, b
		}
	}
}

// randomExchange builds one candidate offer. It may contain a zero delta;
// Generate rejects those.
func (g *UpgradeGenerator) randomExchange() Offer {
	a, b := g.samplePair()
	var da, db int

	switch {
	case a.Positive != b.Positive:
		// A player gain paid for with a tougher enemy.
		da, db = mixedIncrease, mixedIncrease

	case !a.Positive:
		// Two enemy stats: one eases, the other hardens.
		dec := boundedDecrease(a.Value())
		da = -dec
		db = g.jitteredIncrease(dec)

	default:
		// Two player stats: one grows at the other's expense.
		dec := boundedDecrease(b.Value())
		da = g.jitteredIncrease(dec)
		db = -dec
	}

	return Offer{Changes: [changesPerOffer]StatChange{
		{Key: a.Key, Delta: da},
		{Key: b.Key, Delta: db},
	}}
}

// boundedDecrease is roughly exchangePercent of the headroom above 1, at
// least 1 and never leaving the stat below 1. A stat already at 1 or 0 yields 0.
func boundedDecrease(value int) int {
	maxDec := value - 1
	if maxDec < 1 {
		return 0
	}
	dec := int(math.Round(exchangePercent * float64(maxDec)))
	return clampInt(dec, 1, maxDec)
}

// jitteredIncrease adds -1..+1 to dec, bumping the result when that would
// leave nothing gained.
func (g *UpgradeGenerator) jitteredIncrease(dec int) int {
	inc := dec + randIntInclusive(g.rng, -1, 1)
	if inc <= 0 {
		inc++
	}
	return inc
}
