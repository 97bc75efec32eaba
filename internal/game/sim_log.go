package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded arena event.
type SimLogEntry struct {
	Tick     int
	Label    string  // "P", "E3", or "--" for session events
	Team     string  // "player", "enemy", or "--"
	Category string  // session, spawn, combat, progress, upgrade, move
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // amount, score or level where one applies
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] E3   combat    damage           2
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Label, e.Category, e.Key, e.Value)
}

// LogQuery selects entries. Empty strings match anything; a zero To leaves
// the tick range open-ended.
type LogQuery struct {
	Category string
	Key      string
	Label    string
	Team     string
	Contains string // substring of Value
	From, To int    // inclusive tick range
}

func (q LogQuery) matches(e SimLogEntry) bool {
	switch {
	case q.Category != "" && e.Category != q.Category,
		q.Key != "" && e.Key != q.Key,
		q.Label != "" && e.Label != q.Label,
		q.Team != "" && e.Team != q.Team,
		q.Contains != "" && !strings.Contains(e.Value, q.Contains),
		e.Tick < q.From,
		q.To > 0 && e.Tick > q.To:
		return false
	}
	return true
}

// SimLog is the unbounded, queryable event record of a simulation. The
// on-screen FeedLog is its short human-facing counterpart.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. Verbose logs also keep per-tick movement.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Add(tick int, label, team, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Label:    label,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only in verbose logs.
func (sl *SimLog) AddVerbose(tick int, label, team, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, label, team, category, key, value, numVal)
	}
}

func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Query returns every entry q matches, oldest first.
func (sl *SimLog) Query(q LogQuery) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if q.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Filter is Query on category and key alone.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.Query(LogQuery{Category: category, Key: key})
}

func (sl *SimLog) Count(q LogQuery) int {
	n := 0
	for _, e := range sl.entries {
		if q.matches(e) {
			n++
		}
	}
	return n
}

// First returns the oldest matching entry.
func (sl *SimLog) First(q LogQuery) (SimLogEntry, bool) {
	for _, e := range sl.entries {
		if q.matches(e) {
			return e, true
		}
	}
	return SimLogEntry{}, false
}

// Last returns the newest matching entry.
func (sl *SimLog) Last(q LogQuery) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if q.matches(sl.entries[i]) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// Has reports whether any entry matches.
func (sl *SimLog) Has(q LogQuery) bool {
	_, ok := sl.First(q)
	return ok
}

// Format renders the matching entries one per line.
func (sl *SimLog) Format(q LogQuery) string {
	var sb strings.Builder
	for _, e := range sl.Query(q) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary describes the arena as it stands.
func (sl *SimLog) Summary(sim *Simulation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Arena at T=%03d (%d log entries) ---\n", sim.TickCount(), len(sl.entries))
	fmt.Fprintf(&sb, "State: %s  level=%d  timescale=%.2f\n", sim.State(), sim.Level(), sim.TimeScale())

	if p := sim.Player(); p != nil {
		fmt.Fprintf(&sb, "Player: pos=(%.2f,%.2f) health=%d/%d\n",
			p.Body.Pos.X, p.Body.Pos.Y, p.Tank.Health, p.Tank.MaxHealth)
	} else {
		sb.WriteString("Player: destroyed\n")
	}

	counts := map[EntityKind]int{}
	for _, e := range sim.Entities() {
		counts[e.Kind]++
	}
	fmt.Fprintf(&sb, "Alive: enemies=%d  bullets=%d  particles=%d\n",
		counts[KindEnemy], counts[KindBullet], counts[KindParticle])

	keys := sim.Stats().Keys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, sim.Stats().Value(k)))
	}
	fmt.Fprintf(&sb, "Stats: %s\n", strings.Join(parts, " "))
	return sb.String()
}
