package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// SessionOutcome classifies how a session ended.
type SessionOutcome int

const (
	OutcomeInProgress SessionOutcome = iota
	OutcomeDestroyed
	OutcomeSurvived
)

func (o SessionOutcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeDestroyed:
		return "destroyed"
	case OutcomeSurvived:
		return "survived"
	default:
		return "unknown"
	}
}

// SessionReport tallies one session. It is reset on restart.
type SessionReport struct {
	Ticks           int
	SurvivedSeconds float64 // scaled simulation time while playing
	Shots           int     // player shots
	Hits            int     // damaging hits on enemies
	Kills           int
	DamageTaken     int
	Level           int
	Score           int
	Finished        bool
}

// Accuracy is hits per shot, 0 when nothing was fired. Penetrating shots
// can push it above 1.
func (r SessionReport) Accuracy() float64 {
	if r.Shots == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Shots)
}

// Outcome reports whether the player was destroyed. A session cut off by a
// tick budget counts as survived once play has started.
func (r SessionReport) Outcome() SessionOutcome {
	switch {
	case r.Finished:
		return OutcomeDestroyed
	case r.Ticks > 0:
		return OutcomeSurvived
	default:
		return OutcomeInProgress
	}
}

// --- Snapshots ---

// ArenaSnapshot captures the arena at one tick.
type ArenaSnapshot struct {
	Tick         int
	State        SessionState
	Enemies      int
	Bullets      int
	Particles    int
	PlayerHealth int
	Level        int
	Score        int
	TimeScale    float64
}

// Reporter collects periodic snapshots and summarizes sliding windows.
type Reporter struct {
	history     []ArenaSnapshot
	windowTicks int
}

// NewReporter creates a reporter with the given window size.
func NewReporter(windowTicks int) *Reporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &Reporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from the current simulation state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *Reporter) Collect(sim *Simulation) {
	snap := ArenaSnapshot{
		Tick:      sim.TickCount(),
		State:     sim.State(),
		Level:     sim.Level(),
		Score:     sim.ScoreKeeper().Score(),
		TimeScale: sim.TimeScale(),
	}
	for _, e := range sim.Entities() {
		switch e.Kind {
		case KindPlayer:
			snap.PlayerHealth = e.Tank.Health
		case KindEnemy:
			snap.Enemies++
		case KindBullet:
			snap.Bullets++
		case KindParticle:
			snap.Particles++
		}
	}
	r.history = append(r.history, snap)
}

// Latest returns the most recent snapshot, or nil.
func (r *Reporter) Latest() *ArenaSnapshot {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns every snapshot collected so far.
func (r *Reporter) History() []ArenaSnapshot {
	return r.history
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgEnemies      float64
	AvgBullets      float64
	AvgPlayerHealth float64
	MinPlayerHealth int
	ScoreGained     int
	LevelsGained    int
}

// WindowSummary averages the snapshots inside the recent window.
func (r *Reporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []ArenaSnapshot
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	newest, oldest := window[0], window[len(window)-1]
	wr := &WindowReport{
		FromTick:        oldest.Tick,
		ToTick:          newest.Tick,
		SampleCount:     len(window),
		MinPlayerHealth: newest.PlayerHealth,
		ScoreGained:     newest.Score - oldest.Score,
		LevelsGained:    newest.Level - oldest.Level,
	}
	for _, s := range window {
		wr.AvgEnemies += float64(s.Enemies)
		wr.AvgBullets += float64(s.Bullets)
		wr.AvgPlayerHealth += float64(s.PlayerHealth)
		wr.MinPlayerHealth = min(wr.MinPlayerHealth, s.PlayerHealth)
	}
	n := float64(len(window))
	wr.AvgEnemies /= n
	wr.AvgBullets /= n
	wr.AvgPlayerHealth /= n
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Arena Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  enemies avg %.1f  bullets avg %.1f\n", wr.AvgEnemies, wr.AvgBullets)
	fmt.Fprintf(&sb, "  health avg %.1f  min %d\n", wr.AvgPlayerHealth, wr.MinPlayerHealth)
	fmt.Fprintf(&sb, "  score +%d  levels +%d\n", wr.ScoreGained, wr.LevelsGained)
	return sb.String()
}
