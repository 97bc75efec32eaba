package game

import (
	"fmt"
	"math"
	"strings"
)

// Performance grading thresholds.
const (
	perfMinShots      = 10   // gunnery is not graded below this many shots
	perfMinSeconds    = 10.0 // rates are not graded below this much play time
	perfMinLevelTicks = 600
	perfSurvivalBonus = 5.0
)

// SessionGrade is the computed performance grade for one session.
type SessionGrade struct {
	Grade string  // A+, A, B+, B, C+, C, D, F
	Score float64 // 0-100

	// Situation scores (0-100; -1 = not enough data to grade).
	GunneryScore     float64
	LethalityScore   float64
	DurabilityScore  float64
	ProgressionScore float64

	GoodTraits []string
	BadTraits  []string

	KillsPerMinute  float64
	DamagePerMinute float64
}

// GradeSession scores a session report.
func GradeSession(r SessionReport) SessionGrade {
	g := SessionGrade{
		GunneryScore:     -1,
		LethalityScore:   -1,
		DurabilityScore:  -1,
		ProgressionScore: -1,
	}
	minutes := r.SurvivedSeconds / 60
	if minutes > 0 {
		g.KillsPerMinute = float64(r.Kills) / minutes
		g.DamagePerMinute = float64(r.DamageTaken) / minutes
	}

	// --- Gunnery: share of shots that connected ---
	if r.Shots >= perfMinShots {
		g.GunneryScore = perfClamp(30 + 70*math.Min(1, r.Accuracy()))
	}

	// --- Lethality and durability need enough time for rates to settle ---
	if r.SurvivedSeconds >= perfMinSeconds {
		g.LethalityScore = perfClamp(40 + 12*g.KillsPerMinute)
		g.DurabilityScore = perfClamp(90 - 10*g.DamagePerMinute)
	}

	// --- Progression: levels reached ---
	if r.Ticks >= perfMinLevelTicks {
		g.ProgressionScore = perfClamp(40 + 15*float64(r.Level))
	}

	type scoredWeight struct {
		score  float64
		weight float64
	}
	var items []scoredWeight
	if g.GunneryScore >= 0 {
		items = append(items, scoredWeight{g.GunneryScore, 0.35})
	}
	if g.LethalityScore >= 0 {
		items = append(items, scoredWeight{g.LethalityScore, 0.25})
	}
	if g.DurabilityScore >= 0 {
		items = append(items, scoredWeight{g.DurabilityScore, 0.20})
	}
	if g.ProgressionScore >= 0 {
		items = append(items, scoredWeight{g.ProgressionScore, 0.20})
	}

	if len(items) > 0 {
		totalW, totalS := 0.0, 0.0
		for _, it := range items {
			totalW += it.weight
			totalS += it.score * it.weight
		}
		g.Score = totalS / totalW
	} else {
		g.Score = 50
	}
	if r.Outcome() == OutcomeSurvived {
		g.Score = math.Min(100, g.Score+perfSurvivalBonus)
	}

	g.Grade = LetterGrade(g.Score)
	g.GoodTraits, g.BadTraits = perfDetectTraits(r, g)
	return g
}

func perfDetectTraits(r SessionReport, g SessionGrade) (good, bad []string) {
	if r.Shots >= perfMinShots && r.Accuracy() >= 0.6 {
		good = append(good, "sharpshooter")
	}
	if r.SurvivedSeconds >= perfMinSeconds && g.KillsPerMinute >= 3 {
		good = append(good, "relentless")
	}
	if r.SurvivedSeconds >= 3*perfMinSeconds && r.DamageTaken == 0 {
		good = append(good, "untouchable")
	}
	if r.Level >= 3 {
		good = append(good, "quick_study")
	}

	if r.Shots >= 2*perfMinShots && r.Accuracy() < 0.2 {
		bad = append(bad, "spray_and_pray")
	}
	if r.SurvivedSeconds >= 3*perfMinSeconds && r.Kills == 0 {
		bad = append(bad, "pacifist")
	}
	if r.SurvivedSeconds >= perfMinSeconds && g.DamagePerMinute >= 6 {
		bad = append(bad, "glass_cannon")
	}
	if r.Outcome() == OutcomeDestroyed && r.SurvivedSeconds < 2*perfMinSeconds {
		bad = append(bad, "early_exit")
	}
	return good, bad
}

// Format returns a short human-readable grade block.
func (g SessionGrade) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grade %s (%.0f)  kills/min=%.1f  dmg/min=%.1f\n",
		g.Grade, g.Score, g.KillsPerMinute, g.DamagePerMinute)

	var scores []string
	if g.GunneryScore >= 0 {
		scores = append(scores, fmt.Sprintf("Gunnery=%.0f", g.GunneryScore))
	}
	if g.LethalityScore >= 0 {
		scores = append(scores, fmt.Sprintf("Lethality=%.0f", g.LethalityScore))
	}
	if g.DurabilityScore >= 0 {
		scores = append(scores, fmt.Sprintf("Durability=%.0f", g.DurabilityScore))
	}
	if g.ProgressionScore >= 0 {
		scores = append(scores, fmt.Sprintf("Progression=%.0f", g.ProgressionScore))
	}
	if len(scores) > 0 {
		fmt.Fprintf(&sb, "  Scores: %s\n", strings.Join(scores, "  "))
	}
	if len(g.GoodTraits) > 0 {
		fmt.Fprintf(&sb, "  Good: %s\n", strings.Join(g.GoodTraits, ", "))
	}
	if len(g.BadTraits) > 0 {
		fmt.Fprintf(&sb, "  Bad:  %s\n", strings.Join(g.BadTraits, ", "))
	}
	return sb.String()
}

func perfClamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// LetterGrade maps a 0-100 score to a letter grade.
func LetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}
