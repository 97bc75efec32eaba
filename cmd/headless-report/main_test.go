package main

import (
	"strings"
	"testing"

	"github.com/Garsondee/tank-arena/internal/game"
)

func testLog() *game.SimLog {
	log := game.NewSimLog(false)
	log.Add(5, "P", "player", "combat", "damage", "2", 2)
	log.Add(9, "E1", "enemy", "combat", "destroyed", "", 0)
	log.Add(12, "P", "player", "combat", "destroyed", "", 0)
	log.Add(12, "--", "--", "session", "finish", "score=3", 3)
	return log
}

func TestFirstTick_MatchesTeam(t *testing.T) {
	log := testLog()
	if got := firstTick(log, game.LogQuery{Category: "combat", Key: "destroyed", Team: "player"}); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	if got := firstTick(log, game.LogQuery{Category: "combat", Key: "destroyed"}); got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
	if got := firstTick(log, game.LogQuery{Category: "progress", Key: "level_up"}); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestFinishWindow_BoundsTicks(t *testing.T) {
	out := finishWindow(testLog(), 12, 4)
	if strings.Contains(out, "T=005") {
		t.Fatalf("expected tick 5 outside the window, got:\n%s", out)
	}
	for _, want := range []string{"T=009", "T=012", "score=3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in window, got:\n%s", want, out)
		}
	}
	if all := finishWindow(testLog(), 12, 100); !strings.Contains(all, "T=005") {
		t.Fatalf("expected a long tail to clamp at tick 0, got:\n%s", all)
	}
}

func TestAggregate_AveragesAndBest(t *testing.T) {
	all := []runStats{
		{seed: 1, report: game.SessionReport{Ticks: 100, Score: 6, Level: 1, Kills: 2, Shots: 10, Hits: 5, Finished: true},
			firstKillTick: 40, firstLevelTick: -1, finishTick: 100, chosen: map[string]int{"Player Move Speed": 1}},
		{seed: 2, report: game.SessionReport{Ticks: 300, Score: 12, Level: 3, Kills: 4, Shots: 30, Hits: 5},
			firstKillTick: 60, firstLevelTick: 200, finishTick: -1, chosen: map[string]int{"Player Move Speed": 2}},
	}
	agg := aggregate(all)

	if agg.destroyed != 1 {
		t.Fatalf("expected 1 destroyed run, got %d", agg.destroyed)
	}
	if agg.avgScore != 9 || agg.avgLevel != 2 || agg.avgTicks != 200 {
		t.Fatalf("expected avg score 9 level 2 ticks 200, got %.1f %.1f %.1f", agg.avgScore, agg.avgLevel, agg.avgTicks)
	}
	if agg.accuracy != 0.25 {
		t.Fatalf("expected pooled accuracy 0.25, got %.2f", agg.accuracy)
	}
	if agg.bestScore != 12 || agg.bestSeed != 2 {
		t.Fatalf("expected best 12 from seed 2, got %d from seed %d", agg.bestScore, agg.bestSeed)
	}
	if avgTickString(agg.killTicks) != "50.0" || avgTickString(agg.levelTicks) != "200.0" {
		t.Fatalf("unexpected phase markers: kill=%v level=%v", agg.killTicks, agg.levelTicks)
	}
	if agg.raised["Player Move Speed"] != 3 {
		t.Fatalf("expected 3 move speed raises, got %d", agg.raised["Player Move Speed"])
	}
}

func TestAggregate_Empty(t *testing.T) {
	agg := aggregate(nil)
	if agg.avgScore != 0 || agg.runs != 0 {
		t.Fatalf("expected zero aggregate, got %+v", agg)
	}
	if avgTickString(agg.killTicks) != "n/a" {
		t.Fatalf("expected n/a, got %s", avgTickString(agg.killTicks))
	}
}

func TestJoinCounts_Sorted(t *testing.T) {
	got := joinCounts(map[string]int{"b": 1, "a": 2})
	if got != "a(2),b(1)" {
		t.Fatalf("expected a(2),b(1), got %s", got)
	}
	if joinCounts(nil) != "none" {
		t.Fatalf("expected none, got %s", joinCounts(nil))
	}
}

func TestRunAutopilot_Deterministic(t *testing.T) {
	a, _ := runAutopilot(1, 7, 600)
	b, _ := runAutopilot(1, 7, 600)
	if a.report != b.report {
		t.Fatalf("expected identical reports for the same seed:\n%+v\n%+v", a.report, b.report)
	}
	if a.report.Ticks == 0 {
		t.Fatal("expected the autopilot to start the session")
	}
	if a.report.Shots == 0 {
		t.Fatal("expected the autopilot to fire")
	}
}

func TestAggregate_GradeDistribution(t *testing.T) {
	all := []runStats{
		{grade: game.SessionGrade{Grade: "B", Score: 72, GoodTraits: []string{"relentless"}}},
		{grade: game.SessionGrade{Grade: "D", Score: 48, BadTraits: []string{"pacifist"}}},
	}
	agg := aggregate(all)
	if agg.avgGrade != 60 {
		t.Fatalf("expected avg grade 60, got %.1f", agg.avgGrade)
	}
	if joinCounts(agg.grades) != "B(1),D(1)" {
		t.Fatalf("expected B(1),D(1), got %s", joinCounts(agg.grades))
	}
	if agg.traits["+relentless"] != 1 || agg.traits["-pacifist"] != 1 {
		t.Fatalf("expected signed trait counts, got %v", agg.traits)
	}
}
