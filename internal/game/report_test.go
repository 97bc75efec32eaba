package game

import (
	"strings"
	"testing"
)

func TestSessionReport_Accuracy(t *testing.T) {
	r := SessionReport{Shots: 4, Hits: 3}
	if r.Accuracy() != 0.75 {
		t.Fatalf("expected 0.75, got %.2f", r.Accuracy())
	}
	if (SessionReport{}).Accuracy() != 0 {
		t.Fatal("expected 0 accuracy without shots")
	}
}

func TestSessionReport_Outcome(t *testing.T) {
	if got := (SessionReport{}).Outcome(); got != OutcomeInProgress {
		t.Fatalf("expected in_progress, got %s", got)
	}
	if got := (SessionReport{Ticks: 10}).Outcome(); got != OutcomeSurvived {
		t.Fatalf("expected survived, got %s", got)
	}
	if got := (SessionReport{Ticks: 10, Finished: true}).Outcome(); got != OutcomeDestroyed {
		t.Fatalf("expected destroyed, got %s", got)
	}
}

func TestReporter_WindowSummary(t *testing.T) {
	ts := NewTestSim(WithoutSpawner(), WithEnemyAt(3, 0), WithEnemyAt(-3, 0))
	ts.Start()
	rep := NewReporter(120)
	for i := 0; i < 4; i++ {
		ts.RunTicks(60)
		rep.Collect(ts.Sim)
	}
	wr := rep.WindowSummary()
	if wr == nil {
		t.Fatal("expected a window report")
	}
	// Window of 120 ticks covers the last three samples.
	if wr.SampleCount != 3 {
		t.Fatalf("expected 3 samples, got %d", wr.SampleCount)
	}
	if wr.AvgEnemies != 2 {
		t.Fatalf("expected 2 enemies on average, got %.2f", wr.AvgEnemies)
	}
	if !strings.Contains(wr.Format(), "Arena Report") {
		t.Fatal("expected formatted header")
	}
	if (*WindowReport)(nil).Format() != "No data collected yet.\n" {
		t.Fatal("nil report should format as empty")
	}
}

func TestFeedLog_RingBuffer(t *testing.T) {
	fl := NewFeedLog()
	for i := 0; i < feedMaxEntries+5; i++ {
		fl.Add(i, "E1", TeamEnemy, "destroyed")
	}
	all := fl.Recent()
	if len(all) != feedMaxEntries {
		t.Fatalf("expected %d entries, got %d", feedMaxEntries, len(all))
	}
	if all[0].Tick != 5 || all[len(all)-1].Tick != feedMaxEntries+4 {
		t.Fatalf("expected ticks 5..%d, got %d..%d", feedMaxEntries+4, all[0].Tick, all[len(all)-1].Tick)
	}
	if last := fl.Last(2); len(last) != 2 || last[1].Tick != feedMaxEntries+4 {
		t.Fatal("Last should return the newest entries")
	}
	fl.Clear()
	if len(fl.Recent()) != 0 {
		t.Fatal("expected empty feed after clear")
	}
}

func TestSimLog_RecordsCombat(t *testing.T) {
	ts := NewTestSim(WithoutSpawner(), WithEnemyAt(5, 0))
	ts.Start()
	e := ts.Enemies()[0]
	e.Tank.TakeDamage(ts.Sim, e, 1)

	if !ts.SimLog.Has(LogQuery{Category: "combat", Key: "damage"}) {
		t.Fatal("expected a damage entry")
	}
	if ts.SimLog.Count(LogQuery{Label: e.Label()}) == 0 {
		t.Fatal("expected entries for the enemy label")
	}
	if !strings.Contains(ts.SimLog.Format(LogQuery{}), "combat") {
		t.Fatal("formatted log should contain the category")
	}
}
