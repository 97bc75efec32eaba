package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/tank-arena/internal/game"
)

// reportIntervalTicks matches the window host: one arena sample per second.
const reportIntervalTicks = 60

type runStats struct {
	runIndex int
	seed     int64

	report game.SessionReport
	grade  game.SessionGrade

	firstKillTick   int
	firstLevelTick  int
	firstDamageTick int
	finishTick      int

	spawnSkips int
	offers     int
	chosen     map[string]int // stat name -> times raised by a chosen offer

	windowSummary *game.WindowReport
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var verbose bool
	var tail int

	flag.IntVar(&runs, "runs", 5, "number of headless autopilot runs")
	flag.IntVar(&ticks, "ticks", 3600, "tick budget per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.BoolVar(&verbose, "verbose", false, "print the full event log of every run")
	flag.IntVar(&tail, "tail", 120, "ticks of event log to print before each player death (0 = off)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, log := runAutopilot(i+1, seed, ticks)
		all = append(all, stats)
		printRun(stats)
		switch {
		case verbose:
			fmt.Print(log.Format(game.LogQuery{}))
			fmt.Println()
		case tail > 0 && stats.finishTick >= 0:
			fmt.Printf("last %d ticks before death:\n", tail)
			fmt.Print(finishWindow(log, stats.finishTick, tail))
			fmt.Println()
		}
	}

	printAggregate(aggregate(all))
}

// runAutopilot plays one session until the player dies or the budget runs out.
func runAutopilot(runIndex int, seed int64, ticks int) (runStats, *game.SimLog) {
	ts := game.NewTestSim(game.WithSeed(seed), game.WithAutopilot())
	reporter := game.NewReporter(0)
	for t := 0; t < ticks && ts.Sim.State() != game.StateFinished; t++ {
		ts.RunTicks(1)
		if ts.CurrentTick()%reportIntervalTicks == 0 {
			reporter.Collect(ts.Sim)
		}
	}
	reporter.Collect(ts.Sim)

	chosen := map[string]int{}
	for _, e := range ts.SimLog.Filter("upgrade", "chosen") {
		for _, part := range strings.Split(e.Value, ", ") {
			if strings.HasPrefix(part, "+") {
				chosen[strings.TrimLeft(part, "+0123456789 ")]++
			}
		}
	}

	report := ts.Sim.Report()
	return runStats{
		runIndex:        runIndex,
		seed:            seed,
		report:          report,
		grade:           game.GradeSession(report),
		firstKillTick:   firstTick(ts.SimLog, game.LogQuery{Category: "combat", Key: "destroyed", Team: "enemy"}),
		firstLevelTick:  firstTick(ts.SimLog, game.LogQuery{Category: "progress", Key: "level_up"}),
		firstDamageTick: firstTick(ts.SimLog, game.LogQuery{Category: "combat", Key: "damage", Team: "player"}),
		finishTick:      firstTick(ts.SimLog, game.LogQuery{Category: "session", Key: "finish"}),
		spawnSkips:      ts.SimLog.Count(game.LogQuery{Category: "spawn", Key: "skip"}),
		offers:          ts.SimLog.Count(game.LogQuery{Category: "upgrade", Key: "offer"}),
		chosen:          chosen,
		windowSummary:   reporter.WindowSummary(),
	}, ts.SimLog
}

// finishWindow renders the tail ticks of log leading up to and including
// the finish tick.
func finishWindow(log *game.SimLog, finishTick, tail int) string {
	return log.Format(game.LogQuery{From: max(0, finishTick-tail), To: finishTick})
}

// firstTick returns the tick of the first entry q matches, or -1.
func firstTick(log *game.SimLog, q game.LogQuery) int {
	if e, ok := log.First(q); ok {
		return e.Tick
	}
	return -1
}

func printRun(rs runStats) {
	r := rs.report
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome=%s ticks=%d survived=%.1fs level=%d score=%d\n",
		r.Outcome(), r.Ticks, r.SurvivedSeconds, r.Level, r.Score)
	fmt.Printf("combat: shots=%d hits=%d accuracy=%.2f kills=%d damage_taken=%d\n",
		r.Shots, r.Hits, r.Accuracy(), r.Kills, r.DamageTaken)
	fmt.Printf("phase_markers: first_kill=%d first_damage=%d first_level=%d finish=%d\n",
		rs.firstKillTick, rs.firstDamageTick, rs.firstLevelTick, rs.finishTick)
	fmt.Printf("events: offers=%d spawn_skips=%d raised=[%s]\n", rs.offers, rs.spawnSkips, joinCounts(rs.chosen))
	fmt.Print(rs.grade.Format())
	if rs.windowSummary != nil {
		fmt.Print(rs.windowSummary.Format())
	}
	fmt.Println()
}

type aggregateStats struct {
	runs      int
	destroyed int

	avgScore    float64
	avgGrade    float64
	avgLevel    float64
	avgKills    float64
	avgTicks    float64
	accuracy    float64
	bestScore   int
	bestSeed    int64
	killTicks   []int
	levelTicks  []int
	finishTicks []int
	raised      map[string]int
	grades      map[string]int
	traits      map[string]int
}

func aggregate(all []runStats) aggregateStats {
	agg := aggregateStats{
		runs:     len(all),
		raised:   map[string]int{},
		grades:   map[string]int{},
		traits:   map[string]int{},
		bestSeed: -1,
	}
	var score, level, kills, ticks, shots, hits int
	var gradeSum float64
	for _, rs := range all {
		r := rs.report
		score += r.Score
		level += r.Level
		kills += r.Kills
		ticks += r.Ticks
		shots += r.Shots
		hits += r.Hits
		if r.Outcome() == game.OutcomeDestroyed {
			agg.destroyed++
		}
		if agg.bestSeed < 0 || r.Score > agg.bestScore {
			agg.bestScore, agg.bestSeed = r.Score, rs.seed
		}
		if rs.firstKillTick >= 0 {
			agg.killTicks = append(agg.killTicks, rs.firstKillTick)
		}
		if rs.firstLevelTick >= 0 {
			agg.levelTicks = append(agg.levelTicks, rs.firstLevelTick)
		}
		if rs.finishTick >= 0 {
			agg.finishTicks = append(agg.finishTicks, rs.finishTick)
		}
		for k, n := range rs.chosen {
			agg.raised[k] += n
		}
		gradeSum += rs.grade.Score
		agg.grades[rs.grade.Grade]++
		for _, t := range rs.grade.GoodTraits {
			agg.traits["+"+t]++
		}
		for _, t := range rs.grade.BadTraits {
			agg.traits["-"+t]++
		}
	}
	if len(all) > 0 {
		agg.avgGrade = gradeSum / float64(len(all))
	}
	agg.avgScore = avg(score, len(all))
	agg.avgLevel = avg(level, len(all))
	agg.avgKills = avg(kills, len(all))
	agg.avgTicks = avg(ticks, len(all))
	if shots > 0 {
		agg.accuracy = float64(hits) / float64(shots)
	}
	return agg
}

func printAggregate(agg aggregateStats) {
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d destroyed=%d survived=%d\n", agg.runs, agg.destroyed, agg.runs-agg.destroyed)
	fmt.Printf("avg_per_run: score=%.1f level=%.1f kills=%.1f ticks=%.1f accuracy=%.2f\n",
		agg.avgScore, agg.avgLevel, agg.avgKills, agg.avgTicks, agg.accuracy)
	fmt.Printf("best: score=%d seed=%d\n", agg.bestScore, agg.bestSeed)
	fmt.Printf("phase_marker_avg_ticks: first_kill=%s first_level=%s finish=%s\n",
		avgTickString(agg.killTicks), avgTickString(agg.levelTicks), avgTickString(agg.finishTicks))
	fmt.Printf("stats_raised: %s\n", joinCounts(agg.raised))
	fmt.Printf("grade: avg=%.1f (%s) distribution=%s\n",
		agg.avgGrade, game.LetterGrade(agg.avgGrade), joinCounts(agg.grades))
	fmt.Printf("traits: %s\n", joinCounts(agg.traits))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s(%d)", k, counts[k])
	}
	return strings.Join(parts, ",")
}
