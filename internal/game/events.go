package game

// EventKind identifies what changed during a tick.
type EventKind int

const (
	EventBarChanged EventKind = iota
	EventStatChanged
	EventScoreChanged
	EventLevelUp
	EventUpgradeOffered
	EventUpgradeChosen
	EventSessionStarted
	EventSessionFinished
	EventSessionRestarted
)

func (k EventKind) String() string {
	switch k {
	case EventBarChanged:
		return "bar_changed"
	case EventStatChanged:
		return "stat_changed"
	case EventScoreChanged:
		return "score_changed"
	case EventLevelUp:
		return "level_up"
	case EventUpgradeOffered:
		return "upgrade_offered"
	case EventUpgradeChosen:
		return "upgrade_chosen"
	case EventSessionStarted:
		return "session_started"
	case EventSessionFinished:
		return "session_finished"
	case EventSessionRestarted:
		return "session_restarted"
	default:
		return "unknown"
	}
}

// Event is a state change pushed to the host. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind EventKind

	Name  string // bar or stat key
	Value int
	Max   int

	Offers   [offersPerUpgrade]Offer
	Messages [offersPerUpgrade][changesPerOffer]string
	Choice   int

	Score        int
	Highscore    int
	NewHighscore bool
	Level        int
	Report       SessionReport // set on EventSessionFinished
}

func (s *Simulation) emit(ev Event) {
	s.events = append(s.events, ev)
}

// DrainEvents returns the queued events and clears the queue. Hosts call it
// once per tick.
func (s *Simulation) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

func (s *Simulation) emitBar(name string) {
	b, ok := s.bars[name]
	if !ok {
		return
	}
	s.emit(Event{Kind: EventBarChanged, Name: name, Value: b.Value, Max: b.Max})
}

func (s *Simulation) emitStat(key string) {
	s.emit(Event{Kind: EventStatChanged, Name: key, Value: s.stats.Value(key)})
}
