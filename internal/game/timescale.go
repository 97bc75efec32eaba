package game

// Transition linearly moves a value between two points in simulation time and
// fires its completion callback once, on the first sample at or after End.
type Transition struct {
	Start, End float64 // seconds on the unscaled clock
	From, To   float64
	onDone     func()
	done       bool
}

// Sample returns the value at now and fires the callback when the transition completes.
func (t *Transition) Sample(now float64) float64 {
	v := t.valueAt(now)
	if now >= t.End {
		t.finish()
	}
	return v
}

func (t *Transition) valueAt(now float64) float64 {
	switch {
	case now >= t.End:
		return t.To
	case now <= t.Start:
		return t.From
	default:
		return Lerp(t.From, t.To, InverseLerp(t.Start, t.End, now))
	}
}

func (t *Transition) finish() {
	if t.done {
		return
	}
	t.done = true
	if t.onDone != nil {
		t.onDone()
	}
}

// Done reports whether the completion callback has fired.
func (t *Transition) Done() bool { return t.done }

// TimeScale is the multiplier applied to entity dt. Starting a transition
// replaces the running one; the replaced callback never fires.
type TimeScale struct {
	value  float64
	active *Transition
}

func NewTimeScale(initial float64) *TimeScale {
	return &TimeScale{value: initial}
}

// Value is the scale from the most recent Sample.
func (ts *TimeScale) Value() float64 { return ts.value }

// Set jumps to v and cancels any running transition.
func (ts *TimeScale) Set(v float64) {
	ts.value = v
	ts.active = nil
}

// TransitionTo eases from the current value to target over duration seconds.
func (ts *TimeScale) TransitionTo(now, target, duration float64, onDone func()) {
	ts.active = &Transition{
		Start:  now,
		End:    now + duration,
		From:   ts.value,
		To:     target,
		onDone: onDone,
	}
}

// Sample advances the running transition, if any, and returns the current scale.
// The value is stored before the callback runs so a follow-up transition
// started from the callback begins where this one ended.
func (ts *TimeScale) Sample(now float64) float64 {
	tr := ts.active
	if tr == nil {
		return ts.value
	}
	ts.value = tr.valueAt(now)
	if now >= tr.End {
		ts.active = nil
		tr.finish()
	}
	return ts.value
}

// Transitioning reports whether a transition is still running.
func (ts *TimeScale) Transitioning() bool { return ts.active != nil }
