package game

import (
	"math"
	"testing"
)

func TestTransition_LinearMidpoint(t *testing.T) {
	ts := NewTimeScale(1)
	fired := 0
	ts.TransitionTo(0, 0, 1, func() { fired++ })

	if v := ts.Sample(0.5); math.Abs(v-0.5) > 1e-9 {
		t.Fatalf("expected 0.5 at midpoint, got %.4f", v)
	}
	if fired != 0 {
		t.Fatal("callback fired before the end")
	}
	ts.Sample(0.999)
	if fired != 0 {
		t.Fatal("callback fired before the end")
	}
	ts.Sample(1.0)
	ts.Sample(1.5)
	ts.Sample(3)
	if fired != 1 {
		t.Fatalf("expected callback once, got %d", fired)
	}
	if ts.Value() != 0 {
		t.Fatalf("expected 0 after transition, got %.4f", ts.Value())
	}
}

func TestTransition_LateFirstSampleStillFires(t *testing.T) {
	ts := NewTimeScale(0)
	fired := 0
	ts.TransitionTo(0, 1, 0.5, func() { fired++ })
	if v := ts.Sample(10); v != 1 {
		t.Fatalf("expected 1, got %.4f", v)
	}
	if fired != 1 {
		t.Fatalf("expected callback once, got %d", fired)
	}
}

func TestTransition_ReplacedNeverFires(t *testing.T) {
	ts := NewTimeScale(1)
	first, second := 0, 0
	ts.TransitionTo(0, 0, 1, func() { first++ })
	ts.Sample(0.5)
	ts.TransitionTo(0.5, 1, 1, func() { second++ })

	if v := ts.Sample(1.0); math.Abs(v-0.75) > 1e-9 {
		t.Fatalf("expected replacement to start from 0.5, got %.4f", v)
	}
	ts.Sample(2)
	if first != 0 || second != 1 {
		t.Fatalf("expected first=0 second=1, got %d %d", first, second)
	}
}

func TestTransition_CallbackChainsFromEndValue(t *testing.T) {
	ts := NewTimeScale(1)
	ts.TransitionTo(0, 0, 1, func() {
		ts.TransitionTo(1, 1, 1, nil)
	})
	ts.Sample(1)
	if v := ts.Sample(1.5); math.Abs(v-0.5) > 1e-9 {
		t.Fatalf("expected chained transition at 0.5, got %.4f", v)
	}
}

func TestTimeScale_SetCancels(t *testing.T) {
	ts := NewTimeScale(0)
	fired := false
	ts.TransitionTo(0, 1, 1, func() { fired = true })
	ts.Set(0.25)
	if ts.Transitioning() {
		t.Fatal("Set should cancel the transition")
	}
	if v := ts.Sample(5); v != 0.25 || fired {
		t.Fatalf("expected 0.25 and no callback, got %.2f fired=%v", v, fired)
	}
}

// --- Camera ---

func TestCamera_ScreenWorldRoundTrip(t *testing.T) {
	c := NewCamera(2, 3)
	c.Position = Vec3{X: 4, Y: -1}
	w := c.ScreenToWorld(Vec2{X: 1, Y: -1})
	if w.X != 10 || w.Y != -4 {
		t.Fatalf("expected (10,-4), got (%.2f,%.2f)", w.X, w.Y)
	}
	s := c.WorldToScreen(w)
	if s.X != 1 || s.Y != -1 {
		t.Fatalf("expected (1,-1), got (%.2f,%.2f)", s.X, s.Y)
	}
}

func TestCamera_ActiveRectTriplesVisible(t *testing.T) {
	c := NewCamera(1, 2)
	v, a := c.VisibleRect(), c.ActiveRect()
	if a.Width() != 3*v.Width() || a.Height() != 3*v.Height() {
		t.Fatalf("expected active %gx%g, got %gx%g", 3*v.Width(), 3*v.Height(), a.Width(), a.Height())
	}
}

func TestCamera_FollowClampsStep(t *testing.T) {
	c := NewCamera(1, 2)
	c.Follow(Vec3{X: 10}, 5, 1)
	if c.Position.X != 10 {
		t.Fatalf("large step should land on target, got %.2f", c.Position.X)
	}
	c.Follow(Vec3{X: 20}, 5, 0.1)
	if math.Abs(c.Position.X-15) > 1e-9 {
		t.Fatalf("expected 15, got %.4f", c.Position.X)
	}
}
