package system

import (
	"math"
	"testing"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

func TestSeparationPushesOverlappingHostsApart(t *testing.T) {
	w := ecs.NewWorld()
	left := addTestEnemy(t, w, 0, 0)
	right := addTestEnemy(t, w, 10, 0)
	loner := addTestEnemy(t, w, 200, 0)

	NewSeparationSystem().Update(w)

	lv, _ := ecs.Get(w, left, component.VelocityComponent.Kind())
	rv, _ := ecs.Get(w, right, component.VelocityComponent.Kind())
	if lv.X >= 0 || rv.X <= 0 {
		t.Fatalf("overlap must push outward, got left %v right %v", lv.X, rv.X)
	}
	if lv.X != -rv.X {
		t.Fatalf("push must be symmetric, got left %v right %v", lv.X, rv.X)
	}

	ov, _ := ecs.Get(w, loner, component.VelocityComponent.Kind())
	if ov.X != 0 || ov.Y != 0 {
		t.Fatalf("host outside the radius must be untouched, got %+v", ov)
	}
}

func TestSeparationWidensPackOverTicks(t *testing.T) {
	w := ecs.NewWorld()
	a := addTestEnemy(t, w, 0, 0)
	b := addTestEnemy(t, w, 4, 0)

	sep := NewSeparationSystem()
	move := NewMovementSystem()

	gap := func() float64 {
		ax, ay := EntityPosition(w, a)
		bx, by := EntityPosition(w, b)
		return math.Hypot(bx-ax, by-ay)
	}

	start := gap()
	for i := 0; i < 60; i++ {
		// The AI tick rewrites velocities every frame; mimic that so the
		// drift measured is the separation push alone.
		for _, e := range []ecs.Entity{a, b} {
			if v, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
				v.X, v.Y = 0, 0
			}
		}
		sep.Update(w)
		move.Update(w)
	}

	if end := gap(); end <= start {
		t.Fatalf("separation did not widen the pack: %v -> %v", start, end)
	}
}

func TestSeparationSkipsCorpsesAndAttackers(t *testing.T) {
	w := ecs.NewWorld()
	attacker := addTestEnemy(t, w, 0, 0)
	corpse := addTestEnemy(t, w, 6, 0)

	st, _ := ecs.Get(w, attacker, component.AIStateComponent.Kind())
	st.Current = component.StateAttack
	if err := ecs.Add(w, corpse, component.DeadTagComponent.Kind(), &component.DeadTag{}); err != nil {
		t.Fatalf("add dead tag: %v", err)
	}

	NewSeparationSystem().Update(w)

	av, _ := ecs.Get(w, attacker, component.VelocityComponent.Kind())
	cv, _ := ecs.Get(w, corpse, component.VelocityComponent.Kind())
	if av.X != 0 || cv.X != 0 {
		t.Fatalf("attacking and dead hosts must not be shoved, got %v and %v", av.X, cv.X)
	}
}
