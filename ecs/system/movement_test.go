package system

import (
	"testing"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

func TestMovementIntegratesVelocity(t *testing.T) {
	w := ecs.NewWorld()
	ent := addTestEnemy(t, w, 0, 0)
	v, _ := ecs.Get(w, ent, component.VelocityComponent.Kind())
	v.X = 60
	v.Y = -30

	NewMovementSystem().Update(w)

	tr, _ := ecs.Get(w, ent, component.TransformComponent.Kind())
	if tr.X != 60*tickDT || tr.Y != -30*tickDT {
		t.Fatalf("moved to (%v, %v), want (%v, %v)", tr.X, tr.Y, 60*tickDT, -30*tickDT)
	}
}

func TestMovementBlockedByWalls(t *testing.T) {
	layout := makeTestLayout([]string{
		"#####",
		"#...#",
		"#####",
	})

	w := ecs.NewWorld()
	addTestLevel(t, w, layout)
	ex, ey := dungeon.TileToWorld(1, 1)
	ent := addTestEnemy(t, w, ex, ey)

	// Shove hard into the left wall; x is blocked, y unchanged.
	v, _ := ecs.Get(w, ent, component.VelocityComponent.Kind())
	v.X = -10000

	NewMovementSystem().Update(w)

	tr, _ := ecs.Get(w, ent, component.TransformComponent.Kind())
	if tr.X != ex || tr.Y != ey {
		t.Fatalf("wall breached: at (%v, %v), want (%v, %v)", tr.X, tr.Y, ex, ey)
	}

	// Sliding along the open axis still works.
	v.X = 0
	v.Y = 0
	vx := 60.0
	v.X = vx
	NewMovementSystem().Update(w)
	tr, _ = ecs.Get(w, ent, component.TransformComponent.Kind())
	if tr.X != ex+vx*tickDT {
		t.Fatalf("open axis blocked: x = %v, want %v", tr.X, ex+vx*tickDT)
	}
}

func TestMovementSkipsDeadAndEmbodied(t *testing.T) {
	w := ecs.NewWorld()
	ent := addTestEnemy(t, w, 0, 0)
	v, _ := ecs.Get(w, ent, component.VelocityComponent.Kind())
	v.X = 60

	dead := component.DeadTag{}
	if err := ecs.Add(w, ent, component.DeadTagComponent.Kind(), &dead); err != nil {
		t.Fatalf("add dead tag: %v", err)
	}

	NewMovementSystem().Update(w)

	tr, _ := ecs.Get(w, ent, component.TransformComponent.Kind())
	if tr.X != 0 {
		t.Fatalf("corpse moved to %v", tr.X)
	}
}
