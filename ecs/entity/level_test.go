package entity

import (
	"testing"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

func TestBuildFloor(t *testing.T) {
	w := ecs.NewWorld()
	layout, err := BuildFloor(w, 0, 1234)
	if err != nil {
		t.Fatalf("build floor: %v", err)
	}

	if _, ok := ecs.First(w, component.LevelComponent.Kind()); !ok {
		t.Fatalf("no level entity")
	}
	if _, ok := ecs.First(w, component.ParasiteTagComponent.Kind()); !ok {
		t.Fatalf("no parasite")
	}
	if _, ok := ecs.First(w, component.CameraComponent.Kind()); !ok {
		t.Fatalf("no camera")
	}

	rooms := 0
	ecs.ForEach(w, component.RoomComponent.Kind(), func(_ ecs.Entity, r *component.Room) {
		rooms++
		if r.Alive < 0 || (r.Alive == 0) != r.Cleared {
			t.Fatalf("room %d roster inconsistent: %+v", r.Index, r)
		}
	})
	if rooms != len(layout.Rooms) {
		t.Fatalf("room entities = %d, want %d", rooms, len(layout.Rooms))
	}

	doors := 0
	ecs.ForEach(w, component.DoorComponent.Kind(), func(_ ecs.Entity, d *component.Door) {
		doors++
		if !d.Open {
			t.Fatalf("doors must start open")
		}
	})
	if doors != len(layout.Doors) {
		t.Fatalf("door entities = %d, want %d", doors, len(layout.Doors))
	}

	// Enemy roster matches the per-room counters.
	enemies := 0
	ecs.ForEach(w, component.AITagComponent.Kind(), func(e ecs.Entity, _ *component.AITag) {
		enemies++
		if !ecs.Has(w, e, component.ProfileComponent.Kind()) {
			t.Fatalf("enemy %v has no profile", e)
		}
		m, ok := ecs.Get(w, e, component.RoomMemberComponent.Kind())
		if !ok || m.Room < 0 || m.Room >= len(layout.Rooms) {
			t.Fatalf("enemy %v has a bad room: %+v", e, m)
		}
	})
	totalAlive := 0
	ecs.ForEach(w, component.RoomComponent.Kind(), func(_ ecs.Entity, r *component.Room) {
		totalAlive += r.Alive
	})
	if enemies != totalAlive {
		t.Fatalf("enemies = %d, roster total = %d", enemies, totalAlive)
	}

	// The start room spawns nothing, so the player is never sealed in at
	// floor start.
	startIndex := layout.Rooms[layout.StartRoom].Index
	ecs.ForEach(w, component.RoomComponent.Kind(), func(_ ecs.Entity, r *component.Room) {
		if r.Index == startIndex && r.Alive != 0 {
			t.Fatalf("start room has %d enemies", r.Alive)
		}
	})
}

func TestBuildFloorDeterministicLayout(t *testing.T) {
	w1 := ecs.NewWorld()
	a, err := BuildFloor(w1, 1, 77)
	if err != nil {
		t.Fatalf("build floor: %v", err)
	}
	w2 := ecs.NewWorld()
	b, err := BuildFloor(w2, 1, 77)
	if err != nil {
		t.Fatalf("build floor: %v", err)
	}
	if len(a.Tiles) != len(b.Tiles) {
		t.Fatalf("layout sizes differ")
	}
	for i := range a.Tiles {
		if a.Tiles[i] != b.Tiles[i] {
			t.Fatalf("tile %d differs between identical seeds", i)
		}
	}
	if len(ecs.Entities(w1)) != len(ecs.Entities(w2)) {
		t.Fatalf("identical seeds spawned different entity counts")
	}
}

func TestNewEnemyComponents(t *testing.T) {
	w := ecs.NewWorld()
	ent, err := NewEnemy(w, "grunt", 100, 200, 2)
	if err != nil {
		t.Fatalf("new enemy: %v", err)
	}

	kinds := []struct {
		name string
		has  bool
	}{
		{"ai tag", ecs.Has(w, ent, component.AITagComponent.Kind())},
		{"profile", ecs.Has(w, ent, component.ProfileComponent.Kind())},
		{"ai state", ecs.Has(w, ent, component.AIStateComponent.Kind())},
		{"ai context", ecs.Has(w, ent, component.AIContextComponent.Kind())},
		{"ai config", ecs.Has(w, ent, component.AIConfigComponent.Kind())},
		{"transform", ecs.Has(w, ent, component.TransformComponent.Kind())},
		{"velocity", ecs.Has(w, ent, component.VelocityComponent.Kind())},
		{"sprite", ecs.Has(w, ent, component.SpriteComponent.Kind())},
		{"health", ecs.Has(w, ent, component.HealthComponent.Kind())},
		{"physics body", ecs.Has(w, ent, component.PhysicsBodyComponent.Kind())},
		{"room member", ecs.Has(w, ent, component.RoomMemberComponent.Kind())},
	}
	for _, k := range kinds {
		if !k.has {
			t.Fatalf("enemy missing %s", k.name)
		}
	}

	profile, _ := ecs.Get(w, ent, component.ProfileComponent.Kind())
	if profile.Name != "grunt" {
		t.Fatalf("profile name = %q, want grunt", profile.Name)
	}
	// Degrees in the file, radians in the profile.
	if profile.VisionHalfAngle <= 0 || profile.VisionHalfAngle > 3.2 {
		t.Fatalf("half angle %v not converted to radians", profile.VisionHalfAngle)
	}

	tr, _ := ecs.Get(w, ent, component.TransformComponent.Kind())
	if tr.X != 100 || tr.Y != 200 {
		t.Fatalf("placed at (%v, %v), want (100, 200)", tr.X, tr.Y)
	}
	m, _ := ecs.Get(w, ent, component.RoomMemberComponent.Kind())
	if m.Room != 2 {
		t.Fatalf("room = %d, want 2", m.Room)
	}
}

func TestNewEnemyUnknownType(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := NewEnemy(w, "no_such_archetype", 0, 0, 0); err == nil {
		t.Fatalf("expected error for unknown archetype")
	}
}

func TestNewParasiteComponents(t *testing.T) {
	w := ecs.NewWorld()
	ent, err := NewParasite(w, 5, 6)
	if err != nil {
		t.Fatalf("new parasite: %v", err)
	}

	par, ok := ecs.Get(w, ent, component.ParasiteComponent.Kind())
	if !ok {
		t.Fatalf("no parasite component")
	}
	if par.MoveSpeed <= 0 || par.LungeRange <= 0 || par.EjectGrace <= 0 {
		t.Fatalf("parasite spec not applied: %+v", par)
	}
	if par.Attached {
		t.Fatalf("parasite must start detached")
	}
	if !ecs.Has(w, ent, component.InputComponent.Kind()) {
		t.Fatalf("parasite must accept input")
	}

	d := dungeon.Door{X: 1, Y: 2, Room: 0}
	doorEnt, err := NewDoor(w, d)
	if err != nil {
		t.Fatalf("new door: %v", err)
	}
	body, _ := ecs.Get(w, doorEnt, component.PhysicsBodyComponent.Kind())
	if !body.Static || !body.Disabled {
		t.Fatalf("door body must start static and disabled: %+v", body)
	}
}
