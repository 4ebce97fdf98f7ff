package system

import (
	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// MovementSystem integrates velocity into the transform for entities that
// have no physics body, with per-axis tile collision against the layout.
// Entities with a live body are moved by the physics system instead.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	layout := currentLayout(w)

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.VelocityComponent.Kind(), func(ent ecs.Entity, t *component.Transform, v *component.Velocity) {
		if pb, ok := ecs.Get(w, ent, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
			return
		}
		if ecs.Has(w, ent, component.DeadTagComponent.Kind()) {
			return
		}

		nx := t.X + v.X*tickDT
		ny := t.Y + v.Y*tickDT

		if layout == nil {
			t.X = nx
			t.Y = ny
			return
		}

		if walkableAt(layout, nx, t.Y) {
			t.X = nx
		}
		if walkableAt(layout, t.X, ny) {
			t.Y = ny
		}
	})
}

func walkableAt(l *dungeon.Layout, x, y float64) bool {
	tx, ty := dungeon.WorldToTile(x, y)
	return l.Walkable(tx, ty)
}
