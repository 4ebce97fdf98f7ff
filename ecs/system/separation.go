package system

import (
	"math"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// SeparationSystem keeps a chasing pack from collapsing onto one tile by
// steering overlapping hosts apart. It adds to the velocities the AI tick
// just set, so it runs after the AI and before movement and physics.
type SeparationSystem struct {
	// Radius is the center distance below which two hosts push apart.
	Radius float64
	// Push is the speed added at full overlap, tapering to zero at Radius.
	Push float64
}

func NewSeparationSystem() *SeparationSystem {
	return &SeparationSystem{
		Radius: 24,
		Push:   40,
	}
}

func (s *SeparationSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.Radius <= 0 {
		return
	}

	type mover struct {
		x, y float64
		vel  *component.Velocity
	}
	var movers []mover

	ecs.ForEach2(w, component.AITagComponent.Kind(), component.VelocityComponent.Kind(), func(e ecs.Entity, _ *component.AITag, v *component.Velocity) {
		if ecs.Has(w, e, component.DeadTagComponent.Kind()) || ecs.Has(w, e, component.PossessedComponent.Kind()) {
			return
		}
		// An attacking host holds its ground.
		if st, ok := ecs.Get(w, e, component.AIStateComponent.Kind()); ok && st.Current == component.StateAttack {
			return
		}
		x, y := EntityPosition(w, e)
		movers = append(movers, mover{x: x, y: y, vel: v})
	})

	for i := 0; i < len(movers); i++ {
		for j := i + 1; j < len(movers); j++ {
			a, b := movers[i], movers[j]

			dx := a.x - b.x
			dy := a.y - b.y
			dist := math.Hypot(dx, dy)
			if dist >= s.Radius {
				continue
			}

			// Half the push on each side, scaled by how deep the overlap is.
			push := s.Push * (1 - dist/s.Radius) * 0.5
			if dist < 1e-6 {
				// Exactly stacked: pick an arbitrary axis.
				dx, dy, dist = 1, 0, 1
			}
			nx := dx / dist
			ny := dy / dist

			a.vel.X += nx * push
			a.vel.Y += ny * push
			b.vel.X -= nx * push
			b.vel.Y -= ny * push
		}
	}
}
