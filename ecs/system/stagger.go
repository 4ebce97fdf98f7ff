package system

import (
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// StaggerSystem ticks stun timers down and tells the FSM when a stagger
// wears off.
type StaggerSystem struct{}

func NewStaggerSystem() *StaggerSystem {
	return &StaggerSystem{}
}

func (s *StaggerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.StaggerComponent.Kind(), func(e ecs.Entity, st *component.Stagger) {
		st.Left -= tickDT
		if st.Left > 0 {
			return
		}
		_ = ecs.Remove(w, e, component.StaggerComponent.Kind())

		if ecs.Has(w, e, component.AIStateComponent.Kind()) && !ecs.Has(w, e, component.PossessedComponent.Kind()) {
			irq := component.AIStateInterrupt{Event: "stagger_done"}
			_ = ecs.Add(w, e, component.AIStateInterruptComponent.Kind(), &irq)
		}
	})
}
