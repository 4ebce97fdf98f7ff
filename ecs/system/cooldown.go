package system

import (
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// CooldownSystem decrements second-based countdowns. Attack cooldowns and
// post-eject invulnerability both ride on this.
type CooldownSystem struct{}

func NewCooldownSystem() *CooldownSystem {
	return &CooldownSystem{}
}

func (s *CooldownSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.CooldownComponent.Kind(), func(e ecs.Entity, cd *component.Cooldown) {
		cd.Left -= tickDT
		if cd.Left > 0 {
			return
		}
		_ = ecs.Remove(w, e, component.CooldownComponent.Kind())

		if ecs.Has(w, e, component.AIStateComponent.Kind()) {
			irq := component.AIStateInterrupt{Event: "cooldown_finished"}
			_ = ecs.Add(w, e, component.AIStateInterruptComponent.Kind(), &irq)
		}
	})

	ecs.ForEach(w, component.InvulnerableComponent.Kind(), func(e ecs.Entity, inv *component.Invulnerable) {
		if inv.Left <= 0 {
			// Zero means indefinite; something else removes it.
			return
		}
		inv.Left -= tickDT
		if inv.Left <= 0 {
			_ = ecs.Remove(w, e, component.InvulnerableComponent.Kind())
		}
	})
}
