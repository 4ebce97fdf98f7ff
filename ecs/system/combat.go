package system

import (
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

var combatRng = rand.New(rand.NewSource(time.Now().UnixNano()))

// corpseTTLFrames keeps a corpse on screen for five seconds before it is
// swept up.
const corpseTTLFrames = 300

// CombatSystem resolves player melee swings and sweeps for deaths.
type CombatSystem struct{}

func NewCombatSystem() *CombatSystem { return &CombatSystem{} }

func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	s.playerAttack(w)
	s.deathSweep(w)
}

// playerAttack swings the controlled body's melee at the nearest live
// enemy in reach.
func (s *CombatSystem) playerAttack(w *ecs.World) {
	parasite, ok := ecs.First(w, component.ParasiteTagComponent.Kind())
	if !ok {
		return
	}
	in, ok := ecs.Get(w, parasite, component.InputComponent.Kind())
	if !ok || !in.AttackPressed {
		return
	}

	attacker, _, _, ok := FindTargetEntity(w)
	if !ok {
		return
	}
	if ecs.Has(w, attacker, component.CooldownComponent.Kind()) {
		return
	}

	damage := 1
	reach := 48.0
	cooldown := 0.6
	if profile, ok := ecs.Get(w, attacker, component.ProfileComponent.Kind()); ok {
		// A possessed host swings with its own stats.
		damage = profile.AttackDamage
		reach = attackReach(profile)
		cooldown = profile.AttackCooldown
	}

	ax, ay := EntityPosition(w, attacker)
	victim, dist := nearestEnemy(w, attacker, ax, ay)
	if !ecs.IsAlive(w, victim) || dist > reach {
		cd := component.Cooldown{Left: cooldown}
		_ = ecs.Add(w, attacker, component.CooldownComponent.Kind(), &cd)
		return
	}

	ApplyDamage(w, victim, damage)
	cd := component.Cooldown{Left: cooldown}
	_ = ecs.Add(w, attacker, component.CooldownComponent.Kind(), &cd)
}

func nearestEnemy(w *ecs.World, attacker ecs.Entity, ax, ay float64) (ecs.Entity, float64) {
	var best ecs.Entity
	bestDist := math.MaxFloat64
	ecs.ForEach(w, component.AITagComponent.Kind(), func(ent ecs.Entity, _ *component.AITag) {
		if ent == attacker {
			return
		}
		if ecs.Has(w, ent, component.DeadTagComponent.Kind()) || ecs.Has(w, ent, component.PossessedComponent.Kind()) {
			return
		}
		ex, ey := EntityPosition(w, ent)
		d := math.Hypot(ex-ax, ey-ay)
		if d < bestDist {
			bestDist = d
			best = ent
		}
	})
	return best, bestDist
}

// deathSweep reacts to entities whose health hit zero this tick.
func (s *CombatSystem) deathSweep(w *ecs.World) {
	ecs.ForEach(w, component.HealthComponent.Kind(), func(ent ecs.Entity, h *component.Health) {
		if h.Current > 0 || ecs.Has(w, ent, component.DeadTagComponent.Kind()) {
			return
		}

		if ecs.Has(w, ent, component.AITagComponent.Kind()) {
			irq := component.AIStateInterrupt{Event: "died"}
			_ = ecs.Add(w, ent, component.AIStateInterruptComponent.Kind(), &irq)

			room := -1
			if m, ok := ecs.Get(w, ent, component.RoomMemberComponent.Kind()); ok {
				room = m.Room
			}
			w.Events().Push(ecs.Event{Type: ecs.EventEnemyDied, Data: ecs.EnemyDied{Entity: ent, Room: room}})

			if ecs.Has(w, ent, component.PossessedComponent.Kind()) {
				w.Events().Push(ecs.Event{Type: ecs.EventHostDied, Data: ent})
			}

			dead := component.DeadTag{}
			_ = ecs.Add(w, ent, component.DeadTagComponent.Kind(), &dead)
			_ = ecs.Remove(w, ent, component.StaggerComponent.Kind())
			ttl := component.TTL{Frames: corpseTTLFrames}
			_ = ecs.Add(w, ent, component.TTLComponent.Kind(), &ttl)
			log.Printf("combat: entity %d died (room %d)", ent, roomOf(w, ent))
			return
		}

		// The bare parasite dying ends the run; the game shell listens for
		// this event.
		if ecs.Has(w, ent, component.ParasiteTagComponent.Kind()) {
			dead := component.DeadTag{}
			_ = ecs.Add(w, ent, component.DeadTagComponent.Kind(), &dead)
			w.Events().Push(ecs.Event{Type: ecs.EventHostDied, Data: ent})
		}
	})
}

func roomOf(w *ecs.World, ent ecs.Entity) int {
	if m, ok := ecs.Get(w, ent, component.RoomMemberComponent.Kind()); ok {
		return m.Room
	}
	return -1
}

// ApplyDamage deals damage to an entity, rolling its stagger chance on a
// hit that leaves it alive.
func ApplyDamage(w *ecs.World, ent ecs.Entity, amount int) {
	if w == nil || amount <= 0 || !ecs.IsAlive(w, ent) {
		return
	}
	if ecs.Has(w, ent, component.InvulnerableComponent.Kind()) {
		return
	}
	h, ok := ecs.Get(w, ent, component.HealthComponent.Kind())
	if !ok {
		return
	}

	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	if h.Current == 0 {
		return
	}

	profile, ok := ecs.Get(w, ent, component.ProfileComponent.Kind())
	if !ok || profile.StaggerChance <= 0 {
		return
	}
	if combatRng.Float64() < profile.StaggerChance {
		ApplyStagger(w, ent, profile.StaggerTime)
	}
}

// ApplyStagger stuns an enemy for the given duration and interrupts its
// state machine.
func ApplyStagger(w *ecs.World, ent ecs.Entity, seconds float64) {
	if w == nil || seconds <= 0 || !ecs.IsAlive(w, ent) {
		return
	}
	st := component.Stagger{Left: seconds}
	_ = ecs.Add(w, ent, component.StaggerComponent.Kind(), &st)
	irq := component.AIStateInterrupt{Event: "staggered"}
	_ = ecs.Add(w, ent, component.AIStateInterruptComponent.Kind(), &irq)
}
