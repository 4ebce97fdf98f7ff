package system

import (
	"log"
	"math"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// PossessionSystem owns the parasite lifecycle: lunging into a staggered
// host, steering whichever body the player controls, riding along while
// attached, and ejecting when the host dies.
type PossessionSystem struct{}

func NewPossessionSystem() *PossessionSystem {
	return &PossessionSystem{}
}

func (s *PossessionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ent, ok := ecs.First(w, component.ParasiteTagComponent.Kind())
	if !ok {
		return
	}
	par, ok := ecs.Get(w, ent, component.ParasiteComponent.Kind())
	if !ok {
		return
	}
	in, _ := ecs.Get(w, ent, component.InputComponent.Kind())

	if par.Attached {
		host := ecs.Entity(par.Host)
		if !ecs.IsAlive(w, host) || ecs.Has(w, host, component.DeadTagComponent.Kind()) {
			s.eject(w, ent, par, host)
			return
		}

		s.driveHost(w, host, par, in)
		s.rideAlong(w, ent, host)

		if in != nil && in.PossessPressed {
			s.detach(w, ent, par, host)
		}
		return
	}

	s.driveParasite(w, ent, par, in)

	if in != nil && in.PossessPressed {
		s.tryPossess(w, ent, par)
	}
}

// driveParasite steers the free parasite from player input.
func (s *PossessionSystem) driveParasite(w *ecs.World, ent ecs.Entity, par *component.Parasite, in *component.Input) {
	if in == nil {
		return
	}
	setVelocity(w, ent, in.MoveX*par.MoveSpeed, in.MoveY*par.MoveSpeed)
}

// driveHost steers the possessed host from player input at the host's own
// chase speed.
func (s *PossessionSystem) driveHost(w *ecs.World, host ecs.Entity, par *component.Parasite, in *component.Input) {
	speed := par.MoveSpeed
	if profile, ok := ecs.Get(w, host, component.ProfileComponent.Kind()); ok {
		speed = profile.ChaseSpeed
	}
	mx, my := 0.0, 0.0
	if in != nil {
		mx, my = in.MoveX, in.MoveY
	}
	// Hosts cannot move while staggered, same as under AI control.
	if ecs.Has(w, host, component.StaggerComponent.Kind()) {
		mx, my = 0, 0
	}
	setVelocity(w, host, mx*speed, my*speed)

	if sp, ok := ecs.Get(w, host, component.SpriteComponent.Kind()); ok && mx != 0 {
		sp.FacingLeft = mx < 0
	}
}

// rideAlong keeps the hidden parasite at its host's position so an eject
// drops it in the right place.
func (s *PossessionSystem) rideAlong(w *ecs.World, ent, host ecs.Entity) {
	hx, hy := EntityPosition(w, host)
	if t, ok := ecs.Get(w, ent, component.TransformComponent.Kind()); ok {
		t.X = hx
		t.Y = hy
	}
	if b, ok := ecs.Get(w, ent, component.PhysicsBodyComponent.Kind()); ok && b.Body != nil {
		b.Body.SetPosition(cpVector(hx, hy))
	}
	setVelocity(w, ent, 0, 0)
}

// tryPossess lunges into the nearest staggered host in range.
func (s *PossessionSystem) tryPossess(w *ecs.World, ent ecs.Entity, par *component.Parasite) {
	px, py := EntityPosition(w, ent)

	var best ecs.Entity
	bestDist := math.MaxFloat64
	ecs.ForEach(w, component.StaggerComponent.Kind(), func(host ecs.Entity, _ *component.Stagger) {
		if !ecs.Has(w, host, component.AITagComponent.Kind()) || ecs.Has(w, host, component.DeadTagComponent.Kind()) {
			return
		}
		hx, hy := EntityPosition(w, host)
		d := math.Hypot(hx-px, hy-py)
		if d < bestDist {
			bestDist = d
			best = host
		}
	})

	if !ecs.IsAlive(w, best) || bestDist > par.LungeRange {
		return
	}

	par.Attached = true
	par.Host = uint64(best)
	possessed := component.Possessed{By: uint64(ent)}
	_ = ecs.Add(w, best, component.PossessedComponent.Kind(), &possessed)
	_ = ecs.Remove(w, best, component.StaggerComponent.Kind())

	if sp, ok := ecs.Get(w, ent, component.SpriteComponent.Kind()); ok {
		sp.Hidden = true
	}
	if b, ok := ecs.Get(w, ent, component.PhysicsBodyComponent.Kind()); ok {
		b.Disabled = true
	}

	log.Printf("possession: parasite took host %d", best)
}

// detach leaves the host voluntarily. The host is briefly stunned, which
// also leaves a window to re-possess.
func (s *PossessionSystem) detach(w *ecs.World, ent ecs.Entity, par *component.Parasite, host ecs.Entity) {
	s.release(w, ent, par, host)
	if profile, ok := ecs.Get(w, host, component.ProfileComponent.Kind()); ok && profile.StaggerTime > 0 {
		ApplyStagger(w, host, profile.StaggerTime)
	}
}

// eject fires when the host dies under the parasite: drop at the corpse
// with a grace window.
func (s *PossessionSystem) eject(w *ecs.World, ent ecs.Entity, par *component.Parasite, host ecs.Entity) {
	s.release(w, ent, par, host)
	if par.EjectGrace > 0 {
		inv := component.Invulnerable{Left: par.EjectGrace}
		_ = ecs.Add(w, ent, component.InvulnerableComponent.Kind(), &inv)
	}
	log.Printf("possession: host died, parasite ejected")
}

func (s *PossessionSystem) release(w *ecs.World, ent ecs.Entity, par *component.Parasite, host ecs.Entity) {
	par.Attached = false
	par.Host = 0
	if ecs.IsAlive(w, host) {
		_ = ecs.Remove(w, host, component.PossessedComponent.Kind())
		setVelocity(w, host, 0, 0)
	}
	if sp, ok := ecs.Get(w, ent, component.SpriteComponent.Kind()); ok {
		sp.Hidden = false
	}
	if b, ok := ecs.Get(w, ent, component.PhysicsBodyComponent.Kind()); ok {
		b.Disabled = false
	}
	setVelocity(w, ent, 0, 0)
}

func setVelocity(w *ecs.World, ent ecs.Entity, x, y float64) {
	if v, ok := ecs.Get(w, ent, component.VelocityComponent.Kind()); ok {
		v.X = x
		v.Y = y
		return
	}
	vel := component.Velocity{X: x, Y: y}
	_ = ecs.Add(w, ent, component.VelocityComponent.Kind(), &vel)
}
