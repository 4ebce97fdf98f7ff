package system

import (
	"testing"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

func TestTryPossess(t *testing.T) {
	cases := []struct {
		name      string
		hostX     float64
		staggered bool
		want      bool
	}{
		{"staggered_in_range", 40, true, true},
		{"staggered_out_of_range", 200, true, false},
		{"upright_in_range", 40, false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			parasite := addTestParasite(t, w, 0, 0)
			host := addTestEnemy(t, w, c.hostX, 0)
			if c.staggered {
				ApplyStagger(w, host, 1)
			}

			in, _ := ecs.Get(w, parasite, component.InputComponent.Kind())
			in.PossessPressed = true

			NewPossessionSystem().Update(w)

			par, _ := ecs.Get(w, parasite, component.ParasiteComponent.Kind())
			if par.Attached != c.want {
				t.Fatalf("attached = %v, want %v", par.Attached, c.want)
			}
			if !c.want {
				return
			}
			if ecs.Entity(par.Host) != host {
				t.Fatalf("host = %v, want %v", par.Host, host)
			}
			if !ecs.Has(w, host, component.PossessedComponent.Kind()) {
				t.Fatalf("host must be marked possessed")
			}
			if ecs.Has(w, host, component.StaggerComponent.Kind()) {
				t.Fatalf("possession must clear the stagger")
			}
			sp, _ := ecs.Get(w, parasite, component.SpriteComponent.Kind())
			if sp != nil && !sp.Hidden {
				t.Fatalf("attached parasite must be hidden")
			}
		})
	}
}

func TestPossessionPicksNearestStaggeredHost(t *testing.T) {
	w := ecs.NewWorld()
	parasite := addTestParasite(t, w, 0, 0)
	near := addTestEnemy(t, w, 30, 0)
	far := addTestEnemy(t, w, 50, 0)
	ApplyStagger(w, near, 1)
	ApplyStagger(w, far, 1)

	in, _ := ecs.Get(w, parasite, component.InputComponent.Kind())
	in.PossessPressed = true

	NewPossessionSystem().Update(w)

	par, _ := ecs.Get(w, parasite, component.ParasiteComponent.Kind())
	if !par.Attached || ecs.Entity(par.Host) != near {
		t.Fatalf("host = %v, want nearest %v", par.Host, near)
	}
}

func TestDriveHostAndRideAlong(t *testing.T) {
	w := ecs.NewWorld()
	parasite := addTestParasite(t, w, 0, 0)
	host := addTestEnemy(t, w, 10, 0)
	ApplyStagger(w, host, 1)

	in, _ := ecs.Get(w, parasite, component.InputComponent.Kind())
	in.PossessPressed = true
	sys := NewPossessionSystem()
	sys.Update(w)

	par, _ := ecs.Get(w, parasite, component.ParasiteComponent.Kind())
	if !par.Attached {
		t.Fatalf("expected possession")
	}

	// Steer the host left at its chase speed; the parasite rides along.
	in.PossessPressed = false
	in.MoveX = -1
	sys.Update(w)

	v, _ := ecs.Get(w, host, component.VelocityComponent.Kind())
	if v.X != -120 || v.Y != 0 {
		t.Fatalf("host velocity = (%v, %v), want (-120, 0)", v.X, v.Y)
	}
	sp, _ := ecs.Get(w, host, component.SpriteComponent.Kind())
	if sp != nil && !sp.FacingLeft {
		t.Fatalf("host must face the way it moves")
	}
	pt, _ := ecs.Get(w, parasite, component.TransformComponent.Kind())
	ht, _ := ecs.Get(w, host, component.TransformComponent.Kind())
	if pt.X != ht.X || pt.Y != ht.Y {
		t.Fatalf("parasite must ride at the host position")
	}
}

func TestStaggeredHostCannotMove(t *testing.T) {
	w := ecs.NewWorld()
	parasite := addTestParasite(t, w, 0, 0)
	host := addTestEnemy(t, w, 10, 0)
	ApplyStagger(w, host, 1)

	in, _ := ecs.Get(w, parasite, component.InputComponent.Kind())
	in.PossessPressed = true
	sys := NewPossessionSystem()
	sys.Update(w)

	// Re-stagger the possessed host and try to move it.
	ApplyStagger(w, host, 1)
	in.PossessPressed = false
	in.MoveX = 1
	sys.Update(w)

	v, _ := ecs.Get(w, host, component.VelocityComponent.Kind())
	if v.X != 0 || v.Y != 0 {
		t.Fatalf("staggered host moved: (%v, %v)", v.X, v.Y)
	}
}

func TestDetachStaggersHost(t *testing.T) {
	w := ecs.NewWorld()
	parasite := addTestParasite(t, w, 0, 0)
	host := addTestEnemy(t, w, 10, 0)
	ApplyStagger(w, host, 1)

	in, _ := ecs.Get(w, parasite, component.InputComponent.Kind())
	in.PossessPressed = true
	sys := NewPossessionSystem()
	sys.Update(w)

	// Press again to let go.
	sys.Update(w)

	par, _ := ecs.Get(w, parasite, component.ParasiteComponent.Kind())
	if par.Attached {
		t.Fatalf("expected detach")
	}
	if ecs.Has(w, host, component.PossessedComponent.Kind()) {
		t.Fatalf("host must be released")
	}
	if !ecs.Has(w, host, component.StaggerComponent.Kind()) {
		t.Fatalf("voluntary detach must stagger the host")
	}
}

func TestEjectOnHostDeathGrantsGrace(t *testing.T) {
	w := ecs.NewWorld()
	parasite := addTestParasite(t, w, 0, 0)
	host := addTestEnemy(t, w, 10, 0)
	ApplyStagger(w, host, 1)

	in, _ := ecs.Get(w, parasite, component.InputComponent.Kind())
	in.PossessPressed = true
	sys := NewPossessionSystem()
	sys.Update(w)

	in.PossessPressed = false
	dead := component.DeadTag{}
	if err := ecs.Add(w, host, component.DeadTagComponent.Kind(), &dead); err != nil {
		t.Fatalf("add dead tag: %v", err)
	}
	sys.Update(w)

	par, _ := ecs.Get(w, parasite, component.ParasiteComponent.Kind())
	if par.Attached {
		t.Fatalf("expected eject")
	}
	inv, ok := ecs.Get(w, parasite, component.InvulnerableComponent.Kind())
	if !ok || inv.Left != 1.5 {
		t.Fatalf("expected 1.5s of grace, got %+v", inv)
	}
	sp, _ := ecs.Get(w, parasite, component.SpriteComponent.Kind())
	if sp != nil && sp.Hidden {
		t.Fatalf("ejected parasite must be visible again")
	}
}
