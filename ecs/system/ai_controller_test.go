package system

import (
	"math"
	"testing"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

func testProfile() *component.Profile {
	return &component.Profile{
		Name:               "test",
		PatrolSpeed:        60,
		ChaseSpeed:         120,
		VisionRange:        220,
		VisionHalfAngle:    math.Pi / 3,
		ProximityRadius:    80,
		InstantAggroRadius: 48,
		DelayedAggroRadius: 220,
		AggroDelay:         0.5,
		LoseSightAfter:     1.0,
		AttackRange:        40,
		StopDistance:       10,
		AttackDamage:       1,
		AttackWindup:       0.2,
		AttackCooldown:     1.0,
		MinChaseTime:       0.5,
		RecoverTime:        0.2,
		SampleInterval:     1.0,
		CloseSampleRange:   96,
		StaggerChance:      1.0,
		StaggerTime:        0.5,
	}
}

func addTestEnemy(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	ent := ecs.CreateEntity(w)
	must := func(err error) {
		if err != nil {
			t.Fatalf("add component: %v", err)
		}
	}
	must(ecs.Add(w, ent, component.AITagComponent.Kind(), &component.AITag{}))
	must(ecs.Add(w, ent, component.ProfileComponent.Kind(), testProfile()))
	must(ecs.Add(w, ent, component.AIStateComponent.Kind(), &component.AIState{}))
	must(ecs.Add(w, ent, component.AIContextComponent.Kind(), &component.AIContext{}))
	must(ecs.Add(w, ent, component.AIConfigComponent.Kind(), &component.AIConfig{}))
	must(ecs.Add(w, ent, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}))
	must(ecs.Add(w, ent, component.VelocityComponent.Kind(), &component.Velocity{}))
	must(ecs.Add(w, ent, component.HealthComponent.Kind(), &component.Health{Initial: 3, Current: 3}))
	return ent
}

func addTestParasite(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	ent := ecs.CreateEntity(w)
	must := func(err error) {
		if err != nil {
			t.Fatalf("add component: %v", err)
		}
	}
	must(ecs.Add(w, ent, component.ParasiteTagComponent.Kind(), &component.ParasiteTag{}))
	must(ecs.Add(w, ent, component.ParasiteComponent.Kind(), &component.Parasite{MoveSpeed: 140, LungeRange: 56, EjectGrace: 1.5}))
	must(ecs.Add(w, ent, component.InputComponent.Kind(), &component.Input{}))
	must(ecs.Add(w, ent, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}))
	must(ecs.Add(w, ent, component.HealthComponent.Kind(), &component.Health{Initial: 2, Current: 2}))
	return ent
}

func TestUpdateDetection(t *testing.T) {
	cases := []struct {
		name      string
		vision    component.Vision
		pre       component.AIContext
		ticks     int
		wantAggro bool
	}{
		{
			"instant_inside_radius",
			component.Vision{TargetVisible: true, TargetDist: 30},
			component.AIContext{},
			1, true,
		},
		{
			"proximity_without_sight",
			component.Vision{TargetVisible: false, Proximity: true, TargetDist: 60},
			component.AIContext{},
			1, true,
		},
		{
			"delayed_needs_dwell",
			component.Vision{TargetVisible: true, TargetDist: 150},
			component.AIContext{},
			1, false,
		},
		{
			"delayed_after_dwell",
			component.Vision{TargetVisible: true, TargetDist: 150},
			component.AIContext{},
			40, true,
		},
		{
			"keeps_aggro_briefly_unseen",
			component.Vision{TargetVisible: false, TargetDist: 150},
			component.AIContext{Aggro: true},
			10, true,
		},
		{
			"drops_aggro_after_lose_sight",
			component.Vision{TargetVisible: false, TargetDist: 150},
			component.AIContext{Aggro: true},
			70, false,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			aiCtx := c.pre
			vision := c.vision
			ctx := &AIActionContext{
				Profile:     testProfile(),
				Context:     &aiCtx,
				Vision:      &vision,
				TargetFound: true,
				TargetX:     vision.TargetDist,
				DT:          tickDT,
			}
			for i := 0; i < c.ticks; i++ {
				updateDetection(ctx)
			}
			if aiCtx.Aggro != c.wantAggro {
				t.Fatalf("aggro = %v, want %v", aiCtx.Aggro, c.wantAggro)
			}
		})
	}
}

func TestDetectionSamplesTargetPosition(t *testing.T) {
	aiCtx := component.AIContext{}
	vision := component.Vision{TargetVisible: true, TargetDist: 150}
	ctx := &AIActionContext{
		Profile:     testProfile(),
		Context:     &aiCtx,
		Vision:      &vision,
		TargetFound: true,
		TargetX:     150,
		TargetY:     20,
		DT:          tickDT,
	}

	// Dwell until the delayed sighting lands; gaining aggro samples
	// immediately.
	for i := 0; i < 40 && !aiCtx.Aggro; i++ {
		updateDetection(ctx)
	}
	if !aiCtx.Aggro {
		t.Fatalf("delayed aggro never landed")
	}
	if aiCtx.TargetX != 150 || aiCtx.TargetY != 20 {
		t.Fatalf("fresh aggro should sample immediately, got (%v, %v)", aiCtx.TargetX, aiCtx.TargetY)
	}

	// Far away, the stale sample is kept until the interval passes.
	ctx.TargetX = 300
	updateDetection(ctx)
	if aiCtx.TargetX != 150 {
		t.Fatalf("sample refreshed too early")
	}

	// Inside close range, every tick samples.
	vision.TargetDist = 50
	ctx.TargetX = 60
	updateDetection(ctx)
	if aiCtx.TargetX != 60 {
		t.Fatalf("close range must sample every tick, got %v", aiCtx.TargetX)
	}
}

func TestAISystemIdleToChaseToAttack(t *testing.T) {
	w := ecs.NewWorld()
	addTestParasite(t, w, 20, 0)
	enemy := addTestEnemy(t, w, 0, 0)

	ai := NewAISystem()
	vision := NewVisionSystem()

	// The parasite sits on top of the enemy: proximity grants aggro.
	vision.Update(w)
	ai.Update(w)

	state, _ := ecs.Get(w, enemy, component.AIStateComponent.Kind())
	if state.Current != component.StateChase {
		t.Fatalf("state = %q, want chase after proximity aggro", state.Current)
	}

	// Hold still in reach past the minimum chase time: the attack opens.
	for i := 0; i < 60; i++ {
		if v, ok := ecs.Get(w, enemy, component.VelocityComponent.Kind()); ok {
			v.X, v.Y = 0, 0
		}
		vision.Update(w)
		ai.Update(w)
		if state.Current == component.StateAttack {
			break
		}
	}
	if state.Current != component.StateAttack {
		t.Fatalf("state = %q, want attack once all gates open", state.Current)
	}
}

func TestAISystemInterruptsPreemptMachine(t *testing.T) {
	w := ecs.NewWorld()
	addTestParasite(t, w, 500, 500)
	enemy := addTestEnemy(t, w, 0, 0)

	ai := NewAISystem()

	irq := component.AIStateInterrupt{Event: "staggered"}
	if err := ecs.Add(w, enemy, component.AIStateInterruptComponent.Kind(), &irq); err != nil {
		t.Fatalf("add interrupt: %v", err)
	}
	ai.Update(w)

	state, _ := ecs.Get(w, enemy, component.AIStateComponent.Kind())
	if state.Current != component.StateStagger {
		t.Fatalf("state = %q, want stagger", state.Current)
	}
	if ecs.Has(w, enemy, component.AIStateInterruptComponent.Kind()) {
		t.Fatalf("interrupt must be consumed")
	}

	// stagger_done flows through the transition table.
	done := component.AIStateInterrupt{Event: "stagger_done"}
	if err := ecs.Add(w, enemy, component.AIStateInterruptComponent.Kind(), &done); err != nil {
		t.Fatalf("add interrupt: %v", err)
	}
	ai.Update(w)
	if state.Current != component.StateChase {
		t.Fatalf("state = %q, want chase after stagger_done", state.Current)
	}

	die := component.AIStateInterrupt{Event: "died"}
	if err := ecs.Add(w, enemy, component.AIStateInterruptComponent.Kind(), &die); err != nil {
		t.Fatalf("add interrupt: %v", err)
	}
	ai.Update(w)
	if state.Current != component.StateDead {
		t.Fatalf("state = %q, want dead", state.Current)
	}
	if !ecs.Has(w, enemy, component.DeadTagComponent.Kind()) {
		t.Fatalf("dead on_enter must mark the corpse")
	}
}

func TestFindTargetEntityPrefersHost(t *testing.T) {
	w := ecs.NewWorld()
	parasite := addTestParasite(t, w, 1, 2)
	host := addTestEnemy(t, w, 30, 40)

	if ent, x, y, ok := FindTargetEntity(w); !ok || ent != parasite || x != 1 || y != 2 {
		t.Fatalf("unattached target = (%v, %v, %v, %v), want parasite at (1, 2)", ent, x, y, ok)
	}

	par, _ := ecs.Get(w, parasite, component.ParasiteComponent.Kind())
	par.Attached = true
	par.Host = uint64(host)

	if ent, x, y, ok := FindTargetEntity(w); !ok || ent != host || x != 30 || y != 40 {
		t.Fatalf("attached target = (%v, %v, %v, %v), want host at (30, 40)", ent, x, y, ok)
	}

	// A dead host handle falls back to the parasite.
	ecs.DestroyEntity(w, host)
	if ent, _, _, ok := FindTargetEntity(w); !ok || ent != parasite {
		t.Fatalf("target after host death = %v, want parasite", ent)
	}
}
