package system

import (
	"math"
	"strings"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// tickDT is the fixed simulation step. Ebitengine runs Update at 60 TPS.
const tickDT = 1.0 / 60.0

type AISystem struct {
	fsmCache    map[string]*FSMDef
	scriptCache map[ecs.Entity]*aiScriptRuntime
}

func NewAISystem() *AISystem {
	return &AISystem{
		fsmCache: map[string]*FSMDef{
			component.DefaultAIFSMName: DefaultEnemyFSM(),
		},
	}
}

// Invalidate drops the compiled machine and script caches so edited
// prefab files are picked up on the next tick.
func (e *AISystem) Invalidate() {
	e.fsmCache = map[string]*FSMDef{
		component.DefaultAIFSMName: DefaultEnemyFSM(),
	}
	e.scriptCache = nil
}

func (e *AISystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	// Script runtimes die with their entity.
	for ent := range e.scriptCache {
		if !ecs.IsAlive(w, ent) {
			delete(e.scriptCache, ent)
		}
	}

	_, targetX, targetY, targetFound := FindTarget(w)

	layout := currentLayout(w)

	entities := w.Query(
		component.AITagComponent.Kind().ID(),
		component.ProfileComponent.Kind().ID(),
		component.AIStateComponent.Kind().ID(),
		component.AIContextComponent.Kind().ID(),
		component.AIConfigComponent.Kind().ID(),
	)
	for _, ent := range entities {
		// Possessed hosts are steered by the player, not the FSM.
		if ecs.Has(w, ent, component.PossessedComponent.Kind()) {
			continue
		}
		if ecs.Has(w, ent, component.DeadTagComponent.Kind()) {
			continue
		}

		profile, ok := ecs.Get(w, ent, component.ProfileComponent.Kind())
		if !ok {
			continue
		}
		state, ok := ecs.Get(w, ent, component.AIStateComponent.Kind())
		if !ok {
			continue
		}
		aiCtx, ok := ecs.Get(w, ent, component.AIContextComponent.Kind())
		if !ok {
			continue
		}
		cfg, ok := ecs.Get(w, ent, component.AIConfigComponent.Kind())
		if !ok {
			continue
		}
		vision, _ := ecs.Get(w, ent, component.VisionComponent.Kind())

		ctx := e.buildContext(w, ent, profile, state, aiCtx, cfg, vision, layout, targetFound, targetX, targetY)

		pendingEvents := make([]component.EventID, 0, 4)
		ctx.EnqueueEvent = func(ev component.EventID) {
			if ev != "" {
				pendingEvents = append(pendingEvents, ev)
			}
		}

		// One-shot interrupts from combat, stagger, and possession. Stagger
		// and death preempt whatever the machine is doing.
		if irq, ok := ecs.Get(w, ent, component.AIStateInterruptComponent.Kind()); ok {
			ev := component.EventID(irq.Event)
			_ = ecs.Remove(w, ent, component.AIStateInterruptComponent.Kind())
			switch ev {
			case "staggered":
				forceState(e.fsmFor(cfg), state, ctx, component.StateStagger)
				ctx.EnqueueEvent(ev)
			case "died":
				forceState(e.fsmFor(cfg), state, ctx, component.StateDead)
				ctx.EnqueueEvent(ev)
			default:
				ctx.EnqueueEvent(ev)
			}
		}

		updateDetection(ctx)

		if state.Current == component.StateChase {
			aiCtx.ChaseTime += tickDT
		} else {
			aiCtx.ChaseTime = 0
		}
		if aiCtx.CooldownLeft > 0 {
			aiCtx.CooldownLeft -= tickDT
		}

		enqueueSensorEvents(ctx)

		if strings.TrimSpace(cfg.Script) != "" {
			e.updateFromScript(ctx, cfg, pendingEvents)
			continue
		}

		fsm := e.fsmFor(cfg)
		if fsm == nil {
			continue
		}

		if state.Current == "" {
			state.Current = fsm.Initial
			applyActions(fsm.States[state.Current].OnEnter, ctx)
		}

		applyActions(fsm.States[state.Current].While, ctx)

		for _, rule := range fsm.Transitions[state.Current] {
			if rule.Check != nil && rule.Check(ctx) {
				pendingEvents = append(pendingEvents, component.EventID("__cond_"+string(rule.To)))
			}
		}

		processEvents(fsm, state, ctx, pendingEvents)
	}
}

func (e *AISystem) buildContext(
	w *ecs.World,
	ent ecs.Entity,
	profile *component.Profile,
	state *component.AIState,
	aiCtx *component.AIContext,
	cfg *component.AIConfig,
	vision *component.Vision,
	layout *dungeon.Layout,
	targetFound bool,
	targetX, targetY float64,
) *AIActionContext {
	ctx := &AIActionContext{
		World:       w,
		Entity:      ent,
		Profile:     profile,
		State:       state,
		Context:     aiCtx,
		Config:      cfg,
		Vision:      vision,
		Layout:      layout,
		TargetFound: targetFound,
		TargetX:     targetX,
		TargetY:     targetY,
		DT:          tickDT,
	}

	ctx.GetPosition = func() (x, y float64) {
		return EntityPosition(w, ent)
	}
	ctx.GetVelocity = func() (x, y float64) {
		if v, ok := ecs.Get(w, ent, component.VelocityComponent.Kind()); ok {
			return v.X, v.Y
		}
		return 0, 0
	}
	ctx.SetVelocity = func(x, y float64) {
		if v, ok := ecs.Get(w, ent, component.VelocityComponent.Kind()); ok {
			v.X = x
			v.Y = y
			return
		}
		vel := component.Velocity{X: x, Y: y}
		_ = ecs.Add(w, ent, component.VelocityComponent.Kind(), &vel)
	}
	ctx.FacingLeft = func(facingLeft bool) {
		if s, ok := ecs.Get(w, ent, component.SpriteComponent.Kind()); ok {
			s.FacingLeft = facingLeft
		}
	}
	ctx.DealDamage = func(amount int) {
		if target, _, _, ok := FindTargetEntity(w); ok {
			ApplyDamage(w, target, amount)
		}
	}
	ctx.Steer = func(goalX, goalY float64) (float64, float64, bool) {
		ex, ey := ctx.GetPosition()
		return steerAlongPath(w, ent, layout, ex, ey, goalX, goalY)
	}

	return ctx
}

func (e *AISystem) fsmFor(cfg *component.AIConfig) *FSMDef {
	name := ""
	if cfg != nil {
		name = cfg.FSM
	}
	return e.getFSM(name)
}

func (e *AISystem) getFSM(name string) *FSMDef {
	if name == "" {
		name = component.DefaultAIFSMName
	}
	if e.fsmCache == nil {
		e.fsmCache = map[string]*FSMDef{}
	}
	if fsm, ok := e.fsmCache[name]; ok {
		return fsm
	}
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		fsm, err := LoadFSMFromPrefab(name)
		if err != nil {
			return nil
		}
		e.fsmCache[name] = fsm
		return fsm
	}
	return e.fsmCache[component.DefaultAIFSMName]
}

// updateDetection runs the aggro model for one enemy: proximity override,
// instant versus delayed sighting, loss on sustained absence, and chase
// target sampling.
func updateDetection(ctx *AIActionContext) {
	if ctx == nil || ctx.Profile == nil || ctx.Context == nil {
		return
	}
	p := ctx.Profile
	c := ctx.Context

	if !ctx.TargetFound {
		c.Aggro = false
		c.AggroTimer = 0
		return
	}

	wasAggro := c.Aggro

	var dist float64 = math.MaxFloat64
	proximity := false
	visible := false
	if ctx.Vision != nil {
		dist = ctx.Vision.TargetDist
		proximity = ctx.Vision.Proximity
		visible = ctx.Vision.TargetVisible
	} else if ctx.GetPosition != nil {
		ex, ey := ctx.GetPosition()
		dist = math.Hypot(ctx.TargetX-ex, ctx.TargetY-ey)
		proximity = dist <= p.ProximityRadius
		visible = proximity
	}

	// Proximity awareness ignores the cone and occlusion.
	if proximity {
		c.Aggro = true
	}

	if visible {
		c.UnseenFor = 0
		c.LastSeenX = ctx.TargetX
		c.LastSeenY = ctx.TargetY
		if !c.Aggro {
			if dist <= p.InstantAggroRadius {
				c.Aggro = true
			} else if dist <= p.DelayedAggroRadius {
				c.AggroTimer += ctx.DT
				if c.AggroTimer >= p.AggroDelay {
					c.Aggro = true
				}
			}
		}
	} else {
		c.AggroTimer = 0
		c.UnseenFor += ctx.DT
		// Loss requires sustained absence and a failed proximity test.
		if c.Aggro && c.UnseenFor >= p.LoseSightAfter && !proximity {
			c.Aggro = false
		}
	}

	if c.Aggro {
		c.SinceSample += ctx.DT
		// A fresh aggro samples right away so the chase has somewhere to go.
		if !wasAggro || dist <= p.CloseSampleRange || c.SinceSample >= p.SampleInterval {
			c.TargetX = ctx.TargetX
			c.TargetY = ctx.TargetY
			c.SinceSample = 0
		}
	}
}

// enqueueSensorEvents raises the edge-triggered detection events the FSM
// transition tables consume.
func enqueueSensorEvents(ctx *AIActionContext) {
	if ctx == nil || ctx.Context == nil || ctx.State == nil || ctx.EnqueueEvent == nil {
		return
	}
	c := ctx.Context

	switch ctx.State.Current {
	case component.StateIdle, component.StatePatrol, "":
		if c.Aggro {
			ctx.EnqueueEvent(component.EventID("target_spotted"))
		}
	case component.StateChase:
		if !c.Aggro {
			ctx.EnqueueEvent(component.EventID("target_lost"))
		} else if attackGatesOpen(ctx) {
			ctx.EnqueueEvent(component.EventID("target_in_reach"))
		}
	case component.StateAttack:
		// Attacks run to completion; loss is handled back in chase.
	}
}

func processEvents(fsm *FSMDef, state *component.AIState, ctx *AIActionContext, events []component.EventID) {
	if fsm == nil || state == nil || ctx == nil {
		return
	}
	for _, ev := range events {
		next, ok := matchTransition(fsm, state.Current, ev)
		if !ok || next == state.Current {
			continue
		}
		changeState(fsm, state, ctx, next)
	}
}

func matchTransition(fsm *FSMDef, from component.StateID, ev component.EventID) (component.StateID, bool) {
	for _, rule := range fsm.Transitions[from] {
		if rule.Event != "" && rule.Event == ev {
			return rule.To, true
		}
		if rule.Check != nil && ev == component.EventID("__cond_"+string(rule.To)) {
			return rule.To, true
		}
	}
	return "", false
}

func changeState(fsm *FSMDef, state *component.AIState, ctx *AIActionContext, next component.StateID) {
	applyActions(fsm.States[state.Current].OnExit, ctx)
	state.Current = next
	applyActions(fsm.States[state.Current].OnEnter, ctx)
}

// forceState preempts the machine regardless of its transition table.
func forceState(fsm *FSMDef, state *component.AIState, ctx *AIActionContext, next component.StateID) {
	if state == nil || state.Current == next {
		return
	}
	if fsm == nil {
		state.Current = next
		return
	}
	changeState(fsm, state, ctx, next)
}

func applyActions(actions []Action, ctx *AIActionContext) {
	for _, a := range actions {
		if a != nil {
			a(ctx)
		}
	}
}

// FindTarget returns the world position of the player-controlled body.
func FindTarget(w *ecs.World) (ecs.Entity, float64, float64, bool) {
	return FindTargetEntity(w)
}

// FindTargetEntity resolves the entity enemies should perceive: the
// possessed host while the parasite is attached, the parasite otherwise.
func FindTargetEntity(w *ecs.World) (ecs.Entity, float64, float64, bool) {
	if w == nil {
		return 0, 0, 0, false
	}
	ent, ok := ecs.First(w, component.ParasiteTagComponent.Kind())
	if !ok {
		return 0, 0, 0, false
	}
	if par, ok := ecs.Get(w, ent, component.ParasiteComponent.Kind()); ok && par.Attached {
		host := ecs.Entity(par.Host)
		if ecs.IsAlive(w, host) {
			x, y := EntityPosition(w, host)
			return host, x, y, true
		}
	}
	x, y := EntityPosition(w, ent)
	return ent, x, y, true
}

// EntityPosition reads an entity's position from its physics body when it
// has one, falling back to the transform.
func EntityPosition(w *ecs.World, ent ecs.Entity) (float64, float64) {
	if b, ok := ecs.Get(w, ent, component.PhysicsBodyComponent.Kind()); ok && b.Body != nil {
		pos := b.Body.Position()
		return pos.X, pos.Y
	}
	if t, ok := ecs.Get(w, ent, component.TransformComponent.Kind()); ok {
		return t.X, t.Y
	}
	return 0, 0
}

func currentLayout(w *ecs.World) *dungeon.Layout {
	if w == nil {
		return nil
	}
	if ent, ok := ecs.First(w, component.LevelComponent.Kind()); ok {
		if lvl, ok := ecs.Get(w, ent, component.LevelComponent.Kind()); ok {
			return lvl.Layout
		}
	}
	return nil
}
