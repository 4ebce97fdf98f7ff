package system

import (
	"fmt"
	"math"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
	"github.com/arbelos/vessel/prefabs"
)

type Action func(ctx *AIActionContext)

// AIActionContext is the per-entity view handed to FSM actions, transition
// checkers, and behavior scripts for one tick.
type AIActionContext struct {
	World   *ecs.World
	Entity  ecs.Entity
	Profile *component.Profile
	State   *component.AIState
	Context *component.AIContext
	Config  *component.AIConfig
	Vision  *component.Vision
	Layout  *dungeon.Layout

	// Target is the player-controlled body: the possessed host when the
	// parasite is attached, the parasite otherwise.
	TargetFound bool
	TargetX     float64
	TargetY     float64

	DT float64

	GetPosition func() (x, y float64)
	GetVelocity func() (x, y float64)
	SetVelocity func(x, y float64)
	FacingLeft  func(facingLeft bool)

	// DealDamage applies damage to the current target.
	DealDamage func(amount int)

	// Steer advances along a grid path toward a world goal and returns the
	// desired unit direction. ok is false when no path exists.
	Steer func(goalX, goalY float64) (dirX, dirY float64, ok bool)

	EnqueueEvent func(ev component.EventID)
}

type StateDef struct {
	OnEnter []Action
	While   []Action
	OnExit  []Action
}

// transitionRule is one ordered entry in a state's transition list. Either
// Event matches a queued event, or Check is evaluated every tick.
type transitionRule struct {
	Event component.EventID
	Check TransitionChecker
	To    component.StateID
}

type FSMDef struct {
	Initial     component.StateID
	States      map[component.StateID]StateDef
	Transitions map[component.StateID][]transitionRule
}

var actionRegistry = map[string]func(any) Action{
	"print": func(arg any) Action {
		msg := fmt.Sprint(arg)
		return func(ctx *AIActionContext) {
			fmt.Println("ai:", msg)
		}
	},
	"halt": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.SetVelocity == nil {
				return
			}
			ctx.SetVelocity(0, 0)
		}
	},
	"face_target": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || !ctx.TargetFound || ctx.GetPosition == nil || ctx.FacingLeft == nil {
				return
			}
			ex, _ := ctx.GetPosition()
			ctx.FacingLeft(ctx.TargetX < ex)
		}
	},
	"patrol": func(_ any) Action {
		return func(ctx *AIActionContext) {
			patrolMove(ctx)
		}
	},
	"seek": func(arg any) Action {
		type seekArgs struct {
			SpeedScale float64 `yaml:"speed_scale"`
		}
		args, _ := prefabs.DecodeActionSpec[seekArgs](arg)
		if args.SpeedScale <= 0 {
			args.SpeedScale = 1
		}
		return func(ctx *AIActionContext) {
			seekMove(ctx, args.SpeedScale)
		}
	},
	"begin_windup": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.Context == nil || ctx.Profile == nil {
				return
			}
			ctx.Context.Timer = ctx.Profile.AttackWindup
			ctx.Context.AttackPending = true
		}
	},
	"strike": func(_ any) Action {
		return func(ctx *AIActionContext) {
			strikeUpdate(ctx)
		}
	},
	"mark_dead": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.World == nil {
				return
			}
			if ctx.SetVelocity != nil {
				ctx.SetVelocity(0, 0)
			}
			dead := component.DeadTag{}
			_ = ecs.Add(ctx.World, ctx.Entity, component.DeadTagComponent.Kind(), &dead)
		}
	},
	"start_timer": func(arg any) Action {
		seconds := asFloat(arg)
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.Context == nil {
				return
			}
			ctx.Context.Timer = seconds
		}
	},
	"tick_timer": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.Context == nil || ctx.EnqueueEvent == nil {
				return
			}
			ctx.Context.Timer -= ctx.DT
			if ctx.Context.Timer <= 0 {
				ctx.EnqueueEvent(component.EventID("timer_expired"))
			}
		}
	},
	"emit_event": func(arg any) Action {
		name := fmt.Sprint(arg)
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.EnqueueEvent == nil {
				return
			}
			ctx.EnqueueEvent(component.EventID(name))
		}
	},
	"add_invulnerable": func(arg any) Action {
		seconds := asFloat(arg)
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.World == nil {
				return
			}
			inv := component.Invulnerable{Left: seconds}
			_ = ecs.Add(ctx.World, ctx.Entity, component.InvulnerableComponent.Kind(), &inv)
		}
	},
	"remove_invulnerable": func(_ any) Action {
		return func(ctx *AIActionContext) {
			if ctx == nil || ctx.World == nil {
				return
			}
			_ = ecs.Remove(ctx.World, ctx.Entity, component.InvulnerableComponent.Kind())
		}
	},
}

// patrolMove walks the entity along its patrol loop, pausing at each point.
func patrolMove(ctx *AIActionContext) {
	if ctx == nil || ctx.World == nil || ctx.Profile == nil || ctx.GetPosition == nil || ctx.SetVelocity == nil {
		return
	}
	pat, ok := ecs.Get(ctx.World, ctx.Entity, component.PatrolComponent.Kind())
	if !ok || len(pat.Points) == 0 {
		ctx.SetVelocity(0, 0)
		return
	}

	if pat.Wait > 0 {
		pat.Wait -= ctx.DT
		ctx.SetVelocity(0, 0)
		return
	}

	ex, ey := ctx.GetPosition()
	goal := pat.Points[pat.Next%len(pat.Points)]
	dx := goal.X - ex
	dy := goal.Y - ey
	dist := math.Hypot(dx, dy)
	if dist < dungeon.TileSize/4 {
		pat.Next = (pat.Next + 1) % len(pat.Points)
		pat.Wait = pat.Pause
		ctx.SetVelocity(0, 0)
		return
	}

	speed := ctx.Profile.PatrolSpeed
	ctx.SetVelocity(dx/dist*speed, dy/dist*speed)
	if ctx.FacingLeft != nil {
		ctx.FacingLeft(dx < 0)
	}
}

// seekMove steers toward the sampled chase target, halting inside the stop
// distance so the enemy does not shove the target around.
func seekMove(ctx *AIActionContext, speedScale float64) {
	if ctx == nil || ctx.Profile == nil || ctx.Context == nil || ctx.GetPosition == nil || ctx.SetVelocity == nil {
		return
	}

	ex, ey := ctx.GetPosition()
	if ctx.TargetFound {
		if math.Hypot(ctx.TargetX-ex, ctx.TargetY-ey) <= ctx.Profile.StopDistance {
			ctx.SetVelocity(0, 0)
			return
		}
	}

	gx, gy := ctx.Context.TargetX, ctx.Context.TargetY
	dirX := gx - ex
	dirY := gy - ey
	if ctx.Steer != nil {
		if sx, sy, ok := ctx.Steer(gx, gy); ok {
			dirX, dirY = sx, sy
		}
	}
	dist := math.Hypot(dirX, dirY)
	if dist < 1e-6 {
		ctx.SetVelocity(0, 0)
		return
	}

	speed := ctx.Profile.ChaseSpeed * speedScale
	ctx.SetVelocity(dirX/dist*speed, dirY/dist*speed)
	if ctx.FacingLeft != nil {
		ctx.FacingLeft(dirX < 0)
	}
}

// strikeUpdate runs the windup, lands the hit, then holds through the
// recover delay before reporting the attack finished.
func strikeUpdate(ctx *AIActionContext) {
	if ctx == nil || ctx.Context == nil || ctx.Profile == nil {
		return
	}

	ctx.Context.Timer -= ctx.DT
	if ctx.Context.Timer > 0 {
		return
	}

	if ctx.Context.AttackPending {
		ctx.Context.AttackPending = false
		if ctx.TargetFound && ctx.GetPosition != nil && ctx.DealDamage != nil {
			ex, ey := ctx.GetPosition()
			if math.Hypot(ctx.TargetX-ex, ctx.TargetY-ey) <= attackReach(ctx.Profile) {
				ctx.DealDamage(ctx.Profile.AttackDamage)
			}
		}
		// Hold still for the recover window before chasing again.
		ctx.Context.Timer = ctx.Profile.RecoverTime
		return
	}

	ctx.Context.CooldownLeft = ctx.Profile.AttackCooldown
	if ctx.EnqueueEvent != nil {
		ctx.EnqueueEvent(component.EventID("attack_finished"))
	}
}

type TransitionChecker func(ctx *AIActionContext) bool

var transitionRegistry = map[string]func(any) TransitionChecker{
	"always": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool { return true }
	},
	"timer_expired": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			return ctx != nil && ctx.Context != nil && ctx.Context.Timer <= 0
		}
	},
	"has_target": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			return ctx != nil && ctx.Context != nil && ctx.Context.Aggro
		}
	},
	"lost_target": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			return ctx != nil && ctx.Context != nil && !ctx.Context.Aggro
		}
	},
	"in_attack_reach": func(arg any) TransitionChecker {
		return func(ctx *AIActionContext) bool {
			return attackGatesOpen(ctx)
		}
	},
	"health_below": func(arg any) TransitionChecker {
		frac := asFloat(arg)
		return func(ctx *AIActionContext) bool {
			if ctx == nil || ctx.World == nil || frac <= 0 {
				return false
			}
			h, ok := ecs.Get(ctx.World, ctx.Entity, component.HealthComponent.Kind())
			if !ok || h.Initial <= 0 {
				return false
			}
			return float64(h.Current)/float64(h.Initial) < frac
		}
	},
}

// attackReach is the radius a strike can land in: the larger of the
// attack range and the stop distance.
func attackReach(p *component.Profile) float64 {
	return math.Max(p.AttackRange, p.StopDistance)
}

// attackGatesOpen checks the four conditions that must all hold before a
// chase turns into an attack: in reach, standing still, chased long
// enough, and off cooldown.
func attackGatesOpen(ctx *AIActionContext) bool {
	if ctx == nil || ctx.Profile == nil || ctx.Context == nil || !ctx.TargetFound || ctx.GetPosition == nil {
		return false
	}

	ex, ey := ctx.GetPosition()
	if math.Hypot(ctx.TargetX-ex, ctx.TargetY-ey) > attackReach(ctx.Profile) {
		return false
	}

	if ctx.GetVelocity != nil {
		vx, vy := ctx.GetVelocity()
		if math.Hypot(vx, vy) > 1 {
			return false
		}
	}

	if ctx.Context.ChaseTime < ctx.Profile.MinChaseTime {
		return false
	}

	return ctx.Context.CooldownLeft <= 0
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case float64:
		return t
	case float32:
		return float64(t)
	default:
		return 0
	}
}

// CompileFSM turns a loaded FSM spec into an executable machine. Transition
// keys naming a registered checker become per-tick conditions; all other
// keys are matched against queued events.
func CompileFSM(spec prefabs.FSMSpec) (*FSMDef, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	states := map[component.StateID]StateDef{}
	build := func(list []map[string]any) ([]Action, error) {
		if len(list) == 0 {
			return nil, nil
		}
		out := make([]Action, 0, len(list))
		for _, e := range list {
			for k, v := range e {
				makeAction, ok := actionRegistry[k]
				if !ok {
					return nil, fmt.Errorf("fsm: unknown action %q", k)
				}
				out = append(out, makeAction(v))
			}
		}
		return out, nil
	}

	for name, s := range spec.States {
		onEnter, err := build(s.OnEnter)
		if err != nil {
			return nil, err
		}
		while, err := build(s.While)
		if err != nil {
			return nil, err
		}
		onExit, err := build(s.OnExit)
		if err != nil {
			return nil, err
		}
		states[component.StateID(name)] = StateDef{
			OnEnter: onEnter,
			While:   while,
			OnExit:  onExit,
		}
	}

	transitions := map[component.StateID][]transitionRule{}
	for from, rules := range spec.Transitions {
		fromID := component.StateID(from)
		for _, rule := range rules {
			for key, to := range rule {
				r := transitionRule{To: component.StateID(to)}
				if maker, ok := transitionRegistry[key]; ok {
					r.Check = maker(nil)
				} else {
					r.Event = component.EventID(key)
				}
				transitions[fromID] = append(transitions[fromID], r)
			}
		}
	}

	return &FSMDef{
		Initial:     component.StateID(spec.Initial),
		States:      states,
		Transitions: transitions,
	}, nil
}

func LoadFSMFromPrefab(path string) (*FSMDef, error) {
	spec, err := prefabs.LoadFSMSpec(path)
	if err != nil {
		return nil, err
	}
	return CompileFSM(spec)
}

// DefaultEnemyFSM is the stock host machine: idle, patrol, chase, attack,
// stagger, dead.
func DefaultEnemyFSM() *FSMDef {
	return &FSMDef{
		Initial: component.StateIdle,
		States: map[component.StateID]StateDef{
			component.StateIdle: {
				OnEnter: []Action{actionRegistry["start_timer"](1.5)},
				While: []Action{
					actionRegistry["halt"](nil),
					actionRegistry["tick_timer"](nil),
				},
			},
			component.StatePatrol: {
				While: []Action{actionRegistry["patrol"](nil)},
			},
			component.StateChase: {
				While: []Action{actionRegistry["seek"](nil)},
			},
			component.StateAttack: {
				OnEnter: []Action{actionRegistry["begin_windup"](nil)},
				While: []Action{
					actionRegistry["halt"](nil),
					actionRegistry["strike"](nil),
				},
			},
			component.StateStagger: {
				While: []Action{actionRegistry["halt"](nil)},
			},
			component.StateDead: {
				OnEnter: []Action{actionRegistry["mark_dead"](nil)},
			},
		},
		Transitions: map[component.StateID][]transitionRule{
			component.StateIdle: {
				{Event: "target_spotted", To: component.StateChase},
				{Event: "timer_expired", To: component.StatePatrol},
			},
			component.StatePatrol: {
				{Event: "target_spotted", To: component.StateChase},
			},
			component.StateChase: {
				{Event: "target_in_reach", To: component.StateAttack},
				{Event: "target_lost", To: component.StateIdle},
			},
			component.StateAttack: {
				{Event: "attack_finished", To: component.StateChase},
			},
			component.StateStagger: {
				{Event: "stagger_done", To: component.StateChase},
			},
		},
	}
}
