package component

// StateID identifies an AI FSM state.
type StateID string

// EventID identifies an AI FSM event.
type EventID string

const DefaultAIFSMName = "grunt_default"

const (
	StateIdle    StateID = "idle"
	StatePatrol  StateID = "patrol"
	StateChase   StateID = "chase"
	StateAttack  StateID = "attack"
	StateStagger StateID = "stagger"
	StateDead    StateID = "dead"
)

// AIState stores the current FSM state.
type AIState struct {
	Current StateID
}

// AIContext stores per-enemy AI runtime data. Tick counters run at the
// fixed update rate; second-valued profile fields are converted once at
// the comparison site.
type AIContext struct {
	Timer float64

	Aggro      bool
	AggroTimer float64
	// UnseenFor counts seconds since the target was last seen.
	UnseenFor float64
	LastSeenX float64
	LastSeenY float64

	// Sampled chase target.
	TargetX     float64
	TargetY     float64
	SinceSample float64

	ChaseTime     float64
	CooldownLeft  float64
	AttackPending bool
}

// AIConfig stores the FSM configuration reference for an entity.
type AIConfig struct {
	FSM    string
	Script string
}

var AIStateComponent = NewComponent[AIState]()
var AIContextComponent = NewComponent[AIContext]()
var AIConfigComponent = NewComponent[AIConfig]()
