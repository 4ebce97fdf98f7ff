package component

// Profile is the per-enemy-type parameter bag. One Profile value is shared
// by every instance of a type and is never mutated at runtime.
type Profile struct {
	Name string

	// Movement
	PatrolSpeed float64
	ChaseSpeed  float64

	// Detection. Distances in pixels, angles in radians, times in seconds.
	VisionRange     float64
	VisionHalfAngle float64
	// ProximityRadius grants aggro unconditionally, bypassing the cone and
	// occlusion checks.
	ProximityRadius float64
	// Inside InstantAggroRadius a sighting aggros immediately; between it
	// and DelayedAggroRadius the sighting accumulates against AggroDelay.
	InstantAggroRadius float64
	DelayedAggroRadius float64
	AggroDelay         float64
	// Aggro drops when the target has been unseen for LoseSightAfter AND
	// the proximity test fails.
	LoseSightAfter float64

	// Attack
	AttackRange    float64
	StopDistance   float64
	AttackDamage   int
	AttackWindup   float64
	AttackCooldown float64
	// MinChaseTime must elapse after entering chase before an attack may
	// start.
	MinChaseTime float64
	// RecoverTime holds the enemy in place after an attack before it
	// resumes chasing.
	RecoverTime float64

	// Chase target sampling: the target position is re-sampled every
	// SampleInterval, or every tick inside CloseSampleRange.
	SampleInterval   float64
	CloseSampleRange float64

	// StaggerChance in [0,1] rolls on every hit taken.
	StaggerChance float64
	StaggerTime   float64

	// Cost against a room's spawn budget.
	Cost int
}

var ProfileComponent = NewComponent[Profile]()
