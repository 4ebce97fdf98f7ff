package component

// Vision holds the per-enemy detection facts computed each tick by the
// vision system and consumed by FSM transition checkers.
type Vision struct {
	// Heading the enemy is facing, radians, 0 = +X.
	Heading float64

	TargetVisible bool
	TargetDist    float64
	TargetX       float64
	TargetY       float64
	// Proximity is true inside the unconditional aggro radius.
	Proximity bool
}

var VisionComponent = NewComponent[Vision]()
