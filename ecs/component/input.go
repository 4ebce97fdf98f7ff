package component

// Input is the sampled control state for the controlled entity.
type Input struct {
	MoveX float64
	MoveY float64

	AttackPressed  bool
	PossessPressed bool
	PausePressed   bool
}

var InputComponent = NewComponent[Input]()
