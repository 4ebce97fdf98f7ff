package component

// Parasite is the player-controlled organism. While Attached it steers the
// Host entity instead of its own body.
type Parasite struct {
	Attached bool
	Host     uint64

	// LungeRange is how close a staggered host must be to possess it.
	LungeRange float64
	MoveSpeed  float64

	// EjectGrace is the invulnerability window granted when a host dies
	// under the parasite.
	EjectGrace float64
}

// Possessed marks an enemy as player-controlled. By is the parasite entity.
type Possessed struct {
	By uint64
}

var ParasiteComponent = NewComponent[Parasite]()
var PossessedComponent = NewComponent[Possessed]()
