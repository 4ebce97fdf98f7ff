package component

// Invulnerable suppresses incoming damage, e.g. right after a parasite is
// ejected from a dying host.
type Invulnerable struct {
	// Left in seconds. Zero means indefinite.
	Left float64
}

var InvulnerableComponent = NewComponent[Invulnerable]()
