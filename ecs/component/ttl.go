package component

// TTL destroys an entity after a number of ticks. Corpses carry one so
// floors do not fill up with dead bodies.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()
