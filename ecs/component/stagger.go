package component

// Stagger marks an enemy as stunned. Removed when Left reaches zero.
type Stagger struct {
	// Left in seconds.
	Left float64
}

var StaggerComponent = NewComponent[Stagger]()
