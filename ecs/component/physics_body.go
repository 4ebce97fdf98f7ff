package component

import "github.com/jakecoffman/cp"

// PhysicsBody links an entity to its Chipmunk body. Width/Height describe
// the authored box; Body and Shape are filled in by the physics system.
type PhysicsBody struct {
	Width  float64
	Height float64
	Mass   float64

	// Static bodies never move; walls and closed doors.
	Static bool
	// Disabled asks the physics system to pull the body out of the space
	// without forgetting its dimensions. Open doors use this.
	Disabled bool

	Body  *cp.Body
	Shape *cp.Shape
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
