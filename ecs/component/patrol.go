package component

// Patrol holds waypoints inside the owning room.
type Patrol struct {
	Points []PathPoint
	Next   int
	// Pause in seconds at each waypoint.
	Pause float64
	Wait  float64
}

var PatrolComponent = NewComponent[Patrol]()
