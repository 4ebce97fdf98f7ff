package component

// PathPoint is one world-space waypoint.
type PathPoint struct {
	X float64
	Y float64
}

// Pathfinding stores the current A* path toward the sampled chase target.
type Pathfinding struct {
	Path []PathPoint
	// Next indexes the waypoint currently steered toward.
	Next int

	LastGoalX int
	LastGoalY int
}

var PathfindingComponent = NewComponent[Pathfinding]()
