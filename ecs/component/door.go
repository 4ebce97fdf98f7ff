package component

// Door seals a room exit until the room's roster empties.
type Door struct {
	Room int
	Open bool
}

// DoorRuntime caches the authored solid shape so the door can close again
// on reload without rebuilding the entity.
type DoorRuntime struct {
	Initialized bool
	WasOpen     bool
}

var DoorComponent = NewComponent[Door]()
var DoorRuntimeComponent = NewComponent[DoorRuntime]()
