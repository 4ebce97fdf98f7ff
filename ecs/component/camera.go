package component

// Camera follows the controlled entity.
type Camera struct {
	Zoom       float64
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()
