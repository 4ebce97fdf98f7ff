package component

type Velocity struct {
	X float64
	Y float64
}

var VelocityComponent = NewComponent[Velocity]()
