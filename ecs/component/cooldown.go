package component

// Cooldown is a generic countdown. When Left reaches zero the component is
// removed and interested systems may react.
type Cooldown struct {
	// Left in seconds.
	Left float64
}

var CooldownComponent = NewComponent[Cooldown]()
