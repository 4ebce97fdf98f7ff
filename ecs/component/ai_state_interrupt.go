package component

// AIStateInterrupt is a one-shot request for an AI FSM event. Combat and
// possession add this to an enemy; the AI system consumes it on its next
// update.
type AIStateInterrupt struct {
	Event string
}

var AIStateInterruptComponent = NewComponent[AIStateInterrupt]()
