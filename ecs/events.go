package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	// EventEnemyDied is pushed when an enemy's health reaches zero.
	EventEnemyDied = "enemy_died"
	// EventHostDied is pushed when a possessed host dies.
	EventHostDied = "host_died"
	// EventRoomCleared is pushed once when a room's roster empties.
	EventRoomCleared = "room_cleared"
	// EventFloorCleared is pushed when every room on the floor is cleared.
	EventFloorCleared = "floor_cleared"
)

// EnemyDied reports which enemy died and the room it belonged to.
type EnemyDied struct {
	Entity Entity
	Room   int
}

// RoomCleared reports a room whose roster emptied this tick.
type RoomCleared struct {
	Room int
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
