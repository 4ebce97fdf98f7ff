package system

import (
	"log"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// DoorSystem runs the room gating loop: it tracks the roster of each room,
// seals a room's doors while the player is inside with enemies alive, and
// opens them again once the roster empties.
type DoorSystem struct{}

func NewDoorSystem() *DoorSystem { return &DoorSystem{} }

func (s *DoorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	s.consumeDeaths(w)
	s.toggleDoors(w)
}

// consumeDeaths drains enemy-death events into room rosters, emitting
// room and floor cleared events as rosters empty.
func (s *DoorSystem) consumeDeaths(w *ecs.World) {
	events := w.Events().Drain()
	var keep []ecs.Event
	for _, evt := range events {
		if evt.Type != ecs.EventEnemyDied {
			keep = append(keep, evt)
			continue
		}
		died, ok := evt.Data.(ecs.EnemyDied)
		if !ok || died.Room < 0 {
			continue
		}

		room, ok := findRoom(w, died.Room)
		if !ok {
			continue
		}
		if room.Alive > 0 {
			room.Alive--
		}
		if room.Alive == 0 && !room.Cleared {
			room.Cleared = true
			w.Events().Push(ecs.Event{Type: ecs.EventRoomCleared, Data: ecs.RoomCleared{Room: room.Index}})
			log.Printf("room %d cleared", room.Index)

			if allRoomsCleared(w) {
				w.Events().Push(ecs.Event{Type: ecs.EventFloorCleared})
			}
		}
	}

	for _, evt := range keep {
		w.Events().Push(evt)
	}
}

// toggleDoors seals the player's current room while it still has a live
// roster, and holds every cleared room open.
func (s *DoorSystem) toggleDoors(w *ecs.World) {
	layout := currentLayout(w)
	if layout == nil {
		return
	}

	playerRoom := -1
	if _, tx, ty, ok := FindTarget(w); ok {
		gx, gy := dungeon.WorldToTile(tx, ty)
		playerRoom = layout.RoomAt(gx, gy)
	}

	ecs.ForEach(w, component.DoorComponent.Kind(), func(e ecs.Entity, door *component.Door) {
		room, ok := findRoom(w, door.Room)
		if !ok {
			return
		}

		sealed := door.Room == playerRoom && !room.Cleared && room.Alive > 0
		open := !sealed
		if door.Open != open {
			door.Open = open
			s.applyDoorState(w, e, open)
		}
	})
}

// applyDoorState swaps the door's solid presence. A closed door has its
// sprite and a static physics box; an open door has neither.
func (s *DoorSystem) applyDoorState(w *ecs.World, e ecs.Entity, open bool) {
	rt, ok := ecs.Get(w, e, component.DoorRuntimeComponent.Kind())
	if !ok {
		rt = &component.DoorRuntime{}
		_ = ecs.Add(w, e, component.DoorRuntimeComponent.Kind(), rt)
	}

	if sp, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
		sp.Hidden = open
	}
	// The physics system adds or removes the solid box on its next tick.
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		body.Disabled = open
	}
	rt.WasOpen = open
}

func findRoom(w *ecs.World, index int) (*component.Room, bool) {
	var found *component.Room
	ecs.ForEach(w, component.RoomComponent.Kind(), func(_ ecs.Entity, r *component.Room) {
		if r.Index == index {
			found = r
		}
	})
	return found, found != nil
}

func allRoomsCleared(w *ecs.World) bool {
	all := true
	ecs.ForEach(w, component.RoomComponent.Kind(), func(_ ecs.Entity, r *component.Room) {
		if !r.Cleared {
			all = false
		}
	})
	return all
}
