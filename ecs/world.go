package ecs

import (
	"github.com/arbelos/vessel/ecs/component"
)

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// World owns entities, component stores, and system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	systems  []System
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: map[component.ComponentID]*SparseSet{}}
}

// CreateEntity allocates a new entity handle.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity kills an entity and drops all of its components.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(int(e.id()))
	}
	return true
}

// IsAlive reports whether an entity handle is still valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// IsAlive is the method form used by render code.
func (w *World) IsAlive(e Entity) bool {
	return IsAlive(w, e)
}

// Entities returns all live entity handles.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, len(w.entities.gens))
	for i, gen := range w.entities.gens {
		e := makeEntity(entityID(i+1), gen)
		if w.entities.isAlive(e) {
			out = append(out, e)
		}
	}
	return out
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs all systems once and flushes leftover events.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil || id == 0 {
		return nil
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		if w.stores == nil {
			w.stores = map[component.ComponentID]*SparseSet{}
		}
		w.stores[id] = s
	}
	return s
}

// Query returns the entities holding every listed component.
func (w *World) Query(ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	smallest := w.store(ids[0], false)
	if smallest == nil {
		return nil
	}
	for _, id := range ids[1:] {
		s := w.store(id, false)
		if s == nil {
			return nil
		}
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	var out []Entity
outer:
	for _, eid := range smallest.Entities() {
		for _, id := range ids {
			if !w.store(id, false).Has(eid) {
				continue outer
			}
		}
		e := makeEntity(entityID(eid), w.entities.gens[eid-1])
		if w.entities.isAlive(e) {
			out = append(out, e)
		}
	}
	return out
}
