package system

import (
	"log"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
	"github.com/arbelos/vessel/ecs/entity"
	"github.com/arbelos/vessel/progress"
)

// FloorSystem owns the run lifecycle: it builds the first floor, advances
// to the next one when every room is cleared, and ends the run when the
// bare parasite dies. It runs after the door system so it sees the events
// that system publishes.
type FloorSystem struct {
	store      *progress.Store
	seed       int64
	startFloor int

	initialized bool
	gameOver    bool
	floor       int
}

func NewFloorSystem(store *progress.Store, seed int64, startFloor int) *FloorSystem {
	return &FloorSystem{
		store:      store,
		seed:       seed,
		startFloor: startFloor,
		floor:      startFloor,
	}
}

// GameOver reports whether the current run has ended.
func (f *FloorSystem) GameOver() bool {
	return f != nil && f.gameOver
}

// Floor returns the floor the run is currently on.
func (f *FloorSystem) Floor() int {
	if f == nil {
		return 0
	}
	return f.floor
}

func (f *FloorSystem) Update(w *ecs.World) {
	if f == nil || w == nil {
		return
	}

	if !f.initialized {
		if err := f.rebuild(w, f.startFloor); err != nil {
			panic("floor system: initial build failed: " + err.Error())
		}
		f.initialized = true
		return
	}

	if f.gameOver {
		f.maybeRestart(w)
		return
	}

	advance := false
	runEnded := false
	for _, evt := range w.Events().Drain() {
		switch evt.Type {
		case ecs.EventFloorCleared:
			advance = true
		case ecs.EventHostDied:
			ent, ok := evt.Data.(ecs.Entity)
			if ok && ecs.Has(w, ent, component.ParasiteTagComponent.Kind()) {
				runEnded = true
			}
		case ecs.EventRoomCleared:
			if rc, ok := evt.Data.(ecs.RoomCleared); ok {
				log.Printf("floor: room %d cleared", rc.Room)
			}
		}
	}

	if runEnded {
		f.endRun()
		return
	}
	if advance {
		if err := f.rebuild(w, f.floor+1); err != nil {
			panic("floor system: floor advance failed: " + err.Error())
		}
	}
}

func (f *FloorSystem) endRun() {
	f.gameOver = true
	if f.store != nil {
		if err := f.store.RecordRun(f.floor, f.seed); err != nil {
			log.Printf("floor: record run: %v", err)
		}
	}
	log.Printf("floor: run ended on floor %d", f.floor)
}

// maybeRestart waits for the possess button before starting a fresh run.
func (f *FloorSystem) maybeRestart(w *ecs.World) {
	pressed := false
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		if in.PossessPressed {
			pressed = true
		}
	})
	if !pressed {
		return
	}

	f.gameOver = false
	if err := f.rebuild(w, f.startFloor); err != nil {
		panic("floor system: restart failed: " + err.Error())
	}
}

// rebuild tears down every entity and generates the given floor.
func (f *FloorSystem) rebuild(w *ecs.World, floor int) error {
	for _, e := range ecs.Entities(w) {
		ecs.DestroyEntity(w, e)
	}
	w.Events().Drain()

	if _, err := entity.BuildFloor(w, floor, f.seed); err != nil {
		return err
	}
	f.floor = floor
	return nil
}
