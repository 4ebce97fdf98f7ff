package entity

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
	"github.com/arbelos/vessel/prefabs"
)

const spawnPlacementRetries = 12

// BuildFloor generates a floor, creates its rooms and doors, spends each
// room's budget on enemies, and drops the parasite in the start room.
func BuildFloor(w *ecs.World, floor int, seed int64) (*dungeon.Layout, error) {
	layout, err := dungeon.Generate(dungeon.DefaultConfig(floor, seed))
	if err != nil {
		return nil, fmt.Errorf("level: generate floor %d: %w", floor, err)
	}

	levelEnt := ecs.CreateEntity(w)
	if err := ecs.Add(w, levelEnt, component.LevelComponent.Kind(), &component.Level{
		Layout: layout,
		Floor:  floor,
		Seed:   seed,
	}); err != nil {
		return nil, fmt.Errorf("level: add level: %w", err)
	}

	rng := rand.New(rand.NewSource(seed ^ int64(floor)<<16))

	specs, err := loadEnemySpecs()
	if err != nil {
		return nil, err
	}

	for i := range layout.Rooms {
		room := layout.Rooms[i]
		alive, err := spawnRoom(w, layout, room, specs, rng)
		if err != nil {
			return nil, err
		}

		roomEnt := ecs.CreateEntity(w)
		if err := ecs.Add(w, roomEnt, component.RoomComponent.Kind(), &component.Room{
			Index:   room.Index,
			Budget:  room.Budget,
			Alive:   alive,
			Cleared: alive == 0,
		}); err != nil {
			return nil, fmt.Errorf("level: add room %d: %w", room.Index, err)
		}
	}

	for _, d := range layout.Doors {
		if _, err := NewDoor(w, d); err != nil {
			return nil, err
		}
	}

	px, py := layout.Rooms[layout.StartRoom].CenterWorld()
	if _, err := NewParasite(w, px, py); err != nil {
		return nil, err
	}
	if _, err := NewCamera(w); err != nil {
		return nil, err
	}

	log.Printf("level: floor %d built, %d rooms, %d doors", floor, len(layout.Rooms), len(layout.Doors))
	return layout, nil
}

func loadEnemySpecs() ([]*prefabs.EnemySpec, error) {
	names := prefabs.EnemyTypeNames()
	if len(names) == 0 {
		return nil, fmt.Errorf("level: no enemy prefabs embedded")
	}
	specs := make([]*prefabs.EnemySpec, 0, len(names))
	for _, name := range names {
		spec, err := prefabs.LoadEnemySpec(name)
		if err != nil {
			return nil, fmt.Errorf("level: load enemy %q: %w", name, err)
		}
		if spec.Cost <= 0 {
			spec.Cost = 1
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// spawnRoom spends the room's budget on randomly picked affordable
// archetypes and returns the roster size.
func spawnRoom(w *ecs.World, layout *dungeon.Layout, room dungeon.Room, specs []*prefabs.EnemySpec, rng *rand.Rand) (int, error) {
	budget := room.Budget
	alive := 0

	for budget > 0 {
		affordable := affordableSpecs(specs, budget)
		if len(affordable) == 0 {
			break
		}
		spec := affordable[rng.Intn(len(affordable))]

		tx, ty, ok := dungeon.RandomFloorTile(layout, room, rng, spawnPlacementRetries)
		if !ok {
			break
		}
		x, y := dungeon.TileToWorld(tx, ty)

		ent, err := NewEnemyFromSpec(w, spec, x, y, room.Index)
		if err != nil {
			return 0, fmt.Errorf("level: spawn %s in room %d: %w", spec.Name, room.Index, err)
		}

		if patrol := buildPatrol(layout, room, rng); patrol != nil {
			if err := ecs.Add(w, ent, component.PatrolComponent.Kind(), patrol); err != nil {
				return 0, fmt.Errorf("level: add patrol: %w", err)
			}
		}

		budget -= spec.Cost
		alive++
	}

	return alive, nil
}

func affordableSpecs(specs []*prefabs.EnemySpec, budget int) []*prefabs.EnemySpec {
	out := make([]*prefabs.EnemySpec, 0, len(specs))
	for _, s := range specs {
		if s.Cost <= budget {
			out = append(out, s)
		}
	}
	return out
}

// buildPatrol picks a small waypoint loop inside the room.
func buildPatrol(layout *dungeon.Layout, room dungeon.Room, rng *rand.Rand) *component.Patrol {
	count := 2 + rng.Intn(3)
	points := make([]component.PathPoint, 0, count)
	for i := 0; i < count; i++ {
		tx, ty, ok := dungeon.RandomFloorTile(layout, room, rng, spawnPlacementRetries)
		if !ok {
			continue
		}
		x, y := dungeon.TileToWorld(tx, ty)
		points = append(points, component.PathPoint{X: x, Y: y})
	}
	if len(points) < 2 {
		return nil
	}
	return &component.Patrol{
		Points: points,
		Pause:  0.5 + rng.Float64(),
	}
}
