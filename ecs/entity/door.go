package entity

import (
	"fmt"
	"image/color"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// NewDoor creates a sealed exit tile. Doors start open and the door
// system closes them while their room's roster is live.
func NewDoor(w *ecs.World, d dungeon.Door) (ecs.Entity, error) {
	ent := ecs.CreateEntity(w)

	x, y := dungeon.TileToWorld(d.X, d.Y)

	if err := ecs.Add(w, ent, component.DoorComponent.Kind(), &component.Door{
		Room: d.Room,
		Open: true,
	}); err != nil {
		return 0, fmt.Errorf("door: add door: %w", err)
	}
	if err := ecs.Add(w, ent, component.DoorRuntimeComponent.Kind(), &component.DoorRuntime{
		Initialized: true,
		WasOpen:     true,
	}); err != nil {
		return 0, fmt.Errorf("door: add door runtime: %w", err)
	}

	if err := ecs.Add(w, ent, component.TransformComponent.Kind(), &component.Transform{
		X: x, Y: y, ScaleX: 1, ScaleY: 1,
	}); err != nil {
		return 0, fmt.Errorf("door: add transform: %w", err)
	}

	if err := ecs.Add(w, ent, component.SpriteComponent.Kind(), &component.Sprite{
		Color:  color.NRGBA{R: 0x8a, G: 0x6d, B: 0x3b, A: 0xff},
		Size:   dungeon.TileSize,
		Hidden: true,
	}); err != nil {
		return 0, fmt.Errorf("door: add sprite: %w", err)
	}
	if err := ecs.Add(w, ent, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 1}); err != nil {
		return 0, fmt.Errorf("door: add render layer: %w", err)
	}

	if err := ecs.Add(w, ent, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:    dungeon.TileSize,
		Height:   dungeon.TileSize,
		Static:   true,
		Disabled: true,
	}); err != nil {
		return 0, fmt.Errorf("door: add physics body: %w", err)
	}

	return ent, nil
}
