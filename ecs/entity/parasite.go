package entity

import (
	"fmt"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
	"github.com/arbelos/vessel/prefabs"
)

// NewParasite creates the player-controlled organism at a world position.
func NewParasite(w *ecs.World, x, y float64) (ecs.Entity, error) {
	spec, err := prefabs.LoadParasiteSpec()
	if err != nil {
		return 0, fmt.Errorf("parasite: load spec: %w", err)
	}

	ent := ecs.CreateEntity(w)

	if err := ecs.Add(w, ent, component.ParasiteTagComponent.Kind(), &component.ParasiteTag{}); err != nil {
		return 0, fmt.Errorf("parasite: add tag: %w", err)
	}
	if err := ecs.Add(w, ent, component.ParasiteComponent.Kind(), &component.Parasite{
		LungeRange: spec.LungeRange,
		MoveSpeed:  spec.MoveSpeed,
		EjectGrace: spec.EjectGrace,
	}); err != nil {
		return 0, fmt.Errorf("parasite: add parasite: %w", err)
	}
	if err := ecs.Add(w, ent, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("parasite: add input: %w", err)
	}

	if err := ecs.Add(w, ent, component.TransformComponent.Kind(), &component.Transform{
		X: x, Y: y, ScaleX: 1, ScaleY: 1,
	}); err != nil {
		return 0, fmt.Errorf("parasite: add transform: %w", err)
	}
	if err := ecs.Add(w, ent, component.VelocityComponent.Kind(), &component.Velocity{}); err != nil {
		return 0, fmt.Errorf("parasite: add velocity: %w", err)
	}

	sprite := &component.Sprite{Size: spec.Sprite.Size}
	if spec.Sprite.Color != nil {
		sprite.Color = spec.Sprite.Color.Color
	}
	if err := ecs.Add(w, ent, component.SpriteComponent.Kind(), sprite); err != nil {
		return 0, fmt.Errorf("parasite: add sprite: %w", err)
	}
	if err := ecs.Add(w, ent, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 2}); err != nil {
		return 0, fmt.Errorf("parasite: add render layer: %w", err)
	}

	if err := ecs.Add(w, ent, component.HealthComponent.Kind(), &component.Health{
		Initial: spec.Health,
		Current: spec.Health,
	}); err != nil {
		return 0, fmt.Errorf("parasite: add health: %w", err)
	}

	if err := ecs.Add(w, ent, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:  spec.Collider.Width,
		Height: spec.Collider.Height,
		Mass:   1,
	}); err != nil {
		return 0, fmt.Errorf("parasite: add physics body: %w", err)
	}

	return ent, nil
}
