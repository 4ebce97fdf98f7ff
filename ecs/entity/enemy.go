package entity

import (
	"fmt"
	"math"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
	"github.com/arbelos/vessel/prefabs"
)

// NewEnemy spawns one host of the named archetype at a world position,
// bound to the room whose roster gates its doors.
func NewEnemy(w *ecs.World, typeName string, x, y float64, room int) (ecs.Entity, error) {
	spec, err := prefabs.LoadEnemySpec(typeName)
	if err != nil {
		return 0, fmt.Errorf("enemy: load spec: %w", err)
	}
	return NewEnemyFromSpec(w, spec, x, y, room)
}

// NewEnemyFromSpec builds the enemy from an already loaded spec. The
// spawner uses this to avoid re-reading prefabs per instance.
func NewEnemyFromSpec(w *ecs.World, spec *prefabs.EnemySpec, x, y float64, room int) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("enemy: nil spec")
	}

	ent := ecs.CreateEntity(w)

	if err := ecs.Add(w, ent, component.AITagComponent.Kind(), &component.AITag{}); err != nil {
		return 0, fmt.Errorf("enemy: add ai tag: %w", err)
	}

	profile := profileFromSpec(spec)
	if err := ecs.Add(w, ent, component.ProfileComponent.Kind(), profile); err != nil {
		return 0, fmt.Errorf("enemy: add profile: %w", err)
	}

	if err := ecs.Add(w, ent, component.AIStateComponent.Kind(), &component.AIState{}); err != nil {
		return 0, fmt.Errorf("enemy: add ai state: %w", err)
	}
	if err := ecs.Add(w, ent, component.AIContextComponent.Kind(), &component.AIContext{}); err != nil {
		return 0, fmt.Errorf("enemy: add ai context: %w", err)
	}
	if err := ecs.Add(w, ent, component.AIConfigComponent.Kind(), &component.AIConfig{
		FSM:    spec.FSM,
		Script: spec.Script,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add ai config: %w", err)
	}

	if err := ecs.Add(w, ent, component.TransformComponent.Kind(), &component.Transform{
		X: x, Y: y, ScaleX: 1, ScaleY: 1,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add transform: %w", err)
	}
	if err := ecs.Add(w, ent, component.VelocityComponent.Kind(), &component.Velocity{}); err != nil {
		return 0, fmt.Errorf("enemy: add velocity: %w", err)
	}

	sprite := &component.Sprite{Size: spec.Sprite.Size}
	if spec.Sprite.Color != nil {
		sprite.Color = spec.Sprite.Color.Color
	}
	if err := ecs.Add(w, ent, component.SpriteComponent.Kind(), sprite); err != nil {
		return 0, fmt.Errorf("enemy: add sprite: %w", err)
	}
	if err := ecs.Add(w, ent, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 1}); err != nil {
		return 0, fmt.Errorf("enemy: add render layer: %w", err)
	}

	if err := ecs.Add(w, ent, component.HealthComponent.Kind(), &component.Health{
		Initial: spec.Health,
		Current: spec.Health,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add health: %w", err)
	}

	if err := ecs.Add(w, ent, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:  spec.Collider.Width,
		Height: spec.Collider.Height,
		Mass:   1,
	}); err != nil {
		return 0, fmt.Errorf("enemy: add physics body: %w", err)
	}

	if err := ecs.Add(w, ent, component.RoomMemberComponent.Kind(), &component.RoomMember{Room: room}); err != nil {
		return 0, fmt.Errorf("enemy: add room member: %w", err)
	}

	return ent, nil
}

func profileFromSpec(spec *prefabs.EnemySpec) *component.Profile {
	return &component.Profile{
		Name:               spec.Name,
		PatrolSpeed:        spec.PatrolSpeed,
		ChaseSpeed:         spec.ChaseSpeed,
		VisionRange:        spec.VisionRange,
		VisionHalfAngle:    spec.VisionHalfAngleDeg * math.Pi / 180,
		ProximityRadius:    spec.ProximityRadius,
		InstantAggroRadius: spec.InstantAggroRadius,
		DelayedAggroRadius: spec.DelayedAggroRadius,
		AggroDelay:         spec.AggroDelay,
		LoseSightAfter:     spec.LoseSightAfter,
		AttackRange:        spec.AttackRange,
		StopDistance:       spec.StopDistance,
		AttackDamage:       spec.AttackDamage,
		AttackWindup:       spec.AttackWindup,
		AttackCooldown:     spec.AttackCooldown,
		MinChaseTime:       spec.MinChaseTime,
		RecoverTime:        spec.RecoverTime,
		SampleInterval:     spec.SampleInterval,
		CloseSampleRange:   spec.CloseSampleRange,
		StaggerChance:      spec.StaggerChance,
		StaggerTime:        spec.StaggerTime,
		Cost:               spec.Cost,
	}
}
