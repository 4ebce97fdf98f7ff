package entity

import (
	"fmt"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
	"github.com/arbelos/vessel/prefabs"
)

// NewCamera creates the follow camera.
func NewCamera(w *ecs.World) (ecs.Entity, error) {
	spec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return 0, fmt.Errorf("camera: load spec: %w", err)
	}

	ent := ecs.CreateEntity(w)

	if err := ecs.Add(w, ent, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add tag: %w", err)
	}
	if err := ecs.Add(w, ent, component.CameraComponent.Kind(), &component.Camera{
		Zoom:       spec.Zoom,
		Smoothness: spec.Smoothness,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera: %w", err)
	}
	if err := ecs.Add(w, ent, component.TransformComponent.Kind(), &component.Transform{ScaleX: 1, ScaleY: 1}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}

	return ent, nil
}
