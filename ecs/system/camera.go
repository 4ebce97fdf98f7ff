package system

import (
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// CameraSystem eases the camera toward the controlled body. The camera
// transform stores the world point at the screen center.
type CameraSystem struct {
	camEntity ecs.Entity
	snapped   bool
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	if !cs.camEntity.Valid() || !ecs.IsAlive(w, cs.camEntity) {
		camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
		cs.snapped = false
	}

	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	camTransform, ok := ecs.Get(w, cs.camEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	_, tx, ty, found := FindTarget(w)
	if !found {
		return
	}

	if !cs.snapped {
		camTransform.X = tx
		camTransform.Y = ty
		cs.snapped = true
		return
	}

	t := cam.Smoothness
	if t <= 0 || t > 1 {
		t = 1
	}
	camTransform.X += (tx - camTransform.X) * t
	camTransform.Y += (ty - camTransform.Y) * t
}
