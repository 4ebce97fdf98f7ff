package system

import (
	"github.com/jakecoffman/cp"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

const (
	collisionTypeActor cp.CollisionType = iota + 1
	collisionTypeSolid
)

// PhysicsSystem owns the Chipmunk space. Top-down view: no gravity,
// bodies move only by the velocities other systems assign.
type PhysicsSystem struct {
	space  *cp.Space
	bodies map[ecs.Entity]*cp.Body

	// walls are the static shapes carved from the current layout.
	walls       []*cp.Shape
	wallsLayout *dungeon.Layout
}

func NewPhysicsSystem() *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 10
	return &PhysicsSystem{
		space:  space,
		bodies: make(map[ecs.Entity]*cp.Body),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.space == nil {
		return
	}

	ps.syncWalls(w)
	ps.dropDeadBodies(w)
	ps.syncEntities(w)
	ps.applyVelocities(w)

	ps.space.Step(tickDT)

	ps.syncTransforms(w)
}

// syncWalls rebuilds the static tile shapes when the floor changes.
func (ps *PhysicsSystem) syncWalls(w *ecs.World) {
	layout := currentLayout(w)
	if layout == ps.wallsLayout {
		return
	}

	for _, shape := range ps.walls {
		ps.space.RemoveShape(shape)
	}
	ps.walls = nil
	ps.wallsLayout = layout
	if layout == nil {
		return
	}

	static := ps.space.StaticBody
	for y := 0; y < layout.Height; y++ {
		for x := 0; x < layout.Width; x++ {
			if layout.TileAt(x, y) != dungeon.TileWall {
				continue
			}
			if !borderingWalkable(layout, x, y) {
				continue
			}
			wx, wy := dungeon.TileToWorld(x, y)
			half := dungeon.TileSize / 2
			shape := ps.space.AddShape(cp.NewBox2(static, cp.BB{
				L: wx - half,
				B: wy - half,
				R: wx + half,
				T: wy + half,
			}, 0))
			shape.SetElasticity(0)
			shape.SetFriction(0)
			shape.SetCollisionType(collisionTypeSolid)
			ps.walls = append(ps.walls, shape)
		}
	}
}

// borderingWalkable skips interior wall tiles the simulation can never
// touch.
func borderingWalkable(l *dungeon.Layout, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if l.Walkable(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}

// dropDeadBodies removes corpses and destroyed entities from the space.
func (ps *PhysicsSystem) dropDeadBodies(w *ecs.World) {
	for ent, body := range ps.bodies {
		remove := !ecs.IsAlive(w, ent) || ecs.Has(w, ent, component.DeadTagComponent.Kind())
		if !remove {
			if pb, ok := ecs.Get(w, ent, component.PhysicsBodyComponent.Kind()); ok && pb.Disabled {
				remove = true
			}
		}
		if !remove {
			continue
		}

		body.EachShape(func(shape *cp.Shape) {
			ps.space.RemoveShape(shape)
		})
		ps.space.RemoveBody(body)
		delete(ps.bodies, ent)

		if pb, ok := ecs.Get(w, ent, component.PhysicsBodyComponent.Kind()); ok {
			pb.Body = nil
			pb.Shape = nil
		}
	}
}

// syncEntities creates bodies for entities that need one.
func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(ent ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Disabled || pb.Body != nil {
			return
		}
		if ecs.Has(w, ent, component.DeadTagComponent.Kind()) {
			return
		}

		width, height := pb.Width, pb.Height
		if width <= 0 {
			width = dungeon.TileSize / 2
		}
		if height <= 0 {
			height = dungeon.TileSize / 2
		}

		var body *cp.Body
		if pb.Static {
			body = cp.NewStaticBody()
		} else {
			mass := pb.Mass
			if mass <= 0 {
				mass = 1
			}
			// Infinite moment keeps actors from spinning on contact.
			body = cp.NewBody(mass, cp.INFINITY)
		}
		body.SetPosition(cp.Vector{X: t.X, Y: t.Y})

		ps.space.AddBody(body)
		shape := ps.space.AddShape(cp.NewBox(body, width, height, 2))
		shape.SetElasticity(0)
		shape.SetFriction(0)
		if pb.Static {
			shape.SetCollisionType(collisionTypeSolid)
		} else {
			shape.SetCollisionType(collisionTypeActor)
		}

		pb.Body = body
		pb.Shape = shape
		ps.bodies[ent] = body
	})
}

// applyVelocities pushes the Velocity component into the bodies.
func (ps *PhysicsSystem) applyVelocities(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.VelocityComponent.Kind(), func(ent ecs.Entity, pb *component.PhysicsBody, v *component.Velocity) {
		if pb.Body == nil || pb.Static {
			return
		}
		pb.Body.SetVelocityVector(cp.Vector{X: v.X, Y: v.Y})
	})
}

// syncTransforms copies body positions back onto the transforms.
func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(ent ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Body == nil || pb.Static {
			return
		}
		pos := pb.Body.Position()
		t.X = pos.X
		t.Y = pos.Y
	})
}

func cpVector(x, y float64) cp.Vector {
	return cp.Vector{X: x, Y: y}
}
