package system

import (
	"math"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// VisionSystem computes per-enemy detection facts each tick: whether the
// target falls inside the vision cone with clear line of sight, and
// whether it breaches the unconditional proximity radius.
type VisionSystem struct{}

func NewVisionSystem() *VisionSystem {
	return &VisionSystem{}
}

func (s *VisionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	_, tx, ty, found := FindTarget(w)
	layout := currentLayout(w)

	ecs.ForEach2(w, component.AITagComponent.Kind(), component.ProfileComponent.Kind(), func(ent ecs.Entity, _ *component.AITag, profile *component.Profile) {
		if ecs.Has(w, ent, component.PossessedComponent.Kind()) || ecs.Has(w, ent, component.DeadTagComponent.Kind()) {
			return
		}

		vision, ok := ecs.Get(w, ent, component.VisionComponent.Kind())
		if !ok {
			vision = &component.Vision{}
			_ = ecs.Add(w, ent, component.VisionComponent.Kind(), vision)
		}

		ex, ey := EntityPosition(w, ent)

		// Face the way we move; keep the old heading when standing still.
		if v, ok := ecs.Get(w, ent, component.VelocityComponent.Kind()); ok {
			if math.Hypot(v.X, v.Y) > 1 {
				vision.Heading = math.Atan2(v.Y, v.X)
			}
		}

		if !found {
			vision.TargetVisible = false
			vision.Proximity = false
			vision.TargetDist = math.MaxFloat64
			return
		}

		dx := tx - ex
		dy := ty - ey
		dist := math.Hypot(dx, dy)

		vision.TargetDist = dist
		vision.TargetX = tx
		vision.TargetY = ty
		vision.Proximity = dist <= profile.ProximityRadius

		if dist > profile.VisionRange {
			vision.TargetVisible = false
			return
		}
		if !inCone(vision.Heading, profile.VisionHalfAngle, dx, dy) {
			vision.TargetVisible = false
			return
		}
		if layout != nil && !layout.LineOfSight(ex, ey, tx, ty) {
			vision.TargetVisible = false
			return
		}
		vision.TargetVisible = true
	})
}

// inCone reports whether the offset (dx,dy) lies within halfAngle radians
// of the heading.
func inCone(heading, halfAngle, dx, dy float64) bool {
	if dx == 0 && dy == 0 {
		return true
	}
	diff := normalizeAngle(math.Atan2(dy, dx) - heading)
	return math.Abs(diff) <= halfAngle
}

// normalizeAngle wraps an angle into (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
