package system

import (
	"math"
	"testing"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

func TestFindPath(t *testing.T) {
	layout := makeTestLayout([]string{
		"#######",
		"#...#.#",
		"#.#.#.#",
		"#.#...#",
		"#######",
	})

	t.Run("routes_around_walls", func(t *testing.T) {
		path := findPath(layout, 1, 1, 5, 1)
		if len(path) == 0 {
			t.Fatalf("expected a path")
		}
		// Final waypoint is the goal tile center.
		gx, gy := dungeon.TileToWorld(5, 1)
		last := path[len(path)-1]
		if last.X != gx || last.Y != gy {
			t.Fatalf("path ends at (%v, %v), want (%v, %v)", last.X, last.Y, gx, gy)
		}
		// The direct corridor is blocked, so the route must detour through
		// the bottom row.
		throughBottom := false
		for _, p := range path {
			if _, ty := dungeon.WorldToTile(p.X, p.Y); ty == 3 {
				throughBottom = true
			}
		}
		if !throughBottom {
			t.Fatalf("path ignored the wall: %+v", path)
		}
	})

	t.Run("straight_line", func(t *testing.T) {
		path := findPath(layout, 1, 1, 3, 1)
		if len(path) != 2 {
			t.Fatalf("path length = %d, want 2", len(path))
		}
	})

	t.Run("no_path_into_wall", func(t *testing.T) {
		if path := findPath(layout, 1, 1, 0, 0); path != nil {
			t.Fatalf("expected nil path into a wall, got %+v", path)
		}
	})

	t.Run("same_tile", func(t *testing.T) {
		if path := findPath(layout, 1, 1, 1, 1); path != nil {
			t.Fatalf("expected nil path on the goal tile, got %+v", path)
		}
	})
}

func TestSteerAlongPath(t *testing.T) {
	layout := makeTestLayout([]string{
		"#####",
		"#...#",
		"#####",
	})

	w := ecs.NewWorld()
	ent := addTestEnemy(t, w, 0, 0)

	ex, ey := dungeon.TileToWorld(1, 1)
	gx, gy := dungeon.TileToWorld(3, 1)

	dx, dy, ok := steerAlongPath(w, ent, layout, ex, ey, gx, gy)
	if !ok {
		t.Fatalf("expected a direction")
	}
	if dx <= 0 || math.Abs(dy) > 1e-9 {
		t.Fatalf("direction = (%v, %v), want +x", dx, dy)
	}

	pf, ok := ecs.Get(w, ent, component.PathfindingComponent.Kind())
	if !ok || len(pf.Path) == 0 {
		t.Fatalf("expected a cached path")
	}
	cached := len(pf.Path)

	// Same goal tile: the cached path is reused.
	steerAlongPath(w, ent, layout, ex, ey, gx+1, gy)
	pf, _ = ecs.Get(w, ent, component.PathfindingComponent.Kind())
	if len(pf.Path) != cached {
		t.Fatalf("path recomputed for the same goal tile")
	}

	// New goal tile: repath.
	ngx, ngy := dungeon.TileToWorld(2, 1)
	steerAlongPath(w, ent, layout, ex, ey, ngx, ngy)
	pf, _ = ecs.Get(w, ent, component.PathfindingComponent.Kind())
	if len(pf.Path) == cached {
		t.Fatalf("expected a repath for a new goal tile")
	}

	// No layout means no steering.
	if _, _, ok := steerAlongPath(w, ent, nil, ex, ey, gx, gy); ok {
		t.Fatalf("steering without a layout must fail")
	}
}
