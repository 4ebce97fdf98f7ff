package system

import (
	"container/heap"
	"math"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

// steerAlongPath advances an entity's cached A* path toward a world goal
// and returns the desired direction. The path is recomputed when the goal
// moves to a different tile.
func steerAlongPath(w *ecs.World, ent ecs.Entity, layout *dungeon.Layout, ex, ey, gx, gy float64) (float64, float64, bool) {
	if w == nil || layout == nil {
		return 0, 0, false
	}

	pf, ok := ecs.Get(w, ent, component.PathfindingComponent.Kind())
	if !ok {
		pf = &component.Pathfinding{}
		_ = ecs.Add(w, ent, component.PathfindingComponent.Kind(), pf)
	}

	startX, startY := dungeon.WorldToTile(ex, ey)
	goalX, goalY := dungeon.WorldToTile(gx, gy)

	if goalX != pf.LastGoalX || goalY != pf.LastGoalY || pf.Next >= len(pf.Path) {
		pf.Path = findPath(layout, startX, startY, goalX, goalY)
		pf.Next = 0
		pf.LastGoalX = goalX
		pf.LastGoalY = goalY
	}

	for pf.Next < len(pf.Path) {
		wp := pf.Path[pf.Next]
		if math.Hypot(wp.X-ex, wp.Y-ey) > dungeon.TileSize/4 {
			break
		}
		pf.Next++
	}

	if pf.Next >= len(pf.Path) {
		// On the goal tile (or no path): head straight at the goal point.
		dx, dy := gx-ex, gy-ey
		if math.Hypot(dx, dy) < 1e-6 {
			return 0, 0, false
		}
		return dx, dy, true
	}

	wp := pf.Path[pf.Next]
	return wp.X - ex, wp.Y - ey, true
}

// findPath runs A* over the layout's walkable tiles. The returned
// waypoints are tile centers, start tile excluded.
func findPath(l *dungeon.Layout, startX, startY, goalX, goalY int) []component.PathPoint {
	if l == nil || !l.Walkable(startX, startY) || !l.Walkable(goalX, goalY) {
		return nil
	}
	if startX == goalX && startY == goalY {
		return nil
	}

	gridW, gridH := l.Width, l.Height
	startIdx := startY*gridW + startX
	goalIdx := goalY*gridW + goalX

	cameFrom := make([]int, gridW*gridH)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, gridW*gridH)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	gScore[startIdx] = 0

	open := &openSet{}
	heap.Init(open)
	heap.Push(open, &openItem{idx: startIdx, f: pathHeuristic(startX, startY, goalX, goalY)})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		if current.idx == goalIdx {
			return reconstructPath(cameFrom, gridW, startIdx, goalIdx)
		}

		cx, cy := current.idx%gridW, current.idx/gridW
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cx+d[0], cy+d[1]
			if !l.Walkable(nx, ny) {
				continue
			}
			idx := ny*gridW + nx
			tentative := gScore[current.idx] + 1
			if tentative < gScore[idx] {
				cameFrom[idx] = current.idx
				gScore[idx] = tentative
				heap.Push(open, &openItem{idx: idx, f: tentative + pathHeuristic(nx, ny, goalX, goalY)})
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom []int, gridW, startIdx, goalIdx int) []component.PathPoint {
	if goalIdx < 0 || goalIdx >= len(cameFrom) || cameFrom[goalIdx] == -1 {
		return nil
	}

	var tiles []int
	cur := goalIdx
	for cur != -1 && cur != startIdx {
		tiles = append(tiles, cur)
		cur = cameFrom[cur]
	}

	out := make([]component.PathPoint, 0, len(tiles))
	for i := len(tiles) - 1; i >= 0; i-- {
		x, y := dungeon.TileToWorld(tiles[i]%gridW, tiles[i]/gridW)
		out = append(out, component.PathPoint{X: x, Y: y})
	}
	return out
}

func pathHeuristic(ax, ay, bx, by int) float64 {
	return math.Abs(float64(ax-bx)) + math.Abs(float64(ay-by))
}

type openItem struct {
	idx   int
	f     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
