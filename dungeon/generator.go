package dungeon

import (
	"fmt"
	"math/rand"
)

// Config controls floor generation. All sizes are in tiles.
type Config struct {
	Width  int
	Height int

	// Rooms is the target room count; placement may fall short when the
	// retry budget runs out on a crowded map.
	Rooms            int
	MinRoomSize      int
	MaxRoomSize      int
	PlacementRetries int

	// Budget assigned per room: BaseBudget + Depth*BudgetPerDepth.
	BaseBudget     int
	BudgetPerDepth int

	Floor int
	Seed  int64
}

// DefaultConfig returns the tuning used for a given floor.
func DefaultConfig(floor int, seed int64) Config {
	return Config{
		Width:            64,
		Height:           48,
		Rooms:            8 + floor,
		MinRoomSize:      5,
		MaxRoomSize:      11,
		PlacementRetries: 40,
		BaseBudget:       3 + floor,
		BudgetPerDepth:   2,
		Floor:            floor,
		Seed:             seed,
	}
}

// Generate builds one floor. The same config always yields the same
// layout.
func Generate(cfg Config) (*Layout, error) {
	if cfg.Width < 16 || cfg.Height < 16 {
		return nil, fmt.Errorf("dungeon: map %dx%d too small", cfg.Width, cfg.Height)
	}
	if cfg.MinRoomSize < 3 || cfg.MaxRoomSize < cfg.MinRoomSize {
		return nil, fmt.Errorf("dungeon: bad room size range %d..%d", cfg.MinRoomSize, cfg.MaxRoomSize)
	}
	if cfg.PlacementRetries <= 0 {
		cfg.PlacementRetries = 40
	}

	rng := rand.New(rand.NewSource(cfg.Seed + int64(cfg.Floor)*7919))

	l := &Layout{
		Width:  cfg.Width,
		Height: cfg.Height,
		Tiles:  make([]Tile, cfg.Width*cfg.Height),
		Floor:  cfg.Floor,
		Seed:   cfg.Seed,
	}

	// Place rooms with a bounded retry budget each.
	for i := 0; i < cfg.Rooms; i++ {
		room, ok := placeRoom(l, cfg, rng)
		if !ok {
			break
		}
		room.Index = len(l.Rooms)
		l.Rooms = append(l.Rooms, room)
		carveRoom(l, room)
	}
	if len(l.Rooms) < 2 {
		return nil, fmt.Errorf("dungeon: placed %d rooms, need at least 2", len(l.Rooms))
	}

	// Connect each room to the nearest already-connected one.
	adjacency := make([][]int, len(l.Rooms))
	for i := 1; i < len(l.Rooms); i++ {
		j := nearestConnected(l.Rooms, i)
		carveCorridor(l, l.Rooms[i], l.Rooms[j], rng)
		adjacency[i] = append(adjacency[i], j)
		adjacency[j] = append(adjacency[j], i)
	}

	placeDoors(l)
	assignDepths(l, adjacency)

	for i := range l.Rooms {
		l.Rooms[i].Budget = cfg.BaseBudget + l.Rooms[i].Depth*cfg.BudgetPerDepth
	}
	// The start room spawns nothing.
	l.Rooms[l.StartRoom].Budget = 0

	return l, nil
}

func placeRoom(l *Layout, cfg Config, rng *rand.Rand) (Room, bool) {
	for try := 0; try < cfg.PlacementRetries; try++ {
		w := cfg.MinRoomSize + rng.Intn(cfg.MaxRoomSize-cfg.MinRoomSize+1)
		h := cfg.MinRoomSize + rng.Intn(cfg.MaxRoomSize-cfg.MinRoomSize+1)
		x := 1 + rng.Intn(cfg.Width-w-2)
		y := 1 + rng.Intn(cfg.Height-h-2)
		candidate := Room{X: x, Y: y, W: w, H: h}
		if !overlapsAny(l.Rooms, candidate) {
			return candidate, true
		}
	}
	return Room{}, false
}

// overlapsAny keeps a one-tile wall between rooms.
func overlapsAny(rooms []Room, c Room) bool {
	for _, r := range rooms {
		if c.X < r.X+r.W+1 && r.X < c.X+c.W+1 &&
			c.Y < r.Y+r.H+1 && r.Y < c.Y+c.H+1 {
			return true
		}
	}
	return false
}

func carveRoom(l *Layout, r Room) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			l.setTile(x, y, TileFloor)
		}
	}
}

func nearestConnected(rooms []Room, i int) int {
	best := 0
	bestDist := 1 << 30
	for j := 0; j < i; j++ {
		dx := rooms[i].CenterX() - rooms[j].CenterX()
		dy := rooms[i].CenterY() - rooms[j].CenterY()
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best
}

// carveCorridor joins two room centers with an L-shaped one-tile corridor.
func carveCorridor(l *Layout, a, b Room, rng *rand.Rand) {
	ax, ay := a.CenterX(), a.CenterY()
	bx, by := b.CenterX(), b.CenterY()
	if rng.Intn(2) == 0 {
		carveH(l, ax, bx, ay)
		carveV(l, ay, by, bx)
	} else {
		carveV(l, ay, by, ax)
		carveH(l, ax, bx, by)
	}
}

func carveH(l *Layout, x0, x1, y int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		if l.TileAt(x, y) == TileWall {
			l.setTile(x, y, TileFloor)
		}
	}
}

func carveV(l *Layout, y0, y1, x int) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		if l.TileAt(x, y) == TileWall {
			l.setTile(x, y, TileFloor)
		}
	}
}

// placeDoors marks every corridor tile touching a room edge as that
// room's exit door.
func placeDoors(l *Layout) {
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if l.TileAt(x, y) != TileFloor || l.RoomAt(x, y) >= 0 {
				continue
			}
			room := -1
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if l.TileAt(nx, ny) == TileFloor {
					if r := l.RoomAt(nx, ny); r >= 0 {
						room = r
						break
					}
				}
			}
			if room < 0 {
				continue
			}
			l.setTile(x, y, TileDoor)
			l.Doors = append(l.Doors, Door{X: x, Y: y, Room: room})
		}
	}
}

// assignDepths BFS-walks corridor adjacency from the start room.
func assignDepths(l *Layout, adjacency [][]int) {
	l.StartRoom = 0
	seen := make([]bool, len(l.Rooms))
	queue := []int{l.StartRoom}
	seen[l.StartRoom] = true
	l.Rooms[l.StartRoom].Depth = 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[cur] {
			if seen[next] {
				continue
			}
			seen[next] = true
			l.Rooms[next].Depth = l.Rooms[cur].Depth + 1
			queue = append(queue, next)
		}
	}
}

// RandomFloorTile picks a floor tile inside the room, retrying to avoid
// door-adjacent tiles. Returns false when the retry budget runs out.
func RandomFloorTile(l *Layout, r Room, rng *rand.Rand, retries int) (int, int, bool) {
	if retries <= 0 {
		retries = 10
	}
	for try := 0; try < retries; try++ {
		tx := r.X + rng.Intn(r.W)
		ty := r.Y + rng.Intn(r.H)
		if l.TileAt(tx, ty) != TileFloor {
			continue
		}
		nearDoor := false
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			if l.TileAt(tx+d[0], ty+d[1]) == TileDoor {
				nearDoor = true
				break
			}
		}
		if !nearDoor {
			return tx, ty, true
		}
	}
	return 0, 0, false
}
