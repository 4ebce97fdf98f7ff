package dungeon

import (
	"math"
	"strings"
)

// TileSize is the world size of one layout tile in pixels.
const TileSize = 32.0

type Tile uint8

const (
	TileWall Tile = iota
	TileFloor
	TileDoor
)

// Room is one placed room in tile coordinates.
type Room struct {
	Index int
	X     int
	Y     int
	W     int
	H     int

	// Depth is the hop count from the start room along corridors.
	Depth int
	// Budget is the spawn difficulty budget assigned to this room.
	Budget int
}

// CenterX returns the room center in tile coordinates.
func (r Room) CenterX() int { return r.X + r.W/2 }

// CenterY returns the room center in tile coordinates.
func (r Room) CenterY() int { return r.Y + r.H/2 }

// CenterWorld returns the room center in world pixels.
func (r Room) CenterWorld() (float64, float64) {
	return (float64(r.CenterX()) + 0.5) * TileSize, (float64(r.CenterY()) + 0.5) * TileSize
}

// Contains reports whether the tile coordinate lies inside the room.
func (r Room) Contains(tx, ty int) bool {
	return tx >= r.X && tx < r.X+r.W && ty >= r.Y && ty < r.Y+r.H
}

// Door is a sealed exit tile. Room is the room whose roster gates it.
type Door struct {
	X    int
	Y    int
	Room int
}

// Layout is one generated floor.
type Layout struct {
	Width  int
	Height int
	Tiles  []Tile
	Rooms  []Room
	Doors  []Door

	StartRoom int
	Floor     int
	Seed      int64
}

// TileAt returns the tile at x,y, or TileWall out of bounds.
func (l *Layout) TileAt(x, y int) Tile {
	if l == nil || x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return TileWall
	}
	return l.Tiles[y*l.Width+x]
}

func (l *Layout) setTile(x, y int, t Tile) {
	if l == nil || x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return
	}
	l.Tiles[y*l.Width+x] = t
}

// Walkable reports whether an agent can stand on the tile. Door tiles are
// walkable in layout terms; the physics shape of a closed door is what
// actually blocks movement.
func (l *Layout) Walkable(x, y int) bool {
	t := l.TileAt(x, y)
	return t == TileFloor || t == TileDoor
}

// RoomAt returns the index of the room containing the tile, or -1.
func (l *Layout) RoomAt(tx, ty int) int {
	if l == nil {
		return -1
	}
	for i := range l.Rooms {
		if l.Rooms[i].Contains(tx, ty) {
			return i
		}
	}
	return -1
}

// WorldToTile converts world pixels to tile coordinates.
func WorldToTile(x, y float64) (int, int) {
	return int(math.Floor(x / TileSize)), int(math.Floor(y / TileSize))
}

// TileToWorld returns the world-pixel center of a tile.
func TileToWorld(tx, ty int) (float64, float64) {
	return (float64(tx) + 0.5) * TileSize, (float64(ty) + 0.5) * TileSize
}

// LineOfSight reports whether the straight segment between two world
// points crosses no wall tile. Door tiles do not occlude: a sealed door
// blocks movement through its physics shape, not sight.
func (l *Layout) LineOfSight(x0, y0, x1, y1 float64) bool {
	if l == nil {
		return false
	}
	tx0, ty0 := WorldToTile(x0, y0)
	tx1, ty1 := WorldToTile(x1, y1)

	dx := int(math.Abs(float64(tx1 - tx0)))
	dy := int(math.Abs(float64(ty1 - ty0)))
	sx := 1
	if tx0 > tx1 {
		sx = -1
	}
	sy := 1
	if ty0 > ty1 {
		sy = -1
	}
	err := dx - dy
	x, y := tx0, ty0
	for {
		if l.TileAt(x, y) == TileWall {
			return false
		}
		if x == tx1 && y == ty1 {
			return true
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// ASCII renders the layout for debugging: '#' wall, '.' floor, '+' door,
// digits mark room depth (mod 10) at room centers.
func (l *Layout) ASCII() string {
	if l == nil {
		return ""
	}
	var b strings.Builder
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			ch := byte('#')
			switch l.TileAt(x, y) {
			case TileFloor:
				ch = '.'
			case TileDoor:
				ch = '+'
			}
			for _, r := range l.Rooms {
				if r.CenterX() == x && r.CenterY() == y {
					ch = byte('0' + r.Depth%10)
				}
			}
			b.WriteByte(ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
