package component

import "github.com/arbelos/vessel/dungeon"

// Level holds the generated floor layout for the world. Exactly one
// entity carries it.
type Level struct {
	Layout *dungeon.Layout
	Floor  int
	Seed   int64
}

var LevelComponent = NewComponent[Level]()
