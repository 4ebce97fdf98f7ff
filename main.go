package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	seed := flag.Int64("seed", 0, "layout seed (0 picks one from the clock)")
	floor := flag.Int("floor", 0, "floor to start on (zero-based)")
	debug := flag.Bool("debug", false, "enable debug overlay and prefab hot reload")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("vessel")

	game := NewGame(*seed, *floor, *debug)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
