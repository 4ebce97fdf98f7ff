// Command dungeonview prints generated floor layouts as ASCII, which is
// handy for eyeballing generator changes without launching the game.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/arbelos/vessel/dungeon"
)

func main() {
	seed := flag.Int64("seed", 0, "layout seed (0 picks one from the clock)")
	floor := flag.Int("floor", 0, "floor to generate (zero-based)")
	count := flag.Int("n", 1, "number of consecutive floors to print")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	for i := 0; i < *count; i++ {
		f := *floor + i
		layout, err := dungeon.Generate(dungeon.DefaultConfig(f, *seed))
		if err != nil {
			log.Fatalf("generate floor %d: %v", f, err)
		}

		fmt.Printf("floor %d  seed %d  rooms %d  doors %d\n", f, *seed, len(layout.Rooms), len(layout.Doors))
		fmt.Println(layout.ASCII())
	}
}
