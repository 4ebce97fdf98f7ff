package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/arbelos/vessel/common"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
	"github.com/arbelos/vessel/ecs/system"
	"github.com/arbelos/vessel/prefabs"
	"github.com/arbelos/vessel/progress"
)

type Game struct {
	world   *ecs.World
	floor   *system.FloorSystem
	ai      *system.AISystem
	physics *system.PhysicsSystem

	render *system.RenderSystem
	hud    *system.HUDSystem

	paused  bool
	pauseUI *ebitenui.UI

	debug   bool
	watcher *prefabs.Watcher
}

func NewGame(seed int64, startFloor int, debug bool) *Game {
	store := progress.Open("vessel")
	if rec := store.Record(); rec.Runs > 0 {
		log.Printf("game: deepest floor so far %d over %d runs", rec.DeepestFloor+1, rec.Runs)
	}

	w := ecs.NewWorld()
	floor := system.NewFloorSystem(store, seed, startFloor)
	ai := system.NewAISystem()

	w.AddSystem(system.NewInputSystem())
	w.AddSystem(system.NewPossessionSystem())
	w.AddSystem(system.NewVisionSystem())
	w.AddSystem(ai)
	w.AddSystem(system.NewStaggerSystem())
	w.AddSystem(system.NewCooldownSystem())
	w.AddSystem(system.NewCombatSystem())
	w.AddSystem(system.NewTTLSystem())
	w.AddSystem(system.NewDoorSystem())
	w.AddSystem(system.NewSeparationSystem())
	w.AddSystem(system.NewMovementSystem())
	physics := system.NewPhysicsSystem()
	w.AddSystem(physics)
	w.AddSystem(system.NewCameraSystem())
	w.AddSystem(floor)

	g := &Game{
		world:   w,
		floor:   floor,
		ai:      ai,
		physics: physics,
		render:  system.NewRenderSystem(),
		hud:     system.NewHUDSystem(),
		debug:   debug,
	}
	g.pauseUI = NewPauseUI(g)

	// Watch the on-disk prefab overrides so tuning edits apply live.
	if debug {
		watcher, err := prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts"))
		if err != nil {
			log.Printf("game: prefab watcher: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	return g
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case changed := <-g.watcher.Events:
			log.Printf("game: prefab %s changed on disk", changed)
			g.ai.Invalidate()
		case err := <-g.watcher.Errors:
			log.Printf("game: prefab watcher: %v", err)
		default:
			return
		}
	}
}

func (g *Game) Update() error {
	g.pollWatcher()

	if g.paused {
		g.pauseUI.Update()
		if pausePressedNow() {
			g.paused = false
		}
		return nil
	}

	g.world.Update()

	if pauseRequested(g.world) && !g.floor.GameOver() {
		g.paused = true
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	g.hud.Draw(g.world, screen)

	if g.floor.GameOver() {
		msg := "The host chain is broken.\nPress K to begin a new descent."
		ebitenutil.DebugPrintAt(screen, msg, common.BaseWidth/2-110, common.BaseHeight/2-10)
	}

	if g.debug {
		system.DrawPhysicsDebug(g.physics.Space(), g.world, screen)
		system.DrawAIStateDebug(g.world, screen)
		ebitenutil.DebugPrintAt(screen, debugLine(g.world), 12, common.BaseHeight-24)
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

// pausePressedNow polls the pause key directly because the input system
// does not run while the game is paused.
func pausePressedNow() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

func debugLine(w *ecs.World) string {
	enemies := 0
	ecs.ForEach(w, component.AITagComponent.Kind(), func(e ecs.Entity, _ *component.AITag) {
		if !ecs.Has(w, e, component.DeadTagComponent.Kind()) {
			enemies++
		}
	})
	return fmt.Sprintf("TPS %.0f  FPS %.0f  enemies %d  entities %d",
		ebiten.ActualTPS(), ebiten.ActualFPS(), enemies, len(ecs.Entities(w)))
}

func pauseRequested(w *ecs.World) bool {
	requested := false
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, in *component.Input) {
		if in.PausePressed {
			requested = true
		}
	})
	return requested
}
