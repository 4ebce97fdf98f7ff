package system

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

const (
	hudPaddingX = 12
	hudPaddingY = 12
	hudLineH    = 14
)

// HUDSystem prints run state in the screen corner.
type HUDSystem struct{}

func NewHUDSystem() *HUDSystem { return &HUDSystem{} }

func (h *HUDSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}

	lines := make([]string, 0, 3)

	if _, lvl, ok := firstLevel(w); ok {
		lines = append(lines, fmt.Sprintf("Floor %d", lvl.Floor+1))
	}

	parEnt, ok := ecs.First(w, component.ParasiteTagComponent.Kind())
	if ok {
		par, _ := ecs.Get(w, parEnt, component.ParasiteComponent.Kind())
		healthEnt := parEnt
		form := "Parasite"
		if par != nil && par.Attached {
			healthEnt = ecs.Entity(par.Host)
			form = "Host"
			if profile, ok := ecs.Get(w, healthEnt, component.ProfileComponent.Kind()); ok && profile.Name != "" {
				form = "Host: " + profile.Name
			}
		}
		if health, ok := ecs.Get(w, healthEnt, component.HealthComponent.Kind()); ok {
			lines = append(lines, fmt.Sprintf("HP %d / %d", health.Current, health.Initial))
		}
		lines = append(lines, form)
	}

	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, hudPaddingX, hudPaddingY+i*hudLineH)
	}
}

func firstLevel(w *ecs.World) (ecs.Entity, *component.Level, bool) {
	ent, ok := ecs.First(w, component.LevelComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	lvl, ok := ecs.Get(w, ent, component.LevelComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	return ent, lvl, true
}
