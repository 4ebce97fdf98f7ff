package system

import (
	"testing"

	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

func addScriptedEnemy(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	ent := addTestEnemy(t, w, x, y)
	cfg, ok := ecs.Get(w, ent, component.AIConfigComponent.Kind())
	if !ok {
		t.Fatalf("enemy has no ai config")
	}
	cfg.Script = "brute.tengo"
	return ent
}

func TestScriptedAttackFinishesViaRaisedEvent(t *testing.T) {
	w := ecs.NewWorld()
	ent := addScriptedEnemy(t, w, 0, 0)

	state, _ := ecs.Get(w, ent, component.AIStateComponent.Kind())
	state.Current = component.StateAttack

	// The swing whiffs with no target around, but the finish event it
	// raises must still reach the script and end the attack.
	ai := NewAISystem()
	for i := 0; i < 60 && state.Current == component.StateAttack; i++ {
		ai.Update(w)
	}
	if state.Current != component.StateChase {
		t.Fatalf("state = %q, want chase after the attack wraps up", state.Current)
	}
}

func TestScriptRuntimeDroppedWithEntity(t *testing.T) {
	w := ecs.NewWorld()
	ent := addScriptedEnemy(t, w, 0, 0)

	ai := NewAISystem()
	ai.Update(w)
	if len(ai.scriptCache) != 1 {
		t.Fatalf("script cache entries = %d, want 1", len(ai.scriptCache))
	}

	ecs.DestroyEntity(w, ent)
	ai.Update(w)
	if len(ai.scriptCache) != 0 {
		t.Fatalf("script cache entries = %d after destroy, want 0", len(ai.scriptCache))
	}
}
