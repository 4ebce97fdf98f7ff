package ecs

import (
	"testing"

	"github.com/arbelos/vessel/ecs/component"
)

func intPtr(i int) *int { return &i }

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if len(Entities(w)) != c.create-1 {
					t.Fatalf("expected %d entities after destroy, got %d", c.create-1, len(Entities(w)))
				}
			}
		})
	}
}

func TestEntityHandleReuse(t *testing.T) {
	w := NewWorld()
	e1 := CreateEntity(w)
	k := component.NewComponentKind[int]()
	if err := Add(w, e1, k, intPtr(7)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !DestroyEntity(w, e1) {
		t.Fatal("destroy failed")
	}

	e2 := CreateEntity(w)
	if e1 == e2 {
		t.Fatalf("recycled id must carry a new generation")
	}
	if _, ok := Get(w, e2, k); ok {
		t.Fatalf("recycled entity must not inherit old components")
	}
	if err := Add(w, e1, k, intPtr(9)); err == nil {
		t.Fatalf("adding to a dead handle should fail")
	}
}

func TestComponentsAddGetRemove(t *testing.T) {
	w := NewWorld()

	ki := component.NewComponentKind[int]()
	ks := component.NewComponentKind[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	if err := Add(w, e1, ki, intPtr(10)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	v, ok := Get(w, e1, ki)
	if !ok || *v != 10 {
		t.Fatalf("expected 10, got %v ok=%v", v, ok)
	}
	if Has(w, e2, ki) {
		t.Fatalf("e2 should not have int component")
	}

	s := "a"
	if err := Add(w, e1, ks, &s); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !Remove(w, e1, ki) {
		t.Fatalf("remove should succeed")
	}
	if Has(w, e1, ki) {
		t.Fatalf("component should be gone after remove")
	}
	if !Has(w, e1, ks) {
		t.Fatalf("other component should survive remove")
	}
}

func TestForEachIntersections(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "foreach2_intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()

				if err := Add(w, e1, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, ka, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kb, intPtr(3)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e3, kb, intPtr(4)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e, kb, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store_is_empty",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestQueryAndFirst(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	s := "x"

	if err := Add(w, e1, ka, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e2, ka, intPtr(2)); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e2, kb, &s); err != nil {
		t.Fatal(err)
	}

	got := w.Query(ka.ID(), kb.ID())
	if len(got) != 1 || got[0] != e2 {
		t.Fatalf("expected only e2 from query, got %v", got)
	}

	if _, ok := First(w, kb); !ok {
		t.Fatalf("expected First to find e2")
	}
	kc := component.NewComponentKind[float64]()
	if _, ok := First(w, kc); ok {
		t.Fatalf("First on empty store should report false")
	}
}
