package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FSMSpec is the on-disk form of a behavior state machine. Transitions
// map a state name to an ordered list of {event: next_state} rules;
// the first matching rule wins.
type FSMSpec struct {
	Initial     string                         `yaml:"initial"`
	States      map[string]FSMStateSpec        `yaml:"states"`
	Transitions map[string][]map[string]string `yaml:"transitions"`
}

type FSMStateSpec struct {
	OnEnter []map[string]any `yaml:"on_enter"`
	While   []map[string]any `yaml:"while"`
	OnExit  []map[string]any `yaml:"on_exit"`
}

func LoadFSMSpec(path string) (FSMSpec, error) {
	return LoadSpec[FSMSpec](path)
}

// Validate rejects machines that reference undeclared states.
func (s FSMSpec) Validate() error {
	if s.Initial == "" {
		return fmt.Errorf("prefabs: fsm has no initial state")
	}
	if _, ok := s.States[s.Initial]; !ok {
		return fmt.Errorf("prefabs: fsm initial state %q not declared", s.Initial)
	}
	for from, rules := range s.Transitions {
		if _, ok := s.States[from]; !ok {
			return fmt.Errorf("prefabs: fsm transition from undeclared state %q", from)
		}
		for _, rule := range rules {
			for event, to := range rule {
				if event == "" {
					return fmt.Errorf("prefabs: fsm state %q has a transition with no event", from)
				}
				if _, ok := s.States[to]; !ok {
					return fmt.Errorf("prefabs: fsm state %q transitions to undeclared state %q", from, to)
				}
			}
		}
	}
	return nil
}

// DecodeActionSpec round-trips an untyped action argument map into a
// typed argument struct.
func DecodeActionSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}
