package prefabs

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EnemySpec is one host archetype. Distances are in world pixels,
// angles in degrees, durations in seconds.
type EnemySpec struct {
	Name string `yaml:"name"`

	// Cost is what spawning one of these deducts from a room budget.
	Cost int `yaml:"cost"`

	Health int `yaml:"health"`

	PatrolSpeed float64 `yaml:"patrol_speed"`
	ChaseSpeed  float64 `yaml:"chase_speed"`

	VisionRange        float64 `yaml:"vision_range"`
	VisionHalfAngleDeg float64 `yaml:"vision_half_angle_deg"`
	ProximityRadius    float64 `yaml:"proximity_radius"`
	InstantAggroRadius float64 `yaml:"instant_aggro_radius"`
	DelayedAggroRadius float64 `yaml:"delayed_aggro_radius"`
	AggroDelay         float64 `yaml:"aggro_delay"`
	LoseSightAfter     float64 `yaml:"lose_sight_after"`

	AttackRange    float64 `yaml:"attack_range"`
	StopDistance   float64 `yaml:"stop_distance"`
	AttackDamage   int     `yaml:"attack_damage"`
	AttackWindup   float64 `yaml:"attack_windup"`
	AttackCooldown float64 `yaml:"attack_cooldown"`
	MinChaseTime   float64 `yaml:"min_chase_time"`
	RecoverTime    float64 `yaml:"recover_time"`

	SampleInterval   float64 `yaml:"sample_interval"`
	CloseSampleRange float64 `yaml:"close_sample_range"`

	StaggerChance float64 `yaml:"stagger_chance"`
	StaggerTime   float64 `yaml:"stagger_time"`

	Collider ColliderSpec `yaml:"collider"`
	Sprite   SpriteSpec   `yaml:"sprite"`

	// FSM names an embedded machine file; empty means the stock machine.
	// Script switches the entity to a tengo-driven lifecycle instead.
	FSM    string `yaml:"fsm"`
	Script string `yaml:"script"`
}

func LoadEnemySpec(name string) (*EnemySpec, error) {
	file := name
	if !strings.HasSuffix(file, ".yaml") && !strings.HasSuffix(file, ".yml") {
		file = "enemy_" + file + ".yaml"
	}
	data, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", file, err)
	}
	var spec EnemySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", file, err)
	}
	return &spec, nil
}

// EnemyTypeNames lists the embedded host archetypes (enemy_*.yaml),
// sorted by name.
func EnemyTypeNames() []string {
	entries, err := PrefabsFS.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if strings.HasPrefix(n, "enemy_") && strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(strings.TrimPrefix(n, "enemy_"), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

type ParasiteSpec struct {
	Name       string  `yaml:"name"`
	MoveSpeed  float64 `yaml:"move_speed"`
	LungeRange float64 `yaml:"lunge_range"`
	Health     int     `yaml:"health"`

	// EjectGrace is the invulnerability window after losing a host.
	EjectGrace float64 `yaml:"eject_grace"`

	Collider ColliderSpec `yaml:"collider"`
	Sprite   SpriteSpec   `yaml:"sprite"`
}

func LoadParasiteSpec() (*ParasiteSpec, error) {
	data, err := Load("parasite.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load parasite.yaml: %w", err)
	}
	var spec ParasiteSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal parasite.yaml: %w", err)
	}
	return &spec, nil
}

type CameraSpec struct {
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	data, err := Load("camera.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load camera.yaml: %w", err)
	}
	var spec CameraSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal camera.yaml: %w", err)
	}
	return &spec, nil
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SpriteSpec describes the placeholder quad drawn for an entity.
type SpriteSpec struct {
	Color *YAMLColor `yaml:"color"`
	Size  float64    `yaml:"size"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
