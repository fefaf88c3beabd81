// Package config loads and validates simulation Profiles: the read-only,
// load-once scenario definitions (world, species, parameters, seed) that
// the engine installs via the profile.load control-plane effect.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RegiByte/emergent-boids-sub003/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Profile is the read-only scenario definition described in spec §3/§6.
type Profile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	RandomSeed  int64  `yaml:"random_seed"`

	World      World                  `yaml:"world"`
	Species    map[string]Species     `yaml:"species"`
	Parameters Parameters             `yaml:"parameters"`
}

// World holds global world-shape settings.
type World struct {
	Width                float64 `yaml:"width"`
	Height               float64 `yaml:"height"`
	InitialPreyCount     int     `yaml:"initial_prey_count"`
	InitialPredatorCount int     `yaml:"initial_predator_count"`
}

// Movement holds a species' steering/physics knobs.
type Movement struct {
	MinDistance      float64 `yaml:"min_distance"`
	SeparationWeight float64 `yaml:"separation_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	MaxSpeed         float64 `yaml:"max_speed"`
	MaxForce         float64 `yaml:"max_force"`
	TrailLength      int     `yaml:"trail_length"`
}

// Lifecycle holds a species' energy/age economics.
type Lifecycle struct {
	MaxEnergy      float64 `yaml:"max_energy"`
	EnergyGainRate float64 `yaml:"energy_gain_rate"`
	EnergyLossRate float64 `yaml:"energy_loss_rate"`
	MaxAge         float64 `yaml:"max_age"`
	FearFactor     float64 `yaml:"fear_factor"`
}

// ReproductionType is sexual (requires a mate) or asexual (clones a parent).
type ReproductionType string

const (
	ReproductionSexual  ReproductionType = "sexual"
	ReproductionAsexual ReproductionType = "asexual"
)

// Reproduction holds a species' reproduction economics.
type Reproduction struct {
	Type                 ReproductionType `yaml:"type"`
	OffspringCount       int              `yaml:"offspring_count"`
	OffspringEnergyBonus float64          `yaml:"offspring_energy_bonus"`
	CooldownTicks        int              `yaml:"cooldown_ticks"`
}

// Limits holds per-species population/perception overrides.
type Limits struct {
	MaxPopulation int     `yaml:"max_population"`
	FearRadius    float64 `yaml:"fear_radius"`
}

// Species is one entry of the profile's species table.
type Species struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Color        [3]uint8         `yaml:"color"`
	Role         components.Role  `yaml:"-"`
	RoleName     string           `yaml:"role"`
	Movement     Movement         `yaml:"movement"`
	Lifecycle    Lifecycle        `yaml:"lifecycle"`
	Reproduction Reproduction     `yaml:"reproduction"`
	Limits       Limits           `yaml:"limits"`
}

// Parameters holds global radii, population caps, and lifecycle timings
// shared across all species.
type Parameters struct {
	PerceptionRadius            float64 `yaml:"perception_radius"`
	ObstacleAvoidanceWeight     float64 `yaml:"obstacle_avoidance_weight"`
	FearRadius                  float64 `yaml:"fear_radius"`
	ChaseRadius                 float64 `yaml:"chase_radius"`
	CatchRadius                 float64 `yaml:"catch_radius"`
	MateRadius                  float64 `yaml:"mate_radius"`
	MinDistance                 float64 `yaml:"min_distance"`
	MaxBoids                    int     `yaml:"max_boids"`
	MaxPreyBoids                int     `yaml:"max_prey_boids"`
	MaxPredatorBoids            int     `yaml:"max_predator_boids"`
	MinReproductionAge          float64 `yaml:"min_reproduction_age"`
	ReproductionEnergyThreshold float64 `yaml:"reproduction_energy_threshold"`
	ReproductionCooldownTicks   int     `yaml:"reproduction_cooldown_ticks"`
	MatingBuildupTicks          int     `yaml:"mating_buildup_ticks"`
	EatingCooldownTicks         int     `yaml:"eating_cooldown_ticks"`
}

// Load reads a Profile from a YAML file, merging it over the embedded
// defaults (fields absent from path are left at their default value) —
// mirrors the teacher's config.Load defaults-then-override pattern. The
// species map merges per key only: a species the file defines replaces
// the default entry of that id whole (its absent fields are zero, not
// default), and default species the file does not name stay in the map.
func Load(path string) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(defaultsYAML, p); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading profile file: %w", err)
		}
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parsing profile file: %w", err)
		}
	}

	resolveRoles(p)

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// MustLoad is like Load but panics on error, for CLI/test bootstrapping.
func MustLoad(path string) *Profile {
	p, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load profile: %v", err))
	}
	return p
}

func resolveRoles(p *Profile) {
	for id, sp := range p.Species {
		if sp.RoleName == "predator" {
			sp.Role = components.RolePredator
		} else {
			sp.Role = components.RolePrey
		}
		p.Species[id] = sp
	}
}

// ConfigError reports a malformed or out-of-range Profile (spec §7). It is
// fatal at load: profile.load fails and the engine retains its previous
// state.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// Validate checks structural invariants spec.md requires at load time:
// every typeId referenced downstream must resolve in the species table,
// and numeric parameters must be in range.
func Validate(p *Profile) error {
	if len(p.Species) == 0 {
		return &ConfigError{Field: "species", Msg: "profile must define at least one species"}
	}
	if p.Parameters.MaxBoids < 0 {
		return &ConfigError{Field: "parameters.max_boids", Msg: "must be non-negative"}
	}
	if p.Parameters.MaxPreyBoids < 0 || p.Parameters.MaxPredatorBoids < 0 {
		return &ConfigError{Field: "parameters.max_*_boids", Msg: "must be non-negative"}
	}
	if p.World.Width <= 0 || p.World.Height <= 0 {
		return &ConfigError{Field: "world", Msg: "width and height must be positive"}
	}
	for id, sp := range p.Species {
		if sp.Movement.MaxSpeed <= 0 {
			return &ConfigError{Field: "species." + id + ".movement.max_speed", Msg: "must be positive"}
		}
		if sp.Movement.TrailLength <= 0 {
			return &ConfigError{Field: "species." + id + ".movement.trail_length", Msg: "must be positive"}
		}
		if sp.Lifecycle.MaxEnergy <= 0 {
			return &ConfigError{Field: "species." + id + ".lifecycle.max_energy", Msg: "must be positive"}
		}
	}
	return nil
}

// SpeciesByRole returns the ids of every species with the given role, in
// stable (sorted) order.
func (p *Profile) SpeciesByRole(role components.Role) []string {
	var ids []string
	for id, sp := range p.Species {
		if sp.Role == role {
			ids = append(ids, id)
		}
	}
	sortStrings(ids)
	return ids
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
