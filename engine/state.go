// Package engine owns the authoritative simulation state: the ECS world
// of agents, the obstacle/food-source/death-marker collections, the
// active Profile, and the random/time/spatial subsystems that the
// per-tick pipeline (tick.go) and the control-plane Executor
// (executor.go) operate against. State is constructed once by cmd/simctl
// and never duplicated — every other subsystem holds a reference to it,
// per spec §9's "no module-scope globals" design note.
package engine

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/config"
	"github.com/RegiByte/emergent-boids-sub003/randsrc"
	"github.com/RegiByte/emergent-boids-sub003/systems"
	"github.com/RegiByte/emergent-boids-sub003/timectl"
)

// State is the engine's single authoritative value. It is not safe for
// concurrent use — the control-plane Executor is its sole mutator, and the
// scheduler drives ticks and drains events from one goroutine, matching
// spec §5's single-threaded cooperative loop.
type State struct {
	log *slog.Logger

	world *ecs.World
	mapper *ecs.Map6[
		components.Identity,
		components.Transform,
		components.Phenotype,
		components.Vitals,
		components.StanceState,
		components.Trail,
	]
	filter *ecs.Filter6[
		components.Identity,
		components.Transform,
		components.Phenotype,
		components.Vitals,
		components.StanceState,
		components.Trail,
	]

	identityMap *ecs.Map1[components.Identity]
	transformMap *ecs.Map1[components.Transform]
	phenotypeMap *ecs.Map1[components.Phenotype]
	vitalsMap   *ecs.Map1[components.Vitals]
	stanceMap   *ecs.Map1[components.StanceState]
	trailMap    *ecs.Map1[components.Trail]

	byID map[components.AgentID]ecs.Entity

	obstacles   []components.Obstacle
	foodSources []components.FoodSource
	markers     []components.DeathMarker

	profile *config.Profile
	rng     *randsrc.Source
	time    *timectl.Controller
	grid    *systems.Grid

	nextAgentID    components.AgentID
	nextObstacleID uint32
	nextFoodID     uint32

	frame uint64

	neighborScratch []systems.Neighbor
}

// New constructs an empty State wired to a logger and profile, spawning
// the profile's initial population. Equivalent to loading a profile into
// a freshly created engine (spec §4.10 steps 2-6, with no prior state to
// tear down).
func New(profile *config.Profile, log *slog.Logger) *State {
	if log == nil {
		log = slog.Default()
	}
	s := &State{log: log}
	s.build(profile)
	return s
}

func (s *State) build(profile *config.Profile) {
	world := ecs.NewWorld()

	s.world = &world
	s.mapper = ecs.NewMap6[
		components.Identity,
		components.Transform,
		components.Phenotype,
		components.Vitals,
		components.StanceState,
		components.Trail,
	](&world)
	s.filter = ecs.NewFilter6[
		components.Identity,
		components.Transform,
		components.Phenotype,
		components.Vitals,
		components.StanceState,
		components.Trail,
	](&world)

	s.identityMap = ecs.NewMap1[components.Identity](&world)
	s.transformMap = ecs.NewMap1[components.Transform](&world)
	s.phenotypeMap = ecs.NewMap1[components.Phenotype](&world)
	s.vitalsMap = ecs.NewMap1[components.Vitals](&world)
	s.stanceMap = ecs.NewMap1[components.StanceState](&world)
	s.trailMap = ecs.NewMap1[components.Trail](&world)

	s.byID = make(map[components.AgentID]ecs.Entity)
	s.obstacles = nil
	s.foodSources = nil
	s.markers = nil

	s.profile = profile
	s.rng = randsrc.New(uint64(profile.RandomSeed))
	if s.time == nil {
		s.time = timectl.New()
	} else {
		s.time.Reset()
	}

	cellSize := systems.CellSizeFor(
		profile.Parameters.PerceptionRadius,
		profile.Parameters.ChaseRadius,
		profile.Parameters.FearRadius,
		profile.Parameters.MateRadius,
		10,
	)
	s.grid = systems.NewGrid(profile.World.Width, profile.World.Height, cellSize)

	s.nextAgentID = 1
	s.nextObstacleID = 1
	s.nextFoodID = 1
	s.frame = 0

	s.spawnInitialPopulation()
}

// LoadProfile atomically replaces the profile and resets the engine: the
// PRNG reseeds, the time controller returns to frame 0 and zero elapsed
// time while keeping its pause state and time scale, every collection
// clears, and the initial population respawns. It does not touch the
// control bus: reached through the profile.load effect it runs inside
// Bus.Drain, and events still queued behind it are then handled against
// the new state. There are no timers to cancel.
func (s *State) LoadProfile(profile *config.Profile) {
	s.log.Info("engine: loading profile", "id", profile.ID)
	s.build(profile)
}

// Profile returns the currently active profile.
func (s *State) Profile() *config.Profile { return s.profile }

// Frame returns the current tick counter.
func (s *State) Frame() uint64 { return s.frame }

// Time returns the time controller, so the scheduler can pause/resume/step.
func (s *State) Time() *timectl.Controller { return s.time }

func (s *State) spawnInitialPopulation() {
	spawn := s.rng.Domain(randsrc.DomainSpawn)
	for id, sp := range s.profile.Species {
		var count int
		if sp.Role == components.RolePredator {
			count = s.profile.World.InitialPredatorCount
		} else {
			count = s.profile.World.InitialPreyCount
		}
		_ = id
		for i := 0; i < count; i++ {
			x := spawn.Range(0, s.profile.World.Width)
			y := spawn.Range(0, s.profile.World.Height)
			s.spawnAgent(sp, r2.Vec{X: x, Y: y}, sp.Lifecycle.MaxEnergy*0.6)
		}
	}
}

// spawnAgent creates one agent entity and registers it in the id index.
func (s *State) spawnAgent(sp config.Species, pos r2.Vec, energy float64) components.AgentID {
	id := s.nextAgentID
	s.nextAgentID++

	identity := components.Identity{ID: id, TypeID: sp.ID}
	transform := components.Transform{Position: pos}
	phenotype := components.Phenotype{
		BaseSize:        6,
		CollisionRadius: 5,
		MaxEnergy:       sp.Lifecycle.MaxEnergy,
		MaxHealth:       100,
		Color:           sp.Color,
	}
	vitals := components.Vitals{Energy: energy, Health: 100, Age: 0}
	stance := components.StanceState{Current: defaultStance(sp.Role), EnteredAtFrame: s.frame}
	trail := components.NewTrail(maxInt(sp.Movement.TrailLength, 1))

	entity := s.mapper.NewEntity(&identity, &transform, &phenotype, &vitals, &stance, &trail)
	s.byID[id] = entity
	return id
}

func defaultStance(role components.Role) components.Stance {
	if role == components.RolePredator {
		return components.StanceHunting
	}
	return components.StanceFlocking
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// removeAgent deletes an agent entirely from the world and the id index.
func (s *State) removeAgent(id components.AgentID) {
	entity, ok := s.byID[id]
	if !ok {
		return
	}
	s.mapper.Remove(entity)
	delete(s.byID, id)
}

// PopulationCount implements control.StateView.
func (s *State) PopulationCount(role components.Role) int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		identity, _, _, _, _, _ := query.Get()
		sp, ok := s.profile.Species[identity.TypeID]
		if ok && sp.Role == role {
			n++
		}
	}
	return n
}

// MaxPopulation implements control.StateView.
func (s *State) MaxPopulation(role components.Role) int {
	if role == components.RolePredator {
		return s.profile.Parameters.MaxPredatorBoids
	}
	return s.profile.Parameters.MaxPreyBoids
}

// ObstacleCount implements control.StateView.
func (s *State) ObstacleCount() int { return len(s.obstacles) }
