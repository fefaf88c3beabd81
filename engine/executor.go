package engine

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/config"
	"github.com/RegiByte/emergent-boids-sub003/control"
)

// Executor adapts *State to control.Executor: the sole mutator of engine
// state, applying exactly the effects its bound Bus hands it. Every
// branch either fully succeeds or leaves state untouched (spec §7).
type Executor struct {
	state    *State
	profiles map[string]*config.Profile
}

// NewExecutor wraps a State as a control.Executor. The state's own active
// profile is pre-registered under its own id, so a profile.switched event
// targeting it always resolves even before RegisterProfile is called.
func NewExecutor(s *State) *Executor {
	e := &Executor{state: s, profiles: make(map[string]*config.Profile)}
	if s.profile != nil {
		e.profiles[s.profile.ID] = s.profile
	}
	return e
}

// RegisterProfile makes a loaded profile resolvable by id for a future
// profile.switched event. The engine has no filesystem access, so the
// caller (cmd/simctl, or whichever component owns the profile registry)
// is responsible for loading profiles from disk and registering them.
func (e *Executor) RegisterProfile(p *config.Profile) {
	e.profiles[p.ID] = p
}

// Execute applies one effect. Unknown kinds are a programming error, same
// reasoning as control.Handle's default branch: the closed set is
// enforced at construction time.
func (e *Executor) Execute(eff control.Effect) error {
	s := e.state
	switch eff.Kind {
	case control.EffectStateUpdate:
		return e.applyPartialState(eff.PartialState)

	case control.EffectEngineAddBoid:
		var sp config.Species
		var ok bool
		if eff.Boid.TypeID != "" {
			sp, ok = s.profile.Species[eff.Boid.TypeID]
		}
		if !ok {
			sp, ok = s.speciesForRole(eff.Boid.Role)
		}
		if !ok {
			return fmt.Errorf("engine: addBoid: no species for role/typeId %v/%q", eff.Boid.Role, eff.Boid.TypeID)
		}
		if s.PopulationCount(sp.Role) >= s.MaxPopulation(sp.Role) {
			s.log.Debug("engine: addBoid skipped, population cap reached", "role", sp.Role)
			return nil
		}
		energy := eff.Boid.Energy
		if energy == 0 {
			energy = sp.Lifecycle.MaxEnergy * 0.6
		}
		s.spawnAgent(sp, r2.Vec{X: eff.Boid.X, Y: eff.Boid.Y}, energy)
		return nil

	case control.EffectEngineRemoveBoid:
		s.removeAgent(eff.BoidID)
		return nil

	case control.EffectProfileLoad:
		p, ok := e.profiles[eff.ProfileID]
		if !ok {
			return fmt.Errorf("engine: profile.load: unknown profile id %q (register it with Executor.RegisterProfile first)", eff.ProfileID)
		}
		s.LoadProfile(p)
		e.profiles[p.ID] = p
		return nil

	case control.EffectTimerSchedule, control.EffectTimerCancel:
		// Timer effects are accepted and ignored: neither the executor nor
		// the scheduler keeps timers, so OnExpire is never dispatched.
		return nil

	default:
		return fmt.Errorf("engine: unhandled effect kind %v", eff.Kind)
	}
}

func (e *Executor) applyPartialState(partial map[string]any) error {
	s := e.state
	for key, value := range partial {
		switch key {
		case "obstacleAdd":
			o, ok := value.(components.Obstacle)
			if !ok {
				continue
			}
			o.ID = s.nextObstacleID
			s.nextObstacleID++
			s.obstacles = append(s.obstacles, o)

		case "obstacleRemoveIndex":
			idx, ok := value.(int)
			if !ok || idx < 0 || idx >= len(s.obstacles) {
				continue
			}
			s.obstacles = append(s.obstacles[:idx], s.obstacles[idx+1:]...)

		case "obstaclesClear":
			s.obstacles = nil

		case "foodSourceCreate":
			f, ok := value.(components.FoodSource)
			if !ok {
				continue
			}
			f.ID = s.nextFoodID
			s.nextFoodID++
			f.CreatedTick = s.frame
			s.foodSources = append(s.foodSources, f)

		default:
			// Config-tuning keys (perceptionRadius, typeId field changes,
			// analytics filters, etc.) are observational-only for the
			// core engine; external collaborators (renderer, analytics)
			// read them off the outbound event stream instead.
		}
	}
	return nil
}

// speciesForRole returns the first species (by sorted id) matching role,
// used when an effect specifies a role but not a concrete typeId (e.g.
// boids.spawnPredator).
func (s *State) speciesForRole(role components.Role) (config.Species, bool) {
	ids := s.profile.SpeciesByRole(role)
	if len(ids) == 0 {
		return config.Species{}, false
	}
	return s.profile.Species[ids[0]], true
}
