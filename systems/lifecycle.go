package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/config"
)

// Lifecycle tuning constants not carried in the profile schema — spec.md
// names these as engine-level constants rather than per-profile knobs.
const (
	PreyFoodSpawnIntervalTicks = 150
	PreyFoodSpawnCount         = 3
	MaxPreyFoodSources         = 60
	MaxPredatorFoodSources     = 40
	DeathMarkerConsolidationRadius = 100.0
	DeathMarkerBaseLifetimeTicks   = 600
	FoodConsumptionRate           = 8.0 // energy/sec while eating
)

// LifecycleAgent is the lifecycle manager's view of one agent: enough to
// decide aging, death, reproduction eligibility, and food consumption
// without depending on ECS storage.
type LifecycleAgent struct {
	ID                   components.AgentID
	TypeID               string
	Role                 components.Role
	Position             Vec2
	Stance               components.Stance
	Energy               float64
	Age                  float64
	ReproductionCooldown int
	EatingCooldown       int
	MateID               components.AgentID
	HasMate              bool
	MatingBuildupCounter int
	IsDead               bool
}

// DeathEvent records why and when an agent died.
type DeathEvent struct {
	AgentID components.AgentID
	TypeID  string
	Reason  components.DeathReason
	Position Vec2
}

// ReproductionEvent records a completed mating or asexual trigger, before
// offspring are actually spawned (offspring positions/ids are assigned
// when boidsToAdd is applied).
type ReproductionEvent struct {
	Parent1ID      components.AgentID
	Parent2ID      components.AgentID // zero if asexual
	TypeID         string
	OffspringCount int
	Position       Vec2
}

// OffspringIntent is one offspring to spawn, subject to population caps.
type OffspringIntent struct {
	TypeID   string
	Position Vec2
	Energy   float64
}

// FoodDelta describes a food source add/update/remove produced this pass.
type FoodDelta struct {
	Add    *components.FoodSource
	Update *FoodUpdate
	Remove uint32 // food source id, zero value means "no remove"
}

type FoodUpdate struct {
	ID        uint32
	NewEnergy float64
}

// MarkerDelta is a death marker to add or strengthen.
type MarkerDelta struct {
	Position Vec2
	Strength float64
	TypeID   string
}

// Changes is the lifecycle manager's pure output: every mutation the
// executor must apply, in the order spec §4.7 requires (dispatch deaths →
// remove dead → add offspring respecting caps → global cull → food
// updates → death-marker updates).
type Changes struct {
	Deaths         []DeathEvent
	Reproductions  []ReproductionEvent
	Offspring      []OffspringIntent
	FoodDeltas     []FoodDelta
	MarkerDeltas   []MarkerDelta
	EnergyUpdates  map[components.AgentID]float64
	AgeUpdates     map[components.AgentID]float64
	CooldownUpdates map[components.AgentID]int
}

// LifecycleInput bundles everything ComputeLifecycle needs for one pass.
type LifecycleInput struct {
	Agents      []LifecycleAgent
	Species     map[string]config.Species
	Params      config.Parameters
	FoodSources []components.FoodSource
	DeltaSeconds float64
	Frame       uint64
	FoodEaters  map[uint32][]components.AgentID // food source id -> agents consuming it this pass

	// WorldWidth/WorldHeight bound periodic food spawn placement; Rng
	// supplies the draws (spawn domain, per randsrc's domain split). Both
	// are required whenever a periodic spawn is due (spec §4.7); a nil Rng
	// simply skips spawning that pass rather than placing food at the
	// origin.
	WorldWidth, WorldHeight float64
	Rng                     Wanderer
}

// ComputeLifecycle runs the pure processing stage of spec §4.7 and returns
// an unapplied Changes batch. It never mutates its inputs.
func ComputeLifecycle(in LifecycleInput) Changes {
	ch := Changes{
		EnergyUpdates:   make(map[components.AgentID]float64),
		AgeUpdates:      make(map[components.AgentID]float64),
		CooldownUpdates: make(map[components.AgentID]int),
	}

	dead := make(map[components.AgentID]bool)

	for _, a := range in.Agents {
		if a.IsDead {
			continue
		}
		sp, ok := in.Species[a.TypeID]
		if !ok {
			continue
		}

		age := a.Age + in.DeltaSeconds
		ch.AgeUpdates[a.ID] = age

		if sp.Lifecycle.MaxAge > 0 && age >= sp.Lifecycle.MaxAge {
			ch.Deaths = append(ch.Deaths, DeathEvent{AgentID: a.ID, TypeID: a.TypeID, Reason: components.DeathReasonOldAge, Position: a.Position})
			dead[a.ID] = true
			continue
		}

		energy := a.Energy
		if a.Role == components.RolePredator {
			energy -= sp.Lifecycle.EnergyLossRate * in.DeltaSeconds
			if energy <= 0 {
				ch.Deaths = append(ch.Deaths, DeathEvent{AgentID: a.ID, TypeID: a.TypeID, Reason: components.DeathReasonStarvation, Position: a.Position})
				dead[a.ID] = true
				continue
			}
		} else {
			energy += sp.Lifecycle.EnergyGainRate * in.DeltaSeconds
			if energy > sp.Lifecycle.MaxEnergy {
				energy = sp.Lifecycle.MaxEnergy
			}
			if energy <= 0 {
				ch.Deaths = append(ch.Deaths, DeathEvent{AgentID: a.ID, TypeID: a.TypeID, Reason: components.DeathReasonStarvation, Position: a.Position})
				dead[a.ID] = true
				continue
			}
		}
		ch.EnergyUpdates[a.ID] = energy

		if a.ReproductionCooldown > 0 {
			ch.CooldownUpdates[a.ID] = a.ReproductionCooldown - 1
		}
	}

	processReproduction(in, &ch, dead)
	processFoodConsumption(in, &ch)
	processPeriodicFoodSpawn(in, &ch)
	processDeathMarkers(in, &ch, dead)

	return ch
}

func processReproduction(in LifecycleInput, ch *Changes, dead map[components.AgentID]bool) {
	byID := make(map[components.AgentID]LifecycleAgent, len(in.Agents))
	for _, a := range in.Agents {
		byID[a.ID] = a
	}

	handledPairs := make(map[[2]components.AgentID]bool)

	for _, a := range in.Agents {
		if a.IsDead || dead[a.ID] {
			continue
		}
		sp, ok := in.Species[a.TypeID]
		if !ok {
			continue
		}

		if sp.Reproduction.Type == config.ReproductionAsexual {
			if a.Role == components.RolePredator && a.Energy >= sp.Lifecycle.MaxEnergy && a.ReproductionCooldown == 0 {
				ch.Reproductions = append(ch.Reproductions, ReproductionEvent{
					Parent1ID:      a.ID,
					TypeID:         a.TypeID,
					OffspringCount: sp.Reproduction.OffspringCount,
					Position:       a.Position,
				})
				ch.Offspring = append(ch.Offspring, spawnOffspring(sp, a.Position, a.Position)...)
				ch.EnergyUpdates[a.ID] = sp.Lifecycle.MaxEnergy * 0.5
				ch.CooldownUpdates[a.ID] = sp.Reproduction.CooldownTicks
			}
			continue
		}

		if a.Stance != components.StanceMating || !a.HasMate {
			continue
		}
		if a.MatingBuildupCounter < in.Params.MatingBuildupTicks-1 {
			// completed only the tick the buildup counter reaches the
			// configured threshold; stance.go clears HasMate the same
			// tick it completes, so watch for that transition here via
			// the mate still being set at buildup-1.
			continue
		}

		pair := orderedPair(a.ID, a.MateID)
		if handledPairs[pair] {
			continue
		}
		mate, ok := byID[a.MateID]
		if !ok || mate.IsDead || dead[mate.ID] {
			continue
		}
		handledPairs[pair] = true

		mid := Vec2{X: (a.Position.X + mate.Position.X) / 2, Y: (a.Position.Y + mate.Position.Y) / 2}
		ch.Reproductions = append(ch.Reproductions, ReproductionEvent{
			Parent1ID:      a.ID,
			Parent2ID:      mate.ID,
			TypeID:         a.TypeID,
			OffspringCount: sp.Reproduction.OffspringCount,
			Position:       mid,
		})
		ch.Offspring = append(ch.Offspring, spawnOffspring(sp, mid, mid)...)

		energyCost := sp.Lifecycle.MaxEnergy * 0.3
		ch.EnergyUpdates[a.ID] = maxf(a.Energy-energyCost, 0)
		ch.EnergyUpdates[mate.ID] = maxf(mate.Energy-energyCost, 0)
		ch.CooldownUpdates[a.ID] = sp.Reproduction.CooldownTicks
		ch.CooldownUpdates[mate.ID] = sp.Reproduction.CooldownTicks
	}
}

func spawnOffspring(sp config.Species, p1, p2 Vec2) []OffspringIntent {
	mid := Vec2{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
	count := sp.Reproduction.OffspringCount
	if count < 1 {
		count = 1
	}
	intents := make([]OffspringIntent, 0, count)
	for i := 0; i < count; i++ {
		intents = append(intents, OffspringIntent{
			TypeID:   sp.ID,
			Position: mid,
			Energy:   sp.Lifecycle.MaxEnergy * sp.Reproduction.OffspringEnergyBonus,
		})
	}
	return intents
}

func orderedPair(a, b components.AgentID) [2]components.AgentID {
	if a < b {
		return [2]components.AgentID{a, b}
	}
	return [2]components.AgentID{b, a}
}

func processFoodConsumption(in LifecycleInput, ch *Changes) {
	maxEnergy := make(map[components.AgentID]float64, len(in.Agents))
	for _, a := range in.Agents {
		maxEnergy[a.ID] = in.Species[a.TypeID].Lifecycle.MaxEnergy
	}
	for foodID, eaters := range in.FoodEaters {
		if len(eaters) == 0 {
			continue
		}
		var food *components.FoodSource
		for i := range in.FoodSources {
			if in.FoodSources[i].ID == foodID {
				food = &in.FoodSources[i]
				break
			}
		}
		if food == nil {
			continue
		}

		perAgent := (FoodConsumptionRate * in.DeltaSeconds) / float64(len(eaters))
		consumed := perAgent * float64(len(eaters))
		if consumed > food.Energy {
			consumed = food.Energy
			perAgent = consumed / float64(len(eaters))
		}

		// EnergyUpdates holds absolute energies (the executor assigns them),
		// so each eater's share is added to the value computed this pass.
		for _, agentID := range eaters {
			cur, ok := ch.EnergyUpdates[agentID]
			if !ok {
				continue // died this pass, or not a live agent
			}
			ch.EnergyUpdates[agentID] = clampFloat(cur+perAgent, 0, maxEnergy[agentID])
		}

		newEnergy := food.Energy - consumed
		if newEnergy <= 0 {
			ch.FoodDeltas = append(ch.FoodDeltas, FoodDelta{Remove: food.ID})
		} else {
			ch.FoodDeltas = append(ch.FoodDeltas, FoodDelta{Update: &FoodUpdate{ID: food.ID, NewEnergy: newEnergy}})
		}
	}
}

func processPeriodicFoodSpawn(in LifecycleInput, ch *Changes) {
	if in.Frame == 0 || in.Frame%PreyFoodSpawnIntervalTicks != 0 {
		return
	}
	if in.Rng == nil || in.WorldWidth <= 0 || in.WorldHeight <= 0 {
		return
	}
	existing := 0
	for _, f := range in.FoodSources {
		if f.SourceType == components.FoodSourcePrey {
			existing++
		}
	}
	if existing >= MaxPreyFoodSources {
		return
	}
	toSpawn := PreyFoodSpawnCount
	if existing+toSpawn > MaxPreyFoodSources {
		toSpawn = MaxPreyFoodSources - existing
	}
	for i := 0; i < toSpawn; i++ {
		pos := r2.Vec{X: in.Rng.Range(0, in.WorldWidth), Y: in.Rng.Range(0, in.WorldHeight)}
		ch.FoodDeltas = append(ch.FoodDeltas, FoodDelta{Add: &components.FoodSource{
			Position:    pos,
			SourceType:  components.FoodSourcePrey,
			MaxEnergy:   50,
			Energy:      50,
			CreatedTick: in.Frame,
		}})
	}
}

func processDeathMarkers(in LifecycleInput, ch *Changes, dead map[components.AgentID]bool) {
	for _, d := range ch.Deaths {
		if d.Reason == components.DeathReasonPredation {
			continue
		}
		ch.MarkerDeltas = append(ch.MarkerDeltas, MarkerDelta{
			Position: d.Position,
			Strength: 1,
			TypeID:   d.TypeID,
		})
	}
}
