package engine

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/config"
	"github.com/RegiByte/emergent-boids-sub003/systems"
)

func toR2Vec(v systems.Vec2) r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

func (s *State) obstacleViews() []systems.ObstacleView {
	views := make([]systems.ObstacleView, len(s.obstacles))
	for i, o := range s.obstacles {
		views[i] = systems.ObstacleView{Position: systems.Vec2{X: o.Position.X, Y: o.Position.Y}, Radius: o.Radius}
	}
	return views
}

func (s *State) markerViews() []systems.MarkerView {
	views := make([]systems.MarkerView, len(s.markers))
	for i, m := range s.markers {
		views[i] = systems.MarkerView{Position: systems.Vec2{X: m.Position.X, Y: m.Position.Y}, Strength: m.Strength}
	}
	return views
}

// nearestFood finds the nearest food source compatible with self's role,
// within perception radius. Ties (equal distance) favor the
// lowest-indexed source, a deterministic but otherwise unspecified
// tie-break since food sources carry no natural ordering in the spec.
func (s *State) nearestFood(self systems.AgentView, sp config.Species) *systems.FoodView {
	var best *systems.FoodView
	var bestDistSq float64
	w, h := s.profile.World.Width, s.profile.World.Height
	perception := s.profile.Parameters.PerceptionRadius

	for i := range s.foodSources {
		f := &s.foodSources[i]
		wantType := components.FoodSourcePrey
		if sp.Role == components.RolePredator {
			wantType = components.FoodSourcePredator
		}
		if f.SourceType != wantType {
			continue
		}
		dx, dy := systems.ToroidalDelta(self.Position.X, self.Position.Y, f.Position.X, f.Position.Y, w, h)
		distSq := dx*dx + dy*dy
		if distSq > perception*perception {
			continue
		}
		if best == nil || distSq < bestDistSq {
			best = &systems.FoodView{ID: f.ID, Position: systems.Vec2{X: f.Position.X, Y: f.Position.Y}, DistSq: distSq, SourceType: f.SourceType}
			bestDistSq = distSq
		}
	}
	return best
}

// tickMarkers decrements every death marker's remaining lifetime and
// removes those that have expired, per spec §4.7.
func (s *State) tickMarkers() {
	kept := s.markers[:0]
	for _, m := range s.markers {
		m.RemainingTicks--
		if m.RemainingTicks > 0 {
			kept = append(kept, m)
		}
	}
	s.markers = kept
}
