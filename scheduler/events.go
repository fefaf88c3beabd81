package scheduler

import (
	"github.com/RegiByte/emergent-boids-sub003/components"
	"github.com/RegiByte/emergent-boids-sub003/control"
	"github.com/RegiByte/emergent-boids-sub003/engine"
	"github.com/RegiByte/emergent-boids-sub003/systems"
)

// dispatchLifecycleEvents converts one lifecycle pass's output into
// control-plane events, so external listeners observe deaths and
// reproductions through the same outbound stream as everything else.
func (s *Scheduler) dispatchLifecycleEvents(events engine.TickEvents) {
	for _, d := range events.Deaths {
		s.bus.Dispatch(control.Event{
			Kind:   control.EventBoidsDied,
			BoidID: d.AgentID,
			Reason: d.Reason,
		})
	}
	for _, r := range events.Reproductions {
		s.bus.Dispatch(control.Event{
			Kind:           control.EventBoidsReproduced,
			ParentID:       r.Parent1ID,
			Parent2ID:      r.Parent2ID,
			OffspringCount: r.OffspringCount,
		})
	}
}

func (s *Scheduler) dispatchCatchEvents(catches []systems.Catch) {
	for _, c := range catches {
		s.bus.Dispatch(control.Event{
			Kind:          control.EventBoidsCaught,
			PredatorID:    c.PredatorID,
			PreyID:        c.PreyID,
			PreyTypeID:    c.PreyTypeID,
			PreyEnergy:    c.PreyEnergy,
			PreyPositionX: c.PreyPosition.X,
			PreyPositionY: c.PreyPosition.Y,
		})
		s.bus.Dispatch(control.Event{
			Kind:   control.EventBoidsDied,
			BoidID: c.PreyID,
			Reason: components.DeathReasonPredation,
		})
	}
}
