package system

import (
	"time"

	"github.com/tilemud/server/internal/component"
	"github.com/tilemud/server/internal/core/ecs"
	coresys "github.com/tilemud/server/internal/core/system"
	"github.com/tilemud/server/internal/world"
)

// SpatialReindexSystem refreshes the spatial index each tick: the dynamic
// population is cleared and re-added from current positions, and the static
// population is rebuilt only if something invalidated it. Phase 2
// (PostUpdate) so movement from this tick is what gets indexed.
type SpatialReindexSystem struct {
	state *world.State
}

func NewSpatialReindexSystem(state *world.State) *SpatialReindexSystem {
	return &SpatialReindexSystem{state: state}
}

func (s *SpatialReindexSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SpatialReindexSystem) Update(_ time.Duration) {
	spatial := s.state.Spatial()
	spatial.ClearDynamic()
	ecs.Each2(s.state.Positions(), s.state.Dynamics(),
		func(id ecs.EntityID, pos *component.Position, _ *component.Dynamic) {
			spatial.AddDynamic(id, pos.MapID, pos.X, pos.Y)
		})
	s.state.IndexStatic()
}
