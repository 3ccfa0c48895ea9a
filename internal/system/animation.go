package system

import (
	"time"

	"github.com/tilemud/server/internal/component"
	"github.com/tilemud/server/internal/core/ecs"
	coresys "github.com/tilemud/server/internal/core/system"
	"github.com/tilemud/server/internal/world"
)

// AnimationSystem advances every animation state by the tick delta. States
// are mutated in place through the store's pointers, so no write-back step
// is needed. Phase 1 (Update).
type AnimationSystem struct {
	registry *world.AnimationRegistry
	states   *ecs.PtrComponentStore[component.AnimationState]
}

func NewAnimationSystem(registry *world.AnimationRegistry, states *ecs.PtrComponentStore[component.AnimationState]) *AnimationSystem {
	return &AnimationSystem{registry: registry, states: states}
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *AnimationSystem) Update(dt time.Duration) {
	s.states.Each(func(_ ecs.EntityID, state *component.AnimationState) {
		s.registry.Advance(state, dt)
	})
}
