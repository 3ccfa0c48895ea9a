package system

import (
	"time"

	"github.com/tilemud/server/internal/core/event"
	coresys "github.com/tilemud/server/internal/core/system"
)

// DispatchSystem swaps the event bus buffers and delivers last tick's
// events. Phase 0 (PreUpdate) so every later system sees a stable front
// buffer.
type DispatchSystem struct {
	bus *event.Bus
}

func NewDispatchSystem(bus *event.Bus) *DispatchSystem {
	return &DispatchSystem{bus: bus}
}

func (s *DispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *DispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
