package system

import (
	"time"

	coresys "github.com/castlehold/arena/internal/core/system"
	"github.com/castlehold/arena/internal/world"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Bullet expiry from the weapon side lands here. Phase 6 (Cleanup).
type CleanupSystem struct {
	world *world.State
}

func NewCleanupSystem(ws *world.State) *CleanupSystem {
	return &CleanupSystem{world: ws}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.world.FlushDestroyed()
}

// OutputSystem delivers the tick's notifications to subscribers. Phase 5 (Output).
type OutputSystem struct {
	world *world.State
}

func NewOutputSystem(ws *world.State) *OutputSystem {
	return &OutputSystem{world: ws}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	s.world.Bus().Flush()
}

// ClockSystem advances the in-play clock. Phase 0 (Input).
type ClockSystem struct {
	world *world.State
}

func NewClockSystem(ws *world.State) *ClockSystem {
	return &ClockSystem{world: ws}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *ClockSystem) Update(dt time.Duration) {
	s.world.Advance(dt)
}
