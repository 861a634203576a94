package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/castlehold/arena/internal/core/ecs"
	coresys "github.com/castlehold/arena/internal/core/system"
	"github.com/castlehold/arena/internal/world"
)

// MovementSystem walks every enemy straight at its behaviour target once per
// frame. It reads live positions only, never the spatial index.
// Phase 1 (Movement).
type MovementSystem struct {
	world *world.State
	speed float32
}

func NewMovementSystem(ws *world.State, speed float32) *MovementSystem {
	return &MovementSystem{world: ws, speed: speed}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *MovementSystem) Update(_ time.Duration) {
	playerPos, hasPlayer := s.world.PlayerPos()
	castlePos, hasCastle := s.world.CastlePos()

	ecs.Each2(s.world.Enemies, s.world.Positions, func(_ ecs.EntityID, e *world.Enemy, pos *mgl32.Vec2) {
		var target mgl32.Vec2
		switch e.Behavior {
		case world.SeeksPlayer:
			if !hasPlayer {
				return
			}
			target = playerPos
		case world.SeeksCastle:
			if !hasCastle {
				return
			}
			target = castlePos
		default:
			return
		}
		*pos = pos.Add(Steer(*pos, target).Mul(s.speed))
	})
}

// Steer returns the unit vector from pos toward target. Coincident points
// give the zero vector, so a parked enemy stays put instead of going NaN.
func Steer(pos, target mgl32.Vec2) mgl32.Vec2 {
	d := target.Sub(pos)
	l := d.Len()
	if !(l > 0) {
		return mgl32.Vec2{}
	}
	return d.Mul(1 / l)
}
