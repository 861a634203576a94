package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/castlehold/arena/internal/core/ecs"
	"github.com/castlehold/arena/internal/core/event"
	coresys "github.com/castlehold/arena/internal/core/system"
	"github.com/castlehold/arena/internal/scripting"
	"github.com/castlehold/arena/internal/world"
)

// ResolveSystem drains the collision engine's records into player health,
// castle health, and the currency ledger. It runs every frame; on frames
// without a collision pass the queue is simply empty. Phase 3 (Resolve).
type ResolveSystem struct {
	world   *world.State
	queue   *event.Queue
	damage  float32
	scripts *scripting.Engine

	playerDmg float32
	castleDmg float32
}

func NewResolveSystem(ws *world.State, queue *event.Queue, contactDamage float32, scripts *scripting.Engine) *ResolveSystem {
	return &ResolveSystem{world: ws, queue: queue, damage: contactDamage, scripts: scripts}
}

func (s *ResolveSystem) Phase() coresys.Phase { return coresys.PhaseResolve }

func (s *ResolveSystem) Update(_ time.Duration) {
	if s.queue.Len() == 0 {
		return
	}
	elapsed := s.world.Elapsed().Seconds()
	s.playerDmg = s.scripts.ContactDamage(scripting.DamageContext{Elapsed: elapsed, Base: s.damage, Target: "player"})
	s.castleDmg = s.scripts.ContactDamage(scripting.DamageContext{Elapsed: elapsed, Base: s.damage, Target: "castle"})
	s.queue.Drain(s)
}

func (s *ResolveSystem) OnEnemyContact(event.EnemyContact) {
	id, ok := s.world.Player()
	if !ok {
		return
	}
	if h, ok := s.world.Health(id); ok {
		h.Damage(s.playerDmg)
	}
}

func (s *ResolveSystem) OnCastleContact(event.CastleContact) {
	id, ok := s.world.Castle()
	if !ok {
		return
	}
	if h, ok := s.world.Health(id); ok {
		h.Damage(s.castleDmg)
	}
}

func (s *ResolveSystem) OnGoldPickup(ev event.GoldPickup) {
	s.world.Ledger().Credit(ev.Value)
}

// DeathSweepSystem turns every depleted enemy into one gold item at its last
// position. Runs every frame, so a kill is noticed at most a frame after the
// hit that caused it. Phase 4 (PostUpdate).
type DeathSweepSystem struct {
	world     *world.State
	goldValue float32
	dead      []corpse
}

type corpse struct {
	id  ecs.EntityID
	pos mgl32.Vec2
}

func NewDeathSweepSystem(ws *world.State, goldValue float32) *DeathSweepSystem {
	return &DeathSweepSystem{world: ws, goldValue: goldValue, dead: make([]corpse, 0, 16)}
}

func (s *DeathSweepSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *DeathSweepSystem) Update(_ time.Duration) {
	s.Sweep()
}

// Sweep returns how many enemies it converted to loot.
func (s *DeathSweepSystem) Sweep() int {
	s.dead = s.dead[:0]
	ecs.Each3(s.world.Enemies, s.world.Healths, s.world.Positions,
		func(id ecs.EntityID, _ *world.Enemy, h *world.Health, pos *mgl32.Vec2) {
			if h.Depleted() {
				s.dead = append(s.dead, corpse{id: id, pos: *pos})
			}
		})

	bus := s.world.Bus()
	n := 0
	for _, c := range s.dead {
		if !s.world.Despawn(c.id) {
			continue
		}
		gold := s.world.SpawnGold(c.pos, s.goldValue)
		event.Emit(bus, event.EnemyKilled{Enemy: c.id, Pos: c.pos})
		event.Emit(bus, event.LootDropped{Gold: gold, Pos: c.pos, Value: s.goldValue})
		n++
	}
	return n
}

// GameOverSystem watches castle and player health and ends play. The castle
// falling is always terminal; the player going down is terminal unless the
// rules say otherwise, in which case it is only logged. Phase 4 (PostUpdate).
type GameOverSystem struct {
	world          *world.State
	playerTerminal bool
	log            *zap.Logger
	reported       bool
}

func NewGameOverSystem(ws *world.State, playerTerminal bool, log *zap.Logger) *GameOverSystem {
	return &GameOverSystem{world: ws, playerTerminal: playerTerminal, log: log}
}

func (s *GameOverSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *GameOverSystem) Update(_ time.Duration) {
	if id, ok := s.world.Castle(); ok {
		if h, ok := s.world.Health(id); ok && h.Depleted() {
			s.world.SetMode(world.ModeDefeated, world.CauseCastleFallen)
			return
		}
	}

	id, ok := s.world.Player()
	if !ok {
		return
	}
	h, ok := s.world.Health(id)
	if !ok || !h.Depleted() {
		s.reported = false
		return
	}
	if s.playerTerminal {
		s.world.SetMode(world.ModeDefeated, world.CausePlayerDown)
		return
	}
	if !s.reported {
		s.log.Info("player health depleted", zap.Float32("health", h.Raw()))
		s.reported = true
	}
}
