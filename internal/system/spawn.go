package system

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/castlehold/arena/internal/core/event"
	coresys "github.com/castlehold/arena/internal/core/system"
	"github.com/castlehold/arena/internal/data"
	"github.com/castlehold/arena/internal/scripting"
	"github.com/castlehold/arena/internal/world"
)

//go:generate mockgen -destination=mock/mock_rand.go -package=systemmock github.com/castlehold/arena/internal/system Rand

// Rand is the randomness the population controller draws on.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float32() float32
	IntN(n int) int
}

type SpawnConfig struct {
	MaxEnemies  int
	Batch       int
	MinDistance float32
	MaxDistance float32
	EnemyHealth float32
}

// SpawnSystem tops the enemy population up toward the cap on its own
// cadence, placing newcomers on a ring around the player so they arrive
// from off-screen. Phase 4 (PostUpdate).
type SpawnSystem struct {
	world      *world.State
	cfg        SpawnConfig
	rng        Rand
	archetypes *data.ArchetypeTable
	scripts    *scripting.Engine
	log        *zap.Logger
}

func NewSpawnSystem(ws *world.State, cfg SpawnConfig, rng Rand, archetypes *data.ArchetypeTable, scripts *scripting.Engine, log *zap.Logger) *SpawnSystem {
	return &SpawnSystem{
		world:      ws,
		cfg:        cfg,
		rng:        rng,
		archetypes: archetypes,
		scripts:    scripts,
		log:        log,
	}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SpawnSystem) Update(_ time.Duration) {
	s.Spawn()
}

// Spawn runs one top-up and returns how many enemies it created.
func (s *SpawnSystem) Spawn() int {
	center, ok := s.world.PlayerPos()
	if !ok {
		return 0
	}
	live := s.world.EnemyCount()
	if live >= s.cfg.MaxEnemies {
		return 0
	}
	batch := s.scripts.SpawnBatch(scripting.SpawnContext{
		Elapsed: s.world.Elapsed().Seconds(),
		Live:    live,
		Max:     s.cfg.MaxEnemies,
		Batch:   s.cfg.Batch,
	})
	n := min(s.cfg.MaxEnemies-live, batch)

	for range n {
		behavior := world.Behaviors[s.rng.IntN(len(world.Behaviors))]
		arch := s.archetypes.Pick(s.rng.IntN(s.archetypes.TotalWeight()))
		hp := s.cfg.EnemyHealth
		if arch.Health > 0 {
			hp = arch.Health
		}
		s.world.SpawnEnemy(s.around(center), world.Enemy{
			Behavior:  behavior,
			Archetype: arch.Name,
			Sprite:    arch.Sprite,
		}, hp)
	}

	if n > 0 {
		live += n
		event.Emit(s.world.Bus(), event.EnemiesSpawned{Count: n, Live: live})
		s.log.Debug("enemies spawned", zap.Int("count", n), zap.Int("live", live))
	}
	return n
}

// around picks a uniform angle and a uniform distance in the spawn band.
func (s *SpawnSystem) around(center mgl32.Vec2) mgl32.Vec2 {
	angle := float64(s.rng.Float32()) * 2 * math.Pi
	dist := s.cfg.MinDistance + s.rng.Float32()*(s.cfg.MaxDistance-s.cfg.MinDistance)
	return center.Add(mgl32.Vec2{
		float32(math.Cos(angle)) * dist,
		float32(math.Sin(angle)) * dist,
	})
}
