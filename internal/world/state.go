package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/castlehold/arena/internal/core/ecs"
	"github.com/castlehold/arena/internal/core/event"
)

// State owns every entity of one arena session together with the health,
// currency, and mode values derived from them. It is the only thing that
// creates or destroys entities; systems ask it to.
// Accessed only from the simulation goroutine, so no locks.
type State struct {
	ecs *ecs.World
	bus *event.Bus
	log *zap.Logger

	Kinds     *ecs.Store[Kind]
	Positions *ecs.Store[mgl32.Vec2]
	Healths   *ecs.Store[Health]
	Enemies   *ecs.Store[Enemy]
	Bullets   *ecs.Store[Bullet]
	Golds     *ecs.Store[Gold]

	player ecs.EntityID
	castle ecs.EntityID
	ledger Ledger

	mode    Mode
	cause   Cause
	elapsed time.Duration
}

func NewState(bus *event.Bus, log *zap.Logger) *State {
	s := &State{
		ecs:       ecs.NewWorld(),
		bus:       bus,
		log:       log,
		Kinds:     ecs.NewStore[Kind](),
		Positions: ecs.NewStore[mgl32.Vec2](),
		Healths:   ecs.NewStore[Health](),
		Enemies:   ecs.NewStore[Enemy](),
		Bullets:   ecs.NewStore[Bullet](),
		Golds:     ecs.NewStore[Gold](),
	}
	s.ecs.Track(s.Kinds, s.Positions, s.Healths, s.Enemies, s.Bullets, s.Golds)
	return s
}

func (s *State) spawn(kind Kind, pos mgl32.Vec2) ecs.EntityID {
	id := s.ecs.CreateEntity()
	k := kind
	s.Kinds.Set(id, &k)
	p := pos
	s.Positions.Set(id, &p)
	return id
}

// SpawnPlayer creates the player. There is at most one; a second call
// returns the existing handle unchanged.
func (s *State) SpawnPlayer(pos mgl32.Vec2, hp float32) ecs.EntityID {
	if s.Alive(s.player) {
		return s.player
	}
	s.player = s.spawn(KindPlayer, pos)
	h := NewHealth(hp)
	s.Healths.Set(s.player, &h)
	return s.player
}

// SpawnCastle creates the castle, at most once.
func (s *State) SpawnCastle(pos mgl32.Vec2, hp float32) ecs.EntityID {
	if s.Alive(s.castle) {
		return s.castle
	}
	s.castle = s.spawn(KindCastle, pos)
	h := NewHealth(hp)
	s.Healths.Set(s.castle, &h)
	return s.castle
}

func (s *State) SpawnEnemy(pos mgl32.Vec2, e Enemy, hp float32) ecs.EntityID {
	id := s.spawn(KindEnemy, pos)
	s.Enemies.Set(id, &e)
	h := NewHealth(hp)
	s.Healths.Set(id, &h)
	return id
}

func (s *State) SpawnBullet(pos mgl32.Vec2, damage float32) ecs.EntityID {
	id := s.spawn(KindBullet, pos)
	s.Bullets.Set(id, &Bullet{Damage: damage})
	return id
}

func (s *State) SpawnGold(pos mgl32.Vec2, value float32) ecs.EntityID {
	id := s.spawn(KindGold, pos)
	s.Golds.Set(id, &Gold{Value: value})
	return id
}

// Despawn destroys id immediately. Stale handles report false.
func (s *State) Despawn(id ecs.EntityID) bool {
	return s.ecs.Destroy(id)
}

// MarkForDestruction defers destroying id to the cleanup phase.
func (s *State) MarkForDestruction(id ecs.EntityID) {
	s.ecs.MarkForDestruction(id)
}

// FlushDestroyed runs the deferred destruction queue.
func (s *State) FlushDestroyed() int {
	return s.ecs.FlushDestroyQueue()
}

func (s *State) Alive(id ecs.EntityID) bool {
	return !id.IsZero() && s.ecs.Alive(id)
}

func (s *State) KindOf(id ecs.EntityID) (Kind, bool) {
	k, ok := s.Kinds.Get(id)
	if !ok {
		return 0, false
	}
	return *k, true
}

func (s *State) Position(id ecs.EntityID) (mgl32.Vec2, bool) {
	p, ok := s.Positions.Get(id)
	if !ok {
		return mgl32.Vec2{}, false
	}
	return *p, true
}

// SetPosition moves a live entity. Unknown handles are ignored.
func (s *State) SetPosition(id ecs.EntityID, pos mgl32.Vec2) bool {
	p, ok := s.Positions.Get(id)
	if !ok {
		return false
	}
	*p = pos
	return true
}

func (s *State) Health(id ecs.EntityID) (*Health, bool) {
	return s.Healths.Get(id)
}

// Player returns the player handle if the player currently exists.
func (s *State) Player() (ecs.EntityID, bool) {
	return s.player, s.Alive(s.player)
}

// Castle returns the castle handle if the castle currently exists.
func (s *State) Castle() (ecs.EntityID, bool) {
	return s.castle, s.Alive(s.castle)
}

func (s *State) PlayerPos() (mgl32.Vec2, bool) {
	if !s.Alive(s.player) {
		return mgl32.Vec2{}, false
	}
	return s.Position(s.player)
}

func (s *State) CastlePos() (mgl32.Vec2, bool) {
	if !s.Alive(s.castle) {
		return mgl32.Vec2{}, false
	}
	return s.Position(s.castle)
}

func (s *State) Ledger() *Ledger { return &s.ledger }

func (s *State) EnemyCount() int { return s.Enemies.Len() }
func (s *State) GoldCount() int  { return s.Golds.Len() }

func (s *State) Bus() *event.Bus  { return s.bus }
func (s *State) Log() *zap.Logger { return s.log }

func (s *State) Mode() Mode   { return s.mode }
func (s *State) Cause() Cause { return s.cause }

// InProgress gates every core system.
func (s *State) InProgress() bool { return s.mode == ModeInProgress }

func (s *State) Defeated() bool { return s.mode == ModeDefeated }

// SetMode moves the game to m and publishes ModeChanged. No-op if already there.
func (s *State) SetMode(m Mode, cause Cause) {
	if s.mode == m {
		return
	}
	from := s.mode
	s.mode = m
	s.cause = cause
	s.log.Info("mode changed",
		zap.Stringer("from", from),
		zap.Stringer("to", m),
		zap.Stringer("cause", cause),
		zap.Duration("elapsed", s.elapsed),
	)
	event.Emit(s.bus, ModeChanged{From: from, To: m, Cause: cause})
}

// Advance adds dt to the in-play clock.
func (s *State) Advance(dt time.Duration) { s.elapsed += dt }

func (s *State) Elapsed() time.Duration { return s.elapsed }

// Each hands a View of every entity to fn. Order is unspecified.
func (s *State) Each(fn func(View)) {
	s.Kinds.Each(func(id ecs.EntityID, k *Kind) {
		v := View{ID: id, Kind: *k, Alive: true}
		if p, ok := s.Positions.Get(id); ok {
			v.Pos = *p
		}
		if h, ok := s.Healths.Get(id); ok {
			v.Alive = !h.Depleted()
		}
		if e, ok := s.Enemies.Get(id); ok {
			v.Archetype = e.Archetype
			v.Sprite = e.Sprite
		}
		fn(v)
	})
}

// Teardown destroys every entity, resets the ledger and clock, and returns
// to the menu. It is the unwind path after defeat.
func (s *State) Teardown() int {
	n := 0
	for _, id := range s.Kinds.IDs() {
		if s.ecs.Destroy(id) {
			n++
		}
	}
	s.ecs.FlushDestroyQueue()
	s.player, s.castle = 0, 0
	s.ledger = Ledger{}
	s.elapsed = 0
	s.SetMode(ModeMenu, s.cause)
	s.log.Info("arena torn down", zap.Int("entities", n))
	return n
}
