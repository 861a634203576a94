package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/castlehold/arena/internal/core/ecs"
	"github.com/castlehold/arena/internal/core/event"
	coresys "github.com/castlehold/arena/internal/core/system"
	"github.com/castlehold/arena/internal/spatial"
	"github.com/castlehold/arena/internal/world"
)

// Radii are the interaction distances the collision engine queries with.
type Radii struct {
	Bullet      float32 // bullet ↔ enemy
	PlayerEnemy float32 // player ↔ enemy contact
	PlayerGold  float32 // player ↔ gold pickup
	CastleEnemy float32 // castle ↔ enemy contact
}

// CollisionSystem rebuilds the enemy and gold indexes and resolves every
// interacting pair against them. Registered on the refresh cadence, so
// queries may see positions up to one interval old. Phase 2 (Collision).
//
// Per run, strictly in order:
//  1. rebuild both indexes from current positions
//  2. bullet ↔ enemy: nearest live enemy takes the damage, bullet despawns
//  3. player ↔ enemy: one EnemyContact per enemy in range
//  4. player ↔ gold: gold despawns, one GoldPickup per item
//  5. castle ↔ enemy: one CastleContact per enemy in range
type CollisionSystem struct {
	world *world.State
	queue *event.Queue
	radii Radii
	log   *zap.Logger

	enemies *spatial.Index
	gold    *spatial.Index
	scratch []spatial.Point
}

func NewCollisionSystem(ws *world.State, queue *event.Queue, radii Radii, log *zap.Logger) *CollisionSystem {
	return &CollisionSystem{
		world:   ws,
		queue:   queue,
		radii:   radii,
		log:     log,
		scratch: make([]spatial.Point, 0, 128),
	}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

func (s *CollisionSystem) Update(_ time.Duration) {
	s.Rebuild()
	hits := s.resolveBullets()
	contacts := s.resolvePlayerContacts()
	pickups := s.resolvePickups()
	sieges := s.resolveCastleContacts()

	if hits+contacts+pickups+sieges > 0 {
		s.log.Debug("collision pass",
			zap.Int("enemies", s.enemies.Len()),
			zap.Int("gold", s.gold.Len()),
			zap.Int("bullet_hits", hits),
			zap.Int("player_contacts", contacts),
			zap.Int("pickups", pickups),
			zap.Int("castle_contacts", sieges),
		)
	}
}

// Rebuild replaces both indexes with fresh snapshots of current positions.
func (s *CollisionSystem) Rebuild() {
	s.scratch = collect(s.world.Enemies, s.world.Positions, s.scratch[:0])
	s.enemies = spatial.Build(s.scratch)
	s.scratch = collect(s.world.Golds, s.world.Positions, s.scratch[:0])
	s.gold = spatial.Build(s.scratch)
}

// EnemyIndex returns the snapshot built by the last Rebuild.
func (s *CollisionSystem) EnemyIndex() *spatial.Index { return s.enemies }

func collect[T any](tags *ecs.Store[T], positions *ecs.Store[mgl32.Vec2], buf []spatial.Point) []spatial.Point {
	ecs.Each2(tags, positions, func(id ecs.EntityID, _ *T, pos *mgl32.Vec2) {
		buf = append(buf, spatial.Point{Pos: *pos, ID: id})
	})
	return buf
}

// resolveBullets applies each bullet to at most one enemy. Candidates come
// nearest-first; index entries whose enemy is gone are skipped. Enemies
// already at zero health but not yet swept still absorb bullets.
func (s *CollisionSystem) resolveBullets() int {
	if s.enemies.Len() == 0 || s.world.Bullets.Len() == 0 {
		return 0
	}
	hits := 0
	ecs.Each2(s.world.Bullets, s.world.Positions, func(bid ecs.EntityID, b *world.Bullet, pos *mgl32.Vec2) {
		for _, eid := range s.enemies.QueryNearest(*pos, s.radii.Bullet) {
			if !s.world.Enemies.Has(eid) {
				continue
			}
			h, ok := s.world.Health(eid)
			if !ok {
				continue
			}
			h.Damage(b.Damage)
			event.Emit(s.world.Bus(), event.BulletHit{Bullet: bid, Enemy: eid, Damage: b.Damage})
			s.world.Despawn(bid)
			hits++
			return
		}
	})
	return hits
}

func (s *CollisionSystem) resolvePlayerContacts() int {
	pos, ok := s.world.PlayerPos()
	if !ok || s.enemies.Len() == 0 {
		return 0
	}
	n := 0
	for _, eid := range s.enemies.QueryRadius(pos, s.radii.PlayerEnemy) {
		if !s.world.Enemies.Has(eid) {
			continue
		}
		s.queue.PushEnemyContact(event.EnemyContact{Enemy: eid})
		n++
	}
	return n
}

// resolvePickups despawns gold in the same step that finds it, so an item
// can never be credited twice even if a stale snapshot lists it again.
func (s *CollisionSystem) resolvePickups() int {
	pos, ok := s.world.PlayerPos()
	if !ok || s.gold.Len() == 0 {
		return 0
	}
	n := 0
	for _, gid := range s.gold.QueryRadius(pos, s.radii.PlayerGold) {
		g, ok := s.world.Golds.Get(gid)
		if !ok {
			continue
		}
		value := g.Value
		if !s.world.Despawn(gid) {
			continue
		}
		s.queue.PushGoldPickup(event.GoldPickup{Gold: gid, Value: value})
		n++
	}
	return n
}

func (s *CollisionSystem) resolveCastleContacts() int {
	pos, ok := s.world.CastlePos()
	if !ok || s.enemies.Len() == 0 {
		return 0
	}
	n := 0
	for _, eid := range s.enemies.QueryRadius(pos, s.radii.CastleEnemy) {
		if !s.world.Enemies.Has(eid) {
			continue
		}
		s.queue.PushCastleContact(event.CastleContact{Enemy: eid})
		n++
	}
	return n
}
