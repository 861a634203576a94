package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/castlehold/arena/internal/core/ecs"
	"github.com/castlehold/arena/internal/core/event"
	"github.com/castlehold/arena/internal/world"
)

var testRadii = Radii{Bullet: 25, PlayerEnemy: 40, PlayerGold: 60, CastleEnemy: 60}

type CollisionTestSuite struct {
	suite.Suite
	bus       *event.Bus
	queue     *event.Queue
	world     *world.State
	collision *CollisionSystem
	resolve   *ResolveSystem
	sweep     *DeathSweepSystem
}

func (s *CollisionTestSuite) SetupTest() {
	s.bus = event.NewBus()
	s.queue = event.NewQueue()
	s.world = world.NewState(s.bus, zap.NewNop())
	s.collision = NewCollisionSystem(s.world, s.queue, testRadii, zap.NewNop())
	s.resolve = NewResolveSystem(s.world, s.queue, 1, nil)
	s.sweep = NewDeathSweepSystem(s.world, 1)
}

func (s *CollisionTestSuite) enemy(x, y, hp float32) ecs.EntityID {
	return s.world.SpawnEnemy(mgl32.Vec2{x, y}, world.Enemy{Behavior: world.SeeksPlayer}, hp)
}

func (s *CollisionTestSuite) hp(id ecs.EntityID) float32 {
	h, ok := s.world.Health(id)
	s.Require().True(ok)
	return h.Raw()
}

func (s *CollisionTestSuite) TestBulletKillDropsGold() {
	e := s.enemy(0, 0, 10)
	b := s.world.SpawnBullet(mgl32.Vec2{0, 0}, 15)

	var hits []event.BulletHit
	event.Subscribe(s.bus, func(ev event.BulletHit) { hits = append(hits, ev) })

	s.collision.Update(0)
	s.False(s.world.Alive(b), "bullet is consumed on hit")
	s.Equal(float32(-5), s.hp(e))
	s.True(s.world.Alive(e), "death waits for the sweep")

	s.Equal(1, s.sweep.Sweep())
	s.False(s.world.Alive(e))
	s.Equal(0, s.world.EnemyCount())
	s.Equal(1, s.world.GoldCount())
	s.world.Golds.Each(func(id ecs.EntityID, g *world.Gold) {
		pos, _ := s.world.Position(id)
		s.Equal(mgl32.Vec2{0, 0}, pos)
		s.Equal(float32(1), g.Value)
	})

	s.bus.Flush()
	s.Equal([]event.BulletHit{{Bullet: b, Enemy: e, Damage: 15}}, hits)
}

func (s *CollisionTestSuite) TestBulletHitsOnlyNearestEnemy() {
	far := s.enemy(20, 0, 100)
	near := s.enemy(5, 0, 100)
	mid := s.enemy(0, 10, 100)
	s.world.SpawnBullet(mgl32.Vec2{0, 0}, 15)

	s.collision.Update(0)
	s.Equal(float32(85), s.hp(near))
	s.Equal(float32(100), s.hp(mid))
	s.Equal(float32(100), s.hp(far))
	s.Equal(0, s.world.Bullets.Len())
}

func (s *CollisionTestSuite) TestDepletedEnemyStillAbsorbsBullets() {
	e := s.enemy(0, 0, 10)
	s.world.SpawnBullet(mgl32.Vec2{1, 0}, 15)
	s.world.SpawnBullet(mgl32.Vec2{-1, 0}, 15)

	s.collision.Update(0)
	s.Equal(float32(-20), s.hp(e))
	s.Equal(0, s.world.Bullets.Len())
	s.Equal(1, s.sweep.Sweep(), "one death, one gold")
	s.Equal(1, s.world.GoldCount())
}

func (s *CollisionTestSuite) TestBulletOutOfRangeSurvives() {
	s.enemy(0, 0, 100)
	b := s.world.SpawnBullet(mgl32.Vec2{30, 0}, 15)
	s.collision.Update(0)
	s.True(s.world.Alive(b))
}

func (s *CollisionTestSuite) TestPlayerContacts() {
	p := s.world.SpawnPlayer(mgl32.Vec2{0, 0}, 100)
	s.enemy(10, 0, 100)
	s.enemy(0, -39, 100)
	s.enemy(40, 0, 100)
	s.enemy(100, 0, 100)

	s.collision.Update(0)
	s.Equal(3, s.queue.Len())
	s.resolve.Update(0)
	s.Equal(float32(97), s.hp(p))
	s.Equal(0, s.queue.Len())

	s.collision.Update(0)
	s.resolve.Update(0)
	s.Equal(float32(94), s.hp(p), "contacts repeat every pass")
}

func (s *CollisionTestSuite) TestGoldPickedUpExactlyOnce() {
	s.world.SpawnPlayer(mgl32.Vec2{0, 0}, 100)
	g := s.world.SpawnGold(mgl32.Vec2{50, 0}, 1)
	s.world.SpawnGold(mgl32.Vec2{200, 0}, 1)

	s.collision.Update(0)
	s.False(s.world.Alive(g), "gold vanishes in the pass that finds it")
	s.Equal(1, s.world.GoldCount())

	s.Equal(0, s.collision.resolvePickups(), "stale snapshot cannot credit twice")
	s.resolve.Update(0)
	s.Equal(float32(1), s.world.Ledger().Total())

	s.collision.Update(0)
	s.resolve.Update(0)
	s.Equal(float32(1), s.world.Ledger().Total())
}

func (s *CollisionTestSuite) TestCastleContacts() {
	s.world.SpawnPlayer(mgl32.Vec2{1000, 1000}, 100)
	c := s.world.SpawnCastle(mgl32.Vec2{0, 0}, 1000)
	s.enemy(0, 0, 100)
	s.enemy(59, 0, 100)
	s.enemy(61, 0, 100)

	s.collision.Update(0)
	s.resolve.Update(0)
	s.Equal(float32(998), s.hp(c))
}

func (s *CollisionTestSuite) TestMissingEntitiesAreSkipped() {
	s.world.SpawnPlayer(mgl32.Vec2{0, 0}, 100)
	e := s.enemy(5, 0, 100)
	s.collision.Rebuild()
	s.Equal(1, s.collision.EnemyIndex().Len())

	s.world.Despawn(e)
	b := s.world.SpawnBullet(mgl32.Vec2{5, 0}, 15)
	s.Equal(0, s.collision.resolveBullets())
	s.True(s.world.Alive(b))
	s.Equal(0, s.collision.resolvePlayerContacts())
	s.Equal(0, s.collision.resolveCastleContacts(), "no castle, no contacts")
}

func (s *CollisionTestSuite) TestNoPlayerNoPlayerWork() {
	s.enemy(0, 0, 100)
	s.world.SpawnGold(mgl32.Vec2{0, 0}, 1)
	s.collision.Update(0)
	s.Equal(0, s.queue.Len())
	s.Equal(1, s.world.GoldCount())
}

func TestCollisionSuite(t *testing.T) {
	suite.Run(t, new(CollisionTestSuite))
}
