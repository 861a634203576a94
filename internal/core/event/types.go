package event

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/castlehold/arena/internal/core/ecs"
)

// Resolution records. Emitted by the collision engine into a Queue and
// consumed by lifecycle in the same tick.

// EnemyContact is raised once per enemy inside the player's contact radius,
// every refresh tick it stays there.
type EnemyContact struct {
	Enemy ecs.EntityID
}

// CastleContact is raised once per enemy inside the castle's contact radius
// per refresh tick.
type CastleContact struct {
	Enemy ecs.EntityID
}

// GoldPickup is raised exactly once per gold item collected. The item is
// already gone by the time the record is drained.
type GoldPickup struct {
	Gold  ecs.EntityID
	Value float32
}

// Notifications published on the Bus.

type BulletHit struct {
	Bullet ecs.EntityID
	Enemy  ecs.EntityID
	Damage float32
}

type EnemyKilled struct {
	Enemy ecs.EntityID
	Pos   mgl32.Vec2
}

type LootDropped struct {
	Gold  ecs.EntityID
	Pos   mgl32.Vec2
	Value float32
}

type EnemiesSpawned struct {
	Count int
	Live  int
}
