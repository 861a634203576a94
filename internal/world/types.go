package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/castlehold/arena/internal/core/ecs"
)

// Kind tags what an entity is.
type Kind uint8

const (
	KindPlayer Kind = iota + 1
	KindCastle
	KindEnemy
	KindBullet
	KindGold
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindCastle:
		return "castle"
	case KindEnemy:
		return "enemy"
	case KindBullet:
		return "bullet"
	case KindGold:
		return "gold"
	}
	return "unknown"
}

// Behavior selects an enemy's steering target. Assigned once at spawn.
type Behavior uint8

const (
	SeeksPlayer Behavior = iota
	SeeksCastle
)

// Behaviors lists every variant; spawners draw uniformly from it.
var Behaviors = [...]Behavior{SeeksPlayer, SeeksCastle}

func (b Behavior) String() string {
	switch b {
	case SeeksPlayer:
		return "seeks-player"
	case SeeksCastle:
		return "seeks-castle"
	}
	return "unknown"
}

// Health is a damage counter. The raw value may go negative; readers see it
// clamped at zero. Crossing zero does nothing by itself: the lifecycle sweep
// is what turns a depleted holder into a death.
type Health struct {
	raw float32
	Max float32
}

func NewHealth(v float32) Health {
	return Health{raw: v, Max: v}
}

func (h *Health) Damage(amount float32) {
	h.raw -= amount
}

// Value returns the remaining health, never below zero.
func (h *Health) Value() float32 {
	return max(h.raw, 0)
}

// Raw returns the unclamped counter.
func (h *Health) Raw() float32 { return h.raw }

func (h *Health) Depleted() bool {
	return h.raw <= 0
}

type Enemy struct {
	Behavior  Behavior
	Archetype string // render-only
	Sprite    int    // render-only base frame
}

type Bullet struct {
	Damage float32
}

type Gold struct {
	Value float32
}

// Ledger is the player's currency counter. It only ever grows.
type Ledger struct {
	total float32
}

func (l *Ledger) Credit(v float32) {
	if v > 0 {
		l.total += v
	}
}

func (l *Ledger) Total() float32 { return l.total }

// View is the read-only per-entity record handed to renderers.
type View struct {
	ID        ecs.EntityID
	Kind      Kind
	Pos       mgl32.Vec2
	Alive     bool
	Archetype string
	Sprite    int
}
