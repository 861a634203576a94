// Package weapon is a reference weapon collaborator: it fires bullets into a
// sim.Game, flies them, and expires them after their lifetime. The arena
// core only ever sees bullet positions.
package weapon

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/castlehold/arena/internal/config"
	"github.com/castlehold/arena/internal/core/ecs"
	"github.com/castlehold/arena/internal/sim"
	"github.com/castlehold/arena/internal/system"
)

type round struct {
	dir mgl32.Vec2
	pos mgl32.Vec2
	age time.Duration
}

// Autopilot holds the trigger down and aims at the nearest enemy in range.
// It implements sim.Driver.
type Autopilot struct {
	cfg      config.WeaponConfig
	log      *zap.Logger
	cooldown time.Duration
	rounds   map[ecs.EntityID]*round
	fired    int
	expired  int
}

func NewAutopilot(cfg config.WeaponConfig, log *zap.Logger) *Autopilot {
	return &Autopilot{
		cfg:    cfg,
		log:    log,
		rounds: make(map[ecs.EntityID]*round, 64),
	}
}

func (a *Autopilot) Drive(g *sim.Game, dt time.Duration) {
	a.fly(g, dt)
	a.fire(g, dt)
}

// fly advances every tracked bullet and expires old ones. Bullets the game
// already removed (they hit something) are forgotten.
func (a *Autopilot) fly(g *sim.Game, dt time.Duration) {
	for id, r := range a.rounds {
		r.age += dt
		if r.age > a.cfg.Lifetime {
			g.ExpireBullet(id)
			delete(a.rounds, id)
			a.expired++
			a.log.Debug("bullet expired", zap.Uint64("bullet", uint64(id)), zap.Duration("age", r.age))
			continue
		}
		r.pos = r.pos.Add(r.dir.Mul(a.cfg.BulletSpeed))
		if !g.MoveBullet(id, r.pos) {
			delete(a.rounds, id)
		}
	}
}

func (a *Autopilot) fire(g *sim.Game, dt time.Duration) {
	a.cooldown -= dt
	if a.cooldown > 0 {
		return
	}
	from, ok := g.PlayerPos()
	if !ok {
		return
	}
	target, ok := g.NearestEnemy(from, a.cfg.Range)
	if !ok {
		return
	}
	dir := system.Steer(from, target)
	id, ok := g.FireBullet(from)
	if !ok {
		return
	}
	a.cooldown = a.cfg.FireInterval
	a.rounds[id] = &round{dir: dir, pos: from}
	a.fired++
}

// InFlight returns the number of bullets currently tracked.
func (a *Autopilot) InFlight() int { return len(a.rounds) }

// Stats reports lifetime totals.
func (a *Autopilot) Stats() (fired, expired int) { return a.fired, a.expired }
