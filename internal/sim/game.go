// Package sim assembles the arena core into a steppable Game and is the only
// surface external collaborators (input, weapon, renderer, UI, menu) touch.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/castlehold/arena/internal/config"
	"github.com/castlehold/arena/internal/core/ecs"
	"github.com/castlehold/arena/internal/core/event"
	coresys "github.com/castlehold/arena/internal/core/system"
	"github.com/castlehold/arena/internal/data"
	"github.com/castlehold/arena/internal/scripting"
	"github.com/castlehold/arena/internal/system"
	"github.com/castlehold/arena/internal/world"
)

// ErrNotInMenu is returned by Start while a session is running or has not
// been torn down yet.
var ErrNotInMenu = errors.New("game is not in menu mode")

// Driver feeds collaborator input into the game once per frame, before the
// frame is simulated.
type Driver interface {
	Drive(g *Game, dt time.Duration)
}

type Option func(*options)

type options struct {
	log        *zap.Logger
	rng        system.Rand
	archetypes *data.ArchetypeTable
	scripts    *scripting.Engine
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithRand replaces the spawn randomness. Default is a PCG seeded from the
// runtime.
func WithRand(rng system.Rand) Option {
	return func(o *options) { o.rng = rng }
}

func WithArchetypes(t *data.ArchetypeTable) Option {
	return func(o *options) { o.archetypes = t }
}

// WithScripts installs Lua tuning hooks. The Game takes ownership and
// closes the engine in Close.
func WithScripts(e *scripting.Engine) Option {
	return func(o *options) { o.scripts = e }
}

// Game owns one arena: world state, the event plumbing, and the phased
// runner. Every exported method takes the game lock, so the whole tick,
// including the five-step collision pass, is one exclusive section.
type Game struct {
	mu sync.Mutex

	cfg     *config.Config
	runID   string
	log     *zap.Logger
	scripts *scripting.Engine

	bus       *event.Bus
	queue     *event.Queue
	state     *world.State
	runner    *coresys.Runner
	collision *system.CollisionSystem

	frames uint64
}

func New(cfg *config.Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.archetypes == nil {
		o.archetypes = data.DefaultArchetypes()
	}

	runID := uuid.NewString()
	log := o.log.With(zap.String("run", runID))

	g := &Game{
		cfg:     cfg,
		runID:   runID,
		log:     log,
		scripts: o.scripts,
		bus:     event.NewBus(),
		queue:   event.NewQueue(),
		runner:  coresys.NewRunner(),
	}
	g.state = world.NewState(g.bus, log)
	g.collision = system.NewCollisionSystem(g.state, g.queue, system.Radii{
		Bullet:      cfg.Combat.BulletRadius,
		PlayerEnemy: cfg.Combat.PlayerEnemyRadius,
		PlayerGold:  cfg.Combat.PlayerGoldRadius,
		CastleEnemy: cfg.Combat.CastleEnemyRadius,
	}, log)

	r := g.runner
	r.Register(system.NewClockSystem(g.state))
	r.Register(system.NewMovementSystem(g.state, cfg.Simulation.EnemySpeed))
	r.Register(g.collision, coresys.Every(cfg.Simulation.RefreshInterval))
	r.Register(system.NewResolveSystem(g.state, g.queue, cfg.Combat.ContactDamage, o.scripts))
	r.Register(system.NewDeathSweepSystem(g.state, cfg.Economy.GoldValue))
	r.Register(system.NewGameOverSystem(g.state, cfg.Rules.PlayerDeathTerminal, log))
	r.Register(system.NewSpawnSystem(g.state, system.SpawnConfig{
		MaxEnemies:  cfg.Population.MaxEnemies,
		Batch:       cfg.Population.SpawnBatch,
		MinDistance: cfg.Population.SpawnMinDst,
		MaxDistance: cfg.Population.SpawnMaxDst,
		EnemyHealth: cfg.Health.Enemy,
	}, o.rng, o.archetypes, o.scripts, log), coresys.Every(cfg.Simulation.SpawnInterval))
	r.Register(system.NewOutputSystem(g.state), coresys.Ungated())
	r.Register(system.NewCleanupSystem(g.state), coresys.Ungated())
	r.SetGate(g.state.InProgress)

	return g, nil
}

func (g *Game) RunID() string { return g.runID }

// Start creates the player and castle and enters play.
func (g *Game) Start(playerPos, castlePos mgl32.Vec2) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Mode() != world.ModeMenu {
		return ErrNotInMenu
	}
	g.state.SpawnPlayer(playerPos, g.cfg.Health.Player)
	g.state.SpawnCastle(castlePos, g.cfg.Health.Castle)
	g.queue.Reset()
	g.runner.Reset()
	g.state.SetMode(world.ModeInProgress, world.CauseNone)
	return nil
}

// Step simulates one frame.
func (g *Game) Step(dt time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.runner.Tick(dt)
	g.frames++
}

// Frames returns how many steps have run.
func (g *Game) Frames() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.frames
}

// Run steps the game on the configured frame rate until the context ends or
// play is lost. Losing play is a normal exit and returns nil.
func (g *Game) Run(ctx context.Context, d Driver) error {
	dt := g.cfg.Simulation.FrameRate
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if d != nil {
				d.Drive(g, dt)
			}
			g.Step(dt)
			if g.Defeated() {
				return nil
			}
		}
	}
}

// Do runs fn against the world state under the game lock.
func (g *Game) Do(fn func(*world.State)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.state)
}

// FireBullet places a bullet carrying the configured damage. Bullets can
// only be fired during play.
func (g *Game) FireBullet(pos mgl32.Vec2) (ecs.EntityID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.state.InProgress() {
		return 0, false
	}
	return g.state.SpawnBullet(pos, g.cfg.Combat.BulletDamage), true
}

// MoveBullet repositions a bullet. Reports false once the bullet is gone.
func (g *Game) MoveBullet(id ecs.EntityID, pos mgl32.Vec2) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.state.Bullets.Has(id) {
		return false
	}
	return g.state.SetPosition(id, pos)
}

// ExpireBullet schedules a bullet for removal at the end of the frame.
func (g *Game) ExpireBullet(id ecs.EntityID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Bullets.Has(id) {
		g.state.MarkForDestruction(id)
	}
}

// MovePlayer offsets the player by delta.
func (g *Game) MovePlayer(delta mgl32.Vec2) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.state.Player()
	if !ok || !g.state.InProgress() {
		return false
	}
	pos, _ := g.state.Position(id)
	return g.state.SetPosition(id, pos.Add(delta))
}

func (g *Game) PlayerPos() (mgl32.Vec2, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.PlayerPos()
}

// NearestEnemy looks up the closest enemy within radius using the last
// collision snapshot, then reports that enemy's current position.
func (g *Game) NearestEnemy(from mgl32.Vec2, radius float32) (mgl32.Vec2, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range g.collision.EnemyIndex().QueryNearest(from, radius) {
		if pos, ok := g.state.Position(id); ok && g.state.Enemies.Has(id) {
			return pos, true
		}
	}
	return mgl32.Vec2{}, false
}

// Alive is the renderer's per-entity liveness predicate.
func (g *Game) Alive(id ecs.EntityID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.state.Alive(id) {
		return false
	}
	if h, ok := g.state.Health(id); ok {
		return !h.Depleted()
	}
	return true
}

// Each hands renderers a View of every entity.
func (g *Game) Each(fn func(world.View)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Each(fn)
}

func (g *Game) Snapshot() world.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Snapshot()
}

func (g *Game) Mode() world.Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Mode()
}

// Defeated is the signal the mode layer watches to leave play.
func (g *Game) Defeated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Defeated()
}

// Teardown destroys every entity and returns to the menu, then delivers the
// notifications still pending, ending with the final ModeChanged.
func (g *Game) Teardown() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue.Reset()
	n := g.state.Teardown()
	g.bus.Flush()
	return n
}

// Close releases the scripting engine.
func (g *Game) Close() {
	g.scripts.Close()
}

// Subscribe registers fn for notifications of type T (event.EnemyKilled,
// event.LootDropped, event.BulletHit, event.EnemiesSpawned,
// world.ModeChanged). Handlers run on the simulation goroutine with the
// game lock held and must not call back into the Game. Subscribing from
// another goroutine waits for the current tick to finish.
func Subscribe[T any](g *Game, fn func(T)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	event.Subscribe(g.bus, fn)
}
