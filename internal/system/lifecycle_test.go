package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/castlehold/arena/internal/core/ecs"
	"github.com/castlehold/arena/internal/core/event"
	"github.com/castlehold/arena/internal/scripting"
	"github.com/castlehold/arena/internal/world"
)

func newWorld() (*world.State, *event.Bus) {
	bus := event.NewBus()
	return world.NewState(bus, zap.NewNop()), bus
}

func TestMovementSystem(t *testing.T) {
	ws, _ := newWorld()
	ws.SpawnPlayer(mgl32.Vec2{10, 0}, 100)
	ws.SpawnCastle(mgl32.Vec2{0, -10}, 1000)
	hunter := ws.SpawnEnemy(mgl32.Vec2{0, 0}, world.Enemy{Behavior: world.SeeksPlayer}, 100)
	siege := ws.SpawnEnemy(mgl32.Vec2{0, 0}, world.Enemy{Behavior: world.SeeksCastle}, 100)
	parked := ws.SpawnEnemy(mgl32.Vec2{0, -10}, world.Enemy{Behavior: world.SeeksCastle}, 100)

	sys := NewMovementSystem(ws, 2)
	sys.Update(0)

	pos, _ := ws.Position(hunter)
	assert.Equal(t, mgl32.Vec2{2, 0}, pos)
	pos, _ = ws.Position(siege)
	assert.Equal(t, mgl32.Vec2{0, -2}, pos)
	pos, _ = ws.Position(parked)
	assert.Equal(t, mgl32.Vec2{0, -10}, pos, "an enemy on its target stays put")
}

func TestMovementWithoutTarget(t *testing.T) {
	ws, _ := newWorld()
	e := ws.SpawnEnemy(mgl32.Vec2{5, 5}, world.Enemy{Behavior: world.SeeksPlayer}, 100)
	NewMovementSystem(ws, 1).Update(0)
	pos, _ := ws.Position(e)
	assert.Equal(t, mgl32.Vec2{5, 5}, pos)
}

func TestDeathSweepConservesKills(t *testing.T) {
	ws, bus := newWorld()
	var killed []event.EnemyKilled
	var dropped []event.LootDropped
	event.Subscribe(bus, func(ev event.EnemyKilled) { killed = append(killed, ev) })
	event.Subscribe(bus, func(ev event.LootDropped) { dropped = append(dropped, ev) })

	var dead []ecs.EntityID
	for i := range 5 {
		id := ws.SpawnEnemy(mgl32.Vec2{float32(i), 0}, world.Enemy{}, 10)
		if i%2 == 0 {
			h, _ := ws.Health(id)
			h.Damage(10 + float32(i))
			dead = append(dead, id)
		}
	}

	sweep := NewDeathSweepSystem(ws, 2)
	assert.Equal(t, 3, sweep.Sweep())
	assert.Equal(t, 2, ws.EnemyCount())
	assert.Equal(t, 3, ws.GoldCount())
	for _, id := range dead {
		assert.False(t, ws.Alive(id))
	}
	assert.Equal(t, 0, sweep.Sweep(), "already swept")

	bus.Flush()
	require.Len(t, killed, 3)
	require.Len(t, dropped, 3)
	for i := range dropped {
		assert.Equal(t, float32(2), dropped[i].Value)
		gold, ok := ws.Golds.Get(dropped[i].Gold)
		require.True(t, ok)
		assert.Equal(t, float32(2), gold.Value)
		pos, _ := ws.Position(dropped[i].Gold)
		assert.Equal(t, dropped[i].Pos, pos)
	}
}

func TestGameOver(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
		player   float32
		castle   float32
		mode     world.Mode
		cause    world.Cause
	}{
		{"both healthy", true, 0, 0, world.ModeInProgress, world.CauseNone},
		{"castle falls", true, 0, 1000, world.ModeDefeated, world.CauseCastleFallen},
		{"player down", true, 100, 0, world.ModeDefeated, world.CausePlayerDown},
		{"player down but not terminal", false, 100, 0, world.ModeInProgress, world.CauseNone},
		{"castle wins ties", true, 100, 1000, world.ModeDefeated, world.CauseCastleFallen},
		{"castle still falls when player death is not terminal", false, 100, 1000, world.ModeDefeated, world.CauseCastleFallen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, _ := newWorld()
			ws.SetMode(world.ModeInProgress, world.CauseNone)
			p := ws.SpawnPlayer(mgl32.Vec2{}, 100)
			c := ws.SpawnCastle(mgl32.Vec2{}, 1000)
			h, _ := ws.Health(p)
			h.Damage(tt.player)
			h, _ = ws.Health(c)
			h.Damage(tt.castle)

			sys := NewGameOverSystem(ws, tt.terminal, zap.NewNop())
			sys.Update(0)
			sys.Update(0)
			assert.Equal(t, tt.mode, ws.Mode())
			assert.Equal(t, tt.cause, ws.Cause())
		})
	}
}

func TestResolveUsesScriptedDamage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "siege.lua"), []byte(`
function contact_damage(ctx)
  if ctx.target == "castle" then return ctx.base * 5 end
  return ctx.base
end
`), 0o644))
	engine, err := scripting.NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer engine.Close()

	ws, _ := newWorld()
	p := ws.SpawnPlayer(mgl32.Vec2{}, 100)
	c := ws.SpawnCastle(mgl32.Vec2{}, 1000)
	q := event.NewQueue()
	q.PushEnemyContact(event.EnemyContact{Enemy: 1})
	q.PushCastleContact(event.CastleContact{Enemy: 1})
	q.PushCastleContact(event.CastleContact{Enemy: 2})
	q.PushGoldPickup(event.GoldPickup{Gold: 3, Value: 1})

	NewResolveSystem(ws, q, 2, engine).Update(0)

	h, _ := ws.Health(p)
	assert.Equal(t, float32(98), h.Value())
	h, _ = ws.Health(c)
	assert.Equal(t, float32(980), h.Value())
	assert.Equal(t, float32(1), ws.Ledger().Total())
	assert.Equal(t, 0, q.Len())
}

func TestNonTerminalPlayerDeathLogsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ws, _ := newWorld()
	ws.SetMode(world.ModeInProgress, world.CauseNone)
	p := ws.SpawnPlayer(mgl32.Vec2{}, 1)
	ws.SpawnCastle(mgl32.Vec2{}, 1000)
	h, _ := ws.Health(p)
	h.Damage(3)

	sys := NewGameOverSystem(ws, false, zap.New(core))
	for range 5 {
		sys.Update(0)
	}
	entries := logs.FilterMessage("player health depleted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, float32(-2), entries[0].ContextMap()["health"])
	assert.True(t, ws.InProgress())
}
