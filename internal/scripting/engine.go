package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding optional tuning hooks.
// Single-goroutine access only (simulation loop). Every hook is optional:
// a missing function or a script error falls back to the value the caller
// passes in, so a nil *Engine behaves exactly like the configured constants.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir.
// A missing directory yields an engine with no hooks.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// SpawnContext is what spawn_batch sees.
type SpawnContext struct {
	Elapsed float64 // seconds in play
	Live    int
	Max     int
	Batch   int // configured batch size
}

// SpawnBatch calls the Lua spawn_batch(ctx) hook. The result is only a
// request: the population controller still clamps it to the free capacity.
func (e *Engine) SpawnBatch(ctx SpawnContext) int {
	if e == nil {
		return ctx.Batch
	}
	fn := e.vm.GetGlobal("spawn_batch")
	if fn.Type() != lua.LTFunction {
		return ctx.Batch
	}

	t := e.vm.NewTable()
	t.RawSetString("elapsed", lua.LNumber(ctx.Elapsed))
	t.RawSetString("live", lua.LNumber(ctx.Live))
	t.RawSetString("max", lua.LNumber(ctx.Max))
	t.RawSetString("batch", lua.LNumber(ctx.Batch))

	ret, ok := e.call("spawn_batch", fn, t)
	if !ok || math.IsNaN(ret) {
		return ctx.Batch
	}
	switch {
	case ret <= 0:
		return 0
	case ret >= math.MaxInt32:
		return math.MaxInt32
	}
	return int(ret)
}

// DamageContext is what contact_damage sees.
type DamageContext struct {
	Elapsed float64 // seconds in play
	Base    float32 // configured contact damage
	Target  string  // "player" or "castle"
}

// ContactDamage calls the Lua contact_damage(ctx) hook.
func (e *Engine) ContactDamage(ctx DamageContext) float32 {
	if e == nil {
		return ctx.Base
	}
	fn := e.vm.GetGlobal("contact_damage")
	if fn.Type() != lua.LTFunction {
		return ctx.Base
	}

	t := e.vm.NewTable()
	t.RawSetString("elapsed", lua.LNumber(ctx.Elapsed))
	t.RawSetString("base", lua.LNumber(ctx.Base))
	t.RawSetString("target", lua.LString(ctx.Target))

	ret, ok := e.call("contact_damage", fn, t)
	if !ok || !(ret >= 0) || math.IsInf(ret, 1) {
		return ctx.Base
	}
	return float32(ret)
}

// call runs fn(arg) in protected mode and expects one number back.
func (e *Engine) call(name string, fn lua.LValue, arg lua.LValue) (float64, bool) {
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		e.log.Error("lua hook error", zap.String("hook", name), zap.Error(err))
		return 0, false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua hook returned non-number",
			zap.String("hook", name),
			zap.String("type", result.Type().String()),
		)
		return 0, false
	}
	return float64(n), true
}

// Close releases the VM. Safe on a nil engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.vm.Close()
}
