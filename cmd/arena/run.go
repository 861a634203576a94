package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/castlehold/arena/internal/config"
	"github.com/castlehold/arena/internal/core/event"
	"github.com/castlehold/arena/internal/data"
	"github.com/castlehold/arena/internal/scripting"
	"github.com/castlehold/arena/internal/sim"
	"github.com/castlehold/arena/internal/weapon"
	"github.com/castlehold/arena/internal/world"
)

var (
	runDuration time.Duration
	runSeed     uint64
	runProfile  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one arena session until the castle falls or the duration ends",
	RunE:  runArena,
}

func init() {
	runCmd.Flags().DurationVar(&runDuration, "duration", 0, "stop after this long (0 = until defeat or signal)")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "spawn RNG seed (0 = random)")
	runCmd.Flags().StringVar(&runProfile, "profile", "", "write a pprof profile: cpu or mem")
}

func runArena(cmd *cobra.Command, _ []string) error {
	switch runProfile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile %q (want cpu or mem)", runProfile)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	game, err := newGame(cfg, log)
	if err != nil {
		return err
	}
	defer game.Close()

	kills := 0
	sim.Subscribe(game, func(event.EnemyKilled) { kills++ })
	sim.Subscribe(game, func(ev world.ModeChanged) {
		if ev.To == world.ModeDefeated {
			log.Warn("arena lost", zap.Stringer("cause", ev.Cause))
		}
	})

	if err := game.Start(mgl32.Vec2{}, mgl32.Vec2{}); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	log.Info("arena started",
		zap.String("run", game.RunID()),
		zap.Duration("frame", cfg.Simulation.FrameRate),
		zap.Duration("refresh", cfg.Simulation.RefreshInterval),
		zap.Int("max_enemies", cfg.Population.MaxEnemies),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if runDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runDuration)
		defer cancel()
	}

	gun := weapon.NewAutopilot(cfg.Weapon, log)
	err = game.Run(ctx, gun)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	snap := game.Snapshot()
	fired, expired := gun.Stats()
	log.Info("arena finished",
		zap.Stringer("mode", snap.Mode),
		zap.Stringer("cause", snap.Cause),
		zap.Duration("elapsed", snap.Elapsed),
		zap.Uint64("frames", game.Frames()),
		zap.Int("enemies", snap.Enemies),
		zap.Int("kills", kills),
		zap.Float32("currency", snap.Currency),
		zap.Float32("player_health", snap.PlayerHealth),
		zap.Float32("castle_health", snap.CastleHealth),
		zap.Int("bullets_fired", fired),
		zap.Int("bullets_expired", expired),
	)
	game.Teardown()
	return nil
}

// closeScripts releases an engine the game never took ownership of.
var closeScripts = (*scripting.Engine).Close

func newGame(cfg *config.Config, log *zap.Logger) (*sim.Game, error) {
	opts, scripts, err := gameOptions(cfg, log)
	if err != nil {
		return nil, err
	}
	game, err := sim.New(cfg, opts...)
	if err != nil {
		closeScripts(scripts)
		return nil, err
	}
	return game, nil
}

// gameOptions loads the optional data table and Lua hooks named in cfg.
func gameOptions(cfg *config.Config, log *zap.Logger) ([]sim.Option, *scripting.Engine, error) {
	opts := []sim.Option{sim.WithLogger(log)}

	if cfg.Data.ArchetypesPath != "" {
		table, err := data.LoadArchetypes(cfg.Data.ArchetypesPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("archetypes loaded", zap.Int("count", table.Count()))
		opts = append(opts, sim.WithArchetypes(table))
	}
	var engine *scripting.Engine
	if cfg.Data.ScriptsDir != "" {
		e, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
		if err != nil {
			return nil, nil, err
		}
		engine = e
		opts = append(opts, sim.WithScripts(engine))
	}
	if runSeed != 0 {
		opts = append(opts, sim.WithRand(rand.New(rand.NewPCG(runSeed, runSeed))))
	}
	return opts, engine, nil
}
