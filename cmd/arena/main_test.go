package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"

	"github.com/castlehold/arena/internal/config"
	"github.com/castlehold/arena/internal/scripting"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		log, err := newLogger(config.LoggingConfig{Level: "debug", Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, log)
	}

	log, err := newLogger(config.LoggingConfig{Level: "shouty"})
	require.NoError(t, err, "unknown levels fall back to info")
	assert.False(t, log.Core().Enabled(-1))
}

func TestConfigCommandPrintsDefaults(t *testing.T) {
	configPath = ""
	var out bytes.Buffer
	configCmd.SetOut(&out)
	require.NoError(t, configCmd.RunE(configCmd, nil))
	assert.Contains(t, out.String(), "[simulation]")
	assert.Contains(t, out.String(), "max_enemies = 100")
	assert.Contains(t, out.String(), "player_death_terminal = true")
}

func TestNewGameReleasesScriptsOnFailure(t *testing.T) {
	var closed []*scripting.Engine
	orig := closeScripts
	closeScripts = func(e *scripting.Engine) {
		closed = append(closed, e)
		orig(e)
	}
	t.Cleanup(func() { closeScripts = orig })

	cfg := config.Default()
	cfg.Data.ScriptsDir = filepath.Join(t.TempDir(), "scripts")
	cfg.Health.Castle = 0

	game, err := newGame(cfg, zap.NewNop())
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Nil(t, game)
	require.Len(t, closed, 1)
	assert.NotNil(t, closed[0])

	cfg.Health.Castle = 1000
	game, err = newGame(cfg, zap.NewNop())
	require.NoError(t, err)
	game.Close()
	assert.Len(t, closed, 1, "a built game owns its engine")
}
