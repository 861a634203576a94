package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Population PopulationConfig `toml:"population"`
	Combat     CombatConfig     `toml:"combat"`
	Health     HealthConfig     `toml:"health"`
	Economy    EconomyConfig    `toml:"economy"`
	Rules      RulesConfig      `toml:"rules"`
	Weapon     WeaponConfig     `toml:"weapon"`
	Data       DataConfig       `toml:"data"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	FrameRate       time.Duration `toml:"frame_rate"`       // one simulation step per frame
	RefreshInterval time.Duration `toml:"refresh_interval"` // spatial index rebuild + collision cadence
	SpawnInterval   time.Duration `toml:"spawn_interval"`
	EnemySpeed      float32       `toml:"enemy_speed"` // units per frame
}

type PopulationConfig struct {
	MaxEnemies  int     `toml:"max_enemies"`
	SpawnBatch  int     `toml:"spawn_batch"`
	SpawnMinDst float32 `toml:"spawn_min_distance"`
	SpawnMaxDst float32 `toml:"spawn_max_distance"`
}

type CombatConfig struct {
	BulletDamage      float32 `toml:"bullet_damage"`
	ContactDamage     float32 `toml:"contact_damage"` // enemy→player and enemy→castle
	BulletRadius      float32 `toml:"bullet_radius"`
	PlayerEnemyRadius float32 `toml:"player_enemy_radius"`
	PlayerGoldRadius  float32 `toml:"player_gold_radius"`
	CastleEnemyRadius float32 `toml:"castle_enemy_radius"`
}

type HealthConfig struct {
	Enemy  float32 `toml:"enemy"`
	Player float32 `toml:"player"`
	Castle float32 `toml:"castle"`
}

type EconomyConfig struct {
	GoldValue float32 `toml:"gold_value"`
}

type RulesConfig struct {
	PlayerDeathTerminal bool `toml:"player_death_terminal"`
}

// WeaponConfig tunes the reference weapon collaborator used by the headless
// driver. The simulation core itself only sees the bullets it fires.
type WeaponConfig struct {
	FireInterval time.Duration `toml:"fire_interval"`
	BulletSpeed  float32       `toml:"bullet_speed"` // units per frame
	Lifetime     time.Duration `toml:"lifetime"`
	Range        float32       `toml:"range"` // autopilot only fires at enemies this close
}

type DataConfig struct {
	ArchetypesPath string `toml:"archetypes_path"` // empty = built-in table
	ScriptsDir     string `toml:"scripts_dir"`     // empty = no Lua hooks
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in tuning.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			FrameRate:       time.Second / 60,
			RefreshInterval: 100 * time.Millisecond,
			SpawnInterval:   time.Second,
			EnemySpeed:      1.0,
		},
		Population: PopulationConfig{
			MaxEnemies:  100,
			SpawnBatch:  10,
			SpawnMinDst: 1000,
			SpawnMaxDst: 5000,
		},
		Combat: CombatConfig{
			BulletDamage:      15,
			ContactDamage:     1,
			BulletRadius:      25,
			PlayerEnemyRadius: 40,
			PlayerGoldRadius:  60,
			CastleEnemyRadius: 60,
		},
		Health: HealthConfig{
			Enemy:  100,
			Player: 100,
			Castle: 1000,
		},
		Economy: EconomyConfig{
			GoldValue: 1,
		},
		Rules: RulesConfig{
			PlayerDeathTerminal: true,
		},
		Weapon: WeaponConfig{
			FireInterval: 100 * time.Millisecond,
			BulletSpeed:  10,
			Lifetime:     time.Second,
			Range:        600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate rejects tunings the simulation cannot run with.
func (c *Config) Validate() error {
	checks := []struct {
		ok    bool
		field string
	}{
		{c.Simulation.FrameRate > 0, "simulation.frame_rate"},
		{c.Simulation.RefreshInterval > 0, "simulation.refresh_interval"},
		{c.Simulation.SpawnInterval > 0, "simulation.spawn_interval"},
		{c.Simulation.EnemySpeed >= 0, "simulation.enemy_speed"},
		{c.Population.MaxEnemies >= 0, "population.max_enemies"},
		{c.Population.SpawnBatch >= 0, "population.spawn_batch"},
		{c.Population.SpawnMinDst >= 0, "population.spawn_min_distance"},
		{c.Population.SpawnMaxDst >= c.Population.SpawnMinDst, "population.spawn_max_distance"},
		{c.Combat.BulletDamage >= 0, "combat.bullet_damage"},
		{c.Combat.ContactDamage >= 0, "combat.contact_damage"},
		{c.Combat.BulletRadius > 0, "combat.bullet_radius"},
		{c.Combat.PlayerEnemyRadius > 0, "combat.player_enemy_radius"},
		{c.Combat.PlayerGoldRadius > 0, "combat.player_gold_radius"},
		{c.Combat.CastleEnemyRadius > 0, "combat.castle_enemy_radius"},
		{c.Health.Enemy > 0, "health.enemy"},
		{c.Health.Player > 0, "health.player"},
		{c.Health.Castle > 0, "health.castle"},
		{c.Economy.GoldValue >= 0, "economy.gold_value"},
		{c.Weapon.FireInterval > 0, "weapon.fire_interval"},
		{c.Weapon.Lifetime > 0, "weapon.lifetime"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrInvalid, chk.field)
		}
	}
	return nil
}
