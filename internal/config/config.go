// Package config loads runner configuration from a YAML file with LPSIM_
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lpsim/lpsim-go/internal/game"
)

// EnvPrefix prefixes every environment override, e.g.
// LPSIM_MATCH_MAX_ROUND_NUMBER.
const EnvPrefix = "LPSIM"

// Config is the full runner configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Match      MatchConfig      `mapstructure:"match"`
	Tournament TournamentConfig `mapstructure:"tournament"`
	Replay     ReplayConfig     `mapstructure:"replay"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MatchConfig mirrors game.MatchConfig.
type MatchConfig struct {
	Version            string `mapstructure:"version"`
	MaxRoundNumber     int    `mapstructure:"max_round_number"`
	InitialHandSize    int    `mapstructure:"initial_hand_size"`
	InitialDiceNumber  int    `mapstructure:"initial_dice_number"`
	RoundEndDrawNumber int    `mapstructure:"round_end_draw_number"`
	MaxHandSize        int    `mapstructure:"max_hand_size"`
	MaxDiceNumber      int    `mapstructure:"max_dice_number"`
	MaxSummonNumber    int    `mapstructure:"max_summon_number"`
	MaxSupportNumber   int    `mapstructure:"max_support_number"`
	InitialRerollTimes int    `mapstructure:"initial_reroll_times"`
	SwitchCost         int    `mapstructure:"switch_cost"`
	MaxIterations      int    `mapstructure:"max_iterations"`
	HistoryLevel       int    `mapstructure:"history_level"`
	RecordHistory      bool   `mapstructure:"record_history"`
}

// TournamentConfig controls a series of agent matches.
type TournamentConfig struct {
	Rounds      int   `mapstructure:"rounds"`
	Parallelism int   `mapstructure:"parallelism"`
	Seed        int64 `mapstructure:"seed"`
	MaxSteps    int   `mapstructure:"max_steps"`
}

// ReplayConfig controls replay recording.
type ReplayConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

func setDefaults(v *viper.Viper) {
	m := game.DefaultMatchConfig()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("match.version", m.Version)
	v.SetDefault("match.max_round_number", m.MaxRoundNumber)
	v.SetDefault("match.initial_hand_size", m.InitialHandSize)
	v.SetDefault("match.initial_dice_number", m.InitialDiceNumber)
	v.SetDefault("match.round_end_draw_number", m.RoundEndDrawNumber)
	v.SetDefault("match.max_hand_size", m.MaxHandSize)
	v.SetDefault("match.max_dice_number", m.MaxDiceNumber)
	v.SetDefault("match.max_summon_number", m.MaxSummonNumber)
	v.SetDefault("match.max_support_number", m.MaxSupportNumber)
	v.SetDefault("match.initial_reroll_times", m.InitialRerollTimes)
	v.SetDefault("match.switch_cost", m.SwitchCost)
	v.SetDefault("match.max_iterations", m.MaxIterations)
	v.SetDefault("match.history_level", m.HistoryLevel)
	v.SetDefault("match.record_history", m.RecordHistory)

	v.SetDefault("tournament.rounds", 2)
	v.SetDefault("tournament.parallelism", 4)
	v.SetDefault("tournament.seed", 1)
	v.SetDefault("tournament.max_steps", 5000)

	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.directory", "replays")
}

// Load reads path, if not empty, on top of the defaults and applies
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	if err := c.Match.Game().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("match: %w", err))
	}
	if c.Tournament.Rounds <= 0 {
		errs = append(errs, errors.New("tournament.rounds must be positive"))
	}
	if c.Tournament.Parallelism <= 0 {
		errs = append(errs, errors.New("tournament.parallelism must be positive"))
	}
	if c.Replay.Enabled && c.Replay.Directory == "" {
		errs = append(errs, errors.New("replay.directory is required when replays are enabled"))
	}
	return errors.Join(errs...)
}

// Game converts the section to the engine config.
func (c MatchConfig) Game() game.MatchConfig {
	return game.MatchConfig{
		Version:            c.Version,
		MaxRoundNumber:     c.MaxRoundNumber,
		InitialHandSize:    c.InitialHandSize,
		InitialDiceNumber:  c.InitialDiceNumber,
		RoundEndDrawNumber: c.RoundEndDrawNumber,
		MaxHandSize:        c.MaxHandSize,
		MaxDiceNumber:      c.MaxDiceNumber,
		MaxSummonNumber:    c.MaxSummonNumber,
		MaxSupportNumber:   c.MaxSupportNumber,
		InitialRerollTimes: c.InitialRerollTimes,
		SwitchCost:         c.SwitchCost,
		MaxIterations:      c.MaxIterations,
		HistoryLevel:       c.HistoryLevel,
		RecordHistory:      c.RecordHistory,
	}
}
