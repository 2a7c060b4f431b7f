package game

import (
	"errors"
	"fmt"
)

// MatchConfig holds the tunable rules of a match.
type MatchConfig struct {
	Version            string `json:"version"`
	MaxRoundNumber     int    `json:"max_round_number"`
	InitialHandSize    int    `json:"initial_hand_size"`
	InitialDiceNumber  int    `json:"initial_dice_number"`
	RoundEndDrawNumber int    `json:"round_end_draw_number"`
	MaxHandSize        int    `json:"max_hand_size"`
	MaxDiceNumber      int    `json:"max_dice_number"`
	MaxSummonNumber    int    `json:"max_summon_number"`
	MaxSupportNumber   int    `json:"max_support_number"`
	InitialRerollTimes int    `json:"initial_reroll_times"`
	SwitchCost         int    `json:"switch_cost"`
	MaxIterations      int    `json:"max_iterations"`
	HistoryLevel       int    `json:"history_level"`
	RecordHistory      bool   `json:"record_history"`
}

// DefaultMatchConfig returns the standard ruleset.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Version:            "4.0",
		MaxRoundNumber:     15,
		InitialHandSize:    5,
		InitialDiceNumber:  8,
		RoundEndDrawNumber: 2,
		MaxHandSize:        10,
		MaxDiceNumber:      16,
		MaxSummonNumber:    4,
		MaxSupportNumber:   4,
		InitialRerollTimes: 1,
		SwitchCost:         1,
		MaxIterations:      10000,
		HistoryLevel:       RecordCritical,
		RecordHistory:      true,
	}
}

// Validate checks the config for values the engine cannot run with.
func (c MatchConfig) Validate() error {
	var errs []error
	if !IsVersionCompatible(c.Version, c.Version) {
		errs = append(errs, fmt.Errorf("invalid version %q", c.Version))
	}
	if c.MaxRoundNumber <= 0 {
		errs = append(errs, errors.New("max_round_number must be positive"))
	}
	if c.InitialHandSize < 0 || c.RoundEndDrawNumber < 0 || c.InitialDiceNumber < 0 {
		errs = append(errs, errors.New("draw and dice numbers must not be negative"))
	}
	if c.MaxHandSize <= 0 || c.MaxDiceNumber <= 0 {
		errs = append(errs, errors.New("hand and dice limits must be positive"))
	}
	if c.MaxSummonNumber <= 0 || c.MaxSupportNumber <= 0 {
		errs = append(errs, errors.New("summon and support limits must be positive"))
	}
	if c.InitialRerollTimes < 0 || c.SwitchCost < 0 {
		errs = append(errs, errors.New("reroll times and switch cost must not be negative"))
	}
	if c.MaxIterations <= 0 {
		errs = append(errs, errors.New("max_iterations must be positive"))
	}
	return errors.Join(errs...)
}
