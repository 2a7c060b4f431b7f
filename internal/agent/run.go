package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lpsim/lpsim-go/internal/game"
	"github.com/lpsim/lpsim-go/internal/game/rules"
)

// DefaultMaxSteps bounds the number of responses Run submits.
const DefaultMaxSteps = 5000

// ErrStepLimit is returned when a match does not end within the step
// ceiling.
var ErrStepLimit = errors.New("match did not end within the step limit")

// Result summarizes a finished match.
type Result struct {
	MatchID string
	Winner  int
	Rounds  int
	Steps   int
}

type runOptions struct {
	maxSteps int
	recorder *game.ReplayRecorder
	logger   *zap.Logger
}

// Option configures Run.
type Option func(*runOptions)

// WithMaxSteps overrides DefaultMaxSteps.
func WithMaxSteps(n int) Option {
	return func(o *runOptions) { o.maxSteps = n }
}

// WithRecorder captures a replay frame after the start and after every
// response. The replay is saved when the match ends.
func WithRecorder(rr *game.ReplayRecorder) Option {
	return func(o *runOptions) { o.recorder = rr }
}

// WithLogger sets the logger of the run loop.
func WithLogger(logger *zap.Logger) Option {
	return func(o *runOptions) { o.logger = logger }
}

// Run starts m if needed and lets agents answer its requests until it
// ends. The context is checked between responses.
func Run(ctx context.Context, m *game.Match, agents [2]Agent, opts ...Option) (*Result, error) {
	o := runOptions{maxSteps: DefaultMaxSteps}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	logger := o.logger.With(zap.String("match_id", m.ID))

	if o.recorder != nil {
		o.recorder.StartRecording(m.ID)
	}
	if m.State() == rules.StateDecksSet {
		if err := m.Start(); err != nil {
			return nil, fmt.Errorf("start match: %w", err)
		}
	}
	if err := capture(o.recorder, m); err != nil {
		return nil, err
	}

	steps := 0
	for !m.IsGameEnd() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.Err(); err != nil {
			return nil, err
		}
		reqs := m.Requests()
		if len(reqs) == 0 {
			return nil, fmt.Errorf("match %s in state %s has no requests", m.ID, m.State())
		}
		if steps >= o.maxSteps {
			return nil, fmt.Errorf("match %s after %d steps: %w", m.ID, steps, ErrStepLimit)
		}
		player := reqs[0].PlayerIndex()
		resp, err := agents[player].Respond(ctx, m, player)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", agents[player].Name(), err)
		}
		if err := m.Respond(resp); err != nil {
			return nil, fmt.Errorf("agent %s response %s: %w", agents[player].Name(), resp.Request().Type(), err)
		}
		steps++
		if err := capture(o.recorder, m); err != nil {
			return nil, err
		}
	}

	if o.recorder != nil {
		if err := o.recorder.SaveReplay(m.ID); err != nil {
			logger.Warn("failed to save replay", zap.Error(err))
		}
	}
	logger.Info("match finished",
		zap.Int("winner", m.Winner()),
		zap.Int("rounds", m.Round()),
		zap.Int("steps", steps))
	return &Result{MatchID: m.ID, Winner: m.Winner(), Rounds: m.Round(), Steps: steps}, nil
}

func capture(rr *game.ReplayRecorder, m *game.Match) error {
	if rr == nil {
		return nil
	}
	if err := rr.Capture(m); err != nil {
		return fmt.Errorf("capture replay: %w", err)
	}
	return nil
}
