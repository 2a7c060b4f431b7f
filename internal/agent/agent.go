// Package agent holds scripted players and the loop that drives a match
// with them.
package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lpsim/lpsim-go/internal/game"
	"github.com/lpsim/lpsim-go/internal/game/rules"
)

// ErrNoOption is returned when an agent finds nothing it can answer.
var ErrNoOption = errors.New("agent has no answerable request")

// Agent answers the live requests of one player. Respond should give up
// when ctx is done.
type Agent interface {
	Name() string
	Respond(ctx context.Context, m *game.Match, player int) (game.Response, error)
}

// Answer builds the default response to req: the first living character,
// no rerolls, no card swaps, and the dice the pool would pick for a cost.
// It reports false when req cannot be paid for.
func Answer(m *game.Match, req game.Request) (game.Response, bool) {
	table := m.Table(req.PlayerIndex())
	switch r := req.(type) {
	case game.ChooseCharacterRequest:
		if len(r.Available) == 0 {
			return nil, false
		}
		return game.ChooseCharacterResponse{Req: r, Character: r.Available[0]}, true
	case game.RerollDiceRequest:
		return game.RerollDiceResponse{Req: r, Dice: []int{}}, true
	case game.SwitchCardRequest:
		return game.SwitchCardResponse{Req: r, Cards: []int{}}, true
	case game.UseSkillRequest:
		payment := table.Dice.Select(r.Cost)
		if payment == nil {
			return nil, false
		}
		return game.UseSkillResponse{Req: r, Dice: payment}, true
	case game.UseCardRequest:
		payment := table.Dice.Select(r.Cost)
		if payment == nil {
			return nil, false
		}
		resp := game.UseCardResponse{Req: r, Dice: payment}
		if len(r.Targets) > 0 {
			target := r.Targets[0]
			resp.Target = &target
		}
		return resp, true
	case game.SwitchCharacterRequest:
		payment := table.Dice.Select(r.Cost)
		if payment == nil {
			return nil, false
		}
		return game.SwitchCharacterResponse{Req: r, Dice: payment}, true
	case game.ElementalTuningRequest:
		if len(r.Dice) == 0 || len(r.Cards) == 0 {
			return nil, false
		}
		return game.ElementalTuningResponse{Req: r, Die: r.Dice[0], Card: r.Cards[0]}, true
	case game.DeclareRoundEndRequest:
		return game.DeclareRoundEndResponse{Req: r}, true
	}
	return nil, false
}

// answerable returns the requests of player that Answer can serve, in
// request order.
func answerable(m *game.Match, player int) ([]game.Request, []game.Response) {
	var reqs []game.Request
	var resps []game.Response
	for _, r := range m.RequestsFor(player) {
		if resp, ok := Answer(m, r); ok {
			reqs = append(reqs, r)
			resps = append(resps, resp)
		}
	}
	return reqs, resps
}

// RoundEndAgent never acts: it ends every round as soon as it may and
// takes the default answer for setup requests.
type RoundEndAgent struct{}

func (RoundEndAgent) Name() string { return "round-end" }

func (RoundEndAgent) Respond(_ context.Context, m *game.Match, player int) (game.Response, error) {
	reqs, resps := answerable(m, player)
	for i, r := range reqs {
		if r.Type() == game.RequestDeclareRoundEnd {
			return resps[i], nil
		}
	}
	for i, r := range reqs {
		if !r.IsCombat() {
			return resps[i], nil
		}
	}
	return nil, fmt.Errorf("player %d: %w", player, ErrNoOption)
}

// RandomAgent picks uniformly among the answerable requests. Setup
// requests always get the default answer.
type RandomAgent struct {
	rng    *rules.RNG
	logger *zap.Logger
}

// NewRandomAgent creates a random agent with its own seeded stream.
func NewRandomAgent(seed int64, logger *zap.Logger) *RandomAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RandomAgent{rng: rules.NewRNG(seed), logger: logger}
}

func (a *RandomAgent) Name() string { return "random" }

func (a *RandomAgent) Respond(_ context.Context, m *game.Match, player int) (game.Response, error) {
	reqs, resps := answerable(m, player)
	if len(reqs) == 0 {
		return nil, fmt.Errorf("player %d: %w", player, ErrNoOption)
	}
	for i, r := range reqs {
		if !r.IsCombat() {
			return resps[i], nil
		}
	}
	pick := a.rng.Intn(len(reqs))
	a.logger.Debug("random choice",
		zap.Int("player", player),
		zap.String("request", string(reqs[pick].Type())),
		zap.Int("options", len(reqs)))
	return resps[pick], nil
}
