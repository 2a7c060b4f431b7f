package game_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lpsim/lpsim-go/internal/content"
	"github.com/lpsim/lpsim-go/internal/game"
	"github.com/lpsim/lpsim-go/internal/game/dice"
	"github.com/lpsim/lpsim-go/internal/game/rules"
)

const testSeed = 42

// testMatch drives a match through the public API. Setup requests are
// answered with no-ops and every reroll stage leaves the player with omni
// dice, so the action menus of a test are known in advance.
type testMatch struct {
	t *testing.T
	m *game.Match
}

// deckOf builds a deck of count copies of card behind characters.
func deckOf(card string, count int, characters ...string) game.Deck {
	cards := make([]string, count)
	for i := range cards {
		cards[i] = card
	}
	return game.Deck{Name: "test", Characters: characters, Cards: cards}
}

func defaultDecks() [2]game.Deck {
	return [2]game.Deck{
		deckOf(content.Strategize, 12, "Iron Duelist", "Ember Knight", "Tide Caller"),
		deckOf(content.Strategize, 12, "Ember Knight", "Frost Archer", "Storm Lancer"),
	}
}

func newTestMatch(t *testing.T, cfg game.MatchConfig, decks [2]game.Deck) *testMatch {
	return newTestMatchWith(t, content.MustRegistry(), cfg, decks, testSeed)
}

func newTestMatchWith(t *testing.T, reg *game.Registry, cfg game.MatchConfig, decks [2]game.Deck, seed int64) *testMatch {
	t.Helper()
	m, err := game.NewMatch(reg, cfg, seed, zaptest.NewLogger(t))
	require.NoError(t, err)
	for p, d := range decks {
		require.NoError(t, m.SetDeck(p, d))
	}
	return &testMatch{t: t, m: m}
}

// start runs the match to the first action menu of round 1.
func (h *testMatch) start() *testMatch {
	h.t.Helper()
	require.NoError(h.t, h.m.Start())
	h.settle()
	require.Equal(h.t, rules.PhasePlayerAction, h.m.Phase())
	return h
}

// settle answers every non-combat request until only action menus remain
// or the match ends.
func (h *testMatch) settle() {
	h.t.Helper()
	for !h.m.IsGameEnd() {
		var pending game.Request
		for _, r := range h.m.Requests() {
			if !r.IsCombat() {
				pending = r
				break
			}
		}
		if pending == nil {
			return
		}
		var resp game.Response
		switch r := pending.(type) {
		case game.SwitchCardRequest:
			resp = game.SwitchCardResponse{Req: r, Cards: []int{}}
		case game.ChooseCharacterRequest:
			resp = game.ChooseCharacterResponse{Req: r, Character: r.Available[0]}
		case game.RerollDiceRequest:
			h.setOmni(r.Player, h.m.Table(r.Player).Dice.Len())
			resp = game.RerollDiceResponse{Req: r, Dice: []int{}}
		default:
			h.t.Fatalf("unexpected request %T", pending)
		}
		require.NoError(h.t, h.m.Respond(resp))
	}
}

// setOmni replaces the dice of player with n omni dice.
func (h *testMatch) setOmni(player, n int) {
	colors := make([]dice.Color, n)
	for i := range colors {
		colors[i] = dice.ColorOmni
	}
	h.m.Table(player).Dice.Dice = colors
}

func (h *testMatch) skillRequest(player int, name string) game.UseSkillRequest {
	h.t.Helper()
	for _, r := range h.m.RequestsFor(player) {
		if sr, ok := r.(game.UseSkillRequest); ok && sr.Name == name {
			return sr
		}
	}
	h.t.Fatalf("player %d has no request for skill %q", player, name)
	return game.UseSkillRequest{}
}

func (h *testMatch) hasSkillRequest(player int) bool {
	for _, r := range h.m.RequestsFor(player) {
		if _, ok := r.(game.UseSkillRequest); ok {
			return true
		}
	}
	return false
}

func (h *testMatch) cardRequest(player int, name string) game.UseCardRequest {
	h.t.Helper()
	for _, r := range h.m.RequestsFor(player) {
		if cr, ok := r.(game.UseCardRequest); ok && cr.Name == name {
			return cr
		}
	}
	h.t.Fatalf("player %d has no request for card %q", player, name)
	return game.UseCardRequest{}
}

func (h *testMatch) tuningRequest(player int) game.ElementalTuningRequest {
	h.t.Helper()
	for _, r := range h.m.RequestsFor(player) {
		if tr, ok := r.(game.ElementalTuningRequest); ok {
			return tr
		}
	}
	h.t.Fatalf("player %d has no elemental tuning request", player)
	return game.ElementalTuningRequest{}
}

// useSkill answers the skill request with the dice the pool would pick.
func (h *testMatch) useSkill(player int, name string) {
	h.t.Helper()
	req := h.skillRequest(player, name)
	payment := h.m.Table(player).Dice.Select(req.Cost)
	require.NotNil(h.t, payment, "cannot pay %s", req.Cost)
	require.NoError(h.t, h.m.Respond(game.UseSkillResponse{Req: req, Dice: payment}))
}

func (h *testMatch) playCard(player int, name string, target *game.Position) {
	h.t.Helper()
	req := h.cardRequest(player, name)
	cost := req.Cost
	if target != nil {
		cost = req.CostFor(*target)
	}
	payment := h.m.Table(player).Dice.Select(cost)
	require.NotNil(h.t, payment, "cannot pay %s", cost)
	require.NoError(h.t, h.m.Respond(game.UseCardResponse{Req: req, Dice: payment, Target: target}))
}

func (h *testMatch) declareRoundEnd(player int) {
	h.t.Helper()
	require.NoError(h.t, h.m.Respond(game.DeclareRoundEndResponse{Req: game.DeclareRoundEndRequest{Player: player}}))
}

// endRound has both players declare, current player first, and settles
// the next round prepare.
func (h *testMatch) endRound() {
	h.t.Helper()
	first := h.m.CurrentPlayer()
	h.declareRoundEnd(first)
	if !h.m.IsGameEnd() && !h.m.Table(1 - first).DeclaredRoundEnd {
		h.declareRoundEnd(1 - first)
	}
	h.settle()
}

func (h *testMatch) checksum() string {
	h.t.Helper()
	sum, err := h.m.Checksum()
	require.NoError(h.t, err)
	return sum
}

func (h *testMatch) character(player, index int) *game.Character {
	return h.m.Table(player).Character(index)
}

func (h *testMatch) active(player int) *game.Character {
	return h.m.Table(player).ActiveCharacter()
}

func (h *testMatch) skill(player int, name string) *game.Object {
	h.t.Helper()
	for _, s := range h.active(player).Skills {
		if s.Name == name {
			return s
		}
	}
	h.t.Fatalf("active character of player %d has no skill %q", player, name)
	return nil
}

// observe records the type of every broadcast event.
func (h *testMatch) observe() *[]game.EventType {
	var seen []game.EventType
	h.m.Observe(func(ev game.Event) {
		seen = append(seen, ev.Type())
	})
	return &seen
}
