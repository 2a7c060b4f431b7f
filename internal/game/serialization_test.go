package game_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lpsim/lpsim-go/internal/content"
	"github.com/lpsim/lpsim-go/internal/game"
	"github.com/lpsim/lpsim-go/internal/game/rules"
)

// TestSnapshotRoundTrip verifies that a restored match has the same
// checksum as the original at every response point.
func TestSnapshotRoundTrip(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks())
	require.NoError(t, h.m.Start())
	require.NoError(t, game.ValidateSnapshotRoundtrip(h.m))

	h.settle()
	require.NoError(t, game.ValidateSnapshotRoundtrip(h.m))

	h.useSkill(0, "Heavy Swing")
	require.NoError(t, game.ValidateSnapshotRoundtrip(h.m))

	h.endRound()
	require.NoError(t, game.ValidateSnapshotRoundtrip(h.m))
}

// TestRestoredMatchContinuesIdentically verifies that a restored match
// accepts the live requests and evolves exactly like the original.
func TestRestoredMatchContinuesIdentically(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()
	h.useSkill(0, "Heavy Swing")

	data, err := h.m.Snapshot()
	require.NoError(t, err)
	restored, err := game.LoadMatch(data, content.MustRegistry(), zaptest.NewLogger(t))
	require.NoError(t, err)
	r := &testMatch{t: t, m: restored}

	assert.Equal(t, h.m.ID, restored.ID)
	assert.Equal(t, h.checksum(), r.checksum())
	require.Len(t, restored.Requests(), len(h.m.Requests()))
	for i, r := range h.m.Requests() {
		assert.Equal(t, r.Type(), restored.Requests()[i].Type())
	}
	assert.Equal(t, h.m.CurrentPlayer(), restored.CurrentPlayer())
	assert.Equal(t, h.m.Round(), restored.Round())
	assert.Equal(t, h.m.Phase(), restored.Phase())
	assert.Len(t, restored.History(), len(h.m.History()))

	for _, tm := range []*testMatch{h, r} {
		tm.useSkill(1, "Flame Burst")
		tm.endRound()
	}
	assert.Equal(t, h.checksum(), r.checksum())
	assert.Equal(t, h.active(0).HP, r.active(0).HP)
	assert.Equal(t, h.m.Table(1).Dice.Dice, r.m.Table(1).Dice.Dice)
}

// TestRestoredObjectsKeepBehaviour verifies that objects are rebound to
// their definitions on load.
func TestRestoredObjectsKeepBehaviour(t *testing.T) {
	decks := defaultDecks()
	decks[0] = deckOf(content.MerchantContract, 12, "Iron Duelist")
	h := newTestMatch(t, game.DefaultMatchConfig(), decks).start()
	h.playCard(0, content.MerchantContract, nil)

	data, err := h.m.Snapshot()
	require.NoError(t, err)
	restored, err := game.LoadMatch(data, content.MustRegistry(), zaptest.NewLogger(t))
	require.NoError(t, err)

	merchant := restored.Table(0).Support(content.TravelingMerchant)
	require.NotNil(t, merchant)
	require.NotNil(t, merchant.Definition())
	skill := restored.Table(0).ActiveCharacter().Skills[0]
	require.NotNil(t, skill.Definition())
	assert.Equal(t, 2, restored.SkillCost(skill, game.ModeTest).Total())
}

func TestLoadMatchRejectsBadInput(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()
	data, err := h.m.Snapshot()
	require.NoError(t, err)

	_, err = game.LoadMatch(data, nil, nil)
	assert.Error(t, err)

	_, err = game.LoadMatch([]byte("{not json"), content.MustRegistry(), nil)
	assert.Error(t, err)

	_, err = game.LoadMatch(data, game.NewRegistry(), nil)
	assert.Error(t, err, "objects cannot be bound without their definitions")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["version"] = 99
	bumped, err := json.Marshal(doc)
	require.NoError(t, err)
	_, err = game.LoadMatch(bumped, content.MustRegistry(), nil)
	assert.Error(t, err)
}

// TestFailedMatchSnapshot verifies that a failed match stays failed after
// a round trip.
func TestFailedMatchSnapshot(t *testing.T) {
	cfg := game.DefaultMatchConfig()
	cfg.MaxIterations = 1
	h := newTestMatch(t, cfg, defaultDecks())
	err := h.m.Start()
	require.Error(t, err)
	require.True(t, errors.Is(err, game.ErrInvariantViolation))

	data, err := h.m.Snapshot()
	require.NoError(t, err)
	restored, err := game.LoadMatch(data, content.MustRegistry(), nil)
	require.NoError(t, err)

	assert.Equal(t, rules.StateFailed, restored.State())
	assert.ErrorIs(t, restored.Step(), game.ErrInvariantViolation)
	assert.Equal(t, h.m.Err().Error(), restored.Err().Error())
}

func TestActionEnvelope(t *testing.T) {
	target := game.CharacterPosition(1, 2)
	actions := []game.Action{
		game.DrawCardAction{Player: 1, Number: 2},
		game.UseCardAction{Card: game.TablePosition(0, game.ZoneHand).WithID(7), Target: &target},
		game.MakeDamageAction{Damages: []game.DamageValue{{
			Source:  game.TablePosition(0, game.ZoneSummon).WithID(3),
			Target:  target,
			Type:    game.DamageTypeDamage,
			Element: game.ElementHydro,
			Damage:  2,
		}}},
	}
	for _, a := range actions {
		env, err := game.MarshalAction(a)
		require.NoError(t, err)
		assert.Equal(t, string(a.Type()), env.Type)
		back, err := game.UnmarshalAction(env)
		require.NoError(t, err)
		assert.Equal(t, a, back)
	}

	_, err := game.UnmarshalAction(game.Envelope{Type: "NOPE", Data: json.RawMessage(`{}`)})
	assert.Error(t, err)
	_, err = game.UnmarshalAction(game.Envelope{Type: string(game.ActionDrawCard), Data: json.RawMessage(`[`)})
	assert.Error(t, err)
}

// TestResponseEnvelope verifies that a response decoded from the wire
// still matches its live request.
func TestResponseEnvelope(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()
	req := h.skillRequest(0, "Heavy Swing")
	resp := game.UseSkillResponse{Req: req, Dice: h.m.Table(0).Dice.Select(req.Cost)}

	env, err := game.MarshalResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, string(game.RequestUseSkill), env.Type)
	wire, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded game.Envelope
	require.NoError(t, json.Unmarshal(wire, &decoded))
	back, err := game.UnmarshalResponse(decoded)
	require.NoError(t, err)
	require.NoError(t, h.m.Respond(back))
	assert.Equal(t, 7, h.active(1).HP)

	reqEnv, err := game.MarshalRequest(game.DeclareRoundEndRequest{Player: 1})
	require.NoError(t, err)
	r, err := game.UnmarshalRequest(reqEnv)
	require.NoError(t, err)
	assert.Equal(t, game.DeclareRoundEndRequest{Player: 1}, r)

	_, err = game.UnmarshalResponse(game.Envelope{Type: "NOPE"})
	assert.Error(t, err)
}
