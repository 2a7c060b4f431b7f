package game_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lpsim/lpsim-go/internal/content"
	"github.com/lpsim/lpsim-go/internal/game"
	"github.com/lpsim/lpsim-go/internal/game/dice"
	"github.com/lpsim/lpsim-go/internal/game/rules"
)

func TestNewMatchValidatesInput(t *testing.T) {
	_, err := game.NewMatch(nil, game.DefaultMatchConfig(), testSeed, nil)
	assert.Error(t, err)

	cfg := game.DefaultMatchConfig()
	cfg.MaxRoundNumber = 0
	_, err = game.NewMatch(content.MustRegistry(), cfg, testSeed, nil)
	assert.Error(t, err)

	m, err := game.NewMatch(content.MustRegistry(), game.DefaultMatchConfig(), testSeed, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, rules.StateNotStarted, m.State())
	assert.Equal(t, -1, m.Winner())
}

func TestSetDeck(t *testing.T) {
	m, err := game.NewMatch(content.MustRegistry(), game.DefaultMatchConfig(), testSeed, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.ErrorIs(t, m.SetDeck(2, deckOf(content.Strategize, 1, "Iron Duelist")), game.ErrInvalidPlayer)
	assert.Error(t, m.SetDeck(0, deckOf(content.Strategize, 1)))
	assert.Error(t, m.SetDeck(0, deckOf(content.Strategize, 1, "Nobody")))
	assert.Error(t, m.SetDeck(0, deckOf("No Such Card", 1, "Iron Duelist")))

	require.NoError(t, m.SetDeck(0, deckOf(content.Strategize, 1, "Iron Duelist")))
	assert.Equal(t, rules.StateNotStarted, m.State())
	require.NoError(t, m.SetDeck(1, deckOf(content.Strategize, 1, "Ember Knight")))
	assert.Equal(t, rules.StateDecksSet, m.State())
}

func TestCallsBeforeStart(t *testing.T) {
	m, err := game.NewMatch(content.MustRegistry(), game.DefaultMatchConfig(), testSeed, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.ErrorIs(t, m.Start(), game.ErrInvalidState)
	assert.ErrorIs(t, m.Step(), game.ErrMatchNotStarted)
	resp := game.DeclareRoundEndResponse{Req: game.DeclareRoundEndRequest{Player: 0}}
	assert.ErrorIs(t, m.Respond(resp), game.ErrMatchNotStarted)
}

func TestStartReachesFirstActionMenu(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()

	assert.Equal(t, rules.StateRunning, h.m.State())
	assert.Equal(t, 1, h.m.Round())
	assert.Equal(t, 0, h.m.CurrentPlayer())
	assert.Empty(t, h.m.RequestsFor(1))
	for p := 0; p < 2; p++ {
		table := h.m.Table(p)
		assert.Equal(t, 0, table.Active)
		assert.Len(t, table.Hand, 5)
		assert.Len(t, table.Deck, 7)
		assert.Equal(t, 8, table.Dice.Len())
	}
	assert.Equal(t, []rules.Phase{rules.PhaseGameStart, rules.PhaseRoundPrepare, rules.PhasePlayerAction}, h.m.PhaseHistory())

	// Step is a no-op while requests are live.
	before := h.checksum()
	require.NoError(t, h.m.Step())
	assert.Equal(t, before, h.checksum())
	assert.ErrorIs(t, h.m.Start(), game.ErrInvalidState)
}

// During game start both players hold requests at once. The second
// player may answer first; the first player's request stays live and
// unchanged, and the phase only moves on once both have answered.
func TestSimultaneousRequestsAnswerOrder(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks())
	require.NoError(t, h.m.Start())

	swaps := h.m.Requests()
	require.Len(t, swaps, 2)
	p0Swap, ok := swaps[0].(game.SwitchCardRequest)
	require.True(t, ok)
	require.Equal(t, 0, p0Swap.Player)
	p1Swap, ok := swaps[1].(game.SwitchCardRequest)
	require.True(t, ok)
	require.Equal(t, 1, p1Swap.Player)

	require.NoError(t, h.m.Respond(game.SwitchCardResponse{Req: p1Swap, Cards: []int{}}))
	assert.Equal(t, []game.Request{p0Swap}, h.m.Requests())
	assert.Empty(t, h.m.RequestsFor(1))
	assert.Equal(t, rules.PhaseGameStart, h.m.Phase())

	require.NoError(t, h.m.Respond(game.SwitchCardResponse{Req: p0Swap, Cards: []int{}}))
	chooses := h.m.Requests()
	require.Len(t, chooses, 2)
	p0Choose, ok := chooses[0].(game.ChooseCharacterRequest)
	require.True(t, ok)
	p1Choose, ok := chooses[1].(game.ChooseCharacterRequest)
	require.True(t, ok)
	require.Equal(t, 1, p1Choose.Player)

	require.NoError(t, h.m.Respond(game.ChooseCharacterResponse{Req: p1Choose, Character: 2}))
	assert.Equal(t, []game.Request{p0Choose}, h.m.Requests())
	assert.Equal(t, 2, h.m.Table(1).Active)
	assert.Equal(t, -1, h.m.Table(0).Active)
	assert.Equal(t, rules.PhaseGameStart, h.m.Phase())

	require.NoError(t, h.m.Respond(game.ChooseCharacterResponse{Req: p0Choose, Character: 1}))
	assert.Equal(t, 1, h.m.Table(0).Active)
	assert.Equal(t, rules.PhaseRoundPrepare, h.m.Phase())
	for _, r := range h.m.Requests() {
		assert.Equal(t, game.RequestRerollDice, r.Type())
	}
}

// A normal attack damages the opposing active character, charges the
// attacker and passes the turn.
func TestUseSkillDealsDamageAndPassesTurn(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()
	seen := h.observe()

	h.useSkill(0, "Heavy Swing")

	target := h.active(1)
	assert.Equal(t, 7, target.HP)
	assert.Empty(t, target.Applied)
	assert.Equal(t, 1, h.active(0).Charge)
	assert.Equal(t, 5, h.m.Table(0).Dice.Len())
	assert.Equal(t, 1, h.m.CurrentPlayer())
	assert.Empty(t, h.m.RequestsFor(0), "answering one menu entry withdraws the menu")
	assert.NotEmpty(t, h.m.RequestsFor(1))

	assert.Equal(t, []game.EventType{
		game.EventRemoveDice,
		game.EventUseSkill,
		game.EventMakeDamage,
		game.EventReceiveDamage,
		game.EventAfterMakeDamage,
		game.EventSkillEnd,
		game.EventCharge,
		game.EventActionEnd,
		game.EventPlayerActionStart,
	}, *seen)
}

// Both players declaring ends the round; the first to declare acts first
// in the next round.
func TestRoundEndAndFirstPlayer(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()

	h.useSkill(0, "Heavy Swing")
	h.declareRoundEnd(1)
	assert.Equal(t, 0, h.m.CurrentPlayer())
	assert.Equal(t, 1, h.m.Round())
	h.declareRoundEnd(0)

	assert.Equal(t, 2, h.m.Round())
	assert.Equal(t, rules.PhaseRoundPrepare, h.m.Phase())
	for p := 0; p < 2; p++ {
		assert.Len(t, h.m.Table(p).Hand, 7)
		assert.Equal(t, 8, h.m.Table(p).Dice.Len())
		reqs := h.m.RequestsFor(p)
		require.Len(t, reqs, 1)
		assert.Equal(t, game.RequestRerollDice, reqs[0].Type())
	}

	h.settle()
	assert.Equal(t, rules.PhasePlayerAction, h.m.Phase())
	assert.Equal(t, 1, h.m.CurrentPlayer())
	assert.False(t, h.m.Table(0).DeclaredRoundEnd)
	assert.False(t, h.m.Table(1).DeclaredRoundEnd)
}

// A declared player is skipped: the other player keeps acting until they
// declare too.
func TestDeclaredPlayerIsSkipped(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()

	h.declareRoundEnd(0)
	assert.Equal(t, 1, h.m.CurrentPlayer())
	h.useSkill(1, "Blade Strike")
	assert.Equal(t, 1, h.m.CurrentPlayer())
	assert.NotEmpty(t, h.m.RequestsFor(1))
	h.declareRoundEnd(1)

	h.settle()
	assert.Equal(t, 2, h.m.Round())
	assert.Equal(t, 0, h.m.CurrentPlayer())
}

// Defeating the active character asks its owner for a replacement;
// defeating the last one ends the match.
func TestDefeatAndGameEnd(t *testing.T) {
	decks := [2]game.Deck{
		deckOf(content.Strategize, 12, "Iron Duelist"),
		deckOf(content.Strategize, 12, "Ember Knight", "Frost Archer"),
	}
	h := newTestMatch(t, game.DefaultMatchConfig(), decks).start()
	seen := h.observe()

	h.character(1, 0).HP = 3
	h.useSkill(0, "Heavy Swing")

	defeated := h.character(1, 0)
	assert.True(t, defeated.Defeated)
	assert.Equal(t, 0, defeated.HP)
	assert.Contains(t, *seen, game.EventCharacterDefeated)
	reqs := h.m.RequestsFor(1)
	require.Len(t, reqs, 1)
	choose, ok := reqs[0].(game.ChooseCharacterRequest)
	require.True(t, ok)
	assert.Equal(t, []int{1}, choose.Available)

	bad := game.ChooseCharacterResponse{Req: choose, Character: 0}
	assert.ErrorIs(t, h.m.Respond(bad), game.ErrInvalidSelection)
	require.NoError(t, h.m.Respond(game.ChooseCharacterResponse{Req: choose, Character: 1}))
	assert.Equal(t, 1, h.m.Table(1).Active)
	assert.Equal(t, 1, h.m.CurrentPlayer())

	h.declareRoundEnd(1)
	h.character(1, 1).HP = 3
	h.useSkill(0, "Heavy Swing")

	assert.True(t, h.m.IsGameEnd())
	assert.Equal(t, rules.StateEnded, h.m.State())
	assert.Equal(t, rules.PhaseEnded, h.m.Phase())
	assert.Equal(t, 0, h.m.Winner())
	assert.Empty(t, h.m.Requests())
	assert.Zero(t, h.m.QueueLen())
	assert.True(t, rules.IsMonotonic(h.m.PhaseHistory()))

	resp := game.DeclareRoundEndResponse{Req: game.DeclareRoundEndRequest{Player: 0}}
	assert.ErrorIs(t, h.m.Respond(resp), game.ErrMatchEnded)
	assert.ErrorIs(t, h.m.Step(), game.ErrMatchEnded)
}

// A single damage burst that drops both last characters is a draw, even
// though the defeats are applied one after the other.
func TestMutualDefeatIsDraw(t *testing.T) {
	reg := content.MustRegistry()
	reg.MustRegister(
		&game.Definition{
			Kind:      game.KindSkill,
			Name:      "Cataclysm",
			Version:   "3.3",
			SkillType: game.SkillNormalAttack,
			Use: func(self *game.Object, _ *game.Match, ctx game.SkillContext) []game.Action {
				hit := func(player int) game.DamageValue {
					return game.DamageValue{
						Source:  self.Position,
						Target:  game.CharacterPosition(player, 0),
						Type:    game.DamageTypeDamage,
						Element: game.ElementPiercing,
						Damage:  20,
					}
				}
				return []game.Action{game.MakeDamageAction{Damages: []game.DamageValue{
					hit(1 - ctx.Player),
					hit(ctx.Player),
				}}}
			},
		},
		&game.Definition{
			Kind:      game.KindCharacter,
			Name:      "Doomsayer",
			Version:   "3.3",
			HP:        10,
			MaxCharge: 2,
			Element:   game.ElementPyro,
			Skills:    []string{"Cataclysm"},
		},
	)
	decks := [2]game.Deck{
		deckOf(content.Strategize, 12, "Doomsayer"),
		deckOf(content.Strategize, 12, "Ember Knight"),
	}
	h := newTestMatchWith(t, reg, game.DefaultMatchConfig(), decks, testSeed).start()

	req := h.skillRequest(0, "Cataclysm")
	require.NoError(t, h.m.Respond(game.UseSkillResponse{Req: req, Dice: []int{}}))

	assert.True(t, h.m.IsGameEnd())
	assert.Equal(t, rules.StateEnded, h.m.State())
	assert.Equal(t, 0, h.character(0, 0).HP)
	assert.Equal(t, 0, h.character(1, 0).HP)
	assert.Equal(t, -1, h.m.Winner())
}

// Reaching the round limit ends the match in a draw while both sides
// still have living characters.
func TestRoundLimitDraw(t *testing.T) {
	cfg := game.DefaultMatchConfig()
	cfg.MaxRoundNumber = 1
	h := newTestMatch(t, cfg, defaultDecks()).start()

	h.declareRoundEnd(0)
	h.declareRoundEnd(1)

	assert.True(t, h.m.IsGameEnd())
	assert.Equal(t, -1, h.m.Winner())
	assert.Equal(t, []rules.Phase{
		rules.PhaseGameStart,
		rules.PhaseRoundPrepare,
		rules.PhasePlayerAction,
		rules.PhaseRoundEnd,
		rules.PhaseEnded,
	}, h.m.PhaseHistory())

	resp := game.DeclareRoundEndResponse{Req: game.DeclareRoundEndRequest{Player: 1}}
	assert.ErrorIs(t, h.m.Respond(resp), game.ErrMatchEnded)
}

func TestRespondRejectsWithoutChangingState(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()
	before := h.checksum()
	live := h.m.Requests()

	req := h.skillRequest(0, "Heavy Swing")
	cases := []struct {
		name string
		resp game.Response
		want error
	}{
		{"nil response", nil, game.ErrRequestMismatch},
		{"invalid player", game.DeclareRoundEndResponse{Req: game.DeclareRoundEndRequest{Player: 2}}, game.ErrInvalidPlayer},
		{"player without request", game.DeclareRoundEndResponse{Req: game.DeclareRoundEndRequest{Player: 1}}, game.ErrNoRequest},
		{"altered request", func() game.Response {
			altered := req
			altered.Cost.AnyNumber++
			return game.UseSkillResponse{Req: altered, Dice: []int{0, 1, 2, 3}}
		}(), game.ErrRequestMismatch},
		{"too few dice", game.UseSkillResponse{Req: req, Dice: []int{0}}, game.ErrInvalidSelection},
		{"duplicate dice", game.UseSkillResponse{Req: req, Dice: []int{0, 0, 1}}, game.ErrInvalidSelection},
		{"die out of range", game.UseSkillResponse{Req: req, Dice: []int{0, 1, 99}}, game.ErrInvalidSelection},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := h.m.Respond(tc.resp)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, h.checksum())
			assert.Equal(t, live, h.m.Requests())
			assert.Equal(t, rules.StateRunning, h.m.State())
		})
	}
}

// A dispatch that never settles trips the iteration ceiling and fails the
// match for good.
func TestIterationCeilingFailsMatch(t *testing.T) {
	reg := content.MustRegistry()
	reg.MustRegister(
		&game.Definition{
			Kind:    game.KindTeamStatus,
			Name:    "Echo",
			Version: "3.3",
			Handle: func(self *game.Object, ev game.Event, _ *game.Match) []game.Action {
				if _, ok := ev.(game.ChargeEvent); ok {
					return []game.Action{game.ChargeAction{Player: self.Position.Player, Character: 0, Charge: 1}}
				}
				return nil
			},
		},
		&game.Definition{
			Kind:      game.KindSkill,
			Name:      "Resonate",
			Version:   "3.3",
			SkillType: game.SkillNormalAttack,
			Use: func(_ *game.Object, _ *game.Match, ctx game.SkillContext) []game.Action {
				return []game.Action{game.CreateObjectAction{
					Kind:     game.KindTeamStatus,
					Name:     "Echo",
					Position: game.TablePosition(ctx.Player, game.ZoneTeamStatus),
				}}
			},
		},
		&game.Definition{
			Kind:      game.KindCharacter,
			Name:      "Echo Singer",
			Version:   "3.3",
			HP:        10,
			MaxCharge: 2,
			Element:   game.ElementAnemo,
			Skills:    []string{"Resonate"},
		},
	)
	cfg := game.DefaultMatchConfig()
	cfg.MaxIterations = 200
	decks := [2]game.Deck{
		deckOf(content.Strategize, 12, "Echo Singer"),
		deckOf(content.Strategize, 12, "Ember Knight"),
	}
	h := newTestMatchWith(t, reg, cfg, decks, testSeed).start()

	req := h.skillRequest(0, "Resonate")
	err := h.m.Respond(game.UseSkillResponse{Req: req, Dice: []int{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, game.ErrInvariantViolation))
	var ie *game.InvariantError
	require.ErrorAs(t, err, &ie)
	assert.Contains(t, ie.Reason, "iterations")

	assert.Equal(t, rules.StateFailed, h.m.State())
	assert.Equal(t, err, h.m.Err())
	assert.Empty(t, h.m.Requests())
	assert.Equal(t, err, h.m.Step())
	assert.Equal(t, err, h.m.Respond(game.UseSkillResponse{Req: req, Dice: []int{}}))
}

// Every reaction to an action resolves before any reaction to those
// reactions: the follow-up of Herald on player 0's table waits behind
// Crier's reaction on player 1's table.
func TestDispatchIsBreadthFirst(t *testing.T) {
	bump := func(self *game.Object) game.Action {
		return game.ChangeObjectUsageAction{Object: self.Position, Delta: 1}
	}
	reg := content.MustRegistry()
	reg.MustRegister(
		&game.Definition{
			Kind: game.KindTeamStatus, Name: "Herald", Version: "3.3", Usage: 1, MaxUsage: 9,
			Handle: func(self *game.Object, ev game.Event, _ *game.Match) []game.Action {
				switch e := ev.(type) {
				case game.DeclareRoundEndEvent:
					return []game.Action{bump(self)}
				case game.ChangeObjectUsageEvent:
					if e.Action.Object.ID == self.ID && self.Counters.Get("echoed") == 0 {
						self.Counters.Set("echoed", 1)
						return []game.Action{bump(self)}
					}
				}
				return nil
			},
		},
		&game.Definition{
			Kind: game.KindTeamStatus, Name: "Crier", Version: "3.3", Usage: 1, MaxUsage: 9,
			Handle: func(self *game.Object, ev game.Event, _ *game.Match) []game.Action {
				if _, ok := ev.(game.DeclareRoundEndEvent); ok {
					return []game.Action{bump(self)}
				}
				return nil
			},
		},
		&game.Definition{
			Kind:      game.KindSkill,
			Name:      "Proclaim",
			Version:   "3.3",
			SkillType: game.SkillElementalSkill,
			Use: func(_ *game.Object, _ *game.Match, ctx game.SkillContext) []game.Action {
				return []game.Action{
					game.CreateObjectAction{Kind: game.KindTeamStatus, Name: "Herald", Position: game.TablePosition(ctx.Player, game.ZoneTeamStatus)},
					game.CreateObjectAction{Kind: game.KindTeamStatus, Name: "Crier", Position: game.TablePosition(1-ctx.Player, game.ZoneTeamStatus)},
				}
			},
		},
		&game.Definition{
			Kind:      game.KindCharacter,
			Name:      "Town Crier",
			Version:   "3.3",
			HP:        10,
			MaxCharge: 2,
			Element:   game.ElementAnemo,
			Skills:    []string{"Proclaim"},
		},
	)
	decks := [2]game.Deck{
		deckOf(content.Strategize, 12, "Town Crier"),
		deckOf(content.Strategize, 12, "Ember Knight"),
	}
	h := newTestMatchWith(t, reg, game.DefaultMatchConfig(), decks, testSeed).start()
	req := h.skillRequest(0, "Proclaim")
	require.NoError(t, h.m.Respond(game.UseSkillResponse{Req: req, Dice: []int{}}))

	var order []string
	h.m.Observe(func(ev game.Event) {
		if e, ok := ev.(game.ChangeObjectUsageEvent); ok {
			order = append(order, h.m.Find(e.Action.Object).Name)
		}
	})
	h.declareRoundEnd(1)

	assert.Equal(t, []string{"Herald", "Crier", "Herald"}, order)
	assert.Equal(t, 3, h.m.Table(0).TeamStatus("Herald").Usage)
	assert.Equal(t, 2, h.m.Table(1).TeamStatus("Crier").Usage)
}

// Moving equipment onto a character takes its equipment slot and replaces
// the piece already there; moving into a full summon zone removes the
// summon.
func TestMoveObjectRespectsSlotsAndLimits(t *testing.T) {
	reg := content.MustRegistry()
	reg.MustRegister(
		&game.Definition{Kind: game.KindWeapon, Name: "Long Blade", Version: "3.3"},
		&game.Definition{Kind: game.KindWeapon, Name: "Short Blade", Version: "3.3"},
		&game.Definition{Kind: game.KindSummon, Name: "Wisp", Version: "3.3", Usage: 1, MaxUsage: 1},
		&game.Definition{Kind: game.KindSummon, Name: "Spark", Version: "3.3", Usage: 1, MaxUsage: 1},
		&game.Definition{
			Kind:      game.KindSkill,
			Name:      "Rearm",
			Version:   "3.3",
			SkillType: game.SkillElementalSkill,
			Use: func(_ *game.Object, m *game.Match, ctx game.SkillContext) []game.Action {
				p := ctx.Player
				table := m.Table(p)
				short := table.Character(1).EquipmentOf(game.KindWeapon)
				if short == nil {
					return []game.Action{
						game.CreateObjectAction{Kind: game.KindWeapon, Name: "Long Blade", Position: game.CharacterPosition(p, 0)},
						game.CreateObjectAction{Kind: game.KindWeapon, Name: "Short Blade", Position: game.CharacterPosition(p, 1)},
						game.CreateObjectAction{Kind: game.KindSummon, Name: "Spark", Position: game.TablePosition(p, game.ZoneSummon)},
						game.CreateObjectAction{Kind: game.KindSummon, Name: "Wisp", Position: game.TablePosition(1-p, game.ZoneSummon)},
					}
				}
				return []game.Action{
					game.MoveObjectAction{Object: short.Position, Target: game.Position{Player: p, Zone: game.ZoneCharacterStatus, Character: 0}},
					game.MoveObjectAction{Object: table.Summon("Spark").Position, Target: game.TablePosition(1-p, game.ZoneSummon)},
				}
			},
		},
		&game.Definition{
			Kind:      game.KindCharacter,
			Name:      "Quartermaster",
			Version:   "3.3",
			HP:        10,
			MaxCharge: 2,
			Element:   game.ElementGeo,
			Skills:    []string{"Rearm"},
		},
	)
	cfg := game.DefaultMatchConfig()
	cfg.MaxSummonNumber = 1
	decks := [2]game.Deck{
		deckOf(content.Strategize, 12, "Quartermaster", "Iron Duelist"),
		deckOf(content.Strategize, 12, "Ember Knight"),
	}
	h := newTestMatchWith(t, reg, cfg, decks, testSeed).start()
	rearm := func() {
		req := h.skillRequest(0, "Rearm")
		require.NoError(t, h.m.Respond(game.UseSkillResponse{Req: req, Dice: []int{}}))
	}

	rearm()
	long := h.character(0, 0).EquipmentOf(game.KindWeapon)
	short := h.character(0, 1).EquipmentOf(game.KindWeapon)
	require.NotNil(t, long)
	require.NotNil(t, short)
	require.NotNil(t, h.m.Table(0).Summon("Spark"))
	require.NotNil(t, h.m.Table(1).Summon("Wisp"))

	var removed []string
	h.m.Observe(func(ev game.Event) {
		if e, ok := ev.(game.RemoveObjectEvent); ok && e.Object != nil {
			removed = append(removed, e.Object.Name)
		}
	})
	h.declareRoundEnd(1)
	rearm()

	holder := h.character(0, 0)
	assert.Equal(t, []*game.Object{short}, holder.Equipment)
	assert.Empty(t, holder.Statuses)
	assert.Empty(t, h.character(0, 1).Equipment)
	assert.Equal(t, 0, short.Position.Character)
	assert.Equal(t, game.ZoneCharacterStatus, short.Position.Zone)
	assert.Nil(t, h.m.Find(long.Position))

	assert.Empty(t, h.m.Table(0).Summons)
	require.Len(t, h.m.Table(1).Summons, 1)
	assert.Equal(t, "Wisp", h.m.Table(1).Summons[0].Name)
	assert.ElementsMatch(t, []string{"Long Blade", "Spark"}, removed)
}

func TestModifyRejectsUnknownMode(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()
	assert.Panics(t, func() {
		h.m.Modify(&game.RerollValue{Player: 0, Times: 1}, game.Mode(0))
	})
}

// Identical seeds and responses give identical states.
func TestMatchIsDeterministic(t *testing.T) {
	play := func(seed int64) string {
		h := newTestMatchWith(t, content.MustRegistry(), game.DefaultMatchConfig(), defaultDecks(), seed).start()
		h.useSkill(0, "Heavy Swing")
		h.useSkill(1, "Blade Strike")
		h.endRound()
		h.useSkill(h.m.CurrentPlayer(), h.active(h.m.CurrentPlayer()).Skills[0].Name)
		return h.checksum()
	}
	assert.Equal(t, play(7), play(7))
	assert.NotEqual(t, play(7), play(8))
}

func TestPhaseHistoryIsMonotonic(t *testing.T) {
	cfg := game.DefaultMatchConfig()
	cfg.MaxRoundNumber = 3
	h := newTestMatch(t, cfg, defaultDecks()).start()
	for !h.m.IsGameEnd() {
		h.endRound()
		assert.True(t, rules.IsMonotonic(h.m.PhaseHistory()))
	}
	assert.Equal(t, 3, h.m.Round())
	assert.Equal(t, -1, h.m.Winner())
}

// Cards move between deck, hand and discard but are never created or
// lost by drawing, playing or tuning.
func TestCardsAreConserved(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()
	table := h.m.Table(0)
	assert.Equal(t, 12, table.CardCount(content.Strategize))

	h.setOmni(0, 6)
	table.Dice.Dice = append(table.Dice.Dice, dice.ColorPyro, dice.ColorPyro)
	h.playCard(0, content.Strategize, nil)
	assert.Len(t, table.Hand, 6)
	assert.Len(t, table.Discard, 1)
	assert.Equal(t, 12, table.CardCount(content.Strategize))
	assert.Equal(t, 0, h.m.CurrentPlayer(), "playing a card is a fast action")

	tune := h.tuningRequest(0)
	require.NotEmpty(t, tune.Dice)
	require.NoError(t, h.m.Respond(game.ElementalTuningResponse{Req: tune, Die: tune.Dice[0], Card: tune.Cards[0]}))
	assert.Len(t, table.Hand, 5)
	assert.Len(t, table.Discard, 2)
	assert.Equal(t, 12, table.CardCount(content.Strategize))
	assert.Equal(t, 7, table.Dice.Len())
	assert.Contains(t, table.Dice.Dice, h.active(0).Element.DiceColor())
	assert.Equal(t, 0, h.m.CurrentPlayer())
}

// Drawing into a full hand burns the card to the discard zone.
func TestHandOverflowBurnsCards(t *testing.T) {
	cfg := game.DefaultMatchConfig()
	cfg.MaxHandSize = 6
	h := newTestMatch(t, cfg, defaultDecks()).start()

	var burned int
	h.m.Observe(func(ev game.Event) {
		if draw, ok := ev.(game.DrawCardEvent); ok {
			burned += len(draw.Burned)
		}
	})
	h.endRound()

	for p := 0; p < 2; p++ {
		table := h.m.Table(p)
		assert.Len(t, table.Hand, 6)
		assert.Len(t, table.Discard, 1)
		assert.Len(t, table.Deck, 5)
		assert.Equal(t, 12, table.CardCount(content.Strategize))
	}
	assert.Equal(t, 2, burned)
}

func TestObserveAndUnobserve(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()
	count := 0
	handle := h.m.Observe(func(game.Event) { count++ })
	h.declareRoundEnd(0)
	assert.Positive(t, count)

	h.m.Unobserve(handle)
	seen := count
	h.declareRoundEnd(1)
	assert.Equal(t, seen, count)
}

func TestHistoryRecordsCriticalActions(t *testing.T) {
	h := newTestMatch(t, game.DefaultMatchConfig(), defaultDecks()).start()
	h.useSkill(0, "Heavy Swing")

	var types []game.ActionType
	for _, entry := range h.m.History() {
		assert.LessOrEqual(t, entry.Action.RecordLevel(), game.RecordCritical)
		types = append(types, entry.Action.Type())
	}
	assert.Contains(t, types, game.ActionUseSkill)
	assert.Contains(t, types, game.ActionMakeDamage)

	cfg := game.DefaultMatchConfig()
	cfg.RecordHistory = false
	quiet := newTestMatch(t, cfg, defaultDecks()).start()
	assert.Empty(t, quiet.m.History())
}
