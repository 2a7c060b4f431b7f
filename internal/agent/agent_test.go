package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lpsim/lpsim-go/internal/content"
	"github.com/lpsim/lpsim-go/internal/deck"
	"github.com/lpsim/lpsim-go/internal/game"
)

func newMatch(t *testing.T, cfg game.MatchConfig, seed int64) *game.Match {
	t.Helper()
	m, err := game.NewMatch(content.MustRegistry(), cfg, seed, zaptest.NewLogger(t))
	require.NoError(t, err)
	for p, name := range []string{"Stone and Flame", "Frost and Storm"} {
		d, err := deck.Builtin(name)
		require.NoError(t, err)
		require.NoError(t, m.SetDeck(p, d))
	}
	return m
}

func TestAnswerCoversSetupRequests(t *testing.T) {
	m := newMatch(t, game.DefaultMatchConfig(), 1)
	require.NoError(t, m.Start())

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	for _, r := range reqs {
		resp, ok := Answer(m, r)
		require.True(t, ok)
		assert.Equal(t, r, resp.Request())
		require.NoError(t, m.Respond(resp))
	}

	// Choose character.
	for _, r := range m.Requests() {
		resp, ok := Answer(m, r)
		require.True(t, ok)
		assert.Equal(t, game.RequestChooseCharacter, resp.Request().Type())
		require.NoError(t, m.Respond(resp))
	}
}

func TestRoundEndAgentsDraw(t *testing.T) {
	cfg := game.DefaultMatchConfig()
	cfg.MaxRoundNumber = 3
	m := newMatch(t, cfg, 1)

	res, err := Run(context.Background(), m, [2]Agent{RoundEndAgent{}, RoundEndAgent{}}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, -1, res.Winner)
	assert.Equal(t, 3, res.Rounds)
	assert.Equal(t, m.ID, res.MatchID)
	assert.True(t, m.IsGameEnd())
}

func TestRandomAgentsAreDeterministic(t *testing.T) {
	play := func(seed int64) (*Result, string) {
		m := newMatch(t, game.DefaultMatchConfig(), seed)
		agents := [2]Agent{NewRandomAgent(seed, nil), NewRandomAgent(seed+1, nil)}
		res, err := Run(context.Background(), m, agents)
		require.NoError(t, err)
		sum, err := m.Checksum()
		require.NoError(t, err)
		return res, sum
	}

	a, sumA := play(11)
	b, sumB := play(11)
	assert.Equal(t, a.Winner, b.Winner)
	assert.Equal(t, a.Steps, b.Steps)
	assert.Equal(t, sumA, sumB)
	assert.Contains(t, []int{-1, 0, 1}, a.Winner)
}

const aggressiveScript = `
function choose(requests, state)
  for i, r in ipairs(requests) do
    if r.type == "USE_SKILL" then
      return i
    end
  end
  for i, r in ipairs(requests) do
    if r.type == "DECLARE_ROUND_END" or not r.combat then
      return i
    end
  end
  return 1
end
`

func TestLuaAgentPlaysMatch(t *testing.T) {
	lua, err := NewLuaAgent("aggressive", aggressiveScript, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer lua.Close()
	assert.Equal(t, "aggressive", lua.Name())

	m := newMatch(t, game.DefaultMatchConfig(), 3)
	res, err := Run(context.Background(), m, [2]Agent{lua, RoundEndAgent{}})
	require.NoError(t, err)
	assert.NotEqual(t, 1, res.Winner, "the passive side never deals damage")
	assert.Less(t, m.Table(1).Characters[0].HP+m.Table(1).Characters[1].HP+m.Table(1).Characters[2].HP, 30)
}

func TestLuaAgentErrors(t *testing.T) {
	_, err := NewLuaAgent("broken", "function choose(", nil)
	assert.Error(t, err)

	_, err = NewLuaAgent("empty", "x = 1", nil)
	assert.Error(t, err)

	_, err = NewLuaAgent("escape", `os.exit(1)`, nil)
	assert.Error(t, err, "os is not opened")

	sandboxed, err := NewLuaAgent("sandboxed", `
assert(load == nil and dofile == nil and math.random == nil)
function choose(requests) return 1 end
`, nil)
	require.NoError(t, err)
	sandboxed.Close()

	m := newMatch(t, game.DefaultMatchConfig(), 1)
	require.NoError(t, m.Start())

	for name, script := range map[string]string{
		"not a number": `function choose(requests) return "first" end`,
		"out of range": `function choose(requests) return #requests + 1 end`,
		"raises":       `function choose(requests) error("boom") end`,
	} {
		t.Run(name, func(t *testing.T) {
			a, err := NewLuaAgent(name, script, nil)
			require.NoError(t, err)
			defer a.Close()
			_, err = a.Respond(context.Background(), m, 0)
			assert.Error(t, err)
		})
	}
}

func TestLuaAgentIsInterrupted(t *testing.T) {
	m := newMatch(t, game.DefaultMatchConfig(), 1)
	require.NoError(t, m.Start())

	a, err := NewLuaAgent("spinner", `function choose(requests) while true do end end`, nil)
	require.NoError(t, err)
	defer a.Close()

	a.SetTimeout(50 * time.Millisecond)
	_, err = a.Respond(context.Background(), m, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	a.SetTimeout(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Respond(ctx, m, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := newMatch(t, game.DefaultMatchConfig(), 1)

	_, err := Run(ctx, m, [2]Agent{RoundEndAgent{}, RoundEndAgent{}})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunStepLimit(t *testing.T) {
	m := newMatch(t, game.DefaultMatchConfig(), 1)
	_, err := Run(context.Background(), m, [2]Agent{RoundEndAgent{}, RoundEndAgent{}}, WithMaxSteps(3))
	assert.ErrorIs(t, err, ErrStepLimit)
}

func TestRunRecordsReplay(t *testing.T) {
	dir := t.TempDir()
	recorder := game.NewReplayRecorder(zaptest.NewLogger(t), dir)
	cfg := game.DefaultMatchConfig()
	cfg.MaxRoundNumber = 2
	m := newMatch(t, cfg, 5)

	res, err := Run(context.Background(), m, [2]Agent{RoundEndAgent{}, NewRandomAgent(5, nil)}, WithRecorder(recorder))
	require.NoError(t, err)
	assert.False(t, recorder.IsRecording(m.ID))

	replay, err := recorder.LoadReplay(res.MatchID)
	require.NoError(t, err)
	assert.Equal(t, res.Steps+1, replay.Size())

	last, err := replay.MatchAt(replay.Size()-1, content.MustRegistry(), nil)
	require.NoError(t, err)
	assert.True(t, last.IsGameEnd())
	assert.Equal(t, res.Winner, last.Winner())
}
