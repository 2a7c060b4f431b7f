package game

import (
	"go.uber.org/zap"

	"github.com/lpsim/lpsim-go/internal/game/rules"
)

// step drains the queue and advances phases until a response is needed
// or the match ends.
func (m *Match) step() error {
	for m.state == rules.StateRunning {
		m.drain()
		if m.state != rules.StateRunning || len(m.requests) > 0 {
			return nil
		}
		m.advance()
	}
	return nil
}

// enterPhase moves the tracker to the next phase and resets the stage.
func (m *Match) enterPhase() {
	phase, err := m.phases.Advance()
	if err != nil {
		invariantf("%v", err)
	}
	m.stage = 0
	m.logger.Info("phase entered",
		zap.String("phase", phase.String()),
		zap.Int("round", m.phases.Round()))
}

// advance performs the next stage of the current phase. The queue is empty
// and no request is live when it runs.
func (m *Match) advance() {
	switch m.phases.Current() {
	case rules.PhaseGameStart:
		m.advanceGameStart()
	case rules.PhaseRoundPrepare:
		m.advanceRoundPrepare()
	case rules.PhasePlayerAction:
		m.advancePlayerAction()
	case rules.PhaseRoundEnd:
		m.advanceRoundEnd()
	default:
		invariantf("cannot advance phase %s", m.phases.Current())
	}
}

func (m *Match) advanceGameStart() {
	switch m.stage {
	case 0:
		m.stage++
		m.queue.PushBatch(
			DrawCardAction{Player: 0, Number: m.Config.InitialHandSize},
			DrawCardAction{Player: 1, Number: m.Config.InitialHandSize},
			GenerateSwitchCardRequestAction{Player: 0},
			GenerateSwitchCardRequestAction{Player: 1},
		)
	case 1:
		m.stage++
		m.queue.PushBatch(
			GenerateChooseCharacterRequestAction{Player: 0},
			GenerateChooseCharacterRequestAction{Player: 1},
		)
	case 2:
		m.stage++
		m.queue.PushBatch(m.broadcast(GameStartEvent{})...)
	default:
		m.enterPhase()
	}
}

func (m *Match) advanceRoundPrepare() {
	switch m.stage {
	case 0:
		m.stage++
		for _, t := range m.tables {
			t.DeclaredRoundEnd = false
		}
		m.queue.PushBatch(m.broadcast(RoundPrepareEvent{Round: m.phases.Round()})...)
	case 1:
		m.stage++
		var batch []Action
		for p := 0; p < 2; p++ {
			fixed := &InitialDiceColorValue{Player: p}
			m.Modify(fixed, ModeReal)
			random := max(0, m.Config.InitialDiceNumber-len(fixed.Colors))
			batch = append(batch, CreateDiceAction{Player: p, Colors: fixed.Colors, Random: random})
		}
		for p := 0; p < 2; p++ {
			reroll := &RerollValue{Player: p, Times: m.Config.InitialRerollTimes}
			m.Modify(reroll, ModeReal)
			if reroll.Times > 0 {
				batch = append(batch, GenerateRerollDiceRequestAction{Player: p, Times: reroll.Times})
			}
		}
		m.queue.PushBatch(batch...)
	default:
		m.enterPhase()
		m.current = m.firstPlayer
		m.actionStarted = false
	}
}

func (m *Match) advancePlayerAction() {
	if m.tables[0].DeclaredRoundEnd && m.tables[1].DeclaredRoundEnd {
		m.enterPhase()
		return
	}
	if m.tables[m.current].DeclaredRoundEnd {
		m.current = 1 - m.current
		m.actionStarted = false
	}
	if !m.actionStarted {
		m.actionStarted = true
		m.queue.PushBatch(m.broadcast(PlayerActionStartEvent{Player: m.current})...)
		return
	}
	m.requests = append(m.requests, m.combatRequests(m.current)...)
	if len(m.requests) == 0 {
		invariantf("player %d has no available action", m.current)
	}
}

func (m *Match) advanceRoundEnd() {
	switch m.stage {
	case 0:
		m.stage++
		m.queue.PushBatch(m.broadcast(RoundEndEvent{Round: m.phases.Round(), FirstPlayer: m.firstPlayer})...)
	case 1:
		m.stage++
		m.queue.PushBatch(
			DrawCardAction{Player: m.firstPlayer, Number: m.Config.RoundEndDrawNumber},
			DrawCardAction{Player: 1 - m.firstPlayer, Number: m.Config.RoundEndDrawNumber},
			RemoveDiceAction{Player: 0, All: true},
			RemoveDiceAction{Player: 1, All: true},
		)
	default:
		if m.phases.Round() >= m.Config.MaxRoundNumber {
			m.endMatch()
			return
		}
		m.enterPhase()
	}
}

// checkGameEnd ends the match once a side has no living character.
func (m *Match) checkGameEnd() bool {
	if m.state != rules.StateRunning {
		return true
	}
	if m.tables[0].AllDefeated() || m.tables[1].AllDefeated() {
		m.endMatch()
		return true
	}
	return false
}

// endMatch resolves the winner: the only side with a living character
// wins; otherwise the match is a draw. A character at zero HP whose defeat
// is still queued does not count as living.
func (m *Match) endMatch() {
	alive0 := m.tables[0].HasLivingCharacter()
	alive1 := m.tables[1].HasLivingCharacter()
	switch {
	case alive0 && !alive1:
		m.winner = 0
	case alive1 && !alive0:
		m.winner = 1
	default:
		m.winner = -1
	}
	m.phases.End()
	m.state = rules.StateEnded
	m.requests = nil
	m.queue.Clear()
	m.logger.Info("match ended",
		zap.Int("winner", m.winner),
		zap.Int("round", m.phases.Round()))
}
