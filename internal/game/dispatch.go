package game

import (
	"go.uber.org/zap"

	"github.com/lpsim/lpsim-go/internal/game/rules"
)

// drain applies queued actions until the queue is empty or the match ends.
// Each applied action is broadcast; the follow-ups returned by apply and by
// the handlers join the tail of the batch being drained.
func (m *Match) drain() {
	iterations := 0
	for m.state == rules.StateRunning {
		action, ok := m.queue.Pop()
		if !ok {
			return
		}
		iterations++
		if iterations > m.Config.MaxIterations {
			invariantf("dispatcher exceeded %d iterations while applying %s", m.Config.MaxIterations, action.Type())
		}
		events, followUps := m.apply(action)
		m.record(action)
		m.logger.Debug("action applied",
			zap.String("action", string(action.Type())),
			zap.Int("record_level", action.RecordLevel()),
			zap.Int("queue_len", m.queue.Len()))
		for _, ev := range events {
			followUps = append(followUps, m.broadcast(ev)...)
		}
		followUps = append(followUps, m.usedUpRemovals()...)
		m.queue.Append(followUps...)
		if m.checkGameEnd() {
			return
		}
	}
}

// broadcast delivers ev to observers, then to the engine, then to every
// object in table order.
func (m *Match) broadcast(ev Event) []Action {
	m.observers.Publish(ev)
	actions := m.handleSystem(ev)
	for _, obj := range m.objectsInOrder() {
		def := obj.def
		if def == nil || def.Handle == nil {
			continue
		}
		actions = append(actions, def.Handle(obj, ev, m)...)
	}
	return actions
}

// objectsInOrder lists every object that receives events, player 0's
// table first.
func (m *Match) objectsInOrder() []*Object {
	objs := m.tables[0].objects()
	return append(objs, m.tables[1].objects()...)
}

// Modify runs v through every modifier listening to its kind, in the same
// order as broadcasts. In ModeReal the commits of applied modifiers run
// against the live objects.
func (m *Match) Modify(v Value, mode Mode) Value {
	if mode != ModeTest && mode != ModeReal {
		invariantf("modifier pipeline called in mode %d", int(mode))
	}
	for _, obj := range m.objectsInOrder() {
		def := obj.def
		if def == nil {
			continue
		}
		for _, mod := range def.Modifiers {
			if mod.Value != v.Kind() || mod.Compute == nil {
				continue
			}
			commit := mod.Compute(obj.Clone(), v, m)
			if commit != nil && mode == ModeReal {
				commit(obj)
			}
		}
	}
	return v
}

// record appends action to the history when its level is significant
// enough.
func (m *Match) record(action Action) {
	if !m.Config.RecordHistory || action.RecordLevel() > m.Config.HistoryLevel {
		return
	}
	m.history = append(m.history, HistoryEntry{
		Round:  m.phases.Round(),
		Phase:  m.phases.Current(),
		Action: action,
	})
}

// usedUpRemovals schedules the removal of objects that ran out of usage.
func (m *Match) usedUpRemovals() []Action {
	var out []Action
	for _, obj := range m.objectsInOrder() {
		if !obj.UsedUp() || obj.Counters.Has(counterPendingRemoval) {
			continue
		}
		obj.Counters.Set(counterPendingRemoval, 1)
		out = append(out, RemoveObjectAction{Object: obj.Position, IfUsedUp: true})
	}
	return out
}

// handleSystem is the engine's own event handler. It runs before any
// object sees the event.
func (m *Match) handleSystem(ev Event) []Action {
	switch e := ev.(type) {
	case AfterMakeDamageEvent:
		var out []Action
		for p := 0; p < 2; p++ {
			for i, c := range m.tables[p].Characters {
				if c.HP <= 0 && !c.Defeated {
					out = append(out, CharacterDefeatedAction{Player: p, Character: i})
				}
			}
		}
		return out
	case CharacterDefeatedEvent:
		t := m.tables[e.Action.Player]
		if e.WasActive && t.AliveCount() > 0 {
			return []Action{GenerateChooseCharacterRequestAction{Player: e.Action.Player}}
		}
	case SkillEndEvent:
		if e.Action.SkillType != SkillNormalAttack && e.Action.SkillType != SkillElementalSkill {
			return nil
		}
		c := m.CharacterAt(e.Action.Skill)
		if c == nil || !c.Alive() {
			return nil
		}
		return []Action{ChargeAction{Player: e.Action.Skill.Player, Character: e.Action.Skill.Character, Charge: 1}}
	}
	return nil
}
