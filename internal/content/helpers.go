package content

import "github.com/lpsim/lpsim-go/internal/game"

// opponentActive addresses the active character facing player.
func opponentActive(m *game.Match, player int) (game.Position, bool) {
	t := m.Table(1 - player)
	if t == nil {
		return game.Position{}, false
	}
	c := t.ActiveCharacter()
	if c == nil || !c.Alive() {
		return game.Position{}, false
	}
	return game.CharacterPosition(1-player, t.Active), true
}

func damage(source, target game.Position, element game.Element, amount int) game.DamageValue {
	return game.DamageValue{
		Source:  source,
		Target:  target,
		Type:    game.DamageTypeDamage,
		Element: element,
		Damage:  amount,
	}
}

func heal(source, target game.Position, amount int) game.DamageValue {
	return game.DamageValue{
		Source:  source,
		Target:  target,
		Type:    game.DamageTypeHeal,
		Element: game.ElementPiercing,
		Damage:  amount,
	}
}

// ownCharacters lists positions of the player's living characters
// accepted by keep.
func ownCharacters(m *game.Match, player int, keep func(*game.Character) bool) []game.Position {
	t := m.Table(player)
	var out []game.Position
	for i, c := range t.Characters {
		if c.Alive() && (keep == nil || keep(c)) {
			out = append(out, game.CharacterPosition(player, i))
		}
	}
	return out
}

// attachedTo reports whether pos is the character self is attached to.
func attachedTo(self *game.Object, pos game.Position) bool {
	return pos.Player == self.Position.Player && pos.Character == self.Position.Character
}

// activeOf reports whether pos is the active character of self's owner.
func activeOf(m *game.Match, self *game.Object, pos game.Position) bool {
	t := m.Table(self.Position.Player)
	return pos.Player == self.Position.Player && t != nil && t.Active == pos.Character
}

// fromOwner reports whether a damage originates from self's side.
func fromOwner(self *game.Object, dv *game.DamageValue) bool {
	return dv.Source.Player == self.Position.Player
}

// shield absorbs damage up to the remaining usage of self.
func shield(covers func(self *game.Object, dv *game.DamageValue, m *game.Match) bool) game.ModifierFunc {
	return func(self *game.Object, v game.Value, m *game.Match) game.Commit {
		dv := v.(game.DamageDecreaseValue)
		if dv.Type != game.DamageTypeDamage || dv.Damage <= 0 || self.Usage <= 0 {
			return nil
		}
		if !covers(self, dv.DamageValue, m) {
			return nil
		}
		absorbed := min(self.Usage, dv.Damage)
		dv.Damage -= absorbed
		return func(live *game.Object) {
			live.Usage -= absorbed
		}
	}
}

// boost adds amount to damage accepted by applies and spends one usage.
func boost(amount int, applies func(self *game.Object, dv *game.DamageValue, m *game.Match) bool) game.ModifierFunc {
	return func(self *game.Object, v game.Value, m *game.Match) game.Commit {
		dv := v.(game.DamageIncreaseValue)
		if dv.Type != game.DamageTypeDamage || self.Usage <= 0 || !applies(self, dv.DamageValue, m) {
			return nil
		}
		dv.Damage += amount
		return func(live *game.Object) {
			live.Usage--
		}
	}
}

// removeAtRoundEnd removes self when a round ends.
func removeAtRoundEnd(self *game.Object, ev game.Event, _ *game.Match) []game.Action {
	if _, ok := ev.(game.RoundEndEvent); ok {
		return []game.Action{game.RemoveObjectAction{Object: self.Position}}
	}
	return nil
}
