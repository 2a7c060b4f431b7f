package content

import "github.com/lpsim/lpsim-go/internal/game"

const WaterSpirit = "Water Spirit"

// roundEndStrike deals amount of element to the opposing active character
// at the end of every round and spends one usage.
func roundEndStrike(element game.Element, amount int) game.Handler {
	return func(self *game.Object, ev game.Event, m *game.Match) []game.Action {
		if _, ok := ev.(game.RoundEndEvent); !ok || self.Usage <= 0 {
			return nil
		}
		actions := []game.Action{}
		if target, ok := opponentActive(m, self.Position.Player); ok {
			actions = append(actions, game.MakeDamageAction{
				Damages: []game.DamageValue{damage(self.Position, target, element, amount)},
			})
		}
		return append(actions, game.ChangeObjectUsageAction{Object: self.Position, Delta: -1})
	}
}

func summonDefinitions() []*game.Definition {
	return []*game.Definition{
		{
			Kind:             game.KindSummon,
			Name:             WaterSpirit,
			Version:          "3.3",
			Usage:            1,
			MaxUsage:         1,
			Renew:            game.RenewResetWithMax,
			RemoveWhenUsedUp: true,
			Handle:           roundEndStrike(game.ElementHydro, 1),
		},
		{
			Kind:             game.KindSummon,
			Name:             WaterSpirit,
			Version:          "4.0",
			Usage:            2,
			MaxUsage:         2,
			Renew:            game.RenewResetWithMax,
			RemoveWhenUsedUp: true,
			Handle:           roundEndStrike(game.ElementHydro, 1),
		},
		{
			Kind:             game.KindSummon,
			Name:             game.BurningFlameSummon,
			Version:          "3.3",
			Usage:            1,
			MaxUsage:         2,
			Renew:            game.RenewAdd,
			RemoveWhenUsedUp: true,
			Handle:           roundEndStrike(game.ElementPyro, 1),
		},
	}
}
