package content

import (
	"github.com/lpsim/lpsim-go/internal/game"
	"github.com/lpsim/lpsim-go/internal/game/dice"
)

const (
	TravelingMerchant = "Traveling Merchant"
	DiceTower         = "Dice Tower"
)

// refreshEachRound restores the usage of self when a round starts.
func refreshEachRound(self *game.Object, ev game.Event, _ *game.Match) []game.Action {
	if _, ok := ev.(game.RoundPrepareEvent); !ok || self.Usage >= self.MaxUsage {
		return nil
	}
	return []game.Action{game.ChangeObjectUsageAction{Object: self.Position, Absolute: true, Set: self.MaxUsage}}
}

func supportDefinitions() []*game.Definition {
	return []*game.Definition{
		{
			// One die off the first skill of the owner each round.
			Kind:     game.KindSupport,
			Name:     TravelingMerchant,
			Version:  "3.3",
			Usage:    1,
			MaxUsage: 1,
			Renew:    game.RenewReset,
			Handle:   refreshEachRound,
			Modifiers: []game.Modifier{{
				Value: game.ValueCost,
				Compute: func(self *game.Object, v game.Value, _ *game.Match) game.Commit {
					cv := v.(*game.CostValue)
					if cv.Player != self.Position.Player || cv.Action != game.CostSkill || self.Usage <= 0 {
						return nil
					}
					if cv.Cost.Decrease(1) == 0 {
						return nil
					}
					return func(live *game.Object) {
						live.Usage--
					}
				},
			}},
		},
		{
			// One extra reroll and one omni die every round prepare.
			Kind:     game.KindSupport,
			Name:     DiceTower,
			Version:  "3.3",
			Usage:    1,
			MaxUsage: 1,
			Renew:    game.RenewReset,
			Modifiers: []game.Modifier{
				{
					Value: game.ValueReroll,
					Compute: func(self *game.Object, v game.Value, _ *game.Match) game.Commit {
						rv := v.(*game.RerollValue)
						if rv.Player == self.Position.Player {
							rv.Times++
						}
						return nil
					},
				},
				{
					Value: game.ValueInitialDiceColor,
					Compute: func(self *game.Object, v game.Value, _ *game.Match) game.Commit {
						iv := v.(*game.InitialDiceColorValue)
						if iv.Player == self.Position.Player {
							iv.Colors = append(iv.Colors, dice.ColorOmni)
						}
						return nil
					},
				},
			},
		},
	}
}
