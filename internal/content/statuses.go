package content

import "github.com/lpsim/lpsim-go/internal/game"

const (
	StoneShield = "Stone Shield"
	SwiftSteps  = "Swift Steps"
)

func statusDefinitions() []*game.Definition {
	return []*game.Definition{
		{
			Kind:             game.KindCharacterStatus,
			Name:             StoneShield,
			Version:          "3.3",
			Usage:            2,
			MaxUsage:         2,
			Renew:            game.RenewResetWithMax,
			RemoveWhenUsedUp: true,
			Modifiers: []game.Modifier{{
				Value: game.ValueDamageDecrease,
				Compute: shield(func(self *game.Object, dv *game.DamageValue, _ *game.Match) bool {
					return attachedTo(self, dv.Target)
				}),
			}},
		},
		{
			// Frozen blocks skills until the round ends. Physical or pyro
			// damage shatters it for +2.
			Kind:             game.KindCharacterStatus,
			Name:             game.FrozenStatus,
			Version:          "3.3",
			Usage:            1,
			MaxUsage:         1,
			Renew:            game.RenewReset,
			RemoveWhenUsedUp: true,
			Handle:           removeAtRoundEnd,
			Modifiers: []game.Modifier{
				{
					Value: game.ValueSkillAvailable,
					Compute: func(self *game.Object, v game.Value, _ *game.Match) game.Commit {
						sv := v.(*game.SkillAvailableValue)
						if sv.Player == self.Position.Player && sv.Character == self.Position.Character {
							sv.Available = false
						}
						return nil
					},
				},
				{
					Value: game.ValueDamageIncrease,
					Compute: boost(2, func(self *game.Object, dv *game.DamageValue, _ *game.Match) bool {
						return attachedTo(self, dv.Target) &&
							(dv.Element == game.ElementPhysical || dv.Element == game.ElementPyro)
					}),
				},
			},
		},
		{
			Kind:             game.KindTeamStatus,
			Name:             game.CrystallizeShield,
			Version:          "3.3",
			Usage:            1,
			MaxUsage:         2,
			Renew:            game.RenewAdd,
			RemoveWhenUsedUp: true,
			Modifiers: []game.Modifier{{
				Value: game.ValueDamageDecrease,
				Compute: shield(func(self *game.Object, dv *game.DamageValue, m *game.Match) bool {
					return activeOf(m, self, dv.Target)
				}),
			}},
		},
		{
			Kind:             game.KindTeamStatus,
			Name:             game.CatalyzingFieldZone,
			Version:          "3.3",
			Usage:            2,
			MaxUsage:         2,
			Renew:            game.RenewResetWithMax,
			RemoveWhenUsedUp: true,
			Modifiers: []game.Modifier{{
				Value: game.ValueDamageIncrease,
				Compute: boost(1, func(self *game.Object, dv *game.DamageValue, _ *game.Match) bool {
					return fromOwner(self, dv) && dv.Target.Player != self.Position.Player &&
						(dv.Element == game.ElementElectro || dv.Element == game.ElementDendro)
				}),
			}},
		},
		{
			Kind:             game.KindTeamStatus,
			Name:             game.DendroCoreStatus,
			Version:          "3.3",
			Usage:            1,
			MaxUsage:         1,
			Renew:            game.RenewResetWithMax,
			RemoveWhenUsedUp: true,
			Modifiers: []game.Modifier{{
				Value: game.ValueDamageIncrease,
				Compute: boost(2, func(self *game.Object, dv *game.DamageValue, _ *game.Match) bool {
					return fromOwner(self, dv) && dv.Target.Player != self.Position.Player &&
						(dv.Element == game.ElementPyro || dv.Element == game.ElementElectro)
				}),
			}},
		},
		{
			// The next switch of its owner is a fast action.
			Kind:             game.KindTeamStatus,
			Name:             SwiftSteps,
			Version:          "3.3",
			Usage:            1,
			MaxUsage:         1,
			Renew:            game.RenewResetWithMax,
			RemoveWhenUsedUp: true,
			Modifiers: []game.Modifier{{
				Value: game.ValueCombatAction,
				Compute: func(self *game.Object, v game.Value, _ *game.Match) game.Commit {
					cv := v.(*game.CombatActionValue)
					if cv.Player != self.Position.Player || cv.Action != game.CombatSwitch ||
						!cv.DoCombatAction || self.Usage <= 0 {
						return nil
					}
					cv.DoCombatAction = false
					return func(live *game.Object) {
						live.Usage--
					}
				},
			}},
		},
	}
}
