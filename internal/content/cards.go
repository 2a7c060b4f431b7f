package content

import (
	"github.com/lpsim/lpsim-go/internal/game"
	"github.com/lpsim/lpsim-go/internal/game/dice"
)

const (
	SweetMeal        = "Sweet Meal"
	Strategize       = "Strategize"
	TravelersSword   = "Traveler's Sword"
	MerchantContract = "Merchant Contract"
	SpiritCall       = "Spirit Call"
	SwiftStepsScroll = "Swift Steps Scroll"
	QuickStrike      = "Quick Strike"
	AncientRitual    = "Ancient Ritual"
	DiceTowerCard    = "Dice Tower Blueprint"
)

func mustCost(s string) dice.Cost {
	c, err := dice.ParseCost(s)
	if err != nil {
		panic(err)
	}
	return c
}

// createOnPlay returns a Play that creates one object on the player's
// own table.
func createOnPlay(kind game.Kind, name string, zone game.Zone) func(*game.Object, *game.Match, *game.Position) []game.Action {
	return func(self *game.Object, m *game.Match, _ *game.Position) []game.Action {
		return []game.Action{game.CreateObjectAction{
			Kind:     kind,
			Name:     name,
			Version:  m.Config.Version,
			Position: game.TablePosition(self.Position.Player, zone),
		}}
	}
}

func drawOnPlay(n int) func(*game.Object, *game.Match, *game.Position) []game.Action {
	return func(self *game.Object, _ *game.Match, _ *game.Position) []game.Action {
		return []game.Action{game.DrawCardAction{Player: self.Position.Player, Number: n}}
	}
}

// roomFor reports whether zone of the card owner has room for one more
// object not already present.
func roomFor(name string, zone game.Zone) func(*game.Object, *game.Match) bool {
	return func(self *game.Object, m *game.Match) bool {
		t := m.Table(self.Position.Player)
		switch zone {
		case game.ZoneSupport:
			return t.Support(name) != nil || len(t.Supports) < m.Config.MaxSupportNumber
		case game.ZoneSummon:
			return t.Summon(name) != nil || len(t.Summons) < m.Config.MaxSummonNumber
		}
		return true
	}
}

func cardDefinitions() []*game.Definition {
	return []*game.Definition{
		{
			Kind:    game.KindCard,
			Name:    SweetMeal,
			Version: "3.3",
			Targets: func(self *game.Object, m *game.Match) []game.Position {
				return ownCharacters(m, self.Position.Player, func(c *game.Character) bool {
					return c.HP < c.MaxHP
				})
			},
			Play: func(self *game.Object, _ *game.Match, target *game.Position) []game.Action {
				return []game.Action{game.MakeDamageAction{
					Damages: []game.DamageValue{heal(self.Position, *target, 2)},
				}}
			},
		},
		{
			Kind:    game.KindCard,
			Name:    Strategize,
			Version: "3.3",
			Cost:    mustCost("same:1"),
			Play:    drawOnPlay(2),
		},
		{
			Kind:    game.KindCard,
			Name:    TravelersSword,
			Version: "3.3",
			Cost:    mustCost("same:2"),
			Targets: func(self *game.Object, m *game.Match) []game.Position {
				return ownCharacters(m, self.Position.Player, nil)
			},
			Play: func(_ *game.Object, m *game.Match, target *game.Position) []game.Action {
				return []game.Action{game.CreateObjectAction{
					Kind:     game.KindWeapon,
					Name:     TravelersSword,
					Version:  m.Config.Version,
					Position: target.WithZone(game.ZoneCharacterStatus),
				}}
			},
		},
		{
			Kind:    game.KindCard,
			Name:    MerchantContract,
			Version: "3.3",
			Cost:    mustCost("any:1"),
			CanPlay: roomFor(TravelingMerchant, game.ZoneSupport),
			Play:    createOnPlay(game.KindSupport, TravelingMerchant, game.ZoneSupport),
		},
		{
			Kind:    game.KindCard,
			Name:    DiceTowerCard,
			Version: "3.3",
			Cost:    mustCost("any:2"),
			CanPlay: roomFor(DiceTower, game.ZoneSupport),
			Play:    createOnPlay(game.KindSupport, DiceTower, game.ZoneSupport),
		},
		{
			Kind:    game.KindCard,
			Name:    SpiritCall,
			Version: "3.3",
			Cost:    mustCost("any:1"),
			CanPlay: roomFor(WaterSpirit, game.ZoneSummon),
			Play:    createOnPlay(game.KindSummon, WaterSpirit, game.ZoneSummon),
		},
		{
			Kind:    game.KindCard,
			Name:    SwiftStepsScroll,
			Version: "3.3",
			Play:    createOnPlay(game.KindTeamStatus, SwiftSteps, game.ZoneTeamStatus),
		},
		{
			Kind:         game.KindCard,
			Name:         QuickStrike,
			Version:      "3.3",
			Cost:         mustCost("any:1"),
			CombatAction: true,
			Play: func(self *game.Object, m *game.Match, _ *game.Position) []game.Action {
				target, ok := opponentActive(m, self.Position.Player)
				if !ok {
					return nil
				}
				return []game.Action{game.MakeDamageAction{
					Damages: []game.DamageValue{damage(self.Position, target, game.ElementPhysical, 1)},
				}}
			},
		},
		{
			Kind:    game.KindCard,
			Name:    AncientRitual,
			Version: "3.3",
			Cost:    mustCost("arcane"),
			Play:    drawOnPlay(3),
		},
	}
}

func equipmentDefinitions() []*game.Definition {
	return []*game.Definition{
		{
			// +1 damage to skills of the equipped character.
			Kind:    game.KindWeapon,
			Name:    TravelersSword,
			Version: "3.3",
			Modifiers: []game.Modifier{{
				Value: game.ValueDamageIncrease,
				Compute: func(self *game.Object, v game.Value, _ *game.Match) game.Commit {
					dv := v.(game.DamageIncreaseValue)
					if dv.Type != game.DamageTypeDamage || dv.Derived || dv.Source.Zone != game.ZoneSkill ||
						!attachedTo(self, dv.Source) {
						return nil
					}
					dv.Damage++
					return nil
				},
			}},
		},
	}
}
