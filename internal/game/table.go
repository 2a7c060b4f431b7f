package game

import "github.com/lpsim/lpsim-go/internal/game/dice"

// PlayerTable is everything one player owns.
type PlayerTable struct {
	Player           int          `json:"player"`
	Characters       []*Character `json:"characters"`
	Active           int          `json:"active"`
	Hand             []*Object    `json:"hand"`
	Deck             []*Object    `json:"deck"`
	Discard          []*Object    `json:"discard"`
	TeamStatuses     []*Object    `json:"team_statuses"`
	Summons          []*Object    `json:"summons"`
	Supports         []*Object    `json:"supports"`
	Dice             *dice.Pool   `json:"dice"`
	ArcaneLegendUsed bool         `json:"arcane_legend_used"`
	DeclaredRoundEnd bool         `json:"declared_round_end"`
}

func newPlayerTable(player int) *PlayerTable {
	return &PlayerTable{
		Player:       player,
		Active:       -1,
		Characters:   []*Character{},
		Hand:         []*Object{},
		Deck:         []*Object{},
		Discard:      []*Object{},
		TeamStatuses: []*Object{},
		Summons:      []*Object{},
		Supports:     []*Object{},
		Dice:         dice.NewPool(),
	}
}

// ActiveCharacter returns the active character, or nil before one is chosen.
func (t *PlayerTable) ActiveCharacter() *Character {
	if t.Active < 0 || t.Active >= len(t.Characters) {
		return nil
	}
	return t.Characters[t.Active]
}

// Character returns the character in slot i, or nil.
func (t *PlayerTable) Character(i int) *Character {
	if i < 0 || i >= len(t.Characters) {
		return nil
	}
	return t.Characters[i]
}

// AliveCount counts characters that are not defeated.
func (t *PlayerTable) AliveCount() int {
	n := 0
	for _, c := range t.Characters {
		if c.Alive() {
			n++
		}
	}
	return n
}

// AllDefeated reports whether the player has no character left.
func (t *PlayerTable) AllDefeated() bool {
	return len(t.Characters) > 0 && t.AliveCount() == 0
}

// HasLivingCharacter reports whether a character is neither defeated nor
// waiting for its defeat at zero HP.
func (t *PlayerTable) HasLivingCharacter() bool {
	for _, c := range t.Characters {
		if c.Alive() && c.HP > 0 {
			return true
		}
	}
	return false
}

// AliveIndices lists the slots of living characters, optionally skipping
// one slot.
func (t *PlayerTable) AliveIndices(skip int) []int {
	out := []int{}
	for i, c := range t.Characters {
		if i != skip && c.Alive() {
			out = append(out, i)
		}
	}
	return out
}

// NextCharacter returns the next living character after the active one,
// wrapping around, or -1 when there is none.
func (t *PlayerTable) NextCharacter() int {
	return t.cycleCharacter(1)
}

// PreviousCharacter mirrors NextCharacter.
func (t *PlayerTable) PreviousCharacter() int {
	return t.cycleCharacter(-1)
}

func (t *PlayerTable) cycleCharacter(step int) int {
	n := len(t.Characters)
	if n == 0 || t.Active < 0 {
		return -1
	}
	for i := 1; i < n; i++ {
		idx := ((t.Active+step*i)%n + n) % n
		if t.Characters[idx].Alive() {
			return idx
		}
	}
	return -1
}

// ChargedAttack reports whether a normal attack now would be charged.
func (t *PlayerTable) ChargedAttack() bool {
	return t.Dice.Len()%2 == 0
}

// HandCard returns the hand card with id.
func (t *PlayerTable) HandCard(id ObjectID) (*Object, int) {
	for i, c := range t.Hand {
		if c.ID == id {
			return c, i
		}
	}
	return nil, -1
}

// Summon returns the summon named name.
func (t *PlayerTable) Summon(name string) *Object {
	return findByName(t.Summons, name)
}

// Support returns the support named name.
func (t *PlayerTable) Support(name string) *Object {
	return findByName(t.Supports, name)
}

// TeamStatus returns the team status named name.
func (t *PlayerTable) TeamStatus(name string) *Object {
	return findByName(t.TeamStatuses, name)
}

// CardCount counts cards named name across hand, deck and discard.
func (t *PlayerTable) CardCount(name string) int {
	n := 0
	for _, zone := range [][]*Object{t.Hand, t.Deck, t.Discard} {
		for _, c := range zone {
			if c.Name == name {
				n++
			}
		}
	}
	return n
}

// objects lists the table in broadcast order: characters with their
// skills, equipment and statuses, then summons, supports and team statuses.
func (t *PlayerTable) objects() []*Object {
	var out []*Object
	for _, c := range t.Characters {
		out = append(out, c.objects()...)
	}
	out = append(out, t.Summons...)
	out = append(out, t.Supports...)
	out = append(out, t.TeamStatuses...)
	return out
}

// allObjects also includes cards, for lookups and definition binding.
func (t *PlayerTable) allObjects() []*Object {
	out := t.objects()
	out = append(out, t.Hand...)
	out = append(out, t.Deck...)
	out = append(out, t.Discard...)
	return out
}

// find locates an object by id.
func (t *PlayerTable) find(id ObjectID) *Object {
	for _, o := range t.allObjects() {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// zoneOf returns a pointer to the slice that holds objects of kind at pos,
// or nil for zones that are not plain lists. Equipment on a character goes
// to its equipment slots, everything else to its statuses.
func (t *PlayerTable) zoneOf(pos Position, kind Kind) *[]*Object {
	switch pos.Zone {
	case ZoneHand:
		return &t.Hand
	case ZoneDeck:
		return &t.Deck
	case ZoneDiscard:
		return &t.Discard
	case ZoneTeamStatus:
		return &t.TeamStatuses
	case ZoneSummon:
		return &t.Summons
	case ZoneSupport:
		return &t.Supports
	case ZoneCharacterStatus:
		c := t.Character(pos.Character)
		if c == nil {
			return nil
		}
		if kind.IsEquipment() {
			return &c.Equipment
		}
		return &c.Statuses
	}
	return nil
}

// detach removes the object with id from whichever list holds it.
func (t *PlayerTable) detach(id ObjectID) *Object {
	lists := []*[]*Object{&t.Hand, &t.Deck, &t.Discard, &t.TeamStatuses, &t.Summons, &t.Supports}
	for _, c := range t.Characters {
		lists = append(lists, &c.Statuses, &c.Equipment)
	}
	for _, list := range lists {
		for i, o := range *list {
			if o.ID == id {
				*list = append((*list)[:i:i], (*list)[i+1:]...)
				return o
			}
		}
	}
	return nil
}

func findByName(list []*Object, name string) *Object {
	for _, o := range list {
		if o.Name == name {
			return o
		}
	}
	return nil
}
