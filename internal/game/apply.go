package game

import (
	"github.com/lpsim/lpsim-go/internal/game/dice"
)

// apply mutates state for exactly one action and returns the events to
// broadcast plus follow-up actions produced by the mutation itself.
func (m *Match) apply(action Action) ([]Event, []Action) {
	switch a := action.(type) {
	case DrawCardAction:
		return m.applyDrawCard(a), nil
	case RestoreCardAction:
		return m.applyRestoreCard(a), nil
	case RemoveCardAction:
		return m.applyRemoveCard(a), nil
	case ChooseCharacterAction:
		t := m.table(a.Player)
		c := t.Character(a.Character)
		if c == nil || !c.Alive() {
			invariantf("choose character %d of player %d: not a living character", a.Character, a.Player)
		}
		prev := t.Active
		t.Active = a.Character
		m.sortDice(a.Player)
		return []Event{ChooseCharacterEvent{Action: a, Previous: prev}}, nil
	case CreateDiceAction:
		return m.applyCreateDice(a), nil
	case RemoveDiceAction:
		t := m.table(a.Player)
		var removed []dice.Color
		if a.All {
			removed = append([]dice.Color(nil), t.Dice.Dice...)
			t.Dice.Clear()
		} else {
			var err error
			removed, err = t.Dice.Remove(a.Indices)
			if err != nil {
				invariantf("remove dice of player %d: %v", a.Player, err)
			}
		}
		return []Event{RemoveDiceEvent{Action: a, Colors: removed}}, nil
	case DeclareRoundEndAction:
		t := m.table(a.Player)
		t.DeclaredRoundEnd = true
		if !m.table(1 - a.Player).DeclaredRoundEnd {
			m.firstPlayer = a.Player
		}
		return []Event{DeclareRoundEndEvent{Action: a}}, nil
	case ActionEndAction:
		if a.DoCombatAction {
			m.passTurn(a.Player)
		}
		return []Event{ActionEndEvent{Action: a}}, nil
	case SkipPlayerActionAction:
		m.passTurn(a.Player)
		return []Event{SkipPlayerActionEvent{Action: a}}, nil
	case SwitchCharacterAction:
		t := m.table(a.Player)
		c := t.Character(a.Character)
		if c == nil || !c.Alive() {
			invariantf("switch player %d to character %d: not a living character", a.Player, a.Character)
		}
		prev := t.Active
		t.Active = a.Character
		m.sortDice(a.Player)
		return []Event{SwitchCharacterEvent{Action: a, Previous: prev}}, nil
	case MakeDamageAction:
		return m.applyMakeDamage(a)
	case ChargeAction:
		c := m.table(a.Player).Character(a.Character)
		if c == nil {
			invariantf("charge player %d character %d: no such character", a.Player, a.Character)
		}
		before := c.Charge
		c.Charge = min(max(c.Charge+a.Charge, 0), c.MaxCharge)
		return []Event{ChargeEvent{Action: a, Before: before, After: c.Charge}}, nil
	case UseSkillAction:
		return m.applyUseSkill(a)
	case UseCardAction:
		return m.applyUseCard(a)
	case SkillEndAction:
		return []Event{SkillEndEvent{Action: a}}, nil
	case CharacterDefeatedAction:
		return m.applyCharacterDefeated(a)
	case CharacterReviveAction:
		c := m.table(a.Player).Character(a.Character)
		if c == nil || c.Alive() {
			invariantf("revive player %d character %d: not a defeated character", a.Player, a.Character)
		}
		c.Defeated = false
		c.HP = min(max(a.HP, 1), c.MaxHP)
		return []Event{CharacterReviveEvent{Action: a}}, nil
	case CreateObjectAction:
		return m.applyCreateObject(a)
	case RemoveObjectAction:
		return m.applyRemoveObject(a), nil
	case ChangeObjectUsageAction:
		obj := m.mustFind(a.Object)
		before := obj.Usage
		usage := obj.Usage + a.Delta
		if a.Absolute {
			usage = a.Set
		}
		if obj.MaxUsage > 0 {
			usage = min(usage, obj.MaxUsage)
		}
		obj.Usage = max(usage, 0)
		return []Event{ChangeObjectUsageEvent{Action: a, Before: before, After: obj.Usage}}, nil
	case MoveObjectAction:
		return m.applyMoveObject(a), nil
	case ConsumeArcaneLegendAction:
		t := m.table(a.Player)
		if t.ArcaneLegendUsed {
			invariantf("player %d spent the arcane legend twice", a.Player)
		}
		t.ArcaneLegendUsed = true
		return []Event{ConsumeArcaneLegendEvent{Action: a}}, nil
	case GenerateChooseCharacterRequestAction:
		t := m.table(a.Player)
		available := t.AliveIndices(t.Active)
		if len(available) > 0 {
			m.requests = append(m.requests, ChooseCharacterRequest{Player: a.Player, Available: available})
		}
		return []Event{GenerateChooseCharacterRequestEvent{Action: a}}, nil
	case GenerateRerollDiceRequestAction:
		t := m.table(a.Player)
		if a.Times > 0 {
			m.requests = append(m.requests, RerollDiceRequest{
				Player: a.Player,
				Colors: append([]dice.Color{}, t.Dice.Dice...),
				Times:  a.Times,
			})
		}
		return []Event{GenerateRerollDiceRequestEvent{Action: a}}, nil
	case GenerateSwitchCardRequestAction:
		t := m.table(a.Player)
		req := SwitchCardRequest{Player: a.Player, Cards: []ObjectID{}, Names: []string{}}
		for _, c := range t.Hand {
			req.Cards = append(req.Cards, c.ID)
			req.Names = append(req.Names, c.Name)
		}
		m.requests = append(m.requests, req)
		return []Event{GenerateSwitchCardRequestEvent{Action: a}}, nil
	}
	invariantf("unknown action %T", action)
	return nil, nil
}

func (m *Match) table(player int) *PlayerTable {
	t := m.Table(player)
	if t == nil {
		invariantf("no table for player %d", player)
	}
	return t
}

func (m *Match) mustFind(pos Position) *Object {
	obj := m.Find(pos)
	if obj == nil {
		invariantf("no object at %s", pos)
	}
	return obj
}

// passTurn hands the turn to the other player unless they already
// declared round end.
func (m *Match) passTurn(player int) {
	other := 1 - player
	if m.tables[other].DeclaredRoundEnd {
		return
	}
	m.current = other
	m.actionStarted = false
}

// sortDice keeps a pool ordered for the active character's element.
func (m *Match) sortDice(player int) {
	t := m.tables[player]
	preferred := dice.ColorOmni
	if c := t.ActiveCharacter(); c != nil {
		preferred = c.Element.DiceColor()
	}
	t.Dice.Sort(preferred)
}

func (m *Match) applyDrawCard(a DrawCardAction) []Event {
	t := m.table(a.Player)
	ev := DrawCardEvent{Action: a}
	for i := 0; i < a.Number && len(t.Deck) > 0; i++ {
		card := t.Deck[0]
		t.Deck = t.Deck[1:]
		if len(t.Hand) >= m.Config.MaxHandSize {
			card.Position = TablePosition(a.Player, ZoneDiscard).WithID(card.ID)
			t.Discard = append(t.Discard, card)
			ev.Burned = append(ev.Burned, card.ID)
			continue
		}
		card.Position = TablePosition(a.Player, ZoneHand).WithID(card.ID)
		t.Hand = append(t.Hand, card)
		ev.Drawn = append(ev.Drawn, card.ID)
	}
	return []Event{ev}
}

func (m *Match) applyRestoreCard(a RestoreCardAction) []Event {
	t := m.table(a.Player)
	for _, id := range a.Cards {
		card, idx := t.HandCard(id)
		if card == nil {
			invariantf("restore card %d of player %d: not in hand", id, a.Player)
		}
		t.Hand = append(t.Hand[:idx:idx], t.Hand[idx+1:]...)
		card.Position = TablePosition(a.Player, ZoneDeck).WithID(card.ID)
		at := m.rng.Intn(len(t.Deck) + 1)
		t.Deck = append(t.Deck[:at:at], append([]*Object{card}, t.Deck[at:]...)...)
	}
	return []Event{RestoreCardEvent{Action: a}}
}

func (m *Match) applyRemoveCard(a RemoveCardAction) []Event {
	t := m.table(a.Card.Player)
	if a.Card.Zone != ZoneHand && a.Card.Zone != ZoneDeck {
		invariantf("remove card from zone %s", a.Card.Zone)
	}
	card := t.detach(a.Card.ID)
	if card == nil {
		invariantf("remove card %s: not found", a.Card)
	}
	card.Position = TablePosition(a.Card.Player, ZoneDiscard).WithID(card.ID)
	t.Discard = append(t.Discard, card)
	return []Event{RemoveCardEvent{Action: a, Name: card.Name}}
}

func (m *Match) applyCreateDice(a CreateDiceAction) []Event {
	t := m.table(a.Player)
	colors := append([]dice.Color(nil), a.Colors...)
	for i := 0; i < a.Random; i++ {
		colors = append(colors, dice.Faces[m.rng.Intn(len(dice.Faces))])
	}
	room := max(m.Config.MaxDiceNumber-t.Dice.Len(), 0)
	lost := 0
	if len(colors) > room {
		lost = len(colors) - room
		colors = colors[:room]
	}
	t.Dice.Add(colors...)
	m.sortDice(a.Player)
	return []Event{CreateDiceEvent{Action: a, Colors: colors, Lost: lost}}
}

func (m *Match) applyUseSkill(a UseSkillAction) ([]Event, []Action) {
	c := m.CharacterAt(a.Skill)
	if c == nil {
		invariantf("use skill %s: no character", a.Skill)
	}
	skill := c.Skill(a.Skill.ID)
	if skill == nil || skill.def == nil || skill.def.Use == nil {
		invariantf("use skill %s: not a usable skill", a.Skill)
	}
	ctx := SkillContext{Player: a.Skill.Player, Character: a.Skill.Character, Charged: a.Charged}
	follow := skill.def.Use(skill, m, ctx)
	return []Event{UseSkillEvent{Action: a, SkillType: skill.SkillType, Name: skill.Name}}, follow
}

// applyUseCard moves the card to the discard zone and resolves it there.
func (m *Match) applyUseCard(a UseCardAction) ([]Event, []Action) {
	t := m.table(a.Card.Player)
	card, idx := t.HandCard(a.Card.ID)
	if card == nil {
		invariantf("use card %s: not in hand", a.Card)
	}
	t.Hand = append(t.Hand[:idx:idx], t.Hand[idx+1:]...)
	card.Position = TablePosition(a.Card.Player, ZoneDiscard).WithID(card.ID)
	t.Discard = append(t.Discard, card)
	var follow []Action
	if card.def != nil && card.def.Play != nil {
		follow = card.def.Play(card, m, a.Target)
	}
	return []Event{UseCardEvent{Action: a, Name: card.Name, Kind: card.Kind}}, follow
}

// applyCharacterDefeated clears the character and detaches everything it
// carries.
func (m *Match) applyCharacterDefeated(a CharacterDefeatedAction) ([]Event, []Action) {
	t := m.table(a.Player)
	c := t.Character(a.Character)
	if c == nil || c.Defeated {
		invariantf("defeat player %d character %d: not a living character", a.Player, a.Character)
	}
	c.Defeated = true
	c.HP = 0
	c.Charge = 0
	c.Applied = nil
	events := []Event{CharacterDefeatedEvent{Action: a, WasActive: t.Active == a.Character}}
	for _, list := range [][]*Object{c.Equipment, c.Statuses} {
		for _, obj := range list {
			events = append(events, RemoveObjectEvent{
				Action: RemoveObjectAction{Object: obj.Position},
				Object: obj,
			})
		}
	}
	c.Equipment = nil
	c.Statuses = nil
	return events, nil
}

// applyCreateObject instantiates a definition or renews the existing
// object of the same name.
func (m *Match) applyCreateObject(a CreateObjectAction) ([]Event, []Action) {
	def := m.lookup(a.Kind, a.Name, a.Version)
	t := m.table(a.Position.Player)
	usage := def.Usage
	if a.Usage > 0 {
		usage = a.Usage
	}
	ev := CreateObjectEvent{Action: a}

	var list *[]*Object
	limit := 0
	pos := a.Position
	switch {
	case def.Kind == KindCharacterStatus || def.Kind.IsEquipment():
		c := t.Character(pos.Character)
		if c == nil || !c.Alive() {
			invariantf("create %s %q on %s: no living character", def.Kind, def.Name, pos)
		}
		pos = Position{Player: pos.Player, Zone: ZoneCharacterStatus, Character: pos.Character}
		list = &c.Statuses
		if def.Kind.IsEquipment() {
			list = &c.Equipment
		}
	case def.Kind == KindTeamStatus:
		pos = TablePosition(pos.Player, ZoneTeamStatus)
		list = &t.TeamStatuses
	case def.Kind == KindSummon:
		pos = TablePosition(pos.Player, ZoneSummon)
		list = &t.Summons
		limit = m.Config.MaxSummonNumber
	case def.Kind == KindSupport:
		pos = TablePosition(pos.Player, ZoneSupport)
		list = &t.Supports
		limit = m.Config.MaxSupportNumber
	case def.Kind == KindCard:
		pos = TablePosition(pos.Player, ZoneHand)
		list = &t.Hand
		limit = m.Config.MaxHandSize
	default:
		invariantf("objects of kind %s cannot be created", def.Kind)
	}

	if existing := findByName(*list, def.Name); existing != nil && def.Kind != KindCard {
		existing.renew(usage)
		existing.Counters.Reset(counterPendingRemoval)
		ev.Object = existing.Position
		ev.Created = true
		ev.Renewed = true
		return []Event{ev}, nil
	}

	var events []Event
	if def.Kind.IsEquipment() {
		c := t.Character(pos.Character)
		if old := c.EquipmentOf(def.Kind); old != nil {
			t.detach(old.ID)
			ev.Replaced = old
			events = append(events, RemoveObjectEvent{Action: RemoveObjectAction{Object: old.Position}, Object: old})
		}
	}
	if limit > 0 && len(*list) >= limit {
		if def.Kind == KindCard {
			card := m.instantiate(def, TablePosition(pos.Player, ZoneDiscard))
			t.Discard = append(t.Discard, card)
			ev.Object = card.Position
		}
		return append([]Event{ev}, events...), nil
	}
	obj := m.instantiate(def, pos)
	obj.Usage = usage
	*list = append(*list, obj)
	ev.Object = obj.Position
	ev.Created = true
	return append([]Event{ev}, events...), nil
}

func (m *Match) applyRemoveObject(a RemoveObjectAction) []Event {
	t := m.table(a.Object.Player)
	obj := t.find(a.Object.ID)
	if obj == nil {
		if a.IfUsedUp {
			return []Event{RemoveObjectEvent{Action: a, Skipped: true}}
		}
		invariantf("remove object %s: not found", a.Object)
	}
	if obj.Kind == KindCharacter || obj.Kind == KindSkill {
		invariantf("remove object %s: characters and skills cannot be removed", a.Object)
	}
	if a.IfUsedUp && !obj.UsedUp() {
		obj.Counters.Reset(counterPendingRemoval)
		return []Event{RemoveObjectEvent{Action: a, Object: obj, Skipped: true}}
	}
	t.detach(obj.ID)
	return []Event{RemoveObjectEvent{Action: a, Object: obj}}
}

func (m *Match) applyMoveObject(a MoveObjectAction) []Event {
	src := m.table(a.Object.Player)
	dst := m.table(a.Target.Player)
	obj := src.find(a.Object.ID)
	if obj == nil {
		invariantf("move object %s: not found", a.Object)
	}
	if obj.Kind == KindCharacter || obj.Kind == KindSkill {
		invariantf("move object %s: characters and skills cannot move", a.Object)
	}
	list := dst.zoneOf(a.Target, obj.Kind)
	if list == nil {
		invariantf("move object %s: no zone at %s", a.Object, a.Target)
	}
	if a.Target.Zone == ZoneCharacterStatus && !dst.Character(a.Target.Character).Alive() {
		invariantf("move object %s: %s is not a living character", a.Object, a.Target)
	}
	from := obj.Position
	src.detach(obj.ID)

	var removed []Event
	if obj.Kind.IsEquipment() && a.Target.Zone == ZoneCharacterStatus {
		if old := dst.Character(a.Target.Character).EquipmentOf(obj.Kind); old != nil {
			dst.detach(old.ID)
			removed = append(removed, RemoveObjectEvent{Action: RemoveObjectAction{Object: old.Position}, Object: old})
		}
	}
	target := a.Target
	if limit := m.zoneLimit(target.Zone); limit > 0 && len(*list) >= limit {
		if obj.Kind != KindCard {
			return append(removed, RemoveObjectEvent{Action: RemoveObjectAction{Object: from}, Object: obj})
		}
		// A card with no room in hand is burned.
		target = TablePosition(target.Player, ZoneDiscard)
		list = &dst.Discard
	}
	obj.Position = target.WithID(obj.ID)
	*list = append(*list, obj)
	return append([]Event{MoveObjectEvent{Action: a, From: from, To: obj.Position}}, removed...)
}

// zoneLimit is the capacity of a table zone, 0 when unbounded.
func (m *Match) zoneLimit(zone Zone) int {
	switch zone {
	case ZoneSummon:
		return m.Config.MaxSummonNumber
	case ZoneSupport:
		return m.Config.MaxSupportNumber
	case ZoneHand:
		return m.Config.MaxHandSize
	}
	return 0
}
