package game

// Names of the objects created by reactions. Content must register them.
const (
	FrozenStatus        = "Frozen"
	CrystallizeShield   = "Crystallize"
	BurningFlameSummon  = "Burning Flame"
	DendroCoreStatus    = "Dendro Core"
	CatalyzingFieldZone = "Catalyzing Field"
)

type reactionRule struct {
	reaction Reaction
	bonus    int
}

// reactionTable maps incoming element, then applied element, to the
// resulting reaction.
var reactionTable = map[Element]map[Element]reactionRule{
	ElementPyro: {
		ElementCryo:    {ReactionMelt, 2},
		ElementHydro:   {ReactionVaporize, 2},
		ElementElectro: {ReactionOverloaded, 2},
		ElementDendro:  {ReactionBurning, 1},
	},
	ElementHydro: {
		ElementPyro:    {ReactionVaporize, 2},
		ElementCryo:    {ReactionFrozen, 1},
		ElementElectro: {ReactionElectroCharged, 1},
		ElementDendro:  {ReactionBloom, 1},
	},
	ElementElectro: {
		ElementPyro:   {ReactionOverloaded, 2},
		ElementCryo:   {ReactionSuperconduct, 1},
		ElementHydro:  {ReactionElectroCharged, 1},
		ElementDendro: {ReactionQuicken, 1},
	},
	ElementCryo: {
		ElementPyro:    {ReactionMelt, 2},
		ElementHydro:   {ReactionFrozen, 1},
		ElementElectro: {ReactionSuperconduct, 1},
	},
	ElementDendro: {
		ElementPyro:    {ReactionBurning, 1},
		ElementHydro:   {ReactionBloom, 1},
		ElementElectro: {ReactionQuicken, 1},
	},
	ElementAnemo: {
		ElementCryo:    {ReactionSwirl, 0},
		ElementHydro:   {ReactionSwirl, 0},
		ElementPyro:    {ReactionSwirl, 0},
		ElementElectro: {ReactionSwirl, 0},
	},
	ElementGeo: {
		ElementCryo:    {ReactionCrystallize, 1},
		ElementHydro:   {ReactionCrystallize, 1},
		ElementPyro:    {ReactionCrystallize, 1},
		ElementElectro: {ReactionCrystallize, 1},
	},
}

// applyMakeDamage resolves every instance of a in order. Side damage from
// reactions is resolved after the instances already listed.
func (m *Match) applyMakeDamage(a MakeDamageAction) ([]Event, []Action) {
	pending := append([]DamageValue(nil), a.Damages...)
	var results []DamageResult
	var follow []Action
	for i := 0; i < len(pending); i++ {
		dv := pending[i]
		c := m.CharacterAt(dv.Target)
		if c == nil {
			invariantf("damage target %s: no character", dv.Target)
		}
		if !c.Alive() {
			continue
		}
		before := c.HP
		if dv.Type == DamageTypeHeal {
			c.HP = min(c.HP+max(dv.Damage, 0), c.MaxHP)
			results = append(results, DamageResult{Damage: dv, HPBefore: before, HPAfter: c.HP})
			continue
		}
		if !dv.IsPiercing() {
			m.Modify(DamageElementalValue{&dv}, ModeReal)
			extra, actions := m.react(c, &dv)
			pending = append(pending, extra...)
			follow = append(follow, actions...)
			m.Modify(DamageIncreaseValue{&dv}, ModeReal)
			m.Modify(DamageMultiplyValue{&dv}, ModeReal)
			m.Modify(DamageDecreaseValue{&dv}, ModeReal)
		}
		dv.Damage = max(dv.Damage, 0)
		c.HP = max(c.HP-dv.Damage, 0)
		results = append(results, DamageResult{Damage: dv, HPBefore: before, HPAfter: c.HP})
	}
	events := make([]Event, 0, len(results)+2)
	events = append(events, MakeDamageEvent{Action: a, Results: results})
	for _, r := range results {
		events = append(events, ReceiveDamageEvent{Result: r})
	}
	events = append(events, AfterMakeDamageEvent{Results: results})
	return events, follow
}

// react applies the element of dv to target, resolving at most one
// reaction. It returns side damage and the actions the reaction causes.
func (m *Match) react(target *Character, dv *DamageValue) ([]DamageValue, []Action) {
	elem := dv.Element
	if elem == ElementPhysical || elem == ElementPiercing {
		return nil, nil
	}
	consumed := -1
	var rule reactionRule
	for i, applied := range target.Applied {
		if r, ok := reactionTable[elem][applied]; ok {
			consumed, rule = i, r
			break
		}
	}
	if consumed < 0 {
		if elem != ElementAnemo && elem != ElementGeo && !target.HasApplied(elem) {
			target.Applied = append(target.Applied, elem)
		}
		return nil, nil
	}
	reactedTo := target.Applied[consumed]
	target.Applied = append(target.Applied[:consumed:consumed], target.Applied[consumed+1:]...)
	dv.Reaction = rule.reaction
	dv.ReactedTo = reactedTo
	dv.Damage += rule.bonus

	player := dv.Target.Player
	attacker := 1 - player
	version := m.Config.Version
	var extra []DamageValue
	var actions []Action
	others := func(element Element) {
		t := m.tables[player]
		for _, idx := range t.AliveIndices(dv.Target.Character) {
			extra = append(extra, DamageValue{
				Source:  dv.Source,
				Target:  CharacterPosition(player, idx),
				Type:    DamageTypeDamage,
				Element: element,
				Damage:  1,
				Derived: true,
			})
		}
	}
	switch rule.reaction {
	case ReactionSuperconduct, ReactionElectroCharged:
		others(ElementPiercing)
	case ReactionSwirl:
		others(reactedTo)
	case ReactionFrozen:
		actions = append(actions, CreateObjectAction{
			Kind: KindCharacterStatus, Name: FrozenStatus, Version: version,
			Position: dv.Target.WithZone(ZoneCharacterStatus),
		})
	case ReactionCrystallize:
		actions = append(actions, CreateObjectAction{
			Kind: KindTeamStatus, Name: CrystallizeShield, Version: version,
			Position: TablePosition(attacker, ZoneTeamStatus),
		})
	case ReactionBurning:
		actions = append(actions, CreateObjectAction{
			Kind: KindSummon, Name: BurningFlameSummon, Version: version,
			Position: TablePosition(attacker, ZoneSummon),
		})
	case ReactionBloom:
		actions = append(actions, CreateObjectAction{
			Kind: KindTeamStatus, Name: DendroCoreStatus, Version: version,
			Position: TablePosition(attacker, ZoneTeamStatus),
		})
	case ReactionQuicken:
		actions = append(actions, CreateObjectAction{
			Kind: KindTeamStatus, Name: CatalyzingFieldZone, Version: version,
			Position: TablePosition(attacker, ZoneTeamStatus),
		})
	case ReactionOverloaded:
		t := m.tables[player]
		if t.Active == dv.Target.Character {
			if next := t.NextCharacter(); next >= 0 {
				actions = append(actions, SwitchCharacterAction{Player: player, Character: next})
			}
		}
	}
	return extra, actions
}
