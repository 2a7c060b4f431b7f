package game

import (
	"fmt"
	"slices"

	"github.com/lpsim/lpsim-go/internal/game/dice"
)

// SkillCost runs the cost of a skill through the pipeline.
func (m *Match) SkillCost(skill *Object, mode Mode) dice.Cost {
	v := &CostValue{
		Player:   skill.Position.Player,
		Action:   CostSkill,
		Source:   skill.Position,
		Original: skill.Cost,
		Cost:     skill.Cost,
	}
	m.Modify(v, mode)
	return v.Cost
}

// CardCost runs the cost of a hand card through the pipeline.
func (m *Match) CardCost(card *Object, target *Position, mode Mode) dice.Cost {
	v := &CostValue{
		Player:   card.Position.Player,
		Action:   CostCard,
		Source:   card.Position,
		Original: card.Cost,
		Cost:     card.Cost,
	}
	if target != nil {
		v.Target = *target
	}
	m.Modify(v, mode)
	return v.Cost
}

// SwitchCost runs the cost of switching to character through the pipeline.
func (m *Match) SwitchCost(player, character int, mode Mode) dice.Cost {
	t := m.table(player)
	base := dice.Cost{AnyNumber: m.Config.SwitchCost}
	v := &CostValue{
		Player:   player,
		Action:   CostSwitchCharacter,
		Source:   CharacterPosition(player, t.Active),
		Target:   CharacterPosition(player, character),
		Original: base,
		Cost:     base,
	}
	m.Modify(v, mode)
	return v.Cost
}

// isCombatAction asks the pipeline whether an action passes the turn.
func (m *Match) isCombatAction(player int, kind CombatActionKind, source Position, mode Mode) bool {
	v := &CombatActionValue{Player: player, Action: kind, Source: source, DoCombatAction: true}
	if kind == CombatTuning {
		v.DoCombatAction = false
	}
	if kind == CombatCard {
		card := m.Find(source)
		v.DoCombatAction = card != nil && card.def != nil && card.def.CombatAction
	}
	m.Modify(v, mode)
	return v.DoCombatAction
}

func (m *Match) skillAvailable(player, character int, skill *Object) bool {
	v := &SkillAvailableValue{Player: player, Character: character, Skill: skill.Position, Available: true}
	m.Modify(v, ModeTest)
	return v.Available
}

// combatRequests builds the action menu of player.
func (m *Match) combatRequests(player int) []Request {
	t := m.table(player)
	var reqs []Request
	if active := t.ActiveCharacter(); active != nil && active.Alive() {
		for _, skill := range active.Skills {
			if skill.SkillType == SkillPassive || skill.def == nil || skill.def.Use == nil {
				continue
			}
			if !m.skillAvailable(player, t.Active, skill) {
				continue
			}
			cost := m.SkillCost(skill, ModeTest)
			if cost.Charge > active.Charge || !t.Dice.CanPay(cost) {
				continue
			}
			reqs = append(reqs, UseSkillRequest{
				Player:    player,
				Character: t.Active,
				Skill:     skill.ID,
				Name:      skill.Name,
				Cost:      cost,
			})
		}
		for _, idx := range t.AliveIndices(t.Active) {
			cost := m.SwitchCost(player, idx, ModeTest)
			if t.Dice.CanPay(cost) {
				reqs = append(reqs, SwitchCharacterRequest{Player: player, Active: t.Active, Target: idx, Cost: cost})
			}
		}
	}
	for _, card := range t.Hand {
		if req, ok := m.cardRequest(player, card); ok {
			reqs = append(reqs, req)
		}
	}
	if req, ok := m.tuningRequest(player); ok {
		reqs = append(reqs, req)
	}
	return append(reqs, DeclareRoundEndRequest{Player: player})
}

func (m *Match) cardRequest(player int, card *Object) (UseCardRequest, bool) {
	t := m.tables[player]
	def := card.def
	if def == nil || def.Play == nil {
		return UseCardRequest{}, false
	}
	if def.CanPlay != nil && !def.CanPlay(card, m) {
		return UseCardRequest{}, false
	}
	affordable := func(cost dice.Cost) bool {
		return !(cost.ArcaneLegend && t.ArcaneLegendUsed) && t.Dice.CanPay(cost)
	}
	req := UseCardRequest{Player: player, Card: card.ID, Name: card.Name}
	if def.Targets == nil {
		req.Cost = m.CardCost(card, nil, ModeTest)
		return req, affordable(req.Cost)
	}
	for _, target := range def.Targets(card, m) {
		cost := m.CardCost(card, &target, ModeTest)
		if !affordable(cost) {
			continue
		}
		req.Targets = append(req.Targets, target)
		req.TargetCosts = append(req.TargetCosts, cost)
	}
	if len(req.Targets) == 0 {
		return UseCardRequest{}, false
	}
	req.Cost = req.TargetCosts[0]
	return req, true
}

func (m *Match) tuningRequest(player int) (ElementalTuningRequest, bool) {
	t := m.tables[player]
	active := t.ActiveCharacter()
	if active == nil || len(t.Hand) == 0 {
		return ElementalTuningRequest{}, false
	}
	color := active.Element.DiceColor()
	if color == dice.ColorOmni {
		return ElementalTuningRequest{}, false
	}
	req := ElementalTuningRequest{Player: player, Color: color, Dice: []int{}, Cards: []ObjectID{}}
	for i, d := range t.Dice.Dice {
		if d != dice.ColorOmni && d != color {
			req.Dice = append(req.Dice, i)
		}
	}
	if len(req.Dice) == 0 {
		return ElementalTuningRequest{}, false
	}
	for _, c := range t.Hand {
		req.Cards = append(req.Cards, c.ID)
	}
	return req, true
}

// resolveResponse validates resp and turns it into seed batches. Every
// check runs before the first REAL modifier pass, so a rejected response
// leaves the match untouched.
func (m *Match) resolveResponse(resp Response) ([][]Action, error) {
	switch r := resp.(type) {
	case ChooseCharacterResponse:
		if !slices.Contains(r.Req.Available, r.Character) {
			return nil, fmt.Errorf("character %d not available: %w", r.Character, ErrInvalidSelection)
		}
		return [][]Action{{ChooseCharacterAction{Player: r.Req.Player, Character: r.Character}}}, nil
	case RerollDiceResponse:
		return m.resolveReroll(r)
	case SwitchCardResponse:
		if !uniqueIndices(r.Cards, len(r.Req.Cards)) {
			return nil, fmt.Errorf("card selection %v: %w", r.Cards, ErrInvalidSelection)
		}
		if len(r.Cards) == 0 {
			return nil, nil
		}
		ids := make([]ObjectID, 0, len(r.Cards))
		for _, i := range r.Cards {
			ids = append(ids, r.Req.Cards[i])
		}
		return [][]Action{
			{RestoreCardAction{Player: r.Req.Player, Cards: ids}},
			{DrawCardAction{Player: r.Req.Player, Number: len(ids)}},
		}, nil
	case UseSkillResponse:
		return m.resolveUseSkill(r)
	case UseCardResponse:
		return m.resolveUseCard(r)
	case SwitchCharacterResponse:
		return m.resolveSwitch(r)
	case ElementalTuningResponse:
		return m.resolveTuning(r)
	case DeclareRoundEndResponse:
		p := r.Req.Player
		return [][]Action{
			{DeclareRoundEndAction{Player: p}},
			{ActionEndAction{Player: p, Action: CombatDeclareRoundEnd, Source: SystemPosition, DoCombatAction: true}},
		}, nil
	}
	return nil, fmt.Errorf("response %T: %w", resp, ErrRequestMismatch)
}

func (m *Match) resolveReroll(r RerollDiceResponse) ([][]Action, error) {
	p := r.Req.Player
	if !uniqueIndices(r.Dice, len(r.Req.Colors)) {
		return nil, fmt.Errorf("reroll selection %v: %w", r.Dice, ErrInvalidSelection)
	}
	if len(r.Dice) == 0 {
		return nil, nil
	}
	batches := [][]Action{{
		RemoveDiceAction{Player: p, Indices: sortedCopy(r.Dice)},
		CreateDiceAction{Player: p, Random: len(r.Dice)},
	}}
	if r.Req.Times > 1 {
		batches = append(batches, []Action{GenerateRerollDiceRequestAction{Player: p, Times: r.Req.Times - 1}})
	}
	return batches, nil
}

// payment checks that the dice at indices pay cost exactly.
func (m *Match) payment(player int, indices []int, cost dice.Cost) error {
	t := m.tables[player]
	colors, err := t.Dice.Colors(indices)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidSelection)
	}
	if !cost.Pays(colors) {
		return fmt.Errorf("dice %v do not pay %s: %w", colors, cost, ErrInvalidSelection)
	}
	return nil
}

// commitCost runs the REAL pass of a cost and checks it against the
// preview the request was built from.
func commitCost(previewed, committed dice.Cost, what string) {
	if previewed != committed {
		invariantf("%s cost changed between TEST (%s) and REAL (%s)", what, previewed, committed)
	}
}

func (m *Match) resolveUseSkill(r UseSkillResponse) ([][]Action, error) {
	p := r.Req.Player
	t := m.tables[p]
	active := t.ActiveCharacter()
	if active == nil || t.Active != r.Req.Character {
		return nil, fmt.Errorf("character %d is not active: %w", r.Req.Character, ErrInvalidSelection)
	}
	skill := active.Skill(r.Req.Skill)
	if skill == nil {
		return nil, fmt.Errorf("skill %d not found: %w", r.Req.Skill, ErrInvalidSelection)
	}
	cost := m.SkillCost(skill, ModeTest)
	if err := m.payment(p, r.Dice, cost); err != nil {
		return nil, err
	}
	charged := t.ChargedAttack()
	commitCost(cost, m.SkillCost(skill, ModeReal), "skill")
	combat := m.isCombatAction(p, CombatSkill, skill.Position, ModeReal)

	first := []Action{RemoveDiceAction{Player: p, Indices: sortedCopy(r.Dice)}}
	if cost.Charge > 0 {
		first = append(first, ChargeAction{Player: p, Character: t.Active, Charge: -cost.Charge})
	}
	return [][]Action{
		first,
		{UseSkillAction{Skill: skill.Position, Charged: charged && skill.SkillType == SkillNormalAttack}},
		{SkillEndAction{Skill: skill.Position, SkillType: skill.SkillType}},
		{ActionEndAction{Player: p, Action: CombatSkill, Source: skill.Position, DoCombatAction: combat}},
	}, nil
}

func (m *Match) resolveUseCard(r UseCardResponse) ([][]Action, error) {
	p := r.Req.Player
	t := m.tables[p]
	card, _ := t.HandCard(r.Req.Card)
	if card == nil {
		return nil, fmt.Errorf("card %d not in hand: %w", r.Req.Card, ErrInvalidSelection)
	}
	if len(r.Req.Targets) > 0 {
		if r.Target == nil || !slices.Contains(r.Req.Targets, *r.Target) {
			return nil, fmt.Errorf("card target: %w", ErrInvalidSelection)
		}
	} else if r.Target != nil {
		return nil, fmt.Errorf("card takes no target: %w", ErrInvalidSelection)
	}
	cost := m.CardCost(card, r.Target, ModeTest)
	if err := m.payment(p, r.Dice, cost); err != nil {
		return nil, err
	}
	commitCost(cost, m.CardCost(card, r.Target, ModeReal), "card")
	combat := m.isCombatAction(p, CombatCard, card.Position, ModeReal)

	first := []Action{RemoveDiceAction{Player: p, Indices: sortedCopy(r.Dice)}}
	if cost.ArcaneLegend {
		first = append(first, ConsumeArcaneLegendAction{Player: p})
	}
	return [][]Action{
		first,
		{UseCardAction{Card: card.Position, Target: r.Target}},
		{ActionEndAction{Player: p, Action: CombatCard, Source: card.Position, DoCombatAction: combat}},
	}, nil
}

func (m *Match) resolveSwitch(r SwitchCharacterResponse) ([][]Action, error) {
	p := r.Req.Player
	t := m.tables[p]
	if t.Active != r.Req.Active {
		return nil, fmt.Errorf("active character changed: %w", ErrInvalidSelection)
	}
	target := t.Character(r.Req.Target)
	if target == nil || !target.Alive() || r.Req.Target == t.Active {
		return nil, fmt.Errorf("cannot switch to %d: %w", r.Req.Target, ErrInvalidSelection)
	}
	cost := m.SwitchCost(p, r.Req.Target, ModeTest)
	if err := m.payment(p, r.Dice, cost); err != nil {
		return nil, err
	}
	commitCost(cost, m.SwitchCost(p, r.Req.Target, ModeReal), "switch")
	source := CharacterPosition(p, t.Active)
	combat := m.isCombatAction(p, CombatSwitch, source, ModeReal)
	return [][]Action{
		{RemoveDiceAction{Player: p, Indices: sortedCopy(r.Dice)}},
		{SwitchCharacterAction{Player: p, Character: r.Req.Target}},
		{ActionEndAction{Player: p, Action: CombatSwitch, Source: source, DoCombatAction: combat}},
	}, nil
}

func (m *Match) resolveTuning(r ElementalTuningResponse) ([][]Action, error) {
	p := r.Req.Player
	t := m.tables[p]
	if !slices.Contains(r.Req.Dice, r.Die) || r.Die >= t.Dice.Len() {
		return nil, fmt.Errorf("die %d cannot be tuned: %w", r.Die, ErrInvalidSelection)
	}
	card, _ := t.HandCard(r.Card)
	if card == nil || !slices.Contains(r.Req.Cards, r.Card) {
		return nil, fmt.Errorf("card %d cannot be tuned: %w", r.Card, ErrInvalidSelection)
	}
	combat := m.isCombatAction(p, CombatTuning, card.Position, ModeReal)
	return [][]Action{
		{
			RemoveCardAction{Card: card.Position, Reason: RemoveCardTuned},
			RemoveDiceAction{Player: p, Indices: []int{r.Die}},
			CreateDiceAction{Player: p, Colors: []dice.Color{r.Req.Color}},
		},
		{ActionEndAction{Player: p, Action: CombatTuning, Source: card.Position, DoCombatAction: combat}},
	}, nil
}

func sortedCopy(indices []int) []int {
	out := append([]int(nil), indices...)
	slices.Sort(out)
	return out
}
