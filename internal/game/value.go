package game

import "github.com/lpsim/lpsim-go/internal/game/dice"

// Element is the element of a character or of a damage instance.
type Element string

const (
	ElementPhysical Element = "PHYSICAL"
	ElementCryo     Element = "CRYO"
	ElementHydro    Element = "HYDRO"
	ElementPyro     Element = "PYRO"
	ElementElectro  Element = "ELECTRO"
	ElementGeo      Element = "GEO"
	ElementDendro   Element = "DENDRO"
	ElementAnemo    Element = "ANEMO"
	ElementPiercing Element = "PIERCING"
)

// DiceColor maps an element to the matching die face. Physical and
// piercing map to omni.
func (e Element) DiceColor() dice.Color {
	switch e {
	case ElementCryo:
		return dice.ColorCryo
	case ElementHydro:
		return dice.ColorHydro
	case ElementPyro:
		return dice.ColorPyro
	case ElementElectro:
		return dice.ColorElectro
	case ElementGeo:
		return dice.ColorGeo
	case ElementDendro:
		return dice.ColorDendro
	case ElementAnemo:
		return dice.ColorAnemo
	}
	return dice.ColorOmni
}

// DamageType tells damage and healing apart.
type DamageType string

const (
	DamageTypeDamage DamageType = "DAMAGE"
	DamageTypeHeal   DamageType = "HEAL"
)

// Reaction is the elemental reaction a damage instance triggered.
type Reaction string

const (
	ReactionNone           Reaction = ""
	ReactionMelt           Reaction = "MELT"
	ReactionVaporize       Reaction = "VAPORIZE"
	ReactionOverloaded     Reaction = "OVERLOADED"
	ReactionSuperconduct   Reaction = "SUPERCONDUCT"
	ReactionElectroCharged Reaction = "ELECTRO_CHARGED"
	ReactionFrozen         Reaction = "FROZEN"
	ReactionSwirl          Reaction = "SWIRL"
	ReactionCrystallize    Reaction = "CRYSTALLIZE"
	ReactionBurning        Reaction = "BURNING"
	ReactionBloom          Reaction = "BLOOM"
	ReactionQuicken        Reaction = "QUICKEN"
)

// Mode selects how the modifier pipeline treats commits.
type Mode int

const (
	// ModeTest computes a preview and never mutates state.
	ModeTest Mode = iota + 1
	// ModeReal computes the same value and commits modifier side effects.
	ModeReal
)

func (m Mode) String() string {
	switch m {
	case ModeTest:
		return "TEST"
	case ModeReal:
		return "REAL"
	}
	return "UNKNOWN"
}

// ValueKind names the family of a value passed through the pipeline.
type ValueKind string

const (
	ValueCost             ValueKind = "COST"
	ValueCombatAction     ValueKind = "COMBAT_ACTION"
	ValueSkillAvailable   ValueKind = "SKILL_AVAILABLE"
	ValueReroll           ValueKind = "REROLL"
	ValueDamageIncrease   ValueKind = "DAMAGE_INCREASE"
	ValueDamageMultiply   ValueKind = "DAMAGE_MULTIPLY"
	ValueDamageDecrease   ValueKind = "DAMAGE_DECREASE"
	ValueDamageElemental  ValueKind = "DAMAGE_ELEMENT_ENHANCE"
	ValueInitialDiceColor ValueKind = "INITIAL_DICE_COLOR"
)

// Value is a mutable record passed through the modifier pipeline.
type Value interface {
	Kind() ValueKind
}

// CostAction names what a cost pays for.
type CostAction string

const (
	CostSkill           CostAction = "SKILL"
	CostCard            CostAction = "CARD"
	CostSwitchCharacter CostAction = "SWITCH_CHARACTER"
)

// CostValue is the dice cost of a player action.
type CostValue struct {
	Player   int        `json:"player"`
	Action   CostAction `json:"action"`
	Source   Position   `json:"source"`
	Target   Position   `json:"target"`
	Original dice.Cost  `json:"original"`
	Cost     dice.Cost  `json:"cost"`
}

func (*CostValue) Kind() ValueKind { return ValueCost }

// CombatActionKind names the player action being classified.
type CombatActionKind string

const (
	CombatSkill           CombatActionKind = "SKILL"
	CombatCard            CombatActionKind = "CARD"
	CombatSwitch          CombatActionKind = "SWITCH"
	CombatDeclareRoundEnd CombatActionKind = "DECLARE_ROUND_END"
	CombatTuning          CombatActionKind = "ELEMENTAL_TUNING"
)

// CombatActionValue decides whether a player action passes the turn.
type CombatActionValue struct {
	Player         int              `json:"player"`
	Action         CombatActionKind `json:"action"`
	Source         Position         `json:"source"`
	DoCombatAction bool             `json:"do_combat_action"`
}

func (*CombatActionValue) Kind() ValueKind { return ValueCombatAction }

// SkillAvailableValue decides whether a skill may be offered.
type SkillAvailableValue struct {
	Player    int      `json:"player"`
	Character int      `json:"character"`
	Skill     Position `json:"skill"`
	Available bool     `json:"available"`
}

func (*SkillAvailableValue) Kind() ValueKind { return ValueSkillAvailable }

// RerollValue is the number of reroll rounds granted in round prepare.
type RerollValue struct {
	Player int `json:"player"`
	Times  int `json:"times"`
}

func (*RerollValue) Kind() ValueKind { return ValueReroll }

// InitialDiceColorValue lists dice colors fixed ahead of the random roll
// in round prepare.
type InitialDiceColorValue struct {
	Player int          `json:"player"`
	Colors []dice.Color `json:"colors"`
}

func (*InitialDiceColorValue) Kind() ValueKind { return ValueInitialDiceColor }

// DamageValue is one damage or heal instance.
type DamageValue struct {
	Source    Position   `json:"source"`
	Target    Position   `json:"target"`
	Type      DamageType `json:"type"`
	Element   Element    `json:"element"`
	Damage    int        `json:"damage"`
	Reaction  Reaction   `json:"reaction,omitempty"`
	ReactedTo Element    `json:"reacted_to,omitempty"`
	SkillType SkillType  `json:"skill_type,omitempty"`
	IsCharged bool       `json:"is_charged,omitempty"`
	Derived   bool       `json:"derived,omitempty"`
}

// IsPiercing reports whether the damage ignores every modifier.
func (d *DamageValue) IsPiercing() bool {
	return d.Element == ElementPiercing
}

// DamageElementalValue lets modifiers convert the element of a damage
// before reactions are resolved.
type DamageElementalValue struct{ *DamageValue }

func (DamageElementalValue) Kind() ValueKind { return ValueDamageElemental }

// DamageIncreaseValue is the additive increase stage of a damage.
type DamageIncreaseValue struct{ *DamageValue }

func (DamageIncreaseValue) Kind() ValueKind { return ValueDamageIncrease }

// DamageMultiplyValue is the multiplicative stage of a damage.
type DamageMultiplyValue struct{ *DamageValue }

func (DamageMultiplyValue) Kind() ValueKind { return ValueDamageMultiply }

// DamageDecreaseValue is the reduction stage of a damage, where shields
// absorb.
type DamageDecreaseValue struct{ *DamageValue }

func (DamageDecreaseValue) Kind() ValueKind { return ValueDamageDecrease }
