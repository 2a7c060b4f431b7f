package game

import (
	"github.com/lpsim/lpsim-go/internal/game/counters"
	"github.com/lpsim/lpsim-go/internal/game/dice"
)

// Kind classifies objects.
type Kind string

const (
	KindCharacter       Kind = "CHARACTER"
	KindSkill           Kind = "SKILL"
	KindCharacterStatus Kind = "CHARACTER_STATUS"
	KindTeamStatus      Kind = "TEAM_STATUS"
	KindSummon          Kind = "SUMMON"
	KindSupport         Kind = "SUPPORT"
	KindCard            Kind = "CARD"
	KindWeapon          Kind = "WEAPON"
	KindArtifact        Kind = "ARTIFACT"
	KindTalent          Kind = "TALENT"
)

// IsEquipment reports whether objects of kind k occupy a character
// equipment slot.
func (k Kind) IsEquipment() bool {
	return k == KindWeapon || k == KindArtifact || k == KindTalent
}

// RenewPolicy decides how an existing object absorbs a duplicate creation.
type RenewPolicy string

const (
	// RenewAdd adds the new usage, capped at the maximum.
	RenewAdd RenewPolicy = "ADD"
	// RenewReset replaces the usage with the new value.
	RenewReset RenewPolicy = "RESET"
	// RenewResetWithMax keeps the larger of the old and new usage.
	RenewResetWithMax RenewPolicy = "RESET_WITH_MAX"
)

// SkillType classifies character skills.
type SkillType string

const (
	SkillNormalAttack   SkillType = "NORMAL_ATTACK"
	SkillElementalSkill SkillType = "ELEMENTAL_SKILL"
	SkillElementalBurst SkillType = "ELEMENTAL_BURST"
	SkillPassive        SkillType = "PASSIVE"
)

// Counter names managed by the engine.
const (
	counterPendingRemoval = "pending_removal"
)

// Object is the state of anything on a player table besides the dice pool.
// Behaviour lives in the Definition the object was created from; the object
// itself only carries data so that it serializes as-is.
type Object struct {
	ID        ObjectID          `json:"id"`
	Kind      Kind              `json:"kind"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Position  Position          `json:"position"`
	Usage     int               `json:"usage"`
	MaxUsage  int               `json:"max_usage"`
	Renew     RenewPolicy       `json:"renew,omitempty"`
	Cost      dice.Cost         `json:"cost"`
	SkillType SkillType         `json:"skill_type,omitempty"`
	Counters  counters.Counters `json:"counters"`

	def *Definition
}

// Definition returns the behaviour bound to o, nil for plain data objects.
func (o *Object) Definition() *Definition {
	return o.def
}

// UsedUp reports whether o tracks usage and has none left.
func (o *Object) UsedUp() bool {
	return o.def != nil && o.def.RemoveWhenUsedUp && o.Usage <= 0
}

// Clone returns a deep copy of o bound to the same definition.
func (o *Object) Clone() *Object {
	c := *o
	c.Counters = o.Counters.Clone()
	return &c
}

// renew folds a duplicate creation into o according to its policy.
func (o *Object) renew(usage int) {
	switch o.Renew {
	case RenewReset:
		o.Usage = usage
	case RenewResetWithMax:
		o.Usage = max(o.Usage, usage)
	default:
		o.Usage += usage
	}
	if o.MaxUsage > 0 {
		o.Usage = min(o.Usage, o.MaxUsage)
	}
}

// Character is a playable character and everything attached to it.
type Character struct {
	Object

	HP        int       `json:"hp"`
	MaxHP     int       `json:"max_hp"`
	Charge    int       `json:"charge"`
	MaxCharge int       `json:"max_charge"`
	Element   Element   `json:"element"`
	Defeated  bool      `json:"defeated"`
	Applied   []Element `json:"applied,omitempty"`
	Skills    []*Object `json:"skills"`
	Equipment []*Object `json:"equipment,omitempty"`
	Statuses  []*Object `json:"statuses,omitempty"`
}

// Alive reports whether the character can still act.
func (c *Character) Alive() bool {
	return !c.Defeated
}

// HasApplied reports whether element e is attached to the character.
func (c *Character) HasApplied(e Element) bool {
	for _, a := range c.Applied {
		if a == e {
			return true
		}
	}
	return false
}

// Status returns the first character status named name.
func (c *Character) Status(name string) *Object {
	for _, s := range c.Statuses {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// EquipmentOf returns the equipment occupying slot kind.
func (c *Character) EquipmentOf(kind Kind) *Object {
	for _, e := range c.Equipment {
		if e.Kind == kind {
			return e
		}
	}
	return nil
}

// Skill returns the skill with the given ID.
func (c *Character) Skill(id ObjectID) *Object {
	for _, s := range c.Skills {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// objects lists the character and its attachments in broadcast order.
func (c *Character) objects() []*Object {
	out := make([]*Object, 0, 1+len(c.Skills)+len(c.Equipment)+len(c.Statuses))
	out = append(out, &c.Object)
	out = append(out, c.Skills...)
	out = append(out, c.Equipment...)
	out = append(out, c.Statuses...)
	return out
}

// setPlayer updates the character slot of the character and its attachments.
func (c *Character) setPlayer(player, index int) {
	c.Position = CharacterPosition(player, index).WithID(c.ID)
	for _, s := range c.Skills {
		s.Position = Position{Player: player, Zone: ZoneSkill, Character: index, ID: s.ID}
	}
	for _, o := range c.Equipment {
		o.Position = Position{Player: player, Zone: ZoneCharacterStatus, Character: index, ID: o.ID}
	}
	for _, o := range c.Statuses {
		o.Position = Position{Player: player, Zone: ZoneCharacterStatus, Character: index, ID: o.ID}
	}
}
