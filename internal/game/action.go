package game

import "github.com/lpsim/lpsim-go/internal/game/dice"

// ActionType tags every action variant. It doubles as the type field of
// the serialized envelope.
type ActionType string

const (
	ActionDrawCard                       ActionType = "DRAW_CARD"
	ActionRestoreCard                    ActionType = "RESTORE_CARD"
	ActionRemoveCard                     ActionType = "REMOVE_CARD"
	ActionChooseCharacter                ActionType = "CHOOSE_CHARACTER"
	ActionCreateDice                     ActionType = "CREATE_DICE"
	ActionRemoveDice                     ActionType = "REMOVE_DICE"
	ActionDeclareRoundEnd                ActionType = "DECLARE_ROUND_END"
	ActionActionEnd                      ActionType = "ACTION_END"
	ActionSwitchCharacter                ActionType = "SWITCH_CHARACTER"
	ActionMakeDamage                     ActionType = "MAKE_DAMAGE"
	ActionCharge                         ActionType = "CHARGE"
	ActionUseSkill                       ActionType = "USE_SKILL"
	ActionUseCard                        ActionType = "USE_CARD"
	ActionSkillEnd                       ActionType = "SKILL_END"
	ActionCharacterDefeated              ActionType = "CHARACTER_DEFEATED"
	ActionCharacterRevive                ActionType = "CHARACTER_REVIVE"
	ActionCreateObject                   ActionType = "CREATE_OBJECT"
	ActionRemoveObject                   ActionType = "REMOVE_OBJECT"
	ActionChangeObjectUsage              ActionType = "CHANGE_OBJECT_USAGE"
	ActionMoveObject                     ActionType = "MOVE_OBJECT"
	ActionConsumeArcaneLegend            ActionType = "CONSUME_ARCANE_LEGEND"
	ActionGenerateChooseCharacterRequest ActionType = "GENERATE_CHOOSE_CHARACTER_REQUEST"
	ActionGenerateRerollDiceRequest      ActionType = "GENERATE_REROLL_DICE_REQUEST"
	ActionGenerateSwitchCardRequest      ActionType = "GENERATE_SWITCH_CARD_REQUEST"
	ActionSkipPlayerAction               ActionType = "SKIP_PLAYER_ACTION"
)

// History record levels. Lower levels are more significant; an action is
// recorded when its level does not exceed the configured history level.
const (
	RecordCritical = 0
	RecordState    = 10
	RecordDetail   = 20
)

// Action is an atomic state change. The set of variants is closed.
type Action interface {
	Type() ActionType
	RecordLevel() int
	isAction()
}

// DrawCardAction draws cards from the top of a deck.
type DrawCardAction struct {
	Player int `json:"player"`
	Number int `json:"number"`
}

// RestoreCardAction returns hand cards to random deck positions.
type RestoreCardAction struct {
	Player int        `json:"player"`
	Cards  []ObjectID `json:"cards"`
}

// RemoveCardReason records why a card left the hand or deck.
type RemoveCardReason string

const (
	RemoveCardUsed      RemoveCardReason = "USED"
	RemoveCardBurned    RemoveCardReason = "BURNED"
	RemoveCardTuned     RemoveCardReason = "TUNED"
	RemoveCardDiscarded RemoveCardReason = "DISCARDED"
)

// RemoveCardAction moves a card to the discard zone.
type RemoveCardAction struct {
	Card   Position         `json:"card"`
	Reason RemoveCardReason `json:"reason"`
}

// ChooseCharacterAction sets the active character without counting as a
// switch.
type ChooseCharacterAction struct {
	Player    int `json:"player"`
	Character int `json:"character"`
}

// CreateDiceAction adds dice. Colors are created as listed, then Random
// more are rolled.
type CreateDiceAction struct {
	Player int          `json:"player"`
	Colors []dice.Color `json:"colors,omitempty"`
	Random int          `json:"random,omitempty"`
}

// RemoveDiceAction removes dice by pool index, or every die when All is set.
type RemoveDiceAction struct {
	Player  int   `json:"player"`
	Indices []int `json:"indices,omitempty"`
	All     bool  `json:"all,omitempty"`
}

// DeclareRoundEndAction marks a player as done for the round.
type DeclareRoundEndAction struct {
	Player int `json:"player"`
}

// ActionEndAction closes a player action and hands the turn over when it
// was a combat action.
type ActionEndAction struct {
	Player         int              `json:"player"`
	Action         CombatActionKind `json:"action"`
	Source         Position         `json:"source"`
	DoCombatAction bool             `json:"do_combat_action"`
}

// SwitchCharacterAction changes the active character.
type SwitchCharacterAction struct {
	Player    int `json:"player"`
	Character int `json:"character"`
}

// MakeDamageAction resolves a batch of damage and heal instances.
type MakeDamageAction struct {
	Damages []DamageValue `json:"damages"`
}

// ChargeAction changes the energy of a character by Charge.
type ChargeAction struct {
	Player    int `json:"player"`
	Character int `json:"character"`
	Charge    int `json:"charge"`
}

// UseSkillAction resolves a skill.
type UseSkillAction struct {
	Skill   Position `json:"skill"`
	Charged bool     `json:"charged,omitempty"`
}

// UseCardAction resolves a hand card.
type UseCardAction struct {
	Card   Position  `json:"card"`
	Target *Position `json:"target,omitempty"`
}

// SkillEndAction marks that a skill finished resolving.
type SkillEndAction struct {
	Skill     Position  `json:"skill"`
	SkillType SkillType `json:"skill_type"`
}

// CharacterDefeatedAction marks a character at zero HP as defeated.
type CharacterDefeatedAction struct {
	Player    int `json:"player"`
	Character int `json:"character"`
}

// CharacterReviveAction brings a defeated character back with HP.
type CharacterReviveAction struct {
	Player    int `json:"player"`
	Character int `json:"character"`
	HP        int `json:"hp"`
}

// CreateObjectAction instantiates a definition at a position. A positive
// Usage overrides the definition default.
type CreateObjectAction struct {
	Kind     Kind     `json:"kind"`
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Position Position `json:"position"`
	Usage    int      `json:"usage,omitempty"`
}

// RemoveObjectAction removes an object. With IfUsedUp set the removal is
// skipped when the object regained usage before the action ran.
type RemoveObjectAction struct {
	Object   Position `json:"object"`
	IfUsedUp bool     `json:"if_used_up,omitempty"`
}

// ChangeObjectUsageAction adjusts usage by Delta, or sets it to Set when
// Absolute is true. The result is clamped to [0, max usage].
type ChangeObjectUsageAction struct {
	Object   Position `json:"object"`
	Delta    int      `json:"delta,omitempty"`
	Absolute bool     `json:"absolute,omitempty"`
	Set      int      `json:"set,omitempty"`
}

// MoveObjectAction moves a non-character object to another zone or player.
type MoveObjectAction struct {
	Object Position `json:"object"`
	Target Position `json:"target"`
}

// ConsumeArcaneLegendAction spends the once-per-match arcane legend.
type ConsumeArcaneLegendAction struct {
	Player int `json:"player"`
}

// GenerateChooseCharacterRequestAction asks a player to pick an active
// character.
type GenerateChooseCharacterRequestAction struct {
	Player int `json:"player"`
}

// GenerateRerollDiceRequestAction asks a player to reroll dice.
type GenerateRerollDiceRequestAction struct {
	Player int `json:"player"`
	Times  int `json:"times"`
}

// GenerateSwitchCardRequestAction asks a player to swap hand cards.
type GenerateSwitchCardRequestAction struct {
	Player int `json:"player"`
}

// SkipPlayerActionAction ends the current player's action as if a combat
// action had been taken.
type SkipPlayerActionAction struct {
	Player int `json:"player"`
}

func (DrawCardAction) Type() ActionType            { return ActionDrawCard }
func (RestoreCardAction) Type() ActionType         { return ActionRestoreCard }
func (RemoveCardAction) Type() ActionType          { return ActionRemoveCard }
func (ChooseCharacterAction) Type() ActionType     { return ActionChooseCharacter }
func (CreateDiceAction) Type() ActionType          { return ActionCreateDice }
func (RemoveDiceAction) Type() ActionType          { return ActionRemoveDice }
func (DeclareRoundEndAction) Type() ActionType     { return ActionDeclareRoundEnd }
func (ActionEndAction) Type() ActionType           { return ActionActionEnd }
func (SwitchCharacterAction) Type() ActionType     { return ActionSwitchCharacter }
func (MakeDamageAction) Type() ActionType          { return ActionMakeDamage }
func (ChargeAction) Type() ActionType              { return ActionCharge }
func (UseSkillAction) Type() ActionType            { return ActionUseSkill }
func (UseCardAction) Type() ActionType             { return ActionUseCard }
func (SkillEndAction) Type() ActionType            { return ActionSkillEnd }
func (CharacterDefeatedAction) Type() ActionType   { return ActionCharacterDefeated }
func (CharacterReviveAction) Type() ActionType     { return ActionCharacterRevive }
func (CreateObjectAction) Type() ActionType        { return ActionCreateObject }
func (RemoveObjectAction) Type() ActionType        { return ActionRemoveObject }
func (ChangeObjectUsageAction) Type() ActionType   { return ActionChangeObjectUsage }
func (MoveObjectAction) Type() ActionType          { return ActionMoveObject }
func (ConsumeArcaneLegendAction) Type() ActionType { return ActionConsumeArcaneLegend }
func (GenerateChooseCharacterRequestAction) Type() ActionType {
	return ActionGenerateChooseCharacterRequest
}
func (GenerateRerollDiceRequestAction) Type() ActionType { return ActionGenerateRerollDiceRequest }
func (GenerateSwitchCardRequestAction) Type() ActionType { return ActionGenerateSwitchCardRequest }
func (SkipPlayerActionAction) Type() ActionType          { return ActionSkipPlayerAction }

func (DrawCardAction) RecordLevel() int                       { return RecordState }
func (RestoreCardAction) RecordLevel() int                    { return RecordState }
func (RemoveCardAction) RecordLevel() int                     { return RecordState }
func (ChooseCharacterAction) RecordLevel() int                { return RecordCritical }
func (CreateDiceAction) RecordLevel() int                     { return RecordState }
func (RemoveDiceAction) RecordLevel() int                     { return RecordState }
func (DeclareRoundEndAction) RecordLevel() int                { return RecordCritical }
func (ActionEndAction) RecordLevel() int                      { return RecordDetail }
func (SwitchCharacterAction) RecordLevel() int                { return RecordCritical }
func (MakeDamageAction) RecordLevel() int                     { return RecordCritical }
func (ChargeAction) RecordLevel() int                         { return RecordDetail }
func (UseSkillAction) RecordLevel() int                       { return RecordCritical }
func (UseCardAction) RecordLevel() int                        { return RecordCritical }
func (SkillEndAction) RecordLevel() int                       { return RecordDetail }
func (CharacterDefeatedAction) RecordLevel() int              { return RecordCritical }
func (CharacterReviveAction) RecordLevel() int                { return RecordCritical }
func (CreateObjectAction) RecordLevel() int                   { return RecordState }
func (RemoveObjectAction) RecordLevel() int                   { return RecordState }
func (ChangeObjectUsageAction) RecordLevel() int              { return RecordDetail }
func (MoveObjectAction) RecordLevel() int                     { return RecordState }
func (ConsumeArcaneLegendAction) RecordLevel() int            { return RecordState }
func (GenerateChooseCharacterRequestAction) RecordLevel() int { return RecordDetail }
func (GenerateRerollDiceRequestAction) RecordLevel() int      { return RecordDetail }
func (GenerateSwitchCardRequestAction) RecordLevel() int      { return RecordDetail }
func (SkipPlayerActionAction) RecordLevel() int               { return RecordState }

func (DrawCardAction) isAction()                       {}
func (RestoreCardAction) isAction()                    {}
func (RemoveCardAction) isAction()                     {}
func (ChooseCharacterAction) isAction()                {}
func (CreateDiceAction) isAction()                     {}
func (RemoveDiceAction) isAction()                     {}
func (DeclareRoundEndAction) isAction()                {}
func (ActionEndAction) isAction()                      {}
func (SwitchCharacterAction) isAction()                {}
func (MakeDamageAction) isAction()                     {}
func (ChargeAction) isAction()                         {}
func (UseSkillAction) isAction()                       {}
func (UseCardAction) isAction()                        {}
func (SkillEndAction) isAction()                       {}
func (CharacterDefeatedAction) isAction()              {}
func (CharacterReviveAction) isAction()                {}
func (CreateObjectAction) isAction()                   {}
func (RemoveObjectAction) isAction()                   {}
func (ChangeObjectUsageAction) isAction()              {}
func (MoveObjectAction) isAction()                     {}
func (ConsumeArcaneLegendAction) isAction()            {}
func (GenerateChooseCharacterRequestAction) isAction() {}
func (GenerateRerollDiceRequestAction) isAction()      {}
func (GenerateSwitchCardRequestAction) isAction()      {}
func (SkipPlayerActionAction) isAction()               {}
