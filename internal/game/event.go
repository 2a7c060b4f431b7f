package game

import "github.com/lpsim/lpsim-go/internal/game/dice"

// EventType tags every event variant.
type EventType string

const (
	EventGameStart                      EventType = "GAME_START"
	EventRoundPrepare                   EventType = "ROUND_PREPARE"
	EventPlayerActionStart              EventType = "PLAYER_ACTION_START"
	EventRoundEnd                       EventType = "ROUND_END"
	EventDrawCard                       EventType = "DRAW_CARD"
	EventRestoreCard                    EventType = "RESTORE_CARD"
	EventRemoveCard                     EventType = "REMOVE_CARD"
	EventChooseCharacter                EventType = "CHOOSE_CHARACTER"
	EventCreateDice                     EventType = "CREATE_DICE"
	EventRemoveDice                     EventType = "REMOVE_DICE"
	EventDeclareRoundEnd                EventType = "DECLARE_ROUND_END"
	EventActionEnd                      EventType = "ACTION_END"
	EventSwitchCharacter                EventType = "SWITCH_CHARACTER"
	EventMakeDamage                     EventType = "MAKE_DAMAGE"
	EventReceiveDamage                  EventType = "RECEIVE_DAMAGE"
	EventAfterMakeDamage                EventType = "AFTER_MAKE_DAMAGE"
	EventCharge                         EventType = "CHARGE"
	EventUseSkill                       EventType = "USE_SKILL"
	EventUseCard                        EventType = "USE_CARD"
	EventSkillEnd                       EventType = "SKILL_END"
	EventCharacterDefeated              EventType = "CHARACTER_DEFEATED"
	EventCharacterRevive                EventType = "CHARACTER_REVIVE"
	EventCreateObject                   EventType = "CREATE_OBJECT"
	EventRemoveObject                   EventType = "REMOVE_OBJECT"
	EventChangeObjectUsage              EventType = "CHANGE_OBJECT_USAGE"
	EventMoveObject                     EventType = "MOVE_OBJECT"
	EventConsumeArcaneLegend            EventType = "CONSUME_ARCANE_LEGEND"
	EventGenerateChooseCharacterRequest EventType = "GENERATE_CHOOSE_CHARACTER_REQUEST"
	EventGenerateRerollDiceRequest      EventType = "GENERATE_REROLL_DICE_REQUEST"
	EventGenerateSwitchCardRequest      EventType = "GENERATE_SWITCH_CARD_REQUEST"
	EventSkipPlayerAction               EventType = "SKIP_PLAYER_ACTION"
)

// Event is broadcast to every object after an action is applied or a
// phase boundary is crossed.
type Event interface {
	Type() EventType
}

// GameStartEvent fires once both players have chosen a character.
type GameStartEvent struct{}

// RoundPrepareEvent fires at the start of every round.
type RoundPrepareEvent struct {
	Round int
}

// PlayerActionStartEvent fires whenever a player gains the turn.
type PlayerActionStartEvent struct {
	Player int
}

// RoundEndEvent fires once both players declared round end.
type RoundEndEvent struct {
	Round       int
	FirstPlayer int
}

type DrawCardEvent struct {
	Action DrawCardAction
	Drawn  []ObjectID
	Burned []ObjectID
}

type RestoreCardEvent struct {
	Action RestoreCardAction
}

type RemoveCardEvent struct {
	Action RemoveCardAction
	Name   string
}

type ChooseCharacterEvent struct {
	Action   ChooseCharacterAction
	Previous int
}

type CreateDiceEvent struct {
	Action CreateDiceAction
	Colors []dice.Color
	Lost   int
}

type RemoveDiceEvent struct {
	Action RemoveDiceAction
	Colors []dice.Color
}

type DeclareRoundEndEvent struct {
	Action DeclareRoundEndAction
}

type ActionEndEvent struct {
	Action ActionEndAction
}

type SwitchCharacterEvent struct {
	Action   SwitchCharacterAction
	Previous int
}

// DamageResult is a resolved damage instance.
type DamageResult struct {
	Damage   DamageValue `json:"damage"`
	HPBefore int         `json:"hp_before"`
	HPAfter  int         `json:"hp_after"`
}

// MakeDamageEvent carries every instance resolved by one MakeDamageAction,
// including reaction side damage.
type MakeDamageEvent struct {
	Action  MakeDamageAction
	Results []DamageResult
}

// ReceiveDamageEvent fires once per resolved instance.
type ReceiveDamageEvent struct {
	Result DamageResult
}

// AfterMakeDamageEvent fires after every ReceiveDamageEvent of a batch.
type AfterMakeDamageEvent struct {
	Results []DamageResult
}

type ChargeEvent struct {
	Action ChargeAction
	Before int
	After  int
}

type UseSkillEvent struct {
	Action    UseSkillAction
	SkillType SkillType
	Name      string
}

type UseCardEvent struct {
	Action UseCardAction
	Name   string
	Kind   Kind
}

type SkillEndEvent struct {
	Action SkillEndAction
}

type CharacterDefeatedEvent struct {
	Action    CharacterDefeatedAction
	WasActive bool
}

type CharacterReviveEvent struct {
	Action CharacterReviveAction
}

// CreateObjectEvent reports a creation. Renewed is set when an existing
// object absorbed it; Created is false when the zone was full.
type CreateObjectEvent struct {
	Action   CreateObjectAction
	Object   Position
	Created  bool
	Renewed  bool
	Replaced *Object
}

type RemoveObjectEvent struct {
	Action  RemoveObjectAction
	Object  *Object
	Skipped bool
}

type ChangeObjectUsageEvent struct {
	Action ChangeObjectUsageAction
	Before int
	After  int
}

type MoveObjectEvent struct {
	Action MoveObjectAction
	From   Position
	To     Position
}

type ConsumeArcaneLegendEvent struct {
	Action ConsumeArcaneLegendAction
}

type GenerateChooseCharacterRequestEvent struct {
	Action GenerateChooseCharacterRequestAction
}

type GenerateRerollDiceRequestEvent struct {
	Action GenerateRerollDiceRequestAction
}

type GenerateSwitchCardRequestEvent struct {
	Action GenerateSwitchCardRequestAction
}

type SkipPlayerActionEvent struct {
	Action SkipPlayerActionAction
}

func (GameStartEvent) Type() EventType                      { return EventGameStart }
func (RoundPrepareEvent) Type() EventType                   { return EventRoundPrepare }
func (PlayerActionStartEvent) Type() EventType              { return EventPlayerActionStart }
func (RoundEndEvent) Type() EventType                       { return EventRoundEnd }
func (DrawCardEvent) Type() EventType                       { return EventDrawCard }
func (RestoreCardEvent) Type() EventType                    { return EventRestoreCard }
func (RemoveCardEvent) Type() EventType                     { return EventRemoveCard }
func (ChooseCharacterEvent) Type() EventType                { return EventChooseCharacter }
func (CreateDiceEvent) Type() EventType                     { return EventCreateDice }
func (RemoveDiceEvent) Type() EventType                     { return EventRemoveDice }
func (DeclareRoundEndEvent) Type() EventType                { return EventDeclareRoundEnd }
func (ActionEndEvent) Type() EventType                      { return EventActionEnd }
func (SwitchCharacterEvent) Type() EventType                { return EventSwitchCharacter }
func (MakeDamageEvent) Type() EventType                     { return EventMakeDamage }
func (ReceiveDamageEvent) Type() EventType                  { return EventReceiveDamage }
func (AfterMakeDamageEvent) Type() EventType                { return EventAfterMakeDamage }
func (ChargeEvent) Type() EventType                         { return EventCharge }
func (UseSkillEvent) Type() EventType                       { return EventUseSkill }
func (UseCardEvent) Type() EventType                        { return EventUseCard }
func (SkillEndEvent) Type() EventType                       { return EventSkillEnd }
func (CharacterDefeatedEvent) Type() EventType              { return EventCharacterDefeated }
func (CharacterReviveEvent) Type() EventType                { return EventCharacterRevive }
func (CreateObjectEvent) Type() EventType                   { return EventCreateObject }
func (RemoveObjectEvent) Type() EventType                   { return EventRemoveObject }
func (ChangeObjectUsageEvent) Type() EventType              { return EventChangeObjectUsage }
func (MoveObjectEvent) Type() EventType                     { return EventMoveObject }
func (ConsumeArcaneLegendEvent) Type() EventType            { return EventConsumeArcaneLegend }
func (GenerateChooseCharacterRequestEvent) Type() EventType { return EventGenerateChooseCharacterRequest }
func (GenerateRerollDiceRequestEvent) Type() EventType      { return EventGenerateRerollDiceRequest }
func (GenerateSwitchCardRequestEvent) Type() EventType      { return EventGenerateSwitchCardRequest }
func (SkipPlayerActionEvent) Type() EventType               { return EventSkipPlayerAction }
