package game

import "github.com/lpsim/lpsim-go/internal/game/dice"

// RequestType tags every request variant.
type RequestType string

const (
	RequestChooseCharacter RequestType = "CHOOSE_CHARACTER"
	RequestRerollDice      RequestType = "REROLL_DICE"
	RequestSwitchCard      RequestType = "SWITCH_CARD"
	RequestUseSkill        RequestType = "USE_SKILL"
	RequestUseCard         RequestType = "USE_CARD"
	RequestSwitchCharacter RequestType = "SWITCH_CHARACTER"
	RequestElementalTuning RequestType = "ELEMENTAL_TUNING"
	RequestDeclareRoundEnd RequestType = "DECLARE_ROUND_END"
)

// Request is a decision the engine needs from a player.
type Request interface {
	Type() RequestType
	PlayerIndex() int
	// IsCombat reports whether the request belongs to the player action menu.
	IsCombat() bool
}

// ChooseCharacterRequest asks for an active character.
type ChooseCharacterRequest struct {
	Player    int   `json:"player"`
	Available []int `json:"available"`
}

// RerollDiceRequest asks which dice to reroll.
type RerollDiceRequest struct {
	Player int          `json:"player"`
	Colors []dice.Color `json:"colors"`
	Times  int          `json:"times"`
}

// SwitchCardRequest asks which starting hand cards to swap.
type SwitchCardRequest struct {
	Player int        `json:"player"`
	Cards  []ObjectID `json:"cards"`
	Names  []string   `json:"names"`
}

// UseSkillRequest offers a skill of the active character at Cost.
type UseSkillRequest struct {
	Player    int       `json:"player"`
	Character int       `json:"character"`
	Skill     ObjectID  `json:"skill"`
	Name      string    `json:"name"`
	Cost      dice.Cost `json:"cost"`
}

// UseCardRequest offers a hand card at Cost. A targeted card lists the
// targets the player can afford and the cost of each; Cost is then the
// cost of the first target.
type UseCardRequest struct {
	Player      int         `json:"player"`
	Card        ObjectID    `json:"card"`
	Name        string      `json:"name"`
	Cost        dice.Cost   `json:"cost"`
	Targets     []Position  `json:"targets,omitempty"`
	TargetCosts []dice.Cost `json:"target_costs,omitempty"`
}

// CostFor returns the cost of playing the card on target.
func (r UseCardRequest) CostFor(target Position) dice.Cost {
	for i, t := range r.Targets {
		if t == target && i < len(r.TargetCosts) {
			return r.TargetCosts[i]
		}
	}
	return r.Cost
}

// SwitchCharacterRequest offers switching to Target at Cost.
type SwitchCharacterRequest struct {
	Player int       `json:"player"`
	Active int       `json:"active"`
	Target int       `json:"target"`
	Cost   dice.Cost `json:"cost"`
}

// ElementalTuningRequest offers converting one die to Color by discarding a
// hand card.
type ElementalTuningRequest struct {
	Player int        `json:"player"`
	Color  dice.Color `json:"color"`
	Dice   []int      `json:"dice"`
	Cards  []ObjectID `json:"cards"`
}

// DeclareRoundEndRequest offers ending the round.
type DeclareRoundEndRequest struct {
	Player int `json:"player"`
}

func (ChooseCharacterRequest) Type() RequestType { return RequestChooseCharacter }
func (RerollDiceRequest) Type() RequestType      { return RequestRerollDice }
func (SwitchCardRequest) Type() RequestType      { return RequestSwitchCard }
func (UseSkillRequest) Type() RequestType        { return RequestUseSkill }
func (UseCardRequest) Type() RequestType         { return RequestUseCard }
func (SwitchCharacterRequest) Type() RequestType { return RequestSwitchCharacter }
func (ElementalTuningRequest) Type() RequestType { return RequestElementalTuning }
func (DeclareRoundEndRequest) Type() RequestType { return RequestDeclareRoundEnd }

func (r ChooseCharacterRequest) PlayerIndex() int { return r.Player }
func (r RerollDiceRequest) PlayerIndex() int      { return r.Player }
func (r SwitchCardRequest) PlayerIndex() int      { return r.Player }
func (r UseSkillRequest) PlayerIndex() int        { return r.Player }
func (r UseCardRequest) PlayerIndex() int         { return r.Player }
func (r SwitchCharacterRequest) PlayerIndex() int { return r.Player }
func (r ElementalTuningRequest) PlayerIndex() int { return r.Player }
func (r DeclareRoundEndRequest) PlayerIndex() int { return r.Player }

func (ChooseCharacterRequest) IsCombat() bool { return false }
func (RerollDiceRequest) IsCombat() bool      { return false }
func (SwitchCardRequest) IsCombat() bool      { return false }
func (UseSkillRequest) IsCombat() bool        { return true }
func (UseCardRequest) IsCombat() bool         { return true }
func (SwitchCharacterRequest) IsCombat() bool { return true }
func (ElementalTuningRequest) IsCombat() bool { return true }
func (DeclareRoundEndRequest) IsCombat() bool { return true }
