package game

import (
	"bytes"
	"encoding/json"
)

// Response answers one live request. It embeds the request it answers so
// the engine can match it against the live set.
type Response interface {
	Request() Request
	isResponse()
}

// ChooseCharacterResponse picks Character from the available list.
type ChooseCharacterResponse struct {
	Req       ChooseCharacterRequest `json:"request"`
	Character int                    `json:"character"`
}

// RerollDiceResponse lists the pool indices to reroll. An empty list keeps
// every die and ends rerolling.
type RerollDiceResponse struct {
	Req  RerollDiceRequest `json:"request"`
	Dice []int             `json:"dice"`
}

// SwitchCardResponse lists indices into the request card list to swap.
type SwitchCardResponse struct {
	Req   SwitchCardRequest `json:"request"`
	Cards []int             `json:"cards"`
}

// UseSkillResponse pays for a skill with the dice at Dice.
type UseSkillResponse struct {
	Req  UseSkillRequest `json:"request"`
	Dice []int           `json:"dice"`
}

// UseCardResponse pays for a card and names its target.
type UseCardResponse struct {
	Req    UseCardRequest `json:"request"`
	Dice   []int          `json:"dice"`
	Target *Position      `json:"target,omitempty"`
}

// SwitchCharacterResponse pays for a switch.
type SwitchCharacterResponse struct {
	Req  SwitchCharacterRequest `json:"request"`
	Dice []int                  `json:"dice"`
}

// ElementalTuningResponse converts the die at Die by discarding Card.
type ElementalTuningResponse struct {
	Req  ElementalTuningRequest `json:"request"`
	Die  int                    `json:"die"`
	Card ObjectID               `json:"card"`
}

// DeclareRoundEndResponse ends the round for the player.
type DeclareRoundEndResponse struct {
	Req DeclareRoundEndRequest `json:"request"`
}

func (r ChooseCharacterResponse) Request() Request { return r.Req }
func (r RerollDiceResponse) Request() Request      { return r.Req }
func (r SwitchCardResponse) Request() Request      { return r.Req }
func (r UseSkillResponse) Request() Request        { return r.Req }
func (r UseCardResponse) Request() Request         { return r.Req }
func (r SwitchCharacterResponse) Request() Request { return r.Req }
func (r ElementalTuningResponse) Request() Request { return r.Req }
func (r DeclareRoundEndResponse) Request() Request { return r.Req }

func (ChooseCharacterResponse) isResponse() {}
func (RerollDiceResponse) isResponse()      {}
func (SwitchCardResponse) isResponse()      {}
func (UseSkillResponse) isResponse()        {}
func (UseCardResponse) isResponse()         {}
func (SwitchCharacterResponse) isResponse() {}
func (ElementalTuningResponse) isResponse() {}
func (DeclareRoundEndResponse) isResponse() {}

// sameRequest compares requests by their wire form, so a request that went
// through a JSON round trip still matches the live one.
func sameRequest(a, b Request) bool {
	if a == nil || b == nil || a.Type() != b.Type() || a.PlayerIndex() != b.PlayerIndex() {
		return false
	}
	ra, err := json.Marshal(a)
	if err != nil {
		return false
	}
	rb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ra, rb)
}

// uniqueIndices reports whether every index is in [0, n) and appears once.
func uniqueIndices(indices []int, n int) bool {
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}
