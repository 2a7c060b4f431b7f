package game

import "fmt"

// ObjectID identifies an object for the lifetime of a match. IDs start at
// one and are never reused.
type ObjectID int

// NoObject is the zero ObjectID.
const NoObject ObjectID = 0

// Zone is where an object lives.
type Zone string

const (
	ZoneHand            Zone = "HAND"
	ZoneDeck            Zone = "DECK"
	ZoneDiscard         Zone = "DISCARD"
	ZoneCharacter       Zone = "CHARACTER"
	ZoneCharacterStatus Zone = "CHARACTER_STATUS"
	ZoneTeamStatus      Zone = "TEAM_STATUS"
	ZoneSummon          Zone = "SUMMON"
	ZoneSupport         Zone = "SUPPORT"
	ZoneSkill           Zone = "SKILL"
	ZoneSystem          Zone = "SYSTEM"
	ZoneInvalid         Zone = "INVALID"
)

// Position addresses any entity of a match.
type Position struct {
	Player    int      `json:"player"`
	Zone      Zone     `json:"zone"`
	Character int      `json:"character"`
	ID        ObjectID `json:"id"`
}

// SystemPosition is the source position of engine generated actions.
var SystemPosition = Position{Player: -1, Zone: ZoneSystem, Character: -1}

// TablePosition addresses a player table as a whole.
func TablePosition(player int, zone Zone) Position {
	return Position{Player: player, Zone: zone, Character: -1}
}

// CharacterPosition addresses a character slot.
func CharacterPosition(player, character int) Position {
	return Position{Player: player, Zone: ZoneCharacter, Character: character}
}

// WithZone returns a copy of p moved to zone z.
func (p Position) WithZone(z Zone) Position {
	p.Zone = z
	return p
}

// WithID returns a copy of p pointing at id.
func (p Position) WithID(id ObjectID) Position {
	p.ID = id
	return p
}

// WithCharacter returns a copy of p scoped to a character slot.
func (p Position) WithCharacter(character int) Position {
	p.Character = character
	return p
}

// Opponent returns the index of the other player.
func (p Position) Opponent() int {
	return 1 - p.Player
}

// IsCharacterScoped reports whether p belongs to a character slot.
func (p Position) IsCharacterScoped() bool {
	return p.Character >= 0
}

func (p Position) String() string {
	if p.Character >= 0 {
		return fmt.Sprintf("p%d/%s/c%d#%d", p.Player, p.Zone, p.Character, p.ID)
	}
	return fmt.Sprintf("p%d/%s#%d", p.Player, p.Zone, p.ID)
}
