package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpsim/lpsim-go/internal/game"
)

func TestParseBuiltinCharacters(t *testing.T) {
	defs, err := ParseCharacters(charactersYAML)
	require.NoError(t, err)

	var chars []*game.Definition
	skills := map[string]*game.Definition{}
	for _, def := range defs {
		switch def.Kind {
		case game.KindCharacter:
			chars = append(chars, def)
		case game.KindSkill:
			skills[def.Name] = def
		}
	}
	require.Len(t, chars, 7)
	for _, c := range chars {
		assert.Equal(t, 10, c.HP, c.Name)
		assert.Len(t, c.Skills, 3, c.Name)
		for _, name := range c.Skills {
			assert.Contains(t, skills, name, "%s lists an unknown skill", c.Name)
		}
	}

	swing := skills["Heavy Swing"]
	require.NotNil(t, swing)
	assert.Equal(t, game.SkillNormalAttack, swing.SkillType)
	assert.Equal(t, 3, swing.Cost.Total())
	assert.NotNil(t, swing.Use)
}

func TestParseCharactersRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "malformed yaml",
			yaml: "characters: [",
		},
		{
			name: "missing hp",
			yaml: `
characters:
  - name: Nobody
    version: "3.3"
`,
		},
		{
			name: "bad cost",
			yaml: `
characters:
  - name: Bad Cost
    version: "3.3"
    hp: 10
    skills:
      - name: Broken
        type: NORMAL_ATTACK
        cost: "sparkle:2"
`,
		},
		{
			name: "unknown create target",
			yaml: `
characters:
  - name: Bad Target
    version: "3.3"
    hp: 10
    skills:
      - name: Misplaced
        type: ELEMENTAL_SKILL
        cost: "any:1"
        creates:
          - kind: SUMMON
            name: Water Spirit
            target: nowhere
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCharacters([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestRegistryHoldsCatalogue(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	for _, name := range []string{SweetMeal, Strategize, TravelersSword, MerchantContract, SpiritCall, SwiftStepsScroll, QuickStrike, AncientRitual, DiceTowerCard} {
		assert.True(t, reg.Has(game.KindCard, name), name)
	}
	assert.True(t, reg.Has(game.KindSupport, TravelingMerchant))
	assert.True(t, reg.Has(game.KindSupport, DiceTower))
	assert.True(t, reg.Has(game.KindSummon, WaterSpirit))
	assert.True(t, reg.Has(game.KindCharacterStatus, StoneShield))
	assert.True(t, reg.Has(game.KindTeamStatus, SwiftSteps))
	assert.True(t, reg.Has(game.KindSummon, game.BurningFlameSummon))
	assert.Len(t, reg.Names(game.KindCharacter), 7)

	// The catalogue cannot be registered twice.
	assert.Error(t, Register(reg))
}

func TestSummonVersions(t *testing.T) {
	reg := MustRegistry()

	latest, err := reg.Lookup(game.KindSummon, WaterSpirit, "4.0")
	require.NoError(t, err)
	older, err := reg.Lookup(game.KindSummon, WaterSpirit, "3.7")
	require.NoError(t, err)
	assert.NotSame(t, latest, older)
	assert.Greater(t, latest.Usage, older.Usage)
}
