package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lpsim/lpsim-go/internal/game"
	"github.com/lpsim/lpsim-go/internal/game/dice"
)

//go:embed characters.yaml
var charactersYAML []byte

type characterFile struct {
	Characters []characterSpec `yaml:"characters"`
}

type characterSpec struct {
	Name      string      `yaml:"name"`
	Version   string      `yaml:"version"`
	HP        int         `yaml:"hp"`
	Element   string      `yaml:"element"`
	MaxCharge int         `yaml:"max_charge"`
	Skills    []skillSpec `yaml:"skills"`
}

type skillSpec struct {
	Name    string       `yaml:"name"`
	Type    string       `yaml:"type"`
	Cost    string       `yaml:"cost"`
	Damage  int          `yaml:"damage"`
	Element string       `yaml:"element"`
	Creates []createSpec `yaml:"creates"`
}

// createSpec is an object a skill puts on the table. Target is one of
// self, team, summon or support.
type createSpec struct {
	Kind   string `yaml:"kind"`
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

// ParseCharacters decodes a character file into definitions, skills
// first.
func ParseCharacters(data []byte) ([]*game.Definition, error) {
	var file characterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse characters: %w", err)
	}
	var defs []*game.Definition
	for _, cs := range file.Characters {
		if cs.Name == "" || cs.HP <= 0 {
			return nil, fmt.Errorf("parse characters: %q needs a name and positive hp", cs.Name)
		}
		char := &game.Definition{
			Kind:      game.KindCharacter,
			Name:      cs.Name,
			Version:   cs.Version,
			HP:        cs.HP,
			MaxCharge: cs.MaxCharge,
			Element:   game.Element(cs.Element),
		}
		for _, ss := range cs.Skills {
			skill, err := buildSkill(cs.Version, ss)
			if err != nil {
				return nil, fmt.Errorf("parse characters: %s: %w", cs.Name, err)
			}
			defs = append(defs, skill)
			char.Skills = append(char.Skills, ss.Name)
		}
		defs = append(defs, char)
	}
	return defs, nil
}

func buildSkill(version string, ss skillSpec) (*game.Definition, error) {
	cost, err := dice.ParseCost(ss.Cost)
	if err != nil {
		return nil, fmt.Errorf("skill %q: %w", ss.Name, err)
	}
	for _, c := range ss.Creates {
		switch c.Target {
		case "self", "team", "summon", "support":
		default:
			return nil, fmt.Errorf("skill %q: unknown create target %q", ss.Name, c.Target)
		}
	}
	spec := ss
	return &game.Definition{
		Kind:      game.KindSkill,
		Name:      ss.Name,
		Version:   version,
		Cost:      cost,
		SkillType: game.SkillType(ss.Type),
		Use: func(self *game.Object, m *game.Match, ctx game.SkillContext) []game.Action {
			return useSkill(spec, self, m, ctx)
		},
	}, nil
}

// useSkill deals the skill damage to the opposing active character, then
// creates the listed objects.
func useSkill(spec skillSpec, self *game.Object, m *game.Match, ctx game.SkillContext) []game.Action {
	var actions []game.Action
	if spec.Damage > 0 {
		if target, ok := opponentActive(m, ctx.Player); ok {
			dv := damage(self.Position, target, game.Element(spec.Element), spec.Damage)
			dv.SkillType = game.SkillType(spec.Type)
			dv.IsCharged = ctx.Charged
			actions = append(actions, game.MakeDamageAction{Damages: []game.DamageValue{dv}})
		}
	}
	for _, c := range spec.Creates {
		var pos game.Position
		switch c.Target {
		case "self":
			pos = game.CharacterPosition(ctx.Player, ctx.Character).WithZone(game.ZoneCharacterStatus)
		case "team":
			pos = game.TablePosition(ctx.Player, game.ZoneTeamStatus)
		case "summon":
			pos = game.TablePosition(ctx.Player, game.ZoneSummon)
		case "support":
			pos = game.TablePosition(ctx.Player, game.ZoneSupport)
		}
		actions = append(actions, game.CreateObjectAction{
			Kind:     game.Kind(c.Kind),
			Name:     c.Name,
			Version:  m.Config.Version,
			Position: pos,
		})
	}
	return actions
}
