// Package content holds the built-in catalogue: characters read from
// characters.yaml and the coded statuses, summons, supports, equipment
// and cards they use.
package content

import (
	"fmt"

	"github.com/lpsim/lpsim-go/internal/game"
)

// Register adds every built-in definition to reg.
func Register(reg *game.Registry) error {
	chars, err := ParseCharacters(charactersYAML)
	if err != nil {
		return err
	}
	groups := [][]*game.Definition{
		chars,
		statusDefinitions(),
		summonDefinitions(),
		supportDefinitions(),
		equipmentDefinitions(),
		cardDefinitions(),
	}
	for _, defs := range groups {
		for _, def := range defs {
			if err := reg.Register(def); err != nil {
				return fmt.Errorf("register content: %w", err)
			}
		}
	}
	return nil
}

// NewRegistry returns a registry holding the built-in catalogue.
func NewRegistry() (*game.Registry, error) {
	reg := game.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// MustRegistry is NewRegistry for tests and static setup.
func MustRegistry() *game.Registry {
	reg, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return reg
}
