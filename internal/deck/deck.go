// Package deck reads deck lists from YAML and checks them against a
// registry before they are handed to a match.
package deck

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lpsim/lpsim-go/internal/game"
)

//go:embed decks/*.yaml
var builtinFS embed.FS

// File is the YAML layout of a deck list.
type File struct {
	Name       string      `yaml:"name"`
	Version    string      `yaml:"version"`
	Characters []string    `yaml:"characters"`
	Cards      []CardEntry `yaml:"cards"`
}

// CardEntry is a card name with its number of copies. A missing count
// means one copy.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// Rules bound the shape of a deck. Zero fields are not checked.
type Rules struct {
	MaxCharacters int
	DeckSize      int
	MaxCopies     int
}

// DefaultRules are the limits used for built-in and user decks.
var DefaultRules = Rules{MaxCharacters: 3, DeckSize: 30}

// Parse decodes a YAML deck list.
func Parse(data []byte) (game.Deck, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return game.Deck{}, fmt.Errorf("parse deck: %w", err)
	}
	return f.Deck()
}

// Load reads a YAML deck list from disk.
func Load(file string) (game.Deck, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return game.Deck{}, fmt.Errorf("load deck: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return game.Deck{}, fmt.Errorf("load deck %s: %w", file, err)
	}
	return d, nil
}

// Deck expands the card counts into a deck.
func (f File) Deck() (game.Deck, error) {
	if strings.TrimSpace(f.Name) == "" {
		return game.Deck{}, errors.New("deck has no name")
	}
	d := game.Deck{
		Name:       f.Name,
		Version:    f.Version,
		Characters: append([]string(nil), f.Characters...),
	}
	for _, c := range f.Cards {
		count := c.Count
		if count == 0 {
			count = 1
		}
		if count < 0 {
			return game.Deck{}, fmt.Errorf("deck %s: card %q has negative count", f.Name, c.Name)
		}
		for i := 0; i < count; i++ {
			d.Cards = append(d.Cards, c.Name)
		}
	}
	return d, nil
}

// Validate checks d against rules and makes sure every entry resolves in
// registry at the deck version, or at version when the deck has none.
func Validate(d game.Deck, rules Rules, registry *game.Registry, version string) error {
	var errs []error
	if len(d.Characters) == 0 {
		errs = append(errs, errors.New("no characters"))
	}
	if rules.MaxCharacters > 0 && len(d.Characters) > rules.MaxCharacters {
		errs = append(errs, fmt.Errorf("%d characters, at most %d allowed", len(d.Characters), rules.MaxCharacters))
	}
	seen := map[string]bool{}
	for _, name := range d.Characters {
		if seen[name] {
			errs = append(errs, fmt.Errorf("character %q listed twice", name))
		}
		seen[name] = true
	}
	if rules.DeckSize > 0 && len(d.Cards) != rules.DeckSize {
		errs = append(errs, fmt.Errorf("%d cards, %d required", len(d.Cards), rules.DeckSize))
	}
	if rules.MaxCopies > 0 {
		for name, n := range countCards(d.Cards) {
			if n > rules.MaxCopies {
				errs = append(errs, fmt.Errorf("%d copies of %q, at most %d allowed", n, name, rules.MaxCopies))
			}
		}
	}
	if registry != nil {
		if d.Version != "" {
			version = d.Version
		}
		for _, name := range d.Characters {
			if _, err := registry.Lookup(game.KindCharacter, name, version); err != nil {
				errs = append(errs, err)
			}
		}
		for name := range countCards(d.Cards) {
			if _, err := registry.Lookup(game.KindCard, name, version); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("deck %s: %w", d.Name, err)
	}
	return nil
}

func countCards(cards []string) map[string]int {
	counts := make(map[string]int)
	for _, c := range cards {
		counts[c]++
	}
	return counts
}

// Builtin returns the built-in deck with the given name.
func Builtin(name string) (game.Deck, error) {
	entries, err := builtinFS.ReadDir("decks")
	if err != nil {
		return game.Deck{}, err
	}
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("decks", e.Name()))
		if err != nil {
			return game.Deck{}, err
		}
		d, err := Parse(data)
		if err != nil {
			return game.Deck{}, fmt.Errorf("builtin %s: %w", e.Name(), err)
		}
		if d.Name == name {
			return d, nil
		}
	}
	return game.Deck{}, fmt.Errorf("no builtin deck named %q", name)
}

// BuiltinNames lists the built-in decks, sorted.
func BuiltinNames() ([]string, error) {
	entries, err := builtinFS.ReadDir("decks")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("decks", e.Name()))
		if err != nil {
			return nil, err
		}
		d, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", e.Name(), err)
		}
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Resolve treats ref as a file path when it ends in .yaml or .yml and as a
// built-in deck name otherwise.
func Resolve(ref string) (game.Deck, error) {
	if ext := path.Ext(ref); ext == ".yaml" || ext == ".yml" {
		return Load(ref)
	}
	return Builtin(ref)
}
