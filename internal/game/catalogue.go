package game

import (
	"fmt"
	"sort"

	"golang.org/x/mod/semver"

	"github.com/lpsim/lpsim-go/internal/game/dice"
)

// Handler reacts to a broadcast event. It reads the match through the
// query methods and returns follow-up actions; it may update the private
// counters of self and nothing else.
type Handler func(self *Object, ev Event, m *Match) []Action

// Commit applies the side effects of a modifier to the live object. It
// only runs in ModeReal.
type Commit func(self *Object)

// ModifierFunc adjusts v in place. self is a copy of the owning object, so
// the computation cannot leak state into a TEST pass. A non-nil Commit is
// run against the live object when the pipeline is in ModeReal.
type ModifierFunc func(self *Object, v Value, m *Match) Commit

// Modifier binds a ModifierFunc to the value family it listens to.
type Modifier struct {
	Value   ValueKind
	Compute ModifierFunc
}

// SkillContext carries what a skill needs to know about its use.
type SkillContext struct {
	Player    int
	Character int
	Charged   bool
}

// Definition is the behaviour and initial state of a named, versioned
// piece of content.
type Definition struct {
	Kind    Kind
	Name    string
	Version string

	Usage            int
	MaxUsage         int
	Renew            RenewPolicy
	RemoveWhenUsedUp bool
	Counters         map[string]int

	// Cards and skills.
	Cost         dice.Cost
	SkillType    SkillType
	CombatAction bool

	// Characters.
	HP        int
	MaxCharge int
	Element   Element
	Skills    []string

	Handle    Handler
	Modifiers []Modifier

	// Use resolves a skill.
	Use func(self *Object, m *Match, ctx SkillContext) []Action
	// CanPlay filters a hand card before its cost is checked.
	CanPlay func(self *Object, m *Match) bool
	// Targets lists the positions a card may be played on. A nil func
	// means the card takes no target.
	Targets func(self *Object, m *Match) []Position
	// Play resolves a card. target is nil for untargeted cards.
	Play func(self *Object, m *Match, target *Position) []Action
}

type definitionKey struct {
	kind Kind
	name string
}

// Registry maps (kind, name, version) to definitions. It is written during
// setup and read-only afterwards, so one registry may back many matches.
type Registry struct {
	defs map[definitionKey][]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[definitionKey][]*Definition)}
}

// Register adds def. Its Version is the oldest ruleset version it
// implements.
func (r *Registry) Register(def *Definition) error {
	if def == nil || def.Name == "" || def.Kind == "" {
		return fmt.Errorf("register definition: missing kind or name")
	}
	if !semver.IsValid(canonicalVersion(def.Version)) {
		return fmt.Errorf("register %s %q: invalid version %q", def.Kind, def.Name, def.Version)
	}
	key := definitionKey{kind: def.Kind, name: def.Name}
	for _, existing := range r.defs[key] {
		if semver.Compare(canonicalVersion(existing.Version), canonicalVersion(def.Version)) == 0 {
			return fmt.Errorf("register %s %q: version %s already registered", def.Kind, def.Name, def.Version)
		}
	}
	list := append(r.defs[key], def)
	sort.Slice(list, func(i, j int) bool {
		return semver.Compare(canonicalVersion(list[i].Version), canonicalVersion(list[j].Version)) > 0
	})
	r.defs[key] = list
	return nil
}

// MustRegister is Register for static content tables.
func (r *Registry) MustRegister(defs ...*Definition) {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the newest definition compatible with version.
func (r *Registry) Lookup(kind Kind, name, version string) (*Definition, error) {
	for _, def := range r.defs[definitionKey{kind: kind, name: name}] {
		if IsVersionCompatible(version, def.Version) {
			return def, nil
		}
	}
	return nil, fmt.Errorf("no %s named %q compatible with version %q", kind, name, version)
}

// Has reports whether any version of (kind, name) is registered.
func (r *Registry) Has(kind Kind, name string) bool {
	return len(r.defs[definitionKey{kind: kind, name: name}]) > 0
}

// Names lists the registered names of kind, sorted.
func (r *Registry) Names(kind Kind) []string {
	var names []string
	for key := range r.defs {
		if key.kind == kind {
			names = append(names, key.name)
		}
	}
	sort.Strings(names)
	return names
}

// IsVersionCompatible reports whether a request for version can be served
// by a definition whose oldest supported version is minimum. Versions are
// dotted numbers such as "4.0" or "3.7.1".
func IsVersionCompatible(version, minimum string) bool {
	v, mv := canonicalVersion(version), canonicalVersion(minimum)
	if !semver.IsValid(v) || !semver.IsValid(mv) {
		return false
	}
	return semver.Compare(v, mv) >= 0
}

func canonicalVersion(version string) string {
	if version == "" {
		return ""
	}
	if version[0] != 'v' {
		version = "v" + version
	}
	return version
}
