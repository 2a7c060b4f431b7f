package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpsim/lpsim-go/internal/game/counters"
	"github.com/lpsim/lpsim-go/internal/game/rules"
)

// Deck is the starting material of one player.
type Deck struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Characters []string `json:"characters"`
	Cards      []string `json:"cards"`
}

// HistoryEntry is one recorded action.
type HistoryEntry struct {
	Round  int         `json:"round"`
	Phase  rules.Phase `json:"phase"`
	Action Action      `json:"-"`
}

// Match is a single two-player game. It is not safe for concurrent use;
// run one match per goroutine.
type Match struct {
	ID     string
	Config MatchConfig

	logger    *zap.Logger
	registry  *Registry
	observers *rules.EventBus[Event]

	state  rules.MatchState
	phases *rules.PhaseTracker
	// stage is the step within the current phase.
	stage         int
	tables        [2]*PlayerTable
	decks         [2]*Deck
	queue         *rules.Queue[Action]
	requests      []Request
	rng           *rules.RNG
	nextID        ObjectID
	current       int
	firstPlayer   int
	actionStarted bool
	winner        int
	history       []HistoryEntry
	failure       error
}

// NewMatch creates a match in the NOT_STARTED state.
func NewMatch(registry *Registry, cfg MatchConfig, seed int64, logger *zap.Logger) (*Match, error) {
	if registry == nil {
		return nil, errors.New("new match: registry is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new match: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	m := &Match{
		ID:        id,
		Config:    cfg,
		logger:    logger.With(zap.String("match_id", id)),
		registry:  registry,
		observers: rules.NewEventBus[Event](),
		state:     rules.StateNotStarted,
		phases:    rules.NewPhaseTracker(),
		queue:     rules.NewQueue[Action](),
		rng:       rules.NewRNG(seed),
		nextID:    1,
		winner:    -1,
	}
	m.tables = [2]*PlayerTable{newPlayerTable(0), newPlayerTable(1)}
	return m, nil
}

// SetDeck assigns the deck of a player. Both decks must be set before
// Start.
func (m *Match) SetDeck(player int, deck Deck) error {
	if player != 0 && player != 1 {
		return ErrInvalidPlayer
	}
	if m.state != rules.StateNotStarted && m.state != rules.StateDecksSet {
		return fmt.Errorf("set deck in state %s: %w", m.state, ErrInvalidState)
	}
	if len(deck.Characters) == 0 {
		return errors.New("set deck: at least one character is required")
	}
	version := deck.Version
	if version == "" {
		version = m.Config.Version
	}
	for _, name := range deck.Characters {
		if _, err := m.registry.Lookup(KindCharacter, name, version); err != nil {
			return fmt.Errorf("set deck: %w", err)
		}
	}
	for _, name := range deck.Cards {
		if _, err := m.registry.Lookup(KindCard, name, version); err != nil {
			return fmt.Errorf("set deck: %w", err)
		}
	}
	d := deck
	d.Version = version
	d.Characters = append([]string(nil), deck.Characters...)
	d.Cards = append([]string(nil), deck.Cards...)
	m.decks[player] = &d
	if m.decks[0] != nil && m.decks[1] != nil {
		m.state = rules.StateDecksSet
	}
	return nil
}

// Start builds both tables and runs the match up to the first requests.
func (m *Match) Start() (err error) {
	defer m.recoverInvariant(&err)
	if m.state != rules.StateDecksSet {
		return fmt.Errorf("start in state %s: %w", m.state, ErrInvalidState)
	}
	for p := 0; p < 2; p++ {
		m.buildTable(p, m.decks[p])
	}
	m.state = rules.StateRunning
	m.enterPhase()
	m.logger.Info("match started", zap.Int64("seed", m.rng.Seed()))
	return m.step()
}

// Step runs the match until it needs a response or ends. It is a no-op
// while requests are pending.
func (m *Match) Step() (err error) {
	defer m.recoverInvariant(&err)
	if err := m.checkRunning(); err != nil {
		return err
	}
	return m.step()
}

// Respond validates resp against the live requests, commits it and runs
// the match to the next point where a response is needed.
func (m *Match) Respond(resp Response) (err error) {
	defer m.recoverInvariant(&err)
	if err := m.checkRunning(); err != nil {
		return err
	}
	if resp == nil || resp.Request() == nil {
		return ErrRequestMismatch
	}
	req := resp.Request()
	player := req.PlayerIndex()
	if player != 0 && player != 1 {
		return ErrInvalidPlayer
	}
	if len(m.RequestsFor(player)) == 0 {
		return ErrNoRequest
	}
	live := -1
	for i, r := range m.requests {
		if sameRequest(r, req) {
			live = i
			break
		}
	}
	if live < 0 {
		return ErrRequestMismatch
	}
	batches, err := m.resolveResponse(resp)
	if err != nil {
		return err
	}
	m.consumeRequest(live)
	for _, batch := range batches {
		m.queue.PushBatch(batch...)
	}
	m.logger.Debug("response accepted",
		zap.Int("player", player),
		zap.String("request", string(req.Type())))
	return m.step()
}

// consumeRequest drops the answered request. Answering one entry of the
// action menu withdraws the whole menu of that player.
func (m *Match) consumeRequest(i int) {
	answered := m.requests[i]
	kept := m.requests[:0:0]
	for j, r := range m.requests {
		if j == i {
			continue
		}
		if answered.IsCombat() && r.IsCombat() && r.PlayerIndex() == answered.PlayerIndex() {
			continue
		}
		kept = append(kept, r)
	}
	m.requests = kept
}

// Requests returns the live requests of both players.
func (m *Match) Requests() []Request {
	return append([]Request(nil), m.requests...)
}

// RequestsFor returns the live requests of one player.
func (m *Match) RequestsFor(player int) []Request {
	var out []Request
	for _, r := range m.requests {
		if r.PlayerIndex() == player {
			out = append(out, r)
		}
	}
	return out
}

// IsGameEnd reports whether the match has ended.
func (m *Match) IsGameEnd() bool {
	return m.state == rules.StateEnded
}

// Winner returns the winning player, or -1 for a draw or an unfinished
// match.
func (m *Match) Winner() int {
	return m.winner
}

// State returns the lifecycle state.
func (m *Match) State() rules.MatchState {
	return m.state
}

// Err returns the invariant violation that failed the match, if any.
func (m *Match) Err() error {
	return m.failure
}

// Phase returns the current phase.
func (m *Match) Phase() rules.Phase {
	return m.phases.Current()
}

// PhaseHistory returns every phase entered so far.
func (m *Match) PhaseHistory() []rules.Phase {
	return m.phases.Visited()
}

// Round returns the current round number.
func (m *Match) Round() int {
	return m.phases.Round()
}

// CurrentPlayer returns the player holding the turn.
func (m *Match) CurrentPlayer() int {
	return m.current
}

// Table returns the table of a player.
func (m *Match) Table(player int) *PlayerTable {
	if player != 0 && player != 1 {
		return nil
	}
	return m.tables[player]
}

// Registry returns the content registry backing the match.
func (m *Match) Registry() *Registry {
	return m.registry
}

// History returns the recorded actions.
func (m *Match) History() []HistoryEntry {
	return append([]HistoryEntry(nil), m.history...)
}

// QueueLen returns the number of queued actions.
func (m *Match) QueueLen() int {
	return m.queue.Len()
}

// Observe subscribes listener to every broadcast event and returns a handle
// for Unobserve.
func (m *Match) Observe(listener func(Event)) int {
	return m.observers.Subscribe(listener)
}

// Unobserve removes an observer.
func (m *Match) Unobserve(handle int) {
	m.observers.Unsubscribe(handle)
}

// Find returns the object at pos, or nil.
func (m *Match) Find(pos Position) *Object {
	t := m.Table(pos.Player)
	if t == nil {
		return nil
	}
	if pos.Zone == ZoneCharacter {
		if c := t.Character(pos.Character); c != nil {
			return &c.Object
		}
		return nil
	}
	return t.find(pos.ID)
}

// CharacterAt returns the character addressed by pos.
func (m *Match) CharacterAt(pos Position) *Character {
	t := m.Table(pos.Player)
	if t == nil {
		return nil
	}
	return t.Character(pos.Character)
}

// Owner returns the character an object at pos is attached to, or nil.
func (m *Match) Owner(pos Position) *Character {
	if !pos.IsCharacterScoped() {
		return nil
	}
	return m.CharacterAt(pos)
}

func (m *Match) checkRunning() error {
	switch m.state {
	case rules.StateRunning:
		return nil
	case rules.StateEnded:
		return ErrMatchEnded
	case rules.StateFailed:
		return m.failure
	}
	return ErrMatchNotStarted
}

// recoverInvariant turns an invariant panic into a failed match.
func (m *Match) recoverInvariant(err *error) {
	r := recover()
	if r == nil {
		return
	}
	ie, ok := r.(*InvariantError)
	if !ok {
		panic(r)
	}
	m.state = rules.StateFailed
	m.failure = ie
	m.requests = nil
	m.logger.Error("match failed", zap.Error(ie),
		zap.String("phase", m.phases.Current().String()),
		zap.Int("round", m.phases.Round()))
	*err = ie
}

func (m *Match) newID() ObjectID {
	id := m.nextID
	m.nextID++
	return id
}

// instantiate creates an object from def at pos with a fresh id.
func (m *Match) instantiate(def *Definition, pos Position) *Object {
	id := m.newID()
	obj := &Object{
		ID:        id,
		Kind:      def.Kind,
		Name:      def.Name,
		Version:   def.Version,
		Position:  pos.WithID(id),
		Usage:     def.Usage,
		MaxUsage:  def.MaxUsage,
		Renew:     def.Renew,
		Cost:      def.Cost,
		SkillType: def.SkillType,
		Counters:  counters.NewCounters(def.Counters),
		def:       def,
	}
	return obj
}

func (m *Match) lookup(kind Kind, name, version string) *Definition {
	if version == "" {
		version = m.Config.Version
	}
	def, err := m.registry.Lookup(kind, name, version)
	if err != nil {
		invariantf("%v", err)
	}
	return def
}

func (m *Match) buildTable(player int, deck *Deck) {
	t := m.tables[player]
	for i, name := range deck.Characters {
		def := m.lookup(KindCharacter, name, deck.Version)
		base := m.instantiate(def, CharacterPosition(player, i))
		c := &Character{
			Object:    *base,
			HP:        def.HP,
			MaxHP:     def.HP,
			MaxCharge: def.MaxCharge,
			Element:   def.Element,
			Skills:    []*Object{},
		}
		for _, skill := range def.Skills {
			sdef := m.lookup(KindSkill, skill, deck.Version)
			s := m.instantiate(sdef, Position{Player: player, Zone: ZoneSkill, Character: i})
			c.Skills = append(c.Skills, s)
		}
		t.Characters = append(t.Characters, c)
	}
	for _, name := range deck.Cards {
		def := m.lookup(KindCard, name, deck.Version)
		t.Deck = append(t.Deck, m.instantiate(def, TablePosition(player, ZoneDeck)))
	}
	m.rng.Shuffle(len(t.Deck), func(i, j int) {
		t.Deck[i], t.Deck[j] = t.Deck[j], t.Deck[i]
	})
}
