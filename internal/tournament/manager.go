package tournament

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lpsim/lpsim-go/internal/agent"
	"github.com/lpsim/lpsim-go/internal/game"
)

// TournamentState represents the state of a tournament
type TournamentState int

const (
	TournamentStateWaiting TournamentState = iota
	TournamentStateInProgress
	TournamentStateFinished
)

func (s TournamentState) String() string {
	switch s {
	case TournamentStateWaiting:
		return "WAITING"
	case TournamentStateInProgress:
		return "IN_PROGRESS"
	case TournamentStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Points awarded per match.
const (
	PointsWin  = 3
	PointsDraw = 1
)

// AgentFactory builds a fresh agent for one match. Agents are not shared
// between concurrently running matches.
type AgentFactory func(seed int64) (agent.Agent, error)

// Entrant is a named agent with its deck.
type Entrant struct {
	Name     string
	Deck     game.Deck
	NewAgent AgentFactory
}

// Player represents a tournament participant
type Player struct {
	Name   string
	Points int
	Wins   int
	Losses int
	Draws  int
	Failed int

	deck     game.Deck
	newAgent AgentFactory
}

// Pairing is one match of a round. Player1 sits first.
type Pairing struct {
	Player1 string
	Player2 string
	MatchID string
	Seed    int64
	Winner  string
	Rounds  int
	Error   string
	Done    bool
}

// Round represents a tournament round
type Round struct {
	Number   int
	Pairings []*Pairing
	Started  bool
	Finished bool
}

// PlayerSnapshot captures tournament player data for external use.
type PlayerSnapshot struct {
	Name   string
	Points int
	Wins   int
	Losses int
	Draws  int
	Failed int
}

// PairingSnapshot captures pairing data for external use.
type PairingSnapshot struct {
	Player1 string
	Player2 string
	MatchID string
	Seed    int64
	Winner  string
	Rounds  int
	Error   string
}

// RoundSnapshot captures round data for external use.
type RoundSnapshot struct {
	Number   int
	Started  bool
	Finished bool
	Pairings []PairingSnapshot
}

// TournamentSnapshot captures a consistent view of a tournament.
type TournamentSnapshot struct {
	ID           string
	Name         string
	State        TournamentState
	Players      []PlayerSnapshot
	Rounds       []RoundSnapshot
	CurrentRound int
	NumRounds    int
	Winner       string
	CreateTime   time.Time
	StartTime    *time.Time
	EndTime      *time.Time
}

// Tournament is a round-robin series: every round pairs every entrant
// with every other one, alternating who sits first.
type Tournament struct {
	ID           string
	Name         string
	State        TournamentState
	Players      map[string]*Player
	PlayerOrder  []string // Maintains insertion order
	Rounds       []*Round
	CurrentRound int
	NumRounds    int
	CreateTime   time.Time
	StartTime    *time.Time
	EndTime      *time.Time
	Winner       string
	mu           sync.RWMutex
}

// NewTournament creates a new tournament
func NewTournament(name string, numRounds int) *Tournament {
	return &Tournament{
		ID:          uuid.New().String(),
		Name:        name,
		State:       TournamentStateWaiting,
		Players:     make(map[string]*Player),
		PlayerOrder: make([]string, 0),
		Rounds:      make([]*Round, 0),
		NumRounds:   numRounds,
		CreateTime:  time.Now(),
	}
}

// AddPlayer adds an entrant to the tournament
func (t *Tournament) AddPlayer(e Entrant) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return fmt.Errorf("tournament already started")
	}
	if e.Name == "" || e.NewAgent == nil {
		return fmt.Errorf("entrant needs a name and an agent factory")
	}
	if _, exists := t.Players[e.Name]; exists {
		return fmt.Errorf("player already joined")
	}

	t.Players[e.Name] = &Player{
		Name:     e.Name,
		deck:     e.Deck,
		newAgent: e.NewAgent,
	}
	t.PlayerOrder = append(t.PlayerOrder, e.Name)

	return nil
}

// RemovePlayer removes a player from the tournament
func (t *Tournament) RemovePlayer(playerName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return fmt.Errorf("tournament already started")
	}

	if _, exists := t.Players[playerName]; !exists {
		return fmt.Errorf("player not found")
	}

	delete(t.Players, playerName)

	// Remove from order
	for i, name := range t.PlayerOrder {
		if name == playerName {
			t.PlayerOrder = append(t.PlayerOrder[:i], t.PlayerOrder[i+1:]...)
			break
		}
	}

	return nil
}

// GetPlayerCount returns the number of players
func (t *Tournament) GetPlayerCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.Players)
}

// GetState returns the current tournament state
func (t *Tournament) GetState() TournamentState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.State
}

// Start transitions the tournament into progress.
func (t *Tournament) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return fmt.Errorf("tournament already started")
	}
	if len(t.Players) < 2 {
		return fmt.Errorf("not enough players")
	}
	if t.NumRounds <= 0 {
		return fmt.Errorf("tournament needs at least one round")
	}

	now := time.Now()
	t.StartTime = &now
	t.State = TournamentStateInProgress
	t.CurrentRound = 0
	return nil
}

// CreateRound creates the next round with its pairings. Seeds are derived
// from base so a tournament replays identically.
func (t *Tournament) CreateRound(base int64) *Round {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.CurrentRound++
	round := &Round{
		Number:   t.CurrentRound,
		Pairings: t.generatePairings(base),
	}
	t.Rounds = append(t.Rounds, round)
	return round
}

// generatePairings pairs every player with every other one. Seats swap on
// even rounds.
func (t *Tournament) generatePairings(base int64) []*Pairing {
	pairings := make([]*Pairing, 0)
	for i := 0; i < len(t.PlayerOrder); i++ {
		for j := i + 1; j < len(t.PlayerOrder); j++ {
			first, second := t.PlayerOrder[i], t.PlayerOrder[j]
			if t.CurrentRound%2 == 0 {
				first, second = second, first
			}
			pairings = append(pairings, &Pairing{
				Player1: first,
				Player2: second,
				Seed:    base + int64(t.CurrentRound)*1000 + int64(len(pairings)),
			})
		}
	}
	return pairings
}

// RecordMatchResult records the result of a match. An empty winner is a
// draw.
func (t *Tournament) RecordMatchResult(roundNum int, player1, player2, winner string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pairing, err := t.findPairing(roundNum, player1, player2)
	if err != nil {
		return err
	}
	pairing.Winner = winner
	pairing.Done = true

	// Update player stats
	if winner == player1 {
		t.Players[player1].Wins++
		t.Players[player1].Points += PointsWin
		t.Players[player2].Losses++
	} else if winner == player2 {
		t.Players[player2].Wins++
		t.Players[player2].Points += PointsWin
		t.Players[player1].Losses++
	} else {
		// Draw
		t.Players[player1].Draws++
		t.Players[player1].Points += PointsDraw
		t.Players[player2].Draws++
		t.Players[player2].Points += PointsDraw
	}
	return nil
}

// RecordMatchFailure marks a pairing whose match failed. Neither side
// scores.
func (t *Tournament) RecordMatchFailure(roundNum int, player1, player2 string, cause error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	pairing, err := t.findPairing(roundNum, player1, player2)
	if err != nil {
		return err
	}
	pairing.Error = cause.Error()
	pairing.Done = true
	t.Players[player1].Failed++
	t.Players[player2].Failed++
	return nil
}

func (t *Tournament) findPairing(roundNum int, player1, player2 string) (*Pairing, error) {
	if roundNum <= 0 || roundNum > len(t.Rounds) {
		return nil, fmt.Errorf("invalid round number")
	}
	for _, pairing := range t.Rounds[roundNum-1].Pairings {
		if (pairing.Player1 == player1 && pairing.Player2 == player2) ||
			(pairing.Player1 == player2 && pairing.Player2 == player1) {
			return pairing, nil
		}
	}
	return nil, fmt.Errorf("pairing not found")
}

// Finish closes the tournament and names the leader of the standings.
func (t *Tournament) Finish() {
	standings := t.Standings()

	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.EndTime = &now
	t.State = TournamentStateFinished
	if len(standings) > 0 {
		t.Winner = standings[0].Name
	}
}

// Standings ranks players by points, then wins, then name.
func (t *Tournament) Standings() []PlayerSnapshot {
	players := t.Snapshot().Players
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Points != players[j].Points {
			return players[i].Points > players[j].Points
		}
		if players[i].Wins != players[j].Wins {
			return players[i].Wins > players[j].Wins
		}
		return players[i].Name < players[j].Name
	})
	return players
}

// Snapshot returns a consistent copy of the tournament state.
func (t *Tournament) Snapshot() TournamentSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	players := make([]PlayerSnapshot, 0, len(t.PlayerOrder))
	for _, name := range t.PlayerOrder {
		if player, ok := t.Players[name]; ok {
			players = append(players, PlayerSnapshot{
				Name:   player.Name,
				Points: player.Points,
				Wins:   player.Wins,
				Losses: player.Losses,
				Draws:  player.Draws,
				Failed: player.Failed,
			})
		}
	}

	rounds := make([]RoundSnapshot, 0, len(t.Rounds))
	for _, r := range t.Rounds {
		pairings := make([]PairingSnapshot, 0, len(r.Pairings))
		for _, p := range r.Pairings {
			pairings = append(pairings, PairingSnapshot{
				Player1: p.Player1,
				Player2: p.Player2,
				MatchID: p.MatchID,
				Seed:    p.Seed,
				Winner:  p.Winner,
				Rounds:  p.Rounds,
				Error:   p.Error,
			})
		}

		rounds = append(rounds, RoundSnapshot{
			Number:   r.Number,
			Started:  r.Started,
			Finished: r.Finished,
			Pairings: pairings,
		})
	}

	return TournamentSnapshot{
		ID:           t.ID,
		Name:         t.Name,
		State:        t.State,
		Players:      players,
		Rounds:       rounds,
		CurrentRound: t.CurrentRound,
		NumRounds:    t.NumRounds,
		Winner:       t.Winner,
		CreateTime:   t.CreateTime,
		StartTime:    cloneTime(t.StartTime),
		EndTime:      cloneTime(t.EndTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}

// Options configure how a Manager plays matches.
type Options struct {
	Registry    *game.Registry
	Match       game.MatchConfig
	Parallelism int
	Seed        int64
	MaxSteps    int
	Recorder    *game.ReplayRecorder
}

// Manager manages tournaments
type Manager struct {
	tournaments map[string]*Tournament
	mu          sync.RWMutex
	opts        Options
	logger      *zap.Logger
}

// NewManager creates a new tournament manager
func NewManager(opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	return &Manager{
		tournaments: make(map[string]*Tournament),
		opts:        opts,
		logger:      logger,
	}
}

// CreateTournament creates a new tournament
func (m *Manager) CreateTournament(name string, numRounds int) *Tournament {
	m.mu.Lock()
	defer m.mu.Unlock()

	tournament := NewTournament(name, numRounds)
	m.tournaments[tournament.ID] = tournament

	m.logger.Info("tournament created",
		zap.String("tournament_id", tournament.ID),
		zap.String("name", name),
		zap.Int("rounds", numRounds),
	)

	return tournament
}

// GetTournament retrieves a tournament by ID
func (m *Manager) GetTournament(tournamentID string) (*Tournament, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tournament, ok := m.tournaments[tournamentID]
	return tournament, ok
}

// RemoveTournament removes a tournament
func (m *Manager) RemoveTournament(tournamentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tournaments, tournamentID)

	m.logger.Info("tournament removed", zap.String("tournament_id", tournamentID))
}

// GetActiveTournamentCount returns the count of active tournaments
func (m *Manager) GetActiveTournamentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, tournament := range m.tournaments {
		if tournament.GetState() != TournamentStateFinished {
			count++
		}
	}
	return count
}

// Run plays every round of t. Matches of a round run in parallel, one per
// goroutine; a failed match is recorded and does not stop the round.
// Run returns early only when ctx is cancelled.
func (m *Manager) Run(ctx context.Context, t *Tournament) error {
	if err := t.Start(); err != nil {
		return err
	}
	logger := m.logger.With(zap.String("tournament_id", t.ID))
	logger.Info("tournament started", zap.Int("players", t.GetPlayerCount()))

	for r := 0; r < t.NumRounds; r++ {
		round := t.CreateRound(m.opts.Seed)
		t.mu.Lock()
		round.Started = true
		t.mu.Unlock()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(m.opts.Parallelism)
		for _, p := range round.Pairings {
			g.Go(func() error {
				return m.playPairing(gctx, t, round.Number, p, logger)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		t.mu.Lock()
		round.Finished = true
		t.mu.Unlock()
		logger.Info("round finished", zap.Int("round", round.Number))
	}

	t.Finish()
	logger.Info("tournament finished", zap.String("winner", t.Winner))
	return nil
}

// playPairing plays one match and records its result. Only a cancelled
// context is returned as an error.
func (m *Manager) playPairing(ctx context.Context, t *Tournament, roundNum int, p *Pairing, logger *zap.Logger) error {
	t.mu.RLock()
	first, second := t.Players[p.Player1], t.Players[p.Player2]
	t.mu.RUnlock()

	res, err := m.playMatch(ctx, first, second, p.Seed)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("match failed",
			zap.Int("round", roundNum),
			zap.String("player1", p.Player1),
			zap.String("player2", p.Player2),
			zap.Error(err))
		return t.RecordMatchFailure(roundNum, p.Player1, p.Player2, err)
	}

	winner := ""
	switch res.Winner {
	case 0:
		winner = p.Player1
	case 1:
		winner = p.Player2
	}
	t.mu.Lock()
	p.MatchID = res.MatchID
	p.Rounds = res.Rounds
	t.mu.Unlock()
	return t.RecordMatchResult(roundNum, p.Player1, p.Player2, winner)
}

func (m *Manager) playMatch(ctx context.Context, first, second *Player, seed int64) (*agent.Result, error) {
	match, err := game.NewMatch(m.opts.Registry, m.opts.Match, seed, m.logger)
	if err != nil {
		return nil, err
	}
	var agents [2]agent.Agent
	for i, pl := range []*Player{first, second} {
		if err := match.SetDeck(i, pl.deck); err != nil {
			return nil, fmt.Errorf("%s: %w", pl.Name, err)
		}
		a, err := pl.newAgent(seed + int64(i))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pl.Name, err)
		}
		if c, ok := a.(interface{ Close() }); ok {
			defer c.Close()
		}
		agents[i] = a
	}

	opts := []agent.Option{agent.WithLogger(m.logger)}
	if m.opts.MaxSteps > 0 {
		opts = append(opts, agent.WithMaxSteps(m.opts.MaxSteps))
	}
	if m.opts.Recorder != nil {
		opts = append(opts, agent.WithRecorder(m.opts.Recorder))
	}
	return agent.Run(ctx, match, agents, opts...)
}
