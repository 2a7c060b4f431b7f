package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lpsim/lpsim-go/internal/agent"
	"github.com/lpsim/lpsim-go/internal/config"
	"github.com/lpsim/lpsim-go/internal/content"
	"github.com/lpsim/lpsim-go/internal/deck"
	"github.com/lpsim/lpsim-go/internal/game"
	"github.com/lpsim/lpsim-go/internal/tournament"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	mode       = flag.String("mode", "match", "match or tournament")
	decks      = flag.String("decks", "Stone and Flame,Frost and Storm", "comma separated built-in deck names or YAML files")
	agents     = flag.String("agents", "random,random", "comma separated agents: random, round-end or lua:<file>")
	seed       = flag.Int64("seed", 1, "match seed")
	snapshot   = flag.String("snapshot", "", "write the final match state to this file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting lpsim",
		zap.String("version", version),
		zap.String("mode", *mode),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry, err := content.NewRegistry()
	if err != nil {
		logger.Fatal("failed to load content", zap.Error(err))
	}

	var recorder *game.ReplayRecorder
	if cfg.Replay.Enabled {
		recorder = game.NewReplayRecorder(logger, cfg.Replay.Directory)
	}

	entrants, err := buildEntrants(splitList(*decks), splitList(*agents), registry, cfg.Match.Version, logger)
	if err != nil {
		logger.Fatal("invalid entrants", zap.Error(err))
	}

	switch *mode {
	case "match":
		err = runMatch(ctx, cfg, registry, entrants, recorder, logger)
	case "tournament":
		err = runTournament(ctx, cfg, registry, entrants, recorder, logger)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func runMatch(ctx context.Context, cfg *config.Config, registry *game.Registry, entrants []tournament.Entrant, recorder *game.ReplayRecorder, logger *zap.Logger) error {
	if len(entrants) != 2 {
		return fmt.Errorf("a match needs exactly two entrants, got %d", len(entrants))
	}
	m, err := game.NewMatch(registry, cfg.Match.Game(), *seed, logger)
	if err != nil {
		return err
	}
	var players [2]agent.Agent
	for i, e := range entrants {
		if err := m.SetDeck(i, e.Deck); err != nil {
			return err
		}
		a, err := e.NewAgent(*seed + int64(i))
		if err != nil {
			return err
		}
		if c, ok := a.(interface{ Close() }); ok {
			defer c.Close()
		}
		players[i] = a
	}

	opts := []agent.Option{agent.WithLogger(logger), agent.WithMaxSteps(cfg.Tournament.MaxSteps)}
	if recorder != nil {
		opts = append(opts, agent.WithRecorder(recorder))
	}
	res, err := agent.Run(ctx, m, players, opts...)
	if err != nil {
		return err
	}
	fmt.Printf("match %s: winner %d after %d rounds and %d responses\n", res.MatchID, res.Winner, res.Rounds, res.Steps)

	if *snapshot != "" {
		data, err := m.Snapshot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*snapshot, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}
	return nil
}

func runTournament(ctx context.Context, cfg *config.Config, registry *game.Registry, entrants []tournament.Entrant, recorder *game.ReplayRecorder, logger *zap.Logger) error {
	mgr := tournament.NewManager(tournament.Options{
		Registry:    registry,
		Match:       cfg.Match.Game(),
		Parallelism: cfg.Tournament.Parallelism,
		Seed:        cfg.Tournament.Seed,
		MaxSteps:    cfg.Tournament.MaxSteps,
		Recorder:    recorder,
	}, logger)
	t := mgr.CreateTournament("lpsim", cfg.Tournament.Rounds)
	for _, e := range entrants {
		if err := t.AddPlayer(e); err != nil {
			return err
		}
	}
	if err := mgr.Run(ctx, t); err != nil {
		return err
	}
	for i, p := range t.Standings() {
		fmt.Printf("%2d. %-24s %3d pts  %d-%d-%d  failed %d\n", i+1, p.Name, p.Points, p.Wins, p.Losses, p.Draws, p.Failed)
	}
	return nil
}

// buildEntrants pairs every deck with the agent at the same position. The
// last agent is reused when fewer agents than decks are given.
func buildEntrants(deckRefs, agentNames []string, registry *game.Registry, matchVersion string, logger *zap.Logger) ([]tournament.Entrant, error) {
	if len(agentNames) == 0 {
		return nil, fmt.Errorf("no agents given")
	}
	entrants := make([]tournament.Entrant, 0, len(deckRefs))
	for i, ref := range deckRefs {
		d, err := deck.Resolve(ref)
		if err != nil {
			return nil, err
		}
		if err := deck.Validate(d, deck.DefaultRules, registry, matchVersion); err != nil {
			return nil, err
		}
		name := agentNames[min(i, len(agentNames)-1)]
		factory, err := agentFactory(name, logger)
		if err != nil {
			return nil, err
		}
		entrants = append(entrants, tournament.Entrant{
			Name:     fmt.Sprintf("%d:%s/%s", i, name, d.Name),
			Deck:     d,
			NewAgent: factory,
		})
	}
	return entrants, nil
}

func agentFactory(name string, logger *zap.Logger) (tournament.AgentFactory, error) {
	switch {
	case name == "random":
		return func(seed int64) (agent.Agent, error) {
			return agent.NewRandomAgent(seed, logger), nil
		}, nil
	case name == "round-end":
		return func(int64) (agent.Agent, error) {
			return agent.RoundEndAgent{}, nil
		}, nil
	case strings.HasPrefix(name, "lua:"):
		file := strings.TrimPrefix(name, "lua:")
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", name, err)
		}
		return func(int64) (agent.Agent, error) {
			return agent.NewLuaAgent(file, string(src), logger)
		}, nil
	}
	return nil, fmt.Errorf("unknown agent %q", name)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
