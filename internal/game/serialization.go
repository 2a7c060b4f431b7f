package game

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lpsim/lpsim-go/internal/game/rules"
)

// snapshotVersion is bumped whenever the document layout changes.
const snapshotVersion = 1

// Envelope is the tagged wire form of a union member.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type historyRecord struct {
	Round  int         `json:"round"`
	Phase  rules.Phase `json:"phase"`
	Action Envelope    `json:"action"`
}

// matchDocument is everything needed to resume a match.
type matchDocument struct {
	Version       int              `json:"version"`
	ID            string           `json:"id"`
	Config        MatchConfig      `json:"config"`
	State         rules.MatchState `json:"state"`
	Phase         rules.Phase      `json:"phase"`
	Round         int              `json:"round"`
	Visited       []rules.Phase    `json:"visited"`
	Stage         int              `json:"stage"`
	Decks         [2]*Deck         `json:"decks"`
	Tables        [2]*PlayerTable  `json:"tables"`
	Queue         [][]Envelope     `json:"queue"`
	Requests      []Envelope       `json:"requests"`
	Seed          int64            `json:"seed"`
	RNGPosition   int64            `json:"rng_position"`
	NextID        ObjectID         `json:"next_id"`
	Current       int              `json:"current"`
	FirstPlayer   int              `json:"first_player"`
	ActionStarted bool             `json:"action_started"`
	Winner        int              `json:"winner"`
	History       []historyRecord  `json:"history"`
	Failure       string           `json:"failure,omitempty"`
}

// Snapshot serializes the full match state, including the pending queue
// and live requests.
func (m *Match) Snapshot() ([]byte, error) {
	doc, err := m.document()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// Checksum is a SHA-256 of the snapshot without the match id. Two matches
// played from the same seed and responses have equal checksums.
func (m *Match) Checksum() (string, error) {
	doc, err := m.document()
	if err != nil {
		return "", err
	}
	doc.ID = ""
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (m *Match) document() (*matchDocument, error) {
	doc := &matchDocument{
		Version:       snapshotVersion,
		ID:            m.ID,
		Config:        m.Config,
		State:         m.state,
		Phase:         m.phases.Current(),
		Round:         m.phases.Round(),
		Visited:       m.phases.Visited(),
		Stage:         m.stage,
		Decks:         m.decks,
		Tables:        m.tables,
		Queue:         [][]Envelope{},
		Requests:      []Envelope{},
		Seed:          m.rng.Seed(),
		RNGPosition:   m.rng.Position(),
		NextID:        m.nextID,
		Current:       m.current,
		FirstPlayer:   m.firstPlayer,
		ActionStarted: m.actionStarted,
		Winner:        m.winner,
		History:       []historyRecord{},
	}
	for _, batch := range m.queue.Batches() {
		envs := make([]Envelope, 0, len(batch))
		for _, a := range batch {
			env, err := MarshalAction(a)
			if err != nil {
				return nil, err
			}
			envs = append(envs, env)
		}
		doc.Queue = append(doc.Queue, envs)
	}
	for _, r := range m.requests {
		env, err := MarshalRequest(r)
		if err != nil {
			return nil, err
		}
		doc.Requests = append(doc.Requests, env)
	}
	for _, h := range m.history {
		env, err := MarshalAction(h.Action)
		if err != nil {
			return nil, err
		}
		doc.History = append(doc.History, historyRecord{Round: h.Round, Phase: h.Phase, Action: env})
	}
	if m.failure != nil {
		var ie *InvariantError
		if errors.As(m.failure, &ie) {
			doc.Failure = ie.Reason
		} else {
			doc.Failure = m.failure.Error()
		}
	}
	return doc, nil
}

// LoadMatch rebuilds a match from a snapshot. Object behaviour is rebound
// from registry.
func LoadMatch(data []byte, registry *Registry, logger *zap.Logger) (*Match, error) {
	if registry == nil {
		return nil, errors.New("load match: registry is required")
	}
	var doc matchDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("load match: %w", err)
	}
	if doc.Version != snapshotVersion {
		return nil, fmt.Errorf("load match: unsupported snapshot version %d", doc.Version)
	}
	if doc.Tables[0] == nil || doc.Tables[1] == nil {
		return nil, errors.New("load match: missing player table")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Match{
		ID:            doc.ID,
		Config:        doc.Config,
		logger:        logger.With(zap.String("match_id", doc.ID)),
		registry:      registry,
		observers:     rules.NewEventBus[Event](),
		state:         doc.State,
		phases:        rules.RestorePhaseTracker(doc.Phase, doc.Round, doc.Visited),
		stage:         doc.Stage,
		decks:         doc.Decks,
		tables:        doc.Tables,
		rng:           rules.RestoreRNG(doc.Seed, doc.RNGPosition),
		nextID:        doc.NextID,
		current:       doc.Current,
		firstPlayer:   doc.FirstPlayer,
		actionStarted: doc.ActionStarted,
		winner:        doc.Winner,
	}
	if doc.Failure != "" {
		m.failure = &InvariantError{Reason: doc.Failure}
	}
	for _, t := range m.tables {
		if err := bindTable(t, registry); err != nil {
			return nil, fmt.Errorf("load match: %w", err)
		}
	}
	batches := make([][]Action, 0, len(doc.Queue))
	for _, envs := range doc.Queue {
		batch := make([]Action, 0, len(envs))
		for _, env := range envs {
			a, err := UnmarshalAction(env)
			if err != nil {
				return nil, fmt.Errorf("load match: %w", err)
			}
			batch = append(batch, a)
		}
		batches = append(batches, batch)
	}
	m.queue = rules.RestoreQueue(batches)
	for _, env := range doc.Requests {
		r, err := UnmarshalRequest(env)
		if err != nil {
			return nil, fmt.Errorf("load match: %w", err)
		}
		m.requests = append(m.requests, r)
	}
	for _, h := range doc.History {
		a, err := UnmarshalAction(h.Action)
		if err != nil {
			return nil, fmt.Errorf("load match: %w", err)
		}
		m.history = append(m.history, HistoryEntry{Round: h.Round, Phase: h.Phase, Action: a})
	}
	return m, nil
}

func bindTable(t *PlayerTable, registry *Registry) error {
	if t.Dice == nil {
		t.Dice = newPlayerTable(t.Player).Dice
	}
	for _, c := range t.Characters {
		if err := bindObject(&c.Object, registry); err != nil {
			return err
		}
	}
	for _, obj := range t.allObjects() {
		if err := bindObject(obj, registry); err != nil {
			return err
		}
	}
	return nil
}

func bindObject(obj *Object, registry *Registry) error {
	if obj.def != nil {
		return nil
	}
	def, err := registry.Lookup(obj.Kind, obj.Name, obj.Version)
	if err != nil {
		return fmt.Errorf("bind object %d: %w", obj.ID, err)
	}
	obj.def = def
	return nil
}

// ValidateSnapshotRoundtrip checks that a match survives a snapshot round
// trip with an identical checksum.
func ValidateSnapshotRoundtrip(m *Match) error {
	before, err := m.Checksum()
	if err != nil {
		return fmt.Errorf("checksum original: %w", err)
	}
	data, err := m.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	restored, err := LoadMatch(data, m.registry, m.logger)
	if err != nil {
		return err
	}
	after, err := restored.Checksum()
	if err != nil {
		return fmt.Errorf("checksum restored: %w", err)
	}
	if before != after {
		return fmt.Errorf("checksum mismatch: original=%s restored=%s", before, after)
	}
	return nil
}

func wrap(kind string, v any) (Envelope, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", kind, err)
	}
	return Envelope{Type: kind, Data: data}, nil
}

func unwrap[T any](data json.RawMessage) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

func decodeAction[T Action](data json.RawMessage) (Action, error) {
	return unwrap[T](data)
}

func decodeRequest[T Request](data json.RawMessage) (Request, error) {
	return unwrap[T](data)
}

func decodeResponse[T Response](data json.RawMessage) (Response, error) {
	return unwrap[T](data)
}

var actionDecoders = map[ActionType]func(json.RawMessage) (Action, error){
	ActionDrawCard:                       decodeAction[DrawCardAction],
	ActionRestoreCard:                    decodeAction[RestoreCardAction],
	ActionRemoveCard:                     decodeAction[RemoveCardAction],
	ActionChooseCharacter:                decodeAction[ChooseCharacterAction],
	ActionCreateDice:                     decodeAction[CreateDiceAction],
	ActionRemoveDice:                     decodeAction[RemoveDiceAction],
	ActionDeclareRoundEnd:                decodeAction[DeclareRoundEndAction],
	ActionActionEnd:                      decodeAction[ActionEndAction],
	ActionSwitchCharacter:                decodeAction[SwitchCharacterAction],
	ActionMakeDamage:                     decodeAction[MakeDamageAction],
	ActionCharge:                         decodeAction[ChargeAction],
	ActionUseSkill:                       decodeAction[UseSkillAction],
	ActionUseCard:                        decodeAction[UseCardAction],
	ActionSkillEnd:                       decodeAction[SkillEndAction],
	ActionCharacterDefeated:              decodeAction[CharacterDefeatedAction],
	ActionCharacterRevive:                decodeAction[CharacterReviveAction],
	ActionCreateObject:                   decodeAction[CreateObjectAction],
	ActionRemoveObject:                   decodeAction[RemoveObjectAction],
	ActionChangeObjectUsage:              decodeAction[ChangeObjectUsageAction],
	ActionMoveObject:                     decodeAction[MoveObjectAction],
	ActionConsumeArcaneLegend:            decodeAction[ConsumeArcaneLegendAction],
	ActionGenerateChooseCharacterRequest: decodeAction[GenerateChooseCharacterRequestAction],
	ActionGenerateRerollDiceRequest:      decodeAction[GenerateRerollDiceRequestAction],
	ActionGenerateSwitchCardRequest:      decodeAction[GenerateSwitchCardRequestAction],
	ActionSkipPlayerAction:               decodeAction[SkipPlayerActionAction],
}

var requestDecoders = map[RequestType]func(json.RawMessage) (Request, error){
	RequestChooseCharacter: decodeRequest[ChooseCharacterRequest],
	RequestRerollDice:      decodeRequest[RerollDiceRequest],
	RequestSwitchCard:      decodeRequest[SwitchCardRequest],
	RequestUseSkill:        decodeRequest[UseSkillRequest],
	RequestUseCard:         decodeRequest[UseCardRequest],
	RequestSwitchCharacter: decodeRequest[SwitchCharacterRequest],
	RequestElementalTuning: decodeRequest[ElementalTuningRequest],
	RequestDeclareRoundEnd: decodeRequest[DeclareRoundEndRequest],
}

var responseDecoders = map[RequestType]func(json.RawMessage) (Response, error){
	RequestChooseCharacter: decodeResponse[ChooseCharacterResponse],
	RequestRerollDice:      decodeResponse[RerollDiceResponse],
	RequestSwitchCard:      decodeResponse[SwitchCardResponse],
	RequestUseSkill:        decodeResponse[UseSkillResponse],
	RequestUseCard:         decodeResponse[UseCardResponse],
	RequestSwitchCharacter: decodeResponse[SwitchCharacterResponse],
	RequestElementalTuning: decodeResponse[ElementalTuningResponse],
	RequestDeclareRoundEnd: decodeResponse[DeclareRoundEndResponse],
}

// MarshalAction wraps an action in its tagged envelope.
func MarshalAction(a Action) (Envelope, error) {
	return wrap(string(a.Type()), a)
}

// UnmarshalAction decodes an action envelope.
func UnmarshalAction(env Envelope) (Action, error) {
	decode, ok := actionDecoders[ActionType(env.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
	a, err := decode(env.Data)
	if err != nil {
		return nil, fmt.Errorf("decode action %s: %w", env.Type, err)
	}
	return a, nil
}

// MarshalRequest wraps a request in its tagged envelope.
func MarshalRequest(r Request) (Envelope, error) {
	return wrap(string(r.Type()), r)
}

// UnmarshalRequest decodes a request envelope.
func UnmarshalRequest(env Envelope) (Request, error) {
	decode, ok := requestDecoders[RequestType(env.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown request type %q", env.Type)
	}
	r, err := decode(env.Data)
	if err != nil {
		return nil, fmt.Errorf("decode request %s: %w", env.Type, err)
	}
	return r, nil
}

// MarshalResponse wraps a response, tagged with the type of its request.
func MarshalResponse(r Response) (Envelope, error) {
	return wrap(string(r.Request().Type()), r)
}

// UnmarshalResponse decodes a response envelope.
func UnmarshalResponse(env Envelope) (Response, error) {
	decode, ok := responseDecoders[RequestType(env.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown response type %q", env.Type)
	}
	r, err := decode(env.Data)
	if err != nil {
		return nil, fmt.Errorf("decode response %s: %w", env.Type, err)
	}
	return r, nil
}
