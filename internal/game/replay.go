package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Frame is one recorded match snapshot.
type Frame struct {
	Round    int
	Phase    string
	Checksum string
	Snapshot []byte
}

// Replay is the ordered list of snapshots of one match.
type Replay struct {
	MatchID      string
	Frames       []*Frame
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(matchID string) *Replay {
	return &Replay{
		MatchID: matchID,
		Frames:  make([]*Frame, 0),
	}
}

// Capture snapshots m and appends the frame.
func (r *Replay) Capture(m *Match) error {
	data, err := m.Snapshot()
	if err != nil {
		return fmt.Errorf("capture frame: %w", err)
	}
	sum, err := m.Checksum()
	if err != nil {
		return fmt.Errorf("capture frame: %w", err)
	}
	r.Record(&Frame{
		Round:    m.Round(),
		Phase:    m.Phase().String(),
		Checksum: sum,
		Snapshot: data,
	})
	return nil
}

// Record appends a frame.
func (r *Replay) Record(frame *Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Frames = append(r.Frames, frame)
}

// Start rewinds playback.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the frame at the cursor and moves forward.
func (r *Replay) Next() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.Frames) {
		frame := r.Frames[r.CurrentIndex]
		r.CurrentIndex++
		return frame
	}
	return nil
}

// Previous moves back and returns that frame.
func (r *Replay) Previous() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.Frames[r.CurrentIndex]
	}
	return nil
}

// Size returns the number of frames.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Frames)
}

// FrameAt returns the frame at index, or nil.
func (r *Replay) FrameAt(index int) *Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.Frames) {
		return r.Frames[index]
	}
	return nil
}

// MatchAt restores the match recorded in frame index.
func (r *Replay) MatchAt(index int, registry *Registry, logger *zap.Logger) (*Match, error) {
	frame := r.FrameAt(index)
	if frame == nil {
		return nil, fmt.Errorf("replay %s has no frame %d", r.MatchID, index)
	}
	return LoadMatch(frame.Snapshot, registry, logger)
}

type replayHeader struct {
	MatchID    string
	Timestamp  time.Time
	Version    int
	FrameCount int
}

func replayPath(directory, matchID string) string {
	return filepath.Join(directory, fmt.Sprintf("%s.replay", matchID))
}

// SaveToFile writes the replay as a gzipped gob stream.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(replayPath(directory, r.MatchID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	encoder := gob.NewEncoder(gz)
	header := replayHeader{
		MatchID:    r.MatchID,
		Timestamp:  time.Now(),
		Version:    snapshotVersion,
		FrameCount: len(r.Frames),
	}
	if err := encoder.Encode(&header); err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	for i, frame := range r.Frames {
		if err := encoder.Encode(frame); err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, matchID string) (*Replay, error) {
	file, err := os.Open(replayPath(directory, matchID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	decoder := gob.NewDecoder(gz)
	var header replayHeader
	if err := decoder.Decode(&header); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	if header.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", header.Version)
	}
	replay := NewReplay(header.MatchID)
	for i := 0; i < header.FrameCount; i++ {
		var frame Frame
		if err := decoder.Decode(&frame); err != nil {
			return nil, fmt.Errorf("failed to decode frame %d: %w", i, err)
		}
		replay.Frames = append(replay.Frames, &frame)
	}
	return replay, nil
}

// ReplayRecorder keeps replays of running matches and writes them out when
// the matches finish. It is safe for concurrent use.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	saveDir string
}

// NewReplayRecorder creates a recorder writing to saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		saveDir: saveDir,
	}
}

// StartRecording begins a replay for matchID.
func (rr *ReplayRecorder) StartRecording(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[matchID] = NewReplay(matchID)
	rr.logger.Info("started replay recording", zap.String("match_id", matchID))
}

// IsRecording reports whether matchID is being recorded.
func (rr *ReplayRecorder) IsRecording(matchID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	_, ok := rr.replays[matchID]
	return ok
}

// Capture records a frame of m if it is being recorded.
func (rr *ReplayRecorder) Capture(m *Match) error {
	rr.mu.RLock()
	replay := rr.replays[m.ID]
	rr.mu.RUnlock()

	if replay == nil {
		return nil
	}
	if err := replay.Capture(m); err != nil {
		return err
	}
	rr.logger.Debug("recorded replay frame",
		zap.String("match_id", m.ID),
		zap.Int("frame_count", replay.Size()))
	return nil
}

// Replay returns the in-memory replay of matchID.
func (rr *ReplayRecorder) Replay(matchID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, ok := rr.replays[matchID]
	return replay, ok
}

// SaveReplay writes the replay of matchID to disk and forgets it.
func (rr *ReplayRecorder) SaveReplay(matchID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[matchID]
	if !ok {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for match %s", matchID)
	}
	delete(rr.replays, matchID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	rr.logger.Info("saved replay to disk",
		zap.String("match_id", matchID),
		zap.Int("frame_count", replay.Size()),
		zap.String("directory", rr.saveDir))
	return nil
}

// LoadReplay reads a saved replay from the recorder directory.
func (rr *ReplayRecorder) LoadReplay(matchID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, matchID)
	if err != nil {
		return nil, err
	}
	rr.logger.Info("loaded replay from disk",
		zap.String("match_id", matchID),
		zap.Int("frame_count", replay.Size()))
	return replay, nil
}

// ClearReplay drops a replay without saving it.
func (rr *ReplayRecorder) ClearReplay(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, matchID)
}
