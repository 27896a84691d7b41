package player

import (
	"encoding/json"
	"fmt"

	"echofm/logger"
	"echofm/model"
)

// snapshotVersion guards the persisted blob layout.
const snapshotVersion = 1

// snapshot is the persisted subset of the player state. Playback position and
// duration are ephemeral per session and deliberately excluded.
type snapshot struct {
	Version int           `json:"version"`
	Queue   []model.Track `json:"queue"`
	Cursor  int           `json:"cursor"`
	Current *model.Track  `json:"current,omitempty"`
	Volume  float64       `json:"volume"`
}

func (s *Store) encodeSnapshot() ([]byte, error) {
	s.mu.Lock()
	snap := snapshot{
		Version: snapshotVersion,
		Queue:   append([]model.Track(nil), s.queue...),
		Cursor:  s.cursor,
		Volume:  s.volume,
	}
	if s.current != nil {
		track := *s.current
		snap.Current = &track
	}
	s.mu.Unlock()
	return json.Marshal(&snap)
}

// Restore loads the persisted snapshot, if any. Playback starts paused with
// position and duration at zero. A snapshot from an unknown version is
// ignored.
func (s *Store) Restore() error {
	if s.local == nil {
		return nil
	}
	blob, err := s.local.LoadPlayerState()
	if err != nil {
		return fmt.Errorf("load player snapshot: %w", err)
	}
	if blob == nil {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return fmt.Errorf("decode player snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		logger.Warn("ignoring player snapshot with unknown version", logger.Int("version", snap.Version))
		return nil
	}

	s.mu.Lock()
	s.queue = snap.Queue
	s.cursor = snap.Cursor
	s.current = snap.Current
	if snap.Volume >= 0 && snap.Volume <= 1 {
		s.volume = snap.Volume
	}
	// Re-establish the cursor invariant whatever was persisted.
	if s.current == nil {
		s.cursor = -1
	} else if s.cursor < -1 || s.cursor >= len(s.queue) {
		s.cursor = s.indexOf(s.current.ID)
	}
	s.isPlaying = false
	s.currentTime = 0
	s.duration = 0
	s.mu.Unlock()
	return nil
}
