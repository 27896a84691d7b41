// Package player implements the playback/queue state machine: the current
// track, the ordered queue and its cursor, play/pause, volume and observed
// progress. Transitions that change what is conceptually playing publish a
// presence activity string as a best-effort side effect.
package player

import (
	"fmt"
	"sync"

	"echofm/logger"
	"echofm/model"
)

// PresencePublisher receives activity strings ("Playing X by Y", "Idle").
// Publish must not block; failures stay inside the implementation.
type PresencePublisher interface {
	Publish(activity string)
}

// SnapshotStore persists the player snapshot blob. *storage.Store satisfies it.
type SnapshotStore interface {
	SavePlayerState(blob []byte) error
	LoadPlayerState() ([]byte, error)
}

// ErrEmptyQueue is returned when a queue operation is given no songs.
var ErrEmptyQueue = fmt.Errorf("player: empty song list")

const idleActivity = "Idle"

// Store is the player state machine. Safe for concurrent use.
//
// Invariants: cursor == -1 iff no current track; otherwise, when the current
// track is a member of the queue, queue[cursor] has the current track's id.
// SetCurrentSong with a song outside the queue deliberately leaves the cursor
// pointing at a different track; the queue position survives the jump.
type Store struct {
	mu          sync.Mutex
	queue       []model.Track
	cursor      int
	current     *model.Track
	isPlaying   bool
	volume      float64
	currentTime float64
	duration    float64

	presence PresencePublisher
	local    SnapshotStore
}

// NewStore creates an empty player. presence and local may be nil.
func NewStore(presence PresencePublisher, local SnapshotStore) *Store {
	return &Store{
		cursor:   -1,
		volume:   1,
		presence: presence,
		local:    local,
	}
}

// InitializeQueue seeds the queue without interrupting an in-progress
// session: if no current track is set, the first song becomes current
// (paused); otherwise only the queue contents are replaced and the cursor is
// recomputed for the current track. Playback state is untouched.
func (s *Store) InitializeQueue(songs []model.Track) error {
	if len(songs) == 0 {
		return ErrEmptyQueue
	}

	s.mu.Lock()
	s.queue = append([]model.Track(nil), songs...)
	if s.current == nil {
		track := s.queue[0]
		s.current = &track
		s.cursor = 0
	} else if s.cursor >= 0 {
		// The queue was replaced under the current track; positions are not
		// stable, so recompute the cursor by id.
		if idx := s.indexOf(s.current.ID); idx >= 0 {
			s.cursor = idx
		} else if s.cursor >= len(s.queue) {
			s.cursor = len(s.queue) - 1
		}
	}
	s.mu.Unlock()

	s.persist()
	return nil
}

// PlayAlbum replaces the queue and starts playing at startIndex. An
// out-of-range startIndex is clamped to the queue bounds.
func (s *Store) PlayAlbum(songs []model.Track, startIndex int) error {
	if len(songs) == 0 {
		return ErrEmptyQueue
	}

	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(songs) {
		startIndex = len(songs) - 1
	}

	s.mu.Lock()
	s.queue = append([]model.Track(nil), songs...)
	s.cursor = startIndex
	track := s.queue[startIndex]
	s.current = &track
	s.isPlaying = true
	s.currentTime = 0
	s.duration = 0
	activity := playingActivity(track)
	s.mu.Unlock()

	s.persist()
	s.publish(activity)
	return nil
}

// SetCurrentSong jumps to the given track and forces playback. When the song
// is found in the queue (by id) the cursor follows it; otherwise the cursor
// is left where it was.
func (s *Store) SetCurrentSong(song model.Track) {
	s.mu.Lock()
	s.current = &song
	s.isPlaying = true
	if idx := s.indexOf(song.ID); idx >= 0 {
		s.cursor = idx
	}
	activity := playingActivity(song)
	s.mu.Unlock()

	s.persist()
	s.publish(activity)
}

// TogglePlay flips play/pause and publishes the resulting activity.
func (s *Store) TogglePlay() {
	s.mu.Lock()
	s.isPlaying = !s.isPlaying
	activity := idleActivity
	if s.isPlaying && s.current != nil {
		activity = playingActivity(*s.current)
	}
	s.mu.Unlock()

	s.publish(activity)
}

// PlayNext advances to the next queued track. At the end of the queue it
// pauses in place: cursor and current track stay, playback stops, "Idle" is
// published. It does not wrap.
func (s *Store) PlayNext() {
	s.mu.Lock()
	next := s.cursor + 1
	if s.cursor < 0 || next >= len(s.queue) {
		s.isPlaying = false
		s.mu.Unlock()
		s.publish(idleActivity)
		return
	}

	s.cursor = next
	track := s.queue[next]
	s.current = &track
	s.isPlaying = true
	s.currentTime = 0
	s.duration = 0
	activity := playingActivity(track)
	s.mu.Unlock()

	s.persist()
	s.publish(activity)
}

// PlayPrevious moves back one queued track. At the head of the queue it
// behaves like PlayNext at the tail: pause in place, publish "Idle".
func (s *Store) PlayPrevious() {
	s.mu.Lock()
	prev := s.cursor - 1
	if prev < 0 || s.cursor >= len(s.queue) {
		s.isPlaying = false
		s.mu.Unlock()
		s.publish(idleActivity)
		return
	}

	s.cursor = prev
	track := s.queue[prev]
	s.current = &track
	s.isPlaying = true
	s.currentTime = 0
	s.duration = 0
	activity := playingActivity(track)
	s.mu.Unlock()

	s.persist()
	s.publish(activity)
}

// SetVolume clamps v to [0,1] and stores it.
func (s *Store) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
	s.persist()
}

// SetProgress records the observed playback position. Purely observational.
func (s *Store) SetProgress(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	s.mu.Lock()
	s.currentTime = seconds
	s.mu.Unlock()
}

// SetDuration records the observed track duration. Purely observational.
func (s *Store) SetDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	s.mu.Lock()
	s.duration = seconds
	s.mu.Unlock()
}

// Reset returns the player to its empty state and publishes "Idle". Volume
// is kept.
func (s *Store) Reset() {
	s.mu.Lock()
	s.queue = nil
	s.cursor = -1
	s.current = nil
	s.isPlaying = false
	s.currentTime = 0
	s.duration = 0
	s.mu.Unlock()

	s.persist()
	s.publish(idleActivity)
}

// CurrentTrack returns the currently loaded track, if any.
func (s *Store) CurrentTrack() (model.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return model.Track{}, false
	}
	return *s.current, true
}

// Queue returns a copy of the playback queue.
func (s *Store) Queue() []model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Track(nil), s.queue...)
}

// Cursor returns the queue cursor (-1 when no track is selected).
func (s *Store) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// IsPlaying reports the play/pause flag.
func (s *Store) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isPlaying
}

// Volume returns the current volume in [0,1].
func (s *Store) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Progress returns the observed playback position and duration.
func (s *Store) Progress() (currentTime, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTime, s.duration
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.queue {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func playingActivity(t model.Track) string {
	return fmt.Sprintf("Playing %s by %s", t.Title, t.Artist)
}

// publish forwards an activity string to the presence publisher. Absence of
// a publisher is a soft condition, never an error.
func (s *Store) publish(activity string) {
	if s.presence == nil {
		return
	}
	s.presence.Publish(activity)
}

func (s *Store) persist() {
	if s.local == nil {
		return
	}
	blob, err := s.encodeSnapshot()
	if err != nil {
		logger.Warn("failed to encode player snapshot", logger.ErrorField(err))
		return
	}
	if err := s.local.SavePlayerState(blob); err != nil {
		logger.Warn("failed to persist player snapshot", logger.ErrorField(err))
	}
}
