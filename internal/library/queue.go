// ABOUTME: Track queue with wraparound index selection
// ABOUTME: Tracks are only enqueued once their audio is fully decoded
package library

import (
	"sync"

	"github.com/google/uuid"

	"github.com/platterfm/platter/internal/audio"
)

// Track is one playable entry in the queue.
type Track struct {
	ID     string
	Title  string
	Artist string
	Album  string
	Cover  []byte // raw embedded cover image, may be nil
	Source string // originating file path
	Buffer *audio.Buffer
}

// NewTrack creates a track with a fresh identity.
func NewTrack(title, artist, album, source string, buf *audio.Buffer) *Track {
	return &Track{
		ID:     uuid.New().String(),
		Title:  title,
		Artist: artist,
		Album:  album,
		Source: source,
		Buffer: buf,
	}
}

// Queue is an ordered set of tracks with a current index. Selection
// wraps in both directions; tracks are never removed in-session.
type Queue struct {
	mu      sync.RWMutex
	tracks  []*Track
	current int
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add appends fully decoded tracks to the queue. Tracks without a
// decoded buffer are dropped: a queue entry must always be playable.
func (q *Queue) Add(tracks ...*Track) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	added := 0
	for _, tr := range tracks {
		if tr == nil || tr.Buffer == nil || len(tr.Buffer.Samples) == 0 {
			continue
		}
		q.tracks = append(q.tracks, tr)
		added++
	}
	return added
}

// Len returns the number of tracks.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.tracks)
}

// CurrentIndex returns the current queue position.
func (q *Queue) CurrentIndex() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.current
}

// Current returns the track at the current position, or nil if empty.
func (q *Queue) Current() *Track {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if len(q.tracks) == 0 {
		return nil
	}
	return q.tracks[q.current]
}

// At returns the track at index i without changing the current
// position. The index wraps like Select.
func (q *Queue) At(i int) *Track {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if len(q.tracks) == 0 {
		return nil
	}
	return q.tracks[mod(i, len(q.tracks))]
}

// Select moves the current position to the requested index using true
// modulo, so Select(-1) from index 0 wraps to the last track and
// Select(len) wraps to the first. Returns the selected track, or nil
// on an empty queue.
func (q *Queue) Select(requested int) *Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tracks) == 0 {
		return nil
	}
	q.current = mod(requested, len(q.tracks))
	return q.tracks[q.current]
}

// Tracks returns a snapshot of the queue contents.
func (q *Queue) Tracks() []*Track {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]*Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// mod is the true modulo: the result always has the sign of n.
func mod(i, n int) int {
	return ((i % n) + n) % n
}
