// internal/match/matchmaker.go
package match

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultWindow is how long a FreeForAll bucket waits after reaching quorum
// before starting with fewer than a full room.
const DefaultWindow = 6500 * time.Millisecond

// Recorder receives room lifecycle events, e.g. for the match history queue.
// Implementations must not block; the matchmaker invokes them while holding
// its lock.
type Recorder interface {
	RoomCreated(r *Room)
	RoomClosed(r *Room, reason string)
}

type bucketKey struct {
	Mode Mode
	Tier int
}

// bucket is the FIFO waiting list for one (mode, tier) pair. An empty bucket
// is never kept around: it is deleted, and its timer cancelled, the moment
// its queue drains.
type bucket struct {
	key         bucketKey
	queue       []*Session
	timer       *time.Timer
	timerGen    uint64
	windowStart time.Time
}

func (b *bucket) contains(s *Session) bool {
	for _, q := range b.queue {
		if q == s {
			return true
		}
	}
	return false
}

func (b *bucket) remove(s *Session) bool {
	for i, q := range b.queue {
		if q == s {
			b.queue = append(b.queue[:i], b.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Matchmaker owns the three shared maps of the core: the session registry,
// the waiting buckets, and the active rooms. A single mutex serializes every
// event (join, relay, disconnect, timer firing), so no mutation ever
// interleaves with another.
type Matchmaker struct {
	mu       sync.Mutex
	sessions map[Conn]*Session
	buckets  map[bucketKey]*bucket
	rooms    map[uuid.UUID]*Room

	window   time.Duration
	recorder Recorder
	log      *logrus.Logger
}

// NewMatchmaker builds an empty matchmaker. window <= 0 selects the default
// FreeForAll wait window; recorder may be nil.
func NewMatchmaker(log *logrus.Logger, window time.Duration, recorder Recorder) *Matchmaker {
	if log == nil {
		log = logrus.New()
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Matchmaker{
		sessions: make(map[Conn]*Session),
		buckets:  make(map[bucketKey]*bucket),
		rooms:    make(map[uuid.UUID]*Room),
		window:   window,
		recorder: recorder,
		log:      log,
	}
}

// Register creates a fresh session for a new channel and sends the welcome
// message carrying its identifier. The session id is minted here, once per
// channel — player is only the stable cookie identity and may repeat across
// simultaneous connections. A duplicate call for the same channel returns
// the existing session unchanged.
func (m *Matchmaker) Register(c Conn, player uuid.UUID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[c]; ok {
		return s
	}
	s := &Session{
		ID:       uuid.New(),
		PlayerID: player,
		Tier:     1,
		TankName: defaultTankName,
	}
	s.conn = c
	m.sessions[c] = s
	m.log.Infof("session %s registered (player %s)", s.ID, s.PlayerID)

	c.Send(welcomeMsg(s.ID))
	return s
}

// Lookup returns the session for a connection, if one is registered.
func (m *Matchmaker) Lookup(c Conn) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[c]
	return s, ok
}

// RoomByID returns an active room, if it has not been dissolved.
func (m *Matchmaker) RoomByID(id uuid.UUID) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	return r, ok
}

// Join enqueues the connection into the bucket for (mode, tier), creating
// the bucket on first use. mode falls back to FreeForAll when unrecognized,
// a non-positive tier becomes 1, and the username is trimmed and capped.
// Re-joining the same bucket before a match forms is a no-op for queue
// membership. Every join re-evaluates the bucket's start condition.
func (m *Matchmaker) Join(c Conn, mode, tankName, username string, tier int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[c]
	if !ok {
		return
	}
	if s.Room != nil {
		// Already matched; a session never queues while a member of a room.
		return
	}

	if tier <= 0 {
		tier = 1
	}
	newMode := ParseMode(mode)

	// A join for a different bucket moves the session; it never waits in
	// two buckets at once.
	if s.Mode != "" && (s.Mode != newMode || s.Tier != tier) {
		oldKey := bucketKey{Mode: s.Mode, Tier: s.Tier}
		if ob, ok := m.buckets[oldKey]; ok && ob.remove(s) {
			if len(ob.queue) == 0 {
				m.deleteBucketLocked(ob)
			}
		}
	}

	s.Mode = newMode
	s.Tier = tier
	if tankName != "" {
		s.TankName = tankName
	}
	s.Username = sanitizeUsername(username)

	key := bucketKey{Mode: s.Mode, Tier: s.Tier}
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{key: key}
		m.buckets[key] = b
	}
	if !b.contains(s) {
		b.queue = append(b.queue, s)
	}
	m.log.Debugf("session %s queued for %s tier %d (%d waiting)", s.ID, key.Mode, key.Tier, len(b.queue))

	m.broadcastStatusLocked(b)
	m.evaluateLocked(b)
}

// broadcastStatusLocked reports the current/needed count to everyone still
// waiting in the bucket.
func (m *Matchmaker) broadcastStatusLocked(b *bucket) {
	_, need := b.key.Mode.Sizes()
	msg := searchingMsg(len(b.queue), need)
	for _, s := range b.queue {
		s.conn.Send(msg)
	}
}

// evaluateLocked runs the start-condition check for a bucket. It fires after
// every join and after every deferred-window expiry.
func (m *Matchmaker) evaluateLocked(b *bucket) {
	min, max := b.key.Mode.Sizes()

	if b.key.Mode.Exact() {
		if len(b.queue) >= max {
			m.materializeLocked(b, max)
		}
		return
	}

	// FreeForAll: fill immediately at the cap, otherwise open a single
	// deferred window once quorum is reached.
	if len(b.queue) >= max {
		m.materializeLocked(b, max)
		return
	}
	if len(b.queue) >= min && b.timer == nil {
		m.armWindowLocked(b)
	}
}

// armWindowLocked schedules the one-shot deferred start for a FreeForAll
// bucket. The window's generation is fixed under the lock and carried into
// the callback by value, so a cancelled or superseded window never starts a
// match — and the callback never reads state the arming goroutine is still
// writing.
func (m *Matchmaker) armWindowLocked(b *bucket) {
	key := b.key
	b.windowStart = time.Now()
	b.timerGen++
	gen := b.timerGen

	b.timer = time.AfterFunc(m.window, func() {
		m.windowElapsed(key, gen)
	})
	m.log.Debugf("bucket %s tier %d: deferred window armed (%s)", key.Mode, key.Tier, m.window)
}

// windowElapsed is the deferred-window callback. The bucket may have been
// consumed, deleted, or re-armed while the timer was in flight; only the
// generation that armed this window may act.
func (m *Matchmaker) windowElapsed(key bucketKey, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok || b.timerGen != gen {
		return
	}
	b.timer = nil

	min, max := key.Mode.Sizes()
	n := len(b.queue)
	if n > max {
		n = max
	}
	if n < min {
		// Below quorum: the bucket stays as-is. A later join re-arms the
		// window; a shrink alone never does.
		m.log.Debugf("bucket %s tier %d: window fired below quorum after %s (%d waiting)", key.Mode, key.Tier, time.Since(b.windowStart).Round(time.Millisecond), len(b.queue))
		return
	}
	m.materializeLocked(b, n)
}

// cancelWindowLocked stops a pending deferred start, if any. Bumping the
// generation invalidates a callback that already fired and is waiting on
// the lock.
func (m *Matchmaker) cancelWindowLocked(b *bucket) {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
		b.timerGen++
	}
}

// deleteBucketLocked removes an emptied bucket and cancels its timer.
func (m *Matchmaker) deleteBucketLocked(b *bucket) {
	m.cancelWindowLocked(b)
	delete(m.buckets, b.key)
}

// materializeLocked converts the first n queued sessions into a room. The
// earliest joiner becomes host; any surplus stays queued for the next match.
func (m *Matchmaker) materializeLocked(b *bucket, n int) {
	members := make([]*Session, n)
	copy(members, b.queue[:n])
	b.queue = b.queue[n:]

	if len(b.queue) == 0 {
		m.deleteBucketLocked(b)
	} else {
		m.broadcastStatusLocked(b)
	}

	r := newRoom(b.key.Mode, b.key.Tier, members)
	m.rooms[r.ID] = r
	for _, s := range members {
		s.Room = r
	}

	m.log.Infof("room %s created: %s tier %d, %d players, host %s", r.ID, r.Mode, r.Tier, r.size(), r.Host().ID)

	notice := matchFoundMsg(r)
	for _, s := range members {
		s.conn.Send(notice)
	}
	// The host gets a distinct signal: it must begin driving authoritative
	// game state.
	r.Host().conn.Send(hostStartMsg())

	if m.recorder != nil {
		m.recorder.RoomCreated(r)
	}
}
