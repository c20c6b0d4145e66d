package places

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"localscope/app"
)

// SessionCookie names the cookie carrying the visitor's session id.
const SessionCookie = "localscope_session"

// DefaultMaxSessions bounds how many sessions are held in memory.
const DefaultMaxSessions = 10000

// mapContainer is the element id the Leaflet map is drawn into.
const mapContainer = "map-container"

// Session is one visitor's page: its controller and everything it draws on.
// The controller loop starts with the first search or locate request.
type Session struct {
	ID         string
	Controller *Controller
	Map        *LeafletMap
	Banners    *Banners

	lastSeen time.Time
	ctx      context.Context
	cancel   context.CancelFunc
	start    sync.Once
}

func (sess *Session) run() {
	sess.start.Do(func() {
		go sess.Controller.Run(sess.ctx)
	})
}

// Submit starts the controller if needed and runs a search.
func (sess *Session) Submit(ctx context.Context, f Form) error {
	sess.run()
	return sess.Controller.Submit(ctx, f)
}

// Locate starts the controller if needed and resolves the current position.
func (sess *Session) Locate(ctx context.Context, l Locator, current *Form) error {
	sess.run()
	return sess.Controller.Locate(ctx, l, current)
}

// Sessions hands out a page per visitor and runs each page's controller
// loop until the session goes idle or is evicted.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	max      int

	searcher Searcher
	metrics  *Metrics
	ttl      time.Duration
	ctx      context.Context
	now      func() time.Time
}

// NewSessions creates the store. Controller loops derive from ctx, so
// cancelling it stops every session.
func NewSessions(ctx context.Context, s Searcher, m *Metrics, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{
		sessions: make(map[string]*Session),
		max:      DefaultMaxSessions,
		searcher: s,
		metrics:  m,
		ttl:      ttl,
		ctx:      ctx,
		now:      time.Now,
	}
}

// SetLimit caps the live sessions; the least recently seen one is evicted
// to make room. n <= 0 keeps the default.
func (s *Sessions) SetLimit(n int) {
	if n <= 0 {
		n = DefaultMaxSessions
	}
	s.mu.Lock()
	s.max = n
	s.mu.Unlock()
}

// Lookup returns the visitor's session without creating one.
func (s *Sessions) Lookup(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c == nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[c.Value]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

// Get returns the visitor's session, creating one and setting the cookie
// when the request carries none or an expired id.
func (s *Sessions) Get(w http.ResponseWriter, r *http.Request) *Session {
	if sess, ok := s.Lookup(r); ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.sessions) >= s.max {
		s.evictOldestLocked()
	}

	sess := s.newSession()
	s.sessions[sess.ID] = sess
	s.metrics.setSessions(len(s.sessions))

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (s *Sessions) newSession() *Session {
	m := NewLeafletMap(mapContainer)
	banners := NewBanners()
	ctx, cancel := context.WithCancel(s.ctx)

	return &Session{
		ID:         uuid.NewString(),
		Controller: NewController(s.searcher, NewRenderer(m), banners, s.metrics),
		Map:        m,
		Banners:    banners,
		lastSeen:   s.now(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *Sessions) evictOldestLocked() {
	var oldest *Session
	for _, sess := range s.sessions {
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldest = sess
		}
	}
	if oldest == nil {
		return
	}
	oldest.cancel()
	delete(s.sessions, oldest.ID)
	app.Log("places", "Session limit %d reached, evicted %s", s.max, oldest.ID)
}

// Reap stops and forgets sessions idle for longer than the TTL. It returns
// how many were removed.
func (s *Sessions) Reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			sess.cancel()
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		app.Log("places", "Expired %d idle sessions, %d active", removed, len(s.sessions))
		s.metrics.setSessions(len(s.sessions))
	}
	return removed
}

// Run reaps idle sessions once a minute until ctx is done, then stops
// every remaining session.
func (s *Sessions) Run(ctx context.Context) error {
	interval := time.Minute
	if s.ttl < interval {
		interval = s.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return nil
		case <-ticker.C:
			s.Reap()
		}
	}
}

func (s *Sessions) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.cancel()
		delete(s.sessions, id)
	}
	s.metrics.setSessions(0)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
