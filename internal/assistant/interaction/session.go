// internal/assistant/interaction/session.go
package interaction

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"askdata/internal/common/metrics"
)

type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseAwaitingFeedback  Phase = "awaiting-feedback"
	PhaseFeedbackSubmitted Phase = "feedback-submitted"
)

// Session is the per-browser interaction state. It is never shared
// between browsers.
type Session struct {
	ID                string
	ShowFeedback      bool
	FeedbackSubmitted bool
	LastQuestion      string
	LastAnswer        string
	Temperature       float64

	mu sync.Mutex
}

// SessionSnapshot is a lock-free copy for rendering.
type SessionSnapshot struct {
	ID                string  `json:"id"`
	Phase             Phase   `json:"phase"`
	ShowFeedback      bool    `json:"showFeedback"`
	FeedbackSubmitted bool    `json:"feedbackSubmitted"`
	LastQuestion      string  `json:"lastQuestion,omitempty"`
	LastAnswer        string  `json:"lastAnswer,omitempty"`
	Temperature       float64 `json:"temperature"`
}

func newSession(id string, temperature float64) *Session {
	return &Session{ID: id, Temperature: temperature}
}

// Phase must be called with s.mu held or on a session no one else sees.
func (s *Session) Phase() Phase {
	switch {
	case s.ShowFeedback && !s.FeedbackSubmitted:
		return PhaseAwaitingFeedback
	case s.ShowFeedback && s.FeedbackSubmitted:
		return PhaseFeedbackSubmitted
	default:
		return PhaseIdle
	}
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() SessionSnapshot {
	return SessionSnapshot{
		ID:                s.ID,
		Phase:             s.Phase(),
		ShowFeedback:      s.ShowFeedback,
		FeedbackSubmitted: s.FeedbackSubmitted,
		LastQuestion:      s.LastQuestion,
		LastAnswer:        s.LastAnswer,
		Temperature:       s.Temperature,
	}
}

// SessionStore keeps sessions in process memory with a sliding TTL.
// Everything is lost on restart.
type SessionStore struct {
	cache              *gocache.Cache
	ttl                time.Duration
	defaultTemperature float64
}

func NewSessionStore(ttl time.Duration, defaultTemperature float64) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := gocache.New(ttl, ttl/2)
	store := &SessionStore{cache: c, ttl: ttl, defaultTemperature: defaultTemperature}
	c.OnEvicted(func(string, interface{}) {
		metrics.SessionsActive.Set(float64(c.ItemCount()))
	})
	return store
}

// Get returns a live session and refreshes its TTL.
func (s *SessionStore) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	s.cache.Set(id, sess, s.ttl)
	return sess, true
}

// GetOrCreate returns the session for id, or a fresh one with a new id
// when id is empty or unknown.
func (s *SessionStore) GetOrCreate(id string) (*Session, bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	sess := newSession(uuid.NewString(), s.defaultTemperature)
	s.cache.Set(sess.ID, sess, s.ttl)
	metrics.SessionsActive.Set(float64(s.cache.ItemCount()))
	return sess, true
}

func (s *SessionStore) Delete(id string) {
	s.cache.Delete(id)
	metrics.SessionsActive.Set(float64(s.cache.ItemCount()))
}

func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}
