package profile

import (
	"maps"
	"sync"
	"time"
)

type State string

const (
	StateActive   State = "active"
	StateComplete State = "complete"
	StateEvicted  State = "evicted"
)

// Session is one profile-collection conversation. All fields are guarded by
// mu; the session store only ever hands out the pointer.
type Session struct {
	mu sync.Mutex

	id         string
	profile    map[string]string
	asked      map[string]struct{}
	askedOrder []string
	state      State
	createdAt  time.Time
	lastActive time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:         id,
		profile:    make(map[string]string),
		asked:      make(map[string]struct{}),
		state:      StateActive,
		createdAt:  now,
		lastActive: now,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) markAsked(question string) {
	if _, ok := s.asked[question]; ok {
		return
	}
	s.asked[question] = struct{}{}
	s.askedOrder = append(s.askedOrder, question)
}

// Snapshot is a detached copy of a session, safe to hand to collaborators.
type Snapshot struct {
	ID         string            `json:"id"`
	Profile    map[string]string `json:"profile"`
	Asked      []string          `json:"asked_questions"`
	State      State             `json:"state"`
	CreatedAt  time.Time         `json:"created_at"`
	LastActive time.Time         `json:"last_active"`
}

// snapshot requires s.mu.
func (s *Session) snapshot() Snapshot {
	asked := make([]string, len(s.askedOrder))
	copy(asked, s.askedOrder)
	return Snapshot{
		ID:         s.id,
		Profile:    maps.Clone(s.profile),
		Asked:      asked,
		State:      s.state,
		CreatedAt:  s.createdAt,
		LastActive: s.lastActive,
	}
}

// SessionStore owns the id → session mapping.
type SessionStore interface {
	Save(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
	// All returns the sessions present at call time; later changes to the
	// store do not affect the returned slice.
	All() []*Session
	Count() int
}
