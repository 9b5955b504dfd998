package memory

import (
	"ai-agent-platform/pkg/profile"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps profile sessions in process memory. Items never
// expire on their own: staleness is decided by the profile reaper, which has
// to take each session's lock before removing it.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *SessionRepository) Save(session *profile.Session) {
	r.cache.Set(session.ID(), session, cache.NoExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*profile.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*profile.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// All copies the current item set; go-cache's Items returns a fresh map.
func (r *SessionRepository) All() []*profile.Session {
	items := r.cache.Items()
	sessions := make([]*profile.Session, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, item.Object.(*profile.Session))
	}
	return sessions
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
