package profile

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"ai-agent-platform/internal/pkg/logger"

	"github.com/google/uuid"
)

const logModule = "profile"

// Persister durably receives session state by session id.
type Persister interface {
	SaveProfile(ctx context.Context, sessionID string, profile map[string]string) error
	SaveSession(ctx context.Context, snapshot Snapshot) error
}

type EventType string

const (
	EventSessionStarted   EventType = "PROFILE_SESSION_STARTED"
	EventSessionCompleted EventType = "PROFILE_SESSION_COMPLETED"
	EventSessionEvicted   EventType = "PROFILE_SESSION_EVICTED"
)

type Event struct {
	Type       EventType
	Snapshot   Snapshot
	OccurredAt time.Time
}

// Notifier observes session lifecycle transitions. Notify must not block.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type OutcomeStatus string

const (
	StatusContinue OutcomeStatus = "continue"
	StatusComplete OutcomeStatus = "complete"
)

type Progress struct {
	Answered int
	Total    int
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d", p.Answered, p.Total)
}

func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Answered) / float64(p.Total)
}

type Started struct {
	SessionID string
	Question  string
}

// Outcome of a submit: NextQuestion and Progress for StatusContinue, Profile
// for StatusComplete.
type Outcome struct {
	Status       OutcomeStatus
	NextQuestion string
	Progress     Progress
	Profile      map[string]string
}

type Stats struct {
	Active   int `json:"active"`
	Complete int `json:"complete"`
}

// Manager drives profile sessions: it owns their lifecycle and asks the
// ranker for the next question after every answer.
type Manager struct {
	ranker      Suggester
	universe    *Universe
	store       SessionStore
	persister   Persister
	notifier    Notifier
	logger      logger.ILogger
	constraints []Constraint
	topK        int
	now         func() time.Time
}

type ManagerOption func(*Manager)

func WithPersister(p Persister) ManagerOption {
	return func(m *Manager) { m.persister = p }
}

func WithNotifier(n Notifier) ManagerOption {
	return func(m *Manager) { m.notifier = n }
}

func WithConstraints(c []Constraint) ManagerOption {
	return func(m *Manager) { m.constraints = c }
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func WithTopK(k int) ManagerOption {
	return func(m *Manager) {
		if k > 0 {
			m.topK = k
		}
	}
}

func NewManager(
	ranker Suggester,
	universe *Universe,
	store SessionStore,
	log logger.ILogger,
	opts ...ManagerOption,
) *Manager {
	if ranker == nil {
		panic("ranker is required")
	}
	if universe == nil {
		panic("universe is required")
	}
	if store == nil {
		panic("session store is required")
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	m := &Manager{
		ranker:      ranker,
		universe:    universe,
		store:       store,
		logger:      log,
		constraints: DefaultConstraints,
		topK:        DefaultMaxSuggest,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start opens a session and returns its first question, already marked asked.
func (m *Manager) Start(ctx context.Context) (*Started, error) {
	suggestion := m.ranker.Rank(ctx, nil, nil, m.topK)
	if len(suggestion.Questions) == 0 {
		return nil, fmt.Errorf("%w: question universe is empty", ErrLoad)
	}

	s := newSession(uuid.NewString(), m.now())
	question := suggestion.Questions[0]
	s.markAsked(question)

	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	m.store.Save(s)
	m.notify(ctx, EventSessionStarted, snap)

	return &Started{SessionID: s.id, Question: question}, nil
}

// Submit records an answer and picks the next question. Submits on the same
// session serialize on the session lock; different sessions never contend.
func (m *Manager) Submit(ctx context.Context, sessionID, question, answer string) (*Outcome, error) {
	s, ok := m.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateEvicted:
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	case StateComplete:
		return nil, fmt.Errorf("%w: %s", ErrSessionComplete, sessionID)
	}

	s.lastActive = m.now()

	question = strings.TrimSpace(question)
	if !m.universe.Contains(question) {
		return nil, invalid(fmt.Sprintf("Unknown question: %q", question))
	}
	if err := ValidateAnswer(question, answer, m.constraints); err != nil {
		return nil, err
	}

	s.profile[question] = strings.TrimSpace(answer)
	s.markAsked(question)

	if m.persister != nil {
		if err := m.persister.SaveProfile(ctx, s.id, maps.Clone(s.profile)); err != nil {
			m.logger.Error(logModule, "Failed to save profile", map[string]interface{}{
				"session_id": s.id,
				"error":      err.Error(),
			})
		}
	}

	suggestion := m.ranker.Rank(ctx, s.profile, s.asked, m.topK)
	m.logSuggestion(s.id, suggestion)

	if len(suggestion.Questions) == 0 {
		s.state = StateComplete
		m.notify(ctx, EventSessionCompleted, s.snapshot())
		return &Outcome{
			Status:   StatusComplete,
			Profile:  maps.Clone(s.profile),
			Progress: Progress{Answered: len(s.profile), Total: m.universe.Len()},
		}, nil
	}

	next := suggestion.Questions[0]
	s.markAsked(next)

	return &Outcome{
		Status:       StatusContinue,
		NextQuestion: next,
		Progress:     Progress{Answered: len(s.profile), Total: m.universe.Len()},
	}, nil
}

// Get returns a copy of the session's current state.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	s, ok := m.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEvicted {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	snap := s.snapshot()
	return &snap, nil
}

func (m *Manager) Stats() Stats {
	var stats Stats
	for _, s := range m.store.All() {
		s.mu.Lock()
		switch s.state {
		case StateActive:
			stats.Active++
		case StateComplete:
			stats.Complete++
		}
		s.mu.Unlock()
	}
	return stats
}

// EvictStale removes every session idle for longer than threshold and returns
// the removed ids. Each session is locked before removal so an in-flight
// submit either finishes first or observes the eviction.
func (m *Manager) EvictStale(ctx context.Context, threshold time.Duration) []string {
	cutoff := m.now().Add(-threshold)

	var evicted []string
	for _, s := range m.store.All() {
		s.mu.Lock()
		if s.state == StateEvicted || !s.lastActive.Before(cutoff) {
			s.mu.Unlock()
			continue
		}
		if s.state == StateActive {
			s.state = StateEvicted
		}
		snap := s.snapshot()
		m.store.Delete(s.id)
		s.mu.Unlock()

		evicted = append(evicted, s.id)
		m.notify(ctx, EventSessionEvicted, snap)
	}

	if len(evicted) > 0 {
		m.logger.Info(logModule, "Evicted stale sessions", map[string]interface{}{
			"count":     len(evicted),
			"threshold": threshold.String(),
		})
	}
	return evicted
}

// RunReaper calls EvictStale every interval until ctx is done.
func (m *Manager) RunReaper(ctx context.Context, interval, threshold time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictStale(ctx, threshold)
		}
	}
}

// ShutdownFlush hands every session to the persister and empties the store.
// Sessions are removed even when saving them fails.
func (m *Manager) ShutdownFlush(ctx context.Context) error {
	var errs []error
	flushed := 0

	for _, s := range m.store.All() {
		s.mu.Lock()
		snap := s.snapshot()
		if s.state == StateActive {
			s.state = StateEvicted
		}
		m.store.Delete(s.id)
		s.mu.Unlock()

		if m.persister == nil {
			continue
		}
		if err := m.persister.SaveSession(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("flush session %s: %w", snap.ID, err))
			continue
		}
		flushed++
	}

	m.logger.Info(logModule, "Flushed sessions on shutdown", map[string]interface{}{
		"flushed": flushed,
		"failed":  len(errs),
	})
	return errors.Join(errs...)
}

func (m *Manager) notify(ctx context.Context, eventType EventType, snap Snapshot) {
	if m.notifier == nil {
		return
	}
	m.notifier.Notify(ctx, Event{Type: eventType, Snapshot: snap, OccurredAt: m.now()})
}

func (m *Manager) logSuggestion(sessionID string, s Suggestion) {
	details := map[string]interface{}{
		"session_id": sessionID,
		"source":     string(s.Source),
		"candidates": len(s.Questions),
	}
	switch s.Source {
	case SourceDegraded:
		if s.Err != nil {
			details["error"] = s.Err.Error()
		}
		m.logger.Warn(logModule, "Question ranking degraded to universe order", details)
	case SourceExhausted:
		m.logger.Info(logModule, "Neighbors exhausted, using universe order", details)
	default:
		m.logger.Debug(logModule, "Ranked next questions", details)
	}
}
