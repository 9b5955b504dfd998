package profile_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ai-agent-platform/pkg/dataset"
	"ai-agent-platform/pkg/embedding"
	"ai-agent-platform/pkg/profile"

	"github.com/stretchr/testify/require"
)

// labelEmbedder maps text to a presence vector over known labels, so records
// sharing more answered questions are nearer.
type labelEmbedder struct {
	labels []string
	calls  atomic.Int64
}

func (e *labelEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	e.calls.Add(1)
	values := make([]float32, len(e.labels))
	for i, label := range e.labels {
		if strings.HasPrefix(text, label+": ") || strings.Contains(text, " "+label+": ") {
			values[i] = 1
		}
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: values}}, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Generate(string, string) (*embedding.EmbeddingResponse, error) {
	return nil, errors.New("embedder unavailable")
}

type panickingEmbedder struct{}

func (panickingEmbedder) Generate(string, string) (*embedding.EmbeddingResponse, error) {
	panic("model crashed")
}

// flakyEmbedder succeeds for the first n calls, then fails.
type flakyEmbedder struct {
	next      embedding.EmbeddingProvider
	remaining atomic.Int64
}

func (e *flakyEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	if e.remaining.Add(-1) < 0 {
		return nil, errors.New("embedder went away")
	}
	return e.next.Generate(text, taskType)
}

type fixedDimEmbedder struct {
	dims []int
	i    atomic.Int64
}

func (e *fixedDimEmbedder) Generate(string, string) (*embedding.EmbeddingResponse, error) {
	n := e.dims[int(e.i.Add(1)-1)%len(e.dims)]
	values := make([]float32, n)
	for i := range values {
		values[i] = 1
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: values}}, nil
}

type recordingPersister struct {
	mu       sync.Mutex
	profiles map[string]map[string]string
	sessions []profile.Snapshot
	fail     bool
}

func newRecordingPersister() *recordingPersister {
	return &recordingPersister{profiles: map[string]map[string]string{}}
}

func (p *recordingPersister) SaveProfile(_ context.Context, sessionID string, fields map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("disk full")
	}
	p.profiles[sessionID] = fields
	return nil
}

func (p *recordingPersister) SaveSession(_ context.Context, snapshot profile.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("disk full")
	}
	p.sessions = append(p.sessions, snapshot)
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []profile.Event
}

func (n *recordingNotifier) Notify(_ context.Context, event profile.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []profile.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]profile.EventType, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fixture builds records, universe, index and ranker from CSV text.
type fixture struct {
	records  []profile.Record
	universe *profile.Universe
	index    *profile.Index
	embedder *labelEmbedder
	ranker   *profile.Ranker
}

func newFixture(t *testing.T, csv string, opts ...profile.RankerOption) *fixture {
	t.Helper()

	table, err := dataset.ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)

	records, universe, err := profile.LoadRecords(table, profile.FieldSynonyms)
	require.NoError(t, err)

	emb := &labelEmbedder{labels: universe.Labels()}
	index, err := profile.BuildIndex(context.Background(), records, universe, emb, 2)
	require.NoError(t, err)

	return &fixture{
		records:  records,
		universe: universe,
		index:    index,
		embedder: emb,
		ranker:   profile.NewRanker(index, records, universe, emb, opts...),
	}
}

const threeRecordCSV = `A,B,C
a1,b1,
a2,,c2
,b3,c3
`

const founderCSV = `Full Name,Email Address,Phone Number,Startup Name,industry,stage,funding
Ada,ada@example.com,+44 1234 5678,Engines,hardware,seed,
Grace,grace@example.com,,Compilers,software,series a,2M
Linus,,+358 9876 5432,Kernels,software,,
Margaret,margaret@example.com,+1 555 0100 22,Apollo,aerospace,growth,10M
`
