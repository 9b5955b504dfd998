package profile

import (
	"context"
	"fmt"
	"sort"

	"ai-agent-platform/pkg/embedding"
)

const (
	DefaultNeighborCount = 25
	DefaultMaxSuggest    = 5
)

// Source says which policy produced a suggestion list.
type Source string

const (
	SourceNeighbors Source = "neighbors"
	SourceColdStart Source = "cold_start"
	// SourceExhausted: neighbors voted for nothing new.
	SourceExhausted Source = "exhausted"
	// SourceDegraded: embedding or search failed; Err holds the cause.
	SourceDegraded Source = "degraded"
)

type Suggestion struct {
	Questions []string
	Source    Source
	Err       error
}

// Suggester is what the session manager needs from a ranker.
type Suggester interface {
	Rank(ctx context.Context, profile map[string]string, exclude map[string]struct{}, topK int) Suggestion
}

// Ranker proposes the next questions by neighbor voting: the labels most often
// answered by the records nearest to the partial profile win.
type Ranker struct {
	index         *Index
	records       map[int]Record
	universe      *Universe
	embedder      embedding.EmbeddingProvider
	neighborCount int
	maxSuggest    int
}

type RankerOption func(*Ranker)

func WithNeighborCount(n int) RankerOption {
	return func(r *Ranker) {
		if n > 0 {
			r.neighborCount = n
		}
	}
}

func WithMaxSuggest(n int) RankerOption {
	return func(r *Ranker) {
		if n > 0 {
			r.maxSuggest = n
		}
	}
}

func NewRanker(
	index *Index,
	records []Record,
	universe *Universe,
	embedder embedding.EmbeddingProvider,
	opts ...RankerOption,
) *Ranker {
	byID := make(map[int]Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	r := &Ranker{
		index:         index,
		records:       byID,
		universe:      universe,
		embedder:      embedder,
		neighborCount: DefaultNeighborCount,
		maxSuggest:    DefaultMaxSuggest,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Ranker) Universe() *Universe {
	return r.universe
}

// Suggest returns at most topK labels, never one from exclude or profile.
// It does not fail: problems in the vector path degrade to universe order.
func (r *Ranker) Suggest(ctx context.Context, profile map[string]string, exclude map[string]struct{}, topK int) []string {
	return r.Rank(ctx, profile, exclude, topK).Questions
}

func (r *Ranker) Rank(ctx context.Context, profile map[string]string, exclude map[string]struct{}, topK int) Suggestion {
	if topK <= 0 {
		topK = r.maxSuggest
	}

	if len(profile) == 0 {
		return Suggestion{Questions: r.universe.First(topK, exclude), Source: SourceColdStart}
	}

	neighbors, err := r.neighbors(ctx, profile)
	if err != nil {
		return Suggestion{Questions: r.universe.First(topK, exclude), Source: SourceDegraded, Err: err}
	}

	votes := make(map[string]int)
	for _, n := range neighbors {
		rec, ok := r.records[n.RecordID]
		if !ok {
			continue
		}
		for label := range rec.Fields {
			if _, known := profile[label]; known {
				continue
			}
			if _, skip := exclude[label]; skip {
				continue
			}
			votes[label]++
		}
	}

	if len(votes) == 0 {
		return Suggestion{Questions: r.universe.First(topK, exclude), Source: SourceExhausted}
	}

	candidates := make([]string, 0, len(votes))
	for label := range votes {
		candidates = append(candidates, label)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if votes[a] != votes[b] {
			return votes[a] > votes[b]
		}
		return r.universe.Position(a) < r.universe.Position(b)
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return Suggestion{Questions: candidates, Source: SourceNeighbors}
}

func (r *Ranker) neighbors(ctx context.Context, profile map[string]string) (hits []Neighbor, err error) {
	defer func() {
		if p := recover(); p != nil {
			hits, err = nil, fmt.Errorf("neighbor search panicked: %v", p)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.index == nil || r.embedder == nil {
		return nil, fmt.Errorf("similarity index unavailable")
	}

	res, err := r.embedder.Generate(r.universe.Text(profile), embedding.TaskSemanticSimilarity)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("embed query: empty response")
	}

	return r.index.Search(embedding.Normalize(res.Embedding.Values), r.neighborCount)
}
