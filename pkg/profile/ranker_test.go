package profile_test

import (
	"context"
	"testing"

	"ai-agent-platform/pkg/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_NeighborVoting(t *testing.T) {
	f := newFixture(t, threeRecordCSV, profile.WithNeighborCount(2))

	got := f.ranker.Rank(context.Background(), map[string]string{"A": "x"}, nil, 5)

	assert.Equal(t, profile.SourceNeighbors, got.Source)
	assert.Equal(t, []string{"B", "C"}, got.Questions)
}

func TestRank_VotesOutrankUniverseOrder(t *testing.T) {
	f := newFixture(t, founderCSV)

	got := f.ranker.Suggest(context.Background(), map[string]string{"name": "Zed", "industry": "software"}, map[string]struct{}{"name": {}, "industry": {}}, 3)

	// All four records are neighbors. startup_name has 4 votes; email, phone
	// and stage have 3 each and keep universe order.
	assert.Equal(t, []string{"startup_name", "email", "phone"}, got)
}

func TestRank_ColdStart(t *testing.T) {
	f := newFixture(t, founderCSV)

	got := f.ranker.Rank(context.Background(), map[string]string{}, map[string]struct{}{}, 3)

	assert.Equal(t, profile.SourceColdStart, got.Source)
	assert.Equal(t, []string{"name", "email", "phone"}, got.Questions)

	calls := f.embedder.calls.Load()
	f.ranker.Suggest(context.Background(), nil, nil, 0)
	assert.Equal(t, calls, f.embedder.calls.Load(), "cold start must not embed")
}

func TestRank_DefaultTopK(t *testing.T) {
	f := newFixture(t, founderCSV, profile.WithMaxSuggest(2))

	assert.Len(t, f.ranker.Suggest(context.Background(), nil, nil, 0), 2)
}

func TestRank_NeverSuggestsExcludedOrKnown(t *testing.T) {
	f := newFixture(t, founderCSV)
	known := map[string]string{"name": "Ada", "email": "ada@example.com"}
	exclude := map[string]struct{}{"name": {}, "email": {}, "industry": {}}

	got := f.ranker.Suggest(context.Background(), known, exclude, 10)

	require.NotEmpty(t, got)
	for _, q := range got {
		assert.NotContains(t, exclude, q)
		assert.NotContains(t, known, q)
	}
}

func TestRank_ExhaustedFallsBackToUniverse(t *testing.T) {
	f := newFixture(t, threeRecordCSV)
	known := map[string]string{"A": "x", "B": "y", "C": "z"}

	got := f.ranker.Rank(context.Background(), known, map[string]struct{}{"A": {}}, 5)

	assert.Equal(t, profile.SourceExhausted, got.Source)
	assert.Equal(t, []string{"B", "C"}, got.Questions)

	got = f.ranker.Rank(context.Background(), known, map[string]struct{}{"A": {}, "B": {}, "C": {}}, 5)
	assert.Empty(t, got.Questions)
}

func TestRank_DegradedMatchesColdStart(t *testing.T) {
	f := newFixture(t, founderCSV)
	exclude := map[string]struct{}{"name": {}, "phone": {}}
	known := map[string]string{"name": "Ada"}
	want := f.universe.First(3, exclude)

	tests := []struct {
		name   string
		ranker *profile.Ranker
	}{
		{name: "embedder error", ranker: profile.NewRanker(f.index, f.records, f.universe, failingEmbedder{})},
		{name: "embedder panic", ranker: profile.NewRanker(f.index, f.records, f.universe, panickingEmbedder{})},
		{name: "no index", ranker: profile.NewRanker(nil, f.records, f.universe, f.embedder)},
		{name: "dimension mismatch", ranker: profile.NewRanker(f.index, f.records, f.universe, &fixedDimEmbedder{dims: []int{2}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ranker.Rank(context.Background(), known, exclude, 3)

			assert.Equal(t, profile.SourceDegraded, got.Source)
			assert.Error(t, got.Err)
			assert.NotEmpty(t, got.Questions)
			assert.Equal(t, want, got.Questions)
		})
	}
}

func TestRank_CanceledContextDegrades(t *testing.T) {
	f := newFixture(t, founderCSV)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := f.ranker.Rank(ctx, map[string]string{"name": "Ada"}, map[string]struct{}{"name": {}}, 2)

	assert.Equal(t, profile.SourceDegraded, got.Source)
	assert.Equal(t, []string{"email", "phone"}, got.Questions)
}
