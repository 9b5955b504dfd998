package profile_test

import (
	"context"
	"testing"

	"ai-agent-platform/pkg/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexSearch(t *testing.T) {
	f := newFixture(t, threeRecordCSV)
	require.Equal(t, 3, f.index.Len())

	// "A" alone: records 0 and 1 tie, ids break the tie.
	hits, err := f.index.Search([]float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].RecordID)
	assert.Equal(t, 1, hits[1].RecordID)
	assert.InDelta(t, 0.7071, hits[0].Score, 1e-3)

	all, err := f.index.Search([]float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 2, all[2].RecordID)

	none, err := f.index.Search([]float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.index.Search([]float32{1, 0}, 2)
	assert.Error(t, err)
}

func TestBuildIndex_DimensionMismatch(t *testing.T) {
	records := []profile.Record{
		{ID: 0, Fields: map[string]string{"a": "1"}},
		{ID: 1, Fields: map[string]string{"a": "2"}},
	}
	universe := profile.NewUniverse([]string{"a"})

	_, err := profile.BuildIndex(context.Background(), records, universe, &fixedDimEmbedder{dims: []int{3, 4}}, 1)
	assert.ErrorIs(t, err, profile.ErrIndexBuild)
}

func TestBuildIndex_EmbedderFailure(t *testing.T) {
	records := []profile.Record{{ID: 0, Fields: map[string]string{"a": "1"}}}
	universe := profile.NewUniverse([]string{"a"})

	_, err := profile.BuildIndex(context.Background(), records, universe, failingEmbedder{}, 1)
	assert.ErrorIs(t, err, profile.ErrIndexBuild)
}

func TestBuildIndex_NoRecords(t *testing.T) {
	idx, err := profile.BuildIndex(context.Background(), nil, profile.NewUniverse([]string{"a"}), failingEmbedder{}, 1)
	require.NoError(t, err)

	hits, err := idx.Search([]float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
