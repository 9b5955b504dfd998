package profile

import (
	"context"
	"fmt"
	"sort"

	"ai-agent-platform/pkg/embedding"

	"golang.org/x/sync/errgroup"
)

const defaultBuildWorkers = 4

// Neighbor is one search hit.
type Neighbor struct {
	RecordID int
	Score    float32
}

// Index is a flat inner-product index over unit vectors. It is never mutated
// after BuildIndex returns, so concurrent searches need no locking.
type Index struct {
	ids     []int
	vectors [][]float32
	dim     int
}

// BuildIndex embeds every record's text with up to workers concurrent calls.
func BuildIndex(
	ctx context.Context,
	records []Record,
	universe *Universe,
	embedder embedding.EmbeddingProvider,
	workers int,
) (*Index, error) {
	if workers <= 0 {
		workers = defaultBuildWorkers
	}

	vectors := make([][]float32, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range records {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := embedder.Generate(universe.Text(records[i].Fields), embedding.TaskSemanticSimilarity)
			if err != nil {
				return fmt.Errorf("%w: record %d: %v", ErrIndexBuild, records[i].ID, err)
			}
			vectors[i] = embedding.Normalize(res.Embedding.Values)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := &Index{
		ids:     make([]int, len(records)),
		vectors: vectors,
	}
	for i, rec := range records {
		idx.ids[i] = rec.ID
	}

	if len(vectors) == 0 {
		return idx, nil
	}

	idx.dim = len(vectors[0])
	if idx.dim == 0 {
		return nil, fmt.Errorf("%w: record %d has an empty embedding", ErrIndexBuild, idx.ids[0])
	}
	for i, vec := range vectors {
		if len(vec) != idx.dim {
			return nil, fmt.Errorf("%w: record %d has dimension %d, expected %d", ErrIndexBuild, idx.ids[i], len(vec), idx.dim)
		}
	}

	return idx, nil
}

func (idx *Index) Len() int {
	return len(idx.ids)
}

func (idx *Index) Dimension() int {
	return idx.dim
}

// Search returns at most k neighbors by descending score, ties broken by
// ascending record id. k larger than the index returns every record.
func (idx *Index) Search(query []float32, k int) ([]Neighbor, error) {
	if k <= 0 || len(idx.ids) == 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), idx.dim)
	}

	hits := make([]Neighbor, len(idx.ids))
	for i, vec := range idx.vectors {
		hits[i] = Neighbor{RecordID: idx.ids[i], Score: embedding.Dot(query, vec)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].RecordID < hits[j].RecordID
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}
