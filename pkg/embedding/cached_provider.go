package embedding

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedProvider memoizes embeddings per (taskType, text). Profile queries
// repeat often across sessions that answered the same first questions.
type CachedProvider struct {
	next  EmbeddingProvider
	cache *cache.Cache
}

func NewCachedProvider(next EmbeddingProvider, ttl time.Duration) EmbeddingProvider {
	if ttl <= 0 {
		return next
	}
	return &CachedProvider{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	key := taskType + "\x00" + text
	if x, found := p.cache.Get(key); found {
		return copyResponse(x.(*EmbeddingResponse)), nil
	}

	res, err := p.next.Generate(text, taskType)
	if err != nil {
		return nil, err
	}

	p.cache.SetDefault(key, copyResponse(res))
	return res, nil
}

func (p *CachedProvider) Len() int {
	return p.cache.ItemCount()
}

func copyResponse(res *EmbeddingResponse) *EmbeddingResponse {
	values := make([]float32, len(res.Embedding.Values))
	copy(values, res.Embedding.Values)
	return &EmbeddingResponse{Embedding: EmbeddingResponseEmbedding{Values: values}}
}
