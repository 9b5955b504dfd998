package memory

import (
	"context"
	"testing"

	"ai-agent-platform/pkg/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository()
	universe := profile.NewUniverse([]string{"name", "email"})
	manager := profile.NewManager(profile.NewRanker(nil, nil, universe, nil), universe, repo, nil)

	a, err := manager.Start(context.Background())
	require.NoError(t, err)
	b, err := manager.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.Count())

	got, ok := repo.Get(a.SessionID)
	require.True(t, ok)
	assert.Equal(t, a.SessionID, got.ID())

	all := repo.All()
	repo.Delete(b.SessionID)
	assert.Len(t, all, 2, "All returns a snapshot")
	assert.Equal(t, 1, repo.Count())

	_, ok = repo.Get(b.SessionID)
	assert.False(t, ok)
}
