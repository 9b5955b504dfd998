package persister

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ai-agent-platform/pkg/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePersister(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFilePersister(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, p.SaveProfile(ctx, "s-1", map[string]string{"name": "Ada"}))
	require.NoError(t, p.SaveProfile(ctx, "s-1", map[string]string{"name": "Ada", "email": "ada@example.com"}))

	raw, err := os.ReadFile(p.ProfilePath("s-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ada","email":"ada@example.com"}`, string(raw))

	snap := profile.Snapshot{
		ID:         "s-1",
		Profile:    map[string]string{"name": "Ada"},
		Asked:      []string{"name", "email"},
		State:      profile.StateActive,
		CreatedAt:  time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		LastActive: time.Date(2026, 1, 1, 9, 5, 0, 0, time.UTC),
	}
	require.NoError(t, p.SaveSession(ctx, snap))

	raw, err = os.ReadFile(p.SessionPath("s-1"))
	require.NoError(t, err)
	var got profile.Snapshot
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, snap, got)

	leftovers, err := filepath.Glob(filepath.Join(dir, "*", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFilePersister_RejectsPathLikeIDs(t *testing.T) {
	p, err := NewFilePersister(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, p.SaveProfile(context.Background(), "../escape", map[string]string{}))
	assert.Error(t, p.SaveProfile(context.Background(), "", map[string]string{}))
}
