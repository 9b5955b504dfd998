package websocket

import (
	"context"
	"testing"
	"time"

	"ai-agent-platform/internal/repository/memory"
	"ai-agent-platform/internal/service"
	"ai-agent-platform/pkg/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(t *testing.T, labels ...string) service.IProfileService {
	t.Helper()
	universe := profile.NewUniverse(labels)
	ranker := profile.NewRanker(nil, nil, universe, nil)
	manager := profile.NewManager(ranker, universe, memory.NewSessionRepository(), nil)
	return service.NewProfileService(manager, service.IndexInfo{Questions: universe.Len()}, time.Hour)
}

func TestConversation(t *testing.T) {
	svc := newProfileService(t, "name", "email")
	ctx := context.Background()
	conv := NewConversation(svc)

	out := conv.Open(ctx, "")
	require.Equal(t, MessageQuestion, out.Type)
	assert.Equal(t, "name", out.Question)
	sessionId := out.SessionId

	out = conv.Handle(ctx, Inbound{Answer: "  "})
	assert.Equal(t, MessageError, out.Type)
	assert.Equal(t, 422, out.Code)
	assert.Equal(t, "Answer cannot be empty", out.Message)
	assert.Equal(t, "name", out.Question, "question stays pending")
	assert.False(t, conv.Done())

	out = conv.Handle(ctx, Inbound{Answer: "Ada"})
	require.Equal(t, MessageQuestion, out.Type)
	assert.Equal(t, "email", out.Question)
	assert.Equal(t, "1/2", out.Progress)

	out = conv.Handle(ctx, Inbound{Answer: "ada@example.com"})
	require.Equal(t, MessageComplete, out.Type)
	assert.Equal(t, sessionId, out.SessionId)
	assert.Equal(t, map[string]string{"name": "Ada", "email": "ada@example.com"}, out.Profile)
	assert.True(t, conv.Done())

	out = conv.Handle(ctx, Inbound{Answer: "again"})
	assert.Equal(t, MessageError, out.Type)
}

func TestConversation_Resume(t *testing.T) {
	svc := newProfileService(t, "name", "email")
	ctx := context.Background()

	first := NewConversation(svc)
	opened := first.Open(ctx, "")
	first.Handle(ctx, Inbound{Answer: "Ada"})

	second := NewConversation(svc)
	out := second.Open(ctx, opened.SessionId)
	require.Equal(t, MessageQuestion, out.Type)
	assert.Equal(t, "email", out.Question)

	out = second.Handle(ctx, Inbound{Answer: "ada@example.com"})
	assert.Equal(t, MessageComplete, out.Type)

	third := NewConversation(svc)
	out = third.Open(ctx, opened.SessionId)
	assert.Equal(t, MessageComplete, out.Type)
	assert.True(t, third.Done())
}

func TestConversation_UnknownSession(t *testing.T) {
	conv := NewConversation(newProfileService(t, "name"))

	out := conv.Open(context.Background(), "missing")
	assert.Equal(t, MessageError, out.Type)
	assert.Equal(t, 404, out.Code)
	assert.True(t, conv.Done())
}
