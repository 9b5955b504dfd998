package websocket

import (
	"context"

	"ai-agent-platform/internal/dto"
	"ai-agent-platform/internal/pkg/serverutils"
	"ai-agent-platform/internal/service"
	"ai-agent-platform/pkg/profile"
)

const (
	MessageQuestion = "question"
	MessageComplete = "complete"
	MessageError    = "error"
)

// Inbound is what a client sends: the answer to the pending question.
type Inbound struct {
	Answer string `json:"answer"`
}

type Outbound struct {
	Type      string            `json:"type"`
	SessionId string            `json:"session_id,omitempty"`
	Question  string            `json:"question,omitempty"`
	Progress  string            `json:"progress,omitempty"`
	Profile   map[string]string `json:"profile,omitempty"`
	Code      int               `json:"code,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// Conversation drives one profile session over a message stream. The server
// remembers the pending question, so clients only ever send answers.
type Conversation struct {
	svc       service.IProfileService
	sessionId string
	question  string
	done      bool
}

func NewConversation(svc service.IProfileService) *Conversation {
	return &Conversation{svc: svc}
}

func (c *Conversation) Done() bool {
	return c.done
}

// Open starts a new session, or resumes resumeId when it is not empty.
func (c *Conversation) Open(ctx context.Context, resumeId string) Outbound {
	if resumeId != "" {
		return c.resume(ctx, resumeId)
	}

	res, err := c.svc.Start(ctx)
	if err != nil {
		c.done = true
		return errorMessage(err)
	}

	c.sessionId = res.SessionId
	c.question = res.Question
	return Outbound{Type: MessageQuestion, SessionId: c.sessionId, Question: c.question}
}

func (c *Conversation) resume(ctx context.Context, sessionId string) Outbound {
	snap, err := c.svc.GetSession(ctx, sessionId)
	if err != nil {
		c.done = true
		return errorMessage(err)
	}

	c.sessionId = snap.SessionId
	if snap.State == string(profile.StateComplete) || len(snap.AskedQuestions) == 0 {
		c.done = true
		return Outbound{Type: MessageComplete, SessionId: c.sessionId, Profile: snap.Profile}
	}

	// The last asked question is the one handed out and not yet answered.
	c.question = snap.AskedQuestions[len(snap.AskedQuestions)-1]
	return Outbound{Type: MessageQuestion, SessionId: c.sessionId, Question: c.question}
}

// Handle submits an answer to the pending question. Validation errors leave
// the question pending so the client can try again.
func (c *Conversation) Handle(ctx context.Context, in Inbound) Outbound {
	if c.done {
		return Outbound{Type: MessageError, SessionId: c.sessionId, Code: 409, Message: "session is closed"}
	}

	res, err := c.svc.Submit(ctx, &dto.SubmitProfileRequest{
		SessionId: c.sessionId,
		Question:  c.question,
		Answer:    in.Answer,
	})
	if err != nil {
		out := errorMessage(err)
		out.SessionId = c.sessionId
		out.Question = c.question
		if out.Code != 422 {
			c.done = true
		}
		return out
	}

	if res.Status == string(profile.StatusComplete) {
		c.done = true
		return Outbound{Type: MessageComplete, SessionId: c.sessionId, Progress: res.Progress, Profile: res.Profile}
	}

	c.question = res.NextQuestion
	return Outbound{Type: MessageQuestion, SessionId: c.sessionId, Question: c.question, Progress: res.Progress}
}

func errorMessage(err error) Outbound {
	return Outbound{
		Type:    MessageError,
		Code:    serverutils.StatusFor(err),
		Message: serverutils.MessageFor(err),
	}
}
