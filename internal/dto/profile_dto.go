package dto

import "time"

type StartProfileResponse struct {
	SessionId string `json:"session_id"`
	Question  string `json:"question"`
}

type SubmitProfileRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Question  string `json:"question" validate:"required"`
	Answer    string `json:"answer"`
}

type SubmitProfileResponse struct {
	SessionId    string            `json:"session_id"`
	Status       string            `json:"status"`
	NextQuestion string            `json:"next_question,omitempty"`
	Progress     string            `json:"progress"`
	Answered     int               `json:"answered"`
	Total        int               `json:"total"`
	Profile      map[string]string `json:"profile,omitempty"`
}

type ProfileSessionResponse struct {
	SessionId      string            `json:"session_id"`
	State          string            `json:"state"`
	Profile        map[string]string `json:"profile"`
	AskedQuestions []string          `json:"asked_questions"`
	CreatedAt      time.Time         `json:"created_at"`
	LastActive     time.Time         `json:"last_active"`
}

type EvictSessionsRequest struct {
	// OlderThan is a Go duration ("30m"); empty uses the configured threshold.
	OlderThan string `json:"older_than"`
}

type EvictSessionsResponse struct {
	Evicted []string `json:"evicted"`
}

type ProfileStatsResponse struct {
	Active         int `json:"active"`
	Complete       int `json:"complete"`
	Records        int `json:"records"`
	Questions      int `json:"questions"`
	IndexDimension int `json:"index_dimension"`
}

// ProfileSessionEventMessage is the wire form of a session lifecycle event.
type ProfileSessionEventMessage struct {
	Type           string            `json:"type"`
	SessionId      string            `json:"session_id"`
	State          string            `json:"state"`
	Profile        map[string]string `json:"profile"`
	AskedQuestions []string          `json:"asked_questions"`
	CreatedAt      time.Time         `json:"created_at"`
	LastActive     time.Time         `json:"last_active"`
	OccurredAt     time.Time         `json:"occurred_at"`
}
