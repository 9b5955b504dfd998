package entity

import "time"

type ProfileSubmission struct {
	SessionId      string
	State          string
	Answers        map[string]string
	AskedQuestions []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastActive     *time.Time
}
