package model

import (
	"time"

	"gorm.io/datatypes"
)

type ProfileSubmission struct {
	SessionId      string                      `gorm:"type:varchar(64);primaryKey" json:"session_id"`
	State          string                      `gorm:"type:varchar(20);not null;default:'active';index" json:"state"`
	Answers        datatypes.JSON              `gorm:"type:jsonb;not null" json:"answers"`
	AskedQuestions datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"asked_questions"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
	LastActive     *time.Time                  `json:"last_active,omitempty"`
}

func (ProfileSubmission) TableName() string {
	return "profile_submissions"
}
