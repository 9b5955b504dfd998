package specification

import "gorm.io/gorm"

type BySessionId struct {
	SessionId string
}

func (s BySessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}

// ByStates keeps submissions in any of the given states.
type ByStates struct {
	States []string
}

func (s ByStates) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("state IN ?", s.States)
}
