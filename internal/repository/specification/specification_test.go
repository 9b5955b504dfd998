package specification

import (
	"testing"

	"ai-agent-platform/internal/model"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost", PreferSimpleProtocol: true}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestProfileSpecifications(t *testing.T) {
	db := dryRunDB(t)

	query := db.Model(&model.ProfileSubmission{})
	for _, spec := range []Specification{
		ByStates{States: []string{"complete"}},
		BySessionId{SessionId: "abc"},
		OrderBy{Field: "created_at", Desc: true},
		Pagination{Limit: 10},
	} {
		query = spec.Apply(query)
	}

	stmt := query.Find(&[]model.ProfileSubmission{}).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `FROM "profile_submissions"`)
	assert.Contains(t, sql, "state IN")
	assert.Contains(t, sql, "session_id = ")
	assert.Contains(t, sql, "ORDER BY created_at DESC")
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, stmt.Vars, "abc")
}
