package persister

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-agent-platform/pkg/profile"

	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix = "profile:"
	sessionKeyPrefix = "profile_session:"
)

// RedisPersister stores answers under profile:<id> and shutdown snapshots
// under profile_session:<id>. A zero ttl keeps keys forever.
type RedisPersister struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPersister(rdb *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{rdb: rdb, ttl: ttl}
}

func (p *RedisPersister) SaveProfile(ctx context.Context, sessionID string, fields map[string]string) error {
	return p.set(ctx, profileKeyPrefix+sessionID, fields)
}

func (p *RedisPersister) SaveSession(ctx context.Context, snapshot profile.Snapshot) error {
	return p.set(ctx, sessionKeyPrefix+snapshot.ID, snapshot)
}

// LoadProfile returns the last saved answers, or nil when none exist.
func (p *RedisPersister) LoadProfile(ctx context.Context, sessionID string) (map[string]string, error) {
	raw, err := p.rdb.Get(ctx, profileKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", sessionID, err)
	}
	return fields, nil
}

func (p *RedisPersister) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.rdb.Set(ctx, key, data, p.ttl).Err()
}
