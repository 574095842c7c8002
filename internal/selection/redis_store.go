package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dromero/devicestore-backend/internal/catalog"
	pkgredis "github.com/dromero/devicestore-backend/pkg/redis"
)

// RedisStore keeps selection state in Redis, one JSON document per session.
// The TTL bounds the lifetime of abandoned sessions; every write refreshes it.
type RedisStore struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed selection store.
func NewRedisStore(client *pkgredis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) (State, error) {
	raw, err := r.client.Get(ctx, r.client.SelectionKey(sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return NewState(), nil
		}
		return State{}, fmt.Errorf("load selection state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, fmt.Errorf("decode selection state: %w", err)
	}
	if state.Options == nil {
		state.Options = make(map[string]catalog.Option)
	}
	if state.AddOns == nil {
		state.AddOns = make(map[int64]bool)
	}
	return state, nil
}

func (r *RedisStore) Save(ctx context.Context, sessionID string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode selection state: %w", err)
	}
	if err := r.client.Set(ctx, r.client.SelectionKey(sessionID), string(payload), r.ttl); err != nil {
		return fmt.Errorf("save selection state: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.client.SelectionKey(sessionID)); err != nil {
		return fmt.Errorf("delete selection state: %w", err)
	}
	return nil
}
