package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"closerlab/internal/model"
)

// StateCache is the hot store for per-session behaviour state. One key per
// session; nothing is ever shared across sessions.
type StateCache interface {
	Set(ctx context.Context, sessionID string, state *model.BehaviourState) error
	// Get returns (nil, nil) when no state is cached for the session.
	Get(ctx context.Context, sessionID string) (*model.BehaviourState, error)
	Delete(ctx context.Context, sessionID string) error
}

type stateCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateCache(client *redis.Client) StateCache {
	return &stateCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *stateCache) key(sessionID string) string {
	return "session:" + sessionID + ":state"
}

func (c *stateCache) Set(ctx context.Context, sessionID string, state *model.BehaviourState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(sessionID), data, c.ttl).Err()
}

func (c *stateCache) Get(ctx context.Context, sessionID string) (*model.BehaviourState, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.BehaviourState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *stateCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
