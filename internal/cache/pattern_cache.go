package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"closerlab/internal/model"
)

// PatternCache keeps rolling per-trainee category aggregates across finished
// analyses. Advisory input to the policy brief.
type PatternCache interface {
	// Get returns (nil, nil) when the trainee has no recorded history.
	Get(ctx context.Context, traineeID string) (*model.TraineePattern, error)
	// Record folds one analysis's category scores into the rolling averages.
	Record(ctx context.Context, traineeID string, scores []model.CategoryScore) error
}

type patternCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPatternCache(client *redis.Client) PatternCache {
	return &patternCache{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
}

func (c *patternCache) key(traineeID string) string {
	return "trainee:" + traineeID + ":pattern"
}

func (c *patternCache) Get(ctx context.Context, traineeID string) (*model.TraineePattern, error) {
	data, err := c.client.Get(ctx, c.key(traineeID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p model.TraineePattern
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *patternCache) Record(ctx context.Context, traineeID string, scores []model.CategoryScore) error {
	p, err := c.Get(ctx, traineeID)
	if err != nil {
		return err
	}
	if p == nil {
		p = &model.TraineePattern{
			TraineeID:   traineeID,
			CategoryAvg: make(map[string]float64),
		}
	}

	n := float64(p.SessionCount)
	for _, s := range scores {
		prev := p.CategoryAvg[s.Category]
		p.CategoryAvg[s.Category] = (prev*n + s.Score) / (n + 1)
	}
	p.SessionCount++
	p.WeakCategories = weakestTwo(p.CategoryAvg)
	p.UpdatedAt = time.Now()

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(traineeID), data, c.ttl).Err()
}

func weakestTwo(avg map[string]float64) []string {
	type pair struct {
		cat   string
		score float64
	}
	pairs := make([]pair, 0, len(avg))
	for cat, score := range avg {
		pairs = append(pairs, pair{cat, score})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score < pairs[j].score
		}
		return pairs[i].cat < pairs[j].cat
	})
	out := []string{}
	for i := 0; i < len(pairs) && i < 2; i++ {
		out = append(out, pairs[i].cat)
	}
	return out
}
