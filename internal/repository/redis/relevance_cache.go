package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"chat-archivist-be/pkg/rag/agent"

	"github.com/redis/go-redis/v9"
)

// DefaultRelevanceTTL bounds how long a judged score stays reusable.
const DefaultRelevanceTTL = 24 * time.Hour

// RelevanceCache persists judged relevance scores across sessions.
// Keys combine the message id with the normalized query hash so
// paraphrases reordering the same words share an entry; redis handles
// per-key expiry, so expired scores are plain misses.
type RelevanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ agent.RelevanceCache = &RelevanceCache{}

func NewRelevanceCache(client *redis.Client, ttl time.Duration) *RelevanceCache {
	if ttl <= 0 {
		ttl = DefaultRelevanceTTL
	}
	return &RelevanceCache{client: client, ttl: ttl}
}

func cacheKey(messageId int64, queryHash string) string {
	return fmt.Sprintf("relevance:%d:%s", messageId, queryHash)
}

// GetBatch resolves all message ids in one MGET round-trip. Missing and
// unparseable values are simply absent from the result.
func (c *RelevanceCache) GetBatch(ctx context.Context, messageIds []int64, query string) (map[int64]int, error) {
	if len(messageIds) == 0 {
		return map[int64]int{}, nil
	}

	queryHash := agent.QueryHash(query)
	keys := make([]string, len(messageIds))
	for i, id := range messageIds {
		keys[i] = cacheKey(id, queryHash)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("relevance cache mget: %w", err)
	}

	hits := make(map[int64]int)
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		score, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		hits[messageIds[i]] = score
	}
	return hits, nil
}

// PutBatch writes all entries through one pipeline, each with its own
// TTL.
func (c *RelevanceCache) PutBatch(ctx context.Context, entries []agent.CacheEntry) error {
	if len(entries) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, e := range entries {
		key := cacheKey(e.MessageID, agent.QueryHash(e.Query))
		pipe.Set(ctx, key, strconv.Itoa(e.Score), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("relevance cache pipeline: %w", err)
	}
	return nil
}
