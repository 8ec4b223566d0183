package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"chat-archivist-be/pkg/rag/agent"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RelevanceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRelevanceCache(client, ttl), mr
}

func TestPutGetRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()
	query := "who broke the deployment pipeline"

	err := cache.PutBatch(ctx, []agent.CacheEntry{
		{MessageID: 1, Query: query, Score: 9},
		{MessageID: 2, Query: query, Score: 4},
	})
	assert.NoError(t, err)

	hits, err := cache.GetBatch(ctx, []int64{1, 2, 3}, query)
	assert.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 9, 2: 4}, hits, "id 3 was never written and must stay a miss")
}

func TestReorderedQuerySharesEntries(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	err := cache.PutBatch(ctx, []agent.CacheEntry{
		{MessageID: 5, Query: "budget quarterly report", Score: 7},
	})
	assert.NoError(t, err)

	hits, err := cache.GetBatch(ctx, []int64{5}, "report BUDGET   quarterly")
	assert.NoError(t, err)
	assert.Equal(t, map[int64]int{5: 7}, hits, "word order and case must not split cache entries")
}

func TestDifferentQueryMisses(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	err := cache.PutBatch(ctx, []agent.CacheEntry{
		{MessageID: 5, Query: "budget quarterly report", Score: 7},
	})
	assert.NoError(t, err)

	hits, err := cache.GetBatch(ctx, []int64{5}, "vacation plans")
	assert.NoError(t, err)
	assert.Empty(t, hits)
}

func TestExpiredScoresBecomeMisses(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	query := "old judged question"

	err := cache.PutBatch(ctx, []agent.CacheEntry{
		{MessageID: 11, Query: query, Score: 8},
	})
	assert.NoError(t, err)

	hits, err := cache.GetBatch(ctx, []int64{11}, query)
	assert.NoError(t, err)
	assert.Equal(t, map[int64]int{11: 8}, hits, "fresh entry must hit")

	mr.FastForward(2 * time.Minute)

	hits, err = cache.GetBatch(ctx, []int64{11}, query)
	assert.NoError(t, err)
	assert.Empty(t, hits, "expired entry must read as a miss")
}

func TestCorruptValueIsSkipped(t *testing.T) {
	cache, mr := newTestCache(t, time.Hour)
	ctx := context.Background()
	query := "some question"

	err := mr.Set(cacheKey(7, agent.QueryHash(query)), "not-a-number")
	assert.NoError(t, err)

	hits, err := cache.GetBatch(ctx, []int64{7}, query)
	assert.NoError(t, err)
	assert.Empty(t, hits)
}

func TestEmptyBatchesAreNoops(t *testing.T) {
	cache, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	hits, err := cache.GetBatch(ctx, nil, "anything")
	assert.NoError(t, err)
	assert.Empty(t, hits)

	assert.NoError(t, cache.PutBatch(ctx, nil))
}
