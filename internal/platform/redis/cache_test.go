// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tapledger/internal/platform/redis"
)

type songTypeCounts struct {
	Counts map[string]int `json:"counts"`
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	server, client := newClient(t)
	cache := redis.NewCache(client, time.Minute)

	var miss songTypeCounts
	found, err := cache.Get(ctx, "stats:songtypes", &miss)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "stats:songtypes", songTypeCounts{Counts: map[string]int{"original": 3, "cover": 1}}))
	assert.Equal(t, time.Minute, server.TTL("stats:songtypes"))

	var hit songTypeCounts
	found, err = cache.Get(ctx, "stats:songtypes", &hit)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, hit.Counts["original"])

	require.NoError(t, cache.Delete(ctx, "stats:songtypes", "stats:missing"))
	found, err = cache.Get(ctx, "stats:songtypes", &hit)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	server, client := newClient(t)
	cache := redis.NewCache(client, time.Minute)

	require.NoError(t, cache.Set(ctx, "stats:status", map[string]int{"active": 2}))
	server.FastForward(2 * time.Minute)

	var counts map[string]int
	found, err := cache.Get(ctx, "stats:status", &counts)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	server, client := newClient(t)
	cache := redis.NewCache(client, time.Minute)

	require.NoError(t, server.Set("stats:status", "{not json"))

	var counts map[string]int
	_, err := cache.Get(ctx, "stats:status", &counts)
	assert.Error(t, err)
}
