package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFeedCacheRoundTrip(t *testing.T) {
	FeedCacheClear()

	_, ok := FeedCacheGet("feed:index:page=1")
	assert.False(t, ok)

	FeedCacheSet("feed:index:page=1", []byte("payload"), time.Minute)
	got, ok := FeedCacheGet("feed:index:page=1")
	assert.True(t, ok)
	assert.Equal(t, []byte("payload"), got)
}

func TestFeedCacheExpires(t *testing.T) {
	FeedCacheClear()

	FeedCacheSet("feed:index:page=1", []byte("stale"), 30*time.Millisecond)
	_, ok := FeedCacheGet("feed:index:page=1")
	assert.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = FeedCacheGet("feed:index:page=1")
	assert.False(t, ok)
}

func TestFeedCacheClear(t *testing.T) {
	FeedCacheClear()

	FeedCacheSet("feed:index:page=1", []byte("one"), time.Minute)
	FeedCacheSet("feed:index:page=2", []byte("two"), time.Minute)
	FeedCacheClear()

	_, ok := FeedCacheGet("feed:index:page=1")
	assert.False(t, ok)
	_, ok = FeedCacheGet("feed:index:page=2")
	assert.False(t, ok)
}

func TestFeedCacheZeroTTLNotStored(t *testing.T) {
	FeedCacheClear()

	FeedCacheSet("feed:index:page=1", []byte("ignored"), 0)
	_, ok := FeedCacheGet("feed:index:page=1")
	assert.False(t, ok)
}
