package utils

import (
	"sync"
	"time"
)

// The feed cache holds rendered feed payloads for a short, fixed TTL. Reads
// within the TTL return the stored bytes verbatim, regardless of writes that
// happened in between; staleness up to the TTL is accepted. Writes never
// invalidate early, FeedCacheClear exists as an operational and test hook.

type feedCacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

var (
	feedCache   = map[string]feedCacheEntry{}
	feedCacheMu sync.RWMutex
)

// FeedCacheGet returns the cached payload for a key if it has not expired.
func FeedCacheGet(key string) ([]byte, bool) {
	feedCacheMu.RLock()
	entry, ok := feedCache[key]
	feedCacheMu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		feedCacheMu.Lock()
		delete(feedCache, key)
		feedCacheMu.Unlock()
		return nil, false
	}
	return entry.payload, true
}

// FeedCacheSet stores a payload under key for the given TTL.
func FeedCacheSet(key string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	feedCacheMu.Lock()
	feedCache[key] = feedCacheEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	feedCacheMu.Unlock()
}

// FeedCacheClear drops every cached feed payload.
func FeedCacheClear() {
	feedCacheMu.Lock()
	feedCache = map[string]feedCacheEntry{}
	feedCacheMu.Unlock()
}
