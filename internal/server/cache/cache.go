// Package cache keeps converted output artifacts in memory so repeated
// downloads do not re-render the CSV. It uses patrickmn/go-cache for
// TTL-based expiry.
package cache

import (
	"time"

	"github.com/agentstation/utc"
	gocache "github.com/patrickmn/go-cache"
)

// Artifact is a rendered output file.
type Artifact struct {
	Filename string
	Data     []byte
	Created  utc.Time
}

// Cache holds at most one artifact per session.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache whose artifacts expire after ttl.
// cleanupInterval is how often expired items are removed from memory.
func New(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(ttl, cleanupInterval),
	}
}

func key(sessionID string) string {
	return "artifact:" + sessionID
}

// Put stores the artifact of a session, replacing any previous one.
func (c *Cache) Put(sessionID string, a Artifact) {
	c.store.Set(key(sessionID), a, gocache.DefaultExpiration)
}

// Get returns the artifact of a session.
func (c *Cache) Get(sessionID string) (Artifact, bool) {
	v, ok := c.store.Get(key(sessionID))
	if !ok {
		return Artifact{}, false
	}
	a, ok := v.(Artifact)
	return a, ok
}

// Invalidate drops the artifact of a session.
func (c *Cache) Invalidate(sessionID string) {
	c.store.Delete(key(sessionID))
}

// Clear removes all artifacts.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of cached artifacts.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
