package memory

import (
	"time"

	"code-concierge-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const statsKey = "knowledge_stats"

// StatsCache keeps the three knowledge table counts between imports.
type StatsCache struct {
	cache *cache.Cache
}

func NewStatsCache(ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *StatsCache) GetStats() (entity.KnowledgeStats, bool) {
	if x, found := c.cache.Get(statsKey); found {
		return x.(entity.KnowledgeStats), true
	}
	return entity.KnowledgeStats{}, false
}

func (c *StatsCache) SetStats(stats entity.KnowledgeStats) {
	c.cache.Set(statsKey, stats, cache.DefaultExpiration)
}

// Invalidate drops the cached counts; called whenever a knowledge table changes.
func (c *StatsCache) Invalidate() {
	c.cache.Delete(statsKey)
}
