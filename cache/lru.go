// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/creator-staking/log"
	"github.com/vechain/creator-staking/metrics"
)

var (
	logger          = log.WithContext("pkg", "cache")
	metricCacheHits = metrics.LazyLoadCounterVec("cache_lookup_count", []string{"name", "result"})
)

// LRU a named LRU cache extends golang-lru. Only immutable values should be cached.
type LRU struct {
	*lru.Cache
	name  string
	stats Stats
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU(name string, maxSize int) (*LRU, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: cache, name: name}, nil
}

// Loader defines loader to load value.
type Loader func(key any) (any, error)

// GetOrLoad first try to get from cache, do load if missed.
// Failed loads are not cached.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.record(true)
		return v, nil
	}
	l.record(false)

	v, err := loader(key)
	if err != nil {
		return nil, err
	}
	l.Add(key, v)
	return v, nil
}

// Stats returns the number of hits and misses so far.
func (l *LRU) Stats() (hit, miss int64) {
	_, hit, miss = l.stats.Stats()
	return
}

func (l *LRU) record(hit bool) {
	result := "miss"
	if hit {
		l.stats.Hit()
		result = "hit"
	} else {
		l.stats.Miss()
	}
	metricCacheHits().AddWithLabel(1, map[string]string{"name": l.name, "result": result})

	if changed, hits, misses := l.stats.Stats(); changed {
		logger.Trace("cache hit rate changed", "name", l.name, "hit", hits, "miss", misses)
	}
}
