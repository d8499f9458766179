package frequency

import (
	"container/list"
	"sync"

	"partscan/internal/port"
)

// ScoreCache is a bounded LRU cache of oracle scores keyed by (language, word).
type ScoreCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	maxSize int
	hits    uint64
	misses  uint64
}

type cacheEntry struct {
	key   string
	score float64
}

func NewScoreCache(maxSize int) *ScoreCache {
	if maxSize <= 0 {
		maxSize = 4096
	}
	return &ScoreCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
	}
}

func cacheKey(word, lang string) string {
	return lang + "\x00" + word
}

func (c *ScoreCache) Get(word, lang string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[cacheKey(word, lang)]
	if !ok {
		c.misses++
		return 0, false
	}
	c.hits++
	c.order.MoveToBack(el)
	return el.Value.(*cacheEntry).score, true
}

func (c *ScoreCache) Put(word, lang string, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(word, lang)
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).score = score
		c.order.MoveToBack(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, score: score})
}

func (c *ScoreCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns the hit and miss counts since creation.
func (c *ScoreCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *ScoreCache) evictOldest() {
	oldest := c.order.Front()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.entries, oldest.Value.(*cacheEntry).key)
}

// CachedOracle memoizes a FrequencyOracle. Failed lookups are not cached.
type CachedOracle struct {
	oracle port.FrequencyOracle
	cache  *ScoreCache
}

func NewCachedOracle(oracle port.FrequencyOracle, cache *ScoreCache) *CachedOracle {
	return &CachedOracle{
		oracle: oracle,
		cache:  cache,
	}
}

func (o *CachedOracle) Score(word, lang string) (float64, error) {
	if score, hit := o.cache.Get(word, lang); hit {
		return score, nil
	}

	score, err := o.oracle.Score(word, lang)
	if err != nil {
		return 0, err
	}

	o.cache.Put(word, lang, score)

	return score, nil
}

var _ port.FrequencyOracle = (*CachedOracle)(nil)
