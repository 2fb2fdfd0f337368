package timescale

import (
	"fmt"
	"sync"
	"time"

	"github.com/safal938/board28-sub000/internal/checksum"
)

// Cache memoizes scales on (dates, width, padding). It keeps at most
// capacity entries and evicts the oldest insertion first.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*Scale
	order    []string
}

// NewCache returns a cache holding up to capacity scales (minimum 1).
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: max(1, capacity),
		entries:  make(map[string]*Scale),
	}
}

// Get returns the memoized scale for the inputs, building it on a miss.
func (c *Cache) Get(dates []time.Time, width, padding float64) *Scale {
	key := cacheKey(dates, width, padding)

	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.entries[key]; ok {
		return s
	}
	s := New(dates, width, padding)
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = s
	c.order = append(c.order, key)
	return s
}

// Len returns the number of memoized scales.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cacheKey(dates []time.Time, width, padding float64) string {
	return fmt.Sprintf("%s|%g|%g", checksum.Times(dates), width, padding)
}
